package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "pomo/internal/modules/history/dto"
	"pomo/internal/ui/theme"
)

const recentLimit = 10

// Port is the read side of the history use-case this view needs.
type Port interface {
	DailyStats(ctx context.Context, sinceDays int) ([]historydto.DailyStatOutput, error)
	Profile(ctx context.Context, sinceDays int) (historydto.ProfileOutput, error)
	Sessions(ctx context.Context, sinceDays, limit int) ([]historydto.SessionOutput, error)
	TypeBreakdown(ctx context.Context, sinceDays int) ([]historydto.TypeCountOutput, error)
}

// LoadedMsg carries one full refresh of the statistics pane.
type LoadedMsg struct {
	Days      int
	Daily     []historydto.DailyStatOutput
	Profile   historydto.ProfileOutput
	Recent    []historydto.SessionOutput
	Breakdown []historydto.TypeCountOutput
	Err       error
}

type Model struct {
	port      Port
	days      int
	daily     []historydto.DailyStatOutput
	profile   historydto.ProfileOutput
	breakdown []historydto.TypeCountOutput
	recent    table.Model
	spinner   spinner.Model
	loading   bool
	err       error
	width     int
	height    int
}

func New(port Port, days int) Model {
	t := table.New(
		table.WithColumns(recentColumns(60)),
		table.WithHeight(recentLimit+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Lavender).Bold(false)
	t.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, days: days, recent: t, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Days() int { return m.days }

// SetDays changes the window and triggers a reload.
func (m Model) SetDays(days int) (Model, tea.Cmd) {
	m.days = days
	m.loading = true
	return m, tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recent.SetColumns(recentColumns(m.width / 2))

	case LoadedMsg:
		if msg.Days != m.days {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.daily = msg.Daily
		m.profile = msg.Profile
		m.breakdown = msg.Breakdown
		m.recent.SetRows(recentRows(msg.Recent))

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.recent, cmd = m.recent.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading history…")
	}
	if m.err != nil {
		return theme.Error.Render("history: " + m.err.Error())
	}

	leftW := m.width / 2
	var left strings.Builder
	left.WriteString(theme.Title.Render(fmt.Sprintf("Last %d days", m.days)) + "\n\n")
	left.WriteString(renderProfile(m.profile) + "\n\n")
	left.WriteString(theme.Title.Render("Work minutes per day") + "\n")
	left.WriteString(RenderChart(m.daily, leftW-16) + "\n")
	left.WriteString(theme.Title.Render("By type") + "\n")
	left.WriteString(renderBreakdown(m.breakdown))

	var right strings.Builder
	right.WriteString(theme.Title.Render("Recent sessions") + "\n")
	right.WriteString(m.recent.View())

	leftPane := lipgloss.NewStyle().Width(leftW).Padding(1, 2).Render(left.String())
	rightPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Width(m.width - leftW - 2).
		Render(right.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// Reload fetches every section for the current window.
func (m Model) Reload() tea.Cmd {
	days := m.days
	port := m.port
	return func() tea.Msg {
		ctx := context.Background()
		out := LoadedMsg{Days: days}
		if out.Daily, out.Err = port.DailyStats(ctx, days); out.Err != nil {
			return out
		}
		if out.Profile, out.Err = port.Profile(ctx, days); out.Err != nil {
			return out
		}
		if out.Recent, out.Err = port.Sessions(ctx, days, recentLimit); out.Err != nil {
			return out
		}
		out.Breakdown, out.Err = port.TypeBreakdown(ctx, days)
		return out
	}
}

// RenderChart draws one horizontal bar per day scaled to width cells.
func RenderChart(daily []historydto.DailyStatOutput, width int) string {
	if len(daily) == 0 {
		return theme.Muted.Render("No sessions recorded.") + "\n"
	}
	if width < 10 {
		width = 10
	}
	peak := 0
	for _, d := range daily {
		peak = max(peak, d.WorkMinutes)
	}
	bar := lipgloss.NewStyle().Foreground(theme.Peach)
	var sb strings.Builder
	for _, d := range daily {
		cells := 0
		if peak > 0 {
			cells = d.WorkMinutes * width / peak
		}
		label := d.Day
		if len(label) == len("2006-01-02") {
			label = label[5:]
		}
		sb.WriteString(theme.Muted.Render(label) + " " + bar.Render(strings.Repeat("█", cells)) +
			fmt.Sprintf(" %d", d.WorkMinutes) + "\n")
	}
	return sb.String()
}

func renderProfile(p historydto.ProfileOutput) string {
	return fmt.Sprintf("%s %d   %s %d   %s %.0f%%   %s %dm",
		theme.Muted.Render("sessions"), p.TotalSessions,
		theme.Muted.Render("completed"), p.CompletedSessions,
		theme.Muted.Render("success"), p.SuccessRate,
		theme.Muted.Render("focus"), p.WorkMinutes)
}

func renderBreakdown(counts []historydto.TypeCountOutput) string {
	if len(counts) == 0 {
		return theme.Muted.Render("No sessions recorded.")
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		style := lipgloss.NewStyle().Foreground(theme.SessionColor(c.SessionType))
		parts = append(parts, style.Render(c.SessionType)+" "+strconv.Itoa(c.Count))
	}
	return strings.Join(parts, "   ")
}

func recentColumns(width int) []table.Column {
	taskW := width - 12 - 12 - 5 - 5 - 10
	if taskW < 8 {
		taskW = 8
	}
	return []table.Column{
		{Title: "When", Width: 12},
		{Title: "Type", Width: 12},
		{Title: "Min", Width: 5},
		{Title: "Done", Width: 5},
		{Title: "Task", Width: taskW},
	}
}

func recentRows(sessions []historydto.SessionOutput) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		done := "no"
		if s.Completed {
			done = "yes"
		}
		task := s.TaskName
		if task == "" {
			task = "no task"
		}
		rows = append(rows, table.Row{
			s.Timestamp.Local().Format("01-02 15:04"),
			s.SessionType,
			strconv.Itoa(s.DurationMin),
			done,
			task,
		})
	}
	return rows
}
