package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "pomo/internal/modules/timer/dto"
	"pomo/internal/ui/theme"
)

// Model draws the countdown from the latest controller snapshot. It holds no
// timer state of its own.
type Model struct {
	snapshot timerdto.Snapshot
	bar      progress.Model
	width    int
	height   int
}

func New() Model {
	bar := progress.New(
		progress.WithGradient(string(theme.Peach), string(theme.Lavender)),
		progress.WithoutPercentage(),
	)
	return Model{bar: bar}
}

func (m Model) SetSnapshot(s timerdto.Snapshot) Model {
	m.snapshot = s
	return m
}

// Apply folds a display event into the snapshot so the clock moves between
// full snapshot refreshes.
func (m Model) Apply(ev timerdto.Event) Model {
	switch ev.Kind {
	case timerdto.DisplayUpdated:
		m.snapshot.RemainingSeconds = ev.RemainingSeconds
		m.snapshot.Progress = ev.Progress
	case timerdto.StatusChanged:
		m.snapshot.Status = ev.Status
	}
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = clamp(m.width-12, 10, 60)
	}
	return m, nil
}

func (m Model) View() string {
	s := m.snapshot
	accent := theme.SessionColor(s.SessionType)

	var sb strings.Builder
	sb.WriteString(theme.Muted.Render(greeting(s.Username)) + "\n\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(accent).Bold(true).Render(strings.ToUpper(s.SessionLabel)) + "\n")
	sb.WriteString(theme.Clock.Foreground(accent).Render(FormatClock(s.RemainingSeconds)) + "\n")
	sb.WriteString(m.bar.ViewAs(s.Progress) + "\n\n")
	sb.WriteString(theme.Muted.Render("status: ") + statusLabel(s.Status) + "\n")
	task := s.TaskName
	if task == "" {
		task = theme.Muted.Render("none (:task <name>)")
	}
	sb.WriteString(theme.Muted.Render("task:   ") + task + "\n")
	sb.WriteString(theme.Muted.Render("cycle:  ") + cycleDots(s.CompletedWork, s.LongBreakEvery) +
		fmt.Sprintf("  %d done", s.CompletedWork) + "\n\n")
	sb.WriteString(theme.Muted.Render("space: start/pause  r: reset  :task <name>"))

	pane := theme.Pane.Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, pane)
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func greeting(username string) string {
	if strings.TrimSpace(username) == "" {
		return "Stay focused"
	}
	return "Stay focused, " + username
}

func statusLabel(status string) string {
	switch status {
	case "running":
		return theme.Hot.Render("running")
	case "paused":
		return lipgloss.NewStyle().Foreground(theme.Lavender).Render("paused")
	default:
		return theme.Muted.Render(status)
	}
}

// cycleDots shows progress towards the next long break.
func cycleDots(completed, every int) string {
	if every <= 0 {
		return ""
	}
	filled := completed % every
	return strings.Repeat("●", filled) + strings.Repeat("○", every-filled)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
