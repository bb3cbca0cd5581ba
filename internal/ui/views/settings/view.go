package settings

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "pomo/internal/modules/history/dto"
	"pomo/internal/ui/theme"
)

type Port interface {
	Settings(ctx context.Context) (historydto.SettingsOutput, error)
}

type LoadedMsg struct {
	Settings historydto.SettingsOutput
	Err      error
}

type fieldItem struct {
	key   string
	value string
	help  string
}

func (i fieldItem) Title() string       { return i.key + " = " + i.value }
func (i fieldItem) Description() string { return i.help }
func (i fieldItem) FilterValue() string { return i.key }

type Model struct {
	port   Port
	list   list.Model
	err    error
	width  int
	height int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Settings  (:set <field> <value>)"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		s, err := port.Settings(context.Background())
		return LoadedMsg{Settings: s, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)
		return m, nil
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		cmd := m.list.SetItems(Items(msg.Settings))
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(theme.Error.Render("settings: " + m.err.Error()))
	}
	return m.list.View()
}

// Filtering reports whether the list's search filter is open.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Items lists every stored field under its settable key.
func Items(s historydto.SettingsOutput) []list.Item {
	return []list.Item{
		fieldItem{"work_duration", strconv.Itoa(s.WorkDuration), "minutes per work session"},
		fieldItem{"short_break", strconv.Itoa(s.ShortBreakDuration), "minutes per short break"},
		fieldItem{"long_break", strconv.Itoa(s.LongBreakDuration), "minutes per long break"},
		fieldItem{"long_break_interval", strconv.Itoa(s.LongBreakInterval), "work sessions between long breaks"},
		fieldItem{"auto_start_breaks", strconv.FormatBool(s.AutoStartBreaks), "start breaks without a key press"},
		fieldItem{"auto_start_work", strconv.FormatBool(s.AutoStartWork), "start work after a break without a key press"},
		fieldItem{"sound_enabled", strconv.FormatBool(s.SoundEnabled), "ring the terminal bell when a session ends"},
		fieldItem{"username", s.Username, "name shown in the greeting"},
	}
}
