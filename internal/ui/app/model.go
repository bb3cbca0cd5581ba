package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "pomo/internal/modules/history/dto"
	timerdto "pomo/internal/modules/timer/dto"
	"pomo/internal/ui/components"
	"pomo/internal/ui/theme"
	reportview "pomo/internal/ui/views/report"
	settingsview "pomo/internal/ui/views/settings"
	statsview "pomo/internal/ui/views/stats"
	timerview "pomo/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	Subscribe(buffer int) <-chan timerdto.Event
	Start(ctx context.Context) error
	Toggle(ctx context.Context) error
	Reset(ctx context.Context) error
	SetTask(name string)
	Reload(ctx context.Context) error
	Snapshot() timerdto.Snapshot
}

type historyPort interface {
	statsview.Port
	settingsview.Port
	reportview.Port
	SetSetting(ctx context.Context, key, value string) (historydto.SettingsOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabStats
	tabSettings
	tabReport
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Stats", "Settings", "Report"}

const eventBuffer = 256

// ─── async messages ──────────────────────────────────────────────────────────

type timerEventMsg struct {
	event timerdto.Event
	ok    bool
}

type actionDoneMsg struct {
	action string
	err    error
}

type settingSavedMsg struct {
	key      string
	settings historydto.SettingsOutput
	err      error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Toggle  key.Binding
	Reset   key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Timer state lives in the controller;
// this model only forwards key presses and redraws from its events.
type Model struct {
	timer   timerPort
	history historyPort
	events  <-chan timerdto.Event

	timerView    timerview.Model
	statsView    statsview.Model
	settingsView settingsview.Model
	reportView   reportview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int

	// bell receives the terminal bell. Nil keeps the model silent.
	bell io.Writer
}

func NewModel(timer timerPort, history historyPort, statsDays int) Model {
	return Model{
		timer:        timer,
		history:      history,
		events:       timer.Subscribe(eventBuffer),
		timerView:    timerview.New().SetSnapshot(timer.Snapshot()),
		statsView:    statsview.New(history, statsDays),
		settingsView: settingsview.New(history),
		reportView:   reportview.New(history),
		activeTab:    tabTimer,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

// WithBell sends the completion bell to w, which should be the writer the
// program renders to so the bell reaches the same terminal.
func (m Model) WithBell(w io.Writer) Model {
	m.bell = w
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		m.statsView.Init(),
		m.settingsView.Init(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette owns the keyboard while open; timer events keep flowing.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case timerEventMsg:
		if !msg.ok {
			m.status = "timer stopped"
			return m, nil
		}
		cmds = append(cmds, m.handleEvent(msg.event)...)
		cmds = append(cmds, waitForEvent(m.events))
		return m, tea.Batch(cmds...)

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.action + " failed: " + msg.err.Error()
		}
		m.timerView = m.timerView.SetSnapshot(m.timer.Snapshot())
		return m, nil

	case settingSavedMsg:
		if msg.err != nil {
			m.status = "set " + msg.key + ": " + msg.err.Error()
			return m, nil
		}
		m.status = "saved " + msg.key
		m.settingsView, _ = m.settingsView.Update(settingsview.LoadedMsg{Settings: msg.settings})
		return m, m.timerCmd("reload", m.timer.Reload)

	case statsview.LoadedMsg:
		m.statsView, _ = m.statsView.Update(msg)
		return m, nil

	case settingsview.LoadedMsg:
		m.settingsView, _ = m.settingsView.Update(msg)
		return m, nil

	case reportview.RenderedMsg:
		m.reportView, _ = m.reportView.Update(msg)
		if msg.Err == nil {
			m.activeTab = tabReport
			m.status = fmt.Sprintf("report: %d sessions in %d days", msg.Report.Sessions, msg.Report.Days)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabSettings && m.settingsView.Filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			open := m.palette.Open()
			return m, open
		case " ", "s":
			return m, m.startOrToggleCmd()
		case "r":
			return m, m.timerCmd("reset", m.timer.Reset)
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	case tabSettings:
		m.settingsView, tabCmd = m.settingsView.Update(msg)
	case tabReport:
		m.reportView, tabCmd = m.reportView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(ev timerdto.Event) []tea.Cmd {
	m.timerView = m.timerView.Apply(ev)
	var cmds []tea.Cmd
	switch ev.Kind {
	case timerdto.SessionTypeChanged:
		m.timerView = m.timerView.SetSnapshot(m.timer.Snapshot())
	case timerdto.SessionCompleted:
		s := ev.Session
		if s.Completed {
			m.status = fmt.Sprintf("finished %s (%dm)", strings.ReplaceAll(s.SessionType, "_", " "), s.DurationMin)
		} else {
			m.status = "abandoned " + strings.ReplaceAll(s.SessionType, "_", " ")
		}
		var reload tea.Cmd
		m.statsView, reload = m.statsView.SetDays(m.statsView.Days())
		cmds = append(cmds, reload)
		if m.bell != nil && m.timer.Snapshot().SoundEnabled && s.Completed {
			cmds = append(cmds, bellCmd(m.bell))
		}
	case timerdto.SettingsChanged:
		m.timerView = m.timerView.SetSnapshot(m.timer.Snapshot())
		cmds = append(cmds, m.settingsView.Reload())
	case timerdto.Failed:
		m.status = "error: " + ev.Err.Error()
	}
	return cmds
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabStats:
		return m.statsView.View()
	case tabSettings:
		return m.settingsView.View()
	case tabReport:
		return m.reportView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := " " + tabLabels[i] + " "
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(label)
		} else {
			parts[i] = theme.Muted.Render(label)
		}
	}
	bar := "pomo  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	snap := m.timer.Snapshot()
	left := theme.Hot.Render("● "+timerview.FormatClock(snap.RemainingSeconds)) + "  " + m.status
	right := theme.Muted.Render("space:start/pause  r:reset  ::command  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	cmd := components.ParseCommand(input)
	switch cmd.Name {
	case "":
		return m, nil

	case "start":
		return m, m.timerCmd("start", m.timer.Start)

	case "pause":
		return m, m.timerCmd("pause", m.timer.Toggle)

	case "reset":
		return m, m.timerCmd("reset", m.timer.Reset)

	case "task":
		m.timer.SetTask(cmd.Rest)
		m.timerView = m.timerView.SetSnapshot(m.timer.Snapshot())
		if cmd.Rest == "" {
			m.status = "task cleared"
		} else {
			m.status = "task: " + cmd.Rest
		}
		return m, nil

	case "set":
		if len(cmd.Args) < 2 {
			m.status = "usage: set <field> <value>"
			return m, nil
		}
		field := cmd.Args[0]
		value := strings.TrimSpace(strings.TrimPrefix(cmd.Rest, field))
		return m, m.saveSettingCmd(field, value)

	case "reload":
		return m, m.timerCmd("reload", m.timer.Reload)

	case "days":
		if len(cmd.Args) != 1 {
			m.status = "usage: days <n>"
			return m, nil
		}
		days, err := strconv.Atoi(cmd.Args[0])
		if err != nil || days < 0 {
			m.status = "days must be a non-negative integer"
			return m, nil
		}
		var reload tea.Cmd
		m.statsView, reload = m.statsView.SetDays(days)
		m.activeTab = tabStats
		m.status = fmt.Sprintf("showing last %d days", days)
		return m, reload

	case "report":
		return m, m.reportView.Load(m.statsView.Days())

	default:
		m.status = "unknown command: " + cmd.Name
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
	m.settingsView, _ = m.settingsView.Update(sz)
	m.reportView, _ = m.reportView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func waitForEvent(events <-chan timerdto.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return timerEventMsg{event: ev, ok: ok}
	}
}

func (m Model) startOrToggleCmd() tea.Cmd {
	if m.timer.Snapshot().Status == "idle" {
		return m.timerCmd("start", m.timer.Start)
	}
	return m.timerCmd("pause", m.timer.Toggle)
}

func (m Model) timerCmd(action string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(context.Background())}
	}
}

func (m Model) saveSettingCmd(field, value string) tea.Cmd {
	history := m.history
	return func() tea.Msg {
		s, err := history.SetSetting(context.Background(), field, value)
		return settingSavedMsg{key: field, settings: s, err: err}
	}
}

// bellCmd writes BEL in a single Write call. The renderer flushes each frame
// in one Write too, and *os.File serializes concurrent writes, so the byte
// never lands inside an escape sequence.
func bellCmd(w io.Writer) tea.Cmd {
	return func() tea.Msg {
		_, _ = w.Write([]byte{'\a'})
		return nil
	}
}
