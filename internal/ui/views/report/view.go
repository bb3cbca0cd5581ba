package report

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	historydto "pomo/internal/modules/history/dto"
	"pomo/internal/platform/markdown"
	"pomo/internal/ui/theme"
)

type Port interface {
	RenderReport(ctx context.Context, days int) (historydto.ReportOutput, error)
}

type RenderedMsg struct {
	Report historydto.ReportOutput
	Err    error
}

// Model previews the markdown report for the stats window.
type Model struct {
	port     Port
	viewport viewport.Model
	renderer *glamour.TermRenderer
	report   historydto.ReportOutput
	err      error
	width    int
	height   int
}

func New(port Port) Model {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{port: port, viewport: viewport.New(0, 0), renderer: r}
}

func (m Model) Load(days int) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		out, err := port.RenderReport(context.Background(), days)
		return RenderedMsg{Report: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width
		m.viewport.Height = m.height
		if m.report.Markdown != "" {
			m.viewport.SetContent(m.render())
		}
		return m, nil
	case RenderedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.report = msg.Report
			m.viewport.SetContent(m.render())
			m.viewport.GotoTop()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(theme.Error.Render("report: " + m.err.Error()))
	}
	if m.report.Markdown == "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Run :report to preview the markdown report"))
	}
	return m.viewport.View()
}

// render drops the frontmatter and lets glamour style the body.
func (m Model) render() string {
	body := m.report.Markdown
	if doc, err := markdown.Parse(body); err == nil {
		body = doc.Body
	}
	if m.renderer == nil {
		return body
	}
	out, err := m.renderer.Render(body)
	if err != nil {
		return body
	}
	return out
}
