package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pomo/internal/ui/components"
)

func TestParseCommandKeepsRest(t *testing.T) {
	t.Parallel()
	cmd := components.ParseCommand("  TASK  write the   report ")
	if cmd.Name != "task" {
		t.Fatalf("expected task, got %q", cmd.Name)
	}
	if cmd.Rest != "write the   report" {
		t.Fatalf("unexpected rest %q", cmd.Rest)
	}
	if len(cmd.Args) != 3 {
		t.Fatalf("expected three args, got %v", cmd.Args)
	}
	if empty := components.ParseCommand("   "); empty.Name != "" {
		t.Fatalf("expected empty command, got %+v", empty)
	}
}

func TestMatchingHints(t *testing.T) {
	t.Parallel()
	if got := components.MatchingHints(""); len(got) != 5 {
		t.Fatalf("expected five hints, got %v", got)
	}
	got := components.MatchingHints("re")
	if len(got) != 3 || got[0] != "reset" || got[1] != "reload" || got[2] != "report" {
		t.Fatalf("unexpected hints: %v", got)
	}
}

func TestPaletteSubmitsTrimmedInput(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	_ = p.Open()
	for _, r := range " days 3 " {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() {
		t.Fatal("palette should close on enter")
	}
	msg, ok := cmd().(components.PaletteSubmitMsg)
	if !ok || msg.Input != "days 3" {
		t.Fatalf("unexpected submit: %#v", cmd())
	}
}
