package settings

import (
	"testing"

	historydto "pomo/internal/modules/history/dto"
)

func TestItemsCoverEveryField(t *testing.T) {
	t.Parallel()
	items := Items(historydto.SettingsOutput{WorkDuration: 25, AutoStartWork: true, Username: "Ada"})
	if len(items) != 8 {
		t.Fatalf("expected eight fields, got %d", len(items))
	}
	first := items[0].(fieldItem)
	if first.Title() != "work_duration = 25" {
		t.Fatalf("unexpected title %q", first.Title())
	}
	if got := items[5].(fieldItem).value; got != "true" {
		t.Fatalf("expected auto_start_work true, got %q", got)
	}
	if got := items[7].(fieldItem).FilterValue(); got != "username" {
		t.Fatalf("expected username key, got %q", got)
	}
}
