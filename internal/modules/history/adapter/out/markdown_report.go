package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	historyout "pomo/internal/modules/history/port/out"
	"pomo/internal/platform/markdown"
)

type MarkdownReportWriter struct{}

func NewMarkdownReportWriter() historyout.ReportWriter {
	return MarkdownReportWriter{}
}

func (w MarkdownReportWriter) Write(_ context.Context, path string, report historyout.Report) error {
	rendered, err := w.Render(report)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Render returns the report as markdown with a YAML frontmatter summary.
func (MarkdownReportWriter) Render(report historyout.Report) (string, error) {
	meta := map[string]any{
		"generated_at":       report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		"days":               report.Days,
		"username":           report.Username,
		"total_sessions":     report.Profile.TotalSessions,
		"completed_sessions": report.Profile.CompletedSessions,
		"work_minutes":       report.Profile.WorkMinutes,
		"success_rate":       fmt.Sprintf("%.1f", report.Profile.SuccessRate()),
	}

	var body strings.Builder
	fmt.Fprintf(&body, "# Focus report: last %d days\n\n", report.Days)
	fmt.Fprintf(&body, "- Sessions: %d (%d completed, %.1f%%)\n", report.Profile.TotalSessions, report.Profile.CompletedSessions, report.Profile.SuccessRate())
	fmt.Fprintf(&body, "- Work time: %d minutes\n\n", report.Profile.WorkMinutes)

	body.WriteString("## Daily\n\n")
	if len(report.Daily) == 0 {
		body.WriteString("No sessions recorded.\n")
	} else {
		rows := make([][]string, 0, len(report.Daily))
		for _, d := range report.Daily {
			rows = append(rows, []string{d.Day, strconv.Itoa(d.TotalSessions), strconv.Itoa(d.CompletedSessions), strconv.Itoa(d.WorkMinutes)})
		}
		body.WriteString(markdown.Table([]string{"Day", "Sessions", "Completed", "Work minutes"}, rows))
	}

	body.WriteString("\n## Session types\n\n")
	if len(report.Breakdown) == 0 {
		body.WriteString("No sessions recorded.\n")
	} else {
		rows := make([][]string, 0, len(report.Breakdown))
		for _, c := range report.Breakdown {
			rows = append(rows, []string{string(c.Type), strconv.Itoa(c.Count)})
		}
		body.WriteString(markdown.Table([]string{"Type", "Count"}, rows))
	}

	return markdown.Render(markdown.Document{Meta: meta, Body: body.String()})
}
