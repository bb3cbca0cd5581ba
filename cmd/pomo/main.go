package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"pomo/internal/bootstrap"
	timerdto "pomo/internal/modules/timer/dto"
	"pomo/internal/platform/config"
	"pomo/internal/platform/logging"
	timerview "pomo/internal/ui/views/timer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "pomo",
		Short:         "Pomodoro timer with session history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding config.yaml, the database and the log")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log_level (trace|debug|info|warn|error)")

	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newProfileCmd(opts))
	root.AddCommand(newSettingsCmd(opts))
	root.AddCommand(newReportCmd(opts))
	return root
}

type loaded struct {
	app *bootstrap.App
	cfg config.Config
	log hclog.Logger

	closeLog func() error
}

func (l *loaded) Close() {
	_ = l.app.Close()
	_ = l.closeLog()
}

// loadApp resolves config, builds the logger and wires the app. The store
// is initialized so every command can read and write right away.
func loadApp(ctx context.Context, opts *rootOptions, toFile bool) (*loaded, error) {
	cfg, err := config.Load(opts.dataDir)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	logOpts := logging.Options{Level: cfg.LogLevel, Output: os.Stderr}
	if toFile {
		logOpts.File = cfg.LogFile
	}
	logger, closeLog, err := logging.New("pomo", logOpts)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	l := &loaded{app: app, cfg: cfg, log: logger, closeLog: closeLog}
	if err := app.HistoryCLI.Initialize(ctx); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the history database and default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", l.cfg.DBPath)
			return nil
		},
	}
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the pomodoro terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := loadApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer l.Close()
			return bootstrap.RunTUI(l.app, l.cfg.StatsDays)
		},
	}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var task string
	var sessions int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run sessions in the terminal without the UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessions < 1 {
				return fmt.Errorf("--sessions must be at least 1")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l, err := loadApp(ctx, opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			return runSessions(ctx, cmd.OutOrStdout(), l, task, sessions)
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "task label stored with each session")
	cmd.Flags().IntVar(&sessions, "sessions", 1, "number of sessions to finish before exiting")
	return cmd
}

func runSessions(ctx context.Context, out io.Writer, l *loaded, task string, sessions int) error {
	timer := l.app.TimerCLI
	events := timer.Events(64)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- timer.Run(runCtx) }()
	defer func() {
		cancel()
		<-done
	}()

	if err := timer.Prepare(ctx, task); err != nil {
		return err
	}
	if err := timer.Start(ctx); err != nil {
		return err
	}
	snap := timer.Snapshot()
	_, _ = fmt.Fprintf(out, "%s started (%s)\n", snap.SessionLabel, timerview.FormatClock(snap.TotalSeconds))

	finished := 0
	for {
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(out)
			if err := timer.Reset(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "interrupted, timer reset")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case timerdto.DisplayUpdated:
				_, _ = fmt.Fprintf(out, "\r%s %s", timer.Snapshot().SessionLabel, timerview.FormatClock(ev.RemainingSeconds))
			case timerdto.SessionCompleted:
				_, _ = fmt.Fprintf(out, "\rfinished %s (%dm)\n", strings.ReplaceAll(ev.Session.SessionType, "_", " "), ev.Session.DurationMin)
			case timerdto.Failed:
				_, _ = fmt.Fprintf(out, "\rerror: %v\n", ev.Err)
			case timerdto.SessionTypeChanged:
				finished++
				if finished >= sessions {
					return nil
				}
				if timer.Snapshot().Status == "running" {
					continue
				}
				if err := timer.Start(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, "%s started\n", timer.Snapshot().SessionLabel)
			}
		}
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var days, limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			if !cmd.Flags().Changed("days") {
				days = l.cfg.HistoryDays
			}
			sessions, err := l.app.HistoryCLI.Sessions(cmd.Context(), days, limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				taskName := s.TaskName
				if taskName == "" {
					taskName = "no task"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dm\tcompleted=%t\t%s\n",
					s.Timestamp.Local().Format("2006-01-02 15:04"), s.SessionType, s.DurationMin, s.Completed, taskName)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "window in days (defaults to history_days)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows, 0 for all")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-day session statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			if !cmd.Flags().Changed("days") {
				days = l.cfg.StatsDays
			}
			stats, err := l.app.HistoryCLI.DailyStats(cmd.Context(), days)
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "day\tsessions\tcompleted\twork_min")
			for _, s := range stats {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\t%d\n", s.Day, s.TotalSessions, s.CompletedSessions, s.WorkMinutes)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "window in days (defaults to stats_days)")
	return cmd
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Summarize totals and session types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			if !cmd.Flags().Changed("days") {
				days = l.cfg.HistoryDays
			}
			p, err := l.app.HistoryCLI.Profile(cmd.Context(), days)
			if err != nil {
				return err
			}
			types, err := l.app.HistoryCLI.TypeBreakdown(cmd.Context(), days)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sessions: %d\ncompleted: %d\nwork minutes: %d\nsuccess rate: %.1f%%\n",
				p.TotalSessions, p.CompletedSessions, p.WorkMinutes, p.SuccessRate)
			for _, t := range types {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", t.SessionType, t.Count)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "window in days (defaults to history_days)")
	return cmd
}

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Show and change timer settings"}

	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			s, err := l.app.HistoryCLI.Settings(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "work_duration: %d\nshort_break: %d\nlong_break: %d\nlong_break_interval: %d\nauto_start_breaks: %t\nauto_start_work: %t\nsound_enabled: %t\nusername: %s\n",
				s.WorkDuration, s.ShortBreakDuration, s.LongBreakDuration, s.LongBreakInterval,
				s.AutoStartBreaks, s.AutoStartWork, s.SoundEnabled, s.Username)
			return nil
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			if _, err := l.app.HistoryCLI.SetSetting(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write settings to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			if err := l.app.HistoryCLI.ExportSettings(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported settings to %s\n", args[0])
			return nil
		},
	})

	settings.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Apply settings from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			s, err := l.app.HistoryCLI.ImportSettings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported settings: work=%dm short=%dm long=%dm every %d\n",
				s.WorkDuration, s.ShortBreakDuration, s.LongBreakDuration, s.LongBreakInterval)
			return nil
		},
	})
	return settings
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var days int
	var outPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a markdown report of daily statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer l.Close()
			if !cmd.Flags().Changed("days") {
				days = l.cfg.HistoryDays
			}
			if strings.TrimSpace(outPath) == "" {
				r, err := l.app.HistoryCLI.RenderReport(cmd.Context(), days)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), r.Markdown)
				return nil
			}
			r, err := l.app.HistoryCLI.Report(cmd.Context(), days, outPath)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written to %s (%d sessions over %d days)\n", r.Path, r.Sessions, r.Days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "window in days (defaults to history_days)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file; prints to stdout when empty")
	return cmd
}
