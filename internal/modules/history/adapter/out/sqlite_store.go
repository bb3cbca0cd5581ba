package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"pomo/internal/modules/history/domain"
	apperrors "pomo/internal/platform/errors"
	"pomo/internal/platform/logging"
	"pomo/internal/platform/tx"

	_ "modernc.org/sqlite"
)

// Timestamps are stored as fixed-width UTC text so lexical order matches
// chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

const settingsRowID = 1

type SQLiteStore struct {
	db     *sql.DB
	writes tx.Manager
	logger hclog.Logger

	mu          sync.RWMutex
	initialized bool
}

func NewSQLiteStore(dbPath string, logger hclog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writers serialized at the driver level as well.
	db.SetMaxOpenConns(1)
	if logger == nil {
		logger = logging.Discard()
	}
	return &SQLiteStore{db: db, writes: tx.NewSerial(), logger: logger.Named("store")}, nil
}

func (s *SQLiteStore) Initialize(ctx context.Context) error {
	return s.writes.Within(ctx, func(ctx context.Context) error {
		const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  timestamp TEXT NOT NULL,
  session_type TEXT NOT NULL CHECK (session_type IN ('work', 'short_break', 'long_break')),
  duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
  completed INTEGER NOT NULL CHECK (completed IN (0, 1)),
  task_name TEXT,
  notes TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_timestamp ON sessions(timestamp);
CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  work_duration INTEGER NOT NULL CHECK (work_duration >= 1),
  short_break INTEGER NOT NULL CHECK (short_break >= 1),
  long_break INTEGER NOT NULL CHECK (long_break >= 1),
  long_break_interval INTEGER NOT NULL CHECK (long_break_interval >= 2),
  auto_start_breaks INTEGER NOT NULL CHECK (auto_start_breaks IN (0, 1)),
  auto_start_work INTEGER NOT NULL CHECK (auto_start_work IN (0, 1)),
  sound_enabled INTEGER NOT NULL CHECK (sound_enabled IN (0, 1)),
  username TEXT NOT NULL
);
`
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return apperrors.Storage("create schema", err)
		}

		defaults := domain.DefaultSettings()
		res, err := s.db.ExecContext(ctx, `
INSERT INTO settings (id, work_duration, short_break, long_break, long_break_interval, auto_start_breaks, auto_start_work, sound_enabled, username)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING;
`,
			settingsRowID,
			defaults.WorkDuration,
			defaults.ShortBreakDuration,
			defaults.LongBreakDuration,
			defaults.LongBreakInterval,
			boolInt(defaults.AutoStartBreaks),
			boolInt(defaults.AutoStartWork),
			boolInt(defaults.SoundEnabled),
			defaults.Username,
		)
		if err != nil {
			return apperrors.Storage("seed settings", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.logger.Info("seeded default settings")
		}

		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
		s.logger.Debug("schema ready")
		return nil
	})
}

func (s *SQLiteStore) AddSession(ctx context.Context, record domain.SessionRecord) (domain.SessionRecord, error) {
	if err := s.requireInitialized(); err != nil {
		return domain.SessionRecord{}, err
	}
	err := s.writes.Within(ctx, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (timestamp, session_type, duration_minutes, completed, task_name, notes)
VALUES (?, ?, ?, ?, ?, ?);
`,
			formatTimestamp(record.Timestamp),
			string(record.Type),
			record.DurationMin,
			boolInt(record.Completed),
			record.TaskName,
			record.Notes,
		)
		if err != nil {
			return apperrors.Storage("insert session", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return apperrors.Storage("read session id", err)
		}
		record.ID = id
		return nil
	})
	if err != nil {
		return domain.SessionRecord{}, err
	}
	s.logger.Debug("session appended", "id", record.ID, "type", record.Type, "completed", record.Completed)
	return record, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, since time.Time, limit int) ([]domain.SessionRecord, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, timestamp, session_type, duration_minutes, completed, COALESCE(task_name, ''), COALESCE(notes, '')
FROM sessions
WHERE timestamp >= ?
ORDER BY timestamp DESC, id DESC
LIMIT ?;
`, formatTimestamp(since), limit)
	if err != nil {
		return nil, apperrors.Storage("list sessions", err)
	}
	defer rows.Close()

	out := make([]domain.SessionRecord, 0)
	for rows.Next() {
		var rec domain.SessionRecord
		var rawTime, rawType string
		var completed int
		if err := rows.Scan(&rec.ID, &rawTime, &rawType, &rec.DurationMin, &completed, &rec.TaskName, &rec.Notes); err != nil {
			return nil, apperrors.Storage("scan session", err)
		}
		at, err := time.Parse(time.RFC3339Nano, rawTime)
		if err != nil {
			return nil, apperrors.Storage("parse session timestamp", err)
		}
		rec.Timestamp = at.In(since.Location())
		rec.Type = domain.SessionType(rawType)
		rec.Completed = completed == 1
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate sessions", err)
	}
	return out, nil
}

// DailyStats buckets sessions by calendar day in the location of since. The
// day of each row is resolved with that row's own UTC offset, so windows
// spanning a DST change still split at local midnight.
func (s *SQLiteStore) DailyStats(ctx context.Context, since time.Time) ([]domain.DailyStat, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT timestamp, session_type, duration_minutes, completed
FROM sessions
WHERE timestamp >= ?
ORDER BY timestamp ASC, id ASC;
`, formatTimestamp(since))
	if err != nil {
		return nil, apperrors.Storage("daily stats", err)
	}
	defer rows.Close()

	loc := since.Location()
	out := make([]domain.DailyStat, 0)
	index := make(map[string]int)
	for rows.Next() {
		var rawTime, rawType string
		var minutes, completed int
		if err := rows.Scan(&rawTime, &rawType, &minutes, &completed); err != nil {
			return nil, apperrors.Storage("scan daily stat", err)
		}
		at, err := time.Parse(time.RFC3339Nano, rawTime)
		if err != nil {
			return nil, apperrors.Storage("parse session timestamp", err)
		}
		day := at.In(loc).Format(time.DateOnly)
		i, ok := index[day]
		if !ok {
			i = len(out)
			index[day] = i
			out = append(out, domain.DailyStat{Day: day})
		}
		item := &out[i]
		item.TotalSessions++
		if completed == 1 {
			item.CompletedSessions++
			if domain.SessionType(rawType) == domain.SessionWork {
				item.WorkMinutes += minutes
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate daily stats", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (s *SQLiteStore) Profile(ctx context.Context, since time.Time) (domain.Profile, error) {
	if err := s.requireInitialized(); err != nil {
		return domain.Profile{}, err
	}
	p := domain.Profile{}
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN completed = 1 THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN session_type = 'work' AND completed = 1 THEN duration_minutes ELSE 0 END), 0)
FROM sessions
WHERE timestamp >= ?;
`, formatTimestamp(since)).Scan(&p.TotalSessions, &p.CompletedSessions, &p.WorkMinutes)
	if err != nil {
		return domain.Profile{}, apperrors.Storage("profile", err)
	}
	return p, nil
}

func (s *SQLiteStore) TypeBreakdown(ctx context.Context, since time.Time) ([]domain.TypeCount, error) {
	if err := s.requireInitialized(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT session_type, COUNT(*)
FROM sessions
WHERE timestamp >= ?
GROUP BY session_type
ORDER BY session_type ASC;
`, formatTimestamp(since))
	if err != nil {
		return nil, apperrors.Storage("type breakdown", err)
	}
	defer rows.Close()

	out := make([]domain.TypeCount, 0, len(domain.SessionTypes))
	for rows.Next() {
		var rawType string
		item := domain.TypeCount{}
		if err := rows.Scan(&rawType, &item.Count); err != nil {
			return nil, apperrors.Storage("scan type count", err)
		}
		item.Type = domain.SessionType(rawType)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate type counts", err)
	}
	return out, nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (domain.Settings, error) {
	if err := s.requireInitialized(); err != nil {
		return domain.Settings{}, err
	}
	var out domain.Settings
	var autoBreaks, autoWork, sound int
	err := s.db.QueryRowContext(ctx, `
SELECT work_duration, short_break, long_break, long_break_interval, auto_start_breaks, auto_start_work, sound_enabled, username
FROM settings
WHERE id = ?;
`, settingsRowID).Scan(
		&out.WorkDuration,
		&out.ShortBreakDuration,
		&out.LongBreakDuration,
		&out.LongBreakInterval,
		&autoBreaks,
		&autoWork,
		&sound,
		&out.Username,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Settings{}, fmt.Errorf("%w: settings row missing", apperrors.ErrNotInitialized)
		}
		return domain.Settings{}, apperrors.Storage("load settings", err)
	}
	out.AutoStartBreaks = autoBreaks == 1
	out.AutoStartWork = autoWork == 1
	out.SoundEnabled = sound == 1
	return out, nil
}

// UpdateSettings writes only the fields present in patch, in one statement.
func (s *SQLiteStore) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}
	values := patch.Values()
	if len(values) == 0 {
		return nil
	}
	assignments := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)
	for _, field := range domain.Fields {
		v, ok := values[field]
		if !ok {
			continue
		}
		assignments = append(assignments, string(field)+" = ?")
		if b, isBool := v.(bool); isBool {
			v = boolInt(b)
		}
		args = append(args, v)
	}
	args = append(args, settingsRowID)
	stmt := fmt.Sprintf("UPDATE settings SET %s WHERE id = ?;", strings.Join(assignments, ", "))

	return s.writes.Within(ctx, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, stmt, args...)
		if err != nil {
			return apperrors.Storage("update settings", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: settings row missing", apperrors.ErrNotInitialized)
		}
		s.logger.Info("settings updated", "fields", len(assignments))
		return nil
	})
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) requireInitialized() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return apperrors.ErrNotInitialized
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
