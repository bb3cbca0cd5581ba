package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "pomo/internal/platform/errors"
)

const DefaultUsername = "User"

// Settings is the single user preference record.
type Settings struct {
	WorkDuration       int
	ShortBreakDuration int
	LongBreakDuration  int
	LongBreakInterval  int
	AutoStartBreaks    bool
	AutoStartWork      bool
	SoundEnabled       bool
	Username           string
}

func DefaultSettings() Settings {
	return Settings{
		WorkDuration:       25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		LongBreakInterval:  4,
		AutoStartBreaks:    false,
		AutoStartWork:      false,
		SoundEnabled:       true,
		Username:           DefaultUsername,
	}
}

func (s Settings) Validate() error {
	if s.WorkDuration < 1 || s.ShortBreakDuration < 1 || s.LongBreakDuration < 1 {
		return fmt.Errorf("%w: durations must be at least 1 minute", apperrors.ErrInvalidInput)
	}
	if s.LongBreakInterval < 2 {
		return fmt.Errorf("%w: long break interval must be at least 2", apperrors.ErrInvalidInput)
	}
	return nil
}

// Field names a settings column. The textual keys double as the storage
// column names and as the keys accepted on the command line.
type Field string

const (
	FieldWorkDuration      Field = "work_duration"
	FieldShortBreak        Field = "short_break"
	FieldLongBreak         Field = "long_break"
	FieldLongBreakInterval Field = "long_break_interval"
	FieldAutoStartBreaks   Field = "auto_start_breaks"
	FieldAutoStartWork     Field = "auto_start_work"
	FieldSoundEnabled      Field = "sound_enabled"
	FieldUsername          Field = "username"
)

var Fields = []Field{
	FieldWorkDuration,
	FieldShortBreak,
	FieldLongBreak,
	FieldLongBreakInterval,
	FieldAutoStartBreaks,
	FieldAutoStartWork,
	FieldSoundEnabled,
	FieldUsername,
}

func ParseField(raw string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidField, raw)
}

// SettingsPatch carries a partial update. Nil fields are left untouched.
type SettingsPatch struct {
	WorkDuration       *int
	ShortBreakDuration *int
	LongBreakDuration  *int
	LongBreakInterval  *int
	AutoStartBreaks    *bool
	AutoStartWork      *bool
	SoundEnabled       *bool
	Username           *string
}

func (p SettingsPatch) Empty() bool {
	return len(p.Values()) == 0
}

// Values returns the supplied fields keyed by column.
func (p SettingsPatch) Values() map[Field]any {
	out := map[Field]any{}
	if p.WorkDuration != nil {
		out[FieldWorkDuration] = *p.WorkDuration
	}
	if p.ShortBreakDuration != nil {
		out[FieldShortBreak] = *p.ShortBreakDuration
	}
	if p.LongBreakDuration != nil {
		out[FieldLongBreak] = *p.LongBreakDuration
	}
	if p.LongBreakInterval != nil {
		out[FieldLongBreakInterval] = *p.LongBreakInterval
	}
	if p.AutoStartBreaks != nil {
		out[FieldAutoStartBreaks] = *p.AutoStartBreaks
	}
	if p.AutoStartWork != nil {
		out[FieldAutoStartWork] = *p.AutoStartWork
	}
	if p.SoundEnabled != nil {
		out[FieldSoundEnabled] = *p.SoundEnabled
	}
	if p.Username != nil {
		out[FieldUsername] = *p.Username
	}
	return out
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.WorkDuration != nil {
		s.WorkDuration = *p.WorkDuration
	}
	if p.ShortBreakDuration != nil {
		s.ShortBreakDuration = *p.ShortBreakDuration
	}
	if p.LongBreakDuration != nil {
		s.LongBreakDuration = *p.LongBreakDuration
	}
	if p.LongBreakInterval != nil {
		s.LongBreakInterval = *p.LongBreakInterval
	}
	if p.AutoStartBreaks != nil {
		s.AutoStartBreaks = *p.AutoStartBreaks
	}
	if p.AutoStartWork != nil {
		s.AutoStartWork = *p.AutoStartWork
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.Username != nil {
		s.Username = *p.Username
	}
	return s
}

// ParsePatch converts textual key/value pairs into a patch. Every key and
// value is checked before anything is returned, so a bad entry never yields
// a partial patch.
func ParsePatch(values map[string]string) (SettingsPatch, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	patch := SettingsPatch{}
	for _, key := range keys {
		field, err := ParseField(key)
		if err != nil {
			return SettingsPatch{}, err
		}
		raw := strings.TrimSpace(values[key])
		if err := patch.set(field, raw); err != nil {
			return SettingsPatch{}, err
		}
	}
	return patch, nil
}

func (p *SettingsPatch) set(field Field, raw string) error {
	switch field {
	case FieldUsername:
		p.Username = &raw
		return nil
	case FieldAutoStartBreaks, FieldAutoStartWork, FieldSoundEnabled:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s expects a boolean, got %q", apperrors.ErrInvalidInput, field, raw)
		}
		switch field {
		case FieldAutoStartBreaks:
			p.AutoStartBreaks = &b
		case FieldAutoStartWork:
			p.AutoStartWork = &b
		default:
			p.SoundEnabled = &b
		}
		return nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %s expects an integer, got %q", apperrors.ErrInvalidInput, field, raw)
	}
	switch field {
	case FieldWorkDuration:
		p.WorkDuration = &n
	case FieldShortBreak:
		p.ShortBreakDuration = &n
	case FieldLongBreak:
		p.LongBreakDuration = &n
	case FieldLongBreakInterval:
		p.LongBreakInterval = &n
	}
	return nil
}
