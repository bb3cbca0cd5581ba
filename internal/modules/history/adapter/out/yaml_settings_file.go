package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pomo/internal/modules/history/domain"
	historyout "pomo/internal/modules/history/port/out"
)

type yamlSettings struct {
	WorkDuration      int    `yaml:"work_duration"`
	ShortBreak        int    `yaml:"short_break"`
	LongBreak         int    `yaml:"long_break"`
	LongBreakInterval int    `yaml:"long_break_interval"`
	AutoStartBreaks   bool   `yaml:"auto_start_breaks"`
	AutoStartWork     bool   `yaml:"auto_start_work"`
	SoundEnabled      bool   `yaml:"sound_enabled"`
	Username          string `yaml:"username"`
}

// YAMLSettingsFile moves the settings record in and out of a YAML file.
// Loading yields a patch holding only the keys present in the file.
type YAMLSettingsFile struct{}

func NewYAMLSettingsFile() historyout.SettingsFile {
	return YAMLSettingsFile{}
}

func (YAMLSettingsFile) Save(_ context.Context, path string, settings domain.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings export dir: %w", err)
	}
	serialized, err := yaml.Marshal(yamlSettings{
		WorkDuration:      settings.WorkDuration,
		ShortBreak:        settings.ShortBreakDuration,
		LongBreak:         settings.LongBreakDuration,
		LongBreakInterval: settings.LongBreakInterval,
		AutoStartBreaks:   settings.AutoStartBreaks,
		AutoStartWork:     settings.AutoStartWork,
		SoundEnabled:      settings.SoundEnabled,
		Username:          settings.Username,
	})
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func (YAMLSettingsFile) Load(_ context.Context, path string) (domain.SettingsPatch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.SettingsPatch{}, fmt.Errorf("read settings file: %w", err)
	}
	decoded := map[string]any{}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return domain.SettingsPatch{}, fmt.Errorf("parse settings yaml: %w", err)
	}
	values := make(map[string]string, len(decoded))
	for key, value := range decoded {
		values[key] = fmt.Sprint(value)
	}
	return domain.ParsePatch(values)
}
