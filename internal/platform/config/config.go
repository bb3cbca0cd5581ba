package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName        = "pomo"
	configFileName = "config"
	envPrefix      = "POMO"
)

// Config holds process-level options. User-facing timer preferences live in
// the settings row of the store, not here.
type Config struct {
	DataDir         string
	DBPath          string
	LogLevel        string
	LogFile         string
	TickInterval    time.Duration
	RecordAbandoned bool
	HistoryDays     int
	StatsDays       int
}

// Load resolves configuration from defaults, <dataDir>/config.yaml and
// POMO_* environment variables, in increasing precedence. An empty dataDir
// falls back to POMO_DATA_DIR and then the user config directory.
func Load(dataDir string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dataDir == "" {
		dataDir = v.GetString("data_dir")
	}
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		dataDir = filepath.Join(base, appName)
	}

	v.SetDefault("db_path", filepath.Join(dataDir, appName+".db"))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(dataDir, appName+".log"))
	v.SetDefault("tick_interval", time.Second)
	v.SetDefault("record_abandoned", false)
	v.SetDefault("history_days", 30)
	v.SetDefault("stats_days", 7)

	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dataDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading %s config: %w", appName, err)
		}
	}

	cfg := Config{
		DataDir:         dataDir,
		DBPath:          v.GetString("db_path"),
		LogLevel:        v.GetString("log_level"),
		LogFile:         v.GetString("log_file"),
		TickInterval:    v.GetDuration("tick_interval"),
		RecordAbandoned: v.GetBool("record_abandoned"),
		HistoryDays:     v.GetInt("history_days"),
		StatsDays:       v.GetInt("stats_days"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.HistoryDays < 0 || c.StatsDays < 0 {
		return fmt.Errorf("history_days and stats_days must not be negative")
	}
	return nil
}
