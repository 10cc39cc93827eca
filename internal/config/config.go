// Package config loads flowstate settings from an optional YAML file and
// FLOWSTATE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FocusDurations are the selectable focus session lengths in minutes.
var FocusDurations = []int{15, 25, 45, 60}

type Config struct {
	DataDir         string `yaml:"data_dir"`
	Storage         string `yaml:"storage"`
	FocusMinutes    int    `yaml:"focus_minutes"`
	BreakMinutes    int    `yaml:"break_minutes"`
	DueAlerts       bool   `yaml:"due_alerts"`
	SchedulerBuffer int    `yaml:"scheduler_buffer"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	// LogFile "-" means stderr; empty means <data_dir>/flowstate.log.
	LogFile       string `yaml:"log_file"`
	DailyGoal     int    `yaml:"daily_goal"`
	ShowCompleted bool   `yaml:"show_completed"`
}

func Default() Config {
	return Config{
		DataDir:         defaultDataDir(),
		Storage:         "sqlite",
		FocusMinutes:    25,
		BreakMinutes:    5,
		DueAlerts:       true,
		SchedulerBuffer: 64,
		LogLevel:        "info",
		LogFormat:       "text",
		DailyGoal:       5,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "flowstate")
	}
	return ".flowstate"
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv("FLOWSTATE_CONFIG")); p != "" {
		return p
	}
	return filepath.Join(defaultDataDir(), "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv applies FLOWSTATE_* overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("FLOWSTATE_DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := getEnvString("FLOWSTATE_STORAGE"); ok {
		cfg.Storage = strings.ToLower(v)
	}
	if v, ok := getEnvInt("FLOWSTATE_FOCUS_MINUTES"); ok && v > 0 {
		cfg.FocusMinutes = v
	}
	if v, ok := getEnvInt("FLOWSTATE_BREAK_MINUTES"); ok && v > 0 {
		cfg.BreakMinutes = v
	}
	if v, ok := getEnvBool("FLOWSTATE_DUE_ALERTS"); ok {
		cfg.DueAlerts = v
	}
	if v, ok := getEnvInt("FLOWSTATE_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvString("FLOWSTATE_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("FLOWSTATE_LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := getEnvString("FLOWSTATE_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("FLOWSTATE_DAILY_GOAL"); ok && v > 0 {
		cfg.DailyGoal = v
	}
	if v, ok := getEnvBool("FLOWSTATE_SHOW_COMPLETED"); ok {
		cfg.ShowCompleted = v
	}
	return cfg
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("config: data_dir is required")
	}
	switch c.Storage {
	case "sqlite", "file":
	default:
		return fmt.Errorf("config: storage must be sqlite or file, got %q", c.Storage)
	}
	if !ValidFocusMinutes(c.FocusMinutes) {
		return fmt.Errorf("config: focus_minutes must be one of %v, got %d", FocusDurations, c.FocusMinutes)
	}
	if c.BreakMinutes <= 0 {
		return errors.New("config: break_minutes must be positive")
	}
	if c.SchedulerBuffer <= 0 {
		return errors.New("config: scheduler_buffer must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	if c.DailyGoal <= 0 {
		return errors.New("config: daily_goal must be positive")
	}
	return nil
}

// LogPath resolves the log sink. It returns "-" for stderr.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Join(c.DataDir, "flowstate.log")
	}
	return c.LogFile
}

func ValidFocusMinutes(m int) bool {
	for _, d := range FocusDurations {
		if d == m {
			return true
		}
	}
	return false
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
