package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "LIGHTIMER_CONFIG"

// Sound backends understood by the sound package.
var SoundBackends = []string{"auto", "beep", "oto", "bell", "none"}

var ErrInvalidDuration = errors.New("invalid duration format")

type Config struct {
	Timer   TimerConfig   `yaml:"timer"`
	Display DisplayConfig `yaml:"display"`
	Sound   SoundConfig   `yaml:"sound"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

type TimerConfig struct {
	Duration    time.Duration `yaml:"duration"`     // Initial countdown period
	Refresh     time.Duration `yaml:"refresh"`      // Redraw cadence while running
	DoubleClick time.Duration `yaml:"double_click"` // Max gap between the clicks of a double click
}

type DisplayConfig struct {
	Orientation      string `yaml:"orientation"` // vertical or horizontal
	Lean             bool   `yaml:"lean"`        // Draw a thin frame around the bar
	VerticalWidth    int    `yaml:"vertical_width"`
	HorizontalHeight int    `yaml:"horizontal_height"`
	TimeColor        string `yaml:"time_color"`
	TimeUpColor      string `yaml:"time_up_color"`
}

type SoundConfig struct {
	Backend string  `yaml:"backend"` // auto, beep, oto, bell, none
	File    string  `yaml:"file"`    // WAV or MP3; empty plays a generated chime
	Volume  float64 `yaml:"volume"`  // Gain in powers of two, 0 is unchanged
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Path to SQLite database
}

type LogConfig struct {
	File  string `yaml:"file"` // Empty disables logging while the TUI runs
	Level string `yaml:"level"`
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "lightimer")
	}
	return filepath.Join(homeDir, ".config", "lightimer")
}

// DefaultConfigPath returns $LIGHTIMER_CONFIG or ~/.config/lightimer/config.yaml
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(configDir(), "config.yaml")
}

func DefaultConfig() *Config {
	dir := configDir()
	return &Config{
		Timer: TimerConfig{
			Duration:    5 * time.Minute,
			Refresh:     8 * time.Millisecond,
			DoubleClick: 400 * time.Millisecond,
		},
		Display: DisplayConfig{
			Orientation:      "vertical",
			VerticalWidth:    12,
			HorizontalHeight: 3,
			TimeColor:        "#777777",
			TimeUpColor:      "#ff0000",
		},
		Sound: SoundConfig{
			Backend: "auto",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "history.db"),
		},
		Log: LogConfig{
			Level: "normal",
		},
	}
}

// Load loads config from the given path, or returns defaults if the file
// doesn't exist. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks every field and normalises colors to #rrggbb.
func (c *Config) Validate() error {
	if c.Timer.Duration < 0 {
		return fmt.Errorf("timer.duration must not be negative, got %s", c.Timer.Duration)
	}
	if c.Timer.Refresh <= 0 {
		return fmt.Errorf("timer.refresh must be positive, got %s", c.Timer.Refresh)
	}
	if c.Timer.DoubleClick < 0 {
		return fmt.Errorf("timer.double_click must not be negative, got %s", c.Timer.DoubleClick)
	}

	switch strings.ToLower(c.Display.Orientation) {
	case "vertical", "horizontal":
	default:
		return fmt.Errorf("display.orientation must be vertical or horizontal, got %q", c.Display.Orientation)
	}
	if c.Display.VerticalWidth < 1 || c.Display.HorizontalHeight < 1 {
		return errors.New("display.vertical_width and display.horizontal_height must be at least 1")
	}

	for _, field := range []*string{&c.Display.TimeColor, &c.Display.TimeUpColor} {
		col, err := colorful.Hex(*field)
		if err != nil {
			return fmt.Errorf("invalid color %q: %w", *field, err)
		}
		*field = col.Hex()
	}

	if !slices.Contains(SoundBackends, c.Sound.Backend) {
		return fmt.Errorf("sound.backend must be one of %s, got %q", strings.Join(SoundBackends, ", "), c.Sound.Backend)
	}
	return nil
}

// EnsureDirectories creates the directories of the history database and
// the log file.
func (c *Config) EnsureDirectories() error {
	if c.History.Enabled && c.History.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0755); err != nil {
			return err
		}
	}
	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0755); err != nil {
			return err
		}
	}
	return nil
}

// ParseDuration accepts MM:SS, a plain number of minutes, or anything
// time.ParseDuration understands.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)

	if m, s, ok := strings.Cut(input, ":"); ok {
		minutes, err1 := strconv.Atoi(m)
		seconds, err2 := strconv.Atoi(s)
		if err1 != nil || err2 != nil || minutes < 0 || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
		}
		return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
	}

	if minutes, err := strconv.Atoi(input); err == nil && minutes >= 0 {
		return time.Duration(minutes) * time.Minute, nil
	}

	d, err := time.ParseDuration(input)
	if err == nil && d >= 0 {
		return d, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
}
