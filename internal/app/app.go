package app

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lightimer/internal/config"
	"lightimer/internal/logger"
	"lightimer/internal/sound"
	"lightimer/internal/timelog"
)

// App is the dependency injection container for all application components
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	History  *timelog.Repository // nil when history is disabled
	Notifier sound.Notifier

	logFile io.Closer
}

// New creates the container for the TUI. The terminal belongs to Bubble Tea,
// so logging goes to cfg.Log.File or nowhere.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: logger.Discard()}
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "lightimer")
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		a.Log = logger.New(level, f)
	}

	if err := a.openHistory(); err != nil {
		a.Close()
		return nil, err
	}

	a.Notifier = sound.New(sound.Options{
		Backend: cfg.Sound.Backend,
		File:    cfg.Sound.File,
		Volume:  cfg.Sound.Volume,
		Out:     os.Stdout,
	}, a.Log)

	return a, nil
}

// NewForCommand creates the container for CLI subcommands: a stderr logger
// and the history repository, no audio.
func NewForCommand(cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Log:      logger.New(level, os.Stderr),
		Notifier: sound.NoOp{},
	}
	if err := a.openHistory(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) openHistory() error {
	if !a.Config.History.Enabled {
		a.Log.Debug("history disabled")
		return nil
	}

	repo, err := timelog.NewRepository(a.Config.History.Path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	a.History = repo
	a.Log.Debug("history at %s", a.Config.History.Path)
	return nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var firstErr error
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			firstErr = err
		}
		a.History = nil
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.logFile = nil
	}
	return firstErr
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
