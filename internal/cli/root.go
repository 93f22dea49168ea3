package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lightimer/internal"
	"lightimer/internal/app"
	"lightimer/internal/bar"
	"lightimer/internal/config"
)

// isTerminal is swapped in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lightimer",
		Short: "A presentation countdown timer for the terminal",
		Long: `Lightimer shows a shrinking bar that turns from green to red and a
MM:SS countdown.

Press space (or right click) to start and stop, enter (or double right
click) to reset, and type four digits to set a new MM:SS duration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          launchTUI,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default $LIGHTIMER_CONFIG or ~/.config/lightimer/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")

	flags := rootCmd.Flags()
	flags.BoolP("lean", "l", false, "start in lean mode")
	flags.StringP("sound-file", "s", "", "WAV or MP3 file played when time is up")
	flags.StringP("duration", "d", "", "initial duration (MM:SS, minutes, or a Go duration like 90s)")
	flags.StringP("orientation", "o", "", "bar orientation: vertical or horizontal")
	flags.String("sound", "", "sound backend: auto, beep, oto, bell or none")
	flags.Bool("no-history", false, "do not record runs")

	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

// loadConfig reads the config file and applies the command line on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("verbose") {
		if v, _ := flags.GetBool("verbose"); v {
			cfg.Log.Level = "verbose"
		}
	}
	if flags.Lookup("lean") == nil {
		// Subcommands only know the persistent flags
		return nil
	}

	if flags.Changed("lean") {
		cfg.Display.Lean, _ = flags.GetBool("lean")
	}
	if flags.Changed("sound-file") {
		cfg.Sound.File, _ = flags.GetString("sound-file")
	}
	if flags.Changed("duration") {
		s, _ := flags.GetString("duration")
		d, err := config.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid --duration: %w", err)
		}
		cfg.Timer.Duration = d
	}
	if flags.Changed("orientation") {
		s, _ := flags.GetString("orientation")
		o, err := bar.ParseOrientation(s)
		if err != nil {
			return fmt.Errorf("invalid --orientation: %w", err)
		}
		cfg.Display.Orientation = o.String()
	}
	if flags.Changed("sound") {
		cfg.Sound.Backend, _ = flags.GetString("sound")
	}
	if flags.Changed("no-history") {
		if off, _ := flags.GetBool("no-history"); off {
			cfg.History.Enabled = false
		}
	}
	return nil
}

func launchTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !isTerminal(os.Stdout) {
		return errors.New("lightimer needs an interactive terminal; see 'lightimer history' for scripted use")
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	opts := internal.Options{
		Config:   cfg,
		Log:      a.Log,
		Notifier: a.Notifier,
	}
	if a.History != nil {
		opts.History = a.History
	}
	m, err := internal.NewModel(opts)
	if err != nil {
		return err
	}

	a.Log.Info("starting: %s, %s", cfg.Timer.Duration, cfg.Display.Orientation)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
