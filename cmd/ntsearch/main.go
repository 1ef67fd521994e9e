package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/ntsearch/internal/api"
	"github.com/pders01/ntsearch/internal/browser"
	"github.com/pders01/ntsearch/internal/config"
	"github.com/pders01/ntsearch/internal/debuglog"
	"github.com/pders01/ntsearch/internal/history"
	"github.com/pders01/ntsearch/internal/suggest"
	"github.com/pders01/ntsearch/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

type rootOptions struct {
	configPath string
	apiURL     string
	logLevel   string
	quiet      bool
	noHistory  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "ntsearch",
		Short:        "Search the neuroimaging literature from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&opts.apiURL, "api-url", "", "Base URL of the article API (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error, off (overrides config)")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not read or write search history")
	root.Flags().BoolVar(&opts.quiet, "quiet", false, "Skip startup banner")

	root.AddCommand(
		newSearchCmd(opts),
		newHistoryCmd(opts),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.noHistory {
		cfg.History.Enabled = false
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	return debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path)
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History.Path, cfg.History.Limit)
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer debuglog.Close()

	tui.ApplyTheme(cfg.UI.Colors)
	if !opts.quiet {
		tui.ShowBanner(cmd.OutOrStdout(), Version)
	}

	deps := tui.Deps{Source: api.NewClient(cfg.API)}

	store, err := openHistory(cfg)
	if err != nil {
		// A locked database means another instance is running.
		debuglog.Warnf("history disabled: %v", err)
	} else if store != nil {
		defer store.Close()
		deps.History = store
	}

	tags, err := suggest.New()
	if err != nil {
		debuglog.Warnf("tag suggestions disabled: %v", err)
	} else {
		defer tags.Close()
		deps.Suggester = tags
	}

	launcher := browser.NewLauncher(cfg.UI.Opener)
	if launcher.Opener() != "" {
		deps.Opener = launcher
	} else {
		debuglog.Warnf("link opening disabled: %v", browser.ErrNoOpener)
	}

	debuglog.Infof("starting ntsearch %s against %s", Version, cfg.API.BaseURL)

	p := tea.NewProgram(tui.NewApp(cfg, deps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interface: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ntsearch %s\n", Version)
			fmt.Fprintln(out, "Literature search client")
			fmt.Fprintln(out, "github.com/pders01/ntsearch")
		},
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var output string
	var force bool
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := output
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
			return nil
		},
	}
	generate.Flags().StringVarP(&output, "output", "o", "", "Where to write the file (default: XDG config dir)")
	generate.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(generate)
	return configCmd
}
