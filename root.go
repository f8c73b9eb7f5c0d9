// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jeranaias/diffly-tui/internal/compare"
	"github.com/jeranaias/diffly-tui/internal/config"
	"github.com/jeranaias/diffly-tui/internal/logging"
	"github.com/jeranaias/diffly-tui/internal/ui/app"
	"github.com/jeranaias/diffly-tui/internal/watch"
)

var errNotTerminal = errors.New("diffly needs an interactive terminal")

// isTerminal reports whether stdin and stdout are attached to a terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// rootOptions holds the command line flags.
type rootOptions struct {
	configPath string
	serviceURL string
	exportDir  string
	layout     string
	logLevel   string
	noWatch    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "diffly [left.zip right.zip]",
		Short: "Compare two zip archives in the terminal",
		Long: `diffly uploads two zip archives to a comparison service and shows
every file that was added, removed or modified, with a colored diff per file.

Paths can be given on the command line or entered in the viewer.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		Args:          archiveArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args)
		},
	}

	bindFlags(cmd.Flags(), opts)
	return cmd
}

func bindFlags(flags *pflag.FlagSet, opts *rootOptions) {
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.diffly/config.toml)")
	flags.StringVar(&opts.serviceURL, "service-url", "", "comparison service endpoint")
	flags.StringVar(&opts.exportDir, "export-dir", "", "directory for exported diffs and summaries")
	flags.StringVar(&opts.layout, "layout", "", "diff layout: side-by-side or unified")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.BoolVar(&opts.noWatch, "no-watch", false, "do not watch the archives for changes")
}

// archiveArgs accepts no paths or exactly two.
func archiveArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("expected two archive paths, got %d", len(args))
	}
	return nil
}

// resolveConfig loads the config file and applies flags on top.
// Flags win over environment variables, which win over the file.
func resolveConfig(flags *pflag.FlagSet, opts *rootOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("service-url") {
		cfg.Service.URL = opts.serviceURL
	}
	if flags.Changed("export-dir") {
		cfg.Export.OutputDir = opts.exportDir
	}
	if flags.Changed("layout") {
		cfg.UI.Layout = opts.layout
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if opts.noWatch {
		cfg.UI.WatchArchives = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// run starts the viewer and blocks until it exits.
func run(ctx context.Context, cfg *config.Config, args []string) error {
	if !isTerminal() {
		return errNotTerminal
	}

	logger, err := logging.NewBuilder().WithConfig(cfg.Log).WithStdlib(true).Build()
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logger.Close()

	client := compare.NewClientWithConfig(&compare.ClientConfig{
		URL:              cfg.Service.URL,
		Timeout:          cfg.Timeout(),
		MaxResponseBytes: cfg.MaxResponseBytes(),
	})

	opts := app.Options{
		Config:   cfg,
		Comparer: client,
		Logger:   logger.Logger,
	}
	if len(args) == 2 {
		opts.Left, opts.Right = args[0], args[1]
	}

	if cfg.UI.WatchArchives {
		w, err := watch.New(watch.DefaultDebounce, logger.Logger)
		if err != nil {
			logger.Warn().Err(err).Msg("WATCH_FAILED")
		} else {
			defer w.Close()
			opts.Watcher = w
		}
	}

	logger.Info().
		Str("version", Version).
		Str("service", cfg.Service.URL).
		Msg("APP_START")

	p := tea.NewProgram(app.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}

	logger.Info().Msg("APP_EXIT")
	return nil
}
