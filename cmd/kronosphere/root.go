package main

import (
	"context"
	"os"

	"kronosphere/internal/app"
	"kronosphere/internal/config"
	"kronosphere/internal/logger"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	dataDir string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "kronosphere",
		Short:        "Kronosphere desktop journal",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			launchGUI(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding the database file (overrides "+config.EnvDataDir+")")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newMigrateCmd(opts),
		newNotesCmd(opts),
		newVersionCmd(),
	)
	return root
}

// setup resolves configuration and the logger for any subcommand.
func (o *globalOptions) setup() (*config.Config, *logger.ZerologAdapter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}

	log, err := logger.New(cfg.LogLevel, cfg.JSONLogs)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func launchGUI(ctx context.Context, opts *globalOptions) {
	if ctx == nil {
		ctx = context.Background()
	}
	bootLog := logger.NewConsoleLogger(zerolog.InfoLevel)

	app.Launch(func() (app.Runner, error) {
		cfg, log, err := opts.setup()
		if err != nil {
			return nil, err
		}

		fyneApp := fyneapp.NewWithID(cfg.AppID)
		return app.NewApplication(ctx, fyneApp, cfg, log)
	}, bootLog, os.Exit)
}
