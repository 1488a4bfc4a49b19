package main

import (
	"fmt"

	"kronosphere/internal/database"
	"kronosphere/internal/migrate"
	"kronosphere/internal/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations without starting the GUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeDB, err := openRunner(cmd, opts)
			if err != nil {
				return err
			}
			defer closeDB()

			applied, err := runner.Apply(cmd.Context())
			if err != nil {
				return migrationFailure(err)
			}

			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Database is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(out, "Applied migration %d\n", v)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeDB, err := openRunner(cmd, opts)
			if err != nil {
				return err
			}
			defer closeDB()

			statuses, err := runner.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied " + s.InstalledOn.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%4d  %-28s %s\n", s.Version, s.Description, state)
			}
			return nil
		},
	})

	return cmd
}

func openRunner(cmd *cobra.Command, opts *globalOptions) (*migrate.Runner, func(), error) {
	cfg, log, err := opts.setup()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cmd.Context(), cfg.DatabaseURL, database.Options{
		DataDir:        cfg.DataDir,
		Logger:         log,
		SkipMigrations: true,
	})
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { database.Close(db) }

	runner, err := migrate.NewRunner(db, models.Migrations(), log)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return runner, closeDB, nil
}

func migrationFailure(err error) error {
	if migrate.IsMigrationError(err) {
		return fmt.Errorf("migration history does not match this build (restore a backup or use a matching version): %w", err)
	}
	return err
}

// openDatabase opens the database migrated to the shipped schema.
func openDatabase(cmd *cobra.Command, opts *globalOptions) (*gorm.DB, error) {
	cfg, log, err := opts.setup()
	if err != nil {
		return nil, err
	}
	return database.Open(cmd.Context(), cfg.DatabaseURL, database.Options{
		DataDir:    cfg.DataDir,
		Logger:     log,
		Migrations: models.Migrations(),
	})
}
