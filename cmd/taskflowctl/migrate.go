package main

import (
	"fmt"

	"taskflow/internal/config"
	"taskflow/internal/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema commands",
	}

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateDownCmd())
	cmd.AddCommand(newMigrateVersionCmd())
	return cmd
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Long:  "Applies the SQL migrations on postgres. On sqlite the schema is created from the models instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			out := cmd.OutOrStdout()

			if cfg.DBDriver == db.DriverSQLite {
				gdb, err := db.Open(cfg)
				if err != nil {
					return err
				}
				if err := db.AutoMigrate(gdb); err != nil {
					return err
				}
				fmt.Fprintf(out, "Schema ready in %s\n", cfg.SQLitePath)
				return nil
			}

			return withMigrator(cfg, func(m *db.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := requirePostgres(cfg); err != nil {
				return err
			}
			return withMigrator(cfg, func(m *db.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")
	return cmd
}

func newMigrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := requirePostgres(cfg); err != nil {
				return err
			}
			return withMigrator(cfg, func(m *db.Migrator) error {
				return printVersion(cmd, m)
			})
		},
	}
}

func requirePostgres(cfg *config.Config) error {
	if cfg.DBDriver != db.DriverPostgres {
		return fmt.Errorf("versioned migrations need DB_DRIVER=postgres, got %q", cfg.DBDriver)
	}
	return nil
}

func withMigrator(cfg *config.Config, fn func(*db.Migrator) error) error {
	m, err := db.NewMigrator(cfg.MigrateURL())
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func printVersion(cmd *cobra.Command, m *db.Migrator) error {
	version, dirty, ok, err := m.Version()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch {
	case !ok:
		fmt.Fprintln(out, "No migrations applied")
	case dirty:
		fmt.Fprintf(out, "Schema version %d (dirty)\n", version)
	default:
		fmt.Fprintf(out, "Schema version %d\n", version)
	}
	return nil
}
