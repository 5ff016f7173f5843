package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hairizuan-noorazman/bible-memo/database"
	"github.com/hairizuan-noorazman/bible-memo/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands for the sqlite and mysql storage types",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(driver string, db *sql.DB) error {
			if err := database.RunMigrations(db, driver); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(driver string, db *sql.DB) error {
			if err := database.RollbackMigration(db, driver); err != nil {
				return fmt.Errorf("failed to rollback migration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migration rolled back successfully")
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(driver string, db *sql.DB) error {
			version, dirty, err := database.MigrationVersion(db, driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)

	rootCmd.AddCommand(migrateCmd)
}

// withDatabase loads config, connects and hands the raw connection to fn.
func withDatabase(fn func(driver string, db *sql.DB) error) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Storage.Type != database.DriverSQLite && cfg.Storage.Type != database.DriverMySQL {
		return fmt.Errorf("storage type %q has no database to migrate", cfg.Storage.Type)
	}

	db, err := database.Connect(database.Config{
		Driver:       cfg.Database.Driver,
		Path:         cfg.Database.Path,
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	return fn(cfg.Database.Driver, sqlDB)
}
