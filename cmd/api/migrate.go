package main

import (
	"fmt"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema with the migrations embedded in the binary.

Available subcommands:
  up      - Apply pending migrations
  down    - Rollback applied migrations
  status  - Show which migrations have been applied`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return runMigrate(cmd, migrate.Up, steps)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return runMigrate(cmd, migrate.Down, steps)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateUpCmd.Flags().Int("steps", 0, "number of migrations to apply (0 = all)")
	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to rollback")
}

func runMigrate(cmd *cobra.Command, direction migrate.MigrationDirection, steps int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	n, err := database.Migrate(db, direction, steps)
	if err != nil {
		return err
	}

	verb := "Applied"
	if direction == migrate.Down {
		verb = "Rolled back"
	}
	logger.Info(fmt.Sprintf("✅ %s %d migration(s)", verb, n))
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	statuses, err := database.Status(db)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-32s %s\n", "MIGRATION", "APPLIED AT")
	pending := 0
	for _, s := range statuses {
		applied := "pending"
		if s.AppliedAt != nil {
			applied = s.AppliedAt.Format(time.RFC3339)
		} else {
			pending++
		}
		fmt.Fprintf(out, "%-32s %s\n", s.ID, applied)
	}
	logger.Debug("migration status", zap.Int("known", len(statuses)), zap.Int("pending", pending))
	return nil
}
