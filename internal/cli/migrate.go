package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/enrollwatch/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  enrollwatch migrate      # Run all pending migrations
  enrollwatch migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if len(args) == 1 {
		target, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		if err := migrate.MigrateTo(ctx, app.DB.DB, target); err != nil {
			return err
		}
	} else {
		if err := migrate.RunAll(ctx, app.DB.DB); err != nil {
			return err
		}
	}

	version, _, err := migrate.CurrentVersion(ctx, app.DB.DB)
	if err != nil {
		return err
	}
	fmt.Printf("Database at version %d\n", version)
	return nil
}
