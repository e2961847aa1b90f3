package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/enrollwatch/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert synthetic applicants for demos and local testing",
	Long: `Insert synthetic applicant records spread over the last N days.
The same seed always generates the same records.

Examples:
  enrollwatch seed --count 500 --days 30 --seed 42`,
	RunE: runSeedCmd,
}

var (
	seedCount int
	seedDays  int
	seedSeed  int64
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedCount, "count", 200, "Number of applicants to generate")
	seedCmd.Flags().IntVar(&seedDays, "days", 30, "Spread creation times over this many past days")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 42, "Seed for the generator")
}

func runSeedCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	applicants := seed.Applicants(seed.Params{
		Count: seedCount,
		Days:  seedDays,
		Seed:  seedSeed,
	}, time.Now())

	for _, a := range applicants {
		if err := app.Applicants.Insert(ctx, a); err != nil {
			return err
		}
	}

	fmt.Printf("Inserted %d applicants over the last %d days\n", len(applicants), seedDays)
	return nil
}
