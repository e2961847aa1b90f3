package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the A/B test over a range of days",
	Long: `Run the email-reminder A/B test over the last N calendar days.

Each day's eligible applicants (incomplete quiz, not yet assigned) are
shuffled with the seeded generator and split into control and treatment
halves. The same seed over the same data always produces the same groups.

With --count-only, eligible applicants are counted but nothing is assigned.

Examples:
  enrollwatch run --days 7 --seed 42
  enrollwatch run --days 14 --count-only`,
	RunE: runRun,
}

var (
	runDays      int
	runSeed      int64
	runCountOnly bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runDays, "days", 7, "Number of days to cover, ending yesterday")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Seed for the group-assignment shuffle")
	runCmd.Flags().BoolVar(&runCountOnly, "count-only", false, "Count eligible applicants without assigning groups")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	result, err := app.Experiment.Run(ctx, runDays, !runCountOnly, runSeed)
	if err != nil {
		return err
	}

	color.Yellow("\nDaily results (%d days)", result.Days)
	table := tablewriter.NewWriter(os.Stdout)
	if result.Assigned {
		table.SetHeader([]string{"Date", "Matched", "Modified", "Control", "Treatment"})
		for _, day := range result.Daily {
			table.Append([]string{
				day.Date,
				strconv.FormatInt(day.Matched, 10),
				strconv.FormatInt(day.Modified, 10),
				strconv.Itoa(day.ControlSize),
				strconv.Itoa(day.TreatmentSize),
			})
		}
	} else {
		table.SetHeader([]string{"Date", "Eligible"})
		for _, day := range result.Daily {
			table.Append([]string{day.Date, strconv.FormatInt(day.Eligible, 10)})
		}
	}
	table.Render()

	if result.Assigned {
		fmt.Printf("\nTotal assigned: %d\n", result.TotalAssigned)
	}

	printSummary(result.Summary)
	return nil
}

func printSummary(s domain.ExperimentSummary) {
	color.Yellow("\nExperiment groups")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Group", "Total", "Completed", "Completion rate"})
	table.Append([]string{
		"control",
		strconv.FormatInt(s.Control.Total, 10),
		strconv.FormatInt(s.Control.Completed, 10),
		fmt.Sprintf("%.1f%%", s.Control.CompletionRate()*100),
	})
	table.Append([]string{
		"treatment",
		strconv.FormatInt(s.Treatment.Total, 10),
		strconv.FormatInt(s.Treatment.Completed, 10),
		fmt.Sprintf("%.1f%%", s.Treatment.CompletionRate()*100),
	})
	table.Render()

	fmt.Printf("Rate difference (treatment - control): %+.1f%%\n", s.RateDifference()*100)
}
