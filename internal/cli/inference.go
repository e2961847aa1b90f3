package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sampleSizeCmd = &cobra.Command{
	Use:   "samplesize",
	Short: "Observations needed to detect an effect size",
	Long: `Compute the total number of observations, across both experiment
groups, needed to detect the given effect size (Cohen's w) with a chi-square
goodness-of-fit test at significance 0.05 and power 0.8.

Examples:
  enrollwatch samplesize --effect 0.2`,
	RunE: runSampleSize,
}

var probabilityCmd = &cobra.Command{
	Use:   "probability",
	Short: "Chance of collecting enough observations in time",
	Long: `Estimate the percent chance that at least --obs eligible applicants
arrive within --days calendar days, from the historical arrival rate.

Examples:
  enrollwatch probability --obs 394 --days 14`,
	RunE: runProbability,
}

var chiSquareCmd = &cobra.Command{
	Use:   "chisquare",
	Short: "Test association between group and quiz completion",
	Long: `Build the group-by-completion contingency table from current record
state and run a chi-square test of independence on it.`,
	RunE: runChiSquare,
}

var (
	effectSize float64
	targetObs  int
	targetDays int
)

func init() {
	rootCmd.AddCommand(sampleSizeCmd)
	rootCmd.AddCommand(probabilityCmd)
	rootCmd.AddCommand(chiSquareCmd)

	sampleSizeCmd.Flags().Float64Var(&effectSize, "effect", 0.2, "Effect size to detect (Cohen's w)")

	probabilityCmd.Flags().IntVar(&targetObs, "obs", 0, "Number of observations to gather")
	probabilityCmd.Flags().IntVar(&targetDays, "days", 7, "Number of days the experiment will run")
	_ = probabilityCmd.MarkFlagRequired("obs")
}

func runSampleSize(cmd *cobra.Command, args []string) error {
	app, err := NewAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	n, err := app.Stats.RequiredSampleSize(effectSize)
	if err != nil {
		return err
	}

	fmt.Printf("Observations needed to detect w=%.2f: %d total (%d per group)\n", effectSize, n, n/2)
	return nil
}

func runProbability(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	pct, err := app.Stats.ProbabilityOfCollecting(ctx, targetObs, targetDays)
	if err != nil {
		return err
	}

	fmt.Printf("Chance of gathering %d observations in %d days: %.1f%%\n", targetObs, targetDays, pct)
	return nil
}

func runChiSquare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	result, err := app.Stats.ContingencyTest(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("chi2 = %.4f, df = %d, p = %.4f\n", result.Statistic, result.DF, result.PValue)
	return nil
}
