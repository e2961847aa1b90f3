package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarize the applicant population",
	Long:  `Show nationality, education and age summaries for all applicants.`,
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	nationalities, err := app.Applicants.NationalityCounts(ctx)
	if err != nil {
		return err
	}

	var population int64
	for _, n := range nationalities {
		population += n.Count
	}

	color.Yellow("\nApplicants by nationality")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Country", "Count", "Share"})
	for _, n := range nationalities {
		table.Append([]string{
			n.CountryISO2,
			strconv.FormatInt(n.Count, 10),
			fmt.Sprintf("%.1f%%", float64(n.Count)/float64(population)*100),
		})
	}
	table.Render()

	education, err := app.Applicants.EducationCounts(ctx)
	if err != nil {
		return err
	}

	color.Yellow("\nApplicants by highest degree earned")
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Degree", "Count"})
	for _, e := range education {
		table.Append([]string{e.Degree, strconv.FormatInt(e.Count, 10)})
	}
	table.Render()

	ages, err := app.Applicants.Ages(ctx)
	if err != nil {
		return err
	}
	if len(ages) == 0 {
		return nil
	}

	values := make([]float64, len(ages))
	min, max := ages[0], ages[0]
	for i, a := range ages {
		values[i] = float64(a)
		if a < min {
			min = a
		}
		if a > max {
			max = a
		}
	}

	color.Yellow("\nAge distribution")
	fmt.Printf("count %d, mean %.1f, min %d, max %d\n", len(ages), stat.Mean(values, nil), min, max)
	return nil
}
