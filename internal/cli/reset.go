package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/enrollwatch/internal/reset"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear experiment membership from applicant records",
	Long: `Clear the in_experiment and experiment_group fields from every
experiment member. Records themselves are never deleted, and running reset
twice reports zero modifications the second time.

By default only the applicants collection is reset; --all sweeps every table
that carries the experiment fields.`,
	RunE: runResetCmd,
}

var resetAllTables bool

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVar(&resetAllTables, "all", false, "Reset every table carrying experiment fields")
}

func runResetCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	var resetter *reset.Resetter
	if resetAllTables {
		resetter = reset.New(app.DB.DB)
	} else {
		resetter = reset.NewForRepository(app.Applicants)
	}

	results, err := resetter.ResetAll(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := results[name]
		fmt.Printf("%s: matched %d, modified %d\n", name, r.Matched, r.Modified)
	}
	return nil
}
