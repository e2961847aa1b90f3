package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "enrollwatch",
	Short: "Applicant tracking and A/B testing for an online course",
	Long: `enrollwatch tracks applicants to an online course and runs an
email-reminder A/B test over them.

Assign incoming applicants to control/treatment groups, estimate the sample
size and runtime an experiment needs, and test whether the reminder changes
quiz-completion rates.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
