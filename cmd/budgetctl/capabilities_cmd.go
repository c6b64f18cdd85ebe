package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"civicbudget/internal/phase"
)

var flagResultsEnabled bool

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Print what each phase allows",
	Args:  cobra.NoArgs,
	RunE:  runCapabilities,
}

func init() {
	capabilitiesCmd.Flags().BoolVar(&flagResultsEnabled, "results-enabled", false, "Assume the budget publishes results")
	rootCmd.AddCommand(capabilitiesCmd)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func runCapabilities(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tAUTHOR\tPRICES\tBALLOT\tWINNERS\tRESULTS\tDEFAULT SORT\tSORTS\tDEFAULT FILTER")
	for _, k := range phase.Sequence {
		c := phase.CapabilitiesFor(k, flagResultsEnabled)
		sorts := make([]string, len(c.Sorts))
		for i, s := range c.Sorts {
			sorts[i] = string(s)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Phase,
			yesNo(c.InvestmentsCreatable),
			yesNo(c.PricesPublished),
			yesNo(c.BallotOpen),
			yesNo(c.WinnerVisible),
			yesNo(c.ResultsVisible),
			c.DefaultSort,
			strings.Join(sorts, ","),
			c.DefaultFilter,
		)
	}
	return w.Flush()
}
