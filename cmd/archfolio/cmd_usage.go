package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"archfolio/internal/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the model tokens spent in this workspace",
	RunE:  runUsage,
}

func runUsage(cmd *cobra.Command, args []string) error {
	t, err := usage.NewTracker(workspace)
	if err != nil {
		return err
	}
	printUsage(cmd.OutOrStdout(), t.Stats())
	return nil
}

func printUsage(w io.Writer, stats usage.AggregatedStats) {
	fmt.Fprintf(w, "Calls:    %d (%d failed)\n", stats.Calls, stats.Failures)
	fmt.Fprintf(w, "Tokens:   %d in / %d out / %d total\n", stats.Total.Input, stats.Total.Output, stats.Total.Total)

	section := func(title string, m map[string]usage.TokenCounts) {
		if len(m) == 0 {
			return
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "\n%s:\n", title)
		for _, k := range keys {
			c := m[k]
			fmt.Fprintf(w, "  %-20s %8d in %8d out %8d total\n", k, c.Input, c.Output, c.Total)
		}
	}
	section("By model", stats.ByModel)
	section("By operation", stats.ByOperation)
}
