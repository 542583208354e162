package main

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/spf13/cobra"

	"github.com/memkit/bitpool"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <image>",
		Short: "Show run-level statistics for a bit image",
		Long: `The stats command loads a raw bit image and prints json statistics about
it: unit totals, allocation and free-run counts, and run size extrema. Every
maximal run of set bits counts as one allocation.

Example:
  bitpoolctl stats --bits 4096 pool.img`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(args []string) error {
	vec, err := loadVector(args[0], vectorBits)
	if err != nil {
		return err
	}

	var stats bitpool.DetailedStatistics
	stats.Clear()
	vec.AddDetailedStatistics(&stats)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	stats.PrintJson(obj)
	obj.End()

	if err := writer.Error(); err != nil {
		return err
	}
	fmt.Println(string(writer.Bytes()))

	return nil
}
