package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memkit/bitpool/region"
)

var (
	scanCount     int
	scanStart     int
	scanStrategy  string
	scanAllocated bool
)

func init() {
	cmd := newScanCmd()
	cmd.Flags().IntVar(&scanCount, "count", 1, "Number of consecutive units to find")
	cmd.Flags().IntVar(&scanStart, "start", 0, "Index to begin searching at")
	cmd.Flags().StringVar(&scanStrategy, "strategy", "first", "Scan strategy: first, next, best, or buddy")
	cmd.Flags().BoolVar(&scanAllocated, "allocated", false, "Search for allocated (set) units instead of free ones")
	rootCmd.AddCommand(cmd)
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Search a bit image for a run of units",
		Long: `The scan command loads a raw bit image and searches it for a run of
consecutive free units, printing the index of the first unit of the run it
selects. With --allocated it searches for set units instead.

Example:
  bitpoolctl scan --bits 4096 --count 8 pool.img
  bitpoolctl scan --bits 4096 --count 8 --strategy best pool.img`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args)
		},
	}
	return cmd
}

func runScan(args []string) error {
	strategy, err := region.ParseStrategy(scanStrategy)
	if err != nil {
		return err
	}

	vec, err := loadVector(args[0], vectorBits)
	if err != nil {
		return err
	}

	if scanStart < 0 || scanStart > vec.Len() {
		return fmt.Errorf("start %d is outside the %d-bit vector", scanStart, vec.Len())
	}
	if scanCount < 0 {
		return fmt.Errorf("count %d is negative", scanCount)
	}

	kind := "free"
	if scanAllocated {
		kind = "allocated"
	}

	scanner := region.NewScanner(vec, strategy)
	idx := scanner.Scan(scanStart, scanCount, scanAllocated)
	if idx == region.NotFound {
		return fmt.Errorf("no run of %d %s units found", scanCount, kind)
	}

	fmt.Println(idx)
	return nil
}
