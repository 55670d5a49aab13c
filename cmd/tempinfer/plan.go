package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run detection and conversion stats (no writes)",
	RunE:  runPlan,
}

func init() {
	addInputFlags(planCmd.Flags())
	_ = planCmd.MarkFlagRequired("file")
	_ = planCmd.MarkFlagRequired("column")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()
	mustValidate(log, cfg.Validate)

	pf := inspect(log)
	defer pf.Release()

	res := convertColumn(ctx, log, pf)
	defer res.Release()

	total := int64(pf.Raw.Len())
	nonNull := total - res.Nulls
	matched := res.Stats.Matched()

	fmt.Println("=== tempinfer plan ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:    %s\n", pf.FileSHA256)
	fmt.Printf("Size:       %d bytes\n", pf.FileSize)
	fmt.Printf("Column:     %s\n", cfg.Column)
	fmt.Printf("Total rows: %d (%d null)\n", total, res.Nulls)
	printVote(pf)
	fmt.Println()
	fmt.Println("Conversion (dry run):")
	rate := 0.0
	if nonNull > 0 {
		rate = float64(matched) / float64(nonNull) * 100
	}
	fmt.Printf("  matched    %d / %d non-null (%.1f%%)\n", matched, nonNull, rate)
	fmt.Printf("  fast path  %d\n", res.Stats.FastPath)
	fmt.Printf("  switches   %d\n", res.Stats.Rescans)
	fmt.Printf("  misses     %d\n", res.Stats.Misses)
	if res.Latest != "" {
		fmt.Printf("  latest     %s\n", res.Latest)
	}
	fmt.Printf("  took       %.2fs\n", res.Duration.Seconds())
	return nil
}
