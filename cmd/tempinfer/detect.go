package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/tempinfer/internal/exitcode"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Report the pattern family of a column (no conversion, no writes)",
	RunE:  runDetect,
}

func init() {
	addInputFlags(detectCmd.Flags())
	_ = detectCmd.MarkFlagRequired("file")
	_ = detectCmd.MarkFlagRequired("column")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	log := newLogger()
	mustValidate(log, cfg.Validate)
	if cfg.Family != "" {
		log.Error().Msg("--family skips detection; nothing to detect")
		os.Exit(exitcode.UsageError)
	}

	pf := inspect(log)
	defer pf.Release()

	fmt.Println("=== tempinfer detect ===")
	fmt.Printf("File:       %s\n", cfg.FilePath)
	fmt.Printf("Column:     %s\n", cfg.Column)
	fmt.Printf("Rows:       %d\n", pf.Raw.Len())
	printVote(pf)
	return nil
}
