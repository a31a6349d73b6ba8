package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/exitcode"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
	"github.com/Efenterprise/serene-care-flow-sub003/internal/parquetio"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a classification results Parquet file (no writes)",
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to results Parquet file (required)")
	_ = summarizeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	log := setup()

	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}

	reader, err := parquetio.Open(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open results file")
		os.Exit(exitcode.ValidationError)
	}
	defer reader.Close()

	s, err := parquetio.Summarize(reader)
	if err != nil {
		log.Error().Err(err).Msg("failed to read results")
		os.Exit(exitcode.ValidationError)
	}

	fmt.Println("=== caremix summarize ===")
	fmt.Printf("File:          %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:       %s\n", sha)
	fmt.Printf("Rows:          %d\n", s.Rows)
	fmt.Printf("Mean CMI:      %.3f\n", s.MeanCaseMixIndex)
	fmt.Printf("Daily total:   %.2f\n", normalize.CentsToDollars(s.DailyRateCents))
	fmt.Printf("Monthly total: %.2f\n", normalize.CentsToDollars(s.MonthlyRevenueCents))
	fmt.Println()
	fmt.Println("By RUG category:")
	for _, ct := range s.Categories {
		share := 0.0
		if s.Rows > 0 {
			share = 100 * float64(ct.Count) / float64(s.Rows)
		}
		fmt.Printf("  %-4s %6d  %5.1f%%  monthly %12.2f\n",
			ct.Category, ct.Count, share, normalize.CentsToDollars(ct.MonthlyRevenueCents))
	}
	return nil
}
