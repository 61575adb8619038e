package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/MinTTT/snapgene-history-exporter/config"
	"github.com/MinTTT/snapgene-history-exporter/internal/batch"
	"github.com/MinTTT/snapgene-history-exporter/internal/history"
	"github.com/MinTTT/snapgene-history-exporter/internal/report"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:     "extract",
	Aliases: []string{"export", "x"},
	Short:   "Extract assembly histories from .dna files into one report",
	Long: `Extract reads every SnapGene .dna file under --in, flattens each file's
recorded assembly history, and writes three combined tables to --out:

1. PCR fragments: every amplified fragment with its template and primers
2. Construction fragments: the pieces directly combined into each construct
3. Primers: every primer and oligo, deduplicated across all files

The --out extension picks the format: .xlsx, .csv or .json. Files without
a recorded history, or with one this tool can't make sense of, are skipped
and listed in the run summary; they never abort the batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runExtract(cmd.Context(), cfg)
	},
}

func runExtract(ctx context.Context, cfg config.Config) error {
	opts := &history.Options{StripSuffixes: cfg.Names.StripSuffixes}

	run := func() error {
		tables, sum, err := batch.Run(ctx, cfg.Extract.In, cfg.Extract.Recursive, cfg.Extract.Workers, opts, logger)
		if err != nil {
			return err
		}
		if err := report.Write(cfg.Extract.Out, tables, sum); err != nil {
			return err
		}

		fmt.Printf("wrote %s: %d PCR, %d construction, %d primer rows from %d/%d files (%.2fs)\n",
			cfg.Extract.Out, len(tables.PCR), len(tables.Construction), len(tables.Primers),
			sum.Processed, sum.Files, sum.Elapsed.Seconds())
		for _, skip := range sum.Skipped {
			fmt.Printf("  skipped %s: %s\n", skip.File, skip.Reason)
		}
		for _, d := range sum.Diagnostics {
			if d.Kind == history.DiagPrimerConflict {
				fmt.Printf("  warning: %s\n", d)
			}
		}
		return nil
	}

	if err := run(); err != nil {
		return err
	}

	if !cfg.Watch.Enabled {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := batch.Watch(ctx, cfg.Extract.In, cfg.Watch.Debounce, logger, func() {
		if err := run(); err != nil {
			logger.Error("re-extraction failed", zap.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("in", "i", ".", "path to a .dna file or a directory of them")
	extractCmd.Flags().StringP("out", "o", "history.xlsx", "report path; .xlsx, .csv or .json")
	extractCmd.Flags().BoolP("recursive", "r", false, "also read .dna files in sub-directories")
	extractCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "how many files to process at once")
	extractCmd.Flags().Bool("watch", false, "stay running and re-extract when files change")

	// Bind the parameters to viper
	viper.BindPFlag("extract.in", extractCmd.Flags().Lookup("in"))
	viper.BindPFlag("extract.out", extractCmd.Flags().Lookup("out"))
	viper.BindPFlag("extract.recursive", extractCmd.Flags().Lookup("recursive"))
	viper.BindPFlag("extract.workers", extractCmd.Flags().Lookup("workers"))
	viper.BindPFlag("watch.enabled", extractCmd.Flags().Lookup("watch"))
}
