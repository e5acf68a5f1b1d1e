package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ebecollect/internal/merge"
)

func mergeCmd() *cobra.Command {
	var batchSize int
	var verifyLookups bool
	cmd := &cobra.Command{
		Use:   "merge <source-dsn>",
		Short: "Append another collected database, shifting its event ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.Merge.BatchSize = batchSize
			}
			if cmd.Flags().Changed("verify-lookups") {
				cfg.Merge.VerifyLookups = verifyLookups
			}
			if sameDatabase(cfg.Database.DSN, args[0]) {
				return fmt.Errorf("cannot merge %s into itself", args[0])
			}
			return runMerge(cfg.Database.DSN, args[0], merge.Options{
				BatchSize:     cfg.Merge.BatchSize,
				VerifyLookups: cfg.Merge.VerifyLookups,
				Logger:        logger,
			})
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per insert batch")
	cmd.Flags().BoolVar(&verifyLookups, "verify-lookups", false, "Fail when lookup tables differ")
	return cmd
}

func runMerge(targetDSN, sourceDSN string, opts merge.Options) error {
	ctx := context.Background()

	target, err := openDB(ctx, targetDSN)
	if err != nil {
		return err
	}
	defer target.Close(ctx)

	source, err := openReadOnlyDB(ctx, sourceDSN)
	if err != nil {
		return err
	}
	defer source.Close(ctx)

	result, err := merge.Merge(ctx, target, source, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Merge complete.")
	for _, table := range result.Tables {
		switch {
		case table.Skipped:
			fmt.Fprintf(os.Stdout, "  %-16s skipped\n", table.Table+":")
		case table.Created:
			fmt.Fprintf(os.Stdout, "  %-16s %d rows (new table)\n", table.Table+":", table.Rows)
		default:
			fmt.Fprintf(os.Stdout, "  %-16s %d rows, event ids shifted by %d\n", table.Table+":", table.Rows, table.Shift)
		}
	}
	fmt.Fprintf(os.Stdout, "  Total rows: %d\n", result.Rows())
	return nil
}
