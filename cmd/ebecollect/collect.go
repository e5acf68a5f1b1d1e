package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"ebecollect/internal/collect"
)

func collectCmd() *cobra.Command {
	var mode string
	var pattern string
	var factor float64
	cmd := &cobra.Command{
		Use:   "collect [root]",
		Short: "Collect event folders under root into the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root := cfg.Collect.Root
			if len(args) == 1 {
				root = args[0]
			}
			if root == "" {
				return fmt.Errorf("root folder is required")
			}
			if cmd.Flags().Changed("mode") {
				cfg.Collect.Mode = mode
			}
			if cmd.Flags().Changed("pattern") {
				cfg.Collect.SubfolderPattern = pattern
			}
			if cmd.Flags().Changed("factor") {
				cfg.Collect.MultiplicityFactor = factor
			}

			parsed, err := collect.ParseMode(cfg.Collect.Mode)
			if err != nil {
				return err
			}
			return runCollect(cfg.Database.DSN, root, collect.Options{
				Mode:               parsed,
				SubfolderPattern:   cfg.Collect.SubfolderPattern,
				MultiplicityFactor: cfg.Collect.MultiplicityFactor,
				Logger:             logger,
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", fmt.Sprintf("Collection mode %v", collect.Modes()))
	cmd.Flags().StringVar(&pattern, "pattern", "", "Event folder regular expression")
	cmd.Flags().Float64Var(&factor, "factor", 0, "Multiplicity factor applied to binned spectra")
	return cmd
}

func runCollect(dsn, root string, opts collect.Options) error {
	ctx := context.Background()

	db, err := openDB(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	result, err := collect.CreateDatabaseFromEventFolders(ctx, db, root, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Collection complete.")
	fmt.Fprintf(os.Stdout, "  Events collected:   %d\n", result.EventsCollected)
	fmt.Fprintf(os.Stdout, "  Folders skipped:    %d\n", result.DirsSkipped)
	fmt.Fprintf(os.Stdout, "  Ecc files read:     %d\n", result.EccFilesRead)
	fmt.Fprintf(os.Stdout, "  Flow files read:    %d\n", result.FlowFilesRead)
	fmt.Fprintf(os.Stdout, "  Flow files skipped: %d\n", result.FlowFilesSkipped)

	tables := make([]string, 0, len(result.Rows))
	for table := range result.Rows {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(os.Stdout, "  %-16s %d rows\n", table+":", result.Rows[table])
	}
	return nil
}
