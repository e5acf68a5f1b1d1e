package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"ebecollect/internal/query"
	"ebecollect/internal/schema"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Inspect the collected database",
	}
	cmd.AddCommand(queryEventsCmd())
	cmd.AddCommand(querySpeciesCmd())
	return cmd
}

func queryEventsCmd() *cobra.Command {
	var table string
	var where string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List event ids present in a data table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(schema.DataTables(), table) {
				return fmt.Errorf("unknown data table %q, expected one of %s", table, strings.Join(schema.DataTables(), ", "))
			}
			return withFacade(func(ctx context.Context, f *query.Facade) error {
				ids, err := f.EventIDs(ctx, table, query.Filter{Where: where})
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(os.Stdout, id)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&table, "table", schema.TableMultiplicities, "Data table")
	cmd.Flags().StringVar(&where, "where", "", "SQL filter fragment")
	return cmd
}

func querySpeciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "species",
		Short: "List particle species and eccentricity types in the lookup tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFacade(func(ctx context.Context, f *query.Facade) error {
				fmt.Fprintf(os.Stdout, "Eccentricity types: %s\n", strings.Join(f.EccTypeNames(), ", "))
				fmt.Fprintln(os.Stdout, "Species:")
				for _, name := range f.SpeciesNames() {
					fmt.Fprintf(os.Stdout, "  %s\n", name)
				}
				return nil
			})
		},
	}
}

func withFacade(fn func(ctx context.Context, f *query.Facade) error) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openReadOnlyDB(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	f, err := query.Open(ctx, db)
	if err != nil {
		return err
	}
	return fn(ctx, f)
}
