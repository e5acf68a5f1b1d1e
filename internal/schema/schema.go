// Package schema owns the fixed relational layout of a collected store: the
// lookup dictionaries and the column specs of every data table.
package schema

import (
	"context"
	"fmt"
	"strings"

	"ebecollect/internal/store"
)

const (
	TablePIDLookup      = "pid_lookup"
	TableEccIDLookup    = "ecc_id_lookup"
	TableEccentricities = "eccentricities"
	TableRIntegrals     = "r_integrals"
	TableInteVn         = "inte_vn"
	TableDiffVn         = "diff_vn"
	TableMultiplicities = "multiplicities"
	TableSpectra        = "spectra"

	ColumnEventID = "event_id"
	ColumnPT      = "pT"
	ColumnN       = "N"
)

func intCol(name string) store.Column  { return store.Column{Name: name, Type: store.TypeInteger} }
func realCol(name string) store.Column { return store.Column{Name: name, Type: store.TypeReal} }
func textCol(name string) store.Column { return store.Column{Name: name, Type: store.TypeText} }

var tables = map[string][]store.Column{
	TablePIDLookup:      {textCol("name"), intCol("pid")},
	TableEccIDLookup:    {intCol("ecc_id"), textCol("ecc_type_name")},
	TableEccentricities: {intCol("event_id"), intCol("ecc_id"), intCol("r_power"), intCol("n"), realCol("ecc_real"), realCol("ecc_imag")},
	TableRIntegrals:     {intCol("event_id"), intCol("ecc_id"), intCol("r_power"), realCol("r_inte")},
	TableInteVn:         {intCol("event_id"), intCol("pid"), intCol("n"), realCol("vn_real"), realCol("vn_imag")},
	TableDiffVn:         {intCol("event_id"), intCol("pid"), realCol(ColumnPT), intCol("n"), realCol("vn_real"), realCol("vn_imag")},
	TableMultiplicities: {intCol("event_id"), intCol("pid"), realCol(ColumnN)},
	TableSpectra:        {intCol("event_id"), intCol("pid"), realCol(ColumnPT), realCol(ColumnN)},
}

// Columns returns the column spec of a known table.
func Columns(table string) ([]store.Column, bool) {
	cols, ok := tables[table]
	if !ok {
		return nil, false
	}
	return append([]store.Column(nil), cols...), true
}

// DataTables lists the event-keyed tables in a stable order.
func DataTables() []string {
	return []string{TableEccentricities, TableRIntegrals, TableInteVn, TableDiffVn, TableMultiplicities, TableSpectra}
}

// IsLookupTable identifies name-keyed tables, which merge never id-shifts.
func IsLookupTable(table string) bool {
	return strings.HasSuffix(table, "_lookup")
}

// EnsureTable creates a known table if absent and reports whether it did.
func EnsureTable(ctx context.Context, st store.Store, table string) (bool, error) {
	cols, ok := tables[table]
	if !ok {
		return false, fmt.Errorf("unknown table %s", table)
	}
	created, err := st.CreateTableIfNotExists(ctx, table, cols)
	if err != nil {
		return false, fmt.Errorf("ensure table %s: %w", table, err)
	}
	return created, nil
}

// EnsurePIDLookup creates pid_lookup and, only on creation, inserts the
// complete species dictionary in one statement batch.
func EnsurePIDLookup(ctx context.Context, st store.Store) error {
	rows := make([]store.Row, 0, len(species))
	for _, s := range species {
		rows = append(rows, store.Row{s.Name, s.PID})
	}
	return ensureLookup(ctx, st, TablePIDLookup, rows)
}

// EnsureEccIDLookup is the ecc_id_lookup counterpart of EnsurePIDLookup.
func EnsureEccIDLookup(ctx context.Context, st store.Store) error {
	rows := make([]store.Row, 0, len(eccTypes))
	for _, e := range eccTypes {
		rows = append(rows, store.Row{e.ID, e.Name})
	}
	return ensureLookup(ctx, st, TableEccIDLookup, rows)
}

// ensureLookup creates and fills a lookup table in one transaction so a
// failed population never leaves an empty table behind.
func ensureLookup(ctx context.Context, st store.Store, table string, rows []store.Row) error {
	return st.InTx(ctx, func(tx store.Store) error {
		created, err := EnsureTable(ctx, tx, table)
		if err != nil || !created {
			return err
		}
		if err := tx.Insert(ctx, table, rows); err != nil {
			return fmt.Errorf("populating %s: %w", table, err)
		}
		return nil
	})
}

func EnsureEccentricityTables(ctx context.Context, st store.Store) error {
	if err := EnsureEccIDLookup(ctx, st); err != nil {
		return err
	}
	for _, table := range []string{TableEccentricities, TableRIntegrals} {
		if _, err := EnsureTable(ctx, st, table); err != nil {
			return err
		}
	}
	return nil
}

func EnsureFlowTables(ctx context.Context, st store.Store) error {
	if err := EnsurePIDLookup(ctx, st); err != nil {
		return err
	}
	for _, table := range []string{TableInteVn, TableDiffVn, TableMultiplicities, TableSpectra} {
		if _, err := EnsureTable(ctx, st, table); err != nil {
			return err
		}
	}
	return nil
}
