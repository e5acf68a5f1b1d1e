// Package query reads a collected store back as numeric vectors, one value
// per event, and interpolates per-event pT data onto a common grid.
package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"ebecollect/internal/schema"
	"ebecollect/internal/store"
)

var ErrNoData = errors.New("no data to interpolate")

// Filter carries raw SQL fragments appended to generated queries. Where is
// AND-ed with the generated conditions, with Args bound to its '?'
// placeholders, and OrderBy replaces the default ordering. Neither fragment
// is escaped: never pass untrusted input. Use EventRange for filters built
// from outside input.
type Filter struct {
	Where   string
	Args    []any
	OrderBy string
}

// EventRange keeps events with lo <= event_id <= hi. A nil bound is open.
func EventRange(lo, hi *int64) Filter {
	var conds []string
	var args []any
	if lo != nil {
		conds = append(conds, schema.ColumnEventID+" >= ?")
		args = append(args, *lo)
	}
	if hi != nil {
		conds = append(conds, schema.ColumnEventID+" <= ?")
		args = append(args, *hi)
	}
	return Filter{Where: strings.Join(conds, " AND "), Args: args}
}

// PTRange keeps points with Min <= pT <= Max.
type PTRange struct {
	Min float64
	Max float64
}

type Pair struct {
	Real float64
	Imag float64
}

func (p Pair) Complex() complex128 {
	return complex(p.Real, p.Imag)
}

type Triple struct {
	PT   float64
	Real float64
	Imag float64
}

type SpectrumPoint struct {
	PT float64
	N  float64
}

// Facade answers read-only questions about one store. The lookup tables are
// loaded once when the Facade is opened.
type Facade struct {
	st      store.Store
	lookups *schema.Lookups
}

func Open(ctx context.Context, st store.Store) (*Facade, error) {
	lookups, err := schema.ReadLookups(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("loading lookup tables: %w", err)
	}
	return &Facade{st: st, lookups: lookups}, nil
}

// SpeciesNames lists the species known to the store, sorted.
func (f *Facade) SpeciesNames() []string {
	return sortedNames(f.lookups.PIDs)
}

func (f *Facade) EccTypeNames() []string {
	return sortedNames(f.lookups.EccIDs)
}

func sortedNames(index map[string]int64) []string {
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Filter) apply(sel *store.Select, defaultOrder string) {
	sel.And(f.Where, f.Args...)
	sel.OrderBy = defaultOrder
	if f.OrderBy != "" {
		sel.OrderBy = f.OrderBy
	}
}

// EventIDs lists the distinct event ids of a table, in event order unless
// the filter overrides it.
func (f *Facade) EventIDs(ctx context.Context, table string, filter Filter) ([]int64, error) {
	sel := store.Select{Table: table, Columns: []string{schema.ColumnEventID}, GroupBy: schema.ColumnEventID}
	filter.apply(&sel, schema.ColumnEventID)

	var ids []int64
	err := f.st.Query(ctx, sel.SQL(), sel.Args, func(row store.Row) error {
		id, err := store.Int(row[0])
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing events of %s: %w", table, err)
	}
	return ids, nil
}

func (f *Facade) floats(ctx context.Context, sel store.Select) ([]float64, error) {
	out := []float64{}
	err := f.st.Query(ctx, sel.SQL(), sel.Args, func(row store.Row) error {
		v, err := store.Float(row[0])
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", sel.Table, err)
	}
	return out, nil
}

func (f *Facade) pairs(ctx context.Context, sel store.Select) ([]Pair, error) {
	out := []Pair{}
	err := f.st.Query(ctx, sel.SQL(), sel.Args, func(row store.Row) error {
		re, err := store.Float(row[0])
		if err != nil {
			return err
		}
		im, err := store.Float(row[1])
		if err != nil {
			return err
		}
		out = append(out, Pair{Real: re, Imag: im})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", sel.Table, err)
	}
	return out, nil
}

func complexes(pairs []Pair) []complex128 {
	out := make([]complex128, len(pairs))
	for i, p := range pairs {
		out[i] = p.Complex()
	}
	return out
}
