// Package merge folds one collected store into another, renumbering the
// source events so they follow the target's.
package merge

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ebecollect/internal/config"
	"ebecollect/internal/schema"
	"ebecollect/internal/store"
)

var (
	ErrLookupMismatch = errors.New("lookup tables differ between stores")
	ErrNoEventID      = errors.New("data table has no event_id column")
	ErrSameStore      = errors.New("source and target are the same store handle")
)

type Options struct {
	// BatchSize bounds the rows held in memory per insert.
	BatchSize int
	// VerifyLookups fails the merge when a lookup table present in both
	// stores has different contents.
	VerifyLookups bool
	Logger        *zap.Logger
}

type TableResult struct {
	Table   string
	Created bool
	Skipped bool
	Rows    int
	Shift   int64
}

type Result struct {
	Tables []TableResult
}

// Rows reports the total number of rows copied.
func (r *Result) Rows() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Rows
	}
	return n
}

// Merge copies every table of source into target inside one target
// transaction. Tables absent from target are created and copied verbatim.
// Lookup tables already in target are left alone. Data tables get their
// event ids shifted by the target's current maximum.
//
// Source and target must be distinct handles: source is read while the
// target transaction is open, and a single-connection store would wait on
// itself. Merge returns ErrSameStore when given one handle twice. Two
// handles on the same database are not detected.
func Merge(ctx context.Context, target, source store.Store, opts Options) (*Result, error) {
	if target == source {
		return nil, ErrSameStore
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = config.DefaultMergeBatchSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	tables, err := source.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing source tables: %w", err)
	}

	result := &Result{}
	err = target.InTx(ctx, func(tx store.Store) error {
		for _, table := range tables {
			tr, err := mergeTable(ctx, tx, source, table, opts)
			if err != nil {
				return fmt.Errorf("merging %s: %w", table, err)
			}
			opts.Logger.Info("merged table",
				zap.String("table", table),
				zap.Bool("created", tr.Created),
				zap.Bool("skipped", tr.Skipped),
				zap.Int("rows", tr.Rows),
				zap.Int64("shift", tr.Shift),
			)
			result.Tables = append(result.Tables, tr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func mergeTable(ctx context.Context, target, source store.Store, table string, opts Options) (TableResult, error) {
	tr := TableResult{Table: table}

	columns, err := source.TableColumns(ctx, table)
	if err != nil {
		return tr, err
	}
	created, err := target.CreateTableIfNotExists(ctx, table, columns)
	if err != nil {
		return tr, err
	}
	tr.Created = created

	shiftCol := -1
	switch {
	case created:
	case schema.IsLookupTable(table):
		tr.Skipped = true
		if opts.VerifyLookups {
			return tr, verifyLookup(ctx, target, source, table)
		}
		return tr, nil
	default:
		shiftCol = store.ColumnIndex(columns, schema.ColumnEventID)
		if shiftCol < 0 {
			return tr, fmt.Errorf("%w: %s", ErrNoEventID, table)
		}
		if tr.Shift, err = maxEventID(ctx, target, table); err != nil {
			return tr, err
		}
	}

	tr.Rows, err = copyRows(ctx, target, source, table, shiftCol, tr.Shift, opts.BatchSize)
	return tr, err
}

func maxEventID(ctx context.Context, st store.Store, table string) (int64, error) {
	var maxID int64
	sel := store.Select{Table: table, Columns: []string{"COALESCE(MAX(event_id), 0)"}}
	err := st.Query(ctx, sel.SQL(), nil, func(row store.Row) error {
		var err error
		maxID, err = store.Int(row[0])
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("reading max event_id: %w", err)
	}
	return maxID, nil
}

// copyRows streams source rows into target in batches, adding shift to the
// column at shiftCol when it is not negative.
func copyRows(ctx context.Context, target, source store.Store, table string, shiftCol int, shift int64, batchSize int) (int, error) {
	batch := make([]store.Row, 0, batchSize)
	copied := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := target.Insert(ctx, table, batch); err != nil {
			return err
		}
		copied += len(batch)
		batch = batch[:0]
		return nil
	}

	sel := store.Select{Table: table}
	err := source.Query(ctx, sel.SQL(), nil, func(row store.Row) error {
		if shiftCol >= 0 {
			id, err := store.Int(row[shiftCol])
			if err != nil {
				return err
			}
			row[shiftCol] = id + shift
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return copied, err
	}
	if err := flush(); err != nil {
		return copied, err
	}
	return copied, nil
}

func verifyLookup(ctx context.Context, target, source store.Store, table string) error {
	want, err := schema.ReadLookups(ctx, source)
	if err != nil {
		return err
	}
	got, err := schema.ReadLookups(ctx, target)
	if err != nil {
		return err
	}
	if !want.EqualTable(table, got) {
		return fmt.Errorf("%w: %s", ErrLookupMismatch, table)
	}
	return nil
}
