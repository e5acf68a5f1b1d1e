package schema

import (
	"context"
	"fmt"

	"ebecollect/internal/store"
)

// Lookups holds the dictionaries as stored in one database.
type Lookups struct {
	PIDs   map[string]int64
	EccIDs map[string]int64
}

// ReadLookups loads pid_lookup and ecc_id_lookup from st. A missing lookup
// table yields an empty map.
func ReadLookups(ctx context.Context, st store.Store) (*Lookups, error) {
	pids, err := readNameIndex(ctx, st, TablePIDLookup, "name", "pid")
	if err != nil {
		return nil, err
	}
	eccIDs, err := readNameIndex(ctx, st, TableEccIDLookup, "ecc_type_name", "ecc_id")
	if err != nil {
		return nil, err
	}
	return &Lookups{PIDs: pids, EccIDs: eccIDs}, nil
}

func readNameIndex(ctx context.Context, st store.Store, table, nameCol, idCol string) (map[string]int64, error) {
	index := make(map[string]int64)

	exists, err := st.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return index, nil
	}

	sel := store.Select{Table: table, Columns: []string{nameCol, idCol}}
	err = st.Query(ctx, sel.SQL(), nil, func(row store.Row) error {
		name, err := store.Text(row[0])
		if err != nil {
			return err
		}
		id, err := store.Int(row[1])
		if err != nil {
			return err
		}
		index[name] = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}
	return index, nil
}

func (l *Lookups) PID(name string) (int64, error) {
	pid, ok := l.PIDs[name]
	if !ok {
		return 0, &LookupError{Kind: ErrUnknownSpecies, Name: name}
	}
	return pid, nil
}

func (l *Lookups) EccID(name string) (int64, error) {
	id, ok := l.EccIDs[name]
	if !ok {
		return 0, &LookupError{Kind: ErrUnknownEccType, Name: name}
	}
	return id, nil
}

// Equal reports whether two stores carry identical dictionaries.
func (l *Lookups) Equal(other *Lookups) bool {
	return sameIndex(l.PIDs, other.PIDs) && sameIndex(l.EccIDs, other.EccIDs)
}

// EqualTable compares only the dictionary stored in table.
func (l *Lookups) EqualTable(table string, other *Lookups) bool {
	switch table {
	case TablePIDLookup:
		return sameIndex(l.PIDs, other.PIDs)
	case TableEccIDLookup:
		return sameIndex(l.EccIDs, other.EccIDs)
	default:
		return true
	}
}

// Fixed returns the dictionaries every store is populated with.
func Fixed() *Lookups {
	pids := make(map[string]int64, len(pidByName))
	for k, v := range pidByName {
		pids[k] = v
	}
	eccIDs := make(map[string]int64, len(eccIDByKey))
	for k, v := range eccIDByKey {
		eccIDs[k] = v
	}
	return &Lookups{PIDs: pids, EccIDs: eccIDs}
}

func sameIndex(a, b map[string]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}
