package validate

import (
	"context"
	"fmt"

	"ebecollect/internal/schema"
	"ebecollect/internal/store"
)

// tableGroups lists the tables created together; a store holding any member
// of a group should hold all of them.
var tableGroups = [][]string{
	{schema.TableEccIDLookup, schema.TableEccentricities, schema.TableRIntegrals},
	{schema.TablePIDLookup, schema.TableInteVn, schema.TableDiffVn, schema.TableMultiplicities, schema.TableSpectra},
}

func checkTables(names []string, present map[string]bool) []Issue {
	var issues []Issue
	for _, group := range tableGroups {
		touched := false
		for _, table := range group {
			touched = touched || present[table]
		}
		if !touched {
			continue
		}
		for _, table := range group {
			if !present[table] {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeMissingTable,
					Message:  fmt.Sprintf("table %s is missing", table),
					Table:    table,
				})
			}
		}
	}
	for _, name := range names {
		if _, known := schema.Columns(name); !known {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnexpectedTable,
				Message:  fmt.Sprintf("table %s is not part of the collected layout", name),
				Table:    name,
			})
		}
	}
	return issues
}

func checkLookups(stored *schema.Lookups, present map[string]bool) []Issue {
	fixed := schema.Fixed()
	var issues []Issue
	for _, table := range []string{schema.TablePIDLookup, schema.TableEccIDLookup} {
		if !present[table] || stored.EqualTable(table, fixed) {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeLookupMismatch,
			Message:  fmt.Sprintf("%s differs from the built-in dictionary", table),
			Table:    table,
		})
	}
	return issues
}

// idColumn maps a data table to the dictionary-keyed column it carries.
func idColumn(table string) (column string, known map[string]int64, code string) {
	fixed := schema.Fixed()
	switch table {
	case schema.TableEccentricities, schema.TableRIntegrals:
		return "ecc_id", fixed.EccIDs, codeUnknownEccID
	default:
		return "pid", fixed.PIDs, codeUnknownPID
	}
}

func checkIDs(ctx context.Context, st store.Store, table string) ([]Issue, error) {
	column, known, code := idColumn(table)
	valid := make(map[int64]bool, len(known))
	for _, id := range known {
		valid[id] = true
	}

	sel := store.Select{Table: table, Columns: []string{column}, GroupBy: column, OrderBy: column}
	var issues []Issue
	err := st.Query(ctx, sel.SQL(), nil, func(row store.Row) error {
		id, err := store.Int(row[0])
		if err != nil {
			return err
		}
		if !valid[id] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     code,
				Message:  fmt.Sprintf("%s %d has no dictionary entry", column, id),
				Table:    table,
			})
		}
		return nil
	})
	return issues, err
}

// harmonicKeys are the columns identifying one harmonic series per event.
var harmonicKeys = map[string]string{
	schema.TableEccentricities: "event_id, ecc_id, r_power",
	schema.TableInteVn:         "event_id, pid",
	schema.TableDiffVn:         `event_id, pid, "pT"`,
}

// checkHarmonics flags series whose orders do not run 1, 2, ..., max.
func checkHarmonics(ctx context.Context, st store.Store, table string) ([]Issue, error) {
	keys, ok := harmonicKeys[table]
	if !ok {
		return nil, nil
	}
	q := fmt.Sprintf(
		`SELECT event_id, MIN(n), MAX(n), COUNT(DISTINCT n) FROM %s GROUP BY %s HAVING MIN(n) <> 1 OR MAX(n) <> COUNT(DISTINCT n) ORDER BY event_id`,
		store.QuoteIdent(table), keys,
	)
	var issues []Issue
	err := st.Query(ctx, q, nil, func(row store.Row) error {
		eventID, err := store.Int(row[0])
		if err != nil {
			return err
		}
		lo, err := store.Int(row[1])
		if err != nil {
			return err
		}
		hi, err := store.Int(row[2])
		if err != nil {
			return err
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeHarmonicGap,
			Message:  fmt.Sprintf("harmonic orders %d..%d are not contiguous from 1", lo, hi),
			Table:    table,
			EventID:  eventID,
		})
		return nil
	})
	return issues, err
}

// uniqueKeys are the columns that identify one row in a cleanly collected
// event. Re-collecting a folder into the same store repeats these.
var uniqueKeys = map[string]string{
	schema.TableEccentricities: "event_id, ecc_id, r_power, n",
	schema.TableRIntegrals:     "event_id, ecc_id, r_power",
	schema.TableInteVn:         "event_id, pid, n",
	schema.TableDiffVn:         `event_id, pid, "pT", n`,
	schema.TableMultiplicities: "event_id, pid",
	schema.TableSpectra:        `event_id, pid, "pT"`,
}

func checkDuplicates(ctx context.Context, st store.Store, table string) ([]Issue, error) {
	keys, ok := uniqueKeys[table]
	if !ok {
		return nil, nil
	}
	q := fmt.Sprintf(
		`SELECT event_id, COUNT(*) FROM (SELECT event_id FROM %s GROUP BY %s HAVING COUNT(*) > 1) dup GROUP BY event_id ORDER BY event_id`,
		store.QuoteIdent(table), keys,
	)
	var issues []Issue
	err := st.Query(ctx, q, nil, func(row store.Row) error {
		eventID, err := store.Int(row[0])
		if err != nil {
			return err
		}
		n, err := store.Int(row[1])
		if err != nil {
			return err
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeDuplicateRows,
			Message:  fmt.Sprintf("%d keys appear more than once", n),
			Table:    table,
			EventID:  eventID,
		})
		return nil
	})
	return issues, err
}
