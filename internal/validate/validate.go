// Package validate runs consistency checks over a collected store.
package validate

import (
	"context"
	"fmt"

	"ebecollect/internal/schema"
	"ebecollect/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeMissingTable    = "missing_table"
	codeLookupMismatch  = "lookup_mismatch"
	codeUnknownPID      = "unknown_pid"
	codeUnknownEccID    = "unknown_ecc_id"
	codeHarmonicGap     = "harmonic_gap"
	codeDuplicateRows   = "duplicate_rows"
	codeEmptyStore      = "empty_store"
	codeUnexpectedTable = "unexpected_table"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Table    string
	EventID  int64
}

type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue has error severity.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run inspects st without modifying it.
func Run(ctx context.Context, st store.Store) (*Report, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}

	names, err := st.TableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}

	issues := make([]Issue, 0)
	if len(names) == 0 {
		issues = append(issues, Issue{Severity: SeverityWarn, Code: codeEmptyStore, Message: "store has no tables"})
		return &Report{Issues: issues}, nil
	}

	issues = append(issues, checkTables(names, present)...)

	lookups, err := schema.ReadLookups(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("read lookups: %w", err)
	}
	issues = append(issues, checkLookups(lookups, present)...)

	for _, table := range schema.DataTables() {
		if !present[table] {
			continue
		}
		found, err := checkIDs(ctx, st, table)
		if err != nil {
			return nil, fmt.Errorf("check ids in %s: %w", table, err)
		}
		issues = append(issues, found...)

		found, err = checkHarmonics(ctx, st, table)
		if err != nil {
			return nil, fmt.Errorf("check harmonics in %s: %w", table, err)
		}
		issues = append(issues, found...)

		found, err = checkDuplicates(ctx, st, table)
		if err != nil {
			return nil, fmt.Errorf("check duplicates in %s: %w", table, err)
		}
		issues = append(issues, found...)
	}

	return &Report{Issues: issues}, nil
}
