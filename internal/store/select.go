package store

import (
	"fmt"
	"regexp"
	"strings"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Select is a minimal SELECT builder. Fragments are joined with AND and use
// '?' placeholders; backends rebind placeholders as needed.
type Select struct {
	Table   string
	Columns []string
	Where   []string
	Args    []any
	GroupBy string
	OrderBy string
}

// And appends a filter fragment and its arguments.
func (s *Select) And(fragment string, args ...any) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return
	}
	s.Where = append(s.Where, fragment)
	s.Args = append(s.Args, args...)
}

func (s Select) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(s.Columns) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(s.Columns, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(QuoteIdent(s.Table))
	if len(s.Where) > 0 {
		parts := make([]string, len(s.Where))
		for i, fragment := range s.Where {
			parts[i] = "(" + fragment + ")"
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(parts, " AND "))
	}
	if s.GroupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(s.GroupBy)
	}
	if s.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(s.OrderBy)
	}
	return b.String()
}

// CreateTableSQL renders the DDL for a table. typeName maps the portable
// column type to the backend's spelling. Column names are quoted so mixed
// case names such as pT survive on backends that fold identifiers.
func CreateTableSQL(table string, columns []Column, typeName func(string) string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", table)
	}
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		if !identPattern.MatchString(col.Name) {
			return "", fmt.Errorf("invalid column name %q in table %s", col.Name, table)
		}
		defs = append(defs, QuoteIdent(col.Name)+" "+typeName(col.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", QuoteIdent(table), strings.Join(defs, ", ")), nil
}

// InsertSQL renders a positional multi-row INSERT with '?' placeholders.
func InsertSQL(table string, width, rows int) string {
	group := "(" + strings.TrimSuffix(strings.Repeat("?, ", width), ", ") + ")"
	groups := make([]string, rows)
	for i := range groups {
		groups[i] = group
	}
	return fmt.Sprintf("INSERT INTO %s VALUES %s", QuoteIdent(table), strings.Join(groups, ", "))
}

// Chunk splits rows so that each chunk binds at most maxParams parameters.
func Chunk(rows []Row, maxParams int) [][]Row {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	if width == 0 {
		width = 1
	}
	per := maxParams / width
	if per < 1 {
		per = 1
	}
	chunks := make([][]Row, 0, (len(rows)+per-1)/per)
	for start := 0; start < len(rows); start += per {
		end := start + per
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// Flatten checks row widths and returns the bind arguments in order.
func Flatten(table string, rows []Row) ([]any, error) {
	width := len(rows[0])
	args := make([]any, 0, width*len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d for %s has %d values, expected %d", i, table, len(row), width)
		}
		args = append(args, row...)
	}
	return args, nil
}
