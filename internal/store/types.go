package store

import (
	"fmt"
	"strings"
)

const (
	TypeInteger = "integer"
	TypeReal    = "real"
	TypeText    = "text"
)

type Column struct {
	Name string
	Type string
}

type Row []any

// Int converts a normalized column value to int64.
func Int(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected integer value %v (%T)", v, v)
	}
}

// Float converts a normalized column value to float64.
func Float(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected real value %v (%T)", v, v)
	}
}

// Text converts a normalized column value to string.
func Text(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unexpected text value %v (%T)", v, v)
	}
}

// QuoteIdent quotes a table or column name for use in generated SQL.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func ColumnIndex(columns []Column, name string) int {
	for i, col := range columns {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}
	return -1
}
