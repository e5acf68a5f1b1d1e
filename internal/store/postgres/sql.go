package postgres

import (
	"context"
	"fmt"

	"ebecollect/internal/store"
)

func (c *Client) Insert(ctx context.Context, table string, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}
	for _, chunk := range store.Chunk(rows, maxParams) {
		args, err := store.Flatten(table, chunk)
		if err != nil {
			return err
		}
		query := rebind(store.InsertSQL(table, len(chunk[0]), len(chunk)))
		if _, err := c.q.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

func (c *Client) Query(ctx context.Context, query string, args []any, fn func(store.Row) error) error {
	rows, err := c.q.Query(ctx, rebind(query), args...)
	if err != nil {
		return fmt.Errorf("running sql: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return fmt.Errorf("getting row values: %w", err)
		}
		for i, v := range values {
			values[i] = normalize(v)
		}
		if err := fn(store.Row(values)); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sql rows: %w", err)
	}

	return nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case []byte:
		return string(t)
	default:
		return v
	}
}
