package sqlite

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
		query := store.InsertSQL(table, len(chunk[0]), len(chunk))
		if _, err := c.q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

// Query streams rows to fn. fn must not issue further statements on the same
// Client: the pool holds a single connection.
func (c *Client) Query(ctx context.Context, query string, args []any, fn func(store.Row) error) error {
	rows, err := c.q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("running sql: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting columns: %w", err)
	}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
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
