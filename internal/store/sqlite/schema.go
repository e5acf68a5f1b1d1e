package sqlite

import (
	"context"
	"fmt"
	"strings"

	"ebecollect/internal/store"
)

func (c *Client) CreateTableIfNotExists(ctx context.Context, table string, columns []store.Column) (bool, error) {
	exists, err := c.TableExists(ctx, table)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	ddl, err := store.CreateTableSQL(table, columns, typeName)
	if err != nil {
		return false, err
	}
	if _, err := c.q.ExecContext(ctx, ddl); err != nil {
		return false, fmt.Errorf("creating table %s: %w", table, err)
	}
	return true, nil
}

func (c *Client) TableExists(ctx context.Context, table string) (bool, error) {
	var count int64
	err := c.Query(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", []any{table}, func(row store.Row) error {
		n, err := store.Int(row[0])
		count = n
		return err
	})
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return count > 0, nil
}

func (c *Client) TableNames(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`

	var names []string
	err := c.Query(ctx, query, nil, func(row store.Row) error {
		name, err := store.Text(row[0])
		if err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return names, nil
}

func (c *Client) TableColumns(ctx context.Context, table string) ([]store.Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", store.QuoteIdent(table))

	var columns []store.Column
	err := c.Query(ctx, query, nil, func(row store.Row) error {
		// cid, name, type, notnull, dflt_value, pk
		name, err := store.Text(row[1])
		if err != nil {
			return err
		}
		ctype, err := store.Text(row[2])
		if err != nil {
			return err
		}
		columns = append(columns, store.Column{Name: name, Type: strings.ToLower(ctype)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	return columns, nil
}

func typeName(portable string) string {
	return portable
}
