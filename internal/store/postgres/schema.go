package postgres

import (
	"context"
	"fmt"

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
	if _, err := c.q.Exec(ctx, ddl); err != nil {
		return false, fmt.Errorf("creating table %s: %w", table, err)
	}
	return true, nil
}

func (c *Client) TableExists(ctx context.Context, table string) (bool, error) {
	query := `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?`

	var count int64
	err := c.Query(ctx, query, []any{table}, func(row store.Row) error {
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
	query := `
	SELECT table_name FROM information_schema.tables
	WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
	ORDER BY table_name
	`

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
	query := `
	SELECT column_name, data_type FROM information_schema.columns
	WHERE table_schema = current_schema() AND table_name = ?
	ORDER BY ordinal_position
	`

	var columns []store.Column
	err := c.Query(ctx, query, []any{table}, func(row store.Row) error {
		name, err := store.Text(row[0])
		if err != nil {
			return err
		}
		dataType, err := store.Text(row[1])
		if err != nil {
			return err
		}
		columns = append(columns, store.Column{Name: name, Type: portableType(dataType)})
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

// typeName keeps "real" at double precision; postgres real is float4.
func typeName(portable string) string {
	switch portable {
	case store.TypeReal:
		return "double precision"
	default:
		return portable
	}
}

func portableType(dataType string) string {
	switch dataType {
	case "double precision", "real", "numeric":
		return store.TypeReal
	case "integer", "bigint", "smallint":
		return store.TypeInteger
	default:
		return store.TypeText
	}
}
