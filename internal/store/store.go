// Package store defines the relational storage contract shared by the
// collector, the merger and the query layer. Backends live in the sqlite and
// postgres subpackages.
package store

import (
	"context"
)

type Store interface {
	Close(ctx context.Context) error

	// CreateTableIfNotExists reports whether the table was created by this call.
	CreateTableIfNotExists(ctx context.Context, table string, columns []Column) (bool, error)
	TableExists(ctx context.Context, table string) (bool, error)
	TableNames(ctx context.Context) ([]string, error)
	TableColumns(ctx context.Context, table string) ([]Column, error)

	// Insert appends rows positionally, in table column order.
	Insert(ctx context.Context, table string, rows []Row) error

	// Query runs a statement written with '?' placeholders and calls fn once
	// per result row. Values are normalized to int64, float64, string or nil.
	Query(ctx context.Context, query string, args []any, fn func(Row) error) error

	// InTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise. Calling InTx on a Store that is
	// already a transaction runs fn in the enclosing transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
