package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ebecollect/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

// maxParams stays under SQLITE_MAX_VARIABLE_NUMBER of older builds.
const maxParams = 999

var ErrClosedInTx = errors.New("cannot close a store handle bound to a transaction")

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Client struct {
	db *sql.DB
	q  querier
	tx *sql.Tx
}

func New(ctx context.Context, dsn string) (*Client, error) {
	return open(ctx, dsn, false)
}

// NewReadOnly opens dsn with query_only set, so any statement that would
// modify the database fails.
func NewReadOnly(ctx context.Context, dsn string) (*Client, error) {
	return open(ctx, dsn, true)
}

func open(ctx context.Context, dsn string, readOnly bool) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One connection keeps :memory: databases alive and serializes the
	// single writer.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
	}
	if readOnly {
		pragmas = append(pragmas, "PRAGMA query_only = ON;")
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	return &Client{db: db, q: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c.tx != nil {
		return ErrClosedInTx
	}
	return c.db.Close()
}

func (c *Client) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if c.tx != nil {
		return fn(c)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Client{db: c.db, q: tx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
