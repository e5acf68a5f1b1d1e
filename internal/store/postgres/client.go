package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ebecollect/internal/store"
)

var _ store.Store = (*Client)(nil)

const maxParams = 65535

var ErrClosedInTx = errors.New("cannot close a store handle bound to a transaction")

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Client struct {
	pool *pgxpool.Pool
	q    querier
	tx   pgx.Tx
}

// IsDSN reports whether dsn addresses a PostgreSQL database.
func IsDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func New(ctx context.Context, dsn string) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres DSN: %w", err)
	}
	return connect(ctx, cfg)
}

// NewReadOnly opens a pool whose sessions default to read-only
// transactions, so any write is rejected by the server.
func NewReadOnly(ctx context.Context, dsn string) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres DSN: %w", err)
	}
	cfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"
	return connect(ctx, cfg)
}

func connect(ctx context.Context, cfg *pgxpool.Config) (*Client, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{pool: pool, q: pool}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c.tx != nil {
		return ErrClosedInTx
	}
	c.pool.Close()
	return nil
}

func (c *Client) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if c.tx != nil {
		return fn(c)
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Client{pool: c.pool, q: tx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// rebind rewrites '?' placeholders outside string literals to $n.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
