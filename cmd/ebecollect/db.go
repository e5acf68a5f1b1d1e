package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"ebecollect/internal/config"
	"ebecollect/internal/store"
	"ebecollect/internal/store/postgres"
	"ebecollect/internal/store/sqlite"
)

// loadConfig reads the project file. A missing file at the default path
// falls back to built-in defaults; --dsn always wins.
func loadConfig() (*config.ProjectConfig, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && configPath == defaultConfigPath:
		cfg = config.Default()
	default:
		return nil, err
	}
	if dsnFlag != "" {
		cfg.Database.DSN = dsnFlag
	}
	return cfg, nil
}

func openDB(ctx context.Context, dsn string) (store.Store, error) {
	switch {
	case sqlite.IsDSN(dsn):
		return sqlite.New(ctx, dsn)
	case postgres.IsDSN(dsn):
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN %q", dsn)
	}
}

// openReadOnlyDB opens dsn for commands that only read, so no statement
// they issue can modify the store.
func openReadOnlyDB(ctx context.Context, dsn string) (store.Store, error) {
	switch {
	case sqlite.IsDSN(dsn):
		return sqlite.NewReadOnly(ctx, dsn)
	case postgres.IsDSN(dsn):
		return postgres.NewReadOnly(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database DSN %q", dsn)
	}
}

// sameDatabase reports whether two DSNs address the same database. SQLite
// paths are compared after cleaning.
func sameDatabase(a, b string) bool {
	if sqlite.IsDSN(a) && sqlite.IsDSN(b) {
		pa := strings.TrimPrefix(a, sqlite.Scheme)
		pb := strings.TrimPrefix(b, sqlite.Scheme)
		if pa == ":memory:" || pb == ":memory:" {
			return false
		}
		absA, errA := filepath.Abs(pa)
		absB, errB := filepath.Abs(pb)
		if errA == nil && errB == nil {
			return absA == absB
		}
		return filepath.Clean(pa) == filepath.Clean(pb)
	}
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
