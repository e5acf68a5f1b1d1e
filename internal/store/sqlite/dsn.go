package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const Scheme = "sqlite://"

// IsDSN reports whether dsn addresses a SQLite database.
func IsDSN(dsn string) bool {
	return strings.HasPrefix(dsn, Scheme)
}

// FileDSN builds a DSN for a database file path.
func FileDSN(path string) string {
	return Scheme + path
}

func parseDSN(dsn string) (string, error) {
	if !IsDSN(dsn) {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected %s", Scheme)
	}

	rest := strings.TrimPrefix(dsn, Scheme)
	if rest == "" {
		return "", fmt.Errorf("sqlite DSN has no path")
	}
	if rest == ":memory:" {
		return ":memory:", nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") && !strings.HasPrefix(path, "../") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}
