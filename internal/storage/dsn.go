package storage

import (
	"net/url"
	"strings"
)

// IsPostgres reports whether dsn names a PostgreSQL database rather than a SQLite file.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string, in
// URL or key=value form, carries a password.
func HasEmbeddedCredentials(dsn string) bool {
	if IsPostgres(dsn) {
		u, err := url.Parse(dsn)
		if err != nil {
			// Unparseable: err on the side of rejecting it
			return strings.Contains(dsn, "@")
		}
		if _, ok := u.User.Password(); ok {
			return true
		}
		return u.Query().Has("password")
	}

	for _, pair := range strings.Fields(dsn) {
		k, _, ok := strings.Cut(pair, "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), "password") {
			return true
		}
	}
	return false
}
