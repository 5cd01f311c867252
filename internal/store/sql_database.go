package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/migrations"
)

// Dialect names the SQL flavour of a connection. Its values double as goose
// dialect names.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

type DB struct {
	*sql.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate brings the schema up to date.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, string(db.dialect))
}

// Dialect reports the SQL flavour of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// NewConnect opens the change log database named by cfg.DSN: a postgres://
// or postgresql:// URL goes through pgx, anything else is a SQLite file.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch DialectFor(cfg.DSN) {
	case DialectPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	case DialectSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: empty dsn", ErrUnsupportedDSN)
	}
}

// DialectFor picks the dialect for dsn; an empty dsn has none.
func DialectFor(dsn string) Dialect {
	switch {
	case dsn == "":
		return ""
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres
	default:
		return DialectSQLite
	}
}
