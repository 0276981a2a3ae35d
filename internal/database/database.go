// Package database opens the Postgres pool that backs stored resumes.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"resumeparser/internal/config"
)

// ErrIncompleteConfig is returned when host, port, user or database name is missing.
var ErrIncompleteConfig = errors.New("invalid database config: host, port, user, and name are required")

var sqlOpen = sql.Open

const pingTimeout = 5 * time.Second

// BuildPostgresDSN renders c as a postgres:// URL. Optional settings become query
// parameters understood by pgx: sslmode, application_name and connect_timeout.
func BuildPostgresDSN(c config.DatabaseConfig) (string, error) {
	if c.Host == "" || c.Port == "" || c.User == "" || c.Name == "" {
		return "", ErrIncompleteConfig
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.ApplicationName != "" {
		q.Set("application_name", c.ApplicationName)
	}
	if c.ConnectTimeoutSec > 0 {
		q.Set("connect_timeout", strconv.Itoa(c.ConnectTimeoutSec))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// NewPostgres opens a traced pgx pool, applies the pool limits from c and pings it.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := BuildPostgresDSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL, semconv.DBName(c.Name)),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	configurePool(db, c)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

// configurePool leaves database/sql defaults in place for zero values.
func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
	if c.ConnMaxIdleTimeSec > 0 {
		db.SetConnMaxIdleTime(time.Duration(c.ConnMaxIdleTimeSec) * time.Second)
	}
}
