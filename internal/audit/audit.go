// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package audit records the actions an operator performs against the
// directory (creates, failed creates, searches) in a local database. The log
// is write-mostly and never read back into session state.
package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver, registered as "pgx"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultFileName is the SQLite file used when no DSN is configured.
const DefaultFileName = "userdesk-audit.db"

// ErrUnsupportedType is returned for database types other than sqlite,
// postgres and mysql.
var ErrUnsupportedType = errors.New("unsupported audit database type")

// Entry is one recorded action.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Username  string
	Action    string
	Details   string
}

// entryModel maps the audit_log table.
type entryModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Timestamp     time.Time `bun:"timestamp,notnull"`
	Username      string    `bun:"username,notnull"`
	Action        string    `bun:"action,notnull"`
	Details       string    `bun:"details"`
}

// Store is a bun-backed action log.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

// Open connects to the database, creates the audit_log table if it is
// missing, and returns the store. dbType is one of sqlite, postgres, mysql.
// An empty sqlite DSN selects DefaultPath().
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	driverName, err := driverFor(dbType)
	if err != nil {
		return nil, err
	}
	if dbType == "sqlite" && dsn == "" {
		dsn, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	// an in-memory SQLite database exists per connection
	if dbType == "sqlite" && strings.Contains(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	s := &Store{db: createBunDB(sqlDB, dbType), now: time.Now}
	if _, err := s.db.NewCreateTable().Model((*entryModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = s.db.Close()
		return nil, fmt.Errorf("failed to create audit table: %w", err)
	}
	return s, nil
}

// DefaultPath returns the SQLite file below the user config directory,
// creating the directory if needed.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	dir = filepath.Join(dir, "userdesk")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, DefaultFileName), nil
}

func driverFor(dbType string) (string, error) {
	switch dbType {
	case "sqlite", "mysql":
		return dbType, nil
	case "postgres":
		// The pgx stdlib registers driver name "pgx".
		return "pgx", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, dbType)
	}
}

func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// LogAction inserts an entry attributed to the current OS user.
func (s *Store) LogAction(ctx context.Context, action, details string) error {
	entry := &entryModel{
		Timestamp: s.now().UTC(),
		Username:  currentUsername(),
		Action:    action,
		Details:   details,
	}
	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record %s: %w", action, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var rows []entryModel
	q := s.db.NewSelect().Model(&rows).OrderExpr("timestamp DESC").OrderExpr("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, Entry{ID: r.ID, Timestamp: r.Timestamp, Username: r.Username, Action: r.Action, Details: r.Details})
	}
	return out, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func currentUsername() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	if parts := strings.Split(u.Username, `\`); len(parts) > 1 {
		return parts[1]
	}
	return u.Username
}
