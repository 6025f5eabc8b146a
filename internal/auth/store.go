// Package auth provides the SQLite-backed credential store and login checks.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Seed accounts created by Initialize. Usernames are unique; reinserting
// them on a later run is a silent no-op.
//
// NOTE: passwords are stored and compared in plaintext. Known security gap,
// kept so existing user databases remain valid.
var seedUsers = []struct {
	Username string
	Password string
}{
	{"admin", "renova2025"},
	{"Edword", "renova2025"},
}

// Store is the SQLite-backed credential store.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore opens or creates a SQLite database at dbPath. Parent directories
// are created if they do not exist. logger may be nil.
func NewStore(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Initialize creates the users table if absent and inserts the seed
// accounts. It is safe to run on every startup: a duplicate seed username
// hits the UNIQUE constraint and is skipped without aborting the rest of
// initialization.
func (s *Store) Initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	for _, u := range seedUsers {
		if err := s.insertUser(ctx, u.Username, u.Password); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("failed to seed user %q: %w", u.Username, err)
		}
	}
	return nil
}

func (s *Store) insertUser(ctx context.Context, username, password string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		username, password,
	)
	return err
}

// Check reports whether a stored record matches both username and password
// exactly (case-sensitive). It is fail-closed: any storage error is logged
// and treated as no match, so a broken database cannot crash a login.
func (s *Store) Check(ctx context.Context, username, password string) bool {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE username = ? AND password = ?`,
		username, password,
	).Scan(&one)
	if err == nil {
		return true
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("credential check failed", zap.Error(err))
	}
	return false
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint
	}
	return false
}
