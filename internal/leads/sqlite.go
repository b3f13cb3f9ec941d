package leads

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lotesmx/leadbot/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore is a lead log backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the SQLite lead log at the
// given file path and applies migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("run sqlite migrations: %w", err)
	}

	slog.Debug("SQLiteStore ready", "dsn", dsn)
	return &SQLiteStore{db: db}, nil
}

// AddLead appends a lead record.
func (s *SQLiteStore) AddLead(ctx context.Context, lead models.Lead) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, intent, name, phone, preference, schedule_text, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, string(lead.Intent), lead.Name, lead.Phone, string(lead.Preference),
		nilIfEmpty(lead.ScheduleText), lead.UserID, lead.Timestamp)
	if err != nil {
		slog.Error("SQLiteStore AddLead failed", "error", err, "lead_id", lead.ID)
		return fmt.Errorf("insert lead %s: %w", lead.ID, err)
	}
	slog.Debug("SQLiteStore AddLead succeeded", "lead_id", lead.ID)
	return nil
}

// ListLeads returns stored leads, newest first.
func (s *SQLiteStore) ListLeads(ctx context.Context, limit int) ([]models.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, intent, name, phone, preference, schedule_text, user_id, created_at
		 FROM leads ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
