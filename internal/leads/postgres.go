package leads

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "embed"

	_ "github.com/lib/pq"

	"github.com/lotesmx/leadbot/internal/models"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore is a lead log backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL with the given DSN and applies
// migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	slog.Debug("PostgresStore ready")
	return &PostgresStore{db: db}, nil
}

// AddLead appends a lead record.
func (s *PostgresStore) AddLead(ctx context.Context, lead models.Lead) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (id, intent, name, phone, preference, schedule_text, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		lead.ID, string(lead.Intent), lead.Name, lead.Phone, string(lead.Preference),
		nilIfEmpty(lead.ScheduleText), lead.UserID, lead.Timestamp)
	if err != nil {
		slog.Error("PostgresStore AddLead failed", "error", err, "lead_id", lead.ID)
		return fmt.Errorf("insert lead %s: %w", lead.ID, err)
	}
	slog.Debug("PostgresStore AddLead succeeded", "lead_id", lead.ID)
	return nil
}

// ListLeads returns stored leads, newest first.
func (s *PostgresStore) ListLeads(ctx context.Context, limit int) ([]models.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, intent, name, phone, preference, schedule_text, user_id, created_at
		 FROM leads ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

// Close releases the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
