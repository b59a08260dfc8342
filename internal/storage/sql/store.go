package sql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/storage"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL (lib/pq and pgx)
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Ensure Store implements storage.Storage.
var _ storage.Storage = (*Store)(nil)

// New creates a new SQL store. driver is one of sqlite3, postgres (lib/pq) or
// pgx (jackc/pgx stdlib).
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Run migrations
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ============================================
// Saved stacks
// ============================================

const savedStackColumns = `id, user_id, stacks, created_at`

func (s *Store) CreateSavedStack(ctx context.Context, record *domain.SavedStackRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_stacks (`+savedStackColumns+`) VALUES ($1, $2, $3, $4)`,
		record.ID, record.UserID, record.Stacks, record.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: saved stack %s already exists", domain.ErrInvalidInput, record.ID)
	}
	return err
}

func (s *Store) GetSavedStack(ctx context.Context, id string) (*domain.SavedStackRecord, error) {
	var record domain.SavedStackRecord
	err := s.db.GetContext(ctx, &record,
		`SELECT `+savedStackColumns+` FROM saved_stacks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) ListSavedStacks(ctx context.Context, userID string) ([]*domain.SavedStackRecord, error) {
	records := []*domain.SavedStackRecord{}
	err := s.db.SelectContext(ctx, &records,
		`SELECT `+savedStackColumns+` FROM saved_stacks WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) DeleteSavedStack(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_stacks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
