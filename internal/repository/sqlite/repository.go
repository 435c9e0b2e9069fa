package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"shortlink/internal/domain"
	"shortlink/internal/repository"
)

// Repository implements repository.URLRepository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(databasePath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys and WAL mode for better performance
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	repo := &Repository{db: db}

	if err := repo.runMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Insert stores a new record
func (r *Repository) Insert(ctx context.Context, record *domain.URLRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO urls (code, long_url, clicks, created_at, expires_at) VALUES (?, ?, ?, ?, ?)",
		record.Code, record.LongURL, record.Clicks, record.CreatedAt, record.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodeConflict
		}
		return fmt.Errorf("failed to insert URL: %w", err)
	}

	return nil
}

// FindByCode retrieves a record by its short code
func (r *Repository) FindByCode(ctx context.Context, code string) (*domain.URLRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT code, long_url, clicks, created_at, expires_at FROM urls WHERE code = ?", code)

	return scanRecord(row)
}

// FindByLongURL retrieves a record by its long URL
func (r *Repository) FindByLongURL(ctx context.Context, longURL string) (*domain.URLRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT code, long_url, clicks, created_at, expires_at FROM urls WHERE long_url = ? ORDER BY created_at DESC LIMIT 1", longURL)

	return scanRecord(row)
}

// List retrieves all records ordered by creation date (desc)
func (r *Repository) List(ctx context.Context) ([]*domain.URLRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT code, long_url, clicks, created_at, expires_at FROM urls ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	var records []*domain.URLRecord
	for rows.Next() {
		var record domain.URLRecord
		if err := rows.Scan(&record.Code, &record.LongURL, &record.Clicks, &record.CreatedAt, &record.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan URL row: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// IncrementClicks atomically increments the click counter for a code. The
// increment happens inside the store so concurrent redirects never lose
// updates.
func (r *Repository) IncrementClicks(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE urls SET clicks = clicks + 1 WHERE code = ?", code)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Upsert inserts or replaces the redirect-relevant fields of a record.
// Click counts are reset on insert and left untouched on update; replicas
// never own the authoritative counter.
func (r *Repository) Upsert(ctx context.Context, record *domain.URLRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO urls (code, long_url, clicks, created_at, expires_at) VALUES (?, ?, 0, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET long_url = excluded.long_url, expires_at = excluded.expires_at`,
		record.Code, record.LongURL, record.CreatedAt, record.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert URL: %w", err)
	}

	return nil
}

// Delete removes a record by its short code
func (r *Repository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM urls WHERE code = ?", code)
	if err != nil {
		return fmt.Errorf("failed to delete URL: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Close closes the repository connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func scanRecord(row *sql.Row) (*domain.URLRecord, error) {
	var record domain.URLRecord
	err := row.Scan(&record.Code, &record.LongURL, &record.Clicks, &record.CreatedAt, &record.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan URL row: %w", err)
	}

	// Stored timestamps come back in UTC
	record.CreatedAt = record.CreatedAt.UTC()
	record.ExpiresAt = record.ExpiresAt.UTC()

	return &record, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Ensure Repository implements the interface
var _ repository.URLRepository = (*Repository)(nil)
