package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/dictionary/mock_repository.go -package=mock_dictionary

// Repository defines operations for the custom dictionary.
type Repository interface {
	FindAll(ctx context.Context) ([]DictionaryEntry, error)
	FindByKey(ctx context.Context, key string) (*DictionaryEntry, error)
	Upsert(ctx context.Context, entry *DictionaryEntry) error
	Delete(ctx context.Context, key string) (bool, error)
}

// DBRepository implements Repository on top of MySQL or SQLite.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

const selectEntryColumns = "english_key, english, hangul, romanization, category, created_at, updated_at"

// FindAll returns every entry in insertion order.
func (r *DBRepository) FindAll(ctx context.Context) ([]DictionaryEntry, error) {
	var entries []DictionaryEntry
	if err := r.db.SelectContext(ctx, &entries, "SELECT "+selectEntryColumns+" FROM custom_dictionary ORDER BY created_at, english_key"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(custom_dictionary) > %w", err)
	}
	return entries, nil
}

// FindByKey returns the entry stored under a normalized key, or nil if absent.
func (r *DBRepository) FindByKey(ctx context.Context, key string) (*DictionaryEntry, error) {
	var entry DictionaryEntry
	err := r.db.GetContext(ctx, &entry, "SELECT "+selectEntryColumns+" FROM custom_dictionary WHERE english_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(custom_dictionary) > %w", err)
	}
	return &entry, nil
}

// Upsert inserts or updates an entry. Key must already be normalized.
func (r *DBRepository) Upsert(ctx context.Context, entry *DictionaryEntry) error {
	if _, err := r.db.NamedExecContext(ctx, r.upsertQuery(), entry); err != nil {
		return fmt.Errorf("db.NamedExecContext(upsert custom_dictionary) > %w", err)
	}
	return nil
}

func (r *DBRepository) upsertQuery() string {
	const insert = `INSERT INTO custom_dictionary (english_key, english, hangul, romanization, category, created_at, updated_at)
		VALUES (:english_key, :english, :hangul, :romanization, :category, :created_at, :updated_at)`
	if r.db.DriverName() == "sqlite3" {
		return insert + `
		ON CONFLICT(english_key) DO UPDATE SET english = excluded.english, hangul = excluded.hangul,
		romanization = excluded.romanization, category = excluded.category, updated_at = excluded.updated_at`
	}
	return insert + `
		ON DUPLICATE KEY UPDATE english = VALUES(english), hangul = VALUES(hangul),
		romanization = VALUES(romanization), category = VALUES(category), updated_at = VALUES(updated_at)`
}

// Delete removes the entry stored under key and reports whether it existed.
func (r *DBRepository) Delete(ctx context.Context, key string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM custom_dictionary WHERE english_key = ?", key)
	if err != nil {
		return false, fmt.Errorf("db.ExecContext(delete custom_dictionary) > %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("res.RowsAffected > %w", err)
	}
	return n > 0, nil
}
