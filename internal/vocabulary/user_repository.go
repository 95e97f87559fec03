package vocabulary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=user_repository.go -destination=../mocks/vocabulary/mock_user_repository.go -package=mock_vocabulary

// UserTermRepository stores terms added by users.
type UserTermRepository interface {
	FindByID(ctx context.Context, id string) (*Term, error)
	FindAll(ctx context.Context) ([]Term, error)
	Create(ctx context.Context, term *Term) error
	Delete(ctx context.Context, id string) (bool, error)
}

// DBUserTermRepository implements UserTermRepository using MySQL or SQLite.
type DBUserTermRepository struct {
	db *sqlx.DB
}

// NewDBUserTermRepository creates a new DBUserTermRepository.
func NewDBUserTermRepository(db *sqlx.DB) *DBUserTermRepository {
	return &DBUserTermRepository{db: db}
}

const selectTermColumns = "id, legacy_id, english, hangul, romanization, category, created_at"

// FindByID returns a user term by id, or nil if not found.
func (r *DBUserTermRepository) FindByID(ctx context.Context, id string) (*Term, error) {
	var term Term
	err := r.db.GetContext(ctx, &term, "SELECT "+selectTermColumns+" FROM user_terms WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user_terms) > %w", err)
	}
	return &term, nil
}

// FindAll returns all user terms ordered by creation.
func (r *DBUserTermRepository) FindAll(ctx context.Context) ([]Term, error) {
	var terms []Term
	if err := r.db.SelectContext(ctx, &terms, "SELECT "+selectTermColumns+" FROM user_terms ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(user_terms) > %w", err)
	}
	return terms, nil
}

// Create inserts a new user term.
func (r *DBUserTermRepository) Create(ctx context.Context, term *Term) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO user_terms (id, legacy_id, english, hangul, romanization, category, created_at)
		VALUES (:id, :legacy_id, :english, :hangul, :romanization, :category, :created_at)`,
		term)
	if err != nil {
		return fmt.Errorf("db.NamedExecContext(insert user_terms) > %w", err)
	}
	return nil
}

// Delete removes a user term and reports whether it existed.
func (r *DBUserTermRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM user_terms WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("db.ExecContext(delete user_terms) > %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("res.RowsAffected > %w", err)
	}
	return n > 0, nil
}
