package dictionary

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryColumns = []string{"english_key", "english", "hangul", "romanization", "category", "created_at", "updated_at"}

func TestDBRepository_FindAll(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []DictionaryEntry
		wantErr   bool
	}{
		{
			name: "returns all entries",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(entryColumns).
					AddRow("front kick", "Front Kick", "앞차기", "ap chagi", "Kick", now, now).
					AddRow("low block", "Low Block", "아래막기", "", "", now, now)
				mock.ExpectQuery("SELECT (.+) FROM custom_dictionary ORDER BY created_at, english_key").WillReturnRows(rows)
			},
			want: []DictionaryEntry{
				{Key: "front kick", English: "Front Kick", Hangul: "앞차기", Romanization: "ap chagi", Category: "Kick", CreatedAt: now, UpdatedAt: now},
				{Key: "low block", English: "Low Block", Hangul: "아래막기", CreatedAt: now, UpdatedAt: now},
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM custom_dictionary").WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.FindAll(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindByKey(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		key       string
		setupMock func(mock sqlmock.Sqlmock)
		want      *DictionaryEntry
		wantErr   bool
	}{
		{
			name: "found",
			key:  "front kick",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM custom_dictionary WHERE english_key = \\?").
					WithArgs("front kick").
					WillReturnRows(sqlmock.NewRows(entryColumns).AddRow("front kick", "Front Kick", "앞차기", "", "", now, now))
			},
			want: &DictionaryEntry{Key: "front kick", English: "Front Kick", Hangul: "앞차기", CreatedAt: now, UpdatedAt: now},
		},
		{
			name: "not found returns nil",
			key:  "unknown",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM custom_dictionary WHERE english_key = \\?").
					WithArgs("unknown").
					WillReturnRows(sqlmock.NewRows(entryColumns))
			},
			want: nil,
		},
		{
			name: "db error",
			key:  "front kick",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM custom_dictionary WHERE english_key = \\?").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.FindByKey(context.Background(), tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Upsert(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := &DictionaryEntry{Key: "front kick", English: "Front Kick", Hangul: "앞차기", CreatedAt: now, UpdatedAt: now}

	tests := []struct {
		name       string
		driver     string
		wantClause string
		execErr    error
		wantErr    bool
	}{
		{name: "mysql dialect", driver: "mysql", wantClause: "ON DUPLICATE KEY UPDATE"},
		{name: "sqlite dialect", driver: "sqlite3", wantClause: "ON CONFLICT\\(english_key\\) DO UPDATE"},
		{name: "db error", driver: "mysql", wantClause: "ON DUPLICATE KEY UPDATE", execErr: fmt.Errorf("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, tt.driver))
			exp := mock.ExpectExec("INSERT INTO custom_dictionary (.+)"+tt.wantClause).
				WithArgs("front kick", "Front Kick", "앞차기", "", "", now, now)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err = repo.Upsert(context.Background(), entry)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Delete(t *testing.T) {
	tests := []struct {
		name    string
		result  int64
		want    bool
		execErr error
		wantErr bool
	}{
		{name: "deleted", result: 1, want: true},
		{name: "missing", result: 0, want: false},
		{name: "db error", execErr: fmt.Errorf("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			exp := mock.ExpectExec("DELETE FROM custom_dictionary WHERE english_key = \\?").WithArgs("front kick")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.result))
			}

			got, err := repo.Delete(context.Background(), "front kick")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
