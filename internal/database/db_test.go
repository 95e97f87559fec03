package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuta/vocabaudio/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.DatabaseConfig
		wantDriver string
		wantErr    bool
	}{
		{
			name: "creates mysql connection with valid config",
			cfg: config.DatabaseConfig{
				Driver:   "mysql",
				Host:     "localhost",
				Port:     3306,
				Database: "testdb",
				Username: "testuser",
				Password: "testpass",
			},
			wantDriver: "mysql",
		},
		{
			name: "creates mysql connection with pool settings",
			cfg: config.DatabaseConfig{
				Driver:          "mysql",
				Host:            "localhost",
				Port:            3306,
				Database:        "testdb",
				Username:        "testuser",
				Password:        "testpass",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
			wantDriver: "mysql",
		},
		{
			name:       "creates sqlite connection in memory",
			cfg:        config.DatabaseConfig{Driver: "sqlite3", Path: ":memory:"},
			wantDriver: "sqlite3",
		},
		{
			name:    "rejects unknown driver",
			cfg:     config.DatabaseConfig{Driver: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, tt.wantDriver, got.DriverName())
		})
	}
}

func TestMysqlDSN(t *testing.T) {
	dsn := mysqlDSN(config.DatabaseConfig{
		Host:     "db.example.com",
		Port:     3307,
		Database: "vocabaudio",
		Username: "admin",
		Password: "secret",
		TLS:      true,
	})
	assert.Contains(t, dsn, "admin:secret@tcp(db.example.com:3307)/vocabaudio")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "tls=true")
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite3", Path: filepath.Join(t.TempDir(), "nested", "test.db")})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	// second run is a no-op
	require.NoError(t, Migrate(ctx, db))

	now := time.Now().UTC().Truncate(time.Second)
	_, err = db.ExecContext(ctx,
		"INSERT INTO custom_dictionary (english_key, english, hangul, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		"front kick", "Front Kick", "앞차기", now, now)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		"INSERT INTO user_terms (id, english, hangul, created_at) VALUES (?, ?, ?, ?)",
		"user-1", "Side Kick", "옆차기", now)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM user_terms"))
	assert.Equal(t, 1, count)
}

func TestMigrate_ExecutesStatementsInOrder(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	fsys := fstest.MapFS{
		"migrations/002_b.sql": {Data: []byte("CREATE TABLE b (id INT);")},
		"migrations/001_a.sql": {Data: []byte("CREATE TABLE a (id INT);\n\nCREATE INDEX a_id ON a (id);\n")},
	}
	mock.ExpectExec("CREATE TABLE a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX a_id").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE b").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, migrate(context.Background(), db, fsys))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_ReturnsExecError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)

	err = migrate(context.Background(), db, fstest.MapFS{
		"migrations/001_a.sql": {Data: []byte("CREATE TABLE a (id INT);")},
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSplitStatements(t *testing.T) {
	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, splitStatements("SELECT 1;\n\n SELECT 2 ;\n"))
	assert.Empty(t, splitStatements("  ;\n"))
}
