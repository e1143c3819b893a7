package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestGetConnectionConfigFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected ConnectionConfig
	}{
		{
			name:     "defaults",
			env:      map[string]string{},
			expected: DefaultConnectionConfig(),
		},
		{
			name: "all custom values",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "50",
				"DB_MAX_IDLE_CONNS":     "5",
				"DB_CONN_MAX_LIFETIME":  "2h",
				"DB_CONN_MAX_IDLE_TIME": "1m",
			},
			expected: ConnectionConfig{MaxOpenConns: 50, MaxIdleConns: 5, ConnMaxLifetime: 2 * time.Hour, ConnMaxIdleTime: time.Minute},
		},
		{
			name: "invalid values fall back",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "-1",
				"DB_MAX_IDLE_CONNS":     "abc",
				"DB_CONN_MAX_LIFETIME":  "forever",
				"DB_CONN_MAX_IDLE_TIME": "0s",
			},
			expected: DefaultConnectionConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(key, tt.env[key])
			}
			assert.Equal(t, tt.expected, getConnectionConfigFromEnv())
		})
	}
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		wantDialect Dialect
		wantDriver  string
		wantDSN     string
		wantErr     bool
	}{
		{
			name:        "postgres",
			dsn:         "postgres://u:p@localhost:5432/oai?sslmode=disable",
			wantDialect: Postgres,
			wantDriver:  "pgx",
			wantDSN:     "postgres://u:p@localhost:5432/oai?sslmode=disable",
		},
		{
			name:        "postgresql alias",
			dsn:         "postgresql://localhost/oai",
			wantDialect: Postgres,
			wantDriver:  "pgx",
			wantDSN:     "postgresql://localhost/oai",
		},
		{
			name:        "sqlite path",
			dsn:         "sqlite:///var/lib/oai/harvest.db",
			wantDialect: SQLite,
			wantDriver:  "sqlite",
			wantDSN:     "/var/lib/oai/harvest.db?" + sqlitePragmas,
		},
		{
			name:        "file uri with query",
			dsn:         "file:harvest.db?mode=rwc",
			wantDialect: SQLite,
			wantDriver:  "sqlite",
			wantDSN:     "file:harvest.db?mode=rwc&" + sqlitePragmas,
		},
		{name: "empty sqlite path", dsn: "sqlite://", wantErr: true},
		{name: "unknown scheme", dsn: "mysql://localhost/oai", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect, driver, dsn, err := ParseDSN(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvest.db")

	db, dialect, err := Open("sqlite://" + path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, SQLite, dialect)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	var fkEnabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled))
	assert.Equal(t, 1, fkEnabled)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, _, err := Open("")
	assert.Error(t, err)
}
