package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/infra/db"
)

// newTestDB opens a migrated database in a temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, _, err := db.Open("sqlite://" + filepath.Join(t.TempDir(), "harvest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateUp(conn, db.SQLite))
	return conn
}

func newSource(baseURL, name string) *entity.Source {
	return &entity.Source{
		Name:    name,
		BaseURL: baseURL,
		Descriptor: entity.SourceDescriptor{
			RepositoryName:  name,
			ProtocolVersion: "2.0",
		},
	}
}
