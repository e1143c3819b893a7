// Package persistence selects the repository implementations for a database dialect.
package persistence

import (
	"database/sql"

	"oai-harvester/internal/infra/adapter/persistence/postgres"
	"oai-harvester/internal/infra/adapter/persistence/sqlite"
	"oai-harvester/internal/infra/db"
	"oai-harvester/internal/repository"
)

// Repositories bundles the stores the use cases need.
type Repositories struct {
	Sources repository.SourceRepository
	Records repository.RecordRepository
}

// New returns the repositories for dialect. Unknown dialects use PostgreSQL.
func New(database *sql.DB, dialect db.Dialect) Repositories {
	if dialect == db.SQLite {
		return Repositories{
			Sources: sqlite.NewSourceRepo(database),
			Records: sqlite.NewRecordRepo(database),
		}
	}
	return Repositories{
		Sources: postgres.NewSourceRepo(database),
		Records: postgres.NewRecordRepo(database),
	}
}
