package db

import (
	"database/sql"
	"fmt"
)

var postgresTables = []string{`
CREATE TABLE IF NOT EXISTS sources (
    id                    BIGSERIAL PRIMARY KEY,
    name                  TEXT NOT NULL DEFAULT '',
    base_url              TEXT NOT NULL UNIQUE,
    official_url          TEXT NOT NULL DEFAULT '',
    description           TEXT NOT NULL DEFAULT '',
    publisher             TEXT NOT NULL DEFAULT '',
    metadata_prefix       TEXT NOT NULL DEFAULT 'oai_dc',
    protocol_version      TEXT NOT NULL DEFAULT '',
    admin_email           TEXT NOT NULL DEFAULT '',
    earliest_datestamp    TIMESTAMPTZ,
    deleted_record        TEXT NOT NULL DEFAULT '',
    granularity           TEXT NOT NULL DEFAULT '',
    compressions          JSONB NOT NULL DEFAULT '[]',
    repository_identifier TEXT NOT NULL DEFAULT '',
    delimiter             TEXT NOT NULL DEFAULT '',
    sample_identifier     TEXT NOT NULL DEFAULT '',
    toolkit_title         TEXT NOT NULL DEFAULT '',
    toolkit_author_name   TEXT NOT NULL DEFAULT '',
    toolkit_author_email  TEXT NOT NULL DEFAULT '',
    toolkit_version       TEXT NOT NULL DEFAULT '',
    toolkit_url           TEXT NOT NULL DEFAULT '',
    last_harvest_at       TIMESTAMPTZ
)`, `
CREATE TABLE IF NOT EXISTS records (
    id               BIGSERIAL PRIMARY KEY,
    source_id        BIGINT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
    identifier       TEXT NOT NULL UNIQUE,
    datestamp        TIMESTAMPTZ,
    set_spec         TEXT NOT NULL DEFAULT '',
    title_es         TEXT NOT NULL DEFAULT '',
    title_en         TEXT NOT NULL DEFAULT '',
    creator          TEXT NOT NULL DEFAULT '',
    publisher        TEXT NOT NULL DEFAULT '',
    type             TEXT NOT NULL DEFAULT '',
    format           TEXT NOT NULL DEFAULT '',
    identifier_url   TEXT NOT NULL DEFAULT '',
    language         TEXT NOT NULL DEFAULT '',
    relation         TEXT NOT NULL DEFAULT '',
    coverage         TEXT NOT NULL DEFAULT '',
    rights           TEXT NOT NULL DEFAULT '',
    publication_date TIMESTAMPTZ,
    subjects_es      TEXT NOT NULL DEFAULT '',
    subjects_en      TEXT NOT NULL DEFAULT '',
    descriptions_es  TEXT NOT NULL DEFAULT '',
    descriptions_en  TEXT NOT NULL DEFAULT '',
    dc_sources       TEXT NOT NULL DEFAULT '',
    multi_values     JSONB NOT NULL DEFAULT '{}',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`}

var sqliteTables = []string{`
CREATE TABLE IF NOT EXISTS sources (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    name                  TEXT NOT NULL DEFAULT '',
    base_url              TEXT NOT NULL UNIQUE,
    official_url          TEXT NOT NULL DEFAULT '',
    description           TEXT NOT NULL DEFAULT '',
    publisher             TEXT NOT NULL DEFAULT '',
    metadata_prefix       TEXT NOT NULL DEFAULT 'oai_dc',
    protocol_version      TEXT NOT NULL DEFAULT '',
    admin_email           TEXT NOT NULL DEFAULT '',
    earliest_datestamp    DATETIME,
    deleted_record        TEXT NOT NULL DEFAULT '',
    granularity           TEXT NOT NULL DEFAULT '',
    compressions          TEXT NOT NULL DEFAULT '[]',
    repository_identifier TEXT NOT NULL DEFAULT '',
    delimiter             TEXT NOT NULL DEFAULT '',
    sample_identifier     TEXT NOT NULL DEFAULT '',
    toolkit_title         TEXT NOT NULL DEFAULT '',
    toolkit_author_name   TEXT NOT NULL DEFAULT '',
    toolkit_author_email  TEXT NOT NULL DEFAULT '',
    toolkit_version       TEXT NOT NULL DEFAULT '',
    toolkit_url           TEXT NOT NULL DEFAULT '',
    last_harvest_at       DATETIME
)`, `
CREATE TABLE IF NOT EXISTS records (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id        INTEGER NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
    identifier       TEXT NOT NULL UNIQUE,
    datestamp        DATETIME,
    set_spec         TEXT NOT NULL DEFAULT '',
    title_es         TEXT NOT NULL DEFAULT '',
    title_en         TEXT NOT NULL DEFAULT '',
    creator          TEXT NOT NULL DEFAULT '',
    publisher        TEXT NOT NULL DEFAULT '',
    type             TEXT NOT NULL DEFAULT '',
    format           TEXT NOT NULL DEFAULT '',
    identifier_url   TEXT NOT NULL DEFAULT '',
    language         TEXT NOT NULL DEFAULT '',
    relation         TEXT NOT NULL DEFAULT '',
    coverage         TEXT NOT NULL DEFAULT '',
    rights           TEXT NOT NULL DEFAULT '',
    publication_date DATETIME,
    subjects_es      TEXT NOT NULL DEFAULT '',
    subjects_en      TEXT NOT NULL DEFAULT '',
    descriptions_es  TEXT NOT NULL DEFAULT '',
    descriptions_en  TEXT NOT NULL DEFAULT '',
    dc_sources       TEXT NOT NULL DEFAULT '',
    multi_values     TEXT NOT NULL DEFAULT '{}',
    created_at       DATETIME NOT NULL,
    updated_at       DATETIME NOT NULL
)`}

var indexes = []string{
	// ソース別レコード取得・カスケード削除用
	`CREATE INDEX IF NOT EXISTS idx_records_source_id ON records(source_id)`,
	// publisher補完時の検索用
	`CREATE INDEX IF NOT EXISTS idx_records_source_publisher ON records(source_id, publisher)`,
}

// MigrateUp creates the schema for the given dialect. It is idempotent.
func MigrateUp(db *sql.DB, dialect Dialect) error {
	var tables []string
	switch dialect {
	case Postgres:
		tables = postgresTables
	case SQLite:
		tables = sqliteTables
	default:
		return fmt.Errorf("MigrateUp: unknown dialect %q", dialect)
	}

	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown drops every table, records first.
// Use with caution: this will delete all harvested data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS records`,
		`DROP TABLE IF EXISTS sources`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
