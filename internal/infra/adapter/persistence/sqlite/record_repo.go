package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/repository"
)

const recordColumns = `id, source_id, identifier, datestamp, set_spec, title_es, title_en, creator,
publisher, type, format, identifier_url, language, relation, coverage, rights, publication_date,
multi_values, created_at, updated_at`

type RecordRepo struct{ db *sql.DB }

func NewRecordRepo(db *sql.DB) repository.RecordRepository {
	return &RecordRepo{db: db}
}

func scanRecord(row rowScanner) (*entity.Record, error) {
	var (
		record      entity.Record
		multiValues string
	)
	if err := row.Scan(
		&record.ID, &record.SourceID, &record.Identifier, &record.Datestamp, &record.SetSpec,
		&record.TitleES, &record.TitleEN, &record.Creator, &record.Publisher, &record.Type,
		&record.Format, &record.IdentifierURL, &record.Language, &record.Relation, &record.Coverage,
		&record.Rights, &record.Date, &multiValues, &record.CreatedAt, &record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	for _, t := range []*time.Time{record.Datestamp, record.Date, &record.CreatedAt, &record.UpdatedAt} {
		if t != nil {
			*t = t.UTC()
		}
	}
	if multiValues != "" {
		if err := json.Unmarshal([]byte(multiValues), &record.MultiValues); err != nil {
			return nil, fmt.Errorf("unmarshal multi_values: %w", err)
		}
	}
	return &record, nil
}

// recordArgs returns the harvested column values shared by INSERT and UPDATE.
func recordArgs(record *entity.Record) ([]any, error) {
	multiValues, err := json.Marshal(record.MultiValues)
	if err != nil {
		return nil, fmt.Errorf("marshal multi_values: %w", err)
	}
	joined := record.MultiValues.Joined()
	return []any{
		record.SourceID, record.Datestamp, record.SetSpec, record.TitleES, record.TitleEN,
		record.Creator, record.Publisher, record.Type, record.Format, record.IdentifierURL,
		record.Language, record.Relation, record.Coverage, record.Rights, record.Date,
		joined[0], joined[1], joined[2], joined[3], joined[4], string(multiValues),
	}, nil
}

// Upsert looks the identifier up and inserts or updates inside one transaction.
func (repo *RecordRepo) Upsert(ctx context.Context, record *entity.Record) (bool, error) {
	args, err := recordArgs(record)
	if err != nil {
		return false, fmt.Errorf("Upsert: %w", err)
	}
	now := time.Now().UTC()

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("Upsert: BeginTx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM records WHERE identifier = ?`, record.Identifier).Scan(&id)
	created := err == sql.ErrNoRows
	switch {
	case created:
		const insert = `
INSERT INTO records (source_id, datestamp, set_spec, title_es, title_en, creator, publisher,
    type, format, identifier_url, language, relation, coverage, rights, publication_date,
    subjects_es, subjects_en, descriptions_es, descriptions_en, dc_sources, multi_values,
    identifier, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, insert, append(args, record.Identifier, now, now)...)
		if err != nil {
			return false, fmt.Errorf("Upsert: insert: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("Upsert: LastInsertId: %w", err)
		}
	case err != nil:
		return false, fmt.Errorf("Upsert: lookup: %w", err)
	default:
		const update = `
UPDATE records SET
       source_id        = ?,
       datestamp        = ?,
       set_spec         = ?,
       title_es         = ?,
       title_en         = ?,
       creator          = ?,
       publisher        = ?,
       type             = ?,
       format           = ?,
       identifier_url   = ?,
       language         = ?,
       relation         = ?,
       coverage         = ?,
       rights           = ?,
       publication_date = ?,
       subjects_es      = ?,
       subjects_en      = ?,
       descriptions_es  = ?,
       descriptions_en  = ?,
       dc_sources       = ?,
       multi_values     = ?,
       updated_at       = ?
WHERE id = ?`
		if _, err := tx.ExecContext(ctx, update, append(args, now, id)...); err != nil {
			return false, fmt.Errorf("Upsert: update: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("Upsert: Commit: %w", err)
	}
	record.ID = id
	return created, nil
}

func (repo *RecordRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE identifier = ? LIMIT 1`
	record, err := scanRecord(repo.db.QueryRowContext(ctx, query, identifier))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByIdentifier: QueryRowContext: %w", err)
	}
	return record, nil
}

func (repo *RecordRepo) ListBySource(ctx context.Context, sourceID int64) ([]*entity.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE source_id = ? ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, sourceID)
	if err != nil {
		return nil, fmt.Errorf("ListBySource: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*entity.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ListBySource: Scan: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListBySource: rows.Err: %w", err)
	}
	return records, nil
}

func (repo *RecordRepo) CountBySource(ctx context.Context, sourceID int64) (int64, error) {
	var n int64
	err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE source_id = ?`, sourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountBySource: QueryRowContext: %w", err)
	}
	return n, nil
}

func (repo *RecordRepo) FirstPublisher(ctx context.Context, sourceID int64, placeholder string) (string, error) {
	const query = `
SELECT publisher FROM records
WHERE source_id = ? AND publisher <> '' AND publisher <> ?
ORDER BY id ASC
LIMIT 1`
	var publisher string
	err := repo.db.QueryRowContext(ctx, query, sourceID, placeholder).Scan(&publisher)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("FirstPublisher: QueryRowContext: %w", err)
	}
	return publisher, nil
}
