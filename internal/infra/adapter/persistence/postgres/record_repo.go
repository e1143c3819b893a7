package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

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
		multiValues []byte
	)
	if err := row.Scan(
		&record.ID, &record.SourceID, &record.Identifier, &record.Datestamp, &record.SetSpec,
		&record.TitleES, &record.TitleEN, &record.Creator, &record.Publisher, &record.Type,
		&record.Format, &record.IdentifierURL, &record.Language, &record.Relation, &record.Coverage,
		&record.Rights, &record.Date, &multiValues, &record.CreatedAt, &record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(multiValues) > 0 {
		if err := json.Unmarshal(multiValues, &record.MultiValues); err != nil {
			return nil, fmt.Errorf("unmarshal multi_values: %w", err)
		}
	}
	return &record, nil
}

// Upsert relies on xmax being zero only for freshly inserted tuples.
func (repo *RecordRepo) Upsert(ctx context.Context, record *entity.Record) (bool, error) {
	multiValues, err := json.Marshal(record.MultiValues)
	if err != nil {
		return false, fmt.Errorf("Upsert: marshal multi_values: %w", err)
	}
	joined := record.MultiValues.Joined()

	const query = `
INSERT INTO records (source_id, identifier, datestamp, set_spec, title_es, title_en, creator,
    publisher, type, format, identifier_url, language, relation, coverage, rights, publication_date,
    subjects_es, subjects_en, descriptions_es, descriptions_en, dc_sources, multi_values)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
    $17, $18, $19, $20, $21, $22)
ON CONFLICT (identifier) DO UPDATE SET
       source_id        = EXCLUDED.source_id,
       datestamp        = EXCLUDED.datestamp,
       set_spec         = EXCLUDED.set_spec,
       title_es         = EXCLUDED.title_es,
       title_en         = EXCLUDED.title_en,
       creator          = EXCLUDED.creator,
       publisher        = EXCLUDED.publisher,
       type             = EXCLUDED.type,
       format           = EXCLUDED.format,
       identifier_url   = EXCLUDED.identifier_url,
       language         = EXCLUDED.language,
       relation         = EXCLUDED.relation,
       coverage         = EXCLUDED.coverage,
       rights           = EXCLUDED.rights,
       publication_date = EXCLUDED.publication_date,
       subjects_es      = EXCLUDED.subjects_es,
       subjects_en      = EXCLUDED.subjects_en,
       descriptions_es  = EXCLUDED.descriptions_es,
       descriptions_en  = EXCLUDED.descriptions_en,
       dc_sources       = EXCLUDED.dc_sources,
       multi_values     = EXCLUDED.multi_values,
       updated_at       = now()
RETURNING id, (xmax = 0) AS inserted`

	var created bool
	err = repo.db.QueryRowContext(ctx, query,
		record.SourceID, record.Identifier, record.Datestamp, record.SetSpec,
		record.TitleES, record.TitleEN, record.Creator, record.Publisher, record.Type,
		record.Format, record.IdentifierURL, record.Language, record.Relation, record.Coverage,
		record.Rights, record.Date,
		joined[0], joined[1], joined[2], joined[3], joined[4], string(multiValues),
	).Scan(&record.ID, &created)
	if err != nil {
		return false, fmt.Errorf("Upsert: %w", err)
	}
	return created, nil
}

func (repo *RecordRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE identifier = $1 LIMIT 1`
	record, err := scanRecord(repo.db.QueryRowContext(ctx, query, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByIdentifier: %w", err)
	}
	return record, nil
}

func (repo *RecordRepo) ListBySource(ctx context.Context, sourceID int64) ([]*entity.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE source_id = $1 ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, sourceID)
	if err != nil {
		return nil, fmt.Errorf("ListBySource: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*entity.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ListBySource: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (repo *RecordRepo) CountBySource(ctx context.Context, sourceID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM records WHERE source_id = $1`
	var n int64
	if err := repo.db.QueryRowContext(ctx, query, sourceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountBySource: %w", err)
	}
	return n, nil
}

func (repo *RecordRepo) FirstPublisher(ctx context.Context, sourceID int64, placeholder string) (string, error) {
	const query = `
SELECT publisher FROM records
WHERE source_id = $1 AND publisher <> '' AND publisher <> $2
ORDER BY id ASC
LIMIT 1`
	var publisher string
	err := repo.db.QueryRowContext(ctx, query, sourceID, placeholder).Scan(&publisher)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("FirstPublisher: %w", err)
	}
	return publisher, nil
}
