package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/repository"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const sourceColumns = `id, name, base_url, official_url, description, publisher, metadata_prefix,
protocol_version, admin_email, earliest_datestamp, deleted_record, granularity, compressions,
repository_identifier, delimiter, sample_identifier, toolkit_title, toolkit_author_name,
toolkit_author_email, toolkit_version, toolkit_url, last_harvest_at`

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSource scans one row selected with sourceColumns.
func scanSource(row rowScanner) (*entity.Source, error) {
	var (
		source       entity.Source
		earliest     sql.NullTime
		compressions []byte
	)
	d := &source.Descriptor
	if err := row.Scan(
		&source.ID, &source.Name, &source.BaseURL, &source.OfficialURL, &source.Description,
		&source.Publisher, &source.MetadataPrefix,
		&d.ProtocolVersion, &d.AdminEmail, &earliest, &d.DeletedRecordPolicy, &d.Granularity, &compressions,
		&d.RepositoryIdentifier, &d.Delimiter, &d.SampleIdentifier, &d.ToolkitTitle, &d.ToolkitAuthorName,
		&d.ToolkitAuthorEmail, &d.ToolkitVersion, &d.ToolkitURL, &source.LastHarvestAt,
	); err != nil {
		return nil, err
	}
	if earliest.Valid {
		d.EarliestDatestamp = earliest.Time
	}
	d.RepositoryName = source.Name
	if len(compressions) > 0 {
		if err := json.Unmarshal(compressions, &d.Compressions); err != nil {
			return nil, fmt.Errorf("unmarshal compressions: %w", err)
		}
	}
	return &source, nil
}

// sourceArgs returns the column values after id, in sourceColumns order.
func sourceArgs(source *entity.Source) ([]any, error) {
	d := source.Descriptor
	compressions := d.Compressions
	if compressions == nil {
		compressions = []string{}
	}
	compressionsJSON, err := json.Marshal(compressions)
	if err != nil {
		return nil, fmt.Errorf("marshal compressions: %w", err)
	}
	var earliest any
	if !d.EarliestDatestamp.IsZero() {
		earliest = d.EarliestDatestamp
	}
	return []any{
		source.Name, source.BaseURL, source.OfficialURL, source.Description, source.Publisher,
		source.Prefix(),
		d.ProtocolVersion, d.AdminEmail, earliest, d.DeletedRecordPolicy, d.Granularity, string(compressionsJSON),
		d.RepositoryIdentifier, d.Delimiter, d.SampleIdentifier, d.ToolkitTitle, d.ToolkitAuthorName,
		d.ToolkitAuthorEmail, d.ToolkitVersion, d.ToolkitURL, source.LastHarvestAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE id = $1 LIMIT 1`
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) GetByBaseURL(ctx context.Context, baseURL string) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE base_url = $1 LIMIT 1`
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, baseURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByBaseURL: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	return repo.list(ctx, "List", `SELECT `+sourceColumns+` FROM sources ORDER BY id ASC`)
}

func (repo *SourceRepo) ListWithoutPublisher(ctx context.Context) ([]*entity.Source, error) {
	return repo.list(ctx, "ListWithoutPublisher",
		`SELECT `+sourceColumns+` FROM sources WHERE publisher = '' ORDER BY id ASC`)
}

func (repo *SourceRepo) list(ctx context.Context, op, query string) ([]*entity.Source, error) {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) Create(ctx context.Context, source *entity.Source) error {
	args, err := sourceArgs(source)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	const query = `
INSERT INTO sources (name, base_url, official_url, description, publisher, metadata_prefix,
    protocol_version, admin_email, earliest_datestamp, deleted_record, granularity, compressions,
    repository_identifier, delimiter, sample_identifier, toolkit_title, toolkit_author_name,
    toolkit_author_email, toolkit_version, toolkit_url, last_harvest_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&source.ID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", entity.ErrDuplicateBaseURL)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *SourceRepo) Update(ctx context.Context, source *entity.Source) error {
	args, err := sourceArgs(source)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	const query = `
UPDATE sources SET
       name                  = $1,
       base_url              = $2,
       official_url          = $3,
       description           = $4,
       publisher             = $5,
       metadata_prefix       = $6,
       protocol_version      = $7,
       admin_email           = $8,
       earliest_datestamp    = $9,
       deleted_record        = $10,
       granularity           = $11,
       compressions          = $12,
       repository_identifier = $13,
       delimiter             = $14,
       sample_identifier     = $15,
       toolkit_title         = $16,
       toolkit_author_name   = $17,
       toolkit_author_email  = $18,
       toolkit_version       = $19,
       toolkit_url           = $20,
       last_harvest_at       = $21
WHERE id = $22`
	res, err := repo.db.ExecContext(ctx, query, append(args, source.ID)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Update: %w", entity.ErrDuplicateBaseURL)
		}
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *SourceRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM sources WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *SourceRepo) TouchHarvestedAt(ctx context.Context, id int64, t time.Time) error {
	const query = `UPDATE sources SET last_harvest_at = $1 WHERE id = $2`
	_, err := repo.db.ExecContext(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("TouchHarvestedAt: %w", err)
	}
	return nil
}

func (repo *SourceRepo) FillPublisher(ctx context.Context, id int64, publisher string) (bool, error) {
	const query = `UPDATE sources SET publisher = $1 WHERE id = $2 AND publisher = ''`
	res, err := repo.db.ExecContext(ctx, query, publisher, id)
	if err != nil {
		return false, fmt.Errorf("FillPublisher: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
