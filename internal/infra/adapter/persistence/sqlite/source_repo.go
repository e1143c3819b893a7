package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/repository"
)

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

func scanSource(row rowScanner) (*entity.Source, error) {
	var (
		source       entity.Source
		earliest     sql.NullTime
		compressions string
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
		d.EarliestDatestamp = earliest.Time.UTC()
	}
	if source.LastHarvestAt != nil {
		t := source.LastHarvestAt.UTC()
		source.LastHarvestAt = &t
	}
	d.RepositoryName = source.Name
	if compressions != "" {
		if err := json.Unmarshal([]byte(compressions), &d.Compressions); err != nil {
			return nil, fmt.Errorf("unmarshal compressions: %w", err)
		}
	}
	return &source, nil
}

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
		earliest = d.EarliestDatestamp.UTC()
	}
	return []any{
		source.Name, source.BaseURL, source.OfficialURL, source.Description, source.Publisher,
		source.Prefix(),
		d.ProtocolVersion, d.AdminEmail, earliest, d.DeletedRecordPolicy, d.Granularity, string(compressionsJSON),
		d.RepositoryIdentifier, d.Delimiter, d.SampleIdentifier, d.ToolkitTitle, d.ToolkitAuthorName,
		d.ToolkitAuthorEmail, d.ToolkitVersion, d.ToolkitURL, utcPtr(source.LastHarvestAt),
	}, nil
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func isUniqueViolation(err error) bool {
	var se *moderncsqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE"))
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE id = ? LIMIT 1`
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) GetByBaseURL(ctx context.Context, baseURL string) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources WHERE base_url = ? LIMIT 1`
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, baseURL))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByBaseURL: QueryRowContext: %w", err)
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
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}

	return sources, nil
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
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", entity.ErrDuplicateBaseURL)
		}
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	source.ID = id
	return nil
}

func (repo *SourceRepo) Update(ctx context.Context, source *entity.Source) error {
	args, err := sourceArgs(source)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	const query = `
UPDATE sources SET
       name                  = ?,
       base_url              = ?,
       official_url          = ?,
       description           = ?,
       publisher             = ?,
       metadata_prefix       = ?,
       protocol_version      = ?,
       admin_email           = ?,
       earliest_datestamp    = ?,
       deleted_record        = ?,
       granularity           = ?,
       compressions          = ?,
       repository_identifier = ?,
       delimiter             = ?,
       sample_identifier     = ?,
       toolkit_title         = ?,
       toolkit_author_name   = ?,
       toolkit_author_email  = ?,
       toolkit_version       = ?,
       toolkit_url           = ?,
       last_harvest_at       = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query, append(args, source.ID)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Update: %w", entity.ErrDuplicateBaseURL)
		}
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *SourceRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM sources WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *SourceRepo) TouchHarvestedAt(ctx context.Context, id int64, t time.Time) error {
	const query = `UPDATE sources SET last_harvest_at = ? WHERE id = ?`
	if _, err := repo.db.ExecContext(ctx, query, t.UTC(), id); err != nil {
		return fmt.Errorf("TouchHarvestedAt: ExecContext: %w", err)
	}
	return nil
}

func (repo *SourceRepo) FillPublisher(ctx context.Context, id int64, publisher string) (bool, error) {
	const query = `UPDATE sources SET publisher = ? WHERE id = ? AND publisher = ''`
	res, err := repo.db.ExecContext(ctx, query, publisher, id)
	if err != nil {
		return false, fmt.Errorf("FillPublisher: ExecContext: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
