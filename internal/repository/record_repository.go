package repository

import (
	"context"

	"oai-harvester/internal/domain/entity"
)

// RecordRepository persists harvested records.
// The external identifier is unique across every source.
type RecordRepository interface {
	// Upsert creates the record or overwrites every field of the record
	// with the same identifier, in its own transaction.
	// It assigns record.ID and reports whether a new row was created.
	Upsert(ctx context.Context, record *entity.Record) (created bool, err error)
	GetByIdentifier(ctx context.Context, identifier string) (*entity.Record, error)
	ListBySource(ctx context.Context, sourceID int64) ([]*entity.Record, error)
	CountBySource(ctx context.Context, sourceID int64) (int64, error)
	// FirstPublisher returns the publisher of the lowest-ID record of the
	// source whose publisher is neither empty nor equal to placeholder,
	// or "" when none qualifies.
	FirstPublisher(ctx context.Context, sourceID int64, placeholder string) (string, error)
}
