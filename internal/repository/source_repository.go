package repository

import (
	"context"
	"time"

	"oai-harvester/internal/domain/entity"
)

// SourceRepository persists harvestable repositories.
// Get and GetByBaseURL return (nil, nil) when nothing matches.
type SourceRepository interface {
	Get(ctx context.Context, id int64) (*entity.Source, error)
	GetByBaseURL(ctx context.Context, baseURL string) (*entity.Source, error)
	List(ctx context.Context) ([]*entity.Source, error)
	// ListWithoutPublisher returns the sources whose publisher is empty.
	ListWithoutPublisher(ctx context.Context) ([]*entity.Source, error)
	// Create inserts the source and assigns its ID.
	// Returns entity.ErrDuplicateBaseURL when the base URL is taken.
	Create(ctx context.Context, source *entity.Source) error
	Update(ctx context.Context, source *entity.Source) error
	// Delete removes the source; its records go with it.
	Delete(ctx context.Context, id int64) error
	TouchHarvestedAt(ctx context.Context, id int64, t time.Time) error
	// FillPublisher sets the publisher only while the stored one is empty.
	// It reports whether a row changed.
	FillPublisher(ctx context.Context, id int64, publisher string) (bool, error)
}
