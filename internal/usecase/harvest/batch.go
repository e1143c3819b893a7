package harvest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"oai-harvester/internal/observability/metrics"
)

// BatchResult reports a batch harvest. Errors follows the order of the
// requested ids; a source that failed does not affect the others.
type BatchResult struct {
	Succeeded int        `json:"succeeded"`
	Summaries []*Summary `json:"summaries"`
	Errors    []string   `json:"errors"`
}

// HarvestMany harvests the given sources, at most Config.Parallelism at a time.
// An empty selection is ErrNoSourcesSelected.
func (s *Service) HarvestMany(ctx context.Context, ids []int64, metadataPrefix string) (*BatchResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoSourcesSelected
	}

	summaries := make([]*Summary, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(s.cfg.Parallelism)
	for i, id := range ids {
		g.Go(func() error {
			summaries[i], errs[i] = s.Harvest(ctx, id, metadataPrefix)
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{Errors: []string{}}
	for i, id := range ids {
		if errs[i] != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("source %d: %v", id, errs[i]))
			continue
		}
		res.Succeeded++
		res.Summaries = append(res.Summaries, summaries[i])
	}

	slog.Info("batch harvest completed",
		slog.Int("requested", len(ids)),
		slog.Int("succeeded", res.Succeeded),
		slog.Int("failed", len(res.Errors)))
	return res, nil
}

// HarvestAll harvests every registered source.
func (s *Service) HarvestAll(ctx context.Context, metadataPrefix string) (*BatchResult, error) {
	sources, err := s.SourceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	metrics.UpdateSourcesTotal(len(sources))
	ids := make([]int64, 0, len(sources))
	for _, src := range sources {
		ids = append(ids, src.ID)
	}
	return s.HarvestMany(ctx, ids, metadataPrefix)
}

// Backfill runs the publisher backfill on its own.
func (s *Service) Backfill(ctx context.Context) (int, error) {
	return s.Reconciler.BackfillPublishers(ctx)
}
