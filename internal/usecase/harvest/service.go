package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/observability/logging"
	"oai-harvester/internal/observability/metrics"
	"oai-harvester/internal/observability/tracing"
	"oai-harvester/internal/repository"
)

// Config bounds a single harvest and a batch of harvests.
type Config struct {
	// MaxPages is the largest number of ListRecords pages one harvest may request
	MaxPages int

	// MaxDuration is the wall-clock bound of one harvest; 0 disables it
	MaxDuration time.Duration

	// DefaultMetadataPrefix is used when neither the caller nor the source names one
	DefaultMetadataPrefix string

	// Parallelism is the number of sources harvested at once in a batch
	Parallelism int
}

// DefaultConfig returns the harvest defaults.
func DefaultConfig() Config {
	return Config{
		MaxPages:              10000,
		MaxDuration:           6 * time.Hour,
		DefaultMetadataPrefix: entity.DefaultMetadataPrefix,
		Parallelism:           4,
	}
}

// Summary reports what one harvest did.
// On failure it reflects the pages persisted before the error.
type Summary struct {
	SourceID    int64         `json:"source_id"`
	Pages       int           `json:"pages"`
	Created     int           `json:"created"`
	Updated     int           `json:"updated"`
	Skipped     int           `json:"skipped"`
	SkipNotices []SkipNotice  `json:"skip_notices,omitempty"`
	Backfilled  int           `json:"backfilled"`
	Duration    time.Duration `json:"duration"`
}

// Service drives harvests: it walks ListRecords pages, reconciles every
// record and finishes with the publisher backfill.
type Service struct {
	SourceRepo repository.SourceRepository
	Reconciler *Reconciler
	Fetcher    PageFetcher

	cfg    Config
	group  singleflight.Group
	tracer trace.Tracer
	now    func() time.Time
}

// NewService creates a harvest Service. Zero-valued settings fall back to DefaultConfig.
func NewService(
	sourceRepo repository.SourceRepository,
	recordRepo repository.RecordRepository,
	fetcher PageFetcher,
	cfg Config,
) *Service {
	def := DefaultConfig()
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if cfg.DefaultMetadataPrefix == "" {
		cfg.DefaultMetadataPrefix = def.DefaultMetadataPrefix
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = def.Parallelism
	}
	return &Service{
		SourceRepo: sourceRepo,
		Reconciler: &Reconciler{Records: recordRepo, Sources: sourceRepo},
		Fetcher:    fetcher,
		cfg:        cfg,
		tracer:     tracing.GetTracer(),
		now:        time.Now,
	}
}

// Harvest pulls every record of the source through ListRecords.
//
// The source is looked up before any network call; an unknown id is
// ErrSourceNotFound. metadataPrefix overrides the source's own prefix when
// non-empty. A call for a source that is already being harvested joins the
// running harvest and receives its result.
func (s *Service) Harvest(ctx context.Context, sourceID int64, metadataPrefix string) (*Summary, error) {
	v, err, shared := s.group.Do(strconv.FormatInt(sourceID, 10), func() (interface{}, error) {
		return s.harvest(ctx, sourceID, metadataPrefix)
	})
	if shared {
		slog.Debug("harvest result shared with concurrent callers", slog.Int64("source_id", sourceID))
	}
	sum, _ := v.(*Summary)
	return sum, err
}

func (s *Service) harvest(ctx context.Context, sourceID int64, metadataPrefix string) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "harvest.Harvest",
		trace.WithAttributes(attribute.Int64("source.id", sourceID)))
	defer span.End()

	start := s.now()
	sum := &Summary{SourceID: sourceID}

	src, err := s.SourceRepo.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		metrics.RecordHarvestError(sourceID, ErrorKind(ErrSourceNotFound))
		return nil, fmt.Errorf("harvest source %d: %w", sourceID, ErrSourceNotFound)
	}

	prefix := strings.TrimSpace(metadataPrefix)
	if prefix == "" {
		prefix = strings.TrimSpace(src.MetadataPrefix)
	}
	if prefix == "" {
		prefix = s.cfg.DefaultMetadataPrefix
	}

	logger := logging.WithSource(logging.FromContext(ctx), src.ID, src.BaseURL)
	logger.Info("harvest started", slog.String("metadata_prefix", prefix))

	if err := s.walk(ctx, src, prefix, sum, logger); err != nil {
		sum.Duration = time.Since(start)
		metrics.RecordHarvestError(sourceID, ErrorKind(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorKind(err))
		logger.Warn("harvest failed",
			slog.Int("pages", sum.Pages),
			slog.Int("created", sum.Created),
			slog.Int("updated", sum.Updated),
			slog.String("error_type", ErrorKind(err)),
			slog.Any("error", err))
		return sum, err
	}

	// 取得完了後の更新はキャンセルされても実行する
	safeCtx := context.WithoutCancel(ctx)
	if err := s.SourceRepo.TouchHarvestedAt(safeCtx, src.ID, s.now()); err != nil {
		return sum, fmt.Errorf("update source harvested timestamp: %w", err)
	}
	filled, err := s.Reconciler.BackfillPublishers(safeCtx)
	if err != nil {
		return sum, err
	}
	sum.Backfilled = filled
	sum.Duration = time.Since(start)

	metrics.RecordHarvest(src.ID, sum.Duration, sum.Pages, sum.Created, sum.Updated, sum.Skipped)
	span.SetAttributes(
		attribute.Int("harvest.pages", sum.Pages),
		attribute.Int("harvest.created", sum.Created),
		attribute.Int("harvest.updated", sum.Updated))
	logger.Info("harvest completed",
		slog.Int("pages", sum.Pages),
		slog.Int("created", sum.Created),
		slog.Int("updated", sum.Updated),
		slog.Int("skipped", sum.Skipped),
		slog.Int("backfilled", sum.Backfilled),
		slog.Duration("duration", sum.Duration))

	return sum, nil
}

// walk requests pages until the repository stops returning a resumption token.
// The first request carries prefix; later ones carry only the token.
func (s *Service) walk(ctx context.Context, src *entity.Source, prefix string, sum *Summary, logger *slog.Logger) error {
	runCtx := ctx
	if s.cfg.MaxDuration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.MaxDuration)
		defer cancel()
	}

	token := ""
	for {
		if err := runCtx.Err(); err != nil {
			return s.boundErr(ctx, err)
		}
		if sum.Pages >= s.cfg.MaxPages {
			return fmt.Errorf("harvest source %d after %d pages: %w", src.ID, sum.Pages, ErrMaxPagesExceeded)
		}

		page, err := s.Fetcher.ListRecords(runCtx, src.BaseURL, prefix, token)
		if err != nil {
			return fmt.Errorf("harvest source %d page %d: %w", src.ID, sum.Pages+1, s.boundErr(ctx, err))
		}
		sum.Pages++

		for _, notice := range page.Skipped {
			notice.Page = sum.Pages
			sum.Skipped++
			sum.SkipNotices = append(sum.SkipNotices, notice)
			logger.Warn("record skipped",
				slog.Int("page", notice.Page),
				slog.Int("index", notice.Index),
				slog.String("identifier", notice.Identifier),
				slog.String("reason", notice.Reason))
		}

		for i, raw := range page.Records {
			outcome, err := s.Reconciler.Upsert(runCtx, src.ID, raw)
			var vErr *entity.ValidationError
			switch {
			case errors.As(err, &vErr):
				sum.Skipped++
				sum.SkipNotices = append(sum.SkipNotices, SkipNotice{
					Page: sum.Pages, Index: i, Identifier: raw.Identifier, Reason: vErr.Error(),
				})
				continue
			case err != nil:
				return fmt.Errorf("harvest source %d page %d: %w", src.ID, sum.Pages, s.boundErr(ctx, err))
			}
			if outcome == OutcomeCreated {
				sum.Created++
			} else {
				sum.Updated++
			}
		}

		token = strings.TrimSpace(page.Token)
		logger.Debug("page processed",
			slog.Int("page", sum.Pages),
			slog.Int("records", len(page.Records)),
			slog.String("token", token))
		if token == "" {
			return nil
		}
	}
}

// boundErr maps a deadline hit by the harvest's own wall-clock bound to
// ErrMaxDurationExceeded. Cancellation by the caller passes through.
func (s *Service) boundErr(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return fmt.Errorf("%w: %w", ErrMaxDurationExceeded, err)
	}
	return err
}
