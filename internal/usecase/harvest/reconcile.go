package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/observability/metrics"
	"oai-harvester/internal/repository"
	"oai-harvester/internal/utils/text"
)

// Outcome tells whether reconciling a record created or overwrote a row.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Reconciler writes harvested records into the store.
type Reconciler struct {
	Records repository.RecordRepository
	Sources repository.SourceRepository
}

// Upsert normalizes raw and stores it under sourceID, matching an existing
// record by identifier exactly. Every stored field is overwritten; a record
// first harvested under another source moves to sourceID.
func (r *Reconciler) Upsert(ctx context.Context, sourceID int64, raw RawRecord) (Outcome, error) {
	rec := ToRecord(sourceID, raw)
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("reconcile record: %w", err)
	}

	start := time.Now()
	created, err := r.Records.Upsert(ctx, rec)
	metrics.RecordDBQuery("upsert_record", time.Since(start))
	if err != nil {
		return "", fmt.Errorf("reconcile record %s: %w", rec.Identifier, err)
	}
	if created {
		return OutcomeCreated, nil
	}
	return OutcomeUpdated, nil
}

// ToRecord maps a raw record onto the stored shape.
//
// Descriptive text fields are sanitized and fall back to text.Placeholder.
// Titles are only stripped so that an absent language stays empty.
// The identifier URL is stored as harvested. Dates that cannot be coerced
// are logged and left empty.
func ToRecord(sourceID int64, raw RawRecord) *entity.Record {
	return &entity.Record{
		SourceID:      sourceID,
		Identifier:    raw.Identifier,
		Datestamp:     text.NormalizeDate(raw.Datestamp),
		SetSpec:       strings.TrimSpace(text.StripUnsafe(raw.SetSpec)),
		TitleES:       strings.TrimSpace(text.StripUnsafe(raw.TitleES)),
		TitleEN:       strings.TrimSpace(text.StripUnsafe(raw.TitleEN)),
		Creator:       text.SanitizeText(raw.Creator, 0),
		Publisher:     text.SanitizeText(raw.Publisher, 0),
		Type:          text.SanitizeText(raw.Type, 0),
		Format:        text.SanitizeText(raw.Format, 0),
		IdentifierURL: raw.IdentifierURL,
		Language:      text.SanitizeText(raw.Language, 0),
		Relation:      text.SanitizeText(raw.Relation, 0),
		Coverage:      text.SanitizeText(raw.Coverage, 0),
		Rights:        text.SanitizeText(raw.Rights, 0),
		Date:          text.NormalizeDate(raw.Date),
		MultiValues: entity.MultiValues{
			SubjectsES:     cleanList(raw.SubjectsES),
			SubjectsEN:     cleanList(raw.SubjectsEN),
			DescriptionsES: cleanList(raw.DescriptionsES),
			DescriptionsEN: cleanList(raw.DescriptionsEN),
			Sources:        cleanList(raw.Sources),
		},
	}
}

// cleanList strips unsafe characters from each value and drops values left empty.
func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if s := strings.TrimSpace(text.StripUnsafe(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// BackfillPublishers gives every source without a publisher the publisher of
// its first record that has a real one. A source publisher that is already
// set is never overwritten. It returns the number of sources filled.
func (r *Reconciler) BackfillPublishers(ctx context.Context) (int, error) {
	sources, err := r.Sources.ListWithoutPublisher(ctx)
	if err != nil {
		return 0, fmt.Errorf("backfill publishers: %w", err)
	}

	filled := 0
	for _, src := range sources {
		publisher, err := r.Records.FirstPublisher(ctx, src.ID, text.Placeholder)
		if err != nil {
			return filled, fmt.Errorf("backfill publisher of source %d: %w", src.ID, err)
		}
		if publisher == "" {
			continue
		}

		changed, err := r.Sources.FillPublisher(ctx, src.ID, publisher)
		if err != nil {
			return filled, fmt.Errorf("backfill publisher of source %d: %w", src.ID, err)
		}
		if changed {
			filled++
			slog.Info("source publisher backfilled",
				slog.Int64("source_id", src.ID),
				slog.String("publisher", publisher))
		}
	}

	metrics.RecordPublisherBackfill(filled)
	return filled, nil
}
