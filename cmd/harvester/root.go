package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"oai-harvester/internal/app"
	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/observability/logging"
	"oai-harvester/internal/usecase/harvest"
	srcUC "oai-harvester/internal/usecase/source"
)

// sourceService is the part of the source use case the commands call.
type sourceService interface {
	List(ctx context.Context) ([]*entity.Source, error)
	Create(ctx context.Context, in srcUC.CreateInput) (*entity.Source, error)
	Refresh(ctx context.Context, id int64) (*entity.Source, error)
	Delete(ctx context.Context, id int64) error
	Identify(ctx context.Context, baseURL string) (*entity.SourceDescriptor, error)
	ListSets(ctx context.Context, baseURL string) ([]entity.Set, error)
}

// harvestService is the part of the harvest use case the commands call.
type harvestService interface {
	Harvest(ctx context.Context, sourceID int64, metadataPrefix string) (*harvest.Summary, error)
	HarvestMany(ctx context.Context, ids []int64, metadataPrefix string) (*harvest.BatchResult, error)
	HarvestAll(ctx context.Context, metadataPrefix string) (*harvest.BatchResult, error)
	Backfill(ctx context.Context) (int, error)
}

var (
	sources   sourceService
	harvester harvestService
	closeApp  = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "harvester",
	Short: "Harvest OAI-PMH repositories",
	Long: `Registers OAI-PMH repositories and harvests their Dublin Core records
into the configured database. DATABASE_URL selects PostgreSQL or SQLite.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

// initServices builds the services on first use. Tests install stubs
// before executing, which skips the database entirely.
func initServices(_ *cobra.Command, _ []string) error {
	if sources != nil && harvester != nil {
		return nil
	}

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	a, err := app.New(logger, nil)
	if err != nil {
		return err
	}
	sources = &a.Sources
	harvester = a.Harvester
	closeApp = func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}
	return nil
}
