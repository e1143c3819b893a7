// Package app wires configuration, storage and the use cases shared by the
// API server and the command-line harvester.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"oai-harvester/internal/config"
	"oai-harvester/internal/infra/adapter/persistence"
	"oai-harvester/internal/infra/db"
	"oai-harvester/internal/infra/oaipmh"
	loader "oai-harvester/internal/pkg/config"
	"oai-harvester/internal/usecase/harvest"
	srcUC "oai-harvester/internal/usecase/source"
)

// App holds the long-lived components of one process.
type App struct {
	Config    *config.HarvestConfig
	DB        *sql.DB
	Dialect   db.Dialect
	Client    *oaipmh.Client
	Sources   srcUC.Service
	Harvester *harvest.Service
}

// New loads the configuration, opens and migrates the database and builds
// the use cases. metrics may be nil.
func New(logger *slog.Logger, metrics *loader.ConfigMetrics) (*App, error) {
	cfg, err := config.Load(logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	database, dialect, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.MigrateUp(database, dialect); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	repos := persistence.New(database, dialect)
	client := oaipmh.NewClient(nil, cfg.ClientConfig())

	logger.Info("harvester initialized",
		slog.String("dialect", string(dialect)),
		slog.Duration("http_timeout", cfg.HTTPTimeout),
		slog.Int("max_pages", cfg.MaxPages),
		slog.Duration("max_duration", cfg.MaxDuration),
		slog.Int("parallelism", cfg.Parallelism),
		slog.Float64("requests_per_second", cfg.RequestsPerSecond))

	return &App{
		Config:  cfg,
		DB:      database,
		Dialect: dialect,
		Client:  client,
		Sources: srcUC.Service{
			Repo:                  repos.Sources,
			Identity:              client,
			Sets:                  client,
			AllowPrivateEndpoints: cfg.AllowPrivateEndpoints,
		},
		Harvester: harvest.NewService(repos.Sources, repos.Records, client, cfg.ServiceConfig()),
	}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	return a.DB.Close()
}
