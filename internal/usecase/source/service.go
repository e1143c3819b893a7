package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/observability/metrics"
	"oai-harvester/internal/repository"
)

// IdentityFetcher performs the Identify verb against a repository.
type IdentityFetcher interface {
	FetchIdentity(ctx context.Context, baseURL string) (*entity.SourceDescriptor, error)
}

// SetLister performs the ListSets verb against a repository.
type SetLister interface {
	ListSets(ctx context.Context, baseURL string) ([]entity.Set, error)
}

// CreateInput represents the input parameters for registering a repository.
// When Name is empty the repository is identified and its descriptor fills the source.
type CreateInput struct {
	BaseURL        string
	Name           string
	Description    string
	OfficialURL    string
	MetadataPrefix string
}

// Service provides source management use cases.
type Service struct {
	Repo     repository.SourceRepository
	Identity IdentityFetcher
	Sets     SetLister

	// AllowPrivateEndpoints disables the private-network check on base URLs
	AllowPrivateEndpoints bool
}

// List retrieves all sources from the repository.
func (s *Service) List(ctx context.Context) ([]*entity.Source, error) {
	sources, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	metrics.UpdateSourcesTotal(len(sources))
	return sources, nil
}

// Get returns one source. Returns ErrSourceNotFound if it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Source, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}
	src, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	return src, nil
}

// Create registers a repository.
//
// A source without a name is bootstrapped: the repository is identified
// first and the source takes its reported name and descriptor. The official
// URL is derived from the base URL when not supplied.
// Returns ErrDuplicateSource when the base URL is already registered.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Source, error) {
	baseURL := strings.TrimSpace(in.BaseURL)
	if err := entity.ValidateEndpoint(baseURL, s.AllowPrivateEndpoints); err != nil {
		return nil, fmt.Errorf("validate base URL: %w", err)
	}

	existing, err := s.Repo.GetByBaseURL(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("get source by base URL: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateSource
	}

	src := &entity.Source{
		Name:           strings.TrimSpace(in.Name),
		BaseURL:        baseURL,
		OfficialURL:    strings.TrimSpace(in.OfficialURL),
		Description:    strings.TrimSpace(in.Description),
		MetadataPrefix: strings.TrimSpace(in.MetadataPrefix),
	}

	if src.NeedsBootstrap() {
		desc, err := s.Identity.FetchIdentity(ctx, baseURL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap source: %w", err)
		}
		src.ApplyDescriptor(*desc)
		slog.Info("source bootstrapped from Identify",
			slog.String("base_url", baseURL),
			slog.String("repository_name", desc.RepositoryName),
			slog.String("protocol_version", desc.ProtocolVersion))
	}
	if src.OfficialURL == "" {
		src.OfficialURL = entity.DeriveOfficialURL(baseURL)
	}
	if src.MetadataPrefix == "" {
		src.MetadataPrefix = entity.DefaultMetadataPrefix
	}

	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("validate source: %w", err)
	}
	if err := s.Repo.Create(ctx, src); err != nil {
		if errors.Is(err, entity.ErrDuplicateBaseURL) {
			return nil, ErrDuplicateSource
		}
		return nil, fmt.Errorf("create source: %w", err)
	}
	return src, nil
}

// Refresh re-identifies an existing source and stores the new descriptor.
// The source name is replaced by the reported repository name.
func (s *Service) Refresh(ctx context.Context, id int64) (*entity.Source, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	desc, err := s.Identity.FetchIdentity(ctx, src.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("refresh source: %w", err)
	}
	src.ApplyDescriptor(*desc)
	if err := s.Repo.Update(ctx, src); err != nil {
		return nil, fmt.Errorf("update source: %w", err)
	}
	return src, nil
}

// Delete removes a source and, through the store, all of its records.
// Returns a ValidationError if the ID is not positive.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrSourceNotFound
		}
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

// Identify fetches a repository's self-description without persisting anything.
func (s *Service) Identify(ctx context.Context, baseURL string) (*entity.SourceDescriptor, error) {
	baseURL = strings.TrimSpace(baseURL)
	if err := entity.ValidateEndpoint(baseURL, s.AllowPrivateEndpoints); err != nil {
		return nil, fmt.Errorf("validate base URL: %w", err)
	}
	return s.Identity.FetchIdentity(ctx, baseURL)
}

// ListSets returns the sets a repository advertises.
func (s *Service) ListSets(ctx context.Context, baseURL string) ([]entity.Set, error) {
	baseURL = strings.TrimSpace(baseURL)
	if err := entity.ValidateEndpoint(baseURL, s.AllowPrivateEndpoints); err != nil {
		return nil, fmt.Errorf("validate base URL: %w", err)
	}
	sets, err := s.Sets.ListSets(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}
