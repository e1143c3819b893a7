package entity

import (
	"strings"
	"time"
)

// DefaultMetadataPrefix is the metadata format every OAI-PMH repository must support.
const DefaultMetadataPrefix = "oai_dc"

// Source represents a harvestable OAI-PMH repository.
// BaseURL is the protocol endpoint and is unique across the store.
// The descriptive attributes are filled from the repository's Identify response.
type Source struct {
	ID             int64
	Name           string
	BaseURL        string
	OfficialURL    string
	Description    string
	Publisher      string
	MetadataPrefix string
	LastHarvestAt  *time.Time

	Descriptor SourceDescriptor
}

// SourceDescriptor holds the attributes a repository reports about itself
// through the Identify verb. Optional fields are empty when absent.
type SourceDescriptor struct {
	RepositoryName      string
	ProtocolVersion     string
	AdminEmail          string
	EarliestDatestamp   time.Time
	DeletedRecordPolicy string
	Granularity         string

	Compressions         []string
	RepositoryIdentifier string
	Delimiter            string
	SampleIdentifier     string
	ToolkitTitle         string
	ToolkitAuthorName    string
	ToolkitAuthorEmail   string
	ToolkitVersion       string
	ToolkitURL           string
}

// Set is one selective-harvesting set advertised by a repository.
type Set struct {
	Spec string `json:"spec"`
	Name string `json:"name"`
}

// DeriveOfficialURL derives a repository's public address from its OAI
// endpoint by dropping a trailing "/oai" path segment. Other URLs are
// returned unchanged.
func DeriveOfficialURL(baseURL string) string {
	trimmed := strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(trimmed, "/oai") {
		return strings.TrimSuffix(trimmed, "/oai")
	}
	return baseURL
}

// DisplayName returns the repository name or a placeholder for unnamed sources.
func (s *Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Revista sin nombre"
}

// NeedsBootstrap reports whether the source still lacks the descriptive
// attributes that the Identify bootstrap provides.
func (s *Source) NeedsBootstrap() bool {
	return strings.TrimSpace(s.Name) == ""
}

// Prefix returns the metadata prefix to harvest with, falling back to oai_dc.
func (s *Source) Prefix() string {
	if s.MetadataPrefix == "" {
		return DefaultMetadataPrefix
	}
	return s.MetadataPrefix
}

// ApplyDescriptor copies an Identify result onto the source.
// The repository name becomes the source name.
func (s *Source) ApplyDescriptor(d SourceDescriptor) {
	s.Descriptor = d
	s.Name = d.RepositoryName
}

// Validate checks the invariants that must hold before a source is persisted.
func (s *Source) Validate() error {
	if s.BaseURL == "" {
		return &ValidationError{Field: "base_url", Message: "is required"}
	}
	if s.NeedsBootstrap() {
		return &ValidationError{Field: "name", Message: "is required (run Identify first)"}
	}
	if s.MetadataPrefix != "" && strings.ContainsAny(s.MetadataPrefix, " \t&?=") {
		return &ValidationError{Field: "metadata_prefix", Message: "must be a bare prefix"}
	}
	return nil
}
