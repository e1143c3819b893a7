// Package entity defines the core domain entities and validation logic for the application.
// It contains the harvested Record and its owning Source, along with
// their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// MultiValueSeparator joins multi-valued Dublin Core fields in the legacy text columns.
// Values that already contain the separator cannot be split back apart;
// MultiValues keeps the exact lists.
const MultiValueSeparator = "; "

// Record represents one harvested bibliographic item.
// Identifier is assigned by the remote repository and is unique across the whole store.
type Record struct {
	ID            int64
	SourceID      int64
	Identifier    string
	Datestamp     *time.Time
	SetSpec       string
	TitleES       string
	TitleEN       string
	Creator       string
	Publisher     string
	Type          string
	Format        string
	IdentifierURL string
	Language      string
	Relation      string
	Coverage      string
	Rights        string
	Date          *time.Time

	MultiValues MultiValues

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MultiValues holds the repeated Dublin Core elements in document order.
type MultiValues struct {
	SubjectsES     []string `json:"subjects_es,omitempty"`
	SubjectsEN     []string `json:"subjects_en,omitempty"`
	DescriptionsES []string `json:"descriptions_es,omitempty"`
	DescriptionsEN []string `json:"descriptions_en,omitempty"`
	Sources        []string `json:"sources,omitempty"`
}

// Joined returns the separator-joined form of each list in column order:
// subjects_es, subjects_en, descriptions_es, descriptions_en, sources.
func (m MultiValues) Joined() [5]string {
	return [5]string{
		strings.Join(m.SubjectsES, MultiValueSeparator),
		strings.Join(m.SubjectsEN, MultiValueSeparator),
		strings.Join(m.DescriptionsES, MultiValueSeparator),
		strings.Join(m.DescriptionsEN, MultiValueSeparator),
		strings.Join(m.Sources, MultiValueSeparator),
	}
}

// DisplayTitle returns the Spanish title, then the English one, then a placeholder.
func (r *Record) DisplayTitle() string {
	switch {
	case r.TitleES != "":
		return r.TitleES
	case r.TitleEN != "":
		return r.TitleEN
	default:
		return "Artículo sin título"
	}
}

// Validate checks that the record can be reconciled.
func (r *Record) Validate() error {
	if r.Identifier == "" {
		return &ValidationError{Field: "identifier", Message: "is required"}
	}
	if r.SourceID <= 0 {
		return &ValidationError{Field: "source_id", Message: "must be positive"}
	}
	return nil
}
