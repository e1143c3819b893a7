package harvest

import "context"

// PageFetcher issues one ListRecords request and parses the response.
// The first request of a harvest carries metadataPrefix; every later one
// carries only the resumption token returned by the previous page.
type PageFetcher interface {
	ListRecords(ctx context.Context, baseURL, metadataPrefix, token string) (*Page, error)
}

// Page is one parsed ListRecords response.
// Token is trimmed; "" means the list is complete.
type Page struct {
	Records []RawRecord
	Skipped []SkipNotice
	Token   string
}

// RawRecord holds the header and Dublin Core values of one record exactly as
// harvested, before any normalization.
type RawRecord struct {
	Identifier string
	Datestamp  string
	SetSpec    string

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
	Date          string

	SubjectsES     []string
	SubjectsEN     []string
	DescriptionsES []string
	DescriptionsEN []string
	Sources        []string
}

// SkipNotice describes a record that was left out of a page.
type SkipNotice struct {
	Page       int    `json:"page"`
	Index      int    `json:"index"`
	Identifier string `json:"identifier,omitempty"`
	Reason     string `json:"reason"`
}
