package oaipmh

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oai-harvester/internal/domain/entity"
)

// Layouts accepted for earliestDatestamp: UTC with a trailing Z, a bare local
// timestamp, and day granularity.
var identifyDateLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FetchIdentity issues a single Identify request against baseURL and returns
// the repository's self-description. Nothing is persisted.
func (c *Client) FetchIdentity(ctx context.Context, baseURL string) (*entity.SourceDescriptor, error) {
	ctx, span := c.tracer.Start(ctx, "oaipmh.Identify")
	defer span.End()

	body, err := c.Get(ctx, baseURL, Request{Verb: VerbIdentify})
	if err != nil {
		span.RecordError(err)
		return nil, &FetchError{BaseURL: baseURL, Step: "request", Err: err}
	}
	desc, err := ParseIdentify(body)
	if err != nil {
		span.RecordError(err)
		if fe, ok := err.(*FetchError); ok {
			fe.BaseURL = baseURL
			return nil, fe
		}
		return nil, &FetchError{BaseURL: baseURL, Step: "parse", Err: err}
	}
	return desc, nil
}

// ParseIdentify decodes an Identify response. A missing required element or an
// unparseable earliestDatestamp is a *FetchError naming the element.
func ParseIdentify(data []byte) (*entity.SourceDescriptor, error) {
	env, err := decode(data)
	if err != nil {
		return nil, &FetchError{Step: "parse", Err: err}
	}
	if err := env.oaiError(); err != nil {
		return nil, &FetchError{Step: "parse", Err: err}
	}
	id := env.Identify
	if id == nil {
		return nil, &FetchError{Step: "parse", Field: "Identify", Err: errMissing}
	}

	adminEmail := ""
	if len(id.AdminEmails) > 0 {
		adminEmail = strings.TrimSpace(id.AdminEmails[0])
	}
	required := []struct {
		field string
		value string
	}{
		{"repositoryName", id.RepositoryName},
		{"protocolVersion", id.ProtocolVersion},
		{"earliestDatestamp", id.EarliestDatestamp},
		{"deletedRecord", id.DeletedRecord},
		{"granularity", id.Granularity},
		{"adminEmail", adminEmail},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &FetchError{Step: "parse", Field: r.field, Err: errMissing}
		}
	}

	earliest, err := parseIdentifyDate(strings.TrimSpace(id.EarliestDatestamp))
	if err != nil {
		return nil, &FetchError{Step: "parse", Field: "earliestDatestamp", Err: err}
	}

	desc := &entity.SourceDescriptor{
		RepositoryName:      strings.TrimSpace(id.RepositoryName),
		ProtocolVersion:     strings.TrimSpace(id.ProtocolVersion),
		AdminEmail:          adminEmail,
		EarliestDatestamp:   earliest,
		DeletedRecordPolicy: strings.TrimSpace(id.DeletedRecord),
		Granularity:         strings.TrimSpace(id.Granularity),
		Compressions:        nonEmpty(id.Compressions),
	}
	for _, d := range id.Descriptions {
		if oi := d.OAIIdentifier; oi != nil && desc.RepositoryIdentifier == "" {
			desc.RepositoryIdentifier = strings.TrimSpace(oi.RepositoryIdentifier)
			desc.Delimiter = strings.TrimSpace(oi.Delimiter)
			desc.SampleIdentifier = strings.TrimSpace(oi.SampleIdentifier)
		}
		if tk := d.Toolkit; tk != nil && desc.ToolkitTitle == "" {
			desc.ToolkitTitle = strings.TrimSpace(tk.Title)
			desc.ToolkitAuthorName = strings.TrimSpace(tk.Author.Name)
			desc.ToolkitAuthorEmail = strings.TrimSpace(tk.Author.Email)
			desc.ToolkitVersion = strings.TrimSpace(tk.Version)
			desc.ToolkitURL = strings.TrimSpace(tk.URL)
		}
	}
	return desc, nil
}

func parseIdentifyDate(s string) (time.Time, error) {
	for _, layout := range identifyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
