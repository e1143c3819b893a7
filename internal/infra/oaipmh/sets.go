package oaipmh

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/usecase/harvest"
)

// codeNoSetHierarchy is returned by repositories that do not support sets.
const codeNoSetHierarchy = "noSetHierarchy"

// ListSets returns every set of the repository, following resumption tokens
// up to the client's page bound. A repository without sets yields an empty list.
func (c *Client) ListSets(ctx context.Context, baseURL string) ([]entity.Set, error) {
	ctx, span := c.tracer.Start(ctx, "oaipmh.ListSets")
	defer span.End()

	var (
		sets  []entity.Set
		token string
	)
	for page := 1; ; page++ {
		if page > c.cfg.MaxPages {
			return sets, fmt.Errorf("ListSets: %w", harvest.ErrMaxPagesExceeded)
		}
		body, err := c.Get(ctx, baseURL, Request{Verb: VerbListSets, ResumptionToken: token})
		if err != nil {
			return sets, fmt.Errorf("ListSets: %w", err)
		}
		batch, next, err := ParseListSets(body)
		if err != nil {
			return sets, fmt.Errorf("ListSets: %w", err)
		}
		sets = append(sets, batch...)
		if next == "" {
			return sets, nil
		}
		token = next
	}
}

// ParseListSets decodes one ListSets response into its sets and trimmed resumption token.
func ParseListSets(data []byte) ([]entity.Set, string, error) {
	env, err := decode(data)
	if err != nil {
		return nil, "", err
	}
	if err := env.oaiError(codeNoSetHierarchy); err != nil {
		return nil, "", err
	}
	if env.ListSets == nil {
		if env.hasError(codeNoSetHierarchy) {
			return nil, "", nil
		}
		return nil, "", &harvest.ProtocolParseError{Err: errors.New("response has no ListSets element")}
	}

	sets := make([]entity.Set, 0, len(env.ListSets.Sets))
	for _, s := range env.ListSets.Sets {
		spec := strings.TrimSpace(s.Spec)
		if spec == "" {
			continue
		}
		sets = append(sets, entity.Set{Spec: spec, Name: strings.TrimSpace(s.Name)})
	}
	var token string
	if env.ListSets.Token != nil {
		token = strings.TrimSpace(env.ListSets.Token.Value)
	}
	return sets, token, nil
}
