package oaipmh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/usecase/harvest"
)

func TestClient_ListSets_FollowsTokens(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		if r.URL.Query().Get("resumptionToken") == "sets2" {
			_, _ = w.Write([]byte(listSetsLastXML))
			return
		}
		_, _ = w.Write([]byte(listSetsXML))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Config{})
	sets, err := c.ListSets(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, []entity.Set{
		{Spec: "ra", Name: "Revista Andina"},
		{Spec: "ra:ART", Name: "Artículos"},
		{Spec: "ra:RES", Name: "Reseñas"},
	}, sets)
	assert.Equal(t, []string{"verb=ListSets", "resumptionToken=sets2&verb=ListSets"}, queries)
}

func TestClient_ListSets_NoSetHierarchy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(noSetHierarchyXML))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Config{})
	sets, err := c.ListSets(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, sets)
}

func TestClient_ListSets_PageBound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listSetsXML))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), Config{MaxPages: 3})
	sets, err := c.ListSets(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, harvest.ErrMaxPagesExceeded))
	assert.Len(t, sets, 6)
}

func TestParseListSets_SkipsBlankSpecs(t *testing.T) {
	body := `<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"><ListSets>
		<set><setSpec> </setSpec><setName>nothing</setName></set>
		<set><setSpec>a</setSpec></set>
	</ListSets></OAI-PMH>`

	sets, token, err := ParseListSets([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, []entity.Set{{Spec: "a"}}, sets)
	assert.Empty(t, token)
}
