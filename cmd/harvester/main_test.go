package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/usecase/harvest"
	srcUC "oai-harvester/internal/usecase/source"
)

/*────────────────────  スタブ  ────────────────────*/

type stubSources struct {
	list    []*entity.Source
	created srcUC.CreateInput
	deleted int64
	desc    *entity.SourceDescriptor
	sets    []entity.Set
	err     error
}

func (s *stubSources) List(context.Context) ([]*entity.Source, error) { return s.list, s.err }
func (s *stubSources) Create(_ context.Context, in srcUC.CreateInput) (*entity.Source, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	name := in.Name
	if name == "" && s.desc != nil {
		name = s.desc.RepositoryName
	}
	return &entity.Source{ID: 11, Name: name, BaseURL: in.BaseURL, MetadataPrefix: in.MetadataPrefix}, nil
}
func (s *stubSources) Refresh(_ context.Context, id int64) (*entity.Source, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Source{ID: id, Name: s.desc.RepositoryName, Descriptor: *s.desc}, nil
}
func (s *stubSources) Delete(_ context.Context, id int64) error {
	s.deleted = id
	return s.err
}
func (s *stubSources) Identify(context.Context, string) (*entity.SourceDescriptor, error) {
	return s.desc, s.err
}
func (s *stubSources) ListSets(context.Context, string) ([]entity.Set, error) {
	return s.sets, s.err
}

type stubHarvester struct {
	res       *harvest.BatchResult
	filled    int
	err       error
	gotIDs    []int64
	gotAll    bool
	gotPrefix string
}

func (s *stubHarvester) Harvest(_ context.Context, id int64, _ string) (*harvest.Summary, error) {
	return &harvest.Summary{SourceID: id}, s.err
}
func (s *stubHarvester) HarvestMany(_ context.Context, ids []int64, prefix string) (*harvest.BatchResult, error) {
	s.gotIDs, s.gotPrefix = ids, prefix
	if len(ids) == 0 {
		return nil, harvest.ErrNoSourcesSelected
	}
	return s.res, s.err
}
func (s *stubHarvester) HarvestAll(_ context.Context, prefix string) (*harvest.BatchResult, error) {
	s.gotAll, s.gotPrefix = true, prefix
	return s.res, s.err
}
func (s *stubHarvester) Backfill(context.Context) (int, error) { return s.filled, s.err }

// execute runs the root command against stubs and returns its output.
func execute(t *testing.T, src *stubSources, h *stubHarvester, args ...string) (string, error) {
	t.Helper()
	oldSources, oldHarvester := sources, harvester
	sources, harvester = src, h
	harvestAll, harvestPrefix, harvestJSON = false, "", false
	sourceAddInput = srcUC.CreateInput{}
	t.Cleanup(func() {
		sources, harvester = oldSources, oldHarvester
		rootCmd.SetArgs(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

var descriptor = &entity.SourceDescriptor{
	RepositoryName:      "Revista de Historia",
	ProtocolVersion:     "2.0",
	AdminEmail:          "admin@example.org",
	EarliestDatestamp:   time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
	DeletedRecordPolicy: "persistent",
	Granularity:         "YYYY-MM-DD",
}

/* ───────── 1. sources ───────── */

func TestSourcesList(t *testing.T) {
	harvested := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	src := &stubSources{list: []*entity.Source{
		{ID: 1, Name: "Alpha", BaseURL: "https://alpha.example.org/oai", LastHarvestAt: &harvested},
		{ID: 2, BaseURL: "https://beta.example.org/oai", MetadataPrefix: "marcxml"},
	}}

	out, err := execute(t, src, &stubHarvester{}, "sources", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "2024-05-01T12:00:00Z")
	assert.Contains(t, out, "Revista sin nombre")
	assert.Contains(t, out, "marcxml")
	assert.Contains(t, out, "never")
}

func TestSourcesList_Empty(t *testing.T) {
	out, err := execute(t, &stubSources{}, &stubHarvester{}, "sources", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No sources registered.")
}

func TestSourcesAdd(t *testing.T) {
	src := &stubSources{desc: descriptor}

	out, err := execute(t, src, &stubHarvester{},
		"sources", "add", "https://alpha.example.org/oai", "--prefix", "marcxml", "--official-url", "https://alpha.example.org")

	require.NoError(t, err)
	assert.Equal(t, "https://alpha.example.org/oai", src.created.BaseURL)
	assert.Equal(t, "marcxml", src.created.MetadataPrefix)
	assert.Equal(t, "https://alpha.example.org", src.created.OfficialURL)
	assert.Empty(t, src.created.Name)
	assert.Contains(t, out, "Registered source 11: Revista de Historia")
}

func TestSourcesAdd_Duplicate(t *testing.T) {
	src := &stubSources{err: srcUC.ErrDuplicateSource}

	_, err := execute(t, src, &stubHarvester{}, "sources", "add", "https://alpha.example.org/oai", "--name", "Alpha")

	assert.ErrorIs(t, err, srcUC.ErrDuplicateSource)
	assert.Equal(t, "Alpha", src.created.Name)
}

func TestSourcesDelete(t *testing.T) {
	src := &stubSources{}

	out, err := execute(t, src, &stubHarvester{}, "sources", "delete", "7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), src.deleted)
	assert.Contains(t, out, "Deleted source 7.")

	_, err = execute(t, src, &stubHarvester{}, "sources", "delete", "abc")
	assert.ErrorContains(t, err, "invalid source id")
}

func TestSourcesRefresh(t *testing.T) {
	out, err := execute(t, &stubSources{desc: descriptor}, &stubHarvester{}, "sources", "refresh", "3")

	require.NoError(t, err)
	assert.Contains(t, out, "Refreshed source 3: Revista de Historia")
	assert.Contains(t, out, "protocol:     2.0")
}

/* ───────── 2. identify / sets ───────── */

func TestIdentify(t *testing.T) {
	out, err := execute(t, &stubSources{desc: descriptor}, &stubHarvester{}, "identify", "https://alpha.example.org/oai")

	require.NoError(t, err)
	assert.Contains(t, out, "Repository:   Revista de Historia")
	assert.Contains(t, out, "Earliest:     2001-01-01T00:00:00Z")
	assert.Contains(t, out, "Deleted:      persistent")
}

func TestIdentify_RequiresURL(t *testing.T) {
	_, err := execute(t, &stubSources{}, &stubHarvester{}, "identify")
	assert.Error(t, err)
}

func TestSets(t *testing.T) {
	src := &stubSources{sets: []entity.Set{{Spec: "hist", Name: "Historia"}}}

	out, err := execute(t, src, &stubHarvester{}, "sets", "https://alpha.example.org/oai")

	require.NoError(t, err)
	assert.Contains(t, out, "hist")
	assert.Contains(t, out, "Historia")

	out, err = execute(t, &stubSources{}, &stubHarvester{}, "sets", "https://alpha.example.org/oai")
	require.NoError(t, err)
	assert.Contains(t, out, "Repository advertises no sets.")
}

/* ───────── 3. harvest / backfill ───────── */

func TestHarvest_SelectedSources(t *testing.T) {
	h := &stubHarvester{res: &harvest.BatchResult{
		Succeeded: 2,
		Summaries: []*harvest.Summary{
			{SourceID: 1, Pages: 3, Created: 250, SkipNotices: []harvest.SkipNotice{{Page: 2, Index: 4, Reason: "missing identifier"}}},
			{SourceID: 2, Pages: 1, Updated: 10},
		},
		Errors: []string{},
	}}

	out, err := execute(t, &stubSources{}, h, "harvest", "1", "2", "--prefix", "oai_dc")

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, h.gotIDs)
	assert.Equal(t, "oai_dc", h.gotPrefix)
	assert.Contains(t, out, "source 1: 3 pages, 250 created")
	assert.Contains(t, out, "skipped page 2 record 4: missing identifier")
	assert.Contains(t, out, "Harvested 2 sources successfully.")
}

func TestHarvest_PartialFailure(t *testing.T) {
	h := &stubHarvester{res: &harvest.BatchResult{
		Succeeded: 1,
		Summaries: []*harvest.Summary{{SourceID: 1}},
		Errors:    []string{"source 2: transport error"},
	}}

	out, err := execute(t, &stubSources{}, h, "harvest", "--all")

	assert.True(t, h.gotAll)
	assert.EqualError(t, err, "1 of 2 sources failed")
	assert.Contains(t, out, "error: source 2: transport error")
}

func TestHarvest_InvalidSelection(t *testing.T) {
	_, err := execute(t, &stubSources{}, &stubHarvester{}, "harvest")
	assert.ErrorIs(t, err, harvest.ErrNoSourcesSelected)

	_, err = execute(t, &stubSources{}, &stubHarvester{}, "harvest", "1", "--all")
	assert.ErrorContains(t, err, "must not be combined")

	_, err = execute(t, &stubSources{}, &stubHarvester{}, "harvest", "0")
	assert.ErrorContains(t, err, "invalid source id")
}

func TestHarvest_JSON(t *testing.T) {
	h := &stubHarvester{res: &harvest.BatchResult{Succeeded: 1, Summaries: []*harvest.Summary{{SourceID: 5}}, Errors: []string{}}}

	out, err := execute(t, &stubSources{}, h, "harvest", "5", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"succeeded": 1`)
	assert.Contains(t, out, `"source_id": 5`)
}

func TestBackfill(t *testing.T) {
	out, err := execute(t, &stubSources{}, &stubHarvester{filled: 2}, "backfill")
	require.NoError(t, err)
	assert.Contains(t, out, "Filled publisher for 2 sources.")

	_, err = execute(t, &stubSources{}, &stubHarvester{err: errors.New("db down")}, "backfill")
	assert.EqualError(t, err, "db down")
}
