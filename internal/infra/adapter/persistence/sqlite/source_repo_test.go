package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/infra/adapter/persistence/sqlite"
)

// ─────────────────────────────────────────────
// 1. Create / Get
// ─────────────────────────────────────────────
func TestSourceRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(newTestDB(t))

	src := newSource("https://revistas.example.edu/index.php/historia/oai", "Revista de Historia")
	src.OfficialURL = "https://revistas.example.edu/index.php/historia"
	src.Descriptor.EarliestDatestamp = time.Date(2010, 1, 2, 3, 4, 5, 0, time.UTC)
	src.Descriptor.Compressions = []string{"gzip", "deflate"}
	src.Descriptor.ToolkitTitle = "Open Journal Systems"

	require.NoError(t, repo.Create(ctx, src))
	require.NotZero(t, src.ID)

	got, err := repo.Get(ctx, src.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Revista de Historia", got.Name)
	assert.Equal(t, "oai_dc", got.MetadataPrefix)
	assert.Equal(t, []string{"gzip", "deflate"}, got.Descriptor.Compressions)
	assert.True(t, src.Descriptor.EarliestDatestamp.Equal(got.Descriptor.EarliestDatestamp))
	assert.Equal(t, "Open Journal Systems", got.Descriptor.ToolkitTitle)
	assert.Nil(t, got.LastHarvestAt)

	byURL, err := repo.GetByBaseURL(ctx, src.BaseURL)
	require.NoError(t, err)
	assert.Equal(t, src.ID, byURL.ID)
}

func TestSourceRepo_Get_NotFound(t *testing.T) {
	repo := sqlite.NewSourceRepo(newTestDB(t))

	got, err := repo.Get(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSourceRepo_Create_DuplicateBaseURL(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newSource("https://a.example/oai", "A")))
	err := repo.Create(ctx, newSource("https://a.example/oai", "A bis"))
	assert.ErrorIs(t, err, entity.ErrDuplicateBaseURL)
}

// ─────────────────────────────────────────────
// 2. List / ListWithoutPublisher
// ─────────────────────────────────────────────
func TestSourceRepo_List(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(newTestDB(t))

	a := newSource("https://a.example/oai", "A")
	b := newSource("https://b.example/oai", "B")
	b.Publisher = "Editorial B"
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)

	missing, err := repo.ListWithoutPublisher(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, a.ID, missing[0].ID)
}

// ─────────────────────────────────────────────
// 3. Update / Delete
// ─────────────────────────────────────────────
func TestSourceRepo_Update(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(newTestDB(t))

	src := newSource("https://a.example/oai", "A")
	require.NoError(t, repo.Create(ctx, src))

	src.Description = "Revista trimestral"
	src.MetadataPrefix = "oai_marc"
	require.NoError(t, repo.Update(ctx, src))

	got, err := repo.Get(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, "Revista trimestral", got.Description)
	assert.Equal(t, "oai_marc", got.MetadataPrefix)

	src.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, src), entity.ErrNotFound)
}

func TestSourceRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(newTestDB(t))

	src := newSource("https://a.example/oai", "A")
	require.NoError(t, repo.Create(ctx, src))

	require.NoError(t, repo.Delete(ctx, src.ID))
	assert.ErrorIs(t, repo.Delete(ctx, src.ID), entity.ErrNotFound)
}

// ─────────────────────────────────────────────
// 4. TouchHarvestedAt / FillPublisher
// ─────────────────────────────────────────────
func TestSourceRepo_TouchHarvestedAt(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(newTestDB(t))

	src := newSource("https://a.example/oai", "A")
	require.NoError(t, repo.Create(ctx, src))

	at := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.TouchHarvestedAt(ctx, src.ID, at))

	got, err := repo.Get(ctx, src.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastHarvestAt)
	assert.True(t, at.Equal(*got.LastHarvestAt))
}

func TestSourceRepo_FillPublisher_NeverOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(newTestDB(t))

	src := newSource("https://a.example/oai", "A")
	require.NoError(t, repo.Create(ctx, src))

	changed, err := repo.FillPublisher(ctx, src.ID, "Universidad Nacional")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.FillPublisher(ctx, src.ID, "Otra Editorial")
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.Get(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, "Universidad Nacional", got.Publisher)
}
