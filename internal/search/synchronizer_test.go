package search

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toonhive/toonhive/internal/models"
)

func newTestSynchronizer(t *testing.T) *Synchronizer {
	t.Helper()
	s, err := NewMemOnly(zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testTitle(id uint, name string, updatedAt time.Time) *models.Title {
	return &models.Title{
		ID:        id,
		Name:      name,
		Creator:   "Hana Kim",
		Day:       models.DayMonday,
		Genre:     "fantasy",
		UpdatedAt: updatedAt,
	}
}

func TestUpsertAndSearchByName(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testTitle(1, "Tower Climbers", time.Now())))

	result, err := s.Search(ctx, "tower", 0)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "1", result.Documents[0].ID)
	assert.Equal(t, "tower climbers", result.Documents[0].Name)
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()
	title := testTitle(1, "Tower Climbers", time.Now())

	require.NoError(t, s.Upsert(ctx, title))
	require.NoError(t, s.Upsert(ctx, title))
	require.NoError(t, s.Upsert(ctx, title))

	count, err := s.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestUpsertSkipsStaleVersion(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()
	older := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	newer := older.Add(time.Hour)

	require.NoError(t, s.Upsert(ctx, testTitle(1, "Renamed Tower", newer)))
	// A delayed re-sync delivering the pre-rename projection must not win.
	require.NoError(t, s.Upsert(ctx, testTitle(1, "Tower Climbers", older)))

	result, err := s.Search(ctx, "renamed", 0)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "renamed tower", result.Documents[0].Name)
}

func TestUpsertSubSecondNewerVersionWins(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()
	wholeSecond := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	halfLater := wholeSecond.Add(500 * time.Millisecond)

	require.NoError(t, s.Upsert(ctx, testTitle(1, "Tower Climbers", wholeSecond)))
	// The whole-second version renders without a fraction; the sub-second
	// update must still be recognized as newer.
	require.NoError(t, s.Upsert(ctx, testTitle(1, "Renamed Tower", halfLater)))

	result, err := s.Search(ctx, "renamed", 0)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "renamed tower", result.Documents[0].Name)
}

func TestSearchMatchesCreatorAndGenre(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testTitle(1, "Tower Climbers", time.Now())))

	byCreator, err := s.Search(ctx, "hana", 0)
	require.NoError(t, err)
	assert.Len(t, byCreator.Documents, 1)

	byGenre, err := s.Search(ctx, "fantasy", 0)
	require.NoError(t, err)
	assert.Len(t, byGenre.Documents, 1)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testTitle(1, "Tower Climbers", time.Now())))

	result, err := s.Search(ctx, "TOWER", 0)
	require.NoError(t, err)
	assert.Len(t, result.Documents, 1)
}

func TestSearchToleratesOneEdit(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, testTitle(1, "Tower Climbers", time.Now())))

	result, err := s.Search(ctx, "towr", 0)
	require.NoError(t, err)
	assert.Len(t, result.Documents, 1)
}

func TestSearchPagination(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()

	for i := uint(1); i <= 12; i++ {
		title := testTitle(i, "Story "+string(rune('A'+i)), time.Now())
		require.NoError(t, s.Upsert(ctx, title))
	}

	first, err := s.Search(ctx, "fantasy", 0)
	require.NoError(t, err)
	assert.Len(t, first.Documents, PageSize)
	assert.Equal(t, uint64(12), first.Total)
	assert.Equal(t, 2, first.TotalPages)

	second, err := s.Search(ctx, "fantasy", 1)
	require.NoError(t, err)
	assert.Len(t, second.Documents, 2)
}

func TestReindexAllRemovesOrphans(t *testing.T) {
	s := newTestSynchronizer(t)
	ctx := context.Background()

	live := testTitle(1, "Survivor", time.Now())
	orphan := testTitle(2, "Deleted Story", time.Now())
	require.NoError(t, s.Upsert(ctx, live))
	require.NoError(t, s.Upsert(ctx, orphan))

	require.NoError(t, s.ReindexAll(ctx, []models.Title{*live}))

	count, err := s.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	result, err := s.Search(ctx, "deleted", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Documents)
}

func TestDocumentIDRoundTrip(t *testing.T) {
	id, err := TitleID(DocumentID(42))
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestDocumentFromTitleNormalizes(t *testing.T) {
	doc := DocumentFromTitle(testTitle(7, "  Tower CLIMBERS ", time.Now()))
	assert.Equal(t, "7", doc.ID)
	assert.Equal(t, "tower climbers", doc.Name)
	assert.Equal(t, "hana kim", doc.Creator)
	assert.Equal(t, "MON", doc.Day)
}
