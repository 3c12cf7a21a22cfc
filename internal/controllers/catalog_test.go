package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
)

func TestCreateTitleBecomesSearchable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Tower Climbers", models.DayMonday)

	result, err := env.catalog.SearchTitles(ctx, "tower", 0)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)

	id, err := env.search.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.Equal(t, "tower climbers", result.Documents[0].Name)
	assert.NotZero(t, title.ID)
}

func TestCreateTitleDuplicateNameConflict(t *testing.T) {
	env := newTestEnv(t)
	env.createTitle(t, "Tower Climbers", models.DayMonday)

	_, err := env.catalog.CreateTitle(context.Background(), TitleInput{
		Name:    "Tower Climbers",
		Creator: "someone else",
		Day:     models.DayFriday,
	})
	assert.True(t, errs.IsCode(err, errs.CodeConflict))
}

func TestCreateTitleValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateTitle(ctx, TitleInput{Creator: "x", Day: models.DayMonday})
	assert.True(t, errs.IsCode(err, errs.CodeValidation))

	_, err = env.catalog.CreateTitle(ctx, TitleInput{Name: "x", Day: models.DayMonday})
	assert.True(t, errs.IsCode(err, errs.CodeValidation))

	_, err = env.catalog.CreateTitle(ctx, TitleInput{Name: "x", Creator: "y", Day: "SOMEDAY"})
	assert.True(t, errs.IsCode(err, errs.CodeValidation))
}

func TestListByDaySeesNewTitles(t *testing.T) {
	env := newTestEnv(t)

	env.createTitle(t, "First", models.DayMonday)

	page, err := env.catalog.ListByDay(models.DayMonday, models.SortNewest, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	// The listing is now cached; the next create must invalidate it.
	env.createTitle(t, "Second", models.DayMonday)

	page, err = env.catalog.ListByDay(models.DayMonday, models.SortNewest, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestUpdateTitleMovesBetweenDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Wanderer", models.DayMonday)

	monday, err := env.catalog.ListByDay(models.DayMonday, models.SortNewest, 0)
	require.NoError(t, err)
	require.Len(t, monday.Items, 1)

	_, err = env.catalog.UpdateTitle(ctx, title.ID, TitleInput{
		Name:    "Wanderer",
		Creator: "creator",
		Day:     models.DayTuesday,
		Genre:   "fantasy",
	})
	require.NoError(t, err)

	monday, err = env.catalog.ListByDay(models.DayMonday, models.SortNewest, 0)
	require.NoError(t, err)
	assert.Empty(t, monday.Items)

	tuesday, err := env.catalog.ListByDay(models.DayTuesday, models.SortNewest, 0)
	require.NoError(t, err)
	assert.Len(t, tuesday.Items, 1)
}

func TestUpdateTitlePreservesEngagementCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Busy", models.DayMonday)
	episode := env.createEpisode(t, title.ID, "Episode 1")
	user := env.createUser(t, "alice")

	counted, err := env.views.RegisterView(title.ID, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, counted)

	_, err = env.ratings.AddRating(episode.ID, user.ID, 4)
	require.NoError(t, err)

	_, err = env.catalog.UpdateTitle(ctx, title.ID, TitleInput{
		Name:    "Busy Renamed",
		Creator: "creator",
		Day:     models.DayMonday,
		Genre:   "fantasy",
	})
	require.NoError(t, err)

	reloaded, err := env.db.GetTitleByID(title.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.ViewCount)
	assert.InDelta(t, 4.0, reloaded.AvgRating, 0.0001)
}

func TestUpdateTitleNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.UpdateTitle(context.Background(), 99, TitleInput{
		Name:    "Ghost",
		Creator: "creator",
		Day:     models.DayMonday,
	})
	assert.True(t, errs.IsCode(err, errs.CodeNotFound))
}

func TestDeleteTitleRemovesFromListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Doomed", models.DayMonday)

	_, err := env.catalog.ListByDay(models.DayMonday, models.SortNewest, 0)
	require.NoError(t, err)

	require.NoError(t, env.catalog.DeleteTitle(ctx, title.ID))

	page, err := env.catalog.ListByDay(models.DayMonday, models.SortNewest, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = env.catalog.GetTitle(title.ID)
	assert.True(t, errs.IsCode(err, errs.CodeNotFound))
}

func TestCreateTitleSurvivesIndexFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A dead index degrades search freshness but must not undo the write.
	require.NoError(t, env.search.Close())

	title, err := env.catalog.CreateTitle(ctx, TitleInput{
		Name:    "Unindexed",
		Creator: "creator",
		Day:     models.DayMonday,
		Genre:   "fantasy",
	})
	require.NotNil(t, title)
	assert.True(t, errs.IsCode(err, errs.CodeIndexPending))

	exists, err := env.db.TitleExistsByName("Unindexed")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestReindexRemovesDeletedTitles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	keep := env.createTitle(t, "Survivor", models.DayMonday)
	doomed := env.createTitle(t, "Doomed Story", models.DayMonday)

	require.NoError(t, env.catalog.DeleteTitle(ctx, doomed.ID))

	// Deletion leaves the document orphaned until the next full re-sync.
	result, err := env.catalog.SearchTitles(ctx, "doomed", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Documents)

	require.NoError(t, env.catalog.Reindex(ctx))

	result, err = env.catalog.SearchTitles(ctx, "doomed", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Documents)

	result, err = env.catalog.SearchTitles(ctx, "survivor", 0)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "survivor", result.Documents[0].Name)
	assert.NotZero(t, keep.ID)
}

func TestTitleNameExistenceFollowsLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	title := env.createTitle(t, "Transient", models.DayMonday)

	exists, err := env.db.TitleExistsByName("Transient")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, env.catalog.DeleteTitle(ctx, title.ID))

	exists, err = env.db.TitleExistsByName("Transient")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSearchTitlesKeywordRequired(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.SearchTitles(context.Background(), "", 0)
	assert.True(t, errs.IsCode(err, errs.CodeValidation))
}

func TestListByDayRejectsUnknownInputs(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.ListByDay("SOMEDAY", models.SortNewest, 0)
	assert.True(t, errs.IsCode(err, errs.CodeValidation))

	_, err = env.catalog.ListByDay(models.DayMonday, "oldest", 0)
	assert.True(t, errs.IsCode(err, errs.CodeValidation))
}
