package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
)

func TestCreateCommentListedImmediately(t *testing.T) {
	env := newTestEnv(t)
	title := env.createTitle(t, "Discussed", models.DayMonday)
	episode := env.createEpisode(t, title.ID, "Episode 1")
	user := env.createUser(t, "alice")

	// Prime both comment listings so the write has cached entries to kill.
	_, err := env.comments.ListByEpisode(episode.ID, 0)
	require.NoError(t, err)
	_, err = env.comments.ListByUser(user.ID, 0)
	require.NoError(t, err)

	_, err = env.comments.CreateComment(episode.ID, user.ID, "great chapter")
	require.NoError(t, err)

	byEpisode, err := env.comments.ListByEpisode(episode.ID, 0)
	require.NoError(t, err)
	require.Len(t, byEpisode.Items, 1)
	assert.Equal(t, "great chapter", byEpisode.Items[0].Body)

	byUser, err := env.comments.ListByUser(user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, byUser.Items, 1)
}

func TestCreateCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	title := env.createTitle(t, "Discussed", models.DayMonday)
	episode := env.createEpisode(t, title.ID, "Episode 1")
	user := env.createUser(t, "alice")

	_, err := env.comments.CreateComment(episode.ID, user.ID, "")
	assert.True(t, errs.IsCode(err, errs.CodeValidation))

	_, err = env.comments.CreateComment(99, user.ID, "orphan")
	assert.True(t, errs.IsCode(err, errs.CodeNotFound))
}

func TestUpdateCommentOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	title := env.createTitle(t, "Discussed", models.DayMonday)
	episode := env.createEpisode(t, title.ID, "Episode 1")
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")

	comment, err := env.comments.CreateComment(episode.ID, owner.ID, "original")
	require.NoError(t, err)

	// Someone else's comment reads as missing, not as forbidden.
	_, err = env.comments.UpdateComment(comment.ID, other.ID, "hijacked")
	assert.True(t, errs.IsCode(err, errs.CodeNotFound))

	updated, err := env.comments.UpdateComment(comment.ID, owner.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	title := env.createTitle(t, "Discussed", models.DayMonday)
	episode := env.createEpisode(t, title.ID, "Episode 1")
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")

	comment, err := env.comments.CreateComment(episode.ID, owner.ID, "mine")
	require.NoError(t, err)

	err = env.comments.DeleteComment(comment.ID, other.ID)
	assert.True(t, errs.IsCode(err, errs.CodeNotFound))

	require.NoError(t, env.comments.DeleteComment(comment.ID, owner.ID))

	page, err := env.comments.ListByEpisode(episode.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestDeleteCommentPrivilegedIgnoresOwnership(t *testing.T) {
	env := newTestEnv(t)
	title := env.createTitle(t, "Moderated", models.DayMonday)
	episode := env.createEpisode(t, title.ID, "Episode 1")
	owner := env.createUser(t, "owner")

	comment, err := env.comments.CreateComment(episode.ID, owner.ID, "spam")
	require.NoError(t, err)

	require.NoError(t, env.comments.DeleteCommentPrivileged(comment.ID))

	err = env.comments.DeleteCommentPrivileged(comment.ID)
	assert.True(t, errs.IsCode(err, errs.CodeNotFound))
}
