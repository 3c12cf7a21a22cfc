package controllers

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/toonhive/toonhive/internal/cache"
	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
)

// CommentController coordinates comment writes and the cached comment
// listings.
type CommentController struct {
	db     *models.Database
	cache  *cache.Store
	logger zerolog.Logger
}

// NewCommentController creates a new comment controller.
func NewCommentController(db *models.Database, cacheStore *cache.Store, logger zerolog.Logger) *CommentController {
	return &CommentController{db: db, cache: cacheStore, logger: logger}
}

// CreateComment posts a comment on an episode.
func (c *CommentController) CreateComment(episodeID, userID uint, body string) (*models.Comment, error) {
	if body == "" {
		return nil, errs.Validation("comment body is required")
	}

	exists, err := c.db.EpisodeExists(episodeID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if !exists {
		return nil, errs.NotFound("episode not found")
	}

	userExists, err := c.db.UserExists(userID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if !userExists {
		return nil, errs.NotFound("user not found")
	}

	comment := &models.Comment{EpisodeID: episodeID, UserID: userID, Body: body}
	if err := c.db.CreateComment(comment); err != nil {
		return nil, errs.Internal(err)
	}

	c.invalidateListings()
	return comment, nil
}

// UpdateComment edits a comment the user owns. A comment owned by someone
// else is reported as not found, not as forbidden.
func (c *CommentController) UpdateComment(commentID, userID uint, body string) (*models.Comment, error) {
	if body == "" {
		return nil, errs.Validation("comment body is required")
	}

	comment, err := c.db.GetCommentByIDAndUser(commentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("comment not found")
		}
		return nil, errs.Internal(err)
	}

	comment.Body = body
	if err := c.db.SaveComment(comment); err != nil {
		return nil, errs.Internal(err)
	}

	c.invalidateListings()
	return comment, nil
}

// DeleteComment removes a comment through the self-service path: it only
// succeeds for the comment's owner.
func (c *CommentController) DeleteComment(commentID, userID uint) error {
	if err := c.db.DeleteCommentByIDAndUser(commentID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("comment not found")
		}
		return errs.Internal(err)
	}

	c.invalidateListings()
	return nil
}

// DeleteCommentPrivileged removes any comment regardless of ownership.
func (c *CommentController) DeleteCommentPrivileged(commentID uint) error {
	if err := c.db.DeleteComment(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("comment not found")
		}
		return errs.Internal(err)
	}

	c.invalidateListings()
	return nil
}

func (c *CommentController) invalidateListings() {
	c.cache.Invalidate(cache.NamespaceCommentsByEpisode, cache.NamespaceCommentsByUser)
}

// ListByEpisode returns one page of an episode's comments through the cache.
func (c *CommentController) ListByEpisode(episodeID uint, page int) (*models.Page[models.Comment], error) {
	if page < 0 {
		page = 0
	}

	key := cache.Key("comments_by_episode", episodeID, page)
	value, err := c.cache.GetOrCompute(cache.NamespaceCommentsByEpisode, key, func() (any, error) {
		result, err := c.db.ListCommentsByEpisode(episodeID, page, PageSize)
		if err != nil {
			return nil, errs.Internal(err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.Page[models.Comment]), nil
}

// ListByUser returns one page of a user's comments through the cache.
func (c *CommentController) ListByUser(userID uint, page int) (*models.Page[models.Comment], error) {
	if page < 0 {
		page = 0
	}

	key := cache.Key("comments_by_user", userID, page)
	value, err := c.cache.GetOrCompute(cache.NamespaceCommentsByUser, key, func() (any, error) {
		result, err := c.db.ListCommentsByUser(userID, page, PageSize)
		if err != nil {
			return nil, errs.Internal(err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.Page[models.Comment]), nil
}
