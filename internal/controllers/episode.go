package controllers

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/toonhive/toonhive/internal/cache"
	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
	"github.com/toonhive/toonhive/internal/services/blobstore"
)

// EpisodeInput is the caller-supplied portion of an episode.
type EpisodeInput struct {
	Name      string
	Media     *Upload
	Thumbnail *Upload
}

// EpisodeController coordinates episode writes and the cached episode
// listing.
type EpisodeController struct {
	db     *models.Database
	cache  *cache.Store
	blobs  blobstore.Store
	logger zerolog.Logger
}

// NewEpisodeController creates a new episode controller.
func NewEpisodeController(db *models.Database, cacheStore *cache.Store, blobs blobstore.Store, logger zerolog.Logger) *EpisodeController {
	return &EpisodeController{
		db:     db,
		cache:  cacheStore,
		blobs:  blobs,
		logger: logger,
	}
}

// CreateEpisode adds an episode to a title. The episode name must be unique
// within the owning title.
func (c *EpisodeController) CreateEpisode(titleID uint, in EpisodeInput) (*models.Episode, error) {
	if in.Name == "" {
		return nil, errs.Validation("episode name is required")
	}

	exists, err := c.db.TitleExists(titleID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if !exists {
		return nil, errs.NotFound("title not found")
	}

	taken, err := c.db.EpisodeExistsByName(titleID, in.Name)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if taken {
		return nil, errs.Conflict("this title already has an episode with this name")
	}

	episode := &models.Episode{TitleID: titleID, Name: in.Name}
	if err := c.attachFiles(episode, in); err != nil {
		return nil, err
	}

	if err := c.db.CreateEpisode(episode); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("this title already has an episode with this name")
		}
		return nil, errs.Internal(err)
	}

	c.cache.Invalidate(cache.NamespaceEpisodesByTitle)
	return episode, nil
}

// UpdateEpisode edits an existing episode.
func (c *EpisodeController) UpdateEpisode(id uint, in EpisodeInput) (*models.Episode, error) {
	if in.Name == "" {
		return nil, errs.Validation("episode name is required")
	}

	episode, err := c.db.GetEpisodeByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("episode not found")
		}
		return nil, errs.Internal(err)
	}

	episode.Name = in.Name
	if err := c.attachFiles(episode, in); err != nil {
		return nil, err
	}

	if err := c.db.SaveEpisode(episode); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("this title already has an episode with this name")
		}
		return nil, errs.Internal(err)
	}

	c.cache.Invalidate(cache.NamespaceEpisodesByTitle)
	return episode, nil
}

func (c *EpisodeController) attachFiles(episode *models.Episode, in EpisodeInput) error {
	if in.Media != nil {
		ref, err := c.blobs.Save(in.Media.Data, in.Media.Name)
		if err != nil {
			return errs.Internal(err)
		}
		episode.MediaRef = ref
	}
	if in.Thumbnail != nil {
		ref, err := c.blobs.Save(in.Thumbnail.Data, in.Thumbnail.Name)
		if err != nil {
			return errs.Internal(err)
		}
		episode.ThumbnailRef = ref
	}
	return nil
}

// DeleteEpisode removes an episode; its ratings and comments cascade, which
// can shift the owning title's average rating, so that column is refreshed
// and every listing the cascade could touch is invalidated.
func (c *EpisodeController) DeleteEpisode(id uint) error {
	episode, err := c.db.GetEpisodeByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("episode not found")
		}
		return errs.Internal(err)
	}

	if err := c.db.DeleteEpisode(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("episode not found")
		}
		return errs.Internal(err)
	}

	if err := c.db.RefreshTitleAvgRating(episode.TitleID); err != nil {
		return errs.Internal(err)
	}

	c.cache.Invalidate(
		cache.NamespaceEpisodesByTitle,
		cache.NamespaceCommentsByEpisode,
		cache.NamespaceRatingsByUser,
		cache.NamespaceCommentsByUser,
		cache.NamespaceTitlesByDay,
	)
	return nil
}

// ListByTitle returns one page of a title's episodes through the cache.
func (c *EpisodeController) ListByTitle(titleID uint, page int) (*models.Page[models.Episode], error) {
	if page < 0 {
		page = 0
	}

	key := cache.Key("list_by_title", titleID, page)
	value, err := c.cache.GetOrCompute(cache.NamespaceEpisodesByTitle, key, func() (any, error) {
		result, err := c.db.ListEpisodesByTitle(titleID, page, PageSize)
		if err != nil {
			return nil, errs.Internal(err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.Page[models.Episode]), nil
}
