package controllers

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/toonhive/toonhive/internal/cache"
	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
)

// RatingController enforces the one-rating-per-(user, episode) invariant and
// serves rating aggregates. Aggregate reads always recompute against the
// record store: rating changes must be visible immediately to the acting
// user, so they bypass the cache entirely.
type RatingController struct {
	db     *models.Database
	cache  *cache.Store
	logger zerolog.Logger
}

// NewRatingController creates a new rating controller.
func NewRatingController(db *models.Database, cacheStore *cache.Store, logger zerolog.Logger) *RatingController {
	return &RatingController{db: db, cache: cacheStore, logger: logger}
}

func validateRatingValue(value int) error {
	if value < models.MinRating || value > models.MaxRating {
		return errs.Validation(fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	return nil
}

// AddRating records a user's rating of an episode. A second rating for the
// same pair fails with a conflict and leaves the existing value untouched.
func (c *RatingController) AddRating(episodeID, userID uint, value int) (*models.Rating, error) {
	if err := validateRatingValue(value); err != nil {
		return nil, err
	}

	// Fast path; the composite unique index settles races.
	rated, err := c.db.RatingExists(episodeID, userID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if rated {
		return nil, errs.Conflict("this episode is already rated by the user")
	}

	episode, err := c.db.GetEpisodeByID(episodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("episode not found")
		}
		return nil, errs.Internal(err)
	}

	exists, err := c.db.UserExists(userID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if !exists {
		return nil, errs.NotFound("user not found")
	}

	rating := &models.Rating{EpisodeID: episodeID, UserID: userID, Value: value}
	if err := c.db.CreateRating(rating); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("this episode is already rated by the user")
		}
		return nil, errs.Internal(err)
	}

	c.afterRatingWrite(episode.TitleID)
	return rating, nil
}

// UpdateRating changes the value of an existing rating.
func (c *RatingController) UpdateRating(episodeID, userID uint, value int) (*models.Rating, error) {
	if err := validateRatingValue(value); err != nil {
		return nil, err
	}

	rating, err := c.db.GetRating(episodeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("rating not found")
		}
		return nil, errs.Internal(err)
	}

	rating.Value = value
	if err := c.db.SaveRating(rating); err != nil {
		return nil, errs.Internal(err)
	}

	episode, err := c.db.GetEpisodeByID(episodeID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	c.afterRatingWrite(episode.TitleID)
	return rating, nil
}

// DeleteRating removes a user's rating of an episode.
func (c *RatingController) DeleteRating(episodeID, userID uint) error {
	episode, err := c.db.GetEpisodeByID(episodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("episode not found")
		}
		return errs.Internal(err)
	}

	if err := c.db.DeleteRating(episodeID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("rating not found")
		}
		return errs.Internal(err)
	}

	c.afterRatingWrite(episode.TitleID)
	return nil
}

// afterRatingWrite refreshes the owning title's denormalized average and
// invalidates the listings that read it. The by-day namespace is included
// because its highest-rated sort reads the refreshed column.
func (c *RatingController) afterRatingWrite(titleID uint) {
	if err := c.db.RefreshTitleAvgRating(titleID); err != nil {
		c.logger.Error().Err(err).Uint("title_id", titleID).
			Msg("failed to refresh title average rating")
	}
	c.cache.Invalidate(cache.NamespaceRatingsByUser, cache.NamespaceTitlesByDay)
}

// AverageForEpisode returns the arithmetic mean of the episode's ratings.
// The second return value is false when the episode has no ratings; callers
// must not read the mean in that case.
func (c *RatingController) AverageForEpisode(episodeID uint) (float64, bool, error) {
	exists, err := c.db.EpisodeExists(episodeID)
	if err != nil {
		return 0, false, errs.Internal(err)
	}
	if !exists {
		return 0, false, errs.NotFound("episode not found")
	}

	avg, err := c.db.AverageRatingForEpisode(episodeID)
	if err != nil {
		return 0, false, errs.Internal(err)
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

// AverageForTitle returns the mean across all ratings of all episodes under
// the title; every individual rating counts once. The second return value is
// false when no ratings exist.
func (c *RatingController) AverageForTitle(titleID uint) (float64, bool, error) {
	exists, err := c.db.TitleExists(titleID)
	if err != nil {
		return 0, false, errs.Internal(err)
	}
	if !exists {
		return 0, false, errs.NotFound("title not found")
	}

	avg, err := c.db.AverageRatingForTitle(titleID)
	if err != nil {
		return 0, false, errs.Internal(err)
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

// ListRatedEpisodes returns one page of episodes the user has rated, through
// the cache.
func (c *RatingController) ListRatedEpisodes(userID uint, page int) (*models.Page[models.Episode], error) {
	if page < 0 {
		page = 0
	}

	key := cache.Key("rated_by_user", userID, page)
	value, err := c.cache.GetOrCompute(cache.NamespaceRatingsByUser, key, func() (any, error) {
		result, err := c.db.ListEpisodesRatedByUser(userID, page, PageSize)
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
