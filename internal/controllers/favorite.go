package controllers

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/toonhive/toonhive/internal/cache"
	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
)

// FavoriteController coordinates follow/unfollow writes and the cached
// per-user favorites listing.
type FavoriteController struct {
	db     *models.Database
	cache  *cache.Store
	logger zerolog.Logger
}

// NewFavoriteController creates a new favorite controller.
func NewFavoriteController(db *models.Database, cacheStore *cache.Store, logger zerolog.Logger) *FavoriteController {
	return &FavoriteController{db: db, cache: cacheStore, logger: logger}
}

// AddFavorite marks a title as followed by the user, at most once per
// (user, title) pair.
func (c *FavoriteController) AddFavorite(userID, titleID uint) (*models.Favorite, error) {
	exists, err := c.db.TitleExists(titleID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if !exists {
		return nil, errs.NotFound("title not found")
	}

	favorite := &models.Favorite{UserID: userID, TitleID: titleID}
	if err := c.db.CreateFavorite(favorite); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("this title is already a favorite")
		}
		return nil, errs.Internal(err)
	}

	c.cache.Invalidate(cache.NamespaceFavoritesByUser)
	return favorite, nil
}

// RemoveFavorite unfollows a title.
func (c *FavoriteController) RemoveFavorite(userID, titleID uint) error {
	if err := c.db.DeleteFavorite(userID, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("favorite not found")
		}
		return errs.Internal(err)
	}

	c.cache.Invalidate(cache.NamespaceFavoritesByUser)
	return nil
}

// ListByUser returns one page of the titles the user follows, through the
// cache.
func (c *FavoriteController) ListByUser(userID uint, page int) (*models.Page[models.Title], error) {
	if page < 0 {
		page = 0
	}

	key := cache.Key("favorites_by_user", userID, page)
	value, err := c.cache.GetOrCompute(cache.NamespaceFavoritesByUser, key, func() (any, error) {
		result, err := c.db.ListFavoriteTitlesByUser(userID, page, PageSize)
		if err != nil {
			return nil, errs.Internal(err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.Page[models.Title]), nil
}
