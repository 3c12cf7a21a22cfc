// Package controllers holds the per-entity write coordinators. Every write
// validates invariants against the record store, mutates it, then triggers
// exactly the cache invalidations and index upserts whose namespaces could
// have changed. Cache and index effects are not transactional with the
// store write; staleness is bounded by the next write to the same namespace
// or an out-of-band re-sync.
package controllers

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/toonhive/toonhive/internal/cache"
	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
	"github.com/toonhive/toonhive/internal/search"
	"github.com/toonhive/toonhive/internal/services/blobstore"
)

// PageSize is the fixed page size of every listing read path.
const PageSize = 10

// Upload carries file content handed to the blob store collaborator.
type Upload struct {
	Data []byte
	Name string
}

// TitleInput is the caller-supplied portion of a title.
type TitleInput struct {
	Name      string
	Creator   string
	Day       models.Day
	Genre     string
	Thumbnail *Upload
}

// CatalogController coordinates title writes and the cached/indexed reads
// over them.
type CatalogController struct {
	db     *models.Database
	cache  *cache.Store
	search *search.Synchronizer
	blobs  blobstore.Store
	logger zerolog.Logger
}

// NewCatalogController creates a new catalog controller.
func NewCatalogController(db *models.Database, cacheStore *cache.Store, synchronizer *search.Synchronizer, blobs blobstore.Store, logger zerolog.Logger) *CatalogController {
	return &CatalogController{
		db:     db,
		cache:  cacheStore,
		search: synchronizer,
		blobs:  blobs,
		logger: logger,
	}
}

func (c *CatalogController) validateInput(in TitleInput) error {
	if in.Name == "" {
		return errs.Validation("title name is required")
	}
	if in.Creator == "" {
		return errs.Validation("title creator is required")
	}
	if !in.Day.Valid() {
		return errs.Validation("unknown release day")
	}
	return nil
}

// CreateTitle registers a new title. The display name must be unique across
// the whole catalog; the pre-check is a fast path and the storage unique
// constraint is the authoritative guard.
func (c *CatalogController) CreateTitle(ctx context.Context, in TitleInput) (*models.Title, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}

	exists, err := c.db.TitleExistsByName(in.Name)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if exists {
		return nil, errs.Conflict("a title with this name already exists")
	}

	title := &models.Title{
		Name:    in.Name,
		Creator: in.Creator,
		Day:     in.Day,
		Genre:   in.Genre,
	}
	if in.Thumbnail != nil {
		ref, err := c.blobs.Save(in.Thumbnail.Data, in.Thumbnail.Name)
		if err != nil {
			return nil, errs.Internal(err)
		}
		title.ThumbnailRef = ref
	}

	if err := c.db.CreateTitle(title); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("a title with this name already exists")
		}
		return nil, errs.Internal(err)
	}

	c.cache.Invalidate(cache.NamespaceTitlesByDay)

	return title, c.syncIndex(ctx, title)
}

// UpdateTitle edits an existing title's fields.
func (c *CatalogController) UpdateTitle(ctx context.Context, id uint, in TitleInput) (*models.Title, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}

	title, err := c.db.GetTitleByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("title not found")
		}
		return nil, errs.Internal(err)
	}

	title.Name = in.Name
	title.Creator = in.Creator
	title.Day = in.Day
	title.Genre = in.Genre
	if in.Thumbnail != nil {
		ref, err := c.blobs.Save(in.Thumbnail.Data, in.Thumbnail.Name)
		if err != nil {
			return nil, errs.Internal(err)
		}
		title.ThumbnailRef = ref
	}

	if err := c.db.UpdateTitleDetails(title); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("a title with this name already exists")
		}
		return nil, errs.Internal(err)
	}

	c.cache.Invalidate(cache.NamespaceTitlesByDay)

	return title, c.syncIndex(ctx, title)
}

// syncIndex pushes the title's projection to the search index. The record
// store write has already committed, so a failure here degrades search
// freshness but must not undo or fail the write: it is logged and surfaced
// as a distinct index-pending warning.
func (c *CatalogController) syncIndex(ctx context.Context, title *models.Title) error {
	if err := c.search.Upsert(ctx, title); err != nil {
		c.logger.Warn().Err(err).
			Uint("title_id", title.ID).
			Msg("title saved but search index upsert failed")
		return errs.IndexPending(err)
	}
	return nil
}

// DeleteTitle removes a title; episodes and their engagement rows cascade at
// the storage level. The search document is intentionally left in place and
// gets cleaned up by the next full re-sync.
func (c *CatalogController) DeleteTitle(ctx context.Context, id uint) error {
	if err := c.db.DeleteTitle(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("title not found")
		}
		return errs.Internal(err)
	}

	// The cascade can touch every cached listing kind.
	c.cache.Invalidate(
		cache.NamespaceTitlesByDay,
		cache.NamespaceEpisodesByTitle,
		cache.NamespaceCommentsByEpisode,
		cache.NamespaceRatingsByUser,
		cache.NamespaceCommentsByUser,
		cache.NamespaceFavoritesByUser,
	)
	return nil
}

// GetTitle retrieves a title by id.
func (c *CatalogController) GetTitle(id uint) (*models.Title, error) {
	title, err := c.db.GetTitleByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("title not found")
		}
		return nil, errs.Internal(err)
	}
	return title, nil
}

// ListByDay returns one page of titles for a release day, ordered by the
// sort mode, served through the cache.
func (c *CatalogController) ListByDay(day models.Day, sort models.SortMode, page int) (*models.Page[models.Title], error) {
	if !day.Valid() {
		return nil, errs.Validation("unknown release day")
	}
	if !sort.Valid() {
		return nil, errs.Validation("unknown sort mode")
	}
	if page < 0 {
		page = 0
	}

	key := cache.Key("list_by_day", day, sort, page)
	value, err := c.cache.GetOrCompute(cache.NamespaceTitlesByDay, key, func() (any, error) {
		result, err := c.db.ListTitlesByDay(day, sort, page, PageSize)
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

// SearchTitles serves keyword search straight from the index; search results
// are never cached.
func (c *CatalogController) SearchTitles(ctx context.Context, keyword string, page int) (*search.Result, error) {
	if keyword == "" {
		return nil, errs.Validation("search keyword is required")
	}
	result, err := c.search.Search(ctx, keyword, page)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return result, nil
}

// Reindex rebuilds the whole search index from the record store. This is
// the operational re-sync path for dual-store drift.
func (c *CatalogController) Reindex(ctx context.Context) error {
	titles, err := c.db.ListAllTitles()
	if err != nil {
		return errs.Internal(err)
	}
	if err := c.search.ReindexAll(ctx, titles); err != nil {
		return errs.Internal(err)
	}
	return nil
}
