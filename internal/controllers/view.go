package controllers

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/toonhive/toonhive/internal/cache"
	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
)

var viewsRegisteredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "toonhive_views_registered_total",
	Help: "View registrations by outcome (counted or duplicate).",
}, []string{"outcome"})

// ViewController decides, per (title, client fingerprint) pair, whether a
// view event increments the title's counter. The existence check, the event
// insert and the counter bump are not one atomic step; the unique index on
// the pair guarantees at most one counted event, so a racing duplicate can
// only lose the insert, never double-count.
type ViewController struct {
	db     *models.Database
	cache  *cache.Store
	logger zerolog.Logger
}

// NewViewController creates a new view controller.
func NewViewController(db *models.Database, cacheStore *cache.Store, logger zerolog.Logger) *ViewController {
	return &ViewController{db: db, cache: cacheStore, logger: logger}
}

// RegisterView counts a view for the (title, fingerprint) pair. It returns
// true when the title's counter was incremented and false when the pair had
// already been counted.
func (c *ViewController) RegisterView(titleID uint, fingerprint string) (bool, error) {
	if fingerprint == "" {
		return false, errs.Validation("client fingerprint is required")
	}

	exists, err := c.db.TitleExists(titleID)
	if err != nil {
		return false, errs.Internal(err)
	}
	if !exists {
		return false, errs.NotFound("title not found")
	}

	seen, err := c.db.ViewEventExists(titleID, fingerprint)
	if err != nil {
		return false, errs.Internal(err)
	}
	if seen {
		viewsRegisteredTotal.WithLabelValues("duplicate").Inc()
		return false, nil
	}

	event := &models.ViewEvent{TitleID: titleID, Fingerprint: fingerprint}
	if err := c.db.CreateViewEvent(event); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent registration; that one counted.
			viewsRegisteredTotal.WithLabelValues("duplicate").Inc()
			return false, nil
		}
		return false, errs.Internal(err)
	}

	if err := c.db.IncrementTitleViews(titleID); err != nil {
		return false, errs.Internal(err)
	}

	viewsRegisteredTotal.WithLabelValues("counted").Inc()

	// The most-viewed sort of the by-day listing reads the counter.
	c.cache.Invalidate(cache.NamespaceTitlesByDay)
	return true, nil
}
