package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/toonhive/toonhive/internal/models"
)

// upsertRetries bounds the in-process retry of a failed index write before
// the failure is surfaced as "index pending".
const upsertRetries = 3

var (
	upsertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toonhive_search_upserts_total",
		Help: "Documents upserted into the search index.",
	})
	upsertFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toonhive_search_upsert_failures_total",
		Help: "Index upserts that failed after retries.",
	})
)

// Synchronizer propagates title writes into the bleve index and serves
// keyword reads. Upserts are idempotent, keyed by title id and versioned by
// update timestamp, so a retried or out-of-order re-sync converges.
type Synchronizer struct {
	index  bleve.Index
	logger zerolog.Logger
}

// NewSynchronizer opens the index at path, creating it on first run.
func NewSynchronizer(path string, logger zerolog.Logger) (*Synchronizer, error) {
	index, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		index, err = bleve.New(path, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &Synchronizer{index: index, logger: logger}, nil
}

// NewMemOnly creates an in-memory synchronizer, used by tests.
func NewMemOnly(logger zerolog.Logger) (*Synchronizer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory index: %w", err)
	}
	return &Synchronizer{index: index, logger: logger}, nil
}

// Close releases the index.
func (s *Synchronizer) Close() error {
	return s.index.Close()
}

// Upsert writes the title's projection into the index, retrying transient
// failures with exponential backoff. If the index already holds a newer
// version of the document the call is a no-op, which makes stale re-syncs
// converge instead of regressing the document.
func (s *Synchronizer) Upsert(ctx context.Context, title *models.Title) error {
	doc := DocumentFromTitle(title)

	if current, ok := s.indexedVersion(doc.ID); ok && newerVersion(current, doc.UpdatedAt) {
		s.logger.Debug().
			Str("doc_id", doc.ID).
			Str("indexed", current).
			Str("incoming", doc.UpdatedAt).
			Msg("skipping stale index upsert")
		return nil
	}

	operation := func() error {
		return s.index.Index(doc.ID, doc.toMap())
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), upsertRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		upsertFailuresTotal.Inc()
		return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
	}
	upsertsTotal.Inc()
	return nil
}

// newerVersion reports whether the indexed version is strictly newer than
// the incoming one. RFC3339Nano trims trailing zeros, so the strings do not
// order lexically; both sides are parsed back into instants. An unparseable
// version never blocks the upsert.
func newerVersion(indexed, incoming string) bool {
	a, err := time.Parse(time.RFC3339Nano, indexed)
	if err != nil {
		return false
	}
	b, err := time.Parse(time.RFC3339Nano, incoming)
	if err != nil {
		return false
	}
	return a.After(b)
}

// indexedVersion returns the updated_at of the indexed document, if present.
func (s *Synchronizer) indexedVersion(docID string) (string, bool) {
	q := bleve.NewDocIDQuery([]string{docID})
	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	req.Fields = []string{"updated_at"}

	res, err := s.index.Search(req)
	if err != nil || len(res.Hits) == 0 {
		return "", false
	}
	version, ok := res.Hits[0].Fields["updated_at"].(string)
	return version, ok
}

// ReindexAll rebuilds the index from the authoritative titles: every title
// is re-upserted in batches and documents for titles that no longer exist
// are removed. This is the corrective path for dual-store drift, including
// documents orphaned by title deletion.
func (s *Synchronizer) ReindexAll(ctx context.Context, titles []models.Title) error {
	const batchSize = 500

	live := make(map[string]struct{}, len(titles))

	for start := 0; start < len(titles); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + batchSize
		if end > len(titles) {
			end = len(titles)
		}

		batch := s.index.NewBatch()
		for i := start; i < end; i++ {
			doc := DocumentFromTitle(&titles[i])
			live[doc.ID] = struct{}{}
			if err := batch.Index(doc.ID, doc.toMap()); err != nil {
				return fmt.Errorf("failed to batch document %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to commit batch %d-%d: %w", start, end, err)
		}
	}

	orphans, err := s.allDocIDs()
	if err != nil {
		return fmt.Errorf("failed to enumerate index documents: %w", err)
	}
	batch := s.index.NewBatch()
	removed := 0
	for _, id := range orphans {
		if _, ok := live[id]; !ok {
			batch.Delete(id)
			removed++
		}
	}
	if removed > 0 {
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to remove orphan documents: %w", err)
		}
	}

	s.logger.Info().
		Int("indexed", len(titles)).
		Int("removed", removed).
		Msg("search index rebuilt")
	return nil
}

// DocCount returns the number of documents currently indexed.
func (s *Synchronizer) DocCount() (uint64, error) {
	return s.index.DocCount()
}

func (s *Synchronizer) allDocIDs() ([]string, error) {
	const pageSize = 1000

	var ids []string
	for from := 0; ; from += pageSize {
		req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), pageSize, from, false)
		res, err := s.index.Search(req)
		if err != nil {
			return nil, err
		}
		for _, hit := range res.Hits {
			ids = append(ids, hit.ID)
		}
		if uint64(from+len(res.Hits)) >= res.Total || len(res.Hits) == 0 {
			break
		}
	}
	return ids, nil
}
