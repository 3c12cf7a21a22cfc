// Package cache memoizes expensive list reads behind namespace tags.
// Invalidation is deliberately coarse: a write that could change any entry
// in a namespace flushes the whole namespace. That trades recompute cost on
// the next read for an enumerable, testable invalidation set.
package cache

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace groups all cached results of one logical read operation.
type Namespace string

const (
	NamespaceTitlesByDay       Namespace = "titles_by_day"
	NamespaceEpisodesByTitle   Namespace = "episodes_by_title"
	NamespaceCommentsByEpisode Namespace = "comments_by_episode"
	NamespaceRatingsByUser     Namespace = "ratings_by_user"
	NamespaceCommentsByUser    Namespace = "comments_by_user"
	NamespaceFavoritesByUser   Namespace = "favorites_by_user"
)

// Namespaces lists every cacheable namespace.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceTitlesByDay,
		NamespaceEpisodesByTitle,
		NamespaceCommentsByEpisode,
		NamespaceRatingsByUser,
		NamespaceCommentsByUser,
		NamespaceFavoritesByUser,
	}
}

var (
	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toonhive_cache_hits_total",
		Help: "Cache hits per namespace.",
	}, []string{"namespace"})
	missesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toonhive_cache_misses_total",
		Help: "Cache misses per namespace.",
	}, []string{"namespace"})
	invalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toonhive_cache_invalidations_total",
		Help: "Whole-namespace invalidations per namespace.",
	}, []string{"namespace"})
)

// Store is the namespace-tagged memoizer. One go-cache instance backs each
// namespace so a namespace flush cannot touch neighbouring namespaces.
type Store struct {
	caches map[Namespace]*gocache.Cache
}

// NewStore creates a store whose entries expire after ttl as a backstop;
// correctness relies on explicit invalidation, not expiry.
func NewStore(ttl time.Duration) *Store {
	caches := make(map[Namespace]*gocache.Cache, len(Namespaces()))
	for _, ns := range Namespaces() {
		caches[ns] = gocache.New(ttl, 2*ttl)
	}
	return &Store{caches: caches}
}

// GetOrCompute returns the cached value for key in the namespace, computing
// and populating it on miss. Compute errors are not cached.
func (s *Store) GetOrCompute(ns Namespace, key string, compute func() (any, error)) (any, error) {
	c := s.caches[ns]
	if c == nil {
		return nil, fmt.Errorf("unknown cache namespace: %s", ns)
	}

	if value, ok := c.Get(key); ok {
		hitsTotal.WithLabelValues(string(ns)).Inc()
		return value, nil
	}
	missesTotal.WithLabelValues(string(ns)).Inc()

	value, err := compute()
	if err != nil {
		return nil, err
	}
	c.Set(key, value, gocache.DefaultExpiration)
	return value, nil
}

// InvalidateNamespace drops every entry in the namespace.
func (s *Store) InvalidateNamespace(ns Namespace) {
	if c := s.caches[ns]; c != nil {
		c.Flush()
		invalidationsTotal.WithLabelValues(string(ns)).Inc()
	}
}

// Invalidate drops every entry in each of the given namespaces.
func (s *Store) Invalidate(namespaces ...Namespace) {
	for _, ns := range namespaces {
		s.InvalidateNamespace(ns)
	}
}

// Key builds a deterministic composite key from the operation's inputs.
func Key(parts ...any) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = fmt.Sprint(p)
	}
	return strings.Join(strs, ":")
}
