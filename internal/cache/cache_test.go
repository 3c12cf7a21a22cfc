package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrComputeMemoizes(t *testing.T) {
	store := NewStore(time.Minute)

	calls := 0
	compute := func() (any, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		value, err := store.GetOrCompute(NamespaceTitlesByDay, "key", compute)
		require.NoError(t, err)
		assert.Equal(t, "value", value)
	}
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	store := NewStore(time.Minute)

	calls := 0
	_, err := store.GetOrCompute(NamespaceTitlesByDay, "key", func() (any, error) {
		calls++
		return nil, errors.New("boom")
	})
	require.Error(t, err)

	value, err := store.GetOrCompute(NamespaceTitlesByDay, "key", func() (any, error) {
		calls++
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", value)
	assert.Equal(t, 2, calls)
}

func TestGetOrComputeUnknownNamespace(t *testing.T) {
	store := NewStore(time.Minute)

	_, err := store.GetOrCompute(Namespace("bogus"), "key", func() (any, error) {
		return "never", nil
	})
	assert.Error(t, err)
}

func TestInvalidateNamespaceIsScoped(t *testing.T) {
	store := NewStore(time.Minute)

	fill := func(ns Namespace) {
		_, err := store.GetOrCompute(ns, "key", func() (any, error) { return string(ns), nil })
		require.NoError(t, err)
	}
	fill(NamespaceTitlesByDay)
	fill(NamespaceEpisodesByTitle)

	store.InvalidateNamespace(NamespaceTitlesByDay)

	// The flushed namespace recomputes, the neighbour still serves its entry.
	recomputed := false
	_, err := store.GetOrCompute(NamespaceTitlesByDay, "key", func() (any, error) {
		recomputed = true
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.True(t, recomputed)

	_, err = store.GetOrCompute(NamespaceEpisodesByTitle, "key", func() (any, error) {
		t.Fatal("neighbour namespace was flushed")
		return nil, nil
	})
	require.NoError(t, err)
}

func TestInvalidateMultiple(t *testing.T) {
	store := NewStore(time.Minute)

	for _, ns := range Namespaces() {
		_, err := store.GetOrCompute(ns, "key", func() (any, error) { return "cached", nil })
		require.NoError(t, err)
	}

	store.Invalidate(Namespaces()...)

	for _, ns := range Namespaces() {
		recomputed := false
		_, err := store.GetOrCompute(ns, "key", func() (any, error) {
			recomputed = true
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.True(t, recomputed, "namespace %s still cached", ns)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "list_by_day:MON:newest:0", Key("list_by_day", "MON", "newest", 0))
	assert.Equal(t, "rated_by_user:7:2", Key("rated_by_user", uint(7), 2))
}
