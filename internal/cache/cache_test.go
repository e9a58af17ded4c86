package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     time.Time
}

type memoryEntry struct {
	value    []byte
	expireAt time.Time
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now(),
	}
}

func (m *memoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || m.now.After(e.expireAt) {
		return nil, nil
	}
	return e.value, nil
}

func (m *memoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expireAt: m.now.Add(ttl)}
	return nil
}

func (m *memoryBackend) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *memoryBackend) advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func TestGetOrPopulateCachesFetchResult(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`[{"id":1}]`), nil
	}

	first, err := c.GetOrPopulate(ctx, KeyMenu, CatalogTTL, fetch)
	require.NoError(t, err)

	second, err := c.GetOrPopulate(ctx, KeyMenu, CatalogTTL, fetch)
	require.NoError(t, err)

	// Deux lectures dans la fenêtre TTL : un seul fetch, octets identiques
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestGetOrPopulateRefetchesAfterExpiry(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`[]`), nil
	}

	_, err := c.GetOrPopulate(ctx, KeyMenu, CatalogTTL, fetch)
	require.NoError(t, err)

	backend.advance(CatalogTTL + time.Second)

	_, err = c.GetOrPopulate(ctx, KeyMenu, CatalogTTL, fetch)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestInvalidateForcesFreshFetch(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend)
	ctx := context.Background()

	payloads := [][]byte{[]byte(`["avant"]`), []byte(`["après"]`)}
	calls := 0
	fetch := func(context.Context) ([]byte, error) {
		data := payloads[calls]
		calls++
		return data, nil
	}

	first, err := c.GetOrPopulate(ctx, KeyMenu, CatalogTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["avant"]`), first)

	// Simulation d'une écriture catalogue : invalidation grossière
	require.NoError(t, c.Invalidate(ctx, CatalogKeys...))

	second, err := c.GetOrPopulate(ctx, KeyMenu, CatalogTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["après"]`), second)
	assert.Equal(t, 2, calls)
}

func TestClearInvalidatesAllCatalogKeys(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend)
	ctx := context.Background()

	for _, key := range CatalogKeys {
		_, err := c.GetOrPopulate(ctx, key, CatalogTTL, func(context.Context) ([]byte, error) {
			return []byte(`[]`), nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, c.Clear(ctx))

	calls := 0
	for _, key := range CatalogKeys {
		_, err := c.GetOrPopulate(ctx, key, CatalogTTL, func(context.Context) ([]byte, error) {
			calls++
			return []byte(`[]`), nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, len(CatalogKeys), calls)
}

func TestGetOrPopulatePropagatesFetchError(t *testing.T) {
	backend := newMemoryBackend()
	c := New(backend)

	wantErr := errors.New("scylla indisponible")
	_, err := c.GetOrPopulate(context.Background(), KeyMenu, CatalogTTL, func(context.Context) ([]byte, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}
