package sequence

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDStrictlyIncreasing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tickets.json"))

	var prev int
	for i := 0; i < 10; i++ {
		id, err := store.NextID(context.Background(), "g1")
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, 10, prev)
}

func TestNextIDSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")

	store := NewStore(path)
	for i := 0; i < 3; i++ {
		_, err := store.NextID(context.Background(), "g1")
		require.NoError(t, err)
	}

	reloaded := NewStore(path)
	id, err := reloaded.NextID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 4, id)
}

func TestNextIDPerGuildIndependence(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tickets.json"))

	id1, err := store.NextID(context.Background(), "g1")
	require.NoError(t, err)
	id2, err := store.NextID(context.Background(), "g2")
	require.NoError(t, err)

	assert.Equal(t, 1, id1)
	assert.Equal(t, 1, id2)
}

func TestMissingFileTreatedAsFresh(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist.json"))

	id, err := store.NextID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestCorruptFileTreatedAsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(path)
	id, err := store.NextID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestSeededHighWaterMark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"guilds":{"g1":{"lastId":3}}}`), 0o644))

	store := NewStore(path)
	id, err := store.NextID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 4, id)
	assert.Equal(t, 4, store.LastID("g1"))
}

func TestConcurrentAllocationsUnique(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tickets.json"))

	const n = 50
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.NextID(context.Background(), "g1")
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, store.LastID("g1"))
}

func TestCancelledContext(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tickets.json"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.NextID(ctx, "g1")
	assert.Error(t, err)
	assert.Equal(t, 0, store.LastID("g1"))
}
