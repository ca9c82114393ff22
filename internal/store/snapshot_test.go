package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/fdl"
)

func newStore(t *testing.T, compress bool) *SQLiteStore {
	t.Helper()
	s, err := New(Config{
		Path:               filepath.Join(t.TempDir(), "nested", "snapshots.db"),
		DisableCompression: !compress,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const validSource = `
thing "Server" {
    int port = 8080
    thing "TLS" { bool enabled = true }
}`

func TestSaveAndGet(t *testing.T) {
	for _, compress := range []bool{true, false} {
		s := newStore(t, compress)
		ctx := context.Background()

		saved, err := s.Save(ctx, "server.fdl", validSource)
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)
		assert.True(t, saved.Valid)
		assert.Equal(t, compress, saved.Compressed)
		assert.Equal(t, fdl.Stats{Roots: 1, Things: 2, Props: 2, MaxDepth: 2}, saved.Stats)

		got, err := s.Get(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, validSource, got.Source)
		assert.Equal(t, "server.fdl", got.Name)
		assert.Equal(t, len(validSource), got.Size)
		assert.Equal(t, saved.Stats, got.Stats)
		assert.True(t, got.Valid)
	}
}

func TestSaveInvalidDocument(t *testing.T) {
	s := newStore(t, true)
	ctx := context.Background()

	saved, err := s.Save(ctx, "broken.fdl", "thing \"A\" {\n  int x = true\n}")
	require.NoError(t, err)
	assert.False(t, saved.Valid)
	assert.Equal(t, "line 1:10 - cannot convert `true` to int", saved.Error)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Error, got.Error)
	assert.False(t, got.Valid)
}

func TestCompressionShrinksLargeSources(t *testing.T) {
	s := newStore(t, true)
	ctx := context.Background()

	source := strings.Repeat(validSource, 200)
	_, err := s.Save(ctx, "big.fdl", source)
	require.NoError(t, err)

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(source)), stats["source_bytes"])
	assert.Less(t, stats["stored_bytes"].(int64), int64(len(source)))
}

func TestGetNotFound(t *testing.T) {
	s := newStore(t, true)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, fdlerr.HasCode(err, fdlerr.CodeNotFound))
}

func TestListAndDelete(t *testing.T) {
	s := newStore(t, true)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a.fdl", "b.fdl", "c.fdl"} {
		snap, err := s.Save(ctx, name, validSource)
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	list, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c.fdl", list[0].Name)
	assert.Empty(t, list[0].Source)

	page, err := s.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b.fdl", page[0].Name)

	require.NoError(t, s.Delete(ctx, ids[1]))
	list, err = s.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	err = s.Delete(ctx, ids[1])
	assert.True(t, fdlerr.HasCode(err, fdlerr.CodeNotFound))

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["total_snapshots"])
	assert.Equal(t, int64(2), stats["valid_snapshots"])
}

func TestResolve(t *testing.T) {
	s := newStore(t, false)
	ctx := context.Background()

	snap, err := s.Save(ctx, "a.fdl", validSource)
	require.NoError(t, err)

	id, err := s.Resolve(ctx, snap.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, snap.ID, id)

	id, err = s.Resolve(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, id)

	_, err = s.Resolve(ctx, "zzzz")
	assert.True(t, fdlerr.HasCode(err, fdlerr.CodeNotFound))

	_, err = s.Resolve(ctx, "  ")
	assert.True(t, fdlerr.HasCode(err, fdlerr.CodeInvalidInput))
}

func TestStatisticsEmpty(t *testing.T) {
	s := newStore(t, true)

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats["total_snapshots"])
	assert.Equal(t, int64(0), stats["stored_bytes"])
}
