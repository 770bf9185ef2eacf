package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etsy-viewer-api/core/interfaces"
)

func newTestCache(t *testing.T) *Client {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCache_SetGetDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "listing:42", []byte(`{"title":"Mug"}`), time.Minute))

	got, err := c.Get(ctx, "listing:42")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Mug"}`, string(got))

	require.NoError(t, c.Delete(ctx, "listing:42"))
	_, err = c.Get(ctx, "listing:42")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestSQLiteCache_Miss(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Get(context.Background(), "listing:missing")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestSQLiteCache_ZeroTTLNeverExpires(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "listing:1", []byte("x"), 0))

	n, err := c.removeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := c.Get(ctx, "listing:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestSQLiteCache_ExpiredEntry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	// Write a row that expired a second ago directly.
	_, err := c.db.ExecContext(ctx, c.queries.set, "listing:old", []byte("stale"), time.Now().Unix()-1)
	require.NoError(t, err)

	_, err = c.Get(ctx, "listing:old")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)

	n, err := c.removeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteCache_Validation(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	assert.Error(t, c.Set(ctx, "", []byte("v"), time.Minute))
	assert.Error(t, c.Set(ctx, "k", nil, time.Minute))
	_, err := c.Get(ctx, "")
	assert.Error(t, err)
	assert.Error(t, c.Delete(ctx, ""))
}

func TestSQLiteCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first, err := NewSQLiteCache(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "listing:7", []byte("kept"), time.Hour))
	require.NoError(t, first.Close())

	second, err := NewSQLiteCache(path, nil)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "listing:7")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestSQLiteCache_CloseIsIdempotentForCleanup(t *testing.T) {
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.NotPanics(t, func() { c.stopOnce.Do(func() { close(c.stop) }) })
}
