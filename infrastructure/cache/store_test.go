package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetInvalidate(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	_, ok := store.Get("fp")
	assert.False(t, ok)

	store.Set("fp", []byte("payload"))
	got, ok := store.Get("fp")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	store.Invalidate("fp")
	_, ok = store.Get("fp")
	assert.False(t, ok)
}

func TestMemoryStore_ExpiredEntryIsDiscarded(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)

	store.Set("fp", []byte("payload"))
	time.Sleep(5 * time.Millisecond)

	_, ok := store.Get("fp")
	assert.False(t, ok)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore(0)

	store.Set("fp", []byte("payload"))
	time.Sleep(2 * time.Millisecond)

	_, ok := store.Get("fp")
	assert.True(t, ok)
}

func TestDiskStore_RoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), time.Minute)
	require.NoError(t, err)

	store.Set("fp", []byte(`{"data":[]}`))

	got, ok := store.Get("fp")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"data":[]}`), got)
}

func TestDiskStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	first, err := NewDiskStore(dir, time.Minute)
	require.NoError(t, err)
	first.Set("fp", []byte("payload"))

	second, err := NewDiskStore(dir, time.Minute)
	require.NoError(t, err)

	got, ok := second.Get("fp")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
}

func TestDiskStore_CorruptedEntryIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, time.Minute)
	require.NoError(t, err)

	path := filepath.Join(dir, "fp.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, ok := store.Get("fp")
	assert.False(t, ok)
	assert.NoFileExists(t, path, "entrada corrompida deve ser removida")
}

func TestDiskStore_ExpiredEntryIsRemoved(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, time.Minute)
	require.NoError(t, err)

	stale, err := json.Marshal(&entry{
		Payload:   []byte("payload"),
		FetchedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fp.json"), stale, 0o644))

	_, ok := store.Get("fp")
	assert.False(t, ok)
	assert.NoFileExists(t, filepath.Join(dir, "fp.json"))
}
