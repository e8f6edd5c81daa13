package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursereview/internal/domain"
)

func TestBookmarkStoreRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemoryKV() },
		"file": func(t *testing.T) KV {
			return NewFileKV(filepath.Join(t.TempDir(), "state.yaml"))
		},
	}

	for name, newKV := range backends {
		t.Run(name, func(t *testing.T) {
			s := NewBookmarkStore(newKV(t))

			exists, err := s.Exists()
			require.NoError(t, err)
			assert.False(t, exists)

			empty, err := s.Load()
			require.NoError(t, err)
			assert.Empty(t, empty)

			require.NoError(t, s.Save(domain.NewBookmarkSet("INFO 1998", "cs 2110")))

			exists, err = s.Exists()
			require.NoError(t, err)
			assert.True(t, exists)

			got, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, []string{"CS 2110", "INFO 1998"}, got.Codes())

			require.NoError(t, s.Save(domain.NewBookmarkSet()))
			got, err = s.Load()
			require.NoError(t, err)
			assert.Empty(t, got)

			exists, err = s.Exists()
			require.NoError(t, err)
			assert.True(t, exists, "an empty saved set still counts as written")
		})
	}
}

func TestProfileStoreRoundTrip(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "state.yaml"))
	profiles := NewProfileStore(kv)

	_, found, err := profiles.Load()
	require.NoError(t, err)
	assert.False(t, found)

	want := domain.UserProfile{
		Name:                "Ada",
		ClassYear:           "Class of 2027",
		Major:               "Computer Science",
		AreasOfInterest:     []string{"Systems", "Databases"},
		LearningPreferences: []string{"Projects"},
	}
	require.NoError(t, profiles.Save(want))

	got, found, err := profiles.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestFileKVSharesOneDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	kv := NewFileKV(path)

	require.NoError(t, NewBookmarkStore(kv).Save(domain.NewBookmarkSet("CS 2110")))
	require.NoError(t, NewProfileStore(kv).Save(domain.UserProfile{Name: "Ada"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "bookmarkedCourseCodes:")
	assert.Contains(t, text, "CS 2110")
	assert.Contains(t, text, "userProfile:")

	// A fresh handle sees both keys.
	reopened := NewFileKV(path)
	set, err := NewBookmarkStore(reopened).Load()
	require.NoError(t, err)
	assert.True(t, set.Has("cs 2110"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."), "temp file left behind: %s", e.Name())
	}
}

func TestFileKVCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bookmarkedCourseCodes: [unterminated"), 0o644))

	_, err := NewBookmarkStore(NewFileKV(path)).Load()
	assert.Error(t, err)
}

func TestFileKVEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	exists, err := NewBookmarkStore(NewFileKV(path)).Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	codes := []string{"CS 2110"}
	require.NoError(t, kv.Set(BookmarksKey, codes))
	codes[0] = "MUTATED"

	var got []string
	found, err := kv.Get(BookmarksKey, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"CS 2110"}, got)
}
