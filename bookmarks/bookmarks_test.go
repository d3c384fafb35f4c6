package bookmarks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	s := Load(path)

	require.NoError(t, s.Add("Example", "https://example.com"))
	require.NoError(t, s.Add("Example again", "https://example.com"))

	reloaded := Load(path)
	assert.Equal(t, []Bookmark{
		{Title: "Example", URL: "https://example.com"},
		{Title: "Example again", URL: "https://example.com"},
	}, reloaded.List())
}

func TestAddWithoutURLIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	s := Load(path)

	require.NoError(t, s.Add("nothing", ""))
	assert.Equal(t, 0, s.Len())

	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "no file should be written")
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	s := Load(path)
	require.NoError(t, s.Add("one", "https://one.test"))
	require.NoError(t, s.Add("two", "https://two.test"))
	require.NoError(t, s.Add("three", "https://three.test"))

	require.NoError(t, s.Delete(2))
	assert.Equal(t, []Bookmark{
		{Title: "one", URL: "https://one.test"},
		{Title: "three", URL: "https://three.test"},
	}, s.List())
	assert.Equal(t, s.List(), Load(path).List())
}

func TestDeleteOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		index int
	}{
		{"zero", 0},
		{"negative", -1},
		{"past end", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(filepath.Join(t.TempDir(), "bookmarks.json"))
			require.NoError(t, s.Add("one", "https://one.test"))
			require.NoError(t, s.Add("two", "https://two.test"))
			before := s.List()

			err := s.Delete(tt.index)

			var idxErr *IndexError
			require.ErrorAs(t, err, &idxErr)
			assert.Equal(t, tt.index, idxErr.Index)
			assert.Equal(t, before, s.List())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, 0, s.Len())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title": "half`), 0644))

	s := Load(path)
	assert.Equal(t, 0, s.Len())

	// The store still works after a corrupt load.
	require.NoError(t, s.Add("fresh", "https://fresh.test"))
	assert.Len(t, Load(path).List(), 1)
}

func TestLoadToleratesWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	data := "\n  [ {\"title\":\"a\",\n \"url\": \"https://a.test\"} ]  \n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s := Load(path)
	assert.Equal(t, []Bookmark{{Title: "a", URL: "https://a.test"}}, s.List())
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	dir := t.TempDir()
	// A directory at the file path makes the write fail.
	path := filepath.Join(dir, "bookmarks.json")
	require.NoError(t, os.Mkdir(path, 0755))

	s := New(path)
	err := s.Add("kept", "https://kept.test")

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)
	assert.Equal(t, 1, s.Len())
}

func TestGet(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "bookmarks.json"))
	require.NoError(t, s.Add("one", "https://one.test"))

	b, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "https://one.test", b.URL)

	_, err = s.Get(2)
	var idxErr *IndexError
	assert.ErrorAs(t, err, &idxErr)
}
