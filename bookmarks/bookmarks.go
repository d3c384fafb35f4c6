// Package bookmarks provides the persistent, ordered bookmark list.
package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// DefaultPath is where bookmarks live, relative to the working directory.
const DefaultPath = "bookmarks.json"

// Bookmark is a saved (title, url) pair. Bookmarks are identified by position.
type Bookmark struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// IndexError reports a 1-based bookmark position outside 1..Len.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("no bookmark %d (have %d)", e.Index, e.Len)
}

// PersistenceError reports a failed write of the bookmark file.
// The in-memory change that triggered the write is kept.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving bookmarks to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store manages the bookmark collection and writes through to disk on
// every mutation.
type Store struct {
	path      string
	bookmarks []Bookmark
}

// New returns an empty store backed by path. Nothing is read from disk.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Load reads bookmarks from path. A missing or unreadable file yields an
// empty store; a corrupt file is logged and also yields an empty store.
func Load(path string) *Store {
	s := New(path)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s
	}
	if err != nil {
		log.Printf("bookmarks: reading %s: %v", s.path, err)
		return s
	}

	var list []Bookmark
	if err := json.Unmarshal(data, &list); err != nil {
		log.Printf("bookmarks: ignoring corrupt %s: %v", s.path, err)
		return s
	}
	s.bookmarks = list
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Save writes the full list to disk as an indented JSON array.
func (s *Store) Save() error {
	list := s.bookmarks
	if list == nil {
		list = []Bookmark{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &PersistenceError{Path: s.path, Err: err}
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	return nil
}

// Add appends a bookmark and saves. An empty url means there is nothing to
// bookmark and the call does nothing. Duplicates are allowed.
func (s *Store) Add(title, url string) error {
	if url == "" {
		return nil
	}
	s.bookmarks = append(s.bookmarks, Bookmark{Title: title, URL: url})
	return s.Save()
}

// Delete removes the bookmark at the 1-based index and saves. An index out
// of range leaves the store untouched and returns an *IndexError.
func (s *Store) Delete(index int) error {
	if index < 1 || index > len(s.bookmarks) {
		return &IndexError{Index: index, Len: len(s.bookmarks)}
	}
	s.bookmarks = append(s.bookmarks[:index-1], s.bookmarks[index:]...)
	return s.Save()
}

// Get returns the bookmark at the 1-based index.
func (s *Store) Get(index int) (Bookmark, error) {
	if index < 1 || index > len(s.bookmarks) {
		return Bookmark{}, &IndexError{Index: index, Len: len(s.bookmarks)}
	}
	return s.bookmarks[index-1], nil
}

// List returns a copy of the bookmarks in order.
func (s *Store) List() []Bookmark {
	out := make([]Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.bookmarks)
}
