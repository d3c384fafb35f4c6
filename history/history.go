// Package history keeps the most-recently-used list of visited URLs.
package history

import (
	"fmt"
	"log"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// MaxEntries is the ledger capacity.
const MaxEntries = 50

// IndexError reports a 1-based history position outside 1..Len.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("no history entry %d (have %d)", e.Index, e.Len)
}

// Ledger is a bounded, deduplicated list of URLs, most recent first.
// Revisiting a URL moves it to the front; the least recently visited entry
// is evicted once the ledger is full. It lives in memory only.
type Ledger struct {
	lru *simplelru.LRU[string, struct{}]
}

// New creates an empty ledger holding up to MaxEntries URLs.
func New() *Ledger {
	return newSize(MaxEntries)
}

// newSize creates an empty ledger with the given capacity.
func newSize(size int) *Ledger {
	if size < 1 {
		size = MaxEntries
	}
	lru, err := simplelru.NewLRU[string, struct{}](size, func(url string, _ struct{}) {
		log.Printf("history: evicted %s", url)
	})
	if err != nil {
		// Only returned for a non-positive size, which is ruled out above.
		panic(err)
	}
	return &Ledger{lru: lru}
}

// Record puts url at the front, removing any earlier occurrence.
func (l *Ledger) Record(url string) {
	if url == "" {
		return
	}
	// Add on an existing key moves it to the front without eviction.
	l.lru.Add(url, struct{}{})
}

// List returns the URLs, most recent first.
func (l *Ledger) List() []string {
	keys := l.lru.Keys() // oldest first
	out := make([]string, len(keys))
	for i, k := range keys {
		out[len(keys)-1-i] = k
	}
	return out
}

// Get returns the URL at the 1-based position used by the history listing.
func (l *Ledger) Get(index int) (string, error) {
	n := l.lru.Len()
	if index < 1 || index > n {
		return "", &IndexError{Index: index, Len: n}
	}
	return l.List()[index-1], nil
}

// Front returns the most recently recorded URL, or "" when empty.
func (l *Ledger) Front() string {
	keys := l.lru.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return l.lru.Len()
}
