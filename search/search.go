// Package search finds case-insensitive matches in rendered page lines.
package search

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// ErrEmptyQuery is returned for a query with no characters. An empty
// query would otherwise match at every position.
var ErrEmptyQuery = errors.New("empty search query")

// Span locates one match as a byte range of the original line.
type Span struct {
	Start int
	Len   int
}

// End returns the byte offset just past the match.
func (s Span) End() int { return s.Start + s.Len }

// Match is a line containing at least one occurrence of the query.
type Match struct {
	Line  int // 1-based line number
	Text  string
	Spans []Span
}

// Search scans lines in order and returns every line containing query,
// ignoring case. Occurrences on a line are found left to right without
// overlap: after a match the scan resumes past its end.
//
// Folding is done per rune with unicode.ToLower, which maps one rune to one
// rune, so positions in the folded text line up with the original and spans
// index the original bytes even when upper and lower case forms differ in
// encoded length.
func Search(lines []string, query string) ([]Match, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	q := fold(query)

	var matches []Match
	for i, line := range lines {
		if spans := Find(line, q); len(spans) > 0 {
			matches = append(matches, Match{Line: i + 1, Text: line, Spans: spans})
		}
	}
	return matches, nil
}

// Find returns the non-overlapping spans of the folded query q in text.
func Find(text string, q []rune) []Span {
	if len(q) == 0 {
		return nil
	}

	// offsets[k] is the byte offset of rune k; the final entry is len(text).
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	runes := make([]rune, 0, cap(offsets))
	for off, r := range text {
		offsets = append(offsets, off)
		runes = append(runes, unicode.ToLower(r))
	}
	offsets = append(offsets, len(text))

	var spans []Span
	for k := 0; k+len(q) <= len(runes); {
		if equalRunes(runes[k:k+len(q)], q) {
			start, end := offsets[k], offsets[k+len(q)]
			spans = append(spans, Span{Start: start, Len: end - start})
			k += len(q)
			continue
		}
		k++
	}
	return spans
}

// Fold lower-cases a query the same way Search does.
func Fold(query string) []rune {
	return fold(query)
}

func fold(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, unicode.ToLower(r))
	}
	return out
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Segment is a piece of a line, either matched or not.
type Segment struct {
	Text  string
	Match bool
}

// Segments splits text into alternating plain and matched pieces following
// spans, which must be sorted and non-overlapping. Empty pieces are dropped.
func Segments(text string, spans []Span) []Segment {
	var out []Segment
	last := 0
	for _, s := range spans {
		if s.Start < last || s.End() > len(text) {
			continue
		}
		if s.Start > last {
			out = append(out, Segment{Text: text[last:s.Start]})
		}
		out = append(out, Segment{Text: text[s.Start:s.End()], Match: true})
		last = s.End()
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}
