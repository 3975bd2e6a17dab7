// Package scripturestore provides an in-memory reference implementation of
// the scripture-store interface consumed by internal/scripture. The real
// SGGS/Dasam Granth databases are out of scope per spec.md §1; this stands
// in for tests and local development, grounded on the graceful-degradation
// pattern in scripture_service.py (optional secondary corpus).
package scripturestore

import (
	"sort"
	"strings"

	"gurbanicore/internal/fusion"
	"gurbanicore/internal/lexicon"
	"gurbanicore/internal/scripture"
)

// MemStore holds scripture lines in memory, indexed by ID and by source.
type MemStore struct {
	lines  []scripture.Line
	byID   map[string]scripture.Line
	bySrc  map[string][]scripture.Line
}

func New(lines []scripture.Line) *MemStore {
	s := &MemStore{
		lines: lines,
		byID:  make(map[string]scripture.Line, len(lines)),
		bySrc: make(map[string][]scripture.Line),
	}
	for _, l := range lines {
		s.byID[l.ID] = l
		s.bySrc[l.Source] = append(s.bySrc[l.Source], l)
	}
	return s
}

// AllLines implements lexicon.ScriptureStore, letting a MemStore double as
// the corpus the Lexicon builder walks.
func (s *MemStore) AllLines(source string) []lexicon.ScriptureLine {
	out := make([]lexicon.ScriptureLine, 0, len(s.bySrc[source]))
	for _, l := range s.bySrc[source] {
		out = append(out, lexicon.ScriptureLine{GurmukhiText: l.Gurmukhi})
	}
	return out
}

func (s *MemStore) SearchByText(text string, topK int, fuzzy bool) []scripture.Line {
	type scored struct {
		line  scripture.Line
		score float64
	}
	var results []scored
	for _, l := range s.lines {
		var score float64
		if fuzzy {
			score = fusion.TextSimilarity(text, l.Gurmukhi)
		} else if strings.Contains(l.Gurmukhi, text) {
			score = 1.0
		}
		if score > 0 {
			results = append(results, scored{line: l, score: score})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].score > results[j].score })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	out := make([]scripture.Line, len(results))
	for i, r := range results {
		out[i] = r.line
	}
	return out
}

func (s *MemStore) GetLineByID(id string) (scripture.Line, bool) {
	l, ok := s.byID[id]
	return l, ok
}

func (s *MemStore) GetContext(id string, window int) []scripture.Line {
	idx := -1
	for i, l := range s.lines {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	lo := idx - window
	if lo < 0 {
		lo = 0
	}
	hi := idx + window + 1
	if hi > len(s.lines) {
		hi = len(s.lines)
	}
	return s.lines[lo:hi]
}
