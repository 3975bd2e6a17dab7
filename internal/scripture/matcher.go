package scripture

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"gurbanicore/internal/fusion"
)

// criticalKeywords names divine names/honorifics used for Stage C's
// coarse-transliteration keyword match (spec.md §4.6's "closed set of
// divine names, honorifics").
var criticalKeywords = toSet([]string{
	"ਵਾਹਿਗੁਰੂ", "ਸਤਿਗੁਰੂ", "ਗੁਰੂ", "ਬਾਣੀ", "ਸ਼ਬਦ", "ਪ੍ਰਭੂ", "ਰਾਮ", "ਹਰਿ",
	"ਗੋਬਿੰਦ", "ਕਿਰਪਾ", "ਮਿਹਰ", "ਸਤਿ", "ਨਾਮੁ", "ਕਰਤਾ", "ਪੁਰਖੁ",
})

// importantWords gates Stage D's subset-mismatch penalty.
var importantWords = toSet([]string{
	"ਵਾਹਿਗੁਰੂ", "ਸਤਿਗੁਰੂ", "ਗੁਰੂ", "ਬਾਣੀ", "ਸ਼ਬਦ", "ਪ੍ਰਭੂ", "ਰਾਮ", "ਹਰਿ", "ਗੋਬਿੰਦ",
})

const (
	stageBTopK           = 20
	stageBMinSimilarity  = 0.5
	stageCKeepThreshold  = 0.6
	reviewThreshold      = 0.70
	replacementThreshold = 0.80
	alignmentThreshold   = 0.85
)

func normalizeNFC(s string) string {
	return norm.NFC.String(s)
}

func tokenize(text string) []string {
	normalized := normalizeNFC(text)
	var cleaned strings.Builder
	for _, r := range normalized {
		if isGurmukhiRune(r) || r == ' ' {
			cleaned.WriteRune(r)
		} else {
			cleaned.WriteRune(' ')
		}
	}
	return strings.Fields(cleaned.String())
}

func isGurmukhiRune(r rune) bool {
	return r >= 0x0A00 && r <= 0x0A7F
}

// candidateScore is an intermediate scored retrieval result carried through
// Stages B-D.
type candidateScore struct {
	line  Line
	score float64
}

// Matcher runs the multi-stage retrieval/verification pipeline against a
// Store and optional EmbeddingIndex.
type Matcher struct {
	Store    Store
	Embedding EmbeddingIndex
}

func New(store Store, embedding EmbeddingIndex) *Matcher {
	return &Matcher{Store: store, Embedding: embedding}
}

// FindMatch runs the full pipeline for one primary search text plus
// alternative hypothesis texts, returning nil if no line clears the review
// threshold.
func (m *Matcher) FindMatch(primaryText string, altTexts []string) *QuoteMatch {
	if m.Store == nil {
		return nil
	}

	if m.Embedding != nil {
		if hit := m.bestSemanticHit(primaryText); hit != nil && hit.Similarity >= alignmentThreshold {
			if line, ok := m.Store.GetLineByID(hit.LineID); ok {
				return &QuoteMatch{
					Source:        line.Source,
					LineID:        line.ID,
					CanonicalText: line.Gurmukhi,
					CanonicalRoman: line.Roman,
					SpokenText:    primaryText,
					Confidence:    hit.Similarity,
					Ang:           line.Ang,
					Raag:          line.Raag,
					Author:        line.Author,
					Method:        MethodSemantic,
				}
			}
		}
	}

	retrieved := m.stageBRetrieve(primaryText, altTexts)
	if len(retrieved) == 0 {
		return nil
	}
	verified := m.stageCVerify(primaryText, altTexts, retrieved)
	if len(verified) == 0 {
		return nil
	}
	top := m.stageDVerifier(primaryText, verified)
	if top == nil {
		return nil
	}
	return &QuoteMatch{
		Source:        top.line.Source,
		LineID:        top.line.ID,
		CanonicalText: top.line.Gurmukhi,
		CanonicalRoman: top.line.Roman,
		SpokenText:    primaryText,
		Confidence:    top.score,
		Ang:           top.line.Ang,
		Raag:          top.line.Raag,
		Author:        top.line.Author,
		Method:        methodFor(top.score),
	}
}

func methodFor(score float64) MatchMethod {
	if score < 0.85 {
		return MethodFuzzy
	}
	return MethodSemantic
}

func (m *Matcher) bestSemanticHit(text string) *EmbeddingHit {
	hits := m.Embedding.Search(text, 1)
	if len(hits) == 0 {
		return nil
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h.Similarity > best.Similarity {
			best = h
		}
	}
	return &best
}

func (m *Matcher) stageBRetrieve(primary string, alts []string) []candidateScore {
	seen := map[string]bool{}
	var out []candidateScore
	texts := append([]string{primary}, alts...)
	for _, text := range texts {
		normalized := normalizeNFC(text)
		lines := m.Store.SearchByText(normalized, stageBTopK, true)
		for _, line := range lines {
			if seen[line.ID] {
				continue
			}
			score := fusion.TextSimilarity(normalized, normalizeNFC(line.Gurmukhi))
			if score < stageBMinSimilarity {
				continue
			}
			seen[line.ID] = true
			out = append(out, candidateScore{line: line, score: score})
		}
	}
	return out
}

func (m *Matcher) stageCVerify(primary string, alts []string, candidates []candidateScore) []candidateScore {
	searchTokens := map[string]struct{}{}
	for _, tok := range tokenize(primary) {
		searchTokens[tok] = struct{}{}
	}
	for _, a := range alts {
		for _, tok := range tokenize(a) {
			searchTokens[tok] = struct{}{}
		}
	}
	searchKeywords := intersectKeywords(searchTokens, criticalKeywords)

	var out []candidateScore
	for _, c := range candidates {
		lineTokens := tokenizeSet(c.line.Gurmukhi)
		overlap := tokenOverlap(searchTokens, lineTokens)
		lineKeywords := intersectKeywords(lineTokens, criticalKeywords)
		keywordMatch := 0.5
		if equalKeywordSets(searchKeywords, lineKeywords) {
			keywordMatch = 1.0
		}
		combined := 0.5*c.score + 0.3*overlap + 0.2*keywordMatch
		if combined >= stageCKeepThreshold {
			out = append(out, candidateScore{line: c.line, score: combined})
		}
	}
	return out
}

func (m *Matcher) stageDVerifier(primary string, candidates []candidateScore) *candidateScore {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}

	searchWords := tokenize(primary)
	lineWords := tokenize(best.line.Gurmukhi)
	ratio := wordCountRatio(len(searchWords), len(lineWords))
	if ratio < 0.8 {
		best.score *= 0.8
	}

	searchImportant := intersectKeywords(toTokenSet(searchWords), importantWords)
	lineImportant := intersectKeywords(toTokenSet(lineWords), importantWords)
	if len(searchImportant) > 0 && !isSubset(searchImportant, lineImportant) {
		best.score *= 0.9
	}

	if best.score < reviewThreshold {
		return nil
	}
	return &best
}

// ShouldReplace reports whether a match's confidence clears the
// replacement bar (spec.md §4.6's canonical-replacement gate).
func ShouldReplace(match *QuoteMatch) bool {
	return match != nil && match.Confidence >= replacementThreshold
}

func tokenizeSet(s string) map[string]struct{} {
	return toTokenSet(tokenize(s))
}

func toTokenSet(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	union := map[string]struct{}{}
	for t := range a {
		union[t] = struct{}{}
		if _, ok := b[t]; ok {
			inter++
		}
	}
	for t := range b {
		union[t] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}

func intersectKeywords(tokens map[string]struct{}, keywords map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for t := range tokens {
		if _, ok := keywords[t]; ok {
			out[t] = struct{}{}
		}
	}
	return out
}

func equalKeywordSets(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func isSubset(small, large map[string]struct{}) bool {
	for k := range small {
		if _, ok := large[k]; !ok {
			return false
		}
	}
	return true
}

func wordCountRatio(a, b int) float64 {
	if a == 0 || b == 0 {
		return 1.0
	}
	if a < b {
		return float64(a) / float64(b)
	}
	return float64(b) / float64(a)
}
