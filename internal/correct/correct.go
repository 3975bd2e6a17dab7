// Package correct applies bounded-edit-distance spelling correction against
// the curated domain lexicon.
package correct

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"gurbanicore/internal/lexicon"
)

// spellingVariants normalizes known alternate spellings to their canonical
// form regardless of edit-distance scoring, grounded on the original's
// SPELLING_VARIANTS map.
var spellingVariants = map[string]string{
	"ਗੁੜੂ": "ਗੁਰੂ",
	"ਸੱਚ":  "ਸਚ",
	"ਨੰਾ":  "ਨਾਂ",
}

const minCorrectionLength = 2
const maxCandidates = 10

var gurmukhiWordPattern = regexp.MustCompile(`[\x{0A00}-\x{0A7F}]+`)

// Candidate is one scored replacement option for a misspelled word.
type Candidate struct {
	Word       string
	Distance   int
	Frequency  int
	Confidence float64
}

// WordResult is the outcome of correcting a single word.
type WordResult struct {
	Original      string
	Corrected     string
	WasCorrected  bool
	Candidate     *Candidate
}

// TextResult is the outcome of correcting an entire text.
type TextResult struct {
	Text    string
	Results []WordResult
}

// Corrector scores and applies corrections bounded by MaxEdit/MinConfidence.
type Corrector struct {
	Lexicon       *lexicon.Lexicon
	Mode          lexicon.DomainMode
	MaxEdit       int
	MinConfidence float64

	vocabCache []string
	vocabMode  lexicon.DomainMode
	cacheValid bool
}

func New(lex *lexicon.Lexicon, mode lexicon.DomainMode) *Corrector {
	return &Corrector{Lexicon: lex, Mode: mode, MaxEdit: 2, MinConfidence: 0.5}
}

// NewConservative mirrors the original's ConservativeCorrector subclass:
// stricter edit bound, higher confidence bar.
func NewConservative(lex *lexicon.Lexicon, mode lexicon.DomainMode) *Corrector {
	return &Corrector{Lexicon: lex, Mode: mode, MaxEdit: 1, MinConfidence: 0.7}
}

func (c *Corrector) vocab() []string {
	if c.cacheValid && c.vocabMode == c.Mode {
		return c.vocabCache
	}
	c.vocabCache = c.Lexicon.GetCombinedVocab(c.Mode)
	c.vocabMode = c.Mode
	c.cacheValid = true
	return c.vocabCache
}

func (c *Corrector) isInVocab(w string) bool {
	return c.Lexicon != nil && c.Lexicon.Contains(w, c.Mode)
}

// findCandidates enumerates lexicon entries within the length-difference
// prefilter, scores them, and returns candidates sorted by
// (confidence desc, frequency desc, word asc).
func (c *Corrector) findCandidates(w string) []Candidate {
	var out []Candidate
	runeLen := len([]rune(w))
	for _, v := range c.vocab() {
		vLen := len([]rune(v))
		if abs(vLen-runeLen) > c.MaxEdit {
			continue
		}
		d := levenshtein.ComputeDistance(w, v)
		if d == 0 || d > c.MaxEdit {
			continue
		}
		freq := c.Lexicon.GetFrequency(v)
		confidence := 0.5*(1.0-float64(d)/float64(c.MaxEdit+1)) + 0.5*min1(float64(freq)/100.0)
		out = append(out, Candidate{Word: v, Distance: d, Frequency: freq, Confidence: confidence})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

// CorrectWord applies the single-word correction contract from spec.md §4.4.
func (c *Corrector) CorrectWord(w string) WordResult {
	if len([]rune(w)) < minCorrectionLength {
		return WordResult{Original: w, Corrected: w}
	}
	if c.isInVocab(w) {
		if normalized, ok := spellingVariants[w]; ok {
			return WordResult{Original: w, Corrected: normalized, WasCorrected: normalized != w}
		}
		return WordResult{Original: w, Corrected: w}
	}
	candidates := c.findCandidates(w)
	if len(candidates) == 0 {
		return WordResult{Original: w, Corrected: w}
	}
	best := candidates[0]
	if best.Confidence >= c.MinConfidence {
		return WordResult{Original: w, Corrected: best.Word, WasCorrected: true, Candidate: &best}
	}
	return WordResult{Original: w, Corrected: w}
}

// CorrectText rewrites every Gurmukhi-script word in t, preserving the
// surrounding non-word spans exactly (word count is preserved per spec.md
// invariant 5).
func (c *Corrector) CorrectText(t string, enforceScript bool) TextResult {
	locs := gurmukhiWordPattern.FindAllStringIndex(t, -1)
	if locs == nil {
		return TextResult{Text: t}
	}
	var b strings.Builder
	var results []WordResult
	last := 0
	for _, loc := range locs {
		b.WriteString(t[last:loc[0]])
		word := t[loc[0]:loc[1]]
		res := c.CorrectWord(word)
		b.WriteString(res.Corrected)
		results = append(results, res)
		last = loc[1]
	}
	b.WriteString(t[last:])
	return TextResult{Text: b.String(), Results: results}
}

// Stats summarizes how many words were looked at vs. corrected.
type Stats struct {
	TotalWords     int
	CorrectedWords int
}

func (r TextResult) Stats() Stats {
	s := Stats{TotalWords: len(r.Results)}
	for _, wr := range r.Results {
		if wr.WasCorrected {
			s.CorrectedWords++
		}
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func min1(f float64) float64 {
	if f > 1 {
		return 1
	}
	return f
}
