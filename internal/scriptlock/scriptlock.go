// Package scriptlock classifies text by script, enforces Gurmukhi output,
// and repairs non-Gurmukhi input via transliteration.
package scriptlock

import (
	"strings"
	"unicode/utf8"
)

const (
	gurmukhiLo   = 0x0A00
	gurmukhiHi   = 0x0A7F
	devanagariLo = 0x0900
	devanagariHi = 0x097F
	arabicLo     = 0x0600
	arabicHi     = 0x06FF
)

// allowedPunctuation mirrors the fixed punctuation set the spec names,
// including the Gurmukhi danda/double-danda/bindi marks.
var allowedPunctuation = map[rune]struct{}{
	',': {}, '.': {}, ';': {}, ':': {}, '!': {}, '?': {}, '-': {}, '\'': {},
	'"': {}, '(': {}, ')': {}, '[': {}, ']': {}, '{': {}, '}': {},
	'।': {}, '॥': {}, '੶': {},
}

// ScriptAnalysis is the per-character classification tally and its derived
// ratios, matching the spec's ScriptAnalysis entity.
type ScriptAnalysis struct {
	Total       int
	Gurmukhi    int
	Latin       int
	Devanagari  int
	Arabic      int
	Other       int
	SpacePunct  int
}

// ScriptPurity is gurmukhi / (total - space_punct). An empty-denominator
// text is reported as pure (nothing to contaminate it).
func (a ScriptAnalysis) ScriptPurity() float64 {
	denom := a.Total - a.SpacePunct
	if denom <= 0 {
		return 1.0
	}
	return float64(a.Gurmukhi) / float64(denom)
}

func (a ScriptAnalysis) LatinRatio() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Latin) / float64(a.Total)
}

func (a ScriptAnalysis) IsPureGurmukhi() bool {
	return a.Latin == 0 && a.Devanagari == 0 && a.Arabic == 0 && a.Other == 0
}

func isGurmukhi(r rune) bool   { return r >= gurmukhiLo && r <= gurmukhiHi }
func isDevanagari(r rune) bool { return r >= devanagariLo && r <= devanagariHi }
func isArabic(r rune) bool     { return r >= arabicLo && r <= arabicHi }
func isLatin(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= 0x00C0 && r <= 0x024F) // Latin-1 supplement + extended-A/B range
}
func isSpaceOrPunct(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	if r >= '0' && r <= '9' {
		return true
	}
	_, ok := allowedPunctuation[r]
	return ok
}

func classify(r rune, a *ScriptAnalysis) {
	switch {
	case isSpaceOrPunct(r):
		a.SpacePunct++
	case isGurmukhi(r):
		a.Gurmukhi++
	case isDevanagari(r):
		a.Devanagari++
	case isArabic(r):
		a.Arabic++
	case isLatin(r):
		a.Latin++
	default:
		a.Other++
	}
}

// Analyze tallies every rune in text into a ScriptAnalysis.
func Analyze(text string) ScriptAnalysis {
	var a ScriptAnalysis
	for _, r := range text {
		a.Total++
		classify(r, &a)
	}
	return a
}

// Mode selects the strictness of Validate.
type Mode int

const (
	Lenient Mode = iota
	Strict
)

// Validate reports whether text already satisfies the Gurmukhi purity bar
// for the given mode.
func Validate(text string, mode Mode) bool {
	a := Analyze(text)
	if mode == Strict {
		return a.ScriptPurity() >= 0.95 && a.LatinRatio() < 0.02
	}
	return a.ScriptPurity() >= 0.80
}

// Repair runs the ordered three-step (four including whitespace collapse)
// procedure the spec names: Devanagari conversion, Latin transliteration or
// drop, non-allowed-character filtering, whitespace collapse. It reports
// whether the text changed.
func Repair(text string) (string, bool) {
	converted := convertDevanagari(text)
	translit := transliterateLatinWords(converted)
	filtered := filterDisallowed(translit)
	collapsed := collapseSpaces(filtered)
	return collapsed, collapsed != text
}

// Enforce repairs text and reports the final analysis plus whether repair
// ran. In strict mode a repair that still falls short of the purity bar is
// still returned — enforcement is best-effort per the spec's invariant 3.
func Enforce(text string, strict bool) (string, ScriptAnalysis, bool) {
	mode := Lenient
	if strict {
		mode = Strict
	}
	if Validate(text, mode) {
		return text, Analyze(text), false
	}
	repaired, changed := Repair(text)
	return repaired, Analyze(repaired), changed
}

func convertDevanagari(text string) string {
	var b strings.Builder
	for _, r := range text {
		if g, ok := devanagariToGurmukhi[r]; ok {
			b.WriteRune(g)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func transliterateLatinWords(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !isAllLatinWord(w) {
			out = append(out, w)
			continue
		}
		if utf8.RuneCountInString(w) > 10 {
			continue // dropped: too long to reliably transliterate
		}
		out = append(out, transliterateLatinWord(w))
	}
	return strings.Join(out, " ")
}

func isAllLatinWord(w string) bool {
	hasLatin := false
	for _, r := range w {
		if isLatin(r) {
			hasLatin = true
			continue
		}
		if !isSpaceOrPunct(r) {
			return false
		}
	}
	return hasLatin
}

// transliterateLatinWord greedily matches the longest (three-char, then
// two-char, then one-char) phonetic prefix at each position.
func transliterateLatinWord(w string) string {
	lower := strings.ToLower(w)
	runes := []rune(lower)
	var b strings.Builder
	for i := 0; i < len(runes); {
		matched := false
		for size := 3; size >= 2 && !matched; size-- {
			if i+size <= len(runes) {
				if g, ok := latinToGurmukhi[string(runes[i:i+size])]; ok {
					b.WriteString(g)
					i += size
					matched = true
				}
			}
		}
		if matched {
			continue
		}
		single := string(runes[i])
		if g, ok := latinToGurmukhi[single]; ok {
			b.WriteString(g)
		}
		i++
	}
	return b.String()
}

func filterDisallowed(text string) string {
	var b strings.Builder
	for _, r := range text {
		if isGurmukhi(r) || isSpaceOrPunct(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpaces(text string) string {
	fields := strings.Fields(text)
	return strings.Join(fields, " ")
}

// devanagariToGurmukhi is the fixed bijective table: vowels, consonants,
// vowel signs (matras), nukta forms, and digits.
var devanagariToGurmukhi = map[rune]rune{
	// independent vowels
	0x0905: 0x0A05, 0x0906: 0x0A06, 0x0907: 0x0A07, 0x0908: 0x0A08,
	0x0909: 0x0A09, 0x090A: 0x0A0A, 0x090F: 0x0A0F, 0x0910: 0x0A10,
	0x0913: 0x0A13, 0x0914: 0x0A14,
	// consonants
	0x0915: 0x0A15, 0x0916: 0x0A16, 0x0917: 0x0A17, 0x0918: 0x0A18, 0x0919: 0x0A19,
	0x091A: 0x0A1A, 0x091B: 0x0A1B, 0x091C: 0x0A1C, 0x091D: 0x0A1D, 0x091E: 0x0A1E,
	0x091F: 0x0A1F, 0x0920: 0x0A20, 0x0921: 0x0A21, 0x0922: 0x0A22, 0x0923: 0x0A23,
	0x0924: 0x0A24, 0x0925: 0x0A25, 0x0926: 0x0A26, 0x0927: 0x0A27, 0x0928: 0x0A28,
	0x092A: 0x0A2A, 0x092B: 0x0A2B, 0x092C: 0x0A2C, 0x092D: 0x0A2D, 0x092E: 0x0A2E,
	0x092F: 0x0A2F, 0x0930: 0x0A30, 0x0932: 0x0A32, 0x0935: 0x0A35,
	0x0936: 0x0A36, 0x0937: 0x0A36, 0x0938: 0x0A38, 0x0939: 0x0A39,
	// vowel signs (matras)
	0x093E: 0x0A3E, 0x093F: 0x0A3F, 0x0940: 0x0A40, 0x0941: 0x0A41, 0x0942: 0x0A42,
	0x0947: 0x0A47, 0x0948: 0x0A48, 0x094B: 0x0A4B, 0x094C: 0x0A4C,
	0x094D: 0x0A4D, // virama/halant
	// nukta forms
	0x0958: 0x0A33, 0x0959: 0x0A36, 0x095A: 0x0A17, 0x095B: 0x0A1C, 0x095C: 0x0A5C, 0x095E: 0x0A5E,
	// digits
	0x0966: 0x0A66, 0x0967: 0x0A67, 0x0968: 0x0A68, 0x0969: 0x0A69, 0x096A: 0x0A6A,
	0x096B: 0x0A6B, 0x096C: 0x0A6C, 0x096D: 0x0A6D, 0x096E: 0x0A6E, 0x096F: 0x0A6F,
	// anusvara / bindi, chandrabindu
	0x0902: 0x0A02, 0x0901: 0x0A01,
}

// latinToGurmukhi is the fixed phonetic table for transliterating Latin
// words; multi-character keys are tried first by the greedy matcher above.
var latinToGurmukhi = map[string]string{
	"kh": "ਖ", "gh": "ਘ", "ch": "ਚ", "chh": "ਛ", "jh": "ਝ",
	"th": "ਥ", "dh": "ਧ", "ph": "ਫ", "bh": "ਭ", "ng": "ਙ", "ny": "ਞ",
	"aa": "ਆ", "ee": "ਈ", "oo": "ਊ", "ai": "ਐ", "au": "ਔ", "sh": "ਸ਼",
	"a": "ਅ", "i": "ਇ", "u": "ਉ", "e": "ਏ", "o": "ਓ",
	"k": "ਕ", "g": "ਗ", "c": "ਚ", "j": "ਜ", "t": "ਤ", "d": "ਦ",
	"n": "ਨ", "p": "ਪ", "b": "ਬ", "m": "ਮ", "y": "ਯ", "r": "ਰ",
	"l": "ਲ", "v": "ਵ", "w": "ਵ", "s": "ਸ", "h": "ਹ", "f": "ਫ਼", "z": "ਜ਼",
}
