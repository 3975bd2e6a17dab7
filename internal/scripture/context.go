package scripture

import "regexp"

// Route mirrors engine.Route, the tagged route variant the orchestrator
// uses; duplicated here as a string so this package does not import
// internal/engine.
type Route string

const RouteScriptureQuoteLikely Route = "scripture_quote_likely"

// CandidateResult is the outcome of Stage A detection.
type CandidateResult struct {
	IsCandidate     bool
	Confidence      float64
	DetectionReason string
}

var introPatterns = []struct {
	re     *regexp.Regexp
	reason string
}{
	{regexp.MustCompile(`ਜਿਵੇਂ ਬਾਣੀ (ਵਿੱਚ|ਚ) (ਕਿਹਾ|ਆਇਆ|ਲਿਖਿਆ)`), "intro_bani_phrase"},
	{regexp.MustCompile(`ਗੁਰੂ ਸਾਹਿਬ ਫੁਰਮਾਉਂਦੇ`), "intro_guru_sahib"},
	{regexp.MustCompile(`ਸਤਿਗੁਰੂ ਜੀ ਫੁਰਮਾਉਂਦੇ`), "intro_satguru"},
	{regexp.MustCompile(`ਗੁਰਬਾਣੀ ਦਾ (ਫੁਰਮਾਨ|ਬਚਨ) ਹੈ`), "intro_gurbani_furman"},
	{regexp.MustCompile(`ਅੰਗ \d+`), "ang_reference"},
	{regexp.MustCompile(`ਪੰਨਾ \d+`), "panna_reference"},
	{regexp.MustCompile(`ਰਾਗ \S+ (ਵਿੱਚ|ਚ)`), "raag_reference"},
	{regexp.MustCompile(`(ਇਸ|ਇਹ) (ਸ਼ਬਦ|ਸਲੋਕ) (ਵਿੱਚ|ਚ)`), "shabad_salok_reference"},
	{regexp.MustCompile(`ਮਹਲਾ [੧-੯1-9]`), "mahala_reference"},
}

var internalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`॥\s*ਰਹਾਉ\s*॥`),
	regexp.MustCompile(`॥\s*\d+\s*॥`),
}

// gurbaniVocabulary is the closed archaic-word set used for density scoring.
var gurbaniVocabulary = toSet([]string{
	"ਹਰਿ", "ਪ੍ਰਭ", "ਪ੍ਰਭੁ", "ਗੋਬਿੰਦ", "ਗੋਪਾਲ", "ਮਾਧੋ", "ਨਾਮੁ", "ਨਾਮਿ",
	"ਸਬਦੁ", "ਸਬਦਿ", "ਹੁਕਮੁ", "ਹੁਕਮਿ", "ਹੋਇ", "ਹੋਵੈ", "ਕਰੈ", "ਜਪੈ", "ਮਿਲੈ",
	"ਪਾਵੈ", "ਕਉ", "ਤਉ", "ਜਉ", "ਸਉ", "ਮੁਕਤਿ", "ਜੁਗਤਿ", "ਭਗਤਿ", "ਬਿਰਤਿ",
	"ਮੋਹਿ", "ਤੋਹਿ", "ਕਾਹੂ", "ਜਾਹੂ",
})

const minVocabDensity = 0.25

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// DetectCandidate implements Stage A of spec.md §4.6.
func DetectCandidate(text string, routeHint Route) CandidateResult {
	if routeHint == RouteScriptureQuoteLikely {
		return CandidateResult{IsCandidate: true, Confidence: 1.0, DetectionReason: "route_hint"}
	}
	for _, p := range introPatterns {
		if p.re.MatchString(text) {
			return CandidateResult{IsCandidate: true, Confidence: 0.9, DetectionReason: p.reason}
		}
	}
	for _, re := range internalPatterns {
		if re.MatchString(text) {
			return CandidateResult{IsCandidate: true, Confidence: 0.85, DetectionReason: "verse_marker"}
		}
	}
	density := vocabularyDensity(text)
	if density >= minVocabDensity {
		return CandidateResult{IsCandidate: true, Confidence: density, DetectionReason: "vocabulary_density"}
	}
	return CandidateResult{IsCandidate: false}
}

func vocabularyDensity(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}
	matches := 0
	for _, tok := range tokens {
		if _, ok := gurbaniVocabulary[tok]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(tokens))
}
