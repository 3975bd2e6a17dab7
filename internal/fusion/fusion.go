// Package fusion combines multiple ASR hypotheses for one audio chunk into
// a single scored result, grounded on the original ASRFusion algorithm and
// the teacher's hybrid-transcription voting idiom.
package fusion

import (
	"errors"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// SegmentTiming matches the spec's per_segment_timings field on a Hypothesis.
type SegmentTiming struct {
	Start, End float64
	Text       string
}

// Hypothesis is one engine's transcription of a chunk.
type Hypothesis struct {
	EngineID            string
	Text                string
	LanguageCode         string
	Confidence           float64
	LanguageProbability *float64
	SegmentTimings       []SegmentTiming
}

// Result is the spec's FusionResult entity.
type Result struct {
	FusedText        string
	FusedConfidence  float64
	AgreementScore   float64
	SelectedEngineID string
	Hypotheses       []Hypothesis
	RedecodeAttempts int
}

// Config holds the tunables named in spec.md §6's Fusion section.
type Config struct {
	AgreementThreshold float64
	ConfidenceBoost    float64
	RedecodeThreshold  float64
	MaxRedecodeAttempts int
}

func DefaultConfig() Config {
	return Config{AgreementThreshold: 0.85, ConfidenceBoost: 0.1, RedecodeThreshold: 0.6, MaxRedecodeAttempts: 2}
}

// Calibration rescales an engine's reported confidence before fusion, per
// hybrid_transcription.go's ConfidenceCalibration — off by default, applied
// only when a caller opts in via Engine.WithCalibration.
type Calibration struct {
	Scale float64
	Bias  float64
}

func (c Calibration) Apply(confidence float64) float64 {
	v := confidence*c.Scale + c.Bias
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DefaultCalibrations mirrors the teacher's table of per-engine-family
// overconfidence corrections; keyed loosely by engine id substring.
var DefaultCalibrations = map[string]Calibration{
	"ctc":   {Scale: 0.9, Bias: 0.0},
	"rnnt":  {Scale: 0.85, Bias: 0.05},
	"indic": {Scale: 1.0, Bias: 0.0},
}

// Engine runs fusion with a fixed configuration and optional calibration.
type Engine struct {
	Config       Config
	Calibrations map[string]Calibration
}

func New(cfg Config) *Engine {
	return &Engine{Config: cfg}
}

func (e *Engine) WithCalibration(cal map[string]Calibration) *Engine {
	e.Calibrations = cal
	return e
}

var ErrEmptyHypotheses = errors.New("fusion: empty hypothesis list")

// Fuse implements the contract in spec.md §4.5.
func (e *Engine) Fuse(hypotheses []Hypothesis) (Result, error) {
	if len(hypotheses) == 0 {
		return Result{}, ErrEmptyHypotheses
	}
	if len(hypotheses) == 1 {
		h := hypotheses[0]
		return Result{
			FusedText:        h.Text,
			FusedConfidence:  e.calibrated(h),
			AgreementScore:   1.0,
			SelectedEngineID: h.EngineID,
			Hypotheses:       hypotheses,
		}, nil
	}

	confidences := make([]float64, len(hypotheses))
	for i, h := range hypotheses {
		confidences[i] = e.calibrated(h)
	}

	agreement := e.agreementMatrix(hypotheses)
	avg := make([]float64, len(hypotheses))
	for i := range hypotheses {
		sum := 0.0
		for j := range hypotheses {
			sum += agreement[i][j]
		}
		avg[i] = sum / float64(len(hypotheses))
	}

	winner := e.selectWinner(hypotheses, confidences, avg)
	fusedConfidence := confidences[winner]
	agreementScore := avg[winner]
	if agreementScore >= e.Config.AgreementThreshold {
		fusedConfidence += e.Config.ConfidenceBoost
		if fusedConfidence > 1.0 {
			fusedConfidence = 1.0
		}
	}

	return Result{
		FusedText:        hypotheses[winner].Text,
		FusedConfidence:  fusedConfidence,
		AgreementScore:   agreementScore,
		SelectedEngineID: hypotheses[winner].EngineID,
		Hypotheses:       hypotheses,
	}, nil
}

func (e *Engine) calibrated(h Hypothesis) float64 {
	if e.Calibrations == nil {
		return h.Confidence
	}
	for key, cal := range e.Calibrations {
		if strings.Contains(strings.ToLower(h.EngineID), key) {
			return cal.Apply(h.Confidence)
		}
	}
	return h.Confidence
}

func (e *Engine) agreementMatrix(hs []Hypothesis) [][]float64 {
	n := len(hs)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := TextSimilarity(hs[i].Text, hs[j].Text)
			m[i][j] = s
			m[j][i] = s
		}
	}
	return m
}

// selectWinner implements the two-tier selection: among the high-agreement
// subset if non-empty, else over all hypotheses; tie-break prefers higher
// confidence, then engine index 0.
func (e *Engine) selectWinner(hs []Hypothesis, confidences, avg []float64) int {
	var highAgreement []int
	for i := range hs {
		if avg[i] >= e.Config.AgreementThreshold {
			highAgreement = append(highAgreement, i)
		}
	}
	pool := highAgreement
	if len(pool) == 0 {
		pool = make([]int, len(hs))
		for i := range hs {
			pool[i] = i
		}
	}
	best := pool[0]
	for _, i := range pool[1:] {
		if betterCandidate(confidences[i], i, confidences[best], best) {
			best = i
		}
	}
	return best
}

func betterCandidate(confA float64, idxA int, confB float64, idxB int) bool {
	if confA != confB {
		return confA > confB
	}
	// primary engine (index 0) wins ties.
	if idxA == 0 && idxB != 0 {
		return true
	}
	if idxB == 0 && idxA != 0 {
		return false
	}
	return idxA < idxB
}

// ShouldRedecode applies the re-decode trigger rules from spec.md §4.5.
func (e *Engine) ShouldRedecode(r Result) bool {
	if r.RedecodeAttempts >= e.Config.MaxRedecodeAttempts {
		return false
	}
	return r.FusedConfidence < e.Config.RedecodeThreshold || r.AgreementScore < 0.5
}

// ApplyRedecode appends a newly produced hypothesis and re-runs fusion,
// carrying the attempt counter forward.
func (e *Engine) ApplyRedecode(r Result, newHypothesis Hypothesis) (Result, error) {
	hs := append(append([]Hypothesis{}, r.Hypotheses...), newHypothesis)
	next, err := e.Fuse(hs)
	if err != nil {
		return r, err
	}
	next.RedecodeAttempts = r.RedecodeAttempts + 1
	return next, nil
}

// TextSimilarity implements the three-tier metric the spec names: token-
// sort ratio preferred, Levenshtein-ratio fallback, Jaccard over character
// sets as last resort. In this port token-sort ratio is itself built on
// Levenshtein and always yields a ratio, so the Levenshtein-ratio tier is
// never reached; Jaccard is used only when exactly one text is empty (and
// then scores 0). Both tiers are kept to preserve the documented chain.
func TextSimilarity(a, b string) float64 {
	na, nb := normalizeWhitespace(a), normalizeWhitespace(b)
	if na == "" && nb == "" {
		return 1.0
	}
	if na == "" || nb == "" {
		return jaccardCharSets(na, nb)
	}
	if ratio, ok := tokenSortRatio(na, nb); ok {
		return ratio
	}
	if ratio, ok := levenshteinRatio(na, nb); ok {
		return ratio
	}
	return jaccardCharSets(na, nb)
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func tokenSortRatio(a, b string) (float64, bool) {
	sa := sortedTokens(a)
	sb := sortedTokens(b)
	return levenshteinRatio(sa, sb)
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func levenshteinRatio(a, b string) (float64, bool) {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0, true
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(d)/float64(maxLen), true
}

func jaccardCharSets(a, b string) float64 {
	setA := charSet(a)
	setB := charSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	inter, union := 0, 0
	seen := map[rune]struct{}{}
	for r := range setA {
		seen[r] = struct{}{}
		if _, ok := setB[r]; ok {
			inter++
		}
	}
	for r := range setB {
		seen[r] = struct{}{}
	}
	union = len(seen)
	if union == 0 {
		return 1.0
	}
	return float64(inter) / float64(union)
}

func charSet(s string) map[rune]struct{} {
	m := map[rune]struct{}{}
	for _, r := range s {
		if r == ' ' {
			continue
		}
		m[r] = struct{}{}
	}
	return m
}
