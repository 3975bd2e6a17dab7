// Package drift assesses how far a transcription has strayed from
// clean Gurmukhi output and what, if anything, should be done about it.
package drift

import (
	"regexp"
	"strings"

	"gurbanicore/internal/lexicon"
	"gurbanicore/internal/scriptlock"
)

type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Type string

const (
	TypeScriptMix    Type = "script_mix"
	TypeEnglishDrift Type = "english_drift"
	TypeHighOOV      Type = "high_oov"
	TypeURL          Type = "url"
	TypeHinglish     Type = "hinglish"
	TypeSlang        Type = "slang"
	TypeEmoji        Type = "emoji"
	TypeLowPurity    Type = "low_purity"
)

// Diagnostic matches the spec's DriftDiagnostic entity.
type Diagnostic struct {
	ScriptPurity float64
	LatinRatio   float64
	OOVRatio     float64
	Severity     Severity
	DriftTypes   []Type

	Reject   bool
	Redecode bool
	Correct  bool
}

// Thresholds holds the tunable cutoffs; defaults match spec.md §6.
type Thresholds struct {
	PurityThreshold     float64
	LatinRatioThreshold float64
	OOVRatioThreshold   float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{PurityThreshold: 0.95, LatinRatioThreshold: 0.02, OOVRatioThreshold: 0.15}
}

var (
	urlPattern          = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+|\b[\w.+-]+@[\w-]+\.[\w.-]+\b)`)
	englishWordPattern  = regexp.MustCompile(`[A-Za-z]+`)
	englishSeqPattern   = regexp.MustCompile(`([A-Za-z]+\s+){2,}[A-Za-z]+`)
	gurmukhiWordPattern = regexp.MustCompile(`[\x{0A00}-\x{0A7F}]+`)
	emojiPattern        = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{1F1E6}-\x{1F1FF}]`)
)

var hinglishMarkers = toSet([]string{
	"hai", "hain", "ho", "tha", "thi", "the", "ka", "ki", "ke", "ko", "se",
	"mein", "par", "aur", "lekin", "toh", "bhi", "kya", "kyun", "nahi",
	"nahin", "ji", "jee", "bahut", "achha", "acha", "theek", "thik", "ok", "okay",
})

var modernSlang = toSet([]string{
	"lol", "omg", "btw", "brb", "idk", "fyi", "cool", "bro", "dude",
	"guys", "like", "literally", "basically", "actually", "random",
})

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Detector evaluates drift against a lexicon's out-of-vocabulary surface.
type Detector struct {
	Lexicon    *lexicon.Lexicon
	Mode       lexicon.DomainMode
	Thresholds Thresholds
}

func New(lex *lexicon.Lexicon, mode lexicon.DomainMode) *Detector {
	return &Detector{Lexicon: lex, Mode: mode, Thresholds: DefaultThresholds()}
}

// Detect runs every signal and classifies overall severity.
func (d *Detector) Detect(text string) Diagnostic {
	analysis := scriptlock.Analyze(text)
	purity := analysis.ScriptPurity()
	latinRatio := analysis.LatinRatio()
	oov := d.oovRatio(text)

	var types []Type
	if purity < d.Thresholds.PurityThreshold {
		types = append(types, TypeLowPurity)
	}
	englishDrift := latinRatio > d.Thresholds.LatinRatioThreshold && len(englishSeqPattern.FindAllString(text, -1)) > 0
	if englishDrift {
		types = append(types, TypeEnglishDrift)
	}
	if oov > d.Thresholds.OOVRatioThreshold {
		types = append(types, TypeHighOOV)
	}
	hasURL := urlPattern.MatchString(text)
	if hasURL {
		types = append(types, TypeURL)
	}
	if d.countMarkers(text, hinglishMarkers) >= 2 {
		types = append(types, TypeHinglish)
	}
	if d.countMarkers(text, modernSlang) >= 1 {
		types = append(types, TypeSlang)
	}
	if emojiPattern.MatchString(text) {
		types = append(types, TypeEmoji)
	}

	severity := classifySeverity(purity, latinRatio, oov, types, hasURL, englishDrift, d.Thresholds)

	diag := Diagnostic{
		ScriptPurity: purity,
		LatinRatio:   latinRatio,
		OOVRatio:     oov,
		Severity:     severity,
		DriftTypes:   types,
	}
	diag.Reject = severity == SeverityCritical
	diag.Redecode = severity == SeverityHigh || severity == SeverityCritical
	diag.Correct = severity == SeverityLow || severity == SeverityMedium
	return diag
}

func classifySeverity(purity, latinRatio, oov float64, types []Type, hasURL, englishDrift bool, th Thresholds) Severity {
	if purity < 0.5 || hasURL {
		return SeverityCritical
	}

	highConds := 0
	if purity < 0.80 {
		highConds++
	}
	if latinRatio > 0.10 {
		highConds++
	}
	if len(types) >= 3 {
		highConds++
	}
	if englishDrift && latinRatio > 0.05 {
		highConds++
	}
	if highConds >= 2 {
		return SeverityHigh
	}

	medConds := 0
	if purity < th.PurityThreshold {
		medConds++
	}
	if latinRatio > th.LatinRatioThreshold {
		medConds++
	}
	if oov > th.OOVRatioThreshold {
		medConds++
	}
	if len(types) >= 2 {
		medConds++
	}
	if medConds >= 2 {
		return SeverityMedium
	}

	if len(types) > 0 || purity < 0.98 {
		return SeverityLow
	}
	return SeverityNone
}

func (d *Detector) oovRatio(text string) float64 {
	words := gurmukhiWordPattern.FindAllString(text, -1)
	if len(words) == 0 {
		return 0
	}
	oov := 0
	for _, w := range words {
		if d.Lexicon == nil || !d.Lexicon.Contains(w, d.Mode) {
			oov++
		}
	}
	return float64(oov) / float64(len(words))
}

func (d *Detector) countMarkers(text string, markers map[string]struct{}) int {
	count := 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if _, ok := markers[w]; ok {
			count++
		}
	}
	return count
}

// IsAcceptable reports whether severity is low enough to pass without
// further intervention (none or low).
func (diag Diagnostic) IsAcceptable() bool {
	return diag.Severity == SeverityNone || diag.Severity == SeverityLow
}
