// Package lexicon holds the curated Gurmukhi vocabulary, domain-priority
// weighting, and frequency tables shared by the drift detector and the
// domain corrector.
package lexicon

import "sort"

// DomainMode selects which scripture corpus a run is biased toward.
type DomainMode string

const (
	DomainSGGS    DomainMode = "sggs"
	DomainDasam   DomainMode = "dasam"
	DomainGeneric DomainMode = "generic"
)

// LanguageRegister names one of the archaic linguistic registers that make
// up Gurbani text, carried from the original source's per-register priority
// weighting (not named directly by the distilled component list, but it
// backs the Lexicon's domain priority weights).
type LanguageRegister string

const (
	RegisterSantBhasha      LanguageRegister = "sant_bhasha"
	RegisterBrajBhasha      LanguageRegister = "braj_bhasha"
	RegisterOldPunjabi      LanguageRegister = "old_punjabi"
	RegisterAvadhi          LanguageRegister = "avadhi"
	RegisterSanskritDerived LanguageRegister = "sanskrit_derived"
	RegisterPersianDerived  LanguageRegister = "persian_derived"
	RegisterArabicDerived   LanguageRegister = "arabic_derived"
	RegisterApabhramsha     LanguageRegister = "apabhramsha"
)

// DomainPriorities weights each register's contribution when two domain
// modes disagree on a candidate word's plausibility.
type DomainPriorities map[LanguageRegister]float64

func (p DomainPriorities) Weight(r LanguageRegister) float64 {
	if w, ok := p[r]; ok {
		return w
	}
	return 0.5
}

// PriorityList returns registers ordered from highest to lowest weight,
// ties broken lexicographically for determinism.
func (p DomainPriorities) PriorityList() []LanguageRegister {
	out := make([]LanguageRegister, 0, len(p))
	for r := range p {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if p[out[i]] != p[out[j]] {
			return p[out[i]] > p[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func GetDomainPriorities(mode DomainMode) DomainPriorities {
	switch mode {
	case DomainDasam:
		return DomainPriorities{
			RegisterBrajBhasha:      1.0,
			RegisterSanskritDerived: 0.9,
			RegisterOldPunjabi:      0.6,
			RegisterSantBhasha:      0.5,
			RegisterAvadhi:          0.4,
			RegisterPersianDerived:  0.3,
			RegisterArabicDerived:   0.2,
			RegisterApabhramsha:     0.3,
		}
	case DomainGeneric:
		return DomainPriorities{
			RegisterOldPunjabi:      0.7,
			RegisterSantBhasha:      0.5,
			RegisterBrajBhasha:      0.4,
			RegisterSanskritDerived: 0.4,
			RegisterPersianDerived:  0.4,
			RegisterArabicDerived:   0.3,
			RegisterAvadhi:          0.3,
			RegisterApabhramsha:     0.2,
		}
	default: // DomainSGGS
		return DomainPriorities{
			RegisterSantBhasha:      1.0,
			RegisterOldPunjabi:      0.8,
			RegisterSanskritDerived: 0.6,
			RegisterPersianDerived:  0.5,
			RegisterBrajBhasha:      0.4,
			RegisterArabicDerived:   0.3,
			RegisterAvadhi:          0.3,
			RegisterApabhramsha:     0.3,
		}
	}
}

// BuildMetadata describes the provenance of a built Lexicon, matching the
// spec's Lexicon.build_metadata field.
type BuildMetadata struct {
	BuildVersion  string
	SGGSLineCount int
	DasamLineCount int
}

// Lexicon is the read-only, process-scoped vocabulary artifact used by the
// drift detector and domain corrector.
type Lexicon struct {
	SGGSVocab        map[string]struct{}
	DasamVocab       map[string]struct{}
	CommonParticles  map[string]struct{}
	Honorifics       map[string]struct{}
	RaagNames        map[string]struct{}
	TheologicalTerms map[string]struct{}
	WordFrequencies  map[string]int
	Metadata         BuildMetadata
}

// ScriptureLine is the minimal shape the lexicon builder needs out of a
// scripture store row; kept local so this package does not depend on
// internal/scripture.
type ScriptureLine struct {
	GurmukhiText string
}

// ScriptureStore is the narrow read interface the lexicon builder needs.
type ScriptureStore interface {
	AllLines(source string) []ScriptureLine
}

func New() *Lexicon {
	return &Lexicon{
		SGGSVocab:        map[string]struct{}{},
		DasamVocab:       map[string]struct{}{},
		CommonParticles:  defaultParticles(),
		Honorifics:       defaultHonorifics(),
		RaagNames:        defaultRaagNames(),
		TheologicalTerms: defaultTheologicalTerms(),
		WordFrequencies:  map[string]int{},
		Metadata:         BuildMetadata{BuildVersion: "1.0"},
	}
}

// BuildFromStore walks every line in the given source corpora and populates
// vocab sets and frequency counts, mirroring domain_lexicon.py's builder.
func BuildFromStore(store ScriptureStore) *Lexicon {
	lex := New()
	for _, line := range store.AllLines("SGGS") {
		for _, w := range splitWords(line.GurmukhiText) {
			lex.SGGSVocab[w] = struct{}{}
			lex.WordFrequencies[w]++
		}
		lex.Metadata.SGGSLineCount++
	}
	for _, line := range store.AllLines("DasamGranth") {
		for _, w := range splitWords(line.GurmukhiText) {
			lex.DasamVocab[w] = struct{}{}
			lex.WordFrequencies[w]++
		}
		lex.Metadata.DasamLineCount++
	}
	return lex
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			flush()
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Contains reports whether w belongs to the vocabulary selected by mode.
func (l *Lexicon) Contains(w string, mode DomainMode) bool {
	if _, ok := l.CommonParticles[w]; ok {
		return true
	}
	if _, ok := l.Honorifics[w]; ok {
		return true
	}
	if _, ok := l.RaagNames[w]; ok {
		return true
	}
	if _, ok := l.TheologicalTerms[w]; ok {
		return true
	}
	switch mode {
	case DomainDasam:
		_, ok := l.DasamVocab[w]
		return ok
	case DomainGeneric:
		_, inSGGS := l.SGGSVocab[w]
		_, inDasam := l.DasamVocab[w]
		return inSGGS || inDasam
	default:
		_, ok := l.SGGSVocab[w]
		return ok
	}
}

func (l *Lexicon) GetFrequency(w string) int {
	return l.WordFrequencies[w]
}

// GetCombinedVocab returns every word reachable under mode, used by the
// domain corrector's candidate search.
func (l *Lexicon) GetCombinedVocab(mode DomainMode) []string {
	seen := map[string]struct{}{}
	add := func(set map[string]struct{}) {
		for w := range set {
			seen[w] = struct{}{}
		}
	}
	add(l.CommonParticles)
	add(l.Honorifics)
	add(l.RaagNames)
	add(l.TheologicalTerms)
	switch mode {
	case DomainDasam:
		add(l.DasamVocab)
	case DomainGeneric:
		add(l.SGGSVocab)
		add(l.DasamVocab)
	default:
		add(l.SGGSVocab)
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func defaultParticles() map[string]struct{} {
	return toSet([]string{"ਦਾ", "ਦੀ", "ਦੇ", "ਨੂੰ", "ਨੇ", "ਤੇ", "ਵਿੱਚ", "ਵਿਚ", "ਹੈ", "ਹਨ", "ਸੀ", "ਸਨ", "ਅਤੇ", "ਜਾਂ", "ਕਿ"})
}

func defaultHonorifics() map[string]struct{} {
	return toSet([]string{"ਜੀ", "ਸਾਹਿਬ", "ਜੀਉ", "ਮਹਾਰਾਜ", "ਗੁਰੂ", "ਸਤਿਗੁਰੂ", "ਵਾਹਿਗੁਰੂ"})
}

func defaultRaagNames() map[string]struct{} {
	return toSet([]string{"ਸਿਰੀਰਾਗੁ", "ਮਾਝ", "ਗਉੜੀ", "ਆਸਾ", "ਗੂਜਰੀ", "ਦੇਵਗੰਧਾਰੀ", "ਬਿਹਾਗੜਾ", "ਵਡਹੰਸੁ", "ਸੋਰਠਿ", "ਧਨਾਸਰੀ", "ਜੈਤਸਰੀ", "ਟੋਡੀ", "ਬੈਰਾੜੀ", "ਤਿਲੰਗ", "ਸੂਹੀ", "ਬਿਲਾਵਲੁ", "ਗੋਂਡ", "ਰਾਮਕਲੀ", "ਨਟ ਨਾਰਾਇਨ", "ਮਾਲੀ ਗਉੜਾ", "ਮਾਰੂ", "ਤੁਖਾਰੀ", "ਕੇਦਾਰਾ", "ਭੈਰਉ", "ਬਸੰਤੁ", "ਸਾਰਗ", "ਮਲਾਰ", "ਕਾਨੜਾ", "ਕਲਿਆਨ", "ਪ੍ਰਭਾਤੀ", "ਜੈਜਾਵੰਤੀ"})
}

func defaultTheologicalTerms() map[string]struct{} {
	return toSet([]string{"ਵਾਹਿਗੁਰੂ", "ਸਤਿਗੁਰੂ", "ਗੁਰੂ", "ਬਾਣੀ", "ਸ਼ਬਦ", "ਪ੍ਰਭੂ", "ਰਾਮ", "ਹਰਿ", "ਗੋਬਿੰਦ", "ਕਿਰਪਾ", "ਮਿਹਰ", "ਸਤਿ", "ਨਾਮੁ", "ਕਰਤਾ", "ਪੁਰਖੁ", "ਅਕਾਲ", "ਮੂਰਤਿ", "ਨਿਰਭਉ", "ਨਿਰਵੈਰੁ", "ਅਜੂਨੀ", "ਸੈਭੰ", "ਗੁਰਪ੍ਰਸਾਦਿ", "ਮੁਕਤਿ", "ਜੁਗਤਿ", "ਭਗਤਿ"})
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
