package orchestrator

import (
	"context"
	"sync"
	"time"

	"gurbanicore/internal/correct"
	"gurbanicore/internal/denoise"
	"gurbanicore/internal/drift"
	"gurbanicore/internal/engine"
	"gurbanicore/internal/fusion"
	"gurbanicore/internal/lexicon"
	"gurbanicore/internal/scriptlock"
	"gurbanicore/internal/scripture"
)

// Config holds the orchestrator's run-time tunables, assembled from the
// other packages' own Config types per spec.md §6.
type Config struct {
	Mode         lexicon.DomainMode
	StrictScript bool
	SampleRate   int
	AuxTimeout   time.Duration
	Denoise      denoise.Config
	Retry        RetryConfig
	Fusion       fusion.Config
}

func DefaultConfig() Config {
	return Config{
		Mode:         lexicon.DomainSGGS,
		StrictScript: true,
		SampleRate:   16000,
		AuxTimeout:   3 * time.Second,
		Denoise:      denoise.DefaultConfig(),
		Retry:        DefaultRetryConfig(),
		Fusion:       fusion.DefaultConfig(),
	}
}

// Orchestrator wires every domain package into the per-chunk pipeline.
// It owns no hidden singletons: every collaborator is passed in at
// construction, matching ai/pipeline.go's explicit-dependency idiom.
type Orchestrator struct {
	Config Config

	Primary   engine.TranscriptionEngine
	Auxiliary map[string]engine.TranscriptionEngine
	Denoiser  denoise.Denoiser

	Fusion    *fusion.Engine
	Drift     *drift.Detector
	Corrector *correct.Corrector
	Scripture *scripture.Matcher

	// OnDraft, when set, is invoked with the primary engine's raw
	// transcript as soon as it is available, before fusion/correction/
	// scripture-matching run, implementing the spec's low-latency draft
	// callback (spec.md §6).
	OnDraft func(chunkID string, text string, confidence float64, language string)

	mu              sync.Mutex
	currentShabadID string
	missStreak      int
}

// New constructs an Orchestrator. primary and auxiliary must be non-nil;
// a nil denoiser defaults to denoise.NoOp.
func New(cfg Config, primary engine.TranscriptionEngine, auxiliary map[string]engine.TranscriptionEngine, denoiser denoise.Denoiser, lex *lexicon.Lexicon, scriptureMatcher *scripture.Matcher) *Orchestrator {
	if denoiser == nil {
		denoiser = denoise.NoOp{}
	}
	return &Orchestrator{
		Config:    cfg,
		Primary:   primary,
		Auxiliary: auxiliary,
		Denoiser:  denoiser,
		Fusion:    fusion.New(cfg.Fusion),
		Drift:     drift.New(lex, cfg.Mode),
		Corrector: correct.New(lex, cfg.Mode),
		Scripture: scriptureMatcher,
	}
}

// ProcessChunk runs the full per-chunk procedure from spec.md §4.7 and
// returns the resulting ProcessedSegment.
func (o *Orchestrator) ProcessChunk(ctx context.Context, chunkID string, start, end float64, samples []float32) (ProcessedSegment, error) {
	if o.Config.Denoise.Enabled {
		if level := o.Denoiser.EstimateNoiseLevel(samples); level >= o.Config.Denoise.AutoThreshold {
			samples = o.Denoiser.DenoiseChunk(samples, o.Config.SampleRate)
		}
	}

	primary, err := o.transcribeWithRetry(ctx, samples)
	if err != nil {
		return ProcessedSegment{}, &engine.ASREngineError{EngineID: "primary", Err: err}
	}
	if o.OnDraft != nil {
		o.OnDraft(chunkID, primary.Text, primary.Confidence, primary.LanguageCode)
	}

	route := decideRoute(primary.Text)
	auxHyps := o.runAuxiliary(ctx, route, samples)

	hyps := append([]fusion.Hypothesis{primary}, auxHyps...)
	result, err := o.Fusion.Fuse(hyps)
	if err != nil {
		return ProcessedSegment{}, err
	}

	for o.Fusion.ShouldRedecode(result) {
		redo, err := o.transcribeOnce(ctx, samples, engine.ChunkOptions{BeamSize: 8})
		if err != nil {
			break
		}
		result, err = o.Fusion.ApplyRedecode(result, redo)
		if err != nil {
			break
		}
	}

	text := result.FusedText
	if text == "" {
		text = emptyTranscriptSentinel
	}

	var originalScript string
	scriptAnalysis := scriptlock.Analyze(text)
	scriptConfidence := scriptAnalysis.ScriptPurity()
	// The sentinel is kept verbatim; script-lock repair would transliterate it.
	if text != emptyTranscriptSentinel && !scriptAnalysis.IsPureGurmukhi() {
		originalScript = text
		enforced, _, _ := scriptlock.Enforce(text, o.Config.StrictScript)
		text = enforced
	}

	diag := o.Drift.Detect(text)
	if diag.Correct {
		text = o.Corrector.CorrectText(text, o.Config.StrictScript).Text
	}

	segment := ProcessedSegment{
		ChunkID:          chunkID,
		Start:            start,
		End:              end,
		Route:            route,
		Type:             TypeSpeech,
		Text:             text,
		Confidence:       result.FusedConfidence,
		Language:         primary.LanguageCode,
		RedecodeAttempts: result.RedecodeAttempts,
		NeedsReview:      diag.Redecode || !diag.IsAcceptable() || result.FusedConfidence < reviewConfidenceFloor,
		OriginalScript:   originalScript,
		ScriptConfidence: scriptConfidence,
	}
	for _, h := range hyps {
		segment.Hypotheses = append(segment.Hypotheses, HypothesisAudit{EngineID: h.EngineID, Text: h.Text, Confidence: h.Confidence})
	}

	o.matchScripture(&segment, route, hyps)
	return segment, nil
}

// decideRoute classifies a chunk's route from its primary transcript,
// since the spec's routing signal is the text itself (no upstream
// language-ID pass is assumed available). A scripture_quote_likely
// classification takes priority over the script-mix signals.
func decideRoute(text string) engine.Route {
	if scripture.DetectCandidate(text, "").IsCandidate {
		return engine.RouteScriptureQuoteLikely
	}
	analysis := scriptlock.Analyze(text)
	switch {
	case analysis.ScriptPurity() >= 0.8:
		return engine.RoutePunjabiSpeech
	case analysis.LatinRatio() >= 0.5:
		return engine.RouteEnglishSpeech
	default:
		return engine.RouteMixed
	}
}

// runAuxiliary fans the chunk out to every auxiliary engine for route
// concurrently, per spec.md §5's bounded-worker-pool/join_all-with-timeout
// model: each engine gets its own goroutine and its own AuxTimeout, so a
// slow or hung engine only costs its own budget, not the other engines'.
func (o *Orchestrator) runAuxiliary(ctx context.Context, route engine.Route, samples []float32) []fusion.Hypothesis {
	ids := auxiliaryEnginesForRoute(route)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var out []fusion.Hypothesis

	for _, id := range ids {
		eng, ok := o.Auxiliary[id]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(eng engine.TranscriptionEngine) {
			defer wg.Done()
			hyp, err, timedOut := engine.RunWithTimeout(ctx, o.Config.AuxTimeout, func(ctx context.Context) (fusion.Hypothesis, error) {
				return eng.TranscribeChunk(ctx, samples, o.Config.SampleRate, engine.ChunkOptions{RouteHint: route})
			})
			if timedOut || err != nil {
				return // per spec.md §5: an unavailable auxiliary engine is omitted, not fatal.
			}
			mu.Lock()
			out = append(out, hyp)
			mu.Unlock()
		}(eng)
	}
	wg.Wait()
	return out
}

func (o *Orchestrator) transcribeOnce(ctx context.Context, samples []float32, opts engine.ChunkOptions) (fusion.Hypothesis, error) {
	return o.Primary.TranscribeChunk(ctx, samples, o.Config.SampleRate, opts)
}

// transcribeWithRetry applies spec.md §6's Retry.segment_retry_on_empty
// rule: an empty primary transcript is retried up to MaxSegmentRetries
// times before the segment is finally treated as empty.
func (o *Orchestrator) transcribeWithRetry(ctx context.Context, samples []float32) (fusion.Hypothesis, error) {
	hyp, err := o.transcribeOnce(ctx, samples, engine.ChunkOptions{})
	if err != nil {
		return fusion.Hypothesis{}, err
	}
	if !o.Config.Retry.SegmentRetryOnEmpty {
		return hyp, nil
	}
	attempts := 0
	for hyp.Text == "" && attempts < o.Config.Retry.MaxSegmentRetries {
		hyp, err = o.transcribeOnce(ctx, samples, engine.ChunkOptions{BeamSize: 5 + attempts})
		if err != nil {
			return fusion.Hypothesis{}, err
		}
		attempts++
	}
	return hyp, nil
}

// matchScripture implements spec.md §4.6/§4.7's final scripture-matching
// step, mutating segment in place when a confident canonical match is
// found, and updates the session's shabad-continuation pointer either
// way.
func (o *Orchestrator) matchScripture(segment *ProcessedSegment, route engine.Route, hyps []fusion.Hypothesis) {
	if o.Scripture == nil {
		return
	}
	if route != engine.RouteScriptureQuoteLikely {
		cand := scripture.DetectCandidate(segment.Text, scripture.Route(route))
		if !cand.IsCandidate {
			o.trackContinuation(nil)
			return
		}
	}

	alts := make([]string, 0, len(hyps))
	for _, h := range hyps {
		if h.Text != segment.Text {
			alts = append(alts, h.Text)
		}
	}

	match := o.Scripture.FindMatch(segment.Text, alts)
	o.trackContinuation(match)
	if match == nil || !scripture.ShouldReplace(match) {
		return
	}

	segment.Type = TypeScriptureQuote
	segment.SpokenText = segment.Text
	segment.Text = match.CanonicalText
	segment.QuoteMatch = match
}

// trackContinuation implements the per-session "current shabad" pointer
// (carried from core/orchestrator.py's SessionContext): a run of 3 consecutive misses
// drops the pointer, letting a later hit re-anchor it fresh rather than
// biasing retrieval toward a shabad the speaker has moved on from.
func (o *Orchestrator) trackContinuation(match *scripture.QuoteMatch) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if match == nil {
		o.missStreak++
		if o.missStreak >= 3 {
			o.currentShabadID = ""
		}
		return
	}
	o.missStreak = 0
	if line, ok := o.Scripture.Store.GetLineByID(match.LineID); ok {
		o.currentShabadID = line.ShabadID
	}
}

// CurrentShabad reports the session's continuation pointer, if any.
func (o *Orchestrator) CurrentShabad() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentShabadID
}
