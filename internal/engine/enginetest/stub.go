// Package enginetest provides an in-memory TranscriptionEngine used by
// orchestrator and fusion tests in place of a real model.
package enginetest

import (
	"context"

	"gurbanicore/internal/engine"
	"gurbanicore/internal/fusion"
)

// Stub returns a fixed hypothesis (or error) regardless of input, letting
// tests exercise the orchestrator's fan-out/timeout/fusion wiring without a
// real ASR backend.
type Stub struct {
	ID         string
	Text       string
	Confidence float64
	Err        error
	Delay      func(ctx context.Context)
}

func (s Stub) Capabilities() engine.Capabilities {
	return engine.Capabilities{ID: s.ID, SupportsTimestamps: false, SupportedLanguages: []string{"pa", "hi", "en"}, IsAvailable: true}
}

func (s Stub) TranscribeChunk(ctx context.Context, audio []float32, sampleRate int, opts engine.ChunkOptions) (fusion.Hypothesis, error) {
	if s.Delay != nil {
		s.Delay(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fusion.Hypothesis{}, err
	}
	if s.Err != nil {
		return fusion.Hypothesis{}, s.Err
	}
	return fusion.Hypothesis{EngineID: s.ID, Text: s.Text, Confidence: s.Confidence, LanguageCode: opts.LanguageHint}, nil
}

func (s Stub) TranscribeFile(ctx context.Context, path string, languageHint string) (fusion.Hypothesis, error) {
	if s.Err != nil {
		return fusion.Hypothesis{}, s.Err
	}
	return fusion.Hypothesis{EngineID: s.ID, Text: s.Text, Confidence: s.Confidence, LanguageCode: languageHint}, nil
}

var _ engine.TranscriptionEngine = Stub{}
