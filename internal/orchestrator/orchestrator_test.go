package orchestrator

import (
	"context"
	"testing"

	"gurbanicore/internal/engine"
	"gurbanicore/internal/engine/enginetest"
	"gurbanicore/internal/lexicon"
	"gurbanicore/internal/scripture"
	"gurbanicore/internal/scripturestore"
)

func newTestOrchestrator(primaryText string, confidence float64, lines []scripture.Line) *Orchestrator {
	store := scripturestore.New(lines)
	lex := lexicon.BuildFromStore(store)
	matcher := scripture.New(store, nil)

	primary := enginetest.Stub{ID: "primary", Text: primaryText, Confidence: confidence}
	aux := map[string]engine.TranscriptionEngine{
		"indic": enginetest.Stub{ID: "indic", Text: primaryText, Confidence: confidence},
	}

	cfg := DefaultConfig()
	return New(cfg, primary, aux, nil, lex, matcher)
}

func TestProcessChunkPlainSpeech(t *testing.T) {
	o := newTestOrchestrator("ਅੱਜ ਦੀਵਾਨ ਵਿੱਚ ਬਹੁਤ ਲੋਕ ਆਏ", 0.9, nil)
	seg, err := o.ProcessChunk(context.Background(), "c1", 0, 2, make([]float32, 100))
	if err != nil {
		t.Fatalf("ProcessChunk: %v", err)
	}
	if seg.Type != TypeSpeech {
		t.Errorf("expected TypeSpeech, got %v", seg.Type)
	}
	if seg.Text == "" {
		t.Error("expected non-empty text")
	}
	if seg.Confidence <= 0 {
		t.Error("expected positive confidence")
	}
}

func TestProcessChunkScriptureQuote(t *testing.T) {
	lines := []scripture.Line{
		{ID: "l1", Source: "SGGS", Gurmukhi: "ਹਰਿ ਹਰਿ ਨਾਮੁ ਜਪਹੁ ਮਨ ਮੇਰੇ", Roman: "hari hari naam japahu man mere", Ang: 1, Raag: "ਆਸਾ", Author: "ਨਾਨਕ", ShabadID: "s1"},
	}
	o := newTestOrchestrator("ਹਰਿ ਹਰਿ ਨਾਮੁ ਜਪਹੁ ਮਨ ਮੇਰੇ", 0.85, lines)
	seg, err := o.ProcessChunk(context.Background(), "c2", 0, 3, make([]float32, 100))
	if err != nil {
		t.Fatalf("ProcessChunk: %v", err)
	}
	if seg.Type != TypeScriptureQuote {
		t.Fatalf("expected TypeScriptureQuote, got %v (text=%q)", seg.Type, seg.Text)
	}
	if seg.QuoteMatch == nil {
		t.Fatal("expected non-nil QuoteMatch")
	}
	if seg.QuoteMatch.LineID != "l1" {
		t.Errorf("expected match on l1, got %s", seg.QuoteMatch.LineID)
	}
	if o.CurrentShabad() != "s1" {
		t.Errorf("expected shabad continuation pointer s1, got %q", o.CurrentShabad())
	}
}

func TestProcessChunkEmptyTranscriptSentinel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retry.MaxSegmentRetries = 1
	primary := enginetest.Stub{ID: "primary", Text: "", Confidence: 0}
	store := scripturestore.New(nil)
	lex := lexicon.BuildFromStore(store)
	matcher := scripture.New(store, nil)
	o := New(cfg, primary, nil, nil, lex, matcher)

	seg, err := o.ProcessChunk(context.Background(), "c3", 0, 1, make([]float32, 100))
	if err != nil {
		t.Fatalf("ProcessChunk: %v", err)
	}
	if seg.Text != emptyTranscriptSentinel {
		t.Errorf("expected sentinel text, got %q", seg.Text)
	}
}

func TestMissStreakResetsShabadPointer(t *testing.T) {
	lines := []scripture.Line{
		{ID: "l1", Source: "SGGS", Gurmukhi: "ਹਰਿ ਹਰਿ ਨਾਮੁ ਜਪਹੁ ਮਨ ਮੇਰੇ", Ang: 1, ShabadID: "s1"},
	}
	o := newTestOrchestrator("ਹਰਿ ਹਰਿ ਨਾਮੁ ਜਪਹੁ ਮਨ ਮੇਰੇ", 0.85, lines)
	ctx := context.Background()
	if _, err := o.ProcessChunk(ctx, "q1", 0, 1, make([]float32, 100)); err != nil {
		t.Fatalf("ProcessChunk: %v", err)
	}
	if o.CurrentShabad() != "s1" {
		t.Fatalf("expected s1 after first match")
	}

	o.Primary = enginetest.Stub{ID: "primary", Text: "ਅੱਜ ਬਾਹਰ ਮੌਸਮ ਬਹੁਤ ਵਧੀਆ ਹੈ", Confidence: 0.9}
	o.Auxiliary = map[string]engine.TranscriptionEngine{
		"indic": enginetest.Stub{ID: "indic", Text: "ਅੱਜ ਬਾਹਰ ਮੌਸਮ ਬਹੁਤ ਵਧੀਆ ਹੈ", Confidence: 0.9},
	}
	for i := 0; i < 3; i++ {
		if _, err := o.ProcessChunk(ctx, "q2", 1, 2, make([]float32, 100)); err != nil {
			t.Fatalf("ProcessChunk miss %d: %v", i, err)
		}
	}
	if o.CurrentShabad() != "" {
		t.Errorf("expected shabad pointer cleared after 3 misses, got %q", o.CurrentShabad())
	}
}
