package vad

import "testing"

func TestSpansFromWindowsMergesShortSilence(t *testing.T) {
	windows := []SpeechWindow{
		{StartMs: 0, EndMs: 100, IsSpeech: true},
		{StartMs: 100, EndMs: 150, IsSpeech: false}, // 50ms silence, below 100ms threshold
		{StartMs: 150, EndMs: 250, IsSpeech: true},
	}
	spans := spansFromWindows(windows, 100)
	if len(spans) != 1 {
		t.Fatalf("expected silence gap to be merged into one span, got %d spans: %+v", len(spans), spans)
	}
}

func TestSpansFromWindowsSplitsOnLongSilence(t *testing.T) {
	windows := []SpeechWindow{
		{StartMs: 0, EndMs: 100, IsSpeech: true},
		{StartMs: 100, EndMs: 300, IsSpeech: false}, // 200ms silence, above 100ms threshold
		{StartMs: 300, EndMs: 400, IsSpeech: true},
	}
	spans := spansFromWindows(windows, 100)
	if len(spans) != 2 {
		t.Fatalf("expected two distinct spans, got %d: %+v", len(spans), spans)
	}
}

func TestApplyOverlapClampsEnds(t *testing.T) {
	chunks := []AudioChunk{
		{Start: 0, End: 5},
		{Start: 5, End: 10},
	}
	out := applyOverlap(chunks, 1.0)
	if out[0].Start != 0 {
		t.Fatalf("expected first chunk start not extended backward, got %v", out[0].Start)
	}
	if out[1].End != 10 {
		t.Fatalf("expected last chunk end not extended forward, got %v", out[1].End)
	}
	if out[0].End > chunks[1].Start+0.0001 {
		t.Fatalf("expected first chunk end clamped to not exceed second chunk's original start, got end=%v", out[0].End)
	}
}

func TestRefilterByMinDurationDropsShortChunks(t *testing.T) {
	chunks := []AudioChunk{{Start: 0, End: 0.2}, {Start: 1, End: 3}}
	out := refilterByMinDuration(chunks, 1.0)
	if len(out) != 1 {
		t.Fatalf("expected short chunk dropped, got %d chunks", len(out))
	}
}

func TestResampleNoOpWhenRatesMatch(t *testing.T) {
	samples := []float32{0.1, 0.2, 0.3}
	out := Resample(samples, 16000, 16000)
	if len(out) != len(samples) {
		t.Fatalf("expected no-op resample to preserve length")
	}
}

func TestResampleDownsamplesLength(t *testing.T) {
	samples := make([]float32, 32000) // 2s at 32kHz
	out := Resample(samples, 32000, 16000)
	if out == nil || len(out) != 16000 {
		t.Fatalf("expected downsample to 16000 samples, got %d", len(out))
	}
}
