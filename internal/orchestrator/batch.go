package orchestrator

import (
	"context"

	"gurbanicore/internal/engine"
	"gurbanicore/internal/vad"
)

// Chunker is the narrow VAD interface ProcessFile needs, satisfied by
// *vad.SileroVAD.
type Chunker interface {
	Chunk(samples []float32) ([]vad.AudioChunk, error)
}

// ProcessFile runs the full-file batch procedure: VAD chunking followed
// by per-chunk processing, aggregating the spec's batch Metrics entity
// from the original's end-of-run summary (core/orchestrator.py).
func (o *Orchestrator) ProcessFile(ctx context.Context, chunker Chunker, samples []float32) ([]ProcessedSegment, Metrics, error) {
	chunks, err := chunker.Chunk(samples)
	if err != nil {
		return nil, Metrics{}, err
	}

	metrics := Metrics{RouteHistogram: map[engine.Route]int{}}
	segments := make([]ProcessedSegment, 0, len(chunks))
	confidenceSum := 0.0

	for _, c := range chunks {
		chunkSamples := sliceBySeconds(samples, o.Config.SampleRate, c.Start, c.End)
		segment, err := o.ProcessChunk(ctx, c.ID, c.Start, c.End, chunkSamples)
		if err != nil {
			// A chunk-scope error (e.g. ASREngineError) does not abort the
			// file, per spec.md §5, but the chunk must still be accounted
			// for: a placeholder preserves ordering and time coverage
			// rather than silently dropping the interval.
			segment = ProcessedSegment{
				ChunkID:     c.ID,
				Start:       c.Start,
				End:         c.End,
				Type:        TypeSpeech,
				Text:        emptyTranscriptSentinel,
				NeedsReview: true,
			}
		}
		segments = append(segments, segment)
		metrics.SegmentCount++
		metrics.RouteHistogram[segment.Route]++
		confidenceSum += segment.Confidence
		if segment.NeedsReview {
			metrics.ReviewCount++
		}
		if segment.Type == TypeScriptureQuote {
			metrics.QuoteCount++
		}
	}

	if metrics.SegmentCount > 0 {
		metrics.AverageConfidence = confidenceSum / float64(metrics.SegmentCount)
	}
	return segments, metrics, nil
}

func sliceBySeconds(samples []float32, sampleRate int, start, end float64) []float32 {
	lo := int(start * float64(sampleRate))
	hi := int(end * float64(sampleRate))
	if lo < 0 {
		lo = 0
	}
	if hi > len(samples) {
		hi = len(samples)
	}
	if lo >= hi {
		return nil
	}
	return samples[lo:hi]
}
