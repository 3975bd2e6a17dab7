package orchestrator

import (
	"context"
	"fmt"

	"gurbanicore/internal/transport"
)

// LiveSession adapts an Orchestrator's draft/verified output onto a
// transport.TranscriptionStreamServer, for the gRPC live-mode control
// plane. Grounded on internal/api/grpc_service.go's per-stream goroutine
// pattern.
type LiveSession struct {
	ID            string
	Orchestrator  *Orchestrator
	Stream        transport.TranscriptionStreamServer
}

// NewLiveSession wires the orchestrator's draft callback to emit
// transport.EventDraft messages immediately, before Ingest returns the
// verified segment.
func NewLiveSession(id string, o *Orchestrator, stream transport.TranscriptionStreamServer) *LiveSession {
	s := &LiveSession{ID: id, Orchestrator: o, Stream: stream}
	o.OnDraft = func(chunkID, text string, confidence float64, language string) {
		_ = stream.Send(&transport.Message{
			Type:       transport.EventDraft,
			SessionID:  id,
			SegmentID:  chunkID,
			Text:       text,
			Confidence: confidence,
		})
	}
	return s
}

// Ingest processes one chunk end-to-end and emits its verified (or
// error) event on the stream, returning the resulting segment.
func (s *LiveSession) Ingest(ctx context.Context, chunkID string, start, end float64, samples []float32) (ProcessedSegment, error) {
	segment, err := s.Orchestrator.ProcessChunk(ctx, chunkID, start, end, samples)
	if err != nil {
		_ = s.Stream.Send(&transport.Message{
			Type:         transport.EventError,
			SessionID:    s.ID,
			SegmentID:    chunkID,
			ErrorMessage: fmt.Sprintf("chunk processing failed: %v", err),
		})
		return ProcessedSegment{}, err
	}

	msg := &transport.Message{
		Type:        transport.EventVerified,
		SessionID:   s.ID,
		SegmentID:   segment.ChunkID,
		Start:       segment.Start,
		End:         segment.End,
		Text:        segment.Text,
		Gurmukhi:    segment.Text,
		Confidence:  segment.Confidence,
		NeedsReview: segment.NeedsReview,
	}
	if segment.QuoteMatch != nil {
		msg.QuoteMatch = &transport.QuoteMatchWire{
			Source:     segment.QuoteMatch.Source,
			LineID:     segment.QuoteMatch.LineID,
			Ang:        segment.QuoteMatch.Ang,
			Raag:       segment.QuoteMatch.Raag,
			Author:     segment.QuoteMatch.Author,
			Confidence: segment.QuoteMatch.Confidence,
			Method:     string(segment.QuoteMatch.Method),
		}
	}
	_ = s.Stream.Send(msg)
	return segment, nil
}
