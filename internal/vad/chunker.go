package vad

import (
	"math"

	"github.com/google/uuid"
)

// AudioChunk matches the spec's AudioChunk entity. Duration is derived, not
// stored, to keep it always consistent with Start/End.
type AudioChunk struct {
	ID       string
	Start    float64 // seconds
	End      float64 // seconds
	AudioRef string
}

func (c AudioChunk) Duration() float64 { return c.End - c.Start }

// VADError signals a fatal, input-level chunking failure (unreadable
// audio), per spec.md §7's error taxonomy.
type VADError struct {
	msg string
}

func (e *VADError) Error() string { return e.msg }

func newVADError(msg string) error { return &VADError{msg: msg} }

// span is an internal contiguous run of speech windows before chunk
// assembly.
type span struct {
	start, end float64 // seconds
}

// spansFromWindows groups contiguous speech windows into candidate spans,
// merging across silence gaps shorter than MinSilenceDurationMs.
func spansFromWindows(windows []SpeechWindow, minSilenceMs int) []span {
	var spans []span
	var cur *span
	var silenceMs int64

	for _, w := range windows {
		if w.IsSpeech {
			if cur == nil {
				cur = &span{start: float64(w.StartMs) / 1000.0}
			}
			cur.end = float64(w.EndMs) / 1000.0
			silenceMs = 0
			continue
		}
		if cur != nil {
			silenceMs += w.EndMs - w.StartMs
			if silenceMs >= int64(minSilenceMs) {
				spans = append(spans, *cur)
				cur = nil
				silenceMs = 0
			} else {
				cur.end = float64(w.EndMs) / 1000.0
			}
		}
	}
	if cur != nil {
		spans = append(spans, *cur)
	}
	return spans
}

// Chunk implements the contract in spec.md §4.1: chunk(audio, min_dur,
// max_dur, overlap) -> [AudioChunk]. samples must already be 16kHz mono
// PCM; resampling happens in Resample below.
func (v *SileroVAD) Chunk(samples []float32) ([]AudioChunk, error) {
	if len(samples) == 0 {
		return nil, nil
	}
	windows, err := v.ClassifyWindows(samples)
	if err != nil {
		return nil, newVADError(err.Error())
	}

	spans := spansFromWindows(windows, v.config.MinSilenceDurationMs)

	var chunks []AudioChunk
	for _, s := range spans {
		duration := s.end - s.start
		if duration < v.config.MinChunkSeconds {
			continue
		}
		if duration > v.config.MaxChunkSeconds {
			n := int(math.Ceil(duration / v.config.MaxChunkSeconds))
			subDuration := duration / float64(n)
			for i := 0; i < n; i++ {
				chunks = append(chunks, AudioChunk{
					ID:    uuid.NewString(),
					Start: s.start + float64(i)*subDuration,
					End:   s.start + float64(i+1)*subDuration,
				})
			}
			continue
		}
		chunks = append(chunks, AudioChunk{ID: uuid.NewString(), Start: s.start, End: s.end})
	}

	chunks = applyOverlap(chunks, v.config.OverlapSeconds)
	return refilterByMinDuration(chunks, v.config.MinChunkSeconds), nil
}

// applyOverlap extends each chunk's start/end by overlap seconds, clamped
// so starts never go negative, the first chunk's start is never extended
// backward, the last chunk's end never extends forward, and a chunk never
// extends into the next chunk's original start.
func applyOverlap(chunks []AudioChunk, overlap float64) []AudioChunk {
	if overlap < 0 {
		overlap = 0
	}
	if len(chunks) == 0 {
		return chunks
	}
	originalStarts := make([]float64, len(chunks))
	for i, c := range chunks {
		originalStarts[i] = c.Start
	}
	out := make([]AudioChunk, len(chunks))
	for i, c := range chunks {
		newStart := c.Start - overlap
		if newStart < 0 {
			newStart = 0
		}
		if i == 0 {
			newStart = c.Start
		}
		newEnd := c.End + overlap
		if i == len(chunks)-1 {
			newEnd = c.End
		} else if newEnd > originalStarts[i+1] {
			newEnd = originalStarts[i+1]
		}
		c.Start = newStart
		c.End = newEnd
		out[i] = c
	}
	return out
}

func refilterByMinDuration(chunks []AudioChunk, minDur float64) []AudioChunk {
	out := make([]AudioChunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Duration() >= minDur {
			out = append(out, c)
		}
	}
	return out
}

// Resample converts mono PCM samples at srcRate to dstRate (16kHz for the
// VAD) via linear interpolation. No pack library performs audio resampling (see
// DESIGN.md), so this is a deliberate stdlib-only leaf.
func Resample(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(float64(len(samples)) / ratio)
	out := make([]float32, outLen)
	for i := 0; i < outLen; i++ {
		srcPos := float64(i) * ratio
		idx := int(srcPos)
		frac := srcPos - float64(idx)
		if idx+1 < len(samples) {
			out[i] = samples[idx]*float32(1-frac) + samples[idx+1]*float32(frac)
		} else {
			out[i] = samples[idx]
		}
	}
	return out
}
