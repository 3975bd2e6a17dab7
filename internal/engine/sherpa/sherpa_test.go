package sherpa

import (
	"context"
	"testing"

	"gurbanicore/internal/engine"
)

func TestEngineMissingModelReportsUnavailable(t *testing.T) {
	cfg := DefaultConfig("indic", "/nonexistent/model/dir")
	cfg.EncoderPath = "/nonexistent/model/dir/encoder.onnx"
	e := New(cfg)

	if e.Capabilities().IsAvailable {
		t.Error("expected IsAvailable false when model files are missing")
	}

	_, err := e.TranscribeChunk(context.Background(), make([]float32, 16000), 16000, engine.ChunkOptions{})
	if err == nil {
		t.Error("expected an error from TranscribeChunk when the model failed to load")
	}
}

func TestTranscribeFileNotSupported(t *testing.T) {
	e := New(DefaultConfig("indic", "/nonexistent"))
	if _, err := e.TranscribeFile(context.Background(), "/tmp/x.wav", "pa"); err == nil {
		t.Error("expected TranscribeFile to report not-supported")
	}
}
