// Package sherpa adapts a sherpa-onnx offline recognizer to the
// engine.TranscriptionEngine interface, serving as the "Indic auxiliary"
// reference engine spec.md's orchestrator routes Punjabi/mixed chunks to.
// Grounded on ai/diarization_sherpa.go's model-loading and mutex idiom
// (sherpa-onnx-go is otherwise only used there, for diarization).
package sherpa

import (
	"context"
	"fmt"
	"os"
	"sync"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"gurbanicore/internal/engine"
	"gurbanicore/internal/fusion"
)

// Config names the offline transducer/paraformer model files this adapter
// loads; which architecture they belong to is an external concern (ASR
// model internals are out of scope per spec.md §1).
type Config struct {
	ID             string
	ModelDir       string
	TokensPath     string
	EncoderPath    string
	DecoderPath    string
	JoinerPath     string
	NumThreads     int
	Provider       string
	DecodingMethod string
	LanguageCode   string
}

func DefaultConfig(id, modelDir string) Config {
	return Config{
		ID:             id,
		ModelDir:       modelDir,
		NumThreads:     4,
		Provider:       "cpu",
		DecodingMethod: "greedy_search",
		LanguageCode:   "hi", // per spec.md §9: Indic route forces hi even for Punjabi content
	}
}

// Engine wraps one sherpa-onnx OfflineRecognizer instance. Recognizer
// construction is lazy and mutex-guarded so the first caller performs the
// (slow) model load, per spec.md §5's shared-resource rule.
type Engine struct {
	config Config

	mu          sync.Mutex
	recognizer  *sherpa.OfflineRecognizer
	loadErr     error
	initialized bool
}

func New(config Config) *Engine {
	return &Engine{config: config}
}

func (e *Engine) Capabilities() engine.Capabilities {
	return engine.Capabilities{
		ID:                 e.config.ID,
		SupportsTimestamps: true,
		SupportedLanguages: []string{"hi", "pa"},
		IsAvailable:        e.ensureLoaded() == nil,
	}
}

func (e *Engine) ensureLoaded() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return e.loadErr
	}
	e.initialized = true

	if _, err := os.Stat(e.config.EncoderPath); err != nil {
		e.loadErr = fmt.Errorf("sherpa: encoder model not found: %w", err)
		return e.loadErr
	}

	recognizerConfig := sherpa.OfflineRecognizerConfig{}
	recognizerConfig.FeatConfig = sherpa.FeatureConfig{SampleRate: 16000, FeatureDim: 80}
	recognizerConfig.ModelConfig.Transducer.Encoder = e.config.EncoderPath
	recognizerConfig.ModelConfig.Transducer.Decoder = e.config.DecoderPath
	recognizerConfig.ModelConfig.Transducer.Joiner = e.config.JoinerPath
	recognizerConfig.ModelConfig.Tokens = e.config.TokensPath
	recognizerConfig.ModelConfig.NumThreads = e.config.NumThreads
	recognizerConfig.ModelConfig.Provider = e.config.Provider
	recognizerConfig.DecodingMethod = e.config.DecodingMethod

	recognizer := sherpa.NewOfflineRecognizer(&recognizerConfig)
	if recognizer == nil {
		e.loadErr = fmt.Errorf("sherpa: failed to create offline recognizer")
		return e.loadErr
	}
	e.recognizer = recognizer
	return nil
}

func (e *Engine) TranscribeChunk(ctx context.Context, audio []float32, sampleRate int, opts engine.ChunkOptions) (fusion.Hypothesis, error) {
	if err := e.ensureLoaded(); err != nil {
		return fusion.Hypothesis{}, &engine.ASREngineError{EngineID: e.config.ID, Err: err}
	}

	e.mu.Lock()
	stream := sherpa.NewOfflineStream(e.recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(sampleRate, audio)
	e.recognizer.Decode(stream)
	result := stream.GetResult()
	e.mu.Unlock()

	lang := opts.LanguageHint
	if lang == "" {
		lang = e.config.LanguageCode
	}

	return fusion.Hypothesis{
		EngineID:     e.config.ID,
		Text:         result.Text,
		LanguageCode: lang,
		Confidence:   defaultConfidence,
	}, nil
}

// defaultConfidence is used because sherpa-onnx's offline recognizer API
// does not surface a per-utterance confidence score; the fusion engine's
// agreement-based boosting compensates for this engine always reporting a
// flat prior.
const defaultConfidence = 0.75

func (e *Engine) TranscribeFile(ctx context.Context, path string, languageHint string) (fusion.Hypothesis, error) {
	return fusion.Hypothesis{}, fmt.Errorf("sherpa: TranscribeFile not supported, use TranscribeChunk with decoded PCM")
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(e.recognizer)
		e.recognizer = nil
	}
}

var _ engine.TranscriptionEngine = (*Engine)(nil)
