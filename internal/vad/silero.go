// Package vad implements voice-activity chunking: Silero VAD ONNX
// inference feeding the span-grouping/splitting/overlap algorithm in
// spec.md §4.1. Grounded on ai/silero_vad.go (ONNX session handling, LSTM
// state carry-over) and session/chunk_buffer.go (accumulate/flush idiom).
package vad

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Config mirrors spec.md §6's VAD block plus the Silero-specific knobs the
// teacher's engine needs.
type Config struct {
	ModelPath            string
	SampleRate           int
	Aggressiveness       int // 0-3, mapped to a Threshold preset below
	FrameMs              int // 10, 20, or 30; not read: windows are 512 samples (256 at 8kHz)
	MinChunkSeconds      float64
	MaxChunkSeconds      float64
	OverlapSeconds       float64
	MinSilenceDurationMs int
	SpeechPadMs          int
}

func DefaultConfig() Config {
	return Config{
		SampleRate:           16000,
		Aggressiveness:       2,
		FrameMs:              30,
		MinChunkSeconds:      1.0,
		MaxChunkSeconds:      30.0,
		OverlapSeconds:       0.5,
		MinSilenceDurationMs: 100,
		SpeechPadMs:          30,
	}
}

// thresholdForAggressiveness maps the spec's 0-3 aggressiveness scale onto
// Silero's continuous probability threshold.
func thresholdForAggressiveness(level int) float32 {
	switch level {
	case 0:
		return 0.3
	case 1:
		return 0.4
	case 3:
		return 0.7
	default:
		return 0.5
	}
}

// SileroVAD wraps one ONNX session, carrying LSTM state and context samples
// across streaming ProcessChunk calls exactly as the teacher's engine does.
type SileroVAD struct {
	session *ort.DynamicAdvancedSession
	config  Config
	threshold float32

	state   []float32
	context []float32

	mu          sync.Mutex
	initialized bool
}

var (
	onnxInitialized bool
	onnxInitMu      sync.Mutex
)

func initONNXRuntime() error {
	onnxInitMu.Lock()
	defer onnxInitMu.Unlock()
	if onnxInitialized {
		return nil
	}
	if libPath := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("onnxruntime init: %w", err)
	}
	onnxInitialized = true
	return nil
}

// NewSileroVAD loads the ONNX model and prepares the persistent state.
func NewSileroVAD(config Config) (*SileroVAD, error) {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("vad: model file not found: %s", config.ModelPath)
	}
	if config.SampleRate != 8000 && config.SampleRate != 16000 {
		return nil, fmt.Errorf("vad: sample rate must be 8000 or 16000, got %d", config.SampleRate)
	}
	if err := initONNXRuntime(); err != nil {
		return nil, fmt.Errorf("vad: failed to initialize onnx runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("vad: session options: %w", err)
	}
	defer options.Destroy()

	session, err := ort.NewDynamicAdvancedSession(
		config.ModelPath,
		[]string{"input", "state", "sr"},
		[]string{"output", "stateN"},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("vad: onnx session: %w", err)
	}

	contextSize := 64
	if config.SampleRate == 8000 {
		contextSize = 32
	}

	return &SileroVAD{
		session:     session,
		config:      config,
		threshold:   thresholdForAggressiveness(config.Aggressiveness),
		state:       make([]float32, 2*1*128),
		context:     make([]float32, contextSize),
		initialized: true,
	}, nil
}

func (v *SileroVAD) ResetState() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.state {
		v.state[i] = 0
	}
	for i := range v.context {
		v.context[i] = 0
	}
}

// ProcessChunk runs one inference step over a Silero-sized window (512
// samples at 16kHz, 256 at 8kHz), returning the speech probability.
func (v *SileroVAD) ProcessChunk(samples []float32) (float32, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized {
		return 0, fmt.Errorf("vad: not initialized")
	}

	contextSize := len(v.context)
	inputData := make([]float32, contextSize+len(samples))
	copy(inputData[:contextSize], v.context)
	copy(inputData[contextSize:], samples)

	if len(samples) >= contextSize {
		copy(v.context, samples[len(samples)-contextSize:])
	} else {
		copy(v.context, v.context[len(samples):])
		copy(v.context[contextSize-len(samples):], samples)
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(inputData))), inputData)
	if err != nil {
		return 0, fmt.Errorf("vad: input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	stateTensor, err := ort.NewTensor(ort.NewShape(2, 1, 128), v.state)
	if err != nil {
		return 0, fmt.Errorf("vad: state tensor: %w", err)
	}
	defer stateTensor.Destroy()

	srTensor, err := ort.NewTensor(ort.NewShape(1), []int64{int64(v.config.SampleRate)})
	if err != nil {
		return 0, fmt.Errorf("vad: sr tensor: %w", err)
	}
	defer srTensor.Destroy()

	outputs := []ort.Value{nil, nil}
	if err := v.session.Run([]ort.Value{inputTensor, stateTensor, srTensor}, outputs); err != nil {
		return 0, fmt.Errorf("vad: inference: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				out.Destroy()
			}
		}
	}()

	outputTensor := outputs[0].(*ort.Tensor[float32])
	stateNTensor := outputs[1].(*ort.Tensor[float32])
	copy(v.state, stateNTensor.GetData())

	data := outputTensor.GetData()
	if len(data) > 0 {
		return data[0], nil
	}
	return 0, nil
}

// SpeechWindow is one classified analysis window, the raw material the
// chunk assembler groups into spans.
type SpeechWindow struct {
	StartMs   int64
	EndMs     int64
	IsSpeech  bool
	Prob      float32
}

// ClassifyWindows runs the full sample buffer through Silero window by
// window, resetting state first so repeated calls are independent.
func (v *SileroVAD) ClassifyWindows(samples []float32) ([]SpeechWindow, error) {
	v.ResetState()

	windowSize := 512
	if v.config.SampleRate == 8000 {
		windowSize = 256
	}
	windowMs := float64(windowSize) * 1000 / float64(v.config.SampleRate)

	var windows []SpeechWindow
	for i := 0; i < len(samples); i += windowSize {
		end := i + windowSize
		var chunk []float32
		if end <= len(samples) {
			chunk = samples[i:end]
		} else {
			chunk = make([]float32, windowSize)
			copy(chunk, samples[i:])
			end = len(samples)
		}

		prob, err := v.ProcessChunk(chunk)
		if err != nil {
			return nil, err
		}

		startMs := int64(float64(i) * 1000 / float64(v.config.SampleRate))
		windows = append(windows, SpeechWindow{
			StartMs:  startMs,
			EndMs:    startMs + int64(windowMs),
			IsSpeech: prob >= v.threshold,
			Prob:     prob,
		})
	}
	return windows, nil
}

func (v *SileroVAD) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.session != nil {
		v.session.Destroy()
		v.session = nil
	}
	v.initialized = false
}
