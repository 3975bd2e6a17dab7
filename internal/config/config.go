// Package config parses the process's command-line flags into the
// typed Config structs each domain package defines, following the
// teacher's flag-based (no viper/cobra) configuration idiom.
package config

import (
	"flag"
	"path/filepath"
	"runtime"

	"gurbanicore/internal/denoise"
	"gurbanicore/internal/drift"
	"gurbanicore/internal/fusion"
	"gurbanicore/internal/lexicon"
	"gurbanicore/internal/orchestrator"
	"gurbanicore/internal/vad"
)

type Config struct {
	ModelPath string
	DataDir   string
	ModelsDir string
	Port      string
	GRPCAddr  string
	TraceLog  string

	VAD          vad.Config
	Fusion       fusion.Config
	DomainMode   lexicon.DomainMode
	StrictGurmukhi bool
	UnicodeForm  string
	Drift        drift.Thresholds
	MaxEditDistance int
	Denoise      denoise.Config
	Quote        QuoteConfig
	Retry        orchestrator.RetryConfig

	ASRTimeoutSeconds int
}

// QuoteConfig mirrors spec.md §6's Quote block and surfaces the thresholds
// as recognized options. The matcher does not read these values: it uses
// internal/scripture's fixed pipeline constants.
type QuoteConfig struct {
	ReplacementThreshold float64
	ReviewThreshold      float64
	AlignmentThreshold   float64
}

func Load() *Config {
	modelPath := flag.String("model", "ggml-base.bin", "Path to ASR model (recorded only; engines load from -models)")
	dataDir := flag.String("data", "data/sessions", "Directory for session data")
	modelsDir := flag.String("models", "", "Directory for downloaded models (default: dataDir/../models)")
	port := flag.String("port", "8080", "Server port (recorded only; the gRPC server listens on -grpc-addr)")
	grpcAddr := flag.String("grpc-addr", defaultGRPCAddress(), "gRPC listen address (unix:/path/to.sock or npipe:////./pipe/gurbanicore-grpc)")
	traceLog := flag.String("trace-log", "", "Optional path to mirror log output to")

	vadAggressiveness := flag.Int("vad-aggressiveness", 2, "VAD aggressiveness (0-3)")
	vadFrameMs := flag.Int("vad-frame-ms", 30, "VAD frame size in ms (10, 20, or 30); recorded only, the Silero chunker uses 512-sample windows")
	vadMinChunk := flag.Float64("vad-min-chunk-s", 1.0, "Minimum chunk duration in seconds")
	vadMaxChunk := flag.Float64("vad-max-chunk-s", 30.0, "Maximum chunk duration in seconds")
	vadOverlap := flag.Float64("vad-overlap-s", 0.5, "Chunk overlap in seconds")

	agreementThreshold := flag.Float64("fusion-agreement-threshold", 0.85, "Fusion high-agreement threshold")
	confidenceBoost := flag.Float64("fusion-confidence-boost", 0.1, "Fusion confidence boost on high agreement")
	redecodeThreshold := flag.Float64("fusion-redecode-threshold", 0.6, "Fusion re-decode confidence threshold")
	maxRedecodeAttempts := flag.Int("fusion-max-redecode-attempts", 2, "Maximum re-decode attempts per chunk")
	asrTimeoutSeconds := flag.Int("asr-timeout-s", 60, "Per-engine transcription timeout in seconds")

	domainMode := flag.String("domain-mode", "sggs", "Domain mode (sggs, dasam, generic)")
	strictGurmukhi := flag.Bool("strict-gurmukhi", true, "Enforce strict Gurmukhi output purity")
	unicodeForm := flag.String("unicode-form", "NFC", "Unicode normalization form (NFC, NFD, NFKC, NFKD); recorded only, scripture matching always normalizes to NFC")
	purityThreshold := flag.Float64("script-purity-threshold", 0.95, "Script purity threshold")
	latinRatioThreshold := flag.Float64("latin-ratio-threshold", 0.02, "Latin character ratio threshold")
	oovRatioThreshold := flag.Float64("oov-ratio-threshold", 0.15, "Out-of-vocabulary ratio threshold")
	maxEditDistance := flag.Int("max-edit-distance", 2, "Maximum edit distance for domain spelling correction")

	denoiseEnabled := flag.Bool("denoise-enabled", false, "Enable automatic denoising")
	denoiseAutoThreshold := flag.Float64("denoise-auto-threshold", 0.4, "Noise level above which auto-denoise engages")
	denoiseStrength := flag.String("denoise-strength", "medium", "Denoise strength (light, medium, aggressive)")

	quoteReplacementThreshold := flag.Float64("quote-replacement-threshold", 0.80, "Confidence above which a quote match replaces the raw transcript")
	quoteReviewThreshold := flag.Float64("quote-review-threshold", 0.70, "Minimum confidence for a quote match to be kept at all")
	quoteAlignmentThreshold := flag.Float64("quote-alignment-threshold", 0.85, "Embedding-similarity threshold for the semantic short-circuit")

	retrySegmentOnEmpty := flag.Bool("retry-segment-on-empty", true, "Retry a segment's transcription when it comes back empty")
	maxSegmentRetries := flag.Int("max-segment-retries", 2, "Maximum retries for an empty segment transcription")

	flag.Parse()

	finalModelsDir := *modelsDir
	if finalModelsDir == "" {
		finalModelsDir = filepath.Join(filepath.Dir(*dataDir), "models")
	}

	return &Config{
		ModelPath:          *modelPath,
		DataDir:            *dataDir,
		ModelsDir:          finalModelsDir,
		Port:               *port,
		GRPCAddr:           *grpcAddr,
		TraceLog:           *traceLog,
		VAD: vad.Config{
			Aggressiveness:       *vadAggressiveness,
			FrameMs:              *vadFrameMs,
			MinChunkSeconds:      *vadMinChunk,
			MaxChunkSeconds:      *vadMaxChunk,
			OverlapSeconds:       *vadOverlap,
			MinSilenceDurationMs: vad.DefaultConfig().MinSilenceDurationMs,
		},
		Fusion: fusion.Config{
			AgreementThreshold:  *agreementThreshold,
			ConfidenceBoost:     *confidenceBoost,
			RedecodeThreshold:   *redecodeThreshold,
			MaxRedecodeAttempts: *maxRedecodeAttempts,
		},
		DomainMode:      lexicon.DomainMode(*domainMode),
		StrictGurmukhi:  *strictGurmukhi,
		UnicodeForm:     *unicodeForm,
		MaxEditDistance: *maxEditDistance,
		Drift: drift.Thresholds{
			PurityThreshold:     *purityThreshold,
			LatinRatioThreshold: *latinRatioThreshold,
			OOVRatioThreshold:   *oovRatioThreshold,
		},
		Denoise: denoise.Config{
			Enabled:       *denoiseEnabled,
			AutoThreshold: *denoiseAutoThreshold,
			Strength:      denoise.Strength(*denoiseStrength),
		},
		Quote: QuoteConfig{
			ReplacementThreshold: *quoteReplacementThreshold,
			ReviewThreshold:      *quoteReviewThreshold,
			AlignmentThreshold:   *quoteAlignmentThreshold,
		},
		Retry: orchestrator.RetryConfig{
			SegmentRetryOnEmpty: *retrySegmentOnEmpty,
			MaxSegmentRetries:   *maxSegmentRetries,
		},
		ASRTimeoutSeconds: *asrTimeoutSeconds,
	}
}

func defaultGRPCAddress() string {
	if runtime.GOOS == "windows" {
		return "npipe:\\\\.\\pipe\\gurbanicore-grpc"
	}
	return "unix:/tmp/gurbanicore-grpc.sock"
}
