package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gurbanicore/internal/audiostore"
	"gurbanicore/internal/capture"
	"gurbanicore/internal/config"
	"gurbanicore/internal/denoise"
	"gurbanicore/internal/engine"
	"gurbanicore/internal/engine/sherpa"
	"gurbanicore/internal/lexicon"
	"gurbanicore/internal/orchestrator"
	"gurbanicore/internal/scripture"
	"gurbanicore/internal/scripturestore"
	"gurbanicore/internal/transport"
	"gurbanicore/internal/vad"

	"github.com/google/uuid"
)

func main() {
	// 1. Load configuration.
	cfg := config.Load()

	logFile := setupLogging(cfg.TraceLog)
	if logFile != nil {
		defer logFile.Close()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC: %v", r)
			panic(r)
		}
	}()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}
	if err := os.MkdirAll(cfg.ModelsDir, 0o755); err != nil {
		log.Fatal("Failed to create models directory:", err)
	}

	// 2. Build the domain lexicon against an (initially empty) scripture
	// corpus; a real deployment loads SGGS/Dasam Granth lines here.
	store := scripturestore.New(nil)
	lex := lexicon.BuildFromStore(store)
	scriptureMatcher := scripture.New(store, nil)

	// 3. Construct ASR engines.
	primary := sherpa.New(sherpa.DefaultConfig("primary", filepath.Join(cfg.ModelsDir, "indic")))
	auxiliary := map[string]engine.TranscriptionEngine{
		"indic": sherpa.New(sherpa.DefaultConfig("indic-aux", filepath.Join(cfg.ModelsDir, "indic"))),
	}

	var denoiser denoise.Denoiser = denoise.NoOp{}
	if cfg.Denoise.Enabled {
		denoiser = denoise.SpectralEstimator{}
	}

	// 4. Construct the orchestrator.
	orchCfg := orchestrator.DefaultConfig()
	orchCfg.Mode = cfg.DomainMode
	orchCfg.StrictScript = cfg.StrictGurmukhi
	orchCfg.SampleRate = cfg.VAD.SampleRate
	if orchCfg.SampleRate == 0 {
		orchCfg.SampleRate = 16000
	}
	orchCfg.Denoise = cfg.Denoise
	orchCfg.Retry = cfg.Retry
	orchCfg.Fusion = cfg.Fusion
	orchCfg.AuxTimeout = time.Duration(cfg.ASRTimeoutSeconds) * time.Second
	orch := orchestrator.New(orchCfg, primary, auxiliary, denoiser, lex, scriptureMatcher)
	orch.Drift.Thresholds = cfg.Drift
	orch.Corrector.MaxEdit = cfg.MaxEditDistance

	audioStore := audiostore.New(filepath.Join(cfg.DataDir, "audio"), orchCfg.SampleRate)

	vadCfg := cfg.VAD
	vadCfg.ModelPath = filepath.Join(cfg.ModelsDir, "silero_vad.onnx")
	vadCfg.SampleRate = orchCfg.SampleRate
	sileroVAD, err := vad.NewSileroVAD(vadCfg)
	if err != nil {
		log.Printf("VAD unavailable (model not loaded), live capture chunking will be skipped: %v", err)
	} else {
		defer sileroVAD.Close()
	}

	// 5. Start the gRPC live control plane.
	log.Println("Starting gurbanicore backend...")
	if err := transport.Serve(cfg.GRPCAddr, &liveServer{orchestrator: orch, vad: sileroVAD, audioStore: audioStore}); err != nil {
		log.Fatal("gRPC server exited:", err)
	}
}

// liveServer adapts a single orchestrator to the transport package's
// per-stream Stream contract, spawning one capture+chunk loop per
// connected client, mirroring internal/api/grpc_service.go's one-stream-
// per-session model.
type liveServer struct {
	transport.UnimplementedTranscriptionServer
	orchestrator *orchestrator.Orchestrator
	vad          *vad.SileroVAD
	audioStore   *audiostore.Store
}

func (s *liveServer) Stream(stream transport.TranscriptionStreamServer) error {
	first, err := stream.Recv()
	if err != nil {
		return err
	}
	sessionID := first.SessionID
	if sessionID == "" {
		sessionID = "session"
	}

	session := orchestrator.NewLiveSession(sessionID, s.orchestrator, stream)
	log.Printf("live session %s started", sessionID)

	mic, err := capture.New(s.orchestrator.Config.SampleRate)
	if err != nil {
		return fmt.Errorf("capture init: %w", err)
	}
	defer mic.Close()
	if err := mic.Start(); err != nil {
		return fmt.Errorf("capture start: %w", err)
	}
	defer mic.Stop()

	ctx := context.Background()
	var buffer []float32
	var windowStart float64
	const analysisWindowSeconds = 3.0
	sampleRate := float64(s.orchestrator.Config.SampleRate)

	for frame := range mic.Frames() {
		buffer = append(buffer, frame.Samples...)
		if float64(len(buffer))/sampleRate < analysisWindowSeconds {
			continue
		}

		if s.vad == nil {
			// No VAD model loaded: fall back to fixed-window chunking so
			// live capture still produces segments.
			end := windowStart + float64(len(buffer))/sampleRate
			s.persistChunk(sessionID, buffer)
			if _, err := session.Ingest(ctx, uuid.NewString(), windowStart, end, buffer); err != nil {
				log.Printf("session %s: chunk ingest error: %v", sessionID, err)
			}
			windowStart = end
			buffer = nil
			continue
		}

		chunks, err := s.vad.Chunk(buffer)
		if err != nil {
			log.Printf("session %s: vad chunking error: %v", sessionID, err)
			buffer = nil
			continue
		}
		for _, c := range chunks {
			lo := int(c.Start * sampleRate)
			hi := int(c.End * sampleRate)
			if lo < 0 || hi > len(buffer) || lo >= hi {
				continue
			}
			absoluteStart := windowStart + c.Start
			absoluteEnd := windowStart + c.End
			chunkSamples := buffer[lo:hi]
			s.persistChunk(sessionID, chunkSamples)
			if _, err := session.Ingest(ctx, c.ID, absoluteStart, absoluteEnd, chunkSamples); err != nil {
				log.Printf("session %s: chunk ingest error: %v", sessionID, err)
			}
		}
		windowStart += float64(len(buffer)) / sampleRate
		buffer = nil
	}
	return nil
}

// persistChunk writes a live chunk's audio to disk for later review,
// following the teacher's recording-persistence idiom (session/mp3_writer_shine.go).
func (s *liveServer) persistChunk(sessionID string, samples []float32) {
	if s.audioStore == nil {
		return
	}
	if _, err := s.audioStore.Persist(samples); err != nil {
		log.Printf("session %s: failed to persist chunk audio: %v", sessionID, err)
	}
}

func setupLogging(path string) *os.File {
	if path == "" {
		return nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open trace log %s: %v\n", path, err)
		return nil
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("trace log attached: %s", path)
	return file
}
