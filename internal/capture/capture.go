// Package capture provides single-device microphone input for live mode,
// trimmed from audio/capture.go's dual mic+system-audio struct down to the
// one input stream the spec's live AudioInput needs (no system-audio mix,
// no screen capture — see DESIGN.md).
package capture

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// Frame is one batch of captured samples, handed to the orchestrator's
// live-mode VAD/chunk pipeline.
type Frame struct {
	Samples []float32
}

// Mic captures from the system's default input device at a
// fixed sample rate/format suitable for the VAD chunker.
type Mic struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	sampleRate int
	dataChan   chan Frame
	mu         sync.Mutex
}

// New opens the malgo context; it does not yet start capturing.
func New(sampleRate int) (*Mic, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("capture: init context: %w", err)
	}
	return &Mic{
		ctx:        ctx,
		sampleRate: sampleRate,
		dataChan:   make(chan Frame, 64),
	}, nil
}

// Start begins streaming mono float32 PCM frames on Frames().
func (m *Mic) Start() error {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(m.sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	onRecvFrames := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		sampleCount := int(framecount)
		if len(pInputSamples) != sampleCount*4 {
			return
		}
		samples := make([]float32, sampleCount)
		for i := 0; i < sampleCount; i++ {
			bits := uint32(pInputSamples[i*4]) | uint32(pInputSamples[i*4+1])<<8 |
				uint32(pInputSamples[i*4+2])<<16 | uint32(pInputSamples[i*4+3])<<24
			samples[i] = math.Float32frombits(bits)
		}
		m.dataChan <- Frame{Samples: samples}
	}

	device, err := malgo.InitDevice(m.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecvFrames})
	if err != nil {
		return fmt.Errorf("capture: init device: %w", err)
	}
	if err := device.Start(); err != nil {
		return fmt.Errorf("capture: start device: %w", err)
	}

	m.mu.Lock()
	m.device = device
	m.mu.Unlock()

	log.Println("microphone capture started")
	return nil
}

// Frames returns the channel of captured audio frames.
func (m *Mic) Frames() <-chan Frame {
	return m.dataChan
}

func (m *Mic) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			return fmt.Errorf("capture: stop device: %w", err)
		}
	}
	return nil
}

func (m *Mic) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}
	if m.ctx != nil {
		m.ctx.Uninit()
		m.ctx.Free()
		m.ctx = nil
	}
	close(m.dataChan)
}
