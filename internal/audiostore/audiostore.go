// Package audiostore persists the PCM audio backing an AudioChunk.AudioRef
// to disk as mp3, so chunks can be dereferenced without holding every
// sample in memory for the lifetime of a run. Grounded on
// session/mp3_writer_shine.go (encode) and session/mp3_reader.go (decode).
package audiostore

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/braheezy/shine-mp3/pkg/mp3"
	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/google/uuid"
)

// Store writes chunk PCM to a directory and hands back an AudioRef (the
// resulting file path) for later dereferencing.
type Store struct {
	dir        string
	sampleRate int
	channels   int
}

func New(dir string, sampleRate int) *Store {
	return &Store{dir: dir, sampleRate: sampleRate, channels: 1}
}

// Persist encodes samples to a new mp3 file under the store's directory
// and returns its path as the AudioRef.
func (s *Store) Persist(samples []float32) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("audiostore: mkdir: %w", err)
	}
	ref := s.dir + "/" + uuid.NewString() + ".mp3"

	file, err := os.Create(ref)
	if err != nil {
		return "", fmt.Errorf("audiostore: create: %w", err)
	}
	defer file.Close()

	encoder := mp3.NewEncoder(s.sampleRate, s.channels)
	buffer := make([]int16, 0, len(samples))
	for _, sample := range samples {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		buffer = append(buffer, int16(sample*32767))
	}
	if len(buffer) > 0 {
		encoder.Write(file, buffer)
	}
	return ref, nil
}

// Load decodes an AudioRef back into float32 mono samples at its native
// sample rate.
func (s *Store) Load(ref string) ([]float32, int, error) {
	file, err := os.Open(ref)
	if err != nil {
		return nil, 0, fmt.Errorf("audiostore: open: %w", err)
	}
	defer file.Close()

	decoder, err := gomp3.NewDecoder(file)
	if err != nil {
		return nil, 0, fmt.Errorf("audiostore: decode: %w", err)
	}

	var pcm []byte
	buf := make([]byte, 4096)
	for {
		n, readErr := decoder.Read(buf)
		if n > 0 {
			pcm = append(pcm, buf[:n]...)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, 0, fmt.Errorf("audiostore: read: %w", readErr)
		}
	}

	// go-mp3 always decodes to signed 16-bit stereo.
	numSamples := len(pcm) / 4
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		left := int16(binary.LittleEndian.Uint16(pcm[i*4 : i*4+2]))
		right := int16(binary.LittleEndian.Uint16(pcm[i*4+2 : i*4+4]))
		samples[i] = float32(int32(left)+int32(right)) / 2.0 / 32768.0
	}
	return samples, decoder.SampleRate(), nil
}
