package audiostore

import (
	"math"
	"testing"
)

func TestPersistAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, 16000)

	samples := make([]float32, 16000)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 16000))
	}

	ref, err := store.Persist(samples)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if ref == "" {
		t.Fatal("expected non-empty audio ref")
	}

	decoded, sampleRate, err := store.Load(ref)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sampleRate <= 0 {
		t.Errorf("expected positive sample rate, got %d", sampleRate)
	}
	if len(decoded) == 0 {
		t.Error("expected decoded samples to be non-empty")
	}
}

func TestPersistEmptySamples(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, 16000)

	ref, err := store.Persist(nil)
	if err != nil {
		t.Fatalf("Persist with no samples should not error: %v", err)
	}
	if ref == "" {
		t.Fatal("expected a ref even for an empty clip")
	}
}
