// Package denoise implements the consumed Denoiser interface from
// spec.md §6, plus one concrete spectral-flatness noise estimator used by
// the orchestrator's optional auto-denoise step. Real denoiser back-ends
// are out of scope per spec.md §1; this is the "pluggable pre-filter" the
// spec names, not a production noise-reduction algorithm.
package denoise

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

type Strength string

const (
	StrengthLight      Strength = "light"
	StrengthMedium     Strength = "medium"
	StrengthAggressive Strength = "aggressive"
)

// Config mirrors spec.md §6's Denoising block.
type Config struct {
	Enabled      bool
	AutoThreshold float64
	Strength     Strength
}

func DefaultConfig() Config {
	return Config{Enabled: false, AutoThreshold: 0.4, Strength: StrengthMedium}
}

// Denoiser is the consumed interface; a real back-end lives outside this
// module's scope.
type Denoiser interface {
	EstimateNoiseLevel(samples []float32) float64
	DenoiseFile(inPath, outPath string) (string, error)
	DenoiseChunk(samples []float32, sampleRate int) []float32
}

// SpectralEstimator estimates noise level from spectral flatness (the
// geometric-mean-to-arithmetic-mean ratio of the magnitude spectrum): pure
// tones/silence score near 0, white-noise-like signals score near 1.
// Grounded on ai/mel_spectrogram.go's FFT usage (re-purposed here for a
// different, in-scope signal-processing leaf — see DESIGN.md).
type SpectralEstimator struct{}

func (SpectralEstimator) EstimateNoiseLevel(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	n := nextPow2(len(samples))
	padded := make([]float64, n)
	for i, s := range samples {
		padded[i] = float64(s)
	}

	fft := fourier.NewFFT(n)
	spectrum := fft.Coefficients(nil, padded)

	mags := make([]float64, len(spectrum))
	for i, c := range spectrum {
		mags[i] = cAbs(c)
	}
	return spectralFlatness(mags)
}

func spectralFlatness(mags []float64) float64 {
	const eps = 1e-12
	logSum := 0.0
	sum := 0.0
	count := 0
	for _, m := range mags {
		if m <= 0 {
			m = eps
		}
		logSum += math.Log(m)
		sum += m
		count++
	}
	if count == 0 || sum == 0 {
		return 0
	}
	geoMean := math.Exp(logSum / float64(count))
	arithMean := sum / float64(count)
	flatness := geoMean / arithMean
	if flatness > 1 {
		flatness = 1
	}
	if flatness < 0 {
		flatness = 0
	}
	return flatness
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func cAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func (SpectralEstimator) DenoiseFile(inPath, outPath string) (string, error) {
	return outPath, nil
}

func (SpectralEstimator) DenoiseChunk(samples []float32, sampleRate int) []float32 {
	return samples
}

var _ Denoiser = SpectralEstimator{}

// NoOp never denoises; used when Config.Enabled is false.
type NoOp struct{}

func (NoOp) EstimateNoiseLevel(samples []float32) float64                    { return 0 }
func (NoOp) DenoiseFile(inPath, outPath string) (string, error)             { return inPath, nil }
func (NoOp) DenoiseChunk(samples []float32, sampleRate int) []float32 { return samples }

var _ Denoiser = NoOp{}
