// Package response measures the magnitude response of block processors.
//
// An impulse is run through the processor and the captured impulse response
// is transformed into a per-bin magnitude in dB. The FFT length bounds the
// frequency resolution and must exceed the processor's effective impulse
// response length for an accurate curve.
package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eqfilter/dsp/core"
)

// Errors returned by Measure.
var (
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: fft size must be a power of two >= 16")
	ErrNilProcessor      = errors.New("response: processor is nil")
)

// FloorDB is reported for bins with zero magnitude.
const FloorDB = -240.0

const blockSize = 512

// Processor filters a de-interleaved block in place.
type Processor interface {
	Process(buffers [][]float32, frames int) error
}

// Curve is a sampled magnitude response from DC to Nyquist.
type Curve struct {
	SampleRate float64
	FFTSize    int
	// MagnitudeDB holds FFTSize/2+1 bins.
	MagnitudeDB []float64
}

// Point is one row of a response table.
type Point struct {
	Frequency   float64
	MagnitudeDB float64
}

// Measure feeds a unit impulse of fftSize samples through p in blocks and
// returns the magnitude of its spectrum. Only the first channel is driven.
func Measure(p Processor, sampleRate float64, fftSize int) (Curve, error) {
	if p == nil {
		return Curve{}, ErrNilProcessor
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return Curve{}, ErrInvalidSampleRate
	}
	if fftSize < 16 || fftSize&(fftSize-1) != 0 {
		return Curve{}, ErrInvalidFFTSize
	}

	ir := make([]float32, fftSize)
	ir[0] = 1

	for off := 0; off < fftSize; off += blockSize {
		n := min(blockSize, fftSize-off)
		if err := p.Process([][]float32{ir[off : off+n]}, n); err != nil {
			return Curve{}, fmt.Errorf("response: process: %w", err)
		}
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Curve{}, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(float64(v), 0)
	}

	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return Curve{}, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(spec[i])
		im[i] = imag(spec[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	for i, m := range mag {
		db := core.LinearToDB(m)
		if math.IsNaN(db) || db < FloorDB {
			db = FloorDB
		}
		mag[i] = db
	}

	return Curve{SampleRate: sampleRate, FFTSize: fftSize, MagnitudeDB: mag}, nil
}

// BinWidth returns the spacing between bins in Hz.
func (c Curve) BinWidth() float64 {
	if c.FFTSize == 0 {
		return 0
	}
	return c.SampleRate / float64(c.FFTSize)
}

// At returns the magnitude in dB at freq, interpolating linearly between
// bins. Frequencies outside [0, Nyquist] are clamped.
func (c Curve) At(freq float64) float64 {
	if len(c.MagnitudeDB) == 0 {
		return math.NaN()
	}

	pos := core.Clamp(freq/c.BinWidth(), 0, float64(len(c.MagnitudeDB)-1))
	i := int(pos)
	if i >= len(c.MagnitudeDB)-1 {
		return c.MagnitudeDB[len(c.MagnitudeDB)-1]
	}

	frac := pos - float64(i)
	return c.MagnitudeDB[i] + frac*(c.MagnitudeDB[i+1]-c.MagnitudeDB[i])
}

// Table samples the curve at the given frequencies.
func (c Curve) Table(freqs []float64) []Point {
	out := make([]Point, len(freqs))
	for i, f := range freqs {
		out[i] = Point{Frequency: f, MagnitudeDB: c.At(f)}
	}
	return out
}

// LogFrequencies returns n frequencies spaced logarithmically from lo to hi
// inclusive.
func LogFrequencies(lo, hi float64, n int) []float64 {
	if n <= 0 || !(lo > 0) || !(hi >= lo) {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}

	out := make([]float64, n)
	ratio := math.Log(hi / lo)
	for i := range out {
		out[i] = lo * math.Exp(ratio*float64(i)/float64(n-1))
	}
	return out
}
