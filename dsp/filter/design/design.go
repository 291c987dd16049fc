package design

import (
	"math"

	"github.com/cwbudde/algo-eqfilter/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Frequencies and bandwidths are clamped into these fractions of the sample
// rate so the tangent prewarp stays finite and the poles stay off the unit
// circle.
const (
	minBandFraction = 1e-5
	maxBandFraction = 0.4999
)

// EqualizerBand designs a second-order peak/notch section around freq (Hz)
// with the given -3 dB bandwidth (Hz) and linear gain.
//
// The section is built from a second-order allpass A(z):
//
//	H(z) = ((1 + A(z)) + gain*(1 - A(z))) / 2
//
// so the response is exactly 1 at DC and Nyquist and exactly gain at the
// center frequency. A gain above 1 boosts (peak), a gain between 0 and 1
// attenuates (notch) and a negative gain inverts the band. A non-positive
// bandwidth yields a passthrough section.
func EqualizerBand(freq, bandwidth, gain, sampleRate float64) biquad.Coefficients {
	if !validRate(sampleRate) || !finite(freq) || !finite(bandwidth) || !finite(gain) {
		return biquad.Identity()
	}
	if bandwidth <= 0 {
		return biquad.Identity()
	}

	limit := sampleRate * maxBandFraction
	freq = math.Min(math.Max(freq, sampleRate*minBandFraction), limit)
	bandwidth = math.Min(bandwidth, limit)

	t := math.Tan(math.Pi * bandwidth / sampleRate)
	c := (1 - t) / (1 + t)
	d := math.Cos(2 * math.Pi * freq / sampleRate)

	a1 := -d * (1 + c)
	a2 := c

	return biquad.Coefficients{
		B0: ((1 + c) + gain*(1-c)) / 2,
		B1: a1,
		B2: ((1 + c) - gain*(1-c)) / 2,
		A1: a1,
		A2: a2,
	}
}

// BandwidthToQ converts an absolute bandwidth in Hz at center frequency freq
// to the equivalent quality factor. A non-positive bandwidth returns +Inf.
func BandwidthToQ(freq, bandwidth float64) float64 {
	if bandwidth <= 0 {
		return math.Inf(1)
	}
	return freq / bandwidth
}

// Peak designs a peaking-EQ biquad with gain in dB (RBJ cookbook).
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)
	a := math.Pow(10, gainDB/40)

	b0 := 1 + alpha*a
	b1 := -2 * cw
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cw
	a2 := 1 - alpha/a

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Notch designs a notch biquad centered at freq (Hz).
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := 1.0
	b1 := -2 * cw
	b2 := 1.0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func validRate(sampleRate float64) bool {
	return sampleRate > 0 && finite(sampleRate)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if !validRate(sampleRate) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || !finite(freq) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || !finite(q) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !finite(a0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
