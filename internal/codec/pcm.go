package codec

import (
	"math"

	goaudio "github.com/go-audio/audio"

	"github.com/cwbudde/algo-eqfilter/dsp/core"
)

// fullScale returns the positive full-scale magnitude for signed PCM.
func fullScale(bitDepth int) (float64, bool) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), true
	default:
		return 0, false
	}
}

// intBufferToAudio normalizes signed integer PCM into float32 channels.
func intBufferToAudio(buf *goaudio.IntBuffer, bitDepth int) (*Audio, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, ErrEmptyAudio
	}
	scale, ok := fullScale(bitDepth)
	if !ok {
		return nil, ErrUnsupportedEncoding
	}

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(float64(v) / scale)
	}

	return &Audio{
		SampleRate: buf.Format.SampleRate,
		Channels:   core.Deinterleave(samples, buf.Format.NumChannels),
	}, nil
}

// quantize maps a float sample onto a signed integer of bitDepth bits,
// clamping out-of-range input.
func quantize(x float32, bitDepth int) int {
	scale, _ := fullScale(bitDepth)
	v := math.Round(float64(x) * scale)
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(-scale, math.Min(scale-1, v)))
}
