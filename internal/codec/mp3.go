package codec

import (
	"encoding/binary"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-eqfilter/dsp/core"
)

// go-mp3 always produces interleaved stereo 16-bit little-endian PCM.
const mp3Channels = 2

// DecodeMP3 decodes an MPEG-1/2 Layer III stream.
func DecodeMP3(r io.Reader) (*Audio, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(err, "mp3")
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, errors.Wrap(err, "mp3: read samples")
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(v) / 32768
	}

	return &Audio{
		SampleRate: dec.SampleRate(),
		Channels:   core.Deinterleave(samples, mp3Channels),
	}, nil
}
