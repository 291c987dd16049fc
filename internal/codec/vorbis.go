package codec

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-eqfilter/dsp/core"
)

// DecodeVorbis decodes an Ogg Vorbis stream.
func DecodeVorbis(r io.Reader) (*Audio, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "vorbis")
	}
	if format == nil || format.Channels <= 0 {
		return nil, errors.Wrap(ErrInvalidFile, "vorbis: missing format")
	}

	return &Audio{
		SampleRate: format.SampleRate,
		Channels:   core.Deinterleave(samples, format.Channels),
	}, nil
}
