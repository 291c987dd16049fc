package codec

import (
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/pkg/errors"
)

const aiffChunkSamples = 4096

// DecodeAIFF decodes 16, 24 or 32-bit AIFF.
func DecodeAIFF(r io.Reader) (*Audio, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, errors.Wrap(ErrInvalidFile, "aiff")
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, errors.Wrap(ErrInvalidFile, "aiff: missing format")
	}

	chunk := &goaudio.IntBuffer{Format: format, Data: make([]int, aiffChunkSamples)}
	all := &goaudio.IntBuffer{Format: format}
	for {
		chunk.Data = chunk.Data[:cap(chunk.Data)]
		n, err := dec.PCMBuffer(chunk)
		all.Data = append(all.Data, chunk.Data[:n]...)
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "aiff: read samples")
		}
		if n == 0 || err == io.EOF {
			break
		}
	}

	return intBufferToAudio(all, int(dec.BitDepth))
}
