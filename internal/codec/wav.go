package codec

import (
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-eqfilter/dsp/core"
)

const wavFormatPCM = 1

// DecodeWAV decodes 16, 24 or 32-bit integer PCM WAV.
func DecodeWAV(r io.Reader) (*Audio, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, errors.Wrap(ErrInvalidFile, "wav")
	}
	dec.ReadInfo()
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, errors.Wrapf(ErrUnsupportedEncoding, "wav format tag %d", dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "wav: read samples")
	}

	return intBufferToAudio(buf, int(dec.BitDepth))
}

// WriteWAV encodes a as integer PCM WAV with the given bit depth (16 or 24).
func WriteWAV(w io.WriteSeeker, a *Audio, bitDepth int) error {
	if a == nil || len(a.Channels) == 0 {
		return ErrEmptyAudio
	}
	if bitDepth != 16 && bitDepth != 24 {
		return errors.Wrapf(ErrUnsupportedEncoding, "wav bit depth %d", bitDepth)
	}

	channels := len(a.Channels)
	interleaved := core.Interleave(a.Channels)

	data := make([]int, len(interleaved))
	for i, v := range interleaved {
		data[i] = quantize(v, bitDepth)
	}

	enc := wav.NewEncoder(w, a.SampleRate, bitDepth, channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: a.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "wav: write samples")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "wav: finalize")
	}

	return nil
}

// WriteWAVFile creates path and writes a to it.
func WriteWAVFile(path string, a *Audio, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "codec: create output")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "codec: close output")
		}
	}()

	return WriteWAV(f, a, bitDepth)
}
