// Package codec decodes audio files into de-interleaved float32 buffers and
// writes PCM WAV files.
package codec

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrUnknownFormat       = errors.New("codec: unknown file format")
	ErrInvalidFile         = errors.New("codec: invalid file")
	ErrUnsupportedEncoding = errors.New("codec: unsupported sample encoding")
	ErrEmptyAudio          = errors.New("codec: no audio channels")
)

// Audio is decoded PCM, one slice per channel, samples in [-1, 1].
type Audio struct {
	SampleRate int
	Channels   [][]float32
}

// Frames returns the length of the shortest channel.
func (a *Audio) Frames() int {
	if a == nil || len(a.Channels) == 0 {
		return 0
	}
	n := len(a.Channels[0])
	for _, ch := range a.Channels[1:] {
		n = min(n, len(ch))
	}
	return n
}

// Decoder decodes one container format.
type Decoder interface {
	Decode(r io.Reader) (*Audio, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(r io.Reader) (*Audio, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(r io.Reader) (*Audio, error) { return f(r) }

// Registry maps file extensions to decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Default knows wav, aiff, mp3 and ogg.
var Default = NewRegistry()

func init() {
	Default.Register(DecoderFunc(DecodeWAV), ".wav", ".wave")
	Default.Register(DecoderFunc(DecodeAIFF), ".aif", ".aiff")
	Default.Register(DecoderFunc(DecodeMP3), ".mp3")
	Default.Register(DecoderFunc(DecodeVorbis), ".ogg", ".oga")
}

// Register associates d with each extension. Extensions are matched case
// insensitively, with or without the leading dot.
func (r *Registry) Register(d Decoder, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range exts {
		r.decoders[normalizeExt(ext)] = d
	}
}

// Lookup returns the decoder for ext.
func (r *Registry) Lookup(ext string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.decoders[normalizeExt(ext)]
	return d, ok
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// DecodeFile decodes path with the decoder registered for its extension.
func (r *Registry) DecodeFile(path string) (*Audio, error) {
	d, ok := r.Lookup(filepath.Ext(path))
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFormat, "%s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "codec: open input")
	}
	defer f.Close()

	a, err := d.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "codec: decode %s", filepath.Base(path))
	}
	return a, nil
}

// DecodeFile decodes path using the Default registry.
func DecodeFile(path string) (*Audio, error) {
	return Default.DecodeFile(path)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// readSeeker returns r itself when it can seek; other readers are buffered.
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "codec: read input")
	}
	return bytes.NewReader(data), nil
}
