package engine

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-eqfilter/audiounit"
	"go.uber.org/atomic"
)

// BufferSource plays a de-interleaved buffer once, then renders silence.
// When the buffer has fewer channels than the render format, its channels
// are repeated.
type BufferSource struct {
	mu      sync.Mutex
	data    [][]float32
	length  int
	pos     int
	looping bool
}

// NewBufferSource creates a source over data. The shortest channel sets the
// playable length.
func NewBufferSource(data [][]float32) *BufferSource {
	s := &BufferSource{data: data}
	if len(data) > 0 {
		s.length = len(data[0])
		for _, ch := range data[1:] {
			s.length = min(s.length, len(ch))
		}
	}
	return s
}

// SetLooping makes the source wrap around instead of ending.
func (s *BufferSource) SetLooping(looping bool) {
	s.mu.Lock()
	s.looping = looping
	s.mu.Unlock()
}

// Len returns the playable length in frames.
func (s *BufferSource) Len() int { return s.length }

// Position returns the next frame to be played.
func (s *BufferSource) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Done reports whether a non-looping source has played its whole buffer.
func (s *BufferSource) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.looping && s.pos >= s.length
}

// Rewind restarts playback from the first frame.
func (s *BufferSource) Rewind() {
	s.mu.Lock()
	s.pos = 0
	s.mu.Unlock()
}

// Prepare implements Node.
func (s *BufferSource) Prepare(audiounit.Format) error { return nil }

// Inputs implements Node.
func (s *BufferSource) Inputs() []Node { return nil }

// Render implements Node.
func (s *BufferSource) Render(buffers [][]float32, frames int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	written := 0
	for written < frames {
		if s.pos >= s.length {
			if !s.looping || s.length == 0 {
				break
			}
			s.pos = 0
		}

		n := min(frames-written, s.length-s.pos)
		for ch, buf := range buffers {
			src := s.data[ch%len(s.data)]
			copy(buf[written:written+n], src[s.pos:s.pos+n])
		}
		written += n
		s.pos += n
	}

	for _, buf := range buffers {
		clear(buf[written:frames])
	}

	return nil
}

// ToneSource renders the same sine wave on every channel.
type ToneSource struct {
	frequency  atomic.Float64
	amplitude  atomic.Float64
	sampleRate float64
	phase      float64
}

// NewToneSource creates a sine source with the given frequency in Hz and
// peak amplitude.
func NewToneSource(frequency, amplitude float64) *ToneSource {
	t := &ToneSource{}
	t.frequency.Store(frequency)
	t.amplitude.Store(amplitude)
	return t
}

// Frequency returns the tone frequency in Hz.
func (t *ToneSource) Frequency() float64 { return t.frequency.Load() }

// SetFrequency changes the tone frequency without a phase jump.
func (t *ToneSource) SetFrequency(hz float64) { t.frequency.Store(hz) }

// Amplitude returns the peak amplitude.
func (t *ToneSource) Amplitude() float64 { return t.amplitude.Load() }

// SetAmplitude changes the peak amplitude.
func (t *ToneSource) SetAmplitude(a float64) { t.amplitude.Store(a) }

// Prepare implements Node.
func (t *ToneSource) Prepare(format audiounit.Format) error {
	t.sampleRate = format.SampleRate
	t.phase = 0
	return nil
}

// Inputs implements Node.
func (t *ToneSource) Inputs() []Node { return nil }

// Render implements Node.
func (t *ToneSource) Render(buffers [][]float32, frames int) error {
	if t.sampleRate <= 0 {
		return ErrNotPrepared
	}
	if len(buffers) == 0 {
		return nil
	}

	step := 2 * math.Pi * t.frequency.Load() / t.sampleRate
	amp := t.amplitude.Load()

	first := buffers[0][:frames]
	for i := range first {
		first[i] = float32(amp * math.Sin(t.phase))
		t.phase += step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
	for _, buf := range buffers[1:] {
		copy(buf[:frames], first)
	}

	return nil
}
