package engine

import (
	"sync"

	"github.com/cwbudde/algo-eqfilter/audiounit"
	"github.com/cwbudde/algo-eqfilter/dsp/core"
	"github.com/cwbudde/algo-eqfilter/internal/vecmath"
	"go.uber.org/atomic"
)

// Mixer sums any number of inputs and applies an output volume.
type Mixer struct {
	mu      sync.Mutex
	inputs  []Node
	volume  atomic.Float32
	scratch [][]float32
	format  audiounit.Format
}

// NewMixer creates a unity-volume mixer over inputs.
func NewMixer(inputs ...Node) *Mixer {
	m := &Mixer{}
	m.volume.Store(1)
	for _, in := range inputs {
		m.AddInput(in)
	}
	return m
}

// AddInput connects another upstream node. Duplicates and nil are ignored.
func (m *Mixer) AddInput(n Node) {
	if n == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.inputs {
		if existing == n {
			return
		}
	}
	m.inputs = append(m.inputs, n)
}

// Volume returns the linear output gain.
func (m *Mixer) Volume() float32 { return m.volume.Load() }

// SetVolume sets the linear output gain. It is safe to call while rendering.
func (m *Mixer) SetVolume(v float32) { m.volume.Store(v) }

// Prepare implements Node.
func (m *Mixer) Prepare(format audiounit.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.format = format
	m.scratch = core.NewChannels(format.Channels, 0)
	m.mu.Unlock()

	return nil
}

// Inputs implements Node.
func (m *Mixer) Inputs() []Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Node(nil), m.inputs...)
}

// Render implements Node.
func (m *Mixer) Render(buffers [][]float32, frames int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	core.ZeroChannels(buffers, frames)
	if len(m.inputs) == 0 {
		return nil
	}

	m.scratch = core.EnsureChannels(m.scratch, len(buffers), frames)
	vol := m.volume.Load()

	for _, in := range m.inputs {
		core.ZeroChannels(m.scratch, frames)
		if err := in.Render(m.scratch, frames); err != nil {
			return err
		}
		for ch, buf := range buffers {
			vecmath.AddScaledBlockInPlace(buf[:frames], m.scratch[ch][:frames], vol)
		}
	}

	return nil
}
