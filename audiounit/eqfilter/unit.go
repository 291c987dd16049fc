package eqfilter

import (
	"fmt"
	"math"
	"sync"

	"go.uber.org/atomic"

	"github.com/cwbudde/algo-eqfilter/audiounit"
	"github.com/cwbudde/algo-eqfilter/dsp/filter/biquad"
	"github.com/cwbudde/algo-eqfilter/dsp/filter/design"
	"github.com/cwbudde/algo-eqfilter/dsp/param"
)

// rampBlock is the number of frames rendered between coefficient updates
// while a ramp is running.
const rampBlock = 32

const numParams = 3

func init() {
	audiounit.Default.MustRegister(Description, func() (audiounit.Unit, error) {
		return New()
	})
}

type pendingEvent struct {
	set       bool
	immediate bool
	value     float32
}

// Unit is the equalizer component.
type Unit struct {
	tree   *audiounit.ParameterTree
	params [numParams]*audiounit.Parameter

	rampDuration atomic.Float64
	started      atomic.Bool
	allocated    atomic.Bool

	mu      sync.Mutex
	pending [numParams]pendingEvent
	format  audiounit.Format

	// Render goroutine state.
	ramps    [numParams]*param.Ramp
	sections []biquad.Section
	coeffs   biquad.Coefficients
	dirty    bool
}

var _ audiounit.Unit = (*Unit)(nil)

// New creates an unallocated, stopped equalizer with default parameters.
func New() (*Unit, error) {
	tree, err := newParameterTree()
	if err != nil {
		return nil, fmt.Errorf("eqfilter: %w", err)
	}

	u := &Unit{tree: tree}
	for addr := range numParams {
		p, ok := tree.ParameterByAddress(audiounit.ParameterAddress(addr))
		if !ok {
			return nil, fmt.Errorf("eqfilter: missing parameter at address %d", addr)
		}
		u.params[addr] = p
		u.ramps[addr] = param.NewRamp(float64(p.Value()))
	}
	u.rampDuration.Store(DefaultRampDuration)
	u.coeffs = biquad.Identity()
	u.dirty = true

	tree.SetImplementorValueObserver(func(p *audiounit.Parameter, v float32) {
		u.post(p.Address(), v, false)
	})

	return u, nil
}

// Description implements audiounit.Unit.
func (u *Unit) Description() audiounit.ComponentDescription { return Description }

// ParameterTree implements audiounit.Unit.
func (u *Unit) ParameterTree() *audiounit.ParameterTree { return u.tree }

// AllocateRenderResources prepares per-channel filter state for format and
// snaps every ramp to its parameter's current value.
func (u *Unit) AllocateRenderResources(format audiounit.Format) error {
	if err := format.Validate(); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.format = format
	u.sections = make([]biquad.Section, format.Channels)
	for i, p := range u.params {
		u.ramps[i].SetImmediate(float64(p.Value()))
		u.pending[i] = pendingEvent{}
	}
	u.dirty = true
	u.allocated.Store(true)

	return nil
}

// DeallocateRenderResources releases filter state.
func (u *Unit) DeallocateRenderResources() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.allocated.Store(false)
	u.sections = nil
}

// RenderResourcesAllocated implements audiounit.Unit.
func (u *Unit) RenderResourcesAllocated() bool { return u.allocated.Load() }

// SetParameterImmediate writes a parameter without ramping and without
// notifying observers. Unknown addresses are ignored.
func (u *Unit) SetParameterImmediate(address audiounit.ParameterAddress, value float32) {
	p, ok := u.tree.ParameterByAddress(address)
	if !ok {
		return
	}
	p.Store(value)
	u.post(address, p.Value(), true)
}

// SetRampDuration sets the automation ramp length. Negative or non-finite
// durations disable ramping.
func (u *Unit) SetRampDuration(seconds float64) {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	u.rampDuration.Store(seconds)
}

// RampDuration returns the automation ramp length in seconds.
func (u *Unit) RampDuration() float64 { return u.rampDuration.Load() }

// Start enables processing. A stopped unit passes audio through.
func (u *Unit) Start() { u.started.Store(true) }

// Stop bypasses processing.
func (u *Unit) Stop() { u.started.Store(false) }

// IsStarted implements audiounit.Unit.
func (u *Unit) IsStarted() bool { return u.started.Load() }

// Reset clears the filter memories of every channel.
func (u *Unit) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	for i := range u.sections {
		u.sections[i].Reset()
	}
}

// Process filters frames samples of each channel in place.
func (u *Unit) Process(buffers [][]float32, frames int) error {
	if !u.allocated.Load() {
		return audiounit.ErrNotAllocated
	}

	u.mu.Lock()
	sampleRate := u.format.SampleRate
	sections := u.sections
	u.drainLocked(sampleRate)
	u.mu.Unlock()

	if len(buffers) > len(sections) {
		return fmt.Errorf("%w: %d buffers for %d channels", audiounit.ErrInvalidFormat, len(buffers), len(sections))
	}
	for ch, buf := range buffers {
		if len(buf) < frames {
			return fmt.Errorf("eqfilter: channel %d holds %d frames, want %d", ch, len(buf), frames)
		}
	}

	if !u.started.Load() {
		u.skipRamps(frames)
		return nil
	}

	for offset := 0; offset < frames; {
		n := frames - offset
		if u.isRamping() {
			n = min(n, rampBlock)
			u.skipRamps(n)
		}
		if u.dirty {
			u.updateCoefficients(sampleRate, sections)
		}
		for ch, buf := range buffers {
			sections[ch].ProcessBlock32(buf[offset : offset+n])
		}
		offset += n
	}

	return nil
}

// Coefficients returns the coefficients used for the most recent block.
// Call it from the render goroutine only.
func (u *Unit) Coefficients() biquad.Coefficients { return u.coeffs }

// RampedValue returns the value a parameter currently renders with, which
// trails Parameter.Value while a ramp is running. Call it from the render
// goroutine only.
func (u *Unit) RampedValue(address audiounit.ParameterAddress) float64 {
	if int(address) >= numParams {
		return math.NaN()
	}
	return u.ramps[address].Value()
}

func (u *Unit) post(address audiounit.ParameterAddress, value float32, immediate bool) {
	if int(address) >= numParams {
		return
	}

	u.mu.Lock()
	u.pending[address] = pendingEvent{set: true, immediate: immediate, value: value}
	u.mu.Unlock()
}

func (u *Unit) drainLocked(sampleRate float64) {
	samples := param.DurationToSamples(u.rampDuration.Load(), sampleRate)
	for i := range u.pending {
		ev := u.pending[i]
		if !ev.set {
			continue
		}
		u.pending[i] = pendingEvent{}
		if ev.immediate {
			u.ramps[i].SetImmediate(float64(ev.value))
		} else {
			u.ramps[i].StartRamp(float64(ev.value), samples)
		}
		u.dirty = true
	}
}

func (u *Unit) isRamping() bool {
	for _, r := range u.ramps {
		if r.IsRamping() {
			return true
		}
	}
	return false
}

func (u *Unit) skipRamps(n int) {
	for _, r := range u.ramps {
		if r.IsRamping() {
			r.Skip(n)
			u.dirty = true
		}
	}
}

func (u *Unit) updateCoefficients(sampleRate float64, sections []biquad.Section) {
	u.coeffs = design.EqualizerBand(
		u.ramps[CenterFrequencyAddress].Value(),
		u.ramps[BandwidthAddress].Value(),
		u.ramps[GainAddress].Value(),
		sampleRate,
	)
	for i := range sections {
		sections[i].SetCoefficients(u.coeffs)
	}
	u.dirty = false
}
