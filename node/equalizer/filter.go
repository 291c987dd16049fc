package equalizer

import (
	"math"

	"github.com/cwbudde/algo-eqfilter/audiounit"
	"github.com/cwbudde/algo-eqfilter/audiounit/eqfilter"
	"github.com/cwbudde/algo-eqfilter/dispatch"
	"github.com/cwbudde/algo-eqfilter/dsp/core"
	"github.com/cwbudde/algo-eqfilter/engine"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Filter is a peak/notch equalizer node. Setters are meant to be called
// from the main queue; getters are safe from any goroutine.
type Filter struct {
	centerFrequency atomic.Float64
	bandwidth       atomic.Float64
	gain            atomic.Float64
	rampDuration    atomic.Float64

	unit audiounit.Unit
	tree *audiounit.ParameterTree

	centerFrequencyParameter *audiounit.Parameter
	bandwidthParameter       *audiounit.Parameter
	gainParameter            *audiounit.Parameter

	token  ObserverToken
	queue  *dispatch.Queue
	logger logrus.FieldLogger

	input engine.Node
}

// ObserverToken aliases the tree token type for callers of Token.
type ObserverToken = audiounit.ObserverToken

var (
	_ engine.Node        = (*Filter)(nil)
	_ engine.InputSetter = (*Filter)(nil)
	_ engine.Releaser    = (*Filter)(nil)
)

// New creates a filter fed by input, which may be nil. A component that
// fails to instantiate leaves the filter unconfigured.
func New(input engine.Node, opts ...Option) *Filter {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	f := &Filter{
		queue:  cfg.queue,
		logger: cfg.logger.WithField("component", cfg.description.String()),
		input:  input,
	}
	if f.queue == nil {
		f.queue = dispatch.Main()
	}
	f.centerFrequency.Store(cfg.settings.CenterFrequency)
	f.bandwidth.Store(cfg.settings.Bandwidth)
	f.gain.Store(cfg.settings.Gain)
	f.rampDuration.Store(cfg.settings.RampDuration)

	unit, err := cfg.registry.Instantiate(cfg.description)
	if err != nil {
		f.logger.WithError(err).Debug("equalizer component unavailable")
		return f
	}
	f.unit = unit

	f.tree = unit.ParameterTree()
	if f.tree == nil {
		f.logger.Debug("equalizer component has no parameter tree")
		return f
	}

	f.centerFrequencyParameter, _ = f.tree.Parameter(eqfilter.CenterFrequencyIdentifier)
	f.bandwidthParameter, _ = f.tree.Parameter(eqfilter.BandwidthIdentifier)
	f.gainParameter, _ = f.tree.Parameter(eqfilter.GainIdentifier)

	f.token = f.tree.TokenByAddingParameterObserver(f.observe)

	unit.SetRampDuration(cfg.settings.RampDuration)
	f.write(f.centerFrequencyParameter, eqfilter.CenterFrequencyAddress, cfg.settings.CenterFrequency)
	f.write(f.bandwidthParameter, eqfilter.BandwidthAddress, cfg.settings.Bandwidth)
	f.write(f.gainParameter, eqfilter.GainAddress, cfg.settings.Gain)

	return f
}

// observe runs on whichever goroutine changed the parameter.
func (f *Filter) observe(address audiounit.ParameterAddress, value float32) {
	queued := f.queue.Async(func() {
		switch {
		case sameAddress(f.centerFrequencyParameter, address):
			f.centerFrequency.Store(float64(value))
		case sameAddress(f.bandwidthParameter, address):
			f.bandwidth.Store(float64(value))
		case sameAddress(f.gainParameter, address):
			f.gain.Store(float64(value))
		}
	})
	if !queued {
		f.logger.WithFields(logrus.Fields{
			"address": address,
			"value":   value,
		}).Debug("main queue stopped, automation dropped")
	}
}

func sameAddress(p *audiounit.Parameter, address audiounit.ParameterAddress) bool {
	return p != nil && p.Address() == address
}

// CenterFrequency returns the cached center frequency in Hz.
func (f *Filter) CenterFrequency() float64 { return f.centerFrequency.Load() }

// SetCenterFrequency changes the center frequency in Hz.
func (f *Filter) SetCenterFrequency(hz float64) {
	f.set(&f.centerFrequency, f.centerFrequencyParameter, eqfilter.CenterFrequencyAddress, hz)
}

// Bandwidth returns the cached bandwidth in Hz.
func (f *Filter) Bandwidth() float64 { return f.bandwidth.Load() }

// SetBandwidth changes the bandwidth in Hz.
func (f *Filter) SetBandwidth(hz float64) {
	f.set(&f.bandwidth, f.bandwidthParameter, eqfilter.BandwidthAddress, hz)
}

// Gain returns the cached linear gain.
func (f *Filter) Gain() float64 { return f.gain.Load() }

// SetGain changes the linear gain. Values above 1 boost, values below 1
// cut.
func (f *Filter) SetGain(gain float64) {
	f.set(&f.gain, f.gainParameter, eqfilter.GainAddress, gain)
}

// RampDuration returns the automation ramp duration in seconds.
func (f *Filter) RampDuration() float64 { return f.rampDuration.Load() }

// SetRampDuration changes how long later parameter changes take to settle.
// Negative and non-finite durations are ignored.
func (f *Filter) SetRampDuration(seconds float64) {
	if !core.IsFinite(seconds) || seconds < 0 {
		return
	}
	f.rampDuration.Store(seconds)
	if f.unit != nil {
		f.unit.SetRampDuration(seconds)
	}
}

func (f *Filter) set(cache *atomic.Float64, p *audiounit.Parameter, address audiounit.ParameterAddress, v float64) {
	if math.IsNaN(v) || cache.Load() == v {
		return
	}
	cache.Store(v)
	f.write(p, address, v)
}

// write pushes v to the component: ramped through the tree once render
// resources exist, directly otherwise.
func (f *Filter) write(p *audiounit.Parameter, address audiounit.ParameterAddress, v float64) {
	if f.unit == nil {
		return
	}
	if f.unit.RenderResourcesAllocated() {
		if f.token != 0 && p != nil {
			p.SetValueOriginator(core.ToFloat32(v), f.token)
		}
		return
	}
	f.unit.SetParameterImmediate(address, core.ToFloat32(v))
}

// Configured reports whether a component backs the filter.
func (f *Filter) Configured() bool { return f.unit != nil }

// Unit returns the backing component, or nil when unconfigured.
func (f *Filter) Unit() audiounit.Unit { return f.unit }

// Token returns the filter's observer token, or zero without a tree.
func (f *Filter) Token() ObserverToken { return f.token }

// Start lets the component process audio.
func (f *Filter) Start() {
	if f.unit != nil {
		f.unit.Start()
	}
}

// Stop bypasses the component.
func (f *Filter) Stop() {
	if f.unit != nil {
		f.unit.Stop()
	}
}

// IsStarted reports whether the component is processing.
func (f *Filter) IsStarted() bool {
	return f.unit != nil && f.unit.IsStarted()
}

// Close detaches the filter's observer from the parameter tree. Pending
// queued updates still run.
func (f *Filter) Close() error {
	if f.tree != nil && f.token != 0 {
		f.tree.RemoveParameterObserver(f.token)
		f.token = 0
	}
	return nil
}

// SetInput implements engine.InputSetter.
func (f *Filter) SetInput(input engine.Node) { f.input = input }

// Inputs implements engine.Node.
func (f *Filter) Inputs() []engine.Node {
	if f.input == nil {
		return nil
	}
	return []engine.Node{f.input}
}

// Prepare implements engine.Node by allocating render resources.
func (f *Filter) Prepare(format audiounit.Format) error {
	if f.unit == nil {
		return nil
	}
	return f.unit.AllocateRenderResources(format)
}

// Release implements engine.Releaser.
func (f *Filter) Release() {
	if f.unit != nil {
		f.unit.DeallocateRenderResources()
	}
}

// Render implements engine.Node: it pulls the input, then filters in place.
func (f *Filter) Render(buffers [][]float32, frames int) error {
	if f.input != nil {
		if err := f.input.Render(buffers, frames); err != nil {
			return err
		}
	}
	return f.Process(buffers, frames)
}

// Process filters buffers in place without pulling the input. An
// unconfigured filter leaves them untouched.
func (f *Filter) Process(buffers [][]float32, frames int) error {
	if f.unit == nil {
		return nil
	}
	return f.unit.Process(buffers, frames)
}
