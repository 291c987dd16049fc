package equalizer

import (
	"github.com/cwbudde/algo-eqfilter/audiounit"
	"github.com/cwbudde/algo-eqfilter/audiounit/eqfilter"
	"github.com/cwbudde/algo-eqfilter/dispatch"
	"github.com/cwbudde/algo-eqfilter/dsp/core"
	"github.com/sirupsen/logrus"
)

type config struct {
	settings    Settings
	registry    *audiounit.Registry
	description audiounit.ComponentDescription
	queue       *dispatch.Queue
	logger      logrus.FieldLogger
}

func defaultConfig() config {
	return config{
		settings:    DefaultSettings(),
		registry:    audiounit.Default,
		description: eqfilter.Description,
		logger:      logrus.StandardLogger(),
	}
}

// Option configures a Filter at construction time.
type Option func(*config)

// WithCenterFrequency sets the initial center frequency in Hz.
func WithCenterFrequency(hz float64) Option {
	return func(c *config) {
		if core.IsFinite(hz) {
			c.settings.CenterFrequency = hz
		}
	}
}

// WithBandwidth sets the initial bandwidth in Hz.
func WithBandwidth(hz float64) Option {
	return func(c *config) {
		if core.IsFinite(hz) {
			c.settings.Bandwidth = hz
		}
	}
}

// WithGain sets the initial linear gain.
func WithGain(gain float64) Option {
	return func(c *config) {
		if core.IsFinite(gain) {
			c.settings.Gain = gain
		}
	}
}

// WithRampDuration sets the initial ramp duration in seconds.
func WithRampDuration(seconds float64) Option {
	return func(c *config) {
		if core.IsFinite(seconds) && seconds >= 0 {
			c.settings.RampDuration = seconds
		}
	}
}

// WithSettings sets all four initial values at once.
func WithSettings(s Settings) Option {
	return func(c *config) {
		if s.Validate() == nil {
			c.settings = s
		}
	}
}

// WithRegistry instantiates the component from reg instead of
// audiounit.Default.
func WithRegistry(reg *audiounit.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithDescription overrides the component to instantiate.
func WithDescription(desc audiounit.ComponentDescription) Option {
	return func(c *config) { c.description = desc }
}

// WithQueue sets the queue that applies automation changes. The default is
// dispatch.Main().
func WithQueue(q *dispatch.Queue) Option {
	return func(c *config) { c.queue = q }
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
