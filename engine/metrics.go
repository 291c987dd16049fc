package engine

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	frames   prometheus.Counter
	cycles   prometheus.Counter
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eqfilter",
			Subsystem: "engine",
			Name:      "rendered_frames_total",
			Help:      "Frames rendered by the audio engine.",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eqfilter",
			Subsystem: "engine",
			Name:      "render_cycles_total",
			Help:      "Render cycles completed by the audio engine.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eqfilter",
			Subsystem: "engine",
			Name:      "render_duration_seconds",
			Help:      "Wall time spent per render cycle.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.frames, err = register(reg, m.frames); err != nil {
		return nil, err
	}
	if m.cycles, err = register(reg, m.cycles); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}

	return m, nil
}

// register adds c to reg, returning the already registered collector when an
// engine with the same metrics exists on reg.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}

	return c, err
}
