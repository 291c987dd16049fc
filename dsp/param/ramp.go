// Package param provides per-sample parameter ramps for block processors.
package param

import "math"

// Ramp moves a value linearly toward a goal over a fixed number of samples.
// It is not safe for concurrent use; the render goroutine owns it.
type Ramp struct {
	value     float64
	goal      float64
	step      float64
	remaining int
}

// NewRamp returns a ramp resting at initial.
func NewRamp(initial float64) *Ramp {
	return &Ramp{value: initial, goal: initial}
}

// DurationToSamples converts a ramp duration in seconds to a sample count at
// sampleRate. Non-positive or non-finite inputs yield 0 (jump immediately).
func DurationToSamples(seconds, sampleRate float64) int {
	if seconds <= 0 || sampleRate <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return int(math.Round(seconds * sampleRate))
}

// SetImmediate jumps to v and cancels any ramp in progress.
func (r *Ramp) SetImmediate(v float64) {
	r.value = v
	r.goal = v
	r.step = 0
	r.remaining = 0
}

// StartRamp begins a linear ramp from the current value to goal lasting
// samples samples. A non-positive length jumps straight to goal.
func (r *Ramp) StartRamp(goal float64, samples int) {
	if samples <= 0 {
		r.SetImmediate(goal)
		return
	}
	r.goal = goal
	r.step = (goal - r.value) / float64(samples)
	r.remaining = samples
}

// Next advances the ramp by one sample and returns the new value.
func (r *Ramp) Next() float64 {
	if r.remaining == 0 {
		return r.value
	}
	r.remaining--
	if r.remaining == 0 {
		r.value = r.goal
		r.step = 0
	} else {
		r.value += r.step
	}
	return r.value
}

// Skip advances the ramp by n samples at once.
func (r *Ramp) Skip(n int) {
	if n <= 0 || r.remaining == 0 {
		return
	}
	if n >= r.remaining {
		r.SetImmediate(r.goal)
		return
	}
	r.remaining -= n
	r.value += r.step * float64(n)
}

// Value returns the current value without advancing.
func (r *Ramp) Value() float64 { return r.value }

// Goal returns the value the ramp is heading to.
func (r *Ramp) Goal() float64 { return r.goal }

// IsRamping reports whether samples remain before the goal is reached.
func (r *Ramp) IsRamping() bool { return r.remaining > 0 }

// Remaining returns the number of samples left in the current ramp.
func (r *Ramp) Remaining() int { return r.remaining }
