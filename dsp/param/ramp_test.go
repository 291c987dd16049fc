package param

import (
	"math"
	"testing"
)

func TestRampLinearProgress(t *testing.T) {
	r := NewRamp(0)
	r.StartRamp(1, 4)

	want := []float64{0.25, 0.5, 0.75, 1, 1}
	for i, w := range want {
		if got := r.Next(); math.Abs(got-w) > 1e-12 {
			t.Fatalf("step %d: got %v, want %v", i, got, w)
		}
	}
	if r.IsRamping() {
		t.Fatal("ramp should be finished")
	}
}

func TestRampLandsExactlyOnGoal(t *testing.T) {
	r := NewRamp(12)
	r.StartRamp(20000, 7)
	for range 7 {
		r.Next()
	}
	if r.Value() != 20000 {
		t.Fatalf("value = %v, want exactly 20000", r.Value())
	}
}

func TestRampZeroLengthJumps(t *testing.T) {
	r := NewRamp(1)
	r.StartRamp(5, 0)
	if r.Value() != 5 || r.IsRamping() {
		t.Fatalf("value=%v ramping=%v, want 5/false", r.Value(), r.IsRamping())
	}
}

func TestRampRetargetMidway(t *testing.T) {
	r := NewRamp(0)
	r.StartRamp(10, 10)
	r.Next()
	r.Next()

	r.StartRamp(0, 2)
	if got := r.Next(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("got %v, want 1", got)
	}
	if got := r.Next(); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestRampSkip(t *testing.T) {
	r := NewRamp(0)
	r.StartRamp(8, 8)

	r.Skip(3)
	if math.Abs(r.Value()-3) > 1e-12 || r.Remaining() != 5 {
		t.Fatalf("value=%v remaining=%d, want 3/5", r.Value(), r.Remaining())
	}

	r.Skip(100)
	if r.Value() != 8 || r.IsRamping() {
		t.Fatalf("value=%v ramping=%v, want 8/false", r.Value(), r.IsRamping())
	}
}

func TestSetImmediateCancelsRamp(t *testing.T) {
	r := NewRamp(0)
	r.StartRamp(1, 100)
	r.SetImmediate(-3)
	if r.IsRamping() || r.Value() != -3 || r.Goal() != -3 {
		t.Fatalf("unexpected state: value=%v goal=%v ramping=%v", r.Value(), r.Goal(), r.IsRamping())
	}
}

func TestDurationToSamples(t *testing.T) {
	tests := []struct {
		seconds float64
		rate    float64
		want    int
	}{
		{0.0002, 44100, 9},
		{0.01, 48000, 480},
		{0, 48000, 0},
		{-1, 48000, 0},
		{1, 0, 0},
		{math.NaN(), 48000, 0},
	}

	for _, tt := range tests {
		if got := DurationToSamples(tt.seconds, tt.rate); got != tt.want {
			t.Fatalf("DurationToSamples(%v, %v) = %d, want %d", tt.seconds, tt.rate, got, tt.want)
		}
	}
}
