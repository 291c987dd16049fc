package testutil

import (
	"math"
	"testing"
)

func TestSine32StartsAtZeroAndStaysInRange(t *testing.T) {
	s := Sine32(1000, 48000, 0.5, 96)
	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// Quarter period of 1 kHz at 48 kHz.
	if math.Abs(float64(s[12])-0.5) > 1e-7 {
		t.Fatalf("s[12] = %v, want 0.5", s[12])
	}
	if p := Peak32(s); p > 0.5+1e-7 {
		t.Fatalf("peak %v exceeds amplitude", p)
	}
}

func TestDeterministicNoiseIsSeeded(t *testing.T) {
	a := DeterministicNoise(42, 0.25, 256)
	b := DeterministicNoise(42, 0.25, 256)
	c := DeterministicNoise(43, 0.25, 256)

	if d, _ := MaxAbsDiff(a, b); d != 0 {
		t.Fatalf("same seed differs by %v", d)
	}
	if d, _ := MaxAbsDiff(a, c); d == 0 {
		t.Fatal("different seeds produced identical noise")
	}
	for i, v := range a {
		if v < -0.25 || v >= 0.25 {
			t.Fatalf("a[%d] = %v out of range", i, v)
		}
	}
}

func TestPeak32(t *testing.T) {
	if got := Peak32([]float32{0.1, -0.7, 0.3}); math.Abs(got-0.7) > 1e-7 {
		t.Fatalf("Peak32 = %v, want 0.7", got)
	}
	if got := Peak32(nil); got != 0 {
		t.Fatalf("Peak32(nil) = %v, want 0", got)
	}
}

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float32{1, 2, 3}, []float32{1, 2.5, 2})
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Fatalf("MaxAbsDiff = %v, want 1", d)
	}
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestAssertionsPass(t *testing.T) {
	RequireSliceNearlyEqual(t, []float32{1, 2}, []float32{1, 2.0000001}, 1e-6)
	RequireSliceNearlyEqual(t, []float64{0.5}, []float64{0.5}, 0)
	RequireFinite(t, []float64{0, -1, math.MaxFloat64})
	RequireFinite(t, []float32{1, 2})
}
