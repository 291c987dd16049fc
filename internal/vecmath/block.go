// Package vecmath provides float32 block kernels for audio buffers.
//
// Slices passed to the same call must have equal length; the functions panic
// otherwise.
package vecmath

import "math"

// AddBlockInPlace performs in-place element-wise addition: dst[i] += src[i].
func AddBlockInPlace(dst, src []float32) {
	if len(dst) != len(src) {
		panic("vecmath: slice length mismatch")
	}
	for i := range dst {
		dst[i] += src[i]
	}
}

// AddScaledBlockInPlace accumulates a scaled block: dst[i] += src[i] * scale.
func AddScaledBlockInPlace(dst, src []float32, scale float32) {
	if len(dst) != len(src) {
		panic("vecmath: slice length mismatch")
	}
	for i := range dst {
		dst[i] += src[i] * scale
	}
}

// ScaleBlockInPlace multiplies each element by a scalar in-place: dst[i] *= scale.
func ScaleBlockInPlace(dst []float32, scale float32) {
	if scale == 1 {
		return
	}
	for i := range dst {
		dst[i] *= scale
	}
}

// MaxAbs returns the maximum absolute value in x.
// Returns 0 for an empty slice.
func MaxAbs(x []float32) float32 {
	var peak float64
	for _, v := range x {
		a := math.Abs(float64(v))
		if a > peak {
			peak = a
		}
	}
	return float32(peak)
}
