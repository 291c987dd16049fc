// Package biquad provides the second-order IIR runtime used by the
// equalizer kernel.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Blocks may be processed in
// double or single precision; the delay line is always double precision.
//
// Coefficient design lives in dsp/filter/design.
package biquad
