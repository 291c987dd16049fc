// Package design provides coefficient designers for band equalizer
// sections.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad. [EqualizerBand] is the allpass-based (Regalia–Mitra)
// peak/notch section driven by a center frequency, an absolute bandwidth in
// Hz and a linear gain; [Peak] and [Notch] are the RBJ cookbook variants
// driven by a dB gain and a quality factor.
package design
