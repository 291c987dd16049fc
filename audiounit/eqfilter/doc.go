// Package eqfilter implements the "eqfl" equalizer component: one
// second-order peak/notch band per channel controlled by center frequency,
// bandwidth and linear gain.
//
// Importing the package registers the component in audiounit.Default.
package eqfilter
