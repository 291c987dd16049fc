// Package equalizer wraps the eqfl peak/notch component as an engine node.
//
// A Filter keeps float64 copies of the component's center frequency,
// bandwidth and gain, plus the ramp duration used when those change. Writes
// made before the component is set up (render resources allocated) land on
// the component directly; later writes go through the parameter tree tagged
// with the filter's observer token so the component ramps to them.
//
// Automation that changes a parameter from elsewhere reaches the filter
// through a tree observer. The observer hands the new value to the main
// dispatch queue, and only code running there updates the cached fields.
//
// If the component cannot be instantiated the filter stays usable: every
// write and lifecycle call becomes a no-op and Render passes audio through.
package equalizer
