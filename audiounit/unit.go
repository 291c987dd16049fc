package audiounit

// Unit is a hosted processing component.
//
// Lifecycle and parameter methods may be called from any goroutine.
// Process is called from the render goroutine only.
type Unit interface {
	Description() ComponentDescription
	// ParameterTree returns the unit's automatable parameters, or nil if it
	// has none.
	ParameterTree() *ParameterTree

	AllocateRenderResources(format Format) error
	DeallocateRenderResources()
	// RenderResourcesAllocated reports whether the unit is set up to render.
	RenderResourcesAllocated() bool

	// SetParameterImmediate writes a parameter directly, without a ramp and
	// without notifying observers.
	SetParameterImmediate(address ParameterAddress, value float32)
	// SetRampDuration sets how long automation writes take to reach their
	// target, in seconds.
	SetRampDuration(seconds float64)

	Start()
	Stop()
	IsStarted() bool
	// Reset clears processing state such as filter memories.
	Reset()

	// Process renders frames samples per channel in place.
	Process(buffers [][]float32, frames int) error
}

// Factory creates a new Unit instance.
type Factory func() (Unit, error)
