package audiounit

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-eqfilter/dsp/core"
	"go.uber.org/atomic"
)

// ParameterAddress identifies a parameter within its unit.
type ParameterAddress uint64

// ObserverToken identifies a registered parameter observer. The zero token
// means "no observer".
type ObserverToken uint64

// ParameterObserver is called after a parameter value changes. It runs on
// the goroutine that made the change and must not block.
type ParameterObserver func(address ParameterAddress, value float32)

// Parameter is one automatable value published by a unit. The current
// value is stored atomically so render and control goroutines may share it.
type Parameter struct {
	identifier string
	name       string
	address    ParameterAddress
	min        float32
	max        float32
	def        float32
	unit       string

	value atomic.Float32
	tree  *ParameterTree
}

// ParameterSpec declares a parameter for NewParameter.
type ParameterSpec struct {
	Identifier string
	Name       string
	Address    ParameterAddress
	Min        float32
	Max        float32
	Default    float32
	Unit       string
}

// NewParameter validates spec and returns a parameter holding its default.
func NewParameter(spec ParameterSpec) (*Parameter, error) {
	if spec.Identifier == "" {
		return nil, fmt.Errorf("audiounit: parameter at address %d has no identifier", spec.Address)
	}
	if isNaN32(spec.Min) || isNaN32(spec.Max) || spec.Min > spec.Max {
		return nil, fmt.Errorf("audiounit: parameter %q has invalid range [%v, %v]", spec.Identifier, spec.Min, spec.Max)
	}
	if isNaN32(spec.Default) || spec.Default < spec.Min || spec.Default > spec.Max {
		return nil, fmt.Errorf("audiounit: parameter %q default %v outside [%v, %v]",
			spec.Identifier, spec.Default, spec.Min, spec.Max)
	}

	name := spec.Name
	if name == "" {
		name = spec.Identifier
	}

	p := &Parameter{
		identifier: spec.Identifier,
		name:       name,
		address:    spec.Address,
		min:        spec.Min,
		max:        spec.Max,
		def:        spec.Default,
		unit:       spec.Unit,
	}
	p.value.Store(spec.Default)

	return p, nil
}

// MustParameter is like NewParameter but panics on error.
func MustParameter(spec ParameterSpec) *Parameter {
	p, err := NewParameter(spec)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Parameter) Identifier() string        { return p.identifier }
func (p *Parameter) Name() string              { return p.name }
func (p *Parameter) Address() ParameterAddress { return p.address }
func (p *Parameter) Min() float32              { return p.min }
func (p *Parameter) Max() float32              { return p.max }
func (p *Parameter) Default() float32          { return p.def }
func (p *Parameter) Unit() string              { return p.unit }

// Value returns the current value.
func (p *Parameter) Value() float32 {
	return p.value.Load()
}

// SetValue sets the value and notifies the implementor and every observer.
func (p *Parameter) SetValue(v float32) {
	p.SetValueOriginator(v, 0)
}

// SetValueOriginator sets the value on behalf of the observer identified by
// originator. The implementor and every other observer are notified; the
// originator is not. Values are clamped into the parameter range and NaN is
// ignored.
func (p *Parameter) SetValueOriginator(v float32, originator ObserverToken) {
	if isNaN32(v) {
		return
	}
	v = p.Clamp(v)
	p.value.Store(v)

	if p.tree != nil {
		p.tree.publish(p, v, originator)
	}
}

// Store records v as the current value without notifying anyone. Units use
// it to mirror direct property writes.
func (p *Parameter) Store(v float32) {
	if isNaN32(v) {
		return
	}
	p.value.Store(p.Clamp(v))
}

// Clamp limits v to the parameter range.
func (p *Parameter) Clamp(v float32) float32 {
	return core.Clamp32(v, p.min, p.max)
}

func (p *Parameter) String() string {
	return fmt.Sprintf("%s=%g%s [%g, %g]", p.identifier, p.Value(), p.unit, p.min, p.max)
}

func isNaN32(v float32) bool {
	return math.IsNaN(float64(v))
}
