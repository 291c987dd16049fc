package audiounit

import "fmt"

// Component type and manufacturer codes used by the bundled components.
var (
	TypeEffect           = MustCode("aufx")
	ManufacturerAudioKit = MustCode("AuKt")
)

// ComponentDescription identifies a component implementation.
type ComponentDescription struct {
	Type         Code
	SubType      Code
	Manufacturer Code
}

// IsZero reports whether no field of d is set.
func (d ComponentDescription) IsZero() bool {
	return d == ComponentDescription{}
}

func (d ComponentDescription) String() string {
	return fmt.Sprintf("%s/%s/%s", d.Type, d.SubType, d.Manufacturer)
}

// Format describes the stream a unit renders.
type Format struct {
	SampleRate float64
	Channels   int
}

// Validate checks that the format can be rendered.
func (f Format) Validate() error {
	if !(f.SampleRate > 0) || f.SampleRate > 1e7 {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidFormat, f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, f.Channels)
	}
	return nil
}
