package eqfilter

import "github.com/cwbudde/algo-eqfilter/audiounit"

// Parameter addresses.
const (
	CenterFrequencyAddress audiounit.ParameterAddress = iota
	BandwidthAddress
	GainAddress
)

// Parameter identifiers as published in the parameter tree.
const (
	CenterFrequencyIdentifier = "centerFrequency"
	BandwidthIdentifier       = "bandwidth"
	GainIdentifier            = "gain"
)

// Parameter ranges and defaults.
const (
	MinCenterFrequency     = 12.0
	MaxCenterFrequency     = 20000.0
	DefaultCenterFrequency = 1000.0

	MinBandwidth     = 0.0
	MaxBandwidth     = 20000.0
	DefaultBandwidth = 100.0

	MinGain     = -100.0
	MaxGain     = 100.0
	DefaultGain = 10.0

	// DefaultRampDuration is the automation ramp length in seconds.
	DefaultRampDuration = 0.0002
)

// Description locates the component in a registry.
var Description = audiounit.ComponentDescription{
	Type:         audiounit.TypeEffect,
	SubType:      audiounit.MustCode("eqfl"),
	Manufacturer: audiounit.ManufacturerAudioKit,
}

func newParameterTree() (*audiounit.ParameterTree, error) {
	return audiounit.NewParameterTree(
		audiounit.MustParameter(audiounit.ParameterSpec{
			Identifier: CenterFrequencyIdentifier,
			Name:       "Center Frequency",
			Address:    CenterFrequencyAddress,
			Min:        MinCenterFrequency,
			Max:        MaxCenterFrequency,
			Default:    DefaultCenterFrequency,
			Unit:       "Hz",
		}),
		audiounit.MustParameter(audiounit.ParameterSpec{
			Identifier: BandwidthIdentifier,
			Name:       "Bandwidth",
			Address:    BandwidthAddress,
			Min:        MinBandwidth,
			Max:        MaxBandwidth,
			Default:    DefaultBandwidth,
			Unit:       "Hz",
		}),
		audiounit.MustParameter(audiounit.ParameterSpec{
			Identifier: GainIdentifier,
			Name:       "Gain",
			Address:    GainAddress,
			Min:        MinGain,
			Max:        MaxGain,
			Default:    DefaultGain,
		}),
	)
}
