package equalizer

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-eqfilter/audiounit/eqfilter"
	"github.com/cwbudde/algo-eqfilter/dsp/core"
	"gopkg.in/yaml.v3"
)

// Settings is a snapshot of a filter's public values.
type Settings struct {
	CenterFrequency float64 `yaml:"center_frequency"`
	Bandwidth       float64 `yaml:"bandwidth"`
	Gain            float64 `yaml:"gain"`
	RampDuration    float64 `yaml:"ramp_duration"`
}

// DefaultSettings returns the component defaults.
func DefaultSettings() Settings {
	return Settings{
		CenterFrequency: eqfilter.DefaultCenterFrequency,
		Bandwidth:       eqfilter.DefaultBandwidth,
		Gain:            eqfilter.DefaultGain,
		RampDuration:    eqfilter.DefaultRampDuration,
	}
}

// Validate rejects non-finite values and negative ramp durations. Range
// limits are enforced by the component.
func (s Settings) Validate() error {
	switch {
	case !core.IsFinite(s.CenterFrequency):
		return fmt.Errorf("equalizer: center frequency %v is not finite", s.CenterFrequency)
	case !core.IsFinite(s.Bandwidth):
		return fmt.Errorf("equalizer: bandwidth %v is not finite", s.Bandwidth)
	case !core.IsFinite(s.Gain):
		return fmt.Errorf("equalizer: gain %v is not finite", s.Gain)
	case !core.IsFinite(s.RampDuration) || s.RampDuration < 0:
		return fmt.Errorf("equalizer: ramp duration %v must be finite and >= 0", s.RampDuration)
	}
	return nil
}

// Settings returns the cached values.
func (f *Filter) Settings() Settings {
	return Settings{
		CenterFrequency: f.CenterFrequency(),
		Bandwidth:       f.Bandwidth(),
		Gain:            f.Gain(),
		RampDuration:    f.RampDuration(),
	}
}

// Apply sets every value in s. The ramp duration is applied first so the
// other changes use it.
func (f *Filter) Apply(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	f.SetRampDuration(s.RampDuration)
	f.SetCenterFrequency(s.CenterFrequency)
	f.SetBandwidth(s.Bandwidth)
	f.SetGain(s.Gain)
	return nil
}

// LoadPresets decodes a YAML mapping of preset name to settings. Omitted
// fields take the component defaults.
//
//	presence:
//	  center_frequency: 3000
//	  bandwidth: 1500
//	  gain: 2
func LoadPresets(r io.Reader) (map[string]Settings, error) {
	var raw map[string]yaml.Node

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return map[string]Settings{}, nil
		}
		return nil, fmt.Errorf("equalizer: decode presets: %w", err)
	}

	presets := make(map[string]Settings, len(raw))
	for name, node := range raw {
		s := DefaultSettings()
		if err := decodeStrict(&node, &s); err != nil {
			return nil, fmt.Errorf("equalizer: preset %q: %w", name, err)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		presets[name] = s
	}

	return presets, nil
}

// decodeStrict decodes node into out, rejecting unknown keys.
func decodeStrict(node *yaml.Node, out *Settings) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	known := map[string]bool{
		"center_frequency": true,
		"bandwidth":        true,
		"gain":             true,
		"ramp_duration":    true,
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !known[key.Value] {
			return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
	}
	return node.Decode(out)
}
