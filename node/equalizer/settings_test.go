package equalizer

import (
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-eqfilter/audiounit/eqfilter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetYAML = `
presence:
  center_frequency: 3000
  bandwidth: 1500
  gain: 2
hum:
  center_frequency: 60
  gain: 0
  ramp_duration: 0.01
`

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets(strings.NewReader(presetYAML))
	require.NoError(t, err)
	require.Len(t, presets, 2)

	assert.Equal(t, Settings{
		CenterFrequency: 3000,
		Bandwidth:       1500,
		Gain:            2,
		RampDuration:    eqfilter.DefaultRampDuration,
	}, presets["presence"])
	assert.Equal(t, Settings{
		CenterFrequency: 60,
		Bandwidth:       eqfilter.DefaultBandwidth,
		Gain:            0,
		RampDuration:    0.01,
	}, presets["hum"])
}

func TestLoadPresetsEmpty(t *testing.T) {
	presets, err := LoadPresets(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, presets)
}

func TestLoadPresetsRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"unknown field": "a:\n  q: 3\n",
		"not a mapping": "a: 5\n",
		"nan gain":      "a:\n  gain: .nan\n",
		"negative ramp": "a:\n  ramp_duration: -1\n",
		"bad type":      "a:\n  gain: loud\n",
		"bad document":  "[1, 2",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPresets(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyAndSettings(t *testing.T) {
	f, u, _ := newRecordingFilter(t)
	u.immediate = nil
	u.ramps = nil

	want := Settings{CenterFrequency: 60, Bandwidth: 10, Gain: 0, RampDuration: 0.5}
	require.NoError(t, f.Apply(want))

	assert.Equal(t, want, f.Settings())
	assert.Equal(t, []float64{0.5}, u.ramps)
	assert.Len(t, u.immediate, 3)

	assert.Error(t, f.Apply(Settings{CenterFrequency: math.Inf(1)}))
	assert.Equal(t, want, f.Settings(), "invalid settings leave the filter untouched")
}

func TestOptionsIgnoreNonFiniteValues(t *testing.T) {
	f, _, _ := newRecordingFilter(t,
		WithCenterFrequency(math.NaN()),
		WithGain(math.Inf(-1)),
		WithBandwidth(math.NaN()),
		WithRampDuration(-1),
		WithSettings(Settings{Gain: math.NaN()}),
	)
	assert.Equal(t, DefaultSettings(), f.Settings())
}
