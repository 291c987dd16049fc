package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-eqfilter/internal/codec"
)

func writeTone(t *testing.T, path string, hz float64) {
	t.Helper()
	const rate, frames = 48000, 48000
	ch := make([]float32, frames)
	for i := range ch {
		ch[i] = float32(0.05 * math.Sin(2*math.Pi*hz*float64(i)/rate))
	}
	require.NoError(t, codec.WriteWAVFile(path, &codec.Audio{SampleRate: rate, Channels: [][]float32{ch}}, 16))
}

func peak(x []float32) float64 {
	var p float64
	for _, v := range x {
		p = math.Max(p, math.Abs(float64(v)))
	}
	return p
}

func TestRenderBoostsBand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	writeTone(t, in, 1000)

	var stderr bytes.Buffer
	err := run([]string{"-in", in, "-out", out, "-gain", "4", "-block", "300", "-log-level", "warn"}, &bytes.Buffer{}, &stderr)
	require.NoError(t, err, stderr.String())

	a, err := codec.DecodeFile(out)
	require.NoError(t, err)
	require.Equal(t, 48000, a.Frames())
	assert.InDelta(t, 0.2, peak(a.Channels[0][24000:]), 0.005)
}

func TestPresetAndFlagOverride(t *testing.T) {
	dir := t.TempDir()
	presets := filepath.Join(dir, "eq.yaml")
	require.NoError(t, os.WriteFile(presets, []byte("cut:\n  center_frequency: 1000\n  bandwidth: 200\n  gain: 0.1\n"), 0o600))

	s, err := resolveSettings(mustParse(t, "-response", "-presets", presets, "-preset", "cut", "-bw", "50"))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, s.CenterFrequency)
	assert.Equal(t, 50.0, s.Bandwidth)
	assert.Equal(t, 0.1, s.Gain)

	_, err = resolveSettings(mustParse(t, "-response", "-presets", presets, "-preset", "boost"))
	assert.ErrorContains(t, err, "not found")
}

func TestResponseTable(t *testing.T) {
	var stdout bytes.Buffer
	err := run([]string{"-response", "-gain", "0.1", "-points", "4", "-log-level", "error"}, &stdout, &bytes.Buffer{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "gain (dB)")
	assert.Contains(t, lines[1], "20.0")
	assert.Contains(t, lines[1], "0.00")
}

func TestFlagErrors(t *testing.T) {
	cases := [][]string{
		{},
		{"-in", "a.wav"},
		{"-response", "-block", "0"},
		{"-response", "-preset", "x"},
		{"-response", "-log-level", "loud"},
		{"-response", "-ramp", "-1"},
	}
	for _, args := range cases {
		err := run(args, &bytes.Buffer{}, &bytes.Buffer{})
		assert.Error(t, err, "args %v", args)
	}
}

func mustParse(t *testing.T, args ...string) options {
	t.Helper()
	opts, err := parseFlags(args, &bytes.Buffer{})
	require.NoError(t, err)
	return opts
}
