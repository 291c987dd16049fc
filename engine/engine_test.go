package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-eqfilter/audiounit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stereo = audiounit.Format{SampleRate: 48000, Channels: 2}

// passNode forwards its single input and records how it was prepared.
type passNode struct {
	input    Node
	prepared []audiounit.Format
	released int
	gain     float32
	failWith error
	order    *[]string
	name     string
}

func (p *passNode) SetInput(n Node) { p.input = n }

func (p *passNode) Prepare(format audiounit.Format) error {
	if p.order != nil {
		*p.order = append(*p.order, p.name)
	}
	p.prepared = append(p.prepared, format)
	return p.failWith
}

func (p *passNode) Release() { p.released++ }

func (p *passNode) Inputs() []Node {
	if p.input == nil {
		return nil
	}
	return []Node{p.input}
}

func (p *passNode) Render(buffers [][]float32, frames int) error {
	if p.input != nil {
		if err := p.input.Render(buffers, frames); err != nil {
			return err
		}
	}
	for _, buf := range buffers {
		for i := range buf[:frames] {
			buf[i] *= p.gain
		}
	}
	return nil
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	eng, err := New(stereo, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return eng
}

func TestNewRejectsInvalidFormat(t *testing.T) {
	_, err := New(audiounit.Format{SampleRate: 0, Channels: 2})
	assert.ErrorIs(t, err, audiounit.ErrInvalidFormat)
}

func TestRenderRequiresStart(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.SetOutput(NewMixer()))

	_, err := eng.Render(64)
	assert.ErrorIs(t, err, ErrNotRunning)

	require.NoError(t, eng.Start())
	assert.True(t, eng.IsRunning())

	_, err = eng.Render(0)
	assert.ErrorIs(t, err, ErrInvalidFrames)
}

func TestStartRequiresOutput(t *testing.T) {
	eng := newEngine(t)
	assert.ErrorIs(t, eng.Start(), ErrNoOutput)
	assert.False(t, eng.IsRunning())
}

func TestStartPreparesUpstreamFirst(t *testing.T) {
	var order []string
	src := NewToneSource(1000, 1)
	a := &passNode{name: "a", gain: 1, order: &order}
	b := &passNode{name: "b", gain: 1, order: &order}

	eng := newEngine(t)
	require.NoError(t, eng.Attach(b))
	require.NoError(t, eng.Connect(a, b))
	require.NoError(t, eng.Connect(src, a))
	require.NoError(t, eng.SetOutput(b))
	require.NoError(t, eng.Start())

	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, []audiounit.Format{stereo}, a.prepared)

	require.NoError(t, eng.Start())
	assert.Len(t, a.prepared, 1, "second Start must not prepare again")
}

func TestStartDetectsCycle(t *testing.T) {
	a := &passNode{gain: 1}
	b := &passNode{gain: 1}

	eng := newEngine(t)
	require.NoError(t, eng.Connect(a, b))
	require.NoError(t, eng.Connect(b, a))
	require.NoError(t, eng.SetOutput(b))

	assert.ErrorIs(t, eng.Start(), ErrCycle)
	assert.Empty(t, a.prepared)
}

func TestStartWrapsPrepareError(t *testing.T) {
	boom := errors.New("boom")
	n := &passNode{gain: 1, failWith: boom}

	eng := newEngine(t)
	require.NoError(t, eng.SetOutput(n))

	err := eng.Start()
	assert.ErrorIs(t, err, boom)
	assert.False(t, eng.IsRunning())
}

func TestFailedStartReleasesPreparedNodes(t *testing.T) {
	src := &passNode{gain: 1}
	mid := &passNode{gain: 1}
	sink := &passNode{gain: 1, failWith: errors.New("boom")}

	eng := newEngine(t)
	require.NoError(t, eng.Connect(src, mid))
	require.NoError(t, eng.Connect(mid, sink))
	require.NoError(t, eng.SetOutput(sink))

	require.Error(t, eng.Start())
	assert.Equal(t, 1, src.released)
	assert.Equal(t, 1, mid.released)
	assert.Zero(t, sink.released)

	eng.Stop()
	assert.Equal(t, 1, src.released)
}

func TestConnectRejectsSourceDestination(t *testing.T) {
	eng := newEngine(t)
	err := eng.Connect(NewMixer(), NewToneSource(1, 1))
	assert.ErrorIs(t, err, ErrNotConnectable)
}

func TestGraphIsFrozenWhileRunning(t *testing.T) {
	mix := NewMixer()
	eng := newEngine(t)
	require.NoError(t, eng.SetOutput(mix))
	require.NoError(t, eng.Start())

	assert.ErrorIs(t, eng.Connect(NewToneSource(1, 1), mix), ErrRunning)
	assert.ErrorIs(t, eng.Attach(NewMixer()), ErrRunning)
	assert.ErrorIs(t, eng.SetOutput(nil), ErrRunning)
}

func TestStopReleasesNodes(t *testing.T) {
	n := &passNode{gain: 1}
	eng := newEngine(t)
	require.NoError(t, eng.SetOutput(n))
	require.NoError(t, eng.Start())

	eng.Stop()
	eng.Stop()

	assert.False(t, eng.IsRunning())
	assert.Equal(t, 1, n.released)
}

func TestRenderPullsThroughChain(t *testing.T) {
	src := NewBufferSource([][]float32{{1, 2, 3, 4}})
	half := &passNode{gain: 0.5}

	eng := newEngine(t)
	require.NoError(t, eng.Connect(src, half))
	require.NoError(t, eng.SetOutput(half))
	require.NoError(t, eng.Start())

	out, err := eng.Render(6)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []float32{0.5, 1, 1.5, 2, 0, 0}, out[0])
	assert.Equal(t, out[0], out[1], "mono source is repeated on every channel")
}

func TestMetricsAreRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	eng := newEngine(t, WithRegisterer(reg))
	require.NoError(t, eng.SetOutput(NewMixer()))
	require.NoError(t, eng.Start())

	for range 3 {
		_, err := eng.Render(128)
		require.NoError(t, err)
	}

	assert.Equal(t, 384.0, testutil.ToFloat64(eng.metrics.frames))
	assert.Equal(t, 3.0, testutil.ToFloat64(eng.metrics.cycles))
	assert.Equal(t, 1, testutil.CollectAndCount(eng.metrics.duration))

	// A second engine on the same registry shares the collectors.
	other := newEngine(t, WithRegisterer(reg))
	assert.Same(t, eng.metrics.frames, other.metrics.frames)
}

func TestStartLogsAtDebug(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	eng, err := New(stereo, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, eng.SetOutput(NewMixer()))
	require.NoError(t, eng.Start())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "engine started", hook.LastEntry().Message)
	assert.Equal(t, 1, hook.LastEntry().Data["nodes"])
}

func TestToneSourceRequiresPrepare(t *testing.T) {
	tone := NewToneSource(440, 1)
	err := tone.Render([][]float32{make([]float32, 4)}, 4)
	assert.ErrorIs(t, err, ErrNotPrepared)
}

func TestToneSourceIsContinuousAcrossCycles(t *testing.T) {
	tone := NewToneSource(1000, 0.5)
	require.NoError(t, tone.Prepare(stereo))

	buf := [][]float32{make([]float32, 100), make([]float32, 100)}
	require.NoError(t, tone.Render(buf, 100))
	require.NoError(t, tone.Render(buf, 100))

	// Sample 100 of a 1 kHz tone at 48 kHz.
	want := 0.5 * math.Sin(2*math.Pi*1000*100/48000)
	assert.InDelta(t, want, buf[0][0], 1e-5)
	assert.Equal(t, buf[0], buf[1])
}
