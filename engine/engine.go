package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-eqfilter/audiounit"
	"github.com/cwbudde/algo-eqfilter/dsp/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotRunning is returned by Render on a stopped engine.
	ErrNotRunning = errors.New("engine: not running")
	// ErrRunning is returned when the graph is edited while running.
	ErrRunning = errors.New("engine: graph is running")
	// ErrNoOutput is returned by Start when no output node is set.
	ErrNoOutput = errors.New("engine: no output node")
	// ErrCycle is returned by Start when the graph contains a cycle.
	ErrCycle = errors.New("engine: graph contains cycle")
	// ErrNotConnectable is returned by Connect when dst takes no inputs.
	ErrNotConnectable = errors.New("engine: destination does not accept inputs")
	// ErrInvalidFrames is returned by Render for a non-positive frame count.
	ErrInvalidFrames = errors.New("engine: frame count must be > 0")
	// ErrNotPrepared is returned by nodes rendered before Prepare.
	ErrNotPrepared = errors.New("engine: node not prepared")
)

// Node is a vertex of the audio graph.
type Node interface {
	// Prepare is called once per Start, upstream nodes first.
	Prepare(format audiounit.Format) error
	// Render fills buffers[ch][:frames], pulling inputs as needed.
	Render(buffers [][]float32, frames int) error
	// Inputs returns the upstream nodes.
	Inputs() []Node
}

// InputSetter is implemented by nodes with exactly one upstream node.
type InputSetter interface {
	SetInput(input Node)
}

// Releaser is implemented by nodes holding render resources that should be
// freed when the engine stops.
type Releaser interface {
	Release()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRegisterer registers the engine metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.registerer = reg }
}

// Engine owns a graph of nodes and renders it in fixed-format cycles.
type Engine struct {
	format     audiounit.Format
	logger     logrus.FieldLogger
	registerer prometheus.Registerer
	metrics    *metrics

	mu       sync.Mutex
	attached []Node
	output   Node
	order    []Node
	running  bool
	buffers  [][]float32
}

// New creates a stopped engine rendering in format.
func New(format audiounit.Format, opts ...Option) (*Engine, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		format: format,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	m, err := newMetrics(e.registerer)
	if err != nil {
		return nil, fmt.Errorf("engine: register metrics: %w", err)
	}
	e.metrics = m

	return e, nil
}

// Format returns the render format.
func (e *Engine) Format() audiounit.Format { return e.format }

// Attach adds n to the graph. Attaching a node twice is a no-op.
func (e *Engine) Attach(n Node) error {
	if n == nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrRunning
	}
	e.attachLocked(n)

	return nil
}

// Connect routes src into dst. dst must be a Mixer or an InputSetter.
func (e *Engine) Connect(src, dst Node) error {
	if src == nil || dst == nil {
		return ErrNotConnectable
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrRunning
	}

	switch d := dst.(type) {
	case *Mixer:
		d.AddInput(src)
	case InputSetter:
		d.SetInput(src)
	default:
		return fmt.Errorf("%w: %T", ErrNotConnectable, dst)
	}

	e.attachLocked(src)
	e.attachLocked(dst)

	return nil
}

// SetOutput selects the node pulled by Render.
func (e *Engine) SetOutput(n Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrRunning
	}
	e.output = n
	if n != nil {
		e.attachLocked(n)
	}

	return nil
}

// Start prepares every node, upstream first. Starting a running engine is a
// no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}
	if e.output == nil {
		return ErrNoOutput
	}

	order, err := sortNodes(e.attached, e.output)
	if err != nil {
		return err
	}

	for i, n := range order {
		if err := n.Prepare(e.format); err != nil {
			release(order[:i])
			return fmt.Errorf("engine: prepare %T: %w", n, err)
		}
	}

	e.order = order
	e.running = true

	e.logger.WithFields(logrus.Fields{
		"nodes":       len(order),
		"sample_rate": e.format.SampleRate,
		"channels":    e.format.Channels,
	}).Debug("engine started")

	return nil
}

// Stop halts rendering and releases node resources, downstream first.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false

	release(e.order)
	e.order = nil

	e.logger.Debug("engine stopped")
}

// release frees nodes in reverse order.
func release(nodes []Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if r, ok := nodes[i].(Releaser); ok {
			r.Release()
		}
	}
}

// IsRunning reports whether the engine has been started.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Render pulls frames samples per channel from the output node. The returned
// buffers are reused by the next call.
func (e *Engine) Render(frames int) ([][]float32, error) {
	if frames <= 0 {
		return nil, ErrInvalidFrames
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil, ErrNotRunning
	}

	begin := time.Now()

	e.buffers = core.EnsureChannels(e.buffers, e.format.Channels, frames)
	core.ZeroChannels(e.buffers, frames)

	if err := e.output.Render(e.buffers, frames); err != nil {
		return nil, err
	}

	e.metrics.frames.Add(float64(frames))
	e.metrics.cycles.Inc()
	e.metrics.duration.Observe(time.Since(begin).Seconds())

	return e.buffers, nil
}

func (e *Engine) attachLocked(n Node) {
	for _, existing := range e.attached {
		if existing == n {
			return
		}
	}
	e.attached = append(e.attached, n)
}

// sortNodes returns every node reachable from roots in dependency order
// (Kahn's algorithm). Ties keep discovery order.
func sortNodes(attached []Node, output Node) ([]Node, error) {
	index := make(map[Node]int)
	var nodes []Node

	var visit func(n Node)
	visit = func(n Node) {
		if n == nil {
			return
		}
		if _, ok := index[n]; ok {
			return
		}
		index[n] = len(nodes)
		nodes = append(nodes, n)
		for _, in := range n.Inputs() {
			visit(in)
		}
	}
	for _, n := range attached {
		visit(n)
	}
	visit(output)

	indegree := make([]int, len(nodes))
	outgoing := make([][]int, len(nodes))
	for i, n := range nodes {
		for _, in := range n.Inputs() {
			if in == nil {
				continue
			}
			j := index[in]
			outgoing[j] = append(outgoing[j], i)
			indegree[i]++
		}
	}

	queue := make([]int, 0, len(nodes))
	for i, d := range indegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]Node, 0, len(nodes))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		order = append(order, nodes[i])
		for _, k := range outgoing[i] {
			indegree[k]--
			if indegree[k] == 0 {
				queue = append(queue, k)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, ErrCycle
	}

	return order, nil
}
