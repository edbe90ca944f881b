// Package profiler measures where frame time goes. Profiler is a hierarchical CPU scope
// timer; FrameStats tracks frame rate and memory once per second.
package profiler

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// nanosPerMs is the default calibration: ticks are nanoseconds.
const nanosPerMs = 1e6

type nodeKey struct {
	name   string
	parent int
}

// node is one named scope under one parent. The same name under two parents is two nodes.
type node struct {
	name     string
	parent   int
	calls    int64
	total    int64
	children []int
}

// Profiler accumulates time per named scope in a tree. Scopes nest in call order: Start
// opens a scope under the current one and End closes it.
type Profiler struct {
	mu         *sync.Mutex
	nodes      []node
	index      map[nodeKey]int
	current    int
	starts     []time.Time
	frames     int64
	ticksPerMs float64
	now        func() time.Time
}

// NewProfiler creates an empty profiler whose root is the synthetic "root" scope.
//
// Parameters:
//   - opts: variadic list of ProfilerBuilderOption functions to configure the profiler
//
// Returns:
//   - *Profiler: the new profiler
func NewProfiler(opts ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:         &sync.Mutex{},
		nodes:      []node{{name: "root", parent: -1}},
		index:      make(map[nodeKey]int),
		ticksPerMs: nanosPerMs,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ticksPerMs <= 0 {
		panic(fmt.Sprintf("profiler: failed to create profiler: invalid ticks per ms %v", p.ticksPerMs))
	}
	return p
}

// Start opens the scope called name under the current scope, creating it on first use,
// and records its start time.
//
// Parameters:
//   - name: the scope name
func (p *Profiler) Start(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := nodeKey{name: name, parent: p.current}
	id, ok := p.index[key]
	if !ok {
		id = len(p.nodes)
		p.nodes = append(p.nodes, node{name: name, parent: p.current})
		p.nodes[p.current].children = append(p.nodes[p.current].children, id)
		p.index[key] = id
	}
	p.current = id
	p.starts = append(p.starts, p.now())
}

// End closes the current scope, adding elapsedTicks to its total and one to its call
// count. End without a matching Start is ignored.
//
// Parameters:
//   - elapsedTicks: the measured duration in ticks
func (p *Profiler) End(elapsedTicks int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.end(elapsedTicks)
}

// Stop closes the current scope with the time elapsed since its Start.
func (p *Profiler) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.starts) == 0 {
		return
	}
	start := p.starts[len(p.starts)-1]
	p.end(p.ticks(p.now().Sub(start)))
}

// Scope opens a scope and returns the function that closes it, for use as
// defer p.Scope("Draw Scene")().
//
// Parameters:
//   - name: the scope name
//
// Returns:
//   - func(): closes the scope with the elapsed time
func (p *Profiler) Scope(name string) func() {
	p.Start(name)
	return p.Stop
}

// MarkFrame counts one frame. Reports divide totals by the frame count.
func (p *Profiler) MarkFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames++
}

// Reset clears every accumulated total and call count and the frame count. The scope
// tree itself is kept.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.nodes {
		p.nodes[i].calls = 0
		p.nodes[i].total = 0
	}
	p.frames = 0
}

// Print writes the report depth first from the root, one line per scope indented by depth.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: the first write error
func (p *Profiler) Print(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintf(w, "CPU profile (%d frames)\n", p.frames); err != nil {
		return err
	}
	for _, child := range p.nodes[0].children {
		if err := p.printNode(w, child, 0); err != nil {
			return err
		}
	}
	return nil
}

// String returns the same report as Print.
func (p *Profiler) String() string {
	var b strings.Builder
	_ = p.Print(&b)
	return b.String()
}

// Total returns the accumulated milliseconds and call count of the scope at path, e.g.
// Total("Draw", "Draw Scene").
//
// Parameters:
//   - path: scope names from the root down
//
// Returns:
//   - float64: total milliseconds
//   - int64: call count
//   - bool: false if no such scope exists
func (p *Profiler) Total(path ...string) (float64, int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := 0
	for _, name := range path {
		next, ok := p.index[nodeKey{name: name, parent: id}]
		if !ok {
			return 0, 0, false
		}
		id = next
	}
	n := p.nodes[id]
	return p.ms(n.total), n.calls, true
}

func (p *Profiler) end(elapsedTicks int64) {
	if p.current == 0 {
		return
	}
	n := &p.nodes[p.current]
	n.total += elapsedTicks
	n.calls++
	p.current = n.parent
	if len(p.starts) > 0 {
		p.starts = p.starts[:len(p.starts)-1]
	}
}

func (p *Profiler) printNode(w io.Writer, id, depth int) error {
	n := p.nodes[id]
	total := p.ms(n.total)
	perCall, perFrame := 0.0, 0.0
	if n.calls > 0 {
		perCall = total / float64(n.calls)
	}
	if p.frames > 0 {
		perFrame = total / float64(p.frames)
	}
	if _, err := fmt.Fprintf(w, "%s%s: %.3f ms, %d calls, %.3f ms/call, %.3f ms/frame\n",
		strings.Repeat("  ", depth), n.name, total, n.calls, perCall, perFrame); err != nil {
		return err
	}
	for _, child := range n.children {
		if err := p.printNode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *Profiler) ms(ticks int64) float64 {
	return float64(ticks) / p.ticksPerMs
}

func (p *Profiler) ticks(d time.Duration) int64 {
	return int64(float64(d.Nanoseconds()) * p.ticksPerMs / nanosPerMs)
}
