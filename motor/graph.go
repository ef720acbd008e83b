package motor

import (
	"fmt"
)

// Request is a single transfer the browser has to make for a page view.
// A request with an empty Parent is a root and can start as soon as a
// connection slot is free; otherwise it starts once the parent completes.
type Request struct {
	ID           string
	Parent       string
	RequestSize  int64
	ResponseSize int64
}

// IsRoot reports whether the request has no dependency.
func (r Request) IsRoot() bool {
	return r.Parent == ""
}

// SizePair is a (request size, response size) pair used to describe requests
// without caring about their identity.
type SizePair struct {
	Request  int64
	Response int64
}

// RequestGraph is the immutable set of requests needed for one page view,
// along with the dependency edges between them.
type RequestGraph struct {
	id       string
	requests []Request
	position map[string]int
	children map[string][]int
	order    []int // topological order, parents before children
}

// NewRequestGraph validates the requests and builds a graph. Requests keep
// their insertion order, which the simulator uses to break scheduling ties.
// Requests without an ID are named after their position ("r0", "r1", ...).
func NewRequestGraph(id string, requests ...Request) (*RequestGraph, error) {
	g := &RequestGraph{
		id:       id,
		requests: make([]Request, len(requests)),
		position: make(map[string]int, len(requests)),
		children: make(map[string][]int),
	}

	for i, r := range requests {
		if r.ID == "" {
			r.ID = fmt.Sprintf("r%d", i)
		}
		if _, exists := g.position[r.ID]; exists {
			return nil, &MalformedGraphError{GraphID: id, RequestID: r.ID, Reason: "duplicate request id"}
		}
		g.requests[i] = r
		g.position[r.ID] = i
	}

	for i, r := range g.requests {
		if r.IsRoot() {
			continue
		}
		if _, ok := g.position[r.Parent]; !ok {
			return nil, &MalformedGraphError{
				GraphID:   id,
				RequestID: r.ID,
				Reason:    fmt.Sprintf("depends on unknown request %q", r.Parent),
			}
		}
		g.children[r.Parent] = append(g.children[r.Parent], i)
	}

	if err := g.checkCycles(); err != nil {
		return nil, err
	}
	g.order = g.topologicalOrder()
	return g, nil
}

// MustRequestGraph is like NewRequestGraph but panics on a malformed graph.
// Intended for fixtures and tests.
func MustRequestGraph(id string, requests ...Request) *RequestGraph {
	g, err := NewRequestGraph(id, requests...)
	if err != nil {
		panic(err)
	}
	return g
}

// checkCycles walks every parent chain. Each request has at most one parent,
// so a chain that revisits a request still on the current walk is a cycle.
func (g *RequestGraph) checkCycles() error {
	const (
		unvisited = iota
		walking
		done
	)
	state := make([]int, len(g.requests))

	for start := range g.requests {
		if state[start] != unvisited {
			continue
		}

		var path []int
		cur := start
		for {
			if state[cur] == done {
				break
			}
			if state[cur] == walking {
				return g.cycleError(path, cur)
			}
			state[cur] = walking
			path = append(path, cur)

			r := g.requests[cur]
			if r.IsRoot() {
				break
			}
			cur = g.position[r.Parent]
		}

		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

func (g *RequestGraph) cycleError(path []int, repeated int) error {
	var cycle []string
	in := false
	for _, p := range path {
		if p == repeated {
			in = true
		}
		if in {
			cycle = append(cycle, g.requests[p].ID)
		}
	}
	// the walk follows child -> parent, report dependencies parent first
	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	cycle = append(cycle, cycle[0])

	return &MalformedGraphError{
		GraphID:   g.id,
		RequestID: g.requests[repeated].ID,
		Reason:    "dependency cycle",
		Cycle:     cycle,
	}
}

func (g *RequestGraph) topologicalOrder() []int {
	order := make([]int, 0, len(g.requests))
	for i, r := range g.requests {
		if r.IsRoot() {
			order = append(order, i)
		}
	}
	for next := 0; next < len(order); next++ {
		order = append(order, g.children[g.requests[order[next]].ID]...)
	}
	return order
}

// ID returns the identifier the graph was built with.
func (g *RequestGraph) ID() string {
	return g.id
}

// Len returns the number of requests in the graph.
func (g *RequestGraph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.requests)
}

// Requests returns a copy of the requests in insertion order.
func (g *RequestGraph) Requests() []Request {
	out := make([]Request, len(g.requests))
	copy(out, g.requests)
	return out
}

// Request looks up a request by id.
func (g *RequestGraph) Request(id string) (Request, bool) {
	i, ok := g.position[id]
	if !ok {
		return Request{}, false
	}
	return g.requests[i], true
}

// Roots returns the requests without a dependency, in insertion order.
func (g *RequestGraph) Roots() []Request {
	var roots []Request
	for _, r := range g.requests {
		if r.IsRoot() {
			roots = append(roots, r)
		}
	}
	return roots
}

// Children returns the requests that directly depend on id, in insertion order.
func (g *RequestGraph) Children(id string) []Request {
	idx := g.children[id]
	out := make([]Request, len(idx))
	for i, c := range idx {
		out[i] = g.requests[c]
	}
	return out
}

// IsIndependent reports whether the graph has no dependency edges at all.
func (g *RequestGraph) IsIndependent() bool {
	return g == nil || len(g.children) == 0
}

// HasIndependentRequests reports whether the graph consists of exactly the
// given (request size, response size) pairs, compared as a multiset, and
// none of those requests depends on another. An empty pair list matches an
// empty graph only.
func (g *RequestGraph) HasIndependentRequests(pairs []SizePair) bool {
	if g == nil {
		return len(pairs) == 0
	}
	if g.Len() != len(pairs) || !g.IsIndependent() {
		return false
	}

	want := make(map[SizePair]int, len(pairs))
	for _, p := range pairs {
		want[p]++
	}
	for _, r := range g.requests {
		key := SizePair{Request: r.RequestSize, Response: r.ResponseSize}
		if want[key] == 0 {
			return false
		}
		want[key]--
	}
	return true
}

// TotalRequestBytes is the sum of request sizes over all requests.
func (g *RequestGraph) TotalRequestBytes() int64 {
	var total int64
	for _, r := range g.requests {
		total += r.RequestSize
	}
	return total
}

// TotalResponseBytes is the sum of response sizes over all requests.
func (g *RequestGraph) TotalResponseBytes() int64 {
	var total int64
	for _, r := range g.requests {
		total += r.ResponseSize
	}
	return total
}

// TopologicalOrder returns the requests ordered so that every parent comes
// before its children. Roots keep their insertion order.
func (g *RequestGraph) TopologicalOrder() []Request {
	out := make([]Request, len(g.order))
	for i, idx := range g.order {
		out[i] = g.requests[idx]
	}
	return out
}
