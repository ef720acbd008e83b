package motor

import (
	"container/heap"
	"fmt"
)

// GraphTotal is the simulated outcome of loading one request graph.
type GraphTotal struct {
	TimeMs        float64 `json:"timeMs"`
	RequestBytes  int64   `json:"requestBytes"`
	ResponseBytes int64   `json:"responseBytes"`
	RequestCount  int     `json:"requestCount"`
}

// TotalBytes is request plus response bytes.
func (t GraphTotal) TotalBytes() int64 {
	return t.RequestBytes + t.ResponseBytes
}

// Simulate computes how long the graph takes to load over the given network.
//
// Requests whose dependencies are satisfied wait in a ready queue ordered by
// the time they became ready, then by insertion order. Up to
// profile.MaxConcurrent of them are in flight at once; each finishes at
// admission + latency + transfer time and releases its children at that
// moment. Nothing here consults a clock or a random source, so the same graph
// and profile always give the same total.
func Simulate(g *RequestGraph, profile NetworkProfile) (GraphTotal, error) {
	if g == nil {
		return GraphTotal{}, &MalformedGraphError{Reason: "nil request graph"}
	}

	total := GraphTotal{
		RequestBytes:  g.TotalRequestBytes(),
		ResponseBytes: g.TotalResponseBytes(),
		RequestCount:  g.Len(),
	}
	if g.Len() == 0 {
		return total, nil
	}

	ready := &readyQueue{}
	for i, r := range g.requests {
		if r.IsRoot() {
			heap.Push(ready, scheduled{at: 0, seq: i})
		}
	}

	flight := &flightQueue{}
	completed := 0
	now := 0.0

	for ready.Len() > 0 || flight.Len() > 0 {
		for ready.Len() > 0 && (profile.MaxConcurrent <= 0 || flight.Len() < profile.MaxConcurrent) {
			next := heap.Pop(ready).(scheduled)
			r := g.requests[next.seq]
			done := now + profile.LatencyMs + profile.TransferTimeMs(r)
			heap.Push(flight, scheduled{at: done, seq: next.seq})
			if done > total.TimeMs {
				total.TimeMs = done
			}
		}

		finished := heap.Pop(flight).(scheduled)
		now = finished.at
		completed++
		g.release(ready, finished)

		// everything finishing at the same instant frees its slot together
		for flight.Len() > 0 && (*flight)[0].at == now {
			g.release(ready, heap.Pop(flight).(scheduled))
			completed++
		}
	}

	if completed != g.Len() {
		// unreachable for graphs built by NewRequestGraph
		return GraphTotal{}, &MalformedGraphError{
			GraphID: g.id,
			Reason:  fmt.Sprintf("only %d of %d requests could be scheduled", completed, g.Len()),
		}
	}
	return total, nil
}

func (g *RequestGraph) release(ready *readyQueue, finished scheduled) {
	for _, child := range g.children[g.requests[finished.seq].ID] {
		heap.Push(ready, scheduled{at: finished.at, seq: child})
	}
}

// SimulateSequence simulates every page view of a session in order.
func SimulateSequence(graphs []*RequestGraph, profile NetworkProfile) (SequenceTotals, error) {
	seq := SequenceTotals{Graphs: make([]GraphTotal, 0, len(graphs))}
	for i, g := range graphs {
		total, err := Simulate(g, profile)
		if err != nil {
			return SequenceTotals{}, fmt.Errorf("page view %d on network %q: %w", i, profile.Name, err)
		}
		seq.Graphs = append(seq.Graphs, total)
	}
	return seq, nil
}

// scheduled is a request index keyed by a time; ready time in the ready
// queue, completion time in the flight queue.
type scheduled struct {
	at  float64
	seq int
}

func (a scheduled) before(b scheduled) bool {
	if a.at != b.at {
		return a.at < b.at
	}
	return a.seq < b.seq
}

type readyQueue []scheduled

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i].before(q[j]) }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *readyQueue) Push(x any)        { *q = append(*q, x.(scheduled)) }
func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

type flightQueue []scheduled

func (q flightQueue) Len() int           { return len(q) }
func (q flightQueue) Less(i, j int) bool { return q[i].before(q[j]) }
func (q flightQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *flightQueue) Push(x any)        { *q = append(*q, x.(scheduled)) }
func (q *flightQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
