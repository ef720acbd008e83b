package motor

import (
	orderedmap "github.com/pb33f/ordered-map/v2"
)

// ResultSet maps method name -> network model name -> simulated sessions.
// Keys iterate in the order they were first added, so merged results and
// reports come out in a stable order.
type ResultSet struct {
	methods *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, []SequenceTotals]]
}

// NewResultSet returns an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{
		methods: orderedmap.New[string, *orderedmap.OrderedMap[string, []SequenceTotals]](),
	}
}

// Add appends sequences under method and network.
func (rs *ResultSet) Add(method, network string, sequences ...SequenceTotals) {
	networks, ok := rs.methods.Get(method)
	if !ok {
		networks = orderedmap.New[string, []SequenceTotals]()
		rs.methods.Set(method, networks)
	}
	existing, _ := networks.Get(network)
	merged := make([]SequenceTotals, 0, len(existing)+len(sequences))
	merged = append(merged, existing...)
	merged = append(merged, sequences...)
	networks.Set(network, merged)
}

// Methods returns the method names in insertion order.
func (rs *ResultSet) Methods() []string {
	out := make([]string, 0, rs.methods.Len())
	for name := range rs.methods.KeysFromOldest() {
		out = append(out, name)
	}
	return out
}

// Networks returns the network names recorded for method in insertion order.
func (rs *ResultSet) Networks(method string) []string {
	networks, ok := rs.methods.Get(method)
	if !ok {
		return nil
	}
	out := make([]string, 0, networks.Len())
	for name := range networks.KeysFromOldest() {
		out = append(out, name)
	}
	return out
}

// Sequences returns the sessions simulated for method on network.
func (rs *ResultSet) Sequences(method, network string) ([]SequenceTotals, bool) {
	networks, ok := rs.methods.Get(method)
	if !ok {
		return nil, false
	}
	return networks.Get(network)
}

// Len is the number of methods in the set.
func (rs *ResultSet) Len() int {
	return rs.methods.Len()
}

// SequenceCount is the total number of sessions across every method and network.
func (rs *ResultSet) SequenceCount() int {
	count := 0
	for _, networks := range rs.methods.FromOldest() {
		for _, seqs := range networks.FromOldest() {
			count += len(seqs)
		}
	}
	return count
}

// MergeResults combines result sets produced by independent workers. Keys
// are unioned; when the same method and network appear in several inputs the
// sequence lists are concatenated in input order. Nil inputs are skipped.
func MergeResults(sets []*ResultSet) *ResultSet {
	merged := NewResultSet()
	for _, rs := range sets {
		if rs == nil {
			continue
		}
		for method, networks := range rs.methods.FromOldest() {
			for network, seqs := range networks.FromOldest() {
				merged.Add(method, network, seqs...)
			}
		}
	}
	return merged
}
