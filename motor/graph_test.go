package motor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestGraph(t *testing.T) {
	tests := []struct {
		name      string
		requests  []Request
		wantErr   bool
		reason    string
		requestID string
	}{
		{
			name: "independent requests",
			requests: []Request{
				{ID: "a", ResponseSize: 100},
				{ID: "b", ResponseSize: 200},
			},
		},
		{
			name: "chain",
			requests: []Request{
				{ID: "css", ResponseSize: 10},
				{ID: "font", Parent: "css", ResponseSize: 1000},
			},
		},
		{
			name: "child declared before parent",
			requests: []Request{
				{ID: "font", Parent: "css", ResponseSize: 1000},
				{ID: "css", ResponseSize: 10},
			},
		},
		{
			name: "dangling parent",
			requests: []Request{
				{ID: "font", Parent: "missing"},
			},
			wantErr:   true,
			reason:    `depends on unknown request "missing"`,
			requestID: "font",
		},
		{
			name: "duplicate id",
			requests: []Request{
				{ID: "a"},
				{ID: "a"},
			},
			wantErr:   true,
			reason:    "duplicate request id",
			requestID: "a",
		},
		{
			name: "self dependency",
			requests: []Request{
				{ID: "a", Parent: "a"},
			},
			wantErr: true,
			reason:  "dependency cycle",
		},
		{
			name: "three node cycle",
			requests: []Request{
				{ID: "root"},
				{ID: "a", Parent: "c"},
				{ID: "b", Parent: "a"},
				{ID: "c", Parent: "b"},
			},
			wantErr: true,
			reason:  "dependency cycle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewRequestGraph("page", tt.requests...)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, len(tt.requests), g.Len())
				return
			}

			require.Error(t, err)
			assert.Nil(t, g)

			var malformed *MalformedGraphError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "page", malformed.GraphID)
			assert.Equal(t, tt.reason, malformed.Reason)
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, malformed.RequestID)
			}
		})
	}
}

func TestNewRequestGraph_CyclePath(t *testing.T) {
	_, err := NewRequestGraph("page",
		Request{ID: "a", Parent: "c"},
		Request{ID: "b", Parent: "a"},
		Request{ID: "c", Parent: "b"},
	)
	require.Error(t, err)

	var malformed *MalformedGraphError
	require.True(t, errors.As(err, &malformed))
	require.Len(t, malformed.Cycle, 4)
	assert.Equal(t, malformed.Cycle[0], malformed.Cycle[3])
	assert.ElementsMatch(t, []string{"a", "b", "c"}, malformed.Cycle[:3])
	assert.Contains(t, err.Error(), "dependency cycle (")
	assert.Contains(t, err.Error(), `malformed request graph "page"`)
}

func TestNewRequestGraph_GeneratedIDs(t *testing.T) {
	g := MustRequestGraph("page",
		Request{ResponseSize: 1},
		Request{ResponseSize: 2},
		Request{Parent: "r0", ResponseSize: 3},
	)

	r, ok := g.Request("r2")
	require.True(t, ok)
	assert.Equal(t, "r0", r.Parent)
	assert.Equal(t, int64(3), r.ResponseSize)

	children := g.Children("r0")
	require.Len(t, children, 1)
	assert.Equal(t, "r2", children[0].ID)
}

func TestMustRequestGraph_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustRequestGraph("bad", Request{ID: "a", Parent: "nope"})
	})
}

func TestRequestGraph_Accessors(t *testing.T) {
	g := MustRequestGraph("page",
		Request{ID: "font", Parent: "css", RequestSize: 5, ResponseSize: 1000},
		Request{ID: "css", RequestSize: 7, ResponseSize: 10},
		Request{ID: "other", RequestSize: 1, ResponseSize: 20},
	)

	assert.Equal(t, "page", g.ID())
	assert.Equal(t, 3, g.Len())
	assert.False(t, g.IsIndependent())
	assert.Equal(t, int64(13), g.TotalRequestBytes())
	assert.Equal(t, int64(1030), g.TotalResponseBytes())

	roots := g.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "css", roots[0].ID)
	assert.Equal(t, "other", roots[1].ID)

	order := g.TopologicalOrder()
	require.Len(t, order, 3)
	ids := []string{order[0].ID, order[1].ID, order[2].ID}
	assert.Equal(t, []string{"css", "other", "font"}, ids)

	// returned slices are copies
	reqs := g.Requests()
	reqs[0].ResponseSize = 0
	r, _ := g.Request("font")
	assert.Equal(t, int64(1000), r.ResponseSize)

	_, ok := g.Request("missing")
	assert.False(t, ok)
	assert.Empty(t, g.Children("other"))
}

func TestRequestGraph_HasIndependentRequests(t *testing.T) {
	independent := MustRequestGraph("independent",
		Request{RequestSize: 0, ResponseSize: 1000},
		Request{RequestSize: 0, ResponseSize: 1000},
		Request{RequestSize: 0, ResponseSize: 500},
	)
	dependent := MustRequestGraph("dependent",
		Request{ID: "css", ResponseSize: 1000},
		Request{ID: "font", Parent: "css", ResponseSize: 500},
	)
	empty := MustRequestGraph("empty")

	tests := []struct {
		name  string
		graph *RequestGraph
		pairs []SizePair
		want  bool
	}{
		{"exact match", independent, []SizePair{{0, 1000}, {0, 500}, {0, 1000}}, true},
		{"missing duplicate", independent, []SizePair{{0, 1000}, {0, 500}, {0, 500}}, false},
		{"subset", independent, []SizePair{{0, 1000}, {0, 500}}, false},
		{"wrong request size", independent, []SizePair{{1, 1000}, {0, 500}, {0, 1000}}, false},
		{"dependency edge", dependent, []SizePair{{0, 1000}, {0, 500}}, false},
		{"empty graph no pairs", empty, nil, true},
		{"empty graph with pairs", empty, []SizePair{{0, 1}}, false},
		{"nil graph", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.graph.HasIndependentRequests(tt.pairs))
		})
	}
}
