package harload

import (
	"errors"
	"fmt"

	"github.com/pb33f/pfesim/motor"
)

// DefaultMethodName is used when a recorded method is not given a name.
const DefaultMethodName = "Recorded"

// ErrPageNotRecorded is returned when a page view names a page the capture does not contain.
var ErrPageNotRecorded = errors.New("page not recorded in capture")

// Method replays the font loading graphs of a capture. A page view selects
// the recorded graph by page id; codepoints are ignored because the
// recording already reflects what the browser fetched.
type Method struct {
	name   string
	graphs map[string]*motor.RequestGraph
}

// NewMethod wraps a capture as a delivery method.
func NewMethod(name string, capture *Capture) *Method {
	if name == "" {
		name = DefaultMethodName
	}
	graphs := make(map[string]*motor.RequestGraph, len(capture.Pages))
	for _, p := range capture.Pages {
		graphs[p.ID] = p.Graph
	}
	return &Method{name: name, graphs: graphs}
}

func (m *Method) Name() string {
	return m.name
}

func (m *Method) StartSession() motor.Session {
	return &replaySession{method: m}
}

type replaySession struct {
	method *Method
	graphs []*motor.RequestGraph
}

func (s *replaySession) PageView(view motor.PageView) error {
	g, ok := s.method.graphs[view.ID]
	if !ok {
		return fmt.Errorf("%s: %q: %w", s.method.name, view.ID, ErrPageNotRecorded)
	}
	s.graphs = append(s.graphs, g)
	return nil
}

func (s *replaySession) RequestGraphs() []*motor.RequestGraph {
	return s.graphs
}
