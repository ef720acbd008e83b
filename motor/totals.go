package motor

// SequenceTotals holds one GraphTotal per page view of a simulated session,
// in page view order.
type SequenceTotals struct {
	Graphs []GraphTotal `json:"graphs"`
}

// NewSequenceTotals wraps graph totals into a sequence.
func NewSequenceTotals(graphs ...GraphTotal) SequenceTotals {
	return SequenceTotals{Graphs: graphs}
}

// PageViews is the number of page views in the session.
func (s SequenceTotals) PageViews() int {
	return len(s.Graphs)
}

// TotalTimeMs sums the load time of every page view.
func (s SequenceTotals) TotalTimeMs() float64 {
	var total float64
	for _, g := range s.Graphs {
		total += g.TimeMs
	}
	return total
}

func (s SequenceTotals) TotalRequestBytes() int64 {
	var total int64
	for _, g := range s.Graphs {
		total += g.RequestBytes
	}
	return total
}

func (s SequenceTotals) TotalResponseBytes() int64 {
	var total int64
	for _, g := range s.Graphs {
		total += g.ResponseBytes
	}
	return total
}

// TotalBytes is request plus response bytes over the whole session.
func (s SequenceTotals) TotalBytes() int64 {
	return s.TotalRequestBytes() + s.TotalResponseBytes()
}

func (s SequenceTotals) TotalRequestCount() int {
	var total int
	for _, g := range s.Graphs {
		total += g.RequestCount
	}
	return total
}
