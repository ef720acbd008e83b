package model

import "time"

// AnalysisResult is the root of a stored simulation report.
type AnalysisResult struct {
	// RunID uniquely identifies the simulation run that produced the report.
	RunID string `json:"runId"`

	// CreatedAt is when the analysis finished.
	CreatedAt time.Time `json:"createdAt"`

	// Results holds one entry per delivery method.
	Results []MethodResult `json:"results"`
}

// MethodResult holds every statistic collected for one delivery method.
type MethodResult struct {
	// MethodName is the name of the font delivery method.
	MethodName string `json:"methodName"`

	// ResultsByNetwork holds one entry per simulated network model.
	ResultsByNetwork []NetworkResult `json:"resultsByNetwork"`

	// ResultsByCategory holds the weighted per-sequence cost and bytes for each
	// logical network category.
	ResultsByCategory []CategoryResult `json:"resultsByCategory,omitempty"`
}

// NetworkResult holds the totals and per page view distributions of one
// method simulated on one network model.
type NetworkResult struct {
	// NetworkModelName is the name of the network model.
	NetworkModelName string `json:"networkModelName"`

	// TotalCost sums the cost of every simulated session.
	TotalCost float64 `json:"totalCost"`

	// TotalWaitTimeMs sums the load time of every page view.
	TotalWaitTimeMs float64 `json:"totalWaitTimeMs"`

	// TotalRequestBytes sums the bytes sent by the browser.
	TotalRequestBytes int64 `json:"totalRequestBytes"`

	// TotalResponseBytes sums the bytes received by the browser.
	TotalResponseBytes int64 `json:"totalResponseBytes"`

	// TotalRequestCount sums the number of requests made.
	TotalRequestCount int64 `json:"totalRequestCount"`

	// WaitPerPageViewMs distributes the load time of each page view.
	WaitPerPageViewMs Distribution `json:"waitPerPageViewMs"`

	// CostPerPageView distributes the cost of each page view.
	CostPerPageView Distribution `json:"costPerPageView"`

	// RequestBytesPerPageView distributes the bytes sent per page view.
	RequestBytesPerPageView Distribution `json:"requestBytesPerPageView"`

	// ResponseBytesPerPageView distributes the bytes received per page view.
	ResponseBytesPerPageView Distribution `json:"responseBytesPerPageView"`
}

// CategoryResult combines the weighted variants of one network category.
type CategoryResult struct {
	// NetworkCategory is the logical category, e.g. "desktop".
	NetworkCategory string `json:"networkCategory"`

	// CostPerSequence is the weighted cost of each session, by session index.
	CostPerSequence []float64 `json:"costPerSequence"`

	// BytesPerSequence is the weighted bytes of each session, by session index.
	BytesPerSequence []float64 `json:"bytesPerSequence"`
}

// TotalCost sums the weighted cost of every session in the category.
func (c CategoryResult) TotalCost() float64 {
	var total float64
	for _, v := range c.CostPerSequence {
		total += v
	}
	return total
}

// TotalBytes sums the weighted bytes of every session in the category.
func (c CategoryResult) TotalBytes() float64 {
	var total float64
	for _, v := range c.BytesPerSequence {
		total += v
	}
	return total
}
