package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pb33f/pfesim/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dist(pairs ...float64) model.Distribution {
	var d model.Distribution
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Buckets = append(d.Buckets, model.Bucket{End: pairs[i], Count: int64(pairs[i+1])})
	}
	return d
}

func testResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		RunID: "run-1",
		Results: []model.MethodResult{
			{
				MethodName: "Recorded",
				ResultsByNetwork: []model.NetworkResult{
					{
						NetworkModelName:         "desktop_fast",
						TotalCost:                120.25,
						TotalWaitTimeMs:          1500,
						TotalRequestBytes:        2048,
						TotalResponseBytes:       3_000_000,
						TotalRequestCount:        1234,
						WaitPerPageViewMs:        dist(0, 0, 50, 2, 100, 1),
						CostPerPageView:          dist(0, 0, 5, 3),
						RequestBytesPerPageView:  dist(0, 0, 100, 3),
						ResponseBytesPerPageView: dist(0, 0, 1024, 1, 2048, 2),
					},
					{
						NetworkModelName:         "desktop_slow",
						TotalCost:                400,
						RequestBytesPerPageView:  dist(0, 0, 200, 3),
						ResponseBytesPerPageView: dist(0, 0, 4096, 3),
					},
				},
				ResultsByCategory: []model.CategoryResult{
					{NetworkCategory: "desktop", CostPerSequence: []float64{10, 20.5}, BytesPerSequence: []float64{1000, 500}},
				},
			},
			{
				MethodName: "UnicodeRange",
				ResultsByNetwork: []model.NetworkResult{
					{NetworkModelName: "desktop_fast", TotalCost: 99.96},
				},
			},
			{MethodName: "Empty"},
		},
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		mode string
		args []string
		want string
	}{
		{"cost summary", ModeCostSummary, nil,
			"Recorded, desktop_fast, 120.2\nRecorded, desktop_slow, 400.0\nUnicodeRange, desktop_fast, 100.0\n"},
		{"category summary", ModeCategorySummary, nil, "Recorded, desktop, 30.5, 1500\n"},
		{"latency", ModeLatencyDistribution, []string{"Recorded", "desktop_fast"}, "0, 0\n50, 2\n100, 1\n"},
		{"cost", ModeCostDistribution, []string{"Recorded", "desktop_fast"}, "0, 0\n5, 3\n"},
		{"request size first network", ModeRequestSizeDistribution, []string{"Recorded"}, "0, 0\n100, 3\n"},
		{"request size named network", ModeRequestSizeDistribution, []string{"Recorded", "desktop_slow"}, "0, 0\n200, 3\n"},
		{"response size", ModeResponseSizeDistribution, []string{"Recorded"}, "0, 0\n1024, 1\n2048, 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Summarize(&buf, testResult(), tt.mode, tt.args))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSummarize_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		args     []string
		usage    bool
		notFound bool
	}{
		{"unknown mode", "pie_chart", nil, true, false},
		{"latency without network", ModeLatencyDistribution, []string{"Recorded"}, true, false},
		{"size without method", ModeResponseSizeDistribution, nil, true, false},
		{"missing method", ModeCostDistribution, []string{"Nope", "desktop_fast"}, false, true},
		{"missing network", ModeLatencyDistribution, []string{"Recorded", "mobile"}, false, true},
		{"method without networks", ModeRequestSizeDistribution, []string{"Empty"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Summarize(&bytes.Buffer{}, testResult(), tt.mode, tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.usage, errors.Is(err, ErrUsage))
			var nf *model.NotFoundError
			assert.Equal(t, tt.notFound, errors.As(err, &nf))
		})
	}
}

func TestModesAreDocumented(t *testing.T) {
	for _, mode := range Modes() {
		assert.Contains(t, Usage, mode)
	}
}

func TestTable(t *testing.T) {
	out := Table(testResult())

	for _, want := range []string{"Method", "Total Cost", "Recorded", "desktop_slow", "120.2", "1,234", "2.0 kB", "3.0 MB", "1.5s", "Weighted Cost", "30.5", "run run-1, 3 methods"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "Weighted Cost"))
}

func TestFormatMillis(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{0, "0ms"},
		{12.34, "12.3ms"},
		{250, "250ms"},
		{1500, "1.5s"},
		{61_000, "1m1s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMillis(tt.ms))
	}
}
