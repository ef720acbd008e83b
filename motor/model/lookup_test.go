package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *AnalysisResult {
	return &AnalysisResult{
		RunID: "run",
		Results: []MethodResult{
			{
				MethodName: "UnicodeRange",
				ResultsByNetwork: []NetworkResult{
					{NetworkModelName: "desktop_median", TotalCost: 10},
					{NetworkModelName: "mobile_slow", TotalCost: 20},
				},
			},
			{
				MethodName: "Recorded",
				ResultsByNetwork: []NetworkResult{
					{NetworkModelName: "dup"},
					{NetworkModelName: "dup"},
				},
			},
			{MethodName: "Twice"},
			{MethodName: "Twice"},
		},
	}
}

func TestAnalysisResult_FindNetwork(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		network  string
		wantCost float64
		wantErr  string
	}{
		{"found", "UnicodeRange", "mobile_slow", 20, ""},
		{"missing method", "Nope", "mobile_slow", 0, "cannot find method result Nope"},
		{"missing network", "UnicodeRange", "cable", 0, "cannot find network result for UnicodeRange and cable"},
		{"ambiguous network", "Recorded", "dup", 0, "network result dup is ambiguous"},
		{"ambiguous method", "Twice", "any", 0, "method result Twice is ambiguous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := testReport().FindNetwork(tt.method, tt.network)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				var notFound *NotFoundError
				assert.True(t, errors.As(err, &notFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, n.TotalCost)
		})
	}
}

func TestAnalysisResult_FindMethod(t *testing.T) {
	m, err := testReport().FindMethod("Recorded")
	require.NoError(t, err)
	assert.Len(t, m.ResultsByNetwork, 2)

	_, err = testReport().FindMethod("missing")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.Method)
	assert.Empty(t, notFound.Network)
}

func TestCategoryResult_Totals(t *testing.T) {
	c := CategoryResult{
		NetworkCategory:  "desktop",
		CostPerSequence:  []float64{90, 80},
		BytesPerSequence: []float64{165, 125},
	}
	assert.Equal(t, 170.0, c.TotalCost())
	assert.Equal(t, 290.0, c.TotalBytes())
}
