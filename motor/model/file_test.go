package model

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisResult_WriteFile(t *testing.T) {
	report := testReport()
	report.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	report.Results[0].ResultsByNetwork[0].WaitPerPageViewMs = Distribution{
		Buckets: []Bucket{{End: 0, Count: 0}, {End: 50, Count: 3}},
	}

	path := filepath.Join(t.TempDir(), "out", "result.json")
	require.NoError(t, report.WriteFile(path))

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, report.RunID, loaded.RunID)
	assert.True(t, report.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, report.Results, loaded.Results)
}

func TestAnalysisResult_WriteFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testReport().Write(&buf))

	out := buf.String()
	for _, field := range []string{`"runId"`, `"methodName"`, `"resultsByNetwork"`, `"networkModelName"`, `"totalCost"`} {
		assert.Contains(t, out, field)
	}
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	assert.ErrorContains(t, err, "failed to parse analysis result")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
