package tui

import (
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/pb33f/pfesim/motor/model"
	"github.com/pb33f/pfesim/report"
)

// resultRow points at one network result of one method
type resultRow struct {
	method  int
	network int
}

func (m *ResultViewModel) networkResult(r resultRow) (*model.MethodResult, *model.NetworkResult) {
	method := &m.result.Results[r.method]
	return method, &method.ResultsByNetwork[r.network]
}

// indexRows flattens the report into one row per method and network
func indexRows(result *model.AnalysisResult) []resultRow {
	var rows []resultRow
	for i, method := range result.Results {
		for j := range method.ResultsByNetwork {
			rows = append(rows, resultRow{method: i, network: j})
		}
	}
	return rows
}

func (m *ResultViewModel) buildTableRows() {
	m.visible = m.filters.Apply(m.result, m.allRows)

	rows := make([]table.Row, 0, len(m.visible))
	for _, r := range m.visible {
		method, network := m.networkResult(r)
		rows = append(rows, formatResultRow(method.MethodName, network, m.networkWidth()))
	}
	m.rows = rows
}

func formatResultRow(method string, n *model.NetworkResult, networkWidth int) table.Row {
	return table.Row{
		truncateString(method, methodColumnWidth),
		truncateString(n.NetworkModelName, networkWidth),
		humanize.CommafWithDigits(n.TotalCost, 1),
		report.FormatMillis(n.TotalWaitTimeMs),
		humanize.Comma(n.TotalRequestCount),
		humanize.Bytes(uint64(max(n.TotalResponseBytes, 0))),
	}
}

func (m *ResultViewModel) networkWidth() int {
	w := m.width - methodColumnWidth - costColumnWidth - waitColumnWidth - requestsColumnWidth - bytesColumnWidth - borderPadding
	return min(max(w, minNetworkWidth), maxNetworkWidth)
}

func (m *ResultViewModel) tableColumns() []table.Column {
	return []table.Column{
		{Title: "Method", Width: methodColumnWidth},
		{Title: "Network", Width: m.networkWidth()},
		{Title: "Cost", Width: costColumnWidth},
		{Title: "Wait", Width: waitColumnWidth},
		{Title: "Requests", Width: requestsColumnWidth},
		{Title: "Received", Width: bytesColumnWidth},
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
