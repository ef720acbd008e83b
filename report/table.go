package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/pb33f/pfesim/motor/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201"))
	methodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

var networkColumns = []string{"Method", "Network", "Total Cost", "Total Wait", "Requests", "Request Bytes", "Response Bytes"}

// NetworkRow formats one network result for display.
func NetworkRow(method string, n model.NetworkResult) []string {
	return []string{
		method,
		n.NetworkModelName,
		humanize.CommafWithDigits(n.TotalCost, 1),
		FormatMillis(n.TotalWaitTimeMs),
		humanize.Comma(n.TotalRequestCount),
		humanize.Bytes(uint64(max(n.TotalRequestBytes, 0))),
		humanize.Bytes(uint64(max(n.TotalResponseBytes, 0))),
	}
}

// Table renders every network result as an aligned, styled table.
func Table(result *model.AnalysisResult) string {
	rows := [][]string{networkColumns}
	for _, m := range result.Results {
		for _, n := range m.ResultsByNetwork {
			rows = append(rows, NetworkRow(m.MethodName, n))
		}
	}

	var b strings.Builder
	b.WriteString(render(rows))
	if categories := categoryRows(result); len(categories) > 1 {
		b.WriteString("\n")
		b.WriteString(render(categories))
	}
	b.WriteString(faintStyle.Render(fmt.Sprintf("run %s, %d methods", result.RunID, len(result.Results))))
	b.WriteString("\n")
	return b.String()
}

func categoryRows(result *model.AnalysisResult) [][]string {
	rows := [][]string{{"Method", "Category", "Weighted Cost", "Weighted Bytes", "Sessions"}}
	for _, m := range result.Results {
		for _, c := range m.ResultsByCategory {
			rows = append(rows, []string{
				m.MethodName,
				c.NetworkCategory,
				humanize.CommafWithDigits(c.TotalCost(), 1),
				humanize.Bytes(uint64(max(c.TotalBytes(), 0))),
				humanize.Comma(int64(len(c.CostPerSequence))),
			})
		}
	}
	return rows
}

// render pads every column to its widest cell; the first row is the header
func render(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := lipgloss.NewStyle().Width(widths[i] + 2)
			switch {
			case r == 0:
				style = style.Inherit(headerStyle)
			case i == 0:
				style = style.Inherit(methodStyle)
			}
			cells[i] = style.Render(cell)
		}
		b.WriteString(strings.Join(cells, ""))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatMillis renders a duration given in milliseconds.
func FormatMillis(ms float64) string {
	switch {
	case ms == 0:
		return "0ms"
	case ms < 1000:
		return humanize.FtoaWithDigits(ms, 1) + "ms"
	case ms < 60_000:
		return humanize.FtoaWithDigits(ms/1000, 2) + "s"
	default:
		minutes := int(ms / 60_000)
		seconds := int(ms/1000) - minutes*60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
}
