package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/pfesim/motor/model"
)

// costRank marks the cheapest and most expensive method on a network
type costRank int

const (
	rankNone costRank = iota
	rankBest
	rankWorst
)

// rankCosts compares the methods on each network. Networks with a single
// method, or where every method costs the same, are not ranked.
func rankCosts(result *model.AnalysisResult, rows []resultRow) []costRank {
	type span struct{ lo, hi float64 }
	spans := make(map[string]*span)
	counts := make(map[string]int)
	for _, r := range rows {
		n := result.Results[r.method].ResultsByNetwork[r.network]
		s, ok := spans[n.NetworkModelName]
		if !ok {
			spans[n.NetworkModelName] = &span{lo: n.TotalCost, hi: n.TotalCost}
		} else {
			s.lo = min(s.lo, n.TotalCost)
			s.hi = max(s.hi, n.TotalCost)
		}
		counts[n.NetworkModelName]++
	}

	ranks := make([]costRank, len(rows))
	for i, r := range rows {
		n := result.Results[r.method].ResultsByNetwork[r.network]
		s := spans[n.NetworkModelName]
		if counts[n.NetworkModelName] < 2 || s.lo == s.hi {
			continue
		}
		switch n.TotalCost {
		case s.lo:
			ranks[i] = rankBest
		case s.hi:
			ranks[i] = rankWorst
		}
	}
	return ranks
}

// renderMethodNames pre-renders each method name in its palette color
func renderMethodNames(result *model.AnalysisResult) map[string]string {
	rendered := make(map[string]string, len(result.Results))
	for i, m := range result.Results {
		name := truncateString(m.MethodName, methodColumnWidth)
		style := lipgloss.NewStyle().Foreground(methodPalette[i%len(methodPalette)])
		rendered[name] = style.Render(name)
	}
	return rendered
}

// colorizes table output following vacuum pattern - skips selected row to preserve background
func ColorizeResultTable(tableView string, cursor int, rows []table.Row, ranks []costRank, methods map[string]string) string {
	lines := strings.Split(tableView, "\n")

	// build unique identifier from selected row to handle cases where table background fails when scrolled
	var selectedIdentifier string
	if cursor >= 0 && cursor < len(rows) {
		selectedIdentifier = rowIdentifier(rows[cursor])
	}

	// ANSI escape sequence for pink background (matches table selected style from styles.go)
	selectedLineMarker := "\x1b[1;38;5;201;48;2;42;26;42m"

	var result strings.Builder
	result.Grow(len(tableView) + len(lines)*40)

	for i, line := range lines {
		isSelectedLine := strings.Contains(line, selectedLineMarker) ||
			(selectedIdentifier != "" && strings.Contains(collapseSpaces(line), selectedIdentifier))

		// skip header row (i=0) and selected rows (already styled by table)
		if i >= 1 && !isSelectedLine {
			if row := findRow(line, rows); row >= 0 {
				line = colorizeRow(line, rows[row], ranks[row], methods)
			}
		}

		result.WriteString(line)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// rowIdentifier joins the cells the way they appear once padding is collapsed
func rowIdentifier(row table.Row) string {
	return strings.Join(row, " ")
}

func collapseSpaces(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// findRow matches a rendered line back to its row by method and network
func findRow(line string, rows []table.Row) int {
	collapsed := " " + collapseSpaces(line) + " "
	for i, row := range rows {
		if strings.Contains(collapsed, " "+row[0]+" "+row[1]+" ") {
			return i
		}
	}
	return -1
}

func colorizeRow(line string, row table.Row, rank costRank, methods map[string]string) string {
	if rendered, ok := methods[row[0]]; ok {
		line = replaceCell(line, row[0], rendered)
	}
	switch rank {
	case rankBest:
		line = replaceCell(line, row[2], StyleCostBest.Render(row[2]))
	case rankWorst:
		line = replaceCell(line, row[2], StyleCostWorst.Render(row[2]))
	}
	return replaceCell(line, row[3], StyleDurationFaint.Render(row[3]))
}

// replaceCell styles the first cell equal to text; cells are space delimited
func replaceCell(line, text, styled string) string {
	if strings.HasPrefix(line, text+" ") {
		return styled + line[len(text):]
	}
	if idx := strings.Index(line, " "+text+" "); idx >= 0 {
		return line[:idx+1] + styled + line[idx+1+len(text):]
	}
	if strings.HasSuffix(line, " "+text) {
		return line[:len(line)-len(text)] + styled
	}
	return line
}
