package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

func (m *ResultViewModel) render() string {
	var builder strings.Builder

	builder.WriteString(m.renderTitle())
	builder.WriteString("\n")

	// post-process table view to add colorization (vacuum pattern)
	tableView := m.table.View()
	builder.WriteString(ColorizeResultTable(tableView, m.table.Cursor(), m.rows, m.ranks, m.methods))
	builder.WriteString("\n")

	if m.viewMode == ViewModeTableWithSplit {
		builder.WriteString(m.renderSplitPanel())
		builder.WriteString("\n")
	}

	builder.WriteString(m.renderStatusBar())
	return builder.String()
}

func (m *ResultViewModel) renderTitle() string {
	title := fmt.Sprintf("pfesim: %s | ", m.fileName)
	titleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		Padding(0, 1).
		Width(m.width).BorderForeground(RGBBlue).BorderTop(false).BorderLeft(false).BorderRight(false).BorderBottom(true)

	titleText := lipgloss.NewStyle().Bold(true).Render(title)

	summary := fmt.Sprintf("(%d methods, %d rows", len(m.result.Results), len(m.allRows))
	if m.result.RunID != "" {
		summary += ", run " + m.result.RunID
	}
	if m.loadTime > 0 {
		summary += fmt.Sprintf(", loaded in %v", m.loadTime.Round(time.Millisecond))
	}
	summary += ")"

	return titleStyle.Render(titleText + lipgloss.NewStyle().Faint(true).Render(summary))
}

func (m *ResultViewModel) renderStatusBar() string {
	var parts []string

	if m.viewMode == ViewModeTable {
		parts = append(parts, "↑/↓: Navigate", "Enter: View Details", "m: Method", "c: Category")
		if m.filters.HasActiveFilters() {
			parts = append(parts, "Esc: Clear Filters")
		}
	} else {
		parts = append(parts, "↑/↓: Scroll", "Tab: Switch Panel", "Esc: Close Details")
	}

	parts = append(parts, "q: Quit")

	if len(m.visible) > 0 {
		parts = append(parts, fmt.Sprintf("Row %d/%d", m.table.Cursor()+1, len(m.visible)))
	}

	if method := m.methodFilter.Method(); method != "" {
		parts = append(parts, "[method: "+method+"]")
	}
	if category := m.categoryFilter.Category(); category != "" {
		parts = append(parts, "[category: "+category+"]")
	}

	if m.viewMode == ViewModeTableWithSplit {
		if m.focusedViewport == ViewportFocusDetails {
			parts = append(parts, "[Details]")
		} else {
			parts = append(parts, "[Raw]")
		}
	}

	return HelpStyle.Render(strings.Join(parts, " | "))
}

func (m *ResultViewModel) renderSplitPanel() string {
	if m.selected() == nil {
		return m.renderEmptyPanel()
	}

	baseStyle := lipgloss.NewStyle().
		Width(m.detailsViewport.Width()).
		Height(m.detailsViewport.Height()).
		BorderStyle(lipgloss.NormalBorder())

	focusedBorderStyle := baseStyle.BorderForeground(RGBBlue)
	unfocusedBorderStyle := baseStyle.BorderForeground(lipgloss.Color("240"))

	leftBorderStyle := unfocusedBorderStyle
	rightBorderStyle := unfocusedBorderStyle
	if m.focusedViewport == ViewportFocusDetails {
		leftBorderStyle = focusedBorderStyle
	} else {
		rightBorderStyle = focusedBorderStyle
	}

	leftPanel := leftBorderStyle.Render(m.detailsViewport.View())
	rightPanel := rightBorderStyle.Render(m.rawViewport.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}

func (m *ResultViewModel) renderEmptyPanel() string {
	emptyStyle := lipgloss.NewStyle().
		Faint(true).
		Align(lipgloss.Center, lipgloss.Center).
		Width(m.width).
		Height(m.height / 2)

	return emptyStyle.Render("No result selected")
}

// formatDetails renders the key-value summary followed by the histograms
func (m *ResultViewModel) formatDetails(r resultRow) string {
	method, network := m.networkResult(r)
	width := m.detailsViewport.Width()

	details := renderSections(buildNetworkSections(method, network), RenderOptions{
		Width:    width,
		Truncate: true,
	})
	return details + "\n" + renderNetworkHistograms(network, width)
}

func (m *ResultViewModel) formatRaw(r resultRow) string {
	_, network := m.networkResult(r)
	raw, err := HighlightJSON(network)
	if err != nil {
		return ErrorStyle.Render(err.Error())
	}
	return raw
}

func (m *ResultViewModel) updateViewportContent() {
	r := m.selected()
	if r == nil {
		return
	}

	m.detailsViewport.SetContent(m.formatDetails(*r))
	m.detailsViewport.GotoTop()
	m.rawViewport.SetContent(m.formatRaw(*r))
	m.rawViewport.GotoTop()
}
