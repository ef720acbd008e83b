package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/pb33f/pfesim/motor/model"
	"github.com/pb33f/pfesim/report"
)

// pre-computed styles to avoid allocation in hot path
var (
	keyStyleBase = lipgloss.NewStyle().
			Foreground(RGBGrey).
			Align(lipgloss.Right)

	sectionHeaderStyleBase = lipgloss.NewStyle().
				Bold(true).
				Foreground(RGBPink)

	emptyValueText = lipgloss.NewStyle().Faint(true).Render("(empty)")
)

// KeyValuePair represents a single key-value pair
type KeyValuePair struct {
	Key   string
	Value string
}

// Section represents a grouped section of key-value pairs
type Section struct {
	Title string
	Pairs []KeyValuePair
}

// RenderOptions configures key-value rendering
type RenderOptions struct {
	Width    int  // total available width
	Truncate bool // whether to truncate long values
	KeyWidth int  // key column width (0 = auto-calculate)
}

// renderSections renders multiple sections as formatted key-value output
func renderSections(sections []Section, opts RenderOptions) string {
	if len(sections) == 0 {
		return ""
	}

	keyWidth := opts.KeyWidth
	if keyWidth == 0 {
		keyWidth = min(max(opts.Width*3/10, 15), 25)
	}
	valueWidth := opts.Width - keyWidth - 3 // -3 for spacing

	var output strings.Builder

	for i, section := range sections {
		if section.Title != "" {
			output.WriteString(renderSectionHeader(section.Title, opts.Width))
			output.WriteString("\n")
		}

		for _, pair := range section.Pairs {
			output.WriteString(renderKeyValueRow(pair, keyWidth, valueWidth, opts.Truncate))
			output.WriteString("\n")
		}

		if i < len(sections)-1 {
			output.WriteString("\n")
		}
	}

	return output.String()
}

func renderSectionHeader(title string, width int) string {
	return sectionHeaderStyleBase.Width(width).Render(title)
}

func renderKeyValueRow(pair KeyValuePair, keyWidth, valueWidth int, truncate bool) string {
	keyStyle := keyStyleBase.Width(keyWidth)

	value := pair.Value
	if value == "" {
		value = emptyValueText
	} else if truncate && valueWidth > 3 && len(value) > valueWidth {
		value = value[:valueWidth-3] + "..."
	}

	return keyStyle.Render(pair.Key) + "  " + value
}

// buildNetworkSections describes one method's results on one network
func buildNetworkSections(method *model.MethodResult, n *model.NetworkResult) []Section {
	views := n.WaitPerPageViewMs.Total()
	sections := []Section{
		{
			Title: "Network",
			Pairs: []KeyValuePair{
				{"Method", method.MethodName},
				{"Network", n.NetworkModelName},
				{"Page Views", humanize.Comma(views)},
			},
		},
		{
			Title: "Totals",
			Pairs: []KeyValuePair{
				{"Cost", humanize.CommafWithDigits(n.TotalCost, 2)},
				{"Wait", report.FormatMillis(n.TotalWaitTimeMs)},
				{"Requests", humanize.Comma(n.TotalRequestCount)},
				{"Sent", humanize.Bytes(uint64(max(n.TotalRequestBytes, 0)))},
				{"Received", humanize.Bytes(uint64(max(n.TotalResponseBytes, 0)))},
			},
		},
	}

	if views > 0 {
		per := float64(views)
		sections = append(sections, Section{
			Title: "Per Page View",
			Pairs: []KeyValuePair{
				{"Cost", fmt.Sprintf("%.2f", n.TotalCost/per)},
				{"Wait", report.FormatMillis(n.TotalWaitTimeMs / per)},
				{"Requests", fmt.Sprintf("%.2f", float64(n.TotalRequestCount)/per)},
				{"Received", humanize.Bytes(uint64(float64(max(n.TotalResponseBytes, 0)) / per))},
			},
		})
	}

	return append(sections, buildCategorySections(method)...)
}

// buildCategorySections lists the weighted per-category totals of a method
func buildCategorySections(method *model.MethodResult) []Section {
	if len(method.ResultsByCategory) == 0 {
		return nil
	}

	pairs := make([]KeyValuePair, 0, len(method.ResultsByCategory))
	for _, c := range method.ResultsByCategory {
		pairs = append(pairs, KeyValuePair{
			Key: c.NetworkCategory,
			Value: fmt.Sprintf("cost %s, %s over %d sequences",
				humanize.CommafWithDigits(c.TotalCost(), 1),
				humanize.Bytes(uint64(max(c.TotalBytes(), 0))),
				len(c.CostPerSequence)),
		})
	}
	return []Section{{Title: "Categories", Pairs: pairs}}
}
