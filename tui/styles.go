package tui

import (
	"image/color"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/lipgloss/v2"
)

// Color constants matching vacuum EXACTLY
var (
	RGBBlue       = lipgloss.Color("45")
	RGBPink       = lipgloss.Color("201")
	RGBRed        = lipgloss.Color("196")
	RGBYellow     = lipgloss.Color("220")
	RGBGreen      = lipgloss.Color("46")
	RGBGrey       = lipgloss.Color("246")
	RGBSubtlePink = lipgloss.Color("#2a1a2a")
)

// General styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBPink)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(RGBGrey)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBBlue)

	HelpStyle = lipgloss.NewStyle().
			Foreground(RGBGrey)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(RGBRed).
			Bold(true)
)

// Syntax styles for the raw result panel
var (
	SyntaxKeyStyle    = lipgloss.NewStyle().Foreground(RGBBlue).Bold(true)
	SyntaxDashStyle   = lipgloss.NewStyle().Foreground(RGBPink)
	SyntaxNumberStyle = lipgloss.NewStyle().Foreground(RGBYellow)
)

// Table colorization styles
var (
	// cheapest method on a network
	StyleCostBest = lipgloss.NewStyle().Foreground(RGBGreen)

	// most expensive method on a network
	StyleCostWorst = lipgloss.NewStyle().Foreground(RGBRed)

	// wait times (faint like entry count)
	StyleDurationFaint = lipgloss.NewStyle().Faint(true)

	// histogram bars
	StyleBar = lipgloss.NewStyle().Foreground(RGBPink)
)

// methodPalette colors method names in order of first appearance
var methodPalette = []color.Color{RGBBlue, RGBYellow, RGBGreen, RGBPink, RGBGrey}

// ApplyTableStyles applies the Vacuum table theme to match exactly
func ApplyTableStyles(t table.Model) table.Model {
	s := table.DefaultStyles()

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		BorderBottom(true).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		Foreground(RGBPink).
		Bold(true).
		Padding(0, 1)

	s.Selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(RGBPink).
		Background(RGBSubtlePink).
		Padding(0, 0)

	s.Cell = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		BorderRight(false).
		Padding(0, 1)

	t.SetStyles(s)
	return t
}
