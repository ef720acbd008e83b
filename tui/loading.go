package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/pfesim/motor/model"
)

type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
	LoadStateError
)

type resultLoadedMsg struct {
	result   *model.AnalysisResult
	duration time.Duration
}

type resultErrorMsg struct {
	err error
}

func (m *ResultViewModel) startLoading() tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		result, err := model.ReadFile(m.fileName)
		if err != nil {
			return resultErrorMsg{err: err}
		}

		return resultLoadedMsg{
			result:   result,
			duration: time.Since(start),
		}
	}
}

func (m *ResultViewModel) renderLoadingView() string {
	spinnerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	title := TitleStyle.Render("Loading simulation result")
	fileInfo := SubtitleStyle.Render(fmt.Sprintf("\n%s", m.fileName))

	return spinnerStyle.Render(fmt.Sprintf("%s %s%s", m.loadingSpinner.View(), title, fileInfo))
}

func (m *ResultViewModel) renderErrorView() string {
	errorStyle := ErrorStyle.
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	errorMsg := fmt.Sprintf("Error loading simulation result\n\n%v\n\nPress 'q' to quit", m.err)
	return errorStyle.Render(errorMsg)
}

// matching vacuum's Dot spinner
func createLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(RGBPink)
	return s
}
