package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/bubbles/v2/viewport"
	"github.com/pb33f/pfesim/motor/model"
)

// ViewMode represents the different view states
type ViewMode int

const (
	ViewModeTable ViewMode = iota
	ViewModeTableWithSplit
)

// ViewportFocus names the split panel receiving scroll keys
type ViewportFocus int

const (
	ViewportFocusDetails ViewportFocus = iota
	ViewportFocusRaw
)

// ResultViewModel browses a stored analysis result: one table row per
// method and network, with histograms and the raw record in a split panel.
type ResultViewModel struct {
	table   table.Model
	result  *model.AnalysisResult
	allRows []resultRow
	visible []resultRow
	rows    []table.Row
	ranks   []costRank
	methods map[string]string

	filters        *FilterChain
	methodFilter   *MethodFilter
	categoryFilter *CategoryFilter

	viewMode ViewMode
	width    int
	height   int
	ready    bool
	quitting bool

	detailsViewport viewport.Model
	rawViewport     viewport.Model
	splitVisible    bool
	focusedViewport ViewportFocus

	fileName string

	loadState      LoadState
	loadingSpinner spinner.Model
	loadTime       time.Duration

	err error
}

func NewResultViewModel(fileName string) *ResultViewModel {
	return &ResultViewModel{
		fileName:       fileName,
		viewMode:       ViewModeTable,
		loadState:      LoadStateLoading,
		loadingSpinner: createLoadingSpinner(),
	}
}

func (m *ResultViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadingSpinner.Tick,
		m.startLoading(),
	)
}

func (m *ResultViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if m.loadState == LoadStateLoading {
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case resultLoadedMsg:
		m.setResult(msg.result)
		m.loadTime = msg.duration
		if m.width > 0 && m.height > 0 {
			m.initializeTable()
			m.ready = true
		}
		return m, nil

	case resultErrorMsg:
		m.loadState = LoadStateError
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if m.loadState == LoadStateLoaded && !m.ready {
			m.initializeTable()
			m.ready = true
		} else if m.ready {
			m.updateTableDimensions()
		}

		if m.splitVisible {
			m.updateViewportDimensions()
			m.updateViewportContent()
		}

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter", "return":
			if m.ready {
				m.toggleSplitView()
			}
			return m, nil

		case "esc":
			if !m.ready {
				return m, nil
			}
			if m.splitVisible {
				m.toggleSplitView()
			} else if m.filters.HasActiveFilters() {
				m.methodFilter.Clear()
				m.categoryFilter.Clear()
				m.refreshRows()
			}
			return m, nil

		case "tab":
			if m.splitVisible {
				if m.focusedViewport == ViewportFocusDetails {
					m.focusedViewport = ViewportFocusRaw
				} else {
					m.focusedViewport = ViewportFocusDetails
				}
			}
			return m, nil

		case "m":
			if m.ready && !m.splitVisible {
				m.methodFilter.Next()
				m.refreshRows()
			}
			return m, nil

		case "c":
			if m.ready && !m.splitVisible {
				m.categoryFilter.Next()
				m.refreshRows()
			}
			return m, nil
		}
	}

	if m.ready {
		if !m.splitVisible {
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		} else if m.focusedViewport == ViewportFocusDetails {
			m.detailsViewport, cmd = m.detailsViewport.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			m.rawViewport, cmd = m.rawViewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *ResultViewModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.loadState {
	case LoadStateLoading:
		return m.renderLoadingView()
	case LoadStateError:
		return m.renderErrorView()
	case LoadStateLoaded:
		if !m.ready {
			return "Initializing..."
		}
		return m.render()
	default:
		return "Unknown state"
	}
}

func (m *ResultViewModel) setResult(result *model.AnalysisResult) {
	m.loadState = LoadStateLoaded
	m.result = result
	m.allRows = indexRows(result)
	m.methods = renderMethodNames(result)
	m.methodFilter = NewMethodFilter(result)
	m.categoryFilter = NewCategoryFilter(result)
	m.filters = NewFilterChain(m.methodFilter, m.categoryFilter)
}

func (m *ResultViewModel) tableHeight() int {
	h := m.height - tableVerticalPadding
	if m.splitVisible {
		h /= 2
	}
	return max(h, 1)
}

func (m *ResultViewModel) initializeTable() {
	m.buildTableRows()
	m.ranks = rankCosts(m.result, m.visible)

	m.table = table.New(
		table.WithColumns(m.tableColumns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
		table.WithWidth(m.width),
	)

	m.table = ApplyTableStyles(m.table)
}

// refreshRows reapplies the filters and resets the cursor
func (m *ResultViewModel) refreshRows() {
	m.buildTableRows()
	m.ranks = rankCosts(m.result, m.visible)
	m.table.SetRows(m.rows)
	m.table.SetCursor(0)
}

func (m *ResultViewModel) updateTableDimensions() {
	m.table.SetHeight(m.tableHeight())
	m.table.SetWidth(m.width)
	m.table.SetColumns(m.tableColumns())

	// network names are truncated to the column width
	m.buildTableRows()
	m.table.SetRows(m.rows)
}

func (m *ResultViewModel) updateViewportDimensions() {
	splitHeight := max((m.height-tableVerticalPadding)/2-splitPanelPadding, 1)
	splitWidth := max((m.width/2)-splitPanelPadding, 1)

	if m.detailsViewport.Width() == 0 {
		m.detailsViewport = viewport.New(viewport.WithWidth(splitWidth), viewport.WithHeight(splitHeight))
		m.rawViewport = viewport.New(viewport.WithWidth(splitWidth), viewport.WithHeight(splitHeight))
	} else {
		m.detailsViewport.SetWidth(splitWidth)
		m.detailsViewport.SetHeight(splitHeight)
		m.rawViewport.SetWidth(splitWidth)
		m.rawViewport.SetHeight(splitHeight)
	}
}

func (m *ResultViewModel) toggleSplitView() {
	if m.viewMode == ViewModeTable {
		if m.selected() == nil {
			return
		}
		m.viewMode = ViewModeTableWithSplit
		m.splitVisible = true
		m.focusedViewport = ViewportFocusDetails
		m.updateTableDimensions()
		m.updateViewportDimensions()
		m.updateViewportContent()
	} else {
		m.viewMode = ViewModeTable
		m.splitVisible = false
		m.updateTableDimensions()
	}
}

// selected is the row under the cursor, nil when the table is empty
func (m *ResultViewModel) selected() *resultRow {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[cursor]
}
