package tui

import (
	"strings"

	"github.com/pb33f/pfesim/motor/model"
)

// ResultFilter defines a filter that can show/hide result rows
type ResultFilter interface {
	ShouldShow(method *model.MethodResult, network *model.NetworkResult) bool
	IsActive() bool
}

// MethodFilter keeps the rows of one method. Cycling walks every method of
// the report and then back to showing all of them.
type MethodFilter struct {
	methods []string
	current int // -1 shows every method
}

// NewMethodFilter creates an inactive filter over the report's methods
func NewMethodFilter(result *model.AnalysisResult) *MethodFilter {
	f := &MethodFilter{current: -1}
	for _, m := range result.Results {
		f.methods = append(f.methods, m.MethodName)
	}
	return f
}

func (f *MethodFilter) ShouldShow(method *model.MethodResult, _ *model.NetworkResult) bool {
	return method.MethodName == f.methods[f.current]
}

func (f *MethodFilter) IsActive() bool {
	return f.current >= 0 && f.current < len(f.methods)
}

// Next selects the following method, wrapping to inactive after the last
func (f *MethodFilter) Next() {
	f.current++
	if f.current >= len(f.methods) {
		f.current = -1
	}
}

// Method names the selected method, empty when inactive
func (f *MethodFilter) Method() string {
	if !f.IsActive() {
		return ""
	}
	return f.methods[f.current]
}

// Clear shows every method again
func (f *MethodFilter) Clear() {
	f.current = -1
}

// CategoryFilter keeps networks whose model name starts with a category
// prefix, e.g. "mobile" keeps mobile_slow and mobile_fast.
type CategoryFilter struct {
	categories []string
	current    int
}

// NewCategoryFilter collects the categories reported by any method
func NewCategoryFilter(result *model.AnalysisResult) *CategoryFilter {
	f := &CategoryFilter{current: -1}
	seen := make(map[string]struct{})
	for _, m := range result.Results {
		for _, c := range m.ResultsByCategory {
			if _, ok := seen[c.NetworkCategory]; ok {
				continue
			}
			seen[c.NetworkCategory] = struct{}{}
			f.categories = append(f.categories, c.NetworkCategory)
		}
	}
	return f
}

func (f *CategoryFilter) ShouldShow(_ *model.MethodResult, network *model.NetworkResult) bool {
	category := f.categories[f.current]
	name := network.NetworkModelName
	return name == category || strings.HasPrefix(name, category+"_")
}

func (f *CategoryFilter) IsActive() bool {
	return f.current >= 0 && f.current < len(f.categories)
}

// Next selects the following category, wrapping to inactive after the last
func (f *CategoryFilter) Next() {
	f.current++
	if f.current >= len(f.categories) {
		f.current = -1
	}
}

// Category names the selected category, empty when inactive
func (f *CategoryFilter) Category() string {
	if !f.IsActive() {
		return ""
	}
	return f.categories[f.current]
}

// Clear shows every category again
func (f *CategoryFilter) Clear() {
	f.current = -1
}

// FilterChain combines multiple filters
type FilterChain struct {
	filters []ResultFilter
}

// NewFilterChain creates a new filter chain
func NewFilterChain(filters ...ResultFilter) *FilterChain {
	return &FilterChain{filters: filters}
}

// HasActiveFilters returns true if any filter is active
func (fc *FilterChain) HasActiveFilters() bool {
	for _, filter := range fc.filters {
		if filter.IsActive() {
			return true
		}
	}
	return false
}

// Apply keeps the rows every active filter shows
func (fc *FilterChain) Apply(result *model.AnalysisResult, rows []resultRow) []resultRow {
	if !fc.HasActiveFilters() {
		return rows
	}

	kept := make([]resultRow, 0, len(rows))
	for _, r := range rows {
		method := &result.Results[r.method]
		network := &method.ResultsByNetwork[r.network]
		show := true
		for _, filter := range fc.filters {
			if filter.IsActive() && !filter.ShouldShow(method, network) {
				show = false
				break
			}
		}
		if show {
			kept = append(kept, r)
		}
	}
	return kept
}
