package motor

import "context"

// Method is a font delivery strategy under evaluation. Each simulated browsing
// session gets its own Session so state such as already downloaded subsets is
// never shared between sessions.
type Method interface {
    // Name identifies the method in results
    Name() string

    // StartSession opens a fresh browsing session
    StartSession() Session
}

// Session turns the page views of one browsing session into request graphs
type Session interface {
    // PageView records one page load and appends its request graph
    PageView(view PageView) error

    // RequestGraphs returns one graph per page view, in page view order
    RequestGraphs() []*RequestGraph
}

// PageView is a single page load: the codepoints it renders, keyed by font id.
// ID optionally names the page (a URL or a HAR page reference).
type PageView struct {
    ID         string
    Codepoints map[string][]rune
}

// Cache stores computed sizes keyed by string
// implementations are owned by one run and must be safe for concurrent use
type Cache interface {
    // Get retrieves a value from cache
    Get(key string) (int64, bool)

    // Put stores a value in cache
    Put(key string, value int64)

    // Clear removes all values from cache
    Clear()

    // Size returns the current number of cached values
    Size() int
}

// SimulationRunner runs a scenario to completion
type SimulationRunner interface {
    // Run simulates every session of every method on every network
    Run(ctx context.Context, scenario Scenario) (*ResultSet, error)

    // Stats returns current runner statistics
    Stats() RunnerStats
}
