package model

import "fmt"

// NotFoundError is returned when a report does not contain the requested
// method or network model.
type NotFoundError struct {
	Method  string
	Network string // empty when the method itself is missing
}

func (e *NotFoundError) Error() string {
	if e.Network == "" {
		return fmt.Sprintf("cannot find method result %s", e.Method)
	}
	return fmt.Sprintf("cannot find network result for %s and %s", e.Method, e.Network)
}

// FindMethod locates the result for method. Exactly one match is required.
func (r *AnalysisResult) FindMethod(method string) (*MethodResult, error) {
	var found *MethodResult
	for i := range r.Results {
		if r.Results[i].MethodName != method {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("method result %s is ambiguous: %w", method, &NotFoundError{Method: method})
		}
		found = &r.Results[i]
	}
	if found == nil {
		return nil, &NotFoundError{Method: method}
	}
	return found, nil
}

// FindNetwork locates the result for method on network.
func (r *AnalysisResult) FindNetwork(method, network string) (*NetworkResult, error) {
	m, err := r.FindMethod(method)
	if err != nil {
		return nil, err
	}
	return m.FindNetwork(network)
}

// FindNetwork locates the result for a network model within the method.
func (m *MethodResult) FindNetwork(network string) (*NetworkResult, error) {
	var found *NetworkResult
	for i := range m.ResultsByNetwork {
		if m.ResultsByNetwork[i].NetworkModelName != network {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("network result %s is ambiguous: %w",
				network, &NotFoundError{Method: m.MethodName, Network: network})
		}
		found = &m.ResultsByNetwork[i]
	}
	if found == nil {
		return nil, &NotFoundError{Method: m.MethodName, Network: network}
	}
	return found, nil
}
