// Package report prints summaries of a stored analysis result.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pb33f/pfesim/motor/model"
)

// Summary modes.
const (
	ModeCostSummary              = "cost_summary"
	ModeCategorySummary          = "category_summary"
	ModeLatencyDistribution      = "latency_distribution"
	ModeCostDistribution         = "cost_distribution"
	ModeRequestSizeDistribution  = "request_size_distribution"
	ModeResponseSizeDistribution = "response_size_distribution"
)

// Usage lists the modes and their arguments.
const Usage = `Available modes:
  cost_summary - the total cost for each method and network model.
  category_summary - the weighted total cost and bytes for each method and network category.
  latency_distribution <method> <network> - the page view latency distribution for a method and network model.
  cost_distribution <method> <network> - the page view cost distribution for a method and network model.
  request_size_distribution <method> [network] - the request size distribution for a method.
  response_size_distribution <method> [network] - the response size distribution for a method.`

// ErrUsage is returned for an unknown mode or missing arguments.
var ErrUsage = errors.New("invalid summary arguments")

// Modes lists every mode in usage order.
func Modes() []string {
	return []string{
		ModeCostSummary,
		ModeCategorySummary,
		ModeLatencyDistribution,
		ModeCostDistribution,
		ModeRequestSizeDistribution,
		ModeResponseSizeDistribution,
	}
}

// Summarize writes the summary selected by mode as comma separated lines.
func Summarize(w io.Writer, result *model.AnalysisResult, mode string, args []string) error {
	switch mode {
	case ModeCostSummary:
		return CostSummary(w, result)
	case ModeCategorySummary:
		return CategorySummary(w, result)
	case ModeLatencyDistribution, ModeCostDistribution:
		if len(args) < 2 {
			return fmt.Errorf("%s needs a method and a network: %w", mode, ErrUsage)
		}
		network, err := result.FindNetwork(args[0], args[1])
		if err != nil {
			return err
		}
		if mode == ModeLatencyDistribution {
			return WriteDistribution(w, network.WaitPerPageViewMs)
		}
		return WriteDistribution(w, network.CostPerPageView)
	case ModeRequestSizeDistribution, ModeResponseSizeDistribution:
		if len(args) < 1 {
			return fmt.Errorf("%s needs a method: %w", mode, ErrUsage)
		}
		network, err := sizeNetwork(result, args)
		if err != nil {
			return err
		}
		if mode == ModeRequestSizeDistribution {
			return WriteDistribution(w, network.RequestBytesPerPageView)
		}
		return WriteDistribution(w, network.ResponseBytesPerPageView)
	default:
		return fmt.Errorf("unknown mode %q: %w", mode, ErrUsage)
	}
}

// sizeNetwork picks the network whose byte distributions are reported. Bytes
// do not depend on the network, so without one the first is used.
func sizeNetwork(result *model.AnalysisResult, args []string) (*model.NetworkResult, error) {
	if len(args) > 1 {
		return result.FindNetwork(args[0], args[1])
	}
	method, err := result.FindMethod(args[0])
	if err != nil {
		return nil, err
	}
	if len(method.ResultsByNetwork) == 0 {
		return nil, &model.NotFoundError{Method: args[0], Network: "(any)"}
	}
	return &method.ResultsByNetwork[0], nil
}

// CostSummary writes "method, network, total cost" per network result.
func CostSummary(w io.Writer, result *model.AnalysisResult) error {
	for _, m := range result.Results {
		for _, n := range m.ResultsByNetwork {
			if _, err := fmt.Fprintf(w, "%s, %s, %.1f\n", m.MethodName, n.NetworkModelName, n.TotalCost); err != nil {
				return err
			}
		}
	}
	return nil
}

// CategorySummary writes "method, category, total cost, total bytes" per
// category result.
func CategorySummary(w io.Writer, result *model.AnalysisResult) error {
	for _, m := range result.Results {
		for _, c := range m.ResultsByCategory {
			if _, err := fmt.Fprintf(w, "%s, %s, %.1f, %.0f\n",
				m.MethodName, c.NetworkCategory, c.TotalCost(), c.TotalBytes()); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteDistribution writes "end, count" per bucket.
func WriteDistribution(w io.Writer, d model.Distribution) error {
	for _, b := range d.Buckets {
		if _, err := fmt.Fprintf(w, "%s, %d\n", strconv.FormatFloat(b.End, 'f', -1, 64), b.Count); err != nil {
			return err
		}
	}
	return nil
}
