package motor

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/pb33f/pfesim/motor/model"
)

// AnalyzerOptions configures how simulated sessions are turned into reports.
type AnalyzerOptions struct {
	Cost       CostFunction     // default: one unit per millisecond
	Weights    WeightTable      // default: DefaultWeights
	Histograms HistogramOptions // default: DefaultHistogramOptions()
	RunID      string           // default: a random uuid per Analyze call
	Logger     *slog.Logger     // default: slog.Default()
}

// DefaultAnalyzerOptions provides sensible defaults
func DefaultAnalyzerOptions() AnalyzerOptions {
	return AnalyzerOptions{
		Cost:       LinearCost(1),
		Weights:    DefaultWeights,
		Histograms: DefaultHistogramOptions(),
		Logger:     slog.Default(),
	}
}

// Analyzer rolls simulated sessions up into per method, per network and per
// network category statistics.
type Analyzer struct {
	opts AnalyzerOptions
}

// NewAnalyzer creates an analyzer, filling unset options with defaults.
// Histogram specs that fail validation fall back one by one.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	defaults := DefaultAnalyzerOptions()
	if opts.Cost == nil {
		opts.Cost = defaults.Cost
	}
	if opts.Weights == nil {
		opts.Weights = defaults.Weights
	}
	opts.Histograms = opts.Histograms.orDefaults(defaults.Histograms)
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}
	return &Analyzer{opts: opts}
}

// VariantBatch is every session simulated under one network variant.
type VariantBatch struct {
	Label     NetworkLabel
	Sequences []SequenceTotals
}

// Categories combines the variants of each network category into one weighted
// cost and byte figure per session. Sessions are matched by position, so every
// variant of a category must hold the same number of them. For session i:
//
//	cost[i]  = Σ weight(variant) × cost(total time of session i in variant)
//	bytes[i] = Σ weight(variant) × total bytes of session i in variant
//
// Categories are returned in the order they first appear in batches.
func (a *Analyzer) Categories(batches []VariantBatch) ([]model.CategoryResult, error) {
	var order []string
	byCategory := make(map[string][]VariantBatch)
	for _, b := range batches {
		if _, seen := byCategory[b.Label.Category]; !seen {
			order = append(order, b.Label.Category)
		}
		byCategory[b.Label.Category] = append(byCategory[b.Label.Category], b)
	}

	results := make([]model.CategoryResult, 0, len(order))
	for _, category := range order {
		variants := byCategory[category]
		count := len(variants[0].Sequences)

		result := model.CategoryResult{
			NetworkCategory:  category,
			CostPerSequence:  make([]float64, count),
			BytesPerSequence: make([]float64, count),
		}

		for _, v := range variants {
			if len(v.Sequences) != count {
				return nil, &MisalignedBatchError{
					Category: category,
					Variant:  v.Label.Variant,
					Expected: count,
					Got:      len(v.Sequences),
				}
			}
			weight, ok := a.opts.Weights.Weight(v.Label.Variant)
			if !ok {
				return nil, &UnknownVariantError{Category: category, Variant: v.Label.Variant}
			}
			for i, seq := range v.Sequences {
				result.CostPerSequence[i] += weight * a.opts.Cost(seq.TotalTimeMs())
				result.BytesPerSequence[i] += weight * float64(seq.TotalBytes())
			}
		}

		a.opts.Logger.Debug("network category aggregated",
			"category", category,
			"variants", len(variants),
			"sequences", count)
		results = append(results, result)
	}
	return results, nil
}

// NetworkResult summarises the sessions of one method on one network model.
// Totals are summed over sessions; histograms count individual page views.
func (a *Analyzer) NetworkResult(network string, sequences []SequenceTotals) model.NetworkResult {
	result := model.NetworkResult{NetworkModelName: network}

	var wait, cost, requestBytes, responseBytes []float64
	for _, seq := range sequences {
		result.TotalCost += a.opts.Cost(seq.TotalTimeMs())
		for _, g := range seq.Graphs {
			result.TotalWaitTimeMs += g.TimeMs
			result.TotalRequestBytes += g.RequestBytes
			result.TotalResponseBytes += g.ResponseBytes
			result.TotalRequestCount += int64(g.RequestCount)

			wait = append(wait, g.TimeMs)
			cost = append(cost, a.opts.Cost(g.TimeMs))
			requestBytes = append(requestBytes, float64(g.RequestBytes))
			responseBytes = append(responseBytes, float64(g.ResponseBytes))
		}
	}

	result.WaitPerPageViewMs = a.opts.Histograms.WaitMs.Build(wait)
	result.CostPerPageView = a.opts.Histograms.Cost.Build(cost)
	result.RequestBytesPerPageView = a.opts.Histograms.RequestBytes.Build(requestBytes)
	result.ResponseBytesPerPageView = a.opts.Histograms.ResponseBytes.Build(responseBytes)
	return result
}

// Analyze builds the report for a result set. Methods and networks are sorted
// by name. Networks with an entry in labels also feed the weighted category
// results of their method; networks without one are only reported on their own.
func (a *Analyzer) Analyze(results *ResultSet, labels map[string]NetworkLabel) (*model.AnalysisResult, error) {
	runID := a.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	report := &model.AnalysisResult{RunID: runID}

	methods := results.Methods()
	slices.Sort(methods)

	for _, method := range methods {
		networks := results.Networks(method)
		methodResult := model.MethodResult{MethodName: method}

		var batches []VariantBatch
		for _, network := range networks {
			seqs, _ := results.Sequences(method, network)
			label, ok := labels[network]
			if !ok {
				a.opts.Logger.Debug("network has no category label, skipping weighted aggregation",
					"method", method, "network", network)
				continue
			}
			batches = append(batches, VariantBatch{Label: label, Sequences: seqs})
		}

		sorted := slices.Clone(networks)
		slices.Sort(sorted)
		for _, network := range sorted {
			seqs, _ := results.Sequences(method, network)
			methodResult.ResultsByNetwork = append(methodResult.ResultsByNetwork, a.NetworkResult(network, seqs))
		}

		categories, err := a.Categories(batches)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", method, err)
		}
		methodResult.ResultsByCategory = categories

		a.opts.Logger.Debug("method analysed",
			"method", method,
			"networks", len(networks),
			"categories", len(categories))
		report.Results = append(report.Results, methodResult)
	}
	return report, nil
}
