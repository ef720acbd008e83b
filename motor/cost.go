package motor

import "fmt"

// CostFunction converts a wait time in milliseconds into a cost. Cost models
// are pure so they can be shared by every worker.
type CostFunction func(timeMs float64) float64

// LinearCost charges scale per millisecond waited.
func LinearCost(scale float64) CostFunction {
	return func(timeMs float64) float64 {
		return timeMs * scale
	}
}

// ThresholdCost ignores waits up to thresholdMs and charges scale per
// millisecond beyond it, modelling waits a reader does not notice.
func ThresholdCost(thresholdMs, scale float64) CostFunction {
	return func(timeMs float64) float64 {
		if timeMs <= thresholdMs {
			return 0
		}
		return (timeMs - thresholdMs) * scale
	}
}

// CostModel is the serialisable description of a cost function.
type CostModel struct {
	Kind        string  `yaml:"kind"` // "linear" or "threshold"
	Scale       float64 `yaml:"scale"`
	ThresholdMs float64 `yaml:"threshold_ms,omitempty"`
}

// DefaultCostModel charges one unit per millisecond.
func DefaultCostModel() CostModel {
	return CostModel{Kind: "linear", Scale: 1}
}

// Function builds the cost function described by the model.
func (c CostModel) Function() (CostFunction, error) {
	switch c.Kind {
	case "", "linear":
		return LinearCost(c.Scale), nil
	case "threshold":
		if c.ThresholdMs < 0 {
			return nil, fmt.Errorf("threshold cost model: threshold must not be negative, got %v", c.ThresholdMs)
		}
		return ThresholdCost(c.ThresholdMs, c.Scale), nil
	default:
		return nil, fmt.Errorf("unknown cost model %q", c.Kind)
	}
}
