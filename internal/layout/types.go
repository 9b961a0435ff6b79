package layout

import "github.com/tfrere/joshua-exhibition-graph/internal/force"

// Metric accumulates a scalar over the course of a layout run.
type Metric interface {
	Name() string
	Observe(nodes []force.Node, step int)
	Value() float64
	Reset()
}

// Observer receives the node snapshot after every step.
type Observer interface {
	OnStep(nodes []force.Node, step int)
}

type Config struct {
	// Steps is the hard upper bound on iterations.
	Steps int
	// Converge stops the run early once mean per-node displacement in a
	// step drops below this value. Zero disables early stopping.
	Converge float64
	// ValidateState aborts the run if any position or velocity goes
	// NaN/Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps:         300,
		Converge:      0,
		ValidateState: true,
	}
}

type Result struct {
	Nodes        []force.Node
	StepsTaken   int
	Converged    bool
	Displacement []float64
	Metrics      map[string]float64
}
