// Package layout drives a force.Engine to a finished layout: a bounded
// step loop with context cancellation, divergence detection, metric
// accumulation, and an optional displacement-based convergence stop.
package layout

import (
	"context"
	"fmt"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
)

type Runner struct {
	engine    *force.Engine
	metrics   []Metric
	observers []Observer
}

func New(engine *force.Engine) *Runner {
	return &Runner{
		engine:    engine,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps the engine until cfg.Steps iterations, convergence, or
// context cancellation, whichever comes first. The engine's node state
// after Run is the laid-out graph; Result carries a snapshot of it.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Displacement: make([]float64, 0, cfg.Steps),
		Metrics:      make(map[string]float64),
	}

	prev := r.engine.Nodes()

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.engine.Step(); err != nil {
			return result, err
		}

		nodes := r.engine.Nodes()
		result.StepsTaken++

		if cfg.ValidateState && !valid(nodes) {
			return result, fmt.Errorf("layout: diverged at step %d (NaN/Inf position)", i)
		}

		for _, m := range r.metrics {
			m.Observe(nodes, i)
		}
		for _, obs := range r.observers {
			obs.OnStep(nodes, i)
		}

		d := meanDisplacement(prev, nodes)
		result.Displacement = append(result.Displacement, d)
		prev = nodes

		if cfg.Converge > 0 && d < cfg.Converge {
			result.Converged = true
			break
		}
	}

	result.Nodes = r.engine.Nodes()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// RunWithCallback steps the engine and hands each snapshot to fn,
// stopping when fn returns false. Used by the live view.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, fn func(nodes []force.Node, step int) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.engine.Step(); err != nil {
			return err
		}

		nodes := r.engine.Nodes()
		if cfg.ValidateState && !valid(nodes) {
			return fmt.Errorf("layout: diverged at step %d (NaN/Inf position)", i)
		}

		if !fn(nodes, i) {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("layout: steps must be positive, got %d", cfg.Steps)
	}
	if cfg.Converge < 0 {
		return fmt.Errorf("layout: converge threshold must be non-negative, got %f", cfg.Converge)
	}
	return nil
}

func valid(nodes []force.Node) bool {
	for i := range nodes {
		if !nodes[i].Position.IsValid() || !nodes[i].Velocity.IsValid() {
			return false
		}
	}
	return true
}

func meanDisplacement(prev, cur []force.Node) float64 {
	if len(cur) == 0 || len(prev) != len(cur) {
		return 0
	}
	sum := 0.0
	for i := range cur {
		sum += cur[i].Position.Sub(prev[i].Position).Length()
	}
	return sum / float64(len(cur))
}
