// Package metrics provides layout.Metric implementations observed over
// a layout run: convergence, motion energy, and spatial spread.
package metrics

import "github.com/tfrere/joshua-exhibition-graph/internal/force"

// Displacement tracks the mean per-node movement of the most recent
// step. A shrinking value means the layout is settling.
type Displacement struct {
	name string
	prev []force.Vec3
	last float64
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement"}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) Observe(nodes []force.Node, step int) {
	if len(d.prev) != len(nodes) {
		d.prev = make([]force.Vec3, len(nodes))
		for i := range nodes {
			d.prev[i] = nodes[i].Position
		}
		d.last = 0
		return
	}

	sum := 0.0
	for i := range nodes {
		sum += nodes[i].Position.Sub(d.prev[i]).Length()
		d.prev[i] = nodes[i].Position
	}
	if len(nodes) > 0 {
		d.last = sum / float64(len(nodes))
	}
}

func (d *Displacement) Value() float64 { return d.last }

func (d *Displacement) Reset() {
	d.prev = nil
	d.last = 0
}
