package metrics

import "github.com/tfrere/joshua-exhibition-graph/internal/force"

// Kinetic averages the total kinetic energy (unit mass per node) over
// the observed steps.
type Kinetic struct {
	name    string
	total   float64
	samples int
}

func NewKinetic() *Kinetic {
	return &Kinetic{name: "kinetic"}
}

func (k *Kinetic) Name() string { return k.name }

func (k *Kinetic) Observe(nodes []force.Node, step int) {
	ke := 0.0
	for i := range nodes {
		v := nodes[i].Velocity
		ke += 0.5 * v.Dot(v)
	}
	k.total += ke
	k.samples++
}

func (k *Kinetic) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *Kinetic) Reset() {
	k.total = 0
	k.samples = 0
}
