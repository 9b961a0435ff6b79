package metrics

import (
	"math"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
)

// Spread tracks the maximum distance of any node from the centroid over
// the run. A runaway value flags an exploding layout.
type Spread struct {
	name string
	max  float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(nodes []force.Node, step int) {
	if len(nodes) == 0 {
		return
	}

	var c force.Vec3
	for i := range nodes {
		c = c.Add(nodes[i].Position)
	}
	c = c.Scale(1 / float64(len(nodes)))

	for i := range nodes {
		s.max = math.Max(s.max, nodes[i].Position.Sub(c).Length())
	}
}

func (s *Spread) Value() float64 { return s.max }

func (s *Spread) Reset() { s.max = 0 }
