package graph

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
)

// Ring places n nodes evenly on a circle in the xy plane with links
// between neighbors, rest length set to the chord between them.
func Ring(n int, radius float64) *Graph {
	g := newGraph(n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		g.Nodes[i].Position.X = radius * math.Cos(angle)
		g.Nodes[i].Position.Y = radius * math.Sin(angle)
		g.Nodes[i].Charge = DefaultCharge
		g.IDs[i] = fmt.Sprintf("ring-%d", i)
	}

	chord := 2 * radius * math.Sin(math.Pi/float64(n))
	for i := 0; i < n; i++ {
		g.addLink(i, (i+1)%n, chord, DefaultStrength)
	}
	return g
}

// Clusters builds k hubs with perCluster satellites each, satellites
// scattered within spread of their hub and linked to it. Hubs are
// chained together so the layout stays connected.
func Clusters(k, perCluster int, spread float64, seed int64) *Graph {
	rng := rand.New(rand.NewSource(seed))
	n := k * (perCluster + 1)
	g := newGraph(n)

	idx := 0
	for c := 0; c < k; c++ {
		hub := idx
		angle := float64(c) * 2 * math.Pi / float64(k)
		g.Nodes[hub].Position.X = spread * 4 * math.Cos(angle)
		g.Nodes[hub].Position.Y = spread * 4 * math.Sin(angle)
		g.Nodes[hub].Charge = 2 * DefaultCharge
		g.IDs[hub] = fmt.Sprintf("hub-%d", c)
		idx++

		for s := 0; s < perCluster; s++ {
			g.Nodes[idx].Position = g.Nodes[hub].Position
			g.Nodes[idx].Position.X += (rng.Float64()*2 - 1) * spread
			g.Nodes[idx].Position.Y += (rng.Float64()*2 - 1) * spread
			g.Nodes[idx].Position.Z += (rng.Float64()*2 - 1) * spread
			g.Nodes[idx].Charge = DefaultCharge
			g.IDs[idx] = fmt.Sprintf("hub-%d/node-%d", c, s)
			g.addLink(hub, idx, spread, DefaultStrength)
			idx++
		}
	}

	stride := perCluster + 1
	for c := 1; c < k; c++ {
		g.addLink((c-1)*stride, c*stride, spread*8, DefaultStrength/2)
	}
	return g
}

// Random scatters n nodes in a cube of the given side and draws links
// between uniformly chosen distinct pairs. Deterministic for a seed.
func Random(n, links int, side float64, seed int64) *Graph {
	rng := rand.New(rand.NewSource(seed))
	g := newGraph(n)
	for i := 0; i < n; i++ {
		g.Nodes[i].Position.X = (rng.Float64()*2 - 1) * side / 2
		g.Nodes[i].Position.Y = (rng.Float64()*2 - 1) * side / 2
		g.Nodes[i].Position.Z = (rng.Float64()*2 - 1) * side / 2
		g.Nodes[i].Charge = DefaultCharge
		g.IDs[i] = fmt.Sprintf("node-%d", i)
	}

	for i := 0; i < links && n > 1; i++ {
		a := rng.Intn(n)
		b := rng.Intn(n - 1)
		if b >= a {
			b++
		}
		g.addLink(a, b, DefaultDistance, DefaultStrength)
	}
	return g
}

func newGraph(n int) *Graph {
	return &Graph{
		IDs:   make([]string, n),
		Nodes: make([]force.Node, n),
	}
}

func (g *Graph) addLink(source, target int, distance, strength float64) {
	g.Links = append(g.Links, force.Link{Source: source, Target: target})
	g.Distances = append(g.Distances, distance)
	g.Strengths = append(g.Strengths, strength)
}
