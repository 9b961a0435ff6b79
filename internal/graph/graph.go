// Package graph is the file boundary of the layout engine: it loads and
// saves node/link JSON, and converts between that representation and the
// engine's arrays. The engine itself never sees JSON; everything crosses
// this boundary as copied values.
package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
)

const (
	DefaultDistance = 30.0
	DefaultStrength = 0.1
	DefaultCharge   = 1.0
)

// Graph holds a topology plus per-link constraints in engine order.
// IDs carries the external identifier of each node, parallel to Nodes.
type Graph struct {
	IDs       []string
	Nodes     []force.Node
	Links     []force.Link
	Distances []float64
	Strengths []float64
}

type vecJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type nodeJSON struct {
	ID       string   `json:"id"`
	Position vecJSON  `json:"position"`
	Velocity *vecJSON `json:"velocity,omitempty"`
	Charge   *float64 `json:"charge,omitempty"`
}

type linkJSON struct {
	Source   int      `json:"source"`
	Target   int      `json:"target"`
	Distance *float64 `json:"distance,omitempty"`
	Strength *float64 `json:"strength,omitempty"`
}

type fileJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Links []linkJSON `json:"links"`
}

// Load reads a graph file, applying per-field defaults for omitted
// velocity, charge, distance and strength, and validating link indices.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses the JSON graph format.
func Decode(data []byte) (*Graph, error) {
	var f fileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}

	g := &Graph{
		IDs:       make([]string, len(f.Nodes)),
		Nodes:     make([]force.Node, len(f.Nodes)),
		Links:     make([]force.Link, len(f.Links)),
		Distances: make([]float64, len(f.Links)),
		Strengths: make([]float64, len(f.Links)),
	}

	for i, n := range f.Nodes {
		g.IDs[i] = n.ID
		g.Nodes[i].Position = force.Vec3{X: n.Position.X, Y: n.Position.Y, Z: n.Position.Z}
		if n.Velocity != nil {
			g.Nodes[i].Velocity = force.Vec3{X: n.Velocity.X, Y: n.Velocity.Y, Z: n.Velocity.Z}
		}
		g.Nodes[i].Charge = DefaultCharge
		if n.Charge != nil {
			g.Nodes[i].Charge = *n.Charge
		}
	}

	for i, l := range f.Links {
		if l.Source < 0 || l.Source >= len(f.Nodes) || l.Target < 0 || l.Target >= len(f.Nodes) {
			return nil, fmt.Errorf("graph: link %d references node out of range (%d -> %d, %d nodes)",
				i, l.Source, l.Target, len(f.Nodes))
		}
		g.Links[i] = force.Link{Source: l.Source, Target: l.Target}
		g.Distances[i] = DefaultDistance
		if l.Distance != nil {
			g.Distances[i] = *l.Distance
		}
		g.Strengths[i] = DefaultStrength
		if l.Strength != nil {
			g.Strengths[i] = *l.Strength
		}
	}

	return g, nil
}

// Save writes the graph back in the same format, positions included.
func Save(path string, g *Graph) error {
	data, err := Encode(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Encode serializes the graph to the JSON file format.
func Encode(g *Graph) ([]byte, error) {
	f := fileJSON{
		Nodes: make([]nodeJSON, len(g.Nodes)),
		Links: make([]linkJSON, len(g.Links)),
	}

	for i, n := range g.Nodes {
		id := ""
		if i < len(g.IDs) {
			id = g.IDs[i]
		}
		vel := vecJSON{n.Velocity.X, n.Velocity.Y, n.Velocity.Z}
		charge := n.Charge
		f.Nodes[i] = nodeJSON{
			ID:       id,
			Position: vecJSON{n.Position.X, n.Position.Y, n.Position.Z},
			Velocity: &vel,
			Charge:   &charge,
		}
	}

	for i, l := range g.Links {
		d, s := g.Distances[i], g.Strengths[i]
		f.Links[i] = linkJSON{Source: l.Source, Target: l.Target, Distance: &d, Strength: &s}
	}

	return json.MarshalIndent(f, "", "  ")
}

// Apply installs the graph's arrays into the engine. The engine takes
// its own copies.
func (g *Graph) Apply(e *force.Engine) {
	e.SetNodes(g.Nodes)
	e.SetLinks(g.Links)
	e.SetDistances(g.Distances)
	e.SetStrengths(g.Strengths)
}

// Capture copies the engine's current node state back into the graph,
// leaving topology and constraints as they are.
func (g *Graph) Capture(e *force.Engine) {
	g.Nodes = e.Nodes()
}
