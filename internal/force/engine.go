package force

import "fmt"

// Node is one simulated point: position and velocity in world space plus
// the charge driving pairwise repulsion.
type Node struct {
	Position Vec3
	Velocity Vec3
	Charge   float64
}

// Link connects two nodes by index into the engine's node array.
type Link struct {
	Source int
	Target int
}

// Engine advances a force-directed layout one discrete step at a time.
// Each Step runs charge repulsion over all node pairs, spring forces over
// all links, then integrates velocity into position with damping.
//
// An Engine is single-owner: Step and the setters must not be called
// concurrently on the same instance.
type Engine struct {
	maxDistance   float64
	velocityDecay float64

	nodes     []Node
	links     []Link
	distances []float64
	strengths []float64

	// Workers > 1 fans the repulsion and integration phases out across
	// node ranges. Results are identical to the serial path.
	Workers int
}

// New returns an Engine with the given repulsion cutoff radius and
// per-step velocity damping factor. Both are stored verbatim.
func New(maxDistance, velocityDecay float64) *Engine {
	return &Engine{
		maxDistance:   maxDistance,
		velocityDecay: velocityDecay,
	}
}

func (e *Engine) MaxDistance() float64   { return e.maxDistance }
func (e *Engine) VelocityDecay() float64 { return e.velocityDecay }
func (e *Engine) NodeCount() int         { return len(e.nodes) }
func (e *Engine) LinkCount() int         { return len(e.links) }

// SetNodes replaces the entire node array. The engine stores a copy and
// never aliases the caller's slice. Velocities carry over only if the
// caller put them there.
func (e *Engine) SetNodes(nodes []Node) {
	e.nodes = make([]Node, len(nodes))
	copy(e.nodes, nodes)
}

// SetLinks replaces the entire link array with a copy.
func (e *Engine) SetLinks(links []Link) {
	e.links = make([]Link, len(links))
	copy(e.links, links)
}

// SetDistances replaces the per-link rest lengths, indexed in parallel
// with the link array.
func (e *Engine) SetDistances(values []float64) {
	e.distances = make([]float64, len(values))
	copy(e.distances, values)
}

// SetStrengths replaces the per-link spring stiffness values, indexed in
// parallel with the link array.
func (e *Engine) SetStrengths(values []float64) {
	e.strengths = make([]float64, len(values))
	copy(e.strengths, values)
}

// Nodes returns a snapshot copy of the current node state. Two calls
// without an intervening Step return identical contents.
func (e *Engine) Nodes() []Node {
	out := make([]Node, len(e.nodes))
	copy(out, e.nodes)
	return out
}

// Links returns a copy of the current link topology.
func (e *Engine) Links() []Link {
	out := make([]Link, len(e.links))
	copy(out, e.links)
	return out
}

// validate checks link indices and constraint lengths. Step calls it
// before touching any node, so an invalid call never corrupts state.
func (e *Engine) validate() error {
	n := len(e.nodes)
	for i, l := range e.links {
		if l.Source < 0 || l.Source >= n {
			return fmt.Errorf("%w: link %d source %d (nodes: %d)", ErrLinkIndex, i, l.Source, n)
		}
		if l.Target < 0 || l.Target >= n {
			return fmt.Errorf("%w: link %d target %d (nodes: %d)", ErrLinkIndex, i, l.Target, n)
		}
	}
	if len(e.distances) != len(e.links) {
		return fmt.Errorf("%w: %d distances for %d links", ErrConstraintLength, len(e.distances), len(e.links))
	}
	if len(e.strengths) != len(e.links) {
		return fmt.Errorf("%w: %d strengths for %d links", ErrConstraintLength, len(e.strengths), len(e.links))
	}
	return nil
}

// Step advances the simulation by one unit timestep: repulsion, link
// constraints, then integration, in that order. It either completes all
// three phases or fails validation before mutating anything.
func (e *Engine) Step() error {
	if err := e.validate(); err != nil {
		return err
	}
	e.repulsion()
	e.linkForces()
	e.integrate()
	return nil
}

// repulsion accumulates the inverse-square charge force on every node
// from every other node. Positions are read-only for the whole phase, so
// per-node accumulation is order-independent. Pairs at distance zero or
// at/beyond the cutoff contribute nothing.
func (e *Engine) repulsion() {
	e.forRange(len(e.nodes), func(start, end int) {
		for i := start; i < end; i++ {
			var f Vec3
			pi := e.nodes[i].Position
			ci := e.nodes[i].Charge
			for j := range e.nodes {
				if j == i {
					continue
				}
				d := e.nodes[j].Position.Sub(pi)
				dist := d.Length()
				if dist <= 0 || dist >= e.maxDistance {
					continue
				}
				mag := ci * e.nodes[j].Charge / (dist * dist)
				f = f.Add(d.Scale(mag / dist))
			}
			e.nodes[i].Velocity = e.nodes[i].Velocity.Add(f)
		}
	})
}

// linkForces applies the spring constraint of each link: a restoring
// force proportional to the deviation from the rest length, equal and
// opposite on the two endpoints. Zero-length links are skipped since the
// direction is undefined. Runs serially: links sharing an endpoint write
// to the same velocity.
func (e *Engine) linkForces() {
	for k, l := range e.links {
		d := e.nodes[l.Target].Position.Sub(e.nodes[l.Source].Position)
		dist := d.Length()
		if dist <= 0 {
			continue
		}
		f := d.Scale(e.strengths[k] * (dist - e.distances[k]) / dist)
		e.nodes[l.Source].Velocity = e.nodes[l.Source].Velocity.Add(f)
		e.nodes[l.Target].Velocity = e.nodes[l.Target].Velocity.Sub(f)
	}
}

// integrate moves each node by its undamped velocity, then applies the
// decay factor. Decay strictly after the position update: this step's
// displacement reflects the full velocity, damping only affects future
// steps.
func (e *Engine) integrate() {
	e.forRange(len(e.nodes), func(start, end int) {
		for i := start; i < end; i++ {
			n := &e.nodes[i]
			n.Position = n.Position.Add(n.Velocity)
			n.Velocity = n.Velocity.Scale(e.velocityDecay)
		}
	})
}

// KineticEnergy returns the total kinetic energy of the current state,
// with each node treated as unit mass.
func (e *Engine) KineticEnergy() float64 {
	ke := 0.0
	for i := range e.nodes {
		v := e.nodes[i].Velocity
		ke += 0.5 * v.Dot(v)
	}
	return ke
}
