package force

import (
	"errors"
	"math"
	"testing"
)

func TestSingleNodeStationary(t *testing.T) {
	e := New(100, 0.5)
	e.SetNodes([]Node{{Position: Vec3{1, 2, 3}, Charge: 5}})
	e.SetLinks(nil)
	e.SetDistances(nil)
	e.SetStrengths(nil)

	for i := 0; i < 10; i++ {
		if err := e.Step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	n := e.Nodes()[0]
	if n.Position != (Vec3{1, 2, 3}) {
		t.Errorf("lone node moved: %+v", n.Position)
	}
}

func TestSingleNodeVelocityDecays(t *testing.T) {
	e := New(100, 0.5)
	e.SetNodes([]Node{{Velocity: Vec3{8, 0, 0}}})
	e.SetLinks(nil)
	e.SetDistances(nil)
	e.SetStrengths(nil)

	prev := 8.0
	for i := 0; i < 6; i++ {
		if err := e.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		v := e.Nodes()[0].Velocity.Length()
		if v >= prev {
			t.Fatalf("velocity did not shrink at step %d: %f >= %f", i, v, prev)
		}
		prev = v
	}
}

func TestSymmetricRepulsion(t *testing.T) {
	e := New(100, 1.0)
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}, Charge: 1},
		{Position: Vec3{1, 0, 0}, Charge: 1},
	})
	e.SetLinks(nil)
	e.SetDistances(nil)
	e.SetStrengths(nil)

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	nodes := e.Nodes()
	// d=1, magnitude = 1*1/1 = 1, each node's contribution directed
	// along the displacement toward the other.
	if math.Abs(nodes[0].Velocity.X-1) > 1e-12 {
		t.Errorf("node 0 velocity x: got %f, want 1", nodes[0].Velocity.X)
	}
	if math.Abs(nodes[1].Velocity.X+1) > 1e-12 {
		t.Errorf("node 1 velocity x: got %f, want -1", nodes[1].Velocity.X)
	}
	if nodes[0].Velocity.Y != 0 || nodes[0].Velocity.Z != 0 ||
		nodes[1].Velocity.Y != 0 || nodes[1].Velocity.Z != 0 {
		t.Errorf("off-axis velocity: %+v %+v", nodes[0].Velocity, nodes[1].Velocity)
	}
	if nodes[0].Velocity.Add(nodes[1].Velocity).Length() > 1e-12 {
		t.Errorf("repulsion not equal and opposite")
	}
}

func TestNegativeChargeProductFlipsDirection(t *testing.T) {
	// The charge product carries the sign: a mixed-sign pair reverses
	// the contribution relative to a like-sign pair.
	e := New(100, 1.0)
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}, Charge: 1},
		{Position: Vec3{2, 0, 0}, Charge: -1},
	})
	e.SetLinks(nil)
	e.SetDistances(nil)
	e.SetStrengths(nil)

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	nodes := e.Nodes()
	// magnitude = 1*(-1)/2² = -0.25 along the displacement.
	if math.Abs(nodes[0].Velocity.X+0.25) > 1e-12 {
		t.Errorf("node 0 velocity x: got %f, want -0.25", nodes[0].Velocity.X)
	}
	if math.Abs(nodes[1].Velocity.X-0.25) > 1e-12 {
		t.Errorf("node 1 velocity x: got %f, want 0.25", nodes[1].Velocity.X)
	}
}

func TestLinkAtRestLength(t *testing.T) {
	e := New(100, 1.0)
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}},
		{Position: Vec3{3, 0, 0}},
	})
	e.SetLinks([]Link{{Source: 0, Target: 1}})
	e.SetDistances([]float64{3})
	e.SetStrengths([]float64{2})

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	nodes := e.Nodes()
	if nodes[0].Position != (Vec3{0, 0, 0}) || nodes[1].Position != (Vec3{3, 0, 0}) {
		t.Errorf("link at rest length produced motion: %+v %+v",
			nodes[0].Position, nodes[1].Position)
	}
}

func TestLinkRestoringForce(t *testing.T) {
	e := New(100, 1.0)
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}},
		{Position: Vec3{5, 0, 0}},
	})
	e.SetLinks([]Link{{Source: 0, Target: 1}})
	e.SetDistances([]float64{3})
	e.SetStrengths([]float64{0.5})

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	nodes := e.Nodes()
	// Stretched by 2 at strength 0.5: force 1 toward each other.
	if math.Abs(nodes[0].Velocity.X-1) > 1e-12 {
		t.Errorf("source velocity: got %f, want 1", nodes[0].Velocity.X)
	}
	if math.Abs(nodes[1].Velocity.X+1) > 1e-12 {
		t.Errorf("target velocity: got %f, want -1", nodes[1].Velocity.X)
	}
}

func TestZeroLengthLinkSkipped(t *testing.T) {
	e := New(100, 1.0)
	e.SetNodes([]Node{
		{Position: Vec3{1, 1, 1}},
		{Position: Vec3{1, 1, 1}},
	})
	e.SetLinks([]Link{{Source: 0, Target: 1}})
	e.SetDistances([]float64{10})
	e.SetStrengths([]float64{5})

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	for i, n := range e.Nodes() {
		if n.Velocity != (Vec3{}) {
			t.Errorf("node %d gained velocity from a zero-length link: %+v", i, n.Velocity)
		}
	}
}

func TestRepulsionCutoff(t *testing.T) {
	// Exactly at the cutoff: no force.
	e := New(10, 1.0)
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}, Charge: 1},
		{Position: Vec3{10, 0, 0}, Charge: 1},
	})
	e.SetLinks(nil)
	e.SetDistances(nil)
	e.SetStrengths(nil)

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	for i, n := range e.Nodes() {
		if n.Velocity != (Vec3{}) {
			t.Errorf("node %d felt repulsion at the cutoff radius: %+v", i, n.Velocity)
		}
	}

	// Just inside: nonzero, magnitude 1/d², along the displacement.
	const d = 10 - 1e-6
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}, Charge: 1},
		{Position: Vec3{d, 0, 0}, Charge: 1},
	})
	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	nodes := e.Nodes()
	want := 1 / (d * d)
	if math.Abs(nodes[0].Velocity.X-want) > 1e-12 {
		t.Errorf("force just inside cutoff: got %g, want %g", nodes[0].Velocity.X, want)
	}
	if math.Abs(nodes[1].Velocity.X+want) > 1e-12 {
		t.Errorf("force just inside cutoff: got %g, want %g", nodes[1].Velocity.X, -want)
	}
}

func TestDecayAppliedAfterIntegration(t *testing.T) {
	e := New(100, 0)
	e.SetNodes([]Node{{Position: Vec3{0, 0, 0}, Velocity: Vec3{2, -3, 4}}})
	e.SetLinks(nil)
	e.SetDistances(nil)
	e.SetStrengths(nil)

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	n := e.Nodes()[0]
	// Full pre-decay displacement, then velocity zeroed.
	if n.Position != (Vec3{2, -3, 4}) {
		t.Errorf("position: got %+v, want {2 -3 4}", n.Position)
	}
	if n.Velocity != (Vec3{}) {
		t.Errorf("velocity after decay=0: got %+v, want zero", n.Velocity)
	}
}

func TestNodesSnapshotIsPure(t *testing.T) {
	e := New(100, 0.9)
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}, Charge: 1},
		{Position: Vec3{1, 0, 0}, Charge: 1},
	})
	e.SetLinks(nil)
	e.SetDistances(nil)
	e.SetStrengths(nil)

	a := e.Nodes()
	b := e.Nodes()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("consecutive snapshots differ at node %d", i)
		}
	}

	// Mutating the snapshot must not touch engine state.
	a[0].Position = Vec3{99, 99, 99}
	if e.Nodes()[0].Position != (Vec3{0, 0, 0}) {
		t.Error("snapshot aliases engine state")
	}
}

func TestSettersCopyCallerSlices(t *testing.T) {
	e := New(100, 0.9)
	nodes := []Node{{Position: Vec3{1, 0, 0}}}
	e.SetNodes(nodes)
	nodes[0].Position = Vec3{7, 7, 7}
	if e.Nodes()[0].Position != (Vec3{1, 0, 0}) {
		t.Error("SetNodes aliases caller slice")
	}

	dists := []float64{5}
	e.SetLinks([]Link{{Source: 0, Target: 0}})
	e.SetDistances(dists)
	e.SetStrengths([]float64{1})
	dists[0] = 999
	// Self-link has distance 0 and is skipped, so this only checks the
	// copy happened without a crash.
	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}
}

func TestLinkIndexOutOfRange(t *testing.T) {
	e := New(100, 0.9)
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}, Velocity: Vec3{1, 0, 0}},
		{Position: Vec3{4, 0, 0}},
	})
	e.SetLinks([]Link{{Source: 0, Target: 2}})
	e.SetDistances([]float64{1})
	e.SetStrengths([]float64{1})

	before := e.Nodes()
	err := e.Step()
	if !errors.Is(err, ErrLinkIndex) {
		t.Fatalf("expected ErrLinkIndex, got %v", err)
	}

	after := e.Nodes()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("failed step mutated node %d: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestConstraintLengthMismatch(t *testing.T) {
	e := New(100, 0.9)
	e.SetNodes([]Node{{}, {Position: Vec3{1, 0, 0}}})
	e.SetLinks([]Link{{Source: 0, Target: 1}})
	e.SetDistances([]float64{1, 2})
	e.SetStrengths([]float64{1})

	if err := e.Step(); !errors.Is(err, ErrConstraintLength) {
		t.Fatalf("expected ErrConstraintLength for distances, got %v", err)
	}

	e.SetDistances([]float64{1})
	e.SetStrengths(nil)
	if err := e.Step(); !errors.Is(err, ErrConstraintLength) {
		t.Fatalf("expected ErrConstraintLength for strengths, got %v", err)
	}
}

func TestNegativeLinkIndex(t *testing.T) {
	e := New(100, 0.9)
	e.SetNodes([]Node{{}, {}})
	e.SetLinks([]Link{{Source: -1, Target: 1}})
	e.SetDistances([]float64{1})
	e.SetStrengths([]float64{1})

	if err := e.Step(); !errors.Is(err, ErrLinkIndex) {
		t.Fatalf("expected ErrLinkIndex, got %v", err)
	}
}

func TestAllPairsAccumulation(t *testing.T) {
	// Three collinear unit charges; the middle one nets zero, the outer
	// ones feel both neighbors.
	e := New(100, 1.0)
	e.SetNodes([]Node{
		{Position: Vec3{-1, 0, 0}, Charge: 1},
		{Position: Vec3{0, 0, 0}, Charge: 1},
		{Position: Vec3{1, 0, 0}, Charge: 1},
	})
	e.SetLinks(nil)
	e.SetDistances(nil)
	e.SetStrengths(nil)

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	nodes := e.Nodes()
	if math.Abs(nodes[1].Velocity.X) > 1e-12 {
		t.Errorf("middle node should net zero, got %g", nodes[1].Velocity.X)
	}
	// Outer nodes accumulate 1/1² from the middle plus 1/2² from the
	// far end, both along the displacement toward them.
	want := 1.0 + 0.25
	if math.Abs(nodes[0].Velocity.X-want) > 1e-12 {
		t.Errorf("outer node velocity: got %g, want %g", nodes[0].Velocity.X, want)
	}
	if math.Abs(nodes[2].Velocity.X+want) > 1e-12 {
		t.Errorf("outer node velocity: got %g, want %g", nodes[2].Velocity.X, -want)
	}
}

func TestSharedEndpointLinksAccumulate(t *testing.T) {
	// Two links pulling node 0 toward nodes 1 and 2 symmetrically.
	e := New(100, 1.0)
	e.SetNodes([]Node{
		{Position: Vec3{0, 0, 0}},
		{Position: Vec3{4, 0, 0}},
		{Position: Vec3{-4, 0, 0}},
	})
	e.SetLinks([]Link{{Source: 0, Target: 1}, {Source: 0, Target: 2}})
	e.SetDistances([]float64{1, 1})
	e.SetStrengths([]float64{1, 1})

	if err := e.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	nodes := e.Nodes()
	if math.Abs(nodes[0].Velocity.X) > 1e-12 {
		t.Errorf("symmetric pulls should cancel on node 0, got %g", nodes[0].Velocity.X)
	}
	if math.Abs(nodes[1].Velocity.X+3) > 1e-12 || math.Abs(nodes[2].Velocity.X-3) > 1e-12 {
		t.Errorf("endpoint velocities: %g %g, want -3 3",
			nodes[1].Velocity.X, nodes[2].Velocity.X)
	}
}

func TestKineticEnergy(t *testing.T) {
	e := New(100, 1.0)
	e.SetNodes([]Node{
		{Velocity: Vec3{3, 4, 0}},
		{Velocity: Vec3{0, 0, 2}},
	})
	want := 0.5*25 + 0.5*4
	if got := e.KineticEnergy(); math.Abs(got-want) > 1e-12 {
		t.Errorf("kinetic energy: got %g, want %g", got, want)
	}
}
