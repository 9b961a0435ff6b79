// Package force implements the force-directed layout kernel: node pairs
// interact through an inverse-square charge force inside a cutoff
// radius, with the sign carried by the charge product; links pull their
// endpoints toward a per-link rest length; velocity is integrated into
// position with multiplicative damping.
//
// The engine is a pure computational unit. It owns copies of whatever
// the caller installs through the setters and exposes state only as
// snapshot copies, so no caller-owned memory is ever aliased across
// calls:
//
//	e := force.New(100, 0.1)
//	e.SetNodes(nodes)
//	e.SetLinks(links)
//	e.SetDistances(distances)
//	e.SetStrengths(strengths)
//	for i := 0; i < steps; i++ {
//	    if err := e.Step(); err != nil {
//	        return err
//	    }
//	}
//	out := e.Nodes()
//
// Step validates link indices and constraint array lengths before
// mutating anything; a failed Step leaves node state untouched.
// Degenerate geometry (coincident nodes, a pair exactly at the cutoff)
// is a defined no-op branch, not an error.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe; the caller serializes Step and
// setter calls. Setting [Engine.Workers] above 1 parallelizes the
// repulsion and integration phases internally without changing results.
package force
