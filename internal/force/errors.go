package force

import "errors"

// Domain errors for engine operations.
var (
	// ErrLinkIndex indicates a link referencing a node index outside the
	// current node array.
	ErrLinkIndex = errors.New("force: link index out of range")

	// ErrConstraintLength indicates distance/strength arrays whose length
	// disagrees with the link count.
	ErrConstraintLength = errors.New("force: constraint array length mismatch")
)
