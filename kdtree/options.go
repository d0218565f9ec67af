package kdtree

import (
	"fmt"
	"math"
)

const (
	// Hard upper bound for tree depth. Traversal stacks are sized from it.
	MaxTreeDepth = 63
)

// Options for the SAH kd-tree builder.
type BuildOptions struct {
	// Nodes at this depth become leafs. A zero value selects a depth
	// based on the triangle count (8 + 1.3 * log2(n)).
	MaxDepth int `json:"maxDepth"`

	// Nodes with this many triangles or less become leafs.
	SplitThreshold int `json:"splitThreshold"`

	// SAH cost of traversing an interior node and of a single
	// ray/triangle intersection test.
	TraversalCost    float32 `json:"traversalCost"`
	IntersectionCost float32 `json:"intersectionCost"`

	// Empty volume fraction above which a cutoff split flush with the
	// triangle bounds overrides the SAH choice.
	EmptySpaceCutoffFraction float32 `json:"emptySpaceCutoffFraction"`

	// Skip clipping straddling triangles against child volumes and
	// intersect their bounding boxes instead. Builds faster but produces
	// more leaf references.
	DisableClipping bool `json:"disableClipping"`
}

// The builder options used when none are specified.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MaxDepth:                 0,
		SplitThreshold:           2,
		TraversalCost:            1,
		IntersectionCost:         4,
		EmptySpaceCutoffFraction: 0.4,
	}
}

// Check options for values the builder cannot work with.
func (o BuildOptions) Validate() error {
	switch {
	case o.MaxDepth < 0 || o.MaxDepth > MaxTreeDepth:
		return fmt.Errorf("%w: maxDepth must be in [0, %d]; got %d", ErrInvalidOpts, MaxTreeDepth, o.MaxDepth)
	case o.SplitThreshold < 1:
		return fmt.Errorf("%w: splitThreshold must be >= 1; got %d", ErrInvalidOpts, o.SplitThreshold)
	case !(o.TraversalCost > 0):
		return fmt.Errorf("%w: traversalCost must be > 0; got %v", ErrInvalidOpts, o.TraversalCost)
	case !(o.IntersectionCost > 0):
		return fmt.Errorf("%w: intersectionCost must be > 0; got %v", ErrInvalidOpts, o.IntersectionCost)
	case !(o.EmptySpaceCutoffFraction > 0 && o.EmptySpaceCutoffFraction <= 1):
		return fmt.Errorf("%w: emptySpaceCutoffFraction must be in (0, 1]; got %v", ErrInvalidOpts, o.EmptySpaceCutoffFraction)
	}
	return nil
}

// Resolve the max depth for a tree with numTris triangles.
func (o BuildOptions) maxDepthFor(numTris int) int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}

	depth := 8 + int(1.3*math.Log2(float64(numTris)))
	if depth > MaxTreeDepth {
		depth = MaxTreeDepth
	}
	return depth
}
