package kdtree

import "github.com/JerryBerry12/glare-core-sub000/types"

// An immutable kd-tree over the triangles of a TriangleSource. A Tree is
// safe for concurrent queries as long as each goroutine supplies its own
// TraversalContext.
type Tree struct {
	nodes    []TreeNode
	leafGeom []uint32
	tris     []PrecomputedTriangle
	rootBox  types.AABBox
	checksum uint32

	// Only available for trees that were built rather than loaded from
	// a cache entry.
	stats *BuildStats
}

// The preorder node list. Node 0 is the root.
func (t *Tree) Nodes() []TreeNode {
	return t.nodes
}

// The triangle indices referenced by leafs.
func (t *Tree) LeafGeometry() []uint32 {
	return t.leafGeom
}

// The union of all partitioned triangle bounding boxes.
func (t *Tree) RootBox() types.AABBox {
	return t.rootBox
}

// The checksum of the source geometry.
func (t *Tree) Checksum() uint32 {
	return t.checksum
}

// The number of source triangles, including degenerate ones.
func (t *Tree) NumTriangles() int {
	return len(t.tris)
}

// The precomputed data for the triangle at index.
func (t *Tree) Triangle(index uint32) *PrecomputedTriangle {
	return &t.tris[index]
}

// Build statistics. Returns nil for trees loaded from a cache entry.
func (t *Tree) Stats() *BuildStats {
	return t.stats
}

// Calculate the root box of the non-degenerate triangles in src along with
// the number of degenerate triangles.
func rootBoxOf(src TriangleSource) (types.AABBox, int) {
	box := types.EmptyAABBox()
	degenerate := 0
	for index := 0; index < src.NumTriangles(); index++ {
		verts := src.TriangleVertices(index)
		if IsDegenerate(verts) {
			degenerate++
			continue
		}
		for _, v := range verts {
			box.Enlarge(v)
		}
	}
	return box, degenerate
}
