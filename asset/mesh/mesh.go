// Package mesh provides triangle sources that can be partitioned by the
// kd-tree builder.
package mesh

import (
	"github.com/JerryBerry12/glare-core-sub000/kdtree"
	"github.com/JerryBerry12/glare-core-sub000/types"
)

// A triangle mesh. Triangle indices are assigned in insertion order and never
// change.
type Mesh struct {
	Name string

	triangles [][3]types.Vec3
	rejected  int
}

// Create an empty mesh.
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// Append a triangle. Triangles with a near-zero area are rejected and the
// method returns false.
func (m *Mesh) AddTriangle(verts [3]types.Vec3) bool {
	if kdtree.IsDegenerate(verts) {
		m.rejected++
		return false
	}
	m.triangles = append(m.triangles, verts)
	return true
}

// The number of triangles.
func (m *Mesh) NumTriangles() int {
	return len(m.triangles)
}

// The vertex positions of the triangle at index.
func (m *Mesh) TriangleVertices(index int) [3]types.Vec3 {
	return m.triangles[index]
}

// The number of triangles rejected by AddTriangle.
func (m *Mesh) Rejected() int {
	return m.rejected
}

// Get mesh bounding box.
func (m *Mesh) BBox() types.AABBox {
	box := types.EmptyAABBox()
	for _, tri := range m.triangles {
		for _, v := range tri {
			box.Enlarge(v)
		}
	}
	return box
}
