package kdtree

import "github.com/JerryBerry12/glare-core-sub000/types"

const detEpsilon float32 = 1e-12

// A triangle in a form suited for ray intersection tests. Trees keep one
// per source triangle, indexed by triangle index.
type PrecomputedTriangle struct {
	V0 types.Vec3
	E1 types.Vec3
	E2 types.Vec3
}

// Precompute the intersection data for a triangle.
func NewPrecomputedTriangle(verts [3]types.Vec3) PrecomputedTriangle {
	return PrecomputedTriangle{
		V0: verts[0],
		E1: verts[1].Sub(verts[0]),
		E2: verts[2].Sub(verts[0]),
	}
}

// Precompute all triangles in src.
func precomputeTriangles(src TriangleSource) []PrecomputedTriangle {
	tris := make([]PrecomputedTriangle, src.NumTriangles())
	for index := range tris {
		tris[index] = NewPrecomputedTriangle(src.TriangleVertices(index))
	}
	return tris
}

// Intersect a ray with the triangle using the Moller-Trumbore algorithm.
// Hits are reported for distances in [0, maxT] together with the (u, v)
// barycentric coordinates of the hit point relative to vertices 1 and 2.
func (tri *PrecomputedTriangle) Intersect(origin, dir types.Vec3, maxT float32) (t, u, v float32, hit bool) {
	h := dir.Cross(tri.E2)
	det := tri.E1.Dot(h)
	if det > -detEpsilon && det < detEpsilon {
		return 0, 0, 0, false
	}

	invDet := 1 / det
	s := origin.Sub(tri.V0)
	u = s.Dot(h) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(tri.E1)
	v = dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = tri.E2.Dot(q) * invDet
	if t < 0 || t > maxT {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// Triangle vertex positions.
func (tri *PrecomputedTriangle) Vertices() [3]types.Vec3 {
	return [3]types.Vec3{tri.V0, tri.V0.Add(tri.E1), tri.V0.Add(tri.E2)}
}
