package kdtree

import "github.com/JerryBerry12/glare-core-sub000/types"

// A ray with a precomputed reciprocal direction. The direction must be
// unit-length and finite.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
	InvDir types.Vec3
}

// Create a ray. dir must be normalized.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		InvDir: dir.Recip(),
	}
}

// Get the point at distance t along the ray.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// A ray/triangle intersection. The hit point is
// (1-U-V) * v0 + U * v1 + V * v2.
type Hit struct {
	TriangleIndex uint32
	U, V          float32
	Distance      float32
}

// Returns true if a hit at distance t on triangle index should replace the
// current best hit. Equidistant hits resolve to the lowest triangle index.
func closer(t float32, index uint32, best *Hit, found bool) bool {
	return !found || t < best.Distance || (t == best.Distance && index < best.TriangleIndex)
}
