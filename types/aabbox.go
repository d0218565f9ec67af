package types

import "math"

// An axis-aligned bounding box.
type AABBox struct {
	Min Vec3
	Max Vec3
}

// Create an empty box. The box is inverted so that the first call to
// Enlarge or EnlargeBox sets both corners.
func EmptyAABBox() AABBox {
	return AABBox{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Returns true if the box has not been enlarged yet.
func (b AABBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Enlarge box so it contains point p.
func (b *AABBox) Enlarge(p Vec3) {
	b.Min = MinVec3(b.Min, p)
	b.Max = MaxVec3(b.Max, p)
}

// Enlarge box so it contains other.
func (b *AABBox) EnlargeBox(other AABBox) {
	b.Min = MinVec3(b.Min, other.Min)
	b.Max = MaxVec3(b.Max, other.Max)
}

// Return the union of two boxes.
func Merge(a, b AABBox) AABBox {
	a.EnlargeBox(b)
	return a
}

// Return the intersection of two boxes. The result is empty if the boxes
// do not overlap.
func Intersect(a, b AABBox) AABBox {
	return AABBox{
		Min: MaxVec3(a.Min, b.Min),
		Max: MinVec3(a.Max, b.Max),
	}
}

// Box side lengths.
func (b AABBox) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Total surface area of the box.
func (b AABBox) SurfaceArea() float32 {
	e := b.Extent()
	return 2 * (e[0]*e[1] + e[1]*e[2] + e[0]*e[2])
}

// Returns true if p lies inside the closed box.
func (b AABBox) Contains(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Slab test a ray against the box and clip the [tMin, tMax] interval to
// the part of the ray inside the box. invDir must hold the component-wise
// reciprocal of the ray direction.
//
// NaN slab distances (origin on a slab plane while travelling parallel to it)
// fail both comparisons and leave the interval untouched.
func (b AABBox) IntersectRay(origin, invDir Vec3, tMin, tMax float32) (float32, float32, bool) {
	for axis := 0; axis < 3; axis++ {
		t0 := (b.Min[axis] - origin[axis]) * invDir[axis]
		t1 := (b.Max[axis] - origin[axis]) * invDir[axis]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
	}

	return tMin, tMax, tMin <= tMax
}
