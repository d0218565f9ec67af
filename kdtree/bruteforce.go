package kdtree

import "math"

// A query engine that tests every triangle. It serves as the reference the
// tree queries are verified against.
type BruteForce struct {
	tris []PrecomputedTriangle

	// Degenerate triangles are never reported, matching the tree.
	skip []bool
}

// Precompute the triangles of src for brute force queries.
func NewBruteForce(src TriangleSource) *BruteForce {
	bf := &BruteForce{
		tris: make([]PrecomputedTriangle, src.NumTriangles()),
		skip: make([]bool, src.NumTriangles()),
	}
	for index := range bf.tris {
		verts := src.TriangleVertices(index)
		bf.tris[index] = NewPrecomputedTriangle(verts)
		bf.skip[index] = IsDegenerate(verts)
	}
	return bf
}

// Find the closest intersection within [0, maxDistance].
func (bf *BruteForce) TraceRay(ray *Ray, maxDistance float32) (Hit, bool) {
	best := Hit{Distance: maxDistance}
	found := false
	for index := range bf.tris {
		if bf.skip[index] {
			continue
		}
		dist, u, v, hit := bf.tris[index].Intersect(ray.Origin, ray.Dir, best.Distance)
		if hit && closer(dist, uint32(index), &best, found) {
			best = Hit{TriangleIndex: uint32(index), U: u, V: v, Distance: dist}
			found = true
		}
	}
	return best, found
}

// Returns true if any triangle is hit within [0, length].
func (bf *BruteForce) DoesFiniteRayHit(ray *Ray, length float32) bool {
	_, found := bf.TraceRay(ray, length)
	return found
}

// Append all intersections along the ray to hits.
func (bf *BruteForce) GetAllHits(ray *Ray, hits []Hit) []Hit {
	for index := range bf.tris {
		if bf.skip[index] {
			continue
		}
		if dist, u, v, hit := bf.tris[index].Intersect(ray.Origin, ray.Dir, float32(math.Inf(1))); hit {
			hits = append(hits, Hit{TriangleIndex: uint32(index), U: u, V: v, Distance: dist})
		}
	}
	return hits
}
