package kdtree

import "math"

// Relative slack applied to node ray intervals when comparing them against
// hit distances. Intersection distances and split distances are computed
// differently and may disagree by a few ulps for hits on a split plane.
const intervalSlack float32 = 1e-5

type queryMode uint8

const (
	nearestHit queryMode = iota
	anyHit
	allHits
)

// Find the closest intersection of ray with the tree triangles within
// [0, maxDistance].
func (t *Tree) TraceRay(ctx *TraversalContext, ray *Ray, maxDistance float32) (Hit, bool) {
	checkRay(ray)
	return t.traverse(ctx, ray, maxDistance, nearestHit, nil)
}

// Returns true if ray intersects any triangle within [0, length]. The search
// stops at the first intersection found.
func (t *Tree) DoesFiniteRayHit(ctx *TraversalContext, ray *Ray, length float32) bool {
	checkRay(ray)
	_, found := t.traverse(ctx, ray, length, anyHit, nil)
	return found
}

// Append every intersection of ray with the tree triangles to hits and return
// the extended slice. Each triangle is reported at most once; hits are not
// sorted.
func (t *Tree) GetAllHits(ctx *TraversalContext, ray *Ray, hits []Hit) []Hit {
	checkRay(ray)
	t.traverse(ctx, ray, float32(math.Inf(1)), allHits, &hits)
	return hits
}

// Walk the tree front to back along the ray using an explicit stack.
func (t *Tree) traverse(ctx *TraversalContext, ray *Ray, maxT float32, mode queryMode, hits *[]Hit) (best Hit, found bool) {
	tMin, tMax, ok := t.rootBox.IntersectRay(ray.Origin, ray.InvDir, 0, maxT)
	if !ok || len(t.nodes) == 0 {
		return Hit{}, false
	}

	// A ray travelling towards -axis enters the positive child first.
	var nearIsPositive [3]bool
	for axis := range nearIsPositive {
		nearIsPositive[axis] = math.Signbit(float64(ray.Dir[axis]))
	}

	// Hits appended by this query; scanned for duplicates only if the
	// letterbox overflows.
	var firstHit int
	if hits != nil {
		firstHit = len(*hits)
	}

	ctx.begin()
	ctx.push(0, tMin, tMax)
	best.Distance = maxT
	for ctx.top > 0 {
		frame := ctx.pop()

		// Nothing in this frame can beat the current hit
		if found && frame.tMin*(1-intervalSlack) > best.Distance {
			continue
		}

		nodeIndex, tMin, tMax := frame.node, frame.tMin, frame.tMax
		node := t.nodes[nodeIndex]
		for !node.IsLeaf() {
			axis := node.Axis()
			tSplit := (node.Split() - ray.Origin[axis]) * ray.InvDir[axis]
			near, far := nodeIndex+1, node.PositiveChild()
			if nearIsPositive[axis] {
				near, far = far, near
			}

			switch {
			case tSplit != tSplit:
				// The ray runs inside the split plane; visit both sides.
				ctx.pushOverlapping(far, tMin, tMax)
				nodeIndex = near
			case tSplit > tMax:
				nodeIndex = near
			case tSplit < tMin:
				nodeIndex = far
			default:
				ctx.push(far, tSplit, tMax)
				nodeIndex = near
				tMax = tSplit
			}
			node = t.nodes[nodeIndex]
		}

		start, count := node.Triangles()
		for _, triIndex := range t.leafGeom[start : start+count] {
			seen, tracked := ctx.tested.testAndSet(triIndex)
			if seen {
				continue
			}

			tri := &t.tris[triIndex]
			switch mode {
			case nearestHit:
				dist, u, v, hit := tri.Intersect(ray.Origin, ray.Dir, best.Distance)
				if hit && closer(dist, triIndex, &best, found) {
					best = Hit{TriangleIndex: triIndex, U: u, V: v, Distance: dist}
					found = true
				}
			case anyHit:
				if dist, u, v, hit := tri.Intersect(ray.Origin, ray.Dir, maxT); hit {
					return Hit{TriangleIndex: triIndex, U: u, V: v, Distance: dist}, true
				}
			case allHits:
				dist, u, v, hit := tri.Intersect(ray.Origin, ray.Dir, maxT)
				if hit && (tracked || !containsTriangle((*hits)[firstHit:], triIndex)) {
					*hits = append(*hits, Hit{TriangleIndex: triIndex, U: u, V: v, Distance: dist})
				}
			}
		}

		// A hit before the end of this leaf interval is closer than
		// everything still on the stack unless a frame on the stack shares
		// the interval of this leaf.
		if found && ctx.overlapping == 0 && best.Distance < tMax*(1-intervalSlack) {
			return best, true
		}
	}

	return best, found
}

func containsTriangle(hits []Hit, triIndex uint32) bool {
	for _, hit := range hits {
		if hit.TriangleIndex == triIndex {
			return true
		}
	}
	return false
}
