package kdtree

import (
	"math"

	"github.com/JerryBerry12/glare-core-sub000/types"
)

// A triangle clipped by the 6 box planes has at most 9 vertices.
type clipPolygon [][3]float64

// Clip a triangle against a box and return the bounds of the part of the
// triangle inside the box. The second result is false if the triangle does
// not overlap the box.
//
// Clipping runs in double precision; the resulting bounds are rounded
// outwards to float32 and intersected with box.
func clipTriangle(verts [3]types.Vec3, box types.AABBox) (types.AABBox, bool) {
	var bufA, bufB [12][3]float64

	poly := clipPolygon(bufA[:0])
	for _, v := range verts {
		poly = append(poly, [3]float64{float64(v[0]), float64(v[1]), float64(v[2])})
	}
	out := clipPolygon(bufB[:0])

	for axis := 0; axis < 3; axis++ {
		out = poly.clip(out[:0], axis, float64(box.Min[axis]), 1)
		poly, out = out, poly
		out = poly.clip(out[:0], axis, float64(box.Max[axis]), -1)
		poly, out = out, poly
		if len(poly) == 0 {
			return types.AABBox{}, false
		}
	}

	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range poly {
		for c := 0; c < 3; c++ {
			lo[c] = math.Min(lo[c], p[c])
			hi[c] = math.Max(hi[c], p[c])
		}
	}

	var bounds types.AABBox
	for c := 0; c < 3; c++ {
		bounds.Min[c] = roundDown(lo[c])
		bounds.Max[c] = roundUp(hi[c])
	}
	return types.Intersect(bounds, box), true
}

// Keep the part of the polygon where sign * (p[axis] - value) >= 0 and
// append the resulting vertices to out.
func (poly clipPolygon) clip(out clipPolygon, axis int, value, sign float64) clipPolygon {
	for index, cur := range poly {
		next := poly[(index+1)%len(poly)]
		dCur := sign * (cur[axis] - value)
		dNext := sign * (next[axis] - value)

		if dCur >= 0 {
			out = append(out, cur)
		}

		if (dCur < 0 && dNext > 0) || (dCur > 0 && dNext < 0) {
			t := dCur / (dCur - dNext)
			var p [3]float64
			for c := 0; c < 3; c++ {
				p[c] = cur[c] + t*(next[c]-cur[c])
			}
			p[axis] = value
			out = append(out, p)
		}
	}
	return out
}

func roundDown(v float64) float32 {
	f := float32(v)
	if float64(f) > v {
		f = math.Nextafter32(f, float32(math.Inf(-1)))
	}
	return f
}

func roundUp(v float64) float32 {
	f := float32(v)
	if float64(f) < v {
		f = math.Nextafter32(f, float32(math.Inf(1)))
	}
	return f
}
