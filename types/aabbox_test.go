package types

import (
	"math"
	"testing"
)

func TestAABBoxEnlarge(t *testing.T) {
	box := EmptyAABBox()
	if !box.IsEmpty() {
		t.Fatal("expected new box to be empty")
	}

	box.Enlarge(Vec3{1, 2, 3})
	if box.IsEmpty() {
		t.Fatal("expected box with one point not to be empty")
	}
	if box.Min != box.Max || box.Min != (Vec3{1, 2, 3}) {
		t.Fatalf("expected degenerate box at (1, 2, 3); got %v", box)
	}

	box.EnlargeBox(AABBox{Min: Vec3{-1, 5, 0}, Max: Vec3{0, 6, 1}})
	exp := AABBox{Min: Vec3{-1, 2, 0}, Max: Vec3{1, 6, 3}}
	if box != exp {
		t.Fatalf("expected %v; got %v", exp, box)
	}

	if got := Merge(EmptyAABBox(), exp); got != exp {
		t.Fatalf("expected merge with empty box to return %v; got %v", exp, got)
	}
}

func TestAABBoxIntersect(t *testing.T) {
	a := AABBox{Min: Vec3{0, 0, 0}, Max: Vec3{2, 2, 2}}
	b := AABBox{Min: Vec3{1, 1, 1}, Max: Vec3{3, 3, 3}}
	exp := AABBox{Min: Vec3{1, 1, 1}, Max: Vec3{2, 2, 2}}
	if got := Intersect(a, b); got != exp {
		t.Fatalf("expected %v; got %v", exp, got)
	}

	c := AABBox{Min: Vec3{5, 5, 5}, Max: Vec3{6, 6, 6}}
	if !Intersect(a, c).IsEmpty() {
		t.Fatal("expected disjoint boxes to have an empty intersection")
	}
}

func TestAABBoxSurfaceArea(t *testing.T) {
	box := AABBox{Min: Vec3{0, 0, 0}, Max: Vec3{1, 2, 3}}
	if got := box.SurfaceArea(); got != 22 {
		t.Fatalf("expected surface area 22; got %f", got)
	}
	if got := box.Extent(); got != (Vec3{1, 2, 3}) {
		t.Fatalf("expected extent (1, 2, 3); got %v", got)
	}
	if !box.Contains(Vec3{1, 2, 3}) || box.Contains(Vec3{1, 2, 3.5}) {
		t.Fatal("unexpected Contains result")
	}
}

func TestAABBoxIntersectRay(t *testing.T) {
	box := AABBox{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	inf := float32(math.Inf(1))

	specs := []struct {
		origin  Vec3
		dir     Vec3
		tMax    float32
		expHit  bool
		expTMin float32
		expTMax float32
	}{
		{Vec3{-1, 0.5, 0.5}, Vec3{1, 0, 0}, inf, true, 1, 2},
		{Vec3{0.5, 0.5, 0.5}, Vec3{0, 0, -1}, inf, true, 0, 0.5},
		{Vec3{-1, 0.5, 0.5}, Vec3{-1, 0, 0}, inf, false, 0, 0},
		{Vec3{-1, 2, 0.5}, Vec3{1, 0, 0}, inf, false, 0, 0},
		{Vec3{-1, 0.5, 0.5}, Vec3{1, 0, 0}, 0.5, false, 0, 0},
		// Origin on a slab plane, parallel to it
		{Vec3{-1, 0, 0.5}, Vec3{1, 0, 0}, inf, true, 1, 2},
	}

	for specIndex, spec := range specs {
		tMin, tMax, hit := box.IntersectRay(spec.origin, spec.dir.Recip(), 0, spec.tMax)
		if hit != spec.expHit {
			t.Errorf("[spec %d] expected hit to be %t", specIndex, spec.expHit)
			continue
		}
		if hit && (tMin != spec.expTMin || tMax != spec.expTMax) {
			t.Errorf("[spec %d] expected interval [%f, %f]; got [%f, %f]", specIndex, spec.expTMin, spec.expTMax, tMin, tMax)
		}
	}
}
