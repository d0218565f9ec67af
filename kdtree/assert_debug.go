//go:build kdtreedebug

package kdtree

import (
	"fmt"
	"math"
)

const unitLengthTolerance = 1e-3

func checkRay(ray *Ray) {
	if !ray.Origin.IsFinite() || !ray.Dir.IsFinite() {
		panic(fmt.Sprintf("kdtree: non-finite ray origin %v or direction %v", ray.Origin, ray.Dir))
	}
	if l := ray.Dir.Len(); math.Abs(float64(l)-1) > unitLengthTolerance {
		panic(fmt.Sprintf("kdtree: ray direction %v is not unit length (%f)", ray.Dir, l))
	}
	if ray.InvDir != ray.Dir.Recip() {
		panic("kdtree: stale reciprocal ray direction; use NewRay")
	}
}
