//go:build !kdtreedebug

package kdtree

// Ray contract checks are compiled in with the kdtreedebug build tag.
func checkRay(*Ray) {}
