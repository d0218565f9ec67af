package kdtree

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/JerryBerry12/glare-core-sub000/types"
	"github.com/stretchr/testify/require"
)

// A triangle source backed by a slice.
type triangleList [][3]types.Vec3

func (l triangleList) NumTriangles() int {
	return len(l)
}

func (l triangleList) TriangleVertices(index int) [3]types.Vec3 {
	return l[index]
}

func randomPoint(rng *rand.Rand, extent float32) types.Vec3 {
	return types.Vec3{
		(rng.Float32()*2 - 1) * extent,
		(rng.Float32()*2 - 1) * extent,
		(rng.Float32()*2 - 1) * extent,
	}
}

// Generate n triangles with vertices within size of a random center inside
// [-extent, extent]^3.
func randomTriangles(rng *rand.Rand, n int, extent, size float32) triangleList {
	tris := make(triangleList, 0, n)
	for len(tris) < n {
		center := randomPoint(rng, extent)
		verts := [3]types.Vec3{
			center.Add(randomPoint(rng, size)),
			center.Add(randomPoint(rng, size)),
			center.Add(randomPoint(rng, size)),
		}
		if IsDegenerate(verts) {
			continue
		}
		tris = append(tris, verts)
	}
	return tris
}

// Generate a ray starting anywhere in [-2*extent, 2*extent]^3 aimed at a point
// inside [-extent, extent]^3.
func randomRay(rng *rand.Rand, extent float32) Ray {
	for {
		origin := randomPoint(rng, 2*extent)
		dir := randomPoint(rng, extent).Sub(origin)
		if dir.Len() < 1e-3 {
			continue
		}
		return NewRay(origin, dir.Normalize())
	}
}

// Quads perpendicular to the x axis at x = 0, 1, ..., count-1 spanning
// [0, size]^2 in y and z. Each quad contributes 2 triangles.
func gridWalls(count int, size float32) triangleList {
	tris := make(triangleList, 0, 2*count)
	for i := 0; i < count; i++ {
		x := float32(i)
		tris = append(tris,
			[3]types.Vec3{{x, 0, 0}, {x, size, 0}, {x, size, size}},
			[3]types.Vec3{{x, 0, 0}, {x, size, size}, {x, 0, size}},
		)
	}
	return tris
}

// Unit squares on every integer plane of the [0, size]^3 lattice along all
// three axes. Each square contributes 2 triangles.
func latticeFaces(size int) triangleList {
	var tris triangleList
	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		for k := 0; k <= size; k++ {
			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					var corners [4]types.Vec3
					for c, offset := range [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
						corners[c][axis] = float32(k)
						corners[c][u] = float32(i + offset[0])
						corners[c][v] = float32(j + offset[1])
					}
					tris = append(tris,
						[3]types.Vec3{corners[0], corners[1], corners[2]},
						[3]types.Vec3{corners[0], corners[2], corners[3]},
					)
				}
			}
		}
	}
	return tris
}

// Tree queries run the same intersection routine as the reference engine so
// hits must match exactly.
func requireSameHit(t *testing.T, exp, got Hit, msgAndArgs ...interface{}) {
	t.Helper()
	require.Equal(t, exp, got, msgAndArgs...)
}

func sortHits(hits []Hit) []Hit {
	slices.SortFunc(hits, func(a, b Hit) int {
		return int(a.TriangleIndex) - int(b.TriangleIndex)
	})
	return hits
}

func hitIndices(hits []Hit) []uint32 {
	indices := make([]uint32, len(hits))
	for i, hit := range hits {
		indices[i] = hit.TriangleIndex
	}
	return indices
}

func mustBuild(t testing.TB, src TriangleSource, opts BuildOptions) *Tree {
	t.Helper()
	tree, err := Build(src, opts)
	require.NoError(t, err)
	return tree
}
