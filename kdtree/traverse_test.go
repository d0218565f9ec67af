package kdtree

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/JerryBerry12/glare-core-sub000/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var inf = float32(math.Inf(1))

func TestTraceRayMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, numTris := range []int{1, 3, 10, 64, 500} {
		src := randomTriangles(rng, numTris, 10, 2)
		bf := NewBruteForce(src)

		for _, disableClipping := range []bool{false, true} {
			opts := DefaultBuildOptions()
			opts.DisableClipping = disableClipping
			tree := mustBuild(t, src, opts)
			ctx := NewTraversalContext()

			for rayIndex := 0; rayIndex < 400; rayIndex++ {
				ray := randomRay(rng, 10)
				maxT := inf
				if rayIndex%3 == 0 {
					maxT = rng.Float32() * 30
				}
				msg := fmt.Sprintf("tris: %d, clipping disabled: %t, ray %d", numTris, disableClipping, rayIndex)

				exp, expFound := bf.TraceRay(&ray, maxT)
				got, gotFound := tree.TraceRay(ctx, &ray, maxT)
				require.Equal(t, expFound, gotFound, msg)
				if expFound {
					requireSameHit(t, exp, got, msg)
					require.LessOrEqual(t, got.Distance, maxT, msg)
				}

				require.Equal(t, bf.DoesFiniteRayHit(&ray, maxT), tree.DoesFiniteRayHit(ctx, &ray, maxT), msg)
			}
		}
	}
}

func TestGetAllHitsMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	src := randomTriangles(rng, 300, 5, 3)
	tree := mustBuild(t, src, DefaultBuildOptions())
	bf := NewBruteForce(src)
	ctx := NewTraversalContext()

	var got []Hit
	for rayIndex := 0; rayIndex < 300; rayIndex++ {
		ray := randomRay(rng, 5)
		exp := sortHits(bf.GetAllHits(&ray, nil))
		got = sortHits(tree.GetAllHits(ctx, &ray, got[:0]))

		msg := fmt.Sprintf("ray %d", rayIndex)
		require.Equal(t, hitIndices(exp), hitIndices(got), msg)
		for i := range exp {
			requireSameHit(t, exp[i], got[i], msg)
		}
	}
}

func TestGetAllHitsAppends(t *testing.T) {
	src := gridWalls(4, 10)
	tree := mustBuild(t, src, DefaultBuildOptions())
	ray := NewRay(types.Vec3{-1, 2, 7}, types.Vec3{1, 0, 0})

	prefix := []Hit{{TriangleIndex: 1000, Distance: 1}}
	hits := tree.GetAllHits(NewTraversalContext(), &ray, prefix)
	require.Len(t, hits, 5)
	require.Equal(t, prefix[0], hits[0])
}

func TestGetAllHitsLetterboxOverflow(t *testing.T) {
	// Tilted triangles that overlap along x so that each one straddles
	// many split planes. The ray hits all of them which exceeds the
	// letterbox capacity.
	numTris := 2 * letterboxCapacity
	src := make(triangleList, numTris)
	for i := range src {
		x := float32(i) * 0.01
		src[i] = [3]types.Vec3{{x, -10, -10}, {x + 0.5, 10, -10}, {x, 0, 10}}
	}
	tree := mustBuild(t, src, DefaultBuildOptions())
	ray := NewRay(types.Vec3{-1, 0, 0}, types.Vec3{1, 0, 0})

	hits := sortHits(tree.GetAllHits(NewTraversalContext(), &ray, nil))
	require.Len(t, hits, numTris)
	for i, hit := range hits {
		require.Equal(t, uint32(i), hit.TriangleIndex)
	}
}

func TestConcreteScenario(t *testing.T) {
	// Triangles lying in y planes at increasing distance along +y.
	src := triangleList{
		{{-1, 0, -1}, {1, 0, -1}, {0, 0, 1}},   // a
		{{2, 5, -1}, {4, 5, -1}, {3, 5, 1}},    // b
		{{5, 9, -1}, {7, 9, -1}, {6, 9, 1}},    // c
		{{8, 14, -1}, {10, 14, -1}, {9, 14, 1}}, // d
	}

	opts := DefaultBuildOptions()
	opts.SplitThreshold = 1
	tree := mustBuild(t, src, opts)
	ctx := NewTraversalContext()

	ray := NewRay(types.Vec3{0, -2, 0}, types.Vec3{0, 1, 0})
	hit, found := tree.TraceRay(ctx, &ray, inf)
	require.True(t, found)
	require.Equal(t, uint32(0), hit.TriangleIndex)
	require.InDelta(t, 2.0, hit.Distance, 1e-6)

	ray = NewRay(types.Vec3{9, 0, 0}, types.Vec3{0, 1, 0})
	hit, found = tree.TraceRay(ctx, &ray, inf)
	require.True(t, found)
	require.Equal(t, uint32(3), hit.TriangleIndex)
	require.InDelta(t, 14.0, hit.Distance, 1e-6)

	require.True(t, tree.DoesFiniteRayHit(ctx, &ray, 14))
	require.False(t, tree.DoesFiniteRayHit(ctx, &ray, 13.5))
	_, found = tree.TraceRay(ctx, &ray, 13.5)
	require.False(t, found)
}

func TestAxisAlignedGrid(t *testing.T) {
	src := gridWalls(10, 10)
	tree := mustBuild(t, src, DefaultBuildOptions())
	bf := NewBruteForce(src)
	ctx := NewTraversalContext()

	dirs := []types.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}

	// Origins on integer coordinates place rays inside split planes.
	var hits []Hit
	for x := -1; x <= 10; x++ {
		for y := -1; y <= 11; y += 3 {
			for z := -1; z <= 11; z += 4 {
				for _, dir := range dirs {
					ray := NewRay(types.Vec3{float32(x) + 0.5*float32(x%2), float32(y), float32(z)}, dir)
					msg := fmt.Sprintf("origin %v, dir %v", ray.Origin, dir)

					exp, expFound := bf.TraceRay(&ray, inf)
					got, gotFound := tree.TraceRay(ctx, &ray, inf)
					require.Equal(t, expFound, gotFound, msg)
					if expFound {
						require.Equal(t, exp, got, msg)
					}

					expAll := bf.GetAllHits(&ray, nil)
					hits = tree.GetAllHits(ctx, &ray, hits[:0])
					require.ElementsMatch(t, expAll, hits, msg)
				}
			}
		}
	}
}

func TestRaysInsideLatticeSplitPlanes(t *testing.T) {
	src := latticeFaces(5)
	tree := mustBuild(t, src, DefaultBuildOptions())
	bf := NewBruteForce(src)
	ctx := NewTraversalContext()

	// Each ray lies in an integer plane of the lattice and travels
	// diagonally within it, so split planes along that axis contain it.
	diag := float32(math.Sqrt2 / 2)
	var hits []Hit
	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		for k := 0; k <= 5; k++ {
			for i := -1; i <= 5; i++ {
				for j := -1; j <= 5; j++ {
					for _, signs := range [4][2]float32{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
						var origin, dir types.Vec3
						origin[axis] = float32(k)
						origin[u] = float32(i) + 0.5
						origin[v] = float32(j) + 0.5
						dir[u] = signs[0] * diag
						dir[v] = signs[1] * diag
						ray := NewRay(origin, dir)
						msg := fmt.Sprintf("origin %v, dir %v", origin, dir)

						exp, expFound := bf.TraceRay(&ray, inf)
						got, gotFound := tree.TraceRay(ctx, &ray, inf)
						require.Equal(t, expFound, gotFound, msg)
						if expFound {
							require.Equal(t, exp, got, msg)
						}

						expAll := bf.GetAllHits(&ray, nil)
						hits = tree.GetAllHits(ctx, &ray, hits[:0])
						require.ElementsMatch(t, expAll, hits, msg)
					}
				}
			}
		}
	}

	// A ray in the y = 2 plane whose closest hit sits behind the split
	// plane containing it.
	ray := NewRay(types.Vec3{5.5, 2, 1.5}, types.Vec3{-diag, 0, diag})
	exp, found := bf.TraceRay(&ray, inf)
	require.True(t, found)
	got, found := tree.TraceRay(ctx, &ray, inf)
	require.True(t, found)
	require.Equal(t, exp, got)
	require.InDelta(t, 0.7071, got.Distance, 1e-4)
}

func TestRayAlongGridWall(t *testing.T) {
	src := gridWalls(4, 10)
	tree := mustBuild(t, src, DefaultBuildOptions())
	ctx := NewTraversalContext()

	// Rays inside a wall plane never report hits on it.
	ray := NewRay(types.Vec3{2, -1, 5}, types.Vec3{0, 1, 0})
	_, found := tree.TraceRay(ctx, &ray, inf)
	require.False(t, found)
	require.Empty(t, tree.GetAllHits(ctx, &ray, nil))

	ray = NewRay(types.Vec3{-5, 5, 2.5}, types.Vec3{1, 0, 0})
	hit, found := tree.TraceRay(ctx, &ray, inf)
	require.True(t, found)
	require.InDelta(t, 5.0, hit.Distance, 1e-6)
	require.Len(t, tree.GetAllHits(ctx, &ray, nil), 4)
}

func TestEquidistantHitsPreferLowerIndex(t *testing.T) {
	// The ray hits the shared edge of two triangles.
	src := triangleList{
		{{0, 0, 5}, {1, 1, 5}, {0, 1, 5}},
		{{0, 0, 5}, {1, 0, 5}, {1, 1, 5}},
		{{0, 0, 9}, {1, 0, 9}, {1, 1, 9}},
	}
	tree := mustBuild(t, src, DefaultBuildOptions())
	bf := NewBruteForce(src)

	ray := NewRay(types.Vec3{0.5, 0.5, 0}, types.Vec3{0, 0, 1})
	hit, found := tree.TraceRay(NewTraversalContext(), &ray, inf)
	require.True(t, found)
	require.Equal(t, uint32(0), hit.TriangleIndex)

	bfHit, found := bf.TraceRay(&ray, inf)
	require.True(t, found)
	require.Equal(t, uint32(0), bfHit.TriangleIndex)
}

func TestRayMissesRootBox(t *testing.T) {
	src := gridWalls(3, 1)
	tree := mustBuild(t, src, DefaultBuildOptions())
	ctx := NewTraversalContext()

	ray := NewRay(types.Vec3{-5, 5, 5}, types.Vec3{1, 0, 0})
	_, found := tree.TraceRay(ctx, &ray, inf)
	require.False(t, found)
	require.False(t, tree.DoesFiniteRayHit(ctx, &ray, inf))
	require.Empty(t, tree.GetAllHits(ctx, &ray, nil))

	// The root box is in reach but beyond maxDistance.
	ray = NewRay(types.Vec3{-5, 0.5, 0.25}, types.Vec3{1, 0, 0})
	_, found = tree.TraceRay(ctx, &ray, 4)
	require.False(t, found)
	_, found = tree.TraceRay(ctx, &ray, 5)
	require.True(t, found)
}

func TestConcurrentQueries(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	src := randomTriangles(rng, 1000, 10, 1.5)
	tree := mustBuild(t, src, DefaultBuildOptions())
	bf := NewBruteForce(src)

	rays := make([]Ray, 2000)
	for i := range rays {
		rays[i] = randomRay(rng, 10)
	}

	const workers = 8
	var group errgroup.Group
	for worker := 0; worker < workers; worker++ {
		group.Go(func() error {
			ctx := NewTraversalContext()
			for i := worker; i < len(rays); i += workers {
				exp, expFound := bf.TraceRay(&rays[i], inf)
				got, gotFound := tree.TraceRay(ctx, &rays[i], inf)
				if expFound != gotFound {
					return fmt.Errorf("ray %d: expected found=%t; got %t", i, expFound, gotFound)
				}
				if expFound && exp != got {
					return fmt.Errorf("ray %d: expected hit %+v; got %+v", i, exp, got)
				}
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())
}

func benchmarkTraceRay(b *testing.B, numTris int) {
	rng := rand.New(rand.NewPCG(7, 8))
	src := randomTriangles(rng, numTris, 10, 0.5)
	tree := mustBuild(b, src, DefaultBuildOptions())
	rays := make([]Ray, 1024)
	for i := range rays {
		rays[i] = randomRay(rng, 10)
	}
	ctx := NewTraversalContext()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.TraceRay(ctx, &rays[i%len(rays)], inf)
	}
}

func BenchmarkTraceRay1K(b *testing.B)   { benchmarkTraceRay(b, 1000) }
func BenchmarkTraceRay100K(b *testing.B) { benchmarkTraceRay(b, 100000) }
