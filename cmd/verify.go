package cmd

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/JerryBerry12/glare-core-sub000/kdtree"
	"github.com/JerryBerry12/glare-core-sub000/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

type verifyResults struct {
	rays       atomic.Int64
	nearest    atomic.Int64
	occlusion  atomic.Int64
	allHits    atomic.Int64
	treeTime   atomic.Int64
	bruteForce atomic.Int64
}

// Compare tree queries against brute force queries for random rays.
func VerifyTree(ctx *cli.Context) error {
	setupLogging(ctx)

	m, tree, err := loadTree(ctx)
	if err != nil {
		return err
	}

	numRays := ctx.Int("rays")
	workers := ctx.Int("workers")
	if numRays <= 0 || workers <= 0 {
		return fmt.Errorf("rays and workers must be positive")
	}
	seed := ctx.Uint64("seed")

	bf := kdtree.NewBruteForce(m)
	box := tree.RootBox()
	var res verifyResults

	logger.Noticef("verifying %d rays using %d workers", numRays, workers)
	group, gctx := errgroup.WithContext(context.Background())
	for worker := 0; worker < workers; worker++ {
		group.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(worker)))
			tctx := kdtree.NewTraversalContext()
			var treeHits, bfHits []kdtree.Hit

			for rayIndex := worker; rayIndex < numRays; rayIndex += workers {
				if err := gctx.Err(); err != nil {
					return err
				}

				ray := randomRay(rng, box)
				maxT := float32(math.Inf(1))
				if rayIndex%2 == 1 {
					maxT = rng.Float32() * box.Extent().Len()
				}

				start := time.Now()
				hit, found := tree.TraceRay(tctx, &ray, maxT)
				occluded := tree.DoesFiniteRayHit(tctx, &ray, maxT)
				treeHits = tree.GetAllHits(tctx, &ray, treeHits[:0])
				res.treeTime.Add(int64(time.Since(start)))

				start = time.Now()
				expHit, expFound := bf.TraceRay(&ray, maxT)
				expOccluded := bf.DoesFiniteRayHit(&ray, maxT)
				bfHits = bf.GetAllHits(&ray, bfHits[:0])
				res.bruteForce.Add(int64(time.Since(start)))

				res.rays.Add(1)
				if !sameNearestHit(hit, found, expHit, expFound) {
					res.nearest.Add(1)
					logger.Warningf("nearest hit mismatch for ray %v -> %v: got (%t, %+v); expected (%t, %+v)", ray.Origin, ray.Dir, found, hit, expFound, expHit)
				}
				if occluded != expOccluded {
					res.occlusion.Add(1)
					logger.Warningf("occlusion mismatch for ray %v -> %v: got %t", ray.Origin, ray.Dir, occluded)
				}
				if !sameHitSets(treeHits, bfHits) {
					res.allHits.Add(1)
					logger.Warningf("all hits mismatch for ray %v -> %v: got %d hits; expected %d", ray.Origin, ray.Dir, len(treeHits), len(bfHits))
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	logger.Noticef("verification results\n%s", res.table())
	if mismatches := res.nearest.Load() + res.occlusion.Load() + res.allHits.Load(); mismatches > 0 {
		return fmt.Errorf("tree queries disagree with brute force queries for %d checks", mismatches)
	}
	return nil
}

// Generate a ray that starts inside box grown by its extent and is aimed at a
// point inside box.
func randomRay(rng *rand.Rand, box types.AABBox) kdtree.Ray {
	extent := box.Extent()
	point := func(scale float32) types.Vec3 {
		var p types.Vec3
		for axis := 0; axis < 3; axis++ {
			center := (box.Min[axis] + box.Max[axis]) / 2
			p[axis] = center + (rng.Float32()-0.5)*extent[axis]*scale
		}
		return p
	}

	for {
		origin := point(3)
		dir := point(1).Sub(origin)
		if l := dir.Len(); l > 0 && !math.IsInf(float64(l), 0) {
			return kdtree.NewRay(origin, dir.Normalize())
		}
	}
}

// Tree and brute force queries share the intersection routine so matching
// hits are bit-for-bit identical.
func sameNearestHit(hit kdtree.Hit, found bool, expHit kdtree.Hit, expFound bool) bool {
	return found == expFound && (!found || hit == expHit)
}

func sameHitSets(a, b []kdtree.Hit) bool {
	if len(a) != len(b) {
		return false
	}
	sorted := func(hits []kdtree.Hit) []kdtree.Hit {
		out := slices.Clone(hits)
		slices.SortFunc(out, func(x, y kdtree.Hit) int {
			return cmp.Compare(x.TriangleIndex, y.TriangleIndex)
		})
		return out
	}
	return slices.Equal(sorted(a), sorted(b))
}

func (res *verifyResults) table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Check", "Mismatches"})
	table.Append([]string{"Nearest hit", fmt.Sprintf("%d", res.nearest.Load())})
	table.Append([]string{"Occlusion", fmt.Sprintf("%d", res.occlusion.Load())})
	table.Append([]string{"All hits", fmt.Sprintf("%d", res.allHits.Load())})
	table.SetFooter([]string{
		fmt.Sprintf("%d rays", res.rays.Load()),
		fmt.Sprintf("tree %s / brute force %s", time.Duration(res.treeTime.Load()), time.Duration(res.bruteForce.Load())),
	})
	table.Render()
	return buf.String()
}
