package cmd

import (
	"bytes"
	"fmt"
	"math"
	"slices"

	"github.com/JerryBerry12/glare-core-sub000/kdtree"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Trace a single ray against the tree of a mesh.
func TraceRay(ctx *cli.Context) error {
	setupLogging(ctx)

	origin, err := parseVec3(ctx.String("origin"))
	if err != nil {
		return err
	}
	dir, err := parseVec3(ctx.String("dir"))
	if err != nil {
		return err
	}
	if dir.Len() == 0 {
		return fmt.Errorf("ray direction must not be zero")
	}

	maxDistance := float32(math.Inf(1))
	if ctx.IsSet("max-distance") {
		maxDistance = float32(ctx.Float64("max-distance"))
	}

	_, tree, err := loadTree(ctx)
	if err != nil {
		return err
	}

	ray := kdtree.NewRay(origin, dir.Normalize())
	tctx := kdtree.NewTraversalContext()

	switch mode := ctx.String("mode"); mode {
	case "nearest":
		hit, found := tree.TraceRay(tctx, &ray, maxDistance)
		if !found {
			logger.Notice("ray does not hit any triangle")
			return nil
		}
		verts := tree.Triangle(hit.TriangleIndex).Vertices()
		logger.Noticef("nearest hit\n%s", hitTable(&ray, []kdtree.Hit{hit}))
		logger.Infof("triangle %d vertices: %v %v %v", hit.TriangleIndex, verts[0], verts[1], verts[2])
	case "occlusion":
		logger.Noticef("occluded within %v: %t", maxDistance, tree.DoesFiniteRayHit(tctx, &ray, maxDistance))
	case "all":
		hits := tree.GetAllHits(tctx, &ray, nil)
		slices.SortFunc(hits, func(a, b kdtree.Hit) int {
			switch {
			case a.Distance < b.Distance:
				return -1
			case a.Distance > b.Distance:
				return 1
			}
			return int(a.TriangleIndex) - int(b.TriangleIndex)
		})
		logger.Noticef("%d hits\n%s", len(hits), hitTable(&ray, hits))
	default:
		return fmt.Errorf("unsupported query mode %q", mode)
	}

	return nil
}

func hitTable(ray *kdtree.Ray, hits []kdtree.Hit) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Triangle", "Distance", "U", "V", "Point"})
	for _, hit := range hits {
		table.Append([]string{
			fmt.Sprintf("%d", hit.TriangleIndex),
			fmt.Sprintf("%f", hit.Distance),
			fmt.Sprintf("%f", hit.U),
			fmt.Sprintf("%f", hit.V),
			fmt.Sprintf("%v", ray.At(hit.Distance)),
		})
	}
	table.Render()
	return buf.String()
}
