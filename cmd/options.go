package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JerryBerry12/glare-core-sub000/asset/mesh"
	"github.com/JerryBerry12/glare-core-sub000/kdtree"
	"github.com/JerryBerry12/glare-core-sub000/kdtree/cache"
	"github.com/JerryBerry12/glare-core-sub000/types"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli"
)

// Flags shared by all commands that build or load a tree.
var TreeFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "options",
		Usage: "JSON file with builder options; flags override its values",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Usage: "max tree depth; 0 selects a depth based on the triangle count",
	},
	cli.IntFlag{
		Name:  "split-threshold",
		Usage: "nodes with this many triangles or less become leafs",
	},
	cli.Float64Flag{
		Name:  "traversal-cost",
		Usage: "SAH cost of traversing an interior node",
	},
	cli.Float64Flag{
		Name:  "intersection-cost",
		Usage: "SAH cost of a ray/triangle intersection test",
	},
	cli.Float64Flag{
		Name:  "empty-space-cutoff",
		Usage: "empty volume fraction that triggers a cutoff split",
	},
	cli.BoolFlag{
		Name:  "no-clipping",
		Usage: "do not clip straddling triangles against child volumes",
	},
	cli.StringFlag{
		Name:  "cache-dir",
		Usage: "directory for persisted trees",
	},
}

// Assemble builder options from the defaults, the options file and any
// flags specified by the user.
func buildOptions(ctx *cli.Context) (kdtree.BuildOptions, error) {
	opts := kdtree.DefaultBuildOptions()
	if path := ctx.String("options"); path != "" {
		if err := readOptionsFile(path, &opts); err != nil {
			return opts, err
		}
	}

	if ctx.IsSet("max-depth") {
		opts.MaxDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("split-threshold") {
		opts.SplitThreshold = ctx.Int("split-threshold")
	}
	if ctx.IsSet("traversal-cost") {
		opts.TraversalCost = float32(ctx.Float64("traversal-cost"))
	}
	if ctx.IsSet("intersection-cost") {
		opts.IntersectionCost = float32(ctx.Float64("intersection-cost"))
	}
	if ctx.IsSet("empty-space-cutoff") {
		opts.EmptySpaceCutoffFraction = float32(ctx.Float64("empty-space-cutoff"))
	}
	if ctx.Bool("no-clipping") {
		opts.DisableClipping = true
	}

	return opts, opts.Validate()
}

// Overlay the values defined in a JSON options file on top of opts.
func readOptionsFile(path string, opts *kdtree.BuildOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("could not parse options file %s: %w", path, err)
	}
	return nil
}

// Open the tree cache selected by the cache-dir flag. Returns a nil cache if
// the flag is not set.
func openCache(ctx *cli.Context) (kdtree.Cache, error) {
	dir := ctx.String("cache-dir")
	if dir == "" {
		return nil, nil
	}
	return cache.NewDir(dir)
}

// Load the mesh specified as the first command argument and build or load
// its tree.
func loadTree(ctx *cli.Context) (*mesh.Mesh, *kdtree.Tree, error) {
	if ctx.NArg() < 1 {
		return nil, nil, errors.New("missing mesh file argument")
	}

	opts, err := buildOptions(ctx)
	if err != nil {
		return nil, nil, err
	}
	store, err := openCache(ctx)
	if err != nil {
		return nil, nil, err
	}

	m, err := mesh.ReadMesh(ctx.Args().First())
	if err != nil {
		return nil, nil, err
	}
	tree, err := kdtree.BuildCached(m, opts, store)
	if err != nil {
		return nil, nil, err
	}
	return m, tree, nil
}

// Parse a comma separated "x,y,z" vector.
func parseVec3(value string) (types.Vec3, error) {
	var v types.Vec3
	tokens := strings.Split(value, ",")
	if len(tokens) != 3 {
		return v, fmt.Errorf("expected vector in x,y,z format; got %q", value)
	}
	for index, token := range tokens {
		coord, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return v, fmt.Errorf("invalid vector component %q: %w", token, err)
		}
		v[index] = float32(coord)
	}
	return v, nil
}
