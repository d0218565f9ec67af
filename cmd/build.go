package cmd

import (
	"errors"

	"github.com/JerryBerry12/glare-core-sub000/asset/mesh"
	"github.com/JerryBerry12/glare-core-sub000/kdtree"
	"github.com/urfave/cli"
)

// Build kd-trees for one or more meshes and persist them to the cache
// directory if one is specified.
func BuildTrees(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing mesh file arguments")
	}

	opts, err := buildOptions(ctx)
	if err != nil {
		return err
	}
	store, err := openCache(ctx)
	if err != nil {
		return err
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		meshFile := ctx.Args().Get(idx)

		m, err := mesh.ReadMesh(meshFile)
		if err != nil {
			return err
		}

		var tree *kdtree.Tree
		if ctx.Bool("force") || store == nil {
			tree, err = kdtree.Build(m, opts)
			if err == nil && store != nil {
				err = storeTree(store, tree)
			}
		} else {
			tree, err = kdtree.BuildCached(m, opts, store)
		}
		if err != nil {
			return err
		}

		if stats := tree.Stats(); stats != nil {
			logger.Noticef("tree statistics for %s (checksum %08x)\n%s", meshFile, tree.Checksum(), stats.Table())
		} else {
			logger.Noticef("tree for %s (checksum %08x) loaded from cache\n%s", meshFile, tree.Checksum(), summaryTable(tree))
		}
	}

	return nil
}

func storeTree(store kdtree.Cache, tree *kdtree.Tree) error {
	entry, err := tree.MarshalBinary()
	if err != nil {
		return err
	}
	return store.Store(tree.Checksum(), entry)
}
