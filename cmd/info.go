package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/JerryBerry12/glare-core-sub000/asset/mesh"
	"github.com/JerryBerry12/glare-core-sub000/kdtree"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display information about the cached tree of a mesh.
func ShowTreeInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing mesh file argument")
	}

	store, err := openCache(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("missing cache-dir flag")
	}

	m, err := mesh.ReadMesh(ctx.Args().First())
	if err != nil {
		return err
	}

	checksum := kdtree.Checksum(m)
	entry, err := store.Load(checksum)
	if err != nil {
		return err
	}
	tree, err := kdtree.Deserialize(m, entry)
	if err != nil {
		return err
	}

	logger.Noticef("cached tree %08x (%d bytes)\n%s", checksum, len(entry), summaryTable(tree))
	return nil
}

// Summarize the structure of a tree. Unlike BuildStats this only relies on
// data stored in cache entries.
func summaryTable(tree *kdtree.Tree) string {
	var leafs, emptyLeafs, maxLeafSize, maxDepth int

	type pending struct {
		node  uint32
		depth int
	}
	nodes := tree.Nodes()
	stack := []pending{{node: 0}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.depth > maxDepth {
			maxDepth = cur.depth
		}

		node := nodes[cur.node]
		if !node.IsLeaf() {
			stack = append(stack, pending{node.PositiveChild(), cur.depth + 1}, pending{cur.node + 1, cur.depth + 1})
			continue
		}

		leafs++
		_, count := node.Triangles()
		if count == 0 {
			emptyLeafs++
		}
		if int(count) > maxLeafSize {
			maxLeafSize = int(count)
		}
	}

	box := tree.RootBox()
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", tree.NumTriangles())})
	table.Append([]string{"Root box", fmt.Sprintf("%v - %v", box.Min, box.Max)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", len(nodes))})
	table.Append([]string{"Leafs", fmt.Sprintf("%d (%d empty)", leafs, emptyLeafs)})
	table.Append([]string{"Depth", fmt.Sprintf("%d", maxDepth)})
	table.Append([]string{"Leaf references", fmt.Sprintf("%d", len(tree.LeafGeometry()))})
	table.Append([]string{"Largest leaf", fmt.Sprintf("%d", maxLeafSize)})
	table.Render()
	return buf.String()
}
