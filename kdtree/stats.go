package kdtree

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// The reason the builder turned a node into a leaf.
type LeafReason uint8

const (
	NotALeaf LeafReason = iota
	LeafSplitThreshold
	LeafMaxDepth
	LeafNoBeneficialSplit
	LeafInseparable
	numLeafReasons
)

func (r LeafReason) String() string {
	switch r {
	case NotALeaf:
		return "interior"
	case LeafSplitThreshold:
		return "split threshold"
	case LeafMaxDepth:
		return "max depth"
	case LeafNoBeneficialSplit:
		return "no beneficial split"
	case LeafInseparable:
		return "inseparable"
	}
	return fmt.Sprintf("LeafReason(%d)", uint8(r))
}

// Statistics collected while building a tree.
type BuildStats struct {
	Triangles           int
	DegenerateTriangles int

	Nodes      int
	Leafs      int
	EmptyLeafs int

	// The max depth the builder was allowed to reach and the depth it
	// actually reached.
	MaxDepthLimit int
	MaxDepth      int

	// Total number of triangle references stored in leafs. Clipping may
	// place the same triangle in more than one leaf.
	LeafReferences int

	// Number of leafs per termination reason.
	ReasonCounts [numLeafReasons]int

	// Termination reason of each node, indexed by node index. Interior
	// nodes are tagged with NotALeaf.
	LeafReasons []LeafReason

	// Number of straddling triangles clipped and the number of child
	// assignments dropped because the clipped polygon was empty.
	ClippedTriangles  int
	DroppedByClipping int

	BuildTime time.Duration
}

// Average number of leafs each triangle is referenced by.
func (st *BuildStats) DuplicationFactor() float32 {
	nonDegenerate := st.Triangles - st.DegenerateTriangles
	if nonDegenerate == 0 {
		return 0
	}
	return float32(st.LeafReferences) / float32(nonDegenerate)
}

// Build a tabular representation of the tree statistics.
func (st *BuildStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Triangles", fmt.Sprintf("%d (%d degenerate)", st.Triangles, st.DegenerateTriangles)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", st.Nodes)})
	table.Append([]string{"Leafs", fmt.Sprintf("%d (%d empty)", st.Leafs, st.EmptyLeafs)})
	table.Append([]string{"Depth", fmt.Sprintf("%d (limit %d)", st.MaxDepth, st.MaxDepthLimit)})
	table.Append([]string{"Leaf references", fmt.Sprintf("%d (x%.2f per triangle)", st.LeafReferences, st.DuplicationFactor())})
	table.Append([]string{"Clipped triangles", fmt.Sprintf("%d (%d child assignments dropped)", st.ClippedTriangles, st.DroppedByClipping)})
	for reason := LeafSplitThreshold; reason < numLeafReasons; reason++ {
		table.Append([]string{"Leafs: " + reason.String(), fmt.Sprintf("%d", st.ReasonCounts[reason])})
	}
	if st.BuildTime > 0 {
		table.SetFooter([]string{"Build time", st.BuildTime.String()})
	}

	table.Render()
	return buf.String()
}
