package kdtree

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/JerryBerry12/glare-core-sub000/log"
	"github.com/JerryBerry12/glare-core-sub000/types"
)

// A triangle reference tracked by the builder. The box holds the bounds of
// the part of the triangle that lies inside the volume of the node being
// partitioned.
type triInfo struct {
	index uint32
	box   types.AABBox
}

type splitCandidate struct {
	axis  int
	value float32

	// Where to place triangles lying flat on the split plane.
	pushFlatLeft bool

	cost float32
}

type builder struct {
	logger log.Logger
	opts   BuildOptions

	maxDepth int

	// Source vertex positions, indexed by triangle index. Used for clipping.
	verts [][3]types.Vec3

	nodes       []TreeNode
	leafGeom    []uint32
	leafReasons []LeafReason

	// Scratch space for sorting triangle bounds along an axis.
	lower []float32
	upper []float32
	flat  []float32

	stats BuildStats
}

// Build a kd-tree for the triangles in src.
//
// The builder recursively selects the split plane that minimizes the surface
// area heuristic cost:
// traversal cost + (nNeg * negArea + nPos * posArea) / parentArea * intersection cost
//
// Triangles straddling a split plane are clipped against each child volume
// so that their bounds stay tight as the recursion progresses. Degenerate
// triangles are skipped. All returned errors wrap ErrBuildFailed.
func Build(src TriangleSource, opts BuildOptions) (*Tree, error) {
	start := time.Now()
	tree, err := build(src, opts)
	if err != nil {
		treeBuilds.WithLabelValues(outcomeFailed).Inc()
		return nil, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	elapsed := time.Since(start)
	tree.stats.BuildTime = elapsed
	treeBuilds.WithLabelValues(outcomeOK).Inc()
	treeBuildDuration.Observe(elapsed.Seconds())
	return tree, nil
}

func build(src TriangleSource, opts BuildOptions) (*Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	numTris := src.NumTriangles()
	if uint64(numTris) > math.MaxUint32 {
		return nil, ErrTreeTooLarge
	}

	b := &builder{
		logger: log.New("kdtree builder"),
		opts:   opts,
		verts:  make([][3]types.Vec3, numTris),
		stats: BuildStats{
			Triangles: numTris,
		},
	}

	workList := make([]triInfo, 0, numTris)
	rootBox := types.EmptyAABBox()
	for index := 0; index < numTris; index++ {
		verts := src.TriangleVertices(index)
		b.verts[index] = verts
		if IsDegenerate(verts) {
			b.stats.DegenerateTriangles++
			continue
		}

		ti := triInfo{index: uint32(index), box: types.EmptyAABBox()}
		for _, v := range verts {
			ti.box.Enlarge(v)
		}
		rootBox.EnlargeBox(ti.box)
		workList = append(workList, ti)
	}

	if len(workList) == 0 {
		return nil, ErrNoTriangles
	}

	b.maxDepth = opts.maxDepthFor(len(workList))
	b.stats.MaxDepthLimit = b.maxDepth
	b.lower = make([]float32, len(workList))
	b.upper = make([]float32, len(workList))
	b.flat = make([]float32, 0, len(workList))

	b.logger.Infof("partitioning %d triangles (%d degenerate); max depth %d", len(workList), b.stats.DegenerateTriangles, b.maxDepth)
	if err := b.partition(workList, rootBox, 0); err != nil {
		return nil, err
	}

	tris := make([]PrecomputedTriangle, numTris)
	for index := range tris {
		tris[index] = NewPrecomputedTriangle(b.verts[index])
	}

	b.stats.Nodes = len(b.nodes)
	b.stats.LeafReferences = len(b.leafGeom)
	b.stats.LeafReasons = b.leafReasons
	b.logger.Debugf(
		"kd-tree maxDepth: %d, nodes: %d, leafs: %d, leaf refs: %d",
		b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs, b.stats.LeafReferences,
	)

	return &Tree{
		nodes:    b.nodes,
		leafGeom: b.leafGeom,
		tris:     tris,
		rootBox:  rootBox,
		checksum: Checksum(src),
		stats:    &b.stats,
	}, nil
}

// Partition the work list whose triangles lie within nodeBox. Nodes are
// emitted in preorder: the negative child directly follows its parent and
// the index of the positive child is patched in once the negative subtree
// is complete.
func (b *builder) partition(workList []triInfo, nodeBox types.AABBox, depth int) error {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	if len(workList) <= b.opts.SplitThreshold {
		return b.createLeaf(workList, LeafSplitThreshold)
	}
	if depth >= b.maxDepth {
		return b.createLeaf(workList, LeafMaxDepth)
	}

	split, ok := b.selectSplit(workList, nodeBox)
	if !ok {
		return b.createLeaf(workList, LeafNoBeneficialSplit)
	}

	negBox, posBox := nodeBox, nodeBox
	negBox.Max[split.axis] = split.value
	posBox.Min[split.axis] = split.value

	negList, posList := b.splitWorkList(workList, split, negBox, posBox)
	if len(negList) == len(workList) && len(posList) == len(workList) {
		return b.createLeaf(workList, LeafInseparable)
	}

	nodeIndex := len(b.nodes)
	if err := b.appendNode(interiorNode(split.axis, split.value), NotALeaf); err != nil {
		return err
	}

	if err := b.partition(negList, negBox, depth+1); err != nil {
		return err
	}

	b.nodes[nodeIndex].setPositiveChild(uint32(len(b.nodes)))
	return b.partition(posList, posBox, depth+1)
}

// Find the split with the lowest SAH cost. Splits flush with the triangle
// bounds that cut away a large enough empty volume take precedence. The
// second result is false if splitting does not improve on the cost of
// creating a leaf.
func (b *builder) selectSplit(workList []triInfo, nodeBox types.AABBox) (splitCandidate, bool) {
	n := len(workList)
	parentArea := nodeBox.SurfaceArea()
	if !(parentArea > 0) {
		return splitCandidate{}, false
	}

	extent := nodeBox.Extent()
	costScale := b.opts.IntersectionCost / parentArea
	best := splitCandidate{axis: -1, cost: float32(n) * b.opts.IntersectionCost}
	cutoff := splitCandidate{axis: -1}
	var bestEmptyFrac float32

	for axis := 0; axis < 3; axis++ {
		// Cannot split a flat box along its flat axis
		if !(extent[axis] > 0) {
			continue
		}

		capArea := extent[(axis+1)%3] * extent[(axis+2)%3]
		perimeter := extent[(axis+1)%3] + extent[(axis+2)%3]
		nodeMin, nodeMax := nodeBox.Min[axis], nodeBox.Max[axis]
		lower, upper, flat := b.sortedBounds(workList, axis)

		// Track the largest empty slab we could cut off at either end
		if frac := (lower[0] - nodeMin) / extent[axis]; frac > bestEmptyFrac && lower[0] < nodeMax {
			bestEmptyFrac = frac
			cutoff = splitCandidate{axis: axis, value: lower[0], pushFlatLeft: false}
		}
		if frac := (nodeMax - upper[n-1]) / extent[axis]; frac > bestEmptyFrac && upper[n-1] > nodeMin {
			bestEmptyFrac = frac
			cutoff = splitCandidate{axis: axis, value: upper[n-1], pushFlatLeft: true}
		}

		// Sweep the candidate planes in increasing order. When evaluating
		// split value s, lower[:li] holds the lower bounds < s and
		// upper[:ui] the upper bounds <= s.
		li, ui, fi := 0, 0, 0
		for li < n || ui < n {
			s := float32(math.Inf(1))
			if li < n {
				s = lower[li]
			}
			if ui < n && upper[ui] < s {
				s = upper[ui]
			}

			for ui < n && upper[ui] <= s {
				ui++
			}
			for fi < len(flat) && flat[fi] < s {
				fi++
			}
			numFlat := 0
			for fi+numFlat < len(flat) && flat[fi+numFlat] == s {
				numFlat++
			}

			if s > nodeMin && s < nodeMax {
				numNeg, numPos := li, n-ui
				negArea := 2 * (capArea + perimeter*(s-nodeMin))
				posArea := 2 * (capArea + perimeter*(nodeMax-s))

				// Evaluate both placements for triangles lying on the plane
				costLeft := b.opts.TraversalCost + (float32(numNeg+numFlat)*negArea+float32(numPos)*posArea)*costScale
				costRight := b.opts.TraversalCost + (float32(numNeg)*negArea+float32(numPos+numFlat)*posArea)*costScale
				pushLeft := costLeft <= costRight
				cost := costLeft
				if !pushLeft {
					cost = costRight
				}

				if cost < best.cost {
					best = splitCandidate{axis: axis, value: s, pushFlatLeft: pushLeft, cost: cost}
				}
			}

			for li < n && lower[li] <= s {
				li++
			}
		}
	}

	if bestEmptyFrac > b.opts.EmptySpaceCutoffFraction {
		return cutoff, true
	}
	return best, best.axis >= 0
}

// Collect the sorted lower and upper triangle bounds along an axis as well as
// the sorted positions of triangles with a zero extent along it.
func (b *builder) sortedBounds(workList []triInfo, axis int) (lower, upper, flat []float32) {
	lower = b.lower[:len(workList)]
	upper = b.upper[:len(workList)]
	flat = b.flat[:0]
	for index, ti := range workList {
		lower[index] = ti.box.Min[axis]
		upper[index] = ti.box.Max[axis]
		if ti.box.Min[axis] == ti.box.Max[axis] {
			flat = append(flat, ti.box.Min[axis])
		}
	}

	slices.Sort(lower)
	slices.Sort(upper)
	slices.Sort(flat)
	return lower, upper, flat
}

// Distribute the work list to the two children of a split. Triangles that
// straddle the split plane are clipped against each child volume.
func (b *builder) splitWorkList(workList []triInfo, split splitCandidate, negBox, posBox types.AABBox) (negList, posList []triInfo) {
	axis, s := split.axis, split.value
	for _, ti := range workList {
		lo, hi := ti.box.Min[axis], ti.box.Max[axis]
		switch {
		case lo == s && hi == s:
			if split.pushFlatLeft {
				negList = append(negList, ti)
			} else {
				posList = append(posList, ti)
			}
		case lo < s && hi > s:
			b.stats.ClippedTriangles++
			if box, ok := b.clipToChild(ti, negBox); ok {
				negList = append(negList, triInfo{index: ti.index, box: box})
			} else {
				b.stats.DroppedByClipping++
			}
			if box, ok := b.clipToChild(ti, posBox); ok {
				posList = append(posList, triInfo{index: ti.index, box: box})
			} else {
				b.stats.DroppedByClipping++
			}
		case lo < s:
			negList = append(negList, ti)
		default:
			posList = append(posList, ti)
		}
	}

	return negList, posList
}

// Calculate the bounds of a straddling triangle within a child volume.
func (b *builder) clipToChild(ti triInfo, childBox types.AABBox) (types.AABBox, bool) {
	bounds := types.Intersect(ti.box, childBox)
	if b.opts.DisableClipping {
		return bounds, !bounds.IsEmpty()
	}
	return clipTriangle(b.verts[ti.index], bounds)
}

// Append a leaf referencing all triangles in the work list.
func (b *builder) createLeaf(workList []triInfo, reason LeafReason) error {
	start := len(b.leafGeom)
	if uint64(start)+uint64(len(workList)) > math.MaxUint32 || uint64(len(workList)) > uint64(maxNodePayload) {
		return ErrTreeTooLarge
	}

	for _, ti := range workList {
		b.leafGeom = append(b.leafGeom, ti.index)
	}
	if err := b.appendNode(leafNode(uint32(start), uint32(len(workList))), reason); err != nil {
		return err
	}

	b.stats.Leafs++
	b.stats.ReasonCounts[reason]++
	if len(workList) == 0 {
		b.stats.EmptyLeafs++
	}
	return nil
}

func (b *builder) appendNode(node TreeNode, reason LeafReason) error {
	if uint64(len(b.nodes)) >= uint64(maxNodePayload) {
		return ErrTreeTooLarge
	}
	b.nodes = append(b.nodes, node)
	b.leafReasons = append(b.leafReasons, reason)
	return nil
}
