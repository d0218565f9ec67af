package kdtree

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode the tree as a cache entry with the following little-endian layout:
//
// [u32 checksum][u32 node count][node count x (u32 Data0, u32 Data1)]
// [u32 leaf geometry count][leaf geometry count x u32 triangle index]
//
// Precomputed triangles and the root box are not stored; they are rebuilt
// from the triangle source when the entry is loaded.
func (t *Tree) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 12+8*len(t.nodes)+4*len(t.leafGeom))
	buf = binary.LittleEndian.AppendUint32(buf, t.checksum)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.nodes)))
	for _, node := range t.nodes {
		buf = binary.LittleEndian.AppendUint32(buf, node.Data0)
		buf = binary.LittleEndian.AppendUint32(buf, node.Data1)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.leafGeom)))
	for _, triIndex := range t.leafGeom {
		buf = binary.LittleEndian.AppendUint32(buf, triIndex)
	}
	return buf, nil
}

// Load a tree for src from a cache entry generated by MarshalBinary. Returns
// ErrChecksumMismatch if the entry was built from different geometry and
// ErrCorruptCacheEntry if the entry is malformed.
func Deserialize(src TriangleSource, data []byte) (*Tree, error) {
	r := entryReader{data: data}

	checksum, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if expChecksum := Checksum(src); checksum != expChecksum {
		return nil, fmt.Errorf("%w: expected %08x; got %08x", ErrChecksumMismatch, expChecksum, checksum)
	}

	nodeCount, err := r.count(8)
	if err != nil {
		return nil, err
	}
	nodes := make([]TreeNode, nodeCount)
	for index := range nodes {
		nodes[index].Data0, _ = r.uint32()
		nodes[index].Data1, _ = r.uint32()
	}

	leafGeomCount, err := r.count(4)
	if err != nil {
		return nil, err
	}
	leafGeom := make([]uint32, leafGeomCount)
	for index := range leafGeom {
		leafGeom[index], _ = r.uint32()
	}

	if len(r.data) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptCacheEntry, len(r.data))
	}

	if err = validateTree(nodes, leafGeom, src.NumTriangles()); err != nil {
		return nil, err
	}

	// Builds never reference degenerate triangles.
	for offset, triIndex := range leafGeom {
		if IsDegenerate(src.TriangleVertices(int(triIndex))) {
			return nil, fmt.Errorf("%w: leaf geometry entry %d references degenerate triangle %d", ErrCorruptCacheEntry, offset, triIndex)
		}
	}

	rootBox, _ := rootBoxOf(src)
	if rootBox.IsEmpty() {
		return nil, fmt.Errorf("%w: source contains no partitionable triangles", ErrCorruptCacheEntry)
	}

	return &Tree{
		nodes:    nodes,
		leafGeom: leafGeom,
		tris:     precomputeTriangles(src),
		rootBox:  rootBox,
		checksum: checksum,
	}, nil
}

// Check that the nodes form a preorder tree that traversal can safely walk:
// every node is reachable exactly once, child indices and leaf ranges are in
// bounds and the depth fits the traversal stack.
func validateTree(nodes []TreeNode, leafGeom []uint32, numTris int) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: empty node list", ErrCorruptCacheEntry)
	}

	for index, triIndex := range leafGeom {
		if uint64(triIndex) >= uint64(numTris) {
			return fmt.Errorf("%w: leaf geometry entry %d references triangle %d; source has %d", ErrCorruptCacheEntry, index, triIndex, numTris)
		}
	}

	type pending struct {
		node  uint32
		depth int
	}
	stack := []pending{{node: 0}}
	visited := uint32(0)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.node != visited {
			return fmt.Errorf("%w: node %d is not in preorder position %d", ErrCorruptCacheEntry, cur.node, visited)
		}
		if cur.depth > MaxTreeDepth {
			return fmt.Errorf("%w: tree depth exceeds %d", ErrCorruptCacheEntry, MaxTreeDepth)
		}
		visited++

		node := nodes[cur.node]
		if node.IsLeaf() {
			start, count := node.Triangles()
			if uint64(start)+uint64(count) > uint64(len(leafGeom)) {
				return fmt.Errorf("%w: leaf %d range [%d, %d) out of bounds", ErrCorruptCacheEntry, cur.node, start, uint64(start)+uint64(count))
			}
			continue
		}

		split := float64(node.Split())
		if math.IsNaN(split) || math.IsInf(split, 0) {
			return fmt.Errorf("%w: node %d has a non-finite split value", ErrCorruptCacheEntry, cur.node)
		}
		pos := node.PositiveChild()
		if uint64(cur.node)+1 >= uint64(len(nodes)) || pos <= cur.node+1 || uint64(pos) >= uint64(len(nodes)) {
			return fmt.Errorf("%w: node %d has invalid children", ErrCorruptCacheEntry, cur.node)
		}

		// Visit the negative subtree first
		stack = append(stack, pending{node: pos, depth: cur.depth + 1}, pending{node: cur.node + 1, depth: cur.depth + 1})
	}

	if int(visited) != len(nodes) {
		return fmt.Errorf("%w: %d of %d nodes are unreachable", ErrCorruptCacheEntry, len(nodes)-int(visited), len(nodes))
	}
	return nil
}

type entryReader struct {
	data []byte
}

func (r *entryReader) uint32() (uint32, error) {
	if len(r.data) < 4 {
		return 0, fmt.Errorf("%w: unexpected end of data", ErrCorruptCacheEntry)
	}
	v := binary.LittleEndian.Uint32(r.data)
	r.data = r.data[4:]
	return v, nil
}

// Read an item count and make sure the remaining data can hold that many
// items of itemSize bytes.
func (r *entryReader) count(itemSize int) (int, error) {
	n, err := r.uint32()
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(itemSize) > uint64(len(r.data)) {
		return 0, fmt.Errorf("%w: count %d exceeds remaining data", ErrCorruptCacheEntry, n)
	}
	return int(n), nil
}
