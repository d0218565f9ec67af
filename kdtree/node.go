package kdtree

import "math"

const (
	leafTag        uint32 = 3
	tagBits               = 2
	tagMask        uint32 = 1<<tagBits - 1
	maxNodePayload uint32 = 1<<(32-tagBits) - 1
)

// A kd-tree node packed into 8 bytes. The meaning of the two words depends on
// the node type:
//
// - Interior nodes: the low 2 bits of Data0 hold the split axis (0-2) and the
// remaining bits the index of the positive child. The negative child always
// follows its parent in the node list. Data1 holds the split value bits.
// - Leafs: the low 2 bits of Data0 are set to 3 and the remaining bits hold
// the number of referenced triangles. Data1 holds the offset of the first
// triangle index in the leaf geometry list.
type TreeNode struct {
	Data0 uint32
	Data1 uint32
}

// Create an interior node. The positive child index is filled in once the
// negative subtree has been built.
func interiorNode(axis int, split float32) TreeNode {
	return TreeNode{
		Data0: uint32(axis),
		Data1: math.Float32bits(split),
	}
}

// Create a leaf node.
func leafNode(start, count uint32) TreeNode {
	return TreeNode{
		Data0: count<<tagBits | leafTag,
		Data1: start,
	}
}

// Returns true if this is a leaf node.
func (n TreeNode) IsLeaf() bool {
	return n.Data0&tagMask == leafTag
}

// Get split axis of an interior node.
func (n TreeNode) Axis() int {
	return int(n.Data0 & tagMask)
}

// Get split value of an interior node.
func (n TreeNode) Split() float32 {
	return math.Float32frombits(n.Data1)
}

// Get positive child index of an interior node.
func (n TreeNode) PositiveChild() uint32 {
	return n.Data0 >> tagBits
}

// Get leaf geometry start offset and triangle count of a leaf node.
func (n TreeNode) Triangles() (start, count uint32) {
	return n.Data1, n.Data0 >> tagBits
}

func (n *TreeNode) setPositiveChild(index uint32) {
	n.Data0 = index<<tagBits | n.Data0&tagMask
}
