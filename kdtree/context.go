package kdtree

// A traversal stack frame: a node and the ray interval inside its volume.
type stackFrame struct {
	node uint32
	tMin float32
	tMax float32

	// Set if the frame covers the same ray interval as a sibling that was
	// visited first.
	overlapping bool
}

// Per-goroutine scratch space for tree queries. A context may be reused for
// any number of queries against any tree but must never be used by more than
// one goroutine at a time.
type TraversalContext struct {
	stack [MaxTreeDepth + 1]stackFrame
	top   int

	// Number of overlapping frames on the stack.
	overlapping int

	tested letterbox
}

// Allocate a new traversal context.
func NewTraversalContext() *TraversalContext {
	return &TraversalContext{}
}

func (ctx *TraversalContext) begin() {
	ctx.top = 0
	ctx.overlapping = 0
	ctx.tested.reset()
}

func (ctx *TraversalContext) push(node uint32, tMin, tMax float32) {
	ctx.stack[ctx.top] = stackFrame{node: node, tMin: tMin, tMax: tMax}
	ctx.top++
}

// Push the sibling of a node whose split plane contains the ray. Both
// children share the ray interval.
func (ctx *TraversalContext) pushOverlapping(node uint32, tMin, tMax float32) {
	ctx.stack[ctx.top] = stackFrame{node: node, tMin: tMin, tMax: tMax, overlapping: true}
	ctx.top++
	ctx.overlapping++
}

func (ctx *TraversalContext) pop() stackFrame {
	ctx.top--
	frame := ctx.stack[ctx.top]
	if frame.overlapping {
		ctx.overlapping--
	}
	return frame
}
