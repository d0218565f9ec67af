package kdtree

const (
	letterboxBits     = 10
	letterboxCapacity = 1 << letterboxBits
	letterboxMask     = letterboxCapacity - 1

	// Stop inserting once the set is half full so probe sequences stay short.
	letterboxMaxLoad  = letterboxCapacity / 2
	letterboxMaxProbe = 8
)

// A fixed-capacity open-addressed set of triangle indices that were already
// tested during a traversal. Entries are tagged with a generation number so
// the set can be reset in constant time.
type letterbox struct {
	keys  [letterboxCapacity]uint32
	gens  [letterboxCapacity]uint32
	gen   uint32
	count int
}

// Empty the set.
func (lb *letterbox) reset() {
	lb.gen++
	lb.count = 0
	if lb.gen == 0 {
		// The generation counter wrapped; clear stale tags.
		lb.gens = [letterboxCapacity]uint32{}
		lb.gen = 1
	}
}

// Add index to the set. Returns true if the index was already present. The
// second result is false if the set was too full to track the index, in which
// case a later call for the same index will report it as new again.
func (lb *letterbox) testAndSet(index uint32) (seen, tracked bool) {
	slot := hashIndex(index)
	for probe := 0; probe < letterboxMaxProbe; probe++ {
		if lb.gens[slot] != lb.gen {
			if lb.count >= letterboxMaxLoad {
				return false, false
			}
			lb.gens[slot] = lb.gen
			lb.keys[slot] = index
			lb.count++
			return false, true
		}
		if lb.keys[slot] == index {
			return true, true
		}
		slot = (slot + 1) & letterboxMask
	}
	return false, false
}

// Fibonacci hashing spreads consecutive triangle indices across the table.
func hashIndex(index uint32) uint32 {
	return (index * 2654435769) >> (32 - letterboxBits)
}
