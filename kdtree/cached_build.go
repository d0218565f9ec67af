package kdtree

import (
	"errors"

	"github.com/JerryBerry12/glare-core-sub000/log"
)

// The Cache interface is implemented by stores of serialized trees keyed by
// the checksum of the geometry they were built from.
type Cache interface {
	// Load the entry for checksum. Returns an error wrapping ErrCacheMiss
	// if no entry exists.
	Load(checksum uint32) ([]byte, error)

	// Store an entry for checksum, replacing any existing one.
	Store(checksum uint32, entry []byte) error
}

// Load the tree for src from cache or build it if no usable entry exists.
// Corrupt or mismatched entries are discarded and replaced by a fresh
// build. Only build errors are returned; cache failures are logged.
func BuildCached(src TriangleSource, opts BuildOptions, cache Cache) (*Tree, error) {
	if cache == nil {
		return Build(src, opts)
	}

	logger := log.New("kdtree cache")
	checksum := Checksum(src)

	entry, err := cache.Load(checksum)
	switch {
	case err == nil:
		tree, err := Deserialize(src, entry)
		if err == nil {
			treeCacheLookups.WithLabelValues(cacheHit).Inc()
			logger.Infof("loaded tree %08x from cache (%d nodes)", checksum, len(tree.nodes))
			return tree, nil
		}
		treeCacheLookups.WithLabelValues(cacheInvalid).Inc()
		logger.Warningf("discarding cache entry %08x: %v", checksum, err)
	case errors.Is(err, ErrCacheMiss):
		treeCacheLookups.WithLabelValues(cacheMiss).Inc()
		logger.Infof("no cache entry for %08x", checksum)
	default:
		treeCacheLookups.WithLabelValues(cacheError).Inc()
		logger.Warningf("could not read cache entry %08x: %v", checksum, err)
	}

	tree, err := Build(src, opts)
	if err != nil {
		return nil, err
	}

	entry, err = tree.MarshalBinary()
	if err == nil {
		err = cache.Store(checksum, entry)
	}
	if err != nil {
		logger.Warningf("could not store cache entry %08x: %v", checksum, err)
	}
	return tree, nil
}
