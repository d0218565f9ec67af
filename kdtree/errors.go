package kdtree

import "errors"

var (
	ErrBuildFailed  = errors.New("kdtree: build failed")
	ErrNoTriangles  = errors.New("kdtree: no non-degenerate triangles to partition")
	ErrTreeTooLarge = errors.New("kdtree: tree exceeds node encoding limits")
	ErrInvalidOpts  = errors.New("kdtree: invalid build options")

	ErrCacheMiss         = errors.New("kdtree: cache entry not found")
	ErrCorruptCacheEntry = errors.New("kdtree: corrupt cache entry")
	ErrChecksumMismatch  = errors.New("kdtree: cache entry checksum does not match geometry")
)
