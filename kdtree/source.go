package kdtree

import (
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/JerryBerry12/glare-core-sub000/types"
)

// Triangles whose area is below this value are never partitioned.
const DegenerateAreaEpsilon float32 = 1e-12

// The TriangleSource interface is implemented by meshes that can be
// partitioned by the kd-tree builder.
type TriangleSource interface {
	// The number of triangles. Valid indices are [0, NumTriangles()).
	NumTriangles() int

	// The vertex positions of the triangle at index.
	TriangleVertices(index int) [3]types.Vec3
}

// Returns true if the triangle has a near-zero area.
func IsDegenerate(verts [3]types.Vec3) bool {
	area := 0.5 * verts[1].Sub(verts[0]).Cross(verts[2].Sub(verts[0])).Len()
	return !(area >= DegenerateAreaEpsilon)
}

// Calculate the CRC32 checksum of the flattened vertex position buffer of
// src. The checksum keys persisted trees.
func Checksum(src TriangleSource) uint32 {
	var buf [9 * 4]byte
	crc := crc32.NewIEEE()
	for index := 0; index < src.NumTriangles(); index++ {
		verts := src.TriangleVertices(index)
		for v := 0; v < 3; v++ {
			for c := 0; c < 3; c++ {
				binary.LittleEndian.PutUint32(buf[(v*3+c)*4:], math.Float32bits(verts[v][c]))
			}
		}
		crc.Write(buf[:])
	}
	return crc.Sum32()
}
