package kdtree

import (
	"math"
	"testing"

	"github.com/JerryBerry12/glare-core-sub000/types"
	"github.com/stretchr/testify/require"
)

func TestClipTriangle(t *testing.T) {
	verts := [3]types.Vec3{{0, 0, 0}, {4, 0, 0}, {0, 4, 0}}

	specs := []struct {
		box    types.AABBox
		expOK  bool
		expBox types.AABBox
	}{
		// Box contains the triangle
		{
			types.AABBox{Min: types.Vec3{-1, -1, -1}, Max: types.Vec3{5, 5, 1}},
			true,
			types.AABBox{Min: types.Vec3{0, 0, 0}, Max: types.Vec3{4, 4, 0}},
		},
		// Box cuts off the apex
		{
			types.AABBox{Min: types.Vec3{-1, 2, -1}, Max: types.Vec3{5, 5, 1}},
			true,
			types.AABBox{Min: types.Vec3{0, 2, 0}, Max: types.Vec3{2, 4, 0}},
		},
		// Box overlaps the triangle bounds but not the triangle
		{
			types.AABBox{Min: types.Vec3{3, 3, -1}, Max: types.Vec3{4, 4, 1}},
			false,
			types.AABBox{},
		},
		// Box touches the hypotenuse at a single point
		{
			types.AABBox{Min: types.Vec3{2, 2, -1}, Max: types.Vec3{4, 4, 1}},
			true,
			types.AABBox{Min: types.Vec3{2, 2, 0}, Max: types.Vec3{2, 2, 0}},
		},
	}

	for specIndex, spec := range specs {
		box, ok := clipTriangle(verts, spec.box)
		require.Equal(t, spec.expOK, ok, "spec %d", specIndex)
		if ok {
			require.Equal(t, spec.expBox, box, "spec %d", specIndex)
		}
	}
}

func TestClipTriangleRoundsOutwards(t *testing.T) {
	// Clip points at thirds are not representable as float32.
	verts := [3]types.Vec3{{0, 0, 0}, {3, 1, 0}, {0, 1, 0}}
	box := types.AABBox{Min: types.Vec3{1, 0, -1}, Max: types.Vec3{3, 1, 1}}

	clipped, ok := clipTriangle(verts, box)
	require.True(t, ok)
	require.Equal(t, float32(1), clipped.Min[0])
	require.Equal(t, float32(3), clipped.Max[0])
	require.LessOrEqual(t, float64(clipped.Min[1]), 1.0/3)
	require.Greater(t, clipped.Min[1], float32(0.33))
	require.Equal(t, float32(1), clipped.Max[1])
}

func TestRoundFloat32(t *testing.T) {
	third := 1.0 / 3
	require.LessOrEqual(t, float64(roundDown(third)), third)
	require.GreaterOrEqual(t, float64(roundUp(third)), third)
	require.Equal(t, math.Nextafter32(roundDown(third), 1), roundUp(third))

	require.Equal(t, float32(0.5), roundDown(0.5))
	require.Equal(t, float32(0.5), roundUp(0.5))
}
