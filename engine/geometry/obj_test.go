package geometry

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/udhos/gwob"

	"github.com/Carmen-Shannon/oxy-gpu/common"
)

func TestLoadOBJQuad(t *testing.T) {
	vertices, err := LoadOBJ("testdata/quad.obj")
	require.NoError(t, err)
	require.Len(t, vertices, 6)

	// v -1 0 -1 => (x, -z, y) = (-1, 1, 0)
	assert.Equal(t, mgl32.Vec3{-1, 1, 0}, vertices[0].Position)
	// vn 0 1 0 => (0, 0, 1)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, vertices[0].Normal)
	assert.Equal(t, mgl32.Vec2{0, 0}, vertices[0].UV)

	// both triangles start at the first corner
	assert.Equal(t, vertices[0], vertices[3])
	// v -1 0 1 => (-1, -1, 0)
	assert.Equal(t, mgl32.Vec3{-1, -1, 0}, vertices[5].Position)
	assert.Equal(t, mgl32.Vec2{0, 1}, vertices[5].UV)

	for _, v := range vertices {
		assert.Equal(t, mgl32.Vec3{1, 1, 1}, v.Color)
	}
}

// interleaved (px,py,pz),(tu,tv),(nx,ny,nz)
func quadLayout(indices []int, coord []float32) *gwob.Obj {
	return &gwob.Obj{
		Indices:              indices,
		Coord:                coord,
		TextCoordFound:       true,
		NormCoordFound:       true,
		StrideSize:           8 * 4,
		StrideOffsetPosition: 0,
		StrideOffsetTexture:  3 * 4,
		StrideOffsetNormal:   5 * 4,
	}
}

func TestFlattenOBJ(t *testing.T) {
	o := quadLayout([]int{0, 1, 1}, []float32{
		1, 2, 3, 0.25, 0.75, 0, 1, 0,
		4, 5, 6, 1, 0, 0, 0, 1,
	})

	vertices, err := flattenOBJ(o)
	require.NoError(t, err)
	require.Len(t, vertices, 3)

	assert.Equal(t, mgl32.Vec3{1, -3, 2}, vertices[0].Position)
	assert.Equal(t, mgl32.Vec2{0.25, 0.75}, vertices[0].UV)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, vertices[0].Normal)
	assert.Equal(t, mgl32.Vec3{4, -6, 5}, vertices[1].Position)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, vertices[1].Normal)
	assert.Equal(t, vertices[1], vertices[2])
}

func TestFlattenOBJPositionsOnly(t *testing.T) {
	o := &gwob.Obj{
		Indices:    []int{0, 1, 2},
		Coord:      []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		StrideSize: 3 * 4,
	}

	vertices, err := flattenOBJ(o)
	require.NoError(t, err)
	require.Len(t, vertices, 3)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, vertices[2].Position)
	assert.Zero(t, vertices[2].Normal)
	assert.Zero(t, vertices[2].UV)
}

func TestFlattenOBJRejectsMalformed(t *testing.T) {
	coord := make([]float32, 16)
	cases := map[string]*gwob.Obj{
		"no faces":          quadLayout(nil, coord),
		"partial triangle":  quadLayout([]int{0, 1}, coord),
		"index overflow":    quadLayout([]int{0, 1, 2}, coord),
		"negative index":    quadLayout([]int{0, -1, 1}, coord),
		"short stride":      {Indices: []int{0, 0, 0}, Coord: coord, StrideSize: 2 * 4},
		"normal past end":   {Indices: []int{0, 0, 0}, Coord: coord, StrideSize: 4 * 4, NormCoordFound: true, StrideOffsetNormal: 3 * 4},
		"texture past end":  {Indices: []int{0, 0, 0}, Coord: coord, StrideSize: 4 * 4, TextCoordFound: true, StrideOffsetTexture: 3 * 4},
		"position past end": {Indices: []int{0, 0, 0}, Coord: coord, StrideSize: 4 * 4, StrideOffsetPosition: 2 * 4},
	}
	for name, o := range cases {
		_, err := flattenOBJ(o)
		assert.ErrorIs(t, err, common.ErrResourceLoad, name)
	}
}

func TestParseOBJWithoutFaces(t *testing.T) {
	for name, src := range map[string]string{
		"empty":         "",
		"vertices only": "v 0 0 0\nv 1 0 0\nv 0 1 0\n",
	} {
		_, err := ParseOBJ(strings.NewReader(src))
		assert.ErrorIs(t, err, common.ErrResourceLoad, name)
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ("testdata/missing.obj")
	assert.ErrorIs(t, err, common.ErrResourceLoad)
}
