package geometry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gpu/common"
)

func TestLoadPyramid(t *testing.T) {
	g, err := Load("testdata/pyramid.txt", 3)
	require.NoError(t, err)

	assert.Equal(t, 5, g.PointCount())
	assert.Len(t, g.Points, 5*(3+3))
	assert.Len(t, g.Indices, 6*3)
	for _, idx := range g.Indices {
		assert.Less(t, int(idx), g.PointCount())
	}
	assert.Len(t, g.PointData(), 5*6*4)
	assert.Len(t, g.IndexData(), 18*4)
	assert.Equal(t, float32(0.5), g.Points[len(g.Points)-4])
}

func TestLoad2DWithCRLF(t *testing.T) {
	g, err := Load("testdata/triangle_crlf.txt", 2)
	require.NoError(t, err)

	assert.Equal(t, 3, g.PointCount())
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)
	assert.Equal(t, []float32{-0.5, -0.5, 1, 0, 0}, g.Points[:5])
}

func TestLoadRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		path string
		dims int
	}{
		{"testdata/pyramid.txt", 3},
		{"testdata/webgpu.txt", 2},
		{"testdata/triangle_crlf.txt", 2},
	} {
		g, err := Load(tc.path, tc.dims)
		require.NoError(t, err, tc.path)
		assert.Zero(t, len(g.Points)%(tc.dims+3), tc.path)
		assert.Zero(t, len(g.Indices)%3, tc.path)
		for _, idx := range g.Indices {
			assert.Less(t, int(idx), g.PointCount(), tc.path)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.txt", 3)
	assert.ErrorIs(t, err, common.ErrResourceLoad)
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"short point":        "[points]\n0 0 1 1\n",
		"long point":         "[points]\n0 0 1 1 1 1\n",
		"bad float":          "[points]\n0 x 1 1 1\n",
		"short triangle":     "[points]\n0 0 1 1 1\n[indices]\n0 0\n",
		"negative index":     "[points]\n0 0 1 1 1\n[indices]\n0 0 -1\n",
		"index over 16 bits": "[points]\n0 0 1 1 1\n[indices]\n0 0 70000\n",
		"index out of range": "[points]\n0 0 1 1 1\n[indices]\n0 0 1\n",
		"data before header": "0 0 1 1 1\n",
	}
	for name, src := range cases {
		_, err := Parse(strings.NewReader(src), 2)
		assert.ErrorIs(t, err, common.ErrResourceLoad, name)
	}
}

func TestParseRejectsDimensions(t *testing.T) {
	_, err := Parse(strings.NewReader(""), 4)
	assert.ErrorIs(t, err, common.ErrResourceLoad)
}

func TestParseEmpty(t *testing.T) {
	g, err := Parse(strings.NewReader("# nothing\n\n[points]\n[indices]\n"), 3)
	require.NoError(t, err)
	assert.Zero(t, g.PointCount())
	assert.Empty(t, g.Indices)
}

func TestParseLongLines(t *testing.T) {
	comment := "# " + strings.Repeat("x", 100*1024) + "\n"
	g, err := Parse(strings.NewReader(comment+"[points]\n0 0 1 1 1\n"), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, g.PointCount())

	tooLong := "[points]\n" + strings.Repeat("0", maxLineLength+1) + "\n"
	_, err = Parse(strings.NewReader(tooLong), 2)
	require.ErrorIs(t, err, common.ErrResourceLoad)
	assert.Contains(t, err.Error(), "line 2")
}
