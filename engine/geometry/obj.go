package geometry

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
	"github.com/udhos/gwob"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
)

// LoadOBJ reads a Wavefront OBJ file into a flat triangle list.
//
// Parameters:
//   - path: the OBJ file
//
// Returns:
//   - []uniform.VertexAttributes: three vertices per triangle
//   - error: wraps common.ErrResourceLoad if the file is missing, malformed or has no faces
func LoadOBJ(path string) ([]uniform.VertexAttributes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrResourceLoad, err)
	}
	defer f.Close()

	vertices, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vertices, nil
}

// ParseOBJ parses an OBJ stream with gwob and flattens its triangles. Positions and normals are
// converted from the file's Y-up convention to the engine's Z-up convention as (x, -z, y).
// Every vertex is white; OBJ vertex colors are not read.
//
// Parameters:
//   - r: the OBJ source
//
// Returns:
//   - []uniform.VertexAttributes: three vertices per triangle
//   - error: wraps common.ErrResourceLoad if the stream cannot be parsed or has no faces
func ParseOBJ(r io.Reader) ([]uniform.VertexAttributes, error) {
	logger := log.WithField("component", "obj")
	o, err := gwob.NewObjFromReader("obj", bufio.NewReader(r), &gwob.ObjParserOptions{
		Logger: func(msg string) { logger.Debug(msg) },
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrResourceLoad, err)
	}
	return flattenOBJ(o)
}

// flattenOBJ expands gwob's indexed, interleaved vertex array into one VertexAttributes per
// index.
func flattenOBJ(o *gwob.Obj) ([]uniform.VertexAttributes, error) {
	if len(o.Indices) == 0 {
		return nil, fmt.Errorf("%w: OBJ has no faces", common.ErrResourceLoad)
	}
	if len(o.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: OBJ index count %d is not a multiple of 3", common.ErrResourceLoad, len(o.Indices))
	}

	// gwob reports the stride and offsets in bytes of float32
	stride := o.StrideSize / 4
	pos := o.StrideOffsetPosition / 4
	tex := o.StrideOffsetTexture / 4
	norm := o.StrideOffsetNormal / 4
	if stride < 3 || pos+3 > stride ||
		(o.TextCoordFound && tex+2 > stride) ||
		(o.NormCoordFound && norm+3 > stride) {
		return nil, fmt.Errorf("%w: OBJ vertex layout stride=%d position=%d texture=%d normal=%d",
			common.ErrResourceLoad, o.StrideSize, o.StrideOffsetPosition, o.StrideOffsetTexture, o.StrideOffsetNormal)
	}
	count := len(o.Coord) / stride

	out := make([]uniform.VertexAttributes, len(o.Indices))
	for i, idx := range o.Indices {
		if idx < 0 || idx >= count {
			return nil, fmt.Errorf("%w: OBJ index %d out of range for %d vertices", common.ErrResourceLoad, idx, count)
		}
		e := o.Coord[idx*stride : (idx+1)*stride]

		v := uniform.VertexAttributes{
			Position: YUpToZUp(mgl32.Vec3{e[pos], e[pos+1], e[pos+2]}),
			Color:    mgl32.Vec3{1, 1, 1},
		}
		if o.TextCoordFound {
			v.UV = mgl32.Vec2{e[tex], e[tex+1]}
		}
		if o.NormCoordFound {
			v.Normal = YUpToZUp(mgl32.Vec3{e[norm], e[norm+1], e[norm+2]})
		}
		out[i] = v
	}
	return out, nil
}

// YUpToZUp maps a Y-up direction or position to the engine's Z-up frame as (x, -z, y).
func YUpToZUp(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), -v.Z(), v.Y()}
}
