// Package loader reads glTF 2.0 meshes (.gltf with external or embedded buffers, and .glb) into
// flat triangle lists of vertex attributes.
package loader

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
)

// LoadGLTF reads every triangle primitive of every mesh in a glTF or GLB file.
// Node transforms are not applied. Positions and normals are remapped from glTF's Y-up frame
// to Z-up; missing colors default to white and missing normals are computed per face.
//
// Parameters:
//   - path: path to a .gltf or .glb file; external buffers resolve relative to it
//
// Returns:
//   - []uniform.VertexAttributes: three vertices per triangle
//   - error: an error wrapping common.ErrResourceLoad if the file is missing or malformed
func LoadGLTF(path string) ([]uniform.VertexAttributes, error) {
	p := &gltfParser{}
	if err := p.parseFile(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrResourceLoad, path, err)
	}
	vertices, err := p.triangles()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrResourceLoad, path, err)
	}
	return vertices, nil
}

// ParseGLTF is LoadGLTF for a document already in memory. Buffers must be embedded as data URIs
// or, for GLB, in the binary chunk.
func ParseGLTF(r io.Reader, isGLB bool) ([]uniform.VertexAttributes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrResourceLoad, err)
	}

	p := &gltfParser{}
	if isGLB {
		err = p.parseGLB(data)
	} else {
		err = p.parseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrResourceLoad, err)
	}

	vertices, err := p.triangles()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrResourceLoad, err)
	}
	return vertices, nil
}

func (p *gltfParser) triangles() ([]uniform.VertexAttributes, error) {
	var out []uniform.VertexAttributes
	for mi, mesh := range p.document.Meshes {
		for pi := range mesh.Primitives {
			tris, err := p.primitive(&mesh.Primitives[pi])
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			out = append(out, tris...)
		}
	}
	return out, nil
}

func (p *gltfParser) primitive(prim *gltfPrimitive) ([]uniform.VertexAttributes, error) {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %d, only triangles are supported", *prim.Mode)
	}

	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := p.readFloats(posIndex, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	vertices := make([]uniform.VertexAttributes, len(positions))
	for i, pos := range positions {
		vertices[i].Position = geometry.YUpToZUp(mgl32.Vec3{pos[0], pos[1], pos[2]})
		vertices[i].Color = mgl32.Vec3{1, 1, 1}
	}

	hasNormals := false
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := p.readFloats(idx, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := range min(len(normals), len(vertices)) {
			n := normals[i]
			vertices[i].Normal = geometry.YUpToZUp(mgl32.Vec3{n[0], n[1], n[2]})
		}
		hasNormals = true
	}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := p.readFloats(idx, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		for i := range min(len(uvs), len(vertices)) {
			vertices[i].UV = mgl32.Vec2{uvs[i][0], uvs[i][1]}
		}
	}

	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		width := 4
		if acc := p.document.Accessors; idx >= 0 && idx < len(acc) && acc[idx].Type == gltfAccessorTypeVec3 {
			width = 3
		}
		colors, err := p.readFloats(idx, width)
		if err != nil {
			return nil, fmt.Errorf("failed to read colors: %w", err)
		}
		for i := range min(len(colors), len(vertices)) {
			vertices[i].Color = mgl32.Vec3{colors[i][0], colors[i][1], colors[i][2]}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = p.readIndices(*prim.Indices); err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}

	out := make([]uniform.VertexAttributes, len(indices))
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(vertices))
		}
		out[i] = vertices[idx]
	}

	if !hasNormals {
		faceNormals(out)
	}
	return out, nil
}

// faceNormals assigns each triangle's geometric normal to its three vertices.
func faceNormals(tris []uniform.VertexAttributes) {
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i].Position, tris[i+1].Position, tris[i+2].Position
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() > 1e-12 {
			n = n.Normalize()
		}
		tris[i].Normal, tris[i+1].Normal, tris[i+2].Normal = n, n, n
	}
}
