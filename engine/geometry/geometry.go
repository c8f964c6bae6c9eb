// Package geometry loads model data for upload into vertex and index buffers.
package geometry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gpu/common"
)

// Geometry is interleaved point data with triangle indices.
// Each point is Dimensions position floats followed by an RGB color.
type Geometry struct {
	Points     []float32
	Indices    []uint32
	Dimensions int
}

// Stride returns the number of floats per point.
func (g *Geometry) Stride() int {
	return g.Dimensions + 3
}

// PointCount returns the number of points.
func (g *Geometry) PointCount() int {
	if g.Stride() <= 0 {
		return 0
	}
	return len(g.Points) / g.Stride()
}

// PointData returns the point floats in GPU layout.
func (g *Geometry) PointData() []byte {
	return common.SliceToBytes(g.Points)
}

// IndexData returns the indices in GPU layout (uint32).
func (g *Geometry) IndexData() []byte {
	return common.SliceToBytes(g.Indices)
}

type section int

const (
	sectionNone section = iota
	sectionPoints
	sectionIndices
)

// Load reads a point/index model file.
//
// Parameters:
//   - path: the model file
//   - dimensions: the number of position components per point (2 or 3)
//
// Returns:
//   - *Geometry: the loaded geometry
//   - error: wraps common.ErrResourceLoad if the file is missing or malformed
func Load(path string, dimensions int) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrResourceLoad, err)
	}
	defer f.Close()

	g, err := Parse(f, dimensions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// maxLineLength bounds a single line of a geometry file.
const maxLineLength = 1 << 20

// Parse reads the point/index text format:
//
//	[points]
//	# x y [z] r g b
//	-0.5 -0.5 0.0  1.0 0.0 0.0
//	[indices]
//	0 1 2
//
// Blank lines and lines starting with '#' are skipped and CRLF line endings are accepted.
// Point rows must hold exactly dimensions+3 floats and index rows exactly 3 unsigned 16-bit
// indices, each smaller than the point count.
//
// Parameters:
//   - r: the model source
//   - dimensions: the number of position components per point (2 or 3)
//
// Returns:
//   - *Geometry: the parsed geometry
//   - error: wraps common.ErrResourceLoad if the data is malformed
func Parse(r io.Reader, dimensions int) (*Geometry, error) {
	if dimensions != 2 && dimensions != 3 {
		return nil, fmt.Errorf("%w: unsupported dimensions %d", common.ErrResourceLoad, dimensions)
	}

	g := &Geometry{Dimensions: dimensions}
	current := sectionNone
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimSuffix(scanner.Text(), "\r"))

		switch {
		case line == "[points]":
			current = sectionPoints
			continue
		case line == "[indices]":
			current = sectionIndices
			continue
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		}

		fields := strings.Fields(line)
		switch current {
		case sectionPoints:
			if len(fields) != g.Stride() {
				return nil, fmt.Errorf("%w: line %d: point has %d values, want %d", common.ErrResourceLoad, lineNo, len(fields), g.Stride())
			}
			for _, field := range fields {
				v, err := strconv.ParseFloat(field, 32)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %w", common.ErrResourceLoad, lineNo, err)
				}
				g.Points = append(g.Points, float32(v))
			}
		case sectionIndices:
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: line %d: triangle has %d indices, want 3", common.ErrResourceLoad, lineNo, len(fields))
			}
			for _, field := range fields {
				v, err := strconv.ParseUint(field, 10, 16)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %w", common.ErrResourceLoad, lineNo, err)
				}
				g.Indices = append(g.Indices, uint32(v))
			}
		default:
			return nil, fmt.Errorf("%w: line %d: data outside of a section", common.ErrResourceLoad, lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", common.ErrResourceLoad, lineNo+1, err)
	}

	count := g.PointCount()
	for i, idx := range g.Indices {
		if int(idx) >= count {
			return nil, fmt.Errorf("%w: index %d at position %d is out of range for %d points", common.ErrResourceLoad, idx, i, count)
		}
	}
	return g, nil
}
