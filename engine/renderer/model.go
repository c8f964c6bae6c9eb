package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/handle"
)

// Model is geometry uploaded to the GPU. IndexBuffer is empty for non-indexed models.
type Model struct {
	VertexBuffer *handle.Handle[gpu.Buffer]
	IndexBuffer  *handle.Handle[gpu.Buffer]

	VertexCount   uint32
	IndexCount    uint32
	PointDataSize uint64
	IndexDataSize uint64
}

// Draw returns a draw call over the whole model reading uniforms from slot.
func (m *Model) Draw(slot int) Draw {
	d := Draw{
		VertexBuffer: m.VertexBuffer.Get(),
		VertexSize:   m.PointDataSize,
		VertexCount:  m.VertexCount,
		UniformSlot:  slot,
	}
	if m.IndexBuffer.Valid() {
		d.IndexBuffer = m.IndexBuffer.Get()
		d.IndexSize = m.IndexDataSize
		d.IndexCount = m.IndexCount
	}
	return d
}

// Release destroys and releases both buffers.
func (m *Model) Release() {
	if m == nil {
		return
	}
	m.IndexBuffer.Release()
	m.VertexBuffer.Release()
}

func (c *gpuContext) CreateModel(label string, g *geometry.Geometry) (*Model, error) {
	if g == nil || g.PointCount() == 0 || len(g.Indices) == 0 {
		return nil, fmt.Errorf("%w: model %q has no geometry", common.ErrResourceLoad, label)
	}

	// handles moved into the model are empty by the time the scope closes
	scope := handle.NewScope()
	defer scope.Close()

	points := g.PointData()
	vertexBuffer, err := c.upload(scope, label+" vertex buffer", points, gpu.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	indices := g.IndexData()
	indexBuffer, err := c.upload(scope, label+" index buffer", indices, gpu.BufferUsageIndex)
	if err != nil {
		return nil, err
	}

	return &Model{
		VertexBuffer:  vertexBuffer.Take(),
		IndexBuffer:   indexBuffer.Take(),
		VertexCount:   uint32(g.PointCount()),
		IndexCount:    uint32(len(g.Indices)),
		PointDataSize: uint64(len(points)),
		IndexDataSize: uint64(len(indices)),
	}, nil
}

func (c *gpuContext) CreateVertexBuffer(label string, data []byte, vertexCount uint32) (*Model, error) {
	if len(data) == 0 || vertexCount == 0 {
		return nil, fmt.Errorf("%w: vertex buffer %q is empty", common.ErrResourceLoad, label)
	}

	scope := handle.NewScope()
	defer scope.Close()

	vertexBuffer, err := c.upload(scope, label+" vertex buffer", data, gpu.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	return &Model{
		VertexBuffer:  vertexBuffer.Take(),
		IndexBuffer:   &handle.Handle[gpu.Buffer]{},
		VertexCount:   vertexCount,
		PointDataSize: uint64(len(data)),
	}, nil
}

// upload creates a buffer tracked by scope and fills it through the queue.
// Buffer sizes are padded to the 4-byte copy alignment.
func (c *gpuContext) upload(scope *handle.Scope, label string, data []byte, usage gpu.BufferUsage) (*handle.Handle[gpu.Buffer], error) {
	if !c.device.Valid() {
		return nil, fmt.Errorf("%w: context has been released", common.ErrInit)
	}
	size := common.AlignUp(uint64(len(data)), 4)
	if limit := c.limits.MaxBufferSize; limit > 0 && size > limit {
		return nil, fmt.Errorf("%w: %s of %d bytes exceeds maxBufferSize %d", common.ErrResourceLoad, label, size, limit)
	}

	buffer, err := c.device.Get().CreateBuffer(&gpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gpu.BufferUsageCopyDst | usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", label, err)
	}
	h := handle.Track(scope, handle.NewOwning(buffer))

	if size != uint64(len(data)) {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	if err := c.queue.Get().WriteBuffer(buffer, 0, data); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", label, err)
	}
	return h, nil
}
