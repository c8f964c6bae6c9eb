package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleGeometry() *geometry.Geometry {
	return &geometry.Geometry{
		Dimensions: 2,
		Points: []float32{
			-0.5, -0.5, 1, 0, 0,
			0.5, -0.5, 0, 1, 0,
			0.0, 0.5, 0, 0, 1,
		},
		Indices: []uint32{0, 1, 2},
	}
}

func TestCreateModel(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{}, WithVertexLayout(uniform.PointLayout(2)))
	g := triangleGeometry()

	model, err := c.CreateModel("triangle", g)
	require.NoError(t, err)

	assert.Equal(t, uint32(3), model.VertexCount)
	assert.Equal(t, uint32(3), model.IndexCount)
	assert.Equal(t, uint64(60), model.PointDataSize)
	assert.Equal(t, uint64(12), model.IndexDataSize)

	vb := model.VertexBuffer.Get().(*gputest.Buffer)
	ib := model.IndexBuffer.Get().(*gputest.Buffer)
	assert.Equal(t, gpu.BufferUsageCopyDst|gpu.BufferUsageVertex, vb.Usage())
	assert.Equal(t, gpu.BufferUsageCopyDst|gpu.BufferUsageIndex, ib.Usage())
	assert.Equal(t, g.PointData(), vb.Data)
	assert.Equal(t, g.IndexData(), ib.Data)
	assert.True(t, model.VertexBuffer.Owning())

	d := model.Draw(0)
	assert.Equal(t, uint32(3), d.IndexCount)
	assert.Equal(t, uint64(60), d.VertexSize)

	model.Release()
	model.Release()
	for _, o := range inst.ObjectsOf("Buffer") {
		assert.Equal(t, 1, o.Destroyed(), o.Name())
		assert.Equal(t, 1, o.Released(), o.Name())
	}
}

func TestCreateModelPadsToCopyAlignment(t *testing.T) {
	_, c := newTestContext(t, gputest.Config{})

	model, err := c.CreateVertexBuffer("odd", []byte{1, 2, 3, 4, 5, 6}, 1)
	require.NoError(t, err)
	defer model.Release()

	vb := model.VertexBuffer.Get().(*gputest.Buffer)
	assert.Equal(t, uint64(8), vb.Size())
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 0, 0}, vb.Data)
	assert.Equal(t, uint64(6), model.PointDataSize)
}

func TestCreateVertexBufferFromMesh(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{}, WithVertexLayout(uniform.VertexLayout()))
	vertices := []uniform.VertexAttributes{
		{Position: mgl32.Vec3{0, 0, 0}, Color: mgl32.Vec3{1, 1, 1}},
		{Position: mgl32.Vec3{1, 0, 0}, Color: mgl32.Vec3{1, 1, 1}},
		{Position: mgl32.Vec3{0, 1, 0}, Color: mgl32.Vec3{1, 1, 1}},
	}

	model, err := c.CreateVertexBuffer("mesh", uniform.VerticesToBytes(vertices), uint32(len(vertices)))
	require.NoError(t, err)
	defer model.Release()

	assert.False(t, model.IndexBuffer.Valid())
	d := model.Draw(0)
	assert.Nil(t, d.IndexBuffer)
	assert.Equal(t, uint32(3), d.VertexCount)

	inst.Log.Reset()
	require.NoError(t, c.RenderFrame([]Draw{d}))
	assert.Equal(t, 1, inst.Log.Count("RenderPass.Draw"))
	assert.Zero(t, inst.Log.Count("RenderPass.SetIndexBuffer"))
}

func TestCreateModelErrors(t *testing.T) {
	_, c := newTestContext(t, gputest.Config{})

	_, err := c.CreateModel("empty", &geometry.Geometry{Dimensions: 3})
	assert.ErrorIs(t, err, common.ErrResourceLoad)
	_, err = c.CreateModel("nil", nil)
	assert.ErrorIs(t, err, common.ErrResourceLoad)
	_, err = c.CreateVertexBuffer("empty", nil, 0)
	assert.ErrorIs(t, err, common.ErrResourceLoad)
}

func TestCreateModelExceedsMaxBufferSize(t *testing.T) {
	limits := gpu.DefaultLimits()
	limits.MaxBufferSize = 32
	inst, c := newTestContext(t, gputest.Config{AdapterLimits: &limits}, WithMaxBufferSize(32))

	_, err := c.CreateModel("triangle", triangleGeometry())
	assert.ErrorIs(t, err, common.ErrResourceLoad)
	assert.Empty(t, inst.ObjectsOf("Buffer"))
}

func TestCreateModelWriteFailureReleasesBuffers(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{Fail: map[string]error{"Queue.WriteBuffer": errors.New("boom")}})

	_, err := c.CreateModel("triangle", triangleGeometry())
	require.Error(t, err)

	buffers := inst.ObjectsOf("Buffer")
	require.NotEmpty(t, buffers)
	for _, o := range buffers {
		assert.Equal(t, 1, o.Destroyed(), o.Name())
		assert.Equal(t, 1, o.Released(), o.Name())
	}
}
