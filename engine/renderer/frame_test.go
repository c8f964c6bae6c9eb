package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPyramidContext(t *testing.T, cfg gputest.Config) (*gputest.Instance, Context, *Model) {
	t.Helper()
	s, err := shader.Builtin("pyramid")
	require.NoError(t, err)
	inst, c := newTestContext(t, cfg,
		WithShader(s),
		WithDepth(true),
		WithUniformSlots(2),
		WithVertexLayout(uniform.PointLayout(3)),
	)

	g, err := geometry.Load("../geometry/testdata/pyramid.txt", 3)
	require.NoError(t, err)
	model, err := c.CreateModel("pyramid", g)
	require.NoError(t, err)
	t.Cleanup(model.Release)
	return inst, c, model
}

func TestRenderFrameTwoUniformSlots(t *testing.T) {
	inst, c, model := newPyramidContext(t, gputest.Config{})
	stride := c.UniformStride()

	for slot := 0; slot < 2; slot++ {
		u := uniform.NewUniforms()
		u.Time = float32(slot)
		require.NoError(t, c.WriteUniforms(slot, &u))
	}

	inst.Log.Reset()
	require.NoError(t, c.RenderFrame([]Draw{model.Draw(0), model.Draw(1)}))

	draws := inst.Log.Filter("RenderPass.DrawIndexed")
	require.Len(t, draws, 2)
	for _, d := range draws {
		assert.Equal(t, []any{uint32(18), uint32(1), uint32(0), int32(0), uint32(0)}, d.Args)
	}

	binds := inst.Log.Filter("RenderPass.SetBindGroup")
	require.Len(t, binds, 2)
	assert.Equal(t, []uint32{0}, binds[0].Args[2])
	assert.Equal(t, []uint32{uint32(stride)}, binds[1].Args[2])
	assert.Equal(t, binds[0].Args[1], binds[1].Args[1])

	vertices := inst.Log.Filter("RenderPass.SetVertexBuffer")
	require.Len(t, vertices, 2)
	assert.Equal(t, []any{uint32(0), vertices[0].Args[1], uint64(0), uint64(120)}, vertices[0].Args)
	assert.Equal(t, vertices[0].Args, vertices[1].Args)

	indices := inst.Log.Filter("RenderPass.SetIndexBuffer")
	require.Len(t, indices, 2)
	assert.Equal(t, []any{indices[0].Args[0], gpu.IndexFormatUint32, uint64(0), uint64(72)}, indices[0].Args)
	assert.Equal(t, indices[0].Args, indices[1].Args)

	assert.Equal(t, 1, inst.Log.Count("RenderPass.SetPipeline"))
	assert.Equal(t, 1, inst.Log.Count("Queue.Submit"))
	assert.Equal(t, 1, inst.Log.Count("Surface.Present"))

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Frames)
	assert.Equal(t, uint64(1), stats.Submissions)
	assert.Equal(t, uint64(2), stats.Draws)
}

func TestRenderFrameCallSequence(t *testing.T) {
	inst, c, model := newPyramidContext(t, gputest.Config{})

	inst.Log.Reset()
	require.NoError(t, c.RenderFrame([]Draw{model.Draw(0)}))

	assert.Equal(t, []string{
		"Surface.CurrentTextureView",
		"Device.CreateCommandEncoder",
		"CommandEncoder.BeginRenderPass",
		"RenderPass.SetPipeline",
		"RenderPass.SetBindGroup",
		"RenderPass.SetVertexBuffer",
		"RenderPass.SetIndexBuffer",
		"RenderPass.DrawIndexed",
		"RenderPass.End",
		"RenderPass.Release",
		"CommandEncoder.Finish",
		"Queue.Submit",
		"Surface.Present",
		"CommandBuffer.Release",
		"CommandEncoder.Release",
		"SurfaceView.Release",
	}, inst.Log.Names())
}

func TestRenderFrameAttachments(t *testing.T) {
	clearColor := gpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}
	inst, c := newTestContext(t, gputest.Config{}, WithDepth(true), WithClearColor(clearColor))

	require.NoError(t, c.RenderFrame(nil))

	passes := inst.RenderPasses()
	require.Len(t, passes, 1)
	desc := passes[0].Descriptor

	require.Len(t, desc.ColorAttachments, 1)
	color := desc.ColorAttachments[0]
	assert.Equal(t, gpu.LoadOpClear, color.LoadOp)
	assert.Equal(t, gpu.StoreOpStore, color.StoreOp)
	assert.Equal(t, clearColor, color.ClearValue)
	assert.Equal(t, "SurfaceView", color.View.(*gputest.TextureView).Kind)

	depth := desc.DepthStencilAttachment
	require.NotNil(t, depth)
	assert.Equal(t, c.DepthView(), depth.View)
	assert.Equal(t, gpu.LoadOpClear, depth.DepthLoadOp)
	assert.Equal(t, gpu.StoreOpStore, depth.DepthStoreOp)
	assert.Equal(t, float32(1.0), depth.DepthClearValue)
	assert.False(t, depth.DepthReadOnly)
	assert.Equal(t, uint32(0), depth.StencilClearValue)
	assert.True(t, depth.StencilReadOnly)
}

func TestRenderFrameWithoutDepth(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{})

	require.NoError(t, c.RenderFrame(nil))

	passes := inst.RenderPasses()
	require.Len(t, passes, 1)
	assert.Nil(t, passes[0].Descriptor.DepthStencilAttachment)
}

func TestRenderFrameNonIndexedDraw(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{})

	inst.Log.Reset()
	require.NoError(t, c.RenderFrame([]Draw{{VertexCount: 3}}))

	draws := inst.Log.Filter("RenderPass.Draw")
	require.Len(t, draws, 1)
	assert.Equal(t, []any{uint32(3), uint32(1), uint32(0), uint32(0)}, draws[0].Args)
	assert.Zero(t, inst.Log.Count("RenderPass.SetVertexBuffer"))
	assert.Zero(t, inst.Log.Count("RenderPass.SetBindGroup"))
	assert.Zero(t, inst.Log.Count("RenderPass.DrawIndexed"))
}

func TestRenderFrameNilImage(t *testing.T) {
	inst, c, model := newPyramidContext(t, gputest.Config{NilImageAt: 1})

	inst.Log.Reset()
	err := c.RenderFrame([]Draw{model.Draw(0)})

	assert.ErrorIs(t, err, common.ErrSwapchainImageUnavailable)
	assert.Equal(t, 1, inst.Log.Count("Surface.CurrentTextureView"))
	assert.Zero(t, inst.Log.Count("Device.CreateCommandEncoder"))
	assert.Zero(t, inst.Log.Count("CommandEncoder.BeginRenderPass"))
	assert.Zero(t, inst.Log.Count("Queue.Submit"))
	assert.Zero(t, inst.Log.Count("Surface.Present"))
	assert.Zero(t, c.Stats().Frames)
}

func TestRenderFrameAcquireError(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{Fail: map[string]error{"Surface.CurrentTextureView": errors.New("outdated")}})

	err := c.RenderFrame(nil)
	assert.ErrorIs(t, err, common.ErrSwapchainImageUnavailable)
	assert.Zero(t, inst.Log.Count("Device.CreateCommandEncoder"))
}

func TestRenderFrameOneSubmissionPerFrame(t *testing.T) {
	inst, c, model := newPyramidContext(t, gputest.Config{})

	const frames = 3
	for i := 0; i < frames; i++ {
		require.NoError(t, c.RenderFrame([]Draw{model.Draw(0), model.Draw(1)}))
	}

	submits := inst.Log.Filter("Queue.Submit")
	require.Len(t, submits, frames)
	seen := map[string]bool{}
	for _, s := range submits {
		buffers := s.Args[0].([]string)
		require.Len(t, buffers, 1)
		assert.False(t, seen[buffers[0]], "command buffer %s reused", buffers[0])
		seen[buffers[0]] = true
	}

	for _, kind := range []string{"SurfaceView", "CommandEncoder", "RenderPass", "CommandBuffer"} {
		objects := inst.ObjectsOf(kind)
		assert.Len(t, objects, frames, kind)
		for _, o := range objects {
			assert.Equal(t, 1, o.Released(), o.Name())
		}
	}

	assert.Equal(t, uint64(frames), c.Stats().Frames)
	assert.Equal(t, uint64(frames), c.Stats().Submissions)
	assert.Equal(t, uint64(2*frames), c.Stats().Draws)
}

func TestRenderFrameEncodeFailureReleasesFrameObjects(t *testing.T) {
	for _, step := range []string{"CommandEncoder.BeginRenderPass", "RenderPass.End", "CommandEncoder.Finish"} {
		t.Run(step, func(t *testing.T) {
			inst, c := newTestContext(t, gputest.Config{Fail: map[string]error{step: errors.New("boom")}})

			err := c.RenderFrame(nil)
			require.Error(t, err)
			assert.NotErrorIs(t, err, common.ErrSwapchainImageUnavailable)
			assert.Zero(t, inst.Log.Count("Queue.Submit"))
			assert.Zero(t, inst.Log.Count("Surface.Present"))
			for _, kind := range []string{"SurfaceView", "CommandEncoder", "RenderPass", "CommandBuffer"} {
				for _, o := range inst.ObjectsOf(kind) {
					assert.Equal(t, 1, o.Released(), o.Name())
				}
			}
		})
	}
}

func TestRenderFramePresentFailure(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{Fail: map[string]error{"Surface.Present": errors.New("lost")}})

	err := c.RenderFrame(nil)
	assert.ErrorIs(t, err, common.ErrSwapchainImageUnavailable)
	assert.Equal(t, 1, inst.Log.Count("Queue.Submit"))
	for _, o := range inst.ObjectsOf("SurfaceView") {
		assert.Equal(t, 1, o.Released())
	}
}

func TestRenderFrameRejectsBadSlot(t *testing.T) {
	inst, c, model := newPyramidContext(t, gputest.Config{})

	inst.Log.Reset()
	assert.Error(t, c.RenderFrame([]Draw{model.Draw(2)}))
	assert.Error(t, c.RenderFrame([]Draw{model.Draw(-1)}))
	assert.Zero(t, inst.Log.Count("Surface.CurrentTextureView"))
}

func TestRenderFrameAfterRelease(t *testing.T) {
	_, c := newTestContext(t, gputest.Config{})
	c.Release()
	assert.ErrorIs(t, c.RenderFrame(nil), common.ErrInit)
}

func TestWriteUniforms(t *testing.T) {
	_, c, _ := newPyramidContext(t, gputest.Config{})
	queue := c.Device().(*gputest.Device).FakeQueue()
	before := len(queue.Writes())

	u := uniform.NewUniforms()
	u.Time = 2.5
	require.NoError(t, c.WriteUniforms(1, &u))

	writes := queue.Writes()[before:]
	require.Len(t, writes, 1)
	assert.Equal(t, c.UniformStride(), writes[0].Offset)
	assert.Equal(t, u.Bytes(), writes[0].Data)
	assert.Equal(t, c.UniformBuffer().(*gputest.Buffer).Name(), writes[0].Buffer)

	assert.Error(t, c.WriteUniforms(2, &u))
	assert.Error(t, c.WriteUniforms(-1, &u))
	assert.Error(t, c.WriteUniforms(0, nil))
	assert.Len(t, queue.Writes(), before+1)
}

func TestWriteUniformsWithoutSlots(t *testing.T) {
	_, c := newTestContext(t, gputest.Config{})
	u := uniform.NewUniforms()
	assert.ErrorIs(t, c.WriteUniforms(0, &u), common.ErrInit)
}

func TestRenderFrameAfterFailedResizeKeepsDepth(t *testing.T) {
	fail := map[string]error{}
	inst, c := newTestContext(t, gputest.Config{Fail: fail}, WithDepth(true))
	oldView := c.DepthView()
	require.NotNil(t, oldView)

	fail["Device.CreateTexture"] = errors.New("out of memory")
	require.ErrorIs(t, c.Resize(800, 600), common.ErrInit)

	w, h := c.Size()
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(480), h)
	assert.Equal(t, uint32(640), inst.Surfaces()[0].Config().Width)
	assert.Same(t, oldView, c.DepthView())

	delete(fail, "Device.CreateTexture")
	inst.Log.Reset()
	require.NoError(t, c.RenderFrame(nil))

	passes := inst.RenderPasses()
	depth := passes[len(passes)-1].Descriptor.DepthStencilAttachment
	require.NotNil(t, depth)
	assert.Same(t, oldView, depth.View)
}

func TestResizeConfigureFailureDropsNewDepth(t *testing.T) {
	fail := map[string]error{}
	inst, c := newTestContext(t, gputest.Config{Fail: fail}, WithDepth(true))
	oldView := c.DepthView()

	fail["Surface.Configure"] = errors.New("surface lost")
	require.ErrorIs(t, c.Resize(800, 600), common.ErrInit)

	w, h := c.Size()
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(480), h)
	assert.Same(t, oldView, c.DepthView())

	textures := inst.ObjectsOf("Texture")
	require.Len(t, textures, 2)
	assert.Zero(t, textures[0].Released())
	assert.Equal(t, 1, textures[1].Destroyed())
	assert.Equal(t, 1, textures[1].Released())
}

func TestRenderFrameRequiresDepthAttachment(t *testing.T) {
	inst, c := newTestContext(t, gputest.Config{}, WithDepth(true))
	c.(*gpuContext).depthView.Release()

	inst.Log.Reset()
	assert.ErrorIs(t, c.RenderFrame(nil), common.ErrInit)
	assert.Zero(t, inst.Log.Count("Surface.CurrentTextureView"))
	assert.Zero(t, inst.Log.Count("Queue.Submit"))
}
