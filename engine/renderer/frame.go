package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/handle"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
)

// Draw is one draw call recorded into the frame's render pass.
// A nil IndexBuffer records a non-indexed Draw of VertexCount vertices.
type Draw struct {
	VertexBuffer gpu.Buffer
	VertexOffset uint64
	// VertexSize of zero binds the rest of the buffer.
	VertexSize  uint64
	VertexCount uint32

	IndexBuffer gpu.Buffer
	IndexOffset uint64
	IndexSize   uint64
	IndexCount  uint32

	// InstanceCount of zero draws one instance.
	InstanceCount uint32

	// UniformSlot selects the uniform block through the bind group's dynamic offset.
	// Ignored when the context has no uniform slots.
	UniformSlot int
}

// FrameStats counts the work submitted by a context.
type FrameStats struct {
	Frames      uint64
	Submissions uint64
	Draws       uint64
}

func (c *gpuContext) RenderFrame(draws []Draw) error {
	if !c.device.Valid() {
		return fmt.Errorf("%w: context has been released", common.ErrInit)
	}
	if c.depth && !c.depthView.Valid() {
		return fmt.Errorf("%w: depth attachment is missing", common.ErrInit)
	}
	for i, d := range draws {
		if err := c.checkDraw(d); err != nil {
			return fmt.Errorf("draw %d: %w", i, err)
		}
	}

	// every per-frame object is released when the frame ends, after Present
	frame := handle.NewScope()
	defer frame.Close()

	target, err := c.acquireImage(frame)
	if err != nil {
		return err
	}

	commands, err := c.encode(frame, target, draws)
	if err != nil {
		return err
	}

	c.queue.Get().Submit(commands)
	c.stats.Submissions++

	if err := c.surface.Get().Present(); err != nil {
		return fmt.Errorf("%w: present failed: %w", common.ErrSwapchainImageUnavailable, err)
	}

	c.stats.Frames++
	c.stats.Draws += uint64(len(draws))
	return nil
}

func (c *gpuContext) checkDraw(d Draw) error {
	if c.uniformSlots > 0 && (d.UniformSlot < 0 || d.UniformSlot >= c.uniformSlots) {
		return fmt.Errorf("uniform slot %d out of range [0, %d)", d.UniformSlot, c.uniformSlots)
	}
	if d.IndexBuffer != nil && d.VertexBuffer == nil {
		return fmt.Errorf("indexed draw without a vertex buffer")
	}
	return nil
}

func (c *gpuContext) acquireImage(frame *handle.Scope) (gpu.TextureView, error) {
	view, err := c.surface.Get().CurrentTextureView()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSwapchainImageUnavailable, err)
	}
	target := handle.Track(frame, handle.New(view))
	if !target.Valid() {
		return nil, common.ErrSwapchainImageUnavailable
	}
	return target.Get(), nil
}

// encode records the whole frame into one command buffer owned by frame.
func (c *gpuContext) encode(frame *handle.Scope, target gpu.TextureView, draws []Draw) (gpu.CommandBuffer, error) {
	encoder, err := c.device.Get().CreateCommandEncoder(c.label + " frame encoder")
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	enc := handle.Track(frame, handle.New(encoder))

	pass, err := encoder.BeginRenderPass(c.renderPassDescriptor(target))
	if err != nil {
		return nil, fmt.Errorf("failed to begin render pass: %w", err)
	}
	renderPass := handle.Track(frame, handle.New(pass))

	pass.SetPipeline(c.pipeline.Get())
	for _, d := range draws {
		c.encodeDraw(pass, d)
	}
	if err := pass.End(); err != nil {
		return nil, fmt.Errorf("failed to end render pass: %w", err)
	}
	renderPass.Release()

	commands, err := enc.Get().Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to finish command encoder: %w", err)
	}
	return handle.Track(frame, handle.New(commands)).Get(), nil
}

func (c *gpuContext) renderPassDescriptor(target gpu.TextureView) *gpu.RenderPassDescriptor {
	desc := &gpu.RenderPassDescriptor{
		Label: c.label + " render pass",
		ColorAttachments: []gpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     gpu.LoadOpClear,
			StoreOp:    gpu.StoreOpStore,
			ClearValue: c.clearColor,
		}},
	}

	if c.depth {
		// Depth24Plus has no stencil aspect, so the stencil side stays read-only with no ops.
		desc.DepthStencilAttachment = &gpu.RenderPassDepthStencilAttachment{
			View:              c.depthView.Get(),
			DepthLoadOp:       gpu.LoadOpClear,
			DepthStoreOp:      gpu.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     gpu.LoadOpUndefined,
			StencilStoreOp:    gpu.StoreOpUndefined,
			StencilClearValue: 0,
			StencilReadOnly:   true,
		}
	}
	return desc
}

func (c *gpuContext) encodeDraw(pass gpu.RenderPassEncoder, d Draw) {
	if c.bindGroup.Valid() {
		pass.SetBindGroup(0, c.bindGroup.Get(), []uint32{uniform.Offset(d.UniformSlot, c.stride)})
	}
	if d.VertexBuffer != nil {
		pass.SetVertexBuffer(0, d.VertexBuffer, d.VertexOffset, sizeOrWhole(d.VertexSize))
	}

	instances := max(d.InstanceCount, 1)
	if d.IndexBuffer != nil {
		pass.SetIndexBuffer(d.IndexBuffer, gpu.IndexFormatUint32, d.IndexOffset, sizeOrWhole(d.IndexSize))
		pass.DrawIndexed(d.IndexCount, instances, 0, 0, 0)
		return
	}
	pass.Draw(d.VertexCount, instances, 0, 0)
}

func sizeOrWhole(size uint64) uint64 {
	if size == 0 {
		return gpu.WholeSize
	}
	return size
}
