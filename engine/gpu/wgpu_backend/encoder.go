package wgpu_backend

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

type commandEncoder struct {
	encoder *wgpu.CommandEncoder
	device  *device
}

var _ gpu.CommandEncoder = &commandEncoder{}

func viewOf(v gpu.TextureView) (*wgpu.TextureView, error) {
	switch tv := v.(type) {
	case *textureView:
		return tv.view, nil
	case *surfaceView:
		return tv.view, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("foreign texture view %T", v)
}

func (e *commandEncoder) BeginRenderPass(descriptor *gpu.RenderPassDescriptor) (gpu.RenderPassEncoder, error) {
	colors := make([]wgpu.RenderPassColorAttachment, len(descriptor.ColorAttachments))
	for i, a := range descriptor.ColorAttachments {
		view, err := viewOf(a.View)
		if err != nil {
			return nil, e.device.report(err)
		}
		colors[i] = wgpu.RenderPassColorAttachment{
			View:    view,
			LoadOp:  toLoadOp(a.LoadOp),
			StoreOp: toStoreOp(a.StoreOp),
			ClearValue: wgpu.Color{
				R: a.ClearValue.R,
				G: a.ClearValue.G,
				B: a.ClearValue.B,
				A: a.ClearValue.A,
			},
		}
	}

	desc := &wgpu.RenderPassDescriptor{
		Label:            descriptor.Label,
		ColorAttachments: colors,
	}
	if ds := descriptor.DepthStencilAttachment; ds != nil {
		view, err := viewOf(ds.View)
		if err != nil {
			return nil, e.device.report(err)
		}
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:              view,
			DepthLoadOp:       toLoadOp(ds.DepthLoadOp),
			DepthStoreOp:      toStoreOp(ds.DepthStoreOp),
			DepthClearValue:   ds.DepthClearValue,
			DepthReadOnly:     ds.DepthReadOnly,
			StencilLoadOp:     toLoadOp(ds.StencilLoadOp),
			StencilStoreOp:    toStoreOp(ds.StencilStoreOp),
			StencilClearValue: ds.StencilClearValue,
			StencilReadOnly:   ds.StencilReadOnly,
		}
	}

	return &renderPass{pass: e.encoder.BeginRenderPass(desc), device: e.device}, nil
}

func (e *commandEncoder) Finish() (gpu.CommandBuffer, error) {
	cb, err := e.encoder.Finish(nil)
	if err != nil {
		return nil, e.device.report(err)
	}
	return &commandBuffer{buffer: cb}, nil
}

func (e *commandEncoder) Release() {
	e.encoder.Release()
}

type renderPass struct {
	pass   *wgpu.RenderPassEncoder
	device *device
}

var _ gpu.RenderPassEncoder = &renderPass{}

func (p *renderPass) SetPipeline(pipeline gpu.RenderPipeline) {
	rp, ok := pipeline.(*renderPipeline)
	if !ok {
		p.device.report(fmt.Errorf("foreign render pipeline %T", pipeline))
		return
	}
	p.pass.SetPipeline(rp.pipeline)
}

func (p *renderPass) SetBindGroup(index uint32, group gpu.BindGroup, dynamicOffsets []uint32) {
	bg, ok := group.(*bindGroup)
	if !ok {
		p.device.report(fmt.Errorf("foreign bind group %T", group))
		return
	}
	p.pass.SetBindGroup(index, bg.group, dynamicOffsets)
}

func (p *renderPass) SetVertexBuffer(slot uint32, b gpu.Buffer, offset, size uint64) {
	buf, ok := b.(*buffer)
	if !ok {
		p.device.report(fmt.Errorf("foreign vertex buffer %T", b))
		return
	}
	p.pass.SetVertexBuffer(slot, buf.buffer, offset, size)
}

func (p *renderPass) SetIndexBuffer(b gpu.Buffer, format gpu.IndexFormat, offset, size uint64) {
	buf, ok := b.(*buffer)
	if !ok {
		p.device.report(fmt.Errorf("foreign index buffer %T", b))
		return
	}
	p.pass.SetIndexBuffer(buf.buffer, toIndexFormat(format), offset, size)
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *renderPass) End() error {
	p.pass.End()
	return nil
}

func (p *renderPass) Release() {
	p.pass.Release()
}
