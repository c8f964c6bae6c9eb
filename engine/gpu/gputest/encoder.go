package gputest

import (
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// CommandEncoder is a fake gpu.CommandEncoder.
type CommandEncoder struct {
	*Object
	inst *Instance
}

var _ gpu.CommandEncoder = (*CommandEncoder)(nil)

func (e *CommandEncoder) BeginRenderPass(descriptor *gpu.RenderPassDescriptor) (gpu.RenderPassEncoder, error) {
	views := make([]string, len(descriptor.ColorAttachments))
	for i, a := range descriptor.ColorAttachments {
		views[i] = nameOf(a.View)
	}
	e.inst.Log.record("CommandEncoder.BeginRenderPass", e.Name(), views, descriptor.DepthStencilAttachment != nil)
	if err := e.inst.fail("CommandEncoder.BeginRenderPass"); err != nil {
		return nil, err
	}
	pass := &RenderPass{Object: e.inst.newObject("RenderPass", ""), inst: e.inst, Descriptor: *descriptor}
	e.inst.mu.Lock()
	e.inst.passes = append(e.inst.passes, pass)
	e.inst.mu.Unlock()
	return pass, nil
}

func (e *CommandEncoder) Finish() (gpu.CommandBuffer, error) {
	e.inst.Log.record("CommandEncoder.Finish", e.Name())
	if err := e.inst.fail("CommandEncoder.Finish"); err != nil {
		return nil, err
	}
	return &CommandBuffer{Object: e.inst.newObject("CommandBuffer", "")}, nil
}

// RenderPass is a fake gpu.RenderPassEncoder.
type RenderPass struct {
	*Object
	inst       *Instance
	Descriptor gpu.RenderPassDescriptor
}

var _ gpu.RenderPassEncoder = (*RenderPass)(nil)

func (p *RenderPass) SetPipeline(pipeline gpu.RenderPipeline) {
	p.inst.Log.record("RenderPass.SetPipeline", p.Name(), nameOf(pipeline))
}

func (p *RenderPass) SetBindGroup(index uint32, group gpu.BindGroup, dynamicOffsets []uint32) {
	p.inst.Log.record("RenderPass.SetBindGroup", p.Name(), index, nameOf(group), append([]uint32(nil), dynamicOffsets...))
}

func (p *RenderPass) SetVertexBuffer(slot uint32, buffer gpu.Buffer, offset, size uint64) {
	p.inst.Log.record("RenderPass.SetVertexBuffer", p.Name(), slot, nameOf(buffer), offset, size)
}

func (p *RenderPass) SetIndexBuffer(buffer gpu.Buffer, format gpu.IndexFormat, offset, size uint64) {
	p.inst.Log.record("RenderPass.SetIndexBuffer", p.Name(), nameOf(buffer), format, offset, size)
}

func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.inst.Log.record("RenderPass.Draw", p.Name(), vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *RenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.inst.Log.record("RenderPass.DrawIndexed", p.Name(), indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *RenderPass) End() error {
	p.inst.Log.record("RenderPass.End", p.Name())
	return p.inst.fail("RenderPass.End")
}
