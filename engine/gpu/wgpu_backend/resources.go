package wgpu_backend

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

type buffer struct {
	buffer *wgpu.Buffer
	size   uint64
	usage  gpu.BufferUsage
}

var _ gpu.Buffer = &buffer{}

func (b *buffer) Size() uint64           { return b.size }
func (b *buffer) Usage() gpu.BufferUsage { return b.usage }
func (b *buffer) Destroy()               { b.buffer.Destroy() }
func (b *buffer) Release()               { b.buffer.Release() }

type texture struct {
	texture *wgpu.Texture
	device  *device
}

var _ gpu.Texture = &texture{}

func (t *texture) CreateView() (gpu.TextureView, error) {
	v, err := t.texture.CreateView(nil)
	if err != nil {
		return nil, t.device.report(err)
	}
	return &textureView{view: v}, nil
}

func (t *texture) Destroy() { t.texture.Destroy() }
func (t *texture) Release() { t.texture.Release() }

type textureView struct {
	view *wgpu.TextureView
}

func (v *textureView) Release() { v.view.Release() }

type shaderModule struct {
	module *wgpu.ShaderModule
}

func (m *shaderModule) Release() { m.module.Release() }

type bindGroupLayout struct {
	layout *wgpu.BindGroupLayout
}

func (l *bindGroupLayout) Release() { l.layout.Release() }

type bindGroup struct {
	group *wgpu.BindGroup
}

func (g *bindGroup) Release() { g.group.Release() }

type pipelineLayout struct {
	layout *wgpu.PipelineLayout
}

func (l *pipelineLayout) Release() { l.layout.Release() }

type renderPipeline struct {
	pipeline *wgpu.RenderPipeline
}

func (p *renderPipeline) Release() { p.pipeline.Release() }

type commandBuffer struct {
	buffer *wgpu.CommandBuffer
}

func (c *commandBuffer) Release() { c.buffer.Release() }
