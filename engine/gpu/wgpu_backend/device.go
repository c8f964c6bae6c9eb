package wgpu_backend

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	log "github.com/sirupsen/logrus"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// device wraps *wgpu.Device.
// The binding reports validation errors as call results rather than through an error callback,
// so every failed call is also forwarded to the uncaptured-error callback, which keeps the
// device-wide error log complete.
type device struct {
	device *wgpu.Device
	queue  *queue
	log    *log.Entry

	mu      sync.Mutex
	onError gpu.ErrorCallback
}

var _ gpu.Device = &device{}

func (d *device) Limits() gpu.Limits {
	return fromLimits(d.device.GetLimits().Limits)
}

func (d *device) Queue() gpu.Queue {
	return d.queue
}

func (d *device) SetUncapturedErrorCallback(callback gpu.ErrorCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onError = callback
}

// report forwards err to the error callback and returns it unchanged.
func (d *device) report(err error) error {
	if err == nil {
		return nil
	}
	d.mu.Lock()
	cb := d.onError
	d.mu.Unlock()
	if cb != nil {
		cb(gpu.ErrorTypeValidation, err.Error())
	}
	return err
}

func (d *device) CreateBuffer(descriptor *gpu.BufferDescriptor) (gpu.Buffer, error) {
	b, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            descriptor.Label,
		Size:             descriptor.Size,
		Usage:            toBufferUsage(descriptor.Usage),
		MappedAtCreation: descriptor.MappedAtCreation,
	})
	if err != nil {
		return nil, d.report(err)
	}
	return &buffer{buffer: b, size: descriptor.Size, usage: descriptor.Usage}, nil
}

func (d *device) CreateTexture(descriptor *gpu.TextureDescriptor) (gpu.Texture, error) {
	t, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: descriptor.Label,
		Size: wgpu.Extent3D{
			Width:              descriptor.Size.Width,
			Height:             descriptor.Size.Height,
			DepthOrArrayLayers: descriptor.Size.DepthOrArrayLayers,
		},
		MipLevelCount: descriptor.MipLevelCount,
		SampleCount:   descriptor.SampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        toTextureFormat(descriptor.Format),
		Usage:         toTextureUsage(descriptor.Usage),
	})
	if err != nil {
		return nil, d.report(err)
	}
	return &texture{texture: t, device: d}, nil
}

func (d *device) CreateShaderModule(descriptor *gpu.ShaderModuleDescriptor) (gpu.ShaderModule, error) {
	m, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: descriptor.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: descriptor.Code,
		},
	})
	if err != nil {
		return nil, d.report(err)
	}
	return &shaderModule{module: m}, nil
}

func (d *device) CreateBindGroupLayout(descriptor *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(descriptor.Entries))
	for i, e := range descriptor.Entries {
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: toShaderStage(e.Visibility),
		}
		entries[i].Buffer.Type = toBufferBindingType(e.Buffer.Type)
		entries[i].Buffer.HasDynamicOffset = e.Buffer.HasDynamicOffset
		entries[i].Buffer.MinBindingSize = e.Buffer.MinBindingSize
	}
	l, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   descriptor.Label,
		Entries: entries,
	})
	if err != nil {
		return nil, d.report(err)
	}
	return &bindGroupLayout{layout: l}, nil
}

func (d *device) CreateBindGroup(descriptor *gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	layout, ok := descriptor.Layout.(*bindGroupLayout)
	if !ok {
		return nil, d.report(fmt.Errorf("bind group %q has foreign layout %T", descriptor.Label, descriptor.Layout))
	}
	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, e := range descriptor.Entries {
		buf, ok := e.Buffer.(*buffer)
		if !ok {
			return nil, d.report(fmt.Errorf("bind group %q entry %d has foreign buffer %T", descriptor.Label, e.Binding, e.Buffer))
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  buf.buffer,
			Offset:  e.Offset,
			Size:    e.Size,
		}
	}
	g, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   descriptor.Label,
		Layout:  layout.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, d.report(err)
	}
	return &bindGroup{group: g}, nil
}

func (d *device) CreatePipelineLayout(descriptor *gpu.PipelineLayoutDescriptor) (gpu.PipelineLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, len(descriptor.BindGroupLayouts))
	for i, l := range descriptor.BindGroupLayouts {
		bgl, ok := l.(*bindGroupLayout)
		if !ok {
			return nil, d.report(fmt.Errorf("pipeline layout %q has foreign bind group layout %T", descriptor.Label, l))
		}
		layouts[i] = bgl.layout
	}
	l, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            descriptor.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, d.report(err)
	}
	return &pipelineLayout{layout: l}, nil
}

func (d *device) CreateRenderPipeline(descriptor *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	layout, ok := descriptor.Layout.(*pipelineLayout)
	if !ok {
		return nil, d.report(fmt.Errorf("render pipeline %q has foreign layout %T", descriptor.Label, descriptor.Layout))
	}
	vs, ok := descriptor.Vertex.Module.(*shaderModule)
	if !ok {
		return nil, d.report(fmt.Errorf("render pipeline %q has foreign vertex module %T", descriptor.Label, descriptor.Vertex.Module))
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  descriptor.Label,
		Layout: layout.layout,
		Vertex: wgpu.VertexState{
			Module:     vs.module,
			EntryPoint: descriptor.Vertex.EntryPoint,
			Buffers:    toVertexLayouts(descriptor.Vertex.Buffers),
		},
		Primitive: toPrimitive(descriptor.Primitive),
		Multisample: wgpu.MultisampleState{
			Count: descriptor.Multisample.Count,
			Mask:  descriptor.Multisample.Mask,
		},
	}

	if f := descriptor.Fragment; f != nil {
		fs, ok := f.Module.(*shaderModule)
		if !ok {
			return nil, d.report(fmt.Errorf("render pipeline %q has foreign fragment module %T", descriptor.Label, f.Module))
		}
		targets := make([]wgpu.ColorTargetState, len(f.Targets))
		for i, t := range f.Targets {
			targets[i] = wgpu.ColorTargetState{
				Format:    toTextureFormat(t.Format),
				WriteMask: toColorWriteMask(t.WriteMask),
			}
			if t.Blend != nil {
				targets[i].Blend = &wgpu.BlendState{
					Color: toBlendComponent(t.Blend.Color),
					Alpha: toBlendComponent(t.Blend.Alpha),
				}
			}
		}
		desc.Fragment = &wgpu.FragmentState{
			Module:     fs.module,
			EntryPoint: f.EntryPoint,
			Targets:    targets,
		}
	}

	if ds := descriptor.DepthStencil; ds != nil {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            toTextureFormat(ds.Format),
			DepthWriteEnabled: ds.DepthWriteEnabled,
			DepthCompare:      toCompareFunction(ds.DepthCompare),
			StencilFront:      toStencilFace(ds.StencilFront),
			StencilBack:       toStencilFace(ds.StencilBack),
			StencilReadMask:   ds.StencilReadMask,
			StencilWriteMask:  ds.StencilWriteMask,
		}
	}

	p, err := d.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, d.report(err)
	}
	return &renderPipeline{pipeline: p}, nil
}

func (d *device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	var desc *wgpu.CommandEncoderDescriptor
	if label != "" {
		desc = &wgpu.CommandEncoderDescriptor{Label: label}
	}
	e, err := d.device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, d.report(err)
	}
	return &commandEncoder{encoder: e, device: d}, nil
}

func (d *device) Poll(wait bool) bool {
	return d.device.Poll(wait, nil)
}

func (d *device) Release() {
	d.device.Release()
}

// queue wraps *wgpu.Queue.
type queue struct {
	queue  *wgpu.Queue
	device *device
}

var _ gpu.Queue = &queue{}

func (q *queue) WriteBuffer(b gpu.Buffer, offset uint64, data []byte) error {
	buf, ok := b.(*buffer)
	if !ok {
		return q.device.report(fmt.Errorf("write to foreign buffer %T", b))
	}
	return q.device.report(q.queue.WriteBuffer(buf.buffer, offset, data))
}

func (q *queue) Submit(commands ...gpu.CommandBuffer) {
	bufs := make([]*wgpu.CommandBuffer, 0, len(commands))
	for _, c := range commands {
		cb, ok := c.(*commandBuffer)
		if !ok {
			q.device.report(fmt.Errorf("submit of foreign command buffer %T", c))
			continue
		}
		bufs = append(bufs, cb.buffer)
	}
	q.queue.Submit(bufs...)
}

// OnSubmittedWorkDone waits for the device to go idle and then notifies the callback.
func (q *queue) OnSubmittedWorkDone(callback gpu.QueueWorkDoneCallback) {
	q.device.Poll(true)
	if callback != nil {
		callback(gpu.QueueWorkDoneStatusSuccess)
	}
}

func (q *queue) Release() {
	q.queue.Release()
}
