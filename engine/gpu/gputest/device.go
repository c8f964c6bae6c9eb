package gputest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// Device is a fake gpu.Device.
type Device struct {
	*Object
	inst    *Instance
	limits  gpu.Limits
	queue   *Queue
	mu      sync.Mutex
	onError gpu.ErrorCallback
}

var _ gpu.Device = (*Device)(nil)

func (d *Device) Limits() gpu.Limits {
	return d.limits
}

func (d *Device) Queue() gpu.Queue {
	return d.FakeQueue()
}

// FakeQueue returns the concrete queue for inspection. The queue object is created on first use.
func (d *Device) FakeQueue() *Queue {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.queue == nil {
		d.queue = &Queue{Object: d.inst.newObject("Queue", ""), inst: d.inst}
	}
	return d.queue
}

func (d *Device) SetUncapturedErrorCallback(callback gpu.ErrorCallback) {
	d.inst.Log.record("Device.SetUncapturedErrorCallback", d.Name())
	d.mu.Lock()
	d.onError = callback
	d.mu.Unlock()
}

// RaiseError delivers an error to the registered uncaptured-error callback.
func (d *Device) RaiseError(errType gpu.ErrorType, message string) {
	d.mu.Lock()
	cb := d.onError
	d.mu.Unlock()
	if cb != nil {
		cb(errType, message)
	}
}

func (d *Device) create(name, kind, label string, args ...any) (*Object, error) {
	d.inst.Log.record(name, d.Name(), args...)
	if err := d.inst.fail(name); err != nil {
		return nil, err
	}
	return d.inst.newObject(kind, label), nil
}

func (d *Device) CreateBuffer(descriptor *gpu.BufferDescriptor) (gpu.Buffer, error) {
	o, err := d.create("Device.CreateBuffer", "Buffer", descriptor.Label, descriptor.Size, descriptor.Usage)
	if err != nil {
		return nil, err
	}
	return &Buffer{Object: o, size: descriptor.Size, usage: descriptor.Usage, Data: make([]byte, descriptor.Size)}, nil
}

func (d *Device) CreateTexture(descriptor *gpu.TextureDescriptor) (gpu.Texture, error) {
	o, err := d.create("Device.CreateTexture", "Texture", descriptor.Label, descriptor.Size, descriptor.Format)
	if err != nil {
		return nil, err
	}
	return &Texture{Object: o, inst: d.inst, Descriptor: *descriptor}, nil
}

func (d *Device) CreateShaderModule(descriptor *gpu.ShaderModuleDescriptor) (gpu.ShaderModule, error) {
	o, err := d.create("Device.CreateShaderModule", "ShaderModule", descriptor.Label)
	if err != nil {
		return nil, err
	}
	return &ShaderModule{Object: o, Code: descriptor.Code}, nil
}

func (d *Device) CreateBindGroupLayout(descriptor *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	o, err := d.create("Device.CreateBindGroupLayout", "BindGroupLayout", descriptor.Label, descriptor.Entries)
	if err != nil {
		return nil, err
	}
	return &BindGroupLayout{Object: o, Descriptor: *descriptor}, nil
}

func (d *Device) CreateBindGroup(descriptor *gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	o, err := d.create("Device.CreateBindGroup", "BindGroup", descriptor.Label, nameOf(descriptor.Layout))
	if err != nil {
		return nil, err
	}
	return &BindGroup{Object: o, Descriptor: *descriptor}, nil
}

func (d *Device) CreatePipelineLayout(descriptor *gpu.PipelineLayoutDescriptor) (gpu.PipelineLayout, error) {
	o, err := d.create("Device.CreatePipelineLayout", "PipelineLayout", descriptor.Label, len(descriptor.BindGroupLayouts))
	if err != nil {
		return nil, err
	}
	return &PipelineLayout{Object: o}, nil
}

func (d *Device) CreateRenderPipeline(descriptor *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	o, err := d.create("Device.CreateRenderPipeline", "RenderPipeline", descriptor.Label)
	if err != nil {
		return nil, err
	}
	return &RenderPipeline{Object: o, Descriptor: *descriptor}, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	o, err := d.create("Device.CreateCommandEncoder", "CommandEncoder", label)
	if err != nil {
		return nil, err
	}
	return &CommandEncoder{Object: o, inst: d.inst}, nil
}

func (d *Device) Poll(wait bool) bool {
	d.inst.Log.record("Device.Poll", d.Name(), wait)
	return true
}

// Write is one recorded Queue.WriteBuffer call.
type Write struct {
	Buffer string
	Offset uint64
	Data   []byte
}

// Queue is a fake gpu.Queue. Writes are applied to the fake buffer contents.
type Queue struct {
	*Object
	inst   *Instance
	mu     sync.Mutex
	writes []Write
}

var _ gpu.Queue = (*Queue)(nil)

func (q *Queue) WriteBuffer(buffer gpu.Buffer, offset uint64, data []byte) error {
	q.inst.Log.record("Queue.WriteBuffer", q.Name(), nameOf(buffer), offset, len(data))
	if err := q.inst.fail("Queue.WriteBuffer"); err != nil {
		return err
	}
	b, ok := buffer.(*Buffer)
	if !ok || b == nil {
		return fmt.Errorf("write to foreign buffer %T", buffer)
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("write of %d bytes at %d overflows %s of %d bytes", len(data), offset, b.Name(), b.size)
	}
	copy(b.Data[offset:], data)

	q.mu.Lock()
	q.writes = append(q.writes, Write{Buffer: b.Name(), Offset: offset, Data: append([]byte(nil), data...)})
	q.mu.Unlock()
	return nil
}

// Writes returns the recorded buffer writes.
func (q *Queue) Writes() []Write {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Write(nil), q.writes...)
}

func (q *Queue) Submit(commands ...gpu.CommandBuffer) {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = nameOf(c)
	}
	q.inst.Log.record("Queue.Submit", q.Name(), names)
}

// OnSubmittedWorkDone fires immediately: fake work completes on submission.
func (q *Queue) OnSubmittedWorkDone(callback gpu.QueueWorkDoneCallback) {
	q.inst.Log.record("Queue.OnSubmittedWorkDone", q.Name())
	if callback != nil {
		callback(gpu.QueueWorkDoneStatusSuccess)
	}
}

// Buffer is a fake gpu.Buffer with host-visible contents.
type Buffer struct {
	*Object
	size  uint64
	usage gpu.BufferUsage
	Data  []byte
}

var _ gpu.Buffer = (*Buffer)(nil)

func (b *Buffer) Size() uint64 {
	return b.size
}

func (b *Buffer) Usage() gpu.BufferUsage {
	return b.usage
}

// Texture is a fake gpu.Texture.
type Texture struct {
	*Object
	inst       *Instance
	Descriptor gpu.TextureDescriptor
}

var _ gpu.Texture = (*Texture)(nil)

func (t *Texture) CreateView() (gpu.TextureView, error) {
	t.inst.Log.record("Texture.CreateView", t.Name())
	if err := t.inst.fail("Texture.CreateView"); err != nil {
		return nil, err
	}
	return &TextureView{Object: t.inst.newObject("TextureView", t.Label)}, nil
}

type TextureView struct {
	*Object
}

type ShaderModule struct {
	*Object
	Code string
}

type BindGroupLayout struct {
	*Object
	Descriptor gpu.BindGroupLayoutDescriptor
}

type BindGroup struct {
	*Object
	Descriptor gpu.BindGroupDescriptor
}

type PipelineLayout struct {
	*Object
}

type RenderPipeline struct {
	*Object
	Descriptor gpu.RenderPipelineDescriptor
}

type CommandBuffer struct {
	*Object
}
