package gputest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// Config scripts the behavior of a fake Instance.
type Config struct {
	// AdapterLimits is returned by Adapter.Limits. The zero value means gpu.DefaultLimits().
	AdapterLimits *gpu.Limits
	Features      []string

	// PreferredFormat is returned by Surface.PreferredFormat. Zero means BGRA8Unorm.
	PreferredFormat gpu.TextureFormat

	// RejectAdapter and RejectDevice make the matching request fail with the given message.
	RejectAdapter string
	RejectDevice  string

	// DeferCallbacks delays request callbacks until Instance.ProcessEvents is called.
	DeferCallbacks bool

	// Fail maps a call name (for example "Device.CreateRenderPipeline", "Instance.CreateSurface",
	// "Surface.Configure", "Queue.WriteBuffer") to the error it returns.
	Fail map[string]error

	// NilImageAt makes the n-th (1-based) Surface.CurrentTextureView call return a nil view.
	NilImageAt int
}

// Instance is a fake gpu.Instance. Every object it creates shares its Log.
type Instance struct {
	*Object

	cfg Config
	Log *Log

	mu       sync.Mutex
	nextID   int
	objects  []*Object
	pending  []func()
	surfaces []*Surface
	devices  []*Device
	passes   []*RenderPass
}

var _ gpu.Instance = (*Instance)(nil)

// NewInstance creates a fake instance scripted by cfg.
func NewInstance(cfg Config) *Instance {
	if cfg.PreferredFormat == gpu.TextureFormatUndefined {
		cfg.PreferredFormat = gpu.TextureFormatBGRA8Unorm
	}
	log := &Log{}
	inst := &Instance{cfg: cfg, Log: log}
	inst.Object = inst.newObject("Instance", "")
	return inst
}

func (i *Instance) newObject(kind, label string) *Object {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.nextID++
	o := &Object{Kind: kind, ID: i.nextID, Label: label, log: i.Log}
	i.objects = append(i.objects, o)
	return o
}

func (i *Instance) fail(name string) error {
	if err, ok := i.cfg.Fail[name]; ok {
		return err
	}
	return nil
}

// Objects returns every object created so far, the Instance included.
func (i *Instance) Objects() []*Object {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]*Object, len(i.objects))
	copy(out, i.objects)
	return out
}

// ObjectsOf returns the created objects of the given kind.
func (i *Instance) ObjectsOf(kind string) []*Object {
	var out []*Object
	for _, o := range i.Objects() {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// Live returns the objects that have not been released.
func (i *Instance) Live() []*Object {
	var out []*Object
	for _, o := range i.Objects() {
		if o.Released() == 0 {
			out = append(out, o)
		}
	}
	return out
}

// Surfaces returns the surfaces created by this instance.
func (i *Instance) Surfaces() []*Surface {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]*Surface(nil), i.surfaces...)
}

// RenderPasses returns every render pass begun on encoders of this instance.
func (i *Instance) RenderPasses() []*RenderPass {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]*RenderPass(nil), i.passes...)
}

// Devices returns the devices created by this instance.
func (i *Instance) Devices() []*Device {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]*Device(nil), i.devices...)
}

func (i *Instance) CreateSurface(source gpu.SurfaceSource) (gpu.Surface, error) {
	i.Log.record("Instance.CreateSurface", i.Name())
	if err := i.fail("Instance.CreateSurface"); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("nil surface source")
	}
	s := &Surface{Object: i.newObject("Surface", ""), inst: i}
	i.mu.Lock()
	i.surfaces = append(i.surfaces, s)
	i.mu.Unlock()
	return s, nil
}

func (i *Instance) RequestAdapter(options *gpu.RequestAdapterOptions, callback gpu.RequestAdapterCallback) {
	i.Log.record("Instance.RequestAdapter", i.Name())
	deliver := func() {
		if i.cfg.RejectAdapter != "" {
			callback(gpu.RequestStatusUnavailable, nil, i.cfg.RejectAdapter)
			return
		}
		limits := gpu.DefaultLimits()
		if i.cfg.AdapterLimits != nil {
			limits = *i.cfg.AdapterLimits
		}
		callback(gpu.RequestStatusSuccess, &Adapter{Object: i.newObject("Adapter", ""), inst: i, limits: limits}, "")
	}
	i.dispatch(deliver)
}

func (i *Instance) dispatch(fn func()) {
	if !i.cfg.DeferCallbacks {
		fn()
		return
	}
	i.mu.Lock()
	i.pending = append(i.pending, fn)
	i.mu.Unlock()
}

// ProcessEvents fires the callbacks deferred by Config.DeferCallbacks.
func (i *Instance) ProcessEvents() {
	i.Log.record("Instance.ProcessEvents", i.Name())
	i.mu.Lock()
	pending := i.pending
	i.pending = nil
	i.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// Adapter is a fake gpu.Adapter.
type Adapter struct {
	*Object
	inst   *Instance
	limits gpu.Limits
}

var _ gpu.Adapter = (*Adapter)(nil)

func (a *Adapter) Limits() gpu.Limits {
	return a.limits
}

func (a *Adapter) Features() []string {
	return append([]string(nil), a.inst.cfg.Features...)
}

func (a *Adapter) RequestDevice(descriptor *gpu.DeviceDescriptor, callback gpu.RequestDeviceCallback) {
	a.inst.Log.record("Adapter.RequestDevice", a.Name(), descriptor)
	deliver := func() {
		if a.inst.cfg.RejectDevice != "" {
			callback(gpu.RequestStatusError, nil, a.inst.cfg.RejectDevice)
			return
		}
		limits := a.limits
		if descriptor != nil && descriptor.RequiredLimits != nil {
			limits = *descriptor.RequiredLimits
		}
		label := ""
		if descriptor != nil {
			label = descriptor.Label
		}
		d := &Device{Object: a.inst.newObject("Device", label), inst: a.inst, limits: limits}
		a.inst.mu.Lock()
		a.inst.devices = append(a.inst.devices, d)
		a.inst.mu.Unlock()
		callback(gpu.RequestStatusSuccess, d, "")
	}
	a.inst.dispatch(deliver)
}
