// Package wgpu_backend implements the engine's gpu interfaces on top of the cogentcore/webgpu
// bindings to wgpu-native.
package wgpu_backend

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	log "github.com/sirupsen/logrus"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// instance wraps *wgpu.Instance.
// wgpu-native resolves adapter and device requests before the request call returns, so the
// request callbacks fire synchronously and ProcessEvents has nothing to drive.
type instance struct {
	instance *wgpu.Instance
	log      *log.Entry
}

var _ gpu.Instance = &instance{}

// NewInstance creates a wgpu instance. The calling goroutine is locked to its OS thread, as the
// window and every wgpu call of the frame loop must stay on one thread.
//
// Parameters:
//   - logger: the entry used for backend diagnostics, nil for the standard logger
//
// Returns:
//   - gpu.Instance: the instance
//   - error: wraps common.ErrInit if the backend could not be created
func NewInstance(logger *log.Entry) (gpu.Instance, error) {
	runtime.LockOSThread()
	if logger == nil {
		logger = log.WithField("component", "wgpu")
	}
	inst := wgpu.CreateInstance(nil)
	if inst == nil {
		return nil, fmt.Errorf("%w: wgpu instance could not be created", common.ErrInit)
	}
	return &instance{instance: inst, log: logger}, nil
}

func (i *instance) CreateSurface(source gpu.SurfaceSource) (gpu.Surface, error) {
	if source == nil {
		return nil, fmt.Errorf("no surface source")
	}
	desc, ok := source.SurfaceDescriptor().(*wgpu.SurfaceDescriptor)
	if !ok || desc == nil {
		return nil, fmt.Errorf("surface source provided %T, want *wgpu.SurfaceDescriptor", source.SurfaceDescriptor())
	}
	s := i.instance.CreateSurface(desc)
	if s == nil {
		return nil, fmt.Errorf("wgpu surface could not be created")
	}
	return &surface{surface: s}, nil
}

func (i *instance) RequestAdapter(options *gpu.RequestAdapterOptions, callback gpu.RequestAdapterCallback) {
	opts := &wgpu.RequestAdapterOptions{}
	if options != nil {
		opts.ForceFallbackAdapter = options.ForceFallbackAdapter
		if s, ok := options.CompatibleSurface.(*surface); ok && s != nil {
			opts.CompatibleSurface = s.surface
		}
	}

	a, err := i.instance.RequestAdapter(opts)
	if err != nil {
		callback(gpu.RequestStatusUnavailable, nil, err.Error())
		return
	}
	if a == nil {
		callback(gpu.RequestStatusUnavailable, nil, "no adapter returned")
		return
	}
	callback(gpu.RequestStatusSuccess, &adapter{adapter: a, log: i.log}, "")
}

// ProcessEvents has nothing to drive: RequestAdapter and RequestDevice invoke their callbacks
// before returning.
func (i *instance) ProcessEvents() {}

func (i *instance) Release() {
	i.instance.Release()
}

// adapter wraps *wgpu.Adapter.
type adapter struct {
	adapter *wgpu.Adapter
	log     *log.Entry
}

var _ gpu.Adapter = &adapter{}

func (a *adapter) Limits() gpu.Limits {
	return fromLimits(a.adapter.GetLimits().Limits)
}

func (a *adapter) Features() []string {
	features := a.adapter.EnumerateFeatures()
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = fmt.Sprint(f)
	}
	return out
}

func (a *adapter) RequestDevice(descriptor *gpu.DeviceDescriptor, callback gpu.RequestDeviceCallback) {
	desc := &wgpu.DeviceDescriptor{}
	if descriptor != nil {
		desc.Label = descriptor.Label
		if descriptor.RequiredLimits != nil {
			desc.RequiredLimits = &wgpu.RequiredLimits{
				Limits: toLimits(*descriptor.RequiredLimits),
			}
		}
	}

	d, err := a.adapter.RequestDevice(desc)
	if err != nil {
		callback(gpu.RequestStatusError, nil, err.Error())
		return
	}
	if d == nil {
		callback(gpu.RequestStatusError, nil, "no device returned")
		return
	}
	dev := &device{device: d, log: a.log}
	dev.queue = &queue{queue: d.GetQueue(), device: dev}
	callback(gpu.RequestStatusSuccess, dev, "")
}

func (a *adapter) Release() {
	a.adapter.Release()
}
