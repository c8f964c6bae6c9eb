package wgpu_backend

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// surface wraps *wgpu.Surface. Capabilities are queried per call, as the preferred format
// depends on the adapter.
type surface struct {
	surface *wgpu.Surface
}

var _ gpu.Surface = &surface{}

func (s *surface) PreferredFormat(a gpu.Adapter) gpu.TextureFormat {
	wa, ok := a.(*adapter)
	if !ok {
		return gpu.TextureFormatUndefined
	}
	caps := s.surface.GetCapabilities(wa.adapter)
	if len(caps.Formats) == 0 {
		return gpu.TextureFormatUndefined
	}
	return fromTextureFormat(caps.Formats[0])
}

func (s *surface) Configure(a gpu.Adapter, d gpu.Device, config *gpu.SurfaceConfiguration) error {
	wa, ok := a.(*adapter)
	if !ok {
		return fmt.Errorf("surface configured with foreign adapter %T", a)
	}
	wd, ok := d.(*device)
	if !ok {
		return fmt.Errorf("surface configured with foreign device %T", d)
	}

	caps := s.surface.GetCapabilities(wa.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fmt.Errorf("surface is incompatible with the adapter")
	}
	format := toTextureFormat(config.Format)
	if config.Format == gpu.TextureFormatUndefined {
		format = caps.Formats[0]
	}

	s.surface.Configure(wa.adapter, wd.device, &wgpu.SurfaceConfiguration{
		Usage:       toTextureUsage(config.Usage),
		Format:      format,
		Width:       config.Width,
		Height:      config.Height,
		PresentMode: toPresentMode(config.PresentMode),
		AlphaMode:   caps.AlphaModes[0],
	})
	return nil
}

func (s *surface) CurrentTextureView() (gpu.TextureView, error) {
	tex, err := s.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	if tex == nil {
		return nil, nil
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &surfaceView{view: view, texture: tex}, nil
}

func (s *surface) Present() error {
	s.surface.Present()
	return nil
}

func (s *surface) Release() {
	s.surface.Release()
}

// surfaceView releases the acquired surface texture together with its view.
type surfaceView struct {
	view    *wgpu.TextureView
	texture *wgpu.Texture
}

func (v *surfaceView) Release() {
	v.view.Release()
	v.texture.Release()
}
