package gputest

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
)

// Surface is a fake gpu.Surface.
type Surface struct {
	*Object
	inst *Instance

	mu       sync.Mutex
	config   *gpu.SurfaceConfiguration
	acquired int
}

var _ gpu.Surface = (*Surface)(nil)

func (s *Surface) PreferredFormat(adapter gpu.Adapter) gpu.TextureFormat {
	return s.inst.cfg.PreferredFormat
}

func (s *Surface) Configure(adapter gpu.Adapter, device gpu.Device, config *gpu.SurfaceConfiguration) error {
	s.inst.Log.record("Surface.Configure", s.Name(), config.Width, config.Height, config.Format, config.PresentMode)
	if err := s.inst.fail("Surface.Configure"); err != nil {
		return err
	}
	c := *config
	s.mu.Lock()
	s.config = &c
	s.mu.Unlock()
	return nil
}

// Config returns the last accepted configuration, nil if the surface was never configured.
func (s *Surface) Config() *gpu.SurfaceConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *Surface) CurrentTextureView() (gpu.TextureView, error) {
	s.mu.Lock()
	s.acquired++
	n := s.acquired
	s.mu.Unlock()

	s.inst.Log.record("Surface.CurrentTextureView", s.Name(), n)
	if err := s.inst.fail("Surface.CurrentTextureView"); err != nil {
		return nil, err
	}
	if s.inst.cfg.NilImageAt == n {
		return nil, nil
	}
	return &TextureView{Object: s.inst.newObject("SurfaceView", "")}, nil
}

func (s *Surface) Present() error {
	s.inst.Log.record("Surface.Present", s.Name())
	return s.inst.fail("Surface.Present")
}
