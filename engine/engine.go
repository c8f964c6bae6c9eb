// Package engine drives an oxy-gpu application: it preloads assets, opens the window, builds the
// render context and runs the frame loop until the window closes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/assets"
	"github.com/Carmen-Shannon/oxy-gpu/engine/camera"
	"github.com/Carmen-Shannon/oxy-gpu/engine/config"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu"
	"github.com/Carmen-Shannon/oxy-gpu/engine/gpu/wgpu_backend"
	"github.com/Carmen-Shannon/oxy-gpu/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
	"github.com/Carmen-Shannon/oxy-gpu/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	cfg    *config.Config
	logger *log.Entry

	window      window.Window
	newInstance renderer.InstanceFactory

	contextOptions []renderer.ContextBuilderOption
	update         renderer.FrameFunc
	keyDown        func(keyCode uint32)
	camera         camera.Camera

	profiler         *profiler.Profiler
	profilingEnabled bool

	context renderer.Context
	models  []*renderer.Model

	mu     sync.Mutex
	cancel context.CancelFunc
	quit   bool
}

// Engine is the main entry point for the engine.
// It owns the window, the render context and the models uploaded from the configured assets.
type Engine interface {
	// Window returns the window, or nil before Run opens one.
	Window() window.Window

	// Config returns the configuration the engine runs with.
	Config() *config.Config

	// Context returns the render context while Run is active, nil otherwise.
	Context() renderer.Context

	// Models returns the models uploaded from the configured geometry, OBJ or glTF file.
	Models() []*renderer.Model

	// Camera returns the orbit camera. Its aspect ratio follows the window; the arrow keys orbit
	// it and +/- zoom.
	Camera() camera.Camera

	// EnableProfiler enables periodic frame statistics on the log.
	EnableProfiler()

	// DisableProfiler disables periodic frame statistics.
	DisableProfiler()

	// SetUpdateCallback replaces the built-in frame function, which spins every model in front of
	// the camera and draws it with uniform slot 0.
	//
	// Parameters:
	//   - fn: called before every frame; returns the draws to record
	SetUpdateCallback(fn renderer.FrameFunc)

	// Run loads assets, builds the render context and renders until the window closes, ctx is
	// cancelled or Quit is called. Everything acquired is released before Run returns.
	//
	// Parameters:
	//   - ctx: cancels setup and the frame loop
	//
	// Returns:
	//   - error: the first setup or frame error; nil after a normal close or Quit
	Run(ctx context.Context) error

	// Quit stops a running frame loop before its next frame. Safe to call from any goroutine.
	Quit()
}

// NewEngine creates a new Engine with the provided options.
// Without options the engine uses config.Default(), opens a GLFW window and renders through the
// WebGPU backend.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		cfg:    config.Default(),
		logger: log.WithField("component", "engine"),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.newInstance == nil {
		logger := e.logger
		e.newInstance = func() (gpu.Instance, error) {
			return wgpu_backend.NewInstance(logger.WithField("component", "wgpu"))
		}
	}
	e.profiler = profiler.NewProfiler(e.logger.WithField("component", "profiler"), time.Second)

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Config() *config.Config {
	return e.cfg
}

func (e *engine) Context() renderer.Context {
	return e.context
}

func (e *engine) Models() []*renderer.Model {
	return e.models
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetUpdateCallback(fn renderer.FrameFunc) {
	e.update = fn
}

func (e *engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quit = true
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.quit {
		e.mu.Unlock()
		return nil
	}
	e.cancel = cancel
	e.mu.Unlock()

	defer e.closeWindow()

	loaded, err := e.loadAssets()
	if err != nil {
		return err
	}

	if e.window == nil {
		w, err := window.NewWindow(e.windowOptions()...)
		if err != nil {
			return err
		}
		e.window = w
	}

	options, err := e.buildContextOptions(loaded)
	if err != nil {
		return err
	}

	c, err := renderer.NewContext(ctx, e.newInstance, e.window, e.window.Width(), e.window.Height(), options...)
	if err != nil {
		return err
	}
	e.context = c
	defer func() {
		c.Release()
		e.context = nil
	}()

	defer e.releaseModels()
	if err := e.uploadModels(c, loaded); err != nil {
		return err
	}

	e.camera.SetAspect(float32(e.window.Width()) / float32(e.window.Height()))
	e.window.SetResizeCallback(func(width, height int) {
		if err := c.Resize(width, height); err != nil {
			e.logger.WithError(err).Warn("Failed to resize swapchain")
			return
		}
		e.camera.SetAspect(float32(width) / float32(height))
	})
	e.window.SetKeyDownCallback(e.handleKeyDown)

	fn := e.update
	if fn == nil {
		fn = e.spinModels
	}

	err = renderer.Loop(ctx, c, e.window, e.profiled(c, fn))
	if errors.Is(err, context.Canceled) && e.quitRequested() {
		err = nil
	}

	stats := c.Stats()
	e.logger.WithFields(log.Fields{
		"frames":      stats.Frames,
		"submissions": stats.Submissions,
		"draws":       stats.Draws,
	}).Info("Frame loop finished")
	return err
}

func (e *engine) closeWindow() {
	if e.window == nil {
		return
	}
	if err := e.window.Close(); err != nil {
		e.logger.WithError(err).Warn("Failed to close window")
	}
}

func (e *engine) quitRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quit
}

// loadAssets preloads the configured shader file and model on the asset worker pool.
func (e *engine) loadAssets() (map[assets.Kind]assets.Asset, error) {
	var requests []assets.Request
	if p := e.cfg.Render.ShaderPath; p != "" {
		requests = append(requests, assets.Request{Kind: assets.KindShader, Path: p})
	}
	if p := e.cfg.Assets.Geometry; p != "" {
		requests = append(requests, assets.Request{Kind: assets.KindGeometry, Path: p, Dimensions: e.cfg.Assets.Dimensions})
	}
	if p := e.cfg.Assets.OBJ; p != "" {
		requests = append(requests, assets.Request{Kind: assets.KindOBJ, Path: p})
	}
	if p := e.cfg.Assets.GLTF; p != "" {
		requests = append(requests, assets.Request{Kind: assets.KindGLTF, Path: p})
	}
	if len(requests) == 0 {
		return nil, nil
	}

	loader := assets.NewLoader(
		assets.WithWorkers(e.cfg.Assets.Workers),
		assets.WithLogger(e.logger.WithField("component", "assets")),
	)
	loaded, err := loader.LoadAll(requests)
	if err != nil {
		return nil, err
	}

	byKind := make(map[assets.Kind]assets.Asset, len(loaded))
	for _, a := range loaded {
		byKind[a.Request.Kind] = a
	}
	return byKind, nil
}

func (e *engine) windowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(e.cfg.Window.Title),
		window.WithWidth(e.cfg.Window.Width),
		window.WithHeight(e.cfg.Window.Height),
		window.WithResizable(e.cfg.Window.Resizable),
		window.WithLogger(e.logger.WithField("component", "window")),
	}
}

// buildContextOptions maps the render configuration onto context builder options. Options set
// with WithContextOptions are applied last.
func (e *engine) buildContextOptions(loaded map[assets.Kind]assets.Asset) ([]renderer.ContextBuilderOption, error) {
	r := e.cfg.Render

	s := loaded[assets.KindShader].Shader
	if s == nil {
		var err error
		if s, err = shader.Builtin(r.Shader); err != nil {
			return nil, err
		}
	}

	options := []renderer.ContextBuilderOption{
		renderer.WithLabel(common.Coalesce(e.cfg.Window.Title, "oxy")),
		renderer.WithLogger(e.logger.WithField("component", "renderer")),
		renderer.WithShader(s),
		renderer.WithShaderValidation(r.ValidateShaders),
		renderer.WithDepth(r.Depth),
		renderer.WithUniformSlots(r.UniformSlots),
		renderer.WithClearColor(e.cfg.ClearColor()),
		renderer.WithPresentMode(e.cfg.PresentMode()),
		renderer.WithMaxBufferSize(r.MaxBufferSize),
		renderer.WithForceFallbackAdapter(r.ForceFallbackAdapter),
	}

	if g := loaded[assets.KindGeometry].Geometry; g != nil {
		options = append(options, renderer.WithVertexLayout(uniform.PointLayout(g.Dimensions)))
	}
	if len(meshes(loaded)) > 0 {
		options = append(options, renderer.WithVertexLayout(uniform.VertexLayout()))
	}

	return append(options, e.contextOptions...), nil
}

func (e *engine) uploadModels(c renderer.Context, loaded map[assets.Kind]assets.Asset) error {
	if g := loaded[assets.KindGeometry].Geometry; g != nil {
		m, err := c.CreateModel(e.cfg.Assets.Geometry, g)
		if err != nil {
			return err
		}
		e.models = append(e.models, m)
	}

	for _, a := range meshes(loaded) {
		if len(a.Mesh) == 0 {
			return fmt.Errorf("%w: %s file %s has no faces", common.ErrResourceLoad, a.Request.Kind, a.Request.Path)
		}
		m, err := c.CreateVertexBuffer(a.Request.Path, uniform.VerticesToBytes(a.Mesh), uint32(len(a.Mesh)))
		if err != nil {
			return err
		}
		e.models = append(e.models, m)
	}
	return nil
}

// meshes returns the loaded OBJ and glTF assets.
func meshes(loaded map[assets.Kind]assets.Asset) []assets.Asset {
	var out []assets.Asset
	for _, kind := range []assets.Kind{assets.KindOBJ, assets.KindGLTF} {
		if a, ok := loaded[kind]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (e *engine) releaseModels() {
	for i := len(e.models) - 1; i >= 0; i-- {
		e.models[i].Release()
	}
	e.models = nil
}

// handleKeyDown steers the camera, then forwards the key to the application callback.
func (e *engine) handleKeyDown(keyCode uint32) {
	switch glfw.Key(keyCode) {
	case glfw.KeyLeft:
		e.camera.OrbitLeft()
	case glfw.KeyRight:
		e.camera.OrbitRight()
	case glfw.KeyUp:
		e.camera.OrbitUp()
	case glfw.KeyDown:
		e.camera.OrbitDown()
	case glfw.KeyEqual, glfw.KeyKPAdd:
		e.camera.Zoom(1)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		e.camera.Zoom(-1)
	}
	if e.keyDown != nil {
		e.keyDown(keyCode)
	}
}

// spinModels rotates every model around the Z axis in front of the camera. Without models it
// draws one three-vertex triangle for shaders that generate their own positions.
func (e *engine) spinModels(frame uint64, elapsed time.Duration) ([]renderer.Draw, error) {
	c := e.context
	seconds := float32(elapsed.Seconds())

	if c.UniformSlots() > 0 {
		u := uniform.NewUniforms()
		e.camera.Apply(&u)
		u.Model = uniform.Spin(seconds, 1, mgl32.Vec3{})
		u.Time = seconds
		if err := c.WriteUniforms(0, &u); err != nil {
			return nil, err
		}
	}

	if len(e.models) == 0 {
		return []renderer.Draw{{VertexCount: 3}}, nil
	}

	draws := make([]renderer.Draw, len(e.models))
	for i, m := range e.models {
		draws[i] = m.Draw(0)
	}
	return draws, nil
}

// profiled wraps fn so the profiler ticks once per frame when enabled.
func (e *engine) profiled(c renderer.Context, fn renderer.FrameFunc) renderer.FrameFunc {
	return func(frame uint64, elapsed time.Duration) ([]renderer.Draw, error) {
		if e.profilingEnabled && frame > 0 {
			e.profiler.Tick(c.Stats().Submissions)
		}
		return fn(frame, elapsed)
	}
}
