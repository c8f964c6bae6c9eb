// Package assets preloads shader, geometry, OBJ and glTF files concurrently before a render context is
// built.
package assets

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/Carmen-Shannon/oxy-gpu/engine/geometry"
	gltf "github.com/Carmen-Shannon/oxy-gpu/engine/loader"
	"github.com/Carmen-Shannon/oxy-gpu/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gpu/engine/uniform"
	log "github.com/sirupsen/logrus"
)

// Kind identifies the file format of a Request.
type Kind int

const (
	KindShader Kind = iota
	KindGeometry
	KindOBJ
	KindGLTF
)

func (k Kind) String() string {
	switch k {
	case KindShader:
		return "shader"
	case KindGeometry:
		return "geometry"
	case KindOBJ:
		return "obj"
	case KindGLTF:
		return "gltf"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Request names one file to load.
type Request struct {
	Kind Kind
	Path string

	// Dimensions is the position width of a KindGeometry file.
	Dimensions int
}

// Asset is the result of one Request. Exactly one of Shader, Geometry or Mesh is set, matching
// Request.Kind; OBJ and glTF files both produce a Mesh.
type Asset struct {
	Request  Request
	Shader   shader.Shader
	Geometry *geometry.Geometry
	Mesh     []uniform.VertexAttributes
}

// Loader loads batches of asset files on a shared worker pool.
type Loader interface {
	// LoadAll loads every request concurrently and waits for all of them.
	//
	// Parameters:
	//   - requests: the files to load
	//
	// Returns:
	//   - []Asset: one asset per request, in request order
	//   - error: the error of the earliest failing request, wrapping common.ErrResourceLoad
	LoadAll(requests []Request) ([]Asset, error)
}

type loader struct {
	workers       int
	logger        *log.Entry
	shaderOptions []shader.ShaderBuilderOption
	pool          worker.DynamicWorkerPool
}

var _ Loader = &loader{}

// NewLoader creates a Loader. The pool defaults to 4 workers.
//
// Parameters:
//   - options: functional options for loader configuration
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers: 4,
		logger:  log.WithField("component", "assets"),
	}

	for _, option := range options {
		option(l)
	}

	// Workers idle-exit after a second, so a loader used once at startup leaves nothing running.
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) LoadAll(requests []Request) ([]Asset, error) {
	assets := make([]Asset, len(requests))
	errs := make([]error, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		idx := i
		r := req
		l.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()

				start := time.Now()
				asset, err := l.load(r)
				if err != nil {
					errs[idx] = err
					return nil, err
				}
				assets[idx] = asset

				l.logger.WithFields(log.Fields{
					"kind":     r.Kind,
					"path":     r.Path,
					"duration": time.Since(start),
				}).Debug("Loaded asset")
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return assets, nil
}

func (l *loader) load(req Request) (Asset, error) {
	asset := Asset{Request: req}

	var err error
	switch req.Kind {
	case KindShader:
		asset.Shader, err = shader.Load(req.Path, l.shaderOptions...)
	case KindGeometry:
		asset.Geometry, err = geometry.Load(req.Path, req.Dimensions)
	case KindOBJ:
		asset.Mesh, err = geometry.LoadOBJ(req.Path)
	case KindGLTF:
		asset.Mesh, err = gltf.LoadGLTF(req.Path)
	default:
		err = fmt.Errorf("%w: unknown asset kind %s for %s", common.ErrResourceLoad, req.Kind, req.Path)
	}
	return asset, err
}
