package shader

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/gogpu/naga"
)

// Entry points every built-in shader exposes.
const (
	DefaultVertexEntryPoint   = "vs_main"
	DefaultFragmentEntryPoint = "fs_main"
)

//go:embed wgsl/*.wgsl
var builtins embed.FS

// shader is the implementation of the Shader interface.
type shader struct {
	key            string
	source         string
	vertexEntry    string
	fragmentEntry  string
	skipValidation bool
}

// Shader is a WGSL program holding one vertex and one fragment entry point.
// It carries only CPU-side data; the renderer turns it into a GPU shader module.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// VertexEntryPoint retrieves the name of the vertex stage function.
	VertexEntryPoint() string

	// FragmentEntryPoint retrieves the name of the fragment stage function.
	FragmentEntryPoint() string

	// Validate compiles the source offline and reports the first compile error.
	// Shaders built with WithoutValidation always return nil.
	//
	// Returns:
	//   - error: an error wrapping common.ErrResourceLoad if the source does not compile
	Validate() error
}

var _ Shader = &shader{}

// NewShader creates a shader from WGSL source.
//
// Parameters:
//   - key: unique identifier used for labels
//   - source: the WGSL source code
//   - options: optional builder options
//
// Returns:
//   - Shader: the created shader
func NewShader(key, source string, options ...ShaderBuilderOption) Shader {
	s := &shader{
		key:           key,
		source:        source,
		vertexEntry:   DefaultVertexEntryPoint,
		fragmentEntry: DefaultFragmentEntryPoint,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Builtin returns one of the shaders embedded in the binary.
//
// Parameters:
//   - name: the shader name without extension, e.g. "triangle"
//   - options: optional builder options
//
// Returns:
//   - Shader: the built-in shader
//   - error: an error wrapping common.ErrResourceLoad if no shader has that name
func Builtin(name string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := builtins.ReadFile("wgsl/" + name + ".wgsl")
	if err != nil {
		return nil, fmt.Errorf("%w: unknown built-in shader %q", common.ErrResourceLoad, name)
	}
	return NewShader(name, string(data), options...), nil
}

// Builtins lists the names of every embedded shader in sorted order.
func Builtins() []string {
	entries, err := builtins.ReadDir("wgsl")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".wgsl"))
	}
	sort.Strings(names)
	return names
}

// Load reads a WGSL file from disk. The key is the file name without extension.
//
// Parameters:
//   - path: path of the .wgsl file
//   - options: optional builder options
//
// Returns:
//   - Shader: the loaded shader
//   - error: an error wrapping common.ErrResourceLoad if the file cannot be read or is empty
func Load(path string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read shader file %s: %w", common.ErrResourceLoad, path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("%w: shader file %s is empty", common.ErrResourceLoad, path)
	}

	key := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewShader(key, string(data), options...), nil
}

// Validate compiles WGSL source with naga and reports whether it is well formed.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - error: an error wrapping common.ErrResourceLoad on compile failure
func Validate(source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("%w: empty shader source", common.ErrResourceLoad)
	}
	if _, err := naga.Compile(source); err != nil {
		return fmt.Errorf("%w: shader does not compile: %w", common.ErrResourceLoad, err)
	}
	return nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) Validate() error {
	if s.skipValidation {
		return nil
	}
	if err := Validate(s.source); err != nil {
		return fmt.Errorf("shader %q: %w", s.key, err)
	}
	for _, entry := range []string{s.vertexEntry, s.fragmentEntry} {
		if !strings.Contains(s.source, "fn "+entry) {
			return fmt.Errorf("%w: shader %q has no entry point %s", common.ErrResourceLoad, s.key, entry)
		}
	}
	return nil
}
