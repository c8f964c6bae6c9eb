package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	names := Builtins()
	assert.Equal(t, []string{"basic", "basic_color", "mesh", "pyramid", "triangle", "uniform_color"}, names)

	for _, name := range names {
		s, err := Builtin(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Key())
		assert.Equal(t, DefaultVertexEntryPoint, s.VertexEntryPoint())
		assert.Equal(t, DefaultFragmentEntryPoint, s.FragmentEntryPoint())
		assert.Contains(t, s.Source(), "fn vs_main")
		assert.Contains(t, s.Source(), "fn fs_main")
	}
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("missing")
	assert.ErrorIs(t, err, common.ErrResourceLoad)
}

func TestBuiltinsCompile(t *testing.T) {
	for _, name := range Builtins() {
		t.Run(name, func(t *testing.T) {
			s, err := Builtin(name)
			require.NoError(t, err)

			if err := s.Validate(); err != nil {
				msg := err.Error()
				if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
					t.Skipf("naga feature not yet implemented: %v", err)
				}
				t.Fatalf("built-in shader %s failed to compile: %v", name, err)
			}
		})
	}
}

func TestValidateRejectsBadSource(t *testing.T) {
	assert.ErrorIs(t, Validate(""), common.ErrResourceLoad)
	assert.ErrorIs(t, Validate("   \n"), common.ErrResourceLoad)
	assert.ErrorIs(t, Validate("fn vs_main( {"), common.ErrResourceLoad)
}

func TestWithoutValidation(t *testing.T) {
	s := NewShader("broken", "not wgsl", WithoutValidation())
	assert.NoError(t, s.Validate())
}

func TestEntryPointOptions(t *testing.T) {
	s := NewShader("custom", "", WithVertexEntryPoint("vert"), WithFragmentEntryPoint("frag"))
	assert.Equal(t, "vert", s.VertexEntryPoint())
	assert.Equal(t, "frag", s.FragmentEntryPoint())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flat.wgsl")
	src, err := Builtin("basic")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(src.Source()), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "flat", s.Key())
	assert.Equal(t, src.Source(), s.Source())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.wgsl"))
	assert.ErrorIs(t, err, common.ErrResourceLoad)

	empty := filepath.Join(dir, "empty.wgsl")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, common.ErrResourceLoad)
}
