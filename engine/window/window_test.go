package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineWindowDefaults(t *testing.T) {
	w, err := newEngineWindow()
	require.NoError(t, err)

	assert.Equal(t, "oxy-gpu", w.title)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
	assert.False(t, w.resizable)
}

func TestNewEngineWindowOptions(t *testing.T) {
	w, err := newEngineWindow(
		WithTitle("pyramid"),
		WithWidth(800),
		WithHeight(600),
		WithResizable(true),
		WithSizeLimits(320, 240, 1920, 0),
	)
	require.NoError(t, err)

	assert.Equal(t, "pyramid", w.title)
	assert.Equal(t, 800, w.width)
	assert.Equal(t, 600, w.height)
	assert.True(t, w.resizable)
	assert.Equal(t, []int{320, 240, 1920, 0}, []int{w.minWidth, w.minHeight, w.maxWidth, w.maxHeight})
}

func TestNewEngineWindowRejectsEmptySize(t *testing.T) {
	_, err := newEngineWindow(WithWidth(0))
	assert.ErrorIs(t, err, common.ErrInit)

	_, err = newEngineWindow(WithHeight(-10))
	assert.ErrorIs(t, err, common.ErrInit)
}

func TestHandleResize(t *testing.T) {
	w, err := newEngineWindow()
	require.NoError(t, err)

	var got [][2]int
	w.SetResizeCallback(func(width, height int) {
		got = append(got, [2]int{width, height})
	})

	w.handleResize(800, 600)
	w.handleResize(800, 600)
	w.handleResize(0, 0)
	w.handleResize(1024, 768)

	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, got)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestHandleKeyDown(t *testing.T) {
	w, err := newEngineWindow()
	require.NoError(t, err)

	w.handleKeyDown(65)

	var keys []uint32
	w.SetKeyDownCallback(func(code uint32) {
		keys = append(keys, code)
	})
	w.handleKeyDown(65)
	assert.Equal(t, []uint32{65}, keys)
}

func TestUnopenedWindow(t *testing.T) {
	w, err := newEngineWindow()
	require.NoError(t, err)

	assert.True(t, w.ShouldClose())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	w.PollEvents()
	w.RequestClose()
}
