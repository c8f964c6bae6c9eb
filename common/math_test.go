package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignUp(t *testing.T) {
	cases := []struct {
		size, align, want uint64
	}{
		{0, 256, 0},
		{1, 256, 256},
		{224, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{224, 16, 224},
		{100, 0, 100},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AlignUp(c.size, c.align), "size=%d align=%d", c.size, c.align)
	}
}

func TestAlignUpProperty(t *testing.T) {
	for _, align := range []uint64{4, 16, 64, 256} {
		for size := uint64(1); size < 1024; size += 7 {
			got := AlignUp(size, align)
			assert.Zero(t, got%align)
			assert.GreaterOrEqual(t, got, size)
			assert.Less(t, got-size, align)
		}
	}
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))
	assert.Len(t, SliceToBytes([]float32{1, 2, 3}), 12)
	assert.Len(t, SliceToBytes([]uint32{1, 2}), 8)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 640, Coalesce(0, 640, 800))
	assert.Equal(t, "", Coalesce("", ""))
}
