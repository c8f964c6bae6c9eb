package gpu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-gpu/common"
)

func TestAwaitResolvedSynchronously(t *testing.T) {
	fut := NewFuture[int]()
	fut.Resolve(42)
	fut.Reject("ignored")

	v, err := Await(context.Background(), fut, nil)

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestAwaitRejected(t *testing.T) {
	fut := NewFuture[string]()
	fut.Reject("adapter lost")
	fut.Resolve("ignored")

	_, err := Await(context.Background(), fut, nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "adapter lost", reqErr.Message)
}

func TestAwaitPendingWithoutPoll(t *testing.T) {
	_, err := Await(context.Background(), NewFuture[int](), nil)

	assert.ErrorIs(t, err, common.ErrRequestPending)
}

func TestAwaitPolls(t *testing.T) {
	fut := NewFuture[int]()
	polls := 0

	v, err := Await(context.Background(), fut, func() {
		polls++
		if polls == 3 {
			fut.Resolve(7)
		}
	})

	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 3, polls)
}

func TestAwaitContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	polls := 0

	_, err := Await(ctx, NewFuture[int](), func() {
		polls++
		cancel()
	})

	assert.ErrorIs(t, err, common.ErrRequestPending)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, polls)
}

func TestAwaitPausesBetweenPolls(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	polls := 0

	_, err := Await(ctx, NewFuture[int](), func() { polls++ })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, polls)
	assert.Less(t, polls, 100)
}

type lateResource struct {
	released int
}

func (r *lateResource) Release() { r.released++ }

func TestAbandonReleasesLateValue(t *testing.T) {
	fut := NewFuture[*lateResource]()
	_, err := Await(context.Background(), fut, nil)
	require.ErrorIs(t, err, common.ErrRequestPending)

	fut.Abandon((*lateResource).Release)
	r := &lateResource{}
	fut.Resolve(r)

	assert.Equal(t, 1, r.released)
	assert.True(t, fut.Done())
}

func TestAbandonReleasesUnclaimedValue(t *testing.T) {
	fut := NewFuture[*lateResource]()
	r := &lateResource{}
	fut.Resolve(r)

	fut.Abandon((*lateResource).Release)
	fut.Abandon((*lateResource).Release)

	assert.Equal(t, 1, r.released)
}

func TestAbandonIgnoresRejection(t *testing.T) {
	fut := NewFuture[*lateResource]()
	fut.Reject("lost")

	fut.Abandon(func(*lateResource) { t.Fatal("nothing to discard") })
}

func TestParsePresentMode(t *testing.T) {
	m, ok := ParsePresentMode("immediate")
	assert.True(t, ok)
	assert.Equal(t, PresentModeImmediate, m)

	m, ok = ParsePresentMode("bogus")
	assert.False(t, ok)
	assert.Equal(t, PresentModeFifo, m)
}

func TestVertexFormatSize(t *testing.T) {
	assert.Equal(t, uint64(12), VertexFormatFloat32x3.Size())
	assert.Equal(t, uint64(8), VertexFormatFloat32x2.Size())
	assert.Equal(t, uint64(16), VertexFormatFloat32x4.Size())
}
