package profiler

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	logger, hook := test.NewNullLogger()
	p := NewProfiler(log.NewEntry(logger), time.Second)

	clock := p.lastTime
	p.now = func() time.Time { return clock }

	for i := 0; i < 9; i++ {
		clock = clock.Add(100 * time.Millisecond)
		assert.False(t, p.Tick(uint64(i+1)))
	}
	clock = clock.Add(100 * time.Millisecond)
	require.True(t, p.Tick(10))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Frame stats", entry.Message)
	assert.InDelta(t, 10.0, entry.Data["fps"], 0.001)
	assert.InDelta(t, 10.0, entry.Data["submits_s"], 0.001)

	// The next window starts from zero.
	clock = clock.Add(2 * time.Second)
	require.True(t, p.Tick(14))
	assert.InDelta(t, 0.5, hook.LastEntry().Data["fps"], 0.001)
	assert.InDelta(t, 2.0, hook.LastEntry().Data["submits_s"], 0.001)
	assert.Len(t, hook.AllEntries(), 2)
}

func TestDefaultInterval(t *testing.T) {
	p := NewProfiler(log.NewEntry(log.New()), 0)
	assert.Equal(t, time.Second, p.updateInterval)
}
