package profiler

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// Profiler tracks frame rate, GPU submissions and memory statistics.
// Outputs stats to its logger at a configurable interval.
type Profiler struct {
	logger         *log.Entry
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastSubmitted  uint64
	now            func() time.Time
}

// NewProfiler creates a new Profiler reporting on logger once per interval.
// A non-positive interval defaults to 1 second.
//
// Parameters:
//   - logger: the entry stats are written to
//   - interval: time between reports
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *log.Entry, interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		logger:         logger,
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per frame with the running count of queue submissions.
// Logs FPS, submission rate, heap usage, allocation rate and GC pauses when the update interval
// has elapsed.
//
// Parameters:
//   - submissions: total command buffer submissions so far
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(submissions uint64) bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc is live heap; TotalAlloc only grows, so its delta is the churn since the last report.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.WithFields(log.Fields{
		"fps":        float64(p.frameCount) / elapsed.Seconds(),
		"submits_s":  float64(submissions-p.lastSubmitted) / elapsed.Seconds(),
		"heap_mb":    allocMB,
		"alloc_mb_s": allocRateMB,
		"gc":         gcCount,
		"gc_last_us": lastPauseUs,
		"gc_max_us":  maxPauseUs,
		"sys_mb":     sysMB,
	}).Info("Frame stats")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastSubmitted = submissions
	return true
}
