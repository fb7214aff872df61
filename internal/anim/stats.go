package anim

import (
	"sync"
	"time"

	"github.com/chromaworks/aircanvas/core"
)

// Stats accumulates per-run frame counters for end-of-run summaries and
// tests. All methods are safe for concurrent use; Snapshot returns a copy.
type Stats struct {
	mu sync.Mutex

	framesComposed  int
	framesPresented int
	overruns        int
	missingTotal    int
	clampedTotal    int

	lastTick        int
	lastIndex       float64
	lastLevel       core.AQILevel
	lastComposeTime time.Duration
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	FramesComposed  int
	FramesPresented int
	Overruns        int
	MissingTotal    int
	ClampedTotal    int

	LastTick        int
	LastIndex       float64
	LastLevel       core.AQILevel
	LastComposeTime time.Duration
}

// NewStats returns zeroed counters.
func NewStats() *Stats {
	return &Stats{lastTick: -1}
}

// RecordFrame notes a composed frame and its compose outcome.
func (s *Stats) RecordFrame(tick int, cs core.ComposeStats, composeTime time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.framesComposed++
	s.missingTotal += len(cs.Missing)
	s.clampedTotal += len(cs.Clamped)
	s.lastTick = tick
	s.lastIndex = cs.PollutionIndex
	s.lastLevel = cs.Level
	s.lastComposeTime = composeTime
}

// RecordPresented notes a frame successfully handed to the renderer.
func (s *Stats) RecordPresented() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.framesPresented++
}

// RecordOverrun notes a tick that exceeded the configured period.
func (s *Stats) RecordOverrun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overruns++
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StatsSnapshot{
		FramesComposed:  s.framesComposed,
		FramesPresented: s.framesPresented,
		Overruns:        s.overruns,
		MissingTotal:    s.missingTotal,
		ClampedTotal:    s.clampedTotal,
		LastTick:        s.lastTick,
		LastIndex:       s.lastIndex,
		LastLevel:       s.lastLevel,
		LastComposeTime: s.lastComposeTime,
	}
}
