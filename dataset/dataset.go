package dataset

import (
	"sort"
	"sync"

	"github.com/chromaworks/aircanvas/model"
)

// Dataset is an in-memory, thread-safe, time-ordered store of observations.
// It is append-only: sources iterate it by index while a loader may still be
// filling it.
type Dataset struct {
	mu sync.RWMutex

	observations []model.Observation
	stations     map[string]struct{}
}

// New constructs an empty dataset.
func New() *Dataset {
	return &Dataset{
		stations: make(map[string]struct{}),
	}
}

// Add appends an observation. Callers must append in time order; the dataset
// does not re-sort.
func (d *Dataset) Add(obs model.Observation) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observations = append(d.observations, obs)
	if obs.Station != "" {
		d.stations[obs.Station] = struct{}{}
	}
}

// Len returns the number of stored observations.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observations)
}

// At returns the observation at index i. The second return is false when the
// index is out of range.
func (d *Dataset) At(i int) (model.Observation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i < 0 || i >= len(d.observations) {
		return model.Observation{}, false
	}
	return d.observations[i], true
}

// Stations returns the sorted set of station labels seen so far.
func (d *Dataset) Stations() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.stations))
	for s := range d.stations {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
