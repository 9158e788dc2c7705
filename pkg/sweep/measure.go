package sweep

import (
	"sync"
	"time"
)

// Metric accumulates the per-item computation time of one stage.
type Metric struct {
	mu         sync.Mutex
	concurrent int
	elapsed    time.Duration
	total      int64
}

func (mt *Metric) addDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.elapsed += elapsed
}

// Count returns the number of items the stage processed.
func (mt *Metric) Count() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

// Concurrent returns the worker count of the stage.
func (mt *Metric) Concurrent() int {
	return mt.concurrent
}

// AvgDuration returns the average per-item computation time.
func (mt *Metric) AvgDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.elapsed) / float64(mt.total)))
}

// Measure collects the metrics of every stage of a sweep.
type Measure struct {
	mu     sync.Mutex
	stages map[string]*Metric
	total  time.Duration
}

func newMeasure() *Measure {
	return &Measure{
		stages: make(map[string]*Metric),
	}
}

func (m *Measure) addStage(name string, concurrent int) *Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	mt := &Metric{concurrent: concurrent}
	m.stages[name] = mt

	return mt
}

func (m *Measure) setTotal(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = d
}

// Total returns the wall-clock duration of the whole sweep.
func (m *Measure) Total() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.total
}

// Stages returns the metric of every stage by name.
func (m *Measure) Stages() map[string]*Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]*Metric, len(m.stages))
	for name, mt := range m.stages {
		out[name] = mt
	}

	return out
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
