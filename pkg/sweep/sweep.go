package sweep

import (
	"context"
	"time"
)

// Sweep is a linear chain of staged computations.
type Sweep struct {
	ctx       context.Context
	errcList  *errorChans
	measure   *Measure
	startTime time.Time
}

// Option customises a Sweep under construction.
type Option func(*Sweep)

// WithMeasure enables per-stage timing.
func WithMeasure() Option {
	return func(s *Sweep) {
		s.measure = newMeasure()
	}
}

// New creates a sweep bound to the given context.
func New(ctx context.Context, opts ...Option) *Sweep {
	s := &Sweep{
		ctx:       ctx,
		errcList:  &errorChans{},
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run waits for every stage to finish and returns the first error.
func (s *Sweep) Run() error {
	errc := mergeErrors(s.errcList.list...)
	for err := range errc {
		if err != nil {
			return err
		}
	}

	if s.measure != nil {
		s.measure.setTotal(time.Since(s.startTime))
	}

	return nil
}

// Metrics returns the per-stage timing, or nil when measuring is off.
func (s *Sweep) Metrics() *Measure {
	return s.measure
}

// Stage is a named link of the chain with an output channel.
type Stage[O any] struct {
	Name       string
	Output     chan O
	concurrent int
	metric     *Metric
}

// StageOption customises a stage.
type StageOption[O any] func(s *Stage[O])

// Concurrency sets the number of workers a stage runs.
func Concurrency[O any](workers int) StageOption[O] {
	return func(s *Stage[O]) {
		s.concurrent = workers
	}
}
