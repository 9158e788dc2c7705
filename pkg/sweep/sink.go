package sweep

import (
	"context"
	"time"
)

// AddSink terminates the chain: fn is called once per item, sequentially,
// so collectors need no locking.
func AddSink[I any](s *Sweep, name string, input *Stage[I], fn func(ctx context.Context, in I) error) error {
	if s == nil {
		return ErrSweepMustBeSet
	}
	if input == nil {
		return ErrInputMustBeSet
	}

	var metric *Metric
	if s.measure != nil {
		metric = s.measure.addStage(name, 1)
	}

	errC := make(chan error, 1)
	go func() {
		defer close(errC)

		// after a failure keep draining the input so upstream stages can
		// finish instead of blocking on their output channel
		failed := false
	outer:
		for {
			select {
			case <-s.ctx.Done():
				errC <- s.ctx.Err()

				break outer
			case in, ok := <-input.Output:
				if !ok {
					break outer
				}
				if failed {
					continue
				}
				startFn := time.Now()
				if err := fn(s.ctx, in); err != nil {
					errC <- err
					failed = true

					continue
				}
				if metric != nil {
					metric.addDuration(time.Since(startFn))
				}
			}
		}
	}()
	s.errcList.add(newErrorChan(name, errC))

	return nil
}
