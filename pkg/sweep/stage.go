package sweep

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// AddSource adds the stage that feeds the chain. fn must push items to
// out and return when done; the channel is closed afterwards.
func AddSource[O any](s *Sweep, name string, fn func(ctx context.Context, out chan<- O) error) (*Stage[O], error) {
	if s == nil {
		return nil, ErrSweepMustBeSet
	}

	stage := &Stage[O]{
		Name:   name,
		Output: make(chan O),
	}
	if s.measure != nil {
		stage.metric = s.measure.addStage(name, 1)
	}

	errC := make(chan error, 1)
	go func() {
		defer func() {
			close(stage.Output)
			close(errC)
		}()
		if err := fn(s.ctx, stage.Output); err != nil {
			errC <- err
		}
	}()
	s.errcList.add(newErrorChan(name, errC))

	return stage, nil
}

func workerLoop[I, O any](ctx context.Context, worker int, input *Stage[I], output *Stage[O], fn func(context.Context, I) (O, error)) error {
outer:
	for {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "worker %d:", worker)
		case in, ok := <-input.Output:
			if !ok {
				break outer
			}
			startFn := time.Now()
			out, err := fn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "worker %d:", worker)
			}
			elapsed := time.Since(startFn)

			// check the context again so running workers stop pushing
			// once the sweep is cancelled
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "worker %d:", worker)
			case output.Output <- out:
				if output.metric != nil {
					output.metric.addDuration(elapsed)
				}
			}
		}
	}

	return nil
}

// AddStage adds a transforming stage fed by input. With Concurrency above
// one the stage runs several workers off a shared input channel.
func AddStage[I, O any](s *Sweep, name string, input *Stage[I], fn func(context.Context, I) (O, error), opts ...StageOption[O]) (*Stage[O], error) {
	if s == nil {
		return nil, ErrSweepMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}

	stage := &Stage[O]{
		Name:   name,
		Output: make(chan O),
	}
	for _, opt := range opts {
		opt(stage)
	}
	if stage.concurrent < 1 {
		stage.concurrent = 1
	}
	if s.measure != nil {
		stage.metric = s.measure.addStage(name, stage.concurrent)
	}

	errC := make(chan error, 1)
	go func() {
		defer func() {
			close(stage.Output)
			close(errC)
		}()

		var err error
		if stage.concurrent == 1 {
			err = workerLoop(s.ctx, 0, input, stage, fn)
		} else {
			errGrp, gCtx := errgroup.WithContext(s.ctx)
			errGrp.SetLimit(stage.concurrent)
			for worker := 0; worker < stage.concurrent; worker++ {
				worker := worker
				errGrp.Go(func() error {
					return workerLoop(gCtx, worker, input, stage, fn)
				})
			}
			err = errGrp.Wait()
		}
		if err != nil {
			errC <- err
		}
	}()
	s.errcList.add(newErrorChan(name, errC))

	return stage, nil
}
