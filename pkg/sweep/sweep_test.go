package sweep

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChain(t *testing.T) {
	t.Parallel()
	tcs := map[string]struct {
		workers int
	}{
		"sequential":    {workers: 1},
		"concurrent 2":  {workers: 2},
		"concurrent 16": {workers: 16},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s := New(ctx)
			source, err := AddSource(s, "numbers", func(ctx context.Context, out chan<- int) error {
				for i := 0; i < 50; i++ {
					select {
					case <-ctx.Done():
						return ctx.Err()
					case out <- i:
					}
				}
				return nil
			})
			require.NoError(t, err)

			squares, err := AddStage(s, "square", source, func(ctx context.Context, i int) (int, error) {
				return i * i, nil
			}, Concurrency[int](tc.workers))
			require.NoError(t, err)

			var got []int
			err = AddSink(s, "collect", squares, func(ctx context.Context, v int) error {
				got = append(got, v)
				return nil
			})
			require.NoError(t, err)

			require.NoError(t, s.Run())

			want := make([]int, 50)
			for i := range want {
				want[i] = i * i
			}
			assert.ElementsMatch(t, want, got)
		})
	}
}

func TestRunStageError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boom := errors.New("boom")

	s := New(ctx)
	source, err := AddSource(s, "numbers", func(ctx context.Context, out chan<- int) error {
		for i := 0; i < 10; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- i:
			}
		}
		return nil
	})
	require.NoError(t, err)

	stage, err := AddStage(s, "explode", source, func(ctx context.Context, i int) (int, error) {
		if i == 3 {
			return 0, boom
		}
		return i, nil
	})
	require.NoError(t, err)

	err = AddSink(s, "collect", stage, func(ctx context.Context, v int) error {
		return nil
	})
	require.NoError(t, err)

	err = s.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "explode")
}

func TestRunSinkError(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failed := errors.New("sink failed")

	s := New(ctx)
	source, err := AddSource(s, "numbers", func(ctx context.Context, out chan<- int) error {
		for i := 0; i < 20; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- i:
			}
		}
		return nil
	})
	require.NoError(t, err)

	err = AddSink(s, "collect", source, func(ctx context.Context, v int) error {
		if v == 5 {
			return failed
		}
		return nil
	})
	require.NoError(t, err)

	err = s.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, failed)
}

func TestRunCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	s := New(ctx)
	source, err := AddSource(s, "numbers", func(ctx context.Context, out chan<- int) error {
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- i:
			}
		}
	})
	require.NoError(t, err)

	var once sync.Once
	err = AddSink(s, "collect", source, func(ctx context.Context, v int) error {
		once.Do(cancel)
		return nil
	})
	require.NoError(t, err)

	err = s.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAddNilGuards(t *testing.T) {
	t.Parallel()
	_, err := AddSource[int](nil, "source", nil)
	assert.ErrorIs(t, err, ErrSweepMustBeSet)

	ctx := context.Background()
	s := New(ctx)
	_, err = AddStage(s, "stage", (*Stage[int])(nil), func(ctx context.Context, i int) (int, error) {
		return i, nil
	})
	assert.ErrorIs(t, err, ErrInputMustBeSet)

	err = AddSink(s, "sink", (*Stage[int])(nil), func(ctx context.Context, i int) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrInputMustBeSet)

	_, err = AddStage[int, int](nil, "stage", &Stage[int]{}, nil)
	assert.ErrorIs(t, err, ErrSweepMustBeSet)
}

func TestMeasure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := New(ctx, WithMeasure())
	source, err := AddSource(s, "numbers", func(ctx context.Context, out chan<- int) error {
		for i := 0; i < 5; i++ {
			out <- i
		}
		return nil
	})
	require.NoError(t, err)

	stage, err := AddStage(s, "double", source, func(ctx context.Context, i int) (int, error) {
		return 2 * i, nil
	}, Concurrency[int](3))
	require.NoError(t, err)

	err = AddSink(s, "collect", stage, func(ctx context.Context, v int) error {
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.Run())

	m := s.Metrics()
	require.NotNil(t, m)
	assert.Greater(t, m.Total(), time.Duration(0))

	stages := m.Stages()
	require.Contains(t, stages, "double")
	assert.EqualValues(t, 5, stages["double"].Count())
	assert.Equal(t, 3, stages["double"].Concurrent())
}

func TestMetricsOffByDefault(t *testing.T) {
	t.Parallel()
	s := New(context.Background())
	assert.Nil(t, s.Metrics())
	assert.Nil(t, s.Tune())
}
