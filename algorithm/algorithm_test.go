package algorithm

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/nxcore/test"
)

func TestPartition(t *testing.T) {
	requireT := require.New(t)

	requireT.Nil(Partition(0, 4))
	requireT.Equal([]Range{{0, 3}}, Partition(3, 1))
	requireT.Equal([]Range{{0, 1}, {1, 2}}, Partition(2, 8))
	requireT.Equal([]Range{{0, 4}, {4, 7}, {7, 10}}, Partition(10, 3))

	var total int
	for _, r := range Partition(1001, 7) {
		total += r.Size()
	}
	requireT.Equal(1001, total)
}

func TestTaskAlgorithm(t *testing.T) {
	for _, serial := range []bool{false, true} {
		requireT := require.New(t)

		a := NewTaskAlgorithm(Config{NumWorkers: 3, Serial: serial})
		var sum atomic.Int64
		for i := range 20 {
			a.Execute("task", func(ctx context.Context) error {
				sum.Add(int64(i))
				return nil
			})
		}
		requireT.NoError(a.Wait(test.NewContext(t)))
		requireT.Equal(int64(190), sum.Load())

		// Tasks are consumed by Wait.
		requireT.NoError(a.Wait(test.NewContext(t)))
		requireT.Equal(int64(190), sum.Load())
	}
}

func TestTaskAlgorithmError(t *testing.T) {
	requireT := require.New(t)

	errTest := errors.New("test")
	a := NewTaskAlgorithm(Config{NumWorkers: 2})
	a.Execute("ok", func(ctx context.Context) error { return nil })
	a.Execute("fail", func(ctx context.Context) error { return errTest })
	requireT.ErrorIs(a.Wait(test.NewContext(t)), errTest)
}

func TestTaskAlgorithmCancelled(t *testing.T) {
	requireT := require.New(t)

	ctx, cancel := context.WithCancel(test.NewContext(t))
	cancel()

	a := NewTaskAlgorithm(Config{Serial: true})
	a.Execute("task", func(ctx context.Context) error { return nil })
	requireT.ErrorIs(a.Wait(ctx), context.Canceled)
}

func TestDataAlgorithm(t *testing.T) {
	requireT := require.New(t)

	values := make([]int, 1000)
	a := NewDataAlgorithm(Config{NumWorkers: 4})
	requireT.Equal(4, a.NumWorkers())

	var mu sync.Mutex
	var ranges []Range
	requireT.NoError(a.Execute(test.NewContext(t), len(values), func(ctx context.Context, r Range) error {
		for i := r.Start; i < r.End; i++ {
			values[i] = i * 2
		}
		mu.Lock()
		ranges = append(ranges, r)
		mu.Unlock()
		return nil
	}))
	requireT.Len(ranges, 4)
	for i, v := range values {
		requireT.Equal(i*2, v)
	}

	serial := NewDataAlgorithm(Config{Serial: true})
	requireT.Equal(1, serial.NumWorkers())
	var calls int
	requireT.NoError(serial.Execute(test.NewContext(t), 10, func(ctx context.Context, r Range) error {
		calls++
		requireT.Equal(Range{Start: 0, End: 10}, r)
		return nil
	}))
	requireT.Equal(1, calls)
}
