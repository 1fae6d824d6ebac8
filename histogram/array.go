package histogram

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/nxcore/algorithm"
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/dispatch"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Range is the explicit range [Min, Max) of the histogram given independently of the array type.
type Range struct {
	Min float64
	Max float64
}

// Config describes the histogram generated for an array.
type Config struct {
	// NumBins is the number of bins.
	NumBins int

	// Range is the range covered by the bins. If nil, [min, max+1) of the input values is used.
	Range *Range
}

type forArrayFunc func(ctx context.Context, input, ranges datastructure.IDataArray, config Config, counts []uint64,
	overflow *atomic.Uint64) (result.Warnings, error)

var forArrayInstances = dispatch.Numeric[forArrayFunc](
	forArray[int8], forArray[uint8], forArray[int16], forArray[uint16],
	forArray[int32], forArray[uint32], forArray[int64], forArray[uint64],
	forArray[float32], forArray[float64],
)

// ForArray generates histogram of all the values of the input array. Ranges must be an array of the same type
// holding at least two values per bin.
func ForArray(
	ctx context.Context,
	input, ranges datastructure.IDataArray,
	config Config,
	counts []uint64,
	overflow *atomic.Uint64,
) (result.Warnings, error) {
	fn, err := resolve(input, ranges)
	if err != nil {
		return nil, err
	}
	return fn(ctx, input, ranges, config, counts, overflow)
}

// NewTask returns the task generating histogram of the array, to be executed by task algorithm.
// Warnings are logged.
func NewTask(
	input, ranges datastructure.IDataArray,
	config Config,
	counts []uint64,
	overflow *atomic.Uint64,
) (algorithm.Task, error) {
	fn, err := resolve(input, ranges)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		warnings, err := fn(ctx, input, ranges, config, counts, overflow)
		if err != nil {
			return err
		}
		log := logger.Get(ctx)
		for _, w := range warnings {
			log.Warn("Histogram generated with warning", zap.String("array", input.Name()),
				zap.Int("code", w.Code), zap.String("message", w.Message))
		}
		return nil
	}, nil
}

func resolve(input, ranges datastructure.IDataArray) (forArrayFunc, error) {
	if input.DataType() != ranges.DataType() {
		return nil, result.Errorf(result.ErrType, CodeInputType,
			"input array %s of type %s and bin ranges array %s of type %s must be of the same type", input.Name(),
			input.DataType(), ranges.Name(), ranges.DataType())
	}
	fn, err := forArrayInstances.For(input.DataType())
	if err != nil {
		return nil, result.Errorf(result.ErrUnsupportedType, CodeUnsupportedType,
			"histogram of array %s of type %s can't be generated", input.Name(), input.DataType())
	}
	return fn, nil
}

func forArray[T types.Numeric](
	ctx context.Context,
	input, ranges datastructure.IDataArray,
	config Config,
	counts []uint64,
	overflow *atomic.Uint64,
) (result.Warnings, error) {
	values := input.(*datastructure.DataArray[T]).Values()

	var bounds Bounds[T]
	if config.Range == nil {
		bounds = Bounds[T]{Min: lo.Min(values), Max: lo.Max(values) + 1}
	} else {
		if config.Range.Min > config.Range.Max {
			return nil, result.Errorf(result.ErrRange, CodeRangeOrder,
				"The range min value is larger than the max value. Min value: %g | Max Value: %g", config.Range.Min,
				config.Range.Max)
		}
		bounds = Bounds[T]{Min: T(config.Range.Min), Max: T(config.Range.Max)}
	}

	return GenerateHistogram(ctx, values, ranges.(*datastructure.DataArray[T]).Values(), bounds, config.NumBins,
		counts, overflow)
}
