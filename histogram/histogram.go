package histogram

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"github.com/outofforest/nxcore/algorithm"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Error and warning codes reported by histograms.
const (
	CodeRangeOrder      = -23760
	CodeRangesCapacity  = -23761
	CodeCountsCapacity  = -23762
	CodeCancelled       = -23763
	CodeOverflow        = -23764
	CodeComponentIndex  = -23765
	CodeNumBins         = -23766
	CodeInputType       = -23767
	CodeUnsupportedType = -23768
)

// Bounds is the range [Min, Max) covered by the bins.
type Bounds[T types.Numeric] struct {
	Min T
	Max T
}

// CalculateIncrement returns the width of each of numBins uniform bins covering [minV, maxV).
func CalculateIncrement[T types.Numeric](minV, maxV T, numBins int) float32 {
	return float32(float64(maxV)-float64(minV)) / float32(numBins)
}

// FillBinRanges stores lower and upper bound of each bin into ranges, two values per bin.
// Single bin covers exactly [Min, Max].
func FillBinRanges[T types.Numeric](ranges []T, bounds Bounds[T], numBins int, increment float32) {
	if numBins == 1 {
		ranges[0] = bounds.Min
		ranges[1] = bounds.Max
		return
	}

	for i := range numBins {
		ranges[2*i] = bounds.Min + T(increment*float32(i))
		ranges[2*i+1] = bounds.Min + T(increment*float32(i+1))
	}
}

// CalculateBin returns the index of the bin the value falls into. Values outside the bins give index
// smaller than 0 or not smaller than the number of bins.
func CalculateBin[T types.Numeric](value, minV T, increment float32) int64 {
	bin := math.Floor(float64(float32(float64(value)-float64(minV)) / increment))
	switch {
	case math.IsNaN(bin):
		return -1
	case bin >= math.MaxInt64:
		return math.MaxInt64
	case bin <= math.MinInt64:
		return math.MinInt64
	}
	return int64(bin)
}

// GenerateHistogram fills ranges with the bin bounds and adds the number of input values falling into each bin
// to counts. Values outside the bins are added to overflow, in which case a warning is returned.
func GenerateHistogram[T types.Numeric, C types.Unsigned](
	ctx context.Context,
	input []T,
	ranges []T,
	bounds Bounds[T],
	numBins int,
	counts []C,
	overflow *atomic.Uint64,
) (result.Warnings, error) {
	increment, err := prepare(ranges, bounds, numBins, len(counts))
	if err != nil {
		return nil, err
	}
	if err := accumulate(ctx, input, 1, 0, bounds.Min, increment, counts[:numBins], overflow); err != nil {
		return nil, err
	}
	return overflowWarnings(overflow), nil
}

// GenerateHistogramAtComponent is GenerateHistogram reading only the component of each tuple of the input.
func GenerateHistogramAtComponent[T types.Numeric, C types.Unsigned](
	ctx context.Context,
	input []T,
	numComponents, component int,
	ranges []T,
	bounds Bounds[T],
	numBins int,
	counts []C,
	overflow *atomic.Uint64,
) (result.Warnings, error) {
	if component < 0 || component >= numComponents {
		return nil, result.Errorf(result.ErrRange, CodeComponentIndex,
			"supplied component index is larger than component size of input array. Needed: x < %d | Currently: %d",
			numComponents, component)
	}
	increment, err := prepare(ranges, bounds, numBins, len(counts))
	if err != nil {
		return nil, err
	}
	if err := accumulate(ctx, input, numComponents, component, bounds.Min, increment, counts[:numBins],
		overflow); err != nil {
		return nil, err
	}
	return overflowWarnings(overflow), nil
}

// GenerateHistogramParallel is GenerateHistogram splitting the input into ranges counted concurrently.
// Each range is counted separately and then added to counts.
func GenerateHistogramParallel[T types.Numeric, C types.Unsigned](
	ctx context.Context,
	alg *algorithm.DataAlgorithm,
	input []T,
	ranges []T,
	bounds Bounds[T],
	numBins int,
	counts []C,
	overflow *atomic.Uint64,
) (result.Warnings, error) {
	increment, err := prepare(ranges, bounds, numBins, len(counts))
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	err = alg.Execute(ctx, len(input), func(ctx context.Context, r algorithm.Range) error {
		partial := make([]C, numBins)
		if err := accumulate(ctx, input[r.Start:r.End], 1, 0, bounds.Min, increment, partial, overflow); err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()

		for i, c := range partial {
			counts[i] += c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return overflowWarnings(overflow), nil
}

func prepare[T types.Numeric](ranges []T, bounds Bounds[T], numBins, numCounts int) (float32, error) {
	if numBins < 1 {
		return 0, result.Errorf(result.ErrRange, CodeNumBins, "number of bins must be positive, got %d", numBins)
	}
	if len(ranges) < 2*numBins {
		return 0, result.Errorf(result.ErrCapacity, CodeRangesCapacity,
			"bin ranges are too small to hold ranges. Needed: %d | Current Size: %d", 2*numBins, len(ranges))
	}
	if numCounts < numBins {
		return 0, result.Errorf(result.ErrCapacity, CodeCountsCapacity,
			"histogram counts are too small to hold counts. Needed: %d | Current Size: %d", numBins, numCounts)
	}

	increment := CalculateIncrement(bounds.Min, bounds.Max, numBins)
	FillBinRanges(ranges, bounds, numBins, increment)
	return increment, nil
}

func accumulate[T types.Numeric, C types.Unsigned](
	ctx context.Context,
	input []T,
	numComponents, component int,
	minV T,
	increment float32,
	counts []C,
	overflow *atomic.Uint64,
) error {
	numBins := int64(len(counts))
	for i := component; i < len(input); i += numComponents {
		if algorithm.Cancelled(ctx) {
			return result.Errorf(result.ErrCancelled, CodeCancelled, "histogram generation has been cancelled")
		}
		bin := CalculateBin(input[i], minV, increment)
		if bin >= 0 && bin < numBins {
			counts[bin]++
		} else {
			overflow.Add(1)
		}
	}
	return nil
}

func overflowWarnings(overflow *atomic.Uint64) result.Warnings {
	n := overflow.Load()
	if n == 0 {
		return nil
	}
	return result.Warnings{
		result.Warningf(result.WarnOverflow, CodeOverflow, "Overflow detected: overflow count %d", n),
	}
}
