package transfer

import (
	"context"

	"github.com/outofforest/nxcore/algorithm"
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/dispatch"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// AppendParams describes appending arrays to the array of the grid.
type AppendParams struct {
	// InputDims are the [Z, Y, X] dimensions of the appended arrays.
	InputDims []types.Shape

	// OriginalDims are the [Z, Y, X] dimensions of the destination before it was resized.
	OriginalDims types.Shape

	// NewDims are the [Z, Y, X] dimensions of the resized destination.
	NewDims types.Shape

	Direction types.Direction
	Mirror    bool
}

// CombineParams describes combining arrays into the array of the grid.
type CombineParams struct {
	// InputDims are the [Z, Y, X] dimensions of the combined arrays.
	InputDims []types.Shape

	// NewDims are the [Z, Y, X] dimensions of the destination.
	NewDims types.Shape

	Direction types.Direction
	Mirror    bool
}

var (
	appendInstances = dispatch.Numeric(
		appendTyped[int8], appendTyped[uint8], appendTyped[int16], appendTyped[uint16],
		appendTyped[int32], appendTyped[uint32], appendTyped[int64], appendTyped[uint64],
		appendTyped[float32], appendTyped[float64],
	)
	combineInstances = dispatch.Numeric(
		combineTyped[int8], combineTyped[uint8], combineTyped[int16], combineTyped[uint16],
		combineTyped[int32], combineTyped[uint32], combineTyped[int64], combineTyped[uint64],
		combineTyped[float32], combineTyped[float64],
	)
	indexInstances = dispatch.Numeric(
		indexTyped[int8], indexTyped[uint8], indexTyped[int16], indexTyped[uint16],
		indexTyped[int32], indexTyped[uint32], indexTyped[int64], indexTyped[uint64],
		indexTyped[float32], indexTyped[float64],
	)
	mapRectInstances = dispatch.Numeric(
		mapRectTyped[int8], mapRectTyped[uint8], mapRectTyped[int16], mapRectTyped[uint16],
		mapRectTyped[int32], mapRectTyped[uint32], mapRectTyped[int64], mapRectTyped[uint64],
		mapRectTyped[float32], mapRectTyped[float64],
	)
)

// RunParallelAppend schedules appending the inputs to dest. All the arrays must be of the same kind and type.
func RunParallelAppend(
	runner *algorithm.TaskAlgorithm,
	dest datastructure.IArray,
	inputs []datastructure.IArray,
	params AppendParams,
) error {
	fn, err := resolve(dest, appendInstances, appendTyped[bool], appendStrings)
	if err != nil {
		return err
	}
	runner.Execute("append-"+dest.Name(), func(ctx context.Context) error {
		return fn(ctx, dest, inputs, params)
	})
	return nil
}

// RunParallelCombine schedules combining the inputs into dest. All the arrays must be of the same kind and type.
func RunParallelCombine(
	runner *algorithm.TaskAlgorithm,
	dest datastructure.IArray,
	inputs []datastructure.IArray,
	params CombineParams,
) error {
	fn, err := resolve(dest, combineInstances, combineTyped[bool], combineStrings)
	if err != nil {
		return err
	}
	runner.Execute("combine-"+dest.Name(), func(ctx context.Context) error {
		return fn(ctx, dest, inputs, params)
	})
	return nil
}

// RunParallelCopyUsingIndexList schedules copying src into dest using the new-to-old index list.
func RunParallelCopyUsingIndexList(
	runner *algorithm.TaskAlgorithm,
	src, dest datastructure.IArray,
	newToOld []int64,
) error {
	fn, err := resolve(dest, indexInstances, indexTyped[bool], indexStrings)
	if err != nil {
		return err
	}
	runner.Execute("copy-"+dest.Name(), func(ctx context.Context) error {
		return fn(ctx, src, dest, newToOld)
	})
	return nil
}

// RunParallelMapRectToImage schedules mapping grid array src into image array dest.
func RunParallelMapRectToImage(
	runner *algorithm.TaskAlgorithm,
	src, dest datastructure.IArray,
	params MapRectParams,
) error {
	fn, err := resolve(dest, mapRectInstances, mapRectTyped[bool], mapRectStrings)
	if err != nil {
		return err
	}
	runner.Execute("map-"+dest.Name(), func(ctx context.Context) error {
		return fn(ctx, src, dest, params)
	})
	return nil
}

// resolve picks the implementation for the destination array. Booleans are handled outside the numeric table.
func resolve[F any](
	dest datastructure.IArray,
	numeric dispatch.Instances[F],
	boolFn, stringFn F,
) (F, error) {
	switch arr := dest.(type) {
	case *datastructure.StringArray:
		return stringFn, nil
	case datastructure.ITypedArray:
		if arr.DataType() == types.Bool {
			return boolFn, nil
		}
		return numeric.For(arr.DataType())
	default:
		var zero F
		return zero, result.Errorf(result.ErrType, CodeArrayType, "array %s of type %T can't be transferred",
			dest.Name(), dest)
	}
}

func appendTyped[T types.Primitive](
	ctx context.Context,
	dest datastructure.IArray,
	inputs []datastructure.IArray,
	p AppendParams,
) error {
	switch d := dest.(type) {
	case *datastructure.DataArray[T]:
		in, err := castArrays(inputs, DataElements[T])
		if err != nil {
			return err
		}
		return AppendData(ctx, in, p.InputDims, DataElements(d), p.OriginalDims, p.NewDims, p.Direction, p.Mirror)
	case *datastructure.NeighborList[T]:
		d.InitializeLists()
		in, err := castArrays(inputs, ListElements[T])
		if err != nil {
			return err
		}
		return AppendData(ctx, in, p.InputDims, ListElements(d), p.OriginalDims, p.NewDims, p.Direction, p.Mirror)
	default:
		return kindError(dest)
	}
}

func appendStrings(
	ctx context.Context,
	dest datastructure.IArray,
	inputs []datastructure.IArray,
	p AppendParams,
) error {
	in, err := castArrays(inputs, StringElements)
	if err != nil {
		return err
	}
	return AppendData(ctx, in, p.InputDims, StringElements(dest.(*datastructure.StringArray)), p.OriginalDims,
		p.NewDims, p.Direction, p.Mirror)
}

func combineTyped[T types.Primitive](
	ctx context.Context,
	dest datastructure.IArray,
	inputs []datastructure.IArray,
	p CombineParams,
) error {
	switch d := dest.(type) {
	case *datastructure.DataArray[T]:
		in, err := castArrays(inputs, DataElements[T])
		if err != nil {
			return err
		}
		return CombineData(ctx, in, p.InputDims, DataElements(d), p.NewDims, p.Direction, p.Mirror)
	case *datastructure.NeighborList[T]:
		d.InitializeLists()
		in, err := castArrays(inputs, ListElements[T])
		if err != nil {
			return err
		}
		return CombineData(ctx, in, p.InputDims, ListElements(d), p.NewDims, p.Direction, p.Mirror)
	default:
		return kindError(dest)
	}
}

func combineStrings(
	ctx context.Context,
	dest datastructure.IArray,
	inputs []datastructure.IArray,
	p CombineParams,
) error {
	in, err := castArrays(inputs, StringElements)
	if err != nil {
		return err
	}
	return CombineData(ctx, in, p.InputDims, StringElements(dest.(*datastructure.StringArray)), p.NewDims,
		p.Direction, p.Mirror)
}

func indexTyped[T types.Primitive](ctx context.Context, src, dest datastructure.IArray, newToOld []int64) error {
	switch d := dest.(type) {
	case *datastructure.DataArray[T]:
		s, ok := src.(*datastructure.DataArray[T])
		if !ok {
			return sourceError(src, dest)
		}
		return CopyUsingIndexList(ctx, DataElements(s), DataElements(d), newToOld)
	case *datastructure.NeighborList[T]:
		s, ok := src.(*datastructure.NeighborList[T])
		if !ok {
			return sourceError(src, dest)
		}
		return CopyUsingIndexList(ctx, ListElements(s), ListElements(d), newToOld)
	default:
		return kindError(dest)
	}
}

func indexStrings(ctx context.Context, src, dest datastructure.IArray, newToOld []int64) error {
	s, ok := src.(*datastructure.StringArray)
	if !ok {
		return sourceError(src, dest)
	}
	return CopyUsingIndexList(ctx, StringElements(s), StringElements(dest.(*datastructure.StringArray)), newToOld)
}

func mapRectTyped[T types.Primitive](ctx context.Context, src, dest datastructure.IArray, p MapRectParams) error {
	switch d := dest.(type) {
	case *datastructure.DataArray[T]:
		s, ok := src.(*datastructure.DataArray[T])
		if !ok {
			return sourceError(src, dest)
		}
		return MapRectGridDataToImageData(ctx, DataElements(s), DataElements(d), p)
	case *datastructure.NeighborList[T]:
		s, ok := src.(*datastructure.NeighborList[T])
		if !ok {
			return sourceError(src, dest)
		}
		return MapRectGridDataToImageData(ctx, ListElements(s), ListElements(d), p)
	default:
		return kindError(dest)
	}
}

func mapRectStrings(ctx context.Context, src, dest datastructure.IArray, p MapRectParams) error {
	s, ok := src.(*datastructure.StringArray)
	if !ok {
		return sourceError(src, dest)
	}
	return MapRectGridDataToImageData(ctx, StringElements(s), StringElements(dest.(*datastructure.StringArray)), p)
}

func kindError(arr datastructure.IArray) error {
	return result.Errorf(result.ErrType, CodeArrayType, "array %s of type %T can't be transferred", arr.Name(), arr)
}

func sourceError(src, dest datastructure.IArray) error {
	return result.Errorf(result.ErrType, CodeArrayType, "source array %s of type %T doesn't match destination %s of type %T",
		src.Name(), src, dest.Name(), dest)
}
