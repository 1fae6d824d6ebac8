package transfer

import (
	"context"

	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/nxcore/algorithm"
	"github.com/outofforest/nxcore/arrays"
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/dispatch"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

type (
	copyTuplesFunc func(ctx context.Context, alg *algorithm.DataAlgorithm, src, dest datastructure.IDataArray,
		newToOld []int64) error
	copyCellFunc    func(ctx context.Context, src, dest datastructure.IDataArray, newIndex []int) error
	createArrayFunc func(ds *datastructure.DataStructure, tupleShape, componentShape types.Shape,
		path datastructure.DataPath, mode types.Mode, format string) error
)

var (
	copyTuplesInstances = dispatch.All[copyTuplesFunc](
		copyTuples[int8], copyTuples[uint8], copyTuples[int16], copyTuples[uint16],
		copyTuples[int32], copyTuples[uint32], copyTuples[int64], copyTuples[uint64],
		copyTuples[float32], copyTuples[float64], copyTuples[bool],
	)
	copyCellInstances = dispatch.All[copyCellFunc](
		copyCell[int8], copyCell[uint8], copyCell[int16], copyCell[uint16],
		copyCell[int32], copyCell[uint32], copyCell[int64], copyCell[uint64],
		copyCell[float32], copyCell[float64], copyCellBool,
	)
	createArrayInstances = dispatch.All[createArrayFunc](
		arrays.CreateArray[int8], arrays.CreateArray[uint8], arrays.CreateArray[int16], arrays.CreateArray[uint16],
		arrays.CreateArray[int32], arrays.CreateArray[uint32], arrays.CreateArray[int64], arrays.CreateArray[uint64],
		arrays.CreateArray[float32], arrays.CreateArray[float64], arrays.CreateArray[bool],
	)
)

// CopyTuplesInParallel copies src into dest using the new-to-old index list, destination tuples are split into
// ranges processed concurrently.
func CopyTuplesInParallel(
	ctx context.Context,
	alg *algorithm.DataAlgorithm,
	src, dest datastructure.IDataArray,
	newToOld []int64,
) error {
	if src.DataType() != dest.DataType() {
		return result.Errorf(result.ErrType, CodeArrayType, "arrays %s and %s are of different types", src.Name(),
			dest.Name())
	}
	fn, err := copyTuplesInstances.For(dest.DataType())
	if err != nil {
		return err
	}
	return fn(ctx, alg, src, dest, newToOld)
}

func copyTuples[T types.Primitive](
	ctx context.Context,
	alg *algorithm.DataAlgorithm,
	src, dest datastructure.IDataArray,
	newToOld []int64,
) error {
	s := DataElements(src.(*datastructure.DataArray[T]))
	d := DataElements(dest.(*datastructure.DataArray[T]))
	return alg.Execute(ctx, len(newToOld), func(ctx context.Context, r algorithm.Range) error {
		return CopyTuplesUsingIndexList(ctx, s, d, newToOld, r)
	})
}

// CopyCellDataArray fills dest with the value representing missing data and then copies tuples of src listed
// in newIndex into consecutive tuples of dest.
func CopyCellDataArray[T types.Primitive](
	ctx context.Context,
	src, dest *datastructure.DataArray[T],
	newIndex []int,
	missing T,
) error {
	dest.Fill(missing)
	s := DataElements(src)
	d := DataElements(dest)
	for destTuple, srcTuple := range newIndex {
		if algorithm.Cancelled(ctx) {
			return cancelledError()
		}
		if err := CopyData(s, d, destTuple, srcTuple, 1); err != nil {
			return err
		}
	}
	return nil
}

func copyCell[T types.Numeric](ctx context.Context, src, dest datastructure.IDataArray, newIndex []int) error {
	minusOne := int64(-1)
	return CopyCellDataArray(ctx, src.(*datastructure.DataArray[T]), dest.(*datastructure.DataArray[T]), newIndex,
		T(minusOne))
}

func copyCellBool(ctx context.Context, src, dest datastructure.IDataArray, newIndex []int) error {
	return CopyCellDataArray(ctx, src.(*datastructure.DataArray[bool]), dest.(*datastructure.DataArray[bool]),
		newIndex, true)
}

// TransferElementData copies the selected element arrays into the arrays of the same names stored in destination
// attribute matrix. Tuple i of each destination array receives tuple newIndex[i] of the source one.
func TransferElementData(
	ctx context.Context,
	ds *datastructure.DataStructure,
	destPath datastructure.DataPath,
	sourcePaths []datastructure.DataPath,
	newIndex []int,
	config algorithm.Config,
) error {
	destAM, err := datastructure.GetDataAs[*datastructure.AttributeMatrix](ds, destPath)
	if err != nil {
		return err
	}

	log := logger.Get(ctx)
	runner := algorithm.NewTaskAlgorithm(config)
	for _, srcPath := range sourcePaths {
		src, err := datastructure.GetDataAs[datastructure.IDataArray](ds, srcPath)
		if err != nil {
			return err
		}
		dest, err := datastructure.GetDataAs[datastructure.IDataArray](ds, destPath.Child(src.Name()))
		if err != nil {
			return err
		}
		if src.DataType() != dest.DataType() {
			return result.Errorf(result.ErrType, CodeArrayType, "arrays %s and %s are of different types", srcPath,
				destPath.Child(dest.Name()))
		}
		fn, err := copyCellInstances.For(src.DataType())
		if err != nil {
			return err
		}

		log.Info("Copying data array", zap.Stringer("source", srcPath), zap.Stringer("destination", destPath))
		runner.Execute("transfer-"+src.Name(), func(ctx context.Context) error {
			return fn(ctx, src, dest, newIndex)
		})
	}
	if err := runner.Wait(ctx); err != nil {
		return err
	}
	log.Debug("Element data transferred", zap.Int("arrays", len(sourcePaths)),
		zap.Int("tuples", destAM.NumTuples()))
	return nil
}

// CreateElementArrays creates in the destination attribute matrix an array of the same name, type and component
// shape for each of the source arrays. New arrays take the tuple shape of the attribute matrix.
func CreateElementArrays(
	ds *datastructure.DataStructure,
	destPath datastructure.DataPath,
	sourcePaths []datastructure.DataPath,
	mode types.Mode,
) error {
	destAM, err := datastructure.GetDataAs[*datastructure.AttributeMatrix](ds, destPath)
	if err != nil {
		return err
	}
	for _, srcPath := range sourcePaths {
		src, err := datastructure.GetDataAs[datastructure.IDataArray](ds, srcPath)
		if err != nil {
			return err
		}
		fn, err := createArrayInstances.For(src.DataType())
		if err != nil {
			return err
		}
		if err := fn(ds, destAM.TupleShape(), src.ComponentShape(), destPath.Child(src.Name()), mode,
			src.DataFormat()); err != nil {
			return err
		}
	}
	return nil
}
