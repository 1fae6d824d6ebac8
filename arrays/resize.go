package arrays

import (
	"github.com/outofforest/nxcore/datastore"
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/dispatch"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Error codes reported while resizing arrays.
const (
	CodeResizeNotFound      = -4830
	CodeResizeShapeMismatch = -4831
	CodeReplaceNotFound     = -4832
)

// ResizeDataArray resizes data array in place. Values at retained indices are preserved.
func ResizeDataArray[T types.Primitive](
	ds *datastructure.DataStructure,
	path datastructure.DataPath,
	newShape types.Shape,
) error {
	arr, err := ArrayFromPath[T](ds, path)
	if err != nil {
		return result.Errorf(result.ErrPath, CodeResizeNotFound,
			"Could not find array path '%s' in the given data structure", path)
	}
	if arr.TupleShape().Equal(newShape) {
		return nil
	}
	if am, err := datastructure.GetDataAs[*datastructure.AttributeMatrix](ds, path.Parent()); err == nil {
		if err := am.ValidateTupleShape(newShape); err != nil {
			return result.Errorf(result.ErrShapeMismatch, CodeResizeShapeMismatch,
				"Cannot resize array at path '%s' to tuple shape %s because the parent is an Attribute Matrix with a tuple shape of %s which does not match.",
				path, newShape, am.TupleShape())
		}
	}
	return arr.ResizeTuples(newShape)
}

var placeholderInstances = dispatch.All(
	replaceWithPlaceholder[int8], replaceWithPlaceholder[uint8],
	replaceWithPlaceholder[int16], replaceWithPlaceholder[uint16],
	replaceWithPlaceholder[int32], replaceWithPlaceholder[uint32],
	replaceWithPlaceholder[int64], replaceWithPlaceholder[uint64],
	replaceWithPlaceholder[float32], replaceWithPlaceholder[float64],
	replaceWithPlaceholder[bool],
)

func replaceWithPlaceholder[T types.Primitive](arr datastructure.IDataArray, tupleShape types.Shape) error {
	a := arr.(*datastructure.DataArray[T])
	return a.SetDataStore(datastore.NewEmptyDataStore[T](tupleShape, a.ComponentShape(), a.DataFormat()))
}

// ResizeAndReplaceDataArray changes tuple shape of an array of any kind. In preflight mode data array gets
// placeholder store of the new shape instead of being resized.
func ResizeAndReplaceDataArray(
	ds *datastructure.DataStructure,
	path datastructure.DataPath,
	tupleShape types.Shape,
	mode types.Mode,
) error {
	arr, err := datastructure.GetDataAs[datastructure.IArray](ds, path)
	if err != nil {
		return result.Errorf(result.ErrPath, CodeReplaceNotFound, "Could not find array at path '%s'", path)
	}

	if da, ok := arr.(datastructure.IDataArray); ok && mode == types.Preflight {
		fn, err := placeholderInstances.For(da.DataType())
		if err != nil {
			return err
		}
		return fn(da, tupleShape)
	}
	return arr.ResizeTuples(tupleShape)
}

// InitializeNeighborList makes every missing list of the neighbor list empty but non-nil.
func InitializeNeighborList(ds *datastructure.DataStructure, path datastructure.DataPath) error {
	obj, err := ds.GetData(path)
	if err != nil {
		return err
	}
	initializer, ok := obj.(listInitializer)
	if !ok {
		return result.Errorf(result.ErrType, datastructure.CodeType, "object '%s' is not a neighbor list", path)
	}
	initializer.InitializeLists()
	return nil
}

type listInitializer interface {
	InitializeLists()
}
