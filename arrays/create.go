package arrays

import (
	"github.com/pkg/errors"

	"github.com/outofforest/nxcore/datastore"
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Error codes reported while creating arrays.
const (
	CodeParentMissing        = -260
	CodeEmptyTupleShape      = -261
	CodeEmptyComponentShape  = -262
	CodeZeroComponents       = -263
	CodeArrayExists          = -264
	CodeTupleShapeMismatch   = -265
	CodeCreateFailed         = -266
	CodeInsufficientMemory   = -267
	CodeNeighborParent       = -5801
	CodeNeighborCreateFailed = -5802
)

// CreateArray creates data array at the path. In preflight mode the array is backed by a placeholder store.
func CreateArray[T types.Primitive](
	ds *datastructure.DataStructure,
	tupleShape, componentShape types.Shape,
	path datastructure.DataPath,
	mode types.Mode,
	format string,
) error {
	parentPath := path.Parent()
	parent, err := ds.GetContainer(parentPath)
	if err != nil {
		return result.Errorf(result.ErrPath, CodeParentMissing, "CreateArray: Parent object '%s' does not exist",
			parentPath)
	}

	if len(tupleShape) == 0 {
		return result.Errorf(result.ErrShape, CodeEmptyTupleShape,
			"CreateArray: Tuple Shape was empty. Please set the number of tuples.")
	}
	if len(componentShape) == 0 {
		return result.Errorf(result.ErrShape, CodeEmptyComponentShape,
			"CreateArray: Component Shape was empty. Please set the number of components.")
	}
	if componentShape.Product() == 0 && mode == types.Execute {
		return result.Errorf(result.ErrShape, CodeZeroComponents,
			"CreateArray: Number of components is ZERO. Please set the number of components.")
	}

	name := path.Name()
	probe := datastructure.NewDataArray[T](name, datastore.NewEmptyDataStore[T](tupleShape, componentShape, format))
	if err := parent.CanInsert(probe); err != nil {
		return insertError(path, parent, tupleShape, err)
	}

	f := ds.Factory()
	required := datastore.CalculateDataSize[T](tupleShape, componentShape)
	if !f.CheckMemoryRequirement(required, &format) {
		return result.Errorf(result.ErrMemory, CodeInsufficientMemory,
			"CreateArray: Cannot create DataArray '%s'.\n\tTotal memory required for DataStructure: '%d' Bytes.\n\tTotal reported memory: '%d' Bytes",
			name, required+ds.MemoryUsage(), f.Budget().Total())
	}

	store, err := datastore.CreateDataStore[T](f, tupleShape, componentShape, mode, format)
	if err != nil {
		return err
	}
	if err := ds.Insert(datastructure.NewDataArray[T](name, store), parentPath); err != nil {
		_ = store.Close()
		return insertError(path, parent, tupleShape, err)
	}
	return nil
}

func insertError(
	path datastructure.DataPath,
	parent datastructure.Container,
	tupleShape types.Shape,
	err error,
) error {
	switch {
	case errors.Is(err, result.ErrDuplicate):
		return result.Errorf(result.ErrDuplicate, CodeArrayExists,
			"CreateArray: Cannot create Data Array at path '%s' because it already exists. Choose a different name.",
			path)
	case errors.Is(err, result.ErrShapeMismatch):
		am := parent.(*datastructure.AttributeMatrix)
		return result.Errorf(result.ErrShapeMismatch, CodeTupleShapeMismatch,
			"CreateArray: Unable to create Data Array '%s' inside Attribute matrix '%s'. Mismatch of tuple dimensions. "+
				"The created Data Array must have the same tuple dimensions or the same total number of tuples.\n"+
				"Attribute Matrix Tuple Dims: %s\nData Array Tuple Shape: %s",
			path.Name(), path.Parent(), am.TupleShape(), tupleShape)
	default:
		return result.Errorf(result.ErrPath, CodeCreateFailed, "CreateArray: Unable to create DataArray at '%s': %s",
			path, err)
	}
}

// CreateNeighbors creates neighbor list at the path.
func CreateNeighbors[T types.Primitive](
	ds *datastructure.DataStructure,
	numTuples int,
	path datastructure.DataPath,
	mode types.Mode,
) error {
	if _, err := ds.GetContainer(path.Parent()); err != nil {
		return result.Errorf(result.ErrPath, CodeNeighborParent,
			"CreateNeighborListAction: Parent object \"%s\" does not exist", path.Parent())
	}

	list := datastructure.NewNeighborList[T](path.Name(), numTuples)
	if mode == types.Execute {
		list.InitializeLists()
	}
	if err := ds.Insert(list, path.Parent()); err != nil {
		kind := result.ErrPath
		if errors.Is(err, result.ErrDuplicate) {
			kind = result.ErrDuplicate
		}
		return result.Errorf(kind, CodeNeighborCreateFailed,
			"CreateNeighborListAction: Unable to create NeighborList at \"%s\": %s", path, err)
	}
	return nil
}

// ArrayFromPath returns data array of type T stored at the path.
func ArrayFromPath[T types.Primitive](
	ds *datastructure.DataStructure,
	path datastructure.DataPath,
) (*datastructure.DataArray[T], error) {
	return datastructure.GetDataAs[*datastructure.DataArray[T]](ds, path)
}
