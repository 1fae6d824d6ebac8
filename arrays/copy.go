package arrays

import (
	"os"

	"github.com/outofforest/nxcore/datastore"
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/dispatch"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Error codes reported while copying and importing arrays.
const (
	CodeDeepCopyRemoval = -34600
	CodeDeepCopyFailed  = -34601
	CodeImportOpen      = datastore.CodeFileOpen
	CodeImportSize      = -1002
)

type deepCopyFunc func(f *datastore.Factory, arr datastructure.IDataArray, name string) (datastructure.IArray, error)

var deepCopyInstances = dispatch.All[deepCopyFunc](
	deepCopyDataArray[int8], deepCopyDataArray[uint8],
	deepCopyDataArray[int16], deepCopyDataArray[uint16],
	deepCopyDataArray[int32], deepCopyDataArray[uint32],
	deepCopyDataArray[int64], deepCopyDataArray[uint64],
	deepCopyDataArray[float32], deepCopyDataArray[float64],
	deepCopyDataArray[bool],
)

func deepCopyDataArray[T types.Primitive](
	f *datastore.Factory,
	arr datastructure.IDataArray,
	name string,
) (datastructure.IArray, error) {
	src := arr.(*datastructure.DataArray[T]).DataStore()
	mode := types.Execute
	if src.IsPlaceholder() {
		mode = types.Preflight
	}
	store, err := datastore.CreateDataStore[T](f, src.TupleShape(), src.ComponentShape(), mode, src.Format())
	if err != nil {
		return nil, err
	}
	if mode == types.Execute {
		if err := store.CopyFrom(0, src, 0, src.NumTuples()); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return datastructure.NewDataArray[T](name, store), nil
}

type deepCopier interface {
	DeepCopy(name string) datastructure.IArray
}

// DeepCopy stores independent copy of the source array at the destination path. Object existing at the
// destination is removed first. Copying array onto itself leaves it untouched.
func DeepCopy(ds *datastructure.DataStructure, src, dest datastructure.DataPath) error {
	arr, err := datastructure.GetDataAs[datastructure.IArray](ds, src)
	if err != nil {
		return err
	}
	if src.Equal(dest) {
		return nil
	}
	if ds.Exists(dest) {
		if err := ds.RemoveData(dest); err != nil {
			return result.Errorf(result.ErrRemoval, CodeDeepCopyRemoval,
				"Could not remove data array at path '%s' which would be replaced through a deep copy.", dest)
		}
	}

	var copied datastructure.IArray
	switch a := arr.(type) {
	case datastructure.IDataArray:
		fn, err := deepCopyInstances.For(a.DataType())
		if err != nil {
			return err
		}
		copied, err = fn(ds.Factory(), a, dest.Name())
		if err != nil {
			return err
		}
	case deepCopier:
		copied = a.DeepCopy(dest.Name())
	default:
		return result.Errorf(result.ErrType, CodeDeepCopyFailed, "array '%s' of kind %s can't be copied", src,
			arr.Kind())
	}

	if err := ds.Insert(copied, dest.Parent()); err != nil {
		_ = copied.Close()
		return result.Errorf(result.ErrPath, CodeDeepCopyFailed, "Could not insert copy of '%s' at '%s': %s", src,
			dest, err)
	}
	return nil
}

var convertInstances = dispatch.All(
	convertDataArrayStore[int8], convertDataArrayStore[uint8],
	convertDataArrayStore[int16], convertDataArrayStore[uint16],
	convertDataArrayStore[int32], convertDataArrayStore[uint32],
	convertDataArrayStore[int64], convertDataArrayStore[uint64],
	convertDataArrayStore[float32], convertDataArrayStore[float64],
	convertDataArrayStore[bool],
)

func convertDataArrayStore[T types.Primitive](
	f *datastore.Factory,
	arr datastructure.IDataArray,
	format string,
) (bool, error) {
	a := arr.(*datastructure.DataArray[T])
	store, err := datastore.ConvertDataStore(f, a.DataStore(), format)
	if err != nil || store == nil {
		return false, err
	}
	return true, a.SetDataStore(store)
}

// ConvertArrayDataStore moves elements of the array into store of the format. It returns false if array already
// uses the format.
func ConvertArrayDataStore(f *datastore.Factory, arr datastructure.IDataArray, format string) (bool, error) {
	fn, err := convertInstances.For(arr.DataType())
	if err != nil {
		return false, err
	}
	return fn(f, arr, format)
}

var equalInstances = dispatch.All(
	equalStores[int8], equalStores[uint8],
	equalStores[int16], equalStores[uint16],
	equalStores[int32], equalStores[uint32],
	equalStores[int64], equalStores[uint64],
	equalStores[float32], equalStores[float64],
	equalStores[bool],
)

func equalStores[T types.Primitive](a, b datastructure.IDataArray) (bool, error) {
	return datastore.Equal(a.(*datastructure.DataArray[T]).DataStore(), b.(*datastructure.DataArray[T]).DataStore())
}

// SameContents reports whether arrays are of the same type and shape and contain equal elements.
func SameContents(a, b datastructure.IDataArray) (bool, error) {
	if a.DataType() != b.DataType() || !a.TupleShape().Equal(b.TupleShape()) ||
		!a.ComponentShape().Equal(b.ComponentShape()) {
		return false, nil
	}
	fn, err := equalInstances.For(a.DataType())
	if err != nil {
		return false, err
	}
	return fn(a, b)
}

// ImportArrayFromBinaryFile creates data array at the path and fills it with elements read from the file. Size of
// the file must match the size of the array exactly.
func ImportArrayFromBinaryFile[T types.Primitive](
	ds *datastructure.DataStructure,
	file string,
	path datastructure.DataPath,
	tupleShape, componentShape types.Shape,
) (*datastructure.DataArray[T], error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, result.Errorf(result.ErrIO, CodeImportOpen, "File '%s' does not exist: %s", file, err)
	}
	required := datastore.CalculateDataSize[T](tupleShape, componentShape)
	if uint64(info.Size()) != required {
		return nil, result.Errorf(result.ErrIO, CodeImportSize,
			"FileSize '%d' and Allocated Size '%d' do not match", info.Size(), required)
	}

	if err := CreateArray[T](ds, tupleShape, componentShape, path, types.Execute, datastore.FormatMemory); err != nil {
		return nil, err
	}
	arr, err := ArrayFromPath[T](ds, path)
	if err != nil {
		return nil, err
	}
	if err := datastore.ImportFromBinaryFile(file, arr.DataStore(), 0, datastore.DefaultChunkSize); err != nil {
		_ = ds.RemoveData(path)
		return nil, err
	}
	return arr, nil
}
