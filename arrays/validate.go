package arrays

import (
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/result"
)

// Error codes reported by validations.
const (
	CodeFeatureMismatch  = -5555
	CodeTypeMismatch     = -5556
	CodeTupleCountDiffer = -5557
)

// CheckArraysAreSameType reports whether all the arrays exist and carry elements of the same type.
func CheckArraysAreSameType(ds *datastructure.DataStructure, paths []datastructure.DataPath) bool {
	arrs, ok := typedArrays(ds, paths)
	if !ok {
		return false
	}
	for _, arr := range arrs[min(1, len(arrs)):] {
		if arr.DataType() != arrs[0].DataType() {
			return false
		}
	}
	return true
}

// CheckArraysHaveSameTupleCount reports whether all the arrays exist and have the same number of tuples.
func CheckArraysHaveSameTupleCount(ds *datastructure.DataStructure, paths []datastructure.DataPath) bool {
	numTuples := -1
	for _, path := range paths {
		arr, err := datastructure.GetDataAs[datastructure.IArray](ds, path)
		if err != nil {
			return false
		}
		if numTuples >= 0 && arr.NumTuples() != numTuples {
			return false
		}
		numTuples = arr.NumTuples()
	}
	return true
}

func typedArrays(ds *datastructure.DataStructure, paths []datastructure.DataPath) ([]datastructure.ITypedArray, bool) {
	arrs := make([]datastructure.ITypedArray, 0, len(paths))
	for _, path := range paths {
		arr, err := datastructure.GetDataAs[datastructure.ITypedArray](ds, path)
		if err != nil {
			return nil, false
		}
		arrs = append(arrs, arr)
	}
	return arrs, true
}

// ValidateNumFeaturesInArray verifies that every feature id points to a tuple of the feature array.
func ValidateNumFeaturesInArray(
	ds *datastructure.DataStructure,
	path datastructure.DataPath,
	featureIDs *datastructure.DataArray[int32],
) error {
	arr, err := datastructure.GetDataAs[datastructure.IArray](ds, path)
	if err != nil {
		return err
	}
	totalFeatures := arr.NumTuples()
	var largest int32
	for _, id := range featureIDs.Values() {
		if id > largest {
			largest = id
			if int(largest) >= totalFeatures {
				return result.Errorf(result.ErrShapeMismatch, CodeFeatureMismatch,
					"The largest Feature Id %d in the FeatureIds array is larger than the number of Features (%d) in the Feature Data array '%s'",
					largest, totalFeatures, path)
			}
		}
	}
	return nil
}

// ValidateArrays checks that all the arrays exist, have the same type and the same number of tuples. All the
// problems found are reported together.
func ValidateArrays(ds *datastructure.DataStructure, paths []datastructure.DataPath) error {
	var c result.Collector
	var first datastructure.ITypedArray
	for _, path := range paths {
		arr, err := datastructure.GetDataAs[datastructure.ITypedArray](ds, path)
		if err != nil {
			c.Add(err)
			continue
		}
		if first == nil {
			first = arr
			continue
		}
		if arr.DataType() != first.DataType() {
			c.Add(result.Errorf(result.ErrType, CodeTypeMismatch, "array '%s' is of type %s, expected %s", path,
				arr.DataType(), first.DataType()))
		}
		if arr.NumTuples() != first.NumTuples() {
			c.Add(result.Errorf(result.ErrShapeMismatch, CodeTupleCountDiffer,
				"array '%s' has %d tuples, expected %d", path, arr.NumTuples(), first.NumTuples()))
		}
	}
	return c.Err()
}
