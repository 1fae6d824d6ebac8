package arrays

import (
	"github.com/outofforest/nxcore/convert"
	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/dispatch"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Error codes reported by conditional replacement.
const (
	CodeReplaceConversion = -4000
	CodeReplaceMaskType   = -4001
	CodeReplaceMaskSize   = -4002
)

// MaskElement is the type of elements of arrays usable as replacement masks.
type MaskElement interface {
	~bool | ~uint8 | ~int8
}

// ReplaceValue sets every component of every tuple selected by the mask to the value. Tuple is selected when its
// mask element is nonzero, or zero if mask is inverted. Mask must hold one element per tuple of the array.
func ReplaceValue[T types.Primitive, C MaskElement](
	arr *datastructure.DataArray[T],
	mask *datastructure.DataArray[C],
	value T,
	invert bool,
) error {
	if arr.Store().IsPlaceholder() || mask.Store().IsPlaceholder() {
		return result.Errorf(result.ErrShape, CodeReplaceMaskSize,
			"Array '%s' or mask '%s' holds no data.", arr.Name(), mask.Name())
	}
	store := arr.DataStore()
	maskValues := mask.Values()
	if len(maskValues) != store.NumTuples() {
		return result.Errorf(result.ErrShapeMismatch, CodeReplaceMaskSize,
			"Mask '%s' has %d elements but array '%s' has %d tuples.", mask.Name(), len(maskValues), arr.Name(),
			store.NumTuples())
	}

	var zero C
	for tuple := range store.NumTuples() {
		if (maskValues[tuple] != zero) != invert {
			store.FillTuple(tuple, value)
		}
	}
	return nil
}

type replaceFunc func(value string, arr datastructure.IDataArray, mask datastructure.IDataArray, invert bool) error

var replaceInstances = dispatch.All[replaceFunc](
	conditionalReplace[int8], conditionalReplace[uint8],
	conditionalReplace[int16], conditionalReplace[uint16],
	conditionalReplace[int32], conditionalReplace[uint32],
	conditionalReplace[int64], conditionalReplace[uint64],
	conditionalReplace[float32], conditionalReplace[float64],
	conditionalReplace[bool],
)

func conditionalReplace[T types.Primitive](
	value string,
	arr datastructure.IDataArray,
	mask datastructure.IDataArray,
	invert bool,
) error {
	v, err := convert.ConvertTo[T](value)
	if err != nil {
		return result.Errorf(result.ErrConversion, CodeReplaceConversion,
			"Input String Value could not be converted to the appropriate numeric type.")
	}

	a := arr.(*datastructure.DataArray[T])
	switch m := mask.(type) {
	case *datastructure.DataArray[uint8]:
		return ReplaceValue(a, m, v, invert)
	case *datastructure.DataArray[int8]:
		return ReplaceValue(a, m, v, invert)
	case *datastructure.DataArray[bool]:
		return ReplaceValue(a, m, v, invert)
	default:
		return result.Errorf(result.ErrType, CodeReplaceMaskType, "Mask array was not of type [BOOL | UINT8 | INT8].")
	}
}

// ConditionalReplaceValueInArray parses the value as the element type of the array and stores it in every tuple
// selected by the mask.
func ConditionalReplaceValueInArray(
	value string,
	arr datastructure.IDataArray,
	mask datastructure.IDataArray,
	invert bool,
) error {
	fn, err := replaceInstances.For(arr.DataType())
	if err != nil {
		return err
	}
	return fn(value, arr, mask, invert)
}

// CheckValueConvertsToArrayType verifies that the value might be stored in the array.
func CheckValueConvertsToArrayType(value string, obj datastructure.Object) error {
	arr, ok := obj.(datastructure.ITypedArray)
	if !ok {
		return result.Errorf(result.ErrType, convert.CodeConversion, "object '%s' is not an array of primitive type",
			obj.Name())
	}
	return convert.CheckValueConverts(value, arr.DataType())
}
