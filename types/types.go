package types

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
)

// DataType enumerates primitive element types an array may carry.
type DataType uint8

// The order matches the host's numeric type enumeration.
const (
	// Int8 is the signed 8-bit integer type.
	Int8 DataType = iota

	// UInt8 is the unsigned 8-bit integer type.
	UInt8

	// Int16 is the signed 16-bit integer type.
	Int16

	// UInt16 is the unsigned 16-bit integer type.
	UInt16

	// Int32 is the signed 32-bit integer type.
	Int32

	// UInt32 is the unsigned 32-bit integer type.
	UInt32

	// Int64 is the signed 64-bit integer type.
	Int64

	// UInt64 is the unsigned 64-bit integer type.
	UInt64

	// Float32 is the 32-bit floating point type.
	Float32

	// Float64 is the 64-bit floating point type.
	Float64

	// Bool is the boolean type.
	Bool

	// NumOfDataTypes is the number of supported data types.
	NumOfDataTypes
)

var dataTypeNames = [NumOfDataTypes]string{
	Int8:    "int8",
	UInt8:   "uint8",
	Int16:   "int16",
	UInt16:  "uint16",
	Int32:   "int32",
	UInt32:  "uint32",
	Int64:   "int64",
	UInt64:  "uint64",
	Float32: "float32",
	Float64: "float64",
	Bool:    "bool",
}

var dataTypeSizes = [NumOfDataTypes]uint64{
	Int8:    1,
	UInt8:   1,
	Int16:   2,
	UInt16:  2,
	Int32:   4,
	UInt32:  4,
	Int64:   8,
	UInt64:  8,
	Float32: 4,
	Float64: 8,
	Bool:    1,
}

// Valid reports whether data type is one of the supported ones.
func (dt DataType) Valid() bool {
	return dt < NumOfDataTypes
}

// String returns the name of the data type.
func (dt DataType) String() string {
	if !dt.Valid() {
		return fmt.Sprintf("unknown(%d)", uint8(dt))
	}
	return dataTypeNames[dt]
}

// Size returns the number of bytes taken by one element of the type.
func (dt DataType) Size() uint64 {
	if !dt.Valid() {
		return 0
	}
	return dataTypeSizes[dt]
}

// IsInteger reports whether data type is an integer type.
func (dt DataType) IsInteger() bool {
	return dt <= UInt64
}

// IsUnsigned reports whether data type is an unsigned integer type.
func (dt DataType) IsUnsigned() bool {
	switch dt {
	case UInt8, UInt16, UInt32, UInt64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether data type is a floating point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// ParseDataType returns data type by its name.
func ParseDataType(name string) (DataType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for dt, n := range dataTypeNames {
		if n == name {
			return DataType(dt), nil
		}
	}
	if name == "boolean" {
		return Bool, nil
	}
	return 0, errors.Errorf("unknown data type %q", name)
}

// Numeric is the set of numeric element types.
type Numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Primitive is the set of all element types supported by data stores.
type Primitive interface {
	Numeric | ~bool
}

// Unsigned is the set of types used to store counters.
type Unsigned = constraints.Unsigned

// Integer is the set of integer element types.
type Integer = constraints.Integer

// Float is the set of floating point element types.
type Float = constraints.Float

// DataTypeOf returns data type corresponding to T.
func DataTypeOf[T Primitive]() DataType {
	var v T
	switch any(v).(type) {
	case int8:
		return Int8
	case uint8:
		return UInt8
	case int16:
		return Int16
	case uint16:
		return UInt16
	case int32:
		return Int32
	case uint32:
		return UInt32
	case int64:
		return Int64
	case uint64:
		return UInt64
	case float32:
		return Float32
	case float64:
		return Float64
	case bool:
		return Bool
	default:
		// Named types built on top of the primitives are not registered.
		return NumOfDataTypes
	}
}

// Shape is the ordered list of dimensions.
type Shape []int

// Product returns the number of elements described by the shape.
func (s Shape) Product() int {
	return lo.Reduce(s, func(acc, d, _ int) int {
		return acc * d
	}, 1)
}

// Equal reports whether both shapes are identical.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns the copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	return append(Shape{}, s...)
}

// String returns shape formatted as "a x b x c".
func (s Shape) String() string {
	return strings.Join(lo.Map(s, func(d, _ int) string {
		return fmt.Sprint(d)
	}), " x ")
}

// Mode defines the phase in which an operation runs.
type Mode uint8

const (
	// Preflight validates inputs and never allocates real storage.
	Preflight Mode = iota

	// Execute performs the actual allocation and computation.
	Execute
)

// String returns the name of the mode.
func (m Mode) String() string {
	if m == Execute {
		return "execute"
	}
	return "preflight"
}

// Direction is the cardinal axis along which grid data is appended or mirrored.
type Direction uint8

const (
	// X is the fastest varying axis.
	X Direction = iota

	// Y is the middle axis.
	Y

	// Z is the slowest varying axis.
	Z
)

// String returns the name of the axis.
func (d Direction) String() string {
	switch d {
	case X:
		return "X"
	case Y:
		return "Y"
	default:
		return "Z"
	}
}

// ArrayKind enumerates the kinds of arrays stored in a data structure.
type ArrayKind uint8

const (
	// KindDataArray is the fixed-width numeric or boolean array.
	KindDataArray ArrayKind = iota

	// KindNeighborList is the array storing variable-length list per tuple.
	KindNeighborList

	// KindStringArray is the array storing one string per tuple.
	KindStringArray
)

// String returns the name of the array kind.
func (k ArrayKind) String() string {
	switch k {
	case KindDataArray:
		return "DataArray"
	case KindNeighborList:
		return "NeighborList"
	default:
		return "StringArray"
	}
}
