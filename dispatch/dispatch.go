package dispatch

import (
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// CodeUnsupportedType is reported when no instantiation exists for the requested type.
const CodeUnsupportedType = -259

// Instances stores one instantiation of a generic function for each supported data type.
// All the instantiations share signature F, element type is recovered inside them
// by asserting on the erased arguments.
type Instances[F any] struct {
	fns        [types.NumOfDataTypes]F
	registered [types.NumOfDataTypes]bool
}

// Numeric creates instances for all the numeric types, booleans are not registered.
func Numeric[F any](i8, u8, i16, u16, i32, u32, i64, u64, f32, f64 F) Instances[F] {
	var in Instances[F]
	in.set(types.Int8, i8)
	in.set(types.UInt8, u8)
	in.set(types.Int16, i16)
	in.set(types.UInt16, u16)
	in.set(types.Int32, i32)
	in.set(types.UInt32, u32)
	in.set(types.Int64, i64)
	in.set(types.UInt64, u64)
	in.set(types.Float32, f32)
	in.set(types.Float64, f64)
	return in
}

// All creates instances for all the supported types including booleans.
func All[F any](i8, u8, i16, u16, i32, u32, i64, u64, f32, f64, b F) Instances[F] {
	in := Numeric(i8, u8, i16, u16, i32, u32, i64, u64, f32, f64)
	in.set(types.Bool, b)
	return in
}

func (in *Instances[F]) set(dt types.DataType, fn F) {
	in.fns[dt] = fn
	in.registered[dt] = true
}

// Supports reports whether instantiation exists for the data type.
func (in Instances[F]) Supports(dt types.DataType) bool {
	return dt.Valid() && in.registered[dt]
}

// For returns instantiation for the data type.
func (in Instances[F]) For(dt types.DataType) (F, error) {
	if !in.Supports(dt) {
		var zero F
		return zero, result.Errorf(result.ErrUnsupportedType, CodeUnsupportedType,
			"no instantiation registered for data type %s", dt)
	}
	return in.fns[dt], nil
}
