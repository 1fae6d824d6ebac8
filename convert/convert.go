package convert

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Error codes reported by conversions.
const (
	CodeConversion = -10351
	CodeOverflow   = -10353
)

// ConvertTo converts string to the value of type T.
//
// Integers are parsed in base 10 through a 64-bit intermediate and range checked against T.
// Unsigned conversions reject any leading minus sign. Floating point values are parsed with
// the precision of T. Booleans are parsed heuristically, see convertBool.
//
//nolint:revive
func ConvertTo[T types.Primitive](input string) (T, error) {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		return v, convertSigned(input, p, "int8", math.MinInt8, math.MaxInt8)
	case *int16:
		return v, convertSigned(input, p, "int16", math.MinInt16, math.MaxInt16)
	case *int32:
		return v, convertSigned(input, p, "int32", math.MinInt32, math.MaxInt32)
	case *int64:
		return v, convertSigned(input, p, "int64", math.MinInt64, math.MaxInt64)
	case *uint8:
		return v, convertUnsigned(input, p, "uint8", math.MaxUint8)
	case *uint16:
		return v, convertUnsigned(input, p, "uint16", math.MaxUint16)
	case *uint32:
		return v, convertUnsigned(input, p, "uint32", math.MaxUint32)
	case *uint64:
		return v, convertUnsigned(input, p, "uint64", math.MaxUint64)
	case *float32:
		f, err := parseFloat(input, "float32", 32)
		*p = float32(f)
		return v, err
	case *float64:
		f, err := parseFloat(input, "float64", 64)
		*p = f
		return v, err
	case *bool:
		*p = convertBool(input)
		return v, nil
	default:
		return v, result.Errorf(result.ErrUnsupportedType, CodeConversion,
			"conversion of '%s' to named type %T is not supported", input, v)
	}
}

func convertSigned[T int8 | int16 | int32 | int64](input string, dst *T, typeName string, minV, maxV int64) error {
	v, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return parseError(input, typeName, err)
	}
	if v < minV || v > maxV {
		return overflowError(input, typeName)
	}
	*dst = T(v)
	return nil
}

func convertUnsigned[T uint8 | uint16 | uint32 | uint64](input string, dst *T, typeName string, maxV uint64) error {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "-") {
		return overflowError(input, typeName)
	}
	v, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return parseError(input, typeName, err)
	}
	if v > maxV {
		return overflowError(input, typeName)
	}
	*dst = T(v)
	return nil
}

func parseFloat(input, typeName string, bitSize int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), bitSize)
	if err != nil {
		return 0, parseError(input, typeName, err)
	}
	return v, nil
}

// convertBool recognizes true/false literals first, then falls back to the leading number of the input: integer
// prefix if present, otherwise fractional prefix like ".5". Nonzero number is true. Input which doesn't start with
// number at all is reported as true.
func convertBool(input string) bool {
	switch input {
	case "TRUE", "true", "True":
		return true
	case "FALSE", "false", "False":
		return false
	}

	number := strings.TrimLeftFunc(input, unicode.IsSpace)
	if strings.HasPrefix(number, "+") || strings.HasPrefix(number, "-") {
		number = number[1:]
	}
	if digits := leadingDigits(number); digits != "" {
		return strings.Trim(digits, "0") != ""
	}
	if strings.HasPrefix(number, ".") {
		if digits := leadingDigits(number[1:]); digits != "" {
			return strings.Trim(digits, "0") != ""
		}
	}

	// FIXME: Unparsable input should rather be reported as an error, but callers rely on it being true.
	return true
}

func leadingDigits(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if end < 0 {
		return s
	}
	return s[:end]
}

func parseError(input, typeName string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return overflowError(input, typeName)
	}
	return result.Errorf(result.ErrConversion, CodeConversion, "Error trying to convert '%s' to type '%s'", input,
		typeName)
}

func overflowError(input, typeName string) error {
	return result.Errorf(result.ErrOverflow, CodeOverflow, "Overflow error trying to convert '%s' to type '%s'", input,
		typeName)
}

// CheckValueConverts validates that the string can be stored in an array of the data type.
func CheckValueConverts(value string, dt types.DataType) error {
	switch dt {
	case types.Int8:
		return checkSigned(value, dt, math.MinInt8, math.MaxInt8)
	case types.Int16:
		return checkSigned(value, dt, math.MinInt16, math.MaxInt16)
	case types.Int32:
		return checkSigned(value, dt, math.MinInt32, math.MaxInt32)
	case types.Int64:
		return checkSigned(value, dt, math.MinInt64, math.MaxInt64)
	case types.UInt8:
		return checkUnsigned(value, dt, math.MaxUint8)
	case types.UInt16:
		return checkUnsigned(value, dt, math.MaxUint16)
	case types.UInt32:
		return checkUnsigned(value, dt, math.MaxUint32)
	case types.UInt64:
		return checkUnsigned(value, dt, math.MaxUint64)
	case types.Float32:
		return checkFloat(value, dt, math.SmallestNonzeroFloat32, math.MaxFloat32)
	case types.Float64:
		return checkFloat(value, dt, math.SmallestNonzeroFloat64, math.MaxFloat64)
	case types.Bool:
		_, err := ConvertTo[bool](value)
		return err
	default:
		return result.Errorf(result.ErrUnsupportedType, -259, "data type %s is not supported", dt)
	}
}

func checkUnsigned(value string, dt types.DataType, maxV uint64) error {
	if strings.HasPrefix(strings.TrimSpace(value), "-") {
		return result.Errorf(result.ErrOverflow, -255,
			"The value '%s' could not be converted to %s due to the value being outside of the range for 0 to %d",
			value, dt, maxV)
	}
	v, err := ConvertTo[uint64](value)
	if err != nil {
		return err
	}
	if v > maxV {
		return result.Errorf(result.ErrOverflow, -256,
			"The value '%s' could not be converted to %s due to the value being outside of the range for 0 to %d",
			value, dt, maxV)
	}
	return nil
}

func checkSigned(value string, dt types.DataType, minV, maxV int64) error {
	v, err := ConvertTo[int64](value)
	if err != nil {
		return err
	}
	if v < minV || v > maxV {
		return result.Errorf(result.ErrOverflow, -257,
			"The value '%s' could not be converted to %s due to the value being outside of the range for %d to %d",
			value, dt, minV, maxV)
	}
	return nil
}

func checkFloat(value string, dt types.DataType, smallest, largest float64) error {
	v, err := ConvertTo[float64](value)
	if err != nil {
		return err
	}
	abs := math.Abs(v)
	if v != 0 && (abs < smallest || abs > largest) {
		return result.Errorf(result.ErrOverflow, -258,
			"The %s value '%s' was invalid. The valid ranges are -%g to -%g, 0, %g to %g",
			dt, value, largest, smallest, smallest, largest)
	}
	return nil
}
