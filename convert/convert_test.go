package convert

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

func TestSignedConversion(t *testing.T) {
	requireT := require.New(t)

	v8, err := ConvertTo[int8]("-128")
	requireT.NoError(err)
	requireT.Equal(int8(-128), v8)

	v8, err = ConvertTo[int8](" 127 ")
	requireT.NoError(err)
	requireT.Equal(int8(127), v8)

	_, err = ConvertTo[int8]("128")
	requireT.ErrorIs(err, result.ErrOverflow)
	requireT.Equal(CodeOverflow, result.Code(err))

	_, err = ConvertTo[int16]("-32769")
	requireT.ErrorIs(err, result.ErrOverflow)

	_, err = ConvertTo[int64]("9223372036854775808")
	requireT.ErrorIs(err, result.ErrOverflow)

	_, err = ConvertTo[int32]("abc")
	requireT.ErrorIs(err, result.ErrConversion)
	requireT.Equal(CodeConversion, result.Code(err))

	_, err = ConvertTo[int32]("")
	requireT.ErrorIs(err, result.ErrConversion)
}

func TestUnsignedConversion(t *testing.T) {
	requireT := require.New(t)

	v, err := ConvertTo[uint8]("255")
	requireT.NoError(err)
	requireT.Equal(uint8(255), v)

	_, err = ConvertTo[uint8]("256")
	requireT.ErrorIs(err, result.ErrOverflow)

	_, err = ConvertTo[uint32]("-1")
	requireT.ErrorIs(err, result.ErrOverflow)

	_, err = ConvertTo[uint64]("-0")
	requireT.ErrorIs(err, result.ErrOverflow)

	v64, err := ConvertTo[uint64]("18446744073709551615")
	requireT.NoError(err)
	requireT.Equal(uint64(math.MaxUint64), v64)

	_, err = ConvertTo[uint64]("18446744073709551616")
	requireT.ErrorIs(err, result.ErrOverflow)

	_, err = ConvertTo[uint16]("1.5")
	requireT.ErrorIs(err, result.ErrConversion)
}

func TestFloatConversion(t *testing.T) {
	requireT := require.New(t)

	f32, err := ConvertTo[float32]("1.5")
	requireT.NoError(err)
	requireT.Equal(float32(1.5), f32)

	_, err = ConvertTo[float32]("1e39")
	requireT.ErrorIs(err, result.ErrOverflow)

	f64, err := ConvertTo[float64]("1e39")
	requireT.NoError(err)
	requireT.Equal(1e39, f64)

	_, err = ConvertTo[float64]("1e309")
	requireT.ErrorIs(err, result.ErrOverflow)

	_, err = ConvertTo[float64]("one")
	requireT.ErrorIs(err, result.ErrConversion)
}

func TestBoolConversion(t *testing.T) {
	requireT := require.New(t)

	cases := map[string]bool{
		"TRUE":                 true,
		"true":                 true,
		"True":                 true,
		"FALSE":                false,
		"false":                false,
		"False":                false,
		"0":                    false,
		"2":                    true,
		"-1":                   true,
		"0.5":                  false,
		"0.0":                  false,
		" -0":                  false,
		"+7":                   true,
		"7 cm":                 true,
		"0x1":                  false,
		".5":                   true,
		"-.0":                  false,
		"00010":                true,
		"99999999999999999999": true,
		"fAlSe":                true,
		"maybe":                true,
		"inf":                  true,
		"-":                    true,
		"":                     true,
	}
	for input, expected := range cases {
		v, err := ConvertTo[bool](input)
		requireT.NoError(err, input)
		requireT.Equal(expected, v, input)
	}
}

func TestRoundTrip(t *testing.T) {
	requireT := require.New(t)

	r := rand.New(rand.NewSource(1))
	for range 1000 {
		i8 := strconv.FormatInt(int64(int8(r.Uint32())), 10)
		roundTripInt[int8](requireT, i8)

		u16 := strconv.FormatUint(uint64(uint16(r.Uint32())), 10)
		roundTripInt[uint16](requireT, u16)

		i64 := strconv.FormatInt(int64(r.Uint64()), 10)
		roundTripInt[int64](requireT, i64)

		u64 := strconv.FormatUint(r.Uint64(), 10)
		roundTripInt[uint64](requireT, u64)

		f := strconv.FormatFloat(r.NormFloat64()*1e6, 'g', -1, 64)
		v, err := ConvertTo[float64](f)
		requireT.NoError(err)
		v2, err := ConvertTo[float64](strconv.FormatFloat(v, 'g', -1, 64))
		requireT.NoError(err)
		requireT.Equal(v, v2)
	}
}

func roundTripInt[T int8 | uint16 | int64 | uint64](requireT *require.Assertions, s string) {
	v, err := ConvertTo[T](s)
	requireT.NoError(err)
	requireT.Equal(s, fmt.Sprint(v))
	v2, err := ConvertTo[T](fmt.Sprint(v))
	requireT.NoError(err)
	requireT.Equal(v, v2)
}

func TestOverflowForAllIntegerTypes(t *testing.T) {
	requireT := require.New(t)

	_, err := ConvertTo[int8]("-129")
	requireT.ErrorIs(err, result.ErrOverflow)
	_, err = ConvertTo[int16]("32768")
	requireT.ErrorIs(err, result.ErrOverflow)
	_, err = ConvertTo[int32]("2147483648")
	requireT.ErrorIs(err, result.ErrOverflow)
	_, err = ConvertTo[uint16]("65536")
	requireT.ErrorIs(err, result.ErrOverflow)
	_, err = ConvertTo[uint32]("4294967296")
	requireT.ErrorIs(err, result.ErrOverflow)
}

func TestCheckValueConverts(t *testing.T) {
	requireT := require.New(t)

	requireT.NoError(CheckValueConverts("200", types.UInt8))
	err := CheckValueConverts("-1", types.UInt8)
	requireT.ErrorIs(err, result.ErrOverflow)
	requireT.Equal(-255, result.Code(err))

	err = CheckValueConverts("300", types.UInt8)
	requireT.ErrorIs(err, result.ErrOverflow)
	requireT.Equal(-256, result.Code(err))

	err = CheckValueConverts("-200", types.Int8)
	requireT.ErrorIs(err, result.ErrOverflow)
	requireT.Equal(-257, result.Code(err))

	requireT.NoError(CheckValueConverts("0", types.Float32))
	requireT.NoError(CheckValueConverts("-3.5e10", types.Float32))
	err = CheckValueConverts("1e-60", types.Float32)
	requireT.ErrorIs(err, result.ErrOverflow)
	requireT.Equal(-258, result.Code(err))

	requireT.ErrorIs(CheckValueConverts("x", types.Int32), result.ErrConversion)
	requireT.NoError(CheckValueConverts("anything", types.Bool))
	requireT.ErrorIs(CheckValueConverts("1", types.NumOfDataTypes), result.ErrUnsupportedType)
}
