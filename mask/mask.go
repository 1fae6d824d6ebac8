package mask

import (
	"github.com/pkg/errors"

	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// CodeMaskType is reported when array can't be used as a mask.
const CodeMaskType = -4001

// Compare gives boolean access to mask array regardless of its element type.
type Compare interface {
	// BothTrue reports whether both tuples are selected.
	BothTrue(i, j int) bool

	// BothFalse reports whether none of the tuples is selected.
	BothFalse(i, j int) bool

	// IsTrue reports whether tuple is selected.
	IsTrue(i int) bool

	// SetValue selects or deselects the tuple.
	SetValue(i int, v bool)

	// NumTuples returns the number of tuples in the mask.
	NumTuples() int

	// NumComponents returns the number of components in each tuple.
	NumComponents() int

	// CountTrueValues returns the number of selected tuples.
	CountTrueValues() int
}

// New creates mask comparator for the array. Only bool and uint8 arrays are accepted.
func New(arr datastructure.IDataArray) (Compare, error) {
	if arr.Store().IsPlaceholder() {
		return nil, errors.Errorf("mask array '%s' has no data", arr.Name())
	}
	switch a := arr.(type) {
	case *datastructure.DataArray[bool]:
		return &boolCompare{values: a.Values(), numTuples: a.NumTuples(), numComponents: a.NumComponents()}, nil
	case *datastructure.DataArray[uint8]:
		return &uint8Compare{values: a.Values(), numTuples: a.NumTuples(), numComponents: a.NumComponents()}, nil
	default:
		return nil, result.Errorf(result.ErrType, CodeMaskType,
			"Mask array '%s' is of type %s but it must be of type [BOOL | UINT8]", arr.Name(), arr.DataType())
	}
}

// FromPath creates mask comparator for the array stored at the path.
func FromPath(ds *datastructure.DataStructure, path datastructure.DataPath) (Compare, error) {
	arr, err := datastructure.GetDataAs[datastructure.IDataArray](ds, path)
	if err != nil {
		return nil, err
	}
	return New(arr)
}

// Supported reports whether arrays of the type might be used as masks.
func Supported(dt types.DataType) bool {
	return dt == types.Bool || dt == types.UInt8
}

type boolCompare struct {
	values        []bool
	numTuples     int
	numComponents int
}

func (c *boolCompare) BothTrue(i, j int) bool {
	return c.values[i] && c.values[j]
}

func (c *boolCompare) BothFalse(i, j int) bool {
	return !c.values[i] && !c.values[j]
}

func (c *boolCompare) IsTrue(i int) bool {
	return c.values[i]
}

func (c *boolCompare) SetValue(i int, v bool) {
	c.values[i] = v
}

func (c *boolCompare) NumTuples() int {
	return c.numTuples
}

func (c *boolCompare) NumComponents() int {
	return c.numComponents
}

func (c *boolCompare) CountTrueValues() int {
	var count int
	for _, v := range c.values {
		if v {
			count++
		}
	}
	return count
}

type uint8Compare struct {
	values        []uint8
	numTuples     int
	numComponents int
}

func (c *uint8Compare) BothTrue(i, j int) bool {
	return c.values[i] != 0 && c.values[j] != 0
}

func (c *uint8Compare) BothFalse(i, j int) bool {
	return c.values[i] == 0 && c.values[j] == 0
}

func (c *uint8Compare) IsTrue(i int) bool {
	return c.values[i] != 0
}

func (c *uint8Compare) SetValue(i int, v bool) {
	if v {
		c.values[i] = 1
	} else {
		c.values[i] = 0
	}
}

func (c *uint8Compare) NumTuples() int {
	return c.numTuples
}

func (c *uint8Compare) NumComponents() int {
	return c.numComponents
}

// CountTrueValues counts zeros and subtracts them from the number of tuples, so every nonzero byte is counted
// as selected.
func (c *uint8Compare) CountTrueValues() int {
	var zeros int
	for _, v := range c.values {
		if v == 0 {
			zeros++
		}
	}
	return c.numTuples - zeros
}
