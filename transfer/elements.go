package transfer

import (
	"github.com/samber/lo"

	"github.com/outofforest/nxcore/datastructure"
	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Elements is the view of an array as the flat sequence of elements of type E, NumComponents elements per tuple.
// Data arrays expose their primitive values, neighbor lists expose one list per tuple and string arrays expose one
// string per tuple.
type Elements[E any] struct {
	Name          string
	Values        []E
	NumComponents int

	clone func(E) E
	blank E
}

// NewElements creates view over the values. Clone is used to copy elements owning memory, nil means elements
// are copied by value.
func NewElements[E any](name string, values []E, numComponents int, clone func(E) E) Elements[E] {
	return Elements[E]{
		Name:          name,
		Values:        values,
		NumComponents: numComponents,
		clone:         clone,
	}
}

// NumTuples returns the number of tuples.
func (e Elements[E]) NumTuples() int {
	if e.NumComponents == 0 {
		return 0
	}
	return len(e.Values) / e.NumComponents
}

// FillTuple sets all the components of the tuple to the value.
func (e Elements[E]) FillTuple(tuple int, v E) {
	for i := tuple * e.NumComponents; i < (tuple+1)*e.NumComponents; i++ {
		e.Values[i] = v
	}
}

// Blank returns the value stored in tuples which have no source.
func (e Elements[E]) Blank() E {
	return e.blank
}

func (e Elements[E]) copyValues(dst, src []E) {
	if e.clone == nil {
		copy(dst, src)
		return
	}
	// Ranges might overlap when data is shifted within the same array.
	cloned := make([]E, len(src))
	for i, v := range src {
		cloned[i] = e.clone(v)
	}
	copy(dst, cloned)
}

func (e Elements[E]) swapTuples(t1, t2, numTuples int) {
	nc := e.NumComponents
	a := e.Values[t1*nc : (t1+numTuples)*nc]
	b := e.Values[t2*nc : (t2+numTuples)*nc]
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}

// DataElements returns view of data array.
func DataElements[T types.Primitive](arr *datastructure.DataArray[T]) Elements[T] {
	return NewElements[T](arr.Name(), arr.Values(), arr.NumComponents(), nil)
}

// ListElements returns view of neighbor list. Copied lists are cloned, tuples without source get empty list.
func ListElements[T types.Primitive](list *datastructure.NeighborList[T]) Elements[[]T] {
	e := NewElements(list.Name(), list.Lists(), 1, func(l []T) []T {
		return append([]T{}, l...)
	})
	e.blank = []T{}
	return e
}

// StringElements returns view of string array.
func StringElements(arr *datastructure.StringArray) Elements[string] {
	return NewElements[string](arr.Name(), arr.Values(), 1, nil)
}

func castArrays[A datastructure.IArray, E any](
	arrs []datastructure.IArray,
	view func(A) Elements[E],
) ([]Elements[E], error) {
	typed, ok := lo.FromAnySlice[A](lo.ToAnySlice(arrs))
	if !ok {
		var a A
		return nil, result.Errorf(result.ErrType, CodeArrayType, "all the input arrays must be of type %T", a)
	}
	return lo.Map(typed, func(a A, _ int) Elements[E] {
		return view(a)
	}), nil
}
