package datastructure

import (
	"github.com/pkg/errors"

	"github.com/outofforest/nxcore/datastore"
	"github.com/outofforest/nxcore/types"
)

// IArray is the common view of all the array kinds.
type IArray interface {
	Object

	Kind() types.ArrayKind
	TupleShape() types.Shape
	ComponentShape() types.Shape
	NumTuples() int
	NumComponents() int
	ResizeTuples(shape types.Shape) error
	Close() error
}

// ITypedArray is the array carrying elements of primitive type.
type ITypedArray interface {
	IArray

	DataType() types.DataType
}

// IDataArray is the type-erased view of a data array.
type IDataArray interface {
	ITypedArray

	Store() datastore.IDataStore
	DataFormat() string
	MemoryUsage() uint64
}

// NewDataArray creates data array backed by the store.
func NewDataArray[T types.Primitive](name string, store datastore.AbstractDataStore[T]) *DataArray[T] {
	return &DataArray[T]{
		object: newObject(name),
		store:  store,
	}
}

// DataArray is the array of fixed-size tuples of type T.
type DataArray[T types.Primitive] struct {
	object

	store datastore.AbstractDataStore[T]
}

// Kind returns the kind of the array.
func (a *DataArray[T]) Kind() types.ArrayKind {
	return types.KindDataArray
}

// DataType returns the type of elements.
func (a *DataArray[T]) DataType() types.DataType {
	return a.store.DataType()
}

// Store returns the store.
func (a *DataArray[T]) Store() datastore.IDataStore {
	return a.store
}

// DataStore returns typed store.
func (a *DataArray[T]) DataStore() datastore.AbstractDataStore[T] {
	return a.store
}

// SetDataStore replaces the store. Previous store is closed.
func (a *DataArray[T]) SetDataStore(store datastore.AbstractDataStore[T]) error {
	old := a.store
	a.store = store
	if old != nil {
		return old.Close()
	}
	return nil
}

// DataFormat returns the format of the store.
func (a *DataArray[T]) DataFormat() string {
	return a.store.Format()
}

// MemoryUsage returns the number of bytes used by the elements.
func (a *DataArray[T]) MemoryUsage() uint64 {
	return a.store.MemoryUsage()
}

// TupleShape returns the tuple shape.
func (a *DataArray[T]) TupleShape() types.Shape {
	return a.store.TupleShape()
}

// ComponentShape returns the component shape.
func (a *DataArray[T]) ComponentShape() types.Shape {
	return a.store.ComponentShape()
}

// NumTuples returns the number of tuples.
func (a *DataArray[T]) NumTuples() int {
	return a.store.NumTuples()
}

// NumComponents returns the number of components.
func (a *DataArray[T]) NumComponents() int {
	return a.store.NumComponents()
}

// Size returns the number of elements.
func (a *DataArray[T]) Size() int {
	return a.store.Size()
}

// Values returns flat view of the elements.
func (a *DataArray[T]) Values() []T {
	return a.store.Values()
}

// At returns element at the flat index.
func (a *DataArray[T]) At(index int) T {
	return a.store.At(index)
}

// Set sets element at the flat index.
func (a *DataArray[T]) Set(index int, v T) {
	a.store.Set(index, v)
}

// Fill sets all the elements to the value.
func (a *DataArray[T]) Fill(v T) {
	a.store.Fill(v)
}

// ResizeTuples resizes the store.
func (a *DataArray[T]) ResizeTuples(shape types.Shape) error {
	return a.store.ResizeTuples(shape)
}

// Close releases the store.
func (a *DataArray[T]) Close() error {
	return a.store.Close()
}

// NewNeighborList creates neighbor list with empty list for each tuple.
func NewNeighborList[T types.Primitive](name string, numTuples int) *NeighborList[T] {
	return &NeighborList[T]{
		object: newObject(name),
		lists:  make([][]T, numTuples),
	}
}

// NeighborList stores variable-length list of values for each tuple.
type NeighborList[T types.Primitive] struct {
	object

	lists [][]T
}

// Kind returns the kind of the array.
func (l *NeighborList[T]) Kind() types.ArrayKind {
	return types.KindNeighborList
}

// DataType returns the type of list elements.
func (l *NeighborList[T]) DataType() types.DataType {
	return types.DataTypeOf[T]()
}

// TupleShape returns the tuple shape.
func (l *NeighborList[T]) TupleShape() types.Shape {
	return types.Shape{len(l.lists)}
}

// ComponentShape returns the component shape.
func (l *NeighborList[T]) ComponentShape() types.Shape {
	return types.Shape{1}
}

// NumTuples returns the number of lists.
func (l *NeighborList[T]) NumTuples() int {
	return len(l.lists)
}

// NumComponents returns 1.
func (l *NeighborList[T]) NumComponents() int {
	return 1
}

// Lists returns all the lists.
func (l *NeighborList[T]) Lists() [][]T {
	return l.lists
}

// List returns the list of the tuple.
func (l *NeighborList[T]) List(tuple int) []T {
	return l.lists[tuple]
}

// SetList sets the list of the tuple.
func (l *NeighborList[T]) SetList(tuple int, list []T) {
	l.lists[tuple] = list
}

// AddEntry appends value to the list of the tuple.
func (l *NeighborList[T]) AddEntry(tuple int, v T) {
	l.lists[tuple] = append(l.lists[tuple], v)
}

// InitializeLists replaces every nil list with an empty one. Existing lists are kept.
func (l *NeighborList[T]) InitializeLists() {
	for i, list := range l.lists {
		if list == nil {
			l.lists[i] = []T{}
		}
	}
}

// DeepCopy returns independent copy of the neighbor list.
func (l *NeighborList[T]) DeepCopy(name string) IArray {
	lists := make([][]T, len(l.lists))
	for i, list := range l.lists {
		if list != nil {
			lists[i] = append([]T{}, list...)
		}
	}
	return &NeighborList[T]{
		object: newObject(name),
		lists:  lists,
	}
}

// ResizeTuples changes the number of lists.
func (l *NeighborList[T]) ResizeTuples(shape types.Shape) error {
	n := shape.Product()
	if n < 0 {
		return errors.Errorf("invalid tuple shape %s", shape)
	}
	if n <= len(l.lists) {
		l.lists = l.lists[:n:n]
		return nil
	}
	lists := make([][]T, n)
	copy(lists, l.lists)
	l.lists = lists
	return nil
}

// Close drops the lists.
func (l *NeighborList[T]) Close() error {
	l.lists = nil
	return nil
}

// NewStringArray creates string array.
func NewStringArray(name string, numTuples int) *StringArray {
	return &StringArray{
		object: newObject(name),
		values: make([]string, numTuples),
	}
}

// StringArray stores one string per tuple.
type StringArray struct {
	object

	values []string
}

// Kind returns the kind of the array.
func (a *StringArray) Kind() types.ArrayKind {
	return types.KindStringArray
}

// TupleShape returns the tuple shape.
func (a *StringArray) TupleShape() types.Shape {
	return types.Shape{len(a.values)}
}

// ComponentShape returns the component shape.
func (a *StringArray) ComponentShape() types.Shape {
	return types.Shape{1}
}

// NumTuples returns the number of strings.
func (a *StringArray) NumTuples() int {
	return len(a.values)
}

// NumComponents returns 1.
func (a *StringArray) NumComponents() int {
	return 1
}

// Values returns all the strings.
func (a *StringArray) Values() []string {
	return a.values
}

// At returns the string of the tuple.
func (a *StringArray) At(tuple int) string {
	return a.values[tuple]
}

// Set sets the string of the tuple.
func (a *StringArray) Set(tuple int, v string) {
	a.values[tuple] = v
}

// DeepCopy returns independent copy of the string array.
func (a *StringArray) DeepCopy(name string) IArray {
	return &StringArray{
		object: newObject(name),
		values: append([]string{}, a.values...),
	}
}

// ResizeTuples changes the number of strings.
func (a *StringArray) ResizeTuples(shape types.Shape) error {
	n := shape.Product()
	if n < 0 {
		return errors.Errorf("invalid tuple shape %s", shape)
	}
	values := make([]string, n)
	copy(values, a.values)
	a.values = values
	return nil
}

// Close drops the strings.
func (a *StringArray) Close() error {
	a.values = nil
	return nil
}
