package datastore

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
	"github.com/outofforest/photon"
)

// IDataStore is the type-erased view of a data store.
type IDataStore interface {
	DataType() types.DataType
	TupleShape() types.Shape
	ComponentShape() types.Shape
	NumTuples() int
	NumComponents() int
	Size() int
	MemoryUsage() uint64
	Format() string
	IsPlaceholder() bool
	ResizeTuples(shape types.Shape) error
	Flush() error
	Close() error
}

// AbstractDataStore is the fixed-type backing store of an array.
type AbstractDataStore[T types.Primitive] interface {
	IDataStore

	// Values returns flat view of all the elements. Placeholder stores return nil.
	Values() []T
	At(index int) T
	Set(index int, v T)
	Tuple(tuple int) []T
	FillTuple(tuple int, v T)
	Fill(v T)
	CopyFrom(destTuple int, src AbstractDataStore[T], srcTuple, numTuples int) error
}

type backing interface {
	Format() string
	Resize(size uint64) (unsafe.Pointer, error)
	Sync() error
	Close() error
}

// NewDataStore creates in-memory data store filled with the value. The store is not accounted
// in any memory budget.
func NewDataStore[T types.Primitive](tupleShape, componentShape types.Shape, fill T) *DataStore[T] {
	s := &DataStore[T]{
		tupleShape:     tupleShape.Clone(),
		componentShape: componentShape.Clone(),
		numComponents:  componentShape.Product(),
	}
	s.values = make([]T, s.tupleShape.Product()*s.numComponents)
	var zero T
	if fill != zero {
		s.Fill(fill)
	}
	return s
}

// DataStore stores elements of type T in memory or in memory-mapped file.
type DataStore[T types.Primitive] struct {
	tupleShape     types.Shape
	componentShape types.Shape
	numComponents  int
	values         []T
	backing        backing
	budget         *Budget
	reserved       uint64
}

// DataType returns the type of stored elements.
func (s *DataStore[T]) DataType() types.DataType {
	return types.DataTypeOf[T]()
}

// TupleShape returns tuple shape.
func (s *DataStore[T]) TupleShape() types.Shape {
	return s.tupleShape
}

// ComponentShape returns component shape.
func (s *DataStore[T]) ComponentShape() types.Shape {
	return s.componentShape
}

// NumTuples returns the number of tuples.
func (s *DataStore[T]) NumTuples() int {
	return s.tupleShape.Product()
}

// NumComponents returns the number of components in each tuple.
func (s *DataStore[T]) NumComponents() int {
	return s.numComponents
}

// Size returns the number of elements.
func (s *DataStore[T]) Size() int {
	return len(s.values)
}

// MemoryUsage returns the number of bytes taken by the elements.
func (s *DataStore[T]) MemoryUsage() uint64 {
	return uint64(len(s.values)) * uint64(unsafe.Sizeof(*new(T)))
}

// Format returns the storage format.
func (s *DataStore[T]) Format() string {
	if s.backing == nil {
		return FormatMemory
	}
	return s.backing.Format()
}

// IsPlaceholder returns false because data store always holds real storage.
func (s *DataStore[T]) IsPlaceholder() bool {
	return false
}

// Values returns flat view of all the elements.
func (s *DataStore[T]) Values() []T {
	return s.values
}

// At returns element at flat index.
func (s *DataStore[T]) At(index int) T {
	return s.values[index]
}

// Set sets element at flat index.
func (s *DataStore[T]) Set(index int, v T) {
	s.values[index] = v
}

// Tuple returns view of the tuple's components.
func (s *DataStore[T]) Tuple(tuple int) []T {
	return s.values[tuple*s.numComponents : (tuple+1)*s.numComponents]
}

// FillTuple sets all the components of the tuple to the value.
func (s *DataStore[T]) FillTuple(tuple int, v T) {
	t := s.Tuple(tuple)
	for i := range t {
		t[i] = v
	}
}

// Fill sets all the elements to the value.
func (s *DataStore[T]) Fill(v T) {
	for i := range s.values {
		s.values[i] = v
	}
}

// CopyFrom copies tuples from another store.
func (s *DataStore[T]) CopyFrom(destTuple int, src AbstractDataStore[T], srcTuple, numTuples int) error {
	if src.NumComponents() != s.numComponents {
		return result.Errorf(result.ErrComponentMismatch, CodeComponentMismatch,
			"source store has %d components, destination store has %d", src.NumComponents(), s.numComponents)
	}
	if destTuple < 0 || srcTuple < 0 || destTuple+numTuples > s.NumTuples() || srcTuple+numTuples > src.NumTuples() {
		return result.Errorf(result.ErrBounds, CodeBounds,
			"copying %d tuples from tuple %d of %d into tuple %d of %d is out of bounds", numTuples, srcTuple,
			src.NumTuples(), destTuple, s.NumTuples())
	}
	srcValues := src.Values()
	if srcValues == nil {
		return errors.New("source store is a placeholder")
	}
	copy(s.values[destTuple*s.numComponents:(destTuple+numTuples)*s.numComponents],
		srcValues[srcTuple*s.numComponents:(srcTuple+numTuples)*s.numComponents])
	return nil
}

// ResizeTuples changes the tuple shape, existing elements at retained indices are preserved.
func (s *DataStore[T]) ResizeTuples(shape types.Shape) error {
	size := shape.Product() * s.numComponents
	if size == len(s.values) {
		s.tupleShape = shape.Clone()
		return nil
	}
	elementSize := uint64(unsafe.Sizeof(*new(T)))
	bytes := uint64(size) * elementSize

	if s.backing != nil {
		p, err := s.backing.Resize(bytes)
		if err != nil {
			return err
		}
		s.values = viewOf[T](p, size)
		s.tupleShape = shape.Clone()
		return nil
	}

	if s.budget != nil {
		if bytes > s.reserved {
			if err := s.budget.Reserve(bytes - s.reserved); err != nil {
				return err
			}
		} else {
			s.budget.Release(s.reserved - bytes)
		}
		s.reserved = bytes
	}

	values := make([]T, size)
	copy(values, s.values)
	s.values = values
	s.tupleShape = shape.Clone()
	return nil
}

// Flush writes elements of mapped store to its file. In-memory stores have nothing to flush.
func (s *DataStore[T]) Flush() error {
	if s.backing == nil {
		return nil
	}
	return s.backing.Sync()
}

// Close releases the resources held by the store.
func (s *DataStore[T]) Close() error {
	s.values = nil
	if s.budget != nil {
		s.budget.Release(s.reserved)
		s.reserved = 0
		s.budget = nil
	}
	if s.backing != nil {
		b := s.backing
		s.backing = nil
		return b.Close()
	}
	return nil
}

func viewOf[T types.Primitive](p unsafe.Pointer, length int) []T {
	if p == nil || length == 0 {
		return nil
	}
	return photon.SliceFromPointer[T](p, length)
}

// NewEmptyDataStore creates placeholder store advertising the shape without allocating anything.
func NewEmptyDataStore[T types.Primitive](tupleShape, componentShape types.Shape, format string) *EmptyDataStore[T] {
	return &EmptyDataStore[T]{
		tupleShape:     tupleShape.Clone(),
		componentShape: componentShape.Clone(),
		format:         format,
	}
}

// EmptyDataStore is the placeholder store used during preflight. It must never be read or written.
type EmptyDataStore[T types.Primitive] struct {
	tupleShape     types.Shape
	componentShape types.Shape
	format         string
}

// DataType returns the type of advertised elements.
func (s *EmptyDataStore[T]) DataType() types.DataType {
	return types.DataTypeOf[T]()
}

// TupleShape returns tuple shape.
func (s *EmptyDataStore[T]) TupleShape() types.Shape {
	return s.tupleShape
}

// ComponentShape returns component shape.
func (s *EmptyDataStore[T]) ComponentShape() types.Shape {
	return s.componentShape
}

// NumTuples returns the number of tuples.
func (s *EmptyDataStore[T]) NumTuples() int {
	return s.tupleShape.Product()
}

// NumComponents returns the number of components.
func (s *EmptyDataStore[T]) NumComponents() int {
	return s.componentShape.Product()
}

// Size returns the number of advertised elements.
func (s *EmptyDataStore[T]) Size() int {
	return s.NumTuples() * s.NumComponents()
}

// MemoryUsage returns zero.
func (s *EmptyDataStore[T]) MemoryUsage() uint64 {
	return 0
}

// Format returns the format the real store will use.
func (s *EmptyDataStore[T]) Format() string {
	return s.format
}

// IsPlaceholder returns true.
func (s *EmptyDataStore[T]) IsPlaceholder() bool {
	return true
}

// Values returns nil.
func (s *EmptyDataStore[T]) Values() []T {
	return nil
}

// At panics.
func (s *EmptyDataStore[T]) At(int) T {
	panic("placeholder store can't be read")
}

// Set panics.
func (s *EmptyDataStore[T]) Set(int, T) {
	panic("placeholder store can't be written")
}

// Tuple panics.
func (s *EmptyDataStore[T]) Tuple(int) []T {
	panic("placeholder store can't be read")
}

// FillTuple panics.
func (s *EmptyDataStore[T]) FillTuple(int, T) {
	panic("placeholder store can't be written")
}

// Fill panics.
func (s *EmptyDataStore[T]) Fill(T) {
	panic("placeholder store can't be written")
}

// CopyFrom returns an error.
func (s *EmptyDataStore[T]) CopyFrom(int, AbstractDataStore[T], int, int) error {
	return errors.New("placeholder store can't be written")
}

// ResizeTuples updates the advertised tuple shape.
func (s *EmptyDataStore[T]) ResizeTuples(shape types.Shape) error {
	s.tupleShape = shape.Clone()
	return nil
}

// Flush does nothing.
func (s *EmptyDataStore[T]) Flush() error {
	return nil
}

// Close does nothing.
func (s *EmptyDataStore[T]) Close() error {
	return nil
}
