package datastore

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Storage formats.
const (
	// FormatMemory keeps elements in process memory.
	FormatMemory = ""

	// FormatMapped keeps elements in memory-mapped file.
	FormatMapped = "mapped"
)

// Error codes reported by data stores.
const (
	CodeMemory            = -267
	CodeFormat            = -268
	CodeComponentMismatch = -2033
	CodeBounds            = -2034
	CodeFileOpen          = -1000
	CodeFileRead          = -1001
)

// Config stores configuration of the data store factory.
type Config struct {
	// TotalMemory is the memory budget for in-memory stores. If 0, the size of the physical memory is used.
	TotalMemory uint64

	// MappedDir is the directory where files of out-of-core stores are created. If empty, out-of-core format
	// is not available.
	MappedDir string

	// ForceOutOfCore makes the factory create every store in out-of-core format.
	ForceOutOfCore bool
}

// NewFactory creates data store factory.
func NewFactory(config Config) (*Factory, error) {
	if config.ForceOutOfCore && config.MappedDir == "" {
		return nil, errors.New("out-of-core format is forced but mapped directory is not configured")
	}
	if config.TotalMemory == 0 {
		total, err := TotalMemory()
		if err != nil {
			return nil, err
		}
		config.TotalMemory = total
	}
	return &Factory{
		config: config,
		budget: NewBudget(config.TotalMemory),
	}, nil
}

// Factory creates data stores and keeps track of memory they use.
type Factory struct {
	config Config
	budget *Budget
}

// Budget returns the memory budget of in-memory stores.
func (f *Factory) Budget() *Budget {
	return f.budget
}

// OutOfCoreAvailable reports whether out-of-core format might be used.
func (f *Factory) OutOfCoreAvailable() bool {
	return f.config.MappedDir != ""
}

// TryForceLargeDataFormat returns the out-of-core format if it is forced by configuration and the requested
// format otherwise.
func (f *Factory) TryForceLargeDataFormat(format string) string {
	if f.config.ForceOutOfCore {
		return FormatMapped
	}
	return format
}

// CheckMemoryRequirement reports whether the required amount of memory might be provided. If the in-memory
// budget is too small but out-of-core format is available, format is switched to it.
//
// The check is advisory only. The memory is reserved when store is created.
func (f *Factory) CheckMemoryRequirement(required uint64, format *string) bool {
	if *format != FormatMemory {
		return true
	}
	if f.budget.Fits(required) {
		return true
	}
	if f.OutOfCoreAvailable() {
		*format = FormatMapped
		return true
	}
	return false
}

// CalculateDataSize returns the number of bytes required to store elements of the shapes.
func CalculateDataSize[T types.Primitive](tupleShape, componentShape types.Shape) uint64 {
	return uint64(tupleShape.Product()) * uint64(componentShape.Product()) * uint64(unsafe.Sizeof(*new(T)))
}

// CreateDataStore creates data store of the shapes. In preflight mode placeholder is returned.
func CreateDataStore[T types.Primitive](
	f *Factory,
	tupleShape, componentShape types.Shape,
	mode types.Mode,
	format string,
) (AbstractDataStore[T], error) {
	format = f.TryForceLargeDataFormat(format)
	if mode == types.Preflight {
		return NewEmptyDataStore[T](tupleShape, componentShape, format), nil
	}

	size := CalculateDataSize[T](tupleShape, componentShape)
	s := &DataStore[T]{
		tupleShape:     tupleShape.Clone(),
		componentShape: componentShape.Clone(),
		numComponents:  componentShape.Product(),
	}
	length := s.tupleShape.Product() * s.numComponents

	switch format {
	case FormatMemory:
		if err := f.budget.Reserve(size); err != nil {
			return nil, err
		}
		s.budget = f.budget
		s.reserved = size
		s.values = make([]T, length)
	case FormatMapped:
		if !f.OutOfCoreAvailable() {
			return nil, result.Errorf(result.ErrMemory, CodeFormat,
				"format '%s' requested but mapped directory is not configured", format)
		}
		m, p, err := newMappedFile(f.config.MappedDir, size)
		if err != nil {
			return nil, err
		}
		s.backing = m
		s.values = viewOf[T](p, length)
	default:
		return nil, result.Errorf(result.ErrMemory, CodeFormat, "unknown data format '%s'", format)
	}
	return s, nil
}

// ConvertDataStore copies the store into new store of the format. If store already uses the format, nil is returned.
func ConvertDataStore[T types.Primitive](
	f *Factory,
	store AbstractDataStore[T],
	format string,
) (AbstractDataStore[T], error) {
	if store.Format() == format {
		return nil, nil
	}
	mode := types.Execute
	if store.IsPlaceholder() {
		mode = types.Preflight
	}
	converted, err := CreateDataStore[T](f, store.TupleShape(), store.ComponentShape(), mode, format)
	if err != nil {
		return nil, err
	}
	if mode == types.Execute {
		if err := converted.CopyFrom(0, store, 0, store.NumTuples()); err != nil {
			_ = converted.Close()
			return nil, err
		}
		if err := converted.Flush(); err != nil {
			_ = converted.Close()
			return nil, err
		}
	}
	return converted, nil
}

// TotalMemory returns the size of the physical memory.
func TotalMemory() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, errors.WithStack(err)
	}
	return uint64(info.Totalram) * uint64(info.Unit), nil
}

// NewBudget creates memory budget.
func NewBudget(total uint64) *Budget {
	return &Budget{total: total}
}

// Budget tracks memory reserved by in-memory stores. Reservations are atomic so concurrent creations never
// exceed the total.
type Budget struct {
	total uint64
	inUse atomic.Uint64
}

// Total returns the size of the budget.
func (b *Budget) Total() uint64 {
	return b.total
}

// InUse returns the amount of reserved memory.
func (b *Budget) InUse() uint64 {
	return b.inUse.Load()
}

// Available returns the amount of memory which might still be reserved.
func (b *Budget) Available() uint64 {
	inUse := b.inUse.Load()
	if inUse >= b.total {
		return 0
	}
	return b.total - inUse
}

// Fits reports whether the amount of memory might be reserved at the moment.
func (b *Budget) Fits(size uint64) bool {
	return size <= b.Available()
}

// Reserve reserves the amount of memory.
func (b *Budget) Reserve(size uint64) error {
	for {
		inUse := b.inUse.Load()
		if inUse+size < inUse || inUse+size > b.total {
			available := uint64(0)
			if inUse < b.total {
				available = b.total - inUse
			}
			return result.Errorf(result.ErrMemory, CodeMemory,
				"There is not enough memory to create the data store. Required: %d bytes, available: %d bytes",
				size, available)
		}
		if b.inUse.CompareAndSwap(inUse, inUse+size) {
			return nil
		}
	}
}

// Release returns the amount of memory to the budget.
func (b *Budget) Release(size uint64) {
	for {
		inUse := b.inUse.Load()
		newInUse := uint64(0)
		if size < inUse {
			newInUse = inUse - size
		}
		if b.inUse.CompareAndSwap(inUse, newInUse) {
			return
		}
	}
}
