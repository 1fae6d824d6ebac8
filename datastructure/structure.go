package datastructure

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/outofforest/nxcore/datastore"
	"github.com/outofforest/nxcore/result"
)

// Error codes reported by data structure.
const (
	CodeNotFound     = -100
	CodeNotContainer = -101
	CodeDuplicate    = -102
	CodeTupleShape   = -103
	CodeType         = -104
	CodeInvalidName  = -105
	CodeRemoval      = -106
)

// Config stores data structure configuration.
type Config struct {
	Factory *datastore.Factory
}

// New creates data structure.
func New(config Config) *DataStructure {
	return &DataStructure{
		config: config,
		root:   NewGroup(""),
	}
}

// DataStructure is the tree of objects addressed by paths. It is not safe for concurrent modification.
type DataStructure struct {
	config Config
	root   *Group
}

// Factory returns the data store factory.
func (ds *DataStructure) Factory() *datastore.Factory {
	return ds.config.Factory
}

// Root returns the root group.
func (ds *DataStructure) Root() *Group {
	return ds.root
}

// Exists reports whether object exists at the path.
func (ds *DataStructure) Exists(path DataPath) bool {
	_, err := ds.GetData(path)
	return err == nil
}

// GetData returns object stored at the path.
func (ds *DataStructure) GetData(path DataPath) (Object, error) {
	var obj Object = ds.root
	for i, name := range path {
		c, ok := obj.(Container)
		if !ok {
			return nil, result.Errorf(result.ErrPath, CodeNotContainer, "object '%s' is not a container",
				path[:i])
		}
		child, exists := c.Get(name)
		if !exists {
			return nil, result.Errorf(result.ErrPath, CodeNotFound, "object '%s' does not exist", path[:i+1])
		}
		obj = child
	}
	return obj, nil
}

// GetDataAs returns object of type T stored at the path.
func GetDataAs[T Object](ds *DataStructure, path DataPath) (T, error) {
	obj, err := ds.GetData(path)
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := obj.(T)
	if !ok {
		return typed, result.Errorf(result.ErrType, CodeType, "object '%s' is of type %T, expected %T", path, obj,
			typed)
	}
	return typed, nil
}

// GetContainer returns container stored at the path.
func (ds *DataStructure) GetContainer(path DataPath) (Container, error) {
	obj, err := ds.GetData(path)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(Container)
	if !ok {
		return nil, result.Errorf(result.ErrPath, CodeNotContainer, "object '%s' is not a container", path)
	}
	return c, nil
}

// Insert inserts object into the container at parent path.
func (ds *DataStructure) Insert(obj Object, parent DataPath) error {
	c, err := ds.GetContainer(parent)
	if err != nil {
		return err
	}
	if err := c.CanInsert(obj); err != nil {
		return err
	}
	c.insert(obj)
	return nil
}

// RemoveData removes object at the path and releases all the arrays it contains.
func (ds *DataStructure) RemoveData(path DataPath) error {
	if path.IsRoot() {
		return result.Errorf(result.ErrRemoval, CodeRemoval, "root can't be removed")
	}
	c, err := ds.GetContainer(path.Parent())
	if err != nil {
		return err
	}
	obj := c.remove(path.Name())
	if obj == nil {
		return result.Errorf(result.ErrPath, CodeNotFound, "object '%s' does not exist", path)
	}
	return closeObject(obj)
}

// MemoryUsage returns the number of bytes taken by elements of all the data arrays.
func (ds *DataStructure) MemoryUsage() uint64 {
	var usage uint64
	_ = ds.Walk(func(_ DataPath, obj Object) error {
		if arr, ok := obj.(IDataArray); ok {
			usage += arr.MemoryUsage()
		}
		return nil
	})
	return usage
}

// Walk visits all the objects in depth-first order.
func (ds *DataStructure) Walk(fn func(path DataPath, obj Object) error) error {
	return walk(DataPath{}, ds.root, fn)
}

// Close releases all the arrays.
func (ds *DataStructure) Close() error {
	err := closeObject(ds.root)
	ds.root = NewGroup("")
	return err
}

func walk(path DataPath, c Container, fn func(path DataPath, obj Object) error) error {
	for _, child := range c.Children() {
		childPath := path.Child(child.Name())
		if err := fn(childPath, child); err != nil {
			return err
		}
		if cc, ok := child.(Container); ok {
			if err := walk(childPath, cc, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func closeObject(obj Object) error {
	switch o := obj.(type) {
	case IArray:
		return errors.WithStack(o.Close())
	case Container:
		var err error
		for _, child := range o.Children() {
			err = multierr.Append(err, closeObject(child))
		}
		return err
	default:
		return nil
	}
}
