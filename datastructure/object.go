package datastructure

import (
	"github.com/rs/xid"

	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
)

// Object is the object stored in data structure.
type Object interface {
	ID() xid.ID
	Name() string
}

// Container is the object owning other objects.
type Container interface {
	Object

	// Get returns the child.
	Get(name string) (Object, bool)

	// Children returns children in insertion order.
	Children() []Object

	// CanInsert verifies that object might become a child.
	CanInsert(obj Object) error

	insert(obj Object)
	remove(name string) Object
}

func newObject(name string) object {
	return object{
		id:   xid.New(),
		name: name,
	}
}

type object struct {
	id   xid.ID
	name string
}

// ID returns unique identifier of the object.
func (o *object) ID() xid.ID {
	return o.id
}

// Name returns name of the object.
func (o *object) Name() string {
	return o.name
}

// NewGroup creates group.
func NewGroup(name string) *Group {
	return &Group{
		object:   newObject(name),
		children: map[string]Object{},
	}
}

// Group is the generic container.
type Group struct {
	object

	children map[string]Object
	order    []string
}

// Get returns the child.
func (g *Group) Get(name string) (Object, bool) {
	obj, exists := g.children[name]
	return obj, exists
}

// Children returns children in insertion order.
func (g *Group) Children() []Object {
	children := make([]Object, 0, len(g.order))
	for _, name := range g.order {
		children = append(children, g.children[name])
	}
	return children
}

// CanInsert verifies that object might become a child.
func (g *Group) CanInsert(obj Object) error {
	if obj.Name() == "" {
		return result.Errorf(result.ErrPath, CodeInvalidName, "object name must not be empty")
	}
	if _, exists := g.children[obj.Name()]; exists {
		return result.Errorf(result.ErrDuplicate, CodeDuplicate, "object '%s' already exists in '%s'", obj.Name(),
			g.name)
	}
	return nil
}

func (g *Group) insert(obj Object) {
	g.children[obj.Name()] = obj
	g.order = append(g.order, obj.Name())
}

func (g *Group) remove(name string) Object {
	obj, exists := g.children[name]
	if !exists {
		return nil
	}
	delete(g.children, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return obj
}

// NewAttributeMatrix creates attribute matrix.
func NewAttributeMatrix(name string, tupleShape types.Shape) *AttributeMatrix {
	return &AttributeMatrix{
		Group:      *NewGroup(name),
		tupleShape: tupleShape.Clone(),
	}
}

// AttributeMatrix is the container requiring all the children to be arrays of the same tuple shape.
type AttributeMatrix struct {
	Group

	tupleShape types.Shape
}

// TupleShape returns the tuple shape enforced on children.
func (am *AttributeMatrix) TupleShape() types.Shape {
	return am.tupleShape
}

// NumTuples returns the number of tuples of every child.
func (am *AttributeMatrix) NumTuples() int {
	return am.tupleShape.Product()
}

// ValidateTupleShape verifies that array of the shape might be stored in the matrix. Shapes must be equal
// or contain the same number of tuples.
func (am *AttributeMatrix) ValidateTupleShape(shape types.Shape) error {
	if shape.Equal(am.tupleShape) || shape.Product() == am.tupleShape.Product() {
		return nil
	}
	return result.Errorf(result.ErrShapeMismatch, CodeTupleShape,
		"Unable to create array in attribute matrix '%s'. Array tuple shape %s does not match attribute matrix tuple shape %s",
		am.name, shape, am.tupleShape)
}

// CanInsert verifies that object is an array of compatible tuple shape.
func (am *AttributeMatrix) CanInsert(obj Object) error {
	if err := am.Group.CanInsert(obj); err != nil {
		return err
	}
	arr, ok := obj.(IArray)
	if !ok {
		return result.Errorf(result.ErrType, CodeType, "only arrays might be stored in attribute matrix '%s'", am.name)
	}
	return am.ValidateTupleShape(arr.TupleShape())
}

// ResizeTuples changes tuple shape of the matrix and all the arrays it contains.
func (am *AttributeMatrix) ResizeTuples(shape types.Shape) error {
	for _, child := range am.Children() {
		if err := child.(IArray).ResizeTuples(shape); err != nil {
			return err
		}
	}
	am.tupleShape = shape.Clone()
	return nil
}
