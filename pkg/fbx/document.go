package fbx

import (
	"errors"
	"fmt"
)

// Document errors.
var (
	ErrDuplicateObject = errors.New("duplicate object id")
	ErrReservedID      = errors.New("object id 0 is reserved for the scene root")
	ErrObjectNotFound  = errors.New("object not found")
	ErrInvalidDocument = errors.New("invalid document")
)

// RootID is the id connections use to attach top-level models to the scene.
const RootID uint64 = 0

// Connection is a directed edge Source -> Destination. A non-empty Property
// scopes the link to one property of the destination (e.g. a texture bound to
// a material's DiffuseColor) instead of a structural parent/child link.
type Connection struct {
	Source      uint64
	Destination uint64
	Property    string
}

// IsPropertyLink reports whether the connection targets a named property.
func (c Connection) IsPropertyLink() bool {
	return c.Property != ""
}

// Document is the parsed object graph.
type Document struct {
	objects       map[uint64]Object
	order         []uint64
	connections   []Connection
	byDestination map[uint64][]int
	templates     map[string]*PropertyTable
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		objects:       make(map[uint64]Object),
		byDestination: make(map[uint64][]int),
		templates:     make(map[string]*PropertyTable),
	}
}

// Add inserts an object. Ids must be unique and non-zero.
func (d *Document) Add(obj Object) error {
	id := obj.ID()
	if id == RootID {
		return fmt.Errorf("%w: %s %q", ErrReservedID, obj.Class(), obj.Name())
	}
	if _, exists := d.objects[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateObject, id)
	}
	d.objects[id] = obj
	d.order = append(d.order, id)
	return nil
}

// Object looks up an object by id.
func (d *Document) Object(id uint64) (Object, error) {
	obj, ok := d.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrObjectNotFound, id)
	}
	return obj, nil
}

// Objects returns every object in insertion order.
func (d *Document) Objects() []Object {
	objs := make([]Object, 0, len(d.order))
	for _, id := range d.order {
		objs = append(objs, d.objects[id])
	}
	return objs
}

// Materials returns every material in insertion order.
func (d *Document) Materials() []*Material {
	var mats []*Material
	for _, id := range d.order {
		if mat, ok := d.objects[id].(*Material); ok {
			mats = append(mats, mat)
		}
	}
	return mats
}

// Connect adds a structural connection from src to dst.
func (d *Document) Connect(src, dst uint64) {
	d.addConnection(Connection{Source: src, Destination: dst})
}

// ConnectProperty adds a connection from src to the named property of dst.
func (d *Document) ConnectProperty(src, dst uint64, property string) {
	d.addConnection(Connection{Source: src, Destination: dst, Property: property})
}

// addConnection records the edge and, when both ends are known, links the
// objects (model geometries/materials, material textures). Connections to
// unknown objects are kept so readers can report them.
func (d *Document) addConnection(c Connection) {
	d.byDestination[c.Destination] = append(d.byDestination[c.Destination], len(d.connections))
	d.connections = append(d.connections, c)

	src, srcOK := d.objects[c.Source]
	dst, dstOK := d.objects[c.Destination]
	if !srcOK || !dstOK {
		return
	}

	switch to := dst.(type) {
	case *Model:
		if c.IsPropertyLink() {
			return
		}
		switch from := src.(type) {
		case Geometry:
			to.geometries = append(to.geometries, from)
		case *Material:
			to.materials = append(to.materials, from)
		}
	case *Material:
		if tex, ok := src.(*Texture); ok && c.IsPropertyLink() {
			to.textures[c.Property] = tex
		}
	}
}

// ConnectionsByDestination returns the connections ending at dst, in the
// order they were added.
func (d *Document) ConnectionsByDestination(dst uint64) []Connection {
	idx := d.byDestination[dst]
	conns := make([]Connection, 0, len(idx))
	for _, i := range idx {
		conns = append(conns, d.connections[i])
	}
	return conns
}

// Connections returns every connection in document order.
func (d *Document) Connections() []Connection {
	return append([]Connection(nil), d.connections...)
}

// Template returns the property template for an object class, creating an
// empty one on first use.
func (d *Document) Template(class string) *PropertyTable {
	tmpl, ok := d.templates[class]
	if !ok {
		tmpl = NewPropertyTable(nil)
		d.templates[class] = tmpl
	}
	return tmpl
}
