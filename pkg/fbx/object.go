// Package fbx holds the parsed form of an FBX-style document: objects
// addressed by 64-bit id, their property tables, and the typed connections
// between them. It is read-only once built and safe to share between
// concurrent readers.
package fbx

import "github.com/Faultbox/fbxscene/pkg/math"

// Object classes.
const (
	ClassModel    = "Model"
	ClassGeometry = "Geometry"
	ClassMaterial = "Material"
	ClassTexture  = "Texture"
)

// Object is any element of the document's Objects section.
type Object interface {
	ID() uint64
	Name() string
	Class() string
	Props() *PropertyTable
}

type object struct {
	id    uint64
	name  string
	props *PropertyTable
}

func newObject(id uint64, name string, props *PropertyTable) object {
	if props == nil {
		props = NewPropertyTable(nil)
	}
	return object{id: id, name: name, props: props}
}

// ID returns the object's unique id.
func (o *object) ID() uint64 { return o.id }

// Name returns the object's name.
func (o *object) Name() string { return o.name }

// Props returns the object's property table (never nil).
func (o *object) Props() *PropertyTable { return o.props }

// Model is a scene node in the source document.
type Model struct {
	object
	geometries []Geometry
	materials  []*Material
}

// NewModel creates a model object.
func NewModel(id uint64, name string, props *PropertyTable) *Model {
	return &Model{object: newObject(id, name, props)}
}

// Class returns ClassModel.
func (m *Model) Class() string { return ClassModel }

// Geometries returns the geometries attached to the model, in connection order.
func (m *Model) Geometries() []Geometry { return m.geometries }

// Materials returns the model's material slots, in connection order.
func (m *Model) Materials() []*Material { return m.materials }

// Material is a surface description with texture bindings by property name.
type Material struct {
	object
	shadingModel string
	textures     map[string]*Texture
}

// NewMaterial creates a material object.
func NewMaterial(id uint64, name, shadingModel string, props *PropertyTable) *Material {
	return &Material{
		object:       newObject(id, name, props),
		shadingModel: shadingModel,
		textures:     make(map[string]*Texture),
	}
}

// Class returns ClassMaterial.
func (m *Material) Class() string { return ClassMaterial }

// ShadingModel returns the shading model name, e.g. "phong".
func (m *Material) ShadingModel() string { return m.shadingModel }

// Texture returns the texture bound to the given material property.
func (m *Material) Texture(property string) (*Texture, bool) {
	tex, ok := m.textures[property]
	return tex, ok
}

// Texture is an image reference with a UV transform.
type Texture struct {
	object
	relativeFilename string
	uvTranslation    math.Vec2
	uvScaling        math.Vec2
}

// NewTexture creates a texture with an identity UV transform.
func NewTexture(id uint64, name, relativeFilename string, props *PropertyTable) *Texture {
	return &Texture{
		object:           newObject(id, name, props),
		relativeFilename: relativeFilename,
		uvScaling:        math.Vec2{X: 1, Y: 1},
	}
}

// Class returns ClassTexture.
func (t *Texture) Class() string { return ClassTexture }

// RelativeFilename returns the texture path relative to the source file.
func (t *Texture) RelativeFilename() string { return t.relativeFilename }

// UVTranslation returns the UV offset.
func (t *Texture) UVTranslation() math.Vec2 { return t.uvTranslation }

// UVScaling returns the UV scale.
func (t *Texture) UVScaling() math.Vec2 { return t.uvScaling }

// SetUVTransform sets the texture's UV scale and translation.
func (t *Texture) SetUVTransform(scaling, translation math.Vec2) {
	t.uvScaling = scaling
	t.uvTranslation = translation
}
