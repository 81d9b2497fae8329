package scene

import (
	"fmt"

	"github.com/Faultbox/fbxscene/pkg/math"
)

// ColorKey names a shading color of a material.
type ColorKey string

// Shading colors.
const (
	ColorDiffuse  ColorKey = "diffuse"
	ColorAmbient  ColorKey = "ambient"
	ColorEmissive ColorKey = "emissive"
	ColorSpecular ColorKey = "specular"
)

// ScalarKey names a scalar shading value of a material.
type ScalarKey string

// Shading scalars.
const (
	ScalarOpacity           ScalarKey = "opacity"
	ScalarReflectivity      ScalarKey = "reflectivity"
	ScalarShininess         ScalarKey = "shininess"
	ScalarShininessStrength ScalarKey = "shininess_strength"
)

// TextureType is the semantic slot a texture fills.
type TextureType int

// Texture slots.
const (
	TextureDiffuse TextureType = iota
	TextureAmbient
	TextureEmissive
	TextureSpecular
	TextureOpacity
	TextureReflection
	TextureDisplacement
	TextureNormals
	TextureHeight
)

// String returns the slot name.
func (t TextureType) String() string {
	switch t {
	case TextureDiffuse:
		return "diffuse"
	case TextureAmbient:
		return "ambient"
	case TextureEmissive:
		return "emissive"
	case TextureSpecular:
		return "specular"
	case TextureOpacity:
		return "opacity"
	case TextureReflection:
		return "reflection"
	case TextureDisplacement:
		return "displacement"
	case TextureNormals:
		return "normals"
	case TextureHeight:
		return "height"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// MarshalText lets texture slots serve as readable map keys.
func (t TextureType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UVTransform scales then translates texture coordinates.
type UVTransform struct {
	Scale       math.Vec2
	Translation math.Vec2
}

// TextureSlot binds a texture file to a material slot.
type TextureSlot struct {
	Path      string
	Transform UVTransform
	// UVIndex selects the mesh UV channel used for lookup.
	UVIndex int
}

// Material is a named set of shading values and texture bindings.
type Material struct {
	Name         string
	ShadingModel string                      `yaml:",omitempty"`
	Colors       map[ColorKey]math.Vec3      `yaml:",omitempty"`
	Scalars      map[ScalarKey]float32       `yaml:",omitempty"`
	Textures     map[TextureType]TextureSlot `yaml:",omitempty"`
}

// NewMaterial creates an empty material.
func NewMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Colors:   make(map[ColorKey]math.Vec3),
		Scalars:  make(map[ScalarKey]float32),
		Textures: make(map[TextureType]TextureSlot),
	}
}

// Color returns a shading color.
func (m *Material) Color(key ColorKey) (math.Vec3, bool) {
	c, ok := m.Colors[key]
	return c, ok
}

// Scalar returns a scalar shading value.
func (m *Material) Scalar(key ScalarKey) (float32, bool) {
	v, ok := m.Scalars[key]
	return v, ok
}

// Texture returns the binding for a texture slot.
func (m *Material) Texture(t TextureType) (TextureSlot, bool) {
	slot, ok := m.Textures[t]
	return slot, ok
}
