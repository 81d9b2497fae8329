package scene

import (
	"strings"

	"github.com/Faultbox/fbxscene/pkg/math"
)

// Channel limits of an output mesh.
const (
	MaxTextureCoords = 8
	MaxColorSets     = 8
)

// PrimitiveType is a bitmask of the face kinds a mesh contains.
type PrimitiveType uint8

const (
	PrimitivePoint    PrimitiveType = 1 << iota // 1 index
	PrimitiveLine                               // 2 indices
	PrimitiveTriangle                           // 3 indices
	PrimitivePolygon                            // more than 3
)

// PrimitiveFor returns the primitive kind of a face with n indices.
func PrimitiveFor(n int) PrimitiveType {
	switch n {
	case 1:
		return PrimitivePoint
	case 2:
		return PrimitiveLine
	case 3:
		return PrimitiveTriangle
	default:
		return PrimitivePolygon
	}
}

// String returns the set bits as "point|line|triangle|polygon".
func (p PrimitiveType) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	for _, b := range []struct {
		bit  PrimitiveType
		name string
	}{
		{PrimitivePoint, "point"},
		{PrimitiveLine, "line"},
		{PrimitiveTriangle, "triangle"},
		{PrimitivePolygon, "polygon"},
	} {
		if p&b.bit != 0 {
			parts = append(parts, b.name)
		}
	}
	return strings.Join(parts, "|")
}

// Face is one polygon; its indices address the mesh's vertex arrays.
type Face struct {
	Indices []uint32
}

// Mesh is a flat vertex/face bundle with one material.
type Mesh struct {
	Name     string
	Vertices []math.Vec3
	Faces    []Face

	// Optional arrays parallel to Vertices. Tangents and Bitangents are
	// either both set or both nil.
	Normals    []math.Vec3
	Tangents   []math.Vec3
	Bitangents []math.Vec3

	// Channels are densely packed from index 0.
	TextureCoords     [MaxTextureCoords][]math.Vec2
	TextureCoordNames [MaxTextureCoords]string
	Colors            [MaxColorSets][]math.Color4

	PrimitiveTypes PrimitiveType
	MaterialIndex  int
}

// NumUVChannels returns the number of leading non-empty UV channels.
func (m *Mesh) NumUVChannels() int {
	n := 0
	for n < MaxTextureCoords && len(m.TextureCoords[n]) > 0 {
		n++
	}
	return n
}

// NumColorChannels returns the number of leading non-empty color channels.
func (m *Mesh) NumColorChannels() int {
	n := 0
	for n < MaxColorSets && len(m.Colors[n]) > 0 {
		n++
	}
	return n
}

// HasTangentsAndBitangents reports whether a tangent basis is present.
func (m *Mesh) HasTangentsAndBitangents() bool {
	return len(m.Tangents) > 0 && len(m.Bitangents) > 0
}

// UVChannelByName returns the index of the UV channel called name.
func (m *Mesh) UVChannelByName(name string) (int, bool) {
	for i := 0; i < m.NumUVChannels(); i++ {
		if m.TextureCoordNames[i] == name {
			return i, true
		}
	}
	return 0, false
}
