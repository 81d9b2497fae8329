package fbx

import "github.com/Faultbox/fbxscene/pkg/math"

// Per-vertex channel limits of the format.
const (
	MaxUVChannels    = 8
	MaxColorChannels = 8
)

// Geometry variants.
const (
	VariantMesh  = "Mesh"
	VariantShape = "Shape"
)

// Geometry is any object of class Geometry. Only MeshGeometry carries
// renderable data; other variants are reported by Variant.
type Geometry interface {
	Object
	Variant() string
}

// UVChannel is one named set of texture coordinates.
type UVChannel struct {
	Name   string
	Coords []math.Vec2
}

// MeshData holds the expanded polygon-vertex buffers of a mesh geometry.
// Vertices are stored per polygon corner, so the face index counts sum to the
// vertex count.
type MeshData struct {
	Vertices        []math.Vec3
	FaceIndexCounts []uint32
	Normals         []math.Vec3
	Tangents        []math.Vec3
	Binormals       []math.Vec3
	UVs             []UVChannel
	Colors          [][]math.Color4
	// MaterialIndices holds one material slot per face, or is empty when the
	// whole mesh uses slot 0.
	MaterialIndices []int32
}

// MeshGeometry is a polygon mesh geometry.
type MeshGeometry struct {
	object
	data MeshData
}

// NewMeshGeometry creates a mesh geometry from its buffers.
func NewMeshGeometry(id uint64, name string, props *PropertyTable, data MeshData) *MeshGeometry {
	return &MeshGeometry{object: newObject(id, name, props), data: data}
}

// Class returns ClassGeometry.
func (g *MeshGeometry) Class() string { return ClassGeometry }

// Variant returns VariantMesh.
func (g *MeshGeometry) Variant() string { return VariantMesh }

// Vertices returns the polygon-vertex positions.
func (g *MeshGeometry) Vertices() []math.Vec3 { return g.data.Vertices }

// FaceIndexCounts returns the number of vertices of each face, in order.
func (g *MeshGeometry) FaceIndexCounts() []uint32 { return g.data.FaceIndexCounts }

// Normals returns per-vertex normals, or nil.
func (g *MeshGeometry) Normals() []math.Vec3 { return g.data.Normals }

// Tangents returns per-vertex tangents, or nil.
func (g *MeshGeometry) Tangents() []math.Vec3 { return g.data.Tangents }

// Binormals returns per-vertex binormals, or nil.
func (g *MeshGeometry) Binormals() []math.Vec3 { return g.data.Binormals }

// TextureCoords returns UV channel i, or nil when it does not exist.
func (g *MeshGeometry) TextureCoords(i int) []math.Vec2 {
	if i < 0 || i >= len(g.data.UVs) || i >= MaxUVChannels {
		return nil
	}
	return g.data.UVs[i].Coords
}

// TextureCoordChannelName returns the name of UV channel i, or "".
func (g *MeshGeometry) TextureCoordChannelName(i int) string {
	if i < 0 || i >= len(g.data.UVs) || i >= MaxUVChannels {
		return ""
	}
	return g.data.UVs[i].Name
}

// VertexColors returns color channel i, or nil when it does not exist.
func (g *MeshGeometry) VertexColors(i int) []math.Color4 {
	if i < 0 || i >= len(g.data.Colors) || i >= MaxColorChannels {
		return nil
	}
	return g.data.Colors[i]
}

// MaterialIndices returns the per-face material slots, or nil.
func (g *MeshGeometry) MaterialIndices() []int32 { return g.data.MaterialIndices }

// ShapeGeometry is a blend shape target. It has no faces of its own.
type ShapeGeometry struct {
	object
	Vertices []math.Vec3
}

// NewShapeGeometry creates a shape geometry.
func NewShapeGeometry(id uint64, name string, props *PropertyTable, vertices []math.Vec3) *ShapeGeometry {
	return &ShapeGeometry{object: newObject(id, name, props), Vertices: vertices}
}

// Class returns ClassGeometry.
func (g *ShapeGeometry) Class() string { return ClassGeometry }

// Variant returns VariantShape.
func (g *ShapeGeometry) Variant() string { return VariantShape }
