package convert

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fbxscene/pkg/fbx"
	"github.com/Faultbox/fbxscene/pkg/math"
	"github.com/Faultbox/fbxscene/pkg/scene"
)

const opMesh = "convert mesh"

// convertMesh returns the index of the mesh converted from geo, converting it
// on first use. ok is false when geo produces no mesh.
func (c *converter) convertMesh(geo fbx.Geometry, model *fbx.Model) (index int, ok bool, err error) {
	if index, ok := c.meshesConverted[geo.ID()]; ok {
		return index, true, nil
	}

	mesh, isMesh := geo.(*fbx.MeshGeometry)
	if !isMesh {
		c.diag.warn(opMesh, geo.ID(), "ignoring unrecognized geometry variant",
			zap.String("geometry", geo.Name()), zap.String("variant", geo.Variant()))
		return 0, false, nil
	}
	return c.convertMeshGeometry(mesh, model)
}

func (c *converter) convertMeshGeometry(geo *fbx.MeshGeometry, model *fbx.Model) (int, bool, error) {
	vertices := geo.Vertices()
	faces := geo.FaceIndexCounts()
	if len(vertices) == 0 || len(faces) == 0 {
		c.diag.warn(opMesh, geo.ID(), "ignoring empty geometry",
			zap.String("geometry", geo.Name()),
			zap.Int("vertices", len(vertices)),
			zap.Int("faces", len(faces)))
		return 0, false, nil
	}

	out := &scene.Mesh{
		Name:     c.name(geo.Name()),
		Vertices: append([]math.Vec3(nil), vertices...),
	}

	if err := c.expandFaces(out, geo); err != nil {
		return 0, false, err
	}
	if len(out.Faces) == 0 {
		c.diag.warn(opMesh, geo.ID(), "ignoring geometry without usable faces",
			zap.String("geometry", geo.Name()))
		return 0, false, nil
	}
	if err := c.copyNormalsAndTangents(out, geo); err != nil {
		return 0, false, err
	}
	if err := c.copyChannels(out, geo); err != nil {
		return 0, false, err
	}

	slot := 0
	if mindices := geo.MaterialIndices(); len(mindices) > 0 {
		slot = int(mindices[0])
		for _, m := range mindices[1:] {
			if m != mindices[0] {
				c.diag.debug("mesh uses several materials, keeping the first",
					zap.String("geometry", geo.Name()), zap.Int32("material", mindices[0]))
				break
			}
		}
	}
	c.resolveMaterialForMesh(out, model, geo, slot)

	index := len(c.meshes)
	c.meshes = append(c.meshes, out)
	c.meshesConverted[geo.ID()] = index
	return index, true, nil
}

// expandFaces gives every face its own run of fresh indices, starting at 0
// and advancing by the face size, and accumulates the primitive bitmask.
func (c *converter) expandFaces(out *scene.Mesh, geo *fbx.MeshGeometry) error {
	cursor := uint32(0)
	for i, n := range geo.FaceIndexCounts() {
		if n == 0 {
			c.diag.warn(opMesh, geo.ID(), "skipping face without vertices", zap.Int("face", i))
			continue
		}
		if uint64(cursor)+uint64(n) > uint64(len(out.Vertices)) {
			return violation(opMesh, geo.ID(),
				"face %d needs vertices up to %d but geometry %q has %d",
				i, uint64(cursor)+uint64(n), geo.Name(), len(out.Vertices))
		}

		face := scene.Face{Indices: make([]uint32, n)}
		for j := range face.Indices {
			face.Indices[j] = cursor + uint32(j)
		}
		out.Faces = append(out.Faces, face)
		out.PrimitiveTypes |= scene.PrimitiveFor(int(n))
		cursor += n
	}
	return nil
}

// copyNormalsAndTangents copies normals, and tangents with bitangents. Missing
// bitangents are derived as normal x tangent; tangents without normals are
// dropped.
func (c *converter) copyNormalsAndTangents(out *scene.Mesh, geo *fbx.MeshGeometry) error {
	count := len(out.Vertices)

	if normals := geo.Normals(); len(normals) > 0 {
		if len(normals) != count {
			return violation(opMesh, geo.ID(), "%d normals for %d vertices", len(normals), count)
		}
		out.Normals = append([]math.Vec3(nil), normals...)
	}

	tangents := geo.Tangents()
	if len(tangents) == 0 {
		return nil
	}
	if len(tangents) != count {
		return violation(opMesh, geo.ID(), "%d tangents for %d vertices", len(tangents), count)
	}

	binormals := geo.Binormals()
	switch {
	case len(binormals) > 0:
		if len(binormals) != count {
			return violation(opMesh, geo.ID(), "%d binormals for %d vertices", len(binormals), count)
		}
		out.Tangents = append([]math.Vec3(nil), tangents...)
		out.Bitangents = append([]math.Vec3(nil), binormals...)
	case len(out.Normals) > 0:
		out.Tangents = append([]math.Vec3(nil), tangents...)
		out.Bitangents = make([]math.Vec3, count)
		for i := range out.Bitangents {
			out.Bitangents[i] = out.Normals[i].Cross(tangents[i])
		}
	default:
		c.diag.debug("dropping tangents of geometry without normals", zap.String("geometry", geo.Name()))
	}
	return nil
}

// copyChannels copies UV and vertex color channels, stopping at the first
// empty channel of each kind.
func (c *converter) copyChannels(out *scene.Mesh, geo *fbx.MeshGeometry) error {
	count := len(out.Vertices)

	for i := 0; i < scene.MaxTextureCoords && i < fbx.MaxUVChannels; i++ {
		uvs := geo.TextureCoords(i)
		if len(uvs) == 0 {
			break
		}
		if len(uvs) != count {
			return violation(opMesh, geo.ID(), "UV channel %d has %d coordinates for %d vertices", i, len(uvs), count)
		}
		out.TextureCoords[i] = append([]math.Vec2(nil), uvs...)
		out.TextureCoordNames[i] = geo.TextureCoordChannelName(i)
	}

	for i := 0; i < scene.MaxColorSets && i < fbx.MaxColorChannels; i++ {
		colors := geo.VertexColors(i)
		if len(colors) == 0 {
			break
		}
		if len(colors) != count {
			return violation(opMesh, geo.ID(), "color channel %d has %d colors for %d vertices", i, len(colors), count)
		}
		out.Colors[i] = append([]math.Color4(nil), colors...)
	}
	return nil
}
