package convert

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fbxscene/pkg/encoding"
	"github.com/Faultbox/fbxscene/pkg/fbx"
	"github.com/Faultbox/fbxscene/pkg/math"
	"github.com/Faultbox/fbxscene/pkg/scene"
)

const opMaterial = "convert material"

// uvSetDefault is the UVSet value meaning "whatever channel 0 is".
const uvSetDefault = "default"

// defaultDiffuse is the color of the shared fallback material.
var defaultDiffuse = math.Gray(0.8)

// textureSlots maps material properties to texture semantics.
var textureSlots = []struct {
	property string
	slot     scene.TextureType
}{
	{"DiffuseColor", scene.TextureDiffuse},
	{"AmbientColor", scene.TextureAmbient},
	{"EmissiveColor", scene.TextureEmissive},
	{"SpecularColor", scene.TextureSpecular},
	{"TransparentColor", scene.TextureOpacity},
	{"ReflectionColor", scene.TextureReflection},
	{"DisplacementColor", scene.TextureDisplacement},
	{"NormalMap", scene.TextureNormals},
	{"Bump", scene.TextureHeight},
}

// resolveMaterialForMesh sets out.MaterialIndex from the model's material
// slot, substituting the default material for slots the model lacks.
func (c *converter) resolveMaterialForMesh(out *scene.Mesh, model *fbx.Model, geo *fbx.MeshGeometry, slot int) {
	mats := model.Materials()
	if slot < 0 || slot >= len(mats) {
		c.diag.fail(opMaterial, geo.ID(), "material index out of bounds, using default material",
			zap.String("geometry", geo.Name()),
			zap.String("model", model.Name()),
			zap.Int("slot", slot),
			zap.Int("slots", len(mats)))
		out.MaterialIndex = c.defaultMaterial()
		return
	}
	out.MaterialIndex = c.convertMaterial(mats[slot], out)
}

// defaultMaterial returns the index of the shared fallback material,
// creating it on first use.
func (c *converter) defaultMaterial() int {
	if c.defaultMaterialIndex >= 0 {
		return c.defaultMaterialIndex
	}
	mat := scene.NewMaterial(DefaultMaterialName)
	mat.Colors[scene.ColorDiffuse] = defaultDiffuse

	c.defaultMaterialIndex = len(c.materials)
	c.materials = append(c.materials, mat)
	return c.defaultMaterialIndex
}

// convertMaterial returns the index of the material converted from mat,
// converting it on first use. pending is the mesh that asked for it, not yet
// in the mesh list; it may be nil.
func (c *converter) convertMaterial(mat *fbx.Material, pending *scene.Mesh) int {
	if index, ok := c.materialsConverted[mat.ID()]; ok {
		return index
	}

	index := len(c.materials)
	out := scene.NewMaterial(c.name(mat.Name()))
	out.ShadingModel = mat.ShadingModel()
	c.setShadingProperties(out, mat.Props())
	c.setTextureProperties(out, index, mat, pending)

	c.materials = append(c.materials, out)
	c.materialsConverted[mat.ID()] = index
	return index
}

func (c *converter) setShadingProperties(out *scene.Material, props *fbx.PropertyTable) {
	if diffuse, ok := ResolveColor(props, "Diffuse"); ok {
		out.Colors[scene.ColorDiffuse] = diffuse
		if c.opts.DiffuseAsEmissive {
			out.Colors[scene.ColorEmissive] = diffuse
		}
	}
	if emissive, ok := ResolveColor(props, "Emissive"); ok {
		out.Colors[scene.ColorEmissive] = emissive
	}
	if ambient, ok := ResolveColor(props, "Ambient"); ok {
		out.Colors[scene.ColorAmbient] = ambient
	}
	if specular, ok := ResolveColor(props, "Specular"); ok {
		out.Colors[scene.ColorSpecular] = specular
	}

	if v, ok := Get[float32](props, "Opacity"); ok {
		out.Scalars[scene.ScalarOpacity] = v
	}
	if v, ok := Get[float32](props, "Reflectivity"); ok {
		out.Scalars[scene.ScalarReflectivity] = v
	}
	if v, ok := Get[float32](props, "Shininess"); ok {
		out.Scalars[scene.ScalarShininessStrength] = v
	}
	if v, ok := Get[float32](props, "ShininessExponent"); ok {
		out.Scalars[scene.ScalarShininess] = v
	}
}

func (c *converter) setTextureProperties(out *scene.Material, index int, mat *fbx.Material, pending *scene.Mesh) {
	for _, ts := range textureSlots {
		tex, ok := mat.Texture(ts.property)
		if !ok {
			continue
		}

		slot := scene.TextureSlot{
			Path: encoding.NormalizePath(tex.RelativeFilename()),
			Transform: scene.UVTransform{
				Scale:       tex.UVScaling(),
				Translation: tex.UVTranslation(),
			},
		}
		if uvSet, ok := Get[string](tex.Props(), "UVSet"); ok && uvSet != "" && uvSet != uvSetDefault {
			slot.UVIndex = c.resolveUVChannel(uvSet, tex.ID(), c.meshesUsingMaterial(index, pending))
		}
		out.Textures[ts.slot] = slot
	}
}

// meshesUsingMaterial lists converted meshes referencing the material index,
// in mesh list order, followed by pending.
func (c *converter) meshesUsingMaterial(index int, pending *scene.Mesh) []*scene.Mesh {
	var meshes []*scene.Mesh
	for _, m := range c.meshes {
		if m.MaterialIndex == index {
			meshes = append(meshes, m)
		}
	}
	if pending != nil {
		meshes = append(meshes, pending)
	}
	return meshes
}

// resolveUVChannel finds the channel named uvSet among candidates. The first
// match wins; a later mesh placing the name elsewhere only logs a warning.
// Without any match it falls back to channel 0.
func (c *converter) resolveUVChannel(uvSet string, textureID uint64, candidates []*scene.Mesh) int {
	index := -1
	for _, m := range candidates {
		ch, ok := m.UVChannelByName(uvSet)
		if !ok {
			c.diag.debug("mesh using this material has no such UV channel",
				zap.String("uv_set", uvSet), zap.String("mesh", m.Name))
			continue
		}
		if index == -1 {
			index = ch
			continue
		}
		if ch != index {
			c.diag.warn(opMaterial, textureID, "UV channel appears at different positions in meshes, results will be wrong",
				zap.String("uv_set", uvSet), zap.Int("kept", index), zap.Int("found", ch))
		}
	}

	if index == -1 {
		c.diag.warn(opMaterial, textureID, "failed to resolve UV channel, using first UV channel",
			zap.String("uv_set", uvSet))
		return 0
	}
	return index
}
