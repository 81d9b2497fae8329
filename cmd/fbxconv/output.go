package main

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/fbxscene/pkg/math"
	"github.com/Faultbox/fbxscene/pkg/scene"
)

// sceneFile is the serialized form of a scene. Fixed-size channel arrays are
// trimmed to the channels in use and map keys are plain strings so both YAML
// and TOML can carry it.
type sceneFile struct {
	Root      nodeFile       `yaml:"root" toml:"root"`
	Meshes    []meshFile     `yaml:"meshes,omitempty" toml:"meshes,omitempty"`
	Materials []materialFile `yaml:"materials,omitempty" toml:"materials,omitempty"`
}

type nodeFile struct {
	Name string `yaml:"name" toml:"name"`
	// Transform is omitted when it is the identity.
	Transform []float32  `yaml:"transform,omitempty,flow" toml:"transform,omitempty"`
	Meshes    []int      `yaml:"meshes,omitempty,flow" toml:"meshes,omitempty"`
	Children  []nodeFile `yaml:"children,omitempty" toml:"children,omitempty"`
}

type uvFile struct {
	Name   string       `yaml:"name,omitempty" toml:"name,omitempty"`
	Coords [][2]float32 `yaml:"coords,flow" toml:"coords"`
}

type meshFile struct {
	Name       string         `yaml:"name" toml:"name"`
	Primitives string         `yaml:"primitives" toml:"primitives"`
	Material   int            `yaml:"material" toml:"material"`
	Vertices   [][3]float32   `yaml:"vertices,flow" toml:"vertices"`
	Faces      [][]uint32     `yaml:"faces,flow" toml:"faces"`
	Normals    [][3]float32   `yaml:"normals,omitempty,flow" toml:"normals,omitempty"`
	Tangents   [][3]float32   `yaml:"tangents,omitempty,flow" toml:"tangents,omitempty"`
	Bitangents [][3]float32   `yaml:"bitangents,omitempty,flow" toml:"bitangents,omitempty"`
	UVs        []uvFile       `yaml:"uvs,omitempty" toml:"uvs,omitempty"`
	Colors     [][][4]float32 `yaml:"colors,omitempty,flow" toml:"colors,omitempty"`
}

type textureFile struct {
	Path        string     `yaml:"path" toml:"path"`
	UVIndex     int        `yaml:"uv_index" toml:"uv_index"`
	Scale       [2]float32 `yaml:"scale,flow" toml:"scale"`
	Translation [2]float32 `yaml:"translation,flow" toml:"translation"`
}

type materialFile struct {
	Name     string                 `yaml:"name" toml:"name"`
	Shading  string                 `yaml:"shading,omitempty" toml:"shading,omitempty"`
	Colors   map[string][3]float32  `yaml:"colors,omitempty" toml:"colors,omitempty"`
	Scalars  map[string]float32     `yaml:"scalars,omitempty" toml:"scalars,omitempty"`
	Textures map[string]textureFile `yaml:"textures,omitempty" toml:"textures,omitempty"`
}

// writeScene encodes s to w in the given format.
func writeScene(w io.Writer, s *scene.Scene, format string) error {
	out := newSceneFile(s)
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(out)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func newSceneFile(s *scene.Scene) sceneFile {
	out := sceneFile{Root: newNodeFile(s.Root)}
	for _, m := range s.Meshes {
		out.Meshes = append(out.Meshes, newMeshFile(m))
	}
	for _, m := range s.Materials {
		out.Materials = append(out.Materials, newMaterialFile(m))
	}
	return out
}

func newNodeFile(n *scene.Node) nodeFile {
	out := nodeFile{Name: n.Name, Meshes: n.Meshes}
	if !n.Transform.IsIdentity() {
		out.Transform = n.Transform[:]
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, newNodeFile(c))
	}
	return out
}

func newMeshFile(m *scene.Mesh) meshFile {
	out := meshFile{
		Name:       m.Name,
		Primitives: m.PrimitiveTypes.String(),
		Material:   m.MaterialIndex,
		Vertices:   vec3s(m.Vertices),
		Normals:    vec3s(m.Normals),
		Tangents:   vec3s(m.Tangents),
		Bitangents: vec3s(m.Bitangents),
	}
	for _, f := range m.Faces {
		out.Faces = append(out.Faces, f.Indices)
	}
	for i := 0; i < m.NumUVChannels(); i++ {
		uv := uvFile{Name: m.TextureCoordNames[i]}
		for _, c := range m.TextureCoords[i] {
			uv.Coords = append(uv.Coords, [2]float32{c.X, c.Y})
		}
		out.UVs = append(out.UVs, uv)
	}
	for i := 0; i < m.NumColorChannels(); i++ {
		var set [][4]float32
		for _, c := range m.Colors[i] {
			set = append(set, [4]float32{c.R, c.G, c.B, c.A})
		}
		out.Colors = append(out.Colors, set)
	}
	return out
}

func newMaterialFile(m *scene.Material) materialFile {
	out := materialFile{Name: m.Name, Shading: m.ShadingModel}
	if len(m.Colors) > 0 {
		out.Colors = make(map[string][3]float32, len(m.Colors))
		for k, c := range m.Colors {
			out.Colors[string(k)] = [3]float32{c.X, c.Y, c.Z}
		}
	}
	if len(m.Scalars) > 0 {
		out.Scalars = make(map[string]float32, len(m.Scalars))
		for k, v := range m.Scalars {
			out.Scalars[string(k)] = v
		}
	}
	if len(m.Textures) > 0 {
		out.Textures = make(map[string]textureFile, len(m.Textures))
		for k, t := range m.Textures {
			out.Textures[k.String()] = textureFile{
				Path:        t.Path,
				UVIndex:     t.UVIndex,
				Scale:       [2]float32{t.Transform.Scale.X, t.Transform.Scale.Y},
				Translation: [2]float32{t.Transform.Translation.X, t.Transform.Translation.Y},
			}
		}
	}
	return out
}

func vec3s(vs []math.Vec3) [][3]float32 {
	if len(vs) == 0 {
		return nil
	}
	out := make([][3]float32, len(vs))
	for i, v := range vs {
		out[i] = [3]float32{v.X, v.Y, v.Z}
	}
	return out
}
