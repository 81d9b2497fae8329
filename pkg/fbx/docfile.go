package fbx

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/fbxscene/pkg/math"
)

// docFile is the YAML description of a parsed document: what a tokenizer
// hands over once the binary/ASCII container has been read.
type docFile struct {
	Templates   map[string][]propertyEntry `yaml:"templates"`
	Objects     []objectEntry              `yaml:"objects"`
	Connections []connectionEntry          `yaml:"connections"`
}

type propertyEntry struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value any    `yaml:"value"`
}

type uvEntry struct {
	Name   string      `yaml:"name"`
	Coords [][]float32 `yaml:"coords"`
}

type objectEntry struct {
	ID         uint64          `yaml:"id"`
	Type       string          `yaml:"type"`
	Variant    string          `yaml:"variant"`
	Name       string          `yaml:"name"`
	Properties []propertyEntry `yaml:"properties"`

	// Material
	Shading string `yaml:"shading"`

	// Geometry
	Vertices  [][]float32   `yaml:"vertices"`
	Faces     []uint32      `yaml:"faces"`
	Normals   [][]float32   `yaml:"normals"`
	Tangents  [][]float32   `yaml:"tangents"`
	Binormals [][]float32   `yaml:"binormals"`
	UVs       []uvEntry     `yaml:"uvs"`
	Colors    [][][]float32 `yaml:"colors"`
	Materials []int32       `yaml:"materials"`

	// Texture
	RelativeFilename string    `yaml:"relative_filename"`
	UVTranslation    []float32 `yaml:"uv_translation"`
	UVScaling        []float32 `yaml:"uv_scaling"`
}

type connectionEntry struct {
	Src      uint64 `yaml:"src"`
	Dst      uint64 `yaml:"dst"`
	Property string `yaml:"property"`
}

// LoadFile reads a YAML document description from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse builds a Document from a YAML document description. Objects are
// added before connections so every connection between known objects links
// them.
func Parse(data []byte) (*Document, error) {
	var f docFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc := NewDocument()
	for class, entries := range f.Templates {
		if err := fillProperties(doc.Template(class), entries); err != nil {
			return nil, fmt.Errorf("%w: template %s: %v", ErrInvalidDocument, class, err)
		}
	}

	for _, e := range f.Objects {
		obj, err := buildObject(doc, e)
		if err != nil {
			return nil, fmt.Errorf("%w: object %d: %v", ErrInvalidDocument, e.ID, err)
		}
		if err := doc.Add(obj); err != nil {
			return nil, err
		}
	}

	for _, c := range f.Connections {
		if c.Property != "" {
			doc.ConnectProperty(c.Src, c.Dst, c.Property)
		} else {
			doc.Connect(c.Src, c.Dst)
		}
	}
	return doc, nil
}

func buildObject(doc *Document, e objectEntry) (Object, error) {
	props := NewPropertyTable(doc.templates[e.Type])
	if err := fillProperties(props, e.Properties); err != nil {
		return nil, err
	}

	switch e.Type {
	case ClassModel:
		return NewModel(e.ID, e.Name, props), nil
	case ClassMaterial:
		return NewMaterial(e.ID, e.Name, e.Shading, props), nil
	case ClassTexture:
		tex := NewTexture(e.ID, e.Name, e.RelativeFilename, props)
		scaling, translation := tex.UVScaling(), tex.UVTranslation()
		if e.UVScaling != nil {
			v, err := vec2(e.UVScaling)
			if err != nil {
				return nil, fmt.Errorf("uv_scaling: %w", err)
			}
			scaling = v
		}
		if e.UVTranslation != nil {
			v, err := vec2(e.UVTranslation)
			if err != nil {
				return nil, fmt.Errorf("uv_translation: %w", err)
			}
			translation = v
		}
		tex.SetUVTransform(scaling, translation)
		return tex, nil
	case ClassGeometry:
		return buildGeometry(e, props)
	default:
		return nil, fmt.Errorf("unknown object type %q", e.Type)
	}
}

func buildGeometry(e objectEntry, props *PropertyTable) (Object, error) {
	vertices, err := vec3s(e.Vertices)
	if err != nil {
		return nil, fmt.Errorf("vertices: %w", err)
	}

	switch e.Variant {
	case "", VariantMesh:
	case VariantShape:
		return NewShapeGeometry(e.ID, e.Name, props, vertices), nil
	default:
		return nil, fmt.Errorf("unknown geometry variant %q", e.Variant)
	}

	data := MeshData{
		Vertices:        vertices,
		FaceIndexCounts: e.Faces,
		MaterialIndices: e.Materials,
	}
	if data.Normals, err = vec3s(e.Normals); err != nil {
		return nil, fmt.Errorf("normals: %w", err)
	}
	if data.Tangents, err = vec3s(e.Tangents); err != nil {
		return nil, fmt.Errorf("tangents: %w", err)
	}
	if data.Binormals, err = vec3s(e.Binormals); err != nil {
		return nil, fmt.Errorf("binormals: %w", err)
	}
	for i, uv := range e.UVs {
		coords := make([]math.Vec2, 0, len(uv.Coords))
		for _, c := range uv.Coords {
			v, err := vec2(c)
			if err != nil {
				return nil, fmt.Errorf("uv channel %d: %w", i, err)
			}
			coords = append(coords, v)
		}
		data.UVs = append(data.UVs, UVChannel{Name: uv.Name, Coords: coords})
	}
	for i, channel := range e.Colors {
		colors := make([]math.Color4, 0, len(channel))
		for _, c := range channel {
			switch len(c) {
			case 3:
				colors = append(colors, math.Color4{R: c[0], G: c[1], B: c[2], A: 1})
			case 4:
				colors = append(colors, math.Color4{R: c[0], G: c[1], B: c[2], A: c[3]})
			default:
				return nil, fmt.Errorf("color channel %d: expected 3 or 4 components, got %d", i, len(c))
			}
		}
		data.Colors = append(data.Colors, colors)
	}
	return NewMeshGeometry(e.ID, e.Name, props, data), nil
}

// fillProperties converts entries using FBX property type names.
func fillProperties(t *PropertyTable, entries []propertyEntry) error {
	for _, p := range entries {
		switch strings.ToLower(p.Type) {
		case "color", "colorrgb", "vector3d", "vector", "lcl translation", "lcl rotation", "lcl scaling":
			nums, err := numbers(p.Value)
			if err != nil {
				return fmt.Errorf("property %q: %w", p.Name, err)
			}
			v, err := vec3(nums)
			if err != nil {
				return fmt.Errorf("property %q: %w", p.Name, err)
			}
			t.SetVec3(p.Name, v)
		case "vector2d":
			nums, err := numbers(p.Value)
			if err != nil {
				return fmt.Errorf("property %q: %w", p.Name, err)
			}
			v, err := vec2(nums)
			if err != nil {
				return fmt.Errorf("property %q: %w", p.Name, err)
			}
			t.SetVec2(p.Name, v)
		case "number", "double", "float", "real":
			f, ok := number(p.Value)
			if !ok {
				return fmt.Errorf("property %q: expected a number, got %v", p.Name, p.Value)
			}
			t.SetFloat(p.Name, f)
		case "int", "integer", "enum", "ulonglong":
			f, ok := number(p.Value)
			if !ok {
				return fmt.Errorf("property %q: expected an integer, got %v", p.Name, p.Value)
			}
			t.SetInt(p.Name, int64(f))
		case "bool":
			b, ok := p.Value.(bool)
			if !ok {
				return fmt.Errorf("property %q: expected a bool, got %v", p.Name, p.Value)
			}
			t.SetBool(p.Name, b)
		case "kstring", "string", "url":
			s, ok := p.Value.(string)
			if !ok {
				return fmt.Errorf("property %q: expected a string, got %v", p.Name, p.Value)
			}
			t.SetString(p.Name, s)
		default:
			return fmt.Errorf("property %q: unknown type %q", p.Name, p.Type)
		}
	}
	return nil
}

func number(v any) (float32, bool) {
	switch n := v.(type) {
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint64:
		return float32(n), true
	case float64:
		return float32(n), true
	}
	return 0, false
}

func numbers(v any) ([]float32, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of numbers, got %v", v)
	}
	out := make([]float32, 0, len(list))
	for _, item := range list {
		f, ok := number(item)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %v", item)
		}
		out = append(out, f)
	}
	return out, nil
}

func vec2(c []float32) (math.Vec2, error) {
	if len(c) != 2 {
		return math.Vec2{}, fmt.Errorf("expected 2 components, got %d", len(c))
	}
	return math.Vec2{X: c[0], Y: c[1]}, nil
}

func vec3(c []float32) (math.Vec3, error) {
	if len(c) != 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(c))
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func vec3s(list [][]float32) ([]math.Vec3, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]math.Vec3, 0, len(list))
	for _, c := range list {
		v, err := vec3(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
