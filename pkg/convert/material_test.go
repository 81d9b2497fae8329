package convert

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/fbxscene/pkg/fbx"
	"github.com/Faultbox/fbxscene/pkg/math"
	"github.com/Faultbox/fbxscene/pkg/scene"
)

func TestMaterialDedupAcrossMeshes(t *testing.T) {
	d := newTestDoc(t)
	d.model(1, "A", fbx.RootID)
	d.model(2, "B", fbx.RootID)
	d.mesh(11, "MeshA", polygons(3), 1)
	d.mesh(12, "MeshB", polygons(4), 2)
	d.material(20, "Shared", nil, 1)
	d.doc.Connect(20, 2)

	s, _, err := Convert(d.doc, DefaultOptions())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(s.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(s.Meshes))
	}
	if s.Meshes[0].MaterialIndex != s.Meshes[1].MaterialIndex {
		t.Errorf("material indices differ: %d vs %d", s.Meshes[0].MaterialIndex, s.Meshes[1].MaterialIndex)
	}
	if len(s.Materials) != 1 || s.Materials[0].Name != "Shared" {
		t.Errorf("expected exactly one material named Shared, got %d", len(s.Materials))
	}
}

func TestMaterialSlotSelection(t *testing.T) {
	data := polygons(3, 3)
	data.MaterialIndices = []int32{1, 0}

	d := newTestDoc(t)
	d.model(1, "Model", fbx.RootID)
	d.mesh(2, "Mesh", data, 1)
	d.material(10, "First", nil, 1)
	d.material(11, "Second", nil, 1)

	s, _, err := Convert(d.doc, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Materials[s.Meshes[0].MaterialIndex].Name; got != "Second" {
		t.Errorf("mesh material = %q, want Second (first face's slot)", got)
	}
	if len(s.Materials) != 1 {
		t.Errorf("multi-material meshes are not split; expected 1 material, got %d", len(s.Materials))
	}
}

func TestOutOfRangeSlotUsesDefaultMaterial(t *testing.T) {
	data := polygons(3)
	data.MaterialIndices = []int32{2}
	other := polygons(3)
	other.MaterialIndices = []int32{-1}

	d := newTestDoc(t)
	d.model(1, "Model", fbx.RootID)
	d.mesh(2, "Mesh", data, 1)
	d.mesh(3, "Other", other, 1)
	d.material(10, "Only", nil, 1)

	c := mustConverter(t, d.doc, DefaultOptions())
	if err := c.convertRootNode(); err != nil {
		t.Fatal(err)
	}

	def := c.defaultMaterial()
	if def != c.defaultMaterial() {
		t.Error("default material should be a singleton")
	}
	for i, m := range c.meshes {
		if m.MaterialIndex != def {
			t.Errorf("mesh %d material = %d, want default %d", i, m.MaterialIndex, def)
		}
	}
	if len(c.materials) != 1 {
		t.Errorf("expected only the default material, got %d", len(c.materials))
	}

	mat := c.materials[def]
	if mat.Name != DefaultMaterialName {
		t.Errorf("default material name = %q", mat.Name)
	}
	if diffuse, _ := mat.Color(scene.ColorDiffuse); diffuse != math.Gray(0.8) {
		t.Errorf("default diffuse = %v", diffuse)
	}
	if got := c.diag.Count(zapcore.ErrorLevel); got != 2 {
		t.Errorf("expected 2 out-of-bounds errors, got %d:\n%s", got, c.diag)
	}
	if !c.diag.Contains("material index out of bounds") {
		t.Errorf("missing out-of-bounds diagnostic:\n%s", c.diag)
	}
}

func TestShadingProperties(t *testing.T) {
	red := math.Vec3{X: 1}
	blue := math.Vec3{Z: 1}

	tests := []struct {
		name         string
		setup        func(p *fbx.PropertyTable)
		opts         Options
		wantColors   map[scene.ColorKey]math.Vec3
		wantScalars  map[scene.ScalarKey]float32
		missingColor []scene.ColorKey
	}{
		{
			name: "diffuse duplicated into emissive",
			setup: func(p *fbx.PropertyTable) {
				p.SetVec3("DiffuseColor", red)
			},
			opts: DefaultOptions(),
			wantColors: map[scene.ColorKey]math.Vec3{
				scene.ColorDiffuse:  red,
				scene.ColorEmissive: red,
			},
		},
		{
			name: "true emissive wins",
			setup: func(p *fbx.PropertyTable) {
				p.SetVec3("DiffuseColor", red)
				p.SetVec3("EmissiveColor", blue)
			},
			opts: DefaultOptions(),
			wantColors: map[scene.ColorKey]math.Vec3{
				scene.ColorDiffuse:  red,
				scene.ColorEmissive: blue,
			},
		},
		{
			name: "duplication disabled",
			setup: func(p *fbx.PropertyTable) {
				p.SetVec3("DiffuseColor", red)
			},
			opts:         Options{},
			wantColors:   map[scene.ColorKey]math.Vec3{scene.ColorDiffuse: red},
			missingColor: []scene.ColorKey{scene.ColorEmissive},
		},
		{
			name: "all keys",
			setup: func(p *fbx.PropertyTable) {
				p.SetVec3("Ambient", blue)
				p.SetVec3("SpecularColor", red)
				p.SetFloat("SpecularFactor", 0.5)
				p.SetFloat("Opacity", 0.75)
				p.SetFloat("Reflectivity", 0.1)
				p.SetFloat("Shininess", 2)
				p.SetFloat("ShininessExponent", 32)
			},
			opts: DefaultOptions(),
			wantColors: map[scene.ColorKey]math.Vec3{
				scene.ColorAmbient:  blue,
				scene.ColorSpecular: {X: 0.5},
			},
			wantScalars: map[scene.ScalarKey]float32{
				scene.ScalarOpacity:           0.75,
				scene.ScalarReflectivity:      0.1,
				scene.ScalarShininessStrength: 2,
				scene.ScalarShininess:         32,
			},
			missingColor: []scene.ColorKey{scene.ColorDiffuse, scene.ColorEmissive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := fbx.NewPropertyTable(nil)
			tt.setup(props)

			d := newTestDoc(t)
			mat := d.material(10, "Mat", props, 0)

			c := mustConverter(t, d.doc, tt.opts)
			out := c.materials[c.convertMaterial(mat, nil)]

			for key, want := range tt.wantColors {
				if got, ok := out.Color(key); !ok || got != want {
					t.Errorf("color %s = %v, %v; want %v", key, got, ok, want)
				}
			}
			for key, want := range tt.wantScalars {
				if got, ok := out.Scalar(key); !ok || got != want {
					t.Errorf("scalar %s = %v, %v; want %v", key, got, ok, want)
				}
			}
			for _, key := range tt.missingColor {
				if _, ok := out.Color(key); ok {
					t.Errorf("color %s should be absent", key)
				}
			}
			if len(tt.wantScalars) == 0 && len(out.Scalars) != 0 {
				t.Errorf("unexpected scalars %v", out.Scalars)
			}
		})
	}
}

func TestTextureSlots(t *testing.T) {
	d := newTestDoc(t)
	mat := d.material(10, "Mat", nil, 0)
	for i, ts := range textureSlots {
		d.texture(uint64(100+i), `maps\`+ts.slot.String()+".png", "", 10, ts.property)
	}
	// Unknown properties are not texture slots.
	d.texture(200, "ignored.png", "", 10, "VectorDisplacementColor")

	tex, err := d.doc.Object(100)
	if err != nil {
		t.Fatal(err)
	}
	tex.(*fbx.Texture).SetUVTransform(math.Vec2{X: 2, Y: 3}, math.Vec2{X: 0.5, Y: 0.25})

	c := mustConverter(t, d.doc, DefaultOptions())
	out := c.materials[c.convertMaterial(mat, nil)]

	if len(out.Textures) != 9 {
		t.Fatalf("expected 9 texture slots, got %d", len(out.Textures))
	}
	for _, ts := range textureSlots {
		slot, ok := out.Texture(ts.slot)
		if !ok {
			t.Errorf("missing slot %s", ts.slot)
			continue
		}
		if want := "maps/" + ts.slot.String() + ".png"; slot.Path != want {
			t.Errorf("slot %s path = %q, want %q", ts.slot, slot.Path, want)
		}
		if slot.UVIndex != 0 {
			t.Errorf("slot %s UV index = %d, want 0", ts.slot, slot.UVIndex)
		}
	}

	diffuse, _ := out.Texture(scene.TextureDiffuse)
	want := scene.UVTransform{Scale: math.Vec2{X: 2, Y: 3}, Translation: math.Vec2{X: 0.5, Y: 0.25}}
	if diffuse.Transform != want {
		t.Errorf("diffuse transform = %+v, want %+v", diffuse.Transform, want)
	}
	bump, _ := out.Texture(scene.TextureHeight)
	if bump.Transform.Scale != (math.Vec2{X: 1, Y: 1}) {
		t.Errorf("default UV scale = %v, want (1, 1)", bump.Transform.Scale)
	}
}

// sharedMaterialDoc builds two models whose meshes share material 20, with a
// diffuse texture requesting uvSet. Mesh A is converted first.
func sharedMaterialDoc(t *testing.T, uvSet string, aChannels, bChannels []string) *fbx.Document {
	d := newTestDoc(t)
	d.model(1, "A", fbx.RootID)
	d.model(2, "B", fbx.RootID)
	d.mesh(11, "MeshA", withUVs(polygons(3), aChannels...), 1)
	d.mesh(12, "MeshB", withUVs(polygons(3), bChannels...), 2)
	d.material(20, "Shared", nil, 1)
	d.doc.Connect(20, 2)
	d.texture(30, "albedo.png", uvSet, 20, "DiffuseColor")
	return d.doc
}

func TestUVChannelByName(t *testing.T) {
	tests := []struct {
		name        string
		uvSet       string
		a, b        []string
		wantIndex   int
		wantWarning bool
	}{
		{
			name:      "found in first mesh",
			uvSet:     "UV2",
			a:         []string{"UVMap", "UV2"},
			b:         []string{"UVMap"},
			wantIndex: 1,
		},
		{
			// The material is converted while the first mesh is pending, so
			// a later mesh carrying the channel is never consulted.
			name:        "found only in later mesh",
			uvSet:       "UV2",
			a:           []string{"UVMap"},
			b:           []string{"UVMap", "UV2"},
			wantIndex:   0,
			wantWarning: true,
		},
		{
			name:        "present in neither mesh",
			uvSet:       "Lightmap",
			a:           []string{"UVMap", "UV2"},
			b:           []string{"UVMap"},
			wantIndex:   0,
			wantWarning: true,
		},
		{
			name:      "default set",
			uvSet:     "default",
			a:         []string{"UVMap", "UV2"},
			b:         []string{"UVMap"},
			wantIndex: 0,
		},
		{
			name:      "no set requested",
			uvSet:     "",
			a:         []string{"UVMap", "UV2"},
			wantIndex: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sharedMaterialDoc(t, tt.uvSet, tt.a, tt.b)

			s, diag, err := Convert(doc, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if len(s.Materials) != 1 {
				t.Fatalf("expected 1 material, got %d", len(s.Materials))
			}
			slot, ok := s.Materials[0].Texture(scene.TextureDiffuse)
			if !ok {
				t.Fatal("missing diffuse texture")
			}
			if slot.UVIndex != tt.wantIndex {
				t.Errorf("UV index = %d, want %d", slot.UVIndex, tt.wantIndex)
			}
			if got := diag.Contains("failed to resolve UV channel"); got != tt.wantWarning {
				t.Errorf("unresolved warning = %v, want %v:\n%s", got, tt.wantWarning, diag)
			}
		})
	}
}

func TestResolveUVChannelFirstFoundWins(t *testing.T) {
	a := &scene.Mesh{Name: "A"}
	a.TextureCoords[0], a.TextureCoordNames[0] = []math.Vec2{{}}, "UVMap"
	a.TextureCoords[1], a.TextureCoordNames[1] = []math.Vec2{{}}, "UV2"

	b := &scene.Mesh{Name: "B"}
	b.TextureCoords[0], b.TextureCoordNames[0] = []math.Vec2{{}}, "UV2"

	none := &scene.Mesh{Name: "None"}

	c := mustConverter(t, fbx.NewDocument(), DefaultOptions())
	if got := c.resolveUVChannel("UV2", 30, []*scene.Mesh{none, a, b}); got != 1 {
		t.Errorf("resolveUVChannel = %d, want 1 (first match)", got)
	}
	if !c.diag.Contains("different positions") {
		t.Errorf("expected conflict warning:\n%s", c.diag)
	}
	if c.diag.Contains("failed to resolve") {
		t.Error("a resolved channel must not log the fallback warning")
	}

	c = mustConverter(t, fbx.NewDocument(), DefaultOptions())
	if got := c.resolveUVChannel("UV2", 30, []*scene.Mesh{a, a}); got != 1 {
		t.Errorf("resolveUVChannel = %d, want 1", got)
	}
	if len(c.diag.Entries()) != 0 {
		t.Errorf("agreeing meshes should not warn:\n%s", c.diag)
	}
}
