package convert

import (
	"testing"

	"github.com/Faultbox/fbxscene/pkg/fbx"
	"github.com/Faultbox/fbxscene/pkg/math"
)

// testDoc builds documents for tests, failing the test on misuse.
type testDoc struct {
	t   *testing.T
	doc *fbx.Document
}

func newTestDoc(t *testing.T) *testDoc {
	t.Helper()
	return &testDoc{t: t, doc: fbx.NewDocument()}
}

func (d *testDoc) add(obj fbx.Object) {
	d.t.Helper()
	if err := d.doc.Add(obj); err != nil {
		d.t.Fatalf("adding %s %q: %v", obj.Class(), obj.Name(), err)
	}
}

// model adds a model connected under parent.
func (d *testDoc) model(id uint64, name string, parent uint64) *fbx.Model {
	d.t.Helper()
	m := fbx.NewModel(id, name, nil)
	d.add(m)
	d.doc.Connect(id, parent)
	return m
}

// mesh adds a mesh geometry attached to model.
func (d *testDoc) mesh(id uint64, name string, data fbx.MeshData, model uint64) *fbx.MeshGeometry {
	d.t.Helper()
	g := fbx.NewMeshGeometry(id, name, nil, data)
	d.add(g)
	d.doc.Connect(id, model)
	return g
}

// material adds a material as the next slot of model (0 for none).
func (d *testDoc) material(id uint64, name string, props *fbx.PropertyTable, model uint64) *fbx.Material {
	d.t.Helper()
	m := fbx.NewMaterial(id, name, "phong", props)
	d.add(m)
	if model != 0 {
		d.doc.Connect(id, model)
	}
	return m
}

// texture adds a texture bound to property of material.
func (d *testDoc) texture(id uint64, path, uvSet string, material uint64, property string) *fbx.Texture {
	d.t.Helper()
	props := fbx.NewPropertyTable(nil)
	if uvSet != "" {
		props.SetString("UVSet", uvSet)
	}
	tex := fbx.NewTexture(id, "tex", path, props)
	d.add(tex)
	d.doc.ConnectProperty(id, material, property)
	return tex
}

// polygons returns mesh data with one vertex per polygon corner.
func polygons(sizes ...uint32) fbx.MeshData {
	var total uint32
	for _, n := range sizes {
		total += n
	}
	vertices := make([]math.Vec3, total)
	for i := range vertices {
		vertices[i] = math.Vec3{X: float32(i)}
	}
	return fbx.MeshData{Vertices: vertices, FaceIndexCounts: sizes}
}

// withUVs adds UV channels with the given names to data.
func withUVs(data fbx.MeshData, names ...string) fbx.MeshData {
	for _, name := range names {
		data.UVs = append(data.UVs, fbx.UVChannel{
			Name:   name,
			Coords: make([]math.Vec2, len(data.Vertices)),
		})
	}
	return data
}

func fill(n int, v math.Vec3) []math.Vec3 {
	out := make([]math.Vec3, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func mustConverter(t *testing.T, doc *fbx.Document, opts Options) *converter {
	t.Helper()
	c, err := newConverter(doc, opts)
	if err != nil {
		t.Fatalf("newConverter: %v", err)
	}
	return c
}
