// Package convert turns a parsed fbx.Document into a scene.Scene.
//
// A conversion walks the document's connection graph once from the root,
// creating a node per model, a mesh per distinct geometry and a material per
// distinct source material. Skippable problems are recorded as Diagnostics;
// only inconsistent buffers or a missing document fail the call.
package convert

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fbxscene/pkg/encoding"
	"github.com/Faultbox/fbxscene/pkg/fbx"
	"github.com/Faultbox/fbxscene/pkg/scene"
)

// Fixed names of synthesized scene entries.
const (
	RootNodeName        = "RootNode"
	DefaultMaterialName = "DefaultMaterial"
)

// Options controls a conversion.
type Options struct {
	// ReadAllMaterials also converts materials no visited mesh references.
	ReadAllMaterials bool
	// DiffuseAsEmissive copies the diffuse color into the emissive slot when
	// the material has no emissive color of its own.
	DiffuseAsEmissive bool
	// Charset decodes object names that are not valid UTF-8 (see encoding.Lookup).
	Charset string
	// Logger receives every diagnostic; nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the default options: diffuse mirrored into emissive.
func DefaultOptions() Options {
	return Options{DiffuseAsEmissive: true}
}

// converter is the state of one conversion. It is never shared.
type converter struct {
	doc     *fbx.Document
	opts    Options
	log     *zap.Logger
	diag    *Diagnostics
	decoder *encoding.Decoder

	root      *scene.Node
	meshes    []*scene.Mesh
	materials []*scene.Material

	meshesConverted      map[uint64]int // geometry id -> mesh index
	materialsConverted   map[uint64]int // material id -> material index
	defaultMaterialIndex int            // -1 until first requested
	visiting             map[uint64]bool
}

// Convert converts doc into a scene. The returned Diagnostics hold every
// skipped or substituted element; on error they describe what happened up to
// the failure.
func Convert(doc *fbx.Document, opts Options) (*scene.Scene, *Diagnostics, error) {
	if doc == nil {
		return nil, nil, ErrNilDocument
	}

	c, err := newConverter(doc, opts)
	if err != nil {
		return nil, nil, err
	}

	if err := c.convertRootNode(); err != nil {
		return nil, c.diag, err
	}
	if opts.ReadAllMaterials {
		c.convertAllMaterials()
	}

	s := c.transferDataToScene()
	c.log.Debug("converted document",
		zap.Int("nodes", s.NodeCount()),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("materials", len(s.Materials)),
		zap.Int("diagnostics", len(c.diag.Entries())))
	return s, c.diag, nil
}

func newConverter(doc *fbx.Document, opts Options) (*converter, error) {
	decoder, err := encoding.NewDecoder(opts.Charset)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &converter{
		doc:                  doc,
		opts:                 opts,
		log:                  log,
		diag:                 newDiagnostics(log),
		decoder:              decoder,
		meshesConverted:      make(map[uint64]int),
		materialsConverted:   make(map[uint64]int),
		defaultMaterialIndex: -1,
		visiting:             make(map[uint64]bool),
	}, nil
}

func (c *converter) convertRootNode() error {
	c.root = scene.NewNode(RootNodeName, nil)
	return c.convertNodes(fbx.RootID, c.root)
}

// convertAllMaterials converts materials that mesh traversal never reached.
func (c *converter) convertAllMaterials() {
	for _, mat := range c.doc.Materials() {
		if _, done := c.materialsConverted[mat.ID()]; done {
			continue
		}
		c.convertMaterial(mat, nil)
	}
}

// transferDataToScene moves the accumulated meshes and materials into a new
// scene and leaves the converter empty.
func (c *converter) transferDataToScene() *scene.Scene {
	c.root.Meshes = make([]int, len(c.meshes))
	for i := range c.meshes {
		c.root.Meshes[i] = i
	}

	s := &scene.Scene{
		Root:      c.root,
		Meshes:    c.meshes,
		Materials: c.materials,
	}
	c.root, c.meshes, c.materials = nil, nil, nil
	return s
}

// name decodes an object name for output.
func (c *converter) name(s string) string {
	return c.decoder.String(s)
}
