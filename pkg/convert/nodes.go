package convert

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fbxscene/pkg/fbx"
	"github.com/Faultbox/fbxscene/pkg/math"
	"github.com/Faultbox/fbxscene/pkg/scene"
)

// convertNodes creates a child of parent for every model connected to
// parentID, in connection order, and recurses into each.
func (c *converter) convertNodes(parentID uint64, parent *scene.Node) error {
	for _, conn := range c.doc.ConnectionsByDestination(parentID) {
		if conn.IsPropertyLink() {
			continue
		}

		obj, err := c.doc.Object(conn.Source)
		if err != nil {
			c.diag.warn("convert nodes", conn.Source, "failed to resolve connection source",
				zap.Uint64("destination", parentID), zap.Error(err))
			continue
		}

		model, ok := obj.(*fbx.Model)
		if !ok {
			continue
		}
		if c.visiting[model.ID()] {
			c.diag.warn("convert nodes", model.ID(), "model connected to its own descendant, skipping",
				zap.String("model", model.Name()))
			continue
		}

		node := scene.NewNode(c.name(model.Name()), nil)
		node.Transform = localTransform(model.Props())
		parent.AddChild(node)

		if err := c.convertModel(model, node); err != nil {
			return err
		}

		c.visiting[model.ID()] = true
		err = c.convertNodes(model.ID(), node)
		delete(c.visiting, model.ID())
		if err != nil {
			return err
		}
	}
	return nil
}

// convertModel converts the model's geometries and references them from node.
func (c *converter) convertModel(model *fbx.Model, node *scene.Node) error {
	for _, geo := range model.Geometries() {
		index, ok, err := c.convertMesh(geo, model)
		if err != nil {
			return err
		}
		if ok {
			node.Meshes = append(node.Meshes, index)
		}
	}
	return nil
}

// localTransform composes the model's Lcl Translation, Lcl Rotation (degrees)
// and Lcl Scaling.
func localTransform(props *fbx.PropertyTable) math.Mat4 {
	translation := GetOr(props, "Lcl Translation", math.Vec3{})
	rotation := GetOr(props, "Lcl Rotation", math.Vec3{})
	scaling := GetOr(props, "Lcl Scaling", math.Vec3{X: 1, Y: 1, Z: 1})
	return math.Compose(translation, rotation, scaling)
}
