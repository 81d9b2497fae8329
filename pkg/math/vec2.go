// Package math provides the small vector, color and matrix value types used by
// the document model and the converted scene.
package math

// Vec2 is a 2D vector, used for texture coordinates and UV transforms.
type Vec2 struct {
	X, Y float32
}
