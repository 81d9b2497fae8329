package math

// Color4 is a linear RGBA color, used for per-vertex color channels.
type Color4 struct {
	R, G, B, A float32
}

// Gray returns a color triple with every channel set to v.
func Gray(v float32) Vec3 {
	return Vec3{v, v, v}
}
