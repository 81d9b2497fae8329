package math

import "github.com/chewxy/math32"

// Vec3 is a 3D vector. Colors without alpha are carried as Vec3 (X=R, Y=G, Z=B).
type Vec3 struct {
	X, Y, Z float32
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Radians converts each component from degrees to radians.
func (v Vec3) Radians() Vec3 {
	return v.Scale(math32.Pi / 180)
}
