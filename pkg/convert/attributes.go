package convert

import (
	"github.com/Faultbox/fbxscene/pkg/fbx"
	"github.com/Faultbox/fbxscene/pkg/math"
)

// Get looks up key in props and returns it as T. A missing key, or a value
// of another type, yields the zero value and false. Integer properties are
// accepted where a float32 is asked for.
func Get[T any](props *fbx.PropertyTable, key string) (T, bool) {
	var zero T
	v, ok := props.Get(key)
	if !ok {
		return zero, false
	}
	if t, ok := v.(T); ok {
		return t, true
	}
	if f, ok := any(&zero).(*float32); ok {
		if i, isInt := v.(int64); isInt {
			*f = float32(i)
			return zero, true
		}
	}
	return zero, false
}

// GetOr is Get with a fallback for missing values.
func GetOr[T any](props *fbx.PropertyTable, key string, fallback T) T {
	if v, ok := Get[T](props, key); ok {
		return v
	}
	return fallback
}

// ResolveColor reads a shading color that may be stored either as base
// itself, or as base+"Color" scaled by an optional base+"Factor".
func ResolveColor(props *fbx.PropertyTable, base string) (math.Vec3, bool) {
	if c, ok := Get[math.Vec3](props, base); ok {
		return c, true
	}
	c, ok := Get[math.Vec3](props, base+"Color")
	if !ok {
		return math.Vec3{}, false
	}
	if factor, ok := Get[float32](props, base+"Factor"); ok {
		c = c.Scale(factor)
	}
	return c, true
}
