package fbx

import (
	"sort"

	"github.com/Faultbox/fbxscene/pkg/math"
)

// PropertyTable is a typed key/value table with an optional template table
// consulted when a key is absent (FBX Properties70 + PropertyTemplate).
//
// Values are stored as float32, int64, bool, string, math.Vec2 or math.Vec3.
type PropertyTable struct {
	props    map[string]any
	template *PropertyTable
}

// NewPropertyTable creates an empty table. template may be nil.
func NewPropertyTable(template *PropertyTable) *PropertyTable {
	return &PropertyTable{
		props:    make(map[string]any),
		template: template,
	}
}

// Get returns the raw value stored under name, falling back to the template.
// A nil table holds nothing.
func (t *PropertyTable) Get(name string) (any, bool) {
	for tbl := t; tbl != nil; tbl = tbl.template {
		if v, ok := tbl.props[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Names returns the keys set directly on this table, sorted.
func (t *PropertyTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.props))
	for name := range t.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Template returns the fallback table, or nil.
func (t *PropertyTable) Template() *PropertyTable {
	if t == nil {
		return nil
	}
	return t.template
}

// SetFloat stores a number property.
func (t *PropertyTable) SetFloat(name string, v float32) { t.props[name] = v }

// SetInt stores an integer or enum property.
func (t *PropertyTable) SetInt(name string, v int64) { t.props[name] = v }

// SetBool stores a boolean property.
func (t *PropertyTable) SetBool(name string, v bool) { t.props[name] = v }

// SetString stores a string property.
func (t *PropertyTable) SetString(name string, v string) { t.props[name] = v }

// SetVec2 stores a 2D vector property.
func (t *PropertyTable) SetVec2(name string, v math.Vec2) { t.props[name] = v }

// SetVec3 stores a color or 3D vector property.
func (t *PropertyTable) SetVec3(name string, v math.Vec3) { t.props[name] = v }
