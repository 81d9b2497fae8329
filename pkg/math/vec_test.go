package math

import (
	"testing"
)

func TestVec3Scale(t *testing.T) {
	got := Vec3{1, -2, 0.5}.Scale(2)
	want := Vec3{2, -4, 1}
	if got != want {
		t.Errorf("Vec3.Scale() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		a, b, want Vec3
	}{
		{Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{Vec3{0, 1, 0}, Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{Vec3{0, 0, 1}, Vec3{1, 0, 0}, Vec3{0, 1, 0}},
		{Vec3{2, 0, 0}, Vec3{4, 0, 0}, Vec3{}},
	}

	for _, tt := range tests {
		if got := tt.a.Cross(tt.b); got != tt.want {
			t.Errorf("%v.Cross(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVec3Radians(t *testing.T) {
	got := Vec3{180, 90, 0}.Radians()
	if !near(got, Vec3{3.14159265, 1.57079633, 0}) {
		t.Errorf("Radians() = %v", got)
	}
}

func TestGray(t *testing.T) {
	if got := Gray(0.8); got != (Vec3{0.8, 0.8, 0.8}) {
		t.Errorf("Gray(0.8) = %v", got)
	}
}
