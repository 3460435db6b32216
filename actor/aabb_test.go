package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}

	tests := []struct {
		name     string
		other    AABB
		expected bool
	}{
		{
			name:     "overlapping",
			other:    AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{3, 3, 3}},
			expected: true,
		},
		{
			name:     "touching faces",
			other:    AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{4, 2, 2}},
			expected: true,
		},
		{
			name:     "separated on x",
			other:    AABB{Min: mgl64.Vec3{3, 0, 0}, Max: mgl64.Vec3{5, 2, 2}},
			expected: false,
		},
		{
			name:     "separated on y only",
			other:    AABB{Min: mgl64.Vec3{0, 5, 0}, Max: mgl64.Vec3{2, 6, 2}},
			expected: false,
		},
		{
			name:     "contained",
			other:    AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{1.5, 1.5, 1.5}},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a.Overlaps(tt.other) != tt.expected {
				t.Errorf("Overlaps(%+v) = %v, want %v", tt.other, !tt.expected, tt.expected)
			}
			// Symmetric
			if tt.other.Overlaps(a) != tt.expected {
				t.Errorf("Overlaps() is not symmetric for %+v", tt.other)
			}
		})
	}
}

func TestAABBCenter(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{-1, 0, 2}, Max: mgl64.Vec3{3, 4, 4}}

	if !vec3Near(a.Center(), mgl64.Vec3{1, 2, 3}, 1e-12) {
		t.Errorf("Center() = %v, want {1 2 3}", a.Center())
	}
}

func TestAABBMerged(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	b := AABB{Min: mgl64.Vec3{-2, 0.5, 0}, Max: mgl64.Vec3{0.5, 3, 1}}

	merged := a.Merged(b)

	if !vec3Near(merged.Min, mgl64.Vec3{-2, 0, 0}, 1e-12) {
		t.Errorf("Merged().Min = %v, want {-2 0 0}", merged.Min)
	}
	if !vec3Near(merged.Max, mgl64.Vec3{1, 3, 1}, 1e-12) {
		t.Errorf("Merged().Max = %v, want {1 3 1}", merged.Max)
	}
	if !merged.ContainsPoint(mgl64.Vec3{-1, 2, 0.5}) {
		t.Error("Merged() does not contain a point of the second box")
	}
}
