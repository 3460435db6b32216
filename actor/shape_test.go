package actor

import (
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestShapeComponentMass(t *testing.T) {
	shape := NewShapeComponent(Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, mgl64.Vec3{}, 3.0)

	if math.Abs(shape.Mass()-3.0) > 1e-12 {
		t.Errorf("Mass() = %v, want 3.0", shape.Mass())
	}
}

func TestShapeComponentPosition(t *testing.T) {
	tests := []struct {
		name     string
		centroid mgl64.Vec3
		position mgl64.Vec3
		rotation mgl64.Quat
		expected mgl64.Vec3
	}{
		{
			name:     "no offset",
			centroid: mgl64.Vec3{0, 0, 0},
			position: mgl64.Vec3{1, 2, 3},
			rotation: mgl64.QuatIdent(),
			expected: mgl64.Vec3{1, 2, 3},
		},
		{
			name:     "unrotated offset",
			centroid: mgl64.Vec3{0, 1, 0},
			position: mgl64.Vec3{1, 0, 0},
			rotation: mgl64.QuatIdent(),
			expected: mgl64.Vec3{1, 1, 0},
		},
		{
			name:     "rotated offset",
			centroid: mgl64.Vec3{1, 0, 0},
			position: mgl64.Vec3{0, 0, 0},
			rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
			expected: mgl64.Vec3{0, 1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := NewShapeComponent(Sphere{Radius: 0.5}, tt.centroid, 1.0)

			rotation := tt.rotation.Normalize()
			shape.SetTransform(Transform{
				Position:        tt.position,
				Rotation:        rotation,
				InverseRotation: rotation.Inverse(),
			})

			if !vec3Near(shape.Position(), tt.expected, 1e-12) {
				t.Errorf("Position() = %v, want %v", shape.Position(), tt.expected)
			}
		})
	}
}

func TestSupportWorld(t *testing.T) {
	// A box rotated a quarter turn about Z swaps its X and Y extents
	shape := NewShapeComponent(Box{HalfExtents: mgl64.Vec3{1, 2, 3}}, mgl64.Vec3{}, 1.0)

	rotation := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}).Normalize()
	shape.SetTransform(Transform{
		Position:        mgl64.Vec3{5, 0, 0},
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	})

	support := shape.SupportWorld(mgl64.Vec3{1, 0, 0})

	if math.Abs(support.X()-7.0) > 1e-9 {
		t.Errorf("SupportWorld(+X).X() = %v, want 7.0", support.X())
	}
}

func TestBoundingSphere(t *testing.T) {
	shape := NewShapeComponent(Cylinder{Radius: 1.0, HalfHeight: 2.0}, mgl64.Vec3{}, 1.0)
	shape.SetTransform(Transform{
		Position:        mgl64.Vec3{1, 1, 1},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	})

	center, radius := shape.BoundingSphere()

	if !vec3Near(center, mgl64.Vec3{1, 1, 1}, 1e-12) {
		t.Errorf("BoundingSphere() center = %v, want {1 1 1}", center)
	}
	if math.Abs(radius-math.Hypot(1.0, 2.0)) > 1e-12 {
		t.Errorf("BoundingSphere() radius = %v, want %v", radius, math.Hypot(1.0, 2.0))
	}
}

// TestTransformConcurrentAccess exercises the transform lock under the race
// detector: queries from several goroutines while the transform is updated
func TestTransformConcurrentAccess(t *testing.T) {
	shape := NewShapeComponent(Sphere{Radius: 1.0}, mgl64.Vec3{}, 1.0)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for reader := 0; reader < 4; reader++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					_ = shape.Transform()
					_ = shape.BoundingBox()
					_ = shape.SupportWorld(mgl64.Vec3{1, 0, 0})
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		shape.SetTransform(Transform{
			Position:        mgl64.Vec3{float64(i), 0, 0},
			Rotation:        mgl64.QuatIdent(),
			InverseRotation: mgl64.QuatIdent(),
		})
	}
	close(stop)
	wg.Wait()

	if shape.Position().X() != 999 {
		t.Errorf("Position().X() = %v, want 999 (last published transform)", shape.Position().X())
	}
}
