package actor

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeComponent binds a Geometry to a body-local centroid and a mass
// contribution. The Geometry may be shared across components; the component
// itself belongs to exactly one RigidBody.
//
// The cached transform is read by collision queries while the physics step
// writes it, so access goes through a RWMutex.
type ShapeComponent struct {
	geometry Geometry
	centroid mgl64.Vec3
	mass     float64

	mu        sync.RWMutex
	transform Transform
	aabb      AABB
}

func NewShapeComponent(geometry Geometry, centroid mgl64.Vec3, density float64) *ShapeComponent {
	return &ShapeComponent{
		geometry:  geometry,
		centroid:  centroid,
		mass:      geometry.Mass(density),
		transform: NewTransform(),
		aabb:      geometry.AABB(NewTransform()),
	}
}

func (s *ShapeComponent) Geometry() Geometry { return s.geometry }

// Centroid is the shape offset in the body frame
func (s *ShapeComponent) Centroid() mgl64.Vec3 { return s.centroid }

// Mass is the shape's mass contribution to its body
func (s *ShapeComponent) Mass() float64 { return s.mass }

// SetTransform publishes a new world transform for the component and
// recomputes the cached bounding box. The component origin is the body
// position offset by the rotated centroid.
func (s *ShapeComponent) SetTransform(bodyTransform Transform) {
	shapeTransform := Transform{
		Position:        bodyTransform.Position.Add(bodyTransform.Rotation.Rotate(s.centroid)),
		Rotation:        bodyTransform.Rotation,
		InverseRotation: bodyTransform.InverseRotation,
	}
	aabb := s.geometry.AABB(shapeTransform)

	s.mu.Lock()
	s.transform = shapeTransform
	s.aabb = aabb
	s.mu.Unlock()
}

// Transform returns the last published world transform
func (s *ShapeComponent) Transform() Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transform
}

// Position returns the world position of the shape origin
func (s *ShapeComponent) Position() mgl64.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transform.Position
}

// BoundingBox returns the cached world-space AABB
func (s *ShapeComponent) BoundingBox() AABB {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.aabb
}

// BoundingSphere returns a conservative world-space enclosing sphere
func (s *ShapeComponent) BoundingSphere() (mgl64.Vec3, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transform.Position, s.geometry.BoundingRadius()
}

// SupportWorld transforms a world direction into the local frame, queries the
// geometry, and transforms the support point back to world space
func (s *ShapeComponent) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	s.mu.RLock()
	transform := s.transform
	s.mu.RUnlock()

	localDirection := transform.InverseRotation.Rotate(direction)
	localSupport := s.geometry.Support(localDirection)

	return transform.Position.Add(transform.Rotation.Rotate(localSupport))
}
