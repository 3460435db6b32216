package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and impulses
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0= no rebound, 1= perfect restitution

	StaticFriction  float64
	DynamicFriction float64
	LinearDamping   float64 // 0.0 - 1.0, typique : 0.01
	AngularDamping  float64 // 0.0 - 1.0, typique : 0.05
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	Transform Transform

	// Linear motion
	PresolveVelocity mgl64.Vec3
	Velocity         mgl64.Vec3 // Linear velocity (m/s)

	// Angular motion
	PresolveAngularVelocity mgl64.Vec3
	AngularVelocity         mgl64.Vec3 // Vitesse de rotation (rad/s)

	// Inertia
	InertiaLocal        mgl64.Mat3 // Tenseur d'inertie en espace local
	InverseInertiaLocal mgl64.Mat3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	IsSleeping bool
	SleepTimer float64

	// Physical properties
	Material Material
	BodyType BodyType // Dynamic or Static

	// Collision shape
	Shape *ShapeComponent
}

// NewRigidBody creates a new rigid body with the given properties
// The shape's mass contribution is used for dynamic bodies (ignored for static)
func NewRigidBody(transform Transform, shape *ShapeComponent, bodyType BodyType, density float64) *RigidBody {
	if transform.Rotation.Len() == 0 {
		transform.Rotation = mgl64.QuatIdent()
	}
	transform.Rotation = transform.Rotation.Normalize()
	transform.InverseRotation = transform.Rotation.Inverse()

	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
		Velocity:  mgl64.Vec3{0, 0, 0},
	}

	if bodyType == BodyTypeStatic {
		// Static bodies have infinite mass
		rb.Material = Material{
			Density: 0,
			mass:    math.Inf(1),
		}
		rb.InertiaLocal = mgl64.Mat3{}
		rb.InverseInertiaLocal = mgl64.Mat3{}
	} else {
		rb.Material = Material{
			Density: density,
			mass:    shape.Mass(),
		}
		rb.InertiaLocal = shape.Geometry().Inertia(rb.Material.mass)
		rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
	}

	rb.Shape.SetTransform(rb.Transform)

	return rb
}

// Dynamic reports whether the body is integrated and affected by impulses
func (rb *RigidBody) Dynamic() bool {
	return rb.BodyType == BodyTypeDynamic
}

// InverseMass returns 1/m, or 0 for static bodies
func (rb *RigidBody) InverseMass() float64 {
	if rb.BodyType == BodyTypeStatic {
		return 0
	}

	return 1.0 / rb.Material.mass
}

// WorldCenterOfMass returns the center of mass in world space.
// The mass is centered on the shape centroid.
func (rb *RigidBody) WorldCenterOfMass() mgl64.Vec3 {
	return rb.Transform.Position.Add(rb.Transform.Rotation.Rotate(rb.Shape.Centroid()))
}

func (rb *RigidBody) TrySleep(dt float64, timethreshold float64, velocityThreshold float64) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timethreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.Shape.SetTransform(rb.Transform)
	rb.ClearForces()
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// IntegrateForces applies gravity and accumulated forces to the velocities.
// Positions are untouched; they are committed by IntegratePositions after the
// constraint solve.
func (rb *RigidBody) IntegrateForces(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	// ========== INTÉGRATION LINÉAIRE ==========
	acceleration := gravity.Add(rb.accumulatedForce.Mul(1.0 / rb.Material.GetMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))

	// ========== INTÉGRATION ANGULAIRE ==========
	angularAccel := rb.GetInverseInertiaWorld().Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	rb.PresolveVelocity = rb.Velocity
	rb.PresolveAngularVelocity = rb.AngularVelocity

	rb.ClearForces()
}

// IntegratePositions advances the transform from the solved velocities
func (rb *RigidBody) IntegratePositions(dt float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// ========== UPDATE QUATERNION ==========
	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()

	rb.Shape.SetTransform(rb.Transform)
}

// AddForce in N (kg⋅m/s²), applied at the center of mass
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddTorque in N⋅m
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// ApplyImpulse applies a linear impulse at offset r from the center of mass
func (rb *RigidBody) ApplyImpulse(impulse, r mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.InverseMass()))
	rb.AngularVelocity = rb.AngularVelocity.Add(rb.GetInverseInertiaWorld().Mul3x1(r.Cross(impulse)))
}

// ApplyAngularImpulse applies a pure angular impulse
func (rb *RigidBody) ApplyAngularImpulse(impulse mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.AngularVelocity = rb.AngularVelocity.Add(rb.GetInverseInertiaWorld().Mul3x1(impulse))
}

// VelocityAt returns the velocity of the point at offset r from the center of mass
func (rb *RigidBody) VelocityAt(r mgl64.Vec3) mgl64.Vec3 {
	return rb.Velocity.Add(rb.AngularVelocity.Cross(r))
}

func (rb *RigidBody) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	return rb.Shape.SupportWorld(direction)
}

// Inertie en espace monde
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	// I_world = R * I_local * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// Inverse de l'inertie en espace monde
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{}
	}

	// I_world^(-1) = R * I_local^(-1) * R^T
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
