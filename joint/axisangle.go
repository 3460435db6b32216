package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// AxisAngle leaves the bodies free to rotate relative to each other about
// one shared axis and removes the other two angular degrees of freedom,
// keeping each body's copy of the axis aligned. Combined with Ball it forms
// a hinge.
type AxisAngle struct {
	BodyA, BodyB *actor.RigidBody
	// The shared axis in each body's local frame
	LocalAxisA, LocalAxisB mgl64.Vec3
	// Constraint basis orthogonal to the axis, in BodyA's local frame
	LocalTangent1, LocalTangent2 mgl64.Vec3
	Tuning

	tangent1, tangent2 mgl64.Vec3
	effMass            mgl64.Mat2
	bias               mgl64.Vec2
	accumulated        mgl64.Vec2
	skip               bool
}

// NewAxisAngle builds the joint around a shared world-space axis. The
// constraint basis is derived from the first non-degenerate cross product,
// starting from a (0,1,0) reference and falling back to (1,0,0) when the
// axis is near-parallel to it.
func NewAxisAngle(a, b *actor.RigidBody, worldAxis mgl64.Vec3) *AxisAngle {
	axis := safeUnit(worldAxis)

	tangent1 := axis.Cross(mgl64.Vec3{0, 1, 0})
	if tangent1.Len() < 1e-6 {
		tangent1 = axis.Cross(mgl64.Vec3{1, 0, 0})
	}
	tangent1 = tangent1.Normalize()
	tangent2 := axis.Cross(tangent1).Normalize()

	return &AxisAngle{
		BodyA:         a,
		BodyB:         b,
		LocalAxisA:    a.Transform.InverseRotation.Rotate(axis),
		LocalAxisB:    b.Transform.InverseRotation.Rotate(axis),
		LocalTangent1: a.Transform.InverseRotation.Rotate(tangent1),
		LocalTangent2: a.Transform.InverseRotation.Rotate(tangent2),
		Tuning:        Tuning{BiasFactor: DefaultBiasFactor},
	}
}

func safeUnit(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() < degenerateEpsilon {
		return mgl64.Vec3{0, 1, 0}
	}

	return v.Normalize()
}

func (j *AxisAngle) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return j.BodyA, j.BodyB
}

func (j *AxisAngle) Reset() {
	j.accumulated = mgl64.Vec2{}
}

func (j *AxisAngle) Impulse() float64 {
	return j.accumulated.Len()
}

func (j *AxisAngle) Prepare(dt float64) {
	j.skip = true
	if bothSleeping(j.BodyA, j.BodyB) {
		return
	}

	axisA := j.BodyA.Transform.Rotation.Rotate(j.LocalAxisA)
	axisB := j.BodyB.Transform.Rotation.Rotate(j.LocalAxisB)
	j.tangent1 = j.BodyA.Transform.Rotation.Rotate(j.LocalTangent1)
	j.tangent2 = j.BodyA.Transform.Rotation.Rotate(j.LocalTangent2)

	inertiaSum := j.BodyA.GetInverseInertiaWorld().Add(j.BodyB.GetInverseInertiaWorld())
	gamma := j.Softness / dt

	k00 := j.tangent1.Dot(inertiaSum.Mul3x1(j.tangent1)) + gamma
	k01 := j.tangent1.Dot(inertiaSum.Mul3x1(j.tangent2))
	k11 := j.tangent2.Dot(inertiaSum.Mul3x1(j.tangent2)) + gamma

	det := k00*k11 - k01*k01
	if math.Abs(det) < degenerateEpsilon {
		return
	}
	j.effMass = mgl64.Mat2{k00, k01, k01, k11}.Inv()

	// Misalignment of B's axis relative to A's, projected on the basis
	misalignment := axisA.Cross(axisB)
	j.bias = mgl64.Vec2{
		j.tangent1.Dot(misalignment),
		j.tangent2.Dot(misalignment),
	}.Mul(j.BiasFactor / dt)
	j.skip = false

	// Warm start
	impulse := j.tangent1.Mul(j.accumulated[0]).Add(j.tangent2.Mul(j.accumulated[1]))
	j.BodyA.ApplyAngularImpulse(impulse.Mul(-1))
	j.BodyB.ApplyAngularImpulse(impulse)
}

func (j *AxisAngle) Step() {
	if j.skip {
		return
	}

	relative := j.BodyB.AngularVelocity.Sub(j.BodyA.AngularVelocity)
	jv := mgl64.Vec2{relative.Dot(j.tangent1), relative.Dot(j.tangent2)}

	rhs := jv.Add(j.bias).Add(j.accumulated.Mul(j.Softness))
	lambda := j.effMass.Mul2x1(rhs).Mul(-1)

	j.accumulated = j.accumulated.Add(lambda)

	impulse := j.tangent1.Mul(lambda[0]).Add(j.tangent2.Mul(lambda[1]))
	j.BodyA.ApplyAngularImpulse(impulse.Mul(-1))
	j.BodyB.ApplyAngularImpulse(impulse)
}
