package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Slider restricts the relative translation of the two bodies to a line.
// The line passes through BodyA's center of mass; its direction is derived
// once at construction from the initial center-of-mass offset and rides on
// BodyA's orientation afterwards. Two linear degrees of freedom are removed;
// rotation is untouched (compose with Angle for a prismatic joint).
type Slider struct {
	BodyA, BodyB *actor.RigidBody
	// Line direction in BodyA's local frame, unit length
	LocalAxis mgl64.Vec3
	Tuning

	rA, rB             mgl64.Vec3
	tangent1, tangent2 mgl64.Vec3
	effMass            mgl64.Mat2
	bias               mgl64.Vec2
	accumulated        mgl64.Vec2
	skip               bool
}

// NewSlider builds a slider along the initial offset between the two
// centers of mass. Coincident bodies slide along BodyA's local Y axis.
func NewSlider(a, b *actor.RigidBody) *Slider {
	axis := b.WorldCenterOfMass().Sub(a.WorldCenterOfMass())
	if axis.Len() < degenerateEpsilon {
		axis = a.Transform.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
	}

	return &Slider{
		BodyA:     a,
		BodyB:     b,
		LocalAxis: a.Transform.InverseRotation.Rotate(axis.Normalize()),
		Tuning:    Tuning{BiasFactor: DefaultBiasFactor},
	}
}

func (j *Slider) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return j.BodyA, j.BodyB
}

func (j *Slider) Reset() {
	j.accumulated = mgl64.Vec2{}
}

func (j *Slider) Impulse() float64 {
	return j.accumulated.Len()
}

func (j *Slider) Prepare(dt float64) {
	j.skip = true
	if bothSleeping(j.BodyA, j.BodyB) {
		return
	}

	axis := j.BodyA.Transform.Rotation.Rotate(j.LocalAxis)
	j.tangent1, j.tangent2 = tangentBasis(axis)

	// The moment arm on A spans the whole offset; B is constrained at its
	// own center of mass
	delta := j.BodyB.WorldCenterOfMass().Sub(j.BodyA.WorldCenterOfMass())
	j.rA = delta
	j.rB = mgl64.Vec3{}

	gamma := j.Softness / dt
	k00 := j.scalarMass(j.tangent1, j.tangent1) + gamma
	k01 := j.scalarMass(j.tangent1, j.tangent2)
	k11 := j.scalarMass(j.tangent2, j.tangent2) + gamma

	det := k00*k11 - k01*k01
	if math.Abs(det) < degenerateEpsilon {
		return
	}
	j.effMass = mgl64.Mat2{k00, k01, k01, k11}.Inv()

	// Bias from the deviation perpendicular to the line
	j.bias = mgl64.Vec2{delta.Dot(j.tangent1), delta.Dot(j.tangent2)}.Mul(j.BiasFactor / dt)
	j.skip = false

	// Warm start
	impulse := j.tangent1.Mul(j.accumulated[0]).Add(j.tangent2.Mul(j.accumulated[1]))
	j.BodyA.ApplyImpulse(impulse.Mul(-1), j.rA)
	j.BodyB.ApplyImpulse(impulse, j.rB)
}

// scalarMass is the effective-mass entry coupling two constraint axes
func (j *Slider) scalarMass(t1, t2 mgl64.Vec3) float64 {
	k := 0.0
	if t1 == t2 {
		k = j.BodyA.InverseMass() + j.BodyB.InverseMass()
	}

	rACrossT1 := j.rA.Cross(t1)
	rACrossT2 := j.rA.Cross(t2)
	k += j.BodyA.GetInverseInertiaWorld().Mul3x1(rACrossT1).Dot(rACrossT2)

	rBCrossT1 := j.rB.Cross(t1)
	rBCrossT2 := j.rB.Cross(t2)
	k += j.BodyB.GetInverseInertiaWorld().Mul3x1(rBCrossT1).Dot(rBCrossT2)

	return k
}

func (j *Slider) Step() {
	if j.skip {
		return
	}

	rel := relativeVelocity(j.BodyA, j.BodyB, j.rA, j.rB)
	jv := mgl64.Vec2{rel.Dot(j.tangent1), rel.Dot(j.tangent2)}

	rhs := jv.Add(j.bias).Add(j.accumulated.Mul(j.Softness))
	lambda := j.effMass.Mul2x1(rhs).Mul(-1)

	j.accumulated = j.accumulated.Add(lambda)

	impulse := j.tangent1.Mul(lambda[0]).Add(j.tangent2.Mul(lambda[1]))
	j.BodyA.ApplyImpulse(impulse.Mul(-1), j.rA)
	j.BodyB.ApplyImpulse(impulse, j.rB)
}
