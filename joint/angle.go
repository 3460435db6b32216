package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Angle locks the relative orientation of the two bodies at its value from
// construction time, removing all three angular degrees of freedom.
// Translation is untouched (compose with Slider for a prismatic joint).
//
// The rotational error is read from the vector part of the quaternion
// difference (its generator), which is robust for the small errors the
// solver corrects.
type Angle struct {
	BodyA, BodyB *actor.RigidBody
	// InverseReference undoes the captured relative orientation qB·qA⁻¹
	InverseReference mgl64.Quat
	Tuning

	effMass     mgl64.Mat3
	bias        mgl64.Vec3
	accumulated mgl64.Vec3
	skip        bool
}

func NewAngle(a, b *actor.RigidBody) *Angle {
	reference := b.Transform.Rotation.Mul(a.Transform.InverseRotation)

	return &Angle{
		BodyA:            a,
		BodyB:            b,
		InverseReference: reference.Inverse(),
		Tuning:           Tuning{BiasFactor: DefaultBiasFactor},
	}
}

func (j *Angle) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return j.BodyA, j.BodyB
}

func (j *Angle) Reset() {
	j.accumulated = mgl64.Vec3{}
}

func (j *Angle) Impulse() float64 {
	return j.accumulated.Len()
}

func (j *Angle) Prepare(dt float64) {
	j.skip = true
	if bothSleeping(j.BodyA, j.BodyB) {
		return
	}

	k := j.BodyA.GetInverseInertiaWorld().Add(j.BodyB.GetInverseInertiaWorld())
	gamma := j.Softness / dt
	k = k.Add(mgl64.Ident3().Mul(gamma))

	if math.Abs(k.Det()) < degenerateEpsilon {
		return
	}
	j.effMass = k.Inv()

	// Quaternion generator: for a unit error quaternion with w ≈ 1 the
	// rotation vector is 2·v
	errQuat := j.BodyB.Transform.Rotation.Mul(j.BodyA.Transform.InverseRotation).Mul(j.InverseReference).Normalize()
	if errQuat.W < 0 {
		errQuat = errQuat.Scale(-1)
	}
	generator := errQuat.V.Mul(2)

	j.bias = generator.Mul(j.BiasFactor / dt)
	j.skip = false

	// Warm start
	j.BodyA.ApplyAngularImpulse(j.accumulated.Mul(-1))
	j.BodyB.ApplyAngularImpulse(j.accumulated)
}

func (j *Angle) Step() {
	if j.skip {
		return
	}

	jv := j.BodyB.AngularVelocity.Sub(j.BodyA.AngularVelocity)
	rhs := jv.Add(j.bias).Add(j.accumulated.Mul(j.Softness))
	lambda := j.effMass.Mul3x1(rhs).Mul(-1)

	j.accumulated = j.accumulated.Add(lambda)

	j.BodyA.ApplyAngularImpulse(lambda.Mul(-1))
	j.BodyB.ApplyAngularImpulse(lambda)
}
