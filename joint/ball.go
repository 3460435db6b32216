package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Ball keeps one anchor point on each body coincident, removing the three
// relative linear degrees of freedom at that point. Rotation is free.
type Ball struct {
	BodyA, BodyB               *actor.RigidBody
	LocalAnchorA, LocalAnchorB mgl64.Vec3
	Tuning

	rA, rB      mgl64.Vec3
	effMass     mgl64.Mat3
	bias        mgl64.Vec3
	accumulated mgl64.Vec3
	skip        bool
}

// NewBall builds a ball joint around a shared world-space pivot point
func NewBall(a, b *actor.RigidBody, worldPivot mgl64.Vec3) *Ball {
	return &Ball{
		BodyA:        a,
		BodyB:        b,
		LocalAnchorA: a.Transform.InverseRotation.Rotate(worldPivot.Sub(a.WorldCenterOfMass())),
		LocalAnchorB: b.Transform.InverseRotation.Rotate(worldPivot.Sub(b.WorldCenterOfMass())),
		Tuning:       Tuning{BiasFactor: DefaultBiasFactor},
	}
}

func (j *Ball) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return j.BodyA, j.BodyB
}

func (j *Ball) Reset() {
	j.accumulated = mgl64.Vec3{}
}

func (j *Ball) Impulse() float64 {
	return j.accumulated.Len()
}

// Bias exposes the current Baumgarte bias, valid between Prepare and the
// next Prepare
func (j *Ball) Bias() mgl64.Vec3 {
	return j.bias
}

// RelativeVelocity is the anchor velocity of BodyB relative to BodyA,
// the constraint-space velocity the solver drives toward -bias
func (j *Ball) RelativeVelocity() mgl64.Vec3 {
	return relativeVelocity(j.BodyA, j.BodyB, j.rA, j.rB)
}

func (j *Ball) Prepare(dt float64) {
	j.skip = true
	if bothSleeping(j.BodyA, j.BodyB) {
		return
	}

	j.rA = j.BodyA.Transform.Rotation.Rotate(j.LocalAnchorA)
	j.rB = j.BodyB.Transform.Rotation.Rotate(j.LocalAnchorB)

	k := pointMassMatrix(j.BodyA, j.BodyB, j.rA, j.rB)
	gamma := j.Softness / dt
	k = k.Add(mgl64.Ident3().Mul(gamma))

	if math.Abs(k.Det()) < degenerateEpsilon {
		return
	}
	j.effMass = k.Inv()

	positionError := j.BodyB.WorldCenterOfMass().Add(j.rB).Sub(j.BodyA.WorldCenterOfMass().Add(j.rA))
	j.bias = positionError.Mul(j.BiasFactor / dt)
	j.skip = false

	// Warm start
	j.BodyA.ApplyImpulse(j.accumulated.Mul(-1), j.rA)
	j.BodyB.ApplyImpulse(j.accumulated, j.rB)
}

func (j *Ball) Step() {
	if j.skip {
		return
	}

	jv := relativeVelocity(j.BodyA, j.BodyB, j.rA, j.rB)
	rhs := jv.Add(j.bias).Add(j.accumulated.Mul(j.Softness))
	lambda := j.effMass.Mul3x1(rhs).Mul(-1)

	j.accumulated = j.accumulated.Add(lambda)

	j.BodyA.ApplyImpulse(lambda.Mul(-1), j.rA)
	j.BodyB.ApplyImpulse(lambda, j.rB)
}
