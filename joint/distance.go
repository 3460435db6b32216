package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// DistanceBehavior selects how the target distance is enforced
type DistanceBehavior int

const (
	// LimitDistance keeps the anchors at exactly Target
	LimitDistance DistanceBehavior = iota
	// LimitMaximumDistance only pulls the anchors together when they drift
	// farther than Target (a rope)
	LimitMaximumDistance
	// LimitMinimumDistance only pushes the anchors apart when they get
	// closer than Target (a spacer)
	LimitMinimumDistance
)

// Distance constrains the distance between one anchor point on each body.
// It removes a single linear degree of freedom along the anchor separation.
type Distance struct {
	BodyA, BodyB *actor.RigidBody
	// Anchors in each body's local frame, relative to the center of mass
	LocalAnchorA, LocalAnchorB mgl64.Vec3
	Target                     float64
	Behavior                   DistanceBehavior
	Tuning

	rA, rB      mgl64.Vec3
	normal      mgl64.Vec3
	effMass     float64
	bias        float64
	accumulated float64
	skip        bool
}

// NewDistance builds a distance joint from world-space anchor points. The
// target distance is the initial separation of the anchors.
func NewDistance(a, b *actor.RigidBody, worldAnchorA, worldAnchorB mgl64.Vec3, behavior DistanceBehavior) *Distance {
	return &Distance{
		BodyA:        a,
		BodyB:        b,
		LocalAnchorA: a.Transform.InverseRotation.Rotate(worldAnchorA.Sub(a.WorldCenterOfMass())),
		LocalAnchorB: b.Transform.InverseRotation.Rotate(worldAnchorB.Sub(b.WorldCenterOfMass())),
		Target:       worldAnchorB.Sub(worldAnchorA).Len(),
		Behavior:     behavior,
		Tuning:       Tuning{BiasFactor: DefaultBiasFactor},
	}
}

func (j *Distance) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return j.BodyA, j.BodyB
}

func (j *Distance) Reset() {
	j.accumulated = 0
}

func (j *Distance) Impulse() float64 {
	return math.Abs(j.accumulated)
}

// Accumulated exposes the signed accumulated impulse along the constraint
func (j *Distance) Accumulated() float64 {
	return j.accumulated
}

func (j *Distance) Prepare(dt float64) {
	j.skip = true
	if bothSleeping(j.BodyA, j.BodyB) {
		return
	}

	j.rA = j.BodyA.Transform.Rotation.Rotate(j.LocalAnchorA)
	j.rB = j.BodyB.Transform.Rotation.Rotate(j.LocalAnchorB)

	delta := j.BodyB.WorldCenterOfMass().Add(j.rB).Sub(j.BodyA.WorldCenterOfMass().Add(j.rA))
	distance := delta.Len()

	// One-sided behaviors are inactive on the allowed side
	if j.Behavior == LimitMaximumDistance && distance < j.Target {
		return
	}
	if j.Behavior == LimitMinimumDistance && distance > j.Target {
		return
	}
	if distance < degenerateEpsilon {
		return
	}

	j.normal = delta.Mul(1.0 / distance)

	k := j.BodyA.InverseMass() + j.BodyB.InverseMass() +
		angularMass(j.BodyA, j.rA, j.normal) +
		angularMass(j.BodyB, j.rB, j.normal)
	k += j.Softness / dt
	if k < degenerateEpsilon {
		return
	}

	j.effMass = 1.0 / k
	j.bias = j.BiasFactor / dt * (distance - j.Target)
	j.skip = false

	// Warm start
	impulse := j.normal.Mul(j.accumulated)
	j.BodyA.ApplyImpulse(impulse.Mul(-1), j.rA)
	j.BodyB.ApplyImpulse(impulse, j.rB)
}

func (j *Distance) Step() {
	if j.skip {
		return
	}

	jv := j.normal.Dot(relativeVelocity(j.BodyA, j.BodyB, j.rA, j.rB))
	lambda := -j.effMass * (jv + j.bias + j.Softness*j.accumulated)

	previous := j.accumulated
	switch j.Behavior {
	case LimitMaximumDistance:
		// Ropes only pull: the total impulse stays non-positive
		j.accumulated = math.Min(previous+lambda, 0)
	case LimitMinimumDistance:
		// Spacers only push: the total impulse stays non-negative
		j.accumulated = math.Max(previous+lambda, 0)
	default:
		j.accumulated = previous + lambda
	}
	lambda = j.accumulated - previous

	impulse := j.normal.Mul(lambda)
	j.BodyA.ApplyImpulse(impulse.Mul(-1), j.rA)
	j.BodyB.ApplyImpulse(impulse, j.rB)
}
