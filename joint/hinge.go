package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Hinge pins the two bodies at a pivot point and leaves a single rotational
// degree of freedom about the hinge axis. It is the composition of an
// AxisAngle and a Ball joint, prepared and stepped in that order.
type Hinge struct {
	AxisAngle *AxisAngle
	Ball      *Ball
	// BreakImpulse applies to the larger of the two sub-joint impulses
	BreakImpulse float64
}

func NewHinge(a, b *actor.RigidBody, worldPivot, worldAxis mgl64.Vec3) *Hinge {
	return &Hinge{
		AxisAngle: NewAxisAngle(a, b, worldAxis),
		Ball:      NewBall(a, b, worldPivot),
	}
}

func (j *Hinge) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return j.Ball.Bodies()
}

func (j *Hinge) Prepare(dt float64) {
	j.AxisAngle.Prepare(dt)
	j.Ball.Prepare(dt)
}

func (j *Hinge) Step() {
	j.AxisAngle.Step()
	j.Ball.Step()
}

func (j *Hinge) Reset() {
	j.AxisAngle.Reset()
	j.Ball.Reset()
}

func (j *Hinge) Impulse() float64 {
	return math.Max(j.AxisAngle.Impulse(), j.Ball.Impulse())
}

func (j *Hinge) BreakThreshold() float64 {
	return j.BreakImpulse
}
