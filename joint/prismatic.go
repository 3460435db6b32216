package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
)

// Prismatic lets BodyB translate along a line fixed to BodyA and locks all
// relative rotation. It is the composition of an Angle and a Slider joint,
// prepared and stepped in that order.
type Prismatic struct {
	Angle  *Angle
	Slider *Slider
	// BreakImpulse applies to the larger of the two sub-joint impulses
	BreakImpulse float64
}

func NewPrismatic(a, b *actor.RigidBody) *Prismatic {
	return &Prismatic{
		Angle:  NewAngle(a, b),
		Slider: NewSlider(a, b),
	}
}

func (j *Prismatic) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return j.Slider.Bodies()
}

func (j *Prismatic) Prepare(dt float64) {
	j.Angle.Prepare(dt)
	j.Slider.Prepare(dt)
}

func (j *Prismatic) Step() {
	j.Angle.Step()
	j.Slider.Step()
}

func (j *Prismatic) Reset() {
	j.Angle.Reset()
	j.Slider.Reset()
}

func (j *Prismatic) Impulse() float64 {
	return math.Max(j.Angle.Impulse(), j.Slider.Impulse())
}

func (j *Prismatic) BreakThreshold() float64 {
	return j.BreakImpulse
}
