package joint

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBallDrivesVelocityToBias(t *testing.T) {
	a := newStaticBody(mgl64.Vec3{0, 0, 0})
	b := newSphereBody(mgl64.Vec3{2, 0, 0})

	j := NewBall(a, b, mgl64.Vec3{1, 0, 0})

	// Drift the body off the pivot so the bias is non-zero, then give it an
	// arbitrary velocity
	b.Transform.Position = mgl64.Vec3{2.05, 0.02, -0.01}
	b.Velocity = mgl64.Vec3{1, -2, 0.5}
	b.AngularVelocity = mgl64.Vec3{0.3, 0, -0.1}

	j.Prepare(testDt)

	if j.Bias() == (mgl64.Vec3{}) {
		t.Fatal("Bias() = zero for a displaced body")
	}

	// The 3x3 effective mass is exact: one step lands on the target velocity
	j.Step()

	residual := j.RelativeVelocity().Add(j.Bias())
	if residual.Len() > 1e-8 {
		t.Errorf("anchor velocity residual = %v, want ~0", residual)
	}
}

func TestBallConvergedStepIsNoOp(t *testing.T) {
	a := newSphereBody(mgl64.Vec3{0, 0, 0})
	b := newSphereBody(mgl64.Vec3{2, 0, 0})
	b.Velocity = mgl64.Vec3{0, 1, 0}

	j := NewBall(a, b, mgl64.Vec3{1, 0, 0})

	j.Prepare(testDt)
	for i__ := 0; i__ < 8; i__++ {
		j.Step()
	}

	before := b.Velocity
	beforeAngular := b.AngularVelocity
	j.Step()

	if b.Velocity.Sub(before).Len() > 1e-9 || b.AngularVelocity.Sub(beforeAngular).Len() > 1e-9 {
		t.Errorf("converged Step() still moved the body: Δv=%v Δω=%v",
			b.Velocity.Sub(before), b.AngularVelocity.Sub(beforeAngular))
	}
}

func TestBallWarmStartRestoresState(t *testing.T) {
	// Two identical scenes; the second runs an extra Prepare/Step round.
	// The warm start re-applies the accumulated impulse, so the extra round
	// on an unchanged configuration must not change the accumulated impulse.
	a := newSphereBody(mgl64.Vec3{0, 0, 0})
	b := newSphereBody(mgl64.Vec3{2, 0, 0})
	b.Velocity = mgl64.Vec3{0, 1, 0}

	j := NewBall(a, b, mgl64.Vec3{1, 0, 0})

	j.Prepare(testDt)
	for i__ := 0; i__ < 8; i__++ {
		j.Step()
	}
	impulse := j.Impulse()

	// Undo the solve the way a new tick would: velocities reset to the
	// pre-solve state, same positions
	a.Velocity, a.AngularVelocity = mgl64.Vec3{}, mgl64.Vec3{}
	b.Velocity, b.AngularVelocity = mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}

	j.Prepare(testDt)
	for i__ := 0; i__ < 8; i__++ {
		j.Step()
	}

	if diff := j.Impulse() - impulse; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Impulse() drifted by %v across warm-started ticks", diff)
	}
}

func TestBallPrepareNeverTouchesAccumulated(t *testing.T) {
	a := newSphereBody(mgl64.Vec3{0, 0, 0})
	b := newSphereBody(mgl64.Vec3{2, 0, 0})
	b.Velocity = mgl64.Vec3{0, 1, 0}

	j := NewBall(a, b, mgl64.Vec3{1, 0, 0})

	j.Prepare(testDt)
	for i__ := 0; i__ < 4; i__++ {
		j.Step()
	}
	accumulated := j.Impulse()
	if accumulated == 0 {
		t.Fatal("no impulse accumulated")
	}

	// Prepare warm-starts the bodies from the accumulated impulse but never
	// modifies it: two back-to-back calls leave it bit-identical, and each
	// call injects the same impulse into the unchanged configuration
	v0 := b.Velocity
	j.Prepare(testDt)
	if j.Impulse() != accumulated {
		t.Errorf("Impulse() = %v after Prepare(), want %v unchanged", j.Impulse(), accumulated)
	}
	delta1 := b.Velocity.Sub(v0)
	if delta1.Len() == 0 {
		t.Fatal("Prepare() applied no warm-start impulse")
	}

	v1 := b.Velocity
	j.Prepare(testDt)
	if j.Impulse() != accumulated {
		t.Errorf("Impulse() = %v after the second Prepare(), want %v unchanged", j.Impulse(), accumulated)
	}
	delta2 := b.Velocity.Sub(v1)

	if delta2.Sub(delta1).Len() > 1e-12 {
		t.Errorf("second Prepare() applied a different impulse: %v vs %v", delta2, delta1)
	}
}

func TestBallCoincidentBodies(t *testing.T) {
	a := newSphereBody(mgl64.Vec3{1, 1, 1})
	b := newSphereBody(mgl64.Vec3{1, 1, 1})
	b.Velocity = mgl64.Vec3{0.5, 0, 0}

	j := NewBall(a, b, mgl64.Vec3{1, 1, 1})

	j.Prepare(testDt)
	j.Step()

	if !vecFinite(a.Velocity) || !vecFinite(b.Velocity) {
		t.Errorf("coincident bodies produced non-finite velocities: %v / %v", a.Velocity, b.Velocity)
	}

	// Equal masses share the anchor velocity
	relative := b.Velocity.Sub(a.Velocity)
	if relative.Len() > 1e-12 {
		t.Errorf("relative anchor velocity = %v, want 0", relative)
	}
}

func TestBallTwoStaticBodiesSkip(t *testing.T) {
	a := newStaticBody(mgl64.Vec3{0, 0, 0})
	b := newStaticBody(mgl64.Vec3{2, 0, 0})

	j := NewBall(a, b, mgl64.Vec3{1, 0, 0})

	// The effective mass is singular; the joint must skip, not divide
	j.Prepare(testDt)
	j.Step()

	if j.Impulse() != 0 {
		t.Errorf("Impulse() = %v between two static bodies, want 0", j.Impulse())
	}
}
