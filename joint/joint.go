package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultBiasFactor controls Baumgarte stabilization: the fraction of the
	// positional error converted into a corrective velocity each step.
	// Higher values correct drift faster but can inject energy.
	// Typical range: 0.1 - 0.3
	DefaultBiasFactor = 0.2

	// degenerateEpsilon guards normalizations and effective-mass inversions.
	// A joint that falls below it skips the frame instead of producing NaN.
	degenerateEpsilon = 1e-12
)

// Joint is a two-body velocity constraint solved by sequential impulses.
//
// Prepare must be called exactly once per simulation tick before any Step
// call: it computes the Jacobian, the effective mass and the bias for the
// current configuration, and warm-starts the bodies from the accumulated
// impulse. Step is then called zero or more times; each call computes a
// corrective impulse from the residual velocity and applies it to both
// bodies. The effective mass and bias are only valid between a Prepare and
// the next Prepare.
type Joint interface {
	Prepare(dt float64)
	Step()
	// Reset clears the accumulated impulse. Called when a joint is added to
	// a world so that a re-enabled joint cannot inject a stale warm start.
	Reset()
	// Impulse reports the magnitude of the accumulated impulse
	Impulse() float64
	// BreakThreshold is the impulse magnitude above which the joint breaks,
	// 0 for unbreakable joints
	BreakThreshold() float64
	Bodies() (*actor.RigidBody, *actor.RigidBody)
}

// Tuning carries the solver parameters shared by every joint kind.
// Constructors fill BiasFactor with DefaultBiasFactor; callers may override.
type Tuning struct {
	// BiasFactor scales the Baumgarte position correction
	BiasFactor float64
	// Softness makes the constraint compliant: it is added to the effective
	// mass denominator as softness/dt and feeds the accumulated impulse back
	// into the impulse equation. 0 is a hard constraint.
	Softness float64
	// BreakImpulse is the accumulated impulse magnitude above which the
	// joint breaks. 0 means the joint never breaks.
	BreakImpulse float64
}

func (t Tuning) BreakThreshold() float64 {
	return t.BreakImpulse
}

func bothSleeping(a, b *actor.RigidBody) bool {
	return a.IsSleeping && b.IsSleeping
}

// relativeVelocity is the velocity of b's anchor relative to a's anchor
func relativeVelocity(a, b *actor.RigidBody, rA, rB mgl64.Vec3) mgl64.Vec3 {
	return b.VelocityAt(rB).Sub(a.VelocityAt(rA))
}

// skew returns the cross-product matrix of v, so that skew(v)·w = v × w
func skew(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		0, v.Z(), -v.Y(),
		-v.Z(), 0, v.X(),
		v.Y(), -v.X(), 0,
	}
}

// pointMassMatrix builds K = J·M⁻¹·Jᵀ for a point-coincidence Jacobian:
// K = (1/mA + 1/mB)·I − [rA]ₓ·IA⁻¹·[rA]ₓ − [rB]ₓ·IB⁻¹·[rB]ₓ
func pointMassMatrix(a, b *actor.RigidBody, rA, rB mgl64.Vec3) mgl64.Mat3 {
	k := mgl64.Ident3().Mul(a.InverseMass() + b.InverseMass())

	sA := skew(rA)
	k = k.Sub(sA.Mul3(a.GetInverseInertiaWorld()).Mul3(sA))

	sB := skew(rB)
	k = k.Sub(sB.Mul3(b.GetInverseInertiaWorld()).Mul3(sB))

	return k
}

// angularMass is the angular contribution of one body to a scalar
// effective mass along axis n, for an anchor offset r
func angularMass(body *actor.RigidBody, r, n mgl64.Vec3) float64 {
	rCrossN := r.Cross(n)

	return body.GetInverseInertiaWorld().Mul3x1(rCrossN).Dot(rCrossN)
}

// tangentBasis returns two unit vectors orthogonal to normal and to each
// other. The reference axis falls back from Y to X when near-parallel.
func tangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.Y()) > 0.9 {
		tangent1 = mgl64.Vec3{1, 0, 0}
	} else {
		tangent1 = mgl64.Vec3{0, 1, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}

func ComputeRestitution(matA, matB actor.Material) float64 {
	// Average (more realistic than taking the max)
	return (matA.Restitution + matB.Restitution) / 2.0
}

func ComputeStaticFriction(matA, matB actor.Material) float64 {
	// Moyenne géométrique (standard en physique)
	return math.Sqrt(matA.StaticFriction * matB.StaticFriction)
}

func ComputeDynamicFriction(matA, matB actor.Material) float64 {
	return math.Sqrt(matA.DynamicFriction * matB.DynamicFriction)
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	// Static bodies are read-only during the solve; islands sharing one must
	// never see a write here
	if rb.BodyType == actor.BodyTypeStatic {
		return
	}

	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = mgl64.Vec3{0, 0, 0}
	}
	if rb.AngularVelocity.Len() < velocityThreshold {
		rb.AngularVelocity = mgl64.Vec3{0, 0, 0}
	}
}
