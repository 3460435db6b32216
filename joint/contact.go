package joint

import (
	"math"

	"github.com/akmonengine/sinew/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// penetrationSlop is the penetration tolerated before the bias pushes
	// the bodies apart, to avoid jitter on resting contacts
	penetrationSlop = 1e-3

	// restitutionThreshold is the approach speed below which restitution is
	// ignored, so resting contacts do not micro-bounce
	restitutionThreshold = 0.5
)

type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
}

// Contact resolves a collision manifold between two bodies with sequential
// impulses: a non-negative normal impulse with restitution per point, and a
// Coulomb friction impulse clamped by the accumulated normal impulse.
// Manifolds come from an external narrow phase; this joint only solves them.
type Contact struct {
	BodyA, BodyB *actor.RigidBody
	Points       []ContactPoint
	Normal       mgl64.Vec3 // from BodyA to BodyB
	Tuning

	normal             mgl64.Vec3
	tangent1, tangent2 mgl64.Vec3
	solverPoints       []contactSolverPoint
	skip               bool
}

type contactSolverPoint struct {
	rA, rB      mgl64.Vec3
	normalMass  float64
	tangentMass [2]float64
	bias        float64
	accNormal   float64
	accTangent  [2]float64
}

func NewContact(a, b *actor.RigidBody, normal mgl64.Vec3, points []ContactPoint) *Contact {
	return &Contact{
		BodyA:  a,
		BodyB:  b,
		Points: points,
		Normal: normal,
		Tuning: Tuning{BiasFactor: DefaultBiasFactor},
	}
}

func (c *Contact) Bodies() (*actor.RigidBody, *actor.RigidBody) {
	return c.BodyA, c.BodyB
}

func (c *Contact) Reset() {
	c.solverPoints = nil
}

func (c *Contact) Impulse() float64 {
	total := 0.0
	for i := range c.solverPoints {
		total = math.Max(total, c.solverPoints[i].accNormal)
	}

	return total
}

func (c *Contact) Prepare(dt float64) {
	c.skip = true
	if len(c.Points) == 0 {
		return
	}
	if bothSleeping(c.BodyA, c.BodyB) {
		return
	}
	if c.Normal.Len() < degenerateEpsilon {
		return
	}

	c.normal = c.Normal.Normalize()
	c.tangent1, c.tangent2 = tangentBasis(c.normal)

	restitution := ComputeRestitution(c.BodyA.Material, c.BodyB.Material)

	// Carry accumulated impulses over when the manifold keeps its size,
	// otherwise start cold
	previous := c.solverPoints
	if len(previous) != len(c.Points) {
		previous = nil
	}
	c.solverPoints = make([]contactSolverPoint, len(c.Points))

	comA := c.BodyA.WorldCenterOfMass()
	comB := c.BodyB.WorldCenterOfMass()

	for i, point := range c.Points {
		sp := &c.solverPoints[i]
		if previous != nil {
			sp.accNormal = previous[i].accNormal
			sp.accTangent = previous[i].accTangent
		}

		sp.rA = point.Position.Sub(comA)
		sp.rB = point.Position.Sub(comB)

		kn := c.BodyA.InverseMass() + c.BodyB.InverseMass() +
			angularMass(c.BodyA, sp.rA, c.normal) +
			angularMass(c.BodyB, sp.rB, c.normal)
		kn += c.Softness / dt
		if kn < degenerateEpsilon {
			continue
		}
		sp.normalMass = 1.0 / kn

		for k, tangent := range [2]mgl64.Vec3{c.tangent1, c.tangent2} {
			kt := c.BodyA.InverseMass() + c.BodyB.InverseMass() +
				angularMass(c.BodyA, sp.rA, tangent) +
				angularMass(c.BodyB, sp.rB, tangent)
			if kt > degenerateEpsilon {
				sp.tangentMass[k] = 1.0 / kt
			}
		}

		// Baumgarte pushes out of penetration; restitution targets a
		// rebound from the pre-solve approach speed
		separation := -point.Penetration
		sp.bias = c.BiasFactor / dt * math.Min(separation+penetrationSlop, 0)

		approach := c.normal.Dot(
			c.BodyB.PresolveVelocity.Add(c.BodyB.PresolveAngularVelocity.Cross(sp.rB)).
				Sub(c.BodyA.PresolveVelocity.Add(c.BodyA.PresolveAngularVelocity.Cross(sp.rA))))
		if approach < -restitutionThreshold {
			sp.bias += restitution * approach
		}

		// Warm start
		impulse := c.normal.Mul(sp.accNormal).
			Add(c.tangent1.Mul(sp.accTangent[0])).
			Add(c.tangent2.Mul(sp.accTangent[1]))
		c.BodyA.ApplyImpulse(impulse.Mul(-1), sp.rA)
		c.BodyB.ApplyImpulse(impulse, sp.rB)
	}

	c.skip = false
}

func (c *Contact) Step() {
	if c.skip {
		return
	}

	staticFriction := ComputeStaticFriction(c.BodyA.Material, c.BodyB.Material)
	dynamicFriction := ComputeDynamicFriction(c.BodyA.Material, c.BodyB.Material)

	for i := range c.solverPoints {
		sp := &c.solverPoints[i]

		// ========== NORMAL IMPULSE ==========
		jv := c.normal.Dot(relativeVelocity(c.BodyA, c.BodyB, sp.rA, sp.rB))
		lambda := -sp.normalMass * (jv + sp.bias + c.Softness*sp.accNormal)

		// Contacts push, never pull
		newAccumulated := math.Max(sp.accNormal+lambda, 0)
		lambda = newAccumulated - sp.accNormal
		sp.accNormal = newAccumulated

		impulse := c.normal.Mul(lambda)
		c.BodyA.ApplyImpulse(impulse.Mul(-1), sp.rA)
		c.BodyB.ApplyImpulse(impulse, sp.rB)

		// ========== TANGENTIAL IMPULSE (friction) ==========
		if sp.accNormal <= 0 {
			continue
		}

		for k, tangent := range [2]mgl64.Vec3{c.tangent1, c.tangent2} {
			jvt := tangent.Dot(relativeVelocity(c.BodyA, c.BodyB, sp.rA, sp.rB))
			lambdaT := -sp.tangentMass[k] * jvt

			// Coulomb's law: |F_friction| ≤ μ * |F_normal|
			target := sp.accTangent[k] + lambdaT
			maxStatic := staticFriction * sp.accNormal
			if math.Abs(target) > maxStatic {
				maxDynamic := dynamicFriction * sp.accNormal
				target = math.Copysign(maxDynamic, target)
			}

			lambdaT = target - sp.accTangent[k]
			sp.accTangent[k] = target

			frictionImpulse := tangent.Mul(lambdaT)
			c.BodyA.ApplyImpulse(frictionImpulse.Mul(-1), sp.rA)
			c.BodyB.ApplyImpulse(frictionImpulse, sp.rB)
		}
	}

	clampSmallVelocities(c.BodyA)
	clampSmallVelocities(c.BodyB)
}
