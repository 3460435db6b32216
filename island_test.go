package sinew

import (
	"testing"

	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/joint"
	"github.com/go-gl/mathgl/mgl64"
)

func newDynamicBody(position mgl64.Vec3) *actor.RigidBody {
	shape := actor.NewShapeComponent(actor.Sphere{Radius: 0.5}, mgl64.Vec3{}, 1.0)
	transform := actor.NewTransform()
	transform.Position = position

	return actor.NewRigidBody(transform, shape, actor.BodyTypeDynamic, 1.0)
}

func newStaticBody(position mgl64.Vec3) *actor.RigidBody {
	shape := actor.NewShapeComponent(actor.Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, mgl64.Vec3{}, 1.0)
	transform := actor.NewTransform()
	transform.Position = position

	return actor.NewRigidBody(transform, shape, actor.BodyTypeStatic, 1.0)
}

func link(a, b *actor.RigidBody) joint.Joint {
	return joint.NewBall(a, b, a.WorldCenterOfMass().Add(b.WorldCenterOfMass()).Mul(0.5))
}

func TestBuildIslandsDisjointPairs(t *testing.T) {
	a := newDynamicBody(mgl64.Vec3{0, 0, 0})
	b := newDynamicBody(mgl64.Vec3{2, 0, 0})
	c := newDynamicBody(mgl64.Vec3{10, 0, 0})
	d := newDynamicBody(mgl64.Vec3{12, 0, 0})

	islands := buildIslands([]joint.Joint{link(a, b), link(c, d)})

	if len(islands) != 2 {
		t.Fatalf("len(islands) = %d, want 2", len(islands))
	}
	for i, is := range islands {
		if len(is.joints) != 1 {
			t.Errorf("islands[%d] has %d joints, want 1", i, len(is.joints))
		}
	}
}

func TestBuildIslandsBridgedChain(t *testing.T) {
	a := newDynamicBody(mgl64.Vec3{0, 0, 0})
	b := newDynamicBody(mgl64.Vec3{2, 0, 0})
	c := newDynamicBody(mgl64.Vec3{10, 0, 0})
	d := newDynamicBody(mgl64.Vec3{12, 0, 0})

	// The b-c bridge merges the two pairs
	joints := []joint.Joint{link(a, b), link(c, d), link(b, c)}
	islands := buildIslands(joints)

	if len(islands) != 1 {
		t.Fatalf("len(islands) = %d, want 1", len(islands))
	}
	if len(islands[0].joints) != 3 {
		t.Errorf("island has %d joints, want 3", len(islands[0].joints))
	}

	// World joint order is preserved inside the island
	for i, j := range joints {
		if islands[0].joints[i] != j {
			t.Errorf("island joint %d out of order", i)
		}
	}
}

func TestBuildIslandsStaticHubDoesNotMerge(t *testing.T) {
	hub := newStaticBody(mgl64.Vec3{0, 0, 0})
	a := newDynamicBody(mgl64.Vec3{2, 0, 0})
	b := newDynamicBody(mgl64.Vec3{-2, 0, 0})

	// Both pendulums hang from the same static body; they stay independent
	islands := buildIslands([]joint.Joint{link(hub, a), link(hub, b)})

	if len(islands) != 2 {
		t.Fatalf("len(islands) = %d, want 2 (static bodies never merge)", len(islands))
	}
}

func TestBuildIslandsSkipsFullyStaticJoint(t *testing.T) {
	a := newStaticBody(mgl64.Vec3{0, 0, 0})
	b := newStaticBody(mgl64.Vec3{2, 0, 0})

	islands := buildIslands([]joint.Joint{link(a, b)})

	if len(islands) != 0 {
		t.Fatalf("len(islands) = %d, want 0 for a joint between two static bodies", len(islands))
	}
}

func TestIslandSolveMatchesDirectSolve(t *testing.T) {
	const dt = 1.0 / 60.0

	a1 := newDynamicBody(mgl64.Vec3{0, 0, 0})
	b1 := newDynamicBody(mgl64.Vec3{2, 0, 0})
	b1.Velocity = mgl64.Vec3{0, 1, 0}
	j1 := link(a1, b1)

	a2 := newDynamicBody(mgl64.Vec3{0, 0, 0})
	b2 := newDynamicBody(mgl64.Vec3{2, 0, 0})
	b2.Velocity = mgl64.Vec3{0, 1, 0}
	j2 := link(a2, b2)

	is := &island{joints: []joint.Joint{j1}}
	is.solve(dt, 4)

	j2.Prepare(dt)
	for i__ := 0; i__ < 4; i__++ {
		j2.Step()
	}

	if b1.Velocity != b2.Velocity || a1.Velocity != a2.Velocity {
		t.Errorf("island solve diverged: %v vs %v", b1.Velocity, b2.Velocity)
	}
}
