package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/akmonengine/sinew"
	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/joint"
	"github.com/go-gl/mathgl/mgl64"
)

// Scene wires a world with bodies and joints. Focus is the body the plots
// and the live view follow; Drift measures how well the scene's constraint
// holds (0 is perfect).
type Scene struct {
	Name        string
	Description string
	Build       func(cfg *sinew.Config) (*sinew.World, *actor.RigidBody)
	Drift       func(w *sinew.World, focus *actor.RigidBody) float64
}

var scenes = map[string]Scene{
	"pendulum": {
		Name:        "pendulum",
		Description: "sphere on a ball joint, swinging from a static anchor",
		Build:       buildPendulum,
		Drift: func(_ *sinew.World, focus *actor.RigidBody) float64 {
			return math.Abs(focus.WorldCenterOfMass().Len() - 1.0)
		},
	},
	"chain": {
		Name:        "chain",
		Description: "five links hanging on distance joints",
		Build:       buildChain,
		Drift: func(w *sinew.World, _ *actor.RigidBody) float64 {
			worst := 0.0
			for i := 1; i < len(w.Bodies); i++ {
				length := w.Bodies[i].WorldCenterOfMass().Sub(w.Bodies[i-1].WorldCenterOfMass()).Len()
				worst = math.Max(worst, math.Abs(length-0.5))
			}
			return worst
		},
	},
	"prismatic": {
		Name:        "prismatic",
		Description: "box sliding down a fixed vertical rail",
		Build:       buildPrismatic,
		Drift: func(_ *sinew.World, focus *actor.RigidBody) float64 {
			p := focus.WorldCenterOfMass()
			return math.Hypot(p.X(), p.Z())
		},
	},
	"hinge": {
		Name:        "hinge",
		Description: "door swinging on a vertical hinge",
		Build:       buildHinge,
		Drift: func(_ *sinew.World, focus *actor.RigidBody) float64 {
			// The hinge edge must stay on the Y axis
			edge := focus.WorldCenterOfMass().Add(focus.Transform.Rotation.Rotate(mgl64.Vec3{-0.5, 0, 0}))
			return math.Hypot(edge.X(), edge.Z())
		},
	},
	"cradle": {
		Name:        "cradle",
		Description: "three spheres on ropes, the outer one released",
		Build:       buildCradle,
	},
}

func sceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func newSphere(position mgl64.Vec3, radius float64) *actor.RigidBody {
	shape := actor.NewShapeComponent(actor.Sphere{Radius: radius}, mgl64.Vec3{}, 1.0)
	transform := actor.NewTransform()
	transform.Position = position

	return actor.NewRigidBody(transform, shape, actor.BodyTypeDynamic, 1.0)
}

func newBox(position, halfExtents mgl64.Vec3) *actor.RigidBody {
	shape := actor.NewShapeComponent(actor.Box{HalfExtents: halfExtents}, mgl64.Vec3{}, 1.0)
	transform := actor.NewTransform()
	transform.Position = position

	return actor.NewRigidBody(transform, shape, actor.BodyTypeDynamic, 1.0)
}

func newAnchor(position mgl64.Vec3) *actor.RigidBody {
	shape := actor.NewShapeComponent(actor.Box{HalfExtents: mgl64.Vec3{0.1, 0.1, 0.1}}, mgl64.Vec3{}, 1.0)
	transform := actor.NewTransform()
	transform.Position = position

	return actor.NewRigidBody(transform, shape, actor.BodyTypeStatic, 1.0)
}

func buildPendulum(cfg *sinew.Config) (*sinew.World, *actor.RigidBody) {
	w := sinew.NewWorld(cfg)

	anchor := newAnchor(mgl64.Vec3{0, 0, 0})
	bob := newSphere(mgl64.Vec3{1, 0, 0}, 0.2)
	w.AddBody(anchor)
	w.AddBody(bob)

	ball := joint.NewBall(anchor, bob, mgl64.Vec3{0, 0, 0})
	ball.Tuning = cfg.Tuning()
	w.AddJoint(ball)

	return w, bob
}

func buildChain(cfg *sinew.Config) (*sinew.World, *actor.RigidBody) {
	w := sinew.NewWorld(cfg)

	previous := newAnchor(mgl64.Vec3{0, 0, 0})
	w.AddBody(previous)

	for i := 1; i <= 5; i++ {
		link := newSphere(mgl64.Vec3{float64(i) * 0.5, 0, 0}, 0.1)
		w.AddBody(link)

		rope := joint.NewDistance(previous, link,
			previous.WorldCenterOfMass(), link.WorldCenterOfMass(), joint.LimitDistance)
		rope.Tuning = cfg.Tuning()
		w.AddJoint(rope)

		previous = link
	}

	return w, previous
}

func buildPrismatic(cfg *sinew.Config) (*sinew.World, *actor.RigidBody) {
	w := sinew.NewWorld(cfg)

	rail := newAnchor(mgl64.Vec3{0, 0, 0})
	carriage := newBox(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0.3, 0.3, 0.3})
	w.AddBody(rail)
	w.AddBody(carriage)

	slider := joint.NewPrismatic(rail, carriage)
	slider.Angle.Tuning = cfg.Tuning()
	slider.Slider.Tuning = cfg.Tuning()
	w.AddJoint(slider)

	return w, carriage
}

func buildHinge(cfg *sinew.Config) (*sinew.World, *actor.RigidBody) {
	w := sinew.NewWorld(cfg)

	frame := newAnchor(mgl64.Vec3{0, 0, 0})
	door := newBox(mgl64.Vec3{0.5, 0, 0}, mgl64.Vec3{0.5, 1, 0.05})
	door.AngularVelocity = mgl64.Vec3{0, 2, 0} // push it open
	w.AddBody(frame)
	w.AddBody(door)

	hinge := joint.NewHinge(frame, door, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0})
	hinge.AxisAngle.Tuning = cfg.Tuning()
	hinge.Ball.Tuning = cfg.Tuning()
	w.AddJoint(hinge)

	return w, door
}

func buildCradle(cfg *sinew.Config) (*sinew.World, *actor.RigidBody) {
	w := sinew.NewWorld(cfg)

	var released *actor.RigidBody
	for i := 0; i < 3; i++ {
		x := float64(i) * 0.45
		anchor := newAnchor(mgl64.Vec3{x, 0, 0})
		ball := newSphere(mgl64.Vec3{x, -1, 0}, 0.2)
		ball.Material.Restitution = 0.95

		if i == 0 {
			// Swing the first ball out to the side
			ball.Transform.Position = mgl64.Vec3{x - 1, 0, 0}
			ball.Shape.SetTransform(ball.Transform)
			released = ball
		}

		w.AddBody(anchor)
		w.AddBody(ball)

		rope := joint.NewDistance(anchor, ball,
			anchor.WorldCenterOfMass(), ball.WorldCenterOfMass(), joint.LimitMaximumDistance)
		rope.Target = 1.0
		rope.Tuning = cfg.Tuning()
		w.AddJoint(rope)
	}

	return w, released
}

// kineticEnergy sums ½mv² + ½ω·Iω over the dynamic bodies
func kineticEnergy(w *sinew.World) float64 {
	total := 0.0
	for _, body := range w.Bodies {
		if !body.Dynamic() {
			continue
		}

		total += 0.5 * body.Material.GetMass() * body.Velocity.Dot(body.Velocity)
		total += 0.5 * body.AngularVelocity.Dot(body.GetInertiaWorld().Mul3x1(body.AngularVelocity))
	}

	return total
}

func sceneByName(name string) (Scene, error) {
	scene, ok := scenes[name]
	if !ok {
		return Scene{}, fmt.Errorf("unknown scene: %s (available: %v)", name, sceneNames())
	}

	return scene, nil
}
