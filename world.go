package sinew

import (
	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/joint"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// World owns the rigid bodies and the joints between them, and drives the
// per-step solve: integrate forces, Prepare every joint once, run the impulse
// iterations, then integrate positions.
type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Joints between the bodies, solved in list order
	Joints []joint.Joint
	// Gravity acceleration (m/s², or N/kg)
	Gravity    mgl64.Vec3
	Substeps   int
	Iterations int
	Workers    int

	SleepTime     float64
	SleepVelocity float64

	Events Events
}

// NewWorld builds a world from a solver configuration
func NewWorld(cfg *Config) *World {
	return &World{
		Gravity:       cfg.GravityVec(),
		Substeps:      cfg.Substeps,
		Iterations:    cfg.Iterations,
		Workers:       cfg.Workers,
		SleepTime:     cfg.SleepTime,
		SleepVelocity: cfg.SleepVelocity,
		Events:        NewEvents(),
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body and every joint attached to it
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	n := 0
	for _, j := range w.Joints {
		a, b := j.Bodies()
		if a != body && b != body {
			w.Joints[n] = j
			n++
		}
	}
	w.Joints = w.Joints[:n]

	delete(w.Events.sleepStates, body)
}

// AddJoint adds a joint to the world. The accumulated impulse is cleared so
// a joint re-added after removal cannot warm-start from stale state.
func (w *World) AddJoint(j joint.Joint) {
	j.Reset()

	a, b := j.Bodies()
	a.Awake()
	b.Awake()

	w.Joints = append(w.Joints, j)
}

// RemoveJoint removes a joint and wakes its bodies
func (w *World) RemoveJoint(j joint.Joint) {
	for i, candidate := range w.Joints {
		if candidate == j {
			w.Joints = append(w.Joints[:i], w.Joints[i+1:]...)

			a, b := j.Bodies()
			a.Awake()
			b.Awake()
			return
		}
	}
}

func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	substeps := max(1, w.Substeps)
	iterations := max(1, w.Iterations)
	h := dt / float64(substeps)

	for i__ := 0; i__ < substeps; i__++ {
		// Phase 1: forces and gravity into velocities
		w.integrateForces(h)

		// Phase 2: solve the joint islands. Bodies are never shared across
		// islands, so they can run on separate workers.
		islands := buildIslands(w.Joints)
		task(w.Workers, islands, func(is *island) {
			is.solve(h, iterations)
		})

		// Phase 3: commit the solved velocities into positions
		w.integratePositions(h)

		w.trySleep(h)
	}

	w.breakJoints()
	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

func (w *World) integrateForces(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.IntegrateForces(h, w.Gravity)
	})
}

func (w *World) integratePositions(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.IntegratePositions(h)
	})
}

// trySleep sets bodies to sleep when their velocity stays under the
// threshold for long enough
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	sleepTime := w.SleepTime
	if sleepTime <= 0 {
		sleepTime = DefaultSleepTime
	}
	sleepVelocity := w.SleepVelocity
	if sleepVelocity <= 0 {
		sleepVelocity = DefaultSleepVelocity
	}

	for _, body := range w.Bodies {
		body.TrySleep(h, sleepTime, sleepVelocity)
	}
}

// breakJoints removes every joint whose accumulated impulse exceeded its
// break threshold during this step and buffers a break event for each
func (w *World) breakJoints() {
	n := 0
	for _, j := range w.Joints {
		threshold := j.BreakThreshold()
		if threshold > 0 && j.Impulse() > threshold {
			w.Events.emitJointBreak(j, j.Impulse())

			a, b := j.Bodies()
			a.Awake()
			b.Awake()
			continue
		}

		w.Joints[n] = j
		n++
	}
	w.Joints = w.Joints[:n]
}
