package sinew

import (
	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/joint"
)

// island is a connected component of the joint graph. Islands share no
// dynamic body, so they can be solved concurrently; within an island the
// solve stays strictly sequential (Gauss-Seidel coupling: an impulse applied
// by one joint must be visible to the next joint touching the same body).
type island struct {
	joints []joint.Joint
}

// solve runs the two-phase protocol over the island: Prepare once per joint,
// then a fixed number of impulse iterations in constant joint order.
func (is *island) solve(dt float64, iterations int) {
	for _, j := range is.joints {
		j.Prepare(dt)
	}

	for i := 0; i < iterations; i++ {
		for _, j := range is.joints {
			j.Step()
		}
	}
}

// buildIslands partitions the joints with a union-find over their dynamic
// bodies. Static bodies never merge islands: they are read-only during the
// solve and may safely border several islands. Joint order inside an island
// follows the world's joint list, so solving is deterministic.
func buildIslands(joints []joint.Joint) []*island {
	parent := make(map[*actor.RigidBody]*actor.RigidBody)

	var find func(body *actor.RigidBody) *actor.RigidBody
	find = func(body *actor.RigidBody) *actor.RigidBody {
		root, ok := parent[body]
		if !ok {
			parent[body] = body
			return body
		}
		if root != body {
			root = find(root)
			parent[body] = root
		}
		return root
	}

	union := func(a, b *actor.RigidBody) {
		parent[find(a)] = find(b)
	}

	for _, j := range joints {
		a, b := j.Bodies()
		if a.Dynamic() && b.Dynamic() {
			union(a, b)
		}
	}

	islands := make([]*island, 0)
	byRoot := make(map[*actor.RigidBody]*island)

	for _, j := range joints {
		a, b := j.Bodies()

		anchor := a
		if !anchor.Dynamic() {
			anchor = b
		}
		if !anchor.Dynamic() {
			// Two static bodies: the joint cannot move anything
			continue
		}

		root := find(anchor)
		is, ok := byRoot[root]
		if !ok {
			is = &island{}
			byRoot[root] = is
			islands = append(islands, is)
		}
		is.joints = append(is.joints, j)
	}

	return islands
}
