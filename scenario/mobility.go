// Package scenario provides a synthetic measurement and device layer: nodes
// moving at constant velocity, flows whose delay grows with the aggregation
// size of their access point, and a scripted association schedule.
package scenario

import (
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

type motion struct {
	start    wlan.Vector
	velocity wlan.Vector
}

// LinearMobility moves every node along a straight line from its start
// position.
type LinearMobility struct {
	time  sim.TimeTeller
	nodes map[wlan.NodeID]motion
}

// NewLinearMobility creates a LinearMobility without nodes.
func NewLinearMobility(time sim.TimeTeller) *LinearMobility {
	return &LinearMobility{
		time:  time,
		nodes: make(map[wlan.NodeID]motion),
	}
}

// Place adds a node that starts at pos and moves with velocity in meters per
// second.
func (m *LinearMobility) Place(id wlan.NodeID, pos, velocity wlan.Vector) {
	m.nodes[id] = motion{start: pos, velocity: velocity}
}

// Position returns where the node is now. Unknown nodes sit at the origin.
func (m *LinearMobility) Position(id wlan.NodeID) wlan.Vector {
	n := m.nodes[id]
	t := float64(m.time.CurrentTime())

	return n.start.Add(n.velocity.Scale(t))
}
