package dtn

import (
	"math/rand/v2"

	"github.com/paulmach/orb"

	"github.com/sarchlab/dtnsim/geo"
)

// Mobility moves a node through the simulated area.
type Mobility interface {
	Location() orb.Point

	// Path returns the waypoints ahead, nearest first, or nil when the
	// future movement is not known.
	Path() orb.LineString

	// Move advances the node by dt seconds.
	Move(dt float64)
}

// Stationary is a node that never moves. Its path is unknown.
type Stationary struct {
	loc orb.Point
}

// NewStationary creates a Stationary mobility at loc.
func NewStationary(loc orb.Point) *Stationary {
	return &Stationary{loc: loc}
}

// Location returns the fixed position.
func (s *Stationary) Location() orb.Point { return s.loc }

// Path returns nil.
func (s *Stationary) Path() orb.LineString { return nil }

// Move does nothing.
func (s *Stationary) Move(float64) {}

// RandomWaypoint walks from one random waypoint to the next at a random
// speed. It always knows the next few waypoints, which makes up its path.
type RandomWaypoint struct {
	rng       *rand.Rand
	area      geo.Area
	minSpeed  float64
	maxSpeed  float64
	lookahead int

	loc       orb.Point
	speed     float64
	waypoints []orb.Point
}

// NewRandomWaypoint creates a RandomWaypoint mobility starting at a random
// point of the area.
func NewRandomWaypoint(
	rng *rand.Rand,
	area geo.Area,
	minSpeed, maxSpeed float64,
	lookahead int,
) *RandomWaypoint {
	if lookahead < 1 {
		lookahead = 1
	}

	m := &RandomWaypoint{
		rng:       rng,
		area:      area,
		minSpeed:  minSpeed,
		maxSpeed:  maxSpeed,
		lookahead: lookahead,
	}
	m.loc = m.randomPoint()
	m.speed = m.randomSpeed()
	m.refill()

	return m
}

// Location returns the current position.
func (m *RandomWaypoint) Location() orb.Point { return m.loc }

// Path returns the upcoming waypoints.
func (m *RandomWaypoint) Path() orb.LineString {
	path := make(orb.LineString, len(m.waypoints))
	copy(path, m.waypoints)

	return path
}

// Move walks speed*dt along the waypoints, picking a new speed at every
// waypoint reached.
func (m *RandomWaypoint) Move(dt float64) {
	step := m.speed * dt

	for step > 0 {
		target := m.waypoints[0]
		travelled := geo.Distance(m.loc, target)

		next, arrived := geo.MoveTowards(m.loc, target, step)
		m.loc = next
		if !arrived {
			return
		}

		step -= travelled
		m.waypoints = m.waypoints[1:]
		m.speed = m.randomSpeed()
		m.refill()
	}
}

func (m *RandomWaypoint) refill() {
	for len(m.waypoints) < m.lookahead {
		m.waypoints = append(m.waypoints, m.randomPoint())
	}
}

func (m *RandomWaypoint) randomPoint() orb.Point {
	return orb.Point{
		m.rng.Float64() * m.area.Width,
		m.rng.Float64() * m.area.Height,
	}
}

func (m *RandomWaypoint) randomSpeed() float64 {
	return m.minSpeed + m.rng.Float64()*(m.maxSpeed-m.minSpeed)
}
