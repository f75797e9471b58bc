// Package geo provides the planar geometry used by nodes moving through the
// simulated area.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MaxDistance is returned when no distance can be estimated. It ranks below
// every finite distance. In float64, scores built from 1/(d+1) stop telling
// it apart from finite distances of about 1e16 and more.
const MaxDistance = math.MaxFloat64

// Distance returns the Euclidean distance between two points.
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// MinDistanceToPath returns the smallest Euclidean distance between p and any
// waypoint of path. A nil or empty path is unknown and yields MaxDistance.
func MinDistanceToPath(p orb.Point, path orb.LineString) float64 {
	distance := MaxDistance

	for _, waypoint := range path {
		d := planar.Distance(p, waypoint)
		if d < distance {
			distance = d
		}
	}

	return distance
}

// MoveTowards returns the point reached after travelling at most step units
// from `from` in the direction of `to`, and whether `to` has been reached.
func MoveTowards(from, to orb.Point, step float64) (orb.Point, bool) {
	remaining := planar.Distance(from, to)
	if remaining <= step {
		return to, true
	}

	ratio := step / remaining

	return orb.Point{
		from[0] + (to[0]-from[0])*ratio,
		from[1] + (to[1]-from[1])*ratio,
	}, false
}

// Area is the rectangle nodes move within.
type Area struct {
	Width  float64
	Height float64
}

// Bound returns the area as an orb.Bound anchored at the origin.
func (a Area) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{a.Width, a.Height}}
}

// Contains tells if a point lies inside the area.
func (a Area) Contains(p orb.Point) bool {
	return a.Bound().Contains(p)
}
