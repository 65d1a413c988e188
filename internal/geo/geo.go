// Package geo holds the planar geometry used for hit-testing and track lines.
// World coordinates are flat display units, not geodetic.
package geo

import (
	"errors"

	"github.com/OCAP2/radar/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrDegenerateSegment is returned when a segment has no length.
var ErrDegenerateSegment = errors.New("degenerate segment")

// ToXY converts a world vector to a simplefeatures coordinate.
func ToXY(v core.Vec2) geom.XY {
	return geom.XY{X: v.X, Y: v.Y}
}

// FromXY converts a simplefeatures coordinate to a world vector.
func FromXY(xy geom.XY) core.Vec2 {
	return core.Vec2{X: xy.X, Y: xy.Y}
}

// Distance returns the Euclidean distance between two world points.
func Distance(a, b core.Vec2) float64 {
	return ToXY(a).Sub(ToXY(b)).Length()
}

// FirstWithin returns the first ship, in slice order, whose position lies
// strictly closer than radius to p.
func FirstWithin(ships []core.Ship, p core.Vec2, radius float64) (core.Ship, bool) {
	if !(radius > 0) {
		return core.Ship{}, false
	}
	target := ToXY(p)
	for _, s := range ships {
		if ToXY(s.Position).Sub(target).Length() < radius {
			return s, true
		}
	}
	return core.Ship{}, false
}

// Segment builds a two-point line string from a to b.
func Segment(a, b core.Vec2) (geom.LineString, error) {
	if a == b {
		return geom.LineString{}, ErrDegenerateSegment
	}
	seq := geom.NewSequence([]float64{a.X, a.Y, b.X, b.Y}, geom.DimXY)
	return geom.NewLineString(seq)
}

// Along returns the point at distance d from a towards b.
func Along(a, b core.Vec2, d float64) core.Vec2 {
	dir := ToXY(b).Sub(ToXY(a))
	l := dir.Length()
	if l == 0 {
		return a
	}
	return FromXY(ToXY(a).Add(dir.Scale(d / l)))
}
