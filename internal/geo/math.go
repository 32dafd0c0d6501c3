package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Interpolate returns the point at the given fraction of the total planar
// length of a LineString or MultiLineString. The parts of a MultiLineString
// are walked in order as if joined end to end; the gaps between parts do not
// count towards the length.
//
// The fraction is clamped to [0, 1]; NaN yields false. A line with zero length
// yields its first vertex. Empty lines and other geometries yield false.
func Interpolate(g orb.Geometry, fraction float64) (orb.Point, bool) {
	var lines orb.MultiLineString
	switch g := g.(type) {
	case orb.LineString:
		lines = orb.MultiLineString{g}
	case orb.MultiLineString:
		lines = g
	default:
		return orb.Point{}, false
	}

	first, ok := firstVertex(lines)
	if !ok || math.IsNaN(fraction) {
		return orb.Point{}, false
	}

	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	total := planar.Length(lines)
	if total == 0 {
		return first, true
	}

	target := total * fraction
	walked := 0.0
	var last orb.Point
	for _, ls := range lines {
		for i := 1; i < len(ls); i++ {
			a, b := ls[i-1], ls[i]
			seg := planar.Distance(a, b)
			if seg > 0 && walked+seg >= target {
				t := (target - walked) / seg
				return orb.Point{
					a[0] + (b[0]-a[0])*t,
					a[1] + (b[1]-a[1])*t,
				}, true
			}
			walked += seg
			last = b
		}
	}

	// float rounding can leave target a hair past the accumulated length
	return last, true
}

// Midpoint returns the point halfway along a line by arc length.
func Midpoint(g orb.Geometry) (orb.Point, bool) {
	return Interpolate(g, 0.5)
}

// Centroid returns the area-weighted centroid of a Polygon or MultiPolygon.
// Holes are subtracted. When the total area is zero the length-weighted
// centroid of the outer rings is used instead. Empty polygons yield false.
func Centroid(g orb.Geometry) (orb.Point, bool) {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 || len(g[0]) == 0 {
			return orb.Point{}, false
		}
	case orb.MultiPolygon:
		empty := true
		for _, p := range g {
			if len(p) > 0 && len(p[0]) > 0 {
				empty = false
				break
			}
		}
		if empty {
			return orb.Point{}, false
		}
	default:
		return orb.Point{}, false
	}

	c, area := planar.CentroidArea(g)
	if area == 0 {
		return outlineCentroid(g)
	}
	return c, true
}

// outlineCentroid weights the midpoint of every outer ring segment by its
// length. Rings collapsed to a single position yield that position.
func outlineCentroid(g orb.Geometry) (orb.Point, bool) {
	var rings orb.MultiLineString
	switch g := g.(type) {
	case orb.Polygon:
		rings = append(rings, orb.LineString(g[0]))
	case orb.MultiPolygon:
		for _, p := range g {
			if len(p) > 0 {
				rings = append(rings, orb.LineString(p[0]))
			}
		}
	}

	var sx, sy, total float64
	for _, ls := range rings {
		for i := 1; i < len(ls); i++ {
			a, b := ls[i-1], ls[i]
			seg := planar.Distance(a, b)
			sx += (a[0] + b[0]) / 2 * seg
			sy += (a[1] + b[1]) / 2 * seg
			total += seg
		}
	}

	if total == 0 {
		return firstVertex(rings)
	}
	return orb.Point{sx / total, sy / total}, true
}

func firstVertex(lines orb.MultiLineString) (orb.Point, bool) {
	for _, ls := range lines {
		if len(ls) > 0 {
			return ls[0], true
		}
	}
	return orb.Point{}, false
}
