package geo

import "github.com/paulmach/orb"

// Reducer turns a geometry into a single representative point.
//
// Kinds limits the variants it accepts; the zero value accepts all of them.
// Anything outside the set, an absent geometry or an empty one reduces to
// nothing rather than failing.
type Reducer struct {
	Kinds Kinds
}

// DefaultReducer accepts points, lines and polygons.
var DefaultReducer = Reducer{Kinds: AllKinds}

func (r Reducer) kinds() Kinds {
	if r.Kinds == 0 {
		return AllKinds
	}
	return r.Kinds
}

// Point returns the representative point of g:
//   - Point: g itself
//   - LineString, MultiLineString: the midpoint by arc length
//   - Polygon, MultiPolygon: the area-weighted centroid
func (r Reducer) Point(g orb.Geometry) (orb.Point, bool) {
	kind := Classify(g)
	if !r.kinds().Has(kind) {
		return orb.Point{}, false
	}

	switch kind {
	case KindPoint:
		return g.(orb.Point), true
	case KindLine:
		return Midpoint(g)
	case KindArea:
		return Centroid(g)
	}
	return orb.Point{}, false
}

// Coordinates returns the x (longitude) and y (latitude) of the
// representative point of g.
func (r Reducer) Coordinates(g orb.Geometry) (x, y float64, ok bool) {
	p, ok := r.Point(g)
	if !ok {
		return 0, 0, false
	}
	return p.X(), p.Y(), true
}

// ToPoint reduces g with the DefaultReducer.
func ToPoint(g orb.Geometry) (orb.Point, bool) {
	return DefaultReducer.Point(g)
}

// Coordinates reduces g with the DefaultReducer and returns x, y.
func Coordinates(g orb.Geometry) (x, y float64, ok bool) {
	return DefaultReducer.Coordinates(g)
}
