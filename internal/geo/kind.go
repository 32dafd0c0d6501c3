package geo

import "github.com/paulmach/orb"

// Kind tags the geometry variants a Reducer knows how to handle.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindPoint
	KindLine
	KindArea
	KindUnsupported
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindArea:
		return "area"
	default:
		return "unsupported"
	}
}

// Kinds is a set of supported kinds.
type Kinds uint8

const (
	// ArealKinds covers points and polygons only.
	ArealKinds Kinds = 1<<KindPoint | 1<<KindArea
	// AllKinds covers points, lines and polygons.
	AllKinds Kinds = ArealKinds | 1<<KindLine
)

// Has reports whether k is in the set.
func (s Kinds) Has(k Kind) bool {
	if k == KindAbsent || k == KindUnsupported {
		return false
	}
	return s&(1<<k) != 0
}

// Classify maps an orb geometry to its Kind.
func Classify(g orb.Geometry) Kind {
	switch g.(type) {
	case nil:
		return KindAbsent
	case orb.Point:
		return KindPoint
	case orb.LineString, orb.MultiLineString:
		return KindLine
	case orb.Polygon, orb.MultiPolygon:
		return KindArea
	default:
		return KindUnsupported
	}
}
