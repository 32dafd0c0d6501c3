package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}}

func TestCoordinatesPoint(t *testing.T) {
	x, y, ok := Coordinates(orb.Point{21.01, 52.23})
	require.True(t, ok)
	assert.Equal(t, 21.01, x)
	assert.Equal(t, 52.23, y)

	p, ok := ToPoint(orb.Point{21.01, 52.23})
	require.True(t, ok)
	assert.Equal(t, orb.Point{21.01, 52.23}, p)
}

func TestCoordinatesAbsent(t *testing.T) {
	_, _, ok := Coordinates(nil)
	assert.False(t, ok)

	_, ok = ToPoint(nil)
	assert.False(t, ok)
}

func TestCoordinatesPolygon(t *testing.T) {
	x, y, ok := Coordinates(square)
	require.True(t, ok)
	assert.InDelta(t, 1.0, x, 1e-12)
	assert.InDelta(t, 1.0, y, 1e-12)
}

func TestCoordinatesPolygonWithHole(t *testing.T) {
	// 4x4 square with the right half of its upper-right quadrant cut out
	poly := orb.Polygon{
		{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		{{3, 2}, {3, 4}, {4, 4}, {4, 2}, {3, 2}},
	}

	// outer area 16 at (2,2), hole area 2 at (3.5,3)
	wantX := (16*2.0 - 2*3.5) / 14
	wantY := (16*2.0 - 2*3.0) / 14

	p, ok := ToPoint(poly)
	require.True(t, ok)
	assert.InDelta(t, wantX, p.X(), 1e-9)
	assert.InDelta(t, wantY, p.Y(), 1e-9)
}

func TestCoordinatesMultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{
		{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		{{{2, 0}, {3, 0}, {3, 1}, {2, 1}, {2, 0}}},
	}

	x, y, ok := Coordinates(mp)
	require.True(t, ok)
	assert.InDelta(t, 1.5, x, 1e-12)
	assert.InDelta(t, 0.5, y, 1e-12)
}

func TestCoordinatesMultiPolygonWeightsByArea(t *testing.T) {
	mp := orb.MultiPolygon{
		// area 1 at (0.5,0.5)
		{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		// area 9 at (11.5,1.5)
		{{{10, 0}, {13, 0}, {13, 3}, {10, 3}, {10, 0}}},
	}

	p, ok := ToPoint(mp)
	require.True(t, ok)
	assert.InDelta(t, (0.5+9*11.5)/10, p.X(), 1e-9)
	assert.InDelta(t, (0.5+9*1.5)/10, p.Y(), 1e-9)
}

func TestCoordinatesLineString(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
		want orb.Point
	}{
		{
			name: "straight",
			geom: orb.LineString{{0, 0}, {10, 0}},
			want: orb.Point{5, 0},
		},
		{
			name: "bent",
			geom: orb.LineString{{0, 0}, {3, 0}, {3, 4}},
			want: orb.Point{3, 0.5},
		},
		{
			name: "arc length not vertex average",
			geom: orb.LineString{{0, 0}, {1, 0}, {2, 0}, {100, 0}},
			want: orb.Point{50, 0},
		},
		{
			name: "multi",
			geom: orb.MultiLineString{
				{{0, 0}, {1, 0}},
				{{5, 0}, {5, 3}},
			},
			want: orb.Point{5, 1},
		},
		{
			name: "zero length",
			geom: orb.LineString{{7, 7}, {7, 7}},
			want: orb.Point{7, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := Coordinates(tt.geom)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X(), x, 1e-12)
			assert.InDelta(t, tt.want.Y(), y, 1e-12)

			mid, ok := Interpolate(tt.geom, 0.5)
			require.True(t, ok)
			assert.InDelta(t, mid.X(), x, 1e-12)
			assert.InDelta(t, mid.Y(), y, 1e-12)
		})
	}
}

func TestCoordinatesUnsupported(t *testing.T) {
	for _, g := range []orb.Geometry{
		orb.MultiPoint{{1, 1}, {2, 2}},
		orb.Collection{orb.Point{1, 1}},
		orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}},
		orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
	} {
		_, ok := ToPoint(g)
		assert.False(t, ok, "%T", g)
	}
}

func TestCoordinatesEmpty(t *testing.T) {
	for _, g := range []orb.Geometry{
		orb.LineString{},
		orb.MultiLineString{},
		orb.MultiLineString{{}},
		orb.Polygon{},
		orb.MultiPolygon{},
		orb.MultiPolygon{{}},
	} {
		_, ok := ToPoint(g)
		assert.False(t, ok, "%T", g)
	}
}

func TestCoordinatesZeroAreaPolygon(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
		want orb.Point
	}{
		{
			name: "polygon",
			geom: orb.Polygon{{{3, 3}, {4, 4}, {5, 5}, {3, 3}}},
			want: orb.Point{4, 4},
		},
		{
			name: "multipolygon",
			geom: orb.MultiPolygon{{{{3, 3}, {4, 4}, {5, 5}, {3, 3}}}},
			want: orb.Point{4, 4},
		},
		{
			name: "multipolygon at origin side",
			geom: orb.MultiPolygon{{{{0, 0}, {1, 1}, {2, 2}, {0, 0}}}},
			want: orb.Point{1, 1},
		},
		{
			name: "two flat parts",
			geom: orb.MultiPolygon{
				{{{0, 0}, {2, 0}, {0, 0}}},
				{{{10, 0}, {12, 0}, {10, 0}}},
			},
			want: orb.Point{6, 0},
		},
		{
			name: "collapsed to one position",
			geom: orb.MultiPolygon{{{{7, 8}, {7, 8}, {7, 8}, {7, 8}}}},
			want: orb.Point{7, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ToPoint(tt.geom)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X(), p.X(), 1e-9)
			assert.InDelta(t, tt.want.Y(), p.Y(), 1e-9)
		})
	}
}

func TestArealReducerSkipsLines(t *testing.T) {
	r := Reducer{Kinds: ArealKinds}

	_, ok := r.Point(orb.LineString{{0, 0}, {2, 0}})
	assert.False(t, ok)

	p, ok := r.Point(square)
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.X(), 1e-12)

	p, ok = r.Point(orb.Point{3, 4})
	require.True(t, ok)
	assert.Equal(t, orb.Point{3, 4}, p)
}

func TestToPointIdempotent(t *testing.T) {
	for _, g := range []orb.Geometry{
		orb.Point{1, 2},
		orb.LineString{{0, 0}, {3, 0}, {3, 4}},
		square,
	} {
		once, ok := ToPoint(g)
		require.True(t, ok)
		twice, ok := ToPoint(once)
		require.True(t, ok)
		assert.Equal(t, once, twice)
	}
}

func TestInterpolateClamps(t *testing.T) {
	ls := orb.LineString{{0, 0}, {10, 0}}

	p, ok := Interpolate(ls, -1)
	require.True(t, ok)
	assert.Equal(t, orb.Point{0, 0}, p)

	p, ok = Interpolate(ls, 2)
	require.True(t, ok)
	assert.Equal(t, orb.Point{10, 0}, p)

	_, ok = Interpolate(square, 0.5)
	assert.False(t, ok)

	_, ok = Interpolate(ls, math.NaN())
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindAbsent, Classify(nil))
	assert.Equal(t, KindPoint, Classify(orb.Point{}))
	assert.Equal(t, KindLine, Classify(orb.MultiLineString{}))
	assert.Equal(t, KindArea, Classify(orb.MultiPolygon{}))
	assert.Equal(t, KindUnsupported, Classify(orb.MultiPoint{}))
	assert.Equal(t, "area", KindArea.String())
	assert.False(t, AllKinds.Has(KindUnsupported))
}
