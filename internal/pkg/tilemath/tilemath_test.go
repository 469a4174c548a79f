package tilemath_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/address-tiles/internal/pkg/tilemath"
)

func TestPointToTile_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		zoom     int
		expected tilemath.Tile
	}{
		{"origin at zoom 0", 0, 0, 0, tilemath.Tile{Z: 0, X: 0, Y: 0}},
		{"eiffel tower z13", 2.294694, 48.858093, 13, tilemath.Tile{Z: 13, X: 4148, Y: 2818}},
		{"eiffel tower z14", 2.294694, 48.858093, 14, tilemath.Tile{Z: 14, X: 8296, Y: 5636}},
		{"line start z13", 2.0, 48.0, 13, tilemath.Tile{Z: 13, X: 4141, Y: 2847}},
		{"line end z13", 2.1, 48.1, 13, tilemath.Tile{Z: 13, X: 4143, Y: 2844}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tilemath.PointToTile(tt.lon, tt.lat, tt.zoom))
		})
	}
}

func TestPointToTile_Clamped(t *testing.T) {
	for zoom := 0; zoom <= 20; zoom++ {
		last := (1 << uint(zoom)) - 1

		assert.Equal(t, last, tilemath.PointToTile(180, 0, zoom).X, "antimeridian east at z%d", zoom)
		assert.Equal(t, 0, tilemath.PointToTile(-180, 0, zoom).X, "antimeridian west at z%d", zoom)
		assert.Equal(t, 0, tilemath.PointToTile(0, 90, zoom).Y, "north pole at z%d", zoom)
		assert.Equal(t, last, tilemath.PointToTile(0, -90, zoom).Y, "south pole at z%d", zoom)
		assert.True(t, tilemath.PointToTile(181, -91, zoom).Valid())
	}
}

func TestPointToTile_MatchesOrbMaptile(t *testing.T) {
	points := []orb.Point{
		{2.294694, 48.858093},
		{-73.985656, 40.748433},
		{139.745433, 35.658581},
		{-43.210487, -22.951916},
		{151.215297, -33.856784},
	}

	for _, p := range points {
		for zoom := 0; zoom <= 22; zoom++ {
			expected := maptile.At(p, maptile.Zoom(zoom))
			got := tilemath.PointToTile(p.Lon(), p.Lat(), zoom)

			assert.Equal(t, int(expected.X), got.X, "x for %v at z%d", p, zoom)
			assert.Equal(t, int(expected.Y), got.Y, "y for %v at z%d", p, zoom)
		}
	}
}

func TestTileToBbox(t *testing.T) {
	world := tilemath.TileToBbox(tilemath.Tile{})
	assert.InDelta(t, -180, world.Min.Lon(), 1e-9)
	assert.InDelta(t, 180, world.Max.Lon(), 1e-9)
	assert.InDelta(t, -tilemath.MaxLatitude, world.Min.Lat(), 1e-9)
	assert.InDelta(t, tilemath.MaxLatitude, world.Max.Lat(), 1e-9)

	tile := tilemath.Tile{Z: 13, X: 4148, Y: 2818}
	expected := maptile.New(4148, 2818, 13).Bound()
	got := tilemath.TileToBbox(tile)
	assert.InDelta(t, expected.Min.Lon(), got.Min.Lon(), 1e-9)
	assert.InDelta(t, expected.Min.Lat(), got.Min.Lat(), 1e-9)
	assert.InDelta(t, expected.Max.Lon(), got.Max.Lon(), 1e-9)
	assert.InDelta(t, expected.Max.Lat(), got.Max.Lat(), 1e-9)

	// the bbox contains the point it was computed from
	assert.True(t, got.Contains(orb.Point{2.294694, 48.858093}))
}

func TestParent(t *testing.T) {
	parent, err := tilemath.Parent(tilemath.Tile{Z: 14, X: 8297, Y: 5637})
	require.NoError(t, err)
	assert.Equal(t, tilemath.Tile{Z: 13, X: 4148, Y: 2818}, parent)

	root := tilemath.Tile{}
	same, err := tilemath.Parent(root)
	assert.ErrorIs(t, err, tilemath.ErrNoParent)
	assert.Equal(t, root, same)
}

func TestParentAt(t *testing.T) {
	tile := tilemath.Tile{Z: 17, X: 66371, Y: 45091}

	assert.Equal(t, tilemath.Tile{Z: 13, X: 4148, Y: 2818}, tilemath.ParentAt(tile, 13))
	assert.Equal(t, tile, tilemath.ParentAt(tile, 17))
	assert.Equal(t, tile, tilemath.ParentAt(tile, 19))
	assert.Equal(t, tilemath.Tile{}, tilemath.ParentAt(tile, -3))
}

func TestChildren_ParentRoundTrip(t *testing.T) {
	tiles := []tilemath.Tile{
		{Z: 0, X: 0, Y: 0},
		{Z: 1, X: 1, Y: 0},
		{Z: 13, X: 4148, Y: 2818},
		{Z: 20, X: 530000, Y: 360000},
	}

	for _, tile := range tiles {
		children := tilemath.Children(tile)
		require.Len(t, children, 4)

		seen := make(map[tilemath.Tile]bool)
		for _, child := range children {
			assert.True(t, child.Valid(), "child %s", child)
			parent, err := tilemath.Parent(child)
			require.NoError(t, err)
			assert.Equal(t, tile, parent)
			seen[child] = true
		}
		assert.Len(t, seen, 4, "children of %s must be distinct", tile)
	}
}

func TestChildren_PartitionParentBbox(t *testing.T) {
	for _, tile := range []tilemath.Tile{{Z: 1, X: 0, Y: 1}, {Z: 13, X: 4148, Y: 2818}, {Z: 18, X: 132742, Y: 90183}} {
		parent := tilemath.TileToBbox(tile)

		var union orb.Bound
		var area float64
		for i, child := range tilemath.Children(tile) {
			b := tilemath.TileToBbox(child)
			if i == 0 {
				union = b
			} else {
				union = union.Union(b)
			}
			area += (b.Max.Lon() - b.Min.Lon()) * (b.Max.Lat() - b.Min.Lat())
		}

		const eps = 1e-9
		assert.InDelta(t, parent.Min.Lon(), union.Min.Lon(), eps)
		assert.InDelta(t, parent.Min.Lat(), union.Min.Lat(), eps)
		assert.InDelta(t, parent.Max.Lon(), union.Max.Lon(), eps)
		assert.InDelta(t, parent.Max.Lat(), union.Max.Lat(), eps)

		// no overlap: the children areas sum up to the parent area
		parentArea := (parent.Max.Lon() - parent.Min.Lon()) * (parent.Max.Lat() - parent.Min.Lat())
		assert.InEpsilon(t, parentArea, area, 1e-9)
	}
}

func TestTileString_ParseTile(t *testing.T) {
	tile := tilemath.Tile{Z: 13, X: 4148, Y: 2818}
	assert.Equal(t, "13/4148/2818", tile.String())

	parsed, err := tilemath.ParseTile("13/4148/2818")
	require.NoError(t, err)
	assert.Equal(t, tile, parsed)

	for _, bad := range []string{"", "13/4148", "a/b/c", "1/2/0", "2/-1/0", "13/4148/2818/1"} {
		_, err := tilemath.ParseTile(bad)
		assert.ErrorIs(t, err, tilemath.ErrInvalidTile, bad)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, tilemath.Tile{Z: 2, X: 3, Y: 3}.Valid())
	assert.False(t, tilemath.Tile{Z: 2, X: 4, Y: 0}.Valid())
	assert.False(t, tilemath.Tile{Z: -1}.Valid())
	assert.False(t, tilemath.Tile{Z: tilemath.MaxZoom + 1}.Valid())
}
