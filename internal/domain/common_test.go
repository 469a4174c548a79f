package domain

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestGeoPoint_Valid(t *testing.T) {
	assert.True(t, GeoPoint{Lon: 2.294694, Lat: 48.858093}.Valid())
	assert.True(t, GeoPoint{}.Valid())
	assert.True(t, GeoPoint{Lon: -180, Lat: 90}.Valid())
	assert.False(t, GeoPoint{Lon: 181, Lat: 0}.Valid())
	assert.False(t, GeoPoint{Lon: 0, Lat: -90.5}.Valid())
	assert.False(t, GeoPoint{Lon: math.NaN(), Lat: 0}.Valid())
	assert.False(t, GeoPoint{Lon: 0, Lat: math.Inf(1)}.Valid())
}

func TestLineGeometry_Valid(t *testing.T) {
	assert.False(t, LineGeometry(nil).Valid())
	assert.False(t, LineGeometry{{Lon: 2, Lat: 48}}.Valid())
	assert.False(t, LineGeometry{{Lon: 2, Lat: 48}, {Lon: 200, Lat: 48}}.Valid())
	assert.True(t, LineGeometry{{Lon: 2, Lat: 48}, {Lon: 2.1, Lat: 48.1}}.Valid())
}

func TestLineGeometry_OrbRoundTrip(t *testing.T) {
	line := LineGeometry{{Lon: 2, Lat: 48}, {Lon: 2.1, Lat: 48.1}}
	ls := line.Orb()

	assert.Equal(t, orb.LineString{{2, 48}, {2.1, 48.1}}, ls)
	assert.Equal(t, line, LineGeometryFromOrb(ls))
}

func TestCentroid(t *testing.T) {
	_, ok := Centroid(nil)
	assert.False(t, ok)

	c, ok := Centroid([]GeoPoint{{Lon: 2.0, Lat: 48.0}, {Lon: 2.3, Lat: 48.3}, {Lon: 2.1, Lat: 48.6}})
	assert.True(t, ok)
	assert.InDelta(t, 2.133333, c.Lon, 1e-6)
	assert.InDelta(t, 48.3, c.Lat, 1e-9)
}

func TestBatchReport_Add(t *testing.T) {
	var report BatchReport
	report.Add(RecomputeResult{Kind: EntityStreet, Success: true})
	report.Add(RecomputeResult{Kind: EntityStreet, Success: false, Error: "boom"})
	report.Add(RecomputeResult{Kind: EntityAddress, Success: true})

	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Len(t, report.Results, 3)
	assert.Equal(t, []RecomputeResult{{Kind: EntityStreet, Error: "boom"}}, report.Failed())
}

func TestZoomRange_Levels(t *testing.T) {
	assert.Equal(t, 2, ZoomRange{MinZoom: 13, MaxZoom: 14}.Levels())
	assert.Equal(t, 7, DefaultZoomConfig().Point.Levels())
	assert.Equal(t, 0, ZoomRange{MinZoom: 5, MaxZoom: 4}.Levels())
}
