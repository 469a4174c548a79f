package domain

import (
	"math"

	"github.com/paulmach/orb"
)

// GeoPoint - координата WGS84 в десятичных градусах
type GeoPoint struct {
	Lon float64 `json:"lon" db:"lon"`
	Lat float64 `json:"lat" db:"lat"`
}

// Orb конвертирует точку в orb.Point
func (p GeoPoint) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Valid проверяет, что координаты конечны и лежат в допустимых пределах
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lon) || math.IsNaN(p.Lat) || math.IsInf(p.Lon, 0) || math.IsInf(p.Lat, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// GeoPointFromOrb создает GeoPoint из orb.Point
func GeoPointFromOrb(p orb.Point) GeoPoint {
	return GeoPoint{Lon: p.Lon(), Lat: p.Lat()}
}

// LineGeometry - упорядоченная последовательность точек (трасса улицы)
type LineGeometry []GeoPoint

// Orb конвертирует линию в orb.LineString
func (l LineGeometry) Orb() orb.LineString {
	ls := make(orb.LineString, len(l))
	for i, p := range l {
		ls[i] = p.Orb()
	}
	return ls
}

// Valid - линия содержит минимум две точки, все точки валидны
func (l LineGeometry) Valid() bool {
	if len(l) < 2 {
		return false
	}
	for _, p := range l {
		if !p.Valid() {
			return false
		}
	}
	return true
}

// LineGeometryFromOrb создает LineGeometry из orb.LineString
func LineGeometryFromOrb(ls orb.LineString) LineGeometry {
	l := make(LineGeometry, len(ls))
	for i, p := range ls {
		l[i] = GeoPointFromOrb(p)
	}
	return l
}

// Centroid возвращает среднее арифметическое точек.
// Для пустого набора возвращает false.
func Centroid(points []GeoPoint) (GeoPoint, bool) {
	if len(points) == 0 {
		return GeoPoint{}, false
	}

	var sumLon, sumLat float64
	for _, p := range points {
		sumLon += p.Lon
		sumLat += p.Lat
	}

	n := float64(len(points))
	return GeoPoint{Lon: sumLon / n, Lat: sumLat / n}, true
}
