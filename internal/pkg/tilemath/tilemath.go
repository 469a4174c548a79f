// Package tilemath реализует арифметику тайлов Web-Mercator (схема slippy map):
// перевод координат в тайлы и обратно, навигацию по квадродереву тайлов.
package tilemath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

const (
	// MaxZoom - максимальный уровень, на котором считаются тайлы
	MaxZoom = 28

	// MaxLatitude - граница проекции Web-Mercator
	MaxLatitude = 85.05112877980659
)

var (
	ErrNoParent    = errors.New("tile at zoom 0 has no parent")
	ErrInvalidTile = errors.New("invalid tile identifier")
)

// Tile - ячейка пирамиды тайлов (zoom, x, y)
type Tile struct {
	Z int `json:"z"`
	X int `json:"x"`
	Y int `json:"y"`
}

// String возвращает идентификатор в формате "z/x/y"
func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Valid проверяет, что x и y лежат в диапазоне [0, 2^z-1]
func (t Tile) Valid() bool {
	if t.Z < 0 || t.Z > MaxZoom {
		return false
	}
	n := 1 << uint(t.Z)
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

// ParseTile разбирает идентификатор "z/x/y"
func ParseTile(s string) (Tile, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
	}

	values := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
		}
		values[i] = v
	}

	t := Tile{Z: values[0], X: values[1], Y: values[2]}
	if !t.Valid() {
		return Tile{}, fmt.Errorf("%w: %q out of range", ErrInvalidTile, s)
	}
	return t, nil
}

// PointToTile возвращает тайл, содержащий точку (lon, lat) на уровне zoom.
// Широта ограничивается пределами проекции, индексы - диапазоном уровня.
func PointToTile(lon, lat float64, zoom int) Tile {
	n := math.Exp2(float64(zoom))

	lat = math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
	latRad := lat * math.Pi / 180

	fx := (lon + 180) / 360 * n
	fy := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n

	return Tile{
		Z: zoom,
		X: clampIndex(math.Floor(fx), n),
		Y: clampIndex(math.Floor(fy), n),
	}
}

func clampIndex(v, n float64) int {
	if v < 0 {
		return 0
	}
	if v > n-1 {
		return int(n - 1)
	}
	return int(v)
}

// TileToBbox возвращает границы тайла в градусах: Min = (lonMin, latMin), Max = (lonMax, latMax)
func TileToBbox(t Tile) orb.Bound {
	n := math.Exp2(float64(t.Z))

	return orb.Bound{
		Min: orb.Point{tileToLon(t.X, n), tileToLat(t.Y+1, n)},
		Max: orb.Point{tileToLon(t.X+1, n), tileToLat(t.Y, n)},
	}
}

func tileToLon(x int, n float64) float64 {
	return float64(x)/n*360 - 180
}

func tileToLat(y int, n float64) float64 {
	r := math.Pi - 2*math.Pi*float64(y)/n
	return 180 / math.Pi * math.Atan(math.Sinh(r))
}

// Parent возвращает родительский тайл уровня z-1
func Parent(t Tile) (Tile, error) {
	if t.Z <= 0 {
		return t, ErrNoParent
	}
	return Tile{Z: t.Z - 1, X: t.X >> 1, Y: t.Y >> 1}, nil
}

// ParentAt поднимается по предкам, пока уровень тайла больше zoom.
// Тайлы с уровнем <= zoom возвращаются без изменений.
func ParentAt(t Tile, zoom int) Tile {
	if zoom < 0 {
		zoom = 0
	}
	for t.Z > zoom {
		t, _ = Parent(t)
	}
	return t
}

// Children возвращает четыре дочерних тайла уровня z+1
func Children(t Tile) [4]Tile {
	z, x, y := t.Z+1, t.X*2, t.Y*2
	return [4]Tile{
		{Z: z, X: x, Y: y},
		{Z: z, X: x + 1, Y: y},
		{Z: z, X: x + 1, Y: y + 1},
		{Z: z, X: x, Y: y + 1},
	}
}
