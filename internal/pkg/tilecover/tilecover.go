// Package tilecover вычисляет покрытие геометрий тайлами: точка - по
// диапазону уровней, линия - на одном уровне через обход квадродерева
// с отсечением ветвей, не пересекающих линию.
package tilecover

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/address-tiles/internal/domain"
	"github.com/address-tiles/internal/pkg/tilemath"
	"github.com/address-tiles/internal/pkg/validator"
)

const (
	// CoordinatePrecision - число знаков после запятой при округлении точки
	CoordinatePrecision = 6

	// MaxVisitedTiles ограничивает обход для патологических геометрий
	MaxVisitedTiles = 1_000_000

	// bboxEpsilon расширяет границы тайла при проверке пересечения (~0.1 мм).
	// Поглощает погрешность обратной проекции границ, из-за которой точка на
	// общей границе могла бы не попасть ни в один тайл. Цена: линия, которая
	// заканчивается ближе bboxEpsilon к границе, добавляет соседний тайл.
	bboxEpsilon = 1e-9
)

var (
	ErrInvalidZoom     = errors.New("invalid zoom configuration")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrTooManyTiles    = errors.New("tile cover exceeds visit limit")
)

// ValidateZoomRange проверяет диапазон уровней: оба в [0, 24], min <= max
func ValidateZoomRange(zr domain.ZoomRange) error {
	if err := validator.Validate(zr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, err)
	}
	return nil
}

// ValidateFixedZoom проверяет уровень покрытия линии
func ValidateFixedZoom(fz domain.FixedZoom) error {
	if err := validator.Validate(fz); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, err)
	}
	return nil
}

// RoundCoordinate округляет координату до precision знаков
func RoundCoordinate(v float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}

// CoverPoint возвращает по одному тайлу на каждый уровень диапазона,
// в порядке возрастания уровня
func CoverPoint(p domain.GeoPoint, zr domain.ZoomRange) (domain.TileSet, error) {
	if err := ValidateZoomRange(zr); err != nil {
		return nil, err
	}
	if !p.Valid() {
		return nil, fmt.Errorf("%w: point (%v, %v)", ErrInvalidGeometry, p.Lon, p.Lat)
	}

	lon := RoundCoordinate(p.Lon, CoordinatePrecision)
	lat := RoundCoordinate(p.Lat, CoordinatePrecision)

	tiles := make(domain.TileSet, 0, zr.Levels())
	for zoom := zr.MinZoom; zoom <= zr.MaxZoom; zoom++ {
		tiles = append(tiles, tilemath.PointToTile(lon, lat, zoom).String())
	}

	return tiles, nil
}

// BoundingTile возвращает наименьший тайл, целиком содержащий bbox линии
func BoundingTile(line orb.LineString) (tilemath.Tile, error) {
	if len(line) == 0 {
		return tilemath.Tile{}, fmt.Errorf("%w: empty line", ErrInvalidGeometry)
	}

	bound := line.Bound()
	minTile := tilemath.PointToTile(bound.Min.Lon(), bound.Min.Lat(), tilemath.MaxZoom)
	maxTile := tilemath.PointToTile(bound.Max.Lon(), bound.Max.Lat(), tilemath.MaxZoom)

	for minTile != maxTile {
		var err error
		if minTile, err = tilemath.Parent(minTile); err != nil {
			return tilemath.Tile{}, err
		}
		if maxTile, err = tilemath.Parent(maxTile); err != nil {
			return tilemath.Tile{}, err
		}
	}

	return minTile, nil
}

// CoverLine возвращает тайлы уровня zoom, пересекаемые линией.
// Результат без дубликатов и упорядочен по x, затем по y.
func CoverLine(line domain.LineGeometry, zoom domain.FixedZoom) (domain.TileSet, error) {
	if err := ValidateFixedZoom(zoom); err != nil {
		return nil, err
	}
	if !line.Valid() {
		return nil, fmt.Errorf("%w: line needs at least 2 valid points, got %d", ErrInvalidGeometry, len(line))
	}

	ls := line.Orb()
	if b := ls.Bound(); b.Min.Lat() > tilemath.MaxLatitude || b.Max.Lat() < -tilemath.MaxLatitude {
		return nil, fmt.Errorf("%w: line lies outside Web-Mercator latitude range", ErrInvalidGeometry)
	}

	seed, err := BoundingTile(ls)
	if err != nil {
		return nil, err
	}

	tiles, err := descend(ls, seed, zoom.Zoom)
	if err != nil {
		return nil, err
	}

	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].X != tiles[j].X {
			return tiles[i].X < tiles[j].X
		}
		return tiles[i].Y < tiles[j].Y
	})

	result := make(domain.TileSet, len(tiles))
	for i, t := range tiles {
		result[i] = t.String()
	}
	return result, nil
}

// node - тайл в стеке обхода и индексы отрезков линии, пересекающих его
type node struct {
	tile tilemath.Tile
	segs []int
}

// descend обходит квадродерево от seed явным стеком. Дочерний тайл проверяется
// только по отрезкам, пересекающим родителя, поэтому стоимость обхода
// пропорциональна числу тайлов, а не тайлам, умноженным на длину линии.
// Каждый тайл достижим из seed единственным путем, повторов в обходе нет.
func descend(ls orb.LineString, seed tilemath.Tile, zoom int) ([]tilemath.Tile, error) {
	// Ограничивающий тайл мельче целевого уровня: поднимаемся до него
	if seed.Z > zoom {
		seed = tilemath.ParentAt(seed, zoom)
	}

	all := make([]int, 0, len(ls)-1)
	for i := 0; i+1 < len(ls); i++ {
		all = append(all, i)
	}

	visited := 1
	stack := []node{{tile: seed, segs: all}}
	var found []tilemath.Tile

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.tile.Z == zoom {
			found = append(found, n.tile)
			continue
		}

		for _, child := range tilemath.Children(n.tile) {
			segs := intersectingSegments(ls, n.segs, expand(tilemath.TileToBbox(child)))
			if len(segs) == 0 {
				continue
			}

			visited++
			if visited > MaxVisitedTiles {
				return nil, fmt.Errorf("%w: more than %d tiles", ErrTooManyTiles, MaxVisitedTiles)
			}
			stack = append(stack, node{tile: child, segs: segs})
		}
	}

	return found, nil
}

func intersectingSegments(ls orb.LineString, candidates []int, b orb.Bound) []int {
	var segs []int
	for _, i := range candidates {
		if segmentIntersects(ls[i], ls[i+1], b) {
			segs = append(segs, i)
		}
	}
	return segs
}

// expand расширяет границы тайла на bboxEpsilon
func expand(b orb.Bound) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min.Lon() - bboxEpsilon, b.Min.Lat() - bboxEpsilon},
		Max: orb.Point{b.Max.Lon() + bboxEpsilon, b.Max.Lat() + bboxEpsilon},
	}
}

// Intersects проверяет пересечение линии с прямоугольником (границы включены)
func Intersects(ls orb.LineString, b orb.Bound) bool {
	b = expand(b)

	if len(ls) == 1 {
		return b.Contains(ls[0])
	}

	for i := 0; i+1 < len(ls); i++ {
		if segmentIntersects(ls[i], ls[i+1], b) {
			return true
		}
	}
	return false
}

// segmentIntersects - отсечение отрезка прямоугольником (Liang-Barsky)
func segmentIntersects(a, c orb.Point, b orb.Bound) bool {
	dx := c.Lon() - a.Lon()
	dy := c.Lat() - a.Lat()

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.Lon() - b.Min.Lon()},
		{dx, b.Max.Lon() - a.Lon()},
		{-dy, a.Lat() - b.Min.Lat()},
		{dy, b.Max.Lat() - a.Lat()},
	}

	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}

		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	return true
}
