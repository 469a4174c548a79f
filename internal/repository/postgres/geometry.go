package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/address-tiles/internal/domain"
)

// Геометрии хранятся в jsonb как GeoJSON geometry object

func decodePoint(data []byte) (*domain.GeoPoint, error) {
	if len(data) == 0 {
		return nil, nil
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("decode point: %w", err)
	}
	p, ok := g.Geometry().(orb.Point)
	if !ok {
		return nil, fmt.Errorf("decode point: unexpected geometry %s", g.Type)
	}

	point := domain.GeoPointFromOrb(p)
	return &point, nil
}

func encodePoint(p *domain.GeoPoint) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(geojson.NewGeometry(p.Orb()))
}

func decodeLine(data []byte) (domain.LineGeometry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("decode line: %w", err)
	}
	ls, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("decode line: unexpected geometry %s", g.Type)
	}

	return domain.LineGeometryFromOrb(ls), nil
}

// positionRecord - элемент массива numeros.positions
type positionRecord struct {
	Type   string           `json:"type"`
	Source string           `json:"source,omitempty"`
	Point  geojson.Geometry `json:"point"`
}

// decodePositions раскодирует кандидатов позиций. Элементы без точки
// пропускаются, неизвестный тип нормализуется в "inconnue".
func decodePositions(data []byte) ([]domain.PositionCandidate, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var records []positionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}

	positions := make([]domain.PositionCandidate, 0, len(records))
	for _, rec := range records {
		p, ok := rec.Point.Geometry().(orb.Point)
		if !ok {
			continue
		}
		positions = append(positions, domain.PositionCandidate{
			Type:   domain.ParsePositionType(rec.Type),
			Source: rec.Source,
			Point:  domain.GeoPointFromOrb(p),
		})
	}

	return positions, nil
}
