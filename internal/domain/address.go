package domain

import (
	"time"

	"github.com/google/uuid"
)

// NumberingMode - способ нумерации улицы
type NumberingMode string

const (
	// NumberingSequential - позиции выводятся из адресных точек улицы
	NumberingSequential NumberingMode = "numerique"
	// NumberingMetric - нумерация по расстоянию вдоль явной трассы
	NumberingMetric NumberingMode = "metrique"
)

// Street - улица (voie) адресной базы
type Street struct {
	ID            uuid.UUID     `json:"id"`
	BalID         uuid.UUID     `json:"bal_id"`
	Name          string        `json:"name"`
	NumberingMode NumberingMode `json:"numbering_mode"`
	Trace         LineGeometry  `json:"trace,omitempty"`
	StreetTiles
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// HasTrace - улица с метрической нумерацией и заданной трассой
func (s *Street) HasTrace() bool {
	return s.NumberingMode == NumberingMetric && len(s.Trace) > 0
}

// AddressPoint - адресная точка (numéro) с кандидатами позиций
type AddressPoint struct {
	ID        uuid.UUID           `json:"id"`
	BalID     uuid.UUID           `json:"bal_id"`
	StreetID  uuid.UUID           `json:"street_id"`
	Number    int                 `json:"number"`
	Suffix    *string             `json:"suffix,omitempty"`
	Positions []PositionCandidate `json:"positions"`
	Tiles     TileSet             `json:"tiles"`
	UpdatedAt time.Time           `json:"updated_at"`
	DeletedAt *time.Time          `json:"deleted_at,omitempty"`
}

// CanonicalPosition возвращает приоритетную позицию точки
func (a *AddressPoint) CanonicalPosition() (GeoPoint, bool) {
	pos, ok := PriorityPosition(a.Positions)
	if !ok {
		return GeoPoint{}, false
	}
	return pos.Point, true
}
