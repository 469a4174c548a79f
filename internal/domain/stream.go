package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamTilesRecompute = "stream:tiles:recompute"
	StreamTilesDone      = "stream:tiles:done"
)

// TilesRecomputeEvent - входящее событие: изменилась геометрия улиц или точек
type TilesRecomputeEvent struct {
	EventID    uuid.UUID   `json:"event_id"`
	BalID      *uuid.UUID  `json:"bal_id,omitempty"`
	StreetIDs  []uuid.UUID `json:"voie_ids,omitempty"`
	AddressIDs []uuid.UUID `json:"numero_ids,omitempty"`
}

// IsEmpty - событие не ссылается ни на одну сущность
func (e *TilesRecomputeEvent) IsEmpty() bool {
	return e.BalID == nil && len(e.StreetIDs) == 0 && len(e.AddressIDs) == 0
}

// TilesDoneEvent - результат пересчета
type TilesDoneEvent struct {
	EventID uuid.UUID    `json:"event_id"`
	Report  *BatchReport `json:"report,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
