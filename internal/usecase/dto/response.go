package dto

import "github.com/address-tiles/internal/domain"

// TileSetResponse - набор тайлов "z/x/y"
type TileSetResponse struct {
	Tiles domain.TileSet `json:"tiles"`
	Count int            `json:"count"`
}

// AddressTilesResponse - результат пересчета адресной точки.
// Tiles == nil: у точки нет позиции.
type AddressTilesResponse struct {
	NumeroID string         `json:"numero_id"`
	Tiles    domain.TileSet `json:"tiles"`
}

// StreetTilesResponse - производные данные улицы
type StreetTilesResponse struct {
	VoieID        string           `json:"voie_id"`
	Centroid      *domain.GeoPoint `json:"centroid"`
	CentroidTiles domain.TileSet   `json:"centroid_tiles"`
	TraceTiles    domain.TileSet   `json:"trace_tiles"`
	Cached        bool             `json:"cached"`
}

// NewStreetTilesResponse собирает ответ из производных данных улицы
func NewStreetTilesResponse(voieID string, tiles *domain.StreetTiles, cached bool) *StreetTilesResponse {
	return &StreetTilesResponse{
		VoieID:        voieID,
		Centroid:      tiles.Centroid,
		CentroidTiles: tiles.CentroidTiles,
		TraceTiles:    tiles.TraceTiles,
		Cached:        cached,
	}
}
