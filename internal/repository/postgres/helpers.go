package postgres

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/address-tiles/internal/domain"
)

// tileArray - nil TileSet записывается как NULL, а не пустой массив
func tileArray(tiles domain.TileSet) interface{} {
	if tiles == nil {
		return nil
	}
	return pq.Array([]string(tiles))
}

func tileSetFromArray(arr pq.StringArray) domain.TileSet {
	if arr == nil {
		return nil
	}
	return domain.TileSet(arr)
}

func nullableJSON(data []byte) interface{} {
	if data == nil {
		return nil
	}
	return string(data)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
