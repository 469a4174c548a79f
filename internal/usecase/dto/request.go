package dto

// CoverPointRequest - покрытие произвольной точки тайлами.
// Незаданные уровни берутся из конфигурации точек.
type CoverPointRequest struct {
	Lon     *float64 `json:"lon" validate:"required,min=-180,max=180"`
	Lat     *float64 `json:"lat" validate:"required,min=-90,max=90"`
	MinZoom *int     `json:"min_zoom,omitempty" validate:"omitempty,min=0,max=24"`
	MaxZoom *int     `json:"max_zoom,omitempty" validate:"omitempty,min=0,max=24"`
}

// CoverLineRequest - покрытие линии тайлами одного уровня
type CoverLineRequest struct {
	// Coordinates - пары [lon, lat]
	Coordinates [][2]float64 `json:"coordinates" validate:"required,min=2,max=10000"`
	Zoom        *int         `json:"zoom,omitempty" validate:"omitempty,min=0,max=24"`
}

// RecomputeBatchRequest - пакетный пересчет по списку ID
type RecomputeBatchRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=1000,dive,uuid"`
}
