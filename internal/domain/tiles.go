package domain

// TileSet - набор идентификаторов тайлов "z/x/y" без дубликатов.
// nil означает "нет геометрии - нет тайлов".
type TileSet []string

// ZoomRange - диапазон уровней [MinZoom, MaxZoom] для покрытия точки
type ZoomRange struct {
	MinZoom int `json:"min_zoom" mapstructure:"min_zoom" validate:"min=0,max=24"`
	MaxZoom int `json:"max_zoom" mapstructure:"max_zoom" validate:"min=0,max=24,gtefield=MinZoom"`
}

// Levels возвращает количество уровней в диапазоне
func (z ZoomRange) Levels() int {
	if z.MaxZoom < z.MinZoom {
		return 0
	}
	return z.MaxZoom - z.MinZoom + 1
}

// FixedZoom - единственный уровень для покрытия линии
type FixedZoom struct {
	Zoom int `json:"zoom" mapstructure:"zoom" validate:"min=0,max=24"`
}

// ZoomConfig - конфигурация уровней для расчета тайлов
type ZoomConfig struct {
	// Point - уровни для адресных точек (numéros)
	Point  ZoomRange
	// Street - уровни для центроида улицы
	Street ZoomRange
	// Trace - уровень покрытия трассы улицы
	Trace  FixedZoom
}

// DefaultZoomConfig - значения по умолчанию
func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		Point:  ZoomRange{MinZoom: 13, MaxZoom: 19},
		Street: ZoomRange{MinZoom: 13, MaxZoom: 19},
		Trace:  FixedZoom{Zoom: 13},
	}
}

// StreetTiles - производные данные улицы, перезаписываемые целиком
type StreetTiles struct {
	Centroid      *GeoPoint `json:"centroid"`
	CentroidTiles TileSet   `json:"centroid_tiles"`
	TraceTiles    TileSet   `json:"trace_tiles"`
}
