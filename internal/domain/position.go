package domain

// PositionType - семантический тип позиции адреса
type PositionType string

const (
	PositionEntrance       PositionType = "entrée"
	PositionBuilding       PositionType = "bâtiment"
	PositionStaircase      PositionType = "cage d'escalier"
	PositionUnit           PositionType = "logement"
	PositionTechnical      PositionType = "service technique"
	PositionPostalDelivery PositionType = "délivrance postale"
	PositionParcel         PositionType = "parcelle"
	PositionSegment        PositionType = "segment"
	PositionUnknown        PositionType = "inconnue"
)

// positionRanking - порядок предпочтения типов: меньше = предпочтительнее
var positionRanking = map[PositionType]int{
	PositionEntrance:       0,
	PositionBuilding:       1,
	PositionStaircase:      2,
	PositionUnit:           3,
	PositionTechnical:      4,
	PositionPostalDelivery: 5,
	PositionParcel:         6,
	PositionSegment:        7,
	PositionUnknown:        8,
}

// positionAliases - варианты написания, встречающиеся в импортированных данных
var positionAliases = map[string]PositionType{
	"cage d’escalier": PositionStaircase,
	"":                PositionUnknown,
}

// ParsePositionType нормализует строковый тип; неизвестные значения дают PositionUnknown
func ParsePositionType(s string) PositionType {
	if alias, ok := positionAliases[s]; ok {
		return alias
	}
	t := PositionType(s)
	if _, ok := positionRanking[t]; ok {
		return t
	}
	return PositionUnknown
}

// Rank возвращает место типа в порядке предпочтения
func (t PositionType) Rank() int {
	if rank, ok := positionRanking[ParsePositionType(string(t))]; ok {
		return rank
	}
	return positionRanking[PositionUnknown]
}

// PositionCandidate - одна из геокодированных позиций адресной точки
type PositionCandidate struct {
	Type   PositionType `json:"type"`
	Source string       `json:"source,omitempty"`
	Point  GeoPoint     `json:"point"`
}

// PriorityPosition выбирает каноническую позицию: тип с лучшим рангом,
// при равенстве - первая по порядку во входном списке.
// Для пустого списка возвращает false.
func PriorityPosition(candidates []PositionCandidate) (PositionCandidate, bool) {
	if len(candidates) == 0 {
		return PositionCandidate{}, false
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Type.Rank() < candidates[best].Type.Rank() {
			best = i
		}
	}

	return candidates[best], true
}
