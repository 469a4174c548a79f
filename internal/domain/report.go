package domain

import "github.com/google/uuid"

// EntityKind - тип пересчитываемой сущности
type EntityKind string

const (
	EntityStreet  EntityKind = "voie"
	EntityAddress EntityKind = "numero"
)

// RecomputeResult - результат пересчета одной сущности
type RecomputeResult struct {
	Kind    EntityKind `json:"kind"`
	ID      uuid.UUID  `json:"id"`
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
}

// BatchReport - итог пакетного пересчета: успехи и ошибки по сущностям
type BatchReport struct {
	Results      []RecomputeResult `json:"results"`
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
}

// Add добавляет результат и обновляет счетчики
func (r *BatchReport) Add(res RecomputeResult) {
	r.Results = append(r.Results, res)
	if res.Success {
		r.SuccessCount++
	} else {
		r.ErrorCount++
	}
}

// Failed возвращает результаты с ошибкой
func (r *BatchReport) Failed() []RecomputeResult {
	failed := make([]RecomputeResult, 0, r.ErrorCount)
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}
