package types

import (
	"time"

	"github.com/google/uuid"
)

// BenchmarkSummary compares predicted overall bands with reference bands.
type BenchmarkSummary struct {
	RunID    uuid.UUID     `json:"run_id"`
	Dataset  string        `json:"dataset"`
	Essays   int           `json:"essays"`
	Scored   int           `json:"scored"`
	Failed   int           `json:"failed"`
	Degraded int           `json:"degraded"`
	Duration time.Duration `json:"duration_ns"`
	// MAE and RMSE are in band units.
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	// ExactAccuracy is the fraction of essays whose predicted band equals the reference.
	ExactAccuracy float64 `json:"exact_accuracy"`
	// WithinHalfAccuracy is the fraction within half a band of the reference.
	WithinHalfAccuracy float64 `json:"within_half_accuracy"`
	// ComponentMAE holds per-component MAE for components the dataset grades.
	ComponentMAE map[string]float64 `json:"component_mae,omitempty"`
}
