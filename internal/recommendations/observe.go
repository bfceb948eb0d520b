package recommendations

import (
	"time"

	"nutricoach-backend/internal/shared/metrics"
)

// NormalizeObserved is NormalizeWithSource that also records the outcome
// and duration in the process metrics.
func NormalizeObserved(raw any) (Record, Source, bool) {
	start := time.Now()
	rec, source, ok := NormalizeWithSource(raw)
	metrics.ObserveNormalizationDuration(time.Since(start))
	metrics.IncNormalization(string(source))
	return rec, source, ok
}
