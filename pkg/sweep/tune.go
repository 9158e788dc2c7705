package sweep

import (
	"math"
	"sort"
	"time"
)

// Advice suggests a worker count for a stage, derived from the measured
// per-item durations: the slowest stage of the chain bounds the
// throughput, so every stage is scaled relative to the fastest one.
type Advice struct {
	Stage      string
	AvgPerItem time.Duration
	Concurrent int
	Suggested  int
}

// Tune returns scaling advice for every measured stage, slowest first.
// It returns nil when measuring is off or nothing was processed.
func (s *Sweep) Tune() []Advice {
	if s.measure == nil {
		return nil
	}

	fastest := time.Duration(math.MaxInt64)
	var advices []Advice
	for name, metric := range s.measure.Stages() {
		avg := metric.AvgDuration()
		if avg == 0 {
			continue
		}
		if avg < fastest {
			fastest = avg
		}
		advices = append(advices, Advice{
			Stage:      name,
			AvgPerItem: avg,
			Concurrent: metric.Concurrent(),
		})
	}
	if len(advices) == 0 {
		return nil
	}

	for i := range advices {
		suggested := int(math.Ceil(float64(advices[i].AvgPerItem) / float64(fastest)))
		if suggested < 1 {
			suggested = 1
		}
		advices[i].Suggested = suggested
	}

	sort.Slice(advices, func(i, j int) bool {
		return advices[i].AvgPerItem > advices[j].AvgPerItem
	})

	return advices
}
