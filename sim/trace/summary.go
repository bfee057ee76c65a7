package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions   int
	ByTransition       map[string]int // "S->E" -> count
	ByCause            map[string]int
	ExposuresByContext map[string]int // activity type -> exposures
	Infectors          int            // agents that exposed at least one other agent
	MaxSecondaryCases  int
	MeanSecondaryCases float64 // over infectors
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ByTransition:       make(map[string]int),
		ByCause:            make(map[string]int),
		ExposuresByContext: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	secondary := make(map[string]int)
	for _, r := range st.Transitions {
		summary.TotalTransitions++
		summary.ByTransition[r.From+"->"+r.To]++
		summary.ByCause[r.Cause]++
		if r.Cause == CauseExposure {
			summary.ExposuresByContext[r.Context]++
			if r.Source != "" {
				secondary[r.Source]++
			}
		}
	}

	summary.Infectors = len(secondary)
	if len(secondary) > 0 {
		total := 0
		for _, n := range secondary {
			total += n
			if n > summary.MaxSecondaryCases {
				summary.MaxSecondaryCases = n
			}
		}
		summary.MeanSecondaryCases = float64(total) / float64(len(secondary))
	}

	return summary
}
