package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRecords     int
	Worklogs         int
	Transitions      int
	CarryOvers       int
	FailedProcesses  int
	EndTime          int64
	KindDistribution map[Kind]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindDistribution: make(map[Kind]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalRecords = len(st.Records)
	for _, r := range st.Records {
		summary.KindDistribution[r.Kind]++
		if r.Time > summary.EndTime {
			summary.EndTime = r.Time
		}
	}
	summary.Worklogs = summary.KindDistribution[KindWorkLogged]
	summary.Transitions = summary.KindDistribution[KindStatusChanged]
	summary.CarryOvers = summary.KindDistribution[KindCarryOver]
	summary.FailedProcesses = summary.KindDistribution[KindProcessFailed]

	return summary
}
