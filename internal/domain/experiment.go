package domain

// UpdateResult mirrors the matched/modified counts a storage update reports.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// GroupStats holds totals for one experiment arm.
type GroupStats struct {
	Total     int64
	Completed int64
}

// CompletionRate is completed/total, zero-safe: 0 when the group is empty.
func (g GroupStats) CompletionRate() float64 {
	if g.Total == 0 {
		return 0
	}
	return float64(g.Completed) / float64(g.Total)
}

// ExperimentSummary holds per-arm completion statistics.
type ExperimentSummary struct {
	Control   GroupStats
	Treatment GroupStats
}

// RateDifference is the signed completion-rate difference, treatment minus control.
func (s ExperimentSummary) RateDifference() float64 {
	return s.Treatment.CompletionRate() - s.Control.CompletionRate()
}

// DayResult is the outcome of processing one calendar day of an experiment run.
type DayResult struct {
	Matched       int64
	Modified      int64
	ControlSize   int
	TreatmentSize int

	// Eligible is populated on count-only runs instead of the fields above.
	Eligible int64
}

// DayOutcome pairs a DayResult with its ISO date.
type DayOutcome struct {
	Date string
	DayResult
}

// RunResult aggregates a full experiment run across a date range.
type RunResult struct {
	Days          int
	Assigned      bool
	TotalAssigned int64
	Daily         []DayOutcome
	Summary       ExperimentSummary
}
