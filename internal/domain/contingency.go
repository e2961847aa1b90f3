package domain

// ContingencyTable is the 2x2 crosstab of experiment group by quiz completion,
// recomputed fresh from current record state each time a test runs.
type ContingencyTable struct {
	ControlComplete     int64
	ControlIncomplete   int64
	TreatmentComplete   int64
	TreatmentIncomplete int64
}

func (t ContingencyTable) ControlTotal() int64 {
	return t.ControlComplete + t.ControlIncomplete
}

func (t ContingencyTable) TreatmentTotal() int64 {
	return t.TreatmentComplete + t.TreatmentIncomplete
}

func (t ContingencyTable) CompleteTotal() int64 {
	return t.ControlComplete + t.TreatmentComplete
}

func (t ContingencyTable) IncompleteTotal() int64 {
	return t.ControlIncomplete + t.TreatmentIncomplete
}

func (t ContingencyTable) Total() int64 {
	return t.ControlTotal() + t.TreatmentTotal()
}

// Degenerate reports whether any row or column of the table is entirely zero,
// in which case a test of independence is undefined.
func (t ContingencyTable) Degenerate() bool {
	return t.ControlTotal() == 0 ||
		t.TreatmentTotal() == 0 ||
		t.CompleteTotal() == 0 ||
		t.IncompleteTotal() == 0
}

// Summary derives per-arm completion statistics from the table.
func (t ContingencyTable) Summary() ExperimentSummary {
	return ExperimentSummary{
		Control:   GroupStats{Total: t.ControlTotal(), Completed: t.ControlComplete},
		Treatment: GroupStats{Total: t.TreatmentTotal(), Completed: t.TreatmentComplete},
	}
}
