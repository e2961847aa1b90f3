// Package stats implements the inference pipeline for the A/B test: power
// analysis, arrival-probability estimation, and the chi-square test of
// association between group and quiz completion.
package stats

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
	"github.com/emiliopalmerini/enrollwatch/internal/ports"
)

// TestResult holds the outcome of a test of independence.
type TestResult struct {
	Statistic float64
	DF        int
	PValue    float64
}

// Engine answers the statistical questions of the experiment from current
// record state.
type Engine struct {
	repo  ports.ApplicantRepository
	alpha float64
	power float64
}

func NewEngine(repo ports.ApplicantRepository) *Engine {
	return &Engine{repo: repo, alpha: DefaultAlpha, power: DefaultPower}
}

// RequiredSampleSize is RequiredSampleSize at the engine's alpha and power.
func (e *Engine) RequiredSampleSize(effectSize float64) (int, error) {
	return RequiredSampleSize(effectSize, e.alpha, e.power)
}

// ProbabilityOfCollecting estimates the percent chance that at least nObs
// eligible applicants arrive within the given number of days, from the full
// arrival history.
func (e *Engine) ProbabilityOfCollecting(ctx context.Context, nObs, days int) (float64, error) {
	history, err := e.repo.DailyIncompleteCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch arrival history: %w", err)
	}
	return CollectionProbability(history, nObs, days)
}

// ContingencyTest builds the group-by-completion table and tests for
// association between arm and outcome.
func (e *Engine) ContingencyTest(ctx context.Context) (TestResult, error) {
	table, err := e.repo.GroupCompletionTable(ctx)
	if err != nil {
		return TestResult{}, fmt.Errorf("fetch contingency table: %w", err)
	}
	return ChiSquareTest(table)
}

// CollectionProbability approximates daily arrivals as normal: the historical
// per-day mean scales by days and the standard deviation by sqrt(days)
// (independence across days), and the answer is 100 times the upper-tail
// probability of nObs. Fewer than two days of history, or a flat history,
// leave the standard deviation undefined and return ErrInsufficientHistory
// rather than a silent NaN.
func CollectionProbability(history []domain.DailyCount, nObs, days int) (float64, error) {
	if nObs <= 0 {
		return 0, domain.ErrInvalidObservationTarget
	}
	if days <= 0 {
		return 0, domain.ErrInvalidDateRange
	}
	if len(history) < 2 {
		return 0, domain.ErrInsufficientHistory
	}

	counts := make([]float64, len(history))
	for i, h := range history {
		counts[i] = float64(h.Count)
	}

	mean := stat.Mean(counts, nil)
	std := stat.StdDev(counts, nil) // sample standard deviation
	if std == 0 {
		return 0, domain.ErrInsufficientHistory
	}

	dist := distuv.Normal{
		Mu:    mean * float64(days),
		Sigma: std * math.Sqrt(float64(days)),
	}
	return 100 * dist.Survival(float64(nObs)), nil
}

// ChiSquareTest runs the Pearson chi-square test of independence on a 2x2
// table (one degree of freedom, no continuity correction). A table with an
// empty row or column returns ErrDegenerateTable: the documented policy is to
// surface insufficient data, never to fabricate observations.
func ChiSquareTest(t domain.ContingencyTable) (TestResult, error) {
	if t.Degenerate() {
		return TestResult{}, domain.ErrDegenerateTable
	}

	observed := [2][2]float64{
		{float64(t.ControlComplete), float64(t.ControlIncomplete)},
		{float64(t.TreatmentComplete), float64(t.TreatmentIncomplete)},
	}
	rowTotals := [2]float64{float64(t.ControlTotal()), float64(t.TreatmentTotal())}
	colTotals := [2]float64{float64(t.CompleteTotal()), float64(t.IncompleteTotal())}
	total := float64(t.Total())

	var statistic float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			expected := rowTotals[i] * colTotals[j] / total
			diff := observed[i][j] - expected
			statistic += diff * diff / expected
		}
	}

	dist := distuv.ChiSquared{K: 1}
	return TestResult{
		Statistic: statistic,
		DF:        1,
		PValue:    dist.Survival(statistic),
	}, nil
}
