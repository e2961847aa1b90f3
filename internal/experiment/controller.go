// Package experiment owns group assignment and run orchestration for the
// email-reminder A/B test.
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
	"github.com/emiliopalmerini/enrollwatch/internal/ports"
)

// Controller runs the A/B test over applicant records.
type Controller struct {
	repo ports.ApplicantRepository
	now  func() time.Time
}

// New creates a Controller using the wall clock.
func New(repo ports.ApplicantRepository) *Controller {
	return NewWithClock(repo, time.Now)
}

// NewWithClock creates a Controller with an injected clock.
func NewWithClock(repo ports.ApplicantRepository, now func() time.Time) *Controller {
	return &Controller{repo: repo, now: now}
}

// Reset returns every experiment member to the not-in-experiment state.
// Idempotent: a second call reports zero modifications.
func (c *Controller) Reset(ctx context.Context) (domain.UpdateResult, error) {
	return c.repo.ClearExperimentFields(ctx)
}

// Run iterates once per calendar day over [today-days, today), oldest day
// first, assigning groups (or merely counting eligible applicants when assign
// is false). The generator is seeded once up front, so two runs with the same
// seed over identical data produce identical group membership. That
// determinism is a contract callers rely on for reproducible simulations,
// not an accident of implementation.
func (c *Controller) Run(ctx context.Context, days int, assign bool, seed int64) (*domain.RunResult, error) {
	if days <= 0 {
		return nil, domain.ErrInvalidDateRange
	}

	rng := rand.New(rand.NewSource(seed))

	end := startOfDay(c.now().UTC())
	start := end.AddDate(0, 0, -days)

	res := &domain.RunResult{Days: days, Assigned: assign}
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		var out domain.DayResult

		if assign {
			dr, err := c.AssignForDay(ctx, day, rng)
			if err != nil {
				return nil, err
			}
			out = *dr
			res.TotalAssigned += dr.Matched
		} else {
			n, err := c.CountForDay(ctx, day)
			if err != nil {
				return nil, err
			}
			out.Eligible = n
		}

		res.Daily = append(res.Daily, domain.DayOutcome{
			Date:      day.Format("2006-01-02"),
			DayResult: out,
		})
	}

	summary, err := c.Stats(ctx)
	if err != nil {
		return nil, err
	}
	res.Summary = summary

	return res, nil
}

// AssignForDay shuffles the day's eligible cohort (incomplete quiz, not yet
// assigned) with the provided generator and splits it at the midpoint: the
// first half becomes control, the second treatment. Odd cohorts give
// treatment the extra member. An empty cohort is a zero result, not an error.
func (c *Controller) AssignForDay(ctx context.Context, day time.Time, rng *rand.Rand) (*domain.DayResult, error) {
	start := startOfDay(day.UTC())
	end := start.AddDate(0, 0, 1)

	cohort, err := c.repo.FindCreatedBetween(ctx, start, end, eligibleFilter())
	if err != nil {
		return nil, fmt.Errorf("fetch cohort for %s: %w", start.Format("2006-01-02"), err)
	}

	rng.Shuffle(len(cohort), func(i, j int) {
		cohort[i], cohort[j] = cohort[j], cohort[i]
	})

	mid := len(cohort) / 2
	res := &domain.DayResult{
		ControlSize:   mid,
		TreatmentSize: len(cohort) - mid,
	}

	for i, a := range cohort {
		group := domain.GroupControl
		if i >= mid {
			group = domain.GroupTreatment
		}

		upd, err := c.repo.AssignGroup(ctx, a.ID, group)
		if err != nil {
			return nil, fmt.Errorf("assign applicant %s: %w", a.ID, err)
		}
		res.Matched += upd.Matched
		res.Modified += upd.Modified
	}

	return res, nil
}

// CountForDay counts the day's eligible cohort without mutating anything.
func (c *Controller) CountForDay(ctx context.Context, day time.Time) (int64, error) {
	start := startOfDay(day.UTC())
	end := start.AddDate(0, 0, 1)
	return c.repo.CountCreatedBetween(ctx, start, end, eligibleFilter())
}

// Stats reports per-arm totals, completion counts, completion rates and the
// treatment-minus-control rate difference from current record state.
func (c *Controller) Stats(ctx context.Context) (domain.ExperimentSummary, error) {
	table, err := c.repo.GroupCompletionTable(ctx)
	if err != nil {
		return domain.ExperimentSummary{}, fmt.Errorf("fetch completion table: %w", err)
	}
	return table.Summary(), nil
}

func eligibleFilter() ports.ApplicantFilter {
	return ports.ApplicantFilter{
		Quiz:            domain.QuizIncomplete,
		ExcludeAssigned: true,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
