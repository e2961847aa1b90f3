package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
)

// ApplicantFilter narrows date-range queries over applicant records.
type ApplicantFilter struct {
	// Quiz restricts results to one completion status when non-empty.
	Quiz domain.QuizStatus
	// ExcludeAssigned drops records already in the experiment, which keeps
	// re-runs over overlapping date ranges from reassigning anyone.
	ExcludeAssigned bool
}

// ApplicantRepository is the storage port for applicant records. All mutations
// touch only the two experiment fields; records are never deleted.
type ApplicantRepository interface {
	// Collection names the backing collection, used in reset summaries.
	Collection() string

	Insert(ctx context.Context, a *domain.Applicant) error

	// FindCreatedBetween returns applicants created in [start, end),
	// ordered by creation time then ID so cohorts are deterministic.
	FindCreatedBetween(ctx context.Context, start, end time.Time, f ApplicantFilter) ([]*domain.Applicant, error)

	CountCreatedBetween(ctx context.Context, start, end time.Time, f ApplicantFilter) (int64, error)

	// AssignGroup marks one applicant as an experiment member of the given
	// arm. Modified is 0 when the record already carries those values.
	AssignGroup(ctx context.Context, id string, group domain.Group) (domain.UpdateResult, error)

	// ClearExperimentFields unsets membership and group on every member.
	ClearExperimentFields(ctx context.Context) (domain.UpdateResult, error)

	// DailyIncompleteCounts returns per-day arrival counts of incomplete-quiz
	// applicants across the full history, oldest day first.
	DailyIncompleteCounts(ctx context.Context) ([]domain.DailyCount, error)

	// GroupCompletionTable crosstabs experiment members by group and quiz status.
	GroupCompletionTable(ctx context.Context) (domain.ContingencyTable, error)

	NationalityCounts(ctx context.Context) ([]domain.NationalityCount, error)
	EducationCounts(ctx context.Context) ([]domain.EducationCount, error)
	Ages(ctx context.Context) ([]int64, error)
}
