package experiment_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/emiliopalmerini/enrollwatch/internal/adapters/memory"
	"github.com/emiliopalmerini/enrollwatch/internal/domain"
	"github.com/emiliopalmerini/enrollwatch/internal/experiment"
	"github.com/emiliopalmerini/enrollwatch/internal/ports"
)

var testNow = time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// addApplicants inserts n applicants with the given quiz status, created on
// the day daysAgo days before testNow.
func addApplicants(t *testing.T, repo *memory.ApplicantRepository, n, daysAgo int, quiz domain.QuizStatus) []string {
	t.Helper()

	day := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("applicant-%d-%d-%s", daysAgo, i, quiz)
		err := repo.Insert(context.Background(), &domain.Applicant{
			ID:             id,
			CreatedAt:      day.Add(time.Duration(i) * time.Minute),
			AdmissionsQuiz: quiz,
		})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func assignments(t *testing.T, repo *memory.ApplicantRepository) map[string]domain.Group {
	t.Helper()

	all, err := repo.FindCreatedBetween(context.Background(), time.Time{}, testNow.AddDate(1, 0, 0), ports.ApplicantFilter{})
	if err != nil {
		t.Fatalf("FindCreatedBetween failed: %v", err)
	}

	out := make(map[string]domain.Group)
	for _, a := range all {
		if a.InExperiment {
			if a.Group == nil {
				t.Fatalf("applicant %s in experiment without a group", a.ID)
			}
			out[a.ID] = *a.Group
		}
	}
	return out
}

func TestAssignForDaySplitSizes(t *testing.T) {
	for n := 0; n <= 7; n++ {
		t.Run(fmt.Sprintf("cohort of %d", n), func(t *testing.T) {
			repo := memory.NewApplicantRepository()
			addApplicants(t, repo, n, 1, domain.QuizIncomplete)

			ctrl := experiment.NewWithClock(repo, testClock)
			rng := rand.New(rand.NewSource(1))

			res, err := ctrl.AssignForDay(context.Background(), testNow.AddDate(0, 0, -1), rng)
			if err != nil {
				t.Fatalf("AssignForDay failed: %v", err)
			}

			if res.ControlSize+res.TreatmentSize != n {
				t.Errorf("sizes sum to %d, want %d", res.ControlSize+res.TreatmentSize, n)
			}
			if diff := res.TreatmentSize - res.ControlSize; diff != 0 && diff != 1 {
				t.Errorf("treatment-control size difference = %d, want 0 or 1", diff)
			}
			if res.Matched != int64(n) || res.Modified != int64(n) {
				t.Errorf("matched/modified = %d/%d, want %d/%d", res.Matched, res.Modified, n, n)
			}
		})
	}
}

func TestAssignForDayEmptyCohort(t *testing.T) {
	repo := memory.NewApplicantRepository()
	ctrl := experiment.NewWithClock(repo, testClock)

	res, err := ctrl.AssignForDay(context.Background(), testNow.AddDate(0, 0, -1), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("AssignForDay failed on empty cohort: %v", err)
	}
	if res.ControlSize != 0 || res.TreatmentSize != 0 || res.Modified != 0 {
		t.Errorf("expected all-zero result, got %+v", res)
	}
}

func TestAssignForDaySkipsIneligible(t *testing.T) {
	repo := memory.NewApplicantRepository()
	addApplicants(t, repo, 4, 1, domain.QuizIncomplete)
	completed := addApplicants(t, repo, 3, 1, domain.QuizComplete)

	ctrl := experiment.NewWithClock(repo, testClock)

	res, err := ctrl.AssignForDay(context.Background(), testNow.AddDate(0, 0, -1), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("AssignForDay failed: %v", err)
	}
	if res.Matched != 4 {
		t.Errorf("matched = %d, want 4 (completed applicants are not eligible)", res.Matched)
	}

	assigned := assignments(t, repo)
	for _, id := range completed {
		if _, ok := assigned[id]; ok {
			t.Errorf("completed applicant %s was assigned", id)
		}
	}

	// A second pass over the same day must not reassign anyone.
	res, err = ctrl.AssignForDay(context.Background(), testNow.AddDate(0, 0, -1), rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("second AssignForDay failed: %v", err)
	}
	if res.Matched != 0 || res.Modified != 0 {
		t.Errorf("second pass matched/modified = %d/%d, want 0/0", res.Matched, res.Modified)
	}
}

func TestRunSeededAssignmentIsReproducible(t *testing.T) {
	build := func() *memory.ApplicantRepository {
		repo := memory.NewApplicantRepository()
		addApplicants(t, repo, 5, 1, domain.QuizIncomplete)
		addApplicants(t, repo, 8, 2, domain.QuizIncomplete)
		addApplicants(t, repo, 3, 3, domain.QuizIncomplete)
		addApplicants(t, repo, 4, 2, domain.QuizComplete)
		return repo
	}

	first := build()
	second := build()

	for _, repo := range []*memory.ApplicantRepository{first, second} {
		ctrl := experiment.NewWithClock(repo, testClock)
		if _, err := ctrl.Run(context.Background(), 4, true, 7); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	}

	got := assignments(t, first)
	want := assignments(t, second)

	if len(got) != len(want) {
		t.Fatalf("assignment counts differ: %d vs %d", len(got), len(want))
	}
	for id, group := range want {
		if got[id] != group {
			t.Errorf("applicant %s: group %s vs %s across identical seeded runs", id, got[id], group)
		}
	}
}

func TestAssignForDaySixApplicantsSeed42(t *testing.T) {
	repo := memory.NewApplicantRepository()
	addApplicants(t, repo, 6, 1, domain.QuizIncomplete)
	addApplicants(t, repo, 4, 1, domain.QuizComplete)

	ctrl := experiment.NewWithClock(repo, testClock)
	day := testNow.AddDate(0, 0, -1)

	res, err := ctrl.AssignForDay(context.Background(), day, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("AssignForDay failed: %v", err)
	}
	if res.ControlSize != 3 || res.TreatmentSize != 3 {
		t.Fatalf("split = %d/%d, want 3/3", res.ControlSize, res.TreatmentSize)
	}

	firstRun := assignments(t, repo)
	if len(firstRun) != 6 {
		t.Fatalf("assigned %d applicants, want 6", len(firstRun))
	}

	// Reset and repeat with the same seed: identical membership.
	if _, err := ctrl.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := ctrl.AssignForDay(context.Background(), day, rand.New(rand.NewSource(42))); err != nil {
		t.Fatalf("second AssignForDay failed: %v", err)
	}

	secondRun := assignments(t, repo)
	for id, group := range firstRun {
		if secondRun[id] != group {
			t.Errorf("applicant %s: group %s then %s with the same seed", id, group, secondRun[id])
		}
	}
}

func TestRunCountOnly(t *testing.T) {
	repo := memory.NewApplicantRepository()
	addApplicants(t, repo, 5, 1, domain.QuizIncomplete)
	addApplicants(t, repo, 2, 2, domain.QuizIncomplete)

	ctrl := experiment.NewWithClock(repo, testClock)

	res, err := ctrl.Run(context.Background(), 3, false, 42)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.TotalAssigned != 0 {
		t.Errorf("TotalAssigned = %d, want 0 in count-only mode", res.TotalAssigned)
	}
	if len(assignments(t, repo)) != 0 {
		t.Error("count-only run mutated records")
	}

	var eligible int64
	for _, day := range res.Daily {
		eligible += day.Eligible
	}
	if eligible != 7 {
		t.Errorf("total eligible = %d, want 7", eligible)
	}
}

func TestRunInvalidDays(t *testing.T) {
	ctrl := experiment.NewWithClock(memory.NewApplicantRepository(), testClock)

	for _, days := range []int{0, -3} {
		if _, err := ctrl.Run(context.Background(), days, true, 42); !errors.Is(err, domain.ErrInvalidDateRange) {
			t.Errorf("Run(days=%d) error = %v, want ErrInvalidDateRange", days, err)
		}
	}
}

func TestRunExcludesToday(t *testing.T) {
	repo := memory.NewApplicantRepository()
	addApplicants(t, repo, 4, 0, domain.QuizIncomplete) // created today
	addApplicants(t, repo, 2, 1, domain.QuizIncomplete)

	ctrl := experiment.NewWithClock(repo, testClock)

	res, err := ctrl.Run(context.Background(), 2, true, 42)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.TotalAssigned != 2 {
		t.Errorf("TotalAssigned = %d, want 2 (today's cohort is out of range)", res.TotalAssigned)
	}
}

func TestResetIdempotence(t *testing.T) {
	repo := memory.NewApplicantRepository()
	addApplicants(t, repo, 6, 1, domain.QuizIncomplete)

	ctrl := experiment.NewWithClock(repo, testClock)
	if _, err := ctrl.Run(context.Background(), 2, true, 42); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	first, err := ctrl.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if first.Modified != 6 {
		t.Errorf("first reset modified = %d, want 6", first.Modified)
	}

	second, err := ctrl.Reset(context.Background())
	if err != nil {
		t.Fatalf("second Reset failed: %v", err)
	}
	if second.Modified != 0 {
		t.Errorf("second reset modified = %d, want 0", second.Modified)
	}
}

func TestStatsEmptyGroupsAreZeroSafe(t *testing.T) {
	ctrl := experiment.NewWithClock(memory.NewApplicantRepository(), testClock)

	summary, err := ctrl.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if got := summary.Control.CompletionRate(); got != 0 {
		t.Errorf("control completion rate = %v, want 0", got)
	}
	if got := summary.Treatment.CompletionRate(); got != 0 {
		t.Errorf("treatment completion rate = %v, want 0", got)
	}
	if got := summary.RateDifference(); got != 0 {
		t.Errorf("rate difference = %v, want 0", got)
	}
}
