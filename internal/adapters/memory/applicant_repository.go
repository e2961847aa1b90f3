// Package memory provides an in-process ApplicantRepository for tests and demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
	"github.com/emiliopalmerini/enrollwatch/internal/ports"
)

// ApplicantRepository keeps applicant records in memory with the same
// semantics as the libsql adapter, so domain logic can be tested in isolation.
type ApplicantRepository struct {
	applicants []*domain.Applicant
	byID       map[string]*domain.Applicant
}

func NewApplicantRepository() *ApplicantRepository {
	return &ApplicantRepository{byID: make(map[string]*domain.Applicant)}
}

func (r *ApplicantRepository) Collection() string {
	return "applicants"
}

func (r *ApplicantRepository) Insert(_ context.Context, a *domain.Applicant) error {
	if _, ok := r.byID[a.ID]; ok {
		return fmt.Errorf("insert applicant %s: duplicate id", a.ID)
	}
	clone := *a
	r.applicants = append(r.applicants, &clone)
	r.byID[clone.ID] = &clone
	return nil
}

func (r *ApplicantRepository) FindCreatedBetween(_ context.Context, start, end time.Time, f ports.ApplicantFilter) ([]*domain.Applicant, error) {
	var out []*domain.Applicant
	for _, a := range r.applicants {
		if !matches(a, start, end, f) {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ApplicantRepository) CountCreatedBetween(_ context.Context, start, end time.Time, f ports.ApplicantFilter) (int64, error) {
	var count int64
	for _, a := range r.applicants {
		if matches(a, start, end, f) {
			count++
		}
	}
	return count, nil
}

func (r *ApplicantRepository) AssignGroup(_ context.Context, id string, group domain.Group) (domain.UpdateResult, error) {
	var res domain.UpdateResult
	a, ok := r.byID[id]
	if !ok {
		return res, nil
	}
	res.Matched = 1
	if a.InExperiment && a.Group != nil && *a.Group == group {
		return res, nil
	}
	a.InExperiment = true
	g := group
	a.Group = &g
	res.Modified = 1
	return res, nil
}

func (r *ApplicantRepository) ClearExperimentFields(_ context.Context) (domain.UpdateResult, error) {
	var res domain.UpdateResult
	for _, a := range r.applicants {
		if !a.InExperiment {
			continue
		}
		a.InExperiment = false
		a.Group = nil
		res.Matched++
		res.Modified++
	}
	return res, nil
}

func (r *ApplicantRepository) DailyIncompleteCounts(_ context.Context) ([]domain.DailyCount, error) {
	byDay := make(map[string]int64)
	for _, a := range r.applicants {
		if a.AdmissionsQuiz != domain.QuizIncomplete {
			continue
		}
		byDay[a.CreatedAt.UTC().Format("2006-01-02")]++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	counts := make([]domain.DailyCount, 0, len(days))
	for _, day := range days {
		counts = append(counts, domain.DailyCount{Date: day, Count: byDay[day]})
	}
	return counts, nil
}

func (r *ApplicantRepository) GroupCompletionTable(_ context.Context) (domain.ContingencyTable, error) {
	var table domain.ContingencyTable
	for _, a := range r.applicants {
		if !a.InExperiment || a.Group == nil {
			continue
		}
		complete := a.AdmissionsQuiz == domain.QuizComplete
		switch {
		case *a.Group == domain.GroupControl && complete:
			table.ControlComplete++
		case *a.Group == domain.GroupControl:
			table.ControlIncomplete++
		case *a.Group == domain.GroupTreatment && complete:
			table.TreatmentComplete++
		case *a.Group == domain.GroupTreatment:
			table.TreatmentIncomplete++
		}
	}
	return table, nil
}

func (r *ApplicantRepository) NationalityCounts(_ context.Context) ([]domain.NationalityCount, error) {
	byCountry := make(map[string]int64)
	for _, a := range r.applicants {
		if a.CountryISO2 != nil {
			byCountry[*a.CountryISO2]++
		}
	}

	counts := make([]domain.NationalityCount, 0, len(byCountry))
	for country, n := range byCountry {
		counts = append(counts, domain.NationalityCount{CountryISO2: country, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].CountryISO2 < counts[j].CountryISO2
	})
	return counts, nil
}

func (r *ApplicantRepository) EducationCounts(_ context.Context) ([]domain.EducationCount, error) {
	byDegree := make(map[string]int64)
	for _, a := range r.applicants {
		if a.HighestDegree != nil {
			byDegree[*a.HighestDegree]++
		}
	}

	counts := make([]domain.EducationCount, 0, len(byDegree))
	for degree, n := range byDegree {
		counts = append(counts, domain.EducationCount{Degree: degree, Count: n})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return domain.DegreeRank(counts[i].Degree) < domain.DegreeRank(counts[j].Degree)
	})
	return counts, nil
}

func (r *ApplicantRepository) Ages(_ context.Context) ([]int64, error) {
	now := time.Now().UTC()
	var ages []int64
	for _, a := range r.applicants {
		if a.BirthDate == nil {
			continue
		}
		ages = append(ages, int64(now.Sub(*a.BirthDate).Hours()/24/365.2425))
	}
	return ages, nil
}

func matches(a *domain.Applicant, start, end time.Time, f ports.ApplicantFilter) bool {
	if a.CreatedAt.Before(start) || !a.CreatedAt.Before(end) {
		return false
	}
	if f.Quiz != "" && a.AdmissionsQuiz != f.Quiz {
		return false
	}
	if f.ExcludeAssigned && a.InExperiment {
		return false
	}
	return true
}
