// Package seed generates synthetic applicant records so the experiment
// pipeline can be exercised end-to-end against an empty database.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
)

var countries = []string{"NG", "IN", "US", "PK", "KE", "BR", "EG", "GH", "ID", "DE"}

// Params controls synthetic applicant generation.
type Params struct {
	Count int
	Days  int
	Seed  int64
}

// Applicants returns Count synthetic records with creation times spread over
// the Days calendar days before now. IDs are name-based UUIDs derived from
// the seed, so a given (Params, now) pair always yields the same records.
func Applicants(p Params, now time.Time) []*domain.Applicant {
	if p.Count <= 0 || p.Days <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(p.Seed))
	end := startOfDay(now.UTC())

	out := make([]*domain.Applicant, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		day := end.AddDate(0, 0, -1-rng.Intn(p.Days))
		createdAt := day.Add(time.Duration(rng.Intn(24*60*60)) * time.Second)

		birth := createdAt.AddDate(-18-rng.Intn(28), 0, -rng.Intn(365))
		country := countries[rng.Intn(len(countries))]
		degree := domain.Degrees[rng.Intn(len(domain.Degrees))]

		quiz := domain.QuizIncomplete
		if rng.Float64() < 0.25 {
			quiz = domain.QuizComplete
		}

		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("applicant-%d-%d", p.Seed, i)))

		out = append(out, &domain.Applicant{
			ID:             id.String(),
			CreatedAt:      createdAt,
			BirthDate:      &birth,
			CountryISO2:    &country,
			HighestDegree:  &degree,
			AdmissionsQuiz: quiz,
		})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
