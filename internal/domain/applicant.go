package domain

import "time"

// QuizStatus is the admissions-quiz completion state of an applicant.
type QuizStatus string

const (
	QuizIncomplete QuizStatus = "incomplete"
	QuizComplete   QuizStatus = "complete"
)

// Group is the experiment arm an applicant is assigned to.
// Control receives no reminder email; treatment does.
type Group string

const (
	GroupControl   Group = "control"
	GroupTreatment Group = "treatment"
)

// Applicant is one prospective student of the online course.
// Group is non-nil iff InExperiment is true; the schema enforces the same.
type Applicant struct {
	ID             string
	CreatedAt      time.Time
	BirthDate      *time.Time
	CountryISO2    *string
	HighestDegree  *string
	AdmissionsQuiz QuizStatus
	InExperiment   bool
	Group          *Group
}

// Degrees lists the highest-degree-earned categories from lowest to highest.
// Education summaries are sorted in this order.
var Degrees = []string{
	"High School or Baccalaureate",
	"Some College (1-3 years)",
	"Bachelor's degree",
	"Master's degree",
	"Doctorate (e.g. PhD)",
}

// DegreeRank returns the ordinal position of a degree category.
// Unknown categories sort after the known ones.
func DegreeRank(degree string) int {
	for i, d := range Degrees {
		if d == degree {
			return i
		}
	}
	return len(Degrees)
}

// DailyCount is the number of arrivals on one calendar day (ISO date).
type DailyCount struct {
	Date  string
	Count int64
}

// NationalityCount is the number of applicants sharing one country code.
type NationalityCount struct {
	CountryISO2 string
	Count       int64
}

// EducationCount is the number of applicants sharing one degree category.
type EducationCount struct {
	Degree string
	Count  int64
}
