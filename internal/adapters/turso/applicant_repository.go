package turso

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
	"github.com/emiliopalmerini/enrollwatch/internal/infrastructure/database"
	"github.com/emiliopalmerini/enrollwatch/internal/ports"
	"github.com/emiliopalmerini/enrollwatch/internal/util"
)

const (
	tableName  = "applicants"
	maxRetries = 3
)

// ApplicantRepository implements ports.ApplicantRepository over libsql.
type ApplicantRepository struct {
	db *sql.DB
}

func NewApplicantRepository(db *sql.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

func (r *ApplicantRepository) Collection() string {
	return tableName
}

func (r *ApplicantRepository) Insert(ctx context.Context, a *domain.Applicant) error {
	var birthDate sql.NullString
	if a.BirthDate != nil {
		birthDate = sql.NullString{String: a.BirthDate.UTC().Format(time.RFC3339), Valid: true}
	}

	var group sql.NullString
	if a.Group != nil {
		group = sql.NullString{String: string(*a.Group), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applicants (
			id, created_at, birth_date, country_iso2, highest_degree,
			admissions_quiz, in_experiment, experiment_group
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID,
		a.CreatedAt.UTC().Format(time.RFC3339),
		birthDate,
		util.NullStringPtr(a.CountryISO2),
		util.NullStringPtr(a.HighestDegree),
		string(a.AdmissionsQuiz),
		util.BoolToInt64(a.InExperiment),
		group,
	)
	if err != nil {
		return fmt.Errorf("insert applicant %s: %w", a.ID, err)
	}
	return nil
}

func (r *ApplicantRepository) FindCreatedBetween(ctx context.Context, start, end time.Time, f ports.ApplicantFilter) ([]*domain.Applicant, error) {
	query := `
		SELECT id, created_at, birth_date, country_iso2, highest_degree,
		       admissions_quiz, in_experiment, experiment_group
		FROM applicants
		WHERE created_at >= ? AND created_at < ?
	`
	args := []any{start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)}

	if f.Quiz != "" {
		query += ` AND admissions_quiz = ?`
		args = append(args, string(f.Quiz))
	}
	if f.ExcludeAssigned {
		query += ` AND in_experiment = 0`
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applicants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var applicants []*domain.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}
	return applicants, rows.Err()
}

func (r *ApplicantRepository) CountCreatedBetween(ctx context.Context, start, end time.Time, f ports.ApplicantFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM applicants WHERE created_at >= ? AND created_at < ?`
	args := []any{start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)}

	if f.Quiz != "" {
		query += ` AND admissions_quiz = ?`
		args = append(args, string(f.Quiz))
	}
	if f.ExcludeAssigned {
		query += ` AND in_experiment = 0`
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count applicants: %w", err)
	}
	return count, nil
}

func (r *ApplicantRepository) AssignGroup(ctx context.Context, id string, group domain.Group) (domain.UpdateResult, error) {
	var res domain.UpdateResult

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicants WHERE id = ?`, id).Scan(&res.Matched)
	if err != nil {
		return res, fmt.Errorf("match applicant %s: %w", id, err)
	}

	// Only rows whose fields actually change count as modified.
	out, err := r.db.ExecContext(ctx, `
		UPDATE applicants
		SET in_experiment = 1, experiment_group = ?
		WHERE id = ? AND (in_experiment = 0 OR experiment_group IS NOT ?)
	`, string(group), id, string(group))
	if err != nil {
		return res, fmt.Errorf("assign applicant %s: %w", id, err)
	}

	res.Modified, err = out.RowsAffected()
	if err != nil {
		return res, fmt.Errorf("assign applicant %s: %w", id, err)
	}
	return res, nil
}

func (r *ApplicantRepository) ClearExperimentFields(ctx context.Context) (domain.UpdateResult, error) {
	var res domain.UpdateResult

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicants WHERE in_experiment = 1`).Scan(&res.Matched)
	if err != nil {
		return res, fmt.Errorf("match experiment members: %w", err)
	}

	out, err := r.db.ExecContext(ctx, `
		UPDATE applicants
		SET in_experiment = 0, experiment_group = NULL
		WHERE in_experiment = 1
	`)
	if err != nil {
		return res, fmt.Errorf("clear experiment fields: %w", err)
	}

	res.Modified, err = out.RowsAffected()
	if err != nil {
		return res, fmt.Errorf("clear experiment fields: %w", err)
	}
	return res, nil
}

func (r *ApplicantRepository) DailyIncompleteCounts(ctx context.Context) ([]domain.DailyCount, error) {
	return database.WithRetry(ctx, maxRetries, func() ([]domain.DailyCount, error) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT substr(created_at, 1, 10) AS day, COUNT(*)
			FROM applicants
			WHERE admissions_quiz = ?
			GROUP BY day
			ORDER BY day
		`, string(domain.QuizIncomplete))
		if err != nil {
			return nil, fmt.Errorf("query daily incomplete counts: %w", err)
		}
		defer func() { _ = rows.Close() }()

		var counts []domain.DailyCount
		for rows.Next() {
			var c domain.DailyCount
			if err := rows.Scan(&c.Date, &c.Count); err != nil {
				return nil, fmt.Errorf("scan daily count: %w", err)
			}
			counts = append(counts, c)
		}
		return counts, rows.Err()
	})
}

func (r *ApplicantRepository) GroupCompletionTable(ctx context.Context) (domain.ContingencyTable, error) {
	return database.WithRetry(ctx, maxRetries, func() (domain.ContingencyTable, error) {
		var table domain.ContingencyTable

		rows, err := r.db.QueryContext(ctx, `
			SELECT experiment_group, admissions_quiz, COUNT(*)
			FROM applicants
			WHERE in_experiment = 1
			GROUP BY experiment_group, admissions_quiz
		`)
		if err != nil {
			return table, fmt.Errorf("query contingency table: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var group, quiz string
			var count int64
			if err := rows.Scan(&group, &quiz, &count); err != nil {
				return table, fmt.Errorf("scan contingency cell: %w", err)
			}

			complete := quiz == string(domain.QuizComplete)
			switch {
			case group == string(domain.GroupControl) && complete:
				table.ControlComplete = count
			case group == string(domain.GroupControl):
				table.ControlIncomplete = count
			case group == string(domain.GroupTreatment) && complete:
				table.TreatmentComplete = count
			case group == string(domain.GroupTreatment):
				table.TreatmentIncomplete = count
			}
		}
		return table, rows.Err()
	})
}

func (r *ApplicantRepository) NationalityCounts(ctx context.Context) ([]domain.NationalityCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT country_iso2, COUNT(*)
		FROM applicants
		WHERE country_iso2 IS NOT NULL
		GROUP BY country_iso2
		ORDER BY COUNT(*) DESC, country_iso2
	`)
	if err != nil {
		return nil, fmt.Errorf("query nationality counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []domain.NationalityCount
	for rows.Next() {
		var c domain.NationalityCount
		if err := rows.Scan(&c.CountryISO2, &c.Count); err != nil {
			return nil, fmt.Errorf("scan nationality count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *ApplicantRepository) EducationCounts(ctx context.Context) ([]domain.EducationCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT highest_degree, COUNT(*)
		FROM applicants
		WHERE highest_degree IS NOT NULL
		GROUP BY highest_degree
	`)
	if err != nil {
		return nil, fmt.Errorf("query education counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []domain.EducationCount
	for rows.Next() {
		var c domain.EducationCount
		if err := rows.Scan(&c.Degree, &c.Count); err != nil {
			return nil, fmt.Errorf("scan education count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortEducationCounts(counts)
	return counts, nil
}

func (r *ApplicantRepository) Ages(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT CAST((julianday('now') - julianday(birth_date)) / 365.2425 AS INTEGER)
		FROM applicants
		WHERE birth_date IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("query ages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ages []int64
	for rows.Next() {
		var age int64
		if err := rows.Scan(&age); err != nil {
			return nil, fmt.Errorf("scan age: %w", err)
		}
		ages = append(ages, age)
	}
	return ages, rows.Err()
}

func sortEducationCounts(counts []domain.EducationCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		return domain.DegreeRank(counts[i].Degree) < domain.DegreeRank(counts[j].Degree)
	})
}

func scanApplicant(rows *sql.Rows) (*domain.Applicant, error) {
	var (
		a            domain.Applicant
		createdAt    string
		birthDate    sql.NullString
		countryISO2  sql.NullString
		degree       sql.NullString
		quiz         string
		inExperiment int64
		group        sql.NullString
	)

	if err := rows.Scan(&a.ID, &createdAt, &birthDate, &countryISO2, &degree, &quiz, &inExperiment, &group); err != nil {
		return nil, fmt.Errorf("scan applicant: %w", err)
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if birthDate.Valid {
		t, _ := time.Parse(time.RFC3339, birthDate.String)
		a.BirthDate = &t
	}
	a.CountryISO2 = util.NullStringToPtr(countryISO2)
	a.HighestDegree = util.NullStringToPtr(degree)
	a.AdmissionsQuiz = domain.QuizStatus(quiz)
	a.InExperiment = inExperiment == 1
	if group.Valid {
		g := domain.Group(group.String)
		a.Group = &g
	}

	return &a, nil
}
