// Package reset clears experiment-state fields without deleting records.
package reset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/enrollwatch/internal/domain"
	"github.com/emiliopalmerini/enrollwatch/internal/ports"
)

// Resetter unsets the in_experiment and experiment_group fields on every
// member record. It is constructed either from a raw connection (whole
// database) or from an already-configured repository (single collection);
// there is deliberately no constructor that guesses which one it was given.
type Resetter struct {
	db   *sql.DB
	repo ports.ApplicantRepository
}

// New returns a Resetter that sweeps every table in the database carrying the
// experiment columns.
func New(db *sql.DB) *Resetter {
	return &Resetter{db: db}
}

// NewForRepository returns a Resetter scoped to one repository's collection.
func NewForRepository(repo ports.ApplicantRepository) *Resetter {
	return &Resetter{repo: repo}
}

// ResetAll clears the experiment fields and returns a per-collection summary.
// Calling it twice yields zero modifications the second time.
func (r *Resetter) ResetAll(ctx context.Context) (map[string]domain.UpdateResult, error) {
	if r.repo != nil {
		res, err := r.repo.ClearExperimentFields(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]domain.UpdateResult{r.repo.Collection(): res}, nil
	}

	tables, err := r.experimentTables(ctx)
	if err != nil {
		return nil, err
	}

	results := make(map[string]domain.UpdateResult, len(tables))
	for _, table := range tables {
		res, err := r.resetTable(ctx, table)
		if err != nil {
			return nil, err
		}
		results[table] = res
	}
	return results, nil
}

// experimentTables lists user tables that carry the in_experiment column.
func (r *Resetter) experimentTables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		candidates = append(candidates, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var tables []string
	for _, name := range candidates {
		var count int
		err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = 'in_experiment'`, name,
		).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("inspect table %s: %w", name, err)
		}
		if count > 0 {
			tables = append(tables, name)
		}
	}
	return tables, nil
}

func (r *Resetter) resetTable(ctx context.Context, table string) (domain.UpdateResult, error) {
	var res domain.UpdateResult

	// Table names come from sqlite_master, not user input.
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE in_experiment = 1`, table),
	).Scan(&res.Matched)
	if err != nil {
		return res, fmt.Errorf("match members in %s: %w", table, err)
	}

	out, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET in_experiment = 0, experiment_group = NULL WHERE in_experiment = 1`, table),
	)
	if err != nil {
		return res, fmt.Errorf("reset %s: %w", table, err)
	}

	res.Modified, err = out.RowsAffected()
	if err != nil {
		return res, fmt.Errorf("reset %s: %w", table, err)
	}
	return res, nil
}
