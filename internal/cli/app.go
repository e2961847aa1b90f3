package cli

import (
	"fmt"

	"github.com/emiliopalmerini/enrollwatch/internal/adapters/turso"
	"github.com/emiliopalmerini/enrollwatch/internal/experiment"
	"github.com/emiliopalmerini/enrollwatch/internal/infrastructure/config"
	"github.com/emiliopalmerini/enrollwatch/internal/infrastructure/database"
	"github.com/emiliopalmerini/enrollwatch/internal/ports"
	"github.com/emiliopalmerini/enrollwatch/internal/stats"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	DB         *database.Client
	Applicants ports.ApplicantRepository
	Experiment *experiment.Controller
	Stats      *stats.Engine
}

// NewAppContext creates an AppContext with all dependencies initialized.
func NewAppContext() (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.New(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := turso.NewApplicantRepository(db.DB)

	return &AppContext{
		DB:         db,
		Applicants: repo,
		Experiment: experiment.New(repo),
		Stats:      stats.NewEngine(repo),
	}, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
