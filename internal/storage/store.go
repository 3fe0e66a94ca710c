// Package storage persists saved scenarios and a history of runs.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// SavedScenario is a named scenario kept between sessions
type SavedScenario struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Scenario  domain.Scenario `json:"scenario"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RunKind names what produced a run record
type RunKind string

const (
	RunSimulate RunKind = "simulate"
	RunOptimize RunKind = "optimize"
	RunGrid     RunKind = "grid"
)

// RunRecord is the headline outcome of one simulation or sweep
type RunRecord struct {
	ID         string          `json:"id"`
	ScenarioID string          `json:"scenarioId,omitempty"`
	Kind       RunKind         `json:"kind"`
	Label      string          `json:"label"`
	FinalTANW  decimal.Decimal `json:"finalTanw"`
	Summary    domain.Summary  `json:"summary"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Store defines persistence for scenarios and runs.
// Implementations assign IDs and timestamps when they are empty.
type Store interface {
	// SaveScenario inserts a scenario, or replaces it when ID is set and exists
	SaveScenario(ctx context.Context, s *SavedScenario) error

	// GetScenario returns ErrNotFound for unknown IDs
	GetScenario(ctx context.Context, id string) (*SavedScenario, error)

	// ListScenarios returns scenarios most recently updated first
	ListScenarios(ctx context.Context) ([]SavedScenario, error)

	// DeleteScenario removes a scenario and its runs; ErrNotFound if absent
	DeleteScenario(ctx context.Context, id string) error

	// RecordRun appends a run to the history
	RecordRun(ctx context.Context, r *RunRecord) error

	// ListRuns returns newest first; an empty scenarioID lists all runs
	ListRuns(ctx context.Context, scenarioID string, limit int) ([]RunRecord, error)

	// Close releases any resources held by the store
	Close() error
}
