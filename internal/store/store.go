// Package store persists research runs for later auditing. Persistence is a
// consumer of the engines' outputs, never a dependency of them.
package store

import (
	"context"

	"github.com/agency-os/research-core/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Kind   model.RunKind `json:"kind,omitempty"`
	Limit  int           `json:"limit,omitempty"`
	Offset int           `json:"offset,omitempty"`
}

// Store defines the persistence interface for research runs.
type Store interface {
	SaveRun(ctx context.Context, run *model.ResearchRun) error
	GetRun(ctx context.Context, runID string) (*model.ResearchRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.ResearchRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
