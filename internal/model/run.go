package model

import "time"

// RunKind distinguishes which chain produced a research run.
type RunKind string

const (
	RunKindLibraries RunKind = "libraries"
	RunKindSearch    RunKind = "search"
)

// ResearchRun is a persisted record of one batch resolution. Results keeps
// the same order as Queries.
type ResearchRun struct {
	ID        string            `json:"id"`
	Kind      RunKind           `json:"kind"`
	Queries   []string          `json:"queries"`
	Results   []*ProviderResult `json:"results"`
	CreatedAt time.Time         `json:"created_at"`
}
