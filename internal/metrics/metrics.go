// Package metrics aggregates fallback-chain outcomes into per-tier counts
// and a fallback rate for operator reporting.
package metrics

import (
	"fmt"

	"github.com/agency-os/research-core/internal/model"
)

// Summary holds aggregate counts for a batch of provider results.
type Summary struct {
	Total int `json:"total"`

	// Per-reliability-tier counts.
	Primary  int `json:"primary"`  // high: primary provider answered
	Fallback int `json:"fallback"` // medium: a secondary provider answered
	Manual   int `json:"manual"`   // low: manual placeholder

	// BySource counts results per source identifier, manual sentinels
	// included.
	BySource map[string]int `json:"by_source"`

	// FallbackRate is (non-primary results) / total as a percentage string
	// with one decimal place, e.g. "66.7%". "0.0%" when the batch is empty.
	FallbackRate string `json:"fallback_rate"`
}

// Summarize aggregates a materialized batch of chain outcomes. It performs
// no I/O and needs no synchronization: the input is read exactly once.
func Summarize(results []*model.ProviderResult) Summary {
	s := Summary{
		BySource: make(map[string]int),
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		s.Total++
		s.BySource[r.Source]++
		switch r.Reliability {
		case model.ReliabilityHigh:
			s.Primary++
		case model.ReliabilityMedium:
			s.Fallback++
		default:
			s.Manual++
		}
	}

	if s.Total == 0 {
		s.FallbackRate = "0.0%"
		return s
	}

	nonPrimary := s.Total - s.Primary
	s.FallbackRate = fmt.Sprintf("%.1f%%", float64(nonPrimary)/float64(s.Total)*100)
	return s
}
