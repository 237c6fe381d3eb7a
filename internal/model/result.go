// Package model defines the core data types shared across the research engines.
package model

// Reliability classifies how authoritative a successful result is.
type Reliability string

const (
	// ReliabilityHigh marks data from the primary authoritative provider.
	ReliabilityHigh Reliability = "high"
	// ReliabilityMedium marks data from a secondary/proxy provider.
	ReliabilityMedium Reliability = "medium"
	// ReliabilityLow marks a manual-action placeholder.
	ReliabilityLow Reliability = "low"
)

// ReliabilityForTier maps a provider's position in its chain to a
// reliability classification. Tier 0 is the primary source.
func ReliabilityForTier(tier int) Reliability {
	switch tier {
	case 0:
		return ReliabilityHigh
	case 1:
		return ReliabilityMedium
	default:
		return ReliabilityLow
	}
}

// Reserved source identifiers for exhausted chains.
const (
	SourceManualCheck  = "manual_check_required"
	SourceManualSearch = "manual_search_required"
)

// UnknownValue marks a numeric field that could not be measured. Zero is a
// valid count and must not be confused with "unmeasured".
const UnknownValue = "UNKNOWN"

// StatusAPIUnavailable is set on manual placeholder payloads.
const StatusAPIUnavailable = "API_UNAVAILABLE"

// ProviderResult is the normalized outcome of resolving one query through a
// fallback chain. Exactly one of two shapes holds: a real payload from the
// provider named in Source, or a low-reliability placeholder with non-empty
// manual steps.
type ProviderResult struct {
	Source             string         `json:"source"`
	Reliability        Reliability    `json:"reliability"`
	Payload            map[string]any `json:"payload,omitempty"`
	FallbackReason     string         `json:"fallback_reason,omitempty"`
	HowToVerify        []string       `json:"how_to_verify,omitempty"`
	ManualInstructions []string       `json:"manual_instructions,omitempty"`
}

// Manual reports whether the result is a manual-action placeholder.
func (r *ProviderResult) Manual() bool {
	return r.Reliability == ReliabilityLow
}

// SearchHit is a single result from a search provider.
type SearchHit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet,omitempty"`
}
