package model

// QualityVerdict is the outcome of the adaptive quality gate. Blocking is
// the sole signal the downstream workflow transition reads; it differs from
// !Passed only on the user-override path.
type QualityVerdict struct {
	ProjectType  string   `json:"project_type"`
	Threshold    int      `json:"threshold"`
	QualityScore int      `json:"quality_score"`
	Passed       bool     `json:"passed"`
	Blocking     bool     `json:"blocking"`
	UserOverride bool     `json:"user_override"`
	Messages     []string `json:"messages"`
}
