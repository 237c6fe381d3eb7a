package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ResearchBrief is the project descriptor the quality gate reads.
// ProjectType is optional; when absent the risk class is inferred from
// ProjectVision.
type ResearchBrief struct {
	ProjectID     string `json:"project_id,omitempty"`
	ProjectType   string `json:"project_type,omitempty"`
	ProjectVision string `json:"project_vision,omitempty"`
}

// Hallucination is a fact-check finding flagged in the validation artifact.
type Hallucination struct {
	Claim    string `json:"claim"`
	Severity string `json:"severity"`
}

// FactValidation carries the fields of the validation artifact the gate reads.
type FactValidation struct {
	QualityScore          Score           `json:"quality_score"`
	IssuesFound           int             `json:"issues_found"`
	IssuesCritical        int             `json:"issues_critical"`
	FlaggedHallucinations []Hallucination `json:"flagged_hallucinations,omitempty"`
}

// HasCriticalFindings reports whether any critical-severity issue is present,
// either via the counter or the flagged findings list.
func (v FactValidation) HasCriticalFindings() bool {
	if v.IssuesCritical > 0 {
		return true
	}
	for _, h := range v.FlaggedHallucinations {
		if strings.EqualFold(h.Severity, "critical") {
			return true
		}
	}
	return false
}

// Score holds a quality score as reported by the validation artifact,
// accepting either a bare integer or an "N/100" formatted string.
type Score string

func (s *Score) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = Score(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = Score(n.String())
	return nil
}

// Int parses the score. ok is false when the value is missing or malformed;
// callers substitute the lowest possible score in that case.
func (s Score) Int() (n int, ok bool) {
	raw := strings.TrimSpace(string(s))
	if raw == "" {
		return 0, false
	}
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}
