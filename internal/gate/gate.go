package gate

import (
	"fmt"
	"strings"

	"github.com/agency-os/research-core/internal/model"
)

// Decision is the user's response to a below-threshold result.
type Decision string

// DecisionContinueAnyway is the only decision that unlocks the override
// path. Anything else — empty, unknown, typoed — fails closed.
const DecisionContinueAnyway Decision = "continue_anyway"

// Evaluate computes the pass/block verdict for a validation artifact
// against the brief's risk-dependent threshold.
//
// Critical findings are checked first and are absolute: they block
// regardless of score, threshold, or user decision. Below that, the
// threshold comparison is inclusive (score == threshold passes), and a
// below-threshold score blocks unless the user explicitly chose to
// continue anyway, in which case the verdict passes with its confidence
// downgraded to the lowest tier.
func Evaluate(brief model.ResearchBrief, validation model.FactValidation, decision Decision) *model.QualityVerdict {
	td := QualityThreshold(brief)

	v := &model.QualityVerdict{
		ProjectType: string(td.ProjectType),
		Threshold:   td.Threshold,
	}

	score, ok := validation.QualityScore.Int()
	v.QualityScore = score
	if !ok {
		v.Messages = append(v.Messages,
			fmt.Sprintf("Quality score missing or malformed (%q); treating as 0.", string(validation.QualityScore)))
	}

	v.Messages = append(v.Messages,
		fmt.Sprintf("Quality score %d evaluated against threshold %d for %s project.",
			score, td.Threshold, td.ProjectType),
		td.Rationale,
	)

	// Critical findings short-circuit everything, including overrides.
	if validation.HasCriticalFindings() {
		v.Passed = false
		v.Blocking = true
		v.Messages = append(v.Messages,
			fmt.Sprintf("BLOCKED: %d critical finding(s) present; critical issues cannot be overridden.",
				criticalCount(validation)),
			"Next action: resolve every critical finding, then re-run validation.",
		)
		return v
	}

	if score >= td.Threshold {
		v.Passed = true
		return v
	}

	if decision == DecisionContinueAnyway {
		v.Passed = true
		v.UserOverride = true
		v.Messages = append(v.Messages,
			fmt.Sprintf("User override accepted: proceeding below the recommended bar (%d < %d).", score, td.Threshold),
			"Research confidence downgraded to LOW confidence as a consequence of overriding.",
		)
		return v
	}

	v.Passed = false
	v.Blocking = true
	v.Messages = append(v.Messages,
		fmt.Sprintf("Score %d is below the %d required for a %s project.", score, td.Threshold, td.ProjectType),
		"Next action: gather more data to raise the quality score, or escalate for an explicit override.",
	)
	return v
}

func criticalCount(validation model.FactValidation) int {
	if validation.IssuesCritical > 0 {
		return validation.IssuesCritical
	}
	n := 0
	for _, h := range validation.FlaggedHallucinations {
		if strings.EqualFold(h.Severity, "critical") {
			n++
		}
	}
	return n
}
