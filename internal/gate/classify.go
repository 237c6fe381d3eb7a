// Package gate implements the adaptive quality gate: project risk
// classification, risk-dependent thresholds, and the pass/block decision
// for a research validation artifact.
package gate

import (
	"strings"

	"github.com/agency-os/research-core/internal/model"
)

// ProjectType is the inferred risk class of a project.
type ProjectType string

const (
	ProjectInternal   ProjectType = "internal"
	ProjectPortfolio  ProjectType = "portfolio"
	ProjectNonprofit  ProjectType = "nonprofit"
	ProjectCommercial ProjectType = "commercial"
	ProjectEnterprise ProjectType = "enterprise"
)

// thresholds is fixed policy, not runtime configuration.
var thresholds = map[ProjectType]int{
	ProjectInternal:   30,
	ProjectPortfolio:  35,
	ProjectNonprofit:  40,
	ProjectCommercial: 50,
	ProjectEnterprise: 55,
}

var rationales = map[ProjectType]string{
	ProjectInternal:   "Internal tooling needs no external market validation, so a lower research bar is acceptable.",
	ProjectPortfolio:  "Portfolio projects are learning artifacts; the bar is lenient but not zero.",
	ProjectNonprofit:  "Nonprofit projects are public-facing but not revenue-driven, so a moderate bar applies.",
	ProjectCommercial: "Commercial projects carry market risk, which justifies stricter validation of research claims.",
	ProjectEnterprise: "Enterprise projects have the highest blast radius and therefore the highest research bar.",
}

// visionKeywords drives classification from free text when no explicit
// project_type is present. Checked in fixed order so ambiguous text
// resolves deterministically; first match wins.
var visionKeywords = []struct {
	class    ProjectType
	keywords []string
}{
	{ProjectInternal, []string{"internal"}},
	{ProjectPortfolio, []string{"portfolio", "showcase", "learning project", "side project"}},
	{ProjectNonprofit, []string{"nonprofit", "non-profit", "charity", "public good", "community benefit"}},
	{ProjectEnterprise, []string{"enterprise", "corporation", "corporate"}},
	{ProjectCommercial, []string{"commercial", "saas", "b2b", "b2c", "market", "revenue", "startup", "customers"}},
}

// Classify returns the project's risk class. An explicit, recognized
// project_type wins; otherwise the vision text is scanned for indicative
// keywords. Unclassifiable projects default to commercial — the strictest
// reachable default — so an unknown project never silently gets a lenient
// bar.
func Classify(brief model.ResearchBrief) ProjectType {
	if t := ProjectType(strings.ToLower(strings.TrimSpace(brief.ProjectType))); t != "" {
		if _, ok := thresholds[t]; ok {
			return t
		}
	}

	vision := strings.ToLower(brief.ProjectVision)
	for _, entry := range visionKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(vision, kw) {
				return entry.class
			}
		}
	}

	return ProjectCommercial
}

// ThresholdFor returns the minimum passing quality score for a risk class.
func ThresholdFor(class ProjectType) int {
	if t, ok := thresholds[class]; ok {
		return t
	}
	return thresholds[ProjectCommercial]
}

// ThresholdDecision pairs a threshold with the class that produced it and a
// one-sentence rationale naming that class.
type ThresholdDecision struct {
	ProjectType ProjectType `json:"project_type"`
	Threshold   int         `json:"threshold"`
	Rationale   string      `json:"rationale"`
}

// QualityThreshold classifies the brief and returns the applicable
// threshold with its rationale.
func QualityThreshold(brief model.ResearchBrief) ThresholdDecision {
	class := Classify(brief)
	return ThresholdDecision{
		ProjectType: class,
		Threshold:   ThresholdFor(class),
		Rationale:   rationales[class],
	}
}
