package gate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agency-os/research-core/internal/model"
)

func TestClassify_ExplicitTypeWins(t *testing.T) {
	brief := model.ResearchBrief{
		ProjectType:   "internal",
		ProjectVision: "Build a SaaS tool to disrupt the market",
	}
	assert.Equal(t, ProjectInternal, Classify(brief))
}

func TestClassify_ExplicitTypeCaseNormalized(t *testing.T) {
	brief := model.ResearchBrief{ProjectType: "Enterprise"}
	assert.Equal(t, ProjectEnterprise, Classify(brief))
}

func TestClassify_UnknownExplicitTypeFallsBackToVision(t *testing.T) {
	brief := model.ResearchBrief{
		ProjectType:   "hobby",
		ProjectVision: "internal tool for the sales team",
	}
	assert.Equal(t, ProjectInternal, Classify(brief))
}

func TestClassify_FromVision(t *testing.T) {
	tests := []struct {
		vision string
		want   ProjectType
	}{
		{"Build an internal tool for our sales team", ProjectInternal},
		{"Portfolio piece to showcase my skills in React", ProjectPortfolio},
		{"Open source nonprofit tool for community benefit", ProjectNonprofit},
		{"Enterprise platform for large corporations", ProjectEnterprise},
		{"Build a SaaS tool to disrupt the project management market", ProjectCommercial},
	}

	for _, tt := range tests {
		brief := model.ResearchBrief{ProjectVision: tt.vision}
		assert.Equal(t, tt.want, Classify(brief), "vision: %s", tt.vision)
	}
}

func TestClassify_KeywordPrecedenceIsFixed(t *testing.T) {
	// "internal" outranks "enterprise" when both appear.
	brief := model.ResearchBrief{
		ProjectVision: "An internal dashboard for an enterprise client",
	}
	assert.Equal(t, ProjectInternal, Classify(brief))
}

func TestClassify_DefaultsToCommercial(t *testing.T) {
	brief := model.ResearchBrief{ProjectVision: "Some tool that does something"}
	assert.Equal(t, ProjectCommercial, Classify(brief))
}

func TestClassify_EmptyBriefDefaultsToCommercial(t *testing.T) {
	assert.Equal(t, ProjectCommercial, Classify(model.ResearchBrief{}))
}

func TestThresholdFor_FixedTable(t *testing.T) {
	tests := []struct {
		class ProjectType
		want  int
	}{
		{ProjectInternal, 30},
		{ProjectPortfolio, 35},
		{ProjectNonprofit, 40},
		{ProjectCommercial, 50},
		{ProjectEnterprise, 55},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ThresholdFor(tt.class), "class: %s", tt.class)
	}
}

func TestQualityThreshold_RationaleNamesClass(t *testing.T) {
	for _, class := range []ProjectType{
		ProjectInternal, ProjectPortfolio, ProjectNonprofit, ProjectCommercial, ProjectEnterprise,
	} {
		td := QualityThreshold(model.ResearchBrief{ProjectType: string(class)})
		assert.Equal(t, class, td.ProjectType)
		assert.NotEmpty(t, td.Rationale)
		assert.Contains(t, strings.ToLower(td.Rationale), string(class))
	}
}

func TestQualityThreshold_RationalesDiffer(t *testing.T) {
	internal := QualityThreshold(model.ResearchBrief{ProjectType: "internal"})
	commercial := QualityThreshold(model.ResearchBrief{ProjectType: "commercial"})

	assert.NotEqual(t, internal.Threshold, commercial.Threshold)
	assert.NotEqual(t, internal.Rationale, commercial.Rationale)
}
