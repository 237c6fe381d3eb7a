package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreInt(t *testing.T) {
	tests := []struct {
		name  string
		score Score
		want  int
		ok    bool
	}{
		{"fraction format", "45/100", 45, true},
		{"bare integer", "72", 72, true},
		{"zero", "0/100", 0, true},
		{"full marks", "100/100", 100, true},
		{"whitespace tolerated", " 31 / 100 ", 31, true},
		{"empty", "", 0, false},
		{"negative", "-3", 0, false},
		{"over 100", "140/100", 0, false},
		{"not a number", "excellent", 0, false},
		{"garbage fraction", "abc/100", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := tc.score.Int()
			assert.Equal(t, tc.want, n)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestScoreUnmarshalJSON(t *testing.T) {
	var doc struct {
		Score Score `json:"quality_score"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"quality_score":"62/100"}`), &doc))
	n, ok := doc.Score.Int()
	assert.True(t, ok)
	assert.Equal(t, 62, n)

	require.NoError(t, json.Unmarshal([]byte(`{"quality_score":62}`), &doc))
	n, ok = doc.Score.Int()
	assert.True(t, ok)
	assert.Equal(t, 62, n)

	assert.Error(t, json.Unmarshal([]byte(`{"quality_score":{"n":62}}`), &doc))
}

func TestHasCriticalFindings(t *testing.T) {
	assert.False(t, FactValidation{}.HasCriticalFindings())
	assert.False(t, FactValidation{
		FlaggedHallucinations: []Hallucination{{Claim: "x", Severity: "minor"}},
	}.HasCriticalFindings())

	assert.True(t, FactValidation{IssuesCritical: 1}.HasCriticalFindings())
	assert.True(t, FactValidation{
		FlaggedHallucinations: []Hallucination{
			{Claim: "x", Severity: "minor"},
			{Claim: "y", Severity: "Critical"},
		},
	}.HasCriticalFindings())
}
