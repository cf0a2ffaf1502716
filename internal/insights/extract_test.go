package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAnalysis = `1. SKILLS ANALYSIS
Python and Docker were found in the resume.

2. ATS SCORE CALCULATION
TOTAL ATS SCORE: 88%

6. IMPROVEMENT SUGGESTIONS
- Add Kubernetes to the skills section
- Quantify the impact of the migration project

The market for platform engineers is competitive.`

func TestExtract(t *testing.T) {
	in := Input{
		FullText:      sampleAnalysis,
		ScoreDetails:  []string{"Keyword Matching (40%): 90%", "TOTAL ATS SCORE: 88%"},
		MatchedSkills: []string{"Python", "Docker"},
		MissingSkills: []string{"Kubernetes"},
	}

	result := Extract(in)
	require.NotNil(t, result)

	assert.Equal(t, 88, result.Score)
	assert.True(t, result.ScoreFound)
	assert.Equal(t, warnings(
		"Add Kubernetes to the skills section",
		"Quantify the impact of the migration project",
	), result.Suggestions)
	assert.True(t, result.TipsPersonalized)
	assert.Contains(t, result.Tips, TipSkills)
	assert.Equal(t, []string{
		"Your resume scores in the top 12% of applicants for similar positions.",
		"1 key skills were identified as missing from your resume for this job.",
		"Your resume matches 2 skills required for this position.",
		InsightCompetitiveMarket,
		InsightATSRejection,
	}, result.Insights)
}

func TestExtractAppliesDefaults(t *testing.T) {
	result := Extract(Input{FullText: "Hello there."})

	assert.Equal(t, DefaultScore, result.Score)
	assert.False(t, result.ScoreFound)
	assert.Equal(t, DefaultSuggestions(), result.Suggestions)
	assert.Equal(t, DefaultTips(), result.Tips)
	assert.False(t, result.TipsPersonalized)
	assert.Equal(t, []string{
		"Your resume is stronger than approximately 75% of applicants for similar positions.",
		InsightATSRejection,
	}, result.Insights)
}

func TestExtractIsIdempotent(t *testing.T) {
	in := Input{
		FullText:      sampleAnalysis,
		ScoreDetails:  []string{"TOTAL ATS SCORE: 88%"},
		MatchedSkills: []string{"Python"},
	}

	assert.Equal(t, Extract(in), Extract(in))
}
