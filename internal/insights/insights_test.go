package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestExtractInsightsScoreBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  string
	}{
		{score: 90, want: "Your resume scores in the top 10% of applicants for similar positions."},
		{score: 85, want: "Your resume scores in the top 15% of applicants for similar positions."},
		{score: 75, want: "Your resume is stronger than approximately 75% of applicants for similar positions."},
		{score: 70, want: "Your resume is stronger than approximately 70% of applicants for similar positions."},
		{score: 60, want: "Improving your resume could increase your chances by up to 90%."},
		{score: 0, want: "Improving your resume could increase your chances by up to 30%."},
	}

	for _, tt := range tests {
		got := ExtractInsights("", intPtr(tt.score), 0, 0)
		require.Len(t, got, 2, "score %d", tt.score)
		assert.Equal(t, tt.want, got[0])
		assert.Equal(t, InsightATSRejection, got[1])
	}
}

func TestExtractInsightsOrder(t *testing.T) {
	got := ExtractInsights("The market is tight.", intPtr(72), 5, 3)

	assert.Equal(t, []string{
		"Your resume is stronger than approximately 72% of applicants for similar positions.",
		"3 key skills were identified as missing from your resume for this job.",
		"Your resume matches 5 skills required for this position.",
		InsightCompetitiveMarket,
		InsightATSRejection,
	}, got)
}

func TestExtractInsightsWithoutScore(t *testing.T) {
	got := ExtractInsights("High DEMAND for Go engineers", nil, 0, 0)
	assert.Equal(t, []string{InsightCompetitiveMarket, InsightATSRejection}, got)

	got = ExtractInsights("", nil, 0, 0)
	assert.Equal(t, []string{InsightATSRejection}, got)
}

func TestDefaultInsights(t *testing.T) {
	defaults := DefaultInsights()
	require.Len(t, defaults, 4)
	defaults[0] = "changed"
	assert.NotEqual(t, "changed", DefaultInsights()[0])
}
