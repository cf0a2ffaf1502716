package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "formatting before metrics",
			text: "The formatting is poor and achievements are not quantifiable.",
			want: []string{TipFormatting, TipMetrics},
		},
		{
			name: "every topic in check order",
			text: "layout. metric. keyword. passive. technology. work history. degree. verbose.",
			want: []string{TipFormatting, TipMetrics, TipKeywords, TipVerbs, TipSkills, TipExperience, TipEducation, TipConcise},
		},
		{
			name: "case insensitive",
			text: "EDUCATION",
			want: []string{TipEducation},
		},
		{
			name: "no topic",
			text: "Hello there.",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractTips(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTipsOrDefault(t *testing.T) {
	tips, personalized := TipsOrDefault("Hello there.")
	assert.False(t, personalized)
	assert.Equal(t, DefaultTips(), tips)
	assert.Len(t, tips, 6)

	tips, personalized = TipsOrDefault("Too long for one page.")
	assert.True(t, personalized)
	assert.Equal(t, []string{TipConcise}, tips)
}
