// Package insights turns the free-text output of an ATS analysis service into
// a score, improvement suggestions, resume tips and industry insights.
//
// Every function here is a best-effort scraper over text nobody promised to
// structure: none of them fail, they fall back to fixed tables instead.
package insights

// Input is one analysis as returned by the analysis service.
type Input struct {
	FullText      string
	ScoreDetails  []string
	MatchedSkills []string
	MissingSkills []string
}

// Result holds everything derived from an analysis.
type Result struct {
	Score int `json:"score"`
	// ScoreFound is false when Score is DefaultScore because the analysis had none.
	ScoreFound  bool         `json:"score_found"`
	Suggestions []Suggestion `json:"suggestions"`
	Tips        []string     `json:"tips"`
	// TipsPersonalized is false when Tips are DefaultTips.
	TipsPersonalized bool     `json:"tips_personalized"`
	Insights         []string `json:"insights"`
}

// Extract runs all extractors over the analysis, substituting the default
// score and the default tips where nothing could be derived.
func Extract(in Input) *Result {
	score, found := ScoreOrDefault(in.ScoreDetails)
	tips, personalized := TipsOrDefault(in.FullText)

	return &Result{
		Score:            score,
		ScoreFound:       found,
		Suggestions:      ExtractSuggestions(in.FullText),
		Tips:             tips,
		TipsPersonalized: personalized,
		Insights:         ExtractInsights(in.FullText, &score, len(in.MatchedSkills), len(in.MissingSkills)),
	}
}
