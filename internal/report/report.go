// Package report assembles extraction results into reports and renders them.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/spigell/ats-advisor/internal/analysis"
	"github.com/spigell/ats-advisor/internal/insights"
)

var (
	newID = uuid.NewString
	now   = time.Now
)

// Source describes where an analysis came from.
type Source struct {
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	Resume      string `json:"resume,omitempty"`
	VacancyID   string `json:"vacancy_id,omitempty"`
	VacancyName string `json:"vacancy_name,omitempty"`
	VacancyURL  string `json:"vacancy_url,omitempty"`
}

type Report struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    Source    `json:"source"`
	// Analyzed is false when the report holds only the generic defaults.
	Analyzed bool   `json:"analyzed"`
	Error    string `json:"error,omitempty"`

	insights.Result

	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	ScoreDetails  []string `json:"ats_score_details"`
	FullText      string   `json:"full_text,omitempty"`
}

// New runs the extractors over a and wraps the result.
func New(a *analysis.Analysis, src Source) *Report {
	a.Normalize()

	return &Report{
		ID:            newID(),
		CreatedAt:     now().UTC(),
		Source:        src,
		Analyzed:      true,
		Result:        *insights.Extract(a.Input()),
		MatchedSkills: a.MatchedSkills,
		MissingSkills: a.MissingSkills,
		ScoreDetails:  a.ScoreDetails,
		FullText:      a.FullText,
	}
}

// Unavailable builds a report for a failed analysis. It carries the generic
// suggestions, tips and insights and no score.
func Unavailable(src Source, cause error) *Report {
	r := &Report{
		ID:        newID(),
		CreatedAt: now().UTC(),
		Source:    src,
		Result: insights.Result{
			Suggestions: insights.DefaultSuggestions(),
			Tips:        insights.DefaultTips(),
			Insights:    insights.DefaultInsights(),
		},
		MatchedSkills: []string{},
		MissingSkills: []string{},
		ScoreDetails:  []string{},
	}
	if cause != nil {
		r.Error = cause.Error()
	}
	return r
}
