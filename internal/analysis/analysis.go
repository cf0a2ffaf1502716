// Package analysis describes the free-text ATS analysis produced by an
// external analysis service and the providers able to produce it.
package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/ats-advisor/internal/insights"
)

var ErrEmptyAnalysis = errors.New("analysis service returned no analysis text")

// Analysis is the blob returned by an analysis service.
// The JSON layout matches the "analysis" object of the resume-analyze backend.
type Analysis struct {
	FullText      string   `json:"full_text"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	ScoreDetails  []string `json:"ats_score_details"`
}

// Request carries what an analyzer needs to score a resume against a job.
type Request struct {
	// ResumePDF is forwarded untouched; parsing it is the service's business.
	ResumePDF      []byte
	ResumeName     string
	JobDescription string
}

// Analyzer produces an Analysis for a resume and a job description.
type Analyzer interface {
	Analyze(ctx context.Context, req *Request) (*Analysis, error)
	// Describe returns the provider and model used, for logs and reports.
	Describe() (provider, model string)
}

// Validate checks the request has both inputs.
func (r *Request) Validate() error {
	if r == nil {
		return errors.New("analysis request is required")
	}
	if len(r.ResumePDF) == 0 {
		return errors.New("resume pdf is required")
	}
	if strings.TrimSpace(r.JobDescription) == "" {
		return errors.New("job description is required")
	}
	return nil
}

// Input converts the analysis into extractor input.
func (a *Analysis) Input() insights.Input {
	return insights.Input{
		FullText:      a.FullText,
		ScoreDetails:  a.ScoreDetails,
		MatchedSkills: a.MatchedSkills,
		MissingSkills: a.MissingSkills,
	}
}

// Normalize replaces nil lists with empty ones so the analysis serializes the same way every time.
func (a *Analysis) Normalize() *Analysis {
	if a.MatchedSkills == nil {
		a.MatchedSkills = []string{}
	}
	if a.MissingSkills == nil {
		a.MissingSkills = []string{}
	}
	if a.ScoreDetails == nil {
		a.ScoreDetails = []string{}
	}
	return a
}
