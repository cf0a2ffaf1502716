package insights

import (
	"fmt"
	"regexp"
)

const (
	InsightCompetitiveMarket = "The job market for this position is currently highly competitive."
	InsightATSRejection      = "Applicant Tracking Systems (ATS) reject approximately 75% of resumes before a human sees them."

	topBandScore    = 85
	strongBandScore = 70
	improvementGain = 30
)

var marketPattern = regexp.MustCompile(`(?i)competitive|market|demand|industry trend`)

var defaultInsights = []string{
	"Recruiters spend an average of 7.4 seconds reviewing a resume on initial screening.",
	"76% of resumes are rejected due to unprofessional email addresses.",
	"Applicant Tracking Systems (ATS) reject 75% of resumes before a human sees them.",
	"Using artificial intelligence to analyze your resume can significantly improve your chances of getting interviews.",
}

// DefaultInsights returns the generic insights shown before any analysis is available.
func DefaultInsights() []string {
	return append([]string(nil), defaultInsights...)
}

// ExtractInsights builds the industry insights for an analysis. score may be nil
// when no score is known; the ATS rejection insight is always the last entry.
func ExtractInsights(fullText string, score *int, matchedCount, missingCount int) []string {
	insights := make([]string, 0, 5)

	if score != nil {
		insights = append(insights, scoreInsight(*score))
	}

	if missingCount > 0 {
		insights = append(insights, fmt.Sprintf("%d key skills were identified as missing from your resume for this job.", missingCount))
	}

	if matchedCount > 0 {
		insights = append(insights, fmt.Sprintf("Your resume matches %d skills required for this position.", matchedCount))
	}

	if marketPattern.MatchString(fullText) {
		insights = append(insights, InsightCompetitiveMarket)
	}

	return append(insights, InsightATSRejection)
}

func scoreInsight(score int) string {
	switch {
	case score >= topBandScore:
		return fmt.Sprintf("Your resume scores in the top %d%% of applicants for similar positions.", 100-score)
	case score >= strongBandScore:
		return fmt.Sprintf("Your resume is stronger than approximately %d%% of applicants for similar positions.", score)
	default:
		return fmt.Sprintf("Improving your resume could increase your chances by up to %d%%.", min(maxScore, score+improvementGain))
	}
}
