package analysis

import (
	"strings"
)

const (
	MatchedSkillsStart = "---Matched Skills Start---"
	MatchedSkillsEnd   = "---Matched Skills End---"
	MissingSkillsStart = "---Missing Skills Start---"
	MissingSkillsEnd   = "---Missing Skills End---"
	ATSScoreStart      = "---ATS Score Start---"
	ATSScoreEnd        = "---ATS Score End---"
)

// FromText builds an Analysis from the raw text of a model that was asked to
// wrap its skill lists and score breakdown in the section delimiters.
func FromText(text string) *Analysis {
	return (&Analysis{
		FullText:      text,
		MatchedSkills: ParseSection(text, MatchedSkillsStart, MatchedSkillsEnd),
		MissingSkills: ParseSection(text, MissingSkillsStart, MissingSkillsEnd),
		ScoreDetails:  ParseSection(text, ATSScoreStart, ATSScoreEnd),
	}).Normalize()
}

// ParseSection returns the non-empty lines between start and end with list
// markers stripped. Sub-headers (lines ending in a colon) are dropped. A
// missing delimiter yields an empty list.
func ParseSection(text, start, end string) []string {
	lines := []string{}

	from := strings.Index(text, start)
	if from == -1 {
		return lines
	}
	from += len(start)

	to := strings.Index(text[from:], end)
	if to == -1 {
		return lines
	}

	for _, line := range strings.Split(text[from:from+to], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "-* ")
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		lines = append(lines, line)
	}

	return lines
}
