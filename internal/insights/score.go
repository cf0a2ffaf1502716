package insights

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultScore is shown when the analysis carries no percentage at all.
	DefaultScore = 75

	totalScoreMarker = "TOTAL ATS SCORE"
	maxScore         = 100
)

var percentPattern = regexp.MustCompile(`(\d+)%`)

// ExtractScore returns the ATS score found in the score detail lines.
// The "TOTAL ATS SCORE" line wins when it carries a percentage, otherwise the
// first percentage of any line is used. ok is false when no line has one.
func ExtractScore(lines []string) (score int, ok bool) {
	for _, line := range lines {
		if !strings.Contains(strings.ToUpper(line), totalScoreMarker) {
			continue
		}
		if score, ok := percentOf(line); ok {
			return score, true
		}
		// only the first total line counts
		break
	}

	for _, line := range lines {
		if score, ok := percentOf(line); ok {
			return score, true
		}
	}

	return 0, false
}

// ScoreOrDefault is ExtractScore with DefaultScore substituted when nothing was found.
func ScoreOrDefault(lines []string) (score int, found bool) {
	score, found = ExtractScore(lines)
	if !found {
		return DefaultScore, false
	}
	return score, true
}

func percentOf(line string) (int, bool) {
	match := percentPattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}

	value, err := strconv.Atoi(match[1])
	if err != nil || value > maxScore {
		// only overflow can fail here: the group is digits only
		return maxScore, true
	}

	return value, true
}
