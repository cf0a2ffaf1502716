package insights

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind tells how a suggestion should be presented.
type Kind string

const (
	KindWarning Kind = "warning"
	KindSuccess Kind = "success"
)

// Suggestion is a single improvement hint scraped from the analysis.
type Suggestion struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

const (
	minSectionLength   = 20
	minItemLength      = 5
	minSentenceLength  = 15
	maxGlobalFallbacks = 3
)

// space matches what \s matches in JavaScript: ASCII whitespace plus the
// Unicode space separators such as NBSP.
const space = `[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

var (
	headerSectionPattern  = regexp.MustCompile(`(?i)(?:IMPROVEMENT SUGGESTIONS|SUGGESTIONS)[\s\S]*?(?:\n\n|$)`)
	suggestiveSpanPattern = regexp.MustCompile(`(?i)(?:to improve|could improve|should|candidate could|candidate should)[^.]*(?:[.:])[\s\S]*?(?:\n\n|$)`)
	listBlockPattern      = regexp.MustCompile(`(?:[-•*\d]+[.)]*` + space + `+[^\n]+\n)+`)

	listItemPattern    = regexp.MustCompile(`[-•*\d]+[.)]*` + space + `+[^\n]+`)
	listMarkerPattern  = regexp.MustCompile(`^[-•*\d]+[.)]*` + space + `+`)
	sentenceBoundary   = regexp.MustCompile(`[.!?]` + space + `+`)
	actionWordsPattern = regexp.MustCompile(`(?i)(?:should|could|add|include|highlight|emphasize|focus|improve|update|remove|consider)`)
)

var defaultSuggestions = []Suggestion{
	{Kind: KindWarning, Text: "Add specific experience with PostgreSQL, Express, React, and Node.js to your resume."},
	{Kind: KindWarning, Text: "Include projects that demonstrate your full-stack development skills."},
	{Kind: KindWarning, Text: "Highlight any experience with modern JavaScript frameworks and libraries."},
}

// DefaultSuggestions returns the generic suggestions used when nothing could be scraped.
func DefaultSuggestions() []Suggestion {
	return append([]Suggestion(nil), defaultSuggestions...)
}

// ExtractSuggestions scrapes improvement suggestions out of the analysis text.
// The result is never empty.
func ExtractSuggestions(fullText string) []Suggestion {
	suggestions := suggestionsFromSection(suggestionSection(fullText))

	if len(suggestions) == 0 {
		suggestions = suggestiveSentences(fullText)
	}

	if len(suggestions) == 0 {
		return DefaultSuggestions()
	}

	return suggestions
}

// suggestionSection picks the part of the text most likely to hold advice.
// Strategies run in order; a later one is tried only while the candidate is too short.
func suggestionSection(text string) string {
	section := headerSectionPattern.FindString(text)

	if utf8.RuneCountInString(section) < minSectionLength {
		if spans := suggestiveSpanPattern.FindAllString(text, -1); len(spans) > 0 {
			section = longest(spans)
		}
	}

	if utf8.RuneCountInString(section) < minSectionLength {
		if blocks := listBlockPattern.FindAllString(text, -1); len(blocks) > 0 {
			section = longest(blocks)
		}
	}

	return section
}

func suggestionsFromSection(section string) []Suggestion {
	if section == "" {
		return nil
	}

	var suggestions []Suggestion

	if items := listItemPattern.FindAllString(section, -1); len(items) > 0 {
		for _, item := range items {
			text := strings.TrimSpace(listMarkerPattern.ReplaceAllString(item, ""))
			if utf8.RuneCountInString(text) <= minItemLength {
				continue
			}
			suggestions = append(suggestions, Suggestion{Kind: KindWarning, Text: text})
		}
		return suggestions
	}

	for _, sentence := range sentenceBoundary.Split(section, -1) {
		text := strings.TrimSpace(sentence)
		if utf8.RuneCountInString(text) <= minSentenceLength {
			continue
		}
		suggestions = append(suggestions, Suggestion{Kind: KindWarning, Text: text})
	}

	return suggestions
}

// suggestiveSentences is the last scraping attempt over the whole text.
func suggestiveSentences(text string) []Suggestion {
	var suggestions []Suggestion

	for _, sentence := range sentenceBoundary.Split(text, -1) {
		clean := strings.TrimSpace(sentence)
		if utf8.RuneCountInString(clean) <= minSentenceLength || !actionWordsPattern.MatchString(clean) {
			continue
		}

		suggestions = append(suggestions, Suggestion{Kind: KindWarning, Text: clean})
		if len(suggestions) == maxGlobalFallbacks {
			break
		}
	}

	return suggestions
}

// longest returns the first of the longest candidates.
func longest(candidates []string) string {
	var best string
	bestLen := 0
	for _, candidate := range candidates {
		if n := utf8.RuneCountInString(candidate); n > bestLen {
			best, bestLen = candidate, n
		}
	}
	return best
}
