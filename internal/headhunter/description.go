package headhunter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockTags = map[string]bool{
	"p": true, "div": true, "ul": true, "ol": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true,
}

// HTMLToText renders hh.ru description markup as plain text: list items
// become "- " lines, block elements and <br> become line breaks.
func HTMLToText(raw string) string {
	if !strings.Contains(raw, "<") {
		return cleanWhitespace(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return cleanWhitespace(raw)
	}

	doc.Find("script, style").Remove()

	var sb strings.Builder
	writeText(&sb, doc.Find("body"))
	return cleanWhitespace(sb.String())
}

func writeText(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		switch name := goquery.NodeName(s); {
		case name == "#text":
			sb.WriteString(strings.ReplaceAll(s.Text(), "\n", " "))
		case name == "br":
			sb.WriteString("\n")
		case name == "li":
			sb.WriteString("\n- ")
			writeText(sb, s)
			sb.WriteString("\n")
		case blockTags[name]:
			sb.WriteString("\n")
			writeText(sb, s)
			sb.WriteString("\n")
		default:
			writeText(sb, s)
		}
	})
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" && line != "-" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// PlainDescription returns the vacancy description without markup.
func (va *Vacancy) PlainDescription() string {
	return HTMLToText(va.Description)
}

// JobDescription assembles the text sent to the analysis service. Search
// results carry no description, so the snippet is used until details are fetched.
func (va *Vacancy) JobDescription() string {
	var sb strings.Builder

	sb.WriteString(va.Name)
	if va.Employer.Name != "" {
		sb.WriteString("\nEmployer: ")
		sb.WriteString(va.Employer.Name)
	}
	if va.Experience.Name != "" {
		sb.WriteString("\nExperience: ")
		sb.WriteString(va.Experience.Name)
	}
	if len(va.KeySkills) > 0 {
		skills := make([]string, 0, len(va.KeySkills))
		for _, skill := range va.KeySkills {
			skills = append(skills, skill.Name)
		}
		sb.WriteString("\nKey skills: ")
		sb.WriteString(strings.Join(skills, ", "))
	}

	description := va.PlainDescription()
	if description == "" {
		description = strings.TrimSpace(HTMLToText(va.Snippet.Requirement) + "\n" + HTMLToText(va.Snippet.Responsibility))
	}
	if description != "" {
		sb.WriteString("\n\n")
		sb.WriteString(description)
	}

	return strings.TrimSpace(sb.String())
}
