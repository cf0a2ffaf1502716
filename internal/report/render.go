package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/ats-advisor/internal/insights"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const (
	markSuccess = "✓"
	markWarning = "!"
	markTip     = "→"
	separator   = "────────────────────────────────────────"
)

type Options struct {
	Format Format
	// FullText includes the raw analysis in text output. JSON always carries it.
	FullText bool
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text or json)", s)
	}
}

// Render writes one report. JSON output is a single object.
func Render(w io.Writer, r *Report, opts Options) error {
	if opts.Format == FormatJSON {
		return encodeJSON(w, r)
	}
	_, err := io.WriteString(w, Text(r, opts.FullText))
	return err
}

// RenderAll writes reports one after another. JSON output is always an array,
// whatever the number of reports.
func RenderAll(w io.Writer, reports []*Report, opts Options) error {
	if opts.Format == FormatJSON {
		if reports == nil {
			reports = []*Report{}
		}
		return encodeJSON(w, reports)
	}

	for i, r := range reports {
		if i > 0 {
			if _, err := fmt.Fprintf(w, "\n%s\n\n", separator); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, Text(r, opts.FullText)); err != nil {
			return err
		}
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Text renders a report for the terminal.
func Text(r *Report, fullText bool) string {
	var sb strings.Builder

	writeHeader(&sb, r)

	if !r.Analyzed {
		sb.WriteString("\nAnalysis unavailable")
		if r.Error != "" {
			sb.WriteString(": ")
			sb.WriteString(r.Error)
		}
		sb.WriteString("\n")
	} else {
		fmt.Fprintf(&sb, "\nResume Score: %d%%\n", r.Score)
		if !r.ScoreFound {
			fmt.Fprintf(&sb, "  (no score found in analysis, showing the default of %d%%)\n", insights.DefaultScore)
		}

		sb.WriteString("\nMatched Skills\n")
		writeList(&sb, markSuccess, r.MatchedSkills, "No matched skills found in analysis.")

		sb.WriteString("\nMissing Skills\n")
		writeList(&sb, markWarning, r.MissingSkills, "No missing skills identified.")
	}

	sb.WriteString("\nImprovement Suggestions\n")
	if len(r.Suggestions) == 0 {
		sb.WriteString("  No specific suggestions provided in analysis.\n")
	}
	for _, s := range r.Suggestions {
		mark := markWarning
		if s.Kind == insights.KindSuccess {
			mark = markSuccess
		}
		fmt.Fprintf(&sb, "  %s %s\n", mark, s.Text)
	}

	sb.WriteString("\nResume Tips\n")
	writeList(&sb, markTip, r.Tips, "")
	if r.TipsPersonalized {
		sb.WriteString("  (tips based on your resume analysis)\n")
	}

	sb.WriteString("\nIndustry Insights\n")
	for _, insight := range r.Insights {
		fmt.Fprintf(&sb, "  %s\n", insight)
	}

	if fullText && strings.TrimSpace(r.FullText) != "" {
		sb.WriteString("\nFull Analysis\n")
		sb.WriteString(strings.TrimSpace(r.FullText))
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeHeader(sb *strings.Builder, r *Report) {
	fmt.Fprintf(sb, "Report %s", r.ID)
	if r.Source.Provider != "" {
		fmt.Fprintf(sb, " (%s", r.Source.Provider)
		if r.Source.Model != "" {
			fmt.Fprintf(sb, ", %s", r.Source.Model)
		}
		sb.WriteString(")")
	}
	sb.WriteString("\n")

	if r.Source.VacancyID != "" || r.Source.VacancyName != "" {
		vacancy := strings.Join(strings.Fields(r.Source.VacancyID+" "+r.Source.VacancyName+" "+r.Source.VacancyURL), " ")
		fmt.Fprintf(sb, "Vacancy: %s\n", vacancy)
	}
	if r.Source.Resume != "" {
		fmt.Fprintf(sb, "Resume: %s\n", r.Source.Resume)
	}
}

func writeList(sb *strings.Builder, mark string, items []string, empty string) {
	if len(items) == 0 && empty != "" {
		fmt.Fprintf(sb, "  %s\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(sb, "  %s %s\n", mark, item)
	}
}
