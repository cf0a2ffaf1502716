package headhunter

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestReportByEmployerIncludesATSResults(t *testing.T) {
	vacancies := &Vacancies{
		Items: []*Vacancy{
			{
				ID:           "1",
				Name:         "Go Developer",
				Employer:     Employer{ID: "emp1", Name: "Acme"},
				AlternateURL: "https://example.com",
				Area:         Area{Name: "Moscow"},
				Snippet: Snippet{
					Requirement:    "Strong <highlighttext>Go</highlighttext> skills",
					Responsibility: "Build services",
				},
				ATS: &ATSAssessment{
					Score:         82,
					ScoreFound:    true,
					MatchedSkills: 5,
					MissingSkills: []string{"Kafka"},
					ReportID:      "r-1",
				},
			},
		},
	}

	report := vacancies.ReportByEmployer()

	entries, ok := report["Acme (emp1)"]
	if !ok {
		t.Fatalf("expected employer key in report")
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry["ats_score"] != "82%" {
		t.Fatalf("expected ats_score 82%%, got %q", entry["ats_score"])
	}
	if entry["ats_score_found"] != "true" {
		t.Fatalf("unexpected ats_score_found: %q", entry["ats_score_found"])
	}
	if entry["ats_missing_skills"] != "1" {
		t.Fatalf("unexpected ats_missing_skills: %q", entry["ats_missing_skills"])
	}
	if entry["ats_report_id"] != "r-1" {
		t.Fatalf("unexpected ats_report_id: %q", entry["ats_report_id"])
	}
	if entry["brief requirement"] != "Strong Go skills" {
		t.Fatalf("expected highlight markup stripped, got %q", entry["brief requirement"])
	}
}

func TestReportByEmployerIncludesATSError(t *testing.T) {
	vacancies := &Vacancies{
		Items: []*Vacancy{
			{
				ID:       "2",
				Name:     "Python Developer",
				Employer: Employer{ID: "emp2", Name: "Globex"},
				ATS:      &ATSAssessment{Error: "quota exceeded"},
			},
		},
	}

	entries := vacancies.ReportByEmployer()["Globex (emp2)"]
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry["ats_error"] != "quota exceeded" {
		t.Fatalf("unexpected ats_error: %q", entry["ats_error"])
	}
	if _, ok := entry["ats_score"]; ok {
		t.Fatalf("did not expect ats_score for error case")
	}
}

func TestExcludeKeepsOrder(t *testing.T) {
	vacancies := &Vacancies{Items: []*Vacancy{
		{ID: "1", Employer: Employer{ID: "a"}},
		{ID: "2", Employer: Employer{ID: "b"}},
		{ID: "3", Employer: Employer{ID: "a"}},
		{ID: "4", Employer: Employer{ID: "c"}},
	}}

	excluded := vacancies.Exclude(VacancyEmployerIDField, []string{"a"})
	if !reflect.DeepEqual(excluded, []string{"1", "3"}) {
		t.Fatalf("unexpected excluded ids: %v", excluded)
	}
	if got := ids(vacancies); !reflect.DeepEqual(got, []string{"2", "4"}) {
		t.Fatalf("unexpected remaining ids: %v", got)
	}

	if excluded := vacancies.Exclude(VacancyIDField, nil); excluded != nil {
		t.Fatalf("expected nothing excluded, got %v", excluded)
	}
}

func TestExcludeWithTestRemovesAll(t *testing.T) {
	vacancies := &Vacancies{Items: []*Vacancy{
		{ID: "1", HasTest: true},
		{ID: "2"},
		{ID: "3", HasTest: true},
	}}

	excluded := vacancies.ExcludeWithTest()
	if !reflect.DeepEqual(excluded, []string{"1", "3"}) {
		t.Fatalf("unexpected excluded ids: %v", excluded)
	}
	if vacancies.Len() != 1 || vacancies.Items[0].ID != "2" {
		t.Fatalf("unexpected remaining vacancies: %v", ids(vacancies))
	}
}

func TestExcludeFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")

	missing, err := GetExcludedVacanciesFromFile(path)
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if len(missing.Items) != 0 {
		t.Fatalf("expected empty list for missing file")
	}

	vacancies := &Vacancies{Items: []*Vacancy{
		{ID: "10", AlternateURL: "https://hh.ru/vacancy/10", Employer: Employer{Name: "Acme"}, ATS: &ATSAssessment{Score: 40}},
		{ID: "11", ATS: &ATSAssessment{Error: "boom"}},
	}}

	missing.Append(vacancies.ToExcluded())
	if err := missing.ToFile(path); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	loaded, err := GetExcludedVacanciesFromFile(path)
	if err != nil {
		t.Fatalf("read exclude file: %v", err)
	}
	if !reflect.DeepEqual(loaded.VacanciesIDs(), []string{"10", "11"}) {
		t.Fatalf("unexpected ids: %v", loaded.VacanciesIDs())
	}
	if loaded.Items[0].Score == nil || *loaded.Items[0].Score != 40 {
		t.Fatalf("expected score to be stored for analyzed vacancy")
	}
	if loaded.Items[1].Score != nil {
		t.Fatalf("expected no score for failed analysis")
	}

	// Shorter content must replace the file, not overwrite its prefix.
	if err := (&ExcludedVacancies{}).ToFile(path); err != nil {
		t.Fatalf("rewrite exclude file: %v", err)
	}
	if _, err := GetExcludedVacanciesFromFile(path); err != nil {
		t.Fatalf("expected truncated file to stay valid: %v", err)
	}
}

func ids(v *Vacancies) []string {
	out := make([]string, 0, v.Len())
	for _, item := range v.Items {
		out = append(out, item.ID)
	}
	return out
}
