package headhunter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"time"
)

const (
	VacancyIDField         = "ID"
	VacancyEmployerIDField = "EmployerID"
)

type Vacancies struct {
	Items []*Vacancy
}

type Named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Area struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Salary struct {
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
	Gross    bool   `json:"gross,omitempty"`
}

type Employer struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	URL          string `json:"url,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	VacanciesURL string `json:"vacancies_url,omitempty"`
	Trusted      bool   `json:"trusted,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

type KeySkill struct {
	Name string `json:"name,omitempty"`
}

type Vacancy struct {
	ID                string     `json:"id,omitempty"`
	Name              string     `json:"name,omitempty"`
	Area              Area       `json:"area,omitempty"`
	HasTest           bool       `json:"has_test,omitempty"`
	Salary            Salary     `json:"salary,omitempty"`
	Experience        Named      `json:"experience,omitempty"`
	Schedule          Named      `json:"schedule,omitempty"`
	Employer          Employer   `json:"employer,omitempty"`
	CreatedAt         string     `json:"created_at,omitempty"`
	AlternateURL      string     `json:"alternate_url,omitempty"`
	Employment        Named      `json:"employment,omitempty"`
	Description       string     `json:"description,omitempty"`
	KeySkills         []KeySkill `json:"key_skills,omitempty"`
	Archived          bool       `json:"archived,omitempty"`
	Snippet           Snippet    `json:"snippet,omitempty"`
	ProfessionalRoles []Named    `json:"professional_roles,omitempty"`
	PublishedAt       string     `json:"published_at,omitempty"`

	ATS *ATSAssessment `json:"ats,omitempty"`
}

// ATSAssessment is the outcome of analyzing a resume against the vacancy.
type ATSAssessment struct {
	Score         int      `json:"score"`
	ScoreFound    bool     `json:"score_found"`
	MatchedSkills int      `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills,omitempty"`
	ReportID      string   `json:"report_id,omitempty"`
	Error         string   `json:"error,omitempty"`
}

type ExcludedVacancies struct {
	Items []*ExcludedVacancy
}

type ExcludedVacancy struct {
	ID           string
	URL          string
	EmployerName string
	Score        *int `json:",omitempty"`
	ExcludedAt   time.Time
}

func (v *Vacancies) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "vacancies_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (v *Vacancies) ToExcluded() *ExcludedVacancies {
	excluded := &ExcludedVacancies{}
	for _, vacancy := range v.Items {
		item := &ExcludedVacancy{
			ID:           vacancy.ID,
			URL:          vacancy.AlternateURL,
			EmployerName: vacancy.Employer.Name,
			ExcludedAt:   time.Now().UTC(),
		}
		if vacancy.ATS != nil && vacancy.ATS.Error == "" {
			score := vacancy.ATS.Score
			item.Score = &score
		}
		excluded.Items = append(excluded.Items, item)
	}
	return excluded
}

// GetExcludedVacanciesFromFile reads the exclude file. A missing or empty file yields an empty list.
func GetExcludedVacanciesFromFile(path string) (*ExcludedVacancies, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedVacancies{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedVacancies{}, nil
	}

	var excluded ExcludedVacancies
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, fmt.Errorf("decode exclude file %s: %w", path, err)
	}
	return &excluded, nil
}

func (v *ExcludedVacancies) Append(s *ExcludedVacancies) {
	v.Items = append(v.Items, s.Items...)
}

func (v *ExcludedVacancies) VacanciesIDs() []string {
	ids := make([]string, 0, len(v.Items))
	for _, vacancy := range v.Items {
		ids = append(ids, vacancy.ID)
	}
	return ids
}

func (v *ExcludedVacancies) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (va *Vacancy) GetStringField(name string) string {
	switch name {
	case VacancyIDField:
		return va.ID
	case VacancyEmployerIDField:
		return va.Employer.ID

	default:
		return ""
	}
}

// ReportByEmployer groups vacancies by employer with their ATS results.
func (v *Vacancies) ReportByEmployer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, vacancy := range v.Items {
		key := fmt.Sprintf("%s (%s)", vacancy.Employer.Name, vacancy.Employer.ID)
		entry := map[string]string{
			"name":                 vacancy.Name,
			"url":                  vacancy.AlternateURL,
			"area":                 vacancy.Area.Name,
			"salary":               fmt.Sprintf("%d-%d %s", vacancy.Salary.From, vacancy.Salary.To, vacancy.Salary.Currency),
			"brief requirement":    HTMLToText(vacancy.Snippet.Requirement),
			"brief responsibility": HTMLToText(vacancy.Snippet.Responsibility),
		}

		if ats := vacancy.ATS; ats != nil {
			if ats.Error != "" {
				entry["ats_error"] = ats.Error
			} else {
				entry["ats_score"] = fmt.Sprintf("%d%%", ats.Score)
				entry["ats_score_found"] = strconv.FormatBool(ats.ScoreFound)
				entry["ats_missing_skills"] = strconv.Itoa(len(ats.MissingSkills))
				if ats.ReportID != "" {
					entry["ats_report_id"] = ats.ReportID
				}
			}
		}

		report[key] = append(report[key], entry)
	}
	return report
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

// ExcludeWithTest removes every vacancy that requires a test and returns the removed ids.
func (v *Vacancies) ExcludeWithTest() []string {
	var excluded []string
	v.Items = slices.DeleteFunc(v.Items, func(vacancy *Vacancy) bool {
		if vacancy.HasTest {
			excluded = append(excluded, vacancy.ID)
			return true
		}
		return false
	})
	return excluded
}

// Exclude removes vacancies whose field matches any of targets. Order is preserved.
func (v *Vacancies) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}

	var excluded []string
	v.Items = slices.DeleteFunc(v.Items, func(vacancy *Vacancy) bool {
		if _, ok := set[vacancy.GetStringField(name)]; ok {
			excluded = append(excluded, vacancy.ID)
			return true
		}
		return false
	})
	return excluded
}
