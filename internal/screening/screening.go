// Package screening runs a sequence of steps over hh.ru vacancies, ending
// with an ATS analysis of each remaining vacancy against one resume.
package screening

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/ats-advisor/internal/analysis"
	"github.com/spigell/ats-advisor/internal/headhunter"
	"github.com/spigell/ats-advisor/internal/report"
)

// Filter represents a single screening step applied to vacancies.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, v *headhunter.Vacancies) (*headhunter.Vacancies, Step, error)
}

// VacancyFetcher loads full vacancy details.
type VacancyFetcher interface {
	GetVacancy(ctx context.Context, id string) (*headhunter.Vacancy, error)
}

// Deps aggregates dependencies shared across all steps.
type Deps struct {
	HH       VacancyFetcher
	Logger   *zap.Logger
	Resume   *Resume
	Analyzer analysis.Analyzer
}

// Resume is the PDF every vacancy is analyzed against.
type Resume struct {
	Name string
	PDF  []byte
}

// Step describes the result of executing a step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the steps.
type Config struct {
	Employers   []string
	ExcludeFile string
	ATS         *ATSConfig
}

type ATSConfig struct {
	MinimumScore int
	Concurrency  int
	// AppendRejected records vacancies under the minimum score in the exclude file.
	AppendRejected bool
}

// Status represents runtime information about a step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

type reportCollector interface {
	Reports() map[string]*report.Report
}

// DisableByName marks a step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the steps sequentially and returns the remaining vacancies
// together with the reports produced along the way, keyed by vacancy id.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, v *headhunter.Vacancies) (*headhunter.Vacancies, map[string]*report.Report, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	reports := make(map[string]*report.Report)
	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Info("screening step disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, v)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("screening step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		v = next

		if collector, ok := step.(reportCollector); ok {
			for id, r := range collector.Reports() {
				reports[id] = r
			}
		}

		if v.Len() == 0 {
			break
		}
	}

	return v, reports, nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
