package screening

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-advisor/internal/analysis"
	"github.com/spigell/ats-advisor/internal/headhunter"
	"github.com/spigell/ats-advisor/internal/logger"
	"github.com/spigell/ats-advisor/internal/report"
)

const defaultConcurrency = 1

type atsScoreFilter struct {
	disabled bool
	reason   string
	config   ATSConfig
	exclude  string
	reports  map[string]*report.Report
}

type atsOutcome struct {
	vacancy *headhunter.Vacancy
	report  *report.Report
	failed  bool
}

// NewATSScore creates the step that analyzes each vacancy against the resume
// and drops the ones scoring under the configured minimum.
func NewATSScore() Filter {
	return &atsScoreFilter{}
}

func (f *atsScoreFilter) Name() string { return "ats_score" }

func (f *atsScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *atsScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *atsScoreFilter) Validate(cfg *Config) error {
	f.config = ATSConfig{}
	f.exclude = ""
	if cfg != nil {
		f.exclude = strings.TrimSpace(cfg.ExcludeFile)
		if cfg.ATS != nil {
			f.config = *cfg.ATS
		}
	}

	if f.config.MinimumScore < 0 || f.config.MinimumScore > 100 {
		return fmt.Errorf("minimum score must be within [0,100], got %d", f.config.MinimumScore)
	}
	if f.config.Concurrency <= 0 {
		f.config.Concurrency = defaultConcurrency
	}
	return nil
}

func (f *atsScoreFilter) Apply(ctx context.Context, deps Deps, v *headhunter.Vacancies) (*headhunter.Vacancies, Step, error) {
	initial := v.Len()
	if deps.Analyzer == nil {
		return v, Step{}, errors.New("analyzer is required")
	}
	if deps.Resume == nil || len(deps.Resume.PDF) == 0 {
		return v, Step{}, errors.New("resume is required")
	}

	provider, model := deps.Analyzer.Describe()
	log := logger.WithCommonFields(deps.Logger, provider, model)

	outcomes := make([]atsOutcome, len(v.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.config.Concurrency)
	for i, vacancy := range v.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = f.analyze(gctx, deps, log, vacancy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return v, Step{}, err
	}
	if err := ctx.Err(); err != nil {
		return v, Step{}, err
	}

	f.reports = make(map[string]*report.Report, len(outcomes))
	approved := make([]*headhunter.Vacancy, 0, initial)
	rejected := &headhunter.Vacancies{}

	for _, o := range outcomes {
		f.reports[o.vacancy.ID] = o.report

		if o.failed || !o.vacancy.ATS.ScoreFound || o.vacancy.ATS.Score >= f.config.MinimumScore {
			approved = append(approved, o.vacancy)
			continue
		}

		log.Info("vacancy rejected by ats score",
			append(logger.AnalysisFields(o.vacancy.ID, o.report.ID),
				zap.Int("ats_score", o.vacancy.ATS.Score),
				zap.Int("minimum_score", f.config.MinimumScore),
			)...,
		)
		rejected.Items = append(rejected.Items, o.vacancy)
	}

	v.Items = approved

	if f.config.AppendRejected && rejected.Len() > 0 {
		if err := f.appendToExcludeFile(rejected); err != nil {
			log.Warn("failed to append rejected vacancies to exclude file", zap.Error(err))
		} else if f.exclude != "" {
			log.Info("rejected vacancies appended to exclude file",
				zap.String("exclude_file", f.exclude),
				zap.Int("count", rejected.Len()),
			)
		}
	}

	log.Info("ats screening completed",
		zap.Int("initial_vacancies", initial),
		zap.Int("approved_vacancies", len(approved)),
	)

	return v, Step{Initial: initial, Dropped: initial - len(approved), Left: len(approved)}, nil
}

func (f *atsScoreFilter) analyze(ctx context.Context, deps Deps, log *zap.Logger, vacancy *headhunter.Vacancy) atsOutcome {
	log = logger.WithVacancy(log, vacancy.ID)

	detailed := vacancy
	if deps.HH != nil {
		full, err := deps.HH.GetVacancy(ctx, vacancy.ID)
		switch {
		case errors.Is(err, headhunter.ErrVacancyNotFound):
			log.Warn("vacancy is no longer published, analyzing the search snippet")
		case err != nil:
			log.Warn("fetching detailed vacancy failed, analyzing the search snippet", zap.Error(err))
		case full != nil:
			detailed = full
		}
	}

	provider, model := deps.Analyzer.Describe()
	src := report.Source{
		Provider:    provider,
		Model:       model,
		Resume:      deps.Resume.Name,
		VacancyID:   detailed.ID,
		VacancyName: detailed.Name,
		VacancyURL:  detailed.AlternateURL,
	}

	result, err := deps.Analyzer.Analyze(ctx, &analysis.Request{
		ResumePDF:      deps.Resume.PDF,
		ResumeName:     deps.Resume.Name,
		JobDescription: detailed.JobDescription(),
	})
	if err != nil {
		log.Warn("ats analysis failed", zap.Error(err))
		detailed.ATS = &headhunter.ATSAssessment{Error: err.Error()}
		return atsOutcome{vacancy: detailed, report: report.Unavailable(src, err), failed: true}
	}

	r := report.New(result, src)
	detailed.ATS = &headhunter.ATSAssessment{
		Score:         r.Score,
		ScoreFound:    r.ScoreFound,
		MatchedSkills: len(r.MatchedSkills),
		MissingSkills: r.MissingSkills,
		ReportID:      r.ID,
	}

	log.Debug("vacancy analyzed",
		zap.String(logger.FieldReportID, r.ID),
		zap.Int("ats_score", r.Score),
		zap.Bool("ats_score_found", r.ScoreFound),
	)

	return atsOutcome{vacancy: detailed, report: r}
}

func (f *atsScoreFilter) appendToExcludeFile(vacancies *headhunter.Vacancies) error {
	if f.exclude == "" {
		return nil
	}

	excluded, err := headhunter.GetExcludedVacanciesFromFile(f.exclude)
	if err != nil {
		return fmt.Errorf("load excluded vacancies: %w", err)
	}

	excluded.Append(vacancies.ToExcluded())

	if err := excluded.ToFile(f.exclude); err != nil {
		return fmt.Errorf("write excluded vacancies: %w", err)
	}
	return nil
}

func (f *atsScoreFilter) Reports() map[string]*report.Report {
	if f.reports == nil {
		return map[string]*report.Report{}
	}
	return f.reports
}

func (f *atsScoreFilter) Status() Status {
	details := map[string]string{
		"minimum_score":   strconv.Itoa(f.config.MinimumScore),
		"concurrency":     strconv.Itoa(f.config.Concurrency),
		"append_rejected": strconv.FormatBool(f.config.AppendRejected),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
