package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-advisor/internal/headhunter"
	"github.com/spigell/ats-advisor/internal/report"
	"github.com/spigell/ats-advisor/internal/screening"
)

const (
	PromptPrintReports        = "Print reports"
	PromptReportByEmployers   = "Report by employers"
	PromptVacanciesToFile     = "Dump vacancies to file"
	PromptAppendToExcludeFile = "Append all vacancies to exclude file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Search hh.ru and score every vacancy against a resume",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		screen(cmd)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringP("resume", "r", "", "resume PDF to analyze")
	screenCmd.Flags().BoolP("auto-approve", "y", false, "print the reports without asking what to do next")
}

func screen(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ats-advisor", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config.Search == nil {
		logger.Fatal("search section is required in the configuration file")
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	resumeName, resumePDF, err := readResume(resumePath)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}

	analyzer, err := newAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating analyzer", zap.Error(err))
	}

	hh := newHeadhunter(config, logger)

	logger.Info("starting the search", zap.String("search", config.Search.Text))

	vacancies, err := getVacancies(ctx, hh, config, logger)
	if err != nil {
		logger.Fatal("getting available vacancies", zap.Error(err))
	}

	if vacancies.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no vacancies found"))
		return
	}

	steps := prepareSteps(config)
	deps := screening.Deps{
		HH:       hh,
		Logger:   logger,
		Resume:   &screening.Resume{Name: filepath.Base(resumeName), PDF: resumePDF},
		Analyzer: analyzer,
	}

	vacancies, reports, err := screening.Run(ctx, screeningConfig(config), deps, steps, vacancies)
	if err != nil {
		logger.Fatal("screening failed", zap.Error(err))
	}

	for _, status := range screening.Describe(steps) {
		logger.Debug("screening step status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	if vacancies.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no vacancies left after screening"))
		return
	}

	out := cmd.OutOrStdout()
	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if autoApprove {
		if err := printReports(out, vacancies, reports); err != nil {
			logger.Fatal("rendering reports", zap.Error(err))
		}
		return
	}

	for {
		items := []string{PromptPrintReports, PromptReportByEmployers, PromptVacanciesToFile}
		if config.ExcludeFile != "" && vacancies.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}

		prompt := promptui.Select{
			Label: "What next?",
			Items: append(items, PromptExit),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of vacancies", zap.Int("count", vacancies.Len()))

		if err := handleAction(action, out, logger, config, vacancies, reports); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, logger *zap.Logger, config *Config, vacancies *headhunter.Vacancies, reports map[string]*report.Report) error {
	switch action {
	case PromptPrintReports:
		return printReports(out, vacancies, reports)
	case PromptReportByEmployers:
		pretty, _ := json.MarshalIndent(vacancies.ReportByEmployer(), "", "  ")
		logger.Info(string(pretty), zap.Int("vacancies count", vacancies.Len()))
		return nil
	case PromptVacanciesToFile:
		filename, err := vacancies.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		if err := appendToExcludeFile(config.ExcludeFile, vacancies); err != nil {
			return err
		}
		logger.Info("appended to exclude file", zap.String("filename", config.ExcludeFile))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// printReports renders the reports of the remaining vacancies in search order.
func printReports(out io.Writer, vacancies *headhunter.Vacancies, reports map[string]*report.Report) error {
	ordered := make([]*report.Report, 0, vacancies.Len())
	for _, vacancy := range vacancies.Items {
		if r, ok := reports[vacancy.ID]; ok {
			ordered = append(ordered, r)
		}
	}
	return report.RenderAll(out, ordered, reportOptions())
}

// appendToExcludeFile records the vacancies in the exclude file and removes them from the list.
func appendToExcludeFile(path string, vacancies *headhunter.Vacancies) error {
	excluded, err := headhunter.GetExcludedVacanciesFromFile(path)
	if err != nil {
		return err
	}

	excluded.Append(vacancies.ToExcluded())

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	vacancies.Exclude(headhunter.VacancyIDField, excluded.VacanciesIDs())
	return nil
}

// getVacancies returns a list of vacancies that match the config.
func getVacancies(ctx context.Context, hh *headhunter.Client, config *Config, logger *zap.Logger) (*headhunter.Vacancies, error) {
	results, err := hh.Search(ctx, config.Search)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Info("getting vacancies", zap.Int("count", results.Len()))
	return results, nil
}

func prepareSteps(config *Config) []screening.Filter {
	steps := []screening.Filter{
		screening.NewWithTest(),
		screening.NewEmployers(),
		screening.NewExcludeFile(),
		screening.NewATSScore(),
	}

	if config.Screen.AllowTests {
		screening.DisableByName(steps, "with_test", "screen.allow-tests is set")
	}

	return steps
}

func screeningConfig(config *Config) *screening.Config {
	return &screening.Config{
		Employers:   config.Screen.Employers,
		ExcludeFile: config.ExcludeFile,
		ATS: &screening.ATSConfig{
			MinimumScore:   config.Screen.MinimumScore,
			Concurrency:    config.Screen.Concurrency,
			AppendRejected: config.Screen.AppendRejected,
		},
	}
}
