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
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-advisor/internal/analysis"
	"github.com/spigell/ats-advisor/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against one job description",
	Example: `  ats-advisor analyze --resume cv.pdf --job-file job.txt
  ats-advisor analyze --resume cv.pdf --vacancy 12345678 -o json
  cat job.txt | ats-advisor analyze --resume cv.pdf --job-file -`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "resume PDF to analyze")
	analyzeCmd.Flags().String("save", "", "store the raw analysis as JSON for later 'extract'")
	addJobFlags(analyzeCmd)
}

func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().String("job-file", "", "file with the job description ('-' for stdin)")
	cmd.Flags().String("job-text", "", "job description text")
	cmd.Flags().String("vacancy", "", "hh.ru vacancy id to take the job description from")

	cmd.MarkFlagsMutuallyExclusive("job-file", "job-text", "vacancy")
	cmd.MarkFlagsOneRequired("job-file", "job-text", "vacancy")
}

func analyze(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	resumeName, resumePDF, err := readResume(resumePath)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}

	src := report.Source{Resume: filepath.Base(resumeName)}

	job, err := jobDescription(ctx, cmd, config, logger, &src)
	if err != nil {
		logger.Fatal("getting job description", zap.Error(err))
	}

	analyzer, err := newAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating analyzer", zap.Error(err))
	}
	src.Provider, src.Model = analyzer.Describe()

	logger.Info("analyzing resume",
		zap.String("resume", src.Resume),
		zap.String("provider", src.Provider),
		zap.String("vacancy_id", src.VacancyID),
	)

	result, err := analyzer.Analyze(ctx, &analysis.Request{
		ResumePDF:      resumePDF,
		ResumeName:     src.Resume,
		JobDescription: job,
	})
	if err != nil {
		logger.Fatal("analyzing resume", zap.Error(err))
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := saveAnalysis(savePath, result); err != nil {
			logger.Fatal("saving analysis", zap.Error(err))
		}
		logger.Info("analysis saved", zap.String("filename", savePath))
	}

	if err := report.Render(cmd.OutOrStdout(), report.New(result, src), reportOptions()); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}
}

// jobDescription resolves the job description from exactly one of the job flags.
// src is filled with vacancy details when the description comes from hh.ru.
// File and text input is taken as plain text, only hh.ru descriptions are HTML.
func jobDescription(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger, src *report.Source) (string, error) {
	var (
		job string
		err error
	)

	switch {
	case cmd.Flags().Changed("vacancy"):
		id, _ := cmd.Flags().GetString("vacancy")
		vacancy, err := newHeadhunter(config, logger).GetVacancy(ctx, strings.TrimSpace(id))
		if err != nil {
			return "", err
		}
		src.VacancyID = vacancy.ID
		src.VacancyName = vacancy.Name
		src.VacancyURL = vacancy.AlternateURL
		job = vacancy.JobDescription()

	case cmd.Flags().Changed("job-file"):
		path, _ := cmd.Flags().GetString("job-file")
		job, err = readJobFile(cmd.InOrStdin(), path)
		if err != nil {
			return "", err
		}

	default:
		job, _ = cmd.Flags().GetString("job-text")
	}

	job = strings.TrimSpace(job)
	if job == "" {
		return "", errors.New("job description is empty")
	}
	return job, nil
}

func readJobFile(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return string(data), nil
}

func saveAnalysis(path string, a *analysis.Analysis) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
