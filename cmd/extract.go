package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-advisor/internal/analysis"
	"github.com/spigell/ats-advisor/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Build a report from a stored analysis JSON",
	Long: `Reads an analysis saved earlier (by 'analyze --save' or taken from the
backend response), validates it and prints the score, suggestions, tips and insights.
Reads stdin when the file is '-' or omitted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		path := "-"
		if len(args) == 1 {
			path = args[0]
		}

		r, err := extract(cmd.InOrStdin(), path)
		if err != nil {
			logger.Fatal("extracting analysis", zap.String("file", path), zap.Error(err))
		}

		logger.Debug("analysis extracted",
			zap.String("report_id", r.ID),
			zap.Int("ats_score", r.Score),
			zap.Bool("ats_score_found", r.ScoreFound),
		)

		if err := report.Render(cmd.OutOrStdout(), r, reportOptions()); err != nil {
			logger.Fatal("rendering report", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func extract(stdin io.Reader, path string) (*report.Report, error) {
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
		return nil, fmt.Errorf("read analysis: %w", err)
	}

	a, err := analysis.Decode(data)
	if err != nil {
		return nil, err
	}

	return report.New(a, report.Source{Provider: "file"}), nil
}
