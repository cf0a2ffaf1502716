// Package gemini implements analysis.Analyzer on top of Google Gemini.
package gemini

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/ats-advisor/internal/analysis"
	"github.com/spigell/ats-advisor/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	Provider = "gemini"

	defaultMaxLogLength    = 200
	maxJobDescriptionRunes = 8000
	resumeMIMEType         = "application/pdf"
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	Generate(ctx context.Context, system string, parts ...genai.Part) (string, error)
	Model() string
}

type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ analysis.Analyzer = (*Analyzer)(nil)

func NewAnalyzer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) Describe() (string, string) {
	return Provider, a.generator.Model()
}

func (a *Analyzer) Analyze(ctx context.Context, req *analysis.Request) (*analysis.Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	message := buildMessage(req)

	a.logger.Debug("gemini analysis request",
		zap.String("resume", req.ResumeName),
		zap.Int("resume_bytes", len(req.ResumePDF)),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	raw, err := a.generator.Generate(ctx, promptTemplate,
		genai.Part{Text: message},
		genai.Part{InlineData: &genai.Blob{MIMEType: resumeMIMEType, Data: req.ResumePDF}},
	)
	if errors.Is(err, errEmptyResponse) {
		return nil, analysis.ErrEmptyAnalysis
	}
	if err != nil {
		return nil, fmt.Errorf("gemini analysis: %w", err)
	}

	a.logger.Debug("gemini analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	if strings.TrimSpace(raw) == "" {
		return nil, analysis.ErrEmptyAnalysis
	}

	return analysis.FromText(raw), nil
}

func buildMessage(req *analysis.Request) string {
	job := strings.TrimSpace(req.JobDescription)
	if runes := []rune(job); len(runes) > maxJobDescriptionRunes {
		job = string(runes[:maxJobDescriptionRunes])
	}

	var sb strings.Builder
	if name := strings.TrimSpace(req.ResumeName); name != "" {
		sb.WriteString("Resume file: ")
		sb.WriteString(name)
		sb.WriteString(" (attached PDF)\n\n")
	}
	sb.WriteString("Job Description:\n")
	sb.WriteString(job)
	return sb.String()
}
