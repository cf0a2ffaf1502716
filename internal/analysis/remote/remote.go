// Package remote implements analysis.Analyzer against the resume-analyze HTTP backend.
package remote

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spigell/ats-advisor/internal/analysis"
	"github.com/spigell/ats-advisor/internal/utils"
	"go.uber.org/zap"
)

const (
	Provider = "remote"

	AnalyzePath = "/api/resume-analyze"

	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "spigell/ats-advisor"
	dataURLPrefix   = "data:application/pdf;base64,"
	defaultTimeout  = 2 * time.Minute
	maxLogLength    = 200
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("analysis backend: bad status %d", e.Code)
	}
	return fmt.Sprintf("analysis backend: bad status %d: %s", e.Code, e.Message)
}

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

var _ analysis.Analyzer = (*Client)(nil)

type analyzeRequest struct {
	ResumePDF      string `json:"resume_pdf"`
	JobDescription string `json:"job_description"`
}

type analyzeResponse struct {
	Message  string             `json:"message"`
	Analysis *analysis.Analysis `json:"analysis"`
}

func New(logger *zap.Logger, apiURL, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:  token,
		logger: logger,
		APIURL: strings.TrimRight(apiURL, "/"),
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UserAgent: userAgent,
	}
}

func (c *Client) Describe() (string, string) {
	return Provider, c.APIURL
}

func (c *Client) Analyze(ctx context.Context, req *analysis.Request) (*analysis.Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(analyzeRequest{
		ResumePDF:      dataURLPrefix + base64.StdEncoding.EncodeToString(req.ResumePDF),
		JobDescription: req.JobDescription,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+AnalyzePath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq = c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.request(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analysis backend request: %w", err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read analysis backend response: %w", err)
	}

	c.logger.Debug("got response from analysis backend",
		zap.Int("status", resp.StatusCode),
		zap.String("body_preview", utils.TruncateForLog(string(data), maxLogLength)),
	)

	var decoded analyzeResponse
	decodeErr := json.Unmarshal(data, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := strings.TrimSpace(decoded.Message)
		if decodeErr != nil || message == "" {
			message = utils.TruncateForLog(string(data), maxLogLength)
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode analysis backend response: %w", decodeErr)
	}

	if decoded.Analysis == nil || strings.TrimSpace(decoded.Analysis.FullText) == "" {
		return nil, analysis.ErrEmptyAnalysis
	}

	return decoded.Analysis.Normalize(), nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp.Header.Get("Content-Encoding") != "gzip" {
		return io.ReadAll(resp.Body)
	}

	reader, err := gzip.NewReader(resp.Body)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
