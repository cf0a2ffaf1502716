package headhunter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

// ErrVacancyNotFound is returned for archived or removed vacancies.
var ErrVacancyNotFound = errors.New("vacancy not found")

// StatusError is an hh.ru answer other than 200 OK.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

// Is lets a 404 match ErrVacancyNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrVacancyNotFound && e.Code == http.StatusNotFound
}

type ItemResponse struct {
	Items   []Item
	Found   int
	Pages   int
	Page    int
	PerPage int `json:"per_page"`
}

type Item interface{}

// GetItems requests every page of a list endpoint and returns the items of all pages.
func (c *Client) GetItems(ctx context.Context, url string, q url.Values) ([]Item, error) {
	req, err := c.newGetRequest(ctx, url, q)
	if err != nil {
		return nil, err
	}

	var (
		items    []Item
		response ItemResponse
	)
	for page := 0; ; page++ {
		if page > 0 {
			c.logger.Debug("additional request needed",
				zap.Int("page", page+1),
				zap.Int("pages", response.Pages),
			)
			req = addPage(req, page)
		}

		response = ItemResponse{}
		if err := c.do(req, &response); err != nil {
			return nil, err
		}

		if page == 0 {
			c.logger.Debug("got response from HH.ru",
				zap.Int("found", response.Found),
				zap.Int("pages", response.Pages),
				zap.Int("max items per page", response.PerPage),
			)
		}

		items = append(items, response.Items...)

		if response.Page >= response.Pages-1 {
			return items, nil
		}
	}
}

func (c *Client) getJSON(ctx context.Context, url string, q url.Values, target any) error {
	req, err := c.newGetRequest(ctx, url, q)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

func (c *Client) newGetRequest(ctx context.Context, url string, q url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}
	return req, nil
}

// do sends req and decodes a 200 response into target. target may be nil.
func (c *Client) do(req *http.Request, target any) error {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := decompressed(resp)
	if err != nil {
		return err
	}
	defer body.Close()

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decompressed(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") != contentEncoding {
		return io.NopCloser(resp.Body), nil
	}
	return gzip.NewReader(resp.Body)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// addPage sets the page parameter on the request URL.
func addPage(req *http.Request, page int) *http.Request {
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	return req
}
