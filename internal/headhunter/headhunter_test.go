package headhunter

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(zap.NewNop(), "hh-token")
	c.APIURL = srv.URL
	return c
}

func TestSearchFollowsPages(t *testing.T) {
	var queries []string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SearchPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hh-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		queries = append(queries, r.URL.RawQuery)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		resp := map[string]any{
			"items":    []map[string]any{{"id": strconv.Itoa(page + 1), "name": "Go", "has_test": page == 1, "employer": map[string]any{"id": "e1", "name": "Acme"}}},
			"found":    2,
			"pages":    2,
			"page":     page,
			"per_page": 1,
		}

		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_ = json.NewEncoder(gz).Encode(resp)
		_ = gz.Close()
	})

	vacancies, err := c.Search(context.Background(), &SearchParams{Text: "golang", Areas: []int{1, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if vacancies.Len() != 2 {
		t.Fatalf("expected 2 vacancies, got %d", vacancies.Len())
	}
	if vacancies.Items[1].ID != "2" || !vacancies.Items[1].HasTest {
		t.Fatalf("unexpected second vacancy: %+v", vacancies.Items[1])
	}
	if vacancies.Items[0].Employer.Name != "Acme" {
		t.Fatalf("expected nested employer to be decoded")
	}
	if len(queries) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(queries))
	}
}

func TestSearchBadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if _, err := c.Search(context.Background(), nil); err == nil {
		t.Fatal("expected error on forbidden")
	}
}

func TestGetVacancy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vacancies/42" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id": "42", "name": "Go Developer", "description": "<p>Write Go</p>", "key_skills": [{"name": "Go"}]}`))
	})

	vacancy, err := c.GetVacancy(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vacancy.PlainDescription() != "Write Go" {
		t.Fatalf("unexpected description: %q", vacancy.PlainDescription())
	}
	if len(vacancy.KeySkills) != 1 {
		t.Fatalf("expected key skills to be decoded")
	}

	if _, err := c.GetVacancy(context.Background(), "7"); err == nil {
		t.Fatal("expected error for missing vacancy")
	}
}

func TestBuildParams(t *testing.T) {
	q := buildParams(&SearchParams{
		Text:       "go",
		Areas:      []int{1, 113},
		Schedules:  []string{"remote"},
		PerPage:    "50",
		Experience: "between3And6",
	})

	if q.Get("text") != "go" {
		t.Fatalf("unexpected text: %q", q.Get("text"))
	}
	if areas := q["area"]; len(areas) != 2 || areas[1] != "113" {
		t.Fatalf("unexpected areas: %v", areas)
	}
	if q.Get("schedule") != "remote" || q.Get("per_page") != "50" || q.Get("experience") != "between3And6" {
		t.Fatalf("unexpected params: %v", q)
	}
	if _, ok := q["period"]; ok {
		t.Fatalf("zero values must be skipped")
	}
}

func TestGetVacancyStatusErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == SearchPath+"/gone" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.GetVacancy(context.Background(), "gone")
	if !errors.Is(err, ErrVacancyNotFound) {
		t.Fatalf("expected ErrVacancyNotFound, got %v", err)
	}

	_, err = c.GetVacancy(context.Background(), "private")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 status error, got %v", err)
	}
	if errors.Is(err, ErrVacancyNotFound) {
		t.Fatal("403 must not match ErrVacancyNotFound")
	}
}

func TestGetVacancyBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{"))
	})

	if _, err := c.GetVacancy(context.Background(), "1"); err == nil {
		t.Fatal("expected decode error")
	}
}
