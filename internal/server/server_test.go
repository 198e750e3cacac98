package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/builder"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{Port: 8080})
	require.NoError(t, err)
	t.Cleanup(func() {
		s.rateLimiter.Stop()
	})
	return s
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.handleIndex(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="jobs_json"`)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestHandleBuild(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{}
	form.Set("full_name", "Ada Lovelace")
	form.Set("email", "ada@example.com")
	form.Set("template", "modern")
	form.Set("target_title", "Store Manager")
	form.Set("years_exp", "5")
	form.Set("strengths", "Leadership, Scheduling")
	form.Set("wins", "Cut costs 10% • Hired 12 staff")

	req := httptest.NewRequest(http.MethodPost, "/build", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.handleBuild(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "resume-modern")
	// blank summary is autogenerated from title and years
	assert.Contains(t, html, "Store Manager with 5 years of experience.")
	// wins round-trip through the download form joined with ||
	assert.Contains(t, html, "Cut costs 10%||Hired 12 staff")
}

func TestHandleBuild_MissingRequiredFields(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{}
	form.Set("email", "ada@example.com")

	req := httptest.NewRequest(http.MethodPost, "/build", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.handleBuild(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "full_name")
}

func TestHandleBuild_UnknownTemplateFallsBack(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{}
	form.Set("full_name", "Ada Lovelace")
	form.Set("email", "ada@example.com")
	form.Set("template", "fancy")

	req := httptest.NewRequest(http.MethodPost, "/build", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.handleBuild(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "resume-classic")
}

func TestHandlePolish(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"full_name": "Ada Lovelace",
		"target_title": "Store Manager",
		"years_exp": "5",
		"strengths": "Leadership",
		"wins": "Cut costs 10%, Hired 12 staff",
		"jobs": [
			{"title": "Shift Lead", "company": "Acme", "bullets": ["responsible for opening the store", "cut waste 15%"]}
		]
	}`

	req := httptest.NewRequest(http.MethodPost, "/polish", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handlePolish(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp builder.PolishResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.PolishedSummary)
	assert.NotEmpty(t, resp.SkillsSuggested)
	require.Len(t, resp.JobsSuggestions, 1)
	assert.Contains(t, resp.JobsSuggestions[0][0], "Led")
}

func TestHandlePolish_InvalidBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/polish", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.handlePolish(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePolish_ValidationFailure(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/polish", strings.NewReader(`{"email": "not-an-email"}`))
	w := httptest.NewRecorder()
	s.handlePolish(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error")
}

func TestHandlePolish_TooManyJobs(t *testing.T) {
	s := newTestServer(t)

	jobs := make([]string, 7)
	for i := range jobs {
		jobs[i] = `{"title": "Job"}`
	}
	body := `{"jobs": [` + strings.Join(jobs, ",") + `]}`

	req := httptest.NewRequest(http.MethodPost, "/polish", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handlePolish(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePolishCover(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"full_name": "Ada Lovelace",
		"company": "Acme",
		"role": "Store Manager",
		"manager": "Grace Hopper",
		"tone": "friendly"
	}`

	req := httptest.NewRequest(http.MethodPost, "/polish_cover", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.handlePolishCover(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp builder.CoverPolishResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.CoverLetterSuggested, "Hello Grace Hopper,")
	assert.Contains(t, resp.CoverLetterSuggested, "Ada Lovelace")
}

func TestHandlePolishCover_UnknownTone(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/polish_cover", strings.NewReader(`{"tone": "sarcastic"}`))
	w := httptest.NewRecorder()
	s.handlePolishCover(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSwap(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet,
		"/swap?template=modern&font_family=Inter&page_limit=2&full_name=Ada", nil)
	w := httptest.NewRecorder()
	s.handleSwap(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	assert.Contains(t, html, "resume-modern")
	assert.Contains(t, html, "Inter")
	assert.Contains(t, html, `data-page-limit="2"`)
	assert.NotContains(t, html, "<html", "swap returns a bare fragment")
}

func TestWithRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.rateLimiter.Stop()
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Endpoints: []ratelimit.EndpointConfig{
			{Path: "/polish", Method: "POST", Limit: 60, Window: time.Minute, Burst: 1},
		},
	})
	defer s.rateLimiter.Stop()

	handler := s.withRateLimit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/polish", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestWithCORS(t *testing.T) {
	s := newTestServer(t)

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/polish", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
