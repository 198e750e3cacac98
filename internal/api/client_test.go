package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jonathan/resume-builder/internal/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolish_Success(t *testing.T) {
	var got builder.ResumePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/polish", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"polished_summary":"Better summary","bullets":["Led team of 8"]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	resp, err := client.Polish(context.Background(), builder.ResumePayload{TargetTitle: "Area Manager"})
	require.NoError(t, err)

	assert.Equal(t, "Area Manager", got.TargetTitle)
	assert.Equal(t, "Better summary", resp.PolishedSummary)
	assert.Equal(t, []string{"Led team of 8"}, resp.Bullets)
}

func TestPolish_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Polish(context.Background(), builder.ResumePayload{})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "/polish", apiErr.Endpoint)
	assert.Contains(t, apiErr.Message, "500")
}

func TestPolishCover_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/polish_cover", r.URL.Path)
		_, _ = w.Write([]byte(`{"cover_letter_suggested":"Dear Hiring Manager,"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	resp, err := client.PolishCover(context.Background(), builder.CoverPayload{Company: "Initech"})
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,", resp.CoverLetterSuggested)
}

func TestSwap_CarriesQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/swap", r.URL.Path)
		assert.Equal(t, "Inter", r.URL.Query().Get("font_family"))
		assert.Equal(t, "modern", r.URL.Query().Get("template"))
		_, _ = w.Write([]byte(`<div class="preview">ok</div>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	query := url.Values{}
	query.Set("font_family", "Inter")
	query.Set("template", "modern")

	fragment, err := client.Swap(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, `<div class="preview">ok</div>`, fragment)
}

func TestSwap_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Swap(context.Background(), nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "502")
}

func TestPolish_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Polish(context.Background(), builder.ResumePayload{})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "failed to decode response", apiErr.Message)
}
