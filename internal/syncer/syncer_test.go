package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/builder"
	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/prefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records polish calls and serves canned responses.
type fakeClient struct {
	mu          sync.Mutex
	polishCalls int
	coverCalls  int
	lastPayload builder.ResumePayload
	resp        builder.PolishResponse
	coverResp   builder.CoverPolishResponse
	err         error
}

func (c *fakeClient) Polish(_ context.Context, payload builder.ResumePayload) (*builder.PolishResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polishCalls++
	c.lastPayload = payload
	if c.err != nil {
		return nil, c.err
	}
	resp := c.resp
	return &resp, nil
}

func (c *fakeClient) PolishCover(_ context.Context, _ builder.CoverPayload) (*builder.CoverPolishResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coverCalls++
	if c.err != nil {
		return nil, c.err
	}
	resp := c.coverResp
	return &resp, nil
}

func (c *fakeClient) polishCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.polishCalls
}

func (c *fakeClient) coverCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coverCalls
}

// fakePrefs is an in-memory Prefs with fixed toggles.
type fakePrefs map[string]bool

func (p fakePrefs) AutoApply(key string) bool { return p[key] }

func testOptions() *Options {
	return &Options{
		DebounceDelay:  20 * time.Millisecond,
		AutoApplyDelay: 40 * time.Millisecond,
	}
}

func newResumeForm(t *testing.T) *form.Form {
	t.Helper()
	return form.New(form.ResumeFields()...)
}

func TestNoteInput_DebouncesToOneRequest(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{}
	s := New(f, client, fakePrefs{}, testOptions())
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.NoteInput()
	}

	require.Eventually(t, func() bool { return client.polishCount() == 1 },
		2*time.Second, 5*time.Millisecond)

	// The window has elapsed; no further requests should trickle in.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, client.polishCount())
}

func TestNoteInput_SyncsJobsJSON(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{}
	s := New(f, client, fakePrefs{}, testOptions())
	defer s.Close()

	idx, ok := f.AddCard()
	require.True(t, ok)
	require.True(t, f.SetCard(idx, builder.JobCard{
		Title:       "Shift Lead",
		BulletsText: "Led team\n\nGrew revenue 20%\n",
	}))
	_, ok = f.AddCard()
	require.True(t, ok) // stays empty, must be filtered out

	s.NoteInput()

	var jobs []builder.JobEntry
	require.NoError(t, json.Unmarshal([]byte(f.Value(form.FieldJobsJSON)), &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "Shift Lead", jobs[0].Title)
	assert.Equal(t, []string{"Led team", "Grew revenue 20%"}, jobs[0].Bullets)
}

func TestRequestPolish_DistributesSuggestions(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{resp: builder.PolishResponse{
		PolishedSummary: "Seasoned area manager.",
		SkillsSuggested: []string{"Scheduling", "Coaching"},
		MetricHints:     []string{"Add a number to: Led team"},
		JobsSuggestions: [][]string{{"Led team of 8 associates"}},
	}}
	s := New(f, client, fakePrefs{}, testOptions())
	defer s.Close()

	require.True(t, f.SetValue(form.FieldTargetTitle, "Area Manager"))
	s.NoteInput()

	require.Eventually(t, func() bool {
		return f.Value(form.FieldSummarySuggestion) == "Seasoned area manager."
	}, 2*time.Second, 5*time.Millisecond)

	got := s.Suggestions()
	assert.Equal(t, []string{"Scheduling", "Coaching"}, got.Skills)
	assert.Equal(t, [][]string{{"Led team of 8 associates"}}, got.Jobs)

	client.mu.Lock()
	payload := client.lastPayload
	client.mu.Unlock()
	assert.Equal(t, "Area Manager", payload.TargetTitle)
}

func TestAutoApply_OffNeverOverwrites(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{resp: builder.PolishResponse{PolishedSummary: "Suggested text"}}
	s := New(f, client, fakePrefs{}, testOptions())
	defer s.Close()

	require.True(t, f.SetValue(form.FieldSummary, "my own words"))
	s.NoteInput()

	require.Eventually(t, func() bool { return client.polishCount() == 1 },
		2*time.Second, 5*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, "my own words", f.Value(form.FieldSummary))
}

func TestAutoApply_OnWritesAfterQuietDelay(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{resp: builder.PolishResponse{PolishedSummary: "  Suggested text  "}}
	s := New(f, client, fakePrefs{prefs.KeyResumeSummary: true}, testOptions())
	defer s.Close()

	s.NoteInput()

	require.Eventually(t, func() bool {
		return f.Value(form.FieldSummary) == "Suggested text"
	}, 2*time.Second, 5*time.Millisecond, "auto-apply should write the trimmed suggestion")
}

func TestAutoApply_SkipsWhitespaceOnlySuggestion(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{resp: builder.PolishResponse{PolishedSummary: "   "}}
	s := New(f, client, fakePrefs{prefs.KeyResumeSummary: true}, testOptions())
	defer s.Close()

	s.NoteInput()

	require.Eventually(t, func() bool { return client.polishCount() == 1 },
		2*time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, "", f.Value(form.FieldSummary))
}

func TestAutoApply_CancelledByNewInput(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{resp: builder.PolishResponse{PolishedSummary: "Suggested text"}}
	s := New(f, client, fakePrefs{prefs.KeyResumeSummary: true}, &Options{
		DebounceDelay:  20 * time.Millisecond,
		AutoApplyDelay: 300 * time.Millisecond,
	})
	defer s.Close()

	s.NoteInput()

	// Wait until the response landed and the apply timer is pending,
	// then keep typing before the apply delay elapses. The follow-up
	// request returns no suggestion, so nothing new gets scheduled.
	require.Eventually(t, func() bool {
		return f.Value(form.FieldSummarySuggestion) == "Suggested text"
	}, 2*time.Second, 5*time.Millisecond)
	client.mu.Lock()
	client.resp = builder.PolishResponse{}
	client.mu.Unlock()
	require.True(t, f.SetValue(form.FieldSummary, "still typing"))
	s.NoteInput()

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, "still typing", f.Value(form.FieldSummary))
}

func TestApplyPolish_DiscardsStaleResponse(t *testing.T) {
	f := newResumeForm(t)
	s := New(f, &fakeClient{}, fakePrefs{}, testOptions())
	defer s.Close()

	s.applyPolish(2, &builder.PolishResponse{PolishedSummary: "newer"})
	s.applyPolish(1, &builder.PolishResponse{PolishedSummary: "stale"})

	assert.Equal(t, "newer", f.Value(form.FieldSummarySuggestion))
}

func TestApplyJobSuggestion_ReplacesBulletsAndRepolishes(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{}
	s := New(f, client, fakePrefs{}, testOptions())
	defer s.Close()

	idx, ok := f.AddCard()
	require.True(t, ok)
	require.True(t, f.SetCard(idx, builder.JobCard{Title: "Lead", BulletsText: "old bullet"}))

	s.applyPolish(1, &builder.PolishResponse{
		JobsSuggestions: [][]string{{"Led team of 8", "Grew revenue 20%"}},
	})

	require.True(t, s.ApplyJobSuggestion(0))
	assert.Equal(t, "Led team of 8\nGrew revenue 20%", f.Cards()[0].BulletsText)

	require.Eventually(t, func() bool { return client.polishCount() >= 1 },
		2*time.Second, 5*time.Millisecond, "applying a suggestion triggers a fresh polish")

	assert.False(t, s.ApplyJobSuggestion(5), "out-of-range index")
}

func TestRequestPolish_ErrorLeavesSuggestionsEmpty(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{err: errors.New("boom")}
	s := New(f, client, fakePrefs{}, testOptions())
	defer s.Close()

	s.NoteInput()

	require.Eventually(t, func() bool { return client.polishCount() == 1 },
		2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "", f.Value(form.FieldSummarySuggestion))
	assert.Empty(t, s.Suggestions().Skills)
}

func TestCoverFlow_DebouncesAndDistributes(t *testing.T) {
	f := form.New(form.CoverFields()...)
	client := &fakeClient{coverResp: builder.CoverPolishResponse{
		CoverLetterSuggested: "Dear Hiring Manager,",
	}}
	s := New(f, client, fakePrefs{}, testOptions())
	defer s.Close()

	for i := 0; i < 4; i++ {
		s.NoteCoverInput()
	}

	require.Eventually(t, func() bool {
		return f.Value(form.FieldCoverSuggestion) == "Dear Hiring Manager,"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, client.coverCount())
}

func TestCoverAutoApply_IndependentToggle(t *testing.T) {
	f := form.New(form.CoverFields()...)
	client := &fakeClient{coverResp: builder.CoverPolishResponse{
		CoverLetterSuggested: "Dear Hiring Manager,",
	}}
	s := New(f, client, fakePrefs{prefs.KeyCoverLetter: true}, testOptions())
	defer s.Close()

	s.NoteCoverInput()

	require.Eventually(t, func() bool {
		return f.Value(form.FieldCoverLetter) == "Dear Hiring Manager,"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestApplySummarySuggestion_ManualApply(t *testing.T) {
	f := newResumeForm(t)
	s := New(f, &fakeClient{}, fakePrefs{}, testOptions())
	defer s.Close()

	s.ApplySummarySuggestion()
	assert.Equal(t, "", f.Value(form.FieldSummary), "empty suggestion is a no-op")

	require.True(t, f.SetValue(form.FieldSummarySuggestion, "  Polished summary  "))
	s.ApplySummarySuggestion()
	assert.Equal(t, "Polished summary", f.Value(form.FieldSummary))
}

func TestClose_StopsPendingWork(t *testing.T) {
	f := newResumeForm(t)
	client := &fakeClient{}
	s := New(f, client, fakePrefs{}, testOptions())

	s.NoteInput()
	s.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, client.polishCount())

	// Calls after Close are ignored.
	s.NoteInput()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, client.polishCount())
}
