// Package syncer implements the form synchronization engine for the
// builder pages. On every tracked-field input it rebuilds the hidden
// jobs JSON, debounces a polish request, distributes suggestions from
// the response, and optionally auto-applies suggested text after a
// quiet period. All flow state lives behind a single mutex, the Go
// analog of the page's single event loop.
package syncer

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/builder"
	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/prefs"
)

// DefaultDebounceDelay is the quiet period after the last input before
// a polish request is sent.
const DefaultDebounceDelay = 600 * time.Millisecond

// DefaultAutoApplyDelay is the additional window the user gets to keep
// typing before a suggestion is written into the primary field.
const DefaultAutoApplyDelay = 1200 * time.Millisecond

// PolishClient is the backend surface the synchronizer depends on.
type PolishClient interface {
	Polish(ctx context.Context, payload builder.ResumePayload) (*builder.PolishResponse, error)
	PolishCover(ctx context.Context, payload builder.CoverPayload) (*builder.CoverPolishResponse, error)
}

// Prefs exposes the persisted auto-apply toggles.
type Prefs interface {
	AutoApply(key string) bool
}

// Options configures the synchronizer's timing.
type Options struct {
	DebounceDelay  time.Duration
	AutoApplyDelay time.Duration
}

// DefaultOptions returns the production timings.
func DefaultOptions() *Options {
	return &Options{
		DebounceDelay:  DefaultDebounceDelay,
		AutoApplyDelay: DefaultAutoApplyDelay,
	}
}

// Suggestions holds the latest suggestion state distributed from a
// polish response. Each successful response overwrites it wholesale;
// suggestions are never merged.
type Suggestions struct {
	Bullets     []string
	Skills      []string
	MetricHints []string
	Jobs        [][]string
}

// Synchronizer coordinates the resume and cover-letter polish flows
// for one page instance.
type Synchronizer struct {
	form   *form.Form
	client PolishClient
	prefs  Prefs
	opts   Options

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex

	// resume flow
	polishTimer   *time.Timer
	applyTimer    *time.Timer
	inputGen      uint64
	polishSeq     uint64
	polishApplied uint64
	suggestions   Suggestions

	// cover flow
	coverTimer        *time.Timer
	coverApplyTimer   *time.Timer
	coverInputGen     uint64
	coverSeq          uint64
	coverApplied      uint64

	closed bool
}

// New creates a synchronizer for the given form. prefs may not be nil;
// pass a store with everything off to disable auto-apply.
func New(f *form.Form, client PolishClient, p Prefs, opts *Options) *Synchronizer {
	if opts == nil {
		opts = DefaultOptions()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Synchronizer{
		form:   f,
		client: client,
		prefs:  p,
		opts:   *opts,
		ctx:    ctx,
		cancel: cancel,
	}
}

// CollectPayload reads the resume page's current field values into a
// payload. Missing fields read as empty strings; no validation.
func CollectPayload(f *form.Form) builder.ResumePayload {
	return builder.ResumePayload{
		FullName:    f.Value(form.FieldFullName),
		Email:       f.Value(form.FieldEmail),
		Phone:       f.Value(form.FieldPhone),
		TargetTitle: f.Value(form.FieldTargetTitle),
		YearsExp:    f.Value(form.FieldYearsExp),
		Strengths:   f.Value(form.FieldStrengths),
		Wins:        f.Value(form.FieldWins),
		Summary:     f.Value(form.FieldSummary),
		Skills:      f.Value(form.FieldSkills),
		Jobs:        builder.CollectJobs(f.Cards()),
	}
}

// CollectCoverPayload reads the cover-letter page's current field
// values into a payload.
func CollectCoverPayload(f *form.Form) builder.CoverPayload {
	return builder.CoverPayload{
		FullName:     f.Value(form.FieldFullName),
		Email:        f.Value(form.FieldEmail),
		Phone:        f.Value(form.FieldPhone),
		Company:      f.Value(form.FieldCoverCompany),
		Manager:      f.Value(form.FieldCoverManager),
		Role:         f.Value(form.FieldCoverRole),
		Source:       f.Value(form.FieldCoverSource),
		Strengths:    f.Value(form.FieldCoverStrengths),
		Achievements: f.Value(form.FieldCoverAchievements),
		WhyCompany:   f.Value(form.FieldCoverWhyCompany),
		ClosingNote:  f.Value(form.FieldCoverClosingNote),
		Tone:         builder.NormalizeTone(f.Value(form.FieldCoverTone)),
		Letter:       f.Value(form.FieldCoverLetter),
	}
}

// NoteInput records an edit on the resume page: the jobs JSON is
// resynced, any pending auto-apply is cancelled, and the polish
// request is (re)scheduled after the debounce delay.
func (s *Synchronizer) NoteInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.inputGen++
	stopTimer(&s.applyTimer)
	s.syncJobsLocked()

	stopTimer(&s.polishTimer)
	s.polishTimer = time.AfterFunc(s.opts.DebounceDelay, s.requestPolish)
}

// NoteCoverInput records an edit on the cover-letter page.
func (s *Synchronizer) NoteCoverInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.coverInputGen++
	stopTimer(&s.coverApplyTimer)

	stopTimer(&s.coverTimer)
	s.coverTimer = time.AfterFunc(s.opts.DebounceDelay, s.requestCoverPolish)
}

// SyncJobsJSON rebuilds the job list from the visible cards and writes
// it into the hidden jobs_json field, overwriting the previous value.
func (s *Synchronizer) SyncJobsJSON() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncJobsLocked()
}

func (s *Synchronizer) syncJobsLocked() {
	jobs := builder.CollectJobs(s.form.Cards())
	encoded, err := builder.EncodeJobsJSON(jobs)
	if err != nil {
		log.Printf("[sync] failed to encode jobs JSON: %v", err)
		return
	}
	s.form.SetValue(form.FieldJobsJSON, encoded)
}

// Suggestions returns a copy of the latest suggestion state.
func (s *Synchronizer) Suggestions() Suggestions {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Suggestions{
		Bullets:     append([]string(nil), s.suggestions.Bullets...),
		Skills:      append([]string(nil), s.suggestions.Skills...),
		MetricHints: append([]string(nil), s.suggestions.MetricHints...),
	}
	for _, jobBullets := range s.suggestions.Jobs {
		out.Jobs = append(out.Jobs, append([]string(nil), jobBullets...))
	}
	return out
}

// ApplySummarySuggestion writes the current summary suggestion into the
// summary field immediately (the explicit "apply" button path).
func (s *Synchronizer) ApplySummarySuggestion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := strings.TrimSpace(s.form.Value(form.FieldSummarySuggestion))
	if text == "" {
		return
	}
	s.form.SetValue(form.FieldSummary, text)
}

// ApplyCoverSuggestion writes the current cover-letter suggestion into
// the letter field immediately.
func (s *Synchronizer) ApplyCoverSuggestion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := strings.TrimSpace(s.form.Value(form.FieldCoverSuggestion))
	if text == "" {
		return
	}
	s.form.SetValue(form.FieldCoverLetter, text)
}

// ApplyJobSuggestion replaces job card i's bullets text with the
// suggested bullets for that card, then resynchronizes and schedules a
// fresh polish request.
func (s *Synchronizer) ApplyJobSuggestion(i int) bool {
	s.mu.Lock()
	if s.closed || i < 0 || i >= len(s.suggestions.Jobs) || len(s.suggestions.Jobs[i]) == 0 {
		s.mu.Unlock()
		return false
	}
	applied := s.form.SetCardBullets(i, builder.JoinBullets(s.suggestions.Jobs[i]))
	s.mu.Unlock()

	if applied {
		s.NoteInput()
	}
	return applied
}

// Close stops all pending timers and drops any in-flight responses.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	stopTimer(&s.polishTimer)
	stopTimer(&s.applyTimer)
	stopTimer(&s.coverTimer)
	stopTimer(&s.coverApplyTimer)
}

// requestPolish collects the current payload and issues the polish
// request. Failures of any kind are logged and dropped; the page just
// shows no suggestions.
func (s *Synchronizer) requestPolish() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	payload := CollectPayload(s.form)
	s.polishSeq++
	seq := s.polishSeq
	ctx := s.ctx
	s.mu.Unlock()

	resp, err := s.client.Polish(ctx, payload)
	if err != nil {
		log.Printf("[sync] polish request failed: %v", err)
		return
	}
	s.applyPolish(seq, resp)
}

// applyPolish distributes a polish response. Responses older than the
// last applied one are discarded, making "last request wins" an
// explicit guarantee rather than a race outcome.
func (s *Synchronizer) applyPolish(seq uint64, resp *builder.PolishResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq < s.polishApplied {
		return
	}
	s.polishApplied = seq

	s.form.SetValue(form.FieldSummarySuggestion, resp.PolishedSummary)
	s.suggestions = Suggestions{
		Bullets:     resp.Bullets,
		Skills:      resp.SkillsSuggested,
		MetricHints: resp.MetricHints,
		Jobs:        resp.JobsSuggestions,
	}

	if !s.prefs.AutoApply(prefs.KeyResumeSummary) {
		return
	}
	text := strings.TrimSpace(resp.PolishedSummary)
	if text == "" {
		return
	}

	gen := s.inputGen
	stopTimer(&s.applyTimer)
	s.applyTimer = time.AfterFunc(s.opts.AutoApplyDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.inputGen != gen {
			return
		}
		s.form.SetValue(form.FieldSummary, text)
	})
}

// requestCoverPolish mirrors requestPolish for the cover-letter flow.
func (s *Synchronizer) requestCoverPolish() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	payload := CollectCoverPayload(s.form)
	s.coverSeq++
	seq := s.coverSeq
	ctx := s.ctx
	s.mu.Unlock()

	resp, err := s.client.PolishCover(ctx, payload)
	if err != nil {
		log.Printf("[sync] cover polish request failed: %v", err)
		return
	}
	s.applyCoverPolish(seq, resp)
}

func (s *Synchronizer) applyCoverPolish(seq uint64, resp *builder.CoverPolishResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq < s.coverApplied {
		return
	}
	s.coverApplied = seq

	s.form.SetValue(form.FieldCoverSuggestion, resp.CoverLetterSuggested)

	if !s.prefs.AutoApply(prefs.KeyCoverLetter) {
		return
	}
	text := strings.TrimSpace(resp.CoverLetterSuggested)
	if text == "" {
		return
	}

	gen := s.coverInputGen
	stopTimer(&s.coverApplyTimer)
	s.coverApplyTimer = time.AfterFunc(s.opts.AutoApplyDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.coverInputGen != gen {
			return
		}
		s.form.SetValue(form.FieldCoverLetter, text)
	})
}

// stopTimer stops and clears a timer slot if one is pending.
func stopTimer(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
