// Package preview implements the preview swap engine: template, font,
// and page-limit selections are mirrored into the live-preview and
// download form states, and template or font changes re-render the
// preview fragment via the backend's swap endpoint.
package preview

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-builder/internal/form"
)

// DefaultDebounceDelay is the quiet period between a selector change
// and the swap request.
const DefaultDebounceDelay = 250 * time.Millisecond

// SwapClient is the backend surface the swapper depends on.
type SwapClient interface {
	Swap(ctx context.Context, query url.Values) (string, error)
}

// Options configures the swapper.
type Options struct {
	DebounceDelay time.Duration
}

// DefaultOptions returns the production timings.
func DefaultOptions() *Options {
	return &Options{DebounceDelay: DefaultDebounceDelay}
}

// Swapper mirrors formatting selections into two hidden forms and keeps
// the preview container in sync. Cycle state machine: Idle ->
// Requesting (overlay on) -> Success (container replaced, overlay off)
// or Failure (container unchanged, overlay off).
type Swapper struct {
	live     *form.Form
	download *form.Form
	client   SwapClient
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	timer     *time.Timer
	seq       uint64
	applied   uint64
	overlay   bool
	container string
	closed    bool
}

// New creates a swapper over the live-preview and download forms.
func New(live, download *form.Form, client SwapClient, opts *Options) *Swapper {
	if opts == nil {
		opts = DefaultOptions()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Swapper{
		live:     live,
		download: download,
		client:   client,
		opts:     *opts,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnSelectorChange mirrors a changed selector value into both hidden
// forms. Template and font changes additionally schedule a debounced
// re-render; page-limit changes only resync the hidden fields.
func (s *Swapper) OnSelectorChange(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.live.SetValue(field, value)
	s.download.SetValue(field, value)

	if field != form.FieldTemplate && field != form.FieldFontFamily {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.opts.DebounceDelay, s.requestSwap)
}

// Container returns the preview container's current markup.
func (s *Swapper) Container() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.container
}

// SetContainer seeds the container with server-rendered markup.
func (s *Swapper) SetContainer(markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.container = markup
}

// OverlayVisible reports whether the transition overlay is shown.
func (s *Swapper) OverlayVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay
}

// Close stops pending work and drops in-flight responses.
func (s *Swapper) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.overlay = false
}

// requestSwap issues the swap request with the live form's fields as
// query parameters. A failure leaves the container untouched and only
// clears the overlay.
func (s *Swapper) requestSwap() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	query := url.Values{}
	for name, value := range s.live.Fields() {
		query.Set(name, value)
	}
	s.seq++
	seq := s.seq
	s.overlay = true
	ctx := s.ctx
	s.mu.Unlock()

	fragment, err := s.client.Swap(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.overlay = false
	if err != nil {
		log.Printf("[swap] preview swap failed: %v", err)
		return
	}
	if seq < s.applied {
		return
	}
	s.applied = seq
	s.container = SanitizeFragment(fragment)
}

// SanitizeFragment strips script, style, and noscript nodes from a
// markup fragment before it is inserted into the container. On parse
// failure the fragment is returned unchanged.
func SanitizeFragment(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	doc.Find("script, style, noscript").Remove()

	html, err := doc.Find("body").Html()
	if err != nil {
		return fragment
	}
	return html
}
