// Package form provides an in-memory stand-in for the builder page's
// input fields. The same engine code runs against multiple page variants
// (resume builder vs cover letter) where many fields are absent, so every
// read of a missing field yields an empty string and every write to one
// is a no-op; absence never errors.
package form

import (
	"sync"

	"github.com/jonathan/resume-builder/internal/builder"
)

// MaxCards is the maximum number of job cards the page allows at once.
const MaxCards = 3

// Canonical field names shared by the page, the synchronizer, and the
// preview engine.
const (
	FieldFullName    = "full_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldTargetTitle = "target_title"
	FieldYearsExp    = "years_exp"
	FieldStrengths   = "strengths"
	FieldWins        = "wins"
	FieldSummary     = "summary"
	FieldSkills      = "skills"
	FieldJobsJSON    = "jobs_json"

	FieldCoverCompany      = "cover_company"
	FieldCoverManager      = "cover_manager"
	FieldCoverRole         = "cover_role"
	FieldCoverSource       = "cover_source"
	FieldCoverStrengths    = "cover_strengths"
	FieldCoverAchievements = "cover_achievements"
	FieldCoverWhyCompany   = "cover_why_company"
	FieldCoverClosingNote  = "cover_closing_note"
	FieldCoverTone         = "cover_tone"
	FieldCoverLetter       = "cover_letter"

	FieldSummarySuggestion = "summary_suggestion"
	FieldCoverSuggestion   = "cover_letter_suggestion"

	FieldTemplate   = "template"
	FieldFontFamily = "font_family"
	FieldPageLimit  = "page_limit"
)

// Form holds the current value of every field present on a page variant,
// plus its job cards. It is safe for concurrent use.
type Form struct {
	mu     sync.RWMutex
	fields map[string]string
	cards  []builder.JobCard
}

// New creates a form exposing only the named fields; all start empty.
// Fields not listed behave as absent page elements.
func New(fieldNames ...string) *Form {
	fields := make(map[string]string, len(fieldNames))
	for _, name := range fieldNames {
		fields[name] = ""
	}
	return &Form{fields: fields}
}

// Has reports whether the field exists on this page variant.
func (f *Form) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.fields[name]
	return ok
}

// Value returns the field's current value, or "" when the field is
// absent.
func (f *Form) Value(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.fields[name]
}

// SetValue writes the field and reports whether the field exists.
// Writes to absent fields are dropped.
func (f *Form) SetValue(name, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.fields[name]; !ok {
		return false
	}
	f.fields[name] = value
	return true
}

// Fields returns a copy of every field and its current value.
func (f *Form) Fields() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.fields))
	for name, value := range f.fields {
		out[name] = value
	}
	return out
}

// Cards returns a copy of the current job cards in page order.
func (f *Form) Cards() []builder.JobCard {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]builder.JobCard, len(f.cards))
	copy(out, f.cards)
	return out
}

// AddCard appends a new empty job card and returns its index. The
// second return is false when the card limit is reached.
func (f *Form) AddCard() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cards) >= MaxCards {
		return -1, false
	}
	f.cards = append(f.cards, builder.JobCard{})
	return len(f.cards) - 1, true
}

// RemoveCard deletes the card at index i, shifting later cards down.
func (f *Form) RemoveCard(i int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.cards) {
		return false
	}
	f.cards = append(f.cards[:i], f.cards[i+1:]...)
	return true
}

// SetCard replaces the card at index i.
func (f *Form) SetCard(i int, card builder.JobCard) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.cards) {
		return false
	}
	f.cards[i] = card
	return true
}

// SetCardBullets replaces only the bullets text of the card at index i.
// Used when a per-job suggestion is applied.
func (f *Form) SetCardBullets(i int, bulletsText string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.cards) {
		return false
	}
	f.cards[i].BulletsText = bulletsText
	return true
}

// ResumeFields returns the field set of the resume builder page.
func ResumeFields() []string {
	return []string{
		FieldFullName, FieldEmail, FieldPhone,
		FieldTargetTitle, FieldYearsExp, FieldStrengths, FieldWins,
		FieldSummary, FieldSkills, FieldJobsJSON,
		FieldSummarySuggestion,
		FieldTemplate, FieldFontFamily, FieldPageLimit,
	}
}

// CoverFields returns the field set of the cover-letter page.
func CoverFields() []string {
	return []string{
		FieldFullName, FieldEmail, FieldPhone,
		FieldCoverCompany, FieldCoverManager, FieldCoverRole, FieldCoverSource,
		FieldCoverStrengths, FieldCoverAchievements, FieldCoverWhyCompany,
		FieldCoverClosingNote, FieldCoverTone, FieldCoverLetter,
		FieldCoverSuggestion,
	}
}
