// Package builder provides the data model and pure transforms for the
// resume builder: job entries, resume and cover-letter payloads, and the
// text shaping applied to free-form field input. Nothing in this package
// performs I/O.
package builder

import "encoding/json"

// MaxJobs is the maximum number of job entries carried in a resume payload.
const MaxJobs = 6

// MaxBulletsPerJob is the maximum number of bullets kept per job entry.
const MaxBulletsPerJob = 8

// JobEntry represents one work-experience entry collected from a job card.
type JobEntry struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Dates    string   `json:"dates"`
	Bullets  []string `json:"bullets"`
}

// ResumePayload aggregates the resume form state sent to /polish.
// It is rebuilt from current field values on every input and never persisted.
type ResumePayload struct {
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	TargetTitle string     `json:"target_title"`
	YearsExp    string     `json:"years_exp"`
	Strengths   string     `json:"strengths"`
	Wins        string     `json:"wins"`
	Summary     string     `json:"summary"`
	Skills      string     `json:"skills"`
	Jobs        []JobEntry `json:"jobs"`
}

// Tone selects the voice used for cover-letter suggestions.
type Tone string

// Supported cover-letter tones.
const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneDirect       Tone = "direct"
)

// NormalizeTone maps arbitrary input to a supported tone, defaulting to
// professional.
func NormalizeTone(s string) Tone {
	switch Tone(s) {
	case ToneFriendly, ToneDirect:
		return Tone(s)
	default:
		return ToneProfessional
	}
}

// CoverPayload aggregates the cover-letter form state sent to /polish_cover.
type CoverPayload struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Manager      string `json:"manager"`
	Role         string `json:"role"`
	Source       string `json:"source"`
	Strengths    string `json:"strengths"`
	Achievements string `json:"achievements"`
	WhyCompany   string `json:"why_company"`
	ClosingNote  string `json:"closing_note"`
	Tone         Tone   `json:"tone"`
	Letter       string `json:"letter"`
}

// PolishResponse is the /polish response body. Every field is optional;
// absent or malformed fields decode to their zero value rather than
// failing the whole response.
type PolishResponse struct {
	PolishedSummary string     `json:"polished_summary"`
	Bullets         []string   `json:"bullets"`
	SkillsSuggested []string   `json:"skills_suggested"`
	MetricHints     []string   `json:"metric_hints"`
	JobsSuggestions [][]string `json:"jobs_suggestions"`
}

// UnmarshalJSON decodes each field independently so that a single
// wrong-typed field (e.g. a string where an array is expected) degrades
// to empty instead of rejecting the suggestions that did arrive.
func (p *PolishResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = PolishResponse{}
	tryField(raw, "polished_summary", &p.PolishedSummary)
	tryField(raw, "bullets", &p.Bullets)
	tryField(raw, "skills_suggested", &p.SkillsSuggested)
	tryField(raw, "metric_hints", &p.MetricHints)
	tryField(raw, "jobs_suggestions", &p.JobsSuggestions)
	return nil
}

// tryField unmarshals raw[key] into dst, leaving dst untouched on any
// decode error.
func tryField[T any](raw map[string]json.RawMessage, key string, dst *T) {
	msg, ok := raw[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return
	}
	*dst = v
}

// CoverPolishResponse is the /polish_cover response body.
type CoverPolishResponse struct {
	CoverLetterSuggested string `json:"cover_letter_suggested"`
}
