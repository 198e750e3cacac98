package builder

import (
	"encoding/json"
	"strings"
)

// JobCard holds the raw field values of one job card as they appear in
// the form, before any shaping.
type JobCard struct {
	Title       string
	Company     string
	Location    string
	Dates       string
	BulletsText string
}

// Empty reports whether every field of the card is blank or whitespace.
func (c JobCard) Empty() bool {
	return strings.TrimSpace(c.Title) == "" &&
		strings.TrimSpace(c.Company) == "" &&
		strings.TrimSpace(c.Location) == "" &&
		strings.TrimSpace(c.Dates) == "" &&
		strings.TrimSpace(c.BulletsText) == ""
}

// Entry shapes the card into a JobEntry, splitting the bullets text.
func (c JobCard) Entry() JobEntry {
	return JobEntry{
		Title:    strings.TrimSpace(c.Title),
		Company:  strings.TrimSpace(c.Company),
		Location: strings.TrimSpace(c.Location),
		Dates:    strings.TrimSpace(c.Dates),
		Bullets:  SplitBullets(c.BulletsText),
	}
}

// CollectJobs rebuilds the job list from the visible cards: cards with
// no content at all are skipped and the result is capped at MaxJobs.
func CollectJobs(cards []JobCard) []JobEntry {
	var jobs []JobEntry
	for _, card := range cards {
		if card.Empty() {
			continue
		}
		jobs = append(jobs, card.Entry())
		if len(jobs) == MaxJobs {
			break
		}
	}
	return jobs
}

// EncodeJobsJSON serializes a job list for the hidden jobs_json field
// consumed by standard form submission. An empty list encodes as "[]"
// so the field never carries "null".
func EncodeJobsJSON(jobs []JobEntry) (string, error) {
	if jobs == nil {
		jobs = []JobEntry{}
	}
	data, err := json.Marshal(jobs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeJobsJSON parses a jobs_json field value back into a job list.
// Blank or malformed input decodes to nil so a broken hidden field
// degrades to a resume without job entries. The result is capped at
// MaxJobs with bullets capped at MaxBulletsPerJob.
func DecodeJobsJSON(s string) []JobEntry {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var jobs []JobEntry
	if err := json.Unmarshal([]byte(s), &jobs); err != nil {
		return nil
	}
	if len(jobs) > MaxJobs {
		jobs = jobs[:MaxJobs]
	}
	for i := range jobs {
		if len(jobs[i].Bullets) > MaxBulletsPerJob {
			jobs[i].Bullets = jobs[i].Bullets[:MaxBulletsPerJob]
		}
	}
	return jobs
}
