// Package polish generates suggestions for the builder forms: polished
// summaries, skill lists, highlight bullets, metric hints, and cover
// letters. A deterministic heuristic core always produces a usable
// response; an optional LLM pass enriches it when configured.
package polish

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/builder"
)

// Common strong action verbs for resume bullets (heuristic check).
var strongVerbs = map[string]bool{
	"achieved": true, "built": true, "coached": true, "created": true,
	"cut": true, "delivered": true, "designed": true, "developed": true,
	"drove": true, "grew": true, "handled": true, "hired": true,
	"implemented": true, "improved": true, "increased": true, "launched": true,
	"led": true, "managed": true, "opened": true, "optimized": true,
	"ran": true, "reduced": true, "resolved": true, "scheduled": true,
	"supervised": true, "trained": true,
}

// weakOpeners maps filler bullet openings to a stronger verb.
var weakOpeners = []struct {
	prefix  string
	replace string
}{
	{"responsible for ", "Led "},
	{"in charge of ", "Led "},
	{"worked on ", "Delivered "},
	{"helped with ", "Supported "},
	{"helped ", "Supported "},
	{"duties included ", "Handled "},
	{"tasked with ", "Handled "},
}

var digitRe = regexp.MustCompile(`\d`)

// GenerateSummary builds a professional summary from the target title,
// years of experience, strengths, and wins when the user left the
// summary field empty.
func GenerateSummary(targetTitle, yearsExp, strengths, wins string) string {
	title := strings.TrimSpace(targetTitle)
	if title == "" {
		title = "Professional"
	}
	yrs := strings.TrimSpace(yearsExp)
	strg := builder.CleanCommas(strengths)
	winsList := builder.SplitWins(wins)

	var pieces []string

	if yrs != "" {
		pieces = append(pieces, fmt.Sprintf("%s with %s years of experience.", title, yrs))
	} else {
		pieces = append(pieces, fmt.Sprintf("%s with proven experience.", title))
	}

	if strg != "" {
		pieces = append(pieces, fmt.Sprintf("Strengths include %s.", strg))
	}

	if len(winsList) > 0 {
		firstTwo := winsList
		if len(firstTwo) > 2 {
			firstTwo = firstTwo[:2]
		}
		if len(firstTwo) == 1 {
			pieces = append(pieces, fmt.Sprintf("Known for %s.", firstTwo[0]))
		} else {
			pieces = append(pieces, fmt.Sprintf("Known for %s and %s.", firstTwo[0], firstTwo[1]))
		}
	}

	pieces = append(pieces, "Focused on reliable execution, clear communication, and strong results.")
	return strings.TrimSpace(strings.Join(pieces, " "))
}

// FallbackSkills builds a skills line when the user left the skills
// field empty: the user's strengths merged with a common set keyed off
// the target title, deduplicated case-insensitively.
func FallbackSkills(targetTitle, strengths string) string {
	base := builder.CleanCommas(strengths)
	t := strings.ToLower(targetTitle)

	var common []string
	switch {
	case strings.Contains(t, "manager") || strings.Contains(t, "area") || strings.Contains(t, "supervisor"):
		common = []string{
			"Team Leadership", "Coaching & Development", "Process Improvement",
			"Performance Tracking", "Safety & Compliance", "Problem Solving",
			"Shift Planning", "Communication",
		}
	case strings.Contains(t, "front desk") || strings.Contains(t, "hotel") || strings.Contains(t, "guest"):
		common = []string{
			"Customer Service", "Front Desk Operations", "Conflict Resolution",
			"Scheduling", "Cash Handling", "Communication", "Attention to Detail",
		}
	case strings.Contains(t, "it") || strings.Contains(t, "support") || strings.Contains(t, "help desk"):
		common = []string{
			"Troubleshooting", "Customer Support", "Ticketing",
			"Documentation", "Windows", "Networking Basics", "Communication",
		}
	default:
		common = []string{
			"Communication", "Problem Solving", "Time Management",
			"Teamwork", "Adaptability",
		}
	}

	joined := strings.Join(common, ", ")
	if base != "" {
		return builder.CleanCommas(base + ", " + joined)
	}
	return builder.CleanCommas(joined)
}

// RewriteBullet strengthens a single bullet: filler openings are
// replaced with an action verb, and the first letter is capitalized.
func RewriteBullet(bullet string) string {
	text := strings.TrimSpace(bullet)
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	for _, w := range weakOpeners {
		if strings.HasPrefix(lower, w.prefix) {
			text = w.replace + text[len(w.prefix):]
			break
		}
	}

	runes := []rune(text)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

// RewriteBullets applies RewriteBullet to each bullet, dropping
// empties.
func RewriteBullets(bullets []string) []string {
	var out []string
	for _, b := range bullets {
		if rewritten := RewriteBullet(b); rewritten != "" {
			out = append(out, rewritten)
		}
	}
	return out
}

// Quantified reports whether a bullet carries a number, percentage, or
// dollar amount.
func Quantified(bullet string) bool {
	return digitRe.MatchString(bullet) ||
		strings.ContainsAny(bullet, "%$")
}

// StartsWithStrongVerb reports whether the bullet opens with a known
// action verb.
func StartsWithStrongVerb(bullet string) bool {
	words := strings.Fields(strings.ToLower(bullet))
	if len(words) == 0 {
		return false
	}
	first := strings.TrimRight(words[0], ".,!?;:")
	return strongVerbs[first]
}

// MetricHints returns one tip per bullet that lacks quantified impact.
func MetricHints(bullets []string) []string {
	var hints []string
	for _, b := range bullets {
		b = strings.TrimSpace(b)
		if b == "" || Quantified(b) {
			continue
		}
		hints = append(hints, fmt.Sprintf("Add a number to show impact: %q", b))
	}
	return hints
}
