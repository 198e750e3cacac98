package polish

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-builder/internal/builder"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
)

// PolishCover builds a suggested cover letter for the payload.
func (s *Service) PolishCover(ctx context.Context, payload builder.CoverPayload) (*builder.CoverPolishResponse, error) {
	resp := &builder.CoverPolishResponse{
		CoverLetterSuggested: ComposeCoverLetter(payload),
	}

	if s.llm != nil {
		if enriched := s.enrichCover(ctx, payload); enriched != "" {
			resp.CoverLetterSuggested = enriched
		}
	}
	return resp, nil
}

// ComposeCoverLetter assembles a letter from the form fields, with the
// greeting and closing shaped by tone. Empty fields drop their
// sentences rather than leaving holes.
func ComposeCoverLetter(payload builder.CoverPayload) string {
	tone := builder.NormalizeTone(string(payload.Tone))

	role := strings.TrimSpace(payload.Role)
	if role == "" {
		role = "this role"
	}
	company := strings.TrimSpace(payload.Company)
	if company == "" {
		company = "your company"
	}

	var paragraphs []string

	paragraphs = append(paragraphs, greeting(tone, payload.Manager))

	opening := fmt.Sprintf("I am writing to apply for %s at %s.", role, company)
	if src := strings.TrimSpace(payload.Source); src != "" {
		opening += fmt.Sprintf(" I found the opening through %s.", src)
	}
	paragraphs = append(paragraphs, opening)

	var middle []string
	if strg := builder.CleanCommas(payload.Strengths); strg != "" {
		middle = append(middle, fmt.Sprintf("My strengths include %s.", strg))
	}
	if ach := strings.TrimSpace(payload.Achievements); ach != "" {
		middle = append(middle, fmt.Sprintf("Highlights from my experience: %s.", strings.TrimRight(ach, ".")))
	}
	if len(middle) > 0 {
		paragraphs = append(paragraphs, strings.Join(middle, " "))
	}

	if why := strings.TrimSpace(payload.WhyCompany); why != "" {
		paragraphs = append(paragraphs, fmt.Sprintf("%s appeals to me because %s.", company, strings.TrimRight(why, ".")))
	}

	closingPara := closing(tone)
	if note := strings.TrimSpace(payload.ClosingNote); note != "" {
		closingPara = note + " " + closingPara
	}
	paragraphs = append(paragraphs, closingPara)

	signOff := "Sincerely,"
	if tone == builder.ToneFriendly {
		signOff = "Best regards,"
	}
	name := strings.TrimSpace(payload.FullName)
	if name == "" {
		name = "Applicant"
	}
	paragraphs = append(paragraphs, signOff+"\n"+name)

	return strings.Join(paragraphs, "\n\n")
}

// greeting returns the tone-appropriate salutation.
func greeting(tone builder.Tone, manager string) string {
	name := strings.TrimSpace(manager)
	switch tone {
	case builder.ToneFriendly:
		if name != "" {
			return fmt.Sprintf("Hello %s,", name)
		}
		return "Hello,"
	default:
		if name != "" {
			return fmt.Sprintf("Dear %s,", name)
		}
		return "Dear Hiring Manager,"
	}
}

// closing returns the tone-appropriate final line.
func closing(tone builder.Tone) string {
	switch tone {
	case builder.ToneDirect:
		return "I would welcome the chance to discuss how I can contribute. I am available to start promptly."
	case builder.ToneFriendly:
		return "Thank you for taking the time to read this - I would love to talk about how I can help the team."
	default:
		return "Thank you for your consideration. I look forward to the opportunity to discuss my qualifications."
	}
}

// enrichCover asks the LLM for a letter; any failure yields "" so the
// composed letter stands.
func (s *Service) enrichCover(ctx context.Context, payload builder.CoverPayload) string {
	template, err := prompts.Get("polish.json", "cover_polish")
	if err != nil {
		log.Printf("[polish] cover prompt unavailable: %v", err)
		return ""
	}

	prompt := prompts.Format(template, map[string]string{
		"Tone":        string(builder.NormalizeTone(string(payload.Tone))),
		"FullName":    payload.FullName,
		"Email":       payload.Email,
		"Phone":       payload.Phone,
		"Company":     payload.Company,
		"Manager":     payload.Manager,
		"Role":        payload.Role,
		"Source":      payload.Source,
		"Strengths":   payload.Strengths,
		"Achievements": payload.Achievements,
		"WhyCompany":  payload.WhyCompany,
		"ClosingNote": payload.ClosingNote,
		"Letter":      payload.Letter,
	})

	raw, err := s.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("[polish] cover LLM generation failed: %v", err)
		return ""
	}

	if err := schemas.Validate(schemas.CoverResponseSchema, raw); err != nil {
		log.Printf("[polish] cover LLM output rejected: %v", err)
		return ""
	}

	var enriched builder.CoverPolishResponse
	if err := json.Unmarshal([]byte(raw), &enriched); err != nil {
		log.Printf("[polish] cover LLM output undecodable: %v", err)
		return ""
	}
	return strings.TrimSpace(enriched.CoverLetterSuggested)
}
