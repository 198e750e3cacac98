package polish

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/builder"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
)

// Service produces polish responses for the resume and cover-letter
// endpoints. With a nil LLM client it runs heuristics only; with one
// configured, LLM output is schema-validated and merged over the
// heuristic base, and any LLM failure degrades to the heuristic result.
type Service struct {
	llm llm.Client
}

// NewService creates a polish service. client may be nil.
func NewService(client llm.Client) *Service {
	return &Service{llm: client}
}

// Polish builds a suggestion set for the resume payload.
func (s *Service) Polish(ctx context.Context, payload builder.ResumePayload) (*builder.PolishResponse, error) {
	resp, err := heuristicPolish(ctx, payload)
	if err != nil {
		return nil, err
	}

	if s.llm != nil {
		if enriched := s.enrichPolish(ctx, payload); enriched != nil {
			mergePolish(resp, enriched)
		}
	}
	return resp, nil
}

// heuristicPolish computes the deterministic suggestion set. Per-job
// bullet rewrites fan out across jobs.
func heuristicPolish(ctx context.Context, payload builder.ResumePayload) (*builder.PolishResponse, error) {
	resp := &builder.PolishResponse{
		PolishedSummary: GenerateSummary(payload.TargetTitle, payload.YearsExp, payload.Strengths, payload.Wins),
		Bullets:         RewriteBullets(builder.SplitWins(payload.Wins)),
		SkillsSuggested: strings.Split(FallbackSkills(payload.TargetTitle, joinSkillInputs(payload)), ", "),
	}

	var allBullets []string
	for _, job := range payload.Jobs {
		allBullets = append(allBullets, job.Bullets...)
	}
	resp.MetricHints = MetricHints(allBullets)

	resp.JobsSuggestions = make([][]string, len(payload.Jobs))
	g, _ := errgroup.WithContext(ctx)
	for i, job := range payload.Jobs {
		g.Go(func() error {
			resp.JobsSuggestions[i] = RewriteBullets(job.Bullets)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

// joinSkillInputs merges the skills and strengths fields so existing
// user skills survive into the suggestion.
func joinSkillInputs(payload builder.ResumePayload) string {
	switch {
	case payload.Skills != "" && payload.Strengths != "":
		return payload.Skills + ", " + payload.Strengths
	case payload.Skills != "":
		return payload.Skills
	default:
		return payload.Strengths
	}
}

// enrichPolish asks the LLM for a suggestion set. Any failure is
// logged and yields nil so the heuristic result stands alone.
func (s *Service) enrichPolish(ctx context.Context, payload builder.ResumePayload) *builder.PolishResponse {
	jobsJSON, err := builder.EncodeJobsJSON(payload.Jobs)
	if err != nil {
		log.Printf("[polish] failed to encode jobs for prompt: %v", err)
		return nil
	}

	template, err := prompts.Get("polish.json", "resume_polish")
	if err != nil {
		log.Printf("[polish] prompt unavailable: %v", err)
		return nil
	}

	prompt := prompts.Format(template, map[string]string{
		"TargetTitle": payload.TargetTitle,
		"YearsExp":    payload.YearsExp,
		"Strengths":   payload.Strengths,
		"Wins":        payload.Wins,
		"Summary":     payload.Summary,
		"Skills":      payload.Skills,
		"JobsJSON":    jobsJSON,
	})

	raw, err := s.llm.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("[polish] LLM generation failed: %v", err)
		return nil
	}

	if err := schemas.Validate(schemas.PolishResponseSchema, raw); err != nil {
		log.Printf("[polish] LLM output rejected: %v", err)
		return nil
	}

	var enriched builder.PolishResponse
	if err := json.Unmarshal([]byte(raw), &enriched); err != nil {
		log.Printf("[polish] LLM output undecodable: %v", err)
		return nil
	}
	return &enriched
}

// mergePolish overlays non-empty enriched fields onto the base
// response. Per-job suggestions are taken only when the job count
// matches, so suggestions stay aligned with card positions.
func mergePolish(base, enriched *builder.PolishResponse) {
	if strings.TrimSpace(enriched.PolishedSummary) != "" {
		base.PolishedSummary = enriched.PolishedSummary
	}
	if len(enriched.Bullets) > 0 {
		base.Bullets = enriched.Bullets
	}
	if len(enriched.SkillsSuggested) > 0 {
		base.SkillsSuggested = enriched.SkillsSuggested
	}
	if len(enriched.MetricHints) > 0 {
		base.MetricHints = enriched.MetricHints
	}
	if len(enriched.JobsSuggestions) == len(base.JobsSuggestions) {
		base.JobsSuggestions = enriched.JobsSuggestions
	}
}
