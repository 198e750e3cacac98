package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/builder"
	"github.com/jonathan/resume-builder/internal/polish"
	"github.com/jonathan/resume-builder/internal/render"
)

// PolishRequest is the request body for /polish.
type PolishRequest struct {
	FullName    string             `json:"full_name" validate:"max=200"`
	Email       string             `json:"email" validate:"omitempty,email"`
	Phone       string             `json:"phone" validate:"max=50"`
	TargetTitle string             `json:"target_title" validate:"max=200"`
	YearsExp    string             `json:"years_exp" validate:"max=20"`
	Strengths   string             `json:"strengths"`
	Wins        string             `json:"wins"`
	Summary     string             `json:"summary"`
	Skills      string             `json:"skills"`
	Jobs        []builder.JobEntry `json:"jobs" validate:"max=6"`
}

func (req PolishRequest) payload() builder.ResumePayload {
	return builder.ResumePayload{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		TargetTitle: req.TargetTitle,
		YearsExp:    req.YearsExp,
		Strengths:   req.Strengths,
		Wins:        req.Wins,
		Summary:     req.Summary,
		Skills:      req.Skills,
		Jobs:        req.Jobs,
	}
}

// CoverRequest is the request body for /polish_cover.
type CoverRequest struct {
	FullName     string `json:"full_name" validate:"max=200"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=50"`
	Company      string `json:"company" validate:"max=200"`
	Manager      string `json:"manager" validate:"max=200"`
	Role         string `json:"role" validate:"max=200"`
	Source       string `json:"source"`
	Strengths    string `json:"strengths"`
	Achievements string `json:"achievements"`
	WhyCompany   string `json:"why_company"`
	ClosingNote  string `json:"closing_note"`
	Tone         string `json:"tone" validate:"omitempty,oneof=professional friendly direct"`
	Letter       string `json:"letter"`
}

func (req CoverRequest) payload() builder.CoverPayload {
	return builder.CoverPayload{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		Manager:      req.Manager,
		Role:         req.Role,
		Source:       req.Source,
		Strengths:    req.Strengths,
		Achievements: req.Achievements,
		WhyCompany:   req.WhyCompany,
		ClosingNote:  req.ClosingNote,
		Tone:         builder.NormalizeTone(req.Tone),
		Letter:       req.Letter,
	}
}

// handleIndex serves the builder page.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Index(w); err != nil {
		log.Printf("Error rendering index: %v", err)
	}
}

// handleCoverPage serves the cover-letter page.
func (s *Server) handleCoverPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Cover(w); err != nil {
		log.Printf("Error rendering cover page: %v", err)
	}
}

// handleBuild renders the result page from the submitted form. Blank
// summary and skills fields are filled in with generated content.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid form body: "+err.Error())
		return
	}

	if strings.TrimSpace(r.PostFormValue("full_name")) == "" {
		s.errorResponse(w, http.StatusBadRequest, "full_name is required")
		return
	}
	if strings.TrimSpace(r.PostFormValue("email")) == "" {
		s.errorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	data := resumeDataFromValues(r.PostForm)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Result(w, data); err != nil {
		log.Printf("Error rendering result: %v", err)
	}
}

// handleDownloadPDF prints the result page to PDF via headless Chrome.
func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid form body: "+err.Error())
		return
	}

	data := render.ResumeData{
		FullName:       r.PostFormValue("full_name"),
		Email:          r.PostFormValue("email"),
		Phone:          r.PostFormValue("phone"),
		Summary:        r.PostFormValue("summary"),
		SkillsLine:     r.PostFormValue("skills_line"),
		Wins:           builder.SplitJoinedWins(r.PostFormValue("wins_joined")),
		Jobs:           builder.DecodeJobsJSON(r.PostFormValue("jobs_json")),
		TemplateChoice: r.PostFormValue("template"),
		FontFamily:     r.PostFormValue("font_family"),
		PageLimit:      r.PostFormValue("page_limit"),
	}

	var buf bytes.Buffer
	if err := render.Print(&buf, data); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to render resume: "+err.Error())
		return
	}

	pdf, err := render.PDF(r.Context(), buf.String(), s.pdfTimeout)
	if err != nil {
		log.Printf("PDF rendering failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume_preview.pdf"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	if _, err := w.Write(pdf); err != nil {
		log.Printf("Error writing PDF response: %v", err)
	}
}

// handlePolish returns resume suggestions for the submitted payload.
func (s *Server) handlePolish(w http.ResponseWriter, r *http.Request) {
	var req PolishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resp, err := s.polisher.Polish(r.Context(), req.payload())
	if err != nil {
		log.Printf("Polish failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to polish resume")
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handlePolishCover returns a cover-letter suggestion for the
// submitted payload.
func (s *Server) handlePolishCover(w http.ResponseWriter, r *http.Request) {
	var req CoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	resp, err := s.polisher.PolishCover(r.Context(), req.payload())
	if err != nil {
		log.Printf("Cover polish failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to polish cover letter")
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSwap returns the preview fragment for the current selector and
// content state carried in the query string.
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	data := resumeDataFromValues(r.URL.Query())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Fragment(w, data); err != nil {
		log.Printf("Error rendering preview fragment: %v", err)
	}
}

// resumeDataFromValues shapes form or query values into template data,
// generating summary and skills when the fields are blank.
func resumeDataFromValues(values url.Values) render.ResumeData {
	targetTitle := values.Get("target_title")
	yearsExp := values.Get("years_exp")
	strengths := values.Get("strengths")
	winsRaw := values.Get("wins")

	summary := strings.TrimSpace(values.Get("summary"))
	if summary == "" {
		summary = polish.GenerateSummary(targetTitle, yearsExp, strengths, winsRaw)
	}

	skills := strings.TrimSpace(values.Get("skills"))
	if skills == "" {
		skills = polish.FallbackSkills(targetTitle, strengths)
	} else {
		skills = builder.CleanCommas(skills)
	}

	wins := builder.SplitWins(winsRaw)
	jobs := builder.DecodeJobsJSON(values.Get("jobs_json"))
	jobsJSON, _ := builder.EncodeJobsJSON(jobs)

	return render.ResumeData{
		FullName:       values.Get("full_name"),
		Email:          values.Get("email"),
		Phone:          values.Get("phone"),
		Summary:        summary,
		SkillsLine:     skills,
		Wins:           wins,
		WinsJoined:     builder.JoinWins(wins),
		Jobs:           jobs,
		JobsJSON:       jobsJSON,
		TemplateChoice: values.Get("template"),
		FontFamily:     values.Get("font_family"),
		PageLimit:      values.Get("page_limit"),
	}
}

// extractValidationErrors extracts a readable message from validator
// errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
