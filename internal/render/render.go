// Package render produces the builder's HTML: the form pages, the
// resume result pages, and the preview fragment returned by the swap
// endpoint. Templates are embedded at compile time.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/builder"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Template choices offered by the selector.
const (
	TemplateClassic = "classic"
	TemplateModern  = "modern"
	TemplateCompact = "compact"
)

// DefaultFontFamily is used when the font selector carries no value.
const DefaultFontFamily = "Georgia"

// PickTemplate normalizes a template selection, falling back to
// classic for anything unknown.
func PickTemplate(choice string) string {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case TemplateModern:
		return TemplateModern
	case TemplateCompact:
		return TemplateCompact
	default:
		return TemplateClassic
	}
}

// PickPageLimit normalizes the page-limit selection to "1" or "2".
func PickPageLimit(choice string) string {
	if strings.TrimSpace(choice) == "2" {
		return "2"
	}
	return "1"
}

// ResumeData carries everything the result and preview templates need.
type ResumeData struct {
	FullName       string
	Email          string
	Phone          string
	TemplateChoice string
	FontFamily     string
	PageLimit      string
	Summary        string
	SkillsLine     string
	Wins           []string
	WinsJoined     string
	Jobs           []builder.JobEntry
	JobsJSON       string
}

// Normalize fills defaults and clamps choice fields in place.
func (d *ResumeData) Normalize() {
	d.TemplateChoice = PickTemplate(d.TemplateChoice)
	d.PageLimit = PickPageLimit(d.PageLimit)
	if strings.TrimSpace(d.FontFamily) == "" {
		d.FontFamily = DefaultFontFamily
	}
}

// Index writes the builder page.
func Index(w io.Writer) error {
	return pages.ExecuteTemplate(w, "index.html", nil)
}

// Cover writes the cover-letter page.
func Cover(w io.Writer) error {
	return pages.ExecuteTemplate(w, "cover.html", nil)
}

// Result writes the full result page for the chosen template.
func Result(w io.Writer, data ResumeData) error {
	data.Normalize()
	name := fmt.Sprintf("result_%s.html", data.TemplateChoice)
	return pages.ExecuteTemplate(w, name, data)
}

// Fragment writes the bare preview fragment inserted into the swap
// container.
func Fragment(w io.Writer, data ResumeData) error {
	data.Normalize()
	return pages.ExecuteTemplate(w, "preview.html", data)
}

// Print writes the standalone page handed to the PDF printer. It
// carries the resume content only, without the download form.
func Print(w io.Writer, data ResumeData) error {
	data.Normalize()
	return pages.ExecuteTemplate(w, "pdf.html", data)
}
