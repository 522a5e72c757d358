package export

import (
	"context"
	"strings"
	"time"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
	"resume-builder/internal/templates"
)

// Documents loads a resume owned by a user.
type Documents interface {
	Get(ctx context.Context, userID, resumeID string) (resumes.Resume, error)
}

// Renderer produces the HTML page of a resume.
type Renderer interface {
	Render(ctx context.Context, doc resumes.Resume, mode templates.Mode) ([]byte, error)
}

// Result is a printed resume.
type Result struct {
	PDF      []byte
	Pages    int
	Filename string
}

type Service struct {
	Docs     Documents
	Renderer Renderer
	Printer  Printer
}

func NewService(docs Documents, renderer Renderer, printer Printer) *Service {
	return &Service{Docs: docs, Renderer: renderer, Printer: printer}
}

// Export renders the resume in view mode and prints it.
func (s *Service) Export(ctx context.Context, userID, resumeID string) (Result, error) {
	doc, err := s.Docs.Get(ctx, userID, resumeID)
	if err != nil {
		return Result{}, err
	}
	page, err := s.Renderer.Render(ctx, doc, templates.ModeView)
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	out, err := s.Printer.PrintPDF(ctx, page, "#"+templates.RootID)
	if err != nil {
		telemetry.Error("export.print_failed", map[string]any{"resume_id": resumeID, "error": err.Error()})
		return Result{}, err
	}
	pages, err := PageCount(out)
	if err != nil {
		return Result{}, err
	}
	telemetry.Info("export.printed", map[string]any{
		"resume_id":   resumeID,
		"template_id": doc.TemplateID,
		"pages":       pages,
		"bytes":       len(out),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return Result{PDF: out, Pages: pages, Filename: filename(doc)}, nil
}

func filename(doc resumes.Resume) string {
	base := strings.TrimSpace(doc.PersonalInfo.FullName)
	if base == "" {
		base = doc.Title
	}
	base = strings.Join(strings.Fields(base), "_")
	name, err := util.SanitizeFileName(base)
	if err != nil {
		return "resume.pdf"
	}
	return name + "_resume.pdf"
}
