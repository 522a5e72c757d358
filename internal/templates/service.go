package templates

import (
	"context"
	"errors"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
)

// Service resolves descriptors and renders resumes with them.
type Service struct {
	Catalog  Catalog
	Renderer *Renderer
}

func NewService(catalog Catalog) (*Service, error) {
	r, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Service{Catalog: catalog, Renderer: r}, nil
}

func (s *Service) List(ctx context.Context) ([]Descriptor, error) {
	return s.Catalog.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Descriptor, error) {
	return s.Catalog.Get(ctx, id)
}

// Exists reports whether id is in the catalog.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Catalog.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Render renders doc with its template. A template id that has since left
// the catalog renders with the default template.
func (s *Service) Render(ctx context.Context, doc resumes.Resume, mode Mode) ([]byte, error) {
	d, err := s.Catalog.Get(ctx, doc.TemplateID)
	if errors.Is(err, ErrNotFound) && doc.TemplateID != resumes.DefaultTemplateID {
		telemetry.Warn("templates.fallback_default", map[string]any{
			"resume_id":   doc.ID,
			"template_id": doc.TemplateID,
		})
		d, err = s.Catalog.Get(ctx, resumes.DefaultTemplateID)
	}
	if err != nil {
		return nil, err
	}
	return s.Renderer.RenderHTML(doc, d, mode)
}

var _ resumes.TemplateLookup = (*Service)(nil)
