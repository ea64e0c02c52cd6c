package service

import (
	"context"

	"github.com/avendriel/accord/internal/domain"
)

// TemplateService manages saved draft skeletons. Templates pre-fill a
// fresh wizard draft; they never carry parties or a start date.
type TemplateService interface {
	List(ctx context.Context) ([]*domain.Template, error)
	// Get resolves a template by ID first, then by name.
	Get(ctx context.Context, ref string) (*domain.Template, error)
	SaveFromDraft(ctx context.Context, name string, d *domain.Draft) (*domain.Template, error)
	Delete(ctx context.Context, ref string) error
	// ApplyToDraft copies the template's fields onto the draft. Line
	// items get fresh IDs so edits never alias the stored template.
	ApplyToDraft(t *domain.Template, d *domain.Draft)
}
