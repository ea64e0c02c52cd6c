package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/repository"
)

type templateService struct {
	repo     repository.TemplateRepo
	observer UseCaseObserver
}

// NewTemplateService creates a TemplateService over the given store.
func NewTemplateService(repo repository.TemplateRepo, observers ...UseCaseObserver) TemplateService {
	return &templateService{
		repo:     repo,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *templateService) List(ctx context.Context) ([]*domain.Template, error) {
	templates, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return templates, nil
}

func (s *templateService) Get(ctx context.Context, ref string) (*domain.Template, error) {
	t, err := s.repo.GetByID(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		t, err = s.repo.GetByName(ctx, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving template '%s': %w", ref, err)
	}
	return t, nil
}

func (s *templateService) SaveFromDraft(ctx context.Context, name string, d *domain.Draft) (t *domain.Template, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "save-template",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"template": name},
		})
	}()

	if name == "" {
		return nil, fmt.Errorf("template name is required")
	}

	now := time.Now().UTC()
	t = &domain.Template{
		ID:             uuid.NewString(),
		Name:           name,
		Mode:           d.Mode,
		Classification: d.Classification,
		Acceptance:     d.Acceptance,
		BillingCycle:   d.BillingCycle,
		Duration:       d.Timeline.Duration,
		Grace:          d.Timeline.Grace,
		PaymentPlan:    domain.PaymentPlan{Kind: d.PaymentPlan.Kind, Installments: d.PaymentPlan.Installments},
		LineItems:      copyItems(d.LineItems),
		TaxRates:       append([]domain.TaxRate(nil), d.TaxRates...),
		Currency:       d.Currency,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err = s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("saving template '%s': %w", name, err)
	}
	return t, nil
}

func (s *templateService) Delete(ctx context.Context, ref string) error {
	t, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("deleting template '%s': %w", ref, err)
	}
	return nil
}

func (s *templateService) ApplyToDraft(t *domain.Template, d *domain.Draft) {
	d.TemplateID = t.ID
	d.Classification = t.Classification
	d.BillingCycle = t.BillingCycle
	d.Timeline.Duration = t.Duration
	d.Timeline.Grace = t.Grace
	d.PaymentPlan = domain.PaymentPlan{Kind: t.PaymentPlan.Kind, Installments: t.PaymentPlan.Installments}
	d.LineItems = copyItems(t.LineItems)
	d.TaxRates = append([]domain.TaxRate(nil), t.TaxRates...)
	if t.Currency != "" {
		d.Currency = t.Currency
	}
	// Acceptance never applies to a request for quotation.
	if d.Mode == domain.ModeAgreement {
		d.Acceptance = t.Acceptance
	}
	d.RecomputeTotals()
}

// copyItems deep-copies line items with fresh IDs.
func copyItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, li := range items {
		li.ID = uuid.NewString()
		out = append(out, li)
	}
	return out
}
