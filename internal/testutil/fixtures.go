package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/avendriel/accord/internal/domain"
)

// RetainerTemplate returns a template resembling a typical managed
// services retainer.
func RetainerTemplate(name string) *domain.Template {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Template{
		ID:             uuid.NewString(),
		Name:           name,
		Mode:           domain.ModeAgreement,
		Classification: domain.ClassificationClient,
		Acceptance:     domain.AcceptanceSignOff,
		BillingCycle:   domain.BillingPerBlock,
		Duration:       domain.TimeSpan{Value: 12, Unit: domain.UnitMonths},
		Grace:          domain.TimeSpan{Value: 7, Unit: domain.UnitDays},
		PaymentPlan:    domain.PaymentPlan{Kind: domain.PlanAsDefined},
		LineItems: []domain.LineItem{
			{ID: uuid.NewString(), BlockRef: "support", Description: "Support retainer", UnitPriceMinor: 50_000, Quantity: 1, Cycle: domain.CycleMonthly},
			{ID: uuid.NewString(), BlockRef: "onboarding", Description: "Onboarding", UnitPriceMinor: 120_000, Quantity: 1, Cycle: domain.CycleOnce},
		},
		TaxRates:  []domain.TaxRate{{Code: "VAT", RateBps: 2000}},
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
