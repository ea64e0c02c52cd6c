package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avendriel/accord/internal/backend"
	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/orchestrator"
	"github.com/avendriel/accord/internal/projection"
)

func reviewDraft() *domain.Draft {
	d := domain.NewDraft()
	d.Mode = domain.ModeAgreement
	d.Title = "Hosting retainer"
	d.Classification = domain.ClassificationClient
	d.Acceptance = domain.AcceptancePayment
	d.Counterparty = &domain.Party{ID: "p-1", Name: "Birchline Media"}
	d.Timeline = domain.Timeline{
		Start:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Duration: domain.TimeSpan{Value: 6, Unit: domain.UnitMonths},
	}
	d.LineItems = []domain.LineItem{
		{ID: "li-1", BlockRef: "hosting", Description: "Managed hosting", UnitPriceMinor: 60_000, Quantity: 1, Cycle: domain.CycleMonthly},
	}
	d.TaxRates = []domain.TaxRate{{Code: "VAT", RateBps: 2000}}
	d.RecomputeTotals()
	return d
}

func TestRenderDraftSummary(t *testing.T) {
	out := RenderDraftSummary(reviewDraft())

	assert.Contains(t, out, "REVIEW")
	assert.Contains(t, out, "Hosting retainer")
	assert.Contains(t, out, "Birchline Media")
	assert.Contains(t, out, "Managed hosting")
	assert.Contains(t, out, "USD 600.00")
	assert.Contains(t, out, "USD 720.00")
}

func TestRenderEvents_MarksOverrides(t *testing.T) {
	d := reviewDraft()
	events := projection.Project(d.Timeline, d.LineItems, d.PaymentPlan, d.BillingCycle)
	overrides := map[string]time.Time{
		events[0].ID: time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
	}

	out := RenderEvents(projection.ApplyOverrides(events, overrides), overrides, d.Currency)

	assert.Contains(t, out, "2026-04-03 *")
	assert.Contains(t, out, "delivery")
	assert.Contains(t, out, "billing")
}

func TestRenderOutcome_WithWarnings(t *testing.T) {
	out := &orchestrator.Outcome{
		Entity: backend.CreationResult{
			ReferenceNumber: "AGR-2026-0001",
			Status:          domain.StatusDraft,
			GrandTotal:      72_000,
			Currency:        "USD",
		},
		Payment: &orchestrator.PaymentResult{
			Status:  orchestrator.PaymentRecorded,
			Receipt: &backend.PaymentReceipt{ReceiptNumber: "RCP-0042", Amount: 72_000, Currency: "USD"},
		},
		Warnings: []orchestrator.Warning{
			{Code: orchestrator.WarnStatusTransitionFailed, Detail: "moving to pending_acceptance: timeout"},
		},
	}

	rendered := RenderOutcome(out, domain.ModeAgreement)

	assert.Contains(t, rendered, "Agreement created")
	assert.Contains(t, rendered, "AGR-2026-0001")
	assert.Contains(t, rendered, "RCP-0042")
	assert.Contains(t, rendered, "status_transition_failed")
}

func TestRenderTemplates(t *testing.T) {
	out := RenderTemplates([]*domain.Template{
		{Name: "retainer-12m", Mode: domain.ModeAgreement, Duration: domain.TimeSpan{Value: 12, Unit: domain.UnitMonths}, Currency: "USD"},
		{Name: "rfq-hardware", Mode: domain.ModeRFQ, Currency: "EUR"},
	})

	assert.Contains(t, out, "retainer-12m")
	assert.Contains(t, out, "12 months")
	assert.Contains(t, out, "Request for quotation")
}
