package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/repository"
	"github.com/avendriel/accord/internal/testutil"
)

func newService(t *testing.T) TemplateService {
	t.Helper()
	return NewTemplateService(repository.NewSQLiteTemplateRepo(testutil.NewTestDB(t)))
}

func sampleDraft() *domain.Draft {
	d := domain.NewDraft()
	d.Mode = domain.ModeAgreement
	d.Classification = domain.ClassificationClient
	d.Acceptance = domain.AcceptancePayment
	d.BillingCycle = domain.BillingPerBlock
	d.Timeline = domain.Timeline{
		Start:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Duration: domain.TimeSpan{Value: 6, Unit: domain.UnitMonths},
		Grace:    domain.TimeSpan{Value: 5, Unit: domain.UnitDays},
	}
	d.LineItems = []domain.LineItem{
		{ID: "li-1", BlockRef: "hosting", Description: "Managed hosting", UnitPriceMinor: 10_000, Quantity: 1, Cycle: domain.CycleMonthly},
	}
	d.TaxRates = []domain.TaxRate{{Code: "VAT", RateBps: 2000}}
	d.RecomputeTotals()
	return d
}

func TestSaveFromDraft_RoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tmpl, err := svc.SaveFromDraft(ctx, "hosting-6m", sampleDraft())
	require.NoError(t, err)

	got, err := svc.Get(ctx, "hosting-6m")
	require.NoError(t, err)

	assert.Equal(t, tmpl.ID, got.ID)
	assert.Equal(t, domain.TimeSpan{Value: 6, Unit: domain.UnitMonths}, got.Duration)
	assert.Equal(t, domain.TimeSpan{Value: 5, Unit: domain.UnitDays}, got.Grace)
	require.Len(t, got.LineItems, 1)
	assert.NotEqual(t, "li-1", got.LineItems[0].ID, "saved items get their own identity")
	assert.Equal(t, "hosting", got.LineItems[0].BlockRef)
}

func TestSaveFromDraft_RequiresName(t *testing.T) {
	svc := newService(t)
	_, err := svc.SaveFromDraft(context.Background(), "", sampleDraft())
	require.Error(t, err)
}

func TestGet_ByIDOrName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tmpl, err := svc.SaveFromDraft(ctx, "by-ref", sampleDraft())
	require.NoError(t, err)

	byID, err := svc.Get(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "by-ref", byID.Name)

	_, err = svc.Get(ctx, "absent")
	require.Error(t, err)
}

func TestApplyToDraft_FillsFreshDraft(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tmpl, err := svc.SaveFromDraft(ctx, "fill-me", sampleDraft())
	require.NoError(t, err)

	d := domain.NewDraft()
	d.Mode = domain.ModeAgreement
	svc.ApplyToDraft(tmpl, d)

	assert.Equal(t, tmpl.ID, d.TemplateID)
	assert.Equal(t, domain.ClassificationClient, d.Classification)
	assert.Equal(t, domain.AcceptancePayment, d.Acceptance)
	assert.Equal(t, domain.BillingPerBlock, d.BillingCycle)
	assert.Equal(t, tmpl.Duration, d.Timeline.Duration)
	assert.True(t, d.Timeline.Start.IsZero(), "the start date is the user's to pick")
	require.Len(t, d.LineItems, 1)
	assert.NotEqual(t, tmpl.LineItems[0].ID, d.LineItems[0].ID, "applied items never alias the template")
	assert.Equal(t, int64(12_000), d.Totals.GrandTotalMinor, "totals recompute on apply")
}

func TestApplyToDraft_RFQDropsAcceptance(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tmpl, err := svc.SaveFromDraft(ctx, "rfq-apply", sampleDraft())
	require.NoError(t, err)

	d := domain.NewDraft()
	d.Mode = domain.ModeRFQ
	svc.ApplyToDraft(tmpl, d)

	assert.Equal(t, domain.AcceptanceUnset, d.Acceptance)
}

func TestDelete_ByName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.SaveFromDraft(ctx, "doomed", sampleDraft())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "doomed"))
	_, err = svc.Get(ctx, "doomed")
	require.Error(t, err)
}
