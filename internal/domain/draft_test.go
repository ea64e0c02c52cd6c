package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTimeline() Timeline {
	return Timeline{
		Start:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Duration: TimeSpan{Value: 6, Unit: UnitMonths},
		Grace:    TimeSpan{Value: 7, Unit: UnitDays},
	}
}

func TestRecomputeTotals(t *testing.T) {
	d := NewDraft()
	d.LineItems = []LineItem{
		{ID: "a", UnitPriceMinor: 10_000, Quantity: 2, Cycle: CycleMonthly},
		{ID: "b", UnitPriceMinor: 5_000, Quantity: 1, Cycle: CycleOnce},
	}
	d.TaxRates = []TaxRate{
		{Code: "VAT", RateBps: 2000},
		{Code: "CESS", RateBps: 100},
	}

	d.RecomputeTotals()

	assert.Equal(t, int64(25_000), d.Totals.SubtotalMinor)
	require.Len(t, d.Totals.TaxBreakdown, 2)
	assert.Equal(t, int64(5_000), d.Totals.TaxBreakdown[0].AmountMinor)
	assert.Equal(t, int64(250), d.Totals.TaxBreakdown[1].AmountMinor)
	assert.Equal(t, int64(5_250), d.Totals.TaxTotalMinor)
	assert.Equal(t, int64(30_250), d.Totals.GrandTotalMinor)
}

func TestRecomputeTotals_Empty(t *testing.T) {
	d := NewDraft()
	d.RecomputeTotals()
	assert.Zero(t, d.Totals.GrandTotalMinor)
	assert.Empty(t, d.Totals.TaxBreakdown)
}

func TestMixedCycles(t *testing.T) {
	d := NewDraft()
	d.LineItems = []LineItem{
		{ID: "a", UnitPriceMinor: 100, Quantity: 1, Cycle: CycleMonthly},
		{ID: "b", UnitPriceMinor: 100, Quantity: 1, Cycle: CycleOnce},
		{ID: "c", UnitPriceMinor: 100, Quantity: 1, Cycle: CycleMonthly},
	}
	_, _, mixed := d.MixedCycles()
	assert.False(t, mixed, "once items do not participate in the cycle check")

	d.LineItems = append(d.LineItems, LineItem{ID: "d", UnitPriceMinor: 100, Quantity: 1, Cycle: CycleYearly})
	a, b, mixed := d.MixedCycles()
	require.True(t, mixed)
	assert.Equal(t, CycleMonthly, a)
	assert.Equal(t, CycleYearly, b)
}

func TestMixedCycles_IgnoresUnpriced(t *testing.T) {
	d := NewDraft()
	d.LineItems = []LineItem{
		{ID: "a", UnitPriceMinor: 100, Quantity: 1, Cycle: CycleMonthly},
		{ID: "b", UnitPriceMinor: 0, Quantity: 1, Cycle: CycleYearly},
	}
	_, _, mixed := d.MixedCycles()
	assert.False(t, mixed)
}

func TestDueOnCompletionMinor(t *testing.T) {
	d := NewDraft()
	d.Totals.GrandTotalMinor = 60_001

	assert.Equal(t, int64(60_001), d.DueOnCompletionMinor(), "upfront plan collects the grand total")

	d.PaymentPlan = PaymentPlan{Kind: PlanInstallments, Installments: 6}
	assert.Equal(t, int64(10_000), d.DueOnCompletionMinor(), "installment plan collects one truncated installment")
}

func TestPaymentPlan_EffectiveKind(t *testing.T) {
	p := PaymentPlan{
		Kind: PlanAsDefined,
		PerItem: map[string]PaymentPlanKind{
			"a": PlanUpfront,
			"b": PlanInstallments, // never valid per item, falls back
		},
	}
	assert.Equal(t, PlanUpfront, p.EffectiveKind("a"))
	assert.Equal(t, PlanAsDefined, p.EffectiveKind("b"))
	assert.Equal(t, PlanAsDefined, p.EffectiveKind("c"))
}

func TestDraftValidate(t *testing.T) {
	d := NewDraft()
	d.Mode = ModeAgreement
	d.Title = "Hosting retainer"
	d.Counterparty = &Party{ID: "p1", Name: "Acme"}
	d.Acceptance = AcceptanceSignOff
	d.BillingCycle = BillingPerBlock
	d.Timeline = sampleTimeline()
	d.LineItems = []LineItem{{ID: "a", UnitPriceMinor: 100, Quantity: 1, Cycle: CycleOnce}}

	require.NoError(t, d.Validate())

	t.Run("both counterparty fields populated", func(t *testing.T) {
		bad := *d
		bad.Counterparties = []Party{{ID: "p2"}}
		assert.Error(t, bad.Validate())
	})

	t.Run("agreement without counterparty", func(t *testing.T) {
		bad := *d
		bad.Counterparty = nil
		assert.Error(t, bad.Validate())
	})

	t.Run("no line items", func(t *testing.T) {
		bad := *d
		bad.LineItems = nil
		assert.Error(t, bad.Validate())
	})

	t.Run("rfq rejects acceptance method", func(t *testing.T) {
		bad := *d
		bad.Mode = ModeRFQ
		bad.Counterparty = nil
		bad.Counterparties = []Party{{ID: "p2"}, {ID: "p3"}}
		assert.Error(t, bad.Validate())

		bad.Acceptance = AcceptanceUnset
		assert.NoError(t, bad.Validate())
	})
}

func TestTimeSpanAddTo(t *testing.T) {
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		TimeSpan{Value: 2, Unit: UnitWeeks}.AddTo(start))
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC),
		TimeSpan{Value: 1, Unit: UnitYears}.AddTo(start))
	assert.Equal(t, start, TimeSpan{}.AddTo(start))
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "USD 12.05", FormatMinor(1205, "USD"))
	assert.Equal(t, "EUR -3.00", FormatMinor(-300, "EUR"))
	assert.Equal(t, "USD 0.00", FormatMinor(0, "USD"))
}
