package projection

import (
	"testing"
	"time"

	"github.com/avendriel/accord/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func termOf(months int, graceDays int) domain.Timeline {
	return domain.Timeline{
		Start:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Duration: domain.TimeSpan{Value: months, Unit: domain.UnitMonths},
		Grace:    domain.TimeSpan{Value: graceDays, Unit: domain.UnitDays},
	}
}

func monthlyItem(id string, priceMinor int64) domain.LineItem {
	return domain.LineItem{ID: id, UnitPriceMinor: priceMinor, Quantity: 1, Cycle: domain.CycleMonthly}
}

func TestProject_EmptyInputs(t *testing.T) {
	assert.Empty(t, Project(termOf(6, 0), nil, domain.PaymentPlan{Kind: domain.PlanUpfront}, domain.BillingPerBlock))

	items := []domain.LineItem{monthlyItem("a", 600)}
	zeroTerm := termOf(0, 0)
	assert.Empty(t, Project(zeroTerm, items, domain.PaymentPlan{Kind: domain.PlanUpfront}, domain.BillingPerBlock))
}

func TestProject_Deterministic(t *testing.T) {
	tl := termOf(6, 7)
	items := []domain.LineItem{monthlyItem("a", 6_000), monthlyItem("b", 1_200)}
	plan := domain.PaymentPlan{Kind: domain.PlanAsDefined}

	first := Project(tl, items, plan, domain.BillingPerBlock)
	second := Project(tl, items, plan, domain.BillingPerBlock)
	assert.Equal(t, first, second)
}

func TestProject_AsDefined_PerBlock(t *testing.T) {
	tl := termOf(3, 0)
	items := []domain.LineItem{monthlyItem("a", 1_000)}
	events := Project(tl, items, domain.PaymentPlan{Kind: domain.PlanAsDefined}, domain.BillingPerBlock)

	var deliveries, billings []Event
	for _, ev := range events {
		if ev.Kind == domain.EventDelivery {
			deliveries = append(deliveries, ev)
		} else {
			billings = append(billings, ev)
		}
	}

	require.Len(t, deliveries, 3)
	require.Len(t, billings, 3)

	// Term total 1000 splits 333+333+334 across the three periods.
	assert.Equal(t, int64(333), billings[0].AmountMinor)
	assert.Equal(t, int64(333), billings[1].AmountMinor)
	assert.Equal(t, int64(334), billings[2].AmountMinor)

	var sum int64
	for _, b := range billings {
		sum += b.AmountMinor
	}
	assert.Equal(t, int64(1_000), sum)

	for i, b := range billings {
		assert.Equal(t, i+1, b.Seq)
		assert.Equal(t, 3, b.Total)
		assert.Equal(t, "a", b.BlockRef)
	}
}

func TestProject_GraceShiftsBillingOnly(t *testing.T) {
	tl := termOf(1, 7)
	items := []domain.LineItem{monthlyItem("a", 1_000)}
	events := Project(tl, items, domain.PaymentPlan{Kind: domain.PlanAsDefined}, domain.BillingPerBlock)

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventDelivery, events[0].Kind)
	assert.Equal(t, tl.Start, events[0].Date)
	assert.Equal(t, domain.EventBilling, events[1].Kind)
	assert.Equal(t, tl.Start.AddDate(0, 0, 7), events[1].Date)
}

func TestProject_Upfront(t *testing.T) {
	tl := termOf(6, 0)
	items := []domain.LineItem{monthlyItem("a", 6_000), monthlyItem("b", 1_200)}
	events := Project(tl, items, domain.PaymentPlan{Kind: domain.PlanUpfront}, domain.BillingPerBlock)

	var billings []Event
	for _, ev := range events {
		if ev.Kind == domain.EventBilling {
			billings = append(billings, ev)
		}
	}
	require.Len(t, billings, 2, "upfront bills each block once")
	assert.Equal(t, tl.Start, billings[0].Date)
	assert.Equal(t, tl.Start, billings[1].Date)
	assert.Equal(t, int64(6_000)+int64(1_200), billings[0].AmountMinor+billings[1].AmountMinor)
}

func TestProject_Installments(t *testing.T) {
	tl := termOf(6, 0)
	items := []domain.LineItem{monthlyItem("a", 6_001)}
	plan := domain.PaymentPlan{Kind: domain.PlanInstallments, Installments: 6}
	events := Project(tl, items, plan, domain.BillingUnified)

	var billings []Event
	for _, ev := range events {
		if ev.Kind == domain.EventBilling {
			billings = append(billings, ev)
		}
	}
	require.Len(t, billings, 6)
	assert.Empty(t, billings[0].BlockRef, "installments bill the whole agreement")
	assert.Equal(t, int64(1_000), billings[0].AmountMinor)
	assert.Equal(t, int64(1_001), billings[5].AmountMinor, "remainder lands on the last installment")
	assert.True(t, billings[0].Date.Before(billings[1].Date))
}

func TestProject_UnifiedMergesSameDateBilling(t *testing.T) {
	tl := termOf(2, 0)
	items := []domain.LineItem{monthlyItem("a", 2_000), monthlyItem("b", 400)}
	events := Project(tl, items, domain.PaymentPlan{Kind: domain.PlanAsDefined}, domain.BillingUnified)

	var billings []Event
	for _, ev := range events {
		if ev.Kind == domain.EventBilling {
			billings = append(billings, ev)
		}
	}
	require.Len(t, billings, 2, "two periods, one merged event each")
	assert.Equal(t, int64(1_200), billings[0].AmountMinor, "1000 + 200 merged")
	assert.Empty(t, billings[0].BlockRef)
}

func TestProject_PerItemOverride(t *testing.T) {
	tl := termOf(2, 0)
	items := []domain.LineItem{monthlyItem("a", 2_000), monthlyItem("b", 400)}
	plan := domain.PaymentPlan{
		Kind:    domain.PlanAsDefined,
		PerItem: map[string]domain.PaymentPlanKind{"b": domain.PlanUpfront},
	}
	events := Project(tl, items, plan, domain.BillingPerBlock)

	var aBillings, bBillings []Event
	for _, ev := range events {
		if ev.Kind != domain.EventBilling {
			continue
		}
		switch ev.BlockRef {
		case "a":
			aBillings = append(aBillings, ev)
		case "b":
			bBillings = append(bBillings, ev)
		}
	}
	assert.Len(t, aBillings, 2)
	require.Len(t, bBillings, 1)
	assert.Equal(t, int64(400), bBillings[0].AmountMinor)
}

func TestApplyOverrides(t *testing.T) {
	tl := termOf(3, 0)
	items := []domain.LineItem{monthlyItem("a", 900)}
	events := Project(tl, items, domain.PaymentPlan{Kind: domain.PlanAsDefined}, domain.BillingPerBlock)
	require.NotEmpty(t, events)

	target := events[1]
	corrected := target.Date.AddDate(0, 0, 3)
	out := ApplyOverrides(events, map[string]time.Time{target.ID: corrected})

	require.Len(t, out, len(events))
	for i := range out {
		assert.Equal(t, events[i].AmountMinor, out[i].AmountMinor)
		assert.Equal(t, events[i].Seq, out[i].Seq)
		if out[i].ID == target.ID {
			assert.Equal(t, corrected, out[i].Date)
		} else {
			assert.Equal(t, events[i].Date, out[i].Date)
		}
	}

	// The input slice is never mutated.
	assert.Equal(t, target.Date, events[1].Date)
}
