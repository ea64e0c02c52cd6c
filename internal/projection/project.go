// Package projection derives the future delivery and billing schedule of a
// draft. Project is pure and deterministic: identical inputs produce
// deep-equal output, which the caller may recompute as often as it likes.
package projection

import (
	"fmt"
	"sort"
	"time"

	"github.com/avendriel/accord/internal/domain"
)

// Event is one projected delivery or billing occurrence. BlockRef is
// empty when the event covers the whole agreement rather than a single
// block. Seq is 1-based within the event's series.
type Event struct {
	ID          string
	BlockRef    string
	Kind        domain.EventKind
	Seq         int
	Total       int
	Date        time.Time
	AmountMinor int64
}

// Project derives the ordered event schedule for the given term, items,
// payment plan, and billing arrangement. Zero items or an unusable
// timeline yields an empty schedule, never an error.
func Project(tl domain.Timeline, items []domain.LineItem, plan domain.PaymentPlan, cycleMode domain.BillingCycleMode) []Event {
	if len(items) == 0 || !tl.Valid() {
		return nil
	}

	var events []Event
	for _, li := range items {
		events = append(events, deliverySeries(tl, li)...)
	}
	events = append(events, billingSeries(tl, items, plan, cycleMode)...)

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Kind != b.Kind {
			return a.Kind == domain.EventDelivery
		}
		if a.BlockRef != b.BlockRef {
			return a.BlockRef < b.BlockRef
		}
		return a.Seq < b.Seq
	})
	return events
}

// ApplyOverrides returns a copy of events with user-corrected dates
// substituted by event ID. Amounts, sequence numbers, and ordering are
// left untouched.
func ApplyOverrides(events []Event, overrides map[string]time.Time) []Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, len(events))
	copy(out, events)
	if len(overrides) == 0 {
		return out
	}
	for i := range out {
		if d, ok := overrides[out[i].ID]; ok {
			out[i].Date = d
		}
	}
	return out
}

func eventID(kind domain.EventKind, blockRef string, seq int) string {
	if blockRef == "" {
		blockRef = "all"
	}
	return fmt.Sprintf("%s:%s:%d", kind, blockRef, seq)
}

// periodStarts lists the start of every cycle period that begins inside
// the term. A non-recurring cycle, or a term shorter than one period,
// yields a single occurrence at the term start.
func periodStarts(tl domain.Timeline, cycle domain.ItemCycle) []time.Time {
	if !cycle.Recurring() {
		return []time.Time{tl.Start}
	}
	step := cycleStep(cycle)
	end := tl.End()
	var starts []time.Time
	for t := tl.Start; t.Before(end); t = step.AddTo(t) {
		starts = append(starts, t)
	}
	if len(starts) == 0 {
		starts = []time.Time{tl.Start}
	}
	return starts
}

func cycleStep(cycle domain.ItemCycle) domain.TimeSpan {
	switch cycle {
	case domain.CycleQuarterly:
		return domain.TimeSpan{Value: 3, Unit: domain.UnitMonths}
	case domain.CycleYearly:
		return domain.TimeSpan{Value: 1, Unit: domain.UnitYears}
	default:
		return domain.TimeSpan{Value: 1, Unit: domain.UnitMonths}
	}
}

func deliverySeries(tl domain.Timeline, li domain.LineItem) []Event {
	starts := periodStarts(tl, li.Cycle)
	events := make([]Event, 0, len(starts))
	for i, date := range starts {
		events = append(events, Event{
			ID:       eventID(domain.EventDelivery, li.Ref(), i+1),
			BlockRef: li.Ref(),
			Kind:     domain.EventDelivery,
			Seq:      i + 1,
			Total:    len(starts),
			Date:     date,
		})
	}
	return events
}

func billingSeries(tl domain.Timeline, items []domain.LineItem, plan domain.PaymentPlan, cycleMode domain.BillingCycleMode) []Event {
	if plan.Kind == domain.PlanInstallments && plan.Installments > 1 {
		return installmentSeries(tl, items, plan.Installments)
	}

	type candidate struct {
		ref    string
		date   time.Time
		amount int64
	}
	var candidates []candidate
	for _, li := range items {
		switch plan.EffectiveKind(li.ID) {
		case domain.PlanUpfront:
			candidates = append(candidates, candidate{
				ref:    li.Ref(),
				date:   tl.Grace.AddTo(tl.Start),
				amount: li.TermTotalMinor(),
			})
		default: // as_defined: the term total splits across the item's own cycle
			starts := periodStarts(tl, li.Cycle)
			amounts := splitEvenly(li.TermTotalMinor(), len(starts))
			for i, date := range starts {
				candidates = append(candidates, candidate{
					ref:    li.Ref(),
					date:   tl.Grace.AddTo(date),
					amount: amounts[i],
				})
			}
		}
	}

	if cycleMode == domain.BillingUnified {
		// One aggregate series: same-date amounts merge into a single event.
		sums := map[time.Time]int64{}
		var dates []time.Time
		for _, c := range candidates {
			if _, seen := sums[c.date]; !seen {
				dates = append(dates, c.date)
			}
			sums[c.date] += c.amount
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		events := make([]Event, 0, len(dates))
		for i, date := range dates {
			events = append(events, Event{
				ID:          eventID(domain.EventBilling, "", i+1),
				Kind:        domain.EventBilling,
				Seq:         i + 1,
				Total:       len(dates),
				Date:        date,
				AmountMinor: sums[date],
			})
		}
		return events
	}

	// Per-block series: number each block's events independently.
	perRef := map[string]int{}
	totals := map[string]int{}
	for _, c := range candidates {
		totals[c.ref]++
	}
	events := make([]Event, 0, len(candidates))
	for _, c := range candidates {
		perRef[c.ref]++
		events = append(events, Event{
			ID:          eventID(domain.EventBilling, c.ref, perRef[c.ref]),
			BlockRef:    c.ref,
			Kind:        domain.EventBilling,
			Seq:         perRef[c.ref],
			Total:       totals[c.ref],
			Date:        c.date,
			AmountMinor: c.amount,
		})
	}
	return events
}

// installmentSeries spreads the net total over n whole-agreement billing
// events, evenly spaced across the term in days.
func installmentSeries(tl domain.Timeline, items []domain.LineItem, n int) []Event {
	var net int64
	for _, li := range items {
		net += li.TermTotalMinor()
	}
	amounts := splitEvenly(net, n)

	totalDays := int(tl.End().Sub(tl.Start).Hours() / 24)
	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		date := tl.Start.AddDate(0, 0, totalDays*i/n)
		events = append(events, Event{
			ID:          eventID(domain.EventBilling, "", i+1),
			Kind:        domain.EventBilling,
			Seq:         i + 1,
			Total:       n,
			Date:        tl.Grace.AddTo(date),
			AmountMinor: amounts[i],
		})
	}
	return events
}

// splitEvenly divides total into n parts, putting the rounding remainder
// on the last part so the parts always sum back to total.
func splitEvenly(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	parts := make([]int64, n)
	each := total / int64(n)
	for i := range parts {
		parts[i] = each
	}
	parts[n-1] += total - each*int64(n)
	return parts
}
