package orchestrator

import (
	"github.com/avendriel/accord/internal/backend"
	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/projection"
)

const wireDate = "2006-01-02"

// BuildCreateRequest maps a finished draft onto the creation payload.
// The projected schedule is computed here, with the user's date
// corrections applied, so the collaborator never re-derives it.
func BuildCreateRequest(d *domain.Draft) backend.CreateEntityRequest {
	events := projection.ApplyOverrides(
		projection.Project(d.Timeline, d.LineItems, d.PaymentPlan, d.BillingCycle),
		d.EventOverrides,
	)

	req := backend.CreateEntityRequest{
		Mode:           string(d.Mode),
		Title:          d.Title,
		Reference:      d.Reference,
		Classification: string(d.Classification),
		Acceptance:     string(d.Acceptance),
		Counterparties: counterpartyPayloads(d),
		Timeline:       timelinePayload(d.Timeline),
		BillingCycle:   string(d.BillingCycle),
		PaymentPlan:    planPayload(d.PaymentPlan),
		LineItems:      itemPayloads(d.LineItems),
		TaxBreakdown:   taxPayloads(d.Totals.TaxBreakdown),
		Subtotal:       d.Totals.SubtotalMinor,
		TaxTotal:       d.Totals.TaxTotalMinor,
		GrandTotal:     d.Totals.GrandTotalMinor,
		Currency:       d.Currency,
		AssetRefs:      d.Assets.AssetRefs,
		Events:         eventPayloads(events),
	}

	if d.Evidence.Required || len(d.Evidence.Kinds) > 0 || d.Evidence.Notes != "" {
		req.Evidence = &backend.EvidencePayload{
			Required: d.Evidence.Required,
			Kinds:    d.Evidence.Kinds,
			Notes:    d.Evidence.Notes,
		}
	}
	return req
}

func counterpartyPayloads(d *domain.Draft) []backend.PartyPayload {
	if d.Counterparty != nil {
		return []backend.PartyPayload{{ID: d.Counterparty.ID, Name: d.Counterparty.Name}}
	}
	parties := make([]backend.PartyPayload, 0, len(d.Counterparties))
	for _, p := range d.Counterparties {
		parties = append(parties, backend.PartyPayload{ID: p.ID, Name: p.Name})
	}
	return parties
}

func timelinePayload(tl domain.Timeline) backend.TimelinePayload {
	p := backend.TimelinePayload{
		StartDate:     tl.Start.Format(wireDate),
		DurationValue: tl.Duration.Value,
		DurationUnit:  string(tl.Duration.Unit),
	}
	if !tl.Grace.IsZero() {
		p.GraceValue = tl.Grace.Value
		p.GraceUnit = string(tl.Grace.Unit)
	}
	return p
}

func planPayload(plan domain.PaymentPlan) backend.PaymentPlanPayload {
	p := backend.PaymentPlanPayload{
		Kind:         string(plan.Kind),
		Installments: plan.Installments,
	}
	if len(plan.PerItem) > 0 {
		p.PerItem = make(map[string]string, len(plan.PerItem))
		for id, kind := range plan.PerItem {
			p.PerItem[id] = string(kind)
		}
	}
	return p
}

func itemPayloads(items []domain.LineItem) []backend.LineItemPayload {
	out := make([]backend.LineItemPayload, 0, len(items))
	for _, li := range items {
		out = append(out, backend.LineItemPayload{
			ID:          li.ID,
			BlockRef:    li.BlockRef,
			Description: li.Description,
			UnitPrice:   li.UnitPriceMinor,
			Quantity:    li.Quantity,
			Cycle:       string(li.Cycle),
			AdHoc:       li.AdHoc,
		})
	}
	return out
}

func taxPayloads(lines []domain.TaxLine) []backend.TaxLinePayload {
	out := make([]backend.TaxLinePayload, 0, len(lines))
	for _, tl := range lines {
		out = append(out, backend.TaxLinePayload{
			Code:    tl.Code,
			RateBps: tl.RateBps,
			Amount:  tl.AmountMinor,
		})
	}
	return out
}

func eventPayloads(events []projection.Event) []backend.EventPayload {
	out := make([]backend.EventPayload, 0, len(events))
	for _, ev := range events {
		out = append(out, backend.EventPayload{
			ID:       ev.ID,
			BlockRef: ev.BlockRef,
			Kind:     string(ev.Kind),
			Sequence: ev.Seq,
			Total:    ev.Total,
			Date:     ev.Date.Format(wireDate),
			Amount:   ev.AmountMinor,
		})
	}
	return out
}
