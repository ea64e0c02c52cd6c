package domain

import (
	"fmt"
	"time"
)

// Party is a counterparty to the agreement.
type Party struct {
	ID   string
	Name string
}

// PaymentPlan describes how the grand total falls due. PerItem reassigns
// individual items between upfront and as_defined; installments is only
// ever a whole-draft arrangement.
type PaymentPlan struct {
	Kind         PaymentPlanKind
	Installments int
	PerItem      map[string]PaymentPlanKind
}

// EffectiveKind returns the plan kind governing the given item.
func (p PaymentPlan) EffectiveKind(itemID string) PaymentPlanKind {
	if k, ok := p.PerItem[itemID]; ok && k != PlanInstallments {
		return k
	}
	return p.Kind
}

// AssetCoverage is owned by the asset-selection step and passed through
// untouched by the completion pipeline.
type AssetCoverage struct {
	AssetRefs []string
	Notes     string
}

// EvidencePolicy is owned by the evidence-policy step and passed through
// untouched by the completion pipeline.
type EvidencePolicy struct {
	Required bool
	Kinds    []string
	Notes    string
}

// Draft is the accumulated working state of one wizard session. It is
// owned exclusively by the wizard session and is never persisted.
type Draft struct {
	Mode           Mode
	Path           Path
	TemplateID     string
	Title          string
	Reference      string
	Classification Classification
	Acceptance     AcceptanceMethod

	// Counterparty is set in agreement mode, Counterparties in RFQ
	// mode; the two are never both populated.
	Counterparty   *Party
	Counterparties []Party

	Timeline     Timeline
	BillingCycle BillingCycleMode
	LineItems    []LineItem
	TaxRates     []TaxRate
	Totals       Totals
	PaymentPlan  PaymentPlan
	Assets       AssetCoverage
	Evidence     EvidencePolicy

	// EventOverrides maps projected-event IDs to user-corrected dates.
	EventOverrides map[string]time.Time

	Currency string
}

// NewDraft returns a draft with session defaults applied.
func NewDraft() *Draft {
	return &Draft{
		Path:           PathFromScratch,
		PaymentPlan:    PaymentPlan{Kind: PlanUpfront},
		EventOverrides: map[string]time.Time{},
		Currency:       "USD",
	}
}

// RecomputeTotals re-derives subtotal, tax breakdown, and grand total
// from the current line items and tax selection.
func (d *Draft) RecomputeTotals() {
	var sub int64
	for _, li := range d.LineItems {
		sub += li.TermTotalMinor()
	}

	totals := Totals{SubtotalMinor: sub}
	for _, rate := range d.TaxRates {
		amount := sub * int64(rate.RateBps) / 10_000
		totals.TaxBreakdown = append(totals.TaxBreakdown, TaxLine{
			Code:        rate.Code,
			RateBps:     rate.RateBps,
			AmountMinor: amount,
		})
		totals.TaxTotalMinor += amount
	}
	totals.GrandTotalMinor = sub + totals.TaxTotalMinor
	d.Totals = totals
}

// MixedCycles returns the first two distinct cycles found among priced,
// recurring line items, and whether a conflict exists. Used by the
// unified-billing advancement rule.
func (d *Draft) MixedCycles() (ItemCycle, ItemCycle, bool) {
	var seen ItemCycle
	for _, li := range d.LineItems {
		if !li.Priced() || !li.Cycle.Recurring() {
			continue
		}
		if seen == "" {
			seen = li.Cycle
			continue
		}
		if li.Cycle != seen {
			return seen, li.Cycle, true
		}
	}
	return "", "", false
}

// DueOnCompletionMinor is the amount suggested to collect when the draft
// completes with automatic acceptance: one installment under an
// installment plan, the grand total otherwise.
func (d *Draft) DueOnCompletionMinor() int64 {
	if d.PaymentPlan.Kind == PlanInstallments && d.PaymentPlan.Installments > 1 {
		return d.Totals.GrandTotalMinor / int64(d.PaymentPlan.Installments)
	}
	return d.Totals.GrandTotalMinor
}

// CounterpartyCount returns how many parties are attached, across both
// mode-specific fields.
func (d *Draft) CounterpartyCount() int {
	n := len(d.Counterparties)
	if d.Counterparty != nil {
		n++
	}
	return n
}

// Validate checks the invariants that must hold before submission.
func (d *Draft) Validate() error {
	if d.Mode != ModeAgreement && d.Mode != ModeRFQ {
		return fmt.Errorf("mode %q is not valid", d.Mode)
	}
	if d.Counterparty != nil && len(d.Counterparties) > 0 {
		return fmt.Errorf("single and multi counterparty fields are both populated")
	}
	switch d.Mode {
	case ModeAgreement:
		if d.Counterparty == nil {
			return fmt.Errorf("agreement requires exactly one counterparty")
		}
		if d.Acceptance == AcceptanceUnset {
			return fmt.Errorf("agreement requires an acceptance method")
		}
		if d.BillingCycle == BillingUnset {
			return fmt.Errorf("agreement requires a billing cycle")
		}
	case ModeRFQ:
		if len(d.Counterparties) == 0 {
			return fmt.Errorf("request for quotation requires at least one counterparty")
		}
		if d.Acceptance != AcceptanceUnset {
			return fmt.Errorf("acceptance method does not apply to a request for quotation")
		}
	}
	if len(d.LineItems) == 0 {
		return fmt.Errorf("at least one line item is required")
	}
	if !d.Timeline.Valid() {
		return fmt.Errorf("timeline requires a start date and a positive duration")
	}
	return nil
}
