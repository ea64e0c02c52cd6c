// Package wizard owns the multi-step draft flow: the mode-dependent step
// catalog and the session state machine that walks it. Everything here is
// pure in-memory state; no step predicate performs I/O.
package wizard

import "github.com/avendriel/accord/internal/domain"

type StepID string

const (
	StepPath           StepID = "path"
	StepNomenclature   StepID = "nomenclature"
	StepAcceptance     StepID = "acceptance"
	StepCounterparty   StepID = "counterparty"
	StepDetails        StepID = "details"
	StepAssetSelection StepID = "asset_selection"
	StepBillingCycle   StepID = "billing_cycle"
	StepLineItems      StepID = "line_items"
	StepBillingView    StepID = "billing_view"
	StepEvidencePolicy StepID = "evidence_policy"
	StepEventsPreview  StepID = "events_preview"
	StepReview         StepID = "review"
)

// StepDescriptor declares one step of the flow. CanAdvance must be a pure
// function of the draft.
type StepDescriptor struct {
	ID         StepID
	Label      string
	CanAdvance func(*domain.Draft) bool
}

// The two catalogs are static; branching is expressed through which steps
// exist per mode, not through edges between steps.
var agreementSteps = []StepDescriptor{
	{StepPath, "Starting Point", pathChosen},
	{StepNomenclature, "Name & Reference", titled},
	{StepAcceptance, "Acceptance Method", acceptanceChosen},
	{StepCounterparty, "Counterparty", singleCounterparty},
	{StepDetails, "Details & Term", detailsComplete},
	{StepAssetSelection, "Covered Assets", always},
	{StepBillingCycle, "Billing Cycle", billingCycleChosen},
	{StepLineItems, "Service Blocks", hasLineItems},
	{StepBillingView, "Billing Summary", always},
	{StepEvidencePolicy, "Evidence Policy", always},
	{StepEventsPreview, "Schedule Preview", always},
	{StepReview, "Review & Issue", draftValid},
}

var rfqSteps = []StepDescriptor{
	{StepPath, "Starting Point", pathChosen},
	{StepNomenclature, "Name & Reference", titled},
	{StepCounterparty, "Counterparties", multiCounterparty},
	{StepDetails, "Details & Term", detailsComplete},
	{StepLineItems, "Service Blocks", hasLineItems},
	{StepReview, "Review & Send", draftValid},
}

// ActiveSteps returns the ordered step list for the given mode.
func ActiveSteps(mode domain.Mode) []StepDescriptor {
	if mode == domain.ModeRFQ {
		return rfqSteps
	}
	return agreementSteps
}

// StepHeading returns the display heading for a step, specialized by the
// draft's classification where that matters.
func StepHeading(step StepDescriptor, d *domain.Draft) string {
	if step.ID != StepCounterparty {
		return step.Label
	}
	var who string
	switch d.Classification {
	case domain.ClassificationClient:
		who = "Client"
	case domain.ClassificationVendor:
		who = "Vendor"
	case domain.ClassificationPartner:
		who = "Partner"
	default:
		return step.Label
	}
	if d.Mode == domain.ModeRFQ {
		return who + "s"
	}
	return who
}

func always(*domain.Draft) bool { return true }

func pathChosen(d *domain.Draft) bool {
	return d.Path == domain.PathFromScratch || d.Path == domain.PathFromTemplate
}

func titled(d *domain.Draft) bool { return d.Title != "" }

func acceptanceChosen(d *domain.Draft) bool { return d.Acceptance != domain.AcceptanceUnset }

func singleCounterparty(d *domain.Draft) bool {
	return d.Counterparty != nil && len(d.Counterparties) == 0
}

func multiCounterparty(d *domain.Draft) bool {
	return d.Counterparty == nil && len(d.Counterparties) > 0
}

func detailsComplete(d *domain.Draft) bool {
	return d.Classification != "" && d.Timeline.Valid()
}

func billingCycleChosen(d *domain.Draft) bool { return d.BillingCycle != domain.BillingUnset }

func hasLineItems(d *domain.Draft) bool { return len(d.LineItems) > 0 }

func draftValid(d *domain.Draft) bool { return d.Validate() == nil }
