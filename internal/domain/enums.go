package domain

type Mode string

const (
	ModeAgreement Mode = "agreement"
	ModeRFQ       Mode = "rfq"
)

type Path string

const (
	PathFromScratch  Path = "from_scratch"
	PathFromTemplate Path = "from_template"
)

type Classification string

const (
	ClassificationClient  Classification = "client"
	ClassificationVendor  Classification = "vendor"
	ClassificationPartner Classification = "partner"
)

type AcceptanceMethod string

const (
	AcceptanceUnset   AcceptanceMethod = ""
	AcceptancePayment AcceptanceMethod = "payment"
	AcceptanceSignOff AcceptanceMethod = "sign_off"
	AcceptanceAuto    AcceptanceMethod = "auto"
)

// BillingCycleMode is the draft-level billing arrangement: either each block
// bills on its own cycle, or the whole agreement bills on one shared cycle.
type BillingCycleMode string

const (
	BillingUnset    BillingCycleMode = ""
	BillingPerBlock BillingCycleMode = "per_block"
	BillingUnified  BillingCycleMode = "unified"
)

// ItemCycle is the billing cycle carried by a single line item.
type ItemCycle string

const (
	CycleOnce      ItemCycle = "once"
	CycleMonthly   ItemCycle = "monthly"
	CycleQuarterly ItemCycle = "quarterly"
	CycleYearly    ItemCycle = "yearly"
)

// Recurring reports whether the cycle produces more than one occurrence
// over a sufficiently long term.
func (c ItemCycle) Recurring() bool {
	return c == CycleMonthly || c == CycleQuarterly || c == CycleYearly
}

type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
	UnitYears  DurationUnit = "years"
)

type PaymentPlanKind string

const (
	PlanUpfront      PaymentPlanKind = "upfront"
	PlanInstallments PaymentPlanKind = "installments"
	PlanAsDefined    PaymentPlanKind = "as_defined"
)

type EventKind string

const (
	EventDelivery EventKind = "delivery"
	EventBilling  EventKind = "billing"
)

// EntityStatus is the lifecycle status reported by the collaborator API.
type EntityStatus string

const (
	StatusDraft             EntityStatus = "draft"
	StatusPendingAcceptance EntityStatus = "pending_acceptance"
	StatusSent              EntityStatus = "sent"
	StatusActive            EntityStatus = "active"
)

type PaymentChannel string

const (
	ChannelOffline PaymentChannel = "offline"
	ChannelOnline  PaymentChannel = "online"
)

// ValidPaymentMethods is the canonical set of accepted offline payment
// method strings.
var ValidPaymentMethods = map[string]bool{
	"cash": true, "cheque": true, "bank_transfer": true,
	"card": true, "upi": true, "other": true,
}
