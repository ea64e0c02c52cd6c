package domain

import "time"

// Template is a reusable draft skeleton: everything about an agreement
// that tends to repeat between engagements, minus the parties and the
// start date. Applying a template pre-fills a fresh draft; the wizard
// still walks every step.
type Template struct {
	ID             string
	Name           string
	Mode           Mode
	Classification Classification
	Acceptance     AcceptanceMethod
	BillingCycle   BillingCycleMode
	Duration       TimeSpan
	Grace          TimeSpan
	PaymentPlan    PaymentPlan
	LineItems      []LineItem
	TaxRates       []TaxRate
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
