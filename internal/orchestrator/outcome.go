package orchestrator

import "github.com/avendriel/accord/internal/backend"

// WarningCode classifies a soft failure: something that went wrong after
// the entity was created and therefore must never demote the outcome.
type WarningCode string

const (
	WarnStatusTransitionFailed WarningCode = "status_transition_failed"
	WarnNotifyFailed           WarningCode = "notify_failed"
	WarnInvoiceMissing         WarningCode = "invoice_missing"
	WarnPaymentRecordFailed    WarningCode = "payment_record_failed"
	WarnPaymentOrderFailed     WarningCode = "payment_order_failed"
	WarnPaymentVerifyFailed    WarningCode = "payment_verify_failed"
	WarnPaymentAbandoned       WarningCode = "payment_abandoned"
)

// Warning is one captured soft failure, surfaced alongside success.
type Warning struct {
	Code   WarningCode
	Detail string
}

type PaymentStatus string

const (
	PaymentRecorded PaymentStatus = "recorded"
	PaymentVerified PaymentStatus = "verified"
	PaymentPending  PaymentStatus = "pending"
	PaymentFailed   PaymentStatus = "failed"
	PaymentSkipped  PaymentStatus = "skipped"
)

// PaymentResult describes how the payment sub-flow ended.
type PaymentResult struct {
	Status  PaymentStatus
	Receipt *backend.PaymentReceipt
	OrderID string
}

// Outcome is the result of a successful completion: the created entity,
// the payment result when a payment was attempted, and any warnings
// collected along the way. The entity is present on every Outcome; an
// Outcome only exists once creation succeeded.
type Outcome struct {
	Entity   backend.CreationResult
	Payment  *PaymentResult
	Warnings []Warning
}

func (o *Outcome) warn(code WarningCode, detail string) {
	o.Warnings = append(o.Warnings, Warning{Code: code, Detail: detail})
}

// HasWarning reports whether a warning with the given code was captured.
func (o *Outcome) HasWarning(code WarningCode) bool {
	for _, w := range o.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
