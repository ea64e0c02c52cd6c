package backend

import "github.com/avendriel/accord/internal/domain"

// PartyPayload identifies a counterparty on the wire.
type PartyPayload struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type TimelinePayload struct {
	StartDate     string `json:"start_date"`
	DurationValue int    `json:"duration_value"`
	DurationUnit  string `json:"duration_unit"`
	GraceValue    int    `json:"grace_value,omitempty"`
	GraceUnit     string `json:"grace_unit,omitempty"`
}

type LineItemPayload struct {
	ID          string `json:"id"`
	BlockRef    string `json:"block_ref,omitempty"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Cycle       string `json:"billing_cycle"`
	AdHoc       bool   `json:"ad_hoc"`
}

type TaxLinePayload struct {
	Code    string `json:"code"`
	RateBps int    `json:"rate_bps"`
	Amount  int64  `json:"amount"`
}

type PaymentPlanPayload struct {
	Kind         string            `json:"kind"`
	Installments int               `json:"installments,omitempty"`
	PerItem      map[string]string `json:"per_item,omitempty"`
}

// EventPayload is one pre-computed projected event attached to the
// creation request so the collaborator never re-derives the schedule.
type EventPayload struct {
	ID       string `json:"id"`
	BlockRef string `json:"block_ref,omitempty"`
	Kind     string `json:"kind"`
	Sequence int    `json:"sequence"`
	Total    int    `json:"total"`
	Date     string `json:"date"`
	Amount   int64  `json:"amount,omitempty"`
}

type EvidencePayload struct {
	Required bool     `json:"required"`
	Kinds    []string `json:"kinds,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// CreateEntityRequest is the body of POST /entities.
type CreateEntityRequest struct {
	Mode           string             `json:"mode"`
	Title          string             `json:"title"`
	Reference      string             `json:"reference,omitempty"`
	Classification string             `json:"classification"`
	Acceptance     string             `json:"acceptance_method,omitempty"`
	Counterparties []PartyPayload     `json:"counterparties"`
	Timeline       TimelinePayload    `json:"timeline"`
	BillingCycle   string             `json:"billing_cycle,omitempty"`
	PaymentPlan    PaymentPlanPayload `json:"payment_plan"`
	LineItems      []LineItemPayload  `json:"line_items"`
	TaxBreakdown   []TaxLinePayload   `json:"tax_breakdown"`
	Subtotal       int64              `json:"subtotal"`
	TaxTotal       int64              `json:"tax_total"`
	GrandTotal     int64              `json:"grand_total"`
	Currency       string             `json:"currency"`
	AssetRefs      []string           `json:"asset_refs,omitempty"`
	Evidence       *EvidencePayload   `json:"evidence_policy,omitempty"`
	Events         []EventPayload     `json:"events"`
}

// CreationResult is returned by POST /entities. It is read-only for the
// rest of the completion pipeline.
type CreationResult struct {
	ID              string              `json:"id"`
	ReferenceNumber string              `json:"reference_number"`
	AccessKey       string              `json:"access_key"`
	Status          domain.EntityStatus `json:"status"`
	GrandTotal      int64               `json:"grand_total"`
	Currency        string              `json:"currency"`
}

type Invoice struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Amount   int64  `json:"amount"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type RecordPaymentRequest struct {
	InvoiceID      string `json:"invoice_id"`
	Amount         int64  `json:"amount"`
	Method         string `json:"method"`
	Date           string `json:"date"`
	Reference      string `json:"reference,omitempty"`
	Notes          string `json:"notes,omitempty"`
	InstallmentSeq int    `json:"installment_sequence,omitempty"`
}

type PaymentReceipt struct {
	ReceiptNumber  string `json:"receipt_number"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Balance        int64  `json:"balance"`
	InstallmentSeq int    `json:"installment_sequence,omitempty"`
}

type PaymentOrderRequest struct {
	InvoiceID string `json:"invoice_id"`
	EntityID  string `json:"entity_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// PaymentOrder is the gateway order handed to the external checkout UI.
type PaymentOrder struct {
	OrderID    string `json:"order_id"`
	GatewayKey string `json:"gateway_key"`
}

// VerifyPaymentRequest confirms a gateway payment server-side after the
// checkout callback.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	RequestID string `json:"request_id"`
}
