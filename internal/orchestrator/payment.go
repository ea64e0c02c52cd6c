package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avendriel/accord/internal/backend"
	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/wizard"
)

// ErrFlowFinished rejects calls on a payment flow that already reached a
// terminal state.
var ErrFlowFinished = errors.New("payment flow already finished")

// PaymentFlow is the completion path for automatic acceptance: the
// entity is created inside the flow, then a payment is skipped, recorded
// offline, or collected through the online gateway. The flow holds the
// session's submission guard from BeginPayment until a terminal method
// runs.
//
// Once the entity exists, nothing in the flow can fail the completion:
// every later stumble is a warning on the outcome.
type PaymentFlow struct {
	orch    *Orchestrator
	session *wizard.Session

	// SuggestedAmountMinor is the amount offered for collection: one
	// installment under an installment plan, the grand total otherwise.
	SuggestedAmountMinor int64
	Currency             string

	outcome   *Outcome
	invoice   *backend.Invoice
	order     *backend.PaymentOrder
	requestID string
	done      bool
}

// BeginPayment opens the payment sub-flow for a draft completing with
// automatic acceptance. The entity is not created yet; that happens on
// the first of Skip, RecordOffline, or StartOnline.
func (o *Orchestrator) BeginPayment(s *wizard.Session) (*PaymentFlow, error) {
	d := s.Draft()
	if d.Acceptance != domain.AcceptanceAuto {
		return nil, ErrPaymentFlowNotApplicable
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("draft not ready: %w", err)
	}
	if err := s.BeginSubmission(); err != nil {
		return nil, err
	}
	return &PaymentFlow{
		orch:                 o,
		session:              s,
		SuggestedAmountMinor: d.DueOnCompletionMinor(),
		Currency:             d.Currency,
	}, nil
}

// Done reports whether the flow reached a terminal state.
func (f *PaymentFlow) Done() bool { return f.done }

func (f *PaymentFlow) finish() {
	if f.done {
		return
	}
	f.done = true
	f.session.EndSubmission()
}

// ensureCreated creates the entity on first use and caches the outcome,
// so a retried flow method never creates a duplicate.
func (f *PaymentFlow) ensureCreated(ctx context.Context) error {
	if f.outcome != nil {
		return nil
	}
	out, err := f.orch.createEntity(ctx, f.session.Draft())
	if err != nil {
		return err
	}
	f.outcome = out
	return nil
}

// Skip creates the entity and closes the flow without collecting a
// payment.
func (f *PaymentFlow) Skip(ctx context.Context) (*Outcome, error) {
	if f.done {
		return nil, ErrFlowFinished
	}
	start := f.orch.now()
	if err := f.ensureCreated(ctx); err != nil {
		f.finish()
		f.orch.observe(ctx, "payment_skip", start, err, nil)
		return nil, err
	}
	f.outcome.Payment = &PaymentResult{Status: PaymentSkipped}
	f.finish()
	f.orch.observe(ctx, "payment_skip", start, nil, map[string]any{"entity_id": f.outcome.Entity.ID})
	return f.outcome, nil
}

// OfflinePayment describes a payment already made outside the system.
type OfflinePayment struct {
	AmountMinor    int64
	Method         string
	Date           time.Time
	Reference      string
	Notes          string
	InstallmentSeq int
}

// RecordOffline creates the entity, fetches its generated invoice, and
// records the offline payment against it. A zero amount falls back to
// the suggested amount; a zero date falls back to today.
func (f *PaymentFlow) RecordOffline(ctx context.Context, p OfflinePayment) (*Outcome, error) {
	if f.done {
		return nil, ErrFlowFinished
	}
	if !domain.ValidPaymentMethods[p.Method] {
		return nil, fmt.Errorf("payment method %q is not valid", p.Method)
	}

	start := f.orch.now()
	if err := f.ensureCreated(ctx); err != nil {
		f.finish()
		f.orch.observe(ctx, "payment_offline", start, err, nil)
		return nil, err
	}
	defer f.finish()

	inv, err := f.fetchInvoice(ctx)
	if err != nil {
		f.outcome.warn(WarnInvoiceMissing, err.Error())
		f.outcome.Payment = &PaymentResult{Status: PaymentFailed}
		f.orch.observe(ctx, "payment_offline", start, nil, f.fields())
		return f.outcome, nil
	}

	amount := p.AmountMinor
	if amount <= 0 {
		amount = f.SuggestedAmountMinor
	}
	date := p.Date
	if date.IsZero() {
		date = f.orch.now()
	}

	receipt, err := f.orch.api.RecordPayment(ctx, backend.RecordPaymentRequest{
		InvoiceID:      inv.ID,
		Amount:         amount,
		Method:         p.Method,
		Date:           date.Format(wireDate),
		Reference:      p.Reference,
		Notes:          p.Notes,
		InstallmentSeq: p.InstallmentSeq,
	})
	if err != nil {
		f.outcome.warn(WarnPaymentRecordFailed, err.Error())
		f.outcome.Payment = &PaymentResult{Status: PaymentFailed}
		f.orch.observe(ctx, "payment_offline", start, nil, f.fields())
		return f.outcome, nil
	}

	f.outcome.Payment = &PaymentResult{Status: PaymentRecorded, Receipt: receipt}
	f.orch.observe(ctx, "payment_offline", start, nil, f.fields())
	return f.outcome, nil
}

// CheckoutHandoff carries everything the external checkout UI needs to
// open the gateway for one order.
type CheckoutHandoff struct {
	OrderID     string
	GatewayKey  string
	InvoiceID   string
	AmountMinor int64
	Currency    string
}

// StartOnline creates the entity and opens a gateway order for the
// suggested amount. On success it returns the checkout handoff and the
// flow stays open until OnVerified or OnAbandoned reports how checkout
// ended. When the order cannot be opened the flow closes immediately and
// the outcome is returned with the failure as a warning.
func (f *PaymentFlow) StartOnline(ctx context.Context) (*CheckoutHandoff, *Outcome, error) {
	if f.done {
		return nil, nil, ErrFlowFinished
	}
	start := f.orch.now()
	if err := f.ensureCreated(ctx); err != nil {
		f.finish()
		f.orch.observe(ctx, "payment_online_start", start, err, nil)
		return nil, nil, err
	}

	inv, err := f.fetchInvoice(ctx)
	if err != nil {
		f.outcome.warn(WarnInvoiceMissing, err.Error())
		f.outcome.Payment = &PaymentResult{Status: PaymentFailed}
		f.finish()
		f.orch.observe(ctx, "payment_online_start", start, nil, f.fields())
		return nil, f.outcome, nil
	}

	order, err := f.orch.api.CreatePaymentOrder(ctx, backend.PaymentOrderRequest{
		InvoiceID: inv.ID,
		EntityID:  f.outcome.Entity.ID,
		Amount:    f.SuggestedAmountMinor,
		Currency:  f.Currency,
	})
	if err != nil {
		f.outcome.warn(WarnPaymentOrderFailed, err.Error())
		f.outcome.Payment = &PaymentResult{Status: PaymentFailed}
		f.finish()
		f.orch.observe(ctx, "payment_online_start", start, nil, f.fields())
		return nil, f.outcome, nil
	}

	f.order = order
	f.requestID = uuid.NewString()
	f.orch.observe(ctx, "payment_online_start", start, nil, f.fields())
	return &CheckoutHandoff{
		OrderID:     order.OrderID,
		GatewayKey:  order.GatewayKey,
		InvoiceID:   inv.ID,
		AmountMinor: f.SuggestedAmountMinor,
		Currency:    f.Currency,
	}, nil, nil
}

// GatewayCallback carries the fields the checkout UI received from the
// gateway after a completed payment.
type GatewayCallback struct {
	PaymentID string
	Signature string
}

// OnVerified confirms the gateway callback server-side and closes the
// flow. The entity already exists, so a failed verification surfaces as
// a warning with the payment marked failed, never as an error.
func (f *PaymentFlow) OnVerified(ctx context.Context, cb GatewayCallback) *Outcome {
	defer f.finish()
	if f.order == nil {
		return f.outcome
	}

	start := f.orch.now()
	err := f.orch.api.VerifyPayment(ctx, backend.VerifyPaymentRequest{
		OrderID:   f.order.OrderID,
		PaymentID: cb.PaymentID,
		Signature: cb.Signature,
		RequestID: f.requestID,
	})
	if err != nil {
		f.outcome.warn(WarnPaymentVerifyFailed, err.Error())
		f.outcome.Payment = &PaymentResult{Status: PaymentFailed, OrderID: f.order.OrderID}
		f.orch.observe(ctx, "payment_online_verify", start, nil, f.fields())
		return f.outcome
	}

	f.outcome.Payment = &PaymentResult{Status: PaymentVerified, OrderID: f.order.OrderID}
	f.orch.observe(ctx, "payment_online_verify", start, nil, f.fields())
	return f.outcome
}

// OnAbandoned closes the flow after checkout was dismissed with no
// payment. The entity stays created with the payment pending.
func (f *PaymentFlow) OnAbandoned() *Outcome {
	defer f.finish()
	if f.outcome == nil {
		return nil
	}
	f.outcome.warn(WarnPaymentAbandoned, "checkout was dismissed before payment")
	result := &PaymentResult{Status: PaymentPending}
	if f.order != nil {
		result.OrderID = f.order.OrderID
	}
	f.outcome.Payment = result
	return f.outcome
}

// fetchInvoice returns the invoice generated at creation time. The
// collaborator returns invoices oldest first, so the first entry is the
// one the payment applies to.
func (f *PaymentFlow) fetchInvoice(ctx context.Context) (*backend.Invoice, error) {
	if f.invoice != nil {
		return f.invoice, nil
	}
	invoices, err := f.orch.api.ListInvoices(ctx, f.outcome.Entity.ID)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	if len(invoices) == 0 {
		return nil, errors.New("no invoice was generated for the entity")
	}
	f.invoice = &invoices[0]
	return f.invoice, nil
}

func (f *PaymentFlow) fields() map[string]any {
	if f.outcome == nil {
		return nil
	}
	return map[string]any{
		"entity_id": f.outcome.Entity.ID,
		"warnings":  len(f.outcome.Warnings),
	}
}
