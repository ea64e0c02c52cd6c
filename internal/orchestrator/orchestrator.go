// Package orchestrator runs the completion pipeline: it turns a finished
// wizard session into a created entity on the collaborator API, applies
// the follow-up status transition and notification, and hosts the
// payment sub-flow for automatic acceptance.
//
// The pipeline partitions failures strictly. Entity creation is the only
// hard failure: it returns an error and leaves the draft untouched so
// the user can resubmit. Everything after creation is best-effort and
// surfaces as warnings on a success outcome, because the entity already
// exists and pretending otherwise would invite duplicates.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avendriel/accord/internal/backend"
	"github.com/avendriel/accord/internal/domain"
	"github.com/avendriel/accord/internal/wizard"
)

var (
	// ErrPaymentFlowRequired rejects Complete for drafts whose acceptance
	// method collects a payment at completion; those go through BeginPayment.
	ErrPaymentFlowRequired = errors.New("automatic acceptance completes through the payment flow")

	// ErrPaymentFlowNotApplicable rejects BeginPayment for drafts that
	// complete without collecting a payment.
	ErrPaymentFlowNotApplicable = errors.New("draft does not complete with automatic acceptance")
)

// Orchestrator drives entity completion against the collaborator API.
type Orchestrator struct {
	api      backend.Client
	observer FlowObserver
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFlowObserver attaches telemetry for completion and payment flows.
func WithFlowObserver(obs FlowObserver) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithClock overrides the wall clock. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an Orchestrator over the given API client.
func New(api backend.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:      api,
		observer: NoopFlowObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Complete submits the session's draft for creation and runs the
// post-creation follow-ups. It handles every acceptance method except
// automatic, which collects a payment and therefore goes through
// BeginPayment instead.
//
// On a nil error the returned Outcome always carries the created entity;
// check Outcome.Warnings for follow-ups that did not land.
func (o *Orchestrator) Complete(ctx context.Context, s *wizard.Session) (*Outcome, error) {
	d := s.Draft()
	if d.Acceptance == domain.AcceptanceAuto {
		return nil, ErrPaymentFlowRequired
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("draft not ready: %w", err)
	}
	if err := s.BeginSubmission(); err != nil {
		return nil, err
	}
	defer s.EndSubmission()

	start := o.now()
	out, err := o.createEntity(ctx, d)
	if err != nil {
		o.observe(ctx, "complete", start, err, map[string]any{"mode": d.Mode})
		return nil, err
	}

	if d.Acceptance == domain.AcceptanceSignOff {
		o.notify(ctx, out)
	}

	o.observe(ctx, "complete", start, nil, map[string]any{
		"mode":      d.Mode,
		"entity_id": out.Entity.ID,
		"warnings":  len(out.Warnings),
	})
	return out, nil
}

// createEntity submits the draft and applies the best-effort status
// transition. Creation failure is the single hard failure of the
// pipeline; the transition only ever adds a warning.
func (o *Orchestrator) createEntity(ctx context.Context, d *domain.Draft) (*Outcome, error) {
	created, err := o.api.CreateEntity(ctx, BuildCreateRequest(d))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", d.Mode, err)
	}
	out := &Outcome{Entity: *created}
	o.transition(ctx, d, out)
	return out, nil
}

// transition moves a freshly created entity out of draft. It only fires
// when the collaborator reported draft back; any other status means the
// server already advanced the lifecycle on its own.
func (o *Orchestrator) transition(ctx context.Context, d *domain.Draft, out *Outcome) {
	if out.Entity.Status != domain.StatusDraft {
		return
	}
	target := domain.StatusPendingAcceptance
	if d.Mode == domain.ModeRFQ {
		target = domain.StatusSent
	}
	if err := o.api.TransitionStatus(ctx, out.Entity.ID, target); err != nil {
		out.warn(WarnStatusTransitionFailed, fmt.Sprintf("moving to %s: %v", target, err))
		return
	}
	out.Entity.Status = target
}

// notify asks the collaborator to alert the counterparty. Fire and
// forget: a failed notification never demotes the outcome.
func (o *Orchestrator) notify(ctx context.Context, out *Outcome) {
	if err := o.api.Notify(ctx, out.Entity.ID); err != nil {
		out.warn(WarnNotifyFailed, err.Error())
	}
}

func (o *Orchestrator) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	o.observer.ObserveFlow(ctx, FlowEvent{
		Name:     name,
		Duration: time.Since(start),
		Success:  err == nil,
		Err:      err,
		Fields:   fields,
	})
}
