package wizard

import (
	"fmt"

	"github.com/avendriel/accord/internal/domain"
)

type AdvanceStatus string

const (
	Advanced        AdvanceStatus = "advanced"
	ReadyToComplete AdvanceStatus = "ready_to_complete"
	Blocked         AdvanceStatus = "blocked"
)

type BlockReason string

const (
	BlockStepIncomplete     BlockReason = "step_incomplete"
	BlockCycleMismatch      BlockReason = "cycle_mismatch"
	BlockTemplateNotPicked  BlockReason = "template_not_picked"
	BlockSubmissionInFlight BlockReason = "submission_in_flight"
)

// AdvanceResult is the structured outcome of an Advance call. A blocked
// advance is a refusal the caller renders as guidance, never an error.
type AdvanceResult struct {
	Status AdvanceStatus
	Reason BlockReason
	Detail string
}

func blocked(reason BlockReason, detail string) AdvanceResult {
	return AdvanceResult{Status: Blocked, Reason: reason, Detail: detail}
}

// Session is one wizard run: the draft, the active step list, and the
// current step pointer. Sessions are created fresh when the workflow
// opens and discarded on close or completion; they are never shared.
type Session struct {
	draft *domain.Draft
	steps []StepDescriptor
	index int

	// templatePickPending marks the synthetic template-pick sub-step of
	// the path step. It deliberately lives outside the step index.
	templatePickPending bool

	submissionInFlight bool
}

// NewSession returns a session in agreement mode positioned on step 0.
func NewSession() *Session {
	s := &Session{}
	s.applyMode(domain.ModeAgreement)
	return s
}

func (s *Session) applyMode(mode domain.Mode) {
	if s.draft == nil {
		s.draft = domain.NewDraft()
	}
	s.draft.Mode = mode
	s.steps = ActiveSteps(mode)
	s.index = 0
}

// Draft exposes the working draft for the step forms to fill in.
func (s *Session) Draft() *domain.Draft { return s.draft }

func (s *Session) Mode() domain.Mode { return s.draft.Mode }

// Steps returns the active step list for the current mode.
func (s *Session) Steps() []StepDescriptor { return s.steps }

func (s *Session) Index() int { return s.index }

// Current returns the descriptor of the step the pointer is on.
func (s *Session) Current() StepDescriptor { return s.steps[s.index] }

// OnLastStep reports whether the pointer sits on the final step.
func (s *Session) OnLastStep() bool { return s.index == len(s.steps)-1 }

// SelectMode switches the session mode. Switching always resets the step
// pointer to 0 and re-selects the active catalog; fields that do not
// apply to the new mode are dropped, and the counterparty field is moved
// to the cardinality the new mode expects.
func (s *Session) SelectMode(mode domain.Mode) {
	if mode == s.draft.Mode {
		return
	}
	d := s.draft
	switch mode {
	case domain.ModeRFQ:
		d.Acceptance = domain.AcceptanceUnset
		d.BillingCycle = domain.BillingUnset
		if d.Counterparty != nil {
			d.Counterparties = append(d.Counterparties, *d.Counterparty)
			d.Counterparty = nil
		}
	case domain.ModeAgreement:
		if d.Counterparty == nil && len(d.Counterparties) == 1 {
			d.Counterparty = &d.Counterparties[0]
		}
		d.Counterparties = nil
	}
	s.applyMode(mode)
}

// Advance validates the current step and moves the pointer forward. On
// the last step a passing Advance does not move the pointer; it reports
// ReadyToComplete so the caller can hand off to the completion pipeline.
func (s *Session) Advance() AdvanceResult {
	if s.submissionInFlight {
		return blocked(BlockSubmissionInFlight, "a submission is already in progress")
	}
	if s.templatePickPending {
		return blocked(BlockTemplateNotPicked, "pick a template or continue from scratch")
	}

	step := s.Current()

	// Cross-cutting rule: unified billing requires every priced,
	// recurring block to share one cycle before leaving the line-items
	// step. Distinct from the generic incomplete-step refusal.
	if step.ID == StepLineItems && s.draft.BillingCycle == domain.BillingUnified {
		if a, b, mixed := s.draft.MixedCycles(); mixed {
			return blocked(BlockCycleMismatch,
				fmt.Sprintf("unified billing requires one cycle across blocks, found %s and %s", a, b))
		}
	}

	if !step.CanAdvance(s.draft) {
		return blocked(BlockStepIncomplete, fmt.Sprintf("step %q is incomplete", step.Label))
	}

	if s.OnLastStep() {
		return AdvanceResult{Status: ReadyToComplete}
	}
	s.index++
	return AdvanceResult{Status: Advanced}
}

// Retreat moves one step back. At step 0 it is a no-op and reports false.
func (s *Session) Retreat() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	return true
}

// JumpTo navigates directly to an earlier step. Forward motion must pass
// through Advance, so only strictly smaller indexes are allowed.
func (s *Session) JumpTo(index int) error {
	if index < 0 || index >= s.index {
		return fmt.Errorf("jump target %d must be an earlier step than %d", index, s.index)
	}
	s.index = index
	return nil
}

// Reset discards the draft and returns the session to a fresh agreement
// flow at step 0.
func (s *Session) Reset() {
	s.draft = nil
	s.templatePickPending = false
	s.submissionInFlight = false
	s.applyMode(domain.ModeAgreement)
}

// RequireTemplatePick arms the template sub-step after the user chooses
// the from-template path.
func (s *Session) RequireTemplatePick() {
	s.draft.Path = domain.PathFromTemplate
	s.templatePickPending = true
}

// TemplatePickPending reports whether the template sub-step is still open.
func (s *Session) TemplatePickPending() bool { return s.templatePickPending }

// PickTemplate records the chosen template and closes the sub-step.
func (s *Session) PickTemplate(templateID string) {
	s.draft.TemplateID = templateID
	s.templatePickPending = false
}

// SkipTemplate abandons the sub-step and falls back to a scratch draft.
func (s *Session) SkipTemplate() {
	s.draft.Path = domain.PathFromScratch
	s.draft.TemplateID = ""
	s.templatePickPending = false
}

// BeginSubmission arms the duplicate-completion guard. It fails when a
// submission is already in flight.
func (s *Session) BeginSubmission() error {
	if s.submissionInFlight {
		return fmt.Errorf("submission already in flight")
	}
	s.submissionInFlight = true
	return nil
}

// EndSubmission clears the guard regardless of the submission's outcome.
func (s *Session) EndSubmission() { s.submissionInFlight = false }

// SubmissionInFlight reports whether a completion attempt is running.
func (s *Session) SubmissionInFlight() bool { return s.submissionInFlight }
