package wizard

import (
	"testing"
	"time"

	"github.com/avendriel/accord/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillAgreementDraft populates a draft so every agreement-mode predicate
// passes.
func fillAgreementDraft(d *domain.Draft) {
	d.Path = domain.PathFromScratch
	d.Title = "Support retainer"
	d.Acceptance = domain.AcceptanceSignOff
	d.Counterparty = &domain.Party{ID: "p1", Name: "Acme GmbH"}
	d.Classification = domain.ClassificationClient
	d.Timeline = domain.Timeline{
		Start:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Duration: domain.TimeSpan{Value: 12, Unit: domain.UnitMonths},
	}
	d.BillingCycle = domain.BillingPerBlock
	d.LineItems = []domain.LineItem{
		{ID: "li1", Description: "Support", UnitPriceMinor: 120_000, Quantity: 1, Cycle: domain.CycleMonthly},
	}
	d.RecomputeTotals()
}

// advanceToEnd advances until ReadyToComplete, failing the test if any
// step blocks along the way.
func advanceToEnd(t *testing.T, s *Session) {
	t.Helper()
	for {
		res := s.Advance()
		require.NotEqual(t, Blocked, res.Status,
			"blocked on step %s: %s", s.Current().ID, res.Detail)
		if res.Status == ReadyToComplete {
			return
		}
	}
}

func TestAdvance_BlockedKeepsIndex(t *testing.T) {
	s := NewSession()
	s.Draft().Path = "" // path step predicate fails

	for i := 0; i < 3; i++ {
		res := s.Advance()
		assert.Equal(t, Blocked, res.Status)
		assert.Equal(t, BlockStepIncomplete, res.Reason)
		assert.Equal(t, 0, s.Index())
	}
}

func TestAdvance_WalksAllAgreementSteps(t *testing.T) {
	s := NewSession()
	fillAgreementDraft(s.Draft())

	for i := 0; i < len(s.Steps())-1; i++ {
		res := s.Advance()
		require.Equal(t, Advanced, res.Status, "step %s", s.Steps()[i].ID)
	}
	assert.True(t, s.OnLastStep())

	res := s.Advance()
	assert.Equal(t, ReadyToComplete, res.Status)
	assert.True(t, s.OnLastStep(), "ready-to-complete does not move the pointer")
}

func TestAdvance_RFQFlow(t *testing.T) {
	s := NewSession()
	s.SelectMode(domain.ModeRFQ)
	d := s.Draft()
	d.Path = domain.PathFromScratch
	d.Title = "Cabling RFQ"
	d.Counterparties = []domain.Party{{ID: "p1"}, {ID: "p2"}}
	d.Classification = domain.ClassificationVendor
	d.Timeline = domain.Timeline{
		Start:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Duration: domain.TimeSpan{Value: 2, Unit: domain.UnitMonths},
	}
	d.LineItems = []domain.LineItem{{ID: "li1", UnitPriceMinor: 5_000, Quantity: 2, Cycle: domain.CycleOnce}}

	advanceToEnd(t, s)
}

func TestSelectMode_ResetsIndex(t *testing.T) {
	s := NewSession()
	fillAgreementDraft(s.Draft())
	require.Equal(t, Advanced, s.Advance().Status)
	require.Equal(t, Advanced, s.Advance().Status)
	require.Equal(t, 2, s.Index())

	s.SelectMode(domain.ModeRFQ)
	assert.Equal(t, 0, s.Index())
	assert.Len(t, s.Steps(), 6)

	// Mode-inapplicable fields are dropped and the counterparty moves to
	// the multi field.
	d := s.Draft()
	assert.Equal(t, domain.AcceptanceUnset, d.Acceptance)
	assert.Equal(t, domain.BillingUnset, d.BillingCycle)
	assert.Nil(t, d.Counterparty)
	assert.Len(t, d.Counterparties, 1)

	// Re-selecting the same mode is a no-op.
	require.Equal(t, Advanced, s.Advance().Status)
	s.SelectMode(domain.ModeRFQ)
	assert.Equal(t, 1, s.Index())
}

func TestAdvance_UnifiedCycleMismatch(t *testing.T) {
	s := NewSession()
	fillAgreementDraft(s.Draft())
	d := s.Draft()
	d.BillingCycle = domain.BillingUnified
	d.LineItems = append(d.LineItems,
		domain.LineItem{ID: "li2", UnitPriceMinor: 40_000, Quantity: 1, Cycle: domain.CycleQuarterly})

	// Walk to the line-items step.
	for s.Current().ID != StepLineItems {
		require.Equal(t, Advanced, s.Advance().Status)
	}

	res := s.Advance()
	require.Equal(t, Blocked, res.Status)
	assert.Equal(t, BlockCycleMismatch, res.Reason, "mismatch gets its own reason, not the generic one")
	assert.Contains(t, res.Detail, "monthly")

	// Aligning the cycles unblocks advancement.
	d.LineItems[1].Cycle = domain.CycleMonthly
	assert.Equal(t, Advanced, s.Advance().Status)
}

func TestRetreatAndJump(t *testing.T) {
	s := NewSession()
	fillAgreementDraft(s.Draft())

	assert.False(t, s.Retreat(), "retreat at the front door is a no-op")

	require.Equal(t, Advanced, s.Advance().Status)
	require.Equal(t, Advanced, s.Advance().Status)
	require.Equal(t, Advanced, s.Advance().Status)

	assert.True(t, s.Retreat())
	assert.Equal(t, 2, s.Index())

	assert.Error(t, s.JumpTo(2), "jumping to the current step is not allowed")
	assert.Error(t, s.JumpTo(5), "no skipping ahead by direct navigation")
	assert.NoError(t, s.JumpTo(0))
	assert.Equal(t, 0, s.Index())
}

func TestTemplateSubStep(t *testing.T) {
	s := NewSession()
	fillAgreementDraft(s.Draft())

	s.RequireTemplatePick()
	assert.True(t, s.TemplatePickPending())

	res := s.Advance()
	require.Equal(t, Blocked, res.Status)
	assert.Equal(t, BlockTemplateNotPicked, res.Reason)
	assert.Equal(t, 0, s.Index(), "the sub-step never touches the step index")

	s.PickTemplate("tpl-1")
	assert.False(t, s.TemplatePickPending())
	assert.Equal(t, "tpl-1", s.Draft().TemplateID)
	assert.Equal(t, Advanced, s.Advance().Status)
}

func TestTemplateSubStep_Skip(t *testing.T) {
	s := NewSession()
	s.RequireTemplatePick()
	s.SkipTemplate()

	assert.False(t, s.TemplatePickPending())
	assert.Equal(t, domain.PathFromScratch, s.Draft().Path)
	assert.Empty(t, s.Draft().TemplateID)
}

func TestSubmissionGuard(t *testing.T) {
	s := NewSession()
	fillAgreementDraft(s.Draft())

	require.NoError(t, s.BeginSubmission())
	assert.Error(t, s.BeginSubmission(), "duplicate completion attempts are refused")

	res := s.Advance()
	require.Equal(t, Blocked, res.Status)
	assert.Equal(t, BlockSubmissionInFlight, res.Reason)

	s.EndSubmission()
	require.NoError(t, s.BeginSubmission())
	s.EndSubmission()
}

func TestReset(t *testing.T) {
	s := NewSession()
	fillAgreementDraft(s.Draft())
	require.Equal(t, Advanced, s.Advance().Status)
	require.NoError(t, s.BeginSubmission())

	s.Reset()

	assert.Equal(t, 0, s.Index())
	assert.Equal(t, domain.ModeAgreement, s.Mode())
	assert.False(t, s.SubmissionInFlight())
	assert.Empty(t, s.Draft().Title, "the draft is discarded, not kept")
}
