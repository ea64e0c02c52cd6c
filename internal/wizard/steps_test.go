package wizard

import (
	"testing"

	"github.com/avendriel/accord/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveSteps_Lengths(t *testing.T) {
	assert.Len(t, ActiveSteps(domain.ModeAgreement), 12)
	assert.Len(t, ActiveSteps(domain.ModeRFQ), 6)
}

func TestActiveSteps_RFQExcludesPreQuotationSteps(t *testing.T) {
	meaningless := map[StepID]bool{
		StepAcceptance:     true,
		StepBillingCycle:   true,
		StepBillingView:    true,
		StepAssetSelection: true,
		StepEvidencePolicy: true,
		StepEventsPreview:  true,
	}
	for _, step := range ActiveSteps(domain.ModeRFQ) {
		assert.False(t, meaningless[step.ID], "step %s must not appear pre-quotation", step.ID)
	}
}

func TestActiveSteps_Order(t *testing.T) {
	ids := make([]StepID, 0, 12)
	for _, s := range ActiveSteps(domain.ModeAgreement) {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []StepID{
		StepPath, StepNomenclature, StepAcceptance, StepCounterparty,
		StepDetails, StepAssetSelection, StepBillingCycle, StepLineItems,
		StepBillingView, StepEvidencePolicy, StepEventsPreview, StepReview,
	}, ids)
}

func TestStepHeading_Classification(t *testing.T) {
	d := domain.NewDraft()
	d.Mode = domain.ModeAgreement

	var cp StepDescriptor
	for _, s := range ActiveSteps(domain.ModeAgreement) {
		if s.ID == StepCounterparty {
			cp = s
		}
	}
	require.Equal(t, StepCounterparty, cp.ID)

	assert.Equal(t, "Counterparty", StepHeading(cp, d), "no classification yet")

	d.Classification = domain.ClassificationVendor
	assert.Equal(t, "Vendor", StepHeading(cp, d))

	d.Mode = domain.ModeRFQ
	assert.Equal(t, "Vendors", StepHeading(cp, d))
}
