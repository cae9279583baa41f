package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/hotelcapital/raise-engine/internal/compliance"
	"github.com/hotelcapital/raise-engine/internal/errors"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) addSequence(deal *models.Deal, approved bool, steps ...models.OutreachStep) *models.OutreachSequence {
	seq := &models.OutreachSequence{
		ID:                 uuid.New(),
		DealID:             deal.ID,
		Deal:               deal,
		Name:               "Intro",
		Type:               "MULTI_CHANNEL",
		ComplianceApproved: approved,
		Steps:              steps,
	}
	e.outreach.sequences[seq.ID] = seq
	return seq
}

func contactable(mod func(*models.Investor)) *models.Investor {
	inv := &models.Investor{
		ID:               uuid.New(),
		Email:            uuid.NewString() + "@example.com",
		AccreditedStatus: models.AccreditedSelfCertified,
	}
	if mod != nil {
		mod(inv)
	}
	return inv
}

func TestOutreachService_Enroll_GatesInOrder(t *testing.T) {
	env := newTestEnv()
	deal := env.addDeal(models.OfferingRegD506B)
	seq := env.addSequence(deal, true)

	ok := env.addInvestor(contactable(func(i *models.Investor) { i.PriorRelationship = true }))
	optedOut := env.addInvestor(contactable(func(i *models.Investor) { i.OptedOut = true }))
	dnc := env.addInvestor(contactable(func(i *models.Investor) { i.DoNotContact = true; i.PriorRelationship = true }))
	noRelationship := env.addInvestor(contactable(nil))
	busy := env.addInvestor(contactable(func(i *models.Investor) { i.PriorRelationship = true }))
	env.outreach.active[busy.ID] = 2
	missing := uuid.New()

	report, err := env.services.Outreach.Enroll(context.Background(), seq.ID,
		[]uuid.UUID{ok.ID, optedOut.ID, dnc.ID, noRelationship.ID, busy.ID, missing, ok.ID})
	require.NoError(t, err)

	expected := []EnrollmentResult{
		{InvestorID: ok.ID, Enrolled: true},
		{InvestorID: optedOut.ID, Reason: "Investor opted out or DNC"},
		{InvestorID: dnc.ID, Reason: "Investor opted out or DNC"},
		{InvestorID: noRelationship.ID, Reason: "506(b) requires prior relationship"},
		{InvestorID: busy.ID, Reason: "Max active sequences reached (2)"},
		{InvestorID: missing, Reason: "Investor not found"},
		{InvestorID: ok.ID, Reason: "Already enrolled"},
	}
	assert.Equal(t, expected, report.Results)
	assert.Equal(t, EnrollmentSummary{Total: 7, Enrolled: 1, Rejected: 6}, report.Summary)
	assert.True(t, env.deals.contacted[ok.ID])
	assert.False(t, env.deals.contacted[busy.ID])
}

func TestOutreachService_Enroll_506C(t *testing.T) {
	env := newTestEnv()
	deal := env.addDeal(models.OfferingRegD506C)
	seq := env.addSequence(deal, true)

	stranger := env.addInvestor(contactable(nil))
	notAccredited := env.addInvestor(contactable(func(i *models.Investor) {
		i.AccreditedStatus = models.AccreditedNotAccredited
		i.PriorRelationship = true
	}))

	report, err := env.services.Outreach.Enroll(context.Background(), seq.ID, []uuid.UUID{stranger.ID, notAccredited.ID})
	require.NoError(t, err)

	assert.True(t, report.Results[0].Enrolled, "506(c) allows general solicitation")
	assert.Equal(t, "506(c) requires accredited investor", report.Results[1].Reason)
}

func TestOutreachService_Enroll_ConfiguredLimit(t *testing.T) {
	env := newTestEnv()
	env.cfg.MaxActiveEnrollments = 3
	env.services = newServices(env.repos, env.cfg, logger.NewNopLogger())
	deal := env.addDeal(models.OfferingRegD506C)
	seq := env.addSequence(deal, true)

	inv := env.addInvestor(contactable(nil))
	env.outreach.active[inv.ID] = 3

	report, err := env.services.Outreach.Enroll(context.Background(), seq.ID, []uuid.UUID{inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "Max active sequences reached (3)", report.Results[0].Reason)
}

func TestOutreachService_Enroll_DatabaseError(t *testing.T) {
	env := newTestEnv()
	deal := env.addDeal(models.OfferingRegD506C)
	seq := env.addSequence(deal, true)
	inv := env.addInvestor(contactable(nil))
	env.deals.markErr = errBoom

	report, err := env.services.Outreach.Enroll(context.Background(), seq.ID, []uuid.UUID{inv.ID})
	require.NoError(t, err)
	assert.Equal(t, "Database error", report.Results[0].Reason)
	assert.Equal(t, 1, report.Summary.Rejected)
}

func TestOutreachService_Enroll_SequenceChecks(t *testing.T) {
	env := newTestEnv()
	deal := env.addDeal(models.OfferingRegD506B)
	pending := env.addSequence(deal, false)

	_, err := env.services.Outreach.Enroll(context.Background(), pending.ID, []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, errors.HTTPStatus(err))
	appErr, _ := errors.As(err)
	assert.Equal(t, "Sequence not yet compliance-approved", appErr.Message)

	_, err = env.services.Outreach.Enroll(context.Background(), uuid.New(), nil)
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatus(err))
}

func TestOutreachService_ApproveSequence(t *testing.T) {
	env := newTestEnv()
	deal := env.addDeal(models.OfferingRegD506B)

	clean := env.addSequence(deal, false,
		models.OutreachStep{StepOrder: 0, Channel: models.ChannelEmail, TemplateSubject: "Austin", TemplateBody: "<p>" + cleanBody + "</p>"},
		models.OutreachStep{StepOrder: 1, Channel: models.ChannelVoice, TemplateBody: "This is a sure thing."},
		models.OutreachStep{StepOrder: 2, Channel: models.ChannelSMS, TemplateBody: "Quick follow-up on Austin."},
	)

	result, err := env.services.Outreach.ApproveSequence(context.Background(), clean.ID)
	require.NoError(t, err)
	assert.True(t, result.Approved)
	require.Len(t, result.Steps, 2, "voice scripts are not reviewed")
	assert.Equal(t, 0, result.Steps[0].StepOrder)
	assert.Equal(t, models.ChannelSMS, result.Steps[1].Channel)
	assert.Len(t, result.Steps[1].Result.Warnings, 2)
	assert.True(t, env.outreach.approved[clean.ID])

	hype := env.addSequence(deal, true,
		models.OutreachStep{StepOrder: 0, Channel: models.ChannelEmail, TemplateSubject: "A once in a lifetime deal", TemplateBody: cleanBody},
	)

	result, err = env.services.Outreach.ApproveSequence(context.Background(), hype.ID)
	require.NoError(t, err)
	assert.False(t, result.Approved)
	assert.True(t, result.Steps[0].Result.HasViolation(compliance.RuleNoHype))
	assert.False(t, env.outreach.approved[hype.ID])

	_, err = env.services.Outreach.ApproveSequence(context.Background(), uuid.New())
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatus(err))
}

func TestOutreachService_CreateSequence(t *testing.T) {
	env := newTestEnv()
	deal := env.addDeal(models.OfferingRegD506B)

	seq, err := env.services.Outreach.CreateSequence(context.Background(), &models.CreateSequenceRequest{
		DealID: deal.ID,
		Name:   "Austin intro",
		Steps:  []models.OutreachStep{{StepOrder: 0, Channel: models.ChannelEmail, TemplateBody: "Hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "EMAIL", seq.Type)
	assert.False(t, seq.ComplianceApproved)
	assert.Equal(t, deal, seq.Deal)

	_, err = env.services.Outreach.CreateSequence(context.Background(), &models.CreateSequenceRequest{
		DealID: uuid.New(),
		Name:   "Orphan",
		Steps:  []models.OutreachStep{{Channel: models.ChannelEmail}},
	})
	require.Error(t, err)
	appErr, _ := errors.As(err)
	assert.Equal(t, "Deal not found", appErr.Message)

	_, err = env.services.Outreach.CreateSequence(context.Background(), &models.CreateSequenceRequest{
		DealID: deal.ID,
		Name:   "Dup steps",
		Steps:  []models.OutreachStep{{StepOrder: 1, Channel: models.ChannelEmail}, {StepOrder: 1, Channel: models.ChannelSMS}},
	})
	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(err))
}

func TestOutreachService_OptOut(t *testing.T) {
	env := newTestEnv()
	inv := env.addInvestor(contactable(nil))
	env.outreach.active[inv.ID] = 2

	result, err := env.services.Outreach.OptOut(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.CancelledEnrollments)

	stored := env.investors.investors[inv.ID]
	assert.True(t, stored.OptedOut)
	assert.True(t, stored.DoNotContact)
	firstDate := *stored.OptOutDate
	assert.Equal(t, result.OptedOutAt, env.outreach.cancelled[inv.ID])

	again, err := env.services.Outreach.OptOut(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Zero(t, again.CancelledEnrollments)
	assert.Equal(t, firstDate, *env.investors.investors[inv.ID].OptOutDate, "first opt-out date is kept")

	_, err = env.services.Outreach.OptOut(context.Background(), uuid.New())
	assert.Equal(t, http.StatusNotFound, errors.HTTPStatus(err))
}
