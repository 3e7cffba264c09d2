package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestDealFlowTestSuite(t *testing.T) {
	suite.Run(t, new(DealFlowTestSuite))
}

type DealFlowTestSuite struct {
	suite.Suite
}

func (s *DealFlowTestSuite) deal(status DealStatus) *Deal {
	return &Deal{
		ID:        1,
		Status:    status,
		AmountTon: 2.5,
		AdBrief:   "winter campaign",
		AdDraft:   "draft text",
	}
}

func (s *DealFlowTestSuite) TestLegalEdges() {
	cases := []struct {
		status DealStatus
		action DealAction
		role   Role
		next   DealStatus
	}{
		{DealCreated, ActionAccept, RoleOwner, DealAccepted},
		{DealCreated, ActionReject, RoleOwner, DealRejected},
		{DealAccepted, ActionSubmitDraft, RoleOwner, DealDrafted},
		{DealDrafted, ActionApprove, RoleAdvertiser, DealAwaitingPayment},
		{DealDrafted, ActionRequestRevision, RoleAdvertiser, DealAccepted},
		{DealAwaitingPayment, ActionPay, RoleAdvertiser, DealLocked},
		{DealLocked, ActionAccept, RoleOwner, DealScheduled},
		{DealLocked, ActionDispute, RoleOwner, DealDisputed},
		{DealLocked, ActionDispute, RoleAdvertiser, DealDisputed},
	}

	for _, c := range cases {
		next, err := Apply(s.deal(c.status), c.action, c.role)
		assert.Nil(s.T(), err, "%s as %s in %s", c.action, c.role, c.status)
		assert.Equal(s.T(), c.next, next)
	}
}

// The accept label resolves to a different transition depending on the
// status it is seen in
func (s *DealFlowTestSuite) TestAcceptLabelIsStatusDependent() {
	next, err := Apply(s.deal(DealCreated), ActionAccept, RoleOwner)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), DealAccepted, next)

	next, err = Apply(s.deal(DealLocked), ActionAccept, RoleOwner)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), DealScheduled, next)
}

func (s *DealFlowTestSuite) TestRoleEnforcement() {
	_, err := Apply(s.deal(DealCreated), ActionAccept, RoleAdvertiser)
	assert.ErrorIs(s.T(), err, ErrActionNotAllowed)

	_, err = Apply(s.deal(DealDrafted), ActionApprove, RoleOwner)
	assert.ErrorIs(s.T(), err, ErrActionNotAllowed)

	_, err = Apply(s.deal(DealAwaitingPayment), ActionPay, RoleOwner)
	assert.ErrorIs(s.T(), err, ErrActionNotAllowed)
}

func (s *DealFlowTestSuite) TestPayBeforeApproval() {
	_, err := Apply(s.deal(DealCreated), ActionPay, RoleAdvertiser)
	assert.ErrorIs(s.T(), err, ErrActionNotAllowed)

	_, err = Apply(s.deal(DealDrafted), ActionPay, RoleAdvertiser)
	assert.ErrorIs(s.T(), err, ErrActionNotAllowed)
}

func (s *DealFlowTestSuite) TestApproveRequiresDraft() {
	deal := s.deal(DealDrafted)
	deal.AdDraft = ""

	_, err := Apply(deal, ActionApprove, RoleAdvertiser)
	assert.ErrorIs(s.T(), err, ErrPrecondition)
}

func (s *DealFlowTestSuite) TestRejectedApplyNeverMutates() {
	deal := s.deal(DealCreated)
	before := *deal

	status, err := Apply(deal, ActionPay, RoleAdvertiser)
	assert.NotNil(s.T(), err)
	assert.Equal(s.T(), DealCreated, status)
	assert.Equal(s.T(), before, *deal)
}

// The revision wire status offers exactly what accepted does
func (s *DealFlowTestSuite) TestRevisionBehavesLikeAccepted() {
	next, err := Apply(s.deal(DealRevision), ActionSubmitDraft, RoleOwner)
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), DealDrafted, next)

	assert.Equal(s.T(),
		AvailableActions(DealAccepted, RoleOwner),
		AvailableActions(DealRevision, RoleOwner))
}

func (s *DealFlowTestSuite) TestTerminalStatusesOfferNothing() {
	for _, status := range []DealStatus{DealCompleted, DealRejected, DealDisputed, DealCancelled} {
		assert.True(s.T(), status.IsTerminal())
		assert.Empty(s.T(), AvailableActions(status, RoleOwner))
		assert.Empty(s.T(), AvailableActions(status, RoleAdvertiser))
	}
}

func (s *DealFlowTestSuite) TestAvailableActionsStableOrder() {
	assert.Equal(s.T(),
		[]DealAction{ActionAccept, ActionDispute},
		AvailableActions(DealLocked, RoleOwner))

	assert.Equal(s.T(),
		[]DealAction{ActionApprove, ActionRequestRevision},
		AvailableActions(DealDrafted, RoleAdvertiser))

	assert.Empty(s.T(), AvailableActions(DealCreated, RoleAdvertiser))
}

func (s *DealFlowTestSuite) TestFullHappyPath() {
	deal := s.deal(DealCreated)

	steps := []struct {
		action DealAction
		role   Role
		next   DealStatus
	}{
		{ActionAccept, RoleOwner, DealAccepted},
		{ActionSubmitDraft, RoleOwner, DealDrafted},
		{ActionApprove, RoleAdvertiser, DealAwaitingPayment},
		{ActionPay, RoleAdvertiser, DealLocked},
		{ActionAccept, RoleOwner, DealScheduled},
	}

	for _, step := range steps {
		next, err := Apply(deal, step.action, step.role)
		assert.Nil(s.T(), err)
		assert.Equal(s.T(), step.next, next)
		deal.Status = next
	}

	assert.Equal(s.T(), Nano(2_500_000_000), deal.Amount())
}
