package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/gateway"
	"github.com/adtgram/engine/src/utils/model"
	"github.com/adtgram/engine/src/utils/monitoring"
	"github.com/adtgram/engine/src/utils/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc

	config       *config.Config
	ledger       *fakeLedger
	payer        *fakePayer
	store        *Store
	monitor      *monitoring.Monitor
	reconciler   *Reconciler
	orchestrator *Orchestrator
	events       chan *model.DealEvent
	scope        Scope
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.config = config.Default()
	s.config.Escrow.ConfirmMaxElapsedTime = 5 * time.Second
	s.config.Escrow.ConfirmMaxInterval = 100 * time.Millisecond

	s.ledger = newFakeLedger()
	s.payer = &fakePayer{connected: true, boc: "te6ccgEBAQEA"}
	s.store = NewStore(s.config)
	s.monitor = monitoring.NewMonitor(s.config)
	s.events = make(chan *model.DealEvent, 16)

	s.reconciler = NewReconciler(s.config).
		WithLedger(s.ledger).
		WithStore(s.store).
		WithMonitor(s.monitor)

	s.orchestrator = NewOrchestrator(s.config).
		WithLedger(s.ledger).
		WithSession(s.payer).
		WithReconciler(s.reconciler).
		WithMonitor(s.monitor).
		WithEvents(s.events)

	s.scope = Scope{UserID: 7, Role: model.RoleAdvertiser, View: "deals"}
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.reconciler.Stop()
	s.cancel()
}

func (s *OrchestratorTestSuite) channel() *model.Channel {
	return &model.Channel{ID: 5, Title: "tech news", PricePostTon: 2.5, OwnerID: 3}
}

func (s *OrchestratorTestSuite) TestBuyAdHappyPath() {
	result, err := s.orchestrator.BuyAd(s.ctx, 7, s.channel(), "winter campaign", 2.5)
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), wallet.OutcomeSuccess, result.Outcome.Kind)
	assert.True(s.T(), result.Confirmed)
	assert.Equal(s.T(), model.DealLocked, result.Status)

	// The transfer carried the deal id as memo
	assert.Equal(s.T(), 1, s.payer.transfers)
	assert.Equal(s.T(), "101", s.payer.lastMemo)

	// Exactly one confirmation with the genuine reference
	assert.Equal(s.T(), 1, s.ledger.confirmCalls["te6ccgEBAQEA"])

	event := <-s.events
	assert.Equal(s.T(), model.ActionPay, event.Action)
	assert.Equal(s.T(), model.DealLocked, event.Status)
	assert.NotEmpty(s.T(), event.TraceID)
}

func (s *OrchestratorTestSuite) TestBuyAdValidation() {
	_, err := s.orchestrator.BuyAd(s.ctx, 7, s.channel(), "", 2.5)
	assert.ErrorIs(s.T(), err, ErrValidation)

	_, err = s.orchestrator.BuyAd(s.ctx, 7, s.channel(), "winter campaign", 0)
	assert.ErrorIs(s.T(), err, ErrValidation)

	// Nothing reached the ledger or the wallet
	assert.Empty(s.T(), s.ledger.deals)
	assert.Zero(s.T(), s.payer.transfers)
}

func (s *OrchestratorTestSuite) TestBuyAdRequiresWallet() {
	s.payer.connected = false

	_, err := s.orchestrator.BuyAd(s.ctx, 7, s.channel(), "winter campaign", 2.5)
	assert.ErrorIs(s.T(), err, ErrWalletRequired)
	assert.Empty(s.T(), s.ledger.deals)
}

func (s *OrchestratorTestSuite) TestPayUserCancelled() {
	s.ledger.addDeal(model.Deal{ID: 1, Status: model.DealAwaitingPayment, AmountTon: 2.5, UserRole: model.RoleAdvertiser})
	s.payer.err = errors.New("User rejected the transaction")

	deal := model.Deal{ID: 1, Status: model.DealAwaitingPayment, AmountTon: 2.5}
	result, err := s.orchestrator.Pay(s.ctx, s.scope, &deal)
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), wallet.OutcomeUserCancelled, result.Outcome.Kind)
	assert.False(s.T(), result.Confirmed)

	// The deal stays where it was, the same flow can be retried
	assert.Equal(s.T(), model.DealAwaitingPayment, result.Status)
	assert.Empty(s.T(), s.ledger.confirmCalls)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Payments.Outcomes.UserCancelled.Load())
}

func (s *OrchestratorTestSuite) TestPayIndeterminateIsNeverRetried() {
	s.ledger.addDeal(model.Deal{ID: 1, Status: model.DealAwaitingPayment, AmountTon: 2.5, UserRole: model.RoleAdvertiser})
	s.payer.err = errors.New("bridge connection closed while awaiting transfer result")

	deal := model.Deal{ID: 1, Status: model.DealAwaitingPayment, AmountTon: 2.5}
	result, err := s.orchestrator.Pay(s.ctx, s.scope, &deal)
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), wallet.OutcomeIndeterminate, result.Outcome.Kind)
	assert.False(s.T(), result.Confirmed)

	// One transfer attempt, no confirmation, no local advance
	assert.Equal(s.T(), 1, s.payer.transfers)
	assert.Empty(s.T(), s.ledger.confirmCalls)
	assert.Equal(s.T(), model.DealAwaitingPayment, result.Status)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Payments.Outcomes.Indeterminate.Load())
}

func (s *OrchestratorTestSuite) TestPayIllegalForStatus() {
	deal := model.Deal{ID: 1, Status: model.DealCreated, AmountTon: 2.5}

	_, err := s.orchestrator.Pay(s.ctx, s.scope, &deal)
	assert.ErrorIs(s.T(), err, model.ErrActionNotAllowed)
	assert.Zero(s.T(), s.payer.transfers)
}

func (s *OrchestratorTestSuite) TestConfirmRetriesTransientFailures() {
	s.ledger.addDeal(model.Deal{ID: 1, Status: model.DealAwaitingPayment, AmountTon: 2.5, UserRole: model.RoleAdvertiser})
	s.ledger.confirmFailures = 2

	deal := model.Deal{ID: 1, Status: model.DealAwaitingPayment, AmountTon: 2.5}
	result, err := s.orchestrator.Pay(s.ctx, s.scope, &deal)
	assert.Nil(s.T(), err)

	assert.True(s.T(), result.Confirmed)
	assert.Equal(s.T(), model.DealLocked, result.Status)
	assert.Equal(s.T(), 3, s.ledger.confirmCalls["te6ccgEBAQEA"])
}

func (s *OrchestratorTestSuite) TestConfirmBackendRejectionIsFinal() {
	s.ledger.addDeal(model.Deal{ID: 1, Status: model.DealAwaitingPayment, AmountTon: 2.5, UserRole: model.RoleAdvertiser})
	s.ledger.confirmErr = &gateway.BackendError{StatusCode: 409}

	deal := model.Deal{ID: 1, Status: model.DealAwaitingPayment, AmountTon: 2.5}
	result, err := s.orchestrator.Pay(s.ctx, s.scope, &deal)
	assert.ErrorIs(s.T(), err, gateway.ErrBackendRejected)

	assert.False(s.T(), result.Confirmed)
	assert.Equal(s.T(), model.DealAwaitingPayment, result.Status)

	// Rejections are not retried within the flow
	assert.Equal(s.T(), 1, s.ledger.confirmCalls["te6ccgEBAQEA"])
}

func (s *OrchestratorTestSuite) TestDoAcceptAsOwner() {
	s.ledger.addDeal(model.Deal{ID: 1, Status: model.DealCreated, AmountTon: 2.5, UserRole: model.RoleOwner})
	ownerScope := Scope{UserID: 3, Role: model.RoleOwner, View: "deals"}

	deal := model.Deal{ID: 1, Status: model.DealCreated, AmountTon: 2.5}
	status, err := s.orchestrator.Do(s.ctx, ownerScope, &deal, model.ActionAccept, "")
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), model.DealAccepted, status)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Actions.State.ActionsPerformed.Load())

	event := <-s.events
	assert.Equal(s.T(), model.ActionAccept, event.Action)
	assert.Equal(s.T(), model.DealCreated, event.Previous)
	assert.Equal(s.T(), model.DealAccepted, event.Status)
}

func (s *OrchestratorTestSuite) TestDoRejectsWrongRoleLocally() {
	deal := model.Deal{ID: 1, Status: model.DealCreated, AmountTon: 2.5}

	status, err := s.orchestrator.Do(s.ctx, s.scope, &deal, model.ActionAccept, "")
	assert.ErrorIs(s.T(), err, model.ErrActionNotAllowed)
	assert.Equal(s.T(), model.DealCreated, status)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Actions.Errors.ActionsRejected.Load())
}

func (s *OrchestratorTestSuite) TestDoSubmitDraftNeedsContent() {
	ownerScope := Scope{UserID: 3, Role: model.RoleOwner, View: "deals"}
	deal := model.Deal{ID: 1, Status: model.DealAccepted, AmountTon: 2.5}

	_, err := s.orchestrator.Do(s.ctx, ownerScope, &deal, model.ActionSubmitDraft, "")
	assert.ErrorIs(s.T(), err, ErrValidation)
}

func (s *OrchestratorTestSuite) TestDoStaleViewReloads() {
	// Locally the deal looks accepted, the backend already forgot it
	deal := model.Deal{ID: 42, Status: model.DealAccepted, AmountTon: 2.5}
	ownerScope := Scope{UserID: 3, Role: model.RoleOwner, View: "deals"}

	_, err := s.orchestrator.Do(s.ctx, ownerScope, &deal, model.ActionSubmitDraft, "new draft")
	assert.ErrorIs(s.T(), err, gateway.ErrBackendRejected)
	assert.Equal(s.T(), uint64(1), s.monitor.Report.Actions.Errors.BackendRejections.Load())
}

func (s *OrchestratorTestSuite) TestSetChannelPriceEnforcesMinimum() {
	err := s.orchestrator.SetChannelPrice(s.ctx, 3, 5, 0.05)
	assert.ErrorIs(s.T(), err, ErrValidation)

	err = s.orchestrator.SetChannelPrice(s.ctx, 3, 5, 1.5)
	assert.Nil(s.T(), err)
}
