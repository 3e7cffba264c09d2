package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/gateway"
	"github.com/adtgram/engine/src/utils/model"
	"github.com/adtgram/engine/src/utils/monitoring"
	"github.com/adtgram/engine/src/utils/task"
	"github.com/adtgram/engine/src/utils/wallet"

	"github.com/rs/xid"
)

// Orchestrator sequences multi-step user actions across the ledger and
// the wallet. Steps of one action run strictly in order; a later step
// never starts before the prior one's result is known.
type Orchestrator struct {
	*task.Task

	ledger     Ledger
	session    Payer
	reconciler *Reconciler
	journal    *Journal
	monitor    *monitoring.Monitor
	classifier wallet.Classifier
	events     chan *model.DealEvent
}

// PaymentResult is what a pay flow resolved to. Status is the last
// status known for the deal: on anything but a confirmed payment it is
// the status the flow started from, never an optimistic advance.
type PaymentResult struct {
	DealID    int64
	Outcome   wallet.Outcome
	Status    model.DealStatus
	Confirmed bool
}

func NewOrchestrator(config *config.Config) (self *Orchestrator) {
	self = new(Orchestrator)
	self.classifier = wallet.DefaultClassifier
	self.Task = task.NewTask(config, "orchestrator")
	return
}

func (self *Orchestrator) WithLedger(v Ledger) *Orchestrator {
	self.ledger = v
	return self
}

func (self *Orchestrator) WithSession(v Payer) *Orchestrator {
	self.session = v
	return self
}

func (self *Orchestrator) WithReconciler(v *Reconciler) *Orchestrator {
	self.reconciler = v
	return self
}

func (self *Orchestrator) WithJournal(v *Journal) *Orchestrator {
	self.journal = v
	return self
}

func (self *Orchestrator) WithMonitor(v *monitoring.Monitor) *Orchestrator {
	self.monitor = v
	return self
}

// WithClassifier overrides the wallet error classification policy
func (self *Orchestrator) WithClassifier(v wallet.Classifier) *Orchestrator {
	self.classifier = v
	return self
}

func (self *Orchestrator) WithEvents(v chan *model.DealEvent) *Orchestrator {
	self.events = v
	return self
}

// BuyAd runs the whole pre-paid purchase: validate locally, create the
// deal record, immediately request payment from the wallet, confirm the
// obtained reference with the ledger
func (self *Orchestrator) BuyAd(ctx context.Context, advertiserID int64, channel *model.Channel, brief string, amountTon float64) (result *PaymentResult, err error) {
	if brief == "" {
		return nil, fmt.Errorf("%w: brief must not be empty", ErrValidation)
	}
	if amountTon <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	if !self.session.RequireConnection(ctx) {
		return nil, ErrWalletRequired
	}

	trace := xid.New().String()
	log := self.Log.WithField("trace", trace).WithField("channel_id", channel.ID)

	created, err := self.ledger.CreateDeal(ctx, gateway.CreateDealRequest{
		AdvertiserID: advertiserID,
		ChannelID:    channel.ID,
		Brief:        brief,
		Amount:       amountTon,
	})
	if err != nil {
		return nil, err
	}
	if created.Status != "created" {
		return nil, fmt.Errorf("%w: ledger answered %q", ErrDealNotCreated, created.Status)
	}

	log.WithField("deal_id", created.DealID).Info("Deal record created, requesting payment")

	return self.pay(ctx, trace, created.DealID, advertiserID, model.NanoFromTon(amountTon), model.DealCreated)
}

// Pay settles an approved deal. Legal only for the advertiser while the
// deal awaits payment; checked locally against the transition table
// before any side effect.
func (self *Orchestrator) Pay(ctx context.Context, scope Scope, deal *model.Deal) (result *PaymentResult, err error) {
	_, err = model.Apply(deal, model.ActionPay, scope.Role)
	if err != nil {
		self.monitor.Report.Actions.Errors.ActionsRejected.Inc()
		return nil, err
	}

	if !self.session.RequireConnection(ctx) {
		return nil, ErrWalletRequired
	}

	trace := xid.New().String()
	result, err = self.pay(ctx, trace, deal.ID, scope.UserID, deal.Amount(), deal.Status)
	if err == nil && result.Confirmed {
		self.reload(ctx, scope)
	}
	return
}

// pay is the failure-sensitive half: wallet transfer, then ledger
// confirmation. Exactly one transfer is attempted per call; a
// cancellation leaves the deal where it was so the user may retry the
// same flow, and an indeterminate outcome is never retried blindly.
func (self *Orchestrator) pay(ctx context.Context, trace string, dealID, payerID int64, amount model.Nano, baseline model.DealStatus) (result *PaymentResult, err error) {
	log := self.Log.WithField("trace", trace).WithField("deal_id", dealID)

	self.monitor.Report.Payments.State.TransfersSent.Inc()
	boc, walletErr := self.session.SendPayment(ctx, amount, strconv.FormatInt(dealID, 10))
	outcome := wallet.Classify(self.classifier, boc, walletErr)

	result = &PaymentResult{
		DealID:  dealID,
		Outcome: outcome,
		Status:  baseline,
	}

	switch outcome.Kind {
	case wallet.OutcomeUserCancelled:
		// Nothing left the wallet. Safe to tell the user so.
		self.monitor.Report.Payments.Outcomes.UserCancelled.Inc()
		log.Info("Payment cancelled by user")
		return result, nil

	case wallet.OutcomeIndeterminate:
		// The transfer may have gone through and only the callback
		// failed. Do not advance anything locally, do not retry: the
		// reconciliation loop will surface backend truth.
		self.monitor.Report.Payments.Outcomes.Indeterminate.Inc()
		log.WithError(outcome.Detail).Warn("Payment outcome indeterminate, deal left to reconciliation")
		return result, nil
	}

	// Success: the reference exists on-chain. Journal it before telling
	// the ledger, so it cannot be lost to a backend outage.
	if self.journal != nil {
		err = self.journal.Record(ctx, &model.PaymentReceipt{
			DealID:    dealID,
			PayerID:   payerID,
			AmountTon: amount.Ton(),
			Boc:       outcome.Boc,
		})
		if err != nil {
			log.WithError(err).Error("Failed to journal the payment receipt")
			// The confirm attempt below still runs, the reference is
			// held in memory at this point
		}
	}

	status, err := self.confirm(ctx, dealID, payerID, outcome.Boc)
	if err != nil {
		result.Status = baseline
		return result, err
	}

	result.Status = status
	result.Confirmed = true
	self.monitor.Report.Payments.State.PaymentsConfirmed.Inc()
	self.emit(&model.DealEvent{
		DealID:   dealID,
		Previous: baseline,
		Status:   status,
		Action:   model.ActionPay,
		Role:     model.RoleAdvertiser,
		TraceID:  trace,
	})

	log.WithField("status", status).Info("Payment confirmed, funds locked")
	return result, nil
}

// confirm retries transient failures within a short budget. Always the
// genuinely obtained reference: the ledger deduplicates on it, so
// re-submission cannot double-count.
func (self *Orchestrator) confirm(ctx context.Context, dealID, payerID int64, boc string) (status model.DealStatus, err error) {
	var out gateway.StatusResponse
	var rejected error

	err = task.NewRetry().
		WithContext(ctx).
		WithMaxElapsedTime(self.Config.Escrow.ConfirmMaxElapsedTime).
		WithMaxInterval(self.Config.Escrow.ConfirmMaxInterval).
		WithOnError(func(err error) {
			self.Log.WithError(err).WithField("deal_id", dealID).Warn("Confirm-payment failed, retrying")
		}).
		Run(func() error {
			var callErr error
			out, callErr = self.ledger.ConfirmPayment(ctx, dealID, payerID, boc)
			if errors.Is(callErr, gateway.ErrBackendRejected) {
				// Permanent within this flow, the sweeper owns the rest
				rejected = callErr
				return nil
			}
			return callErr
		})

	if err == nil {
		err = rejected
	}
	if err != nil {
		self.monitor.Report.Payments.Errors.ConfirmErrors.Inc()
		if self.journal != nil {
			bumpErr := self.journal.BumpAttempts(ctx, boc)
			if bumpErr != nil {
				self.Log.WithError(bumpErr).Error("Failed to bump receipt attempts")
			}
		}
		return "", err
	}

	if self.journal != nil {
		ackErr := self.journal.MarkAcknowledged(ctx, boc)
		if ackErr != nil {
			self.Log.WithError(ackErr).Error("Failed to mark receipt acknowledged")
		}
	}
	return out.Status, nil
}

// Do performs a single-step deal action: legality is checked against
// the transition table for the actor's role and the deal's current
// status, then exactly one ledger edge is called.
func (self *Orchestrator) Do(ctx context.Context, scope Scope, deal *model.Deal, action model.DealAction, content string) (status model.DealStatus, err error) {
	_, err = model.Apply(deal, action, scope.Role)
	if err != nil {
		self.monitor.Report.Actions.Errors.ActionsRejected.Inc()
		return deal.Status, err
	}

	if action == model.ActionSubmitDraft && content == "" {
		return deal.Status, fmt.Errorf("%w: draft content must not be empty", ErrValidation)
	}

	trace := xid.New().String()
	log := self.Log.WithField("trace", trace).
		WithField("deal_id", deal.ID).
		WithField("action", action)

	var out gateway.StatusResponse
	switch action {
	case model.ActionAccept:
		out, err = self.ledger.AcceptDeal(ctx, deal.ID, scope.UserID)
	case model.ActionReject:
		out, err = self.ledger.RejectDeal(ctx, deal.ID, scope.UserID, content)
	case model.ActionSubmitDraft:
		out, err = self.ledger.SubmitDraft(ctx, deal.ID, scope.UserID, content)
	case model.ActionApprove:
		out, err = self.ledger.ApproveDraft(ctx, deal.ID, scope.UserID)
	case model.ActionRequestRevision:
		out, err = self.ledger.RequestRevision(ctx, deal.ID, scope.UserID, content)
	case model.ActionDispute:
		out, err = self.ledger.DisputeDeal(ctx, deal.ID, scope.UserID, content)
	default:
		return deal.Status, fmt.Errorf("%w: %s is not a single-step action", model.ErrActionNotAllowed, action)
	}

	if err != nil {
		if errors.Is(err, gateway.ErrBackendRejected) {
			// The optimistic local view was stale, reload backend truth
			self.monitor.Report.Actions.Errors.BackendRejections.Inc()
			log.WithError(err).Warn("Ledger rejected the transition, reloading")
			self.reload(ctx, scope)
		}
		return deal.Status, err
	}

	self.monitor.Report.Actions.State.ActionsPerformed.Inc()
	self.emit(&model.DealEvent{
		DealID:   deal.ID,
		Previous: deal.Status,
		Status:   out.Status,
		Action:   action,
		Role:     scope.Role,
		TraceID:  trace,
	})

	log.WithField("status", out.Status).Info("Action performed")

	self.reload(ctx, scope)
	return out.Status, nil
}

// SetChannelPrice updates the owner's asking price, enforcing the
// marketplace minimum locally
func (self *Orchestrator) SetChannelPrice(ctx context.Context, userID, channelID int64, priceTon float64) (err error) {
	if priceTon < self.Config.Escrow.MinPriceTon {
		return fmt.Errorf("%w: minimum price is %v TON", ErrValidation, self.Config.Escrow.MinPriceTon)
	}

	err = self.ledger.UpdateChannelPrice(ctx, channelID, userID, priceTon)
	if err != nil {
		return
	}

	self.reconciler.store.InvalidateChannels()
	return
}

func (self *Orchestrator) reload(ctx context.Context, scope Scope) {
	err := self.reconciler.Refresh(ctx, scope)
	if err != nil {
		self.Log.WithError(err).WithField("scope", scope.String()).Warn("Reload after action failed")
	}
}

func (self *Orchestrator) emit(event *model.DealEvent) {
	if self.events == nil {
		return
	}
	select {
	case self.events <- event:
	default:
		self.Log.WithField("deal_id", event.DealID).Warn("Event queue full, dropping deal event")
	}
}
