package market

import (
	"context"
	"errors"
	"sync"

	"github.com/adtgram/engine/src/utils/gateway"
	"github.com/adtgram/engine/src/utils/model"
)

// fakeLedger is an in-memory Ledger with injectable failures
type fakeLedger struct {
	mtx sync.Mutex

	deals    map[int64]*model.Deal
	channels []model.Channel
	nextID   int64

	fetchErr   error
	confirmErr error

	// Fail this many confirm calls with a transient error, then succeed
	confirmFailures int

	fetches        int
	channelFetches int
	confirmCalls   map[string]int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		deals:        make(map[int64]*model.Deal),
		nextID:       100,
		confirmCalls: make(map[string]int),
	}
}

func (self *fakeLedger) addDeal(deal model.Deal) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.deals[deal.ID] = &deal
}

func (self *fakeLedger) setStatus(dealID int64, status model.DealStatus) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.deals[dealID].Status = status
}

func (self *fakeLedger) Channels(ctx context.Context) ([]model.Channel, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.channelFetches++
	return append([]model.Channel{}, self.channels...), nil
}

func (self *fakeLedger) UserChannels(ctx context.Context, userID int64) ([]model.Channel, error) {
	return self.Channels(ctx)
}

func (self *fakeLedger) UpdateChannelPrice(ctx context.Context, channelID, userID int64, priceTon float64) error {
	return nil
}

func (self *fakeLedger) UserDeals(ctx context.Context, userID int64) (out []model.Deal, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.fetches++
	if self.fetchErr != nil {
		return nil, self.fetchErr
	}
	for _, d := range self.deals {
		out = append(out, *d)
	}
	return
}

func (self *fakeLedger) CreateDeal(ctx context.Context, req gateway.CreateDealRequest) (gateway.CreateDealResponse, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.nextID++
	self.deals[self.nextID] = &model.Deal{
		ID:           self.nextID,
		AdvertiserID: req.AdvertiserID,
		ChannelID:    req.ChannelID,
		Status:       model.DealCreated,
		AmountTon:    req.Amount,
		AdBrief:      req.Brief,
		UserRole:     model.RoleAdvertiser,
	}
	return gateway.CreateDealResponse{Status: "created", DealID: self.nextID}, nil
}

func (self *fakeLedger) transition(dealID int64, status model.DealStatus) (gateway.StatusResponse, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	deal, ok := self.deals[dealID]
	if !ok {
		return gateway.StatusResponse{}, &gateway.BackendError{StatusCode: 404}
	}
	deal.Status = status
	return gateway.StatusResponse{Status: status}, nil
}

func (self *fakeLedger) AcceptDeal(ctx context.Context, dealID, userID int64) (gateway.StatusResponse, error) {
	self.mtx.Lock()
	status := model.DealAccepted
	if deal, ok := self.deals[dealID]; ok && deal.Status == model.DealLocked {
		status = model.DealScheduled
	}
	self.mtx.Unlock()
	return self.transition(dealID, status)
}

func (self *fakeLedger) RejectDeal(ctx context.Context, dealID, userID int64, reason string) (gateway.StatusResponse, error) {
	return self.transition(dealID, model.DealRejected)
}

func (self *fakeLedger) SubmitDraft(ctx context.Context, dealID, userID int64, content string) (gateway.StatusResponse, error) {
	return self.transition(dealID, model.DealDrafted)
}

func (self *fakeLedger) ApproveDraft(ctx context.Context, dealID, userID int64) (gateway.StatusResponse, error) {
	return self.transition(dealID, model.DealAwaitingPayment)
}

func (self *fakeLedger) RequestRevision(ctx context.Context, dealID, userID int64, reason string) (gateway.StatusResponse, error) {
	return self.transition(dealID, model.DealAccepted)
}

func (self *fakeLedger) ConfirmPayment(ctx context.Context, dealID, userID int64, txHash string) (gateway.StatusResponse, error) {
	self.mtx.Lock()
	self.confirmCalls[txHash]++
	err := self.confirmErr
	if err == nil && self.confirmFailures > 0 {
		self.confirmFailures--
		err = errors.New("connection reset by peer")
	}
	self.mtx.Unlock()

	if err != nil {
		return gateway.StatusResponse{}, err
	}
	return self.transition(dealID, model.DealLocked)
}

func (self *fakeLedger) DisputeDeal(ctx context.Context, dealID, userID int64, reason string) (gateway.StatusResponse, error) {
	return self.transition(dealID, model.DealDisputed)
}

func (self *fakeLedger) SaveWallet(ctx context.Context, userID int64, walletAddress string) error {
	return nil
}

func (self *fakeLedger) SaveRole(ctx context.Context, userID int64, role model.Role) error {
	return nil
}

// fakePayer is a wallet session stub with scripted transfer results
type fakePayer struct {
	connected bool
	boc       string
	err       error

	transfers int
	lastMemo  string
}

func (self *fakePayer) RequireConnection(ctx context.Context) bool {
	return self.connected
}

func (self *fakePayer) CurrentAddress() (string, bool) {
	if !self.connected {
		return "", false
	}
	return "UQAdvertiserWallet", true
}

func (self *fakePayer) SendPayment(ctx context.Context, amount model.Nano, memo string) (string, error) {
	self.transfers++
	self.lastMemo = memo
	return self.boc, self.err
}
