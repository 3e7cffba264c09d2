package market

import (
	"context"

	"github.com/adtgram/engine/src/utils/gateway"
	"github.com/adtgram/engine/src/utils/model"
)

// Ledger is the slice of the backend gateway the engine depends on.
// Implemented by gateway.Client; faked in tests.
type Ledger interface {
	Channels(ctx context.Context) ([]model.Channel, error)
	UserChannels(ctx context.Context, userID int64) ([]model.Channel, error)
	UpdateChannelPrice(ctx context.Context, channelID, userID int64, priceTon float64) error

	UserDeals(ctx context.Context, userID int64) ([]model.Deal, error)
	CreateDeal(ctx context.Context, req gateway.CreateDealRequest) (gateway.CreateDealResponse, error)

	AcceptDeal(ctx context.Context, dealID, userID int64) (gateway.StatusResponse, error)
	RejectDeal(ctx context.Context, dealID, userID int64, reason string) (gateway.StatusResponse, error)
	SubmitDraft(ctx context.Context, dealID, userID int64, content string) (gateway.StatusResponse, error)
	ApproveDraft(ctx context.Context, dealID, userID int64) (gateway.StatusResponse, error)
	RequestRevision(ctx context.Context, dealID, userID int64, reason string) (gateway.StatusResponse, error)
	ConfirmPayment(ctx context.Context, dealID, userID int64, txHash string) (gateway.StatusResponse, error)
	DisputeDeal(ctx context.Context, dealID, userID int64, reason string) (gateway.StatusResponse, error)

	SaveWallet(ctx context.Context, userID int64, walletAddress string) error
	SaveRole(ctx context.Context, userID int64, role model.Role) error
}

// Payer is the slice of the wallet session the orchestrator depends on
type Payer interface {
	RequireConnection(ctx context.Context) bool
	CurrentAddress() (string, bool)
	SendPayment(ctx context.Context, amount model.Nano, memo string) (boc string, err error)
}
