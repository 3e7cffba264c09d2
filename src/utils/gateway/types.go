package gateway

import "github.com/adtgram/engine/src/utils/model"

type CreateDealRequest struct {
	AdvertiserID int64   `json:"advertiser_id"`
	ChannelID    int64   `json:"channel_id"`
	Brief        string  `json:"brief"`
	Amount       float64 `json:"amount"`
}

type CreateDealResponse struct {
	Status string `json:"status"`
	DealID int64  `json:"deal_id"`
}

type ActionSimpleRequest struct {
	UserID int64 `json:"user_id"`
}

type ActionWithContentRequest struct {
	UserID  int64  `json:"user_id"`
	Content string `json:"content"`
}

type PaymentConfirmationRequest struct {
	UserID          int64  `json:"user_id"`
	TransactionHash string `json:"transaction_hash"`
}

type DisputeRequest struct {
	UserID int64  `json:"user_id"`
	Reason string `json:"reason"`
}

type UpdateChannelRequest struct {
	UserID    int64   `json:"user_id"`
	PricePost float64 `json:"price_post"`
}

type WalletUpdateRequest struct {
	UserID        int64  `json:"user_id"`
	WalletAddress string `json:"wallet_address"`
}

type RoleUpdateRequest struct {
	UserID int64      `json:"user_id"`
	Role   model.Role `json:"role"`
}

// StatusResponse is what every deal action endpoint answers with:
// the status the ledger holds after the action
type StatusResponse struct {
	Status model.DealStatus `json:"status"`
}

type UpdatedResponse struct {
	Status string `json:"status"`
}
