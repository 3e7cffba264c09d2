package model

import "time"

// Deal is one escrowed advertising transaction between an advertiser
// and a channel owner. The ledger owns the record; this is the client's
// view of it.
type Deal struct {
	ID           int64      `json:"id"`
	AdvertiserID int64      `json:"advertiser_id"`
	ChannelID    int64      `json:"channel_id"`
	Status       DealStatus `json:"status"`

	// Economic terms, fixed at creation
	AmountTon float64 `json:"amount_ton"`

	// Advertiser's brief and the owner's draft
	AdBrief         string `json:"ad_brief"`
	AdDraft         string `json:"ad_draft,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`

	// Payment evidence, present once funds were sent
	PaymentTxHash string `json:"payment_tx_hash,omitempty"`

	// View field the ledger computes relative to the requesting user.
	// Used only for client-side filtering.
	UserRole Role `json:"user_role,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Amount is the deal's economic terms in fixed point
func (d *Deal) Amount() Nano {
	return NanoFromTon(d.AmountTon)
}
