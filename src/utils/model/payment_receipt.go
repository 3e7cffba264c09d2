package model

import "time"

// PaymentReceipt journals a transfer the signer reported as sent.
// The row is written before confirm-payment is attempted, so a backend
// outage after a successful transfer never loses the reference. The
// sweeper re-submits unacknowledged rows; the ledger deduplicates on
// the reference, so re-submission is safe.
type PaymentReceipt struct {
	ID        int64 `gorm:"primaryKey"`
	DealID    int64 `gorm:"index:idx_payment_receipts_deal"`
	PayerID   int64
	AmountTon float64

	// Transaction reference obtained from the signer, never fabricated
	Boc string `gorm:"uniqueIndex:idx_payment_receipts_boc"`

	// Set once the ledger acknowledged confirm-payment
	Acknowledged bool `gorm:"index:idx_payment_receipts_acked"`
	Attempts     int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PaymentReceipt) TableName() string {
	return "payment_receipts"
}
