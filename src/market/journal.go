package market

import (
	"context"

	"github.com/adtgram/engine/src/utils/logger"
	"github.com/adtgram/engine/src/utils/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Journal persists payment receipts so a transaction reference obtained
// from the signer survives a backend outage or a crash between the
// transfer and the confirm-payment call.
type Journal struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewJournal(db *gorm.DB) (self *Journal) {
	self = new(Journal)
	self.db = db
	self.log = logger.NewSublogger("journal")
	return
}

// Record writes the receipt before confirm-payment is attempted.
// Re-recording the same reference is a no-op.
func (self *Journal) Record(ctx context.Context, receipt *model.PaymentReceipt) (err error) {
	return self.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "boc"}},
			DoNothing: true,
		}).
		Create(receipt).
		Error
}

// MarkAcknowledged records that the ledger accepted the reference
func (self *Journal) MarkAcknowledged(ctx context.Context, boc string) (err error) {
	return self.db.WithContext(ctx).
		Model(&model.PaymentReceipt{}).
		Where("boc = ?", boc).
		Update("acknowledged", true).
		Error
}

// BumpAttempts counts one more failed confirmation try
func (self *Journal) BumpAttempts(ctx context.Context, boc string) (err error) {
	return self.db.WithContext(ctx).
		Model(&model.PaymentReceipt{}).
		Where("boc = ?", boc).
		Update("attempts", gorm.Expr("attempts + 1")).
		Error
}

// Unacknowledged lists receipts still waiting for a ledger ack, up to
// the attempt budget. Rows past the budget stay for manual
// reconciliation.
func (self *Journal) Unacknowledged(ctx context.Context, maxAttempts int) (out []model.PaymentReceipt, err error) {
	err = self.db.WithContext(ctx).
		Where("acknowledged = ? AND attempts < ?", false, maxAttempts).
		Order("id").
		Find(&out).
		Error
	return
}
