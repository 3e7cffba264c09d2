package market

import (
	"context"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/monitoring"
	"github.com/adtgram/engine/src/utils/task"

	"github.com/robfig/cron"
)

// Sweeper re-submits journaled payment receipts the ledger never
// acknowledged. Covers the window where the transfer went through but
// the confirmation call failed mid-flow.
type Sweeper struct {
	*task.Task

	ledger  Ledger
	journal *Journal
	monitor *monitoring.Monitor
	cron    *cron.Cron
}

func NewSweeper(config *config.Config) (self *Sweeper) {
	self = new(Sweeper)
	self.cron = cron.New()

	self.Task = task.NewTask(config, "sweeper").
		WithOnBeforeStart(self.schedule).
		WithOnStop(self.cron.Stop)
	return
}

func (self *Sweeper) WithLedger(v Ledger) *Sweeper {
	self.ledger = v
	return self
}

func (self *Sweeper) WithJournal(v *Journal) *Sweeper {
	self.journal = v
	return self
}

func (self *Sweeper) WithMonitor(v *monitoring.Monitor) *Sweeper {
	self.monitor = v
	return self
}

func (self *Sweeper) schedule() (err error) {
	err = self.cron.AddFunc(self.Config.Journal.SweepSchedule, self.sweep)
	if err != nil {
		return
	}
	self.cron.Start()
	return
}

func (self *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Journal.SweepTimeout)
	defer cancel()

	receipts, err := self.journal.Unacknowledged(ctx, self.Config.Journal.MaxAttempts)
	if err != nil {
		self.Log.WithError(err).Error("Failed to list unacknowledged receipts")
		return
	}
	if len(receipts) == 0 {
		return
	}

	self.Log.WithField("count", len(receipts)).Info("Re-submitting unacknowledged payment receipts")

	for _, receipt := range receipts {
		// The ledger deduplicates on the transaction reference, so a
		// receipt that was in fact acknowledged before just gets
		// re-marked here
		_, err = self.ledger.ConfirmPayment(ctx, receipt.DealID, receipt.PayerID, receipt.Boc)
		if err != nil {
			self.Log.WithError(err).
				WithField("deal_id", receipt.DealID).
				Warn("Receipt re-submission failed")
			err = self.journal.BumpAttempts(ctx, receipt.Boc)
			if err != nil {
				self.Log.WithError(err).Error("Failed to bump receipt attempts")
			}
			continue
		}

		err = self.journal.MarkAcknowledged(ctx, receipt.Boc)
		if err != nil {
			self.Log.WithError(err).Error("Failed to mark receipt acknowledged")
			continue
		}
		self.monitor.Report.Payments.State.ReceiptsSwept.Inc()
	}
}
