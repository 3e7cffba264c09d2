package market

import (
	"context"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/gateway"
	"github.com/adtgram/engine/src/utils/model"
	"github.com/adtgram/engine/src/utils/monitoring"
	"github.com/adtgram/engine/src/utils/publisher"
	"github.com/adtgram/engine/src/utils/task"
	"github.com/adtgram/engine/src/utils/wallet"
)

type Controller struct {
	*task.Task
}

// Main class that wires the deal engine together for one viewing scope:
// gateway client, wallet session, reconciliation loops, payment
// orchestration and monitoring
func NewController(config *config.Config, scope Scope) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(config, "controller")

	monitor := monitoring.NewMonitor(config)

	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	events := make(chan *model.DealEvent, config.Redis.MaxQueueSize)

	watched := func() *task.Task {
		client := gateway.NewClient(config)

		session := wallet.NewSession(config).
			WithSigner(wallet.NewBridgeSigner(config)).
			OnStatusChange(func(event wallet.SessionEvent) {
				if !event.Connected {
					return
				}
				// Persist the freshly connected address so the backend
				// can match incoming escrow transfers to this user
				ctx, cancel := context.WithTimeout(self.Ctx, config.Gateway.RequestTimeout)
				defer cancel()
				saveErr := client.SaveWallet(ctx, scope.UserID, event.Address)
				if saveErr != nil {
					self.Log.WithError(saveErr).Error("Failed to save the connected wallet address")
				}
			})

		store := NewStore(config)

		reconciler := NewReconciler(config).
			WithLedger(client).
			WithStore(store).
			WithMonitor(monitor).
			WithEvents(events)

		orchestrator := NewOrchestrator(config).
			WithLedger(client).
			WithSession(session).
			WithReconciler(reconciler).
			WithMonitor(monitor).
			WithEvents(events)

		watchedTask := task.NewTask(config, "watched").
			WithOnBeforeStart(func() error {
				// Remember which side the user is acting from. Not
				// fatal: the role is re-sent on the next start.
				ctx, cancel := context.WithTimeout(self.Ctx, config.Gateway.RequestTimeout)
				defer cancel()
				saveErr := client.SaveRole(ctx, scope.UserID, scope.Role)
				if saveErr != nil {
					self.Log.WithError(saveErr).Warn("Failed to save the selected role")
				}

				reconciler.StartPolling(scope)
				return nil
			}).
			WithSubtask(session.Task).
			WithSubtask(reconciler.Task).
			WithSubtask(orchestrator.Task)

		if !config.Journal.Disabled {
			db, err := model.Connect(self.Ctx, &config.Database, "adtgram-engine")
			if err != nil {
				panic(err)
			}

			journal := NewJournal(db)
			orchestrator.WithJournal(journal)

			sweeper := NewSweeper(config).
				WithLedger(client).
				WithJournal(journal).
				WithMonitor(monitor)

			watchedTask = watchedTask.WithSubtask(sweeper.Task)
		}

		return watchedTask
	}

	watchdog := task.NewWatchdog(config).
		WithTask(watched).
		WithIsOK(monitor.IsHealthy)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithSubtask(watchdog.Task)

	if config.Redis.Disabled {
		// Nobody consumes deal events, drain them so emitters don't
		// start dropping
		self.Task = self.Task.WithSubtaskFunc(func() error {
			for {
				select {
				case <-self.StopChannel:
					return nil
				case <-events:
				}
			}
		})
	} else {
		dealEvents := publisher.NewRedisPublisher[*model.DealEvent](config, "deal-events-publisher").
			WithInputChannel(events)
		self.Task = self.Task.WithSubtask(dealEvents.Task)
	}

	return
}
