package market

import (
	"context"
	"sync"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/model"
	"github.com/adtgram/engine/src/utils/monitoring"
	"github.com/adtgram/engine/src/utils/task"
)

// Reconciler keeps the per-scope snapshots eventually consistent with
// backend truth by polling. There is no push channel: each visible
// scope gets one periodic loop, and starting a loop for a scope
// atomically replaces any prior loop for that scope. Loop handles live
// in one map behind one mutex, never in ambient globals.
type Reconciler struct {
	*task.Task

	ledger  Ledger
	store   *Store
	monitor *monitoring.Monitor
	events  chan *model.DealEvent

	mtx   sync.Mutex
	loops map[Scope]*task.Task
}

func NewReconciler(config *config.Config) (self *Reconciler) {
	self = new(Reconciler)
	self.loops = make(map[Scope]*task.Task)

	self.Task = task.NewTask(config, "reconciler").
		WithWorkerPool(config.Reconciler.MaxParallelFetches).
		// Keeps the task alive while loops come and go
		WithSubtaskFunc(func() error {
			<-self.StopChannel
			return nil
		}).
		WithOnStop(self.stopAll)

	return
}

func (self *Reconciler) WithLedger(v Ledger) *Reconciler {
	self.ledger = v
	return self
}

func (self *Reconciler) WithStore(v *Store) *Reconciler {
	self.store = v
	return self
}

func (self *Reconciler) WithMonitor(v *monitoring.Monitor) *Reconciler {
	self.monitor = v
	return self
}

func (self *Reconciler) WithEvents(v chan *model.DealEvent) *Reconciler {
	self.events = v
	return self
}

// StartPolling begins the periodic re-fetch loop for the scope. Any
// prior loop for the same scope is cancelled first, so two calls in
// succession leave exactly one live loop.
func (self *Reconciler) StartPolling(scope Scope) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.startLocked(scope)
}

func (self *Reconciler) startLocked(scope Scope) {
	if prior, ok := self.loops[scope]; ok {
		prior.Stop()
	} else {
		self.monitor.Report.Reconciler.State.ScopesActive.Inc()
	}

	// Fetches from all loops go through the shared worker pool, which
	// bounds how many run in parallel
	loop := task.NewTask(self.Config, "reconciler-loop").
		WithPeriodicSubtaskFunc(self.Config.Reconciler.Interval, func() error {
			self.SubmitToWorker(func() { self.tick(scope) })
			return nil
		})

	self.loops[scope] = loop

	err := loop.Start()
	if err != nil {
		self.Log.WithError(err).WithField("scope", scope.String()).Error("Failed to start polling loop")
	}
}

// StopPolling cancels the loop for the scope, e.g. when its container
// is no longer visible
func (self *Reconciler) StopPolling(scope Scope) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.stopLocked(scope)
}

func (self *Reconciler) stopLocked(scope Scope) {
	loop, ok := self.loops[scope]
	if !ok {
		return
	}
	loop.Stop()
	delete(self.loops, scope)
	self.monitor.Report.Reconciler.State.ScopesActive.Dec()
}

func (self *Reconciler) stopAll() {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	for scope := range self.loops {
		self.stopLocked(scope)
	}
}

// Refresh is the manual path: cancel the loop, reload synchronously,
// restart the loop. Unlike a silent tick it bumps the snapshot
// generation so presentation state is rebuilt.
func (self *Reconciler) Refresh(ctx context.Context, scope Scope) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.stopLocked(scope)

	err = self.fetch(ctx, scope, true)
	if err != nil {
		// Backend truth stays whatever the last snapshot says; the
		// restarted loop will keep trying
		self.Log.WithError(err).WithField("scope", scope.String()).Error("Manual refresh failed")
	}
	self.monitor.Report.Reconciler.State.ManualRefreshes.Inc()

	self.startLocked(scope)
	return
}

// tick is one silent refresh: same fetch and filter as the manual path,
// without touching presentation state. A failed tick logs and is
// superseded by the next one.
func (self *Reconciler) tick(scope Scope) {
	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Reconciler.FetchTimeout)
	defer cancel()

	err := self.fetch(ctx, scope, false)
	if err != nil {
		self.monitor.Report.Reconciler.Errors.TickErrors.Inc()
		self.Log.WithError(err).WithField("scope", scope.String()).Warn("Refresh tick failed")
		return
	}
	self.monitor.Report.Reconciler.State.TicksTotal.Inc()
}

func (self *Reconciler) fetch(ctx context.Context, scope Scope, manual bool) (err error) {
	deals, err := self.ledger.UserDeals(ctx, scope.UserID)
	if err != nil {
		return
	}

	visible := FilterByRole(deals, scope.Role)
	changes := self.store.Replace(scope, visible, manual)
	self.monitor.Report.Reconciler.State.DealsVisible.Store(int64(len(visible)))

	for _, change := range changes {
		self.emit(change)
	}
	return
}

func (self *Reconciler) emit(event *model.DealEvent) {
	select {
	case self.events <- event:
	default:
		self.Log.WithField("deal_id", event.DealID).Warn("Event queue full, dropping deal event")
	}
}

// Channels serves the marketplace listing through the short-lived cache
func (self *Reconciler) Channels(ctx context.Context) (out []model.Channel, err error) {
	if cached, ok := self.store.CachedChannels(); ok {
		return cached, nil
	}

	out, err = self.ledger.Channels(ctx)
	if err != nil {
		return
	}
	self.store.CacheChannels(out)
	return
}
