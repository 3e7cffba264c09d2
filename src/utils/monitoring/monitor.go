package monitoring

import (
	"net/http"
	"time"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report Report

	historySize int

	collector *Collector

	// Samples for the visible-deals moving average
	dealsVisible *deque.Deque[int64]

	// Counters remembered from the previous health check
	lastTicks      uint64
	lastTickErrors uint64
}

func NewMonitor(config *config.Config) (self *Monitor) {
	self = new(Monitor)

	self.Report = Report{
		Run:        &RunReport{},
		Reconciler: &ReconcilerReport{},
		Payments:   &PaymentsReport{},
		Actions:    &ActionsReport{},
	}

	self.Report.Run.StartTimestamp.Store(time.Now().Unix())

	self.historySize = config.Monitor.MaxHistorySize
	self.dealsVisible = deque.New[int64](self.historySize)

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(config, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorDealsVisible)
	return
}

func (self *Monitor) GetReport() *Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

// Measure the visible-deals moving average
func (self *Monitor) monitorDealsVisible() (err error) {
	self.dealsVisible.PushBack(self.Report.Reconciler.State.DealsVisible.Load())
	if self.dealsVisible.Len() > self.historySize {
		self.dealsVisible.PopFront()
	}

	var sum int64
	for i := 0; i < self.dealsVisible.Len(); i++ {
		sum += self.dealsVisible.At(i)
	}
	self.Report.Reconciler.State.DealsVisibleAvg.Store(float64(sum) / float64(self.dealsVisible.Len()))
	return
}

// IsHealthy reports whether the polling loops make progress. With
// scopes registered, a check window where every tick errored means the
// reconciler cannot reach the ledger.
func (self *Monitor) IsHealthy() bool {
	ticks := self.Report.Reconciler.State.TicksTotal.Load()
	tickErrors := self.Report.Reconciler.Errors.TickErrors.Load()
	defer func() {
		self.lastTicks = ticks
		self.lastTickErrors = tickErrors
	}()

	if self.Report.Reconciler.State.ScopesActive.Load() == 0 {
		return true
	}

	delta := ticks - self.lastTicks
	if delta == 0 {
		// No tick was due in this window
		return true
	}
	return tickErrors-self.lastTickErrors < delta
}

// OnGet serves the raw report for the health endpoint
func (self *Monitor) OnGet(c *gin.Context) {
	c.JSON(http.StatusOK, &self.Report)
}
