package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	ScopesActive      *prometheus.Desc
	TicksTotal        *prometheus.Desc
	ManualRefreshes   *prometheus.Desc
	DealsVisible      *prometheus.Desc
	TickErrors        *prometheus.Desc
	TransfersSent     *prometheus.Desc
	PaymentsConfirmed *prometheus.Desc
	ReceiptsSwept     *prometheus.Desc
	UserCancelled     *prometheus.Desc
	Indeterminate     *prometheus.Desc
	ConfirmErrors     *prometheus.Desc
	ActionsPerformed  *prometheus.Desc
	ActionsRejected   *prometheus.Desc
	BackendRejections *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "engine",
	}

	return &Collector{
		ScopesActive:      prometheus.NewDesc("scopes_active", "", nil, labels),
		TicksTotal:        prometheus.NewDesc("ticks_total", "", nil, labels),
		ManualRefreshes:   prometheus.NewDesc("manual_refreshes", "", nil, labels),
		DealsVisible:      prometheus.NewDesc("deals_visible", "", nil, labels),
		TickErrors:        prometheus.NewDesc("tick_errors", "", nil, labels),
		TransfersSent:     prometheus.NewDesc("transfers_sent", "", nil, labels),
		PaymentsConfirmed: prometheus.NewDesc("payments_confirmed", "", nil, labels),
		ReceiptsSwept:     prometheus.NewDesc("receipts_swept", "", nil, labels),
		UserCancelled:     prometheus.NewDesc("payment_outcome_user_cancelled", "", nil, labels),
		Indeterminate:     prometheus.NewDesc("payment_outcome_indeterminate", "", nil, labels),
		ConfirmErrors:     prometheus.NewDesc("confirm_errors", "", nil, labels),
		ActionsPerformed:  prometheus.NewDesc("actions_performed", "", nil, labels),
		ActionsRejected:   prometheus.NewDesc("actions_rejected", "", nil, labels),
		BackendRejections: prometheus.NewDesc("backend_rejections", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.ScopesActive
	ch <- self.TicksTotal
	ch <- self.ManualRefreshes
	ch <- self.DealsVisible
	ch <- self.TransfersSent
	ch <- self.PaymentsConfirmed
	ch <- self.ReceiptsSwept
	ch <- self.UserCancelled
	ch <- self.Indeterminate
	ch <- self.ActionsPerformed

	// Errors
	ch <- self.TickErrors
	ch <- self.ConfirmErrors
	ch <- self.ActionsRejected
	ch <- self.BackendRejections
}

// Collect implements required collect function for all prometheus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(self.ScopesActive, prometheus.GaugeValue, float64(self.monitor.Report.Reconciler.State.ScopesActive.Load()))
	ch <- prometheus.MustNewConstMetric(self.TicksTotal, prometheus.CounterValue, float64(self.monitor.Report.Reconciler.State.TicksTotal.Load()))
	ch <- prometheus.MustNewConstMetric(self.ManualRefreshes, prometheus.CounterValue, float64(self.monitor.Report.Reconciler.State.ManualRefreshes.Load()))
	ch <- prometheus.MustNewConstMetric(self.DealsVisible, prometheus.GaugeValue, float64(self.monitor.Report.Reconciler.State.DealsVisible.Load()))
	ch <- prometheus.MustNewConstMetric(self.TickErrors, prometheus.CounterValue, float64(self.monitor.Report.Reconciler.Errors.TickErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransfersSent, prometheus.CounterValue, float64(self.monitor.Report.Payments.State.TransfersSent.Load()))
	ch <- prometheus.MustNewConstMetric(self.PaymentsConfirmed, prometheus.CounterValue, float64(self.monitor.Report.Payments.State.PaymentsConfirmed.Load()))
	ch <- prometheus.MustNewConstMetric(self.ReceiptsSwept, prometheus.CounterValue, float64(self.monitor.Report.Payments.State.ReceiptsSwept.Load()))
	ch <- prometheus.MustNewConstMetric(self.UserCancelled, prometheus.CounterValue, float64(self.monitor.Report.Payments.Outcomes.UserCancelled.Load()))
	ch <- prometheus.MustNewConstMetric(self.Indeterminate, prometheus.CounterValue, float64(self.monitor.Report.Payments.Outcomes.Indeterminate.Load()))
	ch <- prometheus.MustNewConstMetric(self.ConfirmErrors, prometheus.CounterValue, float64(self.monitor.Report.Payments.Errors.ConfirmErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.ActionsPerformed, prometheus.CounterValue, float64(self.monitor.Report.Actions.State.ActionsPerformed.Load()))
	ch <- prometheus.MustNewConstMetric(self.ActionsRejected, prometheus.CounterValue, float64(self.monitor.Report.Actions.Errors.ActionsRejected.Load()))
	ch <- prometheus.MustNewConstMetric(self.BackendRejections, prometheus.CounterValue, float64(self.monitor.Report.Actions.Errors.BackendRejections.Load()))
}
