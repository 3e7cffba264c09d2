package monitoring

import (
	"go.uber.org/atomic"
)

type RunReport struct {
	StartTimestamp atomic.Int64 `json:"start_timestamp"`
}

type ReconcilerState struct {
	ScopesActive    atomic.Int64  `json:"scopes_active"`
	TicksTotal      atomic.Uint64 `json:"ticks_total"`
	ManualRefreshes atomic.Uint64 `json:"manual_refreshes"`
	DealsVisible    atomic.Int64  `json:"deals_visible"`

	// Moving average over the sampling window
	DealsVisibleAvg atomic.Float64 `json:"deals_visible_avg"`
}

type ReconcilerErrors struct {
	TickErrors atomic.Uint64 `json:"tick_errors"`
}

type ReconcilerReport struct {
	State  ReconcilerState  `json:"state"`
	Errors ReconcilerErrors `json:"errors"`
}

type PaymentsState struct {
	TransfersSent     atomic.Uint64 `json:"transfers_sent"`
	PaymentsConfirmed atomic.Uint64 `json:"payments_confirmed"`
	ReceiptsSwept     atomic.Uint64 `json:"receipts_swept"`
}

// Counting non-success wallet outcomes by class
type PaymentsOutcomes struct {
	UserCancelled atomic.Uint64 `json:"user_cancelled"`
	Indeterminate atomic.Uint64 `json:"indeterminate"`
}

type PaymentsErrors struct {
	ConfirmErrors atomic.Uint64 `json:"confirm_errors"`
}

type PaymentsReport struct {
	State    PaymentsState    `json:"state"`
	Outcomes PaymentsOutcomes `json:"outcomes"`
	Errors   PaymentsErrors   `json:"errors"`
}

type ActionsState struct {
	ActionsPerformed atomic.Uint64 `json:"actions_performed"`
}

type ActionsErrors struct {
	ActionsRejected   atomic.Uint64 `json:"actions_rejected"`
	BackendRejections atomic.Uint64 `json:"backend_rejections"`
}

type ActionsReport struct {
	State  ActionsState  `json:"state"`
	Errors ActionsErrors `json:"errors"`
}

type Report struct {
	Run        *RunReport        `json:"run,omitempty"`
	Reconciler *ReconcilerReport `json:"reconciler,omitempty"`
	Payments   *PaymentsReport   `json:"payments,omitempty"`
	Actions    *ActionsReport    `json:"actions,omitempty"`
}
