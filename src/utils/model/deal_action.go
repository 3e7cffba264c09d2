package model

// DealAction is a user-initiated transition request.
// Values match the ledger's endpoint names.
type DealAction string

const (
	ActionAccept          DealAction = "accept"
	ActionReject          DealAction = "reject"
	ActionSubmitDraft     DealAction = "submit-draft"
	ActionApprove         DealAction = "approve"
	ActionRequestRevision DealAction = "request-revision"
	ActionPay             DealAction = "pay"
	ActionDispute         DealAction = "dispute"
)
