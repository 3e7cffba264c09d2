package model

// DealStatus is one stage of the escrow deal lifecycle.
// Values match the ledger's wire names.
type DealStatus string

const (
	// Advertiser drafted an offer
	DealCreated DealStatus = "created"

	// Owner agreed to terms
	DealAccepted DealStatus = "accepted"

	// Owner submitted the ad content
	DealDrafted DealStatus = "drafted"

	// Advertiser asked for changes to the submitted draft.
	// Behaves exactly like "accepted": the owner owes a new draft.
	DealRevision DealStatus = "revision"

	// Advertiser approved the draft, payment is due
	DealAwaitingPayment DealStatus = "awaiting"

	// Funds confirmed on-chain, held in escrow
	DealLocked DealStatus = "locked"

	// Publication scheduled, system-driven from here on
	DealScheduled DealStatus = "scheduled"

	// Ad posted to the channel
	DealPublished DealStatus = "published"

	// Verification passed, funds released
	DealCompleted DealStatus = "completed"

	// Owner rejected the offer
	DealRejected DealStatus = "rejected"

	// Either party raised a dispute
	DealDisputed DealStatus = "disputed"

	// Refunded or aborted
	DealCancelled DealStatus = "cancelled"
)

func (s DealStatus) IsValid() bool {
	switch s {
	case DealCreated, DealAccepted, DealDrafted, DealRevision,
		DealAwaitingPayment, DealLocked, DealScheduled, DealPublished,
		DealCompleted, DealRejected, DealDisputed, DealCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition can leave the status
func (s DealStatus) IsTerminal() bool {
	switch s {
	case DealCompleted, DealRejected, DealDisputed, DealCancelled:
		return true
	}
	return false
}

// effective folds wire statuses that share legal actions.
// "revision" is the regressed-draft state and offers exactly what
// "accepted" does.
func (s DealStatus) effective() DealStatus {
	if s == DealRevision {
		return DealAccepted
	}
	return s
}
