package market

import "errors"

var (
	// ErrValidation means the local input was bad, the action was never
	// attempted
	ErrValidation = errors.New("validation failed")

	// ErrWalletRequired means the wallet gate stayed closed, the action
	// was aborted before any side effect
	ErrWalletRequired = errors.New("wallet connection required")

	// ErrDealNotCreated means the ledger did not acknowledge the deal
	// record, so no payment was attempted
	ErrDealNotCreated = errors.New("deal record was not created")
)
