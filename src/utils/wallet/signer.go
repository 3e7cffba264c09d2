package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/adtgram/engine/src/utils/model"
)

var ErrNotConnected = errors.New("wallet not connected")

// SessionEvent reflects a connection state change of the external wallet
type SessionEvent struct {
	Connected bool
	Address   string
}

// TransferRequest asks the signer to move funds to a destination.
// ValidUntil bounds how long the request may sit unapproved; the
// transaction itself expires at the same moment.
type TransferRequest struct {
	Address    string
	Amount     model.Nano
	Memo       string
	ValidUntil time.Time
}

// Signer is the capability surface of the external wallet. SendTransfer
// returns the transaction reference (BOC) on success; its error text is
// the only evidence available for classifying what actually happened.
type Signer interface {
	Connect(ctx context.Context) error
	SendTransfer(ctx context.Context, req TransferRequest) (boc string, err error)
	Events() <-chan SessionEvent
	Close()
}
