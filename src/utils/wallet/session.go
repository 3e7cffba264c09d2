package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/model"
	"github.com/adtgram/engine/src/utils/task"
)

// Session is the process-wide wallet session: connected flag, address
// and the signer handle underneath. Created on successful connect,
// destroyed on Close or process restart; nothing survives a restart
// beyond what the wallet app itself persists.
type Session struct {
	*task.Task

	signer Signer

	mtx         sync.RWMutex
	connected   bool
	address     string
	subscribers []func(SessionEvent)
}

func NewSession(config *config.Config) (self *Session) {
	self = new(Session)
	self.Task = task.NewTask(config, "wallet-session").
		WithSubtaskFunc(self.run).
		WithOnAfterStop(func() {
			if self.signer != nil {
				self.signer.Close()
			}
		})
	return
}

func (self *Session) WithSigner(signer Signer) *Session {
	self.signer = signer
	return self
}

// OnStatusChange subscribes to connection state changes. Subscriptions
// are registered before Start and not removable.
func (self *Session) OnStatusChange(f func(SessionEvent)) *Session {
	self.subscribers = append(self.subscribers, f)
	return self
}

func (self *Session) run() (err error) {
	for {
		select {
		case <-self.StopChannel:
			return nil
		case event, ok := <-self.signer.Events():
			if !ok {
				return nil
			}
			self.mtx.Lock()
			self.connected = event.Connected
			if event.Connected {
				self.address = event.Address
			} else {
				self.address = ""
			}
			self.mtx.Unlock()

			for _, f := range self.subscribers {
				f(event)
			}
		}
	}
}

func (self *Session) IsConnected() bool {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return self.connected
}

// CurrentAddress returns the connected wallet address, if any
func (self *Session) CurrentAddress() (string, bool) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return self.address, self.connected
}

// RequireConnection opens a connect prompt when there is no session yet.
// A false return means the current action must be aborted, not
// proceeded with.
func (self *Session) RequireConnection(ctx context.Context) bool {
	if self.IsConnected() {
		return true
	}

	err := self.signer.Connect(ctx)
	if err != nil {
		self.Log.WithError(err).Warn("Wallet connection not established")
		return false
	}

	// The signer resolved the connect prompt, mark the session before
	// the asynchronous event catches up
	self.mtx.Lock()
	self.connected = true
	self.mtx.Unlock()

	return true
}

// SendPayment transfers the amount to the escrow destination with the
// deal id as memo and returns the transaction reference
func (self *Session) SendPayment(ctx context.Context, amount model.Nano, memo string) (boc string, err error) {
	if !self.IsConnected() {
		return "", ErrNotConnected
	}

	return self.signer.SendTransfer(ctx, TransferRequest{
		Address:    self.Config.Escrow.Address,
		Amount:     amount,
		Memo:       memo,
		ValidUntil: time.Now().Add(self.Config.Wallet.TransferValidity),
	})
}
