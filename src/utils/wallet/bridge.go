package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adtgram/engine/src/utils/config"
	"github.com/adtgram/engine/src/utils/logger"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"
)

// Wire format spoken with the signer bridge
type bridgeMessage struct {
	Type       string `json:"type"`
	ID         string `json:"id,omitempty"`
	Address    string `json:"address,omitempty"`
	Amount     string `json:"amount,omitempty"`
	Memo       string `json:"memo,omitempty"`
	ValidUntil int64  `json:"valid_until,omitempty"`
	Boc        string `json:"boc,omitempty"`
	Message    string `json:"message,omitempty"`
}

const (
	msgConnect        = "connect"
	msgConnected      = "connected"
	msgDisconnected   = "disconnected"
	msgTransfer       = "transfer"
	msgTransferResult = "transfer_result"
	msgTransferError  = "transfer_error"
)

type transferReply struct {
	boc string
	err error
}

// BridgeSigner talks to a TON-Connect style bridge over a websocket.
// One connection per process; the bridge relays requests to the user's
// wallet app and pushes connection state changes back.
type BridgeSigner struct {
	config *config.Config
	log    *logrus.Entry

	mtx     sync.Mutex
	conn    *websocket.Conn
	pending map[string]chan transferReply

	events    chan SessionEvent
	connected chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func NewBridgeSigner(config *config.Config) (self *BridgeSigner) {
	self = new(BridgeSigner)
	self.config = config
	self.log = logger.NewSublogger("wallet-bridge")
	self.pending = make(map[string]chan transferReply)
	self.events = make(chan SessionEvent, config.Wallet.EventQueueSize)
	self.connected = make(chan struct{})
	self.done = make(chan struct{})
	return
}

func (self *BridgeSigner) Events() <-chan SessionEvent {
	return self.events
}

// Connect dials the bridge if needed, asks it to open a connect prompt
// in the wallet app and waits for approval or ctx expiry
func (self *BridgeSigner) Connect(ctx context.Context) (err error) {
	ctx, cancel := context.WithTimeout(ctx, self.config.Wallet.ConnectTimeout)
	defer cancel()

	err = self.dial(ctx)
	if err != nil {
		return
	}

	err = self.write(ctx, bridgeMessage{Type: msgConnect})
	if err != nil {
		return
	}

	select {
	case <-self.connected:
		return nil
	case <-self.done:
		return ErrNotConnected
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNotConnected, ctx.Err())
	}
}

// SendTransfer relays the transfer to the wallet and waits for its
// outcome. There is no cancelling a request the wallet already shows,
// the engine can only await the result or the validity horizon.
func (self *BridgeSigner) SendTransfer(ctx context.Context, req TransferRequest) (boc string, err error) {
	self.mtx.Lock()
	if self.conn == nil {
		self.mtx.Unlock()
		return "", ErrNotConnected
	}

	id := xid.New().String()
	reply := make(chan transferReply, 1)
	self.pending[id] = reply
	self.mtx.Unlock()

	defer func() {
		self.mtx.Lock()
		delete(self.pending, id)
		self.mtx.Unlock()
	}()

	deadline := time.Until(req.ValidUntil)
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	err = self.write(ctx, bridgeMessage{
		Type:       msgTransfer,
		ID:         id,
		Address:    req.Address,
		Amount:     req.Amount.String(),
		Memo:       req.Memo,
		ValidUntil: req.ValidUntil.Unix(),
	})
	if err != nil {
		return
	}

	select {
	case r := <-reply:
		return r.boc, r.err
	case <-self.done:
		return "", errors.New("bridge connection closed while awaiting transfer result")
	case <-ctx.Done():
		// The user may still have approved in the wallet app.
		// The caller classifies this as indeterminate.
		return "", fmt.Errorf("transfer request expired without a result: %v", ctx.Err())
	}
}

func (self *BridgeSigner) Close() {
	self.closeOnce.Do(func() {
		close(self.done)
		self.mtx.Lock()
		defer self.mtx.Unlock()
		if self.conn != nil {
			err := self.conn.Close(websocket.StatusNormalClosure, "closing")
			if err != nil {
				self.log.WithError(err).Debug("Failed to close bridge connection")
			}
			self.conn = nil
		}
	})
}

func (self *BridgeSigner) dial(ctx context.Context) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.conn != nil {
		return nil
	}

	conn, _, err := websocket.Dial(ctx, self.config.Wallet.BridgeUrl, nil)
	if err != nil {
		return fmt.Errorf("failed to dial the signer bridge: %w", err)
	}
	self.conn = conn

	go self.readLoop(conn)
	return
}

func (self *BridgeSigner) write(ctx context.Context, msg bridgeMessage) (err error) {
	payload, err := json.Marshal(&msg)
	if err != nil {
		return
	}

	self.mtx.Lock()
	conn := self.conn
	self.mtx.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

func (self *BridgeSigner) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		_, payload, err := conn.Read(ctx)
		if err != nil {
			select {
			case <-self.done:
			default:
				self.log.WithError(err).Error("Bridge read failed")
				self.emit(SessionEvent{Connected: false})
			}
			return
		}

		var msg bridgeMessage
		err = json.Unmarshal(payload, &msg)
		if err != nil {
			self.log.WithError(err).Warn("Malformed bridge message")
			continue
		}

		self.handle(msg)
	}
}

func (self *BridgeSigner) handle(msg bridgeMessage) {
	switch msg.Type {
	case msgConnected:
		select {
		case <-self.connected:
			// already signalled
		default:
			close(self.connected)
		}
		self.emit(SessionEvent{Connected: true, Address: msg.Address})
	case msgDisconnected:
		self.emit(SessionEvent{Connected: false})
	case msgTransferResult, msgTransferError:
		self.mtx.Lock()
		reply, ok := self.pending[msg.ID]
		self.mtx.Unlock()
		if !ok {
			self.log.WithField("id", msg.ID).Warn("Reply to an unknown transfer request")
			return
		}
		if msg.Type == msgTransferResult {
			reply <- transferReply{boc: msg.Boc}
		} else {
			reply <- transferReply{err: errors.New(msg.Message)}
		}
	default:
		self.log.WithField("type", msg.Type).Debug("Unhandled bridge message")
	}
}

func (self *BridgeSigner) emit(event SessionEvent) {
	select {
	case self.events <- event:
	default:
		self.log.Warn("Session event queue full, dropping event")
	}
}
