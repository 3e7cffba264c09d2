package model

import (
	"encoding/json"
	"time"
)

// DealEvent is published whenever the engine observes or causes a
// status change
type DealEvent struct {
	DealID   int64      `json:"deal_id"`
	Previous DealStatus `json:"previous,omitempty"`
	Status   DealStatus `json:"status"`
	Action   DealAction `json:"action,omitempty"`
	Role     Role       `json:"role,omitempty"`
	TraceID  string     `json:"trace_id,omitempty"`
	At       time.Time  `json:"at"`
}

func (e *DealEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}
