package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event kinds
const (
	KindExpense = "expense"
	KindRevenue = "revenue"
)

// LedgerEvent represents a lightweight message about a new ledger entry.
// Contains only the kind and IDs, the worker will fetch the full entry from database
type LedgerEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	SeasonID  string    `json:"season_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEvent creates a new ledger event for an entry
func NewLedgerEvent(kind, id, seasonID string) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		ID:        id,
		SeasonID:  seasonID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
