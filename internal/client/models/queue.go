package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EntityType names the local table a queue entry refers to.
type EntityType string

const (
	EntityTransaction EntityType = "transaction"
	EntityGoal        EntityType = "goal"
)

// Operation is the kind of change a queue entry asks the server to apply.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// QueueEntry is one pending change recorded alongside a local write.
// Entries are drained strictly in insertion order.
//
// Payload holds a full JSON snapshot of the record taken at enqueue time,
// so an entry can be replayed even after the primary row changed again.
// RemoteID is captured for delete intents, where the primary row is gone
// by the time the entry is pushed; for other operations it is zero.
type QueueEntry struct {
	ID         int64
	UserID     int64
	Entity     EntityType
	LocalID    int64
	RemoteID   int64
	Op         Operation
	Payload    []byte
	EnqueuedAt time.Time
}

// TransactionPayload is the wire shape of a transaction create/update body.
type TransactionPayload struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	TransactionDate string          `json:"transaction_date"`
}

// GoalPayload is the wire shape of a goal create/update body.
type GoalPayload struct {
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetMonth  int             `json:"target_month"`
	TargetYear   int             `json:"target_year"`
}

// Snapshot serializes the transaction's current state for a queue entry.
func (t *Transaction) Snapshot() ([]byte, error) {
	return json.Marshal(TransactionPayload{
		Amount:          t.Amount,
		Description:     t.Description,
		Type:            t.Type,
		Category:        t.Category,
		TransactionDate: t.TransactionDate.Format(DateLayout),
	})
}

// Snapshot serializes the goal's current state for a queue entry.
func (g *Goal) Snapshot() ([]byte, error) {
	return json.Marshal(GoalPayload{
		TargetAmount: g.TargetAmount,
		TargetMonth:  g.TargetMonth,
		TargetYear:   g.TargetYear,
	})
}
