package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds carried on the sync queue.
const (
	MessageKindSync   = "sync"
	MessageKindDelete = "delete"
)

// TransactionSyncMessage asks the worker to export a transaction.
// It carries only the ID and version, the worker fetches the full
// transaction from the database.
type TransactionSyncMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Kind:      MessageKindSync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// TransactionDeleteMessage tells the worker a transaction was removed
// locally and any exported copy should be marked accordingly.
type TransactionDeleteMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionDeleteMessage(id int64) *TransactionDeleteMessage {
	return &TransactionDeleteMessage{
		Kind:      MessageKindDelete,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionDeleteMessageFromJSON(data []byte) (*TransactionDeleteMessage, error) {
	var msg TransactionDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// envelope is used to peek at the kind before full decoding.
type envelope struct {
	Kind string `json:"kind"`
}

// MessageKind returns the kind field of a raw message body.
func MessageKind(data []byte) (string, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return "", err
	}
	if e.Kind == "" {
		// Old producers omitted the kind field and only ever sent syncs.
		return MessageKindSync, nil
	}
	return e.Kind, nil
}
