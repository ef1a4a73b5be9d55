package amqp

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTransactionSyncMessage(t *testing.T) {
	msg := NewTransactionSyncMessage(12345, 2)

	if msg.Kind != MessageKindSync {
		t.Errorf("Kind = %v, want %v", msg.Kind, MessageKindSync)
	}
	if msg.ID != 12345 {
		t.Errorf("ID = %v, want 12345", msg.ID)
	}
	if msg.Version != 2 {
		t.Errorf("Version = %v, want 2", msg.Version)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestTransactionSyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &TransactionSyncMessage{
		Kind:      MessageKindSync,
		ID:        12345,
		Version:   2,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := TransactionSyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("TransactionSyncMessageFromJSON() error = %v", err)
	}

	if parsed.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsed.ID, msg.ID)
	}
	if parsed.Version != msg.Version {
		t.Errorf("Parsed Version = %v, want %v", parsed.Version, msg.Version)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestTransactionSyncMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"id": "not_a_number", "version": 1}`)

	if _, err := TransactionSyncMessageFromJSON(invalidJSON); err == nil {
		t.Error("TransactionSyncMessageFromJSON() should fail with invalid JSON")
	}
}

func TestMessageKind(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		want    string
		wantErr bool
	}{
		{
			name: "sync message",
			body: []byte(`{"kind":"sync","id":1,"version":1}`),
			want: MessageKindSync,
		},
		{
			name: "delete message",
			body: []byte(`{"kind":"delete","id":1}`),
			want: MessageKindDelete,
		},
		{
			name: "missing kind defaults to sync",
			body: []byte(`{"id":1,"version":1}`),
			want: MessageKindSync,
		},
		{
			name:    "invalid JSON",
			body:    []byte(`{not json`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MessageKind(tt.body)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("MessageKind() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MessageKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

type recordingHandler struct {
	syncIDs   []int64
	deleteIDs []int64
	err       error
}

func (h *recordingHandler) HandleSyncMessage(_ context.Context, msg *TransactionSyncMessage) error {
	h.syncIDs = append(h.syncIDs, msg.ID)
	return h.err
}

func (h *recordingHandler) HandleDeleteMessage(_ context.Context, msg *TransactionDeleteMessage) error {
	h.deleteIDs = append(h.deleteIDs, msg.ID)
	return h.err
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	c := &Client{}

	t.Run("routes sync messages", func(t *testing.T) {
		h := &recordingHandler{}
		body, _ := NewTransactionSyncMessage(7, 1).ToJSON()
		if err := c.dispatch(ctx, body, h); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if len(h.syncIDs) != 1 || h.syncIDs[0] != 7 {
			t.Errorf("sync IDs = %v, want [7]", h.syncIDs)
		}
	})

	t.Run("routes delete messages", func(t *testing.T) {
		h := &recordingHandler{}
		body, _ := NewTransactionDeleteMessage(9).ToJSON()
		if err := c.dispatch(ctx, body, h); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if len(h.deleteIDs) != 1 || h.deleteIDs[0] != 9 {
			t.Errorf("delete IDs = %v, want [9]", h.deleteIDs)
		}
	})

	t.Run("propagates handler errors", func(t *testing.T) {
		h := &recordingHandler{err: errors.New("boom")}
		body, _ := NewTransactionSyncMessage(7, 1).ToJSON()
		if err := c.dispatch(ctx, body, h); err == nil {
			t.Fatal("expected handler error to propagate")
		}
	})

	t.Run("drops undecodable bodies", func(t *testing.T) {
		h := &recordingHandler{}
		if err := c.dispatch(ctx, []byte(`{not json`), h); err != nil {
			t.Fatalf("undecodable body should be dropped, got %v", err)
		}
		if len(h.syncIDs)+len(h.deleteIDs) != 0 {
			t.Error("handler should not run for undecodable body")
		}
	})

	t.Run("drops unknown kinds", func(t *testing.T) {
		h := &recordingHandler{}
		if err := c.dispatch(ctx, []byte(`{"kind":"mystery","id":1}`), h); err != nil {
			t.Fatalf("unknown kind should be dropped, got %v", err)
		}
	})
}
