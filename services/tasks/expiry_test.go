package tasks

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewExpireDraftTask(t *testing.T) {
	fireAt := time.Now().UTC().Add(30 * time.Minute)
	task, opts, err := NewExpireDraftTask("booking-123", fireAt)
	if err != nil {
		t.Fatalf("NewExpireDraftTask: %v", err)
	}
	if task.Type() != TypeExpireDraft {
		t.Errorf("Type = %q, want %q", task.Type(), TypeExpireDraft)
	}
	if len(opts) != 1 {
		t.Errorf("opts = %d, want 1 (ProcessAt)", len(opts))
	}

	var payload ExpireDraftPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("Unmarshal payload: %v", err)
	}
	if payload.BookingID != "booking-123" {
		t.Errorf("BookingID = %q, want booking-123", payload.BookingID)
	}
}
