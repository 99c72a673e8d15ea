package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeExpireDraft = "booking:expire_draft"

// ExpireDraftPayload names the draft booking to garbage collect.
type ExpireDraftPayload struct {
	BookingID string `json:"bookingId"`
}

// NewExpireDraftTask builds the task that cancels a booking still in draft
// when it fires.
func NewExpireDraftTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ExpireDraftPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeExpireDraft, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqExpiryScheduler enqueues draft-expiry tasks on the shared queue.
type AsynqExpiryScheduler struct {
	Client *asynq.Client
}

func (s *AsynqExpiryScheduler) ScheduleExpiry(_ context.Context, bookingID string, at time.Time) error {
	task, opts, err := NewExpireDraftTask(bookingID, at)
	if err != nil {
		return err
	}
	_, err = s.Client.Enqueue(task, opts...)
	return err
}
