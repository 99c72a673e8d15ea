package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"voyago/config"
	ledgerRepo "voyago/database/repository/ledger"
	"voyago/models"
	"voyago/services/booking"
	"voyago/services/tasks"

	"github.com/hibiken/asynq"
)

const sweepInterval = 10 * time.Minute

// InitExpiryWorker runs the async worker in background. It garbage-collects
// draft bookings that never left checkout: a booking still in draft when
// its task fires is cancelled, which releases its inventory hold. A periodic
// ledger sweep backstops the queue, so drafts whose tasks were lost to a
// queue outage still expire.
func InitExpiryWorker(bookingSvc booking.BookingService, ledger ledgerRepo.LedgerRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeExpireDraft, handleExpireDraftTask(bookingSvc))

	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().UTC().Add(-time.Duration(config.AppConfig.DraftTTLMinutes) * time.Minute)
			sweepExpiredDrafts(context.Background(), bookingSvc, ledger, cutoff)
		}
	}()
}

// sweepExpiredDrafts cancels every draft booking created before the cutoff.
// The status is re-read per booking, so a draft that progressed between the
// listing and the cancel is left alone.
func sweepExpiredDrafts(ctx context.Context, bookingSvc booking.BookingService, ledger ledgerRepo.LedgerRepository, cutoff time.Time) {
	drafts, err := ledger.ListExpiredDrafts(ctx, cutoff)
	if err != nil {
		log.Printf("[ExpiryWorker] sweep failed to list drafts: %v", err)
		return
	}
	for _, draft := range drafts {
		b, _, err := bookingSvc.GetBooking(ctx, "", draft.ID)
		if err != nil || b.Status != models.StatusDraft {
			continue
		}
		if err := bookingSvc.CancelBooking(ctx, "", draft.ID); err != nil {
			log.Printf("[ExpiryWorker] sweep failed to expire booking %s: %v", draft.ID, err)
			continue
		}
		log.Printf("[ExpiryWorker] sweep expired draft booking %s", draft.ID)
	}
}

func handleExpireDraftTask(bookingSvc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload tasks.ExpireDraftPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return err
		}

		b, _, err := bookingSvc.GetBooking(ctx, "", payload.BookingID)
		if err != nil {
			// Already deleted or unknown; nothing to release.
			log.Printf("[ExpiryWorker] booking %s not found, skipping", payload.BookingID)
			return nil
		}
		if b.Status != models.StatusDraft {
			return nil
		}

		if err := bookingSvc.CancelBooking(ctx, "", payload.BookingID); err != nil {
			log.Printf("[ExpiryWorker] failed to expire booking %s: %v", payload.BookingID, err)
			return err
		}
		log.Printf("[ExpiryWorker] expired draft booking %s", payload.BookingID)
		return nil
	}
}
