package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ledgerRepo "voyago/database/repository/ledger"
	offeringRepo "voyago/database/repository/offering"
	"voyago/models"

	"go.uber.org/zap"
)

const (
	availabilityCacheTTL = 30 * time.Second
	idempotencyTTL       = 24 * time.Hour
)

// CheckAvailability computes advisory availability for every inventory unit
// of an offering. The answer may be cached for a short window and is never
// authoritative; the orchestrator re-resolves inside the commit transaction.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, offeringID, checkIn, checkOut string, partySize int) ([]models.AvailabilitySummary, error) {
	if partySize < 1 {
		return nil, NewValidationError("party size must be at least 1")
	}

	cacheKey := fmt.Sprintf("avail:%s:%s:%s:%d", offeringID, checkIn, checkOut, partySize)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var summaries []models.AvailabilitySummary
			if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
				return summaries, nil
			}
		}
	}

	offering, err := s.Offerings.GetByID(ctx, offeringID)
	if errors.Is(err, offeringRepo.ErrNotFound) {
		return nil, &NotFoundError{Resource: "offering", ID: offeringID}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve offering %s: %w", offeringID, err)
	}
	if !offering.Published {
		return nil, &NotFoundError{Resource: "offering", ID: offeringID}
	}

	var rng *models.DateRange
	if offering.Kind == models.KindLodging {
		if checkIn == "" || checkOut == "" {
			return nil, NewValidationError("lodging availability needs check-in and check-out dates")
		}
		parsed, err := models.ParseDateRange(checkIn, checkOut)
		if err != nil {
			return nil, NewValidationError("%v", err)
		}
		rng = &parsed
	}

	units, err := s.Inventory.GetByOfferingID(ctx, offeringID)
	if err != nil {
		return nil, fmt.Errorf("list units for offering %s: %w", offeringID, err)
	}
	if len(units) == 0 {
		return nil, &NotFoundError{Resource: "inventory for offering", ID: offeringID}
	}

	summaries := make([]models.AvailabilitySummary, 0, len(units))
	for i := range units {
		unit := &units[i]
		requested := 1
		if unit.EventBased() {
			requested = partySize
		}
		res, err := s.Resolver.Resolve(ctx, unit, rng, requested, partySize)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.AvailabilitySummary{
			UnitID:            unit.ID,
			AvailableQuantity: res.AvailableQuantity,
			IsSufficient:      res.IsSufficient,
			Reason:            res.Reason,
		})
	}

	if s.Cache != nil {
		if data, err := json.Marshal(summaries); err == nil {
			if err := s.Cache.Set(ctx, cacheKey, data, availabilityCacheTTL).Err(); err != nil {
				s.logger().Warn("caching availability failed", zap.Error(err))
			}
		}
	}
	return summaries, nil
}

// GetQuote produces a fresh, ephemeral quote. Nothing is persisted.
func (s *DefaultBookingService) GetQuote(ctx context.Context, guestID string, req models.QuoteRequest) (*models.Quote, error) {
	return s.Calculator.Quote(ctx, guestID, req)
}

// CreateBooking runs the orchestrated checkout. When an idempotency key is
// supplied, a replayed request returns the original result instead of
// booking twice.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, guestID string, req models.CreateBookingRequest, idempotencyKey string) (*models.BookingResult, error) {
	idemKey := ""
	if idempotencyKey != "" && s.Cache != nil {
		idemKey = fmt.Sprintf("idem:%s:%s", guestID, idempotencyKey)
		if cached, err := s.Cache.Get(ctx, idemKey).Result(); err == nil {
			var result models.BookingResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				s.logger().Info("replaying idempotent booking",
					zap.String("bookingID", result.BookingID))
				return &result, nil
			}
		}
	}

	result, err := s.Orchestrator.CreateBooking(ctx, guestID, req)
	if err != nil {
		return nil, err
	}

	if idemKey != "" {
		if data, err := json.Marshal(result); err == nil {
			if err := s.Cache.Set(ctx, idemKey, data, idempotencyTTL).Err(); err != nil {
				s.logger().Warn("caching idempotent booking failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

// CancelBooking transitions the booking to cancelled and releases the seats
// held by event items. Room holds release implicitly: cancelled items no
// longer count in the overlap query.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, guestID, bookingID string) error {
	booking, items, err := s.GetBooking(ctx, guestID, bookingID)
	if err != nil {
		return err
	}
	if !booking.Status.CanTransitionTo(models.StatusCancelled) {
		return NewValidationError("booking %s cannot be cancelled from status %s", bookingID, booking.Status)
	}

	if err := s.Ledger.UpdateBookingStatus(ctx, bookingID, models.StatusCancelled); err != nil {
		return &PersistenceError{Err: err}
	}
	for _, item := range items {
		if item.EventUnitID == "" {
			continue
		}
		if err := s.Inventory.AdjustEventCapacity(ctx, item.EventUnitID, item.Party.Size()); err != nil {
			s.logger().Error("releasing event capacity failed",
				zap.String("bookingID", bookingID),
				zap.String("unitID", item.EventUnitID), zap.Error(err))
		}
	}
	s.logger().Info("booking cancelled", zap.String("bookingID", bookingID))
	return nil
}

// GetBooking returns the booking and its items, enforcing guest ownership.
func (s *DefaultBookingService) GetBooking(ctx context.Context, guestID, bookingID string) (*models.Booking, []models.BookingItem, error) {
	booking, err := s.Ledger.GetBookingByID(ctx, bookingID)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		return nil, nil, &NotFoundError{Resource: "booking", ID: bookingID}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("fetch booking %s: %w", bookingID, err)
	}
	if guestID != "" && booking.GuestID != guestID {
		return nil, nil, &NotFoundError{Resource: "booking", ID: bookingID}
	}
	items, err := s.Ledger.GetItemsByBookingID(ctx, bookingID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch items of booking %s: %w", bookingID, err)
	}
	return booking, items, nil
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
