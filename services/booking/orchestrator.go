package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	inventoryRepo "voyago/database/repository/inventory"
	ledgerRepo "voyago/database/repository/ledger"
	offeringRepo "voyago/database/repository/offering"
	"voyago/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentCollaborator receives the persisted draft's id and grand total and
// returns the opaque reference the caller uses to continue to payment.
type PaymentCollaborator interface {
	Register(ctx context.Context, bookingID string, amount int64, currency string) (string, error)
}

// ExpiryScheduler arranges for a draft booking to be garbage collected if
// it never progresses past checkout.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error
}

// BookingOrchestrator is the transactional boundary of the engine. It
// validates a one-or-many item checkout, re-checks availability inside the
// same unit of work that writes the ledger rows, and rolls the whole set
// back if any item fails.
type BookingOrchestrator struct {
	Offerings  offeringRepo.OfferingRepository
	Inventory  inventoryRepo.InventoryRepository
	Ledger     ledgerRepo.LedgerRepository
	Calculator *QuoteCalculator

	Payments PaymentCollaborator // optional
	Expiry   ExpiryScheduler     // optional
	DraftTTL time.Duration
	Logger   *zap.Logger
}

// CreateBooking runs the full checkout. The booking it produces is always
// in draft status; payment capture and host approval drive it further.
func (o *BookingOrchestrator) CreateBooking(ctx context.Context, guestID string, req models.CreateBookingRequest) (*models.BookingResult, error) {
	if guestID == "" {
		return nil, NewValidationError("a guest id is required")
	}
	if len(req.Items) == 0 {
		return nil, NewValidationError("a booking needs at least one item")
	}
	origin := req.Origin
	if origin == "" {
		origin = models.OriginHuman
	}
	if origin != models.OriginHuman && origin != models.OriginAgent {
		return nil, NewValidationError("unknown booking origin %q", origin)
	}

	// Price every item up front. Any failed quote aborts the whole request;
	// the caller never receives a partially priced booking.
	quotes := make([]*models.Quote, len(req.Items))
	currency := ""
	for i, item := range req.Items {
		quote, err := o.Calculator.Quote(ctx, guestID, models.QuoteRequest{
			OfferingID:       item.OfferingID,
			CheckIn:          item.CheckIn,
			CheckOut:         item.CheckOut,
			Party:            item.Party,
			Selection:        item.Selection,
			PromotionCode:    req.PromotionCode,
			RequirePromotion: req.RequirePromotion,
		})
		if err != nil {
			return nil, err
		}
		if !quote.Success {
			return nil, &AvailabilityError{
				UnitID:  quote.FailedUnitID,
				Message: fmt.Sprintf("item %d: %s", i+1, quote.Message),
			}
		}
		if currency == "" {
			currency = quote.Breakdown.Currency
		} else if quote.Breakdown.Currency != currency {
			return nil, NewValidationError("all items of a checkout must share one currency")
		}
		quotes[i] = quote
	}

	now := time.Now().UTC()
	booking, items := o.buildRows(guestID, origin, req, quotes, now)

	// Single atomic unit of work: write the rows, then verify that the
	// combined demand still fits. Competing commits either see our rows or
	// conflict on the touched unit documents, so at most one overshoot
	// survives to commit.
	err := o.Ledger.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := o.Ledger.CreateBooking(txCtx, booking); err != nil {
			return &PersistenceError{Err: err}
		}
		if err := o.Ledger.CreateItems(txCtx, items); err != nil {
			// The ledger must never contain a booking with zero items.
			if delErr := o.Ledger.DeleteBooking(txCtx, booking.ID); delErr != nil {
				o.logger().Error("compensating delete failed",
					zap.String("bookingID", booking.ID), zap.Error(delErr))
			}
			return &PersistenceError{Err: err}
		}
		return o.recheckAvailability(txCtx, items)
	})
	if err != nil {
		var availErr *AvailabilityError
		var persistErr *PersistenceError
		if errors.As(err, &availErr) {
			return nil, availErr
		}
		if errors.As(err, &persistErr) {
			o.logger().Error("booking commit failed",
				zap.String("bookingID", booking.ID), zap.Error(persistErr.Err))
			return nil, persistErr
		}
		o.logger().Error("booking transaction failed",
			zap.String("bookingID", booking.ID), zap.Error(err))
		return nil, &PersistenceError{Err: err}
	}

	result := o.buildResult(booking, items, currency)

	if o.Payments != nil {
		ref, err := o.Payments.Register(ctx, booking.ID, result.GrandTotal, currency)
		if err != nil {
			// Payment registration is retried outside the engine; the draft
			// stands either way.
			o.logger().Warn("payment registration failed",
				zap.String("bookingID", booking.ID), zap.Error(err))
		} else {
			result.PaymentRef = ref
			if err := o.Ledger.SetPaymentRef(ctx, booking.ID, ref); err != nil {
				o.logger().Warn("storing payment ref failed",
					zap.String("bookingID", booking.ID), zap.Error(err))
			}
		}
	}

	if o.Expiry != nil && o.DraftTTL > 0 {
		if err := o.Expiry.ScheduleExpiry(ctx, booking.ID, now.Add(o.DraftTTL)); err != nil {
			o.logger().Warn("scheduling draft expiry failed",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}

	o.logger().Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.Int("items", len(items)),
		zap.Int64("grandTotal", result.GrandTotal),
		zap.String("origin", string(origin)))
	return result, nil
}

func (o *BookingOrchestrator) buildRows(
	guestID string,
	origin models.BookingOrigin,
	req models.CreateBookingRequest,
	quotes []*models.Quote,
	now time.Time,
) (*models.Booking, []models.BookingItem) {
	primary := req.Items[0]

	booking := &models.Booking{
		ID:          uuid.New().String(),
		GuestID:     guestID,
		OfferingID:  primary.OfferingID,
		CheckIn:     primary.CheckIn,
		CheckOut:    primary.CheckOut,
		EventUnitID: primary.Selection.EventUnitID,
		Party:       primary.Party,
		// The booking row carries the primary item's totals for
		// backward-compatible single-offering display.
		Breakdown:  quotes[0].Breakdown,
		Status:     models.StatusDraft,
		Origin:     origin,
		GuestNotes: req.GuestNotes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, quote := range quotes {
		if quote.AppliedPromotionID != "" {
			booking.PromotionID = quote.AppliedPromotionID
			booking.PromotionCode = req.PromotionCode
			break
		}
	}

	items := make([]models.BookingItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.BookingItem{
			ID:          uuid.New().String(),
			BookingID:   booking.ID,
			OfferingID:  item.OfferingID,
			OrderIndex:  i,
			CheckIn:     item.CheckIn,
			CheckOut:    item.CheckOut,
			EventUnitID: item.Selection.EventUnitID,
			Party:       item.Party,
			Selection:   item.Selection,
			Breakdown:   quotes[i].Breakdown,
			Status:      models.StatusDraft,
			CreatedAt:   now,
		}
	}
	return booking, items
}

// recheckAvailability closes the race between the advisory quote and the
// commit. The item rows are already written inside this transaction, so a
// room unit is oversold exactly when its reserved sum exceeds its total;
// event units use the guarded counter decrement instead.
func (o *BookingOrchestrator) recheckAvailability(ctx context.Context, items []models.BookingItem) error {
	touched := make(map[string]bool)

	for i := range items {
		item := &items[i]
		for _, sel := range item.Selection.Rooms {
			unit, err := o.Inventory.GetByID(ctx, sel.UnitID)
			if err != nil {
				return fmt.Errorf("reload unit %s: %w", sel.UnitID, err)
			}
			if !touched[unit.ID] {
				// Writing the unit document makes competing transactions
				// conflict instead of both acting on a stale count.
				if err := o.Inventory.TouchUnit(ctx, unit.ID); err != nil {
					return fmt.Errorf("touch unit %s: %w", unit.ID, err)
				}
				touched[unit.ID] = true
			}

			rng, err := models.ParseDateRange(item.CheckIn, item.CheckOut)
			if err != nil {
				return NewValidationError("%v", err)
			}
			reserved, err := o.Ledger.ReservedRoomQuantity(ctx, unit.ID, rng)
			if err != nil {
				return fmt.Errorf("recheck unit %s: %w", unit.ID, err)
			}
			if reserved > unit.TotalRooms {
				available := unit.TotalRooms - (reserved - sel.Quantity)
				if available < 0 {
					available = 0
				}
				return &AvailabilityError{
					UnitID:    unit.ID,
					Requested: sel.Quantity,
					Available: available,
					Message:   fmt.Sprintf("item %d: %s sold out during checkout", item.OrderIndex+1, unit.Name),
				}
			}
		}

		if item.EventUnitID != "" {
			seats := item.Party.Size()
			err := o.Inventory.AdjustEventCapacity(ctx, item.EventUnitID, -seats)
			if errors.Is(err, inventoryRepo.ErrInsufficientCapacity) {
				unit, getErr := o.Inventory.GetByID(ctx, item.EventUnitID)
				available := 0
				name := item.EventUnitID
				if getErr == nil {
					available = unit.CapacityAvailable
					name = unit.Name
				}
				return &AvailabilityError{
					UnitID:    item.EventUnitID,
					Requested: seats,
					Available: available,
					Message:   fmt.Sprintf("item %d: %s sold out during checkout", item.OrderIndex+1, name),
				}
			}
			if err != nil {
				return fmt.Errorf("reserve seats on unit %s: %w", item.EventUnitID, err)
			}
		}
	}
	return nil
}

func (o *BookingOrchestrator) buildResult(booking *models.Booking, items []models.BookingItem, currency string) *models.BookingResult {
	result := &models.BookingResult{
		BookingID: booking.ID,
		Status:    booking.Status,
		Currency:  currency,
	}
	for _, item := range items {
		result.Items = append(result.Items, models.BookingItemResult{
			ItemID:     item.ID,
			OfferingID: item.OfferingID,
			OrderIndex: item.OrderIndex,
			Breakdown:  item.Breakdown,
		})
		result.GrandTotal += item.Breakdown.Total
	}
	return result
}

func (o *BookingOrchestrator) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
