package ledgerRepo

import (
	"context"
	"errors"
	"time"

	"voyago/models"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

// LedgerRepository is the append-mostly store of bookings and booking items,
// and the source of truth for committed capacity. All mutation funnels
// through the booking orchestrator's single atomic boundary.
type LedgerRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	CreateItems(ctx context.Context, items []models.BookingItem) error
	// DeleteBooking removes the booking and all its items. It is the
	// compensation step: the ledger must never contain a booking with
	// zero items.
	DeleteBooking(ctx context.Context, bookingID string) error

	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetItemsByBookingID(ctx context.Context, bookingID string) ([]models.BookingItem, error)
	ListByGuestID(ctx context.Context, guestID string) ([]models.Booking, error)

	// CountPriorBookingsByGuest counts non-cancelled bookings, used by the
	// first-booking promotion predicate.
	CountPriorBookingsByGuest(ctx context.Context, guestID string) (int, error)

	// ReservedRoomQuantity sums the quantity reserved against a room-type
	// unit by items in an inventory-holding status whose half-open stay
	// interval overlaps the requested range.
	ReservedRoomQuantity(ctx context.Context, unitID string, r models.DateRange) (int, error)

	// SetPaymentRef records the payment collaborator's opaque reference.
	SetPaymentRef(ctx context.Context, id, ref string) error

	// UpdateBookingStatus moves the booking and its items to the given
	// status, enforcing the state machine.
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error

	// ListExpiredDrafts returns draft bookings created before the cutoff,
	// for the expiry worker.
	ListExpiredDrafts(ctx context.Context, before time.Time) ([]models.Booking, error)

	// WithTransaction runs fn inside one atomic unit of work. The
	// availability re-check and every write of a commit happen inside it;
	// any error rolls back everything fn wrote.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
