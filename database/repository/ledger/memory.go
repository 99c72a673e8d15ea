package ledgerRepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"voyago/models"
)

// TxParticipant lets other in-memory stores join the memory ledger's unit of
// work, so a rolled-back commit also restores their state (mongo gets this
// for free from the session transaction).
type TxParticipant interface {
	Snapshot() interface{}
	Restore(snapshot interface{})
}

// MemoryLedgerRepo is an in-memory LedgerRepository for tests and local
// development. WithTransaction serializes commits on a single mutex, which
// is the per-unit-lock variant of the check-then-write guarantee.
type MemoryLedgerRepo struct {
	mu       sync.RWMutex
	commitMu sync.Mutex

	bookings     map[string]models.Booking
	items        map[string][]models.BookingItem
	participants []TxParticipant
}

func NewMemoryLedgerRepo(participants ...TxParticipant) *MemoryLedgerRepo {
	return &MemoryLedgerRepo{
		bookings:     make(map[string]models.Booking),
		items:        make(map[string][]models.BookingItem),
		participants: participants,
	}
}

func (r *MemoryLedgerRepo) CreateBooking(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemoryLedgerRepo) CreateItems(_ context.Context, items []models.BookingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.BookingID] = append(r.items[item.BookingID], item)
	}
	return nil
}

func (r *MemoryLedgerRepo) DeleteBooking(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bookings, bookingID)
	delete(r.items, bookingID)
	return nil
}

func (r *MemoryLedgerRepo) GetBookingByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &booking, nil
}

func (r *MemoryLedgerRepo) GetItemsByBookingID(_ context.Context, bookingID string) ([]models.BookingItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.BookingItem, len(r.items[bookingID]))
	copy(items, r.items[bookingID])
	return items, nil
}

func (r *MemoryLedgerRepo) ListByGuestID(_ context.Context, guestID string) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bookings []models.Booking
	for _, b := range r.bookings {
		if b.GuestID == guestID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

func (r *MemoryLedgerRepo) CountPriorBookingsByGuest(_ context.Context, guestID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, b := range r.bookings {
		if b.GuestID == guestID && b.Status != models.StatusCancelled {
			count++
		}
	}
	return count, nil
}

func (r *MemoryLedgerRepo) ReservedRoomQuantity(_ context.Context, unitID string, rng models.DateRange) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reserved := 0
	for _, bookingItems := range r.items {
		for _, item := range bookingItems {
			if !item.Status.Holding() || item.CheckIn == "" || item.CheckOut == "" {
				continue
			}
			stay, err := models.ParseDateRange(item.CheckIn, item.CheckOut)
			if err != nil {
				continue
			}
			if !rng.Overlaps(stay) {
				continue
			}
			for _, room := range item.Selection.Rooms {
				if room.UnitID == unitID {
					reserved += room.Quantity
				}
			}
		}
	}
	return reserved, nil
}

func (r *MemoryLedgerRepo) SetPaymentRef(_ context.Context, id, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	booking.PaymentRef = ref
	r.bookings[id] = booking
	return nil
}

func (r *MemoryLedgerRepo) UpdateBookingStatus(_ context.Context, id string, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if !booking.Status.CanTransitionTo(status) {
		return fmt.Errorf("illegal status transition %s -> %s for booking %s", booking.Status, status, id)
	}
	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	r.bookings[id] = booking

	items := r.items[id]
	for i := range items {
		items[i].Status = status
	}
	return nil
}

func (r *MemoryLedgerRepo) ListExpiredDrafts(_ context.Context, before time.Time) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expired []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.StatusDraft && b.CreatedAt.Before(before) {
			expired = append(expired, b)
		}
	}
	return expired, nil
}

func (r *MemoryLedgerRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	ledgerSnap := r.snapshot()
	participantSnaps := make([]interface{}, len(r.participants))
	for i, p := range r.participants {
		participantSnaps[i] = p.Snapshot()
	}

	if err := fn(ctx); err != nil {
		r.restore(ledgerSnap)
		for i, p := range r.participants {
			p.Restore(participantSnaps[i])
		}
		return err
	}
	return nil
}

type memorySnapshot struct {
	bookings map[string]models.Booking
	items    map[string][]models.BookingItem
}

func (r *MemoryLedgerRepo) snapshot() memorySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := memorySnapshot{
		bookings: make(map[string]models.Booking, len(r.bookings)),
		items:    make(map[string][]models.BookingItem, len(r.items)),
	}
	for id, b := range r.bookings {
		snap.bookings[id] = b
	}
	for id, items := range r.items {
		copied := make([]models.BookingItem, len(items))
		copy(copied, items)
		snap.items[id] = copied
	}
	return snap
}

func (r *MemoryLedgerRepo) restore(snap memorySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings = snap.bookings
	r.items = snap.items
}
