package models

import "time"

// BookingStatus follows draft -> pending_payment -> confirmed -> completed,
// with cancelled reachable from the first three and refunded from confirmed.
type BookingStatus string

const (
	StatusDraft          BookingStatus = "draft"
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
	StatusRefunded       BookingStatus = "refunded"
)

// ActiveStatuses are the statuses that hold inventory. A draft booking still
// counts against availability until it is cancelled or expires, so capacity
// cannot be oversold mid-checkout.
var ActiveStatuses = []BookingStatus{StatusDraft, StatusPendingPayment, StatusConfirmed}

// CanTransitionTo enforces the status state machine.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusPendingPayment || next == StatusCancelled
	case StatusPendingPayment:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled || next == StatusRefunded
	}
	return false
}

// Holding reports whether the status still counts against inventory.
func (s BookingStatus) Holding() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// BookingOrigin distinguishes bookings placed by a person from those placed
// by an automated agent on their behalf.
type BookingOrigin string

const (
	OriginHuman BookingOrigin = "human"
	OriginAgent BookingOrigin = "automated_agent"
)

// PartyComposition is who is travelling.
type PartyComposition struct {
	Adults   int `bson:"adults" json:"adults"`
	Children int `bson:"children" json:"children"`
	Infants  int `bson:"infants" json:"infants"`
}

// Size counts the occupancy-relevant guests. Infants do not take a seat and
// do not count against room occupancy.
func (p PartyComposition) Size() int {
	return p.Adults + p.Children
}

// RoomSelection allocates a quantity of a room type inside a lodging item.
type RoomSelection struct {
	UnitID   string `bson:"unit_id" json:"unitId"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// InventorySelection is the closed, kind-tagged allocation for one item:
// room allocations for lodging, a single event unit for trips/activities.
type InventorySelection struct {
	Rooms       []RoomSelection `bson:"rooms,omitempty" json:"rooms,omitempty"`
	EventUnitID string          `bson:"event_unit_id,omitempty" json:"eventUnitId,omitempty"`
}

// BreakdownLine is one labelled amount inside a price breakdown. Amounts are
// signed minor units; discount lines are negative. Lines always sum to the
// breakdown total.
type BreakdownLine struct {
	Label  string `bson:"label" json:"label"`
	Amount int64  `bson:"amount" json:"amount"`
}

// PriceBreakdown is the itemized money view shared by quotes, bookings and
// booking items. All amounts are integer minor-currency units.
type PriceBreakdown struct {
	Subtotal int64           `bson:"subtotal" json:"subtotal"`
	Discount int64           `bson:"discount" json:"discount"` // >= 0, applied before fees/taxes
	Fees     int64           `bson:"fees" json:"fees"`
	Taxes    int64           `bson:"taxes" json:"taxes"`
	Total    int64           `bson:"total" json:"total"`
	Currency string          `bson:"currency" json:"currency"`
	Lines    []BreakdownLine `bson:"lines" json:"lines"`
}

// Booking is the persisted reservation. The embedded breakdown carries the
// primary item's totals for backward-compatible single-offering display;
// multi-item grand totals are the sum over items.
type Booking struct {
	ID            string           `bson:"id" json:"id"`
	GuestID       string           `bson:"guest_id" json:"guestId"`
	OfferingID    string           `bson:"offering_id" json:"offeringId"` // primary item's offering
	CheckIn       string           `bson:"check_in,omitempty" json:"checkIn,omitempty"`   // YYYY-MM-DD
	CheckOut      string           `bson:"check_out,omitempty" json:"checkOut,omitempty"` // YYYY-MM-DD, exclusive
	EventUnitID   string           `bson:"event_unit_id,omitempty" json:"eventUnitId,omitempty"`
	Party         PartyComposition `bson:"party" json:"party"`
	Breakdown     PriceBreakdown   `bson:"breakdown" json:"breakdown"`
	Status        BookingStatus    `bson:"status" json:"status"`
	Origin        BookingOrigin    `bson:"origin" json:"origin"`
	PromotionID   string           `bson:"promotion_id,omitempty" json:"promotionId,omitempty"`
	PromotionCode string           `bson:"promotion_code,omitempty" json:"promotionCode,omitempty"`
	GuestNotes    string           `bson:"guest_notes,omitempty" json:"guestNotes,omitempty"`
	PaymentRef    string           `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"`
	CreatedAt     time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time        `bson:"updated_at" json:"updatedAt"`
}

// BookingItem is one offering's slice of a possibly multi-offering checkout.
// A booking always has at least one item; OrderIndex preserves request order.
type BookingItem struct {
	ID          string             `bson:"id" json:"id"`
	BookingID   string             `bson:"booking_id" json:"bookingId"`
	OfferingID  string             `bson:"offering_id" json:"offeringId"`
	OrderIndex  int                `bson:"order_index" json:"orderIndex"`
	CheckIn     string             `bson:"check_in,omitempty" json:"checkIn,omitempty"`
	CheckOut    string             `bson:"check_out,omitempty" json:"checkOut,omitempty"`
	EventUnitID string             `bson:"event_unit_id,omitempty" json:"eventUnitId,omitempty"`
	Party       PartyComposition   `bson:"party" json:"party"`
	Selection   InventorySelection `bson:"selection" json:"selection"`
	Breakdown   PriceBreakdown     `bson:"breakdown" json:"breakdown"`
	Status      BookingStatus      `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
