package models

// UnitKind mirrors the offering kind on the inventory side.
type UnitKind string

const (
	UnitRoomType  UnitKind = "room_type"
	UnitDeparture UnitKind = "departure"
	UnitSession   UnitKind = "session"
)

// InventoryUnit is the finite, allocatable resource behind an offering.
// It is kind-tagged: RoomType units carry nightly pricing and a room count,
// Departure/Session units carry event timestamps and live capacity counters.
// Total counts only change through administrative action, never through the
// booking flow; the event counters are the one exception and are adjusted
// transactionally at commit/cancel time.
type InventoryUnit struct {
	ID         string   `bson:"id" json:"id"`
	OfferingID string   `bson:"offering_id" json:"offeringId"`
	Kind       UnitKind `bson:"kind" json:"kind"`
	Name       string   `bson:"name" json:"name"`

	// RoomType fields.
	MaxOccupancy int   `bson:"max_occupancy,omitempty" json:"maxOccupancy,omitempty"`
	TotalRooms   int   `bson:"total_rooms,omitempty" json:"totalRooms,omitempty"`
	NightlyPrice int64 `bson:"nightly_price,omitempty" json:"nightlyPrice,omitempty"` // minor units

	// Departure/Session fields.
	StartsAt          string `bson:"starts_at,omitempty" json:"startsAt,omitempty"` // RFC 3339
	EndsAt            string `bson:"ends_at,omitempty" json:"endsAt,omitempty"`
	TotalCapacity     int    `bson:"total_capacity,omitempty" json:"totalCapacity,omitempty"`
	CapacityAvailable int    `bson:"capacity_available,omitempty" json:"capacityAvailable,omitempty"`
	PriceOverride     *int64 `bson:"price_override,omitempty" json:"priceOverride,omitempty"` // per person, minor units

	Currency string `bson:"currency" json:"currency"`
}

// UnitPrice returns the per-night (room type) or per-person (event) price in
// minor units, honouring the event price override when present.
func (u *InventoryUnit) UnitPrice(offeringBase int64) int64 {
	if u.Kind == UnitRoomType {
		if u.NightlyPrice > 0 {
			return u.NightlyPrice
		}
		return offeringBase
	}
	if u.PriceOverride != nil {
		return *u.PriceOverride
	}
	return offeringBase
}

// EventBased reports whether availability is tracked by a capacity counter
// instead of overlap arithmetic.
func (u *InventoryUnit) EventBased() bool {
	return u.Kind == UnitDeparture || u.Kind == UnitSession
}
