package models

import "time"

// OfferingKind identifies what a host is selling.
type OfferingKind string

const (
	KindLodging  OfferingKind = "lodging"
	KindTrip     OfferingKind = "trip"
	KindActivity OfferingKind = "activity"
)

// Offering is a host's bookable product. Published offerings are immutable
// from the engine's point of view; only administrative edits change them.
type Offering struct {
	ID        string       `bson:"id" json:"id"`
	Kind      OfferingKind `bson:"kind" json:"kind"`
	HostID    string       `bson:"host_id" json:"hostId"`
	Title     string       `bson:"title" json:"title"`
	Currency  string       `bson:"currency" json:"currency"`    // ISO-4217, 3 letters
	BasePrice int64        `bson:"base_price" json:"basePrice"` // minor currency units
	Published bool         `bson:"published" json:"published"`
	CreatedAt time.Time    `bson:"created_at" json:"createdAt"`
}

func (k OfferingKind) Valid() bool {
	switch k {
	case KindLodging, KindTrip, KindActivity:
		return true
	}
	return false
}

// EventBased reports whether the kind is backed by a single instant-bound
// resource (seats/capacity counters) rather than a date range.
func (k OfferingKind) EventBased() bool {
	return k == KindTrip || k == KindActivity
}
