package models

// PromotionType classifies how a discount is earned.
type PromotionType string

const (
	PromoFirstBooking  PromotionType = "first_booking"
	PromoCode          PromotionType = "promo_code"
	PromoLoyaltyReward PromotionType = "loyalty_reward"
	PromoReferral      PromotionType = "referral"
)

// DiscountShape is either a percentage of the subtotal or a fixed amount.
type DiscountShape string

const (
	DiscountPercentage DiscountShape = "percentage"
	DiscountFixed      DiscountShape = "fixed"
)

// Promotion is a catalog entry read-only to the booking engine.
type Promotion struct {
	ID    string        `bson:"id" json:"id"`
	Type  PromotionType `bson:"type" json:"type"`
	Title string        `bson:"title" json:"title"`

	Shape      DiscountShape `bson:"shape" json:"shape"`
	Percentage int           `bson:"percentage,omitempty" json:"percentage,omitempty"`  // whole percent, shape=percentage
	Amount     int64         `bson:"amount,omitempty" json:"amount,omitempty"`          // minor units, shape=fixed
	MaxCap     int64         `bson:"max_cap,omitempty" json:"maxCap,omitempty"`         // 0 means uncapped

	// Eligibility predicates.
	Code        string `bson:"code,omitempty" json:"code,omitempty"` // required match when Type=promo_code
	ValidFrom   string `bson:"valid_from,omitempty" json:"validFrom,omitempty"` // YYYY-MM-DD
	ValidUntil  string `bson:"valid_until,omitempty" json:"validUntil,omitempty"`
	MinNights   int    `bson:"min_nights,omitempty" json:"minNights,omitempty"`
	MinGuests   int    `bson:"min_guests,omitempty" json:"minGuests,omitempty"`
	MinSubtotal int64  `bson:"min_subtotal,omitempty" json:"minSubtotal,omitempty"`
	// Loyalty rewards unlock after this many prior bookings.
	MinPriorBookings int `bson:"min_prior_bookings,omitempty" json:"minPriorBookings,omitempty"`

	AutoApply bool `bson:"auto_apply" json:"autoApply"`
	Stackable bool `bson:"stackable" json:"stackable"`
	Active    bool `bson:"active" json:"active"`

	// Scope: empty means global, otherwise limited to the listed offerings.
	OfferingIDs []string `bson:"offering_ids,omitempty" json:"offeringIds,omitempty"`
}

// AppliesTo reports whether the promotion's scope covers the offering.
func (p *Promotion) AppliesTo(offeringID string) bool {
	if len(p.OfferingIDs) == 0 {
		return true
	}
	for _, id := range p.OfferingIDs {
		if id == offeringID {
			return true
		}
	}
	return false
}
