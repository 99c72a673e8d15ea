package models

// Quote is an ephemeral, fully-itemized price computation. It is produced
// fresh on every pricing request and never persisted.
type Quote struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message,omitempty"`
	Nights    int            `json:"nights"` // 1 for trips/activities
	Breakdown PriceBreakdown `json:"breakdown"`

	// Set when Success is false because of insufficient inventory.
	FailedUnitID string `json:"failedUnitId,omitempty"`

	AppliedPromotionID string `json:"appliedPromotionId,omitempty"`
	// Conditional promotions are surfaced for upsell, never applied.
	ConditionalPromotions []ConditionalPromotion `json:"conditionalPromotions,omitempty"`
}

// ConditionalPromotion names a promotion that failed exactly one soft
// predicate, with the reason it did not apply.
type ConditionalPromotion struct {
	PromotionID string `json:"promotionId"`
	Title       string `json:"title"`
	Reason      string `json:"reason"`
}

// AvailabilitySummary is the advisory answer to a CheckAvailability call.
// It is never authoritative; the orchestrator re-resolves inside the commit
// transaction.
type AvailabilitySummary struct {
	UnitID            string `json:"unitId"`
	AvailableQuantity int    `json:"availableQuantity"`
	IsSufficient      bool   `json:"isSufficient"`
	Reason            string `json:"reason,omitempty"`
}

// QuoteRequest asks for a price on one offering.
type QuoteRequest struct {
	OfferingID    string             `json:"offeringId" binding:"required"`
	CheckIn       string             `json:"checkIn,omitempty"`
	CheckOut      string             `json:"checkOut,omitempty"`
	Party         PartyComposition   `json:"party"`
	Selection     InventorySelection `json:"selection"`
	PromotionCode string             `json:"promotionCode,omitempty"`
	// RequirePromotion makes a code that cannot apply fail the request
	// instead of quietly pricing without it.
	RequirePromotion bool `json:"requirePromotion,omitempty"`
}

// BookingItemRequest is one item of a (possibly multi-offering) checkout.
type BookingItemRequest struct {
	OfferingID string             `json:"offeringId" binding:"required"`
	CheckIn    string             `json:"checkIn,omitempty"`
	CheckOut   string             `json:"checkOut,omitempty"`
	Party      PartyComposition   `json:"party"`
	Selection  InventorySelection `json:"selection"`
}

// CreateBookingRequest is the checkout payload.
type CreateBookingRequest struct {
	Items            []BookingItemRequest `json:"items" binding:"required"`
	PromotionCode    string               `json:"promotionCode,omitempty"`
	RequirePromotion bool                 `json:"requirePromotion,omitempty"`
	GuestNotes       string               `json:"guestNotes,omitempty"`
	Origin           BookingOrigin        `json:"origin,omitempty"`
}

// BookingItemResult is the per-item slice of a BookingResult.
type BookingItemResult struct {
	ItemID     string         `json:"itemId"`
	OfferingID string         `json:"offeringId"`
	OrderIndex int            `json:"orderIndex"`
	Breakdown  PriceBreakdown `json:"breakdown"`
}

// BookingResult summarizes a committed draft booking. PaymentRef is the
// opaque reference the caller uses to continue to payment.
type BookingResult struct {
	BookingID  string              `json:"bookingId"`
	Status     BookingStatus       `json:"status"`
	Items      []BookingItemResult `json:"items"`
	GrandTotal int64               `json:"grandTotal"`
	Currency   string              `json:"currency"`
	PaymentRef string              `json:"paymentRef,omitempty"`
}
