package booking

import (
	"fmt"
	"time"

	"voyago/models"
)

// CandidateOrder is the slice of an order a promotion is judged against.
type CandidateOrder struct {
	OfferingID    string
	GuestID       string
	Date          time.Time // check-in or event date
	Nights        int
	Guests        int
	Subtotal      int64 // minor units
	PriorBookings int
}

// PromotionEvaluator decides eligibility and discount amounts. It is a pure
// computation over an already-fetched catalog.
type PromotionEvaluator struct{}

// EvaluationResult splits the catalog into promotions that apply and
// promotions worth surfacing for upsell.
type EvaluationResult struct {
	Eligible    []models.Promotion
	Conditional []models.ConditionalPromotion
}

// Evaluate checks every catalog entry against the candidate order. A
// promotion is eligible when all predicates hold; it is conditional when
// the hard predicates hold but exactly one soft predicate fails.
func (e *PromotionEvaluator) Evaluate(order CandidateOrder, catalog []models.Promotion, suppliedCode string) EvaluationResult {
	var result EvaluationResult
	for _, promo := range catalog {
		if !e.hardPredicatesHold(order, &promo, suppliedCode) {
			continue
		}
		failures := e.softPredicateFailures(order, &promo)
		switch len(failures) {
		case 0:
			result.Eligible = append(result.Eligible, promo)
		case 1:
			result.Conditional = append(result.Conditional, models.ConditionalPromotion{
				PromotionID: promo.ID,
				Title:       promo.Title,
				Reason:      failures[0],
			})
		}
	}
	return result
}

func (e *PromotionEvaluator) hardPredicatesHold(order CandidateOrder, promo *models.Promotion, suppliedCode string) bool {
	if !promo.Active || !promo.AppliesTo(order.OfferingID) {
		return false
	}

	date := order.Date.Format("2006-01-02")
	if promo.ValidFrom != "" && date < promo.ValidFrom {
		return false
	}
	if promo.ValidUntil != "" && date > promo.ValidUntil {
		return false
	}

	switch promo.Type {
	case models.PromoFirstBooking:
		if order.PriorBookings > 0 {
			return false
		}
	case models.PromoLoyaltyReward:
		if order.PriorBookings < promo.MinPriorBookings {
			return false
		}
	case models.PromoCode, models.PromoReferral:
		if promo.Code == "" || promo.Code != suppliedCode {
			return false
		}
	}
	return true
}

func (e *PromotionEvaluator) softPredicateFailures(order CandidateOrder, promo *models.Promotion) []string {
	var failures []string
	if promo.MinNights > 0 && order.Nights < promo.MinNights {
		failures = append(failures, fmt.Sprintf("stay %d more night(s) to unlock (minimum %d)", promo.MinNights-order.Nights, promo.MinNights))
	}
	if promo.MinGuests > 0 && order.Guests < promo.MinGuests {
		failures = append(failures, fmt.Sprintf("requires a party of at least %d", promo.MinGuests))
	}
	if promo.MinSubtotal > 0 && order.Subtotal < promo.MinSubtotal {
		failures = append(failures, fmt.Sprintf("requires an order of at least %d minor units", promo.MinSubtotal))
	}
	return failures
}

// Select picks the promotions to apply, winner first: auto-apply promotions
// win, highest discount breaking ties; otherwise the explicitly supplied
// code. Only one discount applies per order unless the winner declares
// stackability, in which case every other eligible promotion that also
// declares it stacks on top. Stacking is never the default.
func (e *PromotionEvaluator) Select(order CandidateOrder, eligible []models.Promotion, suppliedCode string) []models.Promotion {
	var best *models.Promotion
	for i := range eligible {
		promo := &eligible[i]
		if !promo.AutoApply {
			continue
		}
		if best == nil || e.Discount(promo, order.Subtotal) > e.Discount(best, order.Subtotal) {
			best = promo
		}
	}
	if best == nil && suppliedCode != "" {
		for i := range eligible {
			if eligible[i].Code == suppliedCode {
				best = &eligible[i]
				break
			}
		}
	}
	if best == nil {
		return nil
	}

	applied := []models.Promotion{*best}
	if !best.Stackable {
		return applied
	}
	for i := range eligible {
		if eligible[i].ID == best.ID || !eligible[i].Stackable {
			continue
		}
		applied = append(applied, eligible[i])
	}
	return applied
}

// Discount computes the promotion's discount on a subtotal:
// min(formula(subtotal), cap), never negative, never above the subtotal.
func (e *PromotionEvaluator) Discount(promo *models.Promotion, subtotal int64) int64 {
	var discount int64
	switch promo.Shape {
	case models.DiscountPercentage:
		discount = subtotal * int64(promo.Percentage) / 100
	case models.DiscountFixed:
		discount = promo.Amount
	}
	if promo.MaxCap > 0 && discount > promo.MaxCap {
		discount = promo.MaxCap
	}
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}
