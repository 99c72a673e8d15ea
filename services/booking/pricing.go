package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"voyago/config"
	inventoryRepo "voyago/database/repository/inventory"
	ledgerRepo "voyago/database/repository/ledger"
	offeringRepo "voyago/database/repository/offering"
	promotionRepo "voyago/database/repository/promotion"
	"voyago/models"
)

// ChargePolicy is a pluggable fee or tax rate: basis points of the
// post-discount amount plus a flat component, all integer minor units.
type ChargePolicy struct {
	Label string
	Bps   int64
	Flat  int64
}

// Apply computes the charge on a base amount.
func (p ChargePolicy) Apply(base int64) int64 {
	return base*p.Bps/10000 + p.Flat
}

// PoliciesFromConfig builds the fee and tax schedules from AppConfig.
func PoliciesFromConfig() (fees, taxes []ChargePolicy) {
	cfg := config.AppConfig
	if cfg.ServiceFeeBps > 0 || cfg.BookingFeeFlat > 0 {
		fees = append(fees, ChargePolicy{Label: "Service fee", Bps: cfg.ServiceFeeBps, Flat: cfg.BookingFeeFlat})
	}
	if cfg.TaxRateBps > 0 {
		taxes = append(taxes, ChargePolicy{Label: "Tax", Bps: cfg.TaxRateBps})
	}
	return fees, taxes
}

// QuoteCalculator combines unit prices, party composition, stay length,
// fees, taxes and the promotion evaluator's result into a deterministic
// breakdown. Charges apply in a fixed order (subtotal, discount, fees,
// taxes, total); fees and taxes are computed on the post-discount amount.
type QuoteCalculator struct {
	Offerings  offeringRepo.OfferingRepository
	Inventory  inventoryRepo.InventoryRepository
	Promotions promotionRepo.PromotionRepository
	Ledger     ledgerRepo.LedgerRepository
	Resolver   *AvailabilityResolver
	Evaluator  *PromotionEvaluator
	Fees       []ChargePolicy
	Taxes      []ChargePolicy
}

// Quote prices one offering request. Insufficient inventory yields a
// Quote with Success=false and no total, not an error; malformed requests
// and unknown references are errors.
func (c *QuoteCalculator) Quote(ctx context.Context, guestID string, req models.QuoteRequest) (*models.Quote, error) {
	offering, err := c.resolveOffering(ctx, req.OfferingID)
	if err != nil {
		return nil, err
	}
	if req.Party.Size() < 1 {
		return nil, NewValidationError("party must include at least one adult or child")
	}
	if req.Party.Adults < 0 || req.Party.Children < 0 || req.Party.Infants < 0 {
		return nil, NewValidationError("party counts cannot be negative")
	}

	if offering.Kind == models.KindLodging {
		return c.quoteLodging(ctx, guestID, offering, req)
	}
	return c.quoteEvent(ctx, guestID, offering, req)
}

func (c *QuoteCalculator) resolveOffering(ctx context.Context, id string) (*models.Offering, error) {
	offering, err := c.Offerings.GetByID(ctx, id)
	if errors.Is(err, offeringRepo.ErrNotFound) {
		return nil, &NotFoundError{Resource: "offering", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve offering %s: %w", id, err)
	}
	if !offering.Published {
		return nil, NewValidationError("offering %s is not published", id)
	}
	return offering, nil
}

func (c *QuoteCalculator) quoteLodging(ctx context.Context, guestID string, offering *models.Offering, req models.QuoteRequest) (*models.Quote, error) {
	if req.CheckIn == "" || req.CheckOut == "" {
		return nil, NewValidationError("lodging requests need check-in and check-out dates")
	}
	rng, err := models.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, NewValidationError("%v", err)
	}
	if len(req.Selection.Rooms) == 0 {
		return nil, NewValidationError("select at least one room type")
	}

	nights := rng.Nights()
	var subtotal int64
	var lines []models.BreakdownLine
	var sleeps int

	for _, sel := range req.Selection.Rooms {
		if sel.Quantity < 1 {
			return nil, NewValidationError("room quantity must be at least 1")
		}
		unit, err := c.resolveUnit(ctx, offering, sel.UnitID, models.UnitRoomType)
		if err != nil {
			return nil, err
		}

		// Occupancy is checked across the whole selection below; here we
		// only care about free rooms.
		res, err := c.Resolver.Resolve(ctx, unit, &rng, sel.Quantity, 0)
		if err != nil {
			return nil, err
		}
		if !res.IsSufficient {
			return unavailableQuote(offering.Currency, nights, unit.ID,
				fmt.Sprintf("%s is not available: %s", unit.Name, res.Reason)), nil
		}

		amount := unit.UnitPrice(offering.BasePrice) * int64(sel.Quantity) * int64(nights)
		subtotal += amount
		lines = append(lines, models.BreakdownLine{
			Label:  fmt.Sprintf("%s × %d room(s) × %d night(s)", unit.Name, sel.Quantity, nights),
			Amount: amount,
		})
		sleeps += unit.MaxOccupancy * sel.Quantity
	}

	if sleeps > 0 && req.Party.Size() > sleeps {
		return nil, NewValidationError("party of %d exceeds the selected rooms' capacity of %d", req.Party.Size(), sleeps)
	}

	return c.finishQuote(ctx, guestID, offering, req.PromotionCode, req.RequirePromotion, CandidateOrder{
		OfferingID: offering.ID,
		GuestID:    guestID,
		Date:       rng.CheckIn,
		Nights:     nights,
		Guests:     req.Party.Size(),
		Subtotal:   subtotal,
	}, lines, subtotal, nights)
}

func (c *QuoteCalculator) quoteEvent(ctx context.Context, guestID string, offering *models.Offering, req models.QuoteRequest) (*models.Quote, error) {
	if req.Selection.EventUnitID == "" {
		return nil, NewValidationError("select a departure or session")
	}
	wantKind := models.UnitDeparture
	if offering.Kind == models.KindActivity {
		wantKind = models.UnitSession
	}
	unit, err := c.resolveUnit(ctx, offering, req.Selection.EventUnitID, wantKind)
	if err != nil {
		return nil, err
	}

	partySize := req.Party.Size()
	res, err := c.Resolver.Resolve(ctx, unit, nil, partySize, partySize)
	if err != nil {
		return nil, err
	}
	if !res.IsSufficient {
		return unavailableQuote(offering.Currency, 1, unit.ID,
			fmt.Sprintf("%s is not available: %s", unit.Name, res.Reason)), nil
	}

	// Trips and activities are priced per person, not per night.
	amount := unit.UnitPrice(offering.BasePrice) * int64(partySize)
	lines := []models.BreakdownLine{{
		Label:  fmt.Sprintf("%s × %d traveller(s)", unit.Name, partySize),
		Amount: amount,
	}}

	date, err := time.Parse(time.RFC3339, unit.StartsAt)
	if err != nil {
		return nil, NewValidationError("unit %s has an invalid start time %q", unit.ID, unit.StartsAt)
	}

	return c.finishQuote(ctx, guestID, offering, req.PromotionCode, req.RequirePromotion, CandidateOrder{
		OfferingID: offering.ID,
		GuestID:    guestID,
		Date:       date,
		Nights:     1,
		Guests:     partySize,
		Subtotal:   amount,
	}, lines, amount, 1)
}

func (c *QuoteCalculator) resolveUnit(ctx context.Context, offering *models.Offering, unitID string, wantKind models.UnitKind) (*models.InventoryUnit, error) {
	unit, err := c.Inventory.GetByID(ctx, unitID)
	if errors.Is(err, inventoryRepo.ErrNotFound) {
		return nil, &NotFoundError{Resource: "inventory unit", ID: unitID}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve inventory unit %s: %w", unitID, err)
	}
	if unit.OfferingID != offering.ID {
		return nil, NewValidationError("unit %s does not belong to offering %s", unitID, offering.ID)
	}
	if unit.Kind != wantKind {
		return nil, NewValidationError("unit %s is a %s, expected %s", unitID, unit.Kind, wantKind)
	}
	return unit, nil
}

// finishQuote applies the promotion, fee and tax stages on top of the
// subtotal lines and assembles the final breakdown. Integer arithmetic
// throughout; the lines sum to the total exactly.
func (c *QuoteCalculator) finishQuote(
	ctx context.Context,
	guestID string,
	offering *models.Offering,
	promotionCode string,
	requirePromotion bool,
	order CandidateOrder,
	lines []models.BreakdownLine,
	subtotal int64,
	nights int,
) (*models.Quote, error) {
	catalog, err := c.Promotions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load promotion catalog: %w", err)
	}
	// Stable order keeps quoting deterministic across identical calls.
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].ID < catalog[j].ID })

	if guestID != "" {
		prior, err := c.Ledger.CountPriorBookingsByGuest(ctx, guestID)
		if err != nil {
			return nil, fmt.Errorf("count prior bookings: %w", err)
		}
		order.PriorBookings = prior
	}

	evaluation := c.Evaluator.Evaluate(order, catalog, promotionCode)
	applied := c.Evaluator.Select(order, evaluation.Eligible, promotionCode)

	var discount int64
	quote := &models.Quote{
		Success:               true,
		Nights:                nights,
		ConditionalPromotions: evaluation.Conditional,
	}
	if len(applied) > 0 {
		quote.AppliedPromotionID = applied[0].ID
		// Each stacked discount is clamped individually; the running sum
		// never exceeds the subtotal.
		for i := range applied {
			amount := c.Evaluator.Discount(&applied[i], subtotal)
			if amount == 0 {
				continue
			}
			if discount+amount > subtotal {
				amount = subtotal - discount
			}
			discount += amount
			lines = append(lines, models.BreakdownLine{
				Label:  fmt.Sprintf("Discount (%s)", applied[i].Title),
				Amount: -amount,
			})
			if discount == subtotal {
				break
			}
		}
	} else if promotionCode != "" {
		if requirePromotion {
			return nil, &PromotionError{
				Code:    promotionCode,
				Message: "code is invalid, expired or not eligible for this order",
			}
		}
		// The caller did not insist on the code, so it is non-fatal; the
		// order proceeds without a discount.
		quote.Message = fmt.Sprintf("promotion code %q could not be applied", promotionCode)
	}

	base := subtotal - discount
	var fees, taxes int64
	for _, policy := range c.Fees {
		amount := policy.Apply(base)
		if amount == 0 {
			continue
		}
		fees += amount
		lines = append(lines, models.BreakdownLine{Label: policy.Label, Amount: amount})
	}
	for _, policy := range c.Taxes {
		amount := policy.Apply(base)
		if amount == 0 {
			continue
		}
		taxes += amount
		lines = append(lines, models.BreakdownLine{Label: policy.Label, Amount: amount})
	}

	quote.Breakdown = models.PriceBreakdown{
		Subtotal: subtotal,
		Discount: discount,
		Fees:     fees,
		Taxes:    taxes,
		Total:    subtotal - discount + fees + taxes,
		Currency: offering.Currency,
		Lines:    lines,
	}
	return quote, nil
}

func unavailableQuote(currency string, nights int, unitID, message string) *models.Quote {
	return &models.Quote{
		Success:      false,
		Message:      message,
		Nights:       nights,
		FailedUnitID: unitID,
		Breakdown:    models.PriceBreakdown{Currency: currency},
	}
}
