package booking

import (
	"testing"
	"time"

	"voyago/models"
)

func testOrder() CandidateOrder {
	return CandidateOrder{
		OfferingID: "riad-1",
		GuestID:    "guest-1",
		Date:       time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Nights:     2,
		Guests:     2,
		Subtotal:   130000,
	}
}

func TestEvaluateHardPredicates(t *testing.T) {
	evaluator := &PromotionEvaluator{}

	tests := []struct {
		name         string
		promo        models.Promotion
		order        func(CandidateOrder) CandidateOrder
		suppliedCode string
		wantEligible bool
	}{
		{
			name:         "active global promotion applies",
			promo:        models.Promotion{ID: "p1", Active: true, Shape: models.DiscountPercentage, Percentage: 10},
			wantEligible: true,
		},
		{
			name:         "inactive promotion never applies",
			promo:        models.Promotion{ID: "p2", Active: false, Shape: models.DiscountPercentage, Percentage: 10},
			wantEligible: false,
		},
		{
			name: "scope mismatch",
			promo: models.Promotion{
				ID: "p3", Active: true, OfferingIDs: []string{"other-offering"},
				Shape: models.DiscountPercentage, Percentage: 10,
			},
			wantEligible: false,
		},
		{
			name: "inside validity window",
			promo: models.Promotion{
				ID: "p4", Active: true, ValidFrom: "2026-02-01", ValidUntil: "2026-02-28",
				Shape: models.DiscountPercentage, Percentage: 10,
			},
			wantEligible: true,
		},
		{
			name: "before validity window",
			promo: models.Promotion{
				ID: "p5", Active: true, ValidFrom: "2026-03-01",
				Shape: models.DiscountPercentage, Percentage: 10,
			},
			wantEligible: false,
		},
		{
			name: "after validity window",
			promo: models.Promotion{
				ID: "p6", Active: true, ValidUntil: "2026-01-31",
				Shape: models.DiscountPercentage, Percentage: 10,
			},
			wantEligible: false,
		},
		{
			name: "first booking with no history",
			promo: models.Promotion{
				ID: "p7", Active: true, Type: models.PromoFirstBooking,
				Shape: models.DiscountPercentage, Percentage: 15,
			},
			wantEligible: true,
		},
		{
			name: "first booking with history",
			promo: models.Promotion{
				ID: "p8", Active: true, Type: models.PromoFirstBooking,
				Shape: models.DiscountPercentage, Percentage: 15,
			},
			order:        func(o CandidateOrder) CandidateOrder { o.PriorBookings = 3; return o },
			wantEligible: false,
		},
		{
			name: "loyalty below threshold",
			promo: models.Promotion{
				ID: "p9", Active: true, Type: models.PromoLoyaltyReward, MinPriorBookings: 5,
				Shape: models.DiscountPercentage, Percentage: 5,
			},
			order:        func(o CandidateOrder) CandidateOrder { o.PriorBookings = 4; return o },
			wantEligible: false,
		},
		{
			name: "loyalty at threshold",
			promo: models.Promotion{
				ID: "p10", Active: true, Type: models.PromoLoyaltyReward, MinPriorBookings: 5,
				Shape: models.DiscountPercentage, Percentage: 5,
			},
			order:        func(o CandidateOrder) CandidateOrder { o.PriorBookings = 5; return o },
			wantEligible: true,
		},
		{
			name: "code matches supplied",
			promo: models.Promotion{
				ID: "p11", Active: true, Type: models.PromoCode, Code: "SPRING26",
				Shape: models.DiscountFixed, Amount: 5000,
			},
			suppliedCode: "SPRING26",
			wantEligible: true,
		},
		{
			name: "code without supplied code",
			promo: models.Promotion{
				ID: "p12", Active: true, Type: models.PromoCode, Code: "SPRING26",
				Shape: models.DiscountFixed, Amount: 5000,
			},
			wantEligible: false,
		},
		{
			name: "code mismatch",
			promo: models.Promotion{
				ID: "p13", Active: true, Type: models.PromoCode, Code: "SPRING26",
				Shape: models.DiscountFixed, Amount: 5000,
			},
			suppliedCode: "WINTER25",
			wantEligible: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder()
			if tt.order != nil {
				order = tt.order(order)
			}
			result := evaluator.Evaluate(order, []models.Promotion{tt.promo}, tt.suppliedCode)
			if got := len(result.Eligible) == 1; got != tt.wantEligible {
				t.Errorf("eligible = %v, want %v", got, tt.wantEligible)
			}
			if len(result.Conditional) != 0 {
				t.Errorf("hard predicate failures must not surface as conditional, got %d", len(result.Conditional))
			}
		})
	}
}

func TestEvaluateConditional(t *testing.T) {
	evaluator := &PromotionEvaluator{}
	order := testOrder() // 2 nights, 2 guests, subtotal 130000

	tests := []struct {
		name            string
		promo           models.Promotion
		wantEligible    int
		wantConditional int
	}{
		{
			name: "one soft failure surfaces as conditional",
			promo: models.Promotion{
				ID: "c1", Active: true, MinNights: 3,
				Shape: models.DiscountPercentage, Percentage: 10,
			},
			wantConditional: 1,
		},
		{
			name: "two soft failures surface nothing",
			promo: models.Promotion{
				ID: "c2", Active: true, MinNights: 3, MinGuests: 4,
				Shape: models.DiscountPercentage, Percentage: 10,
			},
		},
		{
			name: "all soft predicates hold",
			promo: models.Promotion{
				ID: "c3", Active: true, MinNights: 2, MinGuests: 2, MinSubtotal: 100000,
				Shape: models.DiscountPercentage, Percentage: 10,
			},
			wantEligible: 1,
		},
		{
			name: "subtotal short by one",
			promo: models.Promotion{
				ID: "c4", Active: true, MinSubtotal: 130001,
				Shape: models.DiscountPercentage, Percentage: 10,
			},
			wantConditional: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := evaluator.Evaluate(order, []models.Promotion{tt.promo}, "")
			if len(result.Eligible) != tt.wantEligible {
				t.Errorf("eligible = %d, want %d", len(result.Eligible), tt.wantEligible)
			}
			if len(result.Conditional) != tt.wantConditional {
				t.Errorf("conditional = %d, want %d", len(result.Conditional), tt.wantConditional)
			}
			if tt.wantConditional == 1 && result.Conditional[0].Reason == "" {
				t.Error("conditional promotion must carry a reason")
			}
		})
	}
}

func TestSelect(t *testing.T) {
	evaluator := &PromotionEvaluator{}
	order := testOrder()

	small := models.Promotion{ID: "auto-small", Active: true, AutoApply: true, Shape: models.DiscountPercentage, Percentage: 5}
	big := models.Promotion{ID: "auto-big", Active: true, AutoApply: true, Shape: models.DiscountPercentage, Percentage: 15}
	coded := models.Promotion{ID: "coded", Active: true, Type: models.PromoCode, Code: "SPRING26", Shape: models.DiscountFixed, Amount: 30000}

	// Auto-apply wins even when a code promising more was supplied, and
	// nothing stacks unless declared.
	selected := evaluator.Select(order, []models.Promotion{small, big, coded}, "SPRING26")
	if len(selected) != 1 || selected[0].ID != "auto-big" {
		t.Fatalf("Select = %v, want [auto-big]", selected)
	}

	// Without auto-apply candidates the supplied code is honoured.
	selected = evaluator.Select(order, []models.Promotion{coded}, "SPRING26")
	if len(selected) != 1 || selected[0].ID != "coded" {
		t.Fatalf("Select = %v, want [coded]", selected)
	}

	// Nothing eligible, nothing supplied.
	if selected = evaluator.Select(order, nil, ""); selected != nil {
		t.Fatalf("Select = %v, want nil", selected)
	}
}

func TestSelectStacking(t *testing.T) {
	evaluator := &PromotionEvaluator{}
	order := testOrder()

	pct := models.Promotion{ID: "pct", Active: true, AutoApply: true, Stackable: true, Shape: models.DiscountPercentage, Percentage: 10}
	fixed := models.Promotion{ID: "fixed", Active: true, AutoApply: true, Stackable: true, Shape: models.DiscountFixed, Amount: 5000}
	solo := models.Promotion{ID: "solo", Active: true, AutoApply: true, Shape: models.DiscountFixed, Amount: 4000}

	// Two stackable winners stack, highest discount leading.
	selected := evaluator.Select(order, []models.Promotion{fixed, pct}, "")
	if len(selected) != 2 || selected[0].ID != "pct" || selected[1].ID != "fixed" {
		t.Fatalf("Select = %v, want [pct fixed]", selected)
	}

	// A non-stackable promotion never joins a stack.
	selected = evaluator.Select(order, []models.Promotion{pct, solo}, "")
	if len(selected) != 1 || selected[0].ID != "pct" {
		t.Fatalf("Select = %v, want [pct]", selected)
	}

	// A non-stackable winner stays alone even among stackable candidates.
	bigSolo := models.Promotion{ID: "big-solo", Active: true, AutoApply: true, Shape: models.DiscountPercentage, Percentage: 20}
	selected = evaluator.Select(order, []models.Promotion{pct, fixed, bigSolo}, "")
	if len(selected) != 1 || selected[0].ID != "big-solo" {
		t.Fatalf("Select = %v, want [big-solo]", selected)
	}
}

func TestDiscount(t *testing.T) {
	evaluator := &PromotionEvaluator{}

	tests := []struct {
		name     string
		promo    models.Promotion
		subtotal int64
		want     int64
	}{
		{
			"ten percent",
			models.Promotion{Shape: models.DiscountPercentage, Percentage: 10},
			130000, 13000,
		},
		{
			"percentage capped",
			models.Promotion{Shape: models.DiscountPercentage, Percentage: 50, MaxCap: 20000},
			130000, 20000,
		},
		{
			"fixed amount",
			models.Promotion{Shape: models.DiscountFixed, Amount: 5000},
			130000, 5000,
		},
		{
			"fixed clamped to subtotal",
			models.Promotion{Shape: models.DiscountFixed, Amount: 200000},
			130000, 130000,
		},
		{
			"negative amount clamped to zero",
			models.Promotion{Shape: models.DiscountFixed, Amount: -100},
			130000, 0,
		},
		{
			"integer truncation",
			models.Promotion{Shape: models.DiscountPercentage, Percentage: 3},
			99, 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluator.Discount(&tt.promo, tt.subtotal)
			if got != tt.want {
				t.Errorf("Discount = %d, want %d", got, tt.want)
			}
			if got < 0 || got > tt.subtotal {
				t.Errorf("Discount %d outside [0, %d]", got, tt.subtotal)
			}
		})
	}
}
