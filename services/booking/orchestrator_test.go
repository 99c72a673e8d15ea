package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"voyago/models"
	"voyago/services/payment"
)

type recordingScheduler struct {
	mu         sync.Mutex
	bookingIDs []string
	times      []time.Time
}

func (s *recordingScheduler) ScheduleExpiry(_ context.Context, bookingID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookingIDs = append(s.bookingIDs, bookingID)
	s.times = append(s.times, at)
	return nil
}

func newOrchestratorEnv(t *testing.T) (*quoteEnv, *BookingOrchestrator, *recordingScheduler) {
	t.Helper()
	env := newQuoteEnv(t)
	// Flat pricing keeps the arithmetic in these tests readable.
	env.calculator.Fees = nil
	env.calculator.Taxes = nil

	scheduler := &recordingScheduler{}
	orchestrator := &BookingOrchestrator{
		Offerings:  env.offerings,
		Inventory:  env.inventory,
		Ledger:     env.ledger,
		Calculator: env.calculator,
		Payments:   payment.NoopCollaborator{},
		Expiry:     scheduler,
		DraftTTL:   30 * time.Minute,
	}
	return env, orchestrator, scheduler
}

func multiItemRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		Items: []models.BookingItemRequest{
			{
				OfferingID: "riad-1",
				CheckIn:    "2026-02-15",
				CheckOut:   "2026-02-17",
				Party:      models.PartyComposition{Adults: 2},
				Selection: models.InventorySelection{
					Rooms: []models.RoomSelection{{UnitID: "room-double", Quantity: 1}},
				},
			},
			{
				OfferingID: "trek-1",
				Party:      models.PartyComposition{Adults: 2},
				Selection:  models.InventorySelection{EventUnitID: "dep-march"},
			},
		},
	}
}

func TestCreateBookingMultiItem(t *testing.T) {
	env, orchestrator, scheduler := newOrchestratorEnv(t)
	env.seedRiad(t)
	env.seedTrek(t, 8)
	ctx := context.Background()

	result, err := orchestrator.CreateBooking(ctx, "guest-1", multiItemRequest())
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if result.Status != models.StatusDraft {
		t.Errorf("Status = %s, want draft", result.Status)
	}
	if len(result.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(result.Items))
	}
	for i, item := range result.Items {
		if item.OrderIndex != i {
			t.Errorf("item %d has OrderIndex %d", i, item.OrderIndex)
		}
	}
	// 1 room x 2 nights x 650.00 plus 2 travellers x 1200.00.
	if result.GrandTotal != 370000 {
		t.Errorf("GrandTotal = %d, want 370000", result.GrandTotal)
	}
	if result.Currency != "MAD" {
		t.Errorf("Currency = %q, want MAD", result.Currency)
	}
	if result.PaymentRef != "pay_"+result.BookingID {
		t.Errorf("PaymentRef = %q, want the noop collaborator's reference", result.PaymentRef)
	}

	// The trek seats are held immediately.
	unit, err := env.inventory.GetByID(ctx, "dep-march")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if unit.CapacityAvailable != 6 {
		t.Errorf("CapacityAvailable = %d, want 6 after holding 2 seats", unit.CapacityAvailable)
	}

	// The room hold shows in the overlap count.
	reserved, err := env.ledger.ReservedRoomQuantity(ctx, "room-double", mustRange(t, "2026-02-15", "2026-02-17"))
	if err != nil {
		t.Fatalf("ReservedRoomQuantity: %v", err)
	}
	if reserved != 1 {
		t.Errorf("reserved = %d, want 1", reserved)
	}

	// Draft expiry is scheduled for the new booking.
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if len(scheduler.bookingIDs) != 1 || scheduler.bookingIDs[0] != result.BookingID {
		t.Errorf("scheduled expiries = %v, want [%s]", scheduler.bookingIDs, result.BookingID)
	}

	// Persisted rows line up with the result.
	booking, err := env.ledger.GetBookingByID(ctx, result.BookingID)
	if err != nil {
		t.Fatalf("GetBookingByID: %v", err)
	}
	if booking.Status != models.StatusDraft || booking.GuestID != "guest-1" {
		t.Errorf("persisted booking = %+v", booking)
	}
	if booking.PaymentRef != result.PaymentRef {
		t.Errorf("PaymentRef not stored: %q", booking.PaymentRef)
	}
	items, err := env.ledger.GetItemsByBookingID(ctx, result.BookingID)
	if err != nil {
		t.Fatalf("GetItemsByBookingID: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("persisted items = %d, want 2", len(items))
	}
}

func TestCreateBookingAllOrNothing(t *testing.T) {
	env, orchestrator, _ := newOrchestratorEnv(t)
	env.seedRiad(t)
	env.seedTrek(t, 0) // the trek is already sold out
	ctx := context.Background()

	_, err := orchestrator.CreateBooking(ctx, "guest-1", multiItemRequest())
	var availErr *AvailabilityError
	if !errors.As(err, &availErr) {
		t.Fatalf("got %T (%v), want AvailabilityError", err, err)
	}
	if availErr.UnitID != "dep-march" {
		t.Errorf("UnitID = %q, want dep-march", availErr.UnitID)
	}

	// The lodging item must not survive the trek's failure.
	bookings, err := env.ledger.ListByGuestID(ctx, "guest-1")
	if err != nil {
		t.Fatalf("ListByGuestID: %v", err)
	}
	if len(bookings) != 0 {
		t.Errorf("found %d bookings after a failed checkout, want 0", len(bookings))
	}
	reserved, err := env.ledger.ReservedRoomQuantity(ctx, "room-double", mustRange(t, "2026-02-15", "2026-02-17"))
	if err != nil {
		t.Fatalf("ReservedRoomQuantity: %v", err)
	}
	if reserved != 0 {
		t.Errorf("reserved = %d, want 0 after rollback", reserved)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	env, orchestrator, _ := newOrchestratorEnv(t)
	env.seedRiad(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		guestID string
		mutate  func(*models.CreateBookingRequest)
	}{
		{"missing guest", "", func(r *models.CreateBookingRequest) {}},
		{"no items", "guest-1", func(r *models.CreateBookingRequest) { r.Items = nil }},
		{"unknown origin", "guest-1", func(r *models.CreateBookingRequest) { r.Origin = "robot" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.CreateBookingRequest{
				Items: []models.BookingItemRequest{{
					OfferingID: "riad-1",
					CheckIn:    "2026-02-15",
					CheckOut:   "2026-02-17",
					Party:      models.PartyComposition{Adults: 2},
					Selection: models.InventorySelection{
						Rooms: []models.RoomSelection{{UnitID: "room-double", Quantity: 1}},
					},
				}},
			}
			tt.mutate(&req)
			_, err := orchestrator.CreateBooking(ctx, tt.guestID, req)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("got %T (%v), want ValidationError", err, err)
			}
		})
	}
}

func TestCreateBookingRequiredCodeFails(t *testing.T) {
	env, orchestrator, _ := newOrchestratorEnv(t)
	env.seedRiad(t)
	ctx := context.Background()

	req := models.CreateBookingRequest{
		PromotionCode:    "NOPE123",
		RequirePromotion: true,
		Items: []models.BookingItemRequest{{
			OfferingID: "riad-1",
			CheckIn:    "2026-02-15",
			CheckOut:   "2026-02-17",
			Party:      models.PartyComposition{Adults: 2},
			Selection: models.InventorySelection{
				Rooms: []models.RoomSelection{{UnitID: "room-double", Quantity: 1}},
			},
		}},
	}
	_, err := orchestrator.CreateBooking(ctx, "guest-1", req)
	var promoErr *PromotionError
	if !errors.As(err, &promoErr) {
		t.Fatalf("got %T (%v), want PromotionError", err, err)
	}

	// Nothing was held.
	bookings, err := env.ledger.ListByGuestID(ctx, "guest-1")
	if err != nil {
		t.Fatalf("ListByGuestID: %v", err)
	}
	if len(bookings) != 0 {
		t.Errorf("found %d bookings after a rejected checkout, want 0", len(bookings))
	}
}

func TestCreateBookingAgentOrigin(t *testing.T) {
	env, orchestrator, _ := newOrchestratorEnv(t)
	env.seedRiad(t)
	ctx := context.Background()

	req := models.CreateBookingRequest{
		Origin: models.OriginAgent,
		Items: []models.BookingItemRequest{{
			OfferingID: "riad-1",
			CheckIn:    "2026-02-15",
			CheckOut:   "2026-02-17",
			Party:      models.PartyComposition{Adults: 2},
			Selection: models.InventorySelection{
				Rooms: []models.RoomSelection{{UnitID: "room-double", Quantity: 1}},
			},
		}},
	}
	result, err := orchestrator.CreateBooking(ctx, "guest-1", req)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	booking, err := env.ledger.GetBookingByID(ctx, result.BookingID)
	if err != nil {
		t.Fatalf("GetBookingByID: %v", err)
	}
	if booking.Origin != models.OriginAgent {
		t.Errorf("Origin = %s, want automated_agent", booking.Origin)
	}
}

func TestConcurrentCheckoutsNeverOversellRooms(t *testing.T) {
	env, orchestrator, _ := newOrchestratorEnv(t)
	env.seedRiad(t) // room-double has 2 rooms
	ctx := context.Background()

	const attempts = 6
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orchestrator.CreateBooking(ctx, "guest-1", models.CreateBookingRequest{
				Items: []models.BookingItemRequest{{
					OfferingID: "riad-1",
					CheckIn:    "2026-02-15",
					CheckOut:   "2026-02-17",
					Party:      models.PartyComposition{Adults: 2},
					Selection: models.InventorySelection{
						Rooms: []models.RoomSelection{{UnitID: "room-double", Quantity: 1}},
					},
				}},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var availErr *AvailabilityError
		if !errors.As(err, &availErr) {
			t.Errorf("unexpected failure kind: %T (%v)", err, err)
		}
	}
	if succeeded != 2 {
		t.Errorf("%d checkouts succeeded for 2 rooms, want exactly 2", succeeded)
	}

	reserved, err := env.ledger.ReservedRoomQuantity(ctx, "room-double", mustRange(t, "2026-02-15", "2026-02-17"))
	if err != nil {
		t.Fatalf("ReservedRoomQuantity: %v", err)
	}
	if reserved != 2 {
		t.Errorf("reserved = %d, want 2", reserved)
	}
}

func TestConcurrentCheckoutsNeverOversellSeats(t *testing.T) {
	env, orchestrator, _ := newOrchestratorEnv(t)
	env.seedTrek(t, 3)
	ctx := context.Background()

	const attempts = 6
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orchestrator.CreateBooking(ctx, "guest-1", models.CreateBookingRequest{
				Items: []models.BookingItemRequest{{
					OfferingID: "trek-1",
					Party:      models.PartyComposition{Adults: 1},
					Selection:  models.InventorySelection{EventUnitID: "dep-march"},
				}},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 3 {
		t.Errorf("%d checkouts succeeded for 3 seats, want exactly 3", succeeded)
	}

	unit, err := env.inventory.GetByID(ctx, "dep-march")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if unit.CapacityAvailable != 0 {
		t.Errorf("CapacityAvailable = %d, want 0", unit.CapacityAvailable)
	}
}
