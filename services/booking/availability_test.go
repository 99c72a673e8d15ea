package booking

import (
	"context"
	"testing"

	inventoryRepo "voyago/database/repository/inventory"
	ledgerRepo "voyago/database/repository/ledger"
	"voyago/models"
)

func mustRange(t *testing.T, in, out string) models.DateRange {
	t.Helper()
	rng, err := models.ParseDateRange(in, out)
	if err != nil {
		t.Fatalf("ParseDateRange(%q, %q): %v", in, out, err)
	}
	return rng
}

func seedHold(t *testing.T, ledger *ledgerRepo.MemoryLedgerRepo, unitID, checkIn, checkOut string, quantity int, status models.BookingStatus) {
	t.Helper()
	ctx := context.Background()
	booking := &models.Booking{ID: "hold-" + unitID + checkIn, GuestID: "other-guest", Status: status}
	if err := ledger.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	err := ledger.CreateItems(ctx, []models.BookingItem{{
		ID:        booking.ID + "-item",
		BookingID: booking.ID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Selection: models.InventorySelection{
			Rooms: []models.RoomSelection{{UnitID: unitID, Quantity: quantity}},
		},
		Status: status,
	}})
	if err != nil {
		t.Fatalf("CreateItems: %v", err)
	}
}

func TestResolveRoomAvailability(t *testing.T) {
	ctx := context.Background()
	inventory := inventoryRepo.NewMemoryInventoryRepo()
	ledger := ledgerRepo.NewMemoryLedgerRepo(inventory)
	resolver := &AvailabilityResolver{Inventory: inventory, Ledger: ledger}

	unit := &models.InventoryUnit{
		ID:           "room-double",
		OfferingID:   "riad-1",
		Kind:         models.UnitRoomType,
		Name:         "Double Room",
		MaxOccupancy: 2,
		TotalRooms:   2,
		NightlyPrice: 65000,
		Currency:     "MAD",
	}
	if err := inventory.Create(ctx, unit); err != nil {
		t.Fatalf("Create unit: %v", err)
	}

	rng := mustRange(t, "2026-02-15", "2026-02-17")

	// No holds yet: both rooms free.
	res, err := resolver.Resolve(ctx, unit, &rng, 1, 2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.IsSufficient || res.AvailableQuantity != 2 {
		t.Fatalf("empty ledger: got available=%d sufficient=%v, want 2/true", res.AvailableQuantity, res.IsSufficient)
	}

	// Two confirmed overlapping stays exhaust the unit.
	seedHold(t, ledger, unit.ID, "2026-02-14", "2026-02-16", 1, models.StatusConfirmed)
	seedHold(t, ledger, unit.ID, "2026-02-16", "2026-02-18", 1, models.StatusConfirmed)

	res, err = resolver.Resolve(ctx, unit, &rng, 1, 2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.IsSufficient || res.AvailableQuantity != 0 {
		t.Errorf("fully booked: got available=%d sufficient=%v, want 0/false", res.AvailableQuantity, res.IsSufficient)
	}
	if res.Reason == "" {
		t.Error("insufficient result should carry a reason")
	}
}

func TestResolveIgnoresNonHoldingAndDisjointStays(t *testing.T) {
	ctx := context.Background()
	inventory := inventoryRepo.NewMemoryInventoryRepo()
	ledger := ledgerRepo.NewMemoryLedgerRepo(inventory)
	resolver := &AvailabilityResolver{Inventory: inventory, Ledger: ledger}

	unit := &models.InventoryUnit{
		ID:         "room-suite",
		OfferingID: "riad-1",
		Kind:       models.UnitRoomType,
		Name:       "Suite",
		TotalRooms: 1,
		Currency:   "MAD",
	}
	if err := inventory.Create(ctx, unit); err != nil {
		t.Fatalf("Create unit: %v", err)
	}

	// A cancelled stay and a back-to-back stay ending on our check-in day
	// both leave the room free.
	seedHold(t, ledger, unit.ID, "2026-02-15", "2026-02-17", 1, models.StatusCancelled)
	seedHold(t, ledger, unit.ID, "2026-02-13", "2026-02-15", 1, models.StatusConfirmed)

	rng := mustRange(t, "2026-02-15", "2026-02-17")
	res, err := resolver.Resolve(ctx, unit, &rng, 1, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.IsSufficient || res.AvailableQuantity != 1 {
		t.Errorf("got available=%d sufficient=%v, want 1/true", res.AvailableQuantity, res.IsSufficient)
	}

	// A draft stay still holds the room.
	seedHold(t, ledger, unit.ID, "2026-02-16", "2026-02-18", 1, models.StatusDraft)
	res, err = resolver.Resolve(ctx, unit, &rng, 1, 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.IsSufficient {
		t.Error("draft stay should hold inventory")
	}
}

func TestResolveOccupancy(t *testing.T) {
	ctx := context.Background()
	inventory := inventoryRepo.NewMemoryInventoryRepo()
	ledger := ledgerRepo.NewMemoryLedgerRepo(inventory)
	resolver := &AvailabilityResolver{Inventory: inventory, Ledger: ledger}

	unit := &models.InventoryUnit{
		ID:           "room-twin",
		OfferingID:   "riad-1",
		Kind:         models.UnitRoomType,
		Name:         "Twin Room",
		MaxOccupancy: 2,
		TotalRooms:   5,
		Currency:     "MAD",
	}
	if err := inventory.Create(ctx, unit); err != nil {
		t.Fatalf("Create unit: %v", err)
	}
	rng := mustRange(t, "2026-02-15", "2026-02-17")

	// 5 guests do not fit 2 rooms sleeping 2 each.
	res, err := resolver.Resolve(ctx, unit, &rng, 2, 5)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.IsSufficient {
		t.Error("5 guests in 2 twin rooms should be insufficient")
	}

	// 3 rooms sleep 6, plenty for 5.
	res, err = resolver.Resolve(ctx, unit, &rng, 3, 5)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.IsSufficient {
		t.Errorf("5 guests in 3 twin rooms should fit: %s", res.Reason)
	}
}

func TestResolveEventCapacity(t *testing.T) {
	ctx := context.Background()
	inventory := inventoryRepo.NewMemoryInventoryRepo()
	ledger := ledgerRepo.NewMemoryLedgerRepo(inventory)
	resolver := &AvailabilityResolver{Inventory: inventory, Ledger: ledger}

	unit := &models.InventoryUnit{
		ID:            "dep-march",
		OfferingID:    "trek-1",
		Kind:          models.UnitDeparture,
		Name:          "March departure",
		StartsAt:      "2026-03-10T08:00:00Z",
		TotalCapacity: 3,
		Currency:      "MAD",
	}
	if err := inventory.Create(ctx, unit); err != nil {
		t.Fatalf("Create unit: %v", err)
	}
	unit, err := inventory.GetByID(ctx, unit.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if unit.CapacityAvailable != 3 {
		t.Fatalf("new departure should start at full capacity, got %d", unit.CapacityAvailable)
	}

	res, err := resolver.Resolve(ctx, unit, nil, 2, 2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.IsSufficient || res.AvailableQuantity != 3 {
		t.Errorf("got available=%d sufficient=%v, want 3/true", res.AvailableQuantity, res.IsSufficient)
	}

	if err := inventory.AdjustEventCapacity(ctx, unit.ID, -2); err != nil {
		t.Fatalf("AdjustEventCapacity: %v", err)
	}
	unit, _ = inventory.GetByID(ctx, unit.ID)
	res, err = resolver.Resolve(ctx, unit, nil, 2, 2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.IsSufficient || res.AvailableQuantity != 1 {
		t.Errorf("got available=%d sufficient=%v, want 1/false", res.AvailableQuantity, res.IsSufficient)
	}

	// The guarded decrement refuses to go below zero.
	if err := inventory.AdjustEventCapacity(ctx, unit.ID, -2); err != inventoryRepo.ErrInsufficientCapacity {
		t.Errorf("overdraw: got %v, want ErrInsufficientCapacity", err)
	}
}

func TestResolveValidation(t *testing.T) {
	ctx := context.Background()
	inventory := inventoryRepo.NewMemoryInventoryRepo()
	ledger := ledgerRepo.NewMemoryLedgerRepo(inventory)
	resolver := &AvailabilityResolver{Inventory: inventory, Ledger: ledger}

	unit := &models.InventoryUnit{ID: "r", Kind: models.UnitRoomType, TotalRooms: 1}

	if _, err := resolver.Resolve(ctx, unit, nil, 0, 1); err == nil {
		t.Error("zero quantity should be rejected")
	}
	if _, err := resolver.Resolve(ctx, unit, nil, 1, 1); err == nil {
		t.Error("room resolution without a date range should be rejected")
	}
}
