package booking

import (
	"context"
	"fmt"

	inventoryRepo "voyago/database/repository/inventory"
	ledgerRepo "voyago/database/repository/ledger"
	"voyago/models"
)

// AvailabilityResolver computes free capacity for an inventory unit. For
// room types it counts committed overlap in the ledger; for departures and
// sessions it reads the live capacity counter.
//
// A resolver call made outside the commit transaction is advisory only.
// The orchestrator re-executes it inside the same unit of work that writes
// the booking, which is what actually closes the check-then-write race.
type AvailabilityResolver struct {
	Inventory inventoryRepo.InventoryRepository
	Ledger    ledgerRepo.LedgerRepository
}

// ResolveResult answers "how much is left, and is it enough".
type ResolveResult struct {
	AvailableQuantity int
	IsSufficient      bool
	Reason            string
}

// Resolve computes availability for one unit. rng is required for room
// types and ignored for event units; partySize feeds the occupancy check.
func (r *AvailabilityResolver) Resolve(
	ctx context.Context,
	unit *models.InventoryUnit,
	rng *models.DateRange,
	requestedQuantity int,
	partySize int,
) (ResolveResult, error) {
	if requestedQuantity < 1 {
		return ResolveResult{}, NewValidationError("requested quantity must be at least 1")
	}

	if unit.EventBased() {
		available := unit.CapacityAvailable
		if available >= requestedQuantity {
			return ResolveResult{AvailableQuantity: available, IsSufficient: true}, nil
		}
		return ResolveResult{
			AvailableQuantity: available,
			IsSufficient:      false,
			Reason:            fmt.Sprintf("only %d of %d requested seats left", available, requestedQuantity),
		}, nil
	}

	if rng == nil {
		return ResolveResult{}, NewValidationError("a date range is required for room availability")
	}

	reserved, err := r.Ledger.ReservedRoomQuantity(ctx, unit.ID, *rng)
	if err != nil {
		return ResolveResult{}, fmt.Errorf("count reserved rooms for unit %s: %w", unit.ID, err)
	}

	available := unit.TotalRooms - reserved
	if available < 0 {
		available = 0
	}
	if available < requestedQuantity {
		return ResolveResult{
			AvailableQuantity: available,
			IsSufficient:      false,
			Reason:            fmt.Sprintf("only %d of %d requested rooms free for %s", available, requestedQuantity, rng),
		}, nil
	}
	if unit.MaxOccupancy > 0 && partySize > unit.MaxOccupancy*requestedQuantity {
		return ResolveResult{
			AvailableQuantity: available,
			IsSufficient:      false,
			Reason: fmt.Sprintf("%d guests exceed the occupancy of %d room(s) sleeping %d each",
				partySize, requestedQuantity, unit.MaxOccupancy),
		}, nil
	}
	return ResolveResult{AvailableQuantity: available, IsSufficient: true}, nil
}
