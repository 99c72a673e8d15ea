package inventoryRepo

import (
	"context"
	"errors"

	"voyago/models"
)

var (
	// ErrNotFound is returned when no inventory unit matches the given id.
	ErrNotFound = errors.New("inventory unit not found")
	// ErrInsufficientCapacity is returned when a guarded capacity decrement
	// finds fewer free units than requested.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
)

// InventoryRepository holds the three inventory kinds and their capacity
// counters. Event counters (departures/sessions) move only through
// AdjustEventCapacity; room-type totals never change through booking flow.
type InventoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.InventoryUnit, error)
	GetByOfferingID(ctx context.Context, offeringID string) ([]models.InventoryUnit, error)
	Create(ctx context.Context, unit *models.InventoryUnit) error

	// AdjustEventCapacity changes capacity_available by delta. Decrements
	// are guarded: the write only matches while enough capacity remains,
	// and ErrInsufficientCapacity is returned otherwise.
	AdjustEventCapacity(ctx context.Context, unitID string, delta int) error

	// TouchUnit bumps the unit's version inside the caller's transaction,
	// so two commits racing on the same unit conflict instead of both
	// reading stale availability.
	TouchUnit(ctx context.Context, unitID string) error
}
