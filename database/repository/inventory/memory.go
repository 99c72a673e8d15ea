package inventoryRepo

import (
	"context"
	"sync"

	"voyago/models"

	"github.com/google/uuid"
)

// MemoryInventoryRepo is an in-memory InventoryRepository for tests and
// local development.
type MemoryInventoryRepo struct {
	mu    sync.RWMutex
	units map[string]models.InventoryUnit
}

func NewMemoryInventoryRepo() *MemoryInventoryRepo {
	return &MemoryInventoryRepo{units: make(map[string]models.InventoryUnit)}
}

func (r *MemoryInventoryRepo) GetByID(_ context.Context, id string) (*models.InventoryUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	unit, ok := r.units[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &unit, nil
}

func (r *MemoryInventoryRepo) GetByOfferingID(_ context.Context, offeringID string) ([]models.InventoryUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var units []models.InventoryUnit
	for _, unit := range r.units {
		if unit.OfferingID == offeringID {
			units = append(units, unit)
		}
	}
	return units, nil
}

func (r *MemoryInventoryRepo) Create(_ context.Context, unit *models.InventoryUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if unit.ID == "" {
		unit.ID = uuid.New().String()
	}
	if unit.EventBased() {
		unit.CapacityAvailable = unit.TotalCapacity
	}
	r.units[unit.ID] = *unit
	return nil
}

func (r *MemoryInventoryRepo) AdjustEventCapacity(_ context.Context, unitID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	unit, ok := r.units[unitID]
	if !ok {
		return ErrNotFound
	}
	if delta < 0 && unit.CapacityAvailable < -delta {
		return ErrInsufficientCapacity
	}
	unit.CapacityAvailable += delta
	r.units[unitID] = unit
	return nil
}

func (r *MemoryInventoryRepo) TouchUnit(_ context.Context, unitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.units[unitID]; !ok {
		return ErrNotFound
	}
	return nil
}

// Snapshot and Restore let the repo join the memory ledger's unit of work,
// so aborted commits also roll back event-capacity decrements.
func (r *MemoryInventoryRepo) Snapshot() interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	units := make(map[string]models.InventoryUnit, len(r.units))
	for id, unit := range r.units {
		units[id] = unit
	}
	return units
}

func (r *MemoryInventoryRepo) Restore(snapshot interface{}) {
	units, ok := snapshot.(map[string]models.InventoryUnit)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = units
}
