package offeringRepo

import (
	"context"
	"sync"
	"time"

	"voyago/models"

	"github.com/google/uuid"
)

// MemoryOfferingRepo is an in-memory OfferingRepository for tests and local
// development.
type MemoryOfferingRepo struct {
	mu        sync.RWMutex
	offerings map[string]models.Offering
}

func NewMemoryOfferingRepo() *MemoryOfferingRepo {
	return &MemoryOfferingRepo{offerings: make(map[string]models.Offering)}
}

func (r *MemoryOfferingRepo) GetByID(_ context.Context, id string) (*models.Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	offering, ok := r.offerings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &offering, nil
}

func (r *MemoryOfferingRepo) Create(_ context.Context, offering *models.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offering.ID == "" {
		offering.ID = uuid.New().String()
	}
	offering.CreatedAt = time.Now().UTC()
	r.offerings[offering.ID] = *offering
	return nil
}

func (r *MemoryOfferingRepo) SetPublished(_ context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	offering, ok := r.offerings[id]
	if !ok {
		return ErrNotFound
	}
	offering.Published = published
	r.offerings[id] = offering
	return nil
}
