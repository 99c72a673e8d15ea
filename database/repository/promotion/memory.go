package promotionRepo

import (
	"context"
	"sync"

	"voyago/models"

	"github.com/google/uuid"
)

// MemoryPromotionRepo is an in-memory PromotionRepository for tests and
// local development.
type MemoryPromotionRepo struct {
	mu         sync.RWMutex
	promotions map[string]models.Promotion
}

func NewMemoryPromotionRepo() *MemoryPromotionRepo {
	return &MemoryPromotionRepo{promotions: make(map[string]models.Promotion)}
}

func (r *MemoryPromotionRepo) GetByID(_ context.Context, id string) (*models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	promotion, ok := r.promotions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &promotion, nil
}

func (r *MemoryPromotionRepo) ListActive(_ context.Context) ([]models.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var promotions []models.Promotion
	for _, p := range r.promotions {
		if p.Active {
			promotions = append(promotions, p)
		}
	}
	return promotions, nil
}

func (r *MemoryPromotionRepo) Create(_ context.Context, promotion *models.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if promotion.ID == "" {
		promotion.ID = uuid.New().String()
	}
	r.promotions[promotion.ID] = *promotion
	return nil
}
