package promotionRepo

import (
	"context"
	"errors"

	"voyago/models"
)

// ErrNotFound is returned when no promotion matches the given id.
var ErrNotFound = errors.New("promotion not found")

// PromotionRepository exposes the promotion catalog. The booking engine
// treats it as read-only; Create is the administrative write-side.
type PromotionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Promotion, error)
	ListActive(ctx context.Context) ([]models.Promotion, error)
	Create(ctx context.Context, promotion *models.Promotion) error
}
