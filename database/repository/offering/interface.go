package offeringRepo

import (
	"context"
	"errors"

	"voyago/models"
)

// ErrNotFound is returned when no offering matches the given id.
var ErrNotFound = errors.New("offering not found")

// OfferingRepository exposes catalog reads plus the administrative
// write-side. The booking engine itself only ever reads.
type OfferingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Offering, error)
	Create(ctx context.Context, offering *models.Offering) error
	SetPublished(ctx context.Context, id string, published bool) error
}
