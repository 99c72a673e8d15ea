package booking

import (
	"context"

	inventoryRepo "voyago/database/repository/inventory"
	ledgerRepo "voyago/database/repository/ledger"
	offeringRepo "voyago/database/repository/offering"
	"voyago/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// BookingService is the engine's caller-facing surface: advisory
// availability, deterministic quotes, and the atomic checkout.
type BookingService interface {
	CheckAvailability(ctx context.Context, offeringID, checkIn, checkOut string, partySize int) ([]models.AvailabilitySummary, error)
	GetQuote(ctx context.Context, guestID string, req models.QuoteRequest) (*models.Quote, error)
	CreateBooking(ctx context.Context, guestID string, req models.CreateBookingRequest, idempotencyKey string) (*models.BookingResult, error)
	CancelBooking(ctx context.Context, guestID, bookingID string) error
	GetBooking(ctx context.Context, guestID, bookingID string) (*models.Booking, []models.BookingItem, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Offerings    offeringRepo.OfferingRepository
	Inventory    inventoryRepo.InventoryRepository
	Ledger       ledgerRepo.LedgerRepository
	Resolver     *AvailabilityResolver
	Calculator   *QuoteCalculator
	Orchestrator *BookingOrchestrator

	// Cache is optional; when set, advisory availability summaries and
	// idempotent checkout replays are served from it.
	Cache  *redis.Client
	Logger *zap.Logger
}
