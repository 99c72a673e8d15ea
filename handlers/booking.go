package handlers

import (
	"errors"
	"net/http"

	"voyago/models"
	"voyago/services/booking"
	"voyago/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the engine over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// respondError maps the engine's error taxonomy onto HTTP statuses. The
// persistence case stays opaque: the cause is logged, never surfaced.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var validationErr *booking.ValidationError
	var notFoundErr *booking.NotFoundError
	var availErr *booking.AvailabilityError
	var promoErr *booking.PromotionError
	var persistErr *booking.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse{Kind: booking.KindValidation, Message: validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, utils.ErrorResponse{Kind: booking.KindNotFound, Message: notFoundErr.Error()})
	case errors.As(err, &availErr):
		c.JSON(http.StatusConflict, gin.H{
			"kind":      booking.KindAvailability,
			"message":   availErr.Message,
			"unitId":    availErr.UnitID,
			"requested": availErr.Requested,
			"available": availErr.Available,
		})
	case errors.As(err, &promoErr):
		c.JSON(http.StatusUnprocessableEntity, utils.ErrorResponse{Kind: booking.KindPromotion, Message: promoErr.Message})
	case errors.As(err, &persistErr):
		h.Logger.Error("persistence failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Kind: booking.KindPersistence, Message: "booking could not be committed"})
	default:
		h.Logger.Error("unexpected failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Message: "internal server error"})
	}
}

// CheckAvailability returns advisory availability for an offering.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var input struct {
		OfferingID string `json:"offeringId" binding:"required"`
		CheckIn    string `json:"checkIn,omitempty"`
		CheckOut   string `json:"checkOut,omitempty"`
		PartySize  int    `json:"partySize" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	summaries, err := h.Service.CheckAvailability(c.Request.Context(), input.OfferingID, input.CheckIn, input.CheckOut, input.PartySize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offeringId": input.OfferingID, "units": summaries})
}

// GetQuote prices a request without holding anything.
func (h *BookingHandler) GetQuote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	quote, err := h.Service.GetQuote(c.Request.Context(), c.GetString("guestID"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// CreateBooking runs the atomic checkout and returns the draft summary.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.CreateBooking(c.Request.Context(), c.GetString("guestID"), req, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetBooking returns a booking with its items, guests see only their own.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingRecord, items, err := h.Service.GetBooking(c.Request.Context(), c.GetString("guestID"), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": bookingRecord, "items": items})
}

// CancelBooking releases the booking's inventory hold.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	if err := h.Service.CancelBooking(c.Request.Context(), c.GetString("guestID"), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(models.StatusCancelled)})
}
