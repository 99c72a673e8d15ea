package handlers

import (
	"net/http"

	inventoryRepo "voyago/database/repository/inventory"
	offeringRepo "voyago/database/repository/offering"
	promotionRepo "voyago/database/repository/promotion"
	"voyago/models"
	"voyago/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler is the administrative write-side: hosts create offerings,
// inventory units and promotions here. Inventory totals only ever change
// through these endpoints, never through the booking flow.
type CatalogHandler struct {
	Offerings  offeringRepo.OfferingRepository
	Inventory  inventoryRepo.InventoryRepository
	Promotions promotionRepo.PromotionRepository
	Logger     *zap.Logger
}

func NewCatalogHandler(
	offerings offeringRepo.OfferingRepository,
	inventory inventoryRepo.InventoryRepository,
	promotions promotionRepo.PromotionRepository,
	logger *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{Offerings: offerings, Inventory: inventory, Promotions: promotions, Logger: logger}
}

func (h *CatalogHandler) CreateOffering(c *gin.Context) {
	var offering models.Offering
	if err := c.ShouldBindJSON(&offering); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if !offering.Kind.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "invalid offering kind", string(offering.Kind))
		return
	}
	if len(offering.Currency) != 3 {
		utils.JSONError(c, http.StatusBadRequest, "currency must be a 3-letter code", offering.Currency)
		return
	}

	if err := h.Offerings.Create(c.Request.Context(), &offering); err != nil {
		h.Logger.Error("create offering failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create offering", "")
		return
	}
	c.JSON(http.StatusCreated, offering)
}

func (h *CatalogHandler) PublishOffering(c *gin.Context) {
	if err := h.Offerings.SetPublished(c.Request.Context(), c.Param("id"), true); err != nil {
		utils.JSONError(c, http.StatusNotFound, "offering not found", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": true})
}

func (h *CatalogHandler) CreateInventoryUnit(c *gin.Context) {
	var unit models.InventoryUnit
	if err := c.ShouldBindJSON(&unit); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	offering, err := h.Offerings.GetByID(c.Request.Context(), unit.OfferingID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "offering not found", unit.OfferingID)
		return
	}
	switch unit.Kind {
	case models.UnitRoomType:
		if offering.Kind != models.KindLodging || unit.TotalRooms < 1 || unit.MaxOccupancy < 1 {
			utils.JSONError(c, http.StatusBadRequest, "invalid room type unit", "")
			return
		}
	case models.UnitDeparture, models.UnitSession:
		if !offering.Kind.EventBased() || unit.TotalCapacity < 1 {
			utils.JSONError(c, http.StatusBadRequest, "invalid event unit", "")
			return
		}
	default:
		utils.JSONError(c, http.StatusBadRequest, "invalid unit kind", string(unit.Kind))
		return
	}
	if unit.Currency == "" {
		unit.Currency = offering.Currency
	}

	if err := h.Inventory.Create(c.Request.Context(), &unit); err != nil {
		h.Logger.Error("create inventory unit failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create inventory unit", "")
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (h *CatalogHandler) ListInventory(c *gin.Context) {
	units, err := h.Inventory.GetByOfferingID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.Error("list inventory failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list inventory", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"offeringId": c.Param("id"), "units": units})
}

func (h *CatalogHandler) CreatePromotion(c *gin.Context) {
	var promotion models.Promotion
	if err := c.ShouldBindJSON(&promotion); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if promotion.Shape != models.DiscountPercentage && promotion.Shape != models.DiscountFixed {
		utils.JSONError(c, http.StatusBadRequest, "invalid discount shape", string(promotion.Shape))
		return
	}
	if promotion.Shape == models.DiscountPercentage && (promotion.Percentage < 1 || promotion.Percentage > 100) {
		utils.JSONError(c, http.StatusBadRequest, "percentage must be between 1 and 100", "")
		return
	}
	if promotion.Type == models.PromoCode && promotion.Code == "" {
		utils.JSONError(c, http.StatusBadRequest, "promo_code promotions need a code", "")
		return
	}

	if err := h.Promotions.Create(c.Request.Context(), &promotion); err != nil {
		h.Logger.Error("create promotion failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create promotion", "")
		return
	}
	c.JSON(http.StatusCreated, promotion)
}
