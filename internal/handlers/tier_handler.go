package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/helpers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

type TierRequest struct {
	Name           string     `json:"name" binding:"required"`
	Price          int        `json:"price" binding:"min=0"`
	OriginalPrice  *int       `json:"original_price"`
	Capacity       int        `json:"capacity" binding:"min=0"`
	EventID        uuid.UUID  `json:"event_id" binding:"required"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
}

func CreateTier(c *gin.Context) {
	var req TierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", req.EventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	tier := models.TicketTier{
		ID:             uuid.New(),
		EventID:        req.EventID,
		Name:           req.Name,
		Price:          req.Price,
		OriginalPrice:  req.OriginalPrice,
		Capacity:       req.Capacity,
		IsActive:       true,
		AvailableFrom:  req.AvailableFrom,
		AvailableUntil: req.AvailableUntil,
	}

	if err := gormDB.Create(&tier).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create ticket tier.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticket tier created successfully.",
		"tier_id": tier.ID,
	})
}

type UpdateTierRequest struct {
	Name           *string    `json:"name"`
	Price          *int       `json:"price"`
	OriginalPrice  *int       `json:"original_price"`
	Capacity       *int       `json:"capacity"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
}

// apply copies the provided fields onto the tier; omitted fields keep their
// stored values.
func (req UpdateTierRequest) apply(tier *models.TicketTier) {
	if req.Name != nil {
		tier.Name = *req.Name
	}
	if req.Price != nil {
		tier.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		tier.OriginalPrice = req.OriginalPrice
	}
	if req.Capacity != nil {
		tier.Capacity = *req.Capacity
	}
	if req.AvailableFrom != nil {
		tier.AvailableFrom = req.AvailableFrom
	}
	if req.AvailableUntil != nil {
		tier.AvailableUntil = req.AvailableUntil
	}
}

func UpdateTier(c *gin.Context) {
	tierID := c.Param("id")

	var req UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var tier models.TicketTier
	if err := gormDB.Where("id = ?", tierID).First(&tier).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket tier not found.")
		return
	}

	if req.Capacity != nil && *req.Capacity < tier.SoldCount {
		helpers.RespondWithError(c, http.StatusBadRequest, "Capacity cannot be lower than tickets already sold.")
		return
	}

	req.apply(&tier)

	if err := gormDB.Save(&tier).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update ticket tier.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket tier updated successfully.",
		"tier":    tier,
	})
}

type SetTierActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetTierActive force-closes (or reopens) a tier independent of capacity.
func SetTierActive(c *gin.Context) {
	tierID := c.Param("id")

	var req SetTierActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var tier models.TicketTier
	if err := gormDB.Where("id = ?", tierID).First(&tier).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket tier not found.")
		return
	}

	tier.IsActive = *req.IsActive
	if err := gormDB.Save(&tier).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update ticket tier.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket tier updated successfully.",
		"tier":    tier,
	})
}

// DeleteTier removes a tier; only allowed once its event is archived so a
// live event can never lose the tier rows its orders point at.
func DeleteTier(c *gin.Context) {
	tierID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var tier models.TicketTier
	if err := gormDB.Preload("Event").Where("id = ?", tierID).First(&tier).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket tier not found.")
		return
	}

	if !tier.Event.IsArchived {
		helpers.RespondWithError(c, http.StatusConflict, "Tiers can only be deleted after the event is archived.")
		return
	}

	if err := gormDB.Delete(&tier).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete ticket tier.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket tier deleted successfully."})
}
