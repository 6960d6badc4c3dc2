package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/helpers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/inventory"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

func CreateEvent(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	venue := c.PostForm("venue")
	city := c.PostForm("city")

	dateStr := c.PostForm("date")
	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid date format.")
		return
	}

	if title == "" || description == "" || venue == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event := models.Event{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Date:        date,
		Venue:       venue,
		City:        city,
		UserID:      userID.(uuid.UUID),
	}

	posterFile, err := c.FormFile("poster")
	if err == nil {
		posterPath, err := helpers.UploadFile(c, posterFile, "event_posters")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.PosterPath = posterPath
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

type UpdateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Venue       string    `json:"venue" binding:"required"`
	City        string    `json:"city"`
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var req UpdateEventRequest
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
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Date = req.Date
	event.Venue = req.Venue
	event.City = req.City

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

// ArchiveEvent retires an event. Ticket tiers only ever get deleted through
// this path; there is no hard event delete.
func ArchiveEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}

	event.IsArchived = true
	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to archive event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event archived successfully."})
}

type tierResponse struct {
	models.TicketTier
	Remaining int  `json:"remaining"`
	OnSale    bool `json:"on_sale"`
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Where("is_archived = false").Order("date ASC")
	if c.Query("include_past") != "true" {
		query = query.Where("date >= ?", time.Now())
	}

	var events []models.Event
	if err := query.Preload("TicketTiers").Find(&events).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("TicketTiers").Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	now := time.Now()
	tiers := make([]tierResponse, 0, len(event.TicketTiers))
	for _, tier := range event.TicketTiers {
		tiers = append(tiers, tierResponse{
			TicketTier: tier,
			Remaining:  inventory.Remaining(tier),
			OnSale:     inventory.IsOnSale(tier, now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"event": event,
		"tiers": tiers,
	})
}
