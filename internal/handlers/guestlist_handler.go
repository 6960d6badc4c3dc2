package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/helpers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/middleware"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

type GuestlistPassRequest struct {
	EventID      uuid.UUID `json:"event_id" binding:"required"`
	LeadName     string    `json:"lead_name" binding:"required"`
	LeadEmail    string    `json:"lead_email" binding:"required,email"`
	LeadPhone    string    `json:"lead_phone"`
	TotalTickets int       `json:"total_tickets" binding:"required,min=1"`
	Category     string    `json:"category"`
	Notes        string    `json:"notes"`
}

func CreateGuestlistPass(c *gin.Context) {
	var req GuestlistPassRequest
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

	category := req.Category
	if category == "" {
		category = models.GuestlistCategoryGL
	}

	pass := models.GuestlistPass{
		ID:             uuid.New(),
		EventID:        req.EventID,
		LeadName:       req.LeadName,
		LeadEmail:      req.LeadEmail,
		LeadPhone:      req.LeadPhone,
		TotalTickets:   req.TotalTickets,
		RemainingScans: req.TotalTickets,
		Category:       category,
		Notes:          req.Notes,
	}

	if err := gormDB.Create(&pass).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create guestlist pass.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Guestlist pass created successfully.",
		"pass_id": pass.ID,
	})
}

type UpdateGuestlistPassRequest struct {
	LeadName  string `json:"lead_name"`
	LeadEmail string `json:"lead_email"`
	LeadPhone string `json:"lead_phone"`
	Category  string `json:"category"`
	Notes     string `json:"notes"`
	// Extra admissions granted on the door; added to both counters so the
	// remaining/total invariant holds.
	AdditionalTickets int `json:"additional_tickets"`
}

func UpdateGuestlistPass(c *gin.Context) {
	passID := c.Param("id")

	var req UpdateGuestlistPassRequest
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

	var pass models.GuestlistPass
	if err := gormDB.Where("id = ?", passID).First(&pass).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Guestlist pass not found.")
		return
	}

	if req.LeadName != "" {
		pass.LeadName = req.LeadName
	}
	if req.LeadEmail != "" {
		pass.LeadEmail = req.LeadEmail
	}
	if req.LeadPhone != "" {
		pass.LeadPhone = req.LeadPhone
	}
	if req.Category != "" {
		pass.Category = req.Category
	}
	if req.Notes != "" {
		pass.Notes = req.Notes
	}
	if req.AdditionalTickets > 0 {
		pass.TotalTickets += req.AdditionalTickets
		pass.RemainingScans += req.AdditionalTickets
	}

	if err := gormDB.Save(&pass).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update guestlist pass.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Guestlist pass updated successfully.",
		"pass":    pass,
	})
}

func ListGuestlistPasses(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("Event").Order("created_at DESC")
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var passes []models.GuestlistPass
	if err := query.Find(&passes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving guestlist passes.")
		return
	}

	c.JSON(http.StatusOK, passes)
}

// GuestlistQR renders the signed QR the lead shares with their group.
func GuestlistQR(c *gin.Context) {
	passID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid guestlist pass ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
		return
	}

	var pass models.GuestlistPass
	if err := gormDB.Where("id = ?", passID).First(&pass).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Guestlist pass not found.")
		return
	}

	payload := helpers.EncodeGuestlistQR(pass.ID, cfg.JWT.Secret)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func ExportGuestlistCSV(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("Event").Order("created_at ASC")
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var passes []models.GuestlistPass
	if err := query.Find(&passes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving guestlist passes.")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=guestlist-%s.csv", time.Now().Format("2006-01-02")))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write([]string{
		"pass_id", "event", "lead_name", "lead_email", "lead_phone",
		"category", "total_tickets", "remaining_scans", "notes",
	})
	for _, pass := range passes {
		_ = w.Write([]string{
			pass.ID.String(),
			pass.Event.Title,
			pass.LeadName,
			pass.LeadEmail,
			pass.LeadPhone,
			pass.Category,
			strconv.Itoa(pass.TotalTickets),
			strconv.Itoa(pass.RemainingScans),
			pass.Notes,
		})
	}
}
