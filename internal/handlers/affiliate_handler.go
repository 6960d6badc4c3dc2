package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/helpers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

type AffiliateRequest struct {
	Code  string `json:"code" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

func CreateAffiliate(c *gin.Context) {
	var req AffiliateRequest
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

	var existing models.Affiliate
	if result := gormDB.Where("code = ?", req.Code).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "Affiliate code already exists.")
		return
	}

	affiliate := models.Affiliate{
		ID:       uuid.New(),
		Code:     req.Code,
		Name:     req.Name,
		Email:    req.Email,
		IsActive: true,
	}

	if err := gormDB.Create(&affiliate).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create affiliate.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Affiliate created successfully.",
		"affiliate_id": affiliate.ID,
	})
}

type UpdateAffiliateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive *bool  `json:"is_active"`
}

func UpdateAffiliate(c *gin.Context) {
	affiliateID := c.Param("id")

	var req UpdateAffiliateRequest
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

	var affiliate models.Affiliate
	if err := gormDB.Where("id = ?", affiliateID).First(&affiliate).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Affiliate not found.")
		return
	}

	if req.Name != "" {
		affiliate.Name = req.Name
	}
	if req.Email != "" {
		affiliate.Email = req.Email
	}
	if req.IsActive != nil {
		affiliate.IsActive = *req.IsActive
	}

	if err := gormDB.Save(&affiliate).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update affiliate.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Affiliate updated successfully.",
		"affiliate": affiliate,
	})
}

func ListAffiliates(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var affiliates []models.Affiliate
	if err := gormDB.Order("created_at ASC").Find(&affiliates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving affiliates.")
		return
	}

	c.JSON(http.StatusOK, affiliates)
}

type affiliateStats struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	OrderCount int64  `json:"order_count"`
	Revenue    int64  `json:"revenue"`
}

// AffiliateStats reports completed-order counts and revenue per referral
// code, for the back-office dashboard.
func AffiliateStats(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var affiliates []models.Affiliate
	if err := gormDB.Find(&affiliates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving affiliates.")
		return
	}

	stats := make([]affiliateStats, 0, len(affiliates))
	for _, affiliate := range affiliates {
		var row struct {
			OrderCount int64
			Revenue    int64
		}
		err := gormDB.Model(&models.Order{}).
			Select("COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS revenue").
			Where("referral_code = ? AND status = ?", affiliate.Code, models.OrderStatusCompleted).
			Scan(&row).Error
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing affiliate stats.")
			return
		}
		stats = append(stats, affiliateStats{
			Code:       affiliate.Code,
			Name:       affiliate.Name,
			OrderCount: row.OrderCount,
			Revenue:    row.Revenue,
		})
	}

	c.JSON(http.StatusOK, stats)
}
