package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/helpers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

func ListOrders(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("Tickets.TicketTier").Preload("Event").Order("created_at DESC")
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if code := c.Query("referral_code"); code != "" {
		query = query.Where("referral_code = ?", code)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	err := gormDB.Preload("Tickets.TicketTier").Preload("Event").
		Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	c.JSON(http.StatusOK, order)
}

// ExportOrdersCSV streams the order book (one row per line item) for the
// back-office spreadsheet workflow.
func ExportOrdersCSV(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("Tickets.TicketTier").Preload("Event").Order("created_at ASC")
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving orders.")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders-%s.csv", time.Now().Format("2006-01-02")))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write([]string{
		"order_id", "event", "customer_name", "customer_email", "customer_phone",
		"status", "tier", "quantity", "unit_price", "total_price", "currency",
		"referral_code", "created_at",
	})
	for _, order := range orders {
		referral := ""
		if order.ReferralCode != nil {
			referral = *order.ReferralCode
		}
		for _, item := range order.Tickets {
			_ = w.Write([]string{
				order.ID.String(),
				order.Event.Title,
				order.CustomerName,
				order.CustomerEmail,
				order.CustomerPhone,
				order.Status,
				item.TicketTier.Name,
				strconv.Itoa(item.Quantity),
				strconv.Itoa(item.UnitPrice),
				strconv.Itoa(item.TotalPrice),
				order.Currency,
				referral,
				order.CreatedAt.Format(time.RFC3339),
			})
		}
	}
}
