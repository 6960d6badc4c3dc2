package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/helpers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/middleware"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

type xenditInvoiceCallback struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
	PaidAmount int    `json:"paid_amount"`
}

// XenditCallback handles invoice notifications from the payment gateway.
// The invoice external id is our order id. Idempotent: replayed PAID
// callbacks for a completed order are acknowledged without side effects.
func XenditCallback(c *gin.Context) {
	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
		return
	}

	if c.GetHeader("x-callback-token") != cfg.Xendit.CallbackToken {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid callback token.")
		return
	}

	var callback xenditInvoiceCallback
	if err := c.ShouldBindJSON(&callback); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid callback payload.")
		return
	}

	orderID, err := uuid.Parse(callback.ExternalID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid order reference in callback.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	switch callback.Status {
	case "PAID", "SETTLED":
		if err := completeOrder(gormDB, c, orderID); err != nil {
			zap.L().Error("failed to complete paid order",
				zap.Error(err),
				zap.String("order_id", orderID.String()),
				zap.String("invoice_id", callback.ID),
			)
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to complete order.")
			return
		}
	case "EXPIRED":
		failOrder(gormDB, orderID, models.OrderStatusExpired)
	default:
		zap.L().Info("ignoring invoice callback status",
			zap.String("status", callback.Status),
			zap.String("order_id", orderID.String()),
		)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Callback processed."})
}
