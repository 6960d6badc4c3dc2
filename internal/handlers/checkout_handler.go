package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	invoice "github.com/xendit/xendit-go/v6/invoice"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/helpers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/inventory"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/middleware"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

type CheckoutItem struct {
	TicketTierID uuid.UUID `json:"ticket_tier_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	EventID       uuid.UUID      `json:"event_id" binding:"required"`
	CustomerEmail string         `json:"customer_email" binding:"required,email"`
	CustomerName  string         `json:"customer_name" binding:"required"`
	CustomerPhone string         `json:"customer_phone"`
	DateOfBirth   *time.Time     `json:"date_of_birth"`
	Gender        string         `json:"gender"`
	ReferralCode  *string        `json:"referral_code"`
	Items         []CheckoutItem `json:"items" binding:"required,min=1,dive"`
}

// Checkout reserves the requested tickets and creates the order. Capacity is
// claimed inside the same transaction that creates the order rows, so two
// racing checkouts cannot both take the last ticket. Paid orders stay
// pending until the gateway webhook confirms funds; free orders complete
// immediately.
func Checkout(c *gin.Context) {
	var req CheckoutRequest
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

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ?", req.EventID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		return
	}
	if event.IsArchived || event.HasPassed(time.Now()) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Event is no longer on sale.")
		return
	}

	referralCode := req.ReferralCode
	if referralCode != nil {
		var affiliate models.Affiliate
		if err := gormDB.Where("code = ? AND is_active = true", *referralCode).First(&affiliate).Error; err != nil {
			zap.L().Warn("dropping unknown referral code", zap.String("code", *referralCode))
			referralCode = nil
		}
	}

	order := models.Order{
		ID:            uuid.New(),
		EventID:       event.ID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		DateOfBirth:   req.DateOfBirth,
		Gender:        req.Gender,
		Status:        models.OrderStatusPending,
		Currency:      cfg.Order.Currency,
		ReferralCode:  referralCode,
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		total := 0
		for _, item := range req.Items {
			var tier models.TicketTier
			if err := tx.Where("id = ?", item.TicketTierID).First(&tier).Error; err != nil {
				return inventory.ErrTierNotFound
			}
			if tier.EventID != event.ID {
				return inventory.ErrTierNotFound
			}
			if err := inventory.Reserve(tx, tier.ID, item.Quantity); err != nil {
				return err
			}
			order.Tickets = append(order.Tickets, models.OrderTicket{
				TicketTierID: tier.ID,
				Quantity:     item.Quantity,
				UnitPrice:    tier.Price,
				TotalPrice:   tier.Price * item.Quantity,
			})
			total += tier.Price * item.Quantity
		}
		order.TotalAmount = total
		return tx.Create(&order).Error
	})
	if err != nil {
		switch err {
		case inventory.ErrTierNotFound:
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket tier not found for this event.")
		case inventory.ErrTierInactive:
			helpers.RespondWithError(c, http.StatusConflict, "Ticket tier is no longer on sale.")
		case inventory.ErrSoldOut:
			helpers.RespondWithError(c, http.StatusConflict, "Not enough tickets remaining.")
		default:
			zap.L().Error("checkout transaction failed", zap.Error(err))
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create order.")
		}
		return
	}

	if order.TotalAmount == 0 {
		if err := completeOrder(gormDB, c, order.ID); err != nil {
			zap.L().Error("failed to complete free order", zap.Error(err), zap.String("order_id", order.ID.String()))
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to complete order.")
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":  "Order completed.",
			"order_id": order.ID,
			"status":   models.OrderStatusCompleted,
		})
		return
	}

	client := middleware.GetXenditClient(c)
	if client == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment gateway not configured.")
		return
	}

	invoiceReq := *invoice.NewCreateInvoiceRequest(order.ID.String(), float64(order.TotalAmount)/100)
	invoiceReq.SetPayerEmail(order.CustomerEmail)
	invoiceReq.SetCurrency(order.Currency)
	invoiceReq.SetDescription(fmt.Sprintf("%s - %d ticket(s)", event.Title, len(order.Tickets)))

	inv, _, xerr := client.InvoiceApi.CreateInvoice(c.Request.Context()).
		CreateInvoiceRequest(invoiceReq).
		Execute()
	if xerr != nil {
		zap.L().Error("failed to create payment invoice",
			zap.String("order_id", order.ID.String()),
			zap.String("gateway_error", xerr.Error()),
		)
		failOrder(gormDB, order.ID, models.OrderStatusFailed)
		helpers.RespondWithError(c, http.StatusBadGateway, "Failed to create payment link.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":    order.ID,
		"status":      order.Status,
		"payment_url": inv.GetInvoiceUrl(),
	})
}

// completeOrder flips the order to completed and fires the confirmation
// email. The transition is guarded on the pending status, so replayed
// webhooks hit RowsAffected zero and send nothing.
func completeOrder(gormDB *gorm.DB, c *gin.Context, orderID uuid.UUID) error {
	res := gormDB.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("status", models.OrderStatusCompleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := gormDB.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	var order models.Order
	if err := gormDB.Preload("Tickets.TicketTier").Preload("Event").Where("id = ?", orderID).First(&order).Error; err != nil {
		return err
	}

	if n := middleware.GetNotifier(c); n != nil {
		event := order.Event
		go func() {
			if err := n.SendOrderConfirmation(&order, &event); err != nil {
				zap.L().Error("failed to send order confirmation",
					zap.Error(err),
					zap.String("order_id", order.ID.String()),
				)
			}
		}()
	}
	return nil
}

// failOrder marks the order and hands its reservations back.
func failOrder(gormDB *gorm.DB, orderID uuid.UUID, status string) {
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Tickets").Where("id = ?", orderID).First(&order).Error; err != nil {
			return err
		}
		if order.Status != models.OrderStatusPending {
			return nil
		}
		for _, item := range order.Tickets {
			if err := inventory.Release(tx, item.TicketTierID, item.Quantity); err != nil {
				return err
			}
		}
		return tx.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error
	})
	if err != nil {
		zap.L().Error("failed to mark order as failed", zap.Error(err), zap.String("order_id", orderID.String()))
	}
}
