package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/helpers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/middleware"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/scanning"
)

type TicketScanRequest struct {
	QRData        string    `json:"qr_data"`
	OrderID       uuid.UUID `json:"order_id"`
	TicketTierID  uuid.UUID `json:"ticket_tier_id"`
	CustomerEmail string    `json:"customer_email"`
	ScanType      string    `json:"scan_type"`
	Location      string    `json:"location"`
	Notes         string    `json:"notes"`
}

// resolve fills the explicit ids from the QR payload when one was scanned.
func (req *TicketScanRequest) resolve(secret string) error {
	if req.QRData == "" {
		if req.OrderID == uuid.Nil || req.TicketTierID == uuid.Nil {
			return errors.New("either qr_data or order_id and ticket_tier_id are required")
		}
		return nil
	}
	orderID, tierID, email, err := helpers.DecodeTicketQR(req.QRData, secret)
	if err != nil {
		return err
	}
	req.OrderID = orderID
	req.TicketTierID = tierID
	req.CustomerEmail = email
	return nil
}

// ValidateTicketScan is the read-only door check. The outcome, admit or
// deny, always comes back as 200 with a structured result; the operator UI
// shows the message verbatim.
func ValidateTicketScan(c *gin.Context) {
	var req TicketScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
		return
	}
	if err := req.resolve(cfg.JWT.Secret); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	validator := scanning.NewValidator(scanning.NewStore(gormDB))
	result := validator.ValidateTicket(req.OrderID, req.TicketTierID, req.CustomerEmail, req.ScanType)

	c.JSON(http.StatusOK, result)
}

// RecordTicketScan appends the scan after the operator confirmed admission.
// The append re-applies the quantity guard atomically, so a scan that lost a
// race since validation is refused here instead of over-admitting.
func RecordTicketScan(c *gin.Context) {
	var req TicketScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
		return
	}
	if err := req.resolve(cfg.JWT.Secret); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Where("id = ?", req.OrderID).First(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
		return
	}

	recorder := scanning.NewRecorder(scanning.NewStore(gormDB))
	scan, err := recorder.RecordTicketScan(scanning.TicketScanInput{
		OrderID:       req.OrderID,
		TicketTierID:  req.TicketTierID,
		EventID:       order.EventID,
		CustomerEmail: order.CustomerEmail,
		ScanType:      req.ScanType,
		ScannedBy:     scannedBy(c),
		Location:      req.Location,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, scanning.ErrScanLimitReached):
			helpers.RespondWithError(c, http.StatusConflict, "Ticket already scanned the maximum number of times.")
		case errors.Is(err, scanning.ErrNoEntryScan):
			helpers.RespondWithError(c, http.StatusConflict, "Cannot record an exit without an entry scan.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record scan.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Scan recorded.",
		"scan":    scan,
	})
}

type GuestlistScanRequest struct {
	QRData      string    `json:"qr_data"`
	GuestlistID uuid.UUID `json:"guestlist_id"`
	ScanType    string    `json:"scan_type"`
	Location    string    `json:"location"`
	Notes       string    `json:"notes"`
}

func (req *GuestlistScanRequest) resolve(secret string) error {
	if req.QRData == "" {
		if req.GuestlistID == uuid.Nil {
			return errors.New("either qr_data or guestlist_id is required")
		}
		return nil
	}
	passID, err := helpers.DecodeGuestlistQR(req.QRData, secret)
	if err != nil {
		return err
	}
	req.GuestlistID = passID
	return nil
}

func ValidateGuestlistScan(c *gin.Context) {
	var req GuestlistScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
		return
	}
	if err := req.resolve(cfg.JWT.Secret); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	validator := scanning.NewValidator(scanning.NewStore(gormDB))
	result := validator.ValidateGuestlist(req.GuestlistID, req.ScanType)

	c.JSON(http.StatusOK, result)
}

// RecordGuestlistScan consumes one admission from the pass. The decrement is
// guarded at the data layer; losing the race to the last admission fails the
// whole call and writes nothing.
func RecordGuestlistScan(c *gin.Context) {
	var req GuestlistScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Server configuration not found.")
		return
	}
	if err := req.resolve(cfg.JWT.Secret); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var pass models.GuestlistPass
	if err := gormDB.Where("id = ?", req.GuestlistID).First(&pass).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Guestlist pass not found.")
		return
	}

	recorder := scanning.NewRecorder(scanning.NewStore(gormDB))
	scan, err := recorder.RecordGuestlistScan(scanning.GuestlistScanInput{
		GuestlistPassID: pass.ID,
		EventID:         pass.EventID,
		ScanType:        req.ScanType,
		ScannedBy:       scannedBy(c),
		Location:        req.Location,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, scanning.ErrPassExhausted):
			helpers.RespondWithError(c, http.StatusConflict, "All tickets on this pass have been used.")
		case errors.Is(err, scanning.ErrNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Guestlist pass not found.")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record scan.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Scan recorded.",
		"scan":            scan,
		"remaining_scans": pass.RemainingScans - 1,
	})
}

// TicketQR renders the signed admission QR for one line item of an order.
func TicketQR(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid order ID.")
		return
	}
	tierID, err := uuid.Parse(c.Param("tierId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket tier ID.")
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

	var order models.Order
	if err := gormDB.Where("id = ?", orderID).First(&order).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
		return
	}

	var item models.OrderTicket
	if err := gormDB.Where("order_id = ? AND ticket_tier_id = ?", orderID, tierID).First(&item).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Order does not contain this ticket tier.")
		return
	}

	payload := helpers.EncodeTicketQR(order.ID, tierID, order.CustomerEmail, cfg.JWT.Secret)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func scannedBy(c *gin.Context) string {
	if name, exists := c.Get("user_name"); exists {
		if s, ok := name.(string); ok && s != "" {
			return s
		}
	}
	if id, exists := c.Get("user_id"); exists {
		if u, ok := id.(uuid.UUID); ok {
			return u.String()
		}
	}
	return "unknown"
}
