package notifier

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/krizhnx/CarnivalLDN-sub000/config"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
)

// Notifier delivers the ticket confirmation after an order completes. The
// channel is fire-and-forget: a delivery failure never fails the order.
type Notifier interface {
	SendOrderConfirmation(order *models.Order, event *models.Event) error
}

// New returns the SMTP notifier when SMTP is configured, otherwise a no-op.
func New(cfg config.SMTPConfig) Notifier {
	if cfg.Host == "" || cfg.From == "" {
		return &noopNotifier{}
	}
	return &smtpNotifier{cfg: cfg}
}

type smtpNotifier struct {
	cfg config.SMTPConfig
}

func (n *smtpNotifier) SendOrderConfirmation(order *models.Order, event *models.Event) error {
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&body, "To: %s\r\n", order.CustomerEmail)
	fmt.Fprintf(&body, "Subject: Your tickets for %s\r\n\r\n", event.Title)
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", order.CustomerName)
	fmt.Fprintf(&body, "Your order %s for %s is confirmed.\r\n\r\n", order.ID, event.Title)
	for _, item := range order.Tickets {
		fmt.Fprintf(&body, "  %dx %s\r\n", item.Quantity, item.TicketTier.Name)
	}
	fmt.Fprintf(&body, "\r\nTotal: %s %.2f\r\n", order.Currency, float64(order.TotalAmount)/100)
	fmt.Fprintf(&body, "\r\nShow the QR code attached to your confirmation at the door.\r\n")

	addr := n.cfg.Host + ":" + n.cfg.Port
	auth := smtp.PlainAuth("", n.cfg.From, n.cfg.Password, n.cfg.Host)
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{order.CustomerEmail}, []byte(body.String())); err != nil {
		return fmt.Errorf("sending confirmation mail: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (n *noopNotifier) SendOrderConfirmation(order *models.Order, event *models.Event) error {
	zap.L().Info("smtp not configured, skipping order confirmation",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_email", order.CustomerEmail),
	)
	return nil
}
