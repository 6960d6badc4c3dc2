package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/testdb"
)

type recordingNotifier struct {
	sent chan uuid.UUID
}

func (n *recordingNotifier) SendOrderConfirmation(order *models.Order, event *models.Event) error {
	n.sent <- order.ID
	return nil
}

func notifierContext(n *recordingNotifier) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("notifier", n)
	return c
}

func seedPendingOrder(t *testing.T, db *gorm.DB) models.Order {
	t.Helper()

	event := models.Event{
		ID:          uuid.New(),
		Title:       "Carnival Closing Party",
		Description: "Season finale",
		Date:        time.Now().Add(7 * 24 * time.Hour),
		Venue:       "Electric Brixton",
		City:        "London",
	}
	require.NoError(t, db.Create(&event).Error)

	order := models.Order{
		ID:            uuid.New(),
		EventID:       event.ID,
		CustomerEmail: "jamie@example.com",
		CustomerName:  "Jamie",
		Status:        models.OrderStatusPending,
		TotalAmount:   3000,
		Currency:      "GBP",
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestCompleteOrder_ReplayedCallbackSendsOneEmail(t *testing.T) {
	db := testdb.Open(t)
	order := seedPendingOrder(t, db)

	n := &recordingNotifier{sent: make(chan uuid.UUID, 2)}
	c := notifierContext(n)

	require.NoError(t, completeOrder(db, c, order.ID))
	require.NoError(t, completeOrder(db, c, order.ID))

	var reloaded models.Order
	require.NoError(t, db.Where("id = ?", order.ID).First(&reloaded).Error)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.Status)

	select {
	case sentID := <-n.sent:
		assert.Equal(t, order.ID, sentID)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email never sent")
	}

	// The replay must not trigger a second delivery.
	select {
	case <-n.sent:
		t.Fatal("confirmation email sent twice")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCompleteOrder_UnknownOrder(t *testing.T) {
	db := testdb.Open(t)

	n := &recordingNotifier{sent: make(chan uuid.UUID, 1)}
	err := completeOrder(db, notifierContext(n), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
