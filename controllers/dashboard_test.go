package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainHash(s string) (string, error) { return s, nil }

func TestDashboardMonthlyRevenueIsBoundedToCurrentMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := storage.NewMemStorage()
	require.NoError(t, storage.Seed(ctx, store, plainHash))

	paid := func(date time.Time, amount float64) {
		require.NoError(t, store.CreateBooking(ctx, &models.Booking{
			UserID: 4, SalonID: 1, ServiceID: 1, Date: date, Time: "10:00",
			TotalPrice: amount, Status: models.BookingConfirmed, PaymentStatus: models.PaymentPaid,
		}))
	}
	paid(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), 50)
	paid(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 100)
	paid(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), 120)
	paid(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 200)

	dc := NewDashboardController(store)
	dc.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }

	const secret = "dashboard-secret"
	r := gin.New()
	r.GET("/dashboard", utils.AuthMiddleware(secret, store), dc.GetDashboardOverview)
	token, err := utils.GenerateToken(secret, 2, models.RoleSalonOwner, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var overview DashboardOverview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Equal(t, 220.0, overview.MonthlyRevenue)
	assert.Equal(t, 470.0, overview.TotalRevenue)
	assert.Equal(t, 4, overview.BookingsByStatus[models.BookingConfirmed])
}
