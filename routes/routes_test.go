package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"salonbook-backend/config"
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "routes-test-secret"

type stubGateway struct {
	mu      sync.Mutex
	intents map[string]*services.Intent
}

func (g *stubGateway) CreateIntent(_ context.Context, req services.IntentRequest) (*services.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("pi_%d", len(g.intents)+1)
	in := &services.Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method",
		Amount: req.Amount, Currency: req.Currency, Metadata: req.Metadata}
	g.intents[id] = in
	return in, nil
}

func (g *stubGateway) GetIntent(_ context.Context, id string) (*services.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	in, ok := g.intents[id]
	if !ok {
		return nil, errors.New("no such payment intent")
	}
	cp := *in
	return &cp, nil
}

func (g *stubGateway) succeed(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[id].Status = services.IntentSucceeded
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	store   *storage.MemStorage
	gateway *stubGateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.PasswordCost = 4
	require.NoError(t, utils.RegisterValidators())

	store := storage.NewMemStorage()
	require.NoError(t, storage.Seed(context.Background(), store, utils.HashPassword))

	cfg := &config.Config{
		Server:    config.ServerConfig{AppEnv: "development", CORSOrigins: []string{"http://localhost:3000"}},
		JWT:       config.JWTConfig{Secret: testSecret, Expiry: time.Hour},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
	log := zap.NewNop()
	gateway := &stubGateway{intents: make(map[string]*services.Intent)}

	router := SetupRouter(Dependencies{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Bookings: services.NewBookingService(store, nil, log),
		Payments: services.NewPaymentService(gateway, store, nil, log, "sar"),
		Recs:     services.NewRecommendationService(store, nil, log),
	})
	return &testServer{t: t, router: router, store: store, gateway: gateway}
}

func (s *testServer) token(username string) string {
	s.t.Helper()
	u, err := s.store.GetUserByUsername(context.Background(), username)
	require.NoError(s.t, err)
	tok, err := utils.GenerateToken(testSecret, u.ID, u.Role, time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sampleBooking() gin.H {
	return gin.H{
		"serviceId":     5,
		"salonId":       2,
		"date":          "2025-01-10",
		"time":          "14:00",
		"totalPrice":    150,
		"paymentMethod": "cash",
	}
}

func TestCreateBookingThenListMine(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("customer")

	w := s.do(http.MethodGet, "/api/bookings/my", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Booking](t, w))

	w = s.do(http.MethodPost, "/api/bookings", sampleBooking(), tok)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Booking](t, w)
	assert.Equal(t, models.BookingPending, created.Status)
	assert.Equal(t, models.PaymentPending, created.PaymentStatus)
	assert.Equal(t, uint(2), created.SalonID)
	assert.Equal(t, "2025-01-10", created.Date.Format(utils.DateLayout))

	w = s.do(http.MethodGet, "/api/bookings/my", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]models.Booking](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
}

func TestCreateBookingValidation(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("customer")

	cases := map[string]func(gin.H){
		"missing salon":  func(b gin.H) { delete(b, "salonId") },
		"bad time":       func(b gin.H) { b["time"] = "25:99" },
		"bad date":       func(b gin.H) { b["date"] = "10/01/2025" },
		"unknown method": func(b gin.H) { b["paymentMethod"] = "bitcoin" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := sampleBooking()
			mutate(body)
			w := s.do(http.MethodPost, "/api/bookings", body, tok)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, utils.MsgInvalidBooking, decode[gin.H](t, w)["message"])
		})
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("customer")
	for i := 0; i < 7; i++ {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/bookings", sampleBooking(), tok).Code)
	}

	w := s.do(http.MethodPatch, "/api/bookings/7/status", gin.H{"status": "bogus"}, tok)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.MsgInvalidStatus, decode[gin.H](t, w)["message"])

	w = s.do(http.MethodGet, "/api/bookings/7", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.BookingPending, decode[models.Booking](t, w).Status)

	// enum is checked before the lookup
	w = s.do(http.MethodPatch, "/api/bookings/999/status", gin.H{"status": "bogus"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPatch, "/api/bookings/999/status", gin.H{"status": "confirmed"}, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/bookings", sampleBooking(), s.token("customer"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[models.Booking](t, w).ID
	path := fmt.Sprintf("/api/bookings/%d/status", id)

	// salon 2 belongs to femaleowner
	w = s.do(http.MethodPatch, path, gin.H{"status": "confirmed"}, s.token("maleowner"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPatch, path, gin.H{"status": "confirmed"}, s.token("malecustomer"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, path, gin.H{"status": "confirmed"}, s.token("femaleowner"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.BookingConfirmed, decode[models.Booking](t, w).Status)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/bookings/%d/cancel", id), nil, s.token("customer"))
	require.Equal(t, http.StatusOK, w.Code)
	cancelled := decode[models.Booking](t, w)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
}

func TestSessionAndRoleChecks(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/bookings/my", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, utils.MsgLoginRequired, decode[gin.H](t, w)["message"])

	w = s.do(http.MethodGet, "/api/bookings/my", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/owner/salons", nil, s.token("customer"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, utils.MsgForbidden, decode[gin.H](t, w)["message"])

	w = s.do(http.MethodPatch, "/api/admin/reviews/1/visibility", gin.H{"hidden": true}, s.token("femaleowner"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/owner/salons", nil, s.token("femaleowner"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Salon](t, w), 3)
}

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t)
	register := gin.H{
		"username":    "noura",
		"password":    "secret123",
		"name":        "Noura",
		"email":       "noura@example.com",
		"phoneNumber": "+966500000001",
		"language":    "en",
	}

	w := s.do(http.MethodPost, "/api/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode[struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}](t, w)
	assert.Equal(t, models.RoleCustomer, body.User.Role)
	assert.NotEmpty(t, body.Token)
	assert.NotContains(t, w.Body.String(), "secret123")
	assert.Contains(t, w.Header().Get("Set-Cookie"), utils.TokenCookie+"=")

	w = s.do(http.MethodPost, "/api/register", register, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.MsgUserExists, decode[gin.H](t, w)["message"])

	w = s.do(http.MethodPost, "/api/login", gin.H{"username": "noura", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/login", gin.H{"username": "noura", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}](t, w)
	assert.NotNil(t, login.User.LastLoginAt)

	w = s.do(http.MethodGet, "/api/user", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "noura", decode[models.User](t, w).Username)

	w = s.do(http.MethodPost, "/api/logout", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/register", gin.H{
		"username":    "sneaky",
		"password":    "secret123",
		"name":        "Sneaky",
		"email":       "sneaky@example.com",
		"phoneNumber": "+966500000002",
		"role":        "admin",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalonQueries(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/salons?gender=male_only", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	for _, salon := range decode[[]models.Salon](t, w) {
		assert.Contains(t, []string{models.GenderMaleOnly, models.GenderBoth}, salon.Gender)
	}

	w = s.do(http.MethodGet, "/api/salons?hasPrivateRooms=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	private := decode[[]models.Salon](t, w)
	require.NotEmpty(t, private)
	for _, salon := range private {
		assert.True(t, salon.HasPrivateRooms)
	}

	w = s.do(http.MethodGet, "/api/salons/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Beauty Touches Salon", decode[models.Salon](t, w).NameEn)

	w = s.do(http.MethodGet, "/api/salons/404", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, utils.MsgSalonNotFound, decode[gin.H](t, w)["message"])

	w = s.do(http.MethodGet, "/api/salons/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/salons/1/featured-services", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	for _, svc := range decode[[]models.Service](t, w) {
		assert.True(t, svc.Featured)
	}

	w = s.do(http.MethodGet, "/api/salons/1/services", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	allServices := decode[[]models.Service](t, w)
	require.NotEmpty(t, allServices)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/owner/services/%d", allServices[0].ID), gin.H{"isAvailable": false}, s.token("femaleowner"))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/salons/1/services?isAvailable=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Service](t, w), len(allServices)-1)
	for _, value := range []string{"false", "maybe"} {
		w = s.do(http.MethodGet, "/api/salons/1/services?isAvailable="+value, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]models.Service](t, w), len(allServices), value)
	}

	w = s.do(http.MethodGet, "/api/salons?gender=unisex", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/services/promoted", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	for _, svc := range decode[[]models.Service](t, w) {
		assert.True(t, svc.IsPromoted)
	}
}

func TestReviewsUpdateSalonRating(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/reviews", gin.H{"salonId": 3, "rating": 4, "comment": "جيد"}, s.token("malecustomer"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[models.Review](t, w)
	w = s.do(http.MethodPost, "/api/reviews", gin.H{"salonId": 3, "rating": 5}, s.token("customer"))
	require.Equal(t, http.StatusCreated, w.Code)

	salon := decode[models.Salon](t, s.do(http.MethodGet, "/api/salons/3", nil, ""))
	assert.Equal(t, 4.5, salon.Rating)
	assert.Equal(t, 2, salon.ReviewCount)

	w = s.do(http.MethodPost, "/api/reviews", gin.H{"salonId": 3, "rating": 6}, s.token("customer"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.MsgInvalidReview, decode[gin.H](t, w)["message"])

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/admin/reviews/%d/visibility", first.ID), gin.H{"hidden": true}, s.token("admin"))
	require.Equal(t, http.StatusOK, w.Code)
	salon = decode[models.Salon](t, s.do(http.MethodGet, "/api/salons/3", nil, ""))
	assert.Equal(t, 5.0, salon.Rating)
	assert.Equal(t, 1, salon.ReviewCount)

	w = s.do(http.MethodGet, "/api/salons/3/reviews", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Review](t, w), 1)

	// salon 3 belongs to maleowner
	path := fmt.Sprintf("/api/owner/reviews/%d/response", first.ID)
	w = s.do(http.MethodPut, path, gin.H{"response": "thanks"}, s.token("femaleowner"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPut, path, gin.H{"response": "شكراً لك"}, s.token("maleowner"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "شكراً لك", decode[models.Review](t, w).OwnerResponse)
}

func TestReviewOfForeignBookingIsForbidden(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/bookings", sampleBooking(), s.token("customer"))
	require.Equal(t, http.StatusCreated, w.Code)
	booking := decode[models.Booking](t, w)

	w = s.do(http.MethodPost, "/api/reviews", gin.H{"salonId": 2, "bookingId": booking.ID, "rating": 3}, s.token("malecustomer"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/reviews", gin.H{"salonId": 2, "bookingId": booking.ID, "rating": 3}, s.token("customer"))
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(http.MethodGet, fmt.Sprintf("/api/bookings/%d", booking.ID), nil, s.token("customer"))
	assert.True(t, decode[models.Booking](t, w).IsRated)
}

func paymentDetails() gin.H {
	return gin.H{"salonId": 1, "date": "2025-02-01", "time": "11:30", "paymentMethod": "mada"}
}

func TestPaymentConfirmation(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("customer")

	w := s.do(http.MethodPost, "/api/payment/create-intent", gin.H{"amount": 0, "serviceId": 1, "bookingDetails": paymentDetails()}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.MsgInvalidAmount, decode[gin.H](t, w)["message"])

	w = s.do(http.MethodPost, "/api/payment/create-intent", gin.H{"amount": 150, "serviceId": 1, "bookingDetails": paymentDetails()}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	intent := decode[services.IntentResult](t, w)
	require.NotEmpty(t, intent.PaymentIntentID)
	assert.NotEmpty(t, intent.ClientSecret)

	confirm := gin.H{"paymentIntentId": intent.PaymentIntentID, "serviceId": 1, "bookingDetails": paymentDetails()}

	w = s.do(http.MethodPost, "/api/payment/confirm-booking", confirm, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.MsgPaymentNotCompleted, decode[gin.H](t, w)["message"])
	assert.Empty(t, decode[[]models.Booking](t, s.do(http.MethodGet, "/api/bookings/my", nil, tok)))
	assert.Empty(t, decode[[]models.PaymentTransaction](t, s.do(http.MethodGet, "/api/payment/transactions", nil, tok)))

	s.gateway.succeed(intent.PaymentIntentID)

	w = s.do(http.MethodPost, "/api/payment/confirm-booking", confirm, s.token("malecustomer"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/payment/confirm-booking", confirm, tok)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	paid := decode[struct {
		Booking            models.Booking            `json:"booking"`
		PaymentTransaction models.PaymentTransaction `json:"paymentTransaction"`
	}](t, w)
	assert.Equal(t, models.BookingConfirmed, paid.Booking.Status)
	assert.Equal(t, models.PaymentPaid, paid.Booking.PaymentStatus)
	assert.Equal(t, 150.0, paid.Booking.TotalPrice)
	assert.Equal(t, paid.Booking.ID, paid.PaymentTransaction.BookingID)

	w = s.do(http.MethodPost, "/api/payment/confirm-booking", confirm, tok)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Len(t, decode[[]models.PaymentTransaction](t, s.do(http.MethodGet, "/api/payment/transactions", nil, tok)), 1)

	w = s.do(http.MethodGet, "/api/user/membership", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	membership := decode[struct {
		LoyaltyPoints    int                   `json:"loyaltyPoints"`
		CurrentTier      models.MembershipTier `json:"currentTier"`
		NextTier         models.MembershipTier `json:"nextTier"`
		PointsToNextTier int                   `json:"pointsToNextTier"`
	}](t, w)
	assert.Equal(t, services.LoyaltyPointsPerBooking, membership.LoyaltyPoints)
	assert.Equal(t, "Silver", membership.CurrentTier.NameEn)
	assert.Equal(t, "Gold", membership.NextTier.NameEn)
	assert.Equal(t, 90, membership.PointsToNextTier)
}

func TestRecommendationsFallBackWithoutModel(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("customer")

	w := s.do(http.MethodGet, "/api/recommendations?salonId=1&limit=10&preferences=hair,makeup", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Recommendations []services.Recommendation `json:"recommendations"`
		Message         string                    `json:"message"`
	}](t, w)
	require.Len(t, body.Recommendations, services.MaxRecommendationLimit)
	for i, rec := range body.Recommendations {
		assert.Equal(t, 90-i*10, rec.Score)
	}
	assert.Equal(t, "أهلاً بك في تطبيق الصالون!", body.Message)

	w = s.do(http.MethodGet, "/api/user/welcome-message", nil, s.token("malecustomer"))
	require.Equal(t, http.StatusOK, w.Code)
	welcome := decode[struct {
		Message         string                    `json:"message"`
		Recommendations []services.Recommendation `json:"recommendations"`
	}](t, w)
	assert.Equal(t, "Welcome to our salon app!", welcome.Message)
	assert.Len(t, welcome.Recommendations, services.DefaultRecommendationLimit)

	w = s.do(http.MethodGet, "/api/services/1/suggested-times", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.DefaultSuggestedTimes, decode[struct {
		Times []string `json:"times"`
	}](t, w).Times)

	w = s.do(http.MethodGet, "/api/recommendations?limit=many", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerManagement(t *testing.T) {
	s := newTestServer(t)
	female := s.token("femaleowner")
	male := s.token("maleowner")

	salon := gin.H{
		"name":        "صالون الورد",
		"address":     "حي النخيل",
		"city":        "الرياض",
		"phoneNumber": "+966112223344",
		"gender":      "female_only",
	}
	w := s.do(http.MethodPost, "/api/owner/salons", salon, female)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Salon](t, w)
	assert.False(t, created.Verified)

	salon["nameEn"] = "Rose Salon"
	w = s.do(http.MethodPut, fmt.Sprintf("/api/owner/salons/%d", created.ID), salon, male)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPut, fmt.Sprintf("/api/owner/salons/%d", created.ID), salon, female)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rose Salon", decode[models.Salon](t, w).NameEn)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/owner/salons/%d/services", created.ID),
		gin.H{"name": "قص شعر", "price": 90, "category": "hair", "duration": 45}, female)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	service := decode[models.Service](t, w)
	assert.True(t, service.IsAvailable)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/owner/services/%d", service.ID), gin.H{"isAvailable": false}, male)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPut, fmt.Sprintf("/api/owner/services/%d", service.ID), gin.H{"isAvailable": false, "price": 95}, female)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Service](t, w)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, 95.0, updated.Price)
	assert.Equal(t, "قص شعر", updated.Name)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/owner/salons/%d/staff", created.ID), gin.H{"name": "هند", "gender": "female"}, female)
	require.Equal(t, http.StatusCreated, w.Code)
	staff := decode[models.Staff](t, w)
	w = s.do(http.MethodPut, fmt.Sprintf("/api/owner/staff/%d", staff.ID), gin.H{"name": "هند", "isAvailable": false}, female)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.Staff](t, w).IsAvailable)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/salons/%d/staff", created.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Staff](t, w), 1)
}

func TestPromotions(t *testing.T) {
	s := newTestServer(t)
	starts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	promo := gin.H{
		"salonId":         1,
		"code":            " ramadan25 ",
		"title":           "خصم رمضان",
		"discountPercent": 25,
		"startsAt":        starts,
		"endsAt":          starts.AddDate(0, 1, 0),
	}

	w := s.do(http.MethodPost, "/api/owner/promotions", promo, s.token("maleowner"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/owner/promotions", promo, s.token("femaleowner"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Promotion](t, w)
	assert.Equal(t, "RAMADAN25", created.Code)
	assert.True(t, created.IsActive)

	w = s.do(http.MethodPost, "/api/owner/promotions", promo, s.token("femaleowner"))
	assert.Equal(t, http.StatusConflict, w.Code)

	delete(promo, "salonId")
	promo["code"] = "WELCOME"
	w = s.do(http.MethodPost, "/api/owner/promotions", promo, s.token("femaleowner"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPost, "/api/owner/promotions", promo, s.token("admin"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/promotions/code/ramadan25", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[models.Promotion](t, w).ID)

	w = s.do(http.MethodGet, "/api/promotions?salonId=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Promotion](t, w), 1)

	w = s.do(http.MethodGet, "/api/promotions/code/NOPE", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembershipTiers(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/membership-tiers", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	tiers := decode[[]models.MembershipTier](t, w)
	require.Len(t, tiers, 3)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/membership-tiers/%d", tiers[1].ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tiers[1].NameEn, decode[models.MembershipTier](t, w).NameEn)
	w = s.do(http.MethodGet, "/api/membership-tiers/99", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, utils.MsgTierNotFound, decode[gin.H](t, w)["message"])

	tier := gin.H{"name": "ماسي", "nameEn": "Diamond", "pointsThreshold": 1000, "discountPercent": 15}
	w = s.do(http.MethodPost, "/api/admin/membership-tiers", tier, s.token("femaleowner"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPost, "/api/admin/membership-tiers", tier, s.token("admin"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/membership-tiers", nil, "")
	assert.Len(t, decode[[]models.MembershipTier](t, w), 4)
}

func TestProfileUpdate(t *testing.T) {
	s := newTestServer(t)
	tok := s.token("customer")

	w := s.do(http.MethodPut, "/api/user/profile", gin.H{"language": "en", "privateProfile": true}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/user", nil, tok)
	me := decode[models.User](t, w)
	assert.Equal(t, "en", me.Language)
	assert.True(t, me.PrivateProfile)
	assert.Equal(t, "سارة محمد", me.Name)

	w = s.do(http.MethodPut, "/api/user/profile", gin.H{"language": "fr"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/user/profile", gin.H{"email": "male.customer@example.com"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.MsgUserExists, decode[gin.H](t, w)["message"])
}

func TestOwnerDashboardAndBookings(t *testing.T) {
	s := newTestServer(t)
	customer := s.token("customer")

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/bookings", sampleBooking(), customer).Code)
	other := sampleBooking()
	other["salonId"] = 3
	other["serviceId"] = 9
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/bookings", other, customer).Code)

	w := s.do(http.MethodGet, "/api/owner/bookings", nil, s.token("femaleowner"))
	require.Equal(t, http.StatusOK, w.Code)
	bookings := decode[[]models.Booking](t, w)
	require.Len(t, bookings, 1)
	assert.Equal(t, uint(2), bookings[0].SalonID)

	w = s.do(http.MethodGet, "/api/owner/dashboard", nil, s.token("femaleowner"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	overview := decode[struct {
		SalonCount       int            `json:"salonCount"`
		TotalBookings    int            `json:"totalBookings"`
		BookingsByStatus map[string]int `json:"bookingsByStatus"`
		TotalRevenue     float64        `json:"totalRevenue"`
		TopServices      []struct {
			ServiceID uint `json:"serviceId"`
			Count     int  `json:"count"`
		} `json:"topServices"`
		RecentBookings []models.Booking `json:"recentBookings"`
	}](t, w)
	assert.Equal(t, 3, overview.SalonCount)
	assert.Equal(t, 1, overview.TotalBookings)
	assert.Equal(t, 1, overview.BookingsByStatus[models.BookingPending])
	assert.Equal(t, 0, overview.BookingsByStatus[models.BookingCompleted])
	assert.Zero(t, overview.TotalRevenue)
	require.Len(t, overview.TopServices, 1)
	assert.Equal(t, uint(5), overview.TopServices[0].ServiceID)
	assert.Len(t, overview.RecentBookings, 1)

	w = s.do(http.MethodGet, "/api/owner/reports", nil, s.token("maleowner"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quickStats")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))
}
