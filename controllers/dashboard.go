package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardTopServices    = 3
	dashboardRecentBookings = 5
)

type DashboardOverview struct {
	SalonCount       int              `json:"salonCount"`
	TotalBookings    int              `json:"totalBookings"`
	BookingsByStatus map[string]int   `json:"bookingsByStatus"`
	MonthlyRevenue   float64          `json:"monthlyRevenue"`
	TotalRevenue     float64          `json:"totalRevenue"`
	AverageRating    float64          `json:"averageRating"`
	ReviewCount      int              `json:"reviewCount"`
	TopServices      []ServiceSummary `json:"topServices"`
	RecentBookings   []models.Booking `json:"recentBookings"`
}

type DashboardController struct {
	store storage.Storage
	now   func() time.Time
}

func NewDashboardController(store storage.Storage) *DashboardController {
	return &DashboardController{store: store, now: time.Now}
}

// GetDashboardOverview sums up every salon the caller owns.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	data, err := loadOwnerData(ctx, dc.store, user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}

	overview := DashboardOverview{
		SalonCount:       len(data.salons),
		TotalBookings:    len(data.bookings),
		BookingsByStatus: make(map[string]int, len(models.BookingStatuses)),
		TopServices:      topServices(data, time.Time{}, time.Time{}, dashboardTopServices),
	}
	for _, s := range models.BookingStatuses {
		overview.BookingsByStatus[s] = 0
	}

	firstOfMonth := utils.StartOfMonth(dc.now().UTC())
	nextMonth := firstOfMonth.AddDate(0, 1, 0)
	for _, b := range data.bookings {
		overview.BookingsByStatus[b.Status]++
		if b.PaymentStatus != models.PaymentPaid {
			continue
		}
		overview.TotalRevenue += b.TotalPrice
		if inRange(b.Date, firstOfMonth, nextMonth) {
			overview.MonthlyRevenue += b.TotalPrice
		}
	}

	// salon ratings are already aggregates; weight them by review count
	var ratingSum float64
	for _, s := range data.salons {
		ratingSum += s.Rating * float64(s.ReviewCount)
		overview.ReviewCount += s.ReviewCount
	}
	if overview.ReviewCount > 0 {
		overview.AverageRating = roundTo(ratingSum/float64(overview.ReviewCount), 1)
	}

	recent := make([]models.Booking, len(data.bookings))
	copy(recent, data.bookings)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > dashboardRecentBookings {
		recent = recent[:dashboardRecentBookings]
	}
	overview.RecentBookings = recent

	c.JSON(http.StatusOK, overview)
}

// ownerData is everything the dashboard and reports read for one owner.
type ownerData struct {
	salons   []models.Salon
	bookings []models.Booking
	services map[uint]models.Service
}

func loadOwnerData(ctx context.Context, store storage.Storage, ownerID uint) (*ownerData, error) {
	salons, err := store.ListSalonsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	perSalonBookings := make([][]models.Booking, len(salons))
	perSalonServices := make([][]models.Service, len(salons))
	g, gctx := errgroup.WithContext(ctx)
	for i := range salons {
		g.Go(func() error {
			bookings, err := store.ListBookingsBySalon(gctx, salons[i].ID)
			if err != nil {
				return err
			}
			perSalonBookings[i] = bookings
			return nil
		})
		g.Go(func() error {
			services, err := store.ListServices(gctx, salons[i].ID, storage.ServiceFilter{})
			if err != nil {
				return err
			}
			perSalonServices[i] = services
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &ownerData{salons: salons, services: make(map[uint]models.Service)}
	for i := range salons {
		data.bookings = append(data.bookings, perSalonBookings[i]...)
		for _, s := range perSalonServices[i] {
			data.services[s.ID] = s
		}
	}
	return data, nil
}

// topServices ranks services by booking count within [start, end). Zero
// bounds mean unbounded. Revenue only counts paid bookings.
func topServices(data *ownerData, start, end time.Time, limit int) []ServiceSummary {
	byService := make(map[uint]*ServiceSummary)
	var order []uint
	for _, b := range data.bookings {
		if b.Status == models.BookingCancelled || !inRange(b.Date, start, end) {
			continue
		}
		summary, ok := byService[b.ServiceID]
		if !ok {
			name := ""
			if svc, found := data.services[b.ServiceID]; found {
				name = svc.Name
			}
			summary = &ServiceSummary{ServiceID: b.ServiceID, Name: name}
			byService[b.ServiceID] = summary
			order = append(order, b.ServiceID)
		}
		summary.Count++
		if b.PaymentStatus == models.PaymentPaid {
			summary.Revenue += b.TotalPrice
		}
	}

	out := make([]ServiceSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byService[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Revenue > out[j].Revenue
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && !t.Before(end) {
		return false
	}
	return true
}
