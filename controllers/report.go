// controllers/report.go
package controllers

import (
	"math"
	"net/http"
	"sort"
	"time"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	reportTopServices  = 4
	reportTopCustomers = 4
)

// ReportController handles all reporting functions
type ReportController struct {
	store storage.Storage
	log   *zap.Logger
	now   func() time.Time
}

func NewReportController(store storage.Storage, log *zap.Logger) *ReportController {
	return &ReportController{store: store, log: log, now: time.Now}
}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64           `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue float64           `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    float64           `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	TopServices           []ServiceSummary  `json:"topServices"`
	TopCustomers          []CustomerSummary `json:"topCustomers"`
	QuickStats            QuickStatistics   `json:"quickStats"`
}

type ServiceSummary struct {
	ServiceID uint    `json:"serviceId"`
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Revenue   float64 `json:"revenue"`
}

type CustomerSummary struct {
	UserID uint    `json:"userId"`
	Name   string  `json:"name"`
	Visits int     `json:"visits"`
	Spent  float64 `json:"spent"`
}

type QuickStatistics struct {
	TotalCustomers   int     `json:"totalCustomers"`
	TotalBookings    int     `json:"totalBookings"`
	AvgMonthlyVisits float64 `json:"avgMonthlyVisits"`
	AvgOrderValue    float64 `json:"avgOrderValue"`
}

// GetReportAnalytics compares paid revenue of the current month, quarter and
// year with the previous ones and ranks services and customers for this month.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	data, err := loadOwnerData(ctx, rc.store, user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}

	now := rc.now().UTC()
	firstOfMonth := utils.StartOfMonth(now)
	nextMonth := firstOfMonth.AddDate(0, 1, 0)
	quarterStart := rc.getQuarterStart(now)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	currentMonthRevenue := rc.getRevenue(data.bookings, firstOfMonth, nextMonth)
	lastMonthRevenue := rc.getRevenue(data.bookings, firstOfMonth.AddDate(0, -1, 0), firstOfMonth)
	currentQuarterRevenue := rc.getRevenue(data.bookings, quarterStart, quarterStart.AddDate(0, 3, 0))
	lastQuarterRevenue := rc.getRevenue(data.bookings, quarterStart.AddDate(0, -3, 0), quarterStart)
	currentYearRevenue := rc.getRevenue(data.bookings, yearStart, yearStart.AddDate(1, 0, 0))
	lastYearRevenue := rc.getRevenue(data.bookings, yearStart.AddDate(-1, 0, 0), yearStart)

	topCustomers := rc.getTopCustomers(c, data.bookings, firstOfMonth, nextMonth, reportTopCustomers)

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           rc.calculateGrowthPercentage(currentMonthRevenue, lastMonthRevenue),
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         rc.calculateGrowthPercentage(currentQuarterRevenue, lastQuarterRevenue),
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            rc.calculateGrowthPercentage(currentYearRevenue, lastYearRevenue),
		TopServices:           topServices(data, firstOfMonth, nextMonth, reportTopServices),
		TopCustomers:          topCustomers,
		QuickStats:            rc.getQuickStatistics(data.bookings),
	}
	c.JSON(http.StatusOK, summary)
}

// getRevenue sums paid bookings dated within [start, end).
func (rc *ReportController) getRevenue(bookings []models.Booking, start, end time.Time) float64 {
	var total float64
	for _, b := range bookings {
		if b.PaymentStatus == models.PaymentPaid && inRange(b.Date, start, end) {
			total += b.TotalPrice
		}
	}
	return roundTo(total, 2)
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return roundTo((current-previous)/previous*100, 1)
}

func (rc *ReportController) getTopCustomers(c *gin.Context, bookings []models.Booking, start, end time.Time, limit int) []CustomerSummary {
	byUser := make(map[uint]*CustomerSummary)
	for _, b := range bookings {
		if b.Status == models.BookingCancelled || !inRange(b.Date, start, end) {
			continue
		}
		summary, ok := byUser[b.UserID]
		if !ok {
			summary = &CustomerSummary{UserID: b.UserID}
			byUser[b.UserID] = summary
		}
		summary.Visits++
		if b.PaymentStatus == models.PaymentPaid {
			summary.Spent += b.TotalPrice
		}
	}

	customers := make([]CustomerSummary, 0, len(byUser))
	for _, s := range byUser {
		customers = append(customers, *s)
	}
	sort.Slice(customers, func(i, j int) bool {
		if customers[i].Spent != customers[j].Spent {
			return customers[i].Spent > customers[j].Spent
		}
		return customers[i].UserID < customers[j].UserID
	})
	if len(customers) > limit {
		customers = customers[:limit]
	}

	for i := range customers {
		u, err := rc.store.GetUser(c.Request.Context(), customers[i].UserID)
		if err != nil {
			rc.log.Warn("report customer lookup", zap.Uint("user_id", customers[i].UserID), zap.Error(err))
			continue
		}
		customers[i].Name = u.Name
	}
	return customers
}

func (rc *ReportController) getQuickStatistics(bookings []models.Booking) QuickStatistics {
	var stats QuickStatistics
	customers := make(map[uint]struct{})
	months := make(map[string]int)
	var paidCount int
	var paidTotal float64
	for _, b := range bookings {
		customers[b.UserID] = struct{}{}
		if b.Status == models.BookingCancelled {
			continue
		}
		stats.TotalBookings++
		months[b.Date.Format("2006-01")]++
		if b.PaymentStatus == models.PaymentPaid {
			paidCount++
			paidTotal += b.TotalPrice
		}
	}
	stats.TotalCustomers = len(customers)
	if len(months) > 0 {
		stats.AvgMonthlyVisits = roundTo(float64(stats.TotalBookings)/float64(len(months)), 1)
	}
	if paidCount > 0 {
		stats.AvgOrderValue = roundTo(paidTotal/float64(paidCount), 2)
	}
	return stats
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
