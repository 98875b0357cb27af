// controllers/booking.go
package controllers

import (
	"errors"
	"net/http"

	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

// BookingRequest is the client shape of a booking. Date accepts YYYY-MM-DD or RFC 3339.
type BookingRequest struct {
	SalonID       uint    `json:"salonId" binding:"required"`
	ServiceID     uint    `json:"serviceId" binding:"required"`
	StaffID       *uint   `json:"staffId"`
	Date          string  `json:"date" binding:"required"`
	Time          string  `json:"time" binding:"required,hhmm"`
	TotalPrice    float64 `json:"totalPrice" binding:"gte=0"`
	PaymentMethod string  `json:"paymentMethod" binding:"omitempty,oneof=card mada applepay cash"`
	Notes         string  `json:"notes"`
}

func (r BookingRequest) input() (services.BookingInput, error) {
	date, err := utils.ParseBookingDate(r.Date)
	if err != nil {
		return services.BookingInput{}, err
	}
	return services.BookingInput{
		SalonID:       r.SalonID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		Date:          date,
		Time:          r.Time,
		TotalPrice:    r.TotalPrice,
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
	}, nil
}

type UpdateStatusInput struct {
	Status string `json:"status"`
}

type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

func (bc *BookingController) CreateBooking(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidBooking, err)
		return
	}
	in, err := req.input()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidBooking, err)
		return
	}

	booking, err := bc.bookings.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (bc *BookingController) MyBookings(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	bookings, err := bc.bookings.ListMine(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgBookingsFetchFailed, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (bc *BookingController) GetBooking(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.bookings.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err, utils.MsgBookingNotFound)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateStatus rejects anything outside pending, confirmed, completed and
// cancelled with 400 before the booking is looked up.
func (bc *BookingController) UpdateStatus(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidStatus)
		return
	}

	booking, err := bc.bookings.UpdateStatus(c.Request.Context(), user, id, input.Status)
	if err != nil {
		bc.respondUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (bc *BookingController) CancelBooking(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.bookings.Cancel(c.Request.Context(), user, id)
	if err != nil {
		bc.respondUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// OwnerBookings lists the bookings of every salon the caller owns.
func (bc *BookingController) OwnerBookings(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	bookings, err := bc.bookings.ListForOwner(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgBookingsFetchFailed, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (bc *BookingController) respondUpdateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidStatus)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, http.StatusForbidden, utils.MsgForbidden)
	default:
		if isNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, utils.MsgBookingNotFound)
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgBookingUpdateFailed, err)
	}
}
