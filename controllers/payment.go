package controllers

import (
	"errors"
	"net/http"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingDetails is the booking part of a payment request. Salon and service
// may be left out of confirm-booking; they are then read from the intent.
type BookingDetails struct {
	SalonID       uint   `json:"salonId"`
	StaffID       *uint  `json:"staffId"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required,hhmm"`
	PaymentMethod string `json:"paymentMethod" binding:"omitempty,oneof=card mada applepay cash"`
	Notes         string `json:"notes"`
}

func (d BookingDetails) input(serviceID uint) (services.BookingInput, error) {
	date, err := utils.ParseBookingDate(d.Date)
	if err != nil {
		return services.BookingInput{}, err
	}
	method := d.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCard
	}
	return services.BookingInput{
		SalonID:       d.SalonID,
		ServiceID:     serviceID,
		StaffID:       d.StaffID,
		Date:          date,
		Time:          d.Time,
		PaymentMethod: method,
		Notes:         d.Notes,
	}, nil
}

type CreateIntentInput struct {
	Amount         float64        `json:"amount"`
	ServiceID      uint           `json:"serviceId" binding:"required"`
	BookingDetails BookingDetails `json:"bookingDetails"`
}

type ConfirmBookingInput struct {
	PaymentIntentID string         `json:"paymentIntentId" binding:"required"`
	ServiceID       uint           `json:"serviceId"`
	BookingDetails  BookingDetails `json:"bookingDetails"`
}

type PaymentController struct {
	payments *services.PaymentService
	log      *zap.Logger
}

func NewPaymentController(payments *services.PaymentService, log *zap.Logger) *PaymentController {
	return &PaymentController{payments: payments, log: log}
}

func (pc *PaymentController) CreateIntent(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var input CreateIntentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	if input.Amount <= 0 {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidAmount)
		return
	}
	details, err := input.BookingDetails.input(input.ServiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidBooking, err)
		return
	}

	result, err := pc.payments.CreateIntent(c.Request.Context(), user, input.Amount, details)
	if err != nil {
		pc.respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmBooking turns a succeeded intent into a confirmed paid booking.
func (pc *PaymentController) ConfirmBooking(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var input ConfirmBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	details, err := input.BookingDetails.input(input.ServiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidBooking, err)
		return
	}

	booking, txn, err := pc.payments.ConfirmBooking(c.Request.Context(), user, input.PaymentIntentID, details)
	if err != nil {
		pc.respondPaymentError(c, err)
		return
	}
	pc.log.Info("paid booking recorded",
		zap.Uint("booking_id", booking.ID),
		zap.Uint("user_id", user.ID),
		zap.String("payment_intent", txn.GatewayID),
	)
	c.JSON(http.StatusCreated, gin.H{"booking": booking, "paymentTransaction": txn})
}

func (pc *PaymentController) Transactions(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	txns, err := pc.payments.Transactions(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (pc *PaymentController) respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidAmount)
	case errors.Is(err, services.ErrPaymentNotSucceeded):
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgPaymentNotCompleted)
	case errors.Is(err, services.ErrAlreadyProcessed):
		utils.RespondWithError(c, http.StatusConflict, utils.MsgPaymentProcessed)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, http.StatusForbidden, utils.MsgForbidden)
	case errors.Is(err, services.ErrPaymentsDisabled):
		utils.RespondWithError(c, http.StatusServiceUnavailable, utils.MsgPaymentFailed, err)
	default:
		pc.log.Error("payment request failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgPaymentFailed, err)
	}
}
