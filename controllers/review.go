package controllers

import (
	"net/http"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReviewInput struct {
	SalonID   uint    `json:"salonId" binding:"required"`
	ServiceID *uint   `json:"serviceId"`
	BookingID *uint   `json:"bookingId"`
	Rating    float64 `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment" binding:"max=2000"`
}

type ReviewResponseInput struct {
	Response string `json:"response" binding:"required,max=2000"`
}

type ReviewVisibilityInput struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

type ReviewController struct {
	store storage.Storage
}

func NewReviewController(store storage.Storage) *ReviewController {
	return &ReviewController{store: store}
}

// CreateReview stores a review and refreshes the salon rating. A referenced
// booking must belong to the reviewer and is marked as rated.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidReview, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := rc.store.GetSalon(ctx, input.SalonID); err != nil {
		respondError(c, err, utils.MsgSalonNotFound)
		return
	}
	if input.BookingID != nil {
		booking, err := rc.store.GetBooking(ctx, *input.BookingID)
		if err != nil {
			respondError(c, err, utils.MsgBookingNotFound)
			return
		}
		if booking.UserID != user.ID || booking.SalonID != input.SalonID {
			utils.RespondWithError(c, http.StatusForbidden, utils.MsgForbidden)
			return
		}
	}

	review := models.Review{
		UserID:    user.ID,
		SalonID:   input.SalonID,
		ServiceID: input.ServiceID,
		BookingID: input.BookingID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := rc.store.CreateReview(ctx, &review); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// RespondToReview lets the salon owner answer a review once or replace the answer.
func (rc *ReviewController) RespondToReview(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input ReviewResponseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	ctx := c.Request.Context()
	review, err := rc.store.GetReview(ctx, id)
	if err != nil {
		respondError(c, err, utils.MsgReviewNotFound)
		return
	}
	if _, ok := ownedSalon(c, rc.store, user, review.SalonID); !ok {
		return
	}

	updated, err := rc.store.RespondToReview(ctx, id, input.Response)
	if err != nil {
		respondError(c, err, utils.MsgReviewNotFound)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SetVisibility hides or restores a review. Hidden reviews do not count
// towards the salon rating.
func (rc *ReviewController) SetVisibility(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input ReviewVisibilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	review, err := rc.store.SetReviewHidden(c.Request.Context(), id, *input.Hidden)
	if err != nil {
		respondError(c, err, utils.MsgReviewNotFound)
		return
	}
	c.JSON(http.StatusOK, review)
}

// MyReviews lists the caller's own reviews, hidden ones included.
func (rc *ReviewController) MyReviews(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	reviews, err := rc.store.ListReviewsByUser(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgReviewsFetchFailed, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
