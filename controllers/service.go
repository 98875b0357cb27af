// controllers/service.go
package controllers

import (
	"net/http"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name            string   `json:"name" binding:"required"`
	NameEn          string   `json:"nameEn"`
	Description     string   `json:"description"`
	DescriptionEn   string   `json:"descriptionEn"`
	Price           float64  `json:"price" binding:"required,gt=0"`
	DiscountedPrice *float64 `json:"discountedPrice" binding:"omitempty,gt=0"`
	Category        string   `json:"category" binding:"required"`
	Duration        int      `json:"duration" binding:"required,min=1"` // in minutes
	Image           string   `json:"image"`
	Featured        bool     `json:"featured"`
	IsPromoted      bool     `json:"isPromoted"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name            *string  `json:"name"`
	NameEn          *string  `json:"nameEn"`
	Description     *string  `json:"description"`
	DescriptionEn   *string  `json:"descriptionEn"`
	Price           *float64 `json:"price" binding:"omitempty,gt=0"`
	DiscountedPrice *float64 `json:"discountedPrice" binding:"omitempty,gte=0"`
	Category        *string  `json:"category"`
	Duration        *int     `json:"duration" binding:"omitempty,min=1"`
	Image           *string  `json:"image"`
	Featured        *bool    `json:"featured"`
	IsPromoted      *bool    `json:"isPromoted"`
	IsAvailable     *bool    `json:"isAvailable"`
}

type ServiceController struct {
	store storage.Storage
	recs  *services.RecommendationService
}

func NewServiceController(store storage.Storage, recs *services.RecommendationService) *ServiceController {
	return &ServiceController{store: store, recs: recs}
}

func (sc *ServiceController) PromotedServices(c *gin.Context) {
	list, err := sc.store.ListPromotedServices(c.Request.Context())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetService retrieves a specific service by ID
func (sc *ServiceController) GetService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	service, err := sc.store.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, utils.MsgServiceNotFound)
		return
	}
	c.JSON(http.StatusOK, service)
}

// SuggestedTimes never fails once the service exists; the defaults are used
// when the model is unavailable.
func (sc *ServiceController) SuggestedTimes(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	service, err := sc.store.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, utils.MsgServiceNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"times": sc.recs.SuggestTimes(c.Request.Context(), user, service)})
}

// CreateService adds a service to a salon the caller owns.
func (sc *ServiceController) CreateService(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	salonID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	if _, ok := ownedSalon(c, sc.store, user, salonID); !ok {
		return
	}

	service := models.Service{
		SalonID:         salonID,
		Name:            input.Name,
		NameEn:          input.NameEn,
		Description:     input.Description,
		DescriptionEn:   input.DescriptionEn,
		Price:           input.Price,
		DiscountedPrice: input.DiscountedPrice,
		Category:        input.Category,
		Duration:        input.Duration,
		Image:           input.Image,
		Featured:        input.Featured,
		IsPromoted:      input.IsPromoted,
		IsAvailable:     true,
	}
	if err := sc.store.CreateService(c.Request.Context(), &service); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

// UpdateService updates an existing service
func (sc *ServiceController) UpdateService(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	ctx := c.Request.Context()
	service, err := sc.store.GetService(ctx, id)
	if err != nil {
		respondError(c, err, utils.MsgServiceNotFound)
		return
	}
	if _, ok := ownedSalon(c, sc.store, user, service.SalonID); !ok {
		return
	}

	// Update fields if provided
	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.NameEn != nil {
		service.NameEn = *input.NameEn
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.DescriptionEn != nil {
		service.DescriptionEn = *input.DescriptionEn
	}
	if input.Price != nil {
		service.Price = *input.Price
	}
	if input.DiscountedPrice != nil {
		// zero clears the discount
		if *input.DiscountedPrice == 0 {
			service.DiscountedPrice = nil
		} else {
			service.DiscountedPrice = input.DiscountedPrice
		}
	}
	if input.Category != nil {
		service.Category = *input.Category
	}
	if input.Duration != nil {
		service.Duration = *input.Duration
	}
	if input.Image != nil {
		service.Image = *input.Image
	}
	if input.Featured != nil {
		service.Featured = *input.Featured
	}
	if input.IsPromoted != nil {
		service.IsPromoted = *input.IsPromoted
	}
	if input.IsAvailable != nil {
		service.IsAvailable = *input.IsAvailable
	}

	if err := sc.store.UpdateService(ctx, service); err != nil {
		respondError(c, err, utils.MsgServiceNotFound)
		return
	}
	c.JSON(http.StatusOK, service)
}
