// controllers/salon.go
package controllers

import (
	"net/http"
	"strings"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

type SalonInput struct {
	Name                string  `json:"name" binding:"required"`
	NameEn              string  `json:"nameEn"`
	Description         string  `json:"description"`
	DescriptionEn       string  `json:"descriptionEn"`
	Address             string  `json:"address" binding:"required"`
	AddressEn           string  `json:"addressEn"`
	City                string  `json:"city" binding:"required"`
	CityEn              string  `json:"cityEn"`
	District            string  `json:"district"`
	DistrictEn          string  `json:"districtEn"`
	PhoneNumber         string  `json:"phoneNumber" binding:"required,phone"`
	Email               string  `json:"email" binding:"omitempty,email"`
	Gender              string  `json:"gender" binding:"required,oneof=female_only male_only both"`
	HasPrivateRooms     bool    `json:"hasPrivateRooms"`
	HasFemaleStaffOnly  bool    `json:"hasFemaleStaffOnly"`
	ProvidesHomeService bool    `json:"providesHomeService"`
	IsActive            *bool   `json:"isActive"`
	OpeningHours        string  `json:"openingHours"`
	Categories          string  `json:"categories"`
	Amenities           string  `json:"amenities"`
	CoverImage          string  `json:"coverImage"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
}

func (in SalonInput) apply(s *models.Salon) {
	s.Name = in.Name
	s.NameEn = in.NameEn
	s.Description = in.Description
	s.DescriptionEn = in.DescriptionEn
	s.Address = in.Address
	s.AddressEn = in.AddressEn
	s.City = in.City
	s.CityEn = in.CityEn
	s.District = in.District
	s.DistrictEn = in.DistrictEn
	s.PhoneNumber = in.PhoneNumber
	s.Email = in.Email
	s.Gender = in.Gender
	s.HasPrivateRooms = in.HasPrivateRooms
	s.HasFemaleStaffOnly = in.HasFemaleStaffOnly
	s.ProvidesHomeService = in.ProvidesHomeService
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	s.OpeningHours = in.OpeningHours
	s.Categories = in.Categories
	s.Amenities = in.Amenities
	s.CoverImage = in.CoverImage
	s.Latitude = in.Latitude
	s.Longitude = in.Longitude
}

type SalonController struct {
	store storage.Storage
}

func NewSalonController(store storage.Storage) *SalonController {
	return &SalonController{store: store}
}

// ListSalons applies the optional query filters. Privacy flags only filter when "true".
func (sc *SalonController) ListSalons(c *gin.Context) {
	if g := c.Query("gender"); g != "" && !models.ValidSalonGender(g) {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput)
		return
	}
	filter := storage.SalonFilter{
		Gender:              c.Query("gender"),
		City:                strings.TrimSpace(c.Query("city")),
		HasPrivateRooms:     c.Query("hasPrivateRooms") == "true",
		HasFemaleStaffOnly:  c.Query("hasFemaleStaffOnly") == "true",
		ProvidesHomeService: c.Query("providesHomeService") == "true",
		Category:            c.Query("category"),
	}

	salons, err := sc.store.ListSalons(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgSalonsFetchFailed, err)
		return
	}
	c.JSON(http.StatusOK, salons)
}

func (sc *SalonController) GetSalon(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	salon, err := sc.store.GetSalon(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, utils.MsgSalonNotFound)
		return
	}
	c.JSON(http.StatusOK, salon)
}

func (sc *SalonController) ListServices(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	// only "true" narrows the list; any other value lists everything
	var available *bool
	if c.Query("isAvailable") == "true" {
		available = new(bool)
		*available = true
	}
	services, err := sc.store.ListServices(c.Request.Context(), id, storage.ServiceFilter{
		Category:    c.Query("category"),
		IsAvailable: available,
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (sc *SalonController) FeaturedServices(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	services, err := sc.store.ListFeaturedServices(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// ListReviews returns the visible reviews of a salon.
func (sc *SalonController) ListReviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reviews, err := sc.store.ListReviewsBySalon(c.Request.Context(), id, false)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgReviewsFetchFailed, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (sc *SalonController) ListStaff(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	staff, err := sc.store.ListStaffBySalon(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (sc *SalonController) OwnerSalons(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	salons, err := sc.store.ListSalonsByOwner(c.Request.Context(), user.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgSalonsFetchFailed, err)
		return
	}
	c.JSON(http.StatusOK, salons)
}

// CreateSalon registers a salon owned by the caller. New salons start unverified.
func (sc *SalonController) CreateSalon(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var input SalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	salon := models.Salon{OwnerID: user.ID, IsActive: true}
	input.apply(&salon)
	if err := sc.store.CreateSalon(c.Request.Context(), &salon); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusCreated, salon)
}

func (sc *SalonController) UpdateSalon(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input SalonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	salon, ok := ownedSalon(c, sc.store, user, id)
	if !ok {
		return
	}
	input.apply(salon)
	if err := sc.store.UpdateSalon(c.Request.Context(), salon); err != nil {
		respondError(c, err, utils.MsgSalonNotFound)
		return
	}
	c.JSON(http.StatusOK, salon)
}
