package controllers

import (
	"net/http"

	"salonbook-backend/models"
	"salonbook-backend/storage"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

type StaffInput struct {
	Name           string `json:"name" binding:"required"`
	NameEn         string `json:"nameEn"`
	Specialization string `json:"specialization"`
	Bio            string `json:"bio"`
	BioEn          string `json:"bioEn"`
	Gender         string `json:"gender" binding:"omitempty,oneof=male female"`
	IsAvailable    *bool  `json:"isAvailable"`
}

type StaffController struct {
	store storage.Storage
}

func NewStaffController(store storage.Storage) *StaffController {
	return &StaffController{store: store}
}

func (sc *StaffController) CreateStaff(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	salonID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input StaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}
	if _, ok := ownedSalon(c, sc.store, user, salonID); !ok {
		return
	}

	staff := models.Staff{
		SalonID:        salonID,
		Name:           input.Name,
		NameEn:         input.NameEn,
		Specialization: input.Specialization,
		Bio:            input.Bio,
		BioEn:          input.BioEn,
		Gender:         input.Gender,
		IsAvailable:    input.IsAvailable == nil || *input.IsAvailable,
	}
	if err := sc.store.CreateStaff(c.Request.Context(), &staff); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, utils.MsgServerError, err)
		return
	}
	c.JSON(http.StatusCreated, staff)
}

func (sc *StaffController) UpdateStaff(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input StaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, utils.MsgInvalidInput, err)
		return
	}

	ctx := c.Request.Context()
	staff, err := sc.store.GetStaff(ctx, id)
	if err != nil {
		respondError(c, err, utils.MsgStaffNotFound)
		return
	}
	if _, ok := ownedSalon(c, sc.store, user, staff.SalonID); !ok {
		return
	}

	staff.Name = input.Name
	staff.NameEn = input.NameEn
	staff.Specialization = input.Specialization
	staff.Bio = input.Bio
	staff.BioEn = input.BioEn
	staff.Gender = input.Gender
	if input.IsAvailable != nil {
		staff.IsAvailable = *input.IsAvailable
	}
	if err := sc.store.UpdateStaff(ctx, staff); err != nil {
		respondError(c, err, utils.MsgStaffNotFound)
		return
	}
	c.JSON(http.StatusOK, staff)
}
